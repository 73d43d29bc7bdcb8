package console

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/enquiry-console/internal/domain"
	"github.com/spec-kit/enquiry-console/internal/leadstore"
	"github.com/spec-kit/enquiry-console/internal/reconcile"
	"github.com/spec-kit/enquiry-console/internal/remote"
	apperrors "github.com/spec-kit/enquiry-console/pkg/util/errorutil"
)

var base = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

type fakeEnquiries struct {
	store   *leadstore.Store
	updates []remote.UpdateFields
	created []remote.CreateFields
	err     error
}

func (f *fakeEnquiries) ListAll(context.Context) ([]*domain.Lead, error) { return nil, nil }

func (f *fakeEnquiries) Create(_ context.Context, fields remote.CreateFields) (*domain.Lead, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, fields)
	return &domain.Lead{ID: "new", ContactName: fields.ContactName, Phone: fields.Phone, CreatedAt: base}, nil
}

func (f *fakeEnquiries) Update(_ context.Context, id string, fields remote.UpdateFields) (*domain.Lead, error) {
	f.updates = append(f.updates, fields)
	if f.err != nil {
		return nil, f.err
	}
	lead, ok := f.store.Get(id)
	if !ok {
		return nil, apperrors.NewNotFound("enquiry", nil)
	}
	out := lead.Clone()
	if fields.Handler != nil {
		out.Handler = *fields.Handler
	}
	if fields.Disposition != nil {
		out.Disposition = *fields.Disposition
	}
	if fields.BusinessName != nil {
		out.BusinessName = *fields.BusinessName
	}
	if fields.Notes != nil {
		out.Notes = *fields.Notes
	}
	if fields.SecondaryContact != nil {
		out.SecondaryContact = *fields.SecondaryContact
	}
	out.UpdatedAt = out.UpdatedAt.Add(time.Minute)
	return out, nil
}

func (f *fakeEnquiries) Delete(context.Context, string) error { return nil }

type fakeClients struct {
	clients []domain.Client
	err     error
}

func (f *fakeClients) ListAll(context.Context) ([]domain.Client, error) { return f.clients, f.err }

type fakeSyncer struct {
	loads   int
	editing int
	loadErr error
}

func (f *fakeSyncer) Load(context.Context) (reconcile.Result, error) {
	f.loads++
	return reconcile.Result{Outcome: reconcile.OutcomeUnchanged}, f.loadErr
}
func (f *fakeSyncer) BeginEdit()             { f.editing++ }
func (f *fakeSyncer) EndEdit()               { f.editing-- }
func (f *fakeSyncer) Editing() bool          { return f.editing > 0 }
func (f *fakeSyncer) State() reconcile.State { return reconcile.StateIdle }

type fixture struct {
	svc       *Service
	store     *leadstore.Store
	enquiries *fakeEnquiries
	clients   *fakeClients
	syncer    *fakeSyncer
}

func mkLead(id string, offset int, handler domain.HandlerRef) *domain.Lead {
	at := base.Add(time.Duration(offset) * time.Minute)
	return &domain.Lead{ID: id, ContactName: "c-" + id, Phone: "98765 4321" + id[len(id)-1:], Handler: handler, CreatedAt: at, UpdatedAt: at}
}

func mkHandler(id, name string, role domain.HandlerRole, state domain.HandlerState) domain.Handler {
	return domain.Handler{ID: id, Name: name, Role: role, State: state}
}

// Roster: alice (1 lead), bob (0 leads), sam suspended, root administrative.
// Leads: a1 assigned to alice, l2 and l3 unassigned, l2 older.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := leadstore.New()
	store.ReplaceHandlers([]domain.Handler{
		mkHandler("alice", "Alice", domain.HandlerRoleRegular, domain.HandlerStateActive),
		mkHandler("bob", "Bob", domain.HandlerRoleRegular, domain.HandlerStateActive),
		mkHandler("sam", "Sam", domain.HandlerRoleRegular, domain.HandlerStateSuspended),
		mkHandler("root", "Root", domain.HandlerRoleAdministrative, domain.HandlerStateActive),
	})
	store.ReplaceAll([]*domain.Lead{
		mkLead("a1", 0, domain.AssignedTo("alice")),
		mkLead("l3", 20, domain.SourceTag(domain.SourceWebForm)),
		mkLead("l2", 10, domain.Unassigned()),
	})

	f := &fixture{
		store:     store,
		enquiries: &fakeEnquiries{store: store},
		clients:   &fakeClients{},
		syncer:    &fakeSyncer{},
	}
	svc, err := NewService(Dependencies{Store: store, Syncer: f.syncer, Enquiries: f.enquiries, Clients: f.clients})
	require.NoError(t, err)
	f.svc = svc
	return f
}

func TestNewServiceRequiresCollaborators(t *testing.T) {
	_, err := NewService(Dependencies{})
	assert.Error(t, err)
}

func TestBoard(t *testing.T) {
	f := newFixture(t)
	board := f.svc.Board()

	require.Len(t, board.Rows, 3)
	assert.Equal(t, "a1", board.Rows[0].Lead.ID)
	assert.Equal(t, "Alice", board.Rows[0].HandlerName)
	assert.True(t, board.Rows[0].Eligible)
	assert.Equal(t, "l2", board.Rows[1].Lead.ID)
	assert.True(t, board.Rows[1].Eligible)
	assert.Equal(t, "l3", board.Rows[2].Lead.ID)
	assert.False(t, board.Rows[2].Eligible)
	assert.Equal(t, "l2", board.OldestUnassignedID)

	require.NotNil(t, board.Suggested)
	assert.Equal(t, "bob", board.Suggested.ID)
	require.Len(t, board.Loads, 2)
	assert.Equal(t, HandlerLoad{HandlerID: "alice", Name: "Alice", Load: 1}, board.Loads[0])
	assert.Equal(t, HandlerLoad{HandlerID: "bob", Name: "Bob", Load: 0, Suggested: true}, board.Loads[1])
	assert.Equal(t, reconcile.StateIdle, board.State)
	assert.False(t, board.Editing)
}

func TestAssignMalformedInputMakesNoCall(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Assign(context.Background(), AssignInput{HandlerID: "bob"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
	assert.Empty(t, f.enquiries.updates)
}

func TestAssignRejections(t *testing.T) {
	cases := []struct {
		name string
		in   AssignInput
		code string
	}{
		{"unknown lead", AssignInput{LeadID: "missing", HandlerID: "bob"}, apperrors.CodeNotFound},
		{"unknown handler", AssignInput{LeadID: "l2", HandlerID: "ghost"}, apperrors.CodeConflict},
		{"suspended handler", AssignInput{LeadID: "l2", HandlerID: "sam"}, apperrors.CodeConflict},
		{"administrative handler", AssignInput{LeadID: "l2", HandlerID: "root"}, apperrors.CodeConflict},
		{"gate blocks newer lead", AssignInput{LeadID: "l3", HandlerID: "bob"}, apperrors.CodeConflict},
		{"non-suggested first assignment", AssignInput{LeadID: "l2", HandlerID: "alice"}, apperrors.CodeOverrideRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.Assign(context.Background(), tc.in)
			assert.True(t, apperrors.HasCode(err, tc.code), "got %v", err)
			assert.Empty(t, f.enquiries.updates)
		})
	}
}

func TestAssignBlockedReportsBlocker(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Assign(context.Background(), AssignInput{LeadID: "l3", HandlerID: "bob"})
	domainErr := apperrors.ToDomainError(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, "l2", domainErr.Details["blocked_by"])
}

func TestAssignSuggestedHandler(t *testing.T) {
	f := newFixture(t)
	before, _ := f.store.Get("a1")

	res, err := f.svc.Assign(context.Background(), AssignInput{LeadID: "l2", HandlerID: "bob"})
	require.NoError(t, err)
	assert.False(t, res.Overridden)
	assert.Equal(t, domain.AssignedTo("bob"), res.Lead.Handler)

	require.Len(t, f.enquiries.updates, 1)
	require.NotNil(t, f.enquiries.updates[0].SuggestedHandlerID)
	assert.Equal(t, "bob", *f.enquiries.updates[0].SuggestedHandlerID)

	stored, _ := f.store.Get("l2")
	assert.Equal(t, domain.AssignedTo("bob"), stored.Handler)
	after, _ := f.store.Get("a1")
	assert.Same(t, before, after)

	// l3 is now the oldest unassigned lead and loads are tied, so alice wins on name.
	board := f.svc.Board()
	assert.True(t, board.Rows[2].Eligible)
	assert.Equal(t, "alice", board.Suggested.ID)
}

func TestAssignOverrideConfirmed(t *testing.T) {
	f := newFixture(t)
	res, err := f.svc.Assign(context.Background(), AssignInput{LeadID: "l2", HandlerID: "alice", ConfirmOverride: true})
	require.NoError(t, err)
	assert.True(t, res.Overridden)
	stored, _ := f.store.Get("l2")
	assert.Equal(t, domain.AssignedTo("alice"), stored.Handler)
}

func TestReassignSkipsOverrideCheck(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Assign(context.Background(), AssignInput{LeadID: "l2", HandlerID: "bob"})
	require.NoError(t, err)

	// Loads are tied so alice is suggested; moving a1 to bob is a reassignment.
	res, err := f.svc.Assign(context.Background(), AssignInput{LeadID: "a1", HandlerID: "bob"})
	require.NoError(t, err)
	assert.False(t, res.Overridden)
	assert.Equal(t, domain.AssignedTo("bob"), res.Lead.Handler)

	require.Len(t, f.enquiries.updates, 2)
	assert.NotNil(t, f.enquiries.updates[0].SuggestedHandlerID)
	assert.Nil(t, f.enquiries.updates[1].SuggestedHandlerID, "reassignment must not carry a suggestion")
}

func TestAssignSameHandlerIsNoop(t *testing.T) {
	f := newFixture(t)
	res, err := f.svc.Assign(context.Background(), AssignInput{LeadID: "a1", HandlerID: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "a1", res.Lead.ID)
	assert.Empty(t, f.enquiries.updates)
}

func TestAssignUpstreamFailureLeavesStore(t *testing.T) {
	f := newFixture(t)
	f.enquiries.err = apperrors.NewUpstreamUnavailable(errors.New("dial tcp"))
	before, _ := f.store.Get("l2")

	_, err := f.svc.Assign(context.Background(), AssignInput{LeadID: "l2", HandlerID: "bob"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUpstreamUnavailable))
	after, _ := f.store.Get("l2")
	assert.Same(t, before, after)
}

func TestUpdateDisposition(t *testing.T) {
	f := newFixture(t)
	updated, err := f.svc.UpdateDisposition(context.Background(), "l2", "shortlisted")
	require.NoError(t, err)
	assert.Equal(t, "shortlisted", updated.Disposition)

	stored, _ := f.store.Get("l2")
	assert.Equal(t, "shortlisted", stored.Disposition)
	assert.Equal(t, updated.UpdatedAt, stored.UpdatedAt)
}

func TestUpdateDispositionRevertsOnFailure(t *testing.T) {
	f := newFixture(t)
	f.store.ApplyPatch("l2", leadstore.FieldChanges{Disposition: strPtr("new")})
	f.enquiries.err = apperrors.NewUpstreamUnavailable(errors.New("timeout"))

	_, err := f.svc.UpdateDisposition(context.Background(), "l2", "shortlisted")
	assert.Error(t, err)
	stored, _ := f.store.Get("l2")
	assert.Equal(t, "new", stored.Disposition)

	_, err = f.svc.UpdateDisposition(context.Background(), "missing", "x")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestUpdateDetails(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.UpdateDetails(context.Background(), "l2", DetailsInput{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))

	updated, err := f.svc.UpdateDetails(context.Background(), "l2", DetailsInput{BusinessName: strPtr("Acme"), Notes: strPtr("wants a demo")})
	require.NoError(t, err)
	assert.Equal(t, "Acme", updated.BusinessName)
	stored, _ := f.store.Get("l2")
	assert.Equal(t, "wants a demo", stored.Notes)
	assert.Equal(t, domain.Unassigned(), stored.Handler)
}

func TestCreateEnquiryReloads(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateEnquiry(context.Background(), CreateInput{ContactName: "Dev", Phone: "bad"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
	assert.Empty(t, f.enquiries.created)

	created, err := f.svc.CreateEnquiry(context.Background(), CreateInput{ContactName: " Dev ", Phone: "+91 98765 43210"})
	require.NoError(t, err)
	assert.Equal(t, "Dev", created.ContactName)
	assert.Equal(t, 1, f.syncer.loads)
}

func TestShortlistStatus(t *testing.T) {
	f := newFixture(t)
	f.clients.clients = []domain.Client{{ID: "c9", Phone: "+91-98765-43212"}}

	status, err := f.svc.ShortlistStatus(context.Background(), "l2")
	require.NoError(t, err)
	assert.True(t, status.Converted)
	assert.False(t, status.Actionable)
	require.NotNil(t, status.ClientID)
	assert.Equal(t, "c9", *status.ClientID)

	status, err = f.svc.ShortlistStatus(context.Background(), "l3")
	require.NoError(t, err)
	assert.False(t, status.Converted)
	assert.True(t, status.Actionable)

	f.clients.err = apperrors.NewUpstreamUnavailable(errors.New("down"))
	_, err = f.svc.ShortlistStatus(context.Background(), "l3")
	assert.Error(t, err)
}

func TestEditSessionAndRefresh(t *testing.T) {
	f := newFixture(t)
	f.svc.BeginEdit()
	assert.True(t, f.svc.Board().Editing)
	f.svc.EndEdit()
	assert.False(t, f.svc.Board().Editing)

	_, err := f.svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, f.syncer.loads)
}

func strPtr(s string) *string { return &s }
