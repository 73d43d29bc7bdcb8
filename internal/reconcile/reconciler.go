// Package reconcile keeps the lead store convergent with the enquiry backend
// by polling and applying field-level patches.
package reconcile

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/spec-kit/enquiry-console/internal/domain"
	"github.com/spec-kit/enquiry-console/internal/leadstore"
	"github.com/spec-kit/enquiry-console/internal/observability"
	"github.com/spec-kit/enquiry-console/internal/remote"
	apperrors "github.com/spec-kit/enquiry-console/pkg/util/errorutil"
)

// State is the phase of the current poll cycle.
type State string

const (
	StateIdle        State = "idle"
	StateFetching    State = "fetching"
	StateComparing   State = "comparing"
	StatePatching    State = "patching"
	StateFullReplace State = "full_replace"
)

// Outcome summarizes what a cycle did.
type Outcome string

const (
	OutcomeSkippedEditing Outcome = "skipped_editing"
	OutcomeSkippedBusy    Outcome = "skipped_busy"
	OutcomeUnchanged      Outcome = "unchanged"
	OutcomePatched        Outcome = "patched"
	OutcomeReplaced       Outcome = "replaced"
	OutcomeFailed         Outcome = "failed"
)

// Result describes one reconciliation cycle.
type Result struct {
	Outcome Outcome
	Patched []string
}

// Dependencies bundles the reconciler collaborators. Handlers may be nil, in
// which case the roster is left untouched.
type Dependencies struct {
	Store     *leadstore.Store
	Enquiries remote.EnquiryService
	Handlers  remote.HandlerService
	Logger    *zap.Logger
	Metrics   *observability.Metrics
}

// Reconciler runs poll cycles against the enquiry backend.
type Reconciler struct {
	store     *leadstore.Store
	enquiries remote.EnquiryService
	handlers  remote.HandlerService
	logger    *zap.Logger
	metrics   *observability.Metrics

	inFlight atomic.Bool
	editing  atomic.Int32

	mu    sync.RWMutex
	state State
}

// New constructs a Reconciler.
func New(deps Dependencies) (*Reconciler, error) {
	if deps.Store == nil {
		return nil, errors.New("reconcile: store is required")
	}
	if deps.Enquiries == nil {
		return nil, errors.New("reconcile: enquiry service is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		store:     deps.Store,
		enquiries: deps.Enquiries,
		handlers:  deps.Handlers,
		logger:    logger,
		metrics:   deps.Metrics,
		state:     StateIdle,
	}, nil
}

// State returns the current cycle phase.
func (r *Reconciler) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

func (r *Reconciler) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// BeginEdit marks a modal edit session as open. Background polls are skipped
// until every BeginEdit has a matching EndEdit.
func (r *Reconciler) BeginEdit() {
	r.editing.Add(1)
}

// EndEdit closes an edit session.
func (r *Reconciler) EndEdit() {
	for {
		cur := r.editing.Load()
		if cur <= 0 {
			return
		}
		if r.editing.CompareAndSwap(cur, cur-1) {
			return
		}
	}
}

// Editing reports whether an edit session is open.
func (r *Reconciler) Editing() bool {
	return r.editing.Load() > 0
}

// Poll runs one background cycle. It does nothing while an edit session is
// open or while a previous fetch is outstanding.
func (r *Reconciler) Poll(ctx context.Context) (Result, error) {
	if r.Editing() {
		return r.finish(Result{Outcome: OutcomeSkippedEditing}), nil
	}
	return r.run(ctx, true)
}

// ErrCycleInFlight is wrapped in the retryable error Load returns when a
// background cycle already holds the fetch.
var ErrCycleInFlight = errors.New("reconcile cycle already in flight")

// Load runs a user-initiated cycle. Unlike Poll it ignores edit sessions and
// reports fetch failures, or an overlapping cycle, as retryable errors.
func (r *Reconciler) Load(ctx context.Context) (Result, error) {
	res, err := r.run(ctx, false)
	if err == nil && res.Outcome == OutcomeSkippedBusy {
		return res, apperrors.NewUpstreamUnavailable(ErrCycleInFlight)
	}
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeUpstreamUnavailable) {
			return res, err
		}
		return res, apperrors.NewUpstreamUnavailable(err)
	}
	return res, nil
}

func (r *Reconciler) run(ctx context.Context, respectEdits bool) (Result, error) {
	if !r.inFlight.CompareAndSwap(false, true) {
		return r.finish(Result{Outcome: OutcomeSkippedBusy}), nil
	}
	defer r.inFlight.Store(false)
	defer r.setState(StateIdle)

	r.setState(StateFetching)
	fetched, err := r.enquiries.ListAll(ctx)
	if err != nil {
		return r.finish(Result{Outcome: OutcomeFailed}), err
	}
	var roster []domain.Handler
	if r.handlers != nil {
		roster, err = r.handlers.ListAll(ctx)
		if err != nil {
			return r.finish(Result{Outcome: OutcomeFailed}), err
		}
	}

	// An edit session opened while the fetch was in flight wins.
	if respectEdits && r.Editing() {
		return r.finish(Result{Outcome: OutcomeSkippedEditing}), nil
	}

	r.setState(StateComparing)
	if r.handlers != nil {
		r.store.ReplaceHandlers(roster)
	}
	return r.finish(r.apply(fetched)), nil
}

// Apply reconciles the store against a fetched snapshot without going to the
// network.
func (r *Reconciler) Apply(fetched []*domain.Lead) Result {
	return r.finish(r.apply(fetched))
}

func (r *Reconciler) apply(fetched []*domain.Lead) Result {
	local := r.store.GetAll()
	if len(local) != len(fetched) {
		return r.replace(fetched)
	}

	byID := make(map[string]*domain.Lead, len(local))
	for _, l := range local {
		byID[l.ID] = l
	}

	patches := make(map[string]leadstore.FieldChanges)
	for _, incoming := range fetched {
		if incoming == nil {
			return r.replace(fetched)
		}
		current, ok := byID[incoming.ID]
		if !ok {
			// Same size but a different id set: one lead left, another arrived.
			return r.replace(fetched)
		}
		delete(byID, incoming.ID)
		if changes := Diff(current, incoming); !changes.Empty() {
			patches[incoming.ID] = changes
		}
	}
	if len(patches) == 0 {
		return Result{Outcome: OutcomeUnchanged}
	}

	r.setState(StatePatching)
	patched := make([]string, 0, len(patches))
	for id, changes := range patches {
		if r.store.ApplyPatch(id, changes) {
			patched = append(patched, id)
		}
	}
	return Result{Outcome: OutcomePatched, Patched: patched}
}

func (r *Reconciler) replace(fetched []*domain.Lead) Result {
	r.setState(StateFullReplace)
	r.store.ReplaceAll(fetched)
	return Result{Outcome: OutcomeReplaced}
}

func (r *Reconciler) finish(res Result) Result {
	r.metrics.RecordReconcile(string(res.Outcome))
	if res.Outcome == OutcomePatched || res.Outcome == OutcomeReplaced {
		r.logger.Debug("leads reconciled",
			zap.String("outcome", string(res.Outcome)),
			zap.Int("patched", len(res.Patched)))
	}
	return res
}

// Diff returns the volatile fields of incoming that differ from current.
func Diff(current, incoming *domain.Lead) leadstore.FieldChanges {
	var changes leadstore.FieldChanges
	if current.Handler != incoming.Handler {
		ref := incoming.Handler
		changes.Handler = &ref
	}
	if current.Disposition != incoming.Disposition {
		v := incoming.Disposition
		changes.Disposition = &v
	}
	if current.BusinessName != incoming.BusinessName {
		v := incoming.BusinessName
		changes.BusinessName = &v
	}
	if current.Notes != incoming.Notes {
		v := incoming.Notes
		changes.Notes = &v
	}
	if current.SecondaryContact != incoming.SecondaryContact {
		v := incoming.SecondaryContact
		changes.SecondaryContact = &v
	}
	if !current.UpdatedAt.Equal(incoming.UpdatedAt) {
		v := incoming.UpdatedAt
		changes.UpdatedAt = &v
	}
	return changes
}
