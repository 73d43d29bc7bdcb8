package fairqueue

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/enquiry-console/internal/domain"
)

func handler(id, name string, state domain.HandlerState) domain.Handler {
	return domain.Handler{ID: id, Name: name, Role: domain.HandlerRoleRegular, State: state}
}

func assigned(n int, handlerID string) []*domain.Lead {
	out := make([]*domain.Lead, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &domain.Lead{ID: fmt.Sprintf("%s-%d", handlerID, i), Handler: domain.AssignedTo(handlerID)})
	}
	return out
}

func TestNextHandlerEmptyRoster(t *testing.T) {
	assert.Nil(t, NextHandler(assigned(3, "x"), nil))
}

func TestScenarioB(t *testing.T) {
	roster := []domain.Handler{
		handler("c", "Carol", domain.HandlerStateActive),
		handler("a", "Alice", domain.HandlerStateActive),
		handler("b", "Bob", domain.HandlerStateActive),
	}
	next := NextHandler(nil, roster)
	require.NotNil(t, next)
	assert.Equal(t, "Alice", next.Name)
}

func TestScenarioC(t *testing.T) {
	all := []domain.Handler{
		handler("a", "Alice", domain.HandlerStateActive),
		handler("b", "Bob", domain.HandlerStateActive),
		handler("c", "Carol", domain.HandlerStateActive),
		handler("d", "Dan", domain.HandlerStateSuspended),
	}
	var leads []*domain.Lead
	leads = append(leads, assigned(2, "a")...)
	leads = append(leads, assigned(1, "b")...)
	leads = append(leads, assigned(1, "c")...)
	leads = append(leads, assigned(5, "d")...)

	roster := EligibleRoster(all)
	require.Len(t, roster, 3)
	next := NextHandler(leads, roster)
	require.NotNil(t, next)
	assert.Equal(t, "Bob", next.Name)
}

func TestLoadsIgnoresSentinels(t *testing.T) {
	roster := []domain.Handler{handler("a", "Alice", domain.HandlerStateActive)}
	leads := []*domain.Lead{
		{ID: "1", Handler: domain.SourceTag(domain.SourcePublicForm)},
		{ID: "2", Handler: domain.Unassigned()},
		{ID: "3", Handler: domain.AssignedTo("a")},
		nil,
	}
	assert.Equal(t, map[string]int{"a": 1}, Loads(leads, roster))
}

func TestTieBreakIsCaseInsensitive(t *testing.T) {
	roster := []domain.Handler{
		handler("1", "bob", domain.HandlerStateActive),
		handler("2", "Alice", domain.HandlerStateActive),
	}
	assert.Equal(t, "Alice", NextHandler(nil, roster).Name)
}

func TestEligibleRosterExcludesAdministrative(t *testing.T) {
	admin := handler("x", "Admin", domain.HandlerStateActive)
	admin.Role = domain.HandlerRoleAdministrative
	assert.Empty(t, EligibleRoster([]domain.Handler{admin}))
}

// Assigning to the suggestion never yields the same handler again unless
// everyone else is at least as loaded.
func TestFairnessMonotonicity(t *testing.T) {
	roster := []domain.Handler{
		handler("a", "Alice", domain.HandlerStateActive),
		handler("b", "Bob", domain.HandlerStateActive),
		handler("c", "Carol", domain.HandlerStateActive),
	}
	leads := append(assigned(2, "b"), assigned(1, "c")...)
	for round := 0; round < 12; round++ {
		pick := NextHandler(leads, roster)
		require.NotNil(t, pick)
		leads = append(leads, &domain.Lead{ID: fmt.Sprintf("r%d", round), Handler: domain.AssignedTo(pick.ID)})

		loads := Loads(leads, roster)
		again := NextHandler(leads, roster)
		if again.ID == pick.ID {
			for _, h := range roster {
				assert.GreaterOrEqual(t, loads[h.ID], loads[pick.ID], "round %d", round)
			}
		}
	}
}
