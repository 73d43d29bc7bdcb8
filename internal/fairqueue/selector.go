// Package fairqueue recommends the next handler using least-loaded round robin.
package fairqueue

import (
	"strings"

	"github.com/spec-kit/enquiry-console/internal/domain"
)

// EligibleRoster filters handlers down to the active, regular ones.
func EligibleRoster(handlers []domain.Handler) []domain.Handler {
	out := make([]domain.Handler, 0, len(handlers))
	for i := range handlers {
		if handlers[i].Eligible() {
			out = append(out, handlers[i])
		}
	}
	return out
}

// Loads counts real assignments per handler in the roster. Every roster entry
// gets a key, even with zero leads.
func Loads(allLeads []*domain.Lead, handlers []domain.Handler) map[string]int {
	loads := make(map[string]int, len(handlers))
	for _, h := range handlers {
		loads[h.ID] = 0
	}
	for _, l := range allLeads {
		if l == nil {
			continue
		}
		id, ok := l.Handler.HandlerID()
		if !ok {
			continue
		}
		if _, tracked := loads[id]; tracked {
			loads[id]++
		}
	}
	return loads
}

// NextHandler returns the least-loaded handler, ties broken by display name
// (case-insensitive). It returns nil for an empty roster.
func NextHandler(allLeads []*domain.Lead, activeRegularHandlers []domain.Handler) *domain.Handler {
	if len(activeRegularHandlers) == 0 {
		return nil
	}
	loads := Loads(allLeads, activeRegularHandlers)
	best := -1
	for i := range activeRegularHandlers {
		if best < 0 || before(activeRegularHandlers[i], activeRegularHandlers[best], loads) {
			best = i
		}
	}
	chosen := activeRegularHandlers[best]
	return &chosen
}

func before(a, b domain.Handler, loads map[string]int) bool {
	if loads[a.ID] != loads[b.ID] {
		return loads[a.ID] < loads[b.ID]
	}
	an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
	if an != bn {
		return an < bn
	}
	return a.ID < b.ID
}
