// Package sequencing enforces oldest-unassigned-first processing of enquiries.
package sequencing

import (
	"slices"

	"github.com/spec-kit/enquiry-console/internal/domain"
)

// Sorted returns a copy of leads in processing order.
func Sorted(leads []*domain.Lead) []*domain.Lead {
	out := make([]*domain.Lead, 0, len(leads))
	for _, l := range leads {
		if l != nil {
			out = append(out, l)
		}
	}
	slices.SortFunc(out, domain.CompareLeads)
	return out
}

// IsEligibleForAssignment reports whether lead may receive a real handler.
// Leads that already have one are always eligible, so re-assignment is never
// gated. An unassigned lead is eligible only when every lead ahead of it in
// processing order is assigned.
func IsEligibleForAssignment(lead *domain.Lead, allLeads []*domain.Lead) bool {
	return Blocker(lead, allLeads) == nil
}

// Blocker returns the earliest unassigned lead ahead of lead, or nil when the
// lead is eligible.
func Blocker(lead *domain.Lead, allLeads []*domain.Lead) *domain.Lead {
	if lead == nil || lead.IsAssigned() {
		return nil
	}
	var first *domain.Lead
	for _, other := range allLeads {
		if other == nil || other.ID == lead.ID || other.IsAssigned() {
			continue
		}
		if domain.CompareLeads(other, lead) < 0 {
			first = earliest(other, first)
		}
	}
	return first
}

// OldestUnassigned returns the unassigned lead at the head of the queue.
func OldestUnassigned(allLeads []*domain.Lead) *domain.Lead {
	var first *domain.Lead
	for _, l := range allLeads {
		if l == nil || l.IsAssigned() {
			continue
		}
		first = earliest(l, first)
	}
	return first
}

func earliest(candidate, current *domain.Lead) *domain.Lead {
	if current == nil || domain.CompareLeads(candidate, current) < 0 {
		return candidate
	}
	return current
}
