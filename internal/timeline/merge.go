// Package timeline orders milestones for display and attributes events to
// the milestones they overlap.
package timeline

import (
	"slices"

	"github.com/chunshen/portfolio/internal/content"
)

// Merge combines academic and work milestones into display order, newest
// first. Open-ended milestones lead; milestones with a malformed start date
// trail the well-formed ones. Exact ties keep their input order.
func Merge(academic, work []content.Milestone) []content.Milestone {
	merged := make([]content.Milestone, 0, len(academic)+len(work))
	merged = append(merged, academic...)
	merged = append(merged, work...)
	slices.SortStableFunc(merged, compare)
	return merged
}

// compare orders a before b when it returns a negative value.
func compare(a, b content.Milestone) int {
	if ao, bo := a.Ongoing(), b.Ongoing(); ao != bo {
		if ao {
			return -1
		}
		return 1
	}
	if av, bv := a.StartDate.Valid(), b.StartDate.Valid(); av != bv {
		if av {
			return -1
		}
		return 1
	} else if !av {
		return 0
	}
	// "YYYY-MM" is fixed width, so string order is date order.
	switch {
	case a.StartDate > b.StartDate:
		return -1
	case a.StartDate < b.StartDate:
		return 1
	}
	return 0
}

// Before reports whether a sorts strictly ahead of b in display order.
func Before(a, b content.Milestone) bool {
	return compare(a, b) < 0
}
