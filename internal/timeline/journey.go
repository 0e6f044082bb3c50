package timeline

import (
	"fmt"

	"github.com/chunshen/portfolio/internal/content"
)

// Journey is the derived, read-only view of a dataset: milestones in display
// order and the events attributed to each.
type Journey struct {
	Milestones []content.Milestone `json:"milestones"`
	Events     [][]content.Event   `json:"events"`
	Unassigned []content.Event     `json:"-"`
	Now        content.YearMonth   `json:"now"`
}

// Build merges and partitions ds once. now resolves open-ended milestones.
func Build(ds content.Dataset, now content.YearMonth) Journey {
	milestones := Merge(ds.Academic, ds.Work)
	a := Partition(milestones, ds.Events(), now)
	return Journey{
		Milestones: milestones,
		Events:     a.Events,
		Unassigned: a.Unassigned,
		Now:        now,
	}
}

// Len returns the number of milestones.
func (j Journey) Len() int {
	return len(j.Milestones)
}

// HasEvents reports whether milestone i gets an event row at all.
func (j Journey) HasEvents(i int) bool {
	return i >= 0 && i < len(j.Events) && len(j.Events[i]) > 0
}

// Counter renders the active-milestone counter, e.g. "03 / 12". Zero means
// the reader has not reached the first milestone yet.
func (j Journey) Counter(active int) string {
	if active < 0 {
		active = 0
	}
	if active > j.Len() {
		active = j.Len()
	}
	return fmt.Sprintf("%02d / %02d", active, j.Len())
}
