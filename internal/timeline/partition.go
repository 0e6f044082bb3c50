package timeline

import "github.com/chunshen/portfolio/internal/content"

// Assignment attributes events to milestones. Events is parallel to the
// milestone slice it was computed from.
type Assignment struct {
	Events     [][]content.Event
	Unassigned []content.Event
}

type span struct {
	start, end int
}

func milestoneSpan(m content.Milestone, now content.YearMonth) (span, bool) {
	start, ok := m.StartDate.Months()
	if !ok {
		return span{}, false
	}
	end := m.EndDate
	if m.Ongoing() {
		end = now
	}
	e, ok := end.Months()
	if !ok {
		return span{}, false
	}
	return span{start, e}, true
}

func eventSpan(ev content.Event) (span, bool) {
	start, ok := ev.StartDate.Months()
	if !ok {
		return span{}, false
	}
	end, ok := ev.End().Months()
	if !ok {
		return span{}, false
	}
	return span{start, end}, true
}

func (s span) overlaps(o span) bool {
	return s.start <= o.end && s.end >= o.start
}

// Overlaps reports whether the event's closed range intersects the
// milestone's. An ongoing milestone ends at now. Any malformed date means no
// overlap.
func Overlaps(m content.Milestone, ev content.Event, now content.YearMonth) bool {
	ms, ok := milestoneSpan(m, now)
	if !ok {
		return false
	}
	es, ok := eventSpan(ev)
	if !ok {
		return false
	}
	return es.overlaps(ms)
}

// Partition gives each event to the oldest milestone it overlaps. Milestones
// must be in display order (newest first); they are claimed from the end.
func Partition(milestones []content.Milestone, events []content.Event, now content.YearMonth) Assignment {
	a := Assignment{Events: make([][]content.Event, len(milestones))}

	spans := make([]span, len(events))
	valid := make([]bool, len(events))
	claimed := make([]bool, len(events))
	for j, ev := range events {
		spans[j], valid[j] = eventSpan(ev)
	}

	for i := len(milestones) - 1; i >= 0; i-- {
		ms, ok := milestoneSpan(milestones[i], now)
		if !ok {
			continue
		}
		for j, ev := range events {
			if claimed[j] || !valid[j] || !spans[j].overlaps(ms) {
				continue
			}
			claimed[j] = true
			a.Events[i] = append(a.Events[i], ev)
		}
	}

	for j, ev := range events {
		if !claimed[j] {
			a.Unassigned = append(a.Unassigned, ev)
		}
	}
	return a
}
