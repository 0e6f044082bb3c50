// Package highlight maps scroll position on the journey page to the active
// milestone counter and the position and opacity of the moving indicator.
package highlight

import "math"

// DefaultNarrowBreakpoint is the viewport width below which the card columns
// stack and become obstructions too.
const DefaultNarrowBreakpoint = 768.0

// Rect is a measured vertical extent in document coordinates.
type Rect struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// Layout holds the measurements taken once the page is laid out. A nil entry
// is an element that is not mounted yet and is ignored.
type Layout struct {
	ContainerTop float64 `json:"container_top"`
	TrackHeight  float64 `json:"track_height"`
	// Rows is indexed by milestone position in display order.
	Rows      []*Rect `json:"rows"`
	FullWidth []*Rect `json:"full_width"`
	Cards     []*Rect `json:"cards"`
}

// Viewport is the scroll position and window size.
type Viewport struct {
	ScrollY float64 `json:"scroll_y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// Cursor is the viewport's vertical midpoint in document coordinates.
func (v Viewport) Cursor() float64 {
	return v.ScrollY + v.Height/2
}

type Options struct {
	FadeBuffer       float64
	NarrowBreakpoint float64
}

// DefaultOptions returns the standard fade distance and breakpoint.
func DefaultOptions() Options {
	return Options{
		FadeBuffer:       DefaultFadeBuffer,
		NarrowBreakpoint: DefaultNarrowBreakpoint,
	}
}

// State is what the page renders from. ActiveIndex is 1-based; 0 means the
// reader has not reached the first milestone.
type State struct {
	ActiveIndex int     `json:"active_index"`
	Offset      float64 `json:"offset"`
	Opacity     float64 `json:"opacity"`
}

// Initial is the state before any scroll has been observed.
var Initial = State{Opacity: 1}

// Compute derives the next state from the previous one. It never fails:
// unusable measurements are skipped for this pass.
func Compute(prev State, vp Viewport, l Layout, opts Options) State {
	cursor := vp.Cursor()

	next := State{
		ActiveIndex: activeIndex(prev.ActiveIndex, cursor, l.Rows),
		Offset:      clamp(cursor-l.ContainerTop, 0, math.Max(l.TrackHeight, 0)),
		Opacity:     1,
	}

	y := l.ContainerTop + next.Offset
	zones := l.FullWidth
	if vp.Width < opts.NarrowBreakpoint {
		zones = append(append([]*Rect{}, l.FullWidth...), l.Cards...)
	}
	for _, z := range zones {
		if !usable(z) {
			continue
		}
		if f := Fade(z.Top, z.Bottom, y, opts.FadeBuffer); f < next.Opacity {
			next.Opacity = f
		}
	}
	return next
}

// activeIndex finds the row under the cursor. Above the first row the counter
// resets; past the last row, or in a gap, it keeps its previous value.
func activeIndex(prev int, cursor float64, rows []*Rect) int {
	first := -1
	for i, r := range rows {
		if !usable(r) {
			continue
		}
		if first < 0 {
			first = i
		}
		if cursor >= r.Top && cursor <= r.Bottom {
			return i + 1
		}
	}
	if first < 0 || prev < 0 {
		return 0
	}
	if cursor < rows[first].Top {
		return 0
	}
	if prev > len(rows) {
		return len(rows)
	}
	return prev
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}
