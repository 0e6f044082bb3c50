package highlight

import "math"

// DefaultFadeBuffer is the distance over which the indicator fades out before
// reaching a zone and back in after leaving it.
const DefaultFadeBuffer = 200.0

// Fade returns the indicator's visibility at position y relative to the zone
// [top, bottom]: 1 when at least buffer away, 0 inside the zone, linear in
// between. A non-positive buffer makes the edges hard.
func Fade(top, bottom, y, buffer float64) float64 {
	if buffer <= 0 {
		if y >= top && y <= bottom {
			return 0
		}
		return 1
	}
	switch {
	case y <= top-buffer:
		return 1
	case y < top:
		return (top - y) / buffer
	case y <= bottom:
		return 0
	case y < bottom+buffer:
		return (y - bottom) / buffer
	default:
		return 1
	}
}

func usable(r *Rect) bool {
	if r == nil {
		return false
	}
	if math.IsNaN(r.Top) || math.IsNaN(r.Bottom) || math.IsInf(r.Top, 0) || math.IsInf(r.Bottom, 0) {
		return false
	}
	return r.Bottom >= r.Top
}
