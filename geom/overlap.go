package geom

import "slices"

// Options controls NoOverlap.
type Options struct {
	// Tolerance used when deciding whether edges line up or touch.
	Tolerance float64
	// MinArea drops tiny rectangles, unless only one rectangle is left.
	MinArea float64
	// MergeLines allows merging rectangles stacked on top of each other
	// (same left and right edges on different lines).
	MergeLines bool
}

// DefaultOptions are used for boxes layout: lines are never merged.
func DefaultOptions() Options {
	return Options{Tolerance: 1, MinArea: 4}
}

// NoOverlap turns rectangles of a text range into a set without overlaps.
// Rectangles on the same visual line which touch are merged, rectangles
// contained in others are dropped and the remaining overlaps are cut away.
// Input slice is not modified.
func NoOverlap(rects []Rect, opts Options) []Rect {
	res := mergeTouching(slices.Clone(rects), opts)
	res = removeContained(res, opts.Tolerance)
	res = replaceOverlapping(res)

	for j := len(res) - 1; j >= 0; j-- {
		if res[j].Area() > opts.MinArea {
			continue
		}
		if len(res) == 1 {
			break
		}
		res = slices.Delete(res, j, j+1)
	}
	return res
}

// SortByTop orders rectangles top to bottom keeping original order for
// equal tops.
func SortByTop(rects []Rect) {
	slices.SortStableFunc(rects, func(a, b Rect) int {
		switch {
		case a.Top < b.Top:
			return -1
		case a.Top > b.Top:
			return 1
		}
		return 0
	})
}

// Bounds returns union of all rectangles, zero Rect for empty input.
func Bounds(rects []Rect) Rect {
	if len(rects) == 0 {
		return Rect{}
	}
	b := rects[0]
	for _, r := range rects[1:] {
		b = b.Union(r)
	}
	return b
}

func mergeTouching(rects []Rect, opts Options) []Rect {
	tol := opts.Tolerance
restart:
	for i := 0; i < len(rects); i++ {
		for j := i + 1; j < len(rects); j++ {
			r1, r2 := rects[i], rects[j]
			sameLine := almostEqual(r1.Top, r2.Top, tol) && almostEqual(r1.Bottom(), r2.Bottom(), tol)
			stacked := almostEqual(r1.Left, r2.Left, tol) && almostEqual(r1.Right(), r2.Right(), tol)
			aligned := (stacked && opts.MergeLines) || (sameLine && !stacked)
			if !aligned || !r1.TouchesOrOverlaps(r2, tol) {
				continue
			}
			merged := r1.Union(r2)
			rects = slices.Delete(rects, j, j+1)
			rects = slices.Delete(rects, i, i+1)
			rects = append(rects, merged)
			goto restart
		}
	}
	return rects
}

func removeContained(rects []Rect, tolerance float64) []Rect {
	drop := make([]bool, len(rects))
	for i, r := range rects {
		if r.Width <= 1 || r.Height <= 1 {
			drop[i] = true
			continue
		}
		for j, o := range rects {
			if i == j || drop[j] {
				continue
			}
			if o.Contains(r, tolerance) {
				drop[i] = true
				break
			}
		}
	}
	res := make([]Rect, 0, len(rects))
	for i, r := range rects {
		if !drop[i] {
			res = append(res, r)
		}
	}
	return res
}

func replaceOverlapping(rects []Rect) []Rect {
restart:
	for i := 0; i < len(rects); i++ {
		for j := i + 1; j < len(rects); j++ {
			r1, r2 := rects[i], rects[j]
			if !r1.TouchesOrOverlaps(r2, -1) {
				continue
			}
			var (
				add    []Rect
				remove int
			)
			if parts1 := r1.Subtract(r2); len(parts1) == 1 {
				add, remove = parts1, i
			} else if parts2 := r2.Subtract(r1); len(parts1) < len(parts2) {
				add, remove = parts1, i
			} else {
				add, remove = parts2, j
			}
			rects = slices.Delete(rects, remove, remove+1)
			rects = append(rects, add...)
			goto restart
		}
	}
	return rects
}
