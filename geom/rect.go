// Package geom implements client rectangle arithmetic used to lay out
// decorations. Coordinates are screen oriented: Y grows downwards, Top is
// the smaller vertical coordinate.
package geom

import (
	"fmt"
	"math"
)

// Rect is a client rectangle.
type Rect struct {
	Left   float64 `yaml:"left" json:"left"`
	Top    float64 `yaml:"top" json:"top"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// FromEdges builds a rectangle from its four edges. Negative extents are
// clamped to zero.
func FromEdges(left, top, right, bottom float64) Rect {
	return Rect{
		Left:   left,
		Top:    top,
		Width:  math.Max(0, right-left),
		Height: math.Max(0, bottom-top),
	}
}

func (r Rect) Right() float64 {
	return r.Left + r.Width
}

func (r Rect) Bottom() float64 {
	return r.Top + r.Height
}

func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// IsEmpty returns true if the rectangle has zero area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Translate returns the rectangle moved by dx, dy.
func (r Rect) Translate(dx, dy float64) Rect {
	r.Left += dx
	r.Top += dy
	return r
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	return FromEdges(
		math.Min(r.Left, o.Left),
		math.Min(r.Top, o.Top),
		math.Max(r.Right(), o.Right()),
		math.Max(r.Bottom(), o.Bottom()),
	)
}

// Intersect returns the common part of r and o. Result has zero width
// and/or height when rectangles do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	return FromEdges(
		math.Max(r.Left, o.Left),
		math.Max(r.Top, o.Top),
		math.Min(r.Right(), o.Right()),
		math.Min(r.Bottom(), o.Bottom()),
	)
}

// ContainsPoint checks if point lies inside the rectangle, edges are
// extended by tolerance.
func (r Rect) ContainsPoint(x, y, tolerance float64) bool {
	return (r.Left < x || almostEqual(r.Left, x, tolerance)) &&
		(r.Right() > x || almostEqual(r.Right(), x, tolerance)) &&
		(r.Top < y || almostEqual(r.Top, y, tolerance)) &&
		(r.Bottom() > y || almostEqual(r.Bottom(), y, tolerance))
}

// Contains checks if o is fully inside r (with tolerance).
func (r Rect) Contains(o Rect, tolerance float64) bool {
	return r.ContainsPoint(o.Left, o.Top, tolerance) &&
		r.ContainsPoint(o.Right(), o.Top, tolerance) &&
		r.ContainsPoint(o.Left, o.Bottom(), tolerance) &&
		r.ContainsPoint(o.Right(), o.Bottom(), tolerance)
}

// TouchesOrOverlaps reports whether rectangles share any area or, for a
// non negative tolerance, touch within it. Negative tolerance means strict
// overlap.
func (r Rect) TouchesOrOverlaps(o Rect, tolerance float64) bool {
	near := func(a, b float64) bool {
		return tolerance >= 0 && almostEqual(a, b, tolerance)
	}
	return (r.Left < o.Right() || near(r.Left, o.Right())) &&
		(o.Left < r.Right() || near(o.Left, r.Right())) &&
		(r.Top < o.Bottom() || near(r.Top, o.Bottom())) &&
		(o.Top < r.Bottom() || near(o.Top, r.Bottom()))
}

// Subtract returns parts of r not covered by o. When rectangles do not
// intersect r itself is returned.
func (r Rect) Subtract(o Rect) []Rect {
	in := o.Intersect(r)
	if in.IsEmpty() {
		return []Rect{r}
	}
	parts := []Rect{
		FromEdges(r.Left, r.Top, in.Left, r.Bottom()),
		FromEdges(in.Left, r.Top, in.Right(), in.Top),
		FromEdges(in.Left, in.Bottom(), in.Right(), r.Bottom()),
		FromEdges(in.Right(), r.Top, r.Right(), r.Bottom()),
	}
	res := make([]Rect, 0, len(parts))
	for _, p := range parts {
		if !p.IsEmpty() {
			res = append(res, p)
		}
	}
	return res
}

func (r Rect) String() string {
	return fmt.Sprintf("[%g,%g %gx%g]", r.Left, r.Top, r.Width, r.Height)
}

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}
