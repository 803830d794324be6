// Package decoration defines decorations drawn over publication resources
// and computes changes between decoration lists.
package decoration

import (
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
)

// Locations points inside a resource.
type Locations struct {
	Fragments        []string `yaml:"fragments,omitempty" json:"fragments,omitempty"`
	Progression      *float64 `yaml:"progression,omitempty" json:"progression,omitempty"`
	Position         *int     `yaml:"position,omitempty" json:"position,omitempty"`
	TotalProgression *float64 `yaml:"total_progression,omitempty" json:"totalProgression,omitempty"`
	CSSSelector      string   `yaml:"css_selector,omitempty" json:"cssSelector,omitempty"`
}

// Text is the context of the located text.
type Text struct {
	Before    string `yaml:"before,omitempty" json:"before,omitempty"`
	Highlight string `yaml:"highlight,omitempty" json:"highlight,omitempty"`
	After     string `yaml:"after,omitempty" json:"after,omitempty"`
}

// Locator references a location in a publication resource.
type Locator struct {
	Href      string    `yaml:"href" json:"href" validate:"required"`
	Type      string    `yaml:"type,omitempty" json:"type,omitempty"`
	Title     string    `yaml:"title,omitempty" json:"title,omitempty"`
	Locations Locations `yaml:"locations,omitempty" json:"locations"`
	Text      Text      `yaml:"text,omitempty" json:"text"`
}

// Equal compares locators by value.
func (l Locator) Equal(o Locator) bool {
	return l.Href == o.Href && l.Type == o.Type && l.Title == o.Title &&
		l.Text == o.Text && l.Locations.Equal(o.Locations)
}

func (l Locations) Equal(o Locations) bool {
	if len(l.Fragments) != len(o.Fragments) {
		return false
	}
	for i := range l.Fragments {
		if l.Fragments[i] != o.Fragments[i] {
			return false
		}
	}
	return l.CSSSelector == o.CSSSelector &&
		eqPtr(l.Progression, o.Progression) &&
		eqPtr(l.Position, o.Position) &&
		eqPtr(l.TotalProgression, o.TotalProgression)
}

func eqPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Built-in style identifiers.
const (
	StyleHighlight = "highlight"
	StyleUnderline = "underline"
)

// Style declares look and feel of a decoration. ID names a registered
// style, Tint is an optional ARGB colour.
type Style struct {
	ID   string  `yaml:"id" json:"id" validate:"required"`
	Tint *uint32 `yaml:"tint,omitempty" json:"tint,omitempty"`
}

// Highlight returns built-in highlight style, tint may be nil.
func Highlight(tint *uint32) Style {
	return Style{ID: StyleHighlight, Tint: tint}
}

// Underline returns built-in underline style, tint may be nil.
func Underline(tint *uint32) Style {
	return Style{ID: StyleUnderline, Tint: tint}
}

func (s Style) Equal(o Style) bool {
	return s.ID == o.ID && eqPtr(s.Tint, o.Tint)
}

func (s Style) String() string {
	if s.Tint == nil {
		return s.ID
	}
	return fmt.Sprintf("%s(#%08x)", s.ID, *s.Tint)
}

// Decoration associates a style with a location in a publication. It is
// treated as immutable, changes replace it as a whole.
type Decoration struct {
	ID      string  `yaml:"id" json:"id" validate:"required"`
	Locator Locator `yaml:"locator" json:"locator"`
	Style   Style   `yaml:"style" json:"style"`
	// Element is XHTML markup cloned for every overlay box. Empty means the
	// default element of the registered style.
	Element string `yaml:"element,omitempty" json:"element,omitempty"`
	// Extras belongs to the application and is never interpreted.
	Extras map[string]any `yaml:"extras,omitempty" json:"-"`
}

// Href is the resource the decoration is anchored to.
func (d Decoration) Href() string {
	return d.Locator.Href
}

// Clone returns a copy which does not share Extras or fragments.
func (d Decoration) Clone() Decoration {
	c := d
	c.Extras = maps.Clone(d.Extras)
	if d.Locator.Locations.Fragments != nil {
		c.Locator.Locations.Fragments = append([]string(nil), d.Locator.Locations.Fragments...)
	}
	return c
}

// MarshalJSON produces the form passed to rendering hosts: style is
// reduced to its identifier, extras are omitted.
func (d Decoration) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID      string  `json:"id"`
		Locator Locator `json:"locator"`
		Style   string  `json:"style"`
		Element string  `json:"element,omitempty"`
	}{d.ID, d.Locator, d.Style.ID, d.Element})
}

// Equality decides whether two decorations with the same id have the same
// content.
type Equality func(a, b Decoration) bool

// ContentEqual compares id, locator and style. Extras and element markup
// are ignored.
func ContentEqual(a, b Decoration) bool {
	return a.ID == b.ID && a.Locator.Equal(b.Locator) && a.Style.Equal(b.Style)
}

// FullEqual additionally compares element markup and extras.
func FullEqual(a, b Decoration) bool {
	return ContentEqual(a, b) && a.Element == b.Element && reflect.DeepEqual(a.Extras, b.Extras)
}
