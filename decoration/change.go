package decoration

import (
	"maps"
	"slices"
	"sort"

	"github.com/maruel/natural"

	"epubdeco/common"
	"epubdeco/utils/debug"
)

// Change is an atomic change of a decoration list. Decoration is set for
// added and updated changes. From is the index of the entry before the change
// is applied (updated, moved, removed), To is its index after (added,
// updated, moved). Both refer to the list of one resource as left by the
// preceding changes of the bucket. Unused indices are -1.
type Change struct {
	Kind       common.ChangeKind `yaml:"kind" json:"kind"`
	ID         string            `yaml:"id" json:"id"`
	Decoration *Decoration       `yaml:"decoration,omitempty" json:"decoration,omitempty"`
	From       int               `yaml:"from" json:"from"`
	To         int               `yaml:"to" json:"to"`
}

func Added(d Decoration, to int) Change {
	return Change{Kind: common.ChangeKindAdded, ID: d.ID, Decoration: &d, From: -1, To: to}
}

func Updated(d Decoration, from, to int) Change {
	return Change{Kind: common.ChangeKindUpdated, ID: d.ID, Decoration: &d, From: from, To: to}
}

func Moved(id string, from, to int) Change {
	return Change{Kind: common.ChangeKindMoved, ID: id, From: from, To: to}
}

func Removed(id string, from int) Change {
	return Change{Kind: common.ChangeKindRemoved, ID: id, From: from, To: -1}
}

// Changes maps resource href to changes which must be applied in order.
type Changes map[string][]Change

// Hrefs returns resource references in natural order.
func (c Changes) Hrefs() []string {
	keys := slices.Collect(maps.Keys(c))
	sort.Sort(natural.StringSlice(keys))
	return keys
}

// Len returns total number of changes in all buckets.
func (c Changes) Len() int {
	n := 0
	for _, list := range c {
		n += len(list)
	}
	return n
}

// Count returns number of changes of a given kind in all buckets.
func (c Changes) Count(kind common.ChangeKind) int {
	n := 0
	for _, list := range c {
		for _, ch := range list {
			if ch.Kind == kind {
				n++
			}
		}
	}
	return n
}

// String returns a readable tree of changes, for logs and manual
// inspection.
func (c Changes) String() string {
	tw := debug.NewTreeWriter()
	tw.Line(0, "Changes: %d in %d resources", c.Len(), len(c))
	for _, href := range c.Hrefs() {
		tw.Line(1, "Resource[%q]", href)
		for _, ch := range c[href] {
			switch ch.Kind {
			case common.ChangeKindAdded:
				tw.Line(2, "%s id=%q to=%d style=%s", ch.Kind, ch.ID, ch.To, ch.Decoration.Style)
			case common.ChangeKindUpdated:
				tw.Line(2, "%s id=%q from=%d to=%d style=%s", ch.Kind, ch.ID, ch.From, ch.To, ch.Decoration.Style)
			case common.ChangeKindMoved:
				tw.Line(2, "%s id=%q from=%d to=%d", ch.Kind, ch.ID, ch.From, ch.To)
			default:
				tw.Line(2, "%s id=%q from=%d", ch.Kind, ch.ID, ch.From)
			}
		}
	}
	return tw.String()
}

func (c Changes) register(href string, ch Change) {
	c[href] = append(c[href], ch)
}
