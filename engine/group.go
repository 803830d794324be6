package engine

import (
	"fmt"
	"slices"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"epubdeco/decoration"
	"epubdeco/geom"
	"epubdeco/utils/debug"
)

// Listener is notified when pointer activates a decoration.
type Listener func(group string, d decoration.Decoration, rect geom.Rect)

type clickable struct {
	el *etree.Element
	// absolute, document coordinates
	rect geom.Rect
}

// Item is a decoration stored in a group together with its overlay.
type Item struct {
	ID         string
	Decoration decoration.Decoration

	rng       Range
	resolved  bool
	container *etree.Element
	clickable []clickable
}

// Resolved reports whether anchor was found during the last layout.
func (it *Item) Resolved() bool {
	return it.resolved
}

// Container is the overlay element of the item, nil when nothing is drawn.
func (it *Item) Container() *etree.Element {
	return it.container
}

// ClickableRects returns absolute rectangles recorded for clickable elements.
func (it *Item) ClickableRects() []geom.Rect {
	res := make([]geom.Rect, 0, len(it.clickable))
	for _, c := range it.clickable {
		res = append(res, c.rect)
	}
	return res
}

// Group is a named set of decorations sharing one overlay root.
type Group struct {
	engine *Engine
	log    *zap.Logger

	name       string
	id         string
	items      []*Item
	lastItemID int
	root       *etree.Element
	listeners  []Listener

	// last list given to ApplyDecorations, all resources
	baseline []decoration.Decoration
}

func (g *Group) Name() string {
	return g.name
}

// ID is the DOM id of the group overlay root.
func (g *Group) ID() string {
	return g.id
}

// Items returns stored items in storage order.
func (g *Group) Items() []*Item {
	return slices.Clone(g.items)
}

// Root returns overlay root, nil until something is drawn.
func (g *Group) Root() *etree.Element {
	return g.root
}

func (g *Group) AddListener(l Listener) {
	g.listeners = append(g.listeners, l)
}

func (g *Group) find(id string) int {
	return slices.IndexFunc(g.items, func(it *Item) bool {
		return it.Decoration.ID == id
	})
}

// Add stores decoration and draws it. Decoration with already stored id
// replaces the old one. When drawing fails the item is still kept, so later
// RequestLayout may succeed, and the error is returned.
func (g *Group) Add(d decoration.Decoration) error {
	return g.insert(d, -1)
}

// insert stores decoration at position at, negative or too large positions
// append.
func (g *Group) insert(d decoration.Decoration, at int) error {
	if g.find(d.ID) >= 0 {
		g.Remove(d.ID)
	}
	if at < 0 || at > len(g.items) {
		at = len(g.items)
	}
	g.lastItemID++
	it := &Item{
		ID:         fmt.Sprintf("%s-%d", g.id, g.lastItemID),
		Decoration: d.Clone(),
	}
	g.items = slices.Insert(g.items, at, it)
	return g.layout(it)
}

// move repositions stored item, overlay is left as is.
func (g *Group) move(id string, to int) {
	i := g.find(id)
	if i < 0 {
		return
	}
	it := g.items[i]
	g.items = slices.Delete(g.items, i, i+1)
	to = min(max(to, 0), len(g.items))
	g.items = slices.Insert(g.items, to, it)
}

// Remove drops decoration and its overlay, unknown ids are ignored.
func (g *Group) Remove(id string) {
	i := g.find(id)
	if i < 0 {
		return
	}
	it := g.items[i]
	g.items = slices.Delete(g.items, i, i+1)
	if it.container != nil {
		g.engine.surface.Remove(it.container)
	}
}

// Update replaces decoration with the same id keeping its position. Unknown
// ids are added.
func (g *Group) Update(d decoration.Decoration) error {
	return g.insert(d, g.find(d.ID))
}

// Clear removes all decorations, group stays usable.
func (g *Group) Clear() {
	g.dropRoot()
	g.items = nil
}

// RequestLayout redraws every item against current document geometry.
func (g *Group) RequestLayout() {
	g.dropRoot()
	for _, it := range g.items {
		_ = g.layout(it)
	}
	g.engine.metrics.layoutPass()
}

func (g *Group) dropRoot() {
	if g.root != nil {
		g.engine.surface.Remove(g.root)
		g.root = nil
	}
	for _, it := range g.items {
		it.container, it.clickable = nil, nil
	}
}

func (g *Group) requireRoot() *etree.Element {
	if g.root == nil {
		g.root = g.engine.surface.CreateOverlayRoot(g.id)
	}
	return g.root
}

func (g *Group) notify(d decoration.Decoration, rect geom.Rect) {
	for _, l := range g.listeners {
		l(g.name, d, rect)
	}
}

func (g *Group) dump(tw *debug.TreeWriter, depth int) {
	tw.Line(depth, "Group %q id=%s items=%d", g.name, g.id, len(g.items))
	for _, it := range g.items {
		state := "drawn"
		switch {
		case !it.resolved:
			state = "unresolved"
		case it.container == nil:
			state = "not drawn"
		}
		tw.Line(depth+1, "Item %s %q style=%s %s", it.ID, it.Decoration.ID, it.Decoration.Style, state)
		if it.container != nil {
			for _, box := range it.container.ChildElements() {
				tw.Field(depth+2, "box", box.SelectAttrValue("style", ""))
			}
		}
		for _, c := range it.clickable {
			tw.Line(depth+2, "clickable %s", c.rect)
		}
	}
}
