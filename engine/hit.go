package engine

import (
	"github.com/beevik/etree"
	"go.uber.org/zap"

	"epubdeco/decoration"
	"epubdeco/geom"
)

// Hit describes decoration found under the pointer.
type Hit struct {
	Group      string
	Item       *Item
	Decoration decoration.Decoration
	Element    *etree.Element
	// client coordinates at the time of the hit
	Rect geom.Rect
}

// HandleHit finds the first clickable element containing client point
// (x, y). Groups are scanned in creation order, items in storage order and
// clickable elements in document order. When activation is enabled group
// listeners are notified. Returns nil when nothing was hit.
func (e *Engine) HandleHit(x, y float64) *Hit {
	sx, sy := e.doc.ScrollOffset()
	for _, name := range e.order {
		g := e.groups[name]
		for _, it := range g.items {
			for _, c := range it.clickable {
				rect := c.rect.Translate(-sx, -sy)
				if !rect.ContainsPoint(x, y, e.cfg.HitTolerance) {
					continue
				}
				hit := &Hit{Group: name, Item: it, Decoration: it.Decoration, Element: c.el, Rect: rect}
				e.metrics.hitTested(true)
				e.log.Debug("Decoration activated", zap.String("group", name),
					zap.String("decoration", it.Decoration.ID), zap.Stringer("rect", rect))
				if e.cfg.Activation {
					g.notify(it.Decoration, rect)
				}
				return hit
			}
		}
	}
	e.metrics.hitTested(false)
	return nil
}
