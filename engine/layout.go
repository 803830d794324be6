package engine

import (
	"fmt"
	"math"
	"strconv"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"epubdeco/common"
	"epubdeco/css"
	"epubdeco/geom"
	"epubdeco/overlay"
)

// TintProperty carries decoration tint to style sheets.
const TintProperty = "--r2-decoration-tint"

// viewport is host state queried at the start of every layout.
type viewport struct {
	scrollX, scrollY float64
	width            float64
	columns          int
}

func (e *Engine) viewport() viewport {
	vp := viewport{width: e.doc.ViewportWidth(), columns: e.doc.ColumnCount()}
	vp.scrollX, vp.scrollY = e.doc.ScrollOffset()
	if vp.columns < 1 {
		vp.columns = 1
	}
	return vp
}

func (e *Engine) rectOptions() geom.Options {
	return geom.Options{
		Tolerance:  e.cfg.Rects.MergeTolerance,
		MinArea:    e.cfg.Rects.MinArea,
		MergeLines: e.cfg.Rects.MergeLines,
	}
}

// alignDown returns x rounded down to a multiple of step.
func alignDown(x, step float64) float64 {
	if step <= 0 {
		return x
	}
	return math.Floor(x/step) * step
}

// place converts client rectangle of a line into absolute overlay box.
func place(policy common.WidthPolicy, r, bounding geom.Rect, vp viewport) geom.Rect {
	box := geom.Rect{Top: r.Top + vp.scrollY, Height: r.Height}
	switch policy {
	case common.WidthPolicyViewport:
		box.Left, box.Width = alignDown(r.Left, vp.width), vp.width
	case common.WidthPolicyBounds:
		box.Left, box.Width = bounding.Left, bounding.Width
	case common.WidthPolicyPage:
		page := vp.width / float64(vp.columns)
		box.Left, box.Width = alignDown(r.Left, page), page
	default:
		box.Left, box.Width = r.Left, r.Width
	}
	box.Left += vp.scrollX
	return box
}

func tintValue(argb uint32) string {
	a := float64(argb>>24&0xff) / 255
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", argb>>16&0xff, argb>>8&0xff, argb&0xff,
		strconv.FormatFloat(a, 'f', 3, 64))
}

// ownRect narrows rectangle of box down to its descendant el using inline
// offsets and sizes met on the way. Elements without geometry of their own
// fill their parent.
func ownRect(box *etree.Element, r geom.Rect, el *etree.Element) geom.Rect {
	var path []*etree.Element
	for x := el; x != nil && x != box; x = x.Parent() {
		path = append(path, x)
	}
	for i := len(path) - 1; i >= 0; i-- {
		x, parent := path[i], r
		if v, ok := overlay.Length(x, "left", parent.Width); ok {
			r.Left = parent.Left + v
		}
		if v, ok := overlay.Length(x, "top", parent.Height); ok {
			r.Top = parent.Top + v
		}
		if v, ok := overlay.Length(x, "width", parent.Width); ok {
			r.Width = v
		}
		if v, ok := overlay.Length(x, "height", parent.Height); ok {
			r.Height = v
		}
	}
	return r
}

// layout resolves anchor of the item and draws its overlay. Item overlay
// must already be removed.
func (g *Group) layout(it *Item) error {
	e := g.engine
	d := it.Decoration
	log := g.log.With(zap.String("decoration", d.ID), zap.String("item", it.ID))

	it.rng, it.resolved = e.doc.ResolveRange(d.Locator)
	if !it.resolved {
		e.metrics.itemSkipped("anchor")
		log.Warn("Unable to locate decoration range", zap.String("href", d.Href()))
		return fmt.Errorf("%w: decoration %q in %q", ErrAnchorUnresolved, d.ID, d.Href())
	}

	def, ok := e.styles[d.Style.ID]
	if !ok {
		e.metrics.itemSkipped("style")
		log.Error("Decoration style is not registered", zap.String("style", d.Style.ID))
		return fmt.Errorf("%w: %q", ErrUnknownStyle, d.Style.ID)
	}

	markup := d.Element
	if len(markup) == 0 {
		markup = def.Element
	}
	tmpl, err := e.surface.CreateElementFromTemplate(markup)
	if err == nil && d.Style.Tint != nil {
		err = overlay.SetStyle(tmpl, css.Declaration{Property: TintProperty, Value: tintValue(*d.Style.Tint)})
	}
	if err != nil {
		e.metrics.itemSkipped("template")
		log.Error("Unable to use decoration element", zap.Error(err))
		return fmt.Errorf("%w: decoration %q: %w", ErrMalformedTemplate, d.ID, err)
	}

	vp := e.viewport()
	bounding, rects := e.doc.QueryGeometry(it.rng)

	var boxes []geom.Rect
	switch def.Layout {
	case common.LayoutModeBounds:
		boxes = []geom.Rect{place(def.Width, bounding, bounding, vp)}
	default:
		lines := geom.NoOverlap(rects, e.rectOptions())
		geom.SortByTop(lines)
		for _, r := range lines {
			boxes = append(boxes, place(def.Width, r, bounding, vp))
		}
	}

	container := etree.NewElement("div")
	container.CreateAttr("id", it.ID)
	if err := overlay.SetStyle(container, css.Declaration{Property: "pointer-events", Value: "none"}); err != nil {
		return fmt.Errorf("%w: decoration %q: %w", ErrMalformedTemplate, d.ID, err)
	}
	placed := make(map[*etree.Element]geom.Rect, len(boxes))
	for _, box := range boxes {
		el := tmpl.Copy()
		if err := overlay.SetStyle(el,
			css.Declaration{Property: "width", Value: overlay.Px(box.Width)},
			css.Declaration{Property: "height", Value: overlay.Px(box.Height)},
			css.Declaration{Property: "left", Value: overlay.Px(box.Left)},
			css.Declaration{Property: "top", Value: overlay.Px(box.Top)},
			css.Declaration{Property: "position", Value: "absolute"},
			css.Declaration{Property: "pointer-events", Value: "none"},
		); err != nil {
			return fmt.Errorf("%w: decoration %q: %w", ErrMalformedTemplate, d.ID, err)
		}
		container.AddChild(el)
		placed[el] = box
	}
	g.requireRoot().AddChild(container)
	it.container = container

	for _, el := range e.surface.QueryClickableDescendants(container, e.cfg.ActivableAttribute) {
		box := el
		for box != nil && box.Parent() != container {
			box = box.Parent()
		}
		if rect, ok := placed[box]; ok {
			it.clickable = append(it.clickable, clickable{el: el, rect: ownRect(box, rect, el)})
		}
	}
	log.Debug("Decoration drawn", zap.Int("rects", len(rects)), zap.Int("boxes", len(boxes)),
		zap.Int("clickable", len(it.clickable)))
	return nil
}
