// Package engine renders decorations as overlay boxes over reflowing text
// and routes pointer activations back to them.
//
// Engine and its groups are bound to the thread driving the host document
// and are not safe for concurrent use. Diffing of decoration lists has no
// such restriction, see package decoration.
package engine

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/beevik/etree"
	"github.com/gosimple/slug"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"epubdeco/common"
	"epubdeco/config"
	"epubdeco/css"
	"epubdeco/decoration"
	"epubdeco/geom"
	"epubdeco/utils/debug"
)

var (
	ErrAnchorUnresolved  = errors.New("unable to locate decoration range")
	ErrUnknownStyle      = errors.New("unknown decoration style")
	ErrMalformedTemplate = errors.New("malformed decoration element")
)

// Range is a resolved text range, opaque to the engine.
type Range any

// Document is the rendered resource as seen by the engine. Geometry is in
// client (viewport) coordinates and is queried anew on every layout.
type Document interface {
	Href() string
	ResolveRange(loc decoration.Locator) (Range, bool)
	QueryGeometry(rng Range) (bounding geom.Rect, rects []geom.Rect)
	ScrollOffset() (x, y float64)
	ViewportWidth() float64
	ColumnCount() int
}

// Surface is the part of the host DOM overlays are built in.
type Surface interface {
	CreateOverlayRoot(id string) *etree.Element
	CreateElementFromTemplate(markup string) (*etree.Element, error)
	QueryClickableDescendants(el *etree.Element, attr string) []*etree.Element
	Remove(el *etree.Element)
	InjectStylesheet(text string)
}

// StyleDefinition tells how decorations of a style are drawn.
type StyleDefinition struct {
	Layout     common.LayoutMode
	Width      common.WidthPolicy
	Stylesheet string
	// Element is used for decorations which do not carry their own markup.
	Element string
}

// StylesFromConfig converts configured styles.
func StylesFromConfig(styles map[string]config.StyleConfig) map[string]StyleDefinition {
	res := make(map[string]StyleDefinition, len(styles))
	for id, s := range styles {
		res[id] = StyleDefinition{Layout: s.Layout, Width: s.Width, Stylesheet: s.Stylesheet, Element: s.Element}
	}
	return res
}

// DefaultConfig mirrors engine section of the configuration template.
func DefaultConfig() config.EngineConfig {
	return config.EngineConfig{
		HitTolerance:       1,
		ActivableAttribute: "data-activable",
		GroupIDPrefix:      "r2-decoration-",
		Activation:         true,
		Rects:              config.RectsConfig{MergeTolerance: 1, MinArea: 4},
	}
}

type Option func(*Engine)

func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

func WithConfig(cfg config.EngineConfig) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

type size struct {
	width, height float64
}

// Engine owns decoration groups of a single rendered document.
type Engine struct {
	cfg     config.EngineConfig
	doc     Document
	surface Surface
	log     *zap.Logger
	metrics *Metrics
	parser  *css.Parser

	styles map[string]StyleDefinition
	// style sheets injected so far, replayed into a fresh surface
	sheets []string

	groups      map[string]*Group
	order       []string
	lastGroupID int
	lastSize    size
}

// New creates engine drawing into surface over doc.
func New(doc Document, surface Surface, opts ...Option) *Engine {
	e := &Engine{
		cfg:     DefaultConfig(),
		doc:     doc,
		surface: surface,
		log:     zap.NewNop(),
		styles:  make(map[string]StyleDefinition),
		groups:  make(map[string]*Group),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.Named("engine")
	e.parser = css.NewParser(e.log)
	return e
}

// RegisterStyles merges style definitions into the registry. Invalid
// definitions are skipped and reported together, valid ones are registered
// and their style sheets injected into the surface at once.
func (e *Engine) RegisterStyles(styles map[string]StyleDefinition) error {
	var (
		errs   error
		sheets []string
	)
	for _, id := range slices.Sorted(maps.Keys(styles)) {
		def := styles[id]
		if err := e.checkStyle(id, def); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		e.styles[id] = def
		if len(strings.TrimSpace(def.Stylesheet)) > 0 {
			sheets = append(sheets, def.Stylesheet)
		}
		e.log.Debug("Registered decoration style", zap.String("style", id),
			zap.Stringer("layout", def.Layout), zap.Stringer("width", def.Width))
	}
	if len(sheets) > 0 {
		text := strings.Join(sheets, "\n")
		e.sheets = append(e.sheets, text)
		e.surface.InjectStylesheet(text)
	}
	return errs
}

func (e *Engine) checkStyle(id string, def StyleDefinition) error {
	if len(id) == 0 {
		return errors.New("decoration style without identifier")
	}
	if !def.Layout.IsValid() {
		return fmt.Errorf("style %q: %w", id, common.ErrInvalidLayoutMode)
	}
	if !def.Width.IsValid() {
		return fmt.Errorf("style %q: %w", id, common.ErrInvalidWidthPolicy)
	}
	var sheet *css.Stylesheet
	if len(def.Stylesheet) > 0 {
		var err error
		if sheet, err = e.parser.Parse(def.Stylesheet, id); err != nil {
			return fmt.Errorf("style %q: %w", id, err)
		}
	}
	if len(def.Element) == 0 {
		return nil
	}
	tmpl, err := e.surface.CreateElementFromTemplate(def.Element)
	if err != nil {
		return fmt.Errorf("style %q: %w: %w", id, ErrMalformedTemplate, err)
	}
	if sheet == nil {
		return nil
	}
	for class := range strings.FieldsSeq(tmpl.SelectAttrValue("class", "")) {
		if len(sheet.RulesFor("."+class)) == 0 {
			e.log.Warn("Style sheet has no rules for element class",
				zap.String("style", id), zap.String("class", class))
		}
	}
	return nil
}

// SupportsStyle reports whether style id is registered.
func (e *Engine) SupportsStyle(id string) bool {
	_, ok := e.styles[id]
	return ok
}

// Group returns decoration group by name creating it on first use.
func (e *Engine) Group(name string) *Group {
	if g, ok := e.groups[name]; ok {
		return g
	}
	id := fmt.Sprintf("%s%d", e.cfg.GroupIDPrefix, e.lastGroupID)
	if s := slug.Make(name); len(s) > 0 {
		id += "-" + s
	}
	e.lastGroupID++

	g := &Group{
		engine: e,
		name:   name,
		id:     id,
		log:    e.log.With(zap.String("group", name)),
	}
	e.groups[name] = g
	e.order = append(e.order, name)
	return g
}

// Groups returns group names in creation order.
func (e *Engine) Groups() []string {
	return slices.Clone(e.order)
}

// AddListener subscribes to activations of decorations in the named group.
func (e *Engine) AddListener(group string, l Listener) {
	e.Group(group).AddListener(l)
}

func (e *Engine) diffOptions() []decoration.DiffOption {
	if e.cfg.CompareExtras {
		return []decoration.DiffOption{decoration.WithExtras()}
	}
	return nil
}

// ApplyDecorations makes the group show list. Changes relative to the last
// applied list are computed for all resources, those for the rendered
// resource are applied to the overlay. Failures of individual decorations
// are logged and never returned.
func (e *Engine) ApplyDecorations(ctx context.Context, group string, list []decoration.Decoration) (decoration.Changes, error) {
	g := e.Group(group)
	changes := decoration.Diff(g.baseline, list, e.diffOptions()...)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	href := e.doc.Href()
	for _, ch := range changes[href] {
		switch ch.Kind {
		case common.ChangeKindAdded, common.ChangeKindUpdated:
			_ = g.insert(*ch.Decoration, ch.To)
		case common.ChangeKindRemoved:
			g.Remove(ch.ID)
		case common.ChangeKindMoved:
			g.move(ch.ID, ch.To)
		}
		e.metrics.changeApplied(ch.Kind)
	}

	g.baseline = make([]decoration.Decoration, 0, len(list))
	for _, d := range list {
		g.baseline = append(g.baseline, d.Clone())
	}
	e.log.Debug("Applied decorations", zap.String("group", group), zap.String("href", href),
		zap.Int("changes", changes.Len()), zap.Int("local", len(changes[href])))
	return changes, nil
}

// Resize re-lays out all groups when the content box changed since the last
// call. It reports whether layout pass happened.
func (e *Engine) Resize(width, height float64) bool {
	sz := size{width: width, height: height}
	if sz == e.lastSize {
		return false
	}
	e.lastSize = sz
	e.log.Debug("Content resized", zap.Float64("width", width), zap.Float64("height", height))
	for _, name := range e.order {
		e.groups[name].RequestLayout()
	}
	return true
}

// Reset attaches engine to a newly loaded document. Overlay state is
// dropped, registered styles are injected into a new surface and every group
// shows its last applied decorations belonging to the new resource. Nil
// arguments keep current document or surface, overlay roots of a kept
// surface are removed from it.
func (e *Engine) Reset(doc Document, surface Surface) {
	if doc != nil {
		e.doc = doc
	}
	fresh := surface != nil && surface != e.surface
	for _, name := range e.order {
		g := e.groups[name]
		if fresh {
			g.root = nil
		} else {
			g.dropRoot()
		}
		g.items = nil
	}
	if fresh {
		e.surface = surface
		for _, text := range e.sheets {
			e.surface.InjectStylesheet(text)
		}
	}
	e.lastSize = size{}

	href := e.doc.Href()
	for _, name := range e.order {
		g := e.groups[name]
		for _, d := range g.baseline {
			if d.Href() == href {
				_ = g.Add(d)
			}
		}
	}
	e.log.Debug("Document loaded", zap.String("href", href))
}

func (e *Engine) String() string {
	tw := debug.NewTreeWriter()
	tw.Line(0, "Engine")
	tw.Field(1, "href", e.doc.Href())
	tw.Line(1, "styles: %s", strings.Join(slices.Sorted(maps.Keys(e.styles)), ", "))
	for _, text := range e.sheets {
		tw.Block(1, "stylesheet", text)
	}
	for _, name := range e.order {
		e.groups[name].dump(tw, 1)
	}
	return tw.String()
}
