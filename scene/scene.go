// Package scene describes a rendered resource in YAML: text ranges with
// their client rectangles, viewport and scroll state, and decorations to
// draw. It stands in for a live document when exercising the engine from
// the command line and in tests.
package scene

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"sort"

	"github.com/google/uuid"
	"github.com/maruel/natural"
	"github.com/rupor-github/gencfg"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"epubdeco/config"
	"epubdeco/decoration"
	"epubdeco/engine"
	"epubdeco/geom"
)

type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type Viewport struct {
	Width   float64 `yaml:"width" validate:"gt=0"`
	Height  float64 `yaml:"height" validate:"gte=0"`
	Columns int     `yaml:"columns" validate:"gte=0"`
}

// Range is a piece of rendered text. Decorations are anchored to it by
// locator CSS selector or highlighted text.
type Range struct {
	Text     string `yaml:"text,omitempty" validate:"required_without=Selector"`
	Selector string `yaml:"selector,omitempty"`
	// Bounding defaults to union of Rects.
	Bounding *geom.Rect `yaml:"bounding,omitempty"`
	Rects    []geom.Rect `yaml:"rects" validate:"required,min=1"`
}

// Scene is a rendered resource and decorations applied to it.
type Scene struct {
	Href     string   `yaml:"href" validate:"required"`
	Viewport Viewport `yaml:"viewport"`
	Scroll   Point    `yaml:"scroll"`
	Ranges   []Range  `yaml:"ranges" validate:"dive"`
	// Styles are registered on top of configured ones.
	Styles map[string]config.StyleConfig `yaml:"styles,omitempty"`
	// Previous lists are applied before Decorations, so layout shows the
	// effect of the change between them.
	Previous    map[string][]decoration.Decoration `yaml:"previous,omitempty" validate:"dive,dive"`
	Decorations map[string][]decoration.Decoration `yaml:"decorations" validate:"dive,dive"`
	// Hits are pointer positions in client coordinates.
	Hits []Point `yaml:"hits,omitempty"`
}

// Load reads scene from file.
func Load(path string, log *zap.Logger) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read scene: %w", err)
	}
	s, err := Parse(data, log)
	if err != nil {
		return nil, fmt.Errorf("unable to load scene %q: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates scene. Decorations without id get a generated
// one.
func Parse(data []byte, log *zap.Logger) (*Scene, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Scene{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}

	for _, lists := range []map[string][]decoration.Decoration{s.Previous, s.Decorations} {
		for group, list := range lists {
			for i := range list {
				if len(list[i].ID) > 0 {
					continue
				}
				id, err := uuid.NewV7()
				if err != nil {
					return nil, fmt.Errorf("unable to generate decoration id: %w", err)
				}
				list[i].ID = id.String()
				log.Debug("Generated decoration id", zap.String("group", group), zap.Int("index", i), zap.String("id", list[i].ID))
			}
		}
	}

	if err := gencfg.Validate(s); err != nil {
		return nil, fmt.Errorf("failed to validate scene: %w", err)
	}
	for id, style := range s.Styles {
		if !style.Layout.IsValid() || !style.Width.IsValid() {
			return nil, fmt.Errorf("failed to validate scene: style %q has invalid layout (%s) or width (%s)", id, style.Layout, style.Width)
		}
	}
	return s, nil
}

// Groups returns names of groups mentioned in the scene in natural order.
func (s *Scene) Groups() []string {
	var names []string
	for _, lists := range []map[string][]decoration.Decoration{s.Previous, s.Decorations} {
		for name := range lists {
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}
	sort.Sort(natural.StringSlice(names))
	return names
}

// Document returns view of the scene for the engine.
func (s *Scene) Document() *Document {
	return &Document{scene: s, scroll: s.Scroll}
}

// Document implements engine.Document over a scene. Scroll position may be
// changed after layout.
type Document struct {
	scene  *Scene
	scroll Point
}

var _ engine.Document = (*Document)(nil)

func (d *Document) Href() string {
	return d.scene.Href
}

// ResolveRange matches locator selector first, highlighted text second.
func (d *Document) ResolveRange(loc decoration.Locator) (engine.Range, bool) {
	if loc.Href != d.scene.Href {
		return nil, false
	}
	if sel := loc.Locations.CSSSelector; len(sel) > 0 {
		if i := slices.IndexFunc(d.scene.Ranges, func(r Range) bool { return r.Selector == sel }); i >= 0 {
			return i, true
		}
	}
	if text := loc.Text.Highlight; len(text) > 0 {
		if i := slices.IndexFunc(d.scene.Ranges, func(r Range) bool { return r.Text == text }); i >= 0 {
			return i, true
		}
	}
	return nil, false
}

// QueryGeometry returns rectangles of range in client coordinates.
func (d *Document) QueryGeometry(rng engine.Range) (geom.Rect, []geom.Rect) {
	r := d.scene.Ranges[rng.(int)]
	bounding := geom.Bounds(r.Rects)
	if r.Bounding != nil {
		bounding = *r.Bounding
	}
	return bounding, slices.Clone(r.Rects)
}

func (d *Document) ScrollOffset() (float64, float64) {
	return d.scroll.X, d.scroll.Y
}

func (d *Document) ScrollTo(x, y float64) {
	d.scroll = Point{X: x, Y: y}
}

func (d *Document) ViewportWidth() float64 {
	return d.scene.Viewport.Width
}

func (d *Document) ColumnCount() int {
	return d.scene.Viewport.Columns
}
