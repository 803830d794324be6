// Package overlay keeps decoration overlay markup as an XHTML tree. It is
// the reference implementation of the DOM capability used by the engine:
// hosts either mirror this tree into their rendered document or serialize it.
package overlay

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"epubdeco/css"
)

// ErrTemplate is returned for markup which cannot be used as an overlay
// element template.
var ErrTemplate = errors.New("invalid element template")

// Document is an XHTML document holding overlay roots in its body and
// injected style sheets in its head.
type Document struct {
	doc  *etree.Document
	head *etree.Element
	body *etree.Element
	log  *zap.Logger
}

// NewDocument creates empty overlay document.
func NewDocument(log *zap.Logger) *Document {
	if log == nil {
		log = zap.NewNop()
	}
	doc := etree.NewDocument()
	doc.WriteSettings = etree.WriteSettings{CanonicalEndTags: true}
	html := doc.CreateElement("html")
	html.CreateAttr("xmlns", "http://www.w3.org/1999/xhtml")
	return &Document{
		doc:  doc,
		head: html.CreateElement("head"),
		body: html.CreateElement("body"),
		log:  log.Named("overlay"),
	}
}

// CreateOverlayRoot appends new non interactive container to the body.
func (d *Document) CreateOverlayRoot(id string) *etree.Element {
	root := d.body.CreateElement("div")
	root.CreateAttr("id", id)
	if err := SetStyle(root, css.Declaration{Property: "pointer-events", Value: "none"}); err != nil {
		// style attribute was just created, cannot be malformed
		panic(err)
	}
	return root
}

// CreateElementFromTemplate parses markup and returns its first element,
// detached from any tree.
func (d *Document) CreateElementFromTemplate(markup string) (*etree.Element, error) {
	markup = strings.TrimSpace(markup)
	if len(markup) == 0 {
		return nil, fmt.Errorf("%w: empty markup", ErrTemplate)
	}
	tmpl := etree.NewDocument()
	if err := tmpl.ReadFromString(markup); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	root := tmpl.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: no element in %q", ErrTemplate, markup)
	}
	if _, err := css.ParseInline(root.SelectAttrValue("style", "")); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	tmpl.RemoveChild(root)
	return root, nil
}

// QueryClickableDescendants returns descendants of el having attr set to
// "1", in document order.
func (d *Document) QueryClickableDescendants(el *etree.Element, attr string) []*etree.Element {
	if el == nil {
		return nil
	}
	return el.FindElements(fmt.Sprintf(".//*[@%s='1']", attr))
}

// Remove detaches element from its parent.
func (d *Document) Remove(el *etree.Element) {
	if el == nil {
		return
	}
	if parent := el.Parent(); parent != nil {
		parent.RemoveChild(el)
	}
}

// InjectStylesheet appends style element to the head.
func (d *Document) InjectStylesheet(text string) {
	style := d.head.CreateElement("style")
	style.CreateAttr("type", "text/css")
	style.SetText(text)
	d.log.Debug("Injected stylesheet", zap.Int("bytes", len(text)))
}

// Overlay finds overlay root or item container by its id.
func (d *Document) Overlay(id string) *etree.Element {
	return d.body.FindElement(fmt.Sprintf(".//div[@id='%s']", id))
}

// Roots returns overlay roots in insertion order.
func (d *Document) Roots() []*etree.Element {
	return d.body.ChildElements()
}

// Stylesheets returns text of all injected style elements.
func (d *Document) Stylesheets() []string {
	var res []string
	for _, el := range d.head.SelectElements("style") {
		res = append(res, el.Text())
	}
	return res
}

// WriteTo serializes the whole document as indented XHTML.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	doc := d.doc.Copy()
	doc.Indent(2)
	return doc.WriteTo(w)
}

func (d *Document) String() string {
	var sb strings.Builder
	if _, err := d.WriteTo(&sb); err != nil {
		d.log.Warn("Unable to serialize overlay document", zap.Error(err))
	}
	return sb.String()
}

// SetStyle merges declarations into style attribute of el, existing
// properties are overwritten in place.
func SetStyle(el *etree.Element, decls ...css.Declaration) error {
	style, err := css.ParseInline(el.SelectAttrValue("style", ""))
	if err != nil {
		return err
	}
	for _, decl := range decls {
		style.Set(decl.Property, decl.Value)
	}
	el.CreateAttr("style", style.String())
	return nil
}

// Px formats CSS pixel length.
func Px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

// Length returns inline style length of el in pixels, percentages are taken
// of base. Other units and missing properties report false.
func Length(el *etree.Element, property string, base float64) (float64, bool) {
	style, err := css.ParseInline(el.SelectAttrValue("style", ""))
	if err != nil {
		return 0, false
	}
	v, ok := style.Get(property)
	if !ok {
		return 0, false
	}
	v, scale := strings.TrimSpace(v), 1.0
	switch {
	case strings.HasSuffix(v, "px"):
		v = strings.TrimSuffix(v, "px")
	case strings.HasSuffix(v, "%"):
		v, scale = strings.TrimSuffix(v, "%"), base/100
	case v != "0":
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}
	return f * scale, true
}
