// Package css handles the bits of CSS decoration overlays need: inline style
// declarations of overlay elements and style sheets supplied with decoration
// styles.
package css

import (
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Declaration is a single "property: value" pair.
type Declaration struct {
	Property string
	Value    string
}

// Declarations keeps inline style properties in source order.
type Declarations []Declaration

// ParseInline parses content of a style attribute.
func ParseInline(style string) (Declarations, error) {
	var res Declarations
	if strings.TrimSpace(style) == "" {
		return res, nil
	}

	p := css.NewParser(parse.NewInputString(style), true)
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := p.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("bad inline style %q: %w", style, err)
			}
			return res, nil
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			res.Set(strings.ToLower(string(data)), joinTokens(p.Values()))
		}
	}
}

// Get returns value of the property.
func (d Declarations) Get(property string) (string, bool) {
	for _, decl := range d {
		if decl.Property == property {
			return decl.Value, true
		}
	}
	return "", false
}

// Set replaces value of an existing property in place or appends a new one.
func (d *Declarations) Set(property, value string) {
	for i := range *d {
		if (*d)[i].Property == property {
			(*d)[i].Value = value
			return
		}
	}
	*d = append(*d, Declaration{Property: property, Value: value})
}

// String renders declarations back into style attribute form.
func (d Declarations) String() string {
	var sb strings.Builder
	for i, decl := range d {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(decl.Property)
		sb.WriteString(": ")
		sb.WriteString(decl.Value)
		sb.WriteByte(';')
	}
	return sb.String()
}

// joinTokens builds raw value text collapsing whitespace runs.
func joinTokens(tokens []css.Token) string {
	var parts []string
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			parts = append(parts, string(t.Data))
		} else if len(parts) > 0 {
			parts = append(parts, " ")
		}
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}
