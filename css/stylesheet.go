package css

import (
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Rule is a ruleset: selectors and their declarations.
type Rule struct {
	Selectors    []string
	Declarations Declarations
}

// Stylesheet is a summary of a parsed style sheet. Text is kept verbatim,
// Rules and AtRules describe what was found in it.
type Stylesheet struct {
	Text    string
	Rules   []Rule
	AtRules []string
}

// Parser checks style sheets attached to decoration styles.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse reads style sheet text. Parsing errors are returned, nested at-rule
// blocks (@media, @keyframes) are recorded by name only.
func (p *Parser) Parse(text, source string) (*Stylesheet, error) {
	sheet := &Stylesheet{Text: text}

	in := css.NewParser(parse.NewInputString(text), false)
	var (
		current *Rule
		depth   int
	)
	for {
		gt, _, data := in.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := in.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("unable to parse stylesheet %q: %w", source, err)
			}
			p.log.Debug("Parsed stylesheet", zap.String("source", source),
				zap.Int("rules", len(sheet.Rules)), zap.Strings("at-rules", sheet.AtRules))
			return sheet, nil
		case css.AtRuleGrammar:
			sheet.AtRules = append(sheet.AtRules, string(data))
		case css.BeginAtRuleGrammar:
			sheet.AtRules = append(sheet.AtRules, string(data))
			depth++
		case css.EndAtRuleGrammar:
			depth--
		case css.BeginRulesetGrammar, css.QualifiedRuleGrammar:
			if depth > 0 {
				continue
			}
			current = &Rule{Selectors: splitSelectors(data, in.Values())}
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			if current != nil {
				current.Declarations.Set(strings.ToLower(string(data)), joinTokens(in.Values()))
			}
		case css.EndRulesetGrammar:
			if current != nil {
				sheet.Rules = append(sheet.Rules, *current)
				current = nil
			}
		}
	}
}

// RulesFor returns rules having selector among their selectors.
func (s *Stylesheet) RulesFor(selector string) []Rule {
	var res []Rule
	for _, r := range s.Rules {
		for _, sel := range r.Selectors {
			if sel == selector {
				res = append(res, r)
				break
			}
		}
	}
	return res
}

func splitSelectors(data []byte, values []css.Token) []string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}
	var res []string
	for s := range strings.SplitSeq(sb.String(), ",") {
		if s = strings.TrimSpace(s); s != "" {
			res = append(res, s)
		}
	}
	return res
}
