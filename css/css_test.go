package css_test

import (
	"testing"

	"go.uber.org/zap"

	"epubdeco/css"
)

func TestParseInline(t *testing.T) {
	decls, err := css.ParseInline("color: red; background-color:  rgba(0, 0, 255, 0.3) ;--tint: #ff0")
	if err != nil {
		t.Fatalf("ParseInline() error = %v", err)
	}
	if len(decls) != 3 {
		t.Fatalf("expected 3 declarations, got %d: %v", len(decls), decls)
	}
	if v, ok := decls.Get("color"); !ok || v != "red" {
		t.Errorf("color = %q, %v", v, ok)
	}
	if v, _ := decls.Get("background-color"); v != "rgba(0,0,255,0.3)" && v != "rgba(0, 0, 255, 0.3)" {
		t.Errorf("background-color = %q", v)
	}
}

func TestParseInline_Empty(t *testing.T) {
	decls, err := css.ParseInline("   ")
	if err != nil {
		t.Fatalf("ParseInline() error = %v", err)
	}
	if len(decls) != 0 {
		t.Errorf("expected no declarations, got %v", decls)
	}
}

func TestDeclarations_SetAndString(t *testing.T) {
	decls, err := css.ParseInline("color: red; position: relative")
	if err != nil {
		t.Fatalf("ParseInline() error = %v", err)
	}
	decls.Set("position", "absolute")
	decls.Set("left", "10px")

	want := "color: red; position: absolute; left: 10px;"
	if got := decls.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestParser_Parse(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet, err := p.Parse(`
.r2-highlight, .r2-underline { pointer-events: none; }
.r2-highlight { background-color: yellow; opacity: 0.3 }
@media screen and (max-width: 400px) {
  .r2-underline { border-bottom: 1px solid blue; }
}
`, "test")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(sheet.Rules) != 2 {
		t.Fatalf("expected 2 top level rules, got %d", len(sheet.Rules))
	}
	if len(sheet.Rules[0].Selectors) != 2 {
		t.Errorf("expected grouped selectors, got %v", sheet.Rules[0].Selectors)
	}
	hl := sheet.RulesFor(".r2-highlight")
	if len(hl) != 2 {
		t.Fatalf("expected 2 rules for .r2-highlight, got %d", len(hl))
	}
	if v, _ := hl[1].Declarations.Get("opacity"); v != "0.3" {
		t.Errorf("opacity = %q, want 0.3", v)
	}
	if len(sheet.AtRules) != 1 || sheet.AtRules[0] != "@media" {
		t.Errorf("at-rules = %v", sheet.AtRules)
	}
}
