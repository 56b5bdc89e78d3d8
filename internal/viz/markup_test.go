package viz

import (
	"reflect"
	"strings"
	"testing"

	"github.com/san-kum/quadmorph/internal/label"
)

func TestParseMarkup_Cylinder(t *testing.T) {
	got := ParseMarkup(label.New(label.Dutch).Label(1))
	want := [][]Span{
		{{Text: "Cilinder"}},
		nil,
		{{Text: "x² + y² "}, {Text: "+ 0.00z²", Struck: true}, {Text: " = R²"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseMarkup\n got  %#v\n want %#v", got, want)
	}
}

func TestParseMarkup_Note(t *testing.T) {
	lines := ParseMarkup(label.New(label.Dutch).Label(5))
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}
	if got := lines[4][0].Text; got != "(z = R   en  z=-R)" {
		t.Errorf("unexpected note %q", got)
	}
}

func TestPlainLabel(t *testing.T) {
	tests := []struct {
		markup string
		want   string
	}{
		{`$\text{Bol}$<br><br>$x^2 + y^2 + z^2 = R^2$`, "Bol\n\nx² + y² + z² = R²"},
		{`$x^2 \cancel{+ 0.00z^2} = R^2$`, "x² ~+ 0.00z²~ = R²"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := PlainLabel(tt.markup); got != tt.want {
			t.Errorf("PlainLabel(%q) = %q, want %q", tt.markup, got, tt.want)
		}
	}
}

func TestPlainLabel_WholeTimeline(t *testing.T) {
	g := label.New(label.English)
	for i := 0; i <= 60; i++ {
		out := PlainLabel(g.Label(float64(i) / 10))
		if strings.ContainsAny(out, `$\{}`) {
			t.Fatalf("markup left in %q", out)
		}
	}
}
