// Package label renders the symbolic equation shown next to the surface.
//
// Exact quadrics are shown when t sits on an integer boundary; between
// boundaries the label carries a coefficient rounded to hundredths so the
// viewer can follow the numeric morph.
package label

import (
	"fmt"
	"math"
	"strings"
)

// Tolerance is the distance from an integer boundary that still counts as
// the exact form.
const Tolerance = 0.001

// End is the last boundary of the timeline. Values outside [0, End] are
// labelled like the nearest end.
const End = 6

type Label struct {
	Name     string
	Equation string
	Note     string
	Exact    bool
	// Coefficient is the rounded value embedded in Equation; 0 for exact labels.
	Coefficient float64
}

// Markup formats the label for a TeX typesetter: `$...$` math spans and
// `<br>` line breaks.
func (l Label) Markup() string {
	var b strings.Builder
	b.WriteString(`$\text{` + l.Name + `}$<br><br>$` + l.Equation + `$`)
	if l.Note != "" {
		b.WriteString(`<br><br>$` + l.Note + `$`)
	}
	return b.String()
}

type Generator struct {
	Locale Locale
}

func New(locale Locale) Generator { return Generator{Locale: locale} }

// Label returns the display markup for t.
func (g Generator) Label(t float64) string { return g.Describe(t).Markup() }

// Describe returns the structured label for t.
func (g Generator) Describe(t float64) Label {
	n := namesFor(g.Locale)
	t = math.Max(0, math.Min(End, t))
	if k, ok := nearBoundary(t); ok {
		return exact(n, k)
	}
	return interpolated(n, t)
}

// nearBoundary reports the integer boundary in 0..End within Tolerance of t.
func nearBoundary(t float64) (int, bool) {
	k := math.Round(t)
	if k < 0 || k > End {
		return 0, false
	}
	if math.Abs(t-k) < Tolerance {
		return int(k), true
	}
	return 0, false
}

func exact(n names, k int) Label {
	l := Label{Exact: true}
	switch k {
	case 0:
		l.Name, l.Equation = n.sphere, `x^2 + y^2 + z^2 = R^2`
	case 1:
		l.Name, l.Equation = n.cylinder, `x^2 + y^2 \cancel{+ 0.00z^2} = R^2`
	case 2:
		l.Name, l.Equation = n.hyperboloid, `x^2 + y^2 - z^2 = R^2`
	case 3:
		l.Name, l.Equation = n.cone, `x^2 + y^2 - z^2 = 0`
	case 4:
		l.Name, l.Equation = n.twoSheet, `x^2 + y^2 - z^2 = -R^2`
	case 5:
		l.Name, l.Equation = n.planes, `\cancel{0.00x^2} \cancel{ + 0.00y^2} - z^2 = -R^2`
		l.Note = `(z = R \:\:\text{` + n.and + `}\:\:z=-R)`
	default:
		l.Name, l.Equation = n.sphere, `-x^2 - y^2 - z^2 = -R^2`
	}
	return l
}

func interpolated(n names, t float64) Label {
	interval := int(math.Floor(t))
	if interval < 0 {
		interval = 0
	}
	if interval > 5 {
		interval = 5
	}

	l := Label{}
	switch interval {
	case 0:
		l.Coefficient = coefficient(1, t)
		l.Name, l.Equation = n.ellipsoid, fmt.Sprintf(`x^2 + y^2 + %.2f z^2 = R^2`, l.Coefficient)
	case 1:
		l.Coefficient = coefficient(1, t)
		l.Name, l.Equation = n.hyperboloid, fmt.Sprintf(`x^2 + y^2 - %.2f z^2 = R^2`, l.Coefficient)
	case 2:
		l.Coefficient = coefficient(3, t)
		l.Name, l.Equation = n.hyperboloid, fmt.Sprintf(`x^2 + y^2 - z^2 = %.2f R^2`, l.Coefficient)
	case 3:
		l.Coefficient = coefficient(3, t)
		l.Name, l.Equation = n.twoSheet, fmt.Sprintf(`x^2 + y^2 - z^2 = -%.2f R^2`, l.Coefficient)
	case 4:
		l.Coefficient = coefficient(5, t)
		c := fmt.Sprintf("%.2f", l.Coefficient)
		l.Name, l.Equation = n.twoSheet, c+`x^2 + `+c+`y^2 - z^2 = -R^2`
	default:
		l.Coefficient = coefficient(5, t)
		c := fmt.Sprintf("%.2f", l.Coefficient)
		l.Name, l.Equation = n.ellipsoid, `-`+c+`x^2 - `+c+`y^2 - z^2 = -R^2`
	}
	return l
}

// coefficient rounds |boundary - t| to hundredths.
func coefficient(boundary, t float64) float64 {
	return math.Round(100*math.Abs(boundary-t)) / 100
}

// Morph is the unrounded coefficient of the active equation, continuous
// over the whole timeline. Renderers chart it.
func Morph(t float64) float64 {
	switch {
	case t <= 2:
		return math.Abs(1 - t)
	case t <= 3:
		return 3 - t
	case t <= 4:
		return t - 3
	case t <= 5:
		return 5 - t
	default:
		return t - 5
	}
}
