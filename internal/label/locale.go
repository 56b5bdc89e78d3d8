package label

import (
	"fmt"
	"strings"
)

type Locale string

const (
	Dutch   Locale = "nl"
	English Locale = "en"
)

type names struct {
	sphere, ellipsoid, cylinder, hyperboloid, cone, twoSheet, planes, and string
}

var locales = map[Locale]names{
	Dutch: {
		sphere:      "Bol",
		ellipsoid:   "Ellipsoïde",
		cylinder:    "Cilinder",
		hyperboloid: "Hyperboloïde",
		cone:        "Kegel",
		twoSheet:    "Tweebladige Hyperboloïde",
		planes:      "Twee evenwijdige vlakken",
		and:         "en",
	},
	English: {
		sphere:      "Sphere",
		ellipsoid:   "Ellipsoid",
		cylinder:    "Cylinder",
		hyperboloid: "Hyperboloid",
		cone:        "Cone",
		twoSheet:    "Two-sheeted Hyperboloid",
		planes:      "Two parallel planes",
		and:         "and",
	},
}

// namesFor falls back to Dutch for unknown locales.
func namesFor(l Locale) names {
	if n, ok := locales[l]; ok {
		return n
	}
	return locales[Dutch]
}

// ParseLocale accepts "nl" or "en" in any case.
func ParseLocale(s string) (Locale, error) {
	l := Locale(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := locales[l]; !ok {
		return Dutch, fmt.Errorf("label: unknown locale %q", s)
	}
	return l, nil
}
