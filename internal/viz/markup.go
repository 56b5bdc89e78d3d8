package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Span is a run of label text; Struck spans were cancelled terms.
type Span struct {
	Text   string
	Struck bool
}

var superscripts = strings.NewReplacer("^2", "²", "^3", "³")

// ParseMarkup turns label markup into lines of spans. Paragraphs are
// separated by a blank line.
func ParseMarkup(markup string) [][]Span {
	var lines [][]Span
	for i, para := range strings.Split(markup, "<br><br>") {
		if i > 0 {
			lines = append(lines, nil)
		}
		for _, line := range strings.Split(para, "<br>") {
			line = strings.ReplaceAll(line, "$", "")
			lines = append(lines, merge(parseTeX(line, false)))
		}
	}
	return lines
}

func parseTeX(s string, struck bool) []Span {
	var (
		out []Span
		buf strings.Builder
	)
	flush := func() {
		if buf.Len() > 0 {
			out = append(out, Span{Text: superscripts.Replace(buf.String()), Struck: struck})
			buf.Reset()
		}
	}

	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			if s[i] != '{' && s[i] != '}' {
				buf.WriteByte(s[i])
			}
			continue
		}
		j := i + 1
		for j < len(s) && isLetter(s[j]) {
			j++
		}
		cmd := s[i+1 : j]
		if cmd == "" {
			// \: and friends are spacing.
			if j < len(s) && s[j] == ':' {
				buf.WriteByte(' ')
				j++
			}
			i = j - 1
			continue
		}
		if j < len(s) && s[j] == '{' {
			end := matchBrace(s, j)
			arg := s[j+1 : end]
			flush()
			out = append(out, parseTeX(arg, struck || cmd == "cancel")...)
			i = end
			continue
		}
		i = j - 1
	}
	flush()
	return out
}

func isLetter(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }

// matchBrace returns the index of the brace closing the one at open, or
// the last index when unbalanced.
func matchBrace(s string, open int) int {
	depth := 0
	for k := open; k < len(s); k++ {
		switch s[k] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return k
			}
		}
	}
	return len(s) - 1
}

func merge(spans []Span) []Span {
	var out []Span
	for _, sp := range spans {
		if n := len(out); n > 0 && out[n-1].Struck == sp.Struck {
			out[n-1].Text += sp.Text
			continue
		}
		out = append(out, sp)
	}
	return out
}

// PlainLabel renders markup as text, marking cancelled terms with ~.
func PlainLabel(markup string) string {
	return renderSpans(ParseMarkup(markup), func(sp Span) string {
		if sp.Struck {
			return "~" + strings.TrimSpace(sp.Text) + "~"
		}
		return sp.Text
	})
}

// StyledLabel renders markup with the first line as a title.
func StyledLabel(markup string, title, eq, struck lipgloss.Style) string {
	lines := ParseMarkup(markup)
	return renderLines(lines, func(row int, sp Span) string {
		switch {
		case sp.Struck:
			return struck.Render(sp.Text)
		case row == 0:
			return title.Render(sp.Text)
		default:
			return eq.Render(sp.Text)
		}
	})
}

func renderSpans(lines [][]Span, fn func(Span) string) string {
	return renderLines(lines, func(_ int, sp Span) string { return fn(sp) })
}

func renderLines(lines [][]Span, fn func(row int, sp Span) string) string {
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, sp := range line {
			b.WriteString(fn(i, sp))
		}
	}
	return b.String()
}
