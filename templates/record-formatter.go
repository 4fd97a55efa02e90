package templates

import (
	"html/template"
	"regexp"
	"strings"
)

var urlPattern = regexp.MustCompile(`(https?://[\w\.\/\%\-\:\=\#\?\&]+)`)

var textEffects = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile("`(.+?)`"), "<code>$1</code>"},
	{regexp.MustCompile(`\*\*(.+?)\*\*`), "<b>$1</b>"},
	{regexp.MustCompile(`\*(.+?)\*`), "<i>$1</i>"},
}

// FormatRecordText escapes record text for HTML and applies the small inline
// markup the dashboard supports: links, `code`, **bold** and *italic*.
// Line breaks become <br>.
func FormatRecordText(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = applyTextEffects(template.HTMLEscapeString(line))
	}
	return strings.Join(lines, "<br>")
}

func applyTextEffects(line string) string {
	line = urlPattern.ReplaceAllString(line, `<a href="$1" rel="noopener noreferrer">$1</a>`)
	for _, effect := range textEffects {
		line = effect.pattern.ReplaceAllString(line, effect.replacement)
	}
	return line
}
