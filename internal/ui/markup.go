package ui

import (
	"regexp"

	"github.com/balconyRewrap/taskbot/internal/ui/styles"
)

var (
	boldRe   = regexp.MustCompile(`<b>(.*?)</b>`)
	italicRe = regexp.MustCompile(`<i>(.*?)</i>`)
	codeRe   = regexp.MustCompile(`<code>(.*?)</code>`)
)

// renderMarkup converts the engine's minimal rich-text markup into styled
// terminal text.
func renderMarkup(s *styles.Styles, text string) string {
	text = boldRe.ReplaceAllStringFunc(text, func(m string) string {
		return s.Bold.Render(boldRe.FindStringSubmatch(m)[1])
	})
	text = italicRe.ReplaceAllStringFunc(text, func(m string) string {
		return s.Italic.Render(italicRe.FindStringSubmatch(m)[1])
	})
	text = codeRe.ReplaceAllStringFunc(text, func(m string) string {
		return s.Code.Render(codeRe.FindStringSubmatch(m)[1])
	})
	return text
}
