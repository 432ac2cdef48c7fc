//
// Cooked forum markup processor
//

//
// Typographic arrow substitution
//
// Replaces free-standing -> <- => <= sequences in plain text with real
// arrow glyphs. Code spans, fences and link labels keep their literal
// source.
//

package cooked

import "regexp"

var reArrow = regexp.MustCompile(`(^|[\s(])(->|<-|=>|<=)([\s).,;:!?]|$)`)

var arrowGlyphs = map[string]string{
	"->": "→",
	"<-": "←",
	"=>": "⇒",
	"<=": "⇐",
}

func replaceArrows(text string) string {
	return reArrow.ReplaceAllStringFunc(text, func(m string) string {
		sub := reArrow.FindStringSubmatch(m)
		return sub[1] + arrowGlyphs[sub[2]] + sub[3]
	})
}

func ruleArrows(s *StateCore) {
	eachInline(s.Tokens, func(_ int, inline *Token) {
		eachLinkFreeText(inline.Children, func(_ int, t *Token) {
			t.Content = replaceArrows(t.Content)
		})
	})
}

func setupArrows(h *PluginHelper) {
	h.RegisterPlugin(func(e *Engine) {
		e.Core.Push("arrows", ruleArrows)
	})
}
