//
// Cooked forum markup processor
//

//
// Image size annotations
//
// An image alt text ending in |WxH or |WxH, S% carries authoring-time
// dimensions: width/height attributes are emitted (scaled by the
// percentage) and the annotation is stripped from the visible alt. A
// malformed scale falls back to 100% rather than rejecting the image.
//

package cooked

import (
	"regexp"
	"strconv"
	"strings"
)

var reImageSize = regexp.MustCompile(`\|(\d{1,5})x(\d{1,5})(?:,\s*([^|]*))?$`)
var reScalePct = regexp.MustCompile(`^(\d{1,3})%$`)

func parseImageScale(raw string) int {
	parts := strings.Split(raw, ",")
	last := strings.TrimSpace(parts[len(parts)-1])
	if m := reScalePct.FindStringSubmatch(last); m != nil {
		if pct, err := strconv.Atoi(m[1]); err == nil && pct > 0 && pct <= 100 {
			return pct
		}
	}
	return 100
}

func applyImageSize(t *Token, opts *RenderOptions) {
	m := reImageSize.FindStringSubmatchIndex(t.Content)
	if m == nil {
		return
	}
	width, _ := strconv.Atoi(t.Content[m[2]:m[3]])
	height, _ := strconv.Atoi(t.Content[m[4]:m[5]])
	if width == 0 || height == 0 {
		return
	}
	scale := 100
	if m[6] >= 0 {
		scale = parseImageScale(t.Content[m[6]:m[7]])
	}

	t.AttrSet("width", strconv.Itoa(width*scale/100))
	t.AttrSet("height", strconv.Itoa(height*scale/100))
	if opts.Previewing {
		t.AttrSet("data-scale", strconv.Itoa(scale))
	}
	t.Content = t.Content[:m[0]]
}

func ruleResize(s *StateCore) {
	eachInline(s.Tokens, func(_ int, inline *Token) {
		for _, t := range inline.Children {
			if t.Type == "image" && strings.ContainsRune(t.Content, '|') {
				applyImageSize(t, s.Opts)
			}
		}
	})
}

func setupResize(h *PluginHelper) {
	h.AllowList("img[data-scale]")

	h.RegisterPlugin(func(e *Engine) {
		e.Core.Push("resize", ruleResize)
	})
}
