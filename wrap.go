//
// Cooked forum markup processor
//

//
// [wrap] custom container tags
//
// [wrap=name key=val]...[/wrap] produces <div class="d-wrap"
// data-wrap="name" data-key="val">, a hook for theme components to style
// or decorate arbitrary spans of a post without any new markup reaching
// the sanitizer.
//

package cooked

import (
	"regexp"
	"sort"
	"strings"
)

var reWrapAttrName = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// attrKeys returns map keys in stable order so emitted attributes do not
// jitter between renders.
func attrKeys(attrs map[string]string) []string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func wrapOpen(s *StateBlock, info *BBCodeTag) {
	tok := s.Push("wrap_open", "div", 1)
	tok.AttrPush("class", "d-wrap")
	if name := strings.TrimSpace(info.Attrs["_default"]); name != "" {
		tok.AttrPush("data-wrap", name)
	}
	for _, key := range attrKeys(info.Attrs) {
		if key == "_default" {
			continue
		}
		name := strings.ToLower(key)
		if !reWrapAttrName.MatchString(name) {
			continue
		}
		tok.AttrPush("data-"+name, info.Attrs[key])
	}
}

func wrapClose(s *StateBlock, info *BBCodeTag) {
	s.Push("wrap_close", "div", -1)
}

func setupWrap(h *PluginHelper) {
	h.AllowList("div[class=d-wrap]", "div[data-*]")

	h.RegisterOptions(func(opts *RenderOptions, settings *SiteSettings) {
		if settings.EnableWrapTags {
			opts.Features["custom-wrap"] = true
		}
	})

	h.RegisterPlugin(func(e *Engine) {
		e.BBCode.RegisterBlock(&BBCodeBlockRule{
			Tag:     "wrap",
			Enabled: func(opts *RenderOptions) bool { return opts.Features["custom-wrap"] },
			Open:    wrapOpen,
			Close:   wrapClose,
		})
	})
}
