//
// Cooked forum markup processor
//

//
// Fenced code block language classes
//
// The fence info string becomes a lang-<name> class for the client side
// highlighter, filtered against the acceptable class list. A missing info
// string falls back to the site default; an unacceptable one renders as
// lang-nohighlight so the highlighter leaves it alone.
//

package cooked

import "strings"

func fenceLang(info string, opts *RenderOptions) string {
	lang := info
	if i := strings.IndexAny(lang, " \t"); i >= 0 {
		lang = lang[:i]
	}
	if lang == "" {
		lang = opts.DefaultCodeLang
	}
	for _, c := range opts.AcceptableCodeClasses {
		if c == lang {
			return lang
		}
	}
	return "nohighlight"
}

func renderFenceWithLang(r *Renderer, tokens []*Token, idx int, opts *RenderOptions, w *strings.Builder) {
	t := tokens[idx]
	w.WriteString(`<pre><code class="lang-`)
	escapeHTML(w, fenceLang(strings.TrimSpace(t.Info), opts))
	w.WriteString(`">`)
	escapeHTML(w, t.Content)
	w.WriteString("</code></pre>\n")
}

func setupFence(h *PluginHelper) {
	h.AllowListClass("code", func(class string) bool {
		return strings.HasPrefix(class, "lang-")
	})

	h.RegisterOptions(func(opts *RenderOptions, settings *SiteSettings) {
		if opts.DefaultCodeLang == "" {
			opts.DefaultCodeLang = settings.DefaultCodeLang
		}
		if opts.AcceptableCodeClasses == nil {
			opts.AcceptableCodeClasses = settings.AcceptableCodeClasses
		}
	})

	h.RegisterPlugin(func(e *Engine) {
		e.Renderer.Rules["fence"] = renderFenceWithLang
	})
}
