//
// Cooked forum markup processor
//

//
// HTML rendering backend
//
// Every token type renders through a per-type rule; rule modules may
// override any rule. Tokens without a rule fall back to the generic
// open/close form built from Tag and Attrs.
//

package cooked

import (
	"strings"

	sanitized "github.com/shurcooL/sanitized_anchor_name"
)

// RenderFunc renders the token at tokens[idx].
type RenderFunc func(r *Renderer, tokens []*Token, idx int, opts *RenderOptions, w *strings.Builder)

type Renderer struct {
	Rules map[string]RenderFunc
}

func newRenderer() *Renderer {
	r := &Renderer{Rules: map[string]RenderFunc{}}
	r.Rules["text"] = renderText
	r.Rules["code_inline"] = renderCodeInline
	r.Rules["fence"] = renderFence
	r.Rules["image"] = renderImage
	r.Rules["html_block"] = renderHTMLRaw
	r.Rules["html_inline"] = renderHTMLRaw
	r.Rules["softbreak"] = renderBreak
	r.Rules["hardbreak"] = renderBreak
	r.Rules["heading_open"] = renderHeadingOpen
	return r
}

func (r *Renderer) Render(tokens []*Token, opts *RenderOptions) string {
	var w strings.Builder
	r.renderTokens(&w, tokens, opts)
	return w.String()
}

func (r *Renderer) renderTokens(w *strings.Builder, tokens []*Token, opts *RenderOptions) {
	for i, t := range tokens {
		if t.Type == "inline" {
			r.renderTokens(w, t.Children, opts)
			continue
		}
		if rule, ok := r.Rules[t.Type]; ok {
			rule(r, tokens, i, opts, w)
			continue
		}
		r.renderToken(w, tokens, i)
	}
}

// renderToken is the generic open/close renderer.
func (r *Renderer) renderToken(w *strings.Builder, tokens []*Token, idx int) {
	t := tokens[idx]
	if t.Hidden || t.Tag == "" {
		return
	}

	if t.Nesting == -1 {
		w.WriteString("</")
		w.WriteString(t.Tag)
		w.WriteByte('>')
	} else {
		w.WriteByte('<')
		w.WriteString(t.Tag)
		renderAttrs(w, t)
		w.WriteByte('>')
	}

	if t.Block {
		needLf := true
		if t.Nesting == 1 && idx+1 < len(tokens) {
			next := tokens[idx+1]
			if next.Type == "inline" || next.Hidden || (next.Nesting == -1 && next.Tag == t.Tag) {
				needLf = false
			}
		}
		if needLf {
			w.WriteByte('\n')
		}
	}
}

func renderAttrs(w *strings.Builder, t *Token) {
	for _, a := range t.Attrs {
		w.WriteByte(' ')
		w.WriteString(a.Name)
		w.WriteString(`="`)
		escapeHTML(w, a.Value)
		w.WriteByte('"')
	}
}

func renderText(r *Renderer, tokens []*Token, idx int, opts *RenderOptions, w *strings.Builder) {
	escapeHTML(w, tokens[idx].Content)
}

func renderCodeInline(r *Renderer, tokens []*Token, idx int, opts *RenderOptions, w *strings.Builder) {
	t := tokens[idx]
	w.WriteString("<code")
	renderAttrs(w, t)
	w.WriteByte('>')
	escapeHTML(w, t.Content)
	w.WriteString("</code>")
}

func renderFence(r *Renderer, tokens []*Token, idx int, opts *RenderOptions, w *strings.Builder) {
	t := tokens[idx]
	w.WriteString("<pre><code")
	renderAttrs(w, t)
	w.WriteByte('>')
	escapeHTML(w, t.Content)
	w.WriteString("</code></pre>\n")
}

func renderImage(r *Renderer, tokens []*Token, idx int, opts *RenderOptions, w *strings.Builder) {
	t := tokens[idx]
	w.WriteString("<img")
	for _, a := range t.Attrs {
		w.WriteByte(' ')
		w.WriteString(a.Name)
		w.WriteString(`="`)
		if a.Name == "alt" {
			escapeHTML(w, t.Content)
		} else {
			escapeHTML(w, a.Value)
		}
		w.WriteByte('"')
	}
	w.WriteByte('>')
}

func renderHTMLRaw(r *Renderer, tokens []*Token, idx int, opts *RenderOptions, w *strings.Builder) {
	// passed through verbatim here; the allow-list filter is the security
	// boundary for raw markup
	w.WriteString(tokens[idx].Content)
}

func renderBreak(r *Renderer, tokens []*Token, idx int, opts *RenderOptions, w *strings.Builder) {
	w.WriteString("<br>\n")
}

func renderHeadingOpen(r *Renderer, tokens []*Token, idx int, opts *RenderOptions, w *strings.Builder) {
	t := tokens[idx]
	w.WriteByte('<')
	w.WriteString(t.Tag)
	if idx+1 < len(tokens) && tokens[idx+1].Type == "inline" && tokens[idx+1].Content != "" {
		w.WriteString(` id="`)
		escapeHTML(w, sanitized.Create(tokens[idx+1].Content))
		w.WriteByte('"')
	}
	renderAttrs(w, t)
	w.WriteByte('>')
}
