//
// Cooked forum markup processor
//

//
// #slug hashtag resolution
//
// Recognizes #slug mentions in plain text and asks an injected lookup to
// resolve them. The module has no idea what a category, tag or topic is;
// it only shapes markup around the lookup's {url, icon, text} answer. An
// unresolved slug becomes a plain styled span, never an error.
//

package cooked

import (
	"regexp"
	"strings"
)

var reHashtag = regexp.MustCompile(`#([\p{L}\p{N}\p{M}_-]{1,101})`)

// hashtagBoundary reports whether a match starting at start stands on its
// own rather than trailing a word or another tag.
func hashtagBoundary(text string, start int) bool {
	if start == 0 {
		return true
	}
	prev := text[start-1]
	return prev == ' ' || prev == '\t' || prev == '\n' || prev == '(' || prev == '>'
}

func hashtagTokens(level int, slug string, result *HashtagResult, e *Engine) []*Token {
	if result != nil && result.URL != "" && e.ValidateLink(result.URL) {
		text := result.Text
		if text == "" {
			text = slug
		}
		open := NewToken("link_open", "a", 1)
		open.Level = level
		open.AttrPush("class", "hashtag-cooked")
		open.AttrPush("href", result.URL)

		var body []*Token
		if result.Icon != "" {
			icon := NewToken("html_inline", "", 0)
			icon.Level = level + 1
			icon.Content = result.Icon
			body = append(body, icon)
		}
		label := NewToken("text", "", 0)
		label.Level = level + 1
		label.Content = text
		body = append(body, label)

		closing := NewToken("link_close", "a", -1)
		closing.Level = level
		return append(append([]*Token{open}, body...), closing)
	}

	open := NewToken("span_open", "span", 1)
	open.Level = level
	open.AttrPush("class", "hashtag")
	label := NewToken("text", "", 0)
	label.Level = level + 1
	label.Content = "#" + slug
	closing := NewToken("span_close", "span", -1)
	closing.Level = level
	return []*Token{open, label, closing}
}

func ruleHashtags(s *StateCore) {
	if !s.Opts.Features["hashtag-autocomplete"] {
		return
	}
	lookup := s.Opts.HashtagLookup
	if lookup == nil {
		// no resolver wired, leave #text alone
		return
	}

	eachInline(s.Tokens, func(_ int, inline *Token) {
		edits := map[int][]*Token{}
		eachLinkFreeText(inline.Children, func(i int, t *Token) {
			if !strings.ContainsRune(t.Content, '#') {
				return
			}
			locs := reHashtag.FindAllStringSubmatchIndex(t.Content, -1)
			if locs == nil {
				return
			}
			var out []*Token
			pos := 0
			for _, loc := range locs {
				if !hashtagBoundary(t.Content, loc[0]) {
					continue
				}
				slug := t.Content[loc[2]:loc[3]]
				result := lookup(slug, s.Opts.CurrentUser, s.Opts.HashtagTypesInPriorityOrder)
				if pre := t.Content[pos:loc[0]]; pre != "" {
					nt := NewToken("text", "", 0)
					nt.Level = t.Level
					nt.Content = pre
					out = append(out, nt)
				}
				out = append(out, hashtagTokens(t.Level, slug, result, s.Engine)...)
				pos = loc[1]
			}
			if out == nil {
				return
			}
			if tail := t.Content[pos:]; tail != "" {
				nt := NewToken("text", "", 0)
				nt.Level = t.Level
				nt.Content = tail
				out = append(out, nt)
			}
			edits[i] = out
		})
		inline.Children = applyTokenEdits(inline.Children, edits)
	})
}

func setupHashtags(h *PluginHelper) {
	h.AllowList(
		"span[class=hashtag]",
		"a[class=hashtag-cooked]",
		"svg[class]", "use[href]",
	)

	h.RegisterOptions(func(opts *RenderOptions, settings *SiteSettings) {
		if settings.EnableHashtags {
			opts.Features["hashtag-autocomplete"] = true
		}
		if opts.HashtagTypesInPriorityOrder == nil {
			opts.HashtagTypesInPriorityOrder = []string{"category", "tag"}
		}
	})

	h.RegisterPlugin(func(e *Engine) {
		e.Core.Push("hashtags", ruleHashtags)
	})
}
