//
// Cooked forum markup processor
//

//
// Bare URL linkification and onebox expansion
//
// Linkify turns bare http(s) URLs in plain text into autolinks. Onebox
// then decides, per autolink, whether it should become a rich block embed
// (the link is the sole content of a top-level paragraph) or a compact
// inline title substitution. Embed HTML and inline titles come from
// engine caches populated out-of-band; a miss leaves a decorated link for
// the client to upgrade after the fetch completes.
//

package cooked

import (
	"regexp"
	"strings"
)

var reLinkify = regexp.MustCompile(`(?i)\bhttps?://[^\s<>"']+`)

// trimLinkTail drops trailing punctuation that reads as sentence
// structure rather than URL content.
func trimLinkTail(url string) string {
	url = strings.TrimRight(url, ".,;:!?")
	if strings.HasSuffix(url, ")") && strings.Count(url, "(") < strings.Count(url, ")") {
		url = url[:len(url)-1]
	}
	return url
}

func ruleLinkify(s *StateCore) {
	eachInline(s.Tokens, func(_ int, inline *Token) {
		edits := map[int][]*Token{}
		eachLinkFreeText(inline.Children, func(i int, t *Token) {
			locs := reLinkify.FindAllStringIndex(t.Content, -1)
			if locs == nil {
				return
			}
			var out []*Token
			pos := 0
			for _, loc := range locs {
				url := trimLinkTail(t.Content[loc[0]:loc[1]])
				if !s.Engine.ValidateLink(url) {
					continue
				}
				if pre := t.Content[pos:loc[0]]; pre != "" {
					nt := NewToken("text", "", 0)
					nt.Level = t.Level
					nt.Content = pre
					out = append(out, nt)
				}
				open := NewToken("link_open", "a", 1)
				open.Level = t.Level
				open.AttrPush("href", url)
				open.Markup = "linkify"
				open.Info = "auto"
				label := NewToken("text", "", 0)
				label.Level = t.Level + 1
				label.Content = url
				closing := NewToken("link_close", "a", -1)
				closing.Level = t.Level
				closing.Markup = "linkify"
				closing.Info = "auto"
				out = append(out, open, label, closing)
				pos = loc[0] + len(url)
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

func setupLinkify(h *PluginHelper) {
	h.RegisterPlugin(func(e *Engine) {
		e.Core.Push("linkify", ruleLinkify)
	})
}

// oneboxCandidate reports whether a link_open child is an undecorated
// autolink with an expandable target.
func oneboxCandidate(t *Token) bool {
	if t.Type != "link_open" || t.Info != "auto" || len(t.Attrs) != 1 {
		return false
	}
	href := t.AttrGet("href")
	return strings.HasPrefix(href, "http://") ||
		strings.HasPrefix(href, "https://") ||
		strings.HasPrefix(href, "//")
}

// isTopLevelURL reports whether the URL targets a bare origin with no
// meaningful path or query. Top-level domains never inline-onebox; a
// title substitution for "example.com" adds nothing.
func isTopLevelURL(url string) bool {
	rest := url
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	} else {
		rest = strings.TrimPrefix(rest, "//")
	}
	slash := strings.IndexByte(rest, '/')
	if slash < 0 {
		return !strings.ContainsRune(rest, '?')
	}
	path := rest[slash:]
	return path == "/" || path == ""
}

// soleParagraphLink reports whether children is exactly one link pair and
// the enclosing paragraph opens at nesting level zero.
func soleParagraphLink(s *StateCore, blockIdx int, children []*Token, i int) bool {
	if i != 0 || len(children) != 3 || children[2].Type != "link_close" {
		return false
	}
	if blockIdx == 0 {
		return false
	}
	prev := s.Tokens[blockIdx-1]
	return prev.Type == "paragraph_open" && prev.Level == 0
}

func applyBlockOnebox(s *StateCore, children []*Token, i int) {
	open, label, closing := children[i], children[i+1], children[i+2]
	url := open.AttrGet("href")

	if html, ok := s.Engine.cachedOnebox(url); ok {
		// splat the cached embed over the three-token sequence
		open.Type = "html_inline"
		open.Tag = ""
		open.Nesting = 0
		open.Attrs = nil
		open.Content = html
		label.Content = ""
		closing.Type = "text"
		closing.Tag = ""
		closing.Nesting = 0
		closing.Content = ""
		return
	}
	open.AttrPush("class", "onebox")
	open.AttrPush("target", "_blank")
}

func applyInlineOnebox(s *StateCore, children []*Token, i int) {
	open := children[i]
	url := open.AttrGet("href")
	if isTopLevelURL(url) {
		return
	}
	title, ok := s.Engine.cachedInlineOnebox(url)
	if !ok {
		// pending; the client polls and re-renders once resolved
		open.AttrJoin("class", "inline-onebox-loading")
		return
	}
	if title == "" {
		// resolved, not oneboxable
		return
	}
	if i+1 < len(children) && children[i+1].Type == "text" {
		children[i+1].Content = title
	}
	open.AttrJoin("class", "inline-onebox")
}

func ruleOnebox(s *StateCore) {
	eachInline(s.Tokens, func(blockIdx int, inline *Token) {
		children := inline.Children
		for i := 0; i < len(children); i++ {
			t := children[i]
			if !oneboxCandidate(t) {
				continue
			}
			if soleParagraphLink(s, blockIdx, children, i) {
				applyBlockOnebox(s, children, i)
				i += 2
				continue
			}
			applyInlineOnebox(s, children, i)
		}
	})
}

func setupOnebox(h *PluginHelper) {
	h.AllowList(
		"a[class=onebox]", "a[target=_blank]",
		"a[class=inline-onebox]", "a[class=inline-onebox-loading]",
	)
	// tags the out-of-band onebox templates emit
	h.AllowList(
		"aside[class=onebox]", "aside[data-onebox-src]",
		"header[class=source]", "article[class=onebox-body]",
		"h3", "h4", "div[class=onebox-metadata]", "div[class=aspect-image]",
		"img[class=thumbnail]", "img[loading=lazy]",
	)
	h.AllowListClass("aside", func(class string) bool {
		return class == "onebox" || strings.HasPrefix(class, "onebox ")
	})

	h.RegisterPlugin(func(e *Engine) {
		e.Core.Push("onebox", ruleOnebox)
	})
}
