//
// Cooked forum markup processor
//

//
// Shared helpers for passes that rewrite inline child arrays
//

package cooked

import "strings"

// eachLinkFreeText visits plain text tokens that are not nested inside a
// markdown link pair or a raw HTML anchor. Iteration runs in reverse index
// order; the html link level is tracked by counting </a> before <a>. Spans
// delimited by link_open/link_close are skipped wholesale by scanning
// backward to the matching opener.
func eachLinkFreeText(children []*Token, fn func(i int, t *Token)) {
	htmlLinkLevel := 0
	for i := len(children) - 1; i >= 0; i-- {
		t := children[i]
		switch t.Type {
		case "html_inline":
			c := strings.ToLower(strings.TrimSpace(t.Content))
			if strings.HasPrefix(c, "</a") {
				htmlLinkLevel++
			} else if strings.HasPrefix(c, "<a") && !strings.HasPrefix(c, "<a/") {
				if htmlLinkLevel > 0 {
					htmlLinkLevel--
				}
			}
			continue
		case "link_close":
			depth := 1
			j := i - 1
			for ; j >= 0; j-- {
				switch children[j].Type {
				case "link_close":
					depth++
				case "link_open":
					depth--
				}
				if depth == 0 {
					break
				}
			}
			i = j
			continue
		}
		if htmlLinkLevel > 0 || t.Type != "text" || t.Meta != "" {
			continue
		}
		fn(i, t)
	}
}

// applyTokenEdits replaces children wholesale: every index present in
// edits is swapped for its replacement list, everything else is kept.
// Collect-then-rebuild avoids the index invalidation of live splicing.
func applyTokenEdits(children []*Token, edits map[int][]*Token) []*Token {
	if len(edits) == 0 {
		return children
	}
	out := make([]*Token, 0, len(children))
	for i, t := range children {
		if repl, ok := edits[i]; ok {
			out = append(out, repl...)
			continue
		}
		out = append(out, t)
	}
	return out
}

// eachInline visits every "inline" token in the block stream together
// with the index of the block token preceding it.
func eachInline(tokens []*Token, fn func(blockIdx int, inline *Token)) {
	for i, t := range tokens {
		if t.Type == "inline" {
			fn(i, t)
		}
	}
}
