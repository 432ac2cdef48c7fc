//
// Cooked forum markup processor
//

//
// HTML escaping
//

package cooked

import "strings"

type escMap struct {
	char byte
	seq  string
}

var htmlEscaper = []escMap{
	{'&', "&amp;"},
	{'<', "&lt;"},
	{'>', "&gt;"},
	{'"', "&quot;"},
}

func escapeHTML(w *strings.Builder, s string) {
	var start, end int
	var sEnd byte
	for end < len(s) {
		sEnd = s[end]
		if sEnd == '&' || sEnd == '<' || sEnd == '>' || sEnd == '"' {
			for i := 0; i < len(htmlEscaper); i++ {
				if sEnd == htmlEscaper[i].char {
					w.WriteString(s[start:end])
					w.WriteString(htmlEscaper[i].seq)
					start = end + 1
					break
				}
			}
		}
		end++
	}
	if start < len(s) && end <= len(s) {
		w.WriteString(s[start:end])
	}
}

func escapeHTMLString(s string) string {
	if !strings.ContainsAny(s, `&<>"`) {
		return s
	}
	var b strings.Builder
	escapeHTML(&b, s)
	return b.String()
}
