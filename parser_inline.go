//
// Cooked forum markup processor
//

//
// Inline tokenizer
//
// Expands the raw text of one "inline" token into child tokens. Rules are
// tried in order at each position; unclaimed characters accumulate as
// pending text. Postprocess rules (BBCode delimiter resolution, text
// collapse) run once over the finished child list.
//

package cooked

import (
	"regexp"
	"strings"
)

const maxNesting = 20

type parserInline struct {
	rules       ruler[InlineRule]
	postprocess ruler[PostprocessRule]
}

func newParserInline() *parserInline {
	p := &parserInline{}
	p.rules.Push("text", ruleText)
	p.rules.Push("newline", ruleNewline)
	p.rules.Push("escape", ruleEscape)
	p.rules.Push("backticks", ruleBackticks)
	p.rules.Push("bbcode", ruleBBCodeInline)
	p.rules.Push("link", ruleLink)
	p.rules.Push("image", ruleImage)
	p.rules.Push("autolink", ruleAutolink)
	p.rules.Push("html_inline", ruleHTMLInline)
	p.rules.Push("emphasis", ruleEmphasis)

	p.postprocess.Push("bbcode", processBBCode)
	p.postprocess.Push("text_collapse", processTextCollapse)
	return p
}

func (p *parserInline) parse(src string, e *Engine, opts *RenderOptions) []*Token {
	if src == "" {
		return nil
	}
	s := &StateInline{Src: src, Engine: e, Opts: opts, PosMax: len(src)}
	p.tokenize(s)
	for _, r := range p.postprocess.funcs() {
		r(s)
	}
	return s.Tokens
}

func (p *parserInline) tokenize(s *StateInline) {
	rules := p.rules.funcs()
	for s.Pos < s.PosMax {
		ok := false
		if s.Level < maxNesting {
			for _, rule := range rules {
				if rule(s, false) {
					ok = true
					break
				}
			}
		}
		if ok {
			continue
		}
		s.Pending.WriteByte(s.Src[s.Pos])
		s.Pos++
	}
	if s.Pending.Len() > 0 {
		s.PushPending()
	}
}

// characters that can begin an inline construct; everything else is
// swallowed by the text rule in one gulp
func isInlineSpecial(c byte) bool {
	switch c {
	case '\n', '\\', '`', '*', '_', '[', '<', '!':
		return true
	}
	return false
}

func ruleText(s *StateInline, silent bool) bool {
	pos := s.Pos
	for pos < s.PosMax && !isInlineSpecial(s.Src[pos]) {
		pos++
	}
	if pos == s.Pos {
		return false
	}
	if !silent {
		s.Pending.WriteString(s.Src[s.Pos:pos])
	}
	s.Pos = pos
	return true
}

func ruleNewline(s *StateInline, silent bool) bool {
	if s.Src[s.Pos] != '\n' {
		return false
	}
	if silent {
		s.Pos++
		return true
	}

	pending := s.Pending.String()
	hard := strings.HasSuffix(pending, "  ")
	if trimmed := strings.TrimRight(pending, " "); trimmed != pending {
		s.Pending.Reset()
		s.Pending.WriteString(trimmed)
	}

	if hard {
		s.Push("hardbreak", "br", 0)
	} else {
		s.Push("softbreak", "br", 0)
	}
	s.Pos++
	return true
}

var escapable = "\\!\"#$%&'()*+,-./:;<=>?@[]^_`{|}~"

func ruleEscape(s *StateInline, silent bool) bool {
	if s.Src[s.Pos] != '\\' || s.Pos+1 >= s.PosMax {
		return false
	}
	c := s.Src[s.Pos+1]
	if strings.IndexByte(escapable, c) < 0 {
		return false
	}
	if !silent {
		s.Pending.WriteByte(c)
	}
	s.Pos += 2
	return true
}

func ruleBackticks(s *StateInline, silent bool) bool {
	if s.Src[s.Pos] != '`' {
		return false
	}
	n := 0
	for s.Pos+n < s.PosMax && s.Src[s.Pos+n] == '`' {
		n++
	}
	opener := strings.Repeat("`", n)

	// find a closing run of the same length
	pos := s.Pos + n
	for pos < s.PosMax {
		idx := strings.Index(s.Src[pos:s.PosMax], opener)
		if idx < 0 {
			return false
		}
		pos += idx
		end := pos
		for end < s.PosMax && s.Src[end] == '`' {
			end++
		}
		if end-pos == n {
			if !silent {
				content := s.Src[s.Pos+n : pos]
				if len(content) > 1 && strings.HasPrefix(content, " ") && strings.HasSuffix(content, " ") {
					content = content[1 : len(content)-1]
				}
				tok := s.Push("code_inline", "code", 0)
				tok.Content = content
				tok.Markup = opener
			}
			s.Pos = end
			return true
		}
		pos = end
	}
	return false
}

// findEmphClose locates a closing marker run of length >= n that is not
// preceded by whitespace or a backslash. Returns the run start, or -1.
func findEmphClose(src string, from, max int, marker byte, n int) int {
	for i := from; i < max; i++ {
		if src[i] == '\\' {
			i++
			continue
		}
		if src[i] != marker {
			continue
		}
		m := i
		for m < max && src[m] == marker {
			m++
		}
		if m-i >= n && i > from && !isSpaceByte(src[i-1]) {
			return i
		}
		i = m - 1
	}
	return -1
}

func ruleEmphasis(s *StateInline, silent bool) bool {
	marker := s.Src[s.Pos]
	if marker != '*' && marker != '_' {
		return false
	}
	n := 0
	for s.Pos+n < s.PosMax && s.Src[s.Pos+n] == marker {
		n++
	}
	if n > 3 {
		return false
	}
	start := s.Pos + n
	if start >= s.PosMax || isSpaceByte(s.Src[start]) {
		return false
	}
	closer := findEmphClose(s.Src, start, s.PosMax, marker, n)
	if closer < 0 {
		return false
	}
	if silent {
		s.Pos = closer + n
		return true
	}

	mk := strings.Repeat(string(marker), n)
	var opens, closes []string
	switch n {
	case 1:
		opens, closes = []string{"em_open"}, []string{"em_close"}
	case 2:
		opens, closes = []string{"strong_open"}, []string{"strong_close"}
	default:
		opens = []string{"em_open", "strong_open"}
		closes = []string{"strong_close", "em_close"}
	}
	tags := map[string]string{"em_open": "em", "em_close": "em", "strong_open": "strong", "strong_close": "strong"}

	for _, typ := range opens {
		tok := s.Push(typ, tags[typ], 1)
		tok.Markup = mk
	}

	oldMax := s.PosMax
	s.Pos, s.PosMax = start, closer
	s.Engine.Inline.tokenize(s)
	s.PosMax = oldMax

	for _, typ := range closes {
		tok := s.Push(typ, tags[typ], -1)
		tok.Markup = mk
	}
	s.Pos = closer + n
	return true
}

// matchBracketLabel returns the position of the ']' matching the '[' at
// start, or -1.
func matchBracketLabel(src string, start, max int) int {
	level := 1
	for i := start + 1; i < max; i++ {
		switch src[i] {
		case '\\':
			i++
		case '[':
			level++
		case ']':
			level--
			if level == 0 {
				return i
			}
		}
	}
	return -1
}

// parseLinkDestination consumes a destination and optional quoted title
// starting just after '('. Returns href, title and the position past the
// closing ')', or ok == false.
func parseLinkDestination(src string, pos, max int) (href, title string, end int, ok bool) {
	for pos < max && isSpaceByte(src[pos]) {
		pos++
	}
	destStart := pos
	angled := pos < max && src[pos] == '<'
	if angled {
		pos++
		destStart = pos
		for pos < max && src[pos] != '>' && src[pos] != '\n' {
			pos++
		}
		if pos >= max || src[pos] != '>' {
			return "", "", 0, false
		}
		href = src[destStart:pos]
		pos++
	} else {
		for pos < max {
			c := src[pos]
			if c == '\\' {
				pos += 2
				continue
			}
			if c == ')' || c == '"' || c == '\'' || isSpaceByte(c) {
				break
			}
			pos++
		}
		href = src[destStart:pos]
	}

	for pos < max && isSpaceByte(src[pos]) {
		pos++
	}
	if pos < max && (src[pos] == '"' || src[pos] == '\'') {
		quote := src[pos]
		pos++
		titleStart := pos
		for pos < max && src[pos] != quote {
			if src[pos] == '\\' {
				pos++
			}
			pos++
		}
		if pos >= max {
			return "", "", 0, false
		}
		title = src[titleStart:pos]
		pos++
		for pos < max && isSpaceByte(src[pos]) {
			pos++
		}
	}
	if pos >= max || src[pos] != ')' {
		return "", "", 0, false
	}
	return href, title, pos + 1, true
}

func ruleLink(s *StateInline, silent bool) bool {
	if s.Src[s.Pos] != '[' {
		return false
	}
	labelEnd := matchBracketLabel(s.Src, s.Pos, s.PosMax)
	if labelEnd < 0 || labelEnd+1 >= s.PosMax || s.Src[labelEnd+1] != '(' {
		return false
	}
	href, title, end, ok := parseLinkDestination(s.Src, labelEnd+2, s.PosMax)
	if !ok || !s.Engine.ValidateLink(href) {
		return false
	}
	if silent {
		s.Pos = end
		return true
	}

	tok := s.Push("link_open", "a", 1)
	tok.AttrPush("href", href)
	if title != "" {
		tok.AttrPush("title", title)
	}

	labelStart := s.Pos + 1
	oldMax := s.PosMax
	s.Pos, s.PosMax = labelStart, labelEnd
	s.Engine.Inline.tokenize(s)
	s.PosMax = oldMax

	s.Push("link_close", "a", -1)
	s.Pos = end
	return true
}

func ruleImage(s *StateInline, silent bool) bool {
	if s.Src[s.Pos] != '!' || s.Pos+1 >= s.PosMax || s.Src[s.Pos+1] != '[' {
		return false
	}
	labelEnd := matchBracketLabel(s.Src, s.Pos+1, s.PosMax)
	if labelEnd < 0 || labelEnd+1 >= s.PosMax || s.Src[labelEnd+1] != '(' {
		return false
	}
	src, title, end, ok := parseLinkDestination(s.Src, labelEnd+2, s.PosMax)
	if !ok || !s.Engine.ValidateLink(src) {
		return false
	}
	if silent {
		s.Pos = end
		return true
	}

	alt := s.Src[s.Pos+2 : labelEnd]
	tok := s.Push("image", "img", 0)
	tok.AttrPush("src", src)
	tok.AttrPush("alt", "")
	tok.Content = alt
	if title != "" {
		tok.AttrPush("title", title)
	}
	s.Pos = end
	return true
}

var reAutolink = regexp.MustCompile(`^<([a-zA-Z][a-zA-Z0-9+.-]*://[^<>\s]+|mailto:[^<>\s]+)>`)
var reEmailAutolink = regexp.MustCompile(`^<([^<>\s@]+@[^<>\s@]+\.[^<>\s@]+)>`)

func ruleAutolink(s *StateInline, silent bool) bool {
	if s.Src[s.Pos] != '<' {
		return false
	}
	rest := s.Src[s.Pos:s.PosMax]
	if m := reAutolink.FindStringSubmatch(rest); m != nil {
		url := m[1]
		if !s.Engine.ValidateLink(url) {
			return false
		}
		if !silent {
			pushAutolink(s, url, url)
		}
		s.Pos += len(m[0])
		return true
	}
	if m := reEmailAutolink.FindStringSubmatch(rest); m != nil {
		if !silent {
			pushAutolink(s, "mailto:"+m[1], m[1])
		}
		s.Pos += len(m[0])
		return true
	}
	return false
}

func pushAutolink(s *StateInline, href, text string) {
	tok := s.Push("link_open", "a", 1)
	tok.AttrPush("href", href)
	tok.Markup = "autolink"
	tok.Info = "auto"
	tok = s.Push("text", "", 0)
	tok.Content = text
	tok = s.Push("link_close", "a", -1)
	tok.Markup = "autolink"
	tok.Info = "auto"
}

func ruleHTMLInline(s *StateInline, silent bool) bool {
	if s.Src[s.Pos] != '<' {
		return false
	}
	m := reHTMLTag.FindString(s.Src[s.Pos:s.PosMax])
	if m == "" {
		return false
	}
	if !silent {
		tok := s.Push("html_inline", "", 0)
		tok.Content = m
	}
	s.Pos += len(m)
	return true
}

// processTextCollapse merges adjacent text tokens at the same level and
// drops empty ones left behind by other postprocess passes.
func processTextCollapse(s *StateInline) {
	out := s.Tokens[:0]
	for _, t := range s.Tokens {
		if t.Type == "text" && t.Meta == "" {
			if t.Content == "" {
				continue
			}
			if len(out) > 0 {
				last := out[len(out)-1]
				if last.Type == "text" && last.Meta == "" && last.Level == t.Level {
					last.Content += t.Content
					continue
				}
			}
		}
		out = append(out, t)
	}
	s.Tokens = out
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}
