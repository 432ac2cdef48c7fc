//
// Cooked forum markup processor
//

//
// Block-level tokenizer
//
// Produces the flat block token stream. Inline content is left as "inline"
// tokens holding raw text; the core chain expands them later.
//

package cooked

import "strings"

type parserBlock struct {
	rules ruler[BlockRule]
}

func newParserBlock() *parserBlock {
	p := &parserBlock{}
	p.rules.Push("fence", ruleFence)
	p.rules.Push("bbcode_block", ruleBBCodeBlock)
	p.rules.Push("blockquote", ruleBlockquote)
	p.rules.Push("hr", ruleHR)
	p.rules.Push("heading", ruleHeading)
	p.rules.Push("html_block", ruleHTMLBlock)
	p.rules.Push("paragraph", ruleParagraph)
	return p
}

func (p *parserBlock) parse(src string, e *Engine, opts *RenderOptions) []*Token {
	s := newStateBlock(src, e, opts)
	p.tokenize(s, 0, s.LineMax)
	return s.Tokens
}

func (p *parserBlock) tokenize(s *StateBlock, startLine, endLine int) {
	rules := p.rules.funcs()
	line := startLine
	for line < endLine {
		line = s.SkipEmptyLines(line)
		if line >= endLine {
			break
		}
		s.Line = line
		for _, rule := range rules {
			if rule(s, line, endLine, false) {
				break
			}
		}
		if s.Line <= line {
			// no rule consumed anything; drop the line rather than loop
			s.Line = line + 1
		}
		line = s.Line
	}
}

// isTerminated probes whether any block construct other than a paragraph
// starts at the given line. Used to end a paragraph without consuming.
func (p *parserBlock) isTerminated(s *StateBlock, line int) bool {
	for _, r := range p.rules.rules {
		if r.name == "paragraph" || r.name == "html_block" {
			continue
		}
		if r.fn(s, line, s.LineMax, true) {
			return true
		}
	}
	return false
}

// parseNested block-parses an inner source fragment (blockquote body,
// BBCode block body) and appends the tokens at the current nesting level.
func parseNested(s *StateBlock, src string) {
	if src == "" {
		return
	}
	inner := s.Engine.Block.parse(src, s.Engine, s.Opts)
	for _, t := range inner {
		t.Level += s.Level
		s.Tokens = append(s.Tokens, t)
	}
}

func ruleHeading(s *StateBlock, startLine, endLine int, silent bool) bool {
	text := s.LineText(startLine)
	if text == "" || text[0] != '#' {
		return false
	}
	level := 0
	for level < len(text) && level < 6 && text[level] == '#' {
		level++
	}
	if level >= len(text) || (text[level] != ' ' && text[level] != '\t') {
		return false
	}
	if silent {
		return true
	}

	body := strings.TrimRight(strings.TrimLeft(text[level:], " \t"), " \t")
	// strip trailing closing hashes
	body = strings.TrimRight(strings.TrimRight(body, "#"), " \t")

	markup := text[:level]
	htag := [...]string{"", "h1", "h2", "h3", "h4", "h5", "h6"}[level]

	tok := s.Push("heading_open", htag, 1)
	tok.Markup = markup
	inline := s.Push("inline", "", 0)
	inline.Content = body
	tok = s.Push("heading_close", htag, -1)
	tok.Markup = markup

	s.Line = startLine + 1
	return true
}

func ruleHR(s *StateBlock, startLine, endLine int, silent bool) bool {
	text := s.LineText(startLine)
	if len(text) < 3 {
		return false
	}
	marker := text[0]
	if marker != '*' && marker != '-' && marker != '_' {
		return false
	}
	n := 0
	for i := 0; i < len(text); i++ {
		switch {
		case text[i] == marker:
			n++
		case text[i] != ' ' && text[i] != '\t':
			return false
		}
	}
	if n < 3 {
		return false
	}
	if silent {
		return true
	}
	tok := s.Push("hr", "hr", 0)
	tok.Markup = strings.Repeat(string(marker), n)
	s.Line = startLine + 1
	return true
}

func ruleFence(s *StateBlock, startLine, endLine int, silent bool) bool {
	text := s.LineText(startLine)
	if len(text) < 3 {
		return false
	}
	marker := text[0]
	if marker != '`' && marker != '~' {
		return false
	}
	markerLen := 0
	for markerLen < len(text) && text[markerLen] == marker {
		markerLen++
	}
	if markerLen < 3 {
		return false
	}
	info := strings.TrimSpace(text[markerLen:])
	if marker == '`' && strings.ContainsRune(info, '`') {
		return false
	}
	if silent {
		return true
	}

	// scan for the closing fence; an unclosed fence runs to the end
	next := startLine + 1
	for ; next < endLine; next++ {
		closing := s.LineText(next)
		if len(closing) >= markerLen && strings.TrimRight(closing, string(marker)) == "" {
			break
		}
	}

	tok := s.Push("fence", "code", 0)
	tok.Info = info
	tok.Content = s.Lines(startLine+1, next)
	tok.Markup = text[:markerLen]

	if next < endLine {
		next++
	}
	s.Line = next
	return true
}

func ruleBlockquote(s *StateBlock, startLine, endLine int, silent bool) bool {
	text := s.LineText(startLine)
	if text == "" || text[0] != '>' {
		return false
	}
	if silent {
		return true
	}

	var inner strings.Builder
	line := startLine
	for ; line < endLine; line++ {
		t := s.LineText(line)
		if t == "" || t[0] != '>' {
			break
		}
		t = t[1:]
		t = strings.TrimPrefix(t, " ")
		inner.WriteString(t)
		inner.WriteByte('\n')
	}

	tok := s.Push("blockquote_open", "blockquote", 1)
	tok.Markup = ">"
	parseNested(s, inner.String())
	tok = s.Push("blockquote_close", "blockquote", -1)
	tok.Markup = ">"

	s.Line = line
	return true
}

func ruleHTMLBlock(s *StateBlock, startLine, endLine int, silent bool) bool {
	text := s.LineText(startLine)
	if len(text) < 2 || text[0] != '<' {
		return false
	}
	c := text[1]
	if !isLetter(c) && c != '/' && c != '!' {
		return false
	}
	if silent {
		return true
	}

	// consume through the next blank line
	line := startLine + 1
	for line < endLine && !s.IsEmpty(line) {
		line++
	}

	tok := s.Push("html_block", "", 0)
	tok.Content = s.Lines(startLine, line)
	s.Line = line
	return true
}

func ruleParagraph(s *StateBlock, startLine, endLine int, silent bool) bool {
	if silent {
		return false
	}
	line := startLine + 1
	for ; line < endLine; line++ {
		if s.IsEmpty(line) {
			break
		}
		if s.Engine.Block.isTerminated(s, line) {
			break
		}
	}

	var content strings.Builder
	for l := startLine; l < line; l++ {
		if l > startLine {
			content.WriteByte('\n')
		}
		content.WriteString(strings.TrimRight(s.LineText(l), " \t"))
	}

	s.Push("paragraph_open", "p", 1)
	inline := s.Push("inline", "", 0)
	inline.Content = content.String()
	s.Push("paragraph_close", "p", -1)

	s.Line = line
	return true
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
