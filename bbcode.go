//
// Cooked forum markup processor
//

//
// BBCode tag registry and sub-tokenizer
//
// Recognizes [tag attr=val]...[/tag] bracket syntax independently of the
// generic inline rules. Inline tags resolve through a delimiter stack in a
// postprocess pass; block tags consume whole line ranges. Malformed
// brackets and unknown tags never fail, they render as literal text.
//

package cooked

import (
	"regexp"
	"strings"
)

// BBCodeTag is the descriptor for one parsed bracket tag.
type BBCodeTag struct {
	Tag     string
	Length  int // length of the literal bracket source, including brackets
	Closing bool
	Attrs   map[string]string // default unnamed attribute under "_default"
}

// parseBBCodeTag parses the bracket at src[start]. Returns nil unless the
// bracket is a well-formed tag opener or closer.
func parseBBCodeTag(src string, start, max int) *BBCodeTag {
	if start >= max || src[start] != '[' {
		return nil
	}
	i := start + 1
	closing := false
	if i < max && src[i] == '/' {
		closing = true
		i++
	}

	nameStart := i
	for i < max && (isLetter(src[i]) || (src[i] >= '0' && src[i] <= '9')) {
		i++
	}
	if i == nameStart {
		return nil
	}
	tag := strings.ToLower(src[nameStart:i])

	info := &BBCodeTag{Tag: tag, Closing: closing, Attrs: map[string]string{}}

	if i < max && src[i] == ']' {
		info.Length = i + 1 - start
		return info
	}
	if closing {
		// a closer takes no attributes
		return nil
	}

	switch {
	case i < max && src[i] == '=':
		// default unnamed attribute: [url=http://x]
		i++
		if i < max && (src[i] == '"' || src[i] == '\'') {
			val, next, ok := scanBBCodeValue(src, i, max, true)
			if !ok {
				return nil
			}
			info.Attrs["_default"] = val
			i = next
			break
		}
		// a bare default runs to the closing bracket, unless named
		// attributes follow: [wrap=event date=x]
		val, next, ok := scanBBCodeValue(src, i, max, true)
		if !ok {
			return nil
		}
		if sp := strings.IndexByte(val, ' '); sp >= 0 && strings.IndexByte(val[sp:], '=') >= 0 {
			info.Attrs["_default"] = val[:sp]
			i += sp
			i, ok = scanBBCodeAttrs(src, i, max, info)
			if !ok {
				return nil
			}
			break
		}
		info.Attrs["_default"] = val
		i = next
	case i < max && src[i] == ' ':
		var ok bool
		i, ok = scanBBCodeAttrs(src, i, max, info)
		if !ok {
			return nil
		}
	default:
		return nil
	}

	if i >= max || src[i] != ']' {
		return nil
	}
	info.Length = i + 1 - start
	return info
}

// scanBBCodeAttrs reads named attributes: [wrap foo=bar baz="q u x"].
// Returns the position of the closing bracket.
func scanBBCodeAttrs(src string, i, max int, info *BBCodeTag) (int, bool) {
	for i < max && src[i] == ' ' {
		for i < max && src[i] == ' ' {
			i++
		}
		if i < max && src[i] == ']' {
			break
		}
		keyStart := i
		for i < max && src[i] != '=' && src[i] != ']' && src[i] != ' ' && src[i] != '\n' {
			i++
		}
		if i >= max || src[i] != '=' {
			return 0, false
		}
		key := src[keyStart:i]
		i++
		val, next, ok := scanBBCodeValue(src, i, max, false)
		if !ok {
			return 0, false
		}
		info.Attrs[key] = val
		i = next
	}
	return i, true
}

// scanBBCodeValue reads an attribute value, quoted or bare. A bare default
// value runs to the closing bracket; a bare named value stops at a space.
func scanBBCodeValue(src string, pos, max int, isDefault bool) (val string, next int, ok bool) {
	if pos < max && (src[pos] == '"' || src[pos] == '\'') {
		quote := src[pos]
		pos++
		start := pos
		for pos < max && src[pos] != quote && src[pos] != '\n' {
			pos++
		}
		if pos >= max || src[pos] != quote {
			return "", 0, false
		}
		return src[start:pos], pos + 1, true
	}
	start := pos
	for pos < max && src[pos] != ']' && src[pos] != '\n' {
		if !isDefault && src[pos] == ' ' {
			break
		}
		pos++
	}
	if pos >= max {
		return "", 0, false
	}
	return src[start:pos], pos, true
}

// BBCodeRule is one inline tag rule. Exactly one of Wrap, WrapFn or
// Replace is set. Wrap is a markup tag name, optionally with CSS classes
// ("span.bbcode-b"); matched pairs are rewritten into that form. WrapFn
// owns all mutation of the matched pair. Replace captures raw content up
// to the literal closer and fully controls emission; it is used for tags
// whose content must not be parsed as nested BBCode.
type BBCodeRule struct {
	Tag     string
	Wrap    string
	WrapFn  func(startTok, endTok *Token, info *BBCodeTag, content string, s *StateInline) bool
	Replace func(s *StateInline, info *BBCodeTag, content string) bool
}

// BBCodeBlockRule is one block tag rule: Open and Close emit the tokens
// around the recursively parsed body.
type BBCodeBlockRule struct {
	Tag     string
	Enabled func(opts *RenderOptions) bool
	Open    func(s *StateBlock, info *BBCodeTag)
	Close   func(s *StateBlock, info *BBCodeTag)

	// compiled once at registration; matches "[/tag]" plus trailing
	// spaces at end of line
	closerRe *regexp.Regexp
}

type bbcodeRegistry struct {
	inline map[string]*BBCodeRule
	block  map[string]*BBCodeBlockRule
}

func newBBCodeRegistry() *bbcodeRegistry {
	return &bbcodeRegistry{
		inline: map[string]*BBCodeRule{},
		block:  map[string]*BBCodeBlockRule{},
	}
}

// RegisterInline adds an inline tag rule. Tag names collide silently; rule
// authors must keep them unique.
func (r *bbcodeRegistry) RegisterInline(rule *BBCodeRule) {
	r.inline[strings.ToLower(rule.Tag)] = rule
}

func (r *bbcodeRegistry) RegisterBlock(rule *BBCodeBlockRule) {
	tag := strings.ToLower(rule.Tag)
	rule.closerRe = regexp.MustCompile(`(?i)\[/` + regexp.QuoteMeta(tag) + `\]\s*$`)
	r.block[tag] = rule
}

func indexFold(s, substr string) int {
	return strings.Index(strings.ToLower(s), strings.ToLower(substr))
}

// ruleBBCodeInline is the inline rule hooked at '['.
func ruleBBCodeInline(s *StateInline, silent bool) bool {
	if s.Src[s.Pos] != '[' {
		return false
	}
	info := parseBBCodeTag(s.Src, s.Pos, s.PosMax)
	if info == nil {
		return false
	}
	rule := s.Engine.BBCode.inline[info.Tag]
	if rule == nil {
		return false
	}
	if silent {
		return false
	}

	if rule.Replace != nil {
		if info.Closing {
			return false
		}
		closer := "[/" + info.Tag + "]"
		idx := indexFold(s.Src[s.Pos+info.Length:s.PosMax], closer)
		if idx < 0 {
			return false
		}
		content := s.Src[s.Pos+info.Length : s.Pos+info.Length+idx]
		if !rule.Replace(s, info, content) {
			// the scan position must not advance: the bracket falls
			// through as ordinary text
			return false
		}
		s.Pos += info.Length + idx + len(closer)
		return true
	}

	// Wrap rule: push a placeholder carrying the literal source, and a
	// delimiter marking it for the postprocess pass.
	if info.Closing && s.Pending.Len() == 0 && len(s.Tokens) > 0 && s.Tokens[len(s.Tokens)-1].Meta == "bbcode" {
		// splice point so two adjacent bbcode markers cannot merge
		// during content re-assembly
		s.Push("text", "", 0)
	}

	tok := s.Push("text", "", 0)
	tok.Content = s.Src[s.Pos : s.Pos+info.Length]
	tok.Meta = "bbcode"

	s.Delimiters = append(s.Delimiters, Delimiter{
		BBInfo: info,
		Marker: "bb" + info.Tag,
		Open:   !info.Closing,
		Close:  info.Closing,
		Token:  len(s.Tokens) - 1,
		Level:  s.Level,
		End:    -1,
	})

	s.Pos += info.Length
	return true
}

// processBBCode matches delimiters into pairs and rewrites the matched
// placeholder tokens in place. Unmatched delimiters are left alone and
// render as their original literal bracket text.
func processBBCode(s *StateInline) {
	if len(s.Delimiters) == 0 {
		return
	}

	// LIFO matching per marker
	var stack []int
	for i := range s.Delimiters {
		d := &s.Delimiters[i]
		if d.Open {
			stack = append(stack, i)
			continue
		}
		for j := len(stack) - 1; j >= 0; j-- {
			o := &s.Delimiters[stack[j]]
			if o.Marker == d.Marker && o.Level == d.Level && o.End == -1 {
				o.End = i
				// openers above the match crossed this pair; they stay
				// unmatched and render as literal text
				stack = stack[:j]
				break
			}
		}
	}

	for i := range s.Delimiters {
		d := &s.Delimiters[i]
		if !d.Open || d.End == -1 {
			continue
		}
		rule := s.Engine.BBCode.inline[d.BBInfo.Tag]
		if rule == nil {
			continue
		}
		startTok := s.Tokens[d.Token]
		endTok := s.Tokens[s.Delimiters[d.End].Token]

		if rule.WrapFn != nil {
			var content strings.Builder
			for _, t := range s.Tokens[d.Token+1 : s.Delimiters[d.End].Token] {
				content.WriteString(t.Content)
			}
			rule.WrapFn(startTok, endTok, d.BBInfo, content.String(), s)
			continue
		}

		wrapTag, class := rule.Wrap, ""
		if dot := strings.IndexByte(wrapTag, '.'); dot >= 0 {
			class = strings.ReplaceAll(wrapTag[dot+1:], ".", " ")
			wrapTag = wrapTag[:dot]
		}

		startTok.Type = "bbcode_" + d.BBInfo.Tag + "_open"
		startTok.Tag = wrapTag
		startTok.Nesting = 1
		startTok.Content = ""
		if class != "" {
			startTok.AttrPush("class", class)
		}

		endTok.Type = "bbcode_" + d.BBInfo.Tag + "_close"
		endTok.Tag = wrapTag
		endTok.Nesting = -1
		endTok.Content = ""
	}
}

// ruleBBCodeBlock recognizes a registered block tag opening a line and a
// matching closer ending a later (or the same) line.
func ruleBBCodeBlock(s *StateBlock, startLine, endLine int, silent bool) bool {
	text := s.LineText(startLine)
	info := parseBBCodeTag(text, 0, len(text))
	if info == nil || info.Closing {
		return false
	}
	rule := s.Engine.BBCode.block[info.Tag]
	if rule == nil {
		return false
	}
	if rule.Enabled != nil && !rule.Enabled(s.Opts) {
		return false
	}

	closerRe := rule.closerRe
	rest := text[info.Length:]

	var inner strings.Builder
	closeLine := -1

	if loc := closerRe.FindStringIndex(rest); loc != nil {
		inner.WriteString(rest[:loc[0]])
		closeLine = startLine
	} else {
		if rest != "" {
			inner.WriteString(rest)
			inner.WriteByte('\n')
		}
		depth := 1
		for line := startLine + 1; line < endLine; line++ {
			lt := s.LineText(line)
			if nested := parseBBCodeTag(lt, 0, len(lt)); nested != nil && !nested.Closing && nested.Tag == info.Tag {
				depth++
			}
			if loc := closerRe.FindStringIndex(lt); loc != nil {
				depth--
				if depth == 0 {
					inner.WriteString(lt[:loc[0]])
					closeLine = line
					break
				}
			}
			inner.WriteString(s.Src[s.BMarks[line]:s.EMarks[line]])
			inner.WriteByte('\n')
		}
	}

	if closeLine == -1 {
		return false
	}
	if silent {
		return true
	}

	rule.Open(s, info)
	parseNested(s, strings.TrimSpace(inner.String()))
	rule.Close(s, info)

	s.Line = closeLine + 1
	return true
}

func setupBBCodeInline(h *PluginHelper) {
	h.AllowList("span[class=bbcode-b]", "span[class=bbcode-i]", "span[class=bbcode-u]", "span[class=bbcode-s]")

	h.RegisterOptions(func(opts *RenderOptions, settings *SiteSettings) {
		opts.Features["bbcode-inline"] = true
	})

	h.RegisterPlugin(func(e *Engine) {
		e.BBCode.RegisterInline(&BBCodeRule{Tag: "b", Wrap: "span.bbcode-b"})
		e.BBCode.RegisterInline(&BBCodeRule{Tag: "i", Wrap: "span.bbcode-i"})
		e.BBCode.RegisterInline(&BBCodeRule{Tag: "u", Wrap: "span.bbcode-u"})
		e.BBCode.RegisterInline(&BBCodeRule{Tag: "s", Wrap: "span.bbcode-s"})

		e.BBCode.RegisterInline(&BBCodeRule{
			Tag: "code",
			Replace: func(s *StateInline, info *BBCodeTag, content string) bool {
				tok := s.Push("code_inline", "code", 0)
				tok.Content = content
				tok.Markup = "[code]"
				return true
			},
		})

		e.BBCode.RegisterInline(&BBCodeRule{
			Tag: "url",
			Replace: func(s *StateInline, info *BBCodeTag, content string) bool {
				href := info.Attrs["_default"]
				if href == "" {
					href = strings.TrimSpace(content)
				}
				if !s.Engine.ValidateLink(href) {
					return false
				}
				tok := s.Push("link_open", "a", 1)
				tok.AttrPush("href", href)
				tok.Markup = "bbcode"
				tok = s.Push("text", "", 0)
				tok.Content = content
				tok = s.Push("link_close", "a", -1)
				tok.Markup = "bbcode"
				return true
			},
		})

		e.BBCode.RegisterInline(&BBCodeRule{
			Tag: "email",
			Replace: func(s *StateInline, info *BBCodeTag, content string) bool {
				addr := info.Attrs["_default"]
				if addr == "" {
					addr = strings.TrimSpace(content)
				}
				if addr == "" {
					return false
				}
				tok := s.Push("link_open", "a", 1)
				tok.AttrPush("href", "mailto:"+addr)
				tok.Markup = "bbcode"
				tok = s.Push("text", "", 0)
				tok.Content = content
				tok = s.Push("link_close", "a", -1)
				tok.Markup = "bbcode"
				return true
			},
		})
	})
}
