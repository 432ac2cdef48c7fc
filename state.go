//
// Cooked forum markup processor
//

//
// Parser state, allocated fresh per render call
//

package cooked

import "strings"

// StateCore is the state threaded through core rules: the full block token
// tree plus the per-render options snapshot.
type StateCore struct {
	Src    string
	Engine *Engine
	Opts   *RenderOptions
	Tokens []*Token
}

// StateBlock is the block tokenizer state. The source is pre-split into
// lines; rules address it by line number.
type StateBlock struct {
	Src    string
	Engine *Engine
	Opts   *RenderOptions
	Tokens []*Token

	BMarks []int // offset of the first char of each line
	EMarks []int // offset past the last char of each line (excl. newline)
	TShift []int // offset of the first non-space char, relative to BMarks
	SCount []int // indent width of each line

	BlkIndent int // required indent for nested content
	Line      int // current line
	LineMax   int
	Level     int
}

func newStateBlock(src string, e *Engine, opts *RenderOptions) *StateBlock {
	s := &StateBlock{Src: src, Engine: e, Opts: opts}

	start, indent := 0, 0
	for pos := 0; pos < len(src); pos++ {
		switch src[pos] {
		case ' ':
			if pos == start+indent {
				indent++
			}
		case '\t':
			if pos == start+indent {
				indent++
			}
		case '\n':
			s.BMarks = append(s.BMarks, start)
			s.EMarks = append(s.EMarks, pos)
			s.TShift = append(s.TShift, indent)
			s.SCount = append(s.SCount, indent)
			start = pos + 1
			indent = 0
		}
	}
	if start < len(src) {
		s.BMarks = append(s.BMarks, start)
		s.EMarks = append(s.EMarks, len(src))
		s.TShift = append(s.TShift, indent)
		s.SCount = append(s.SCount, indent)
	}
	s.LineMax = len(s.BMarks)
	return s
}

// Push appends a token, maintaining the nesting level.
func (s *StateBlock) Push(typ, tag string, nesting int) *Token {
	t := NewToken(typ, tag, nesting)
	t.Block = true
	if nesting < 0 {
		s.Level--
	}
	t.Level = s.Level
	if nesting > 0 {
		s.Level++
	}
	s.Tokens = append(s.Tokens, t)
	return t
}

// IsEmpty reports whether the line holds only whitespace.
func (s *StateBlock) IsEmpty(line int) bool {
	if line >= s.LineMax {
		return true
	}
	return s.BMarks[line]+s.TShift[line] >= s.EMarks[line]
}

// SkipEmptyLines returns the first non-empty line at or after from.
func (s *StateBlock) SkipEmptyLines(from int) int {
	for from < s.LineMax && s.IsEmpty(from) {
		from++
	}
	return from
}

// LineText returns the text of the line with leading indent stripped.
func (s *StateBlock) LineText(line int) string {
	if line >= s.LineMax {
		return ""
	}
	return s.Src[s.BMarks[line]+s.TShift[line] : s.EMarks[line]]
}

// Lines joins the raw text of lines [begin, end), newline separated.
func (s *StateBlock) Lines(begin, end int) string {
	if begin >= end || begin >= s.LineMax {
		return ""
	}
	if end > s.LineMax {
		end = s.LineMax
	}
	var b strings.Builder
	for line := begin; line < end; line++ {
		b.WriteString(s.Src[s.BMarks[line]:s.EMarks[line]])
		b.WriteByte('\n')
	}
	return b.String()
}

// Delimiter is a transient record pushed while scanning one inline run
// when a potential tag boundary is recognized. Delimiters are matched into
// real open/close tokens by a postprocess pass and then discarded; they
// never outlive the inline parse that created them.
type Delimiter struct {
	BBInfo *BBCodeTag
	Marker string
	Open   bool
	Close  bool
	Token  int // index of the placeholder token in StateInline.Tokens
	Level  int
	End    int // index of the matched closing delimiter, -1 if unmatched
}

// StateInline is the inline tokenizer state for a single inline run.
type StateInline struct {
	Src    string
	Engine *Engine
	Opts   *RenderOptions
	Tokens []*Token

	Pos    int
	PosMax int
	Level  int

	Pending      strings.Builder
	PendingLevel int

	// Delimiters is local to this parse; see Delimiter.
	Delimiters []Delimiter
}

// PushPending flushes accumulated plain text into a text token.
func (s *StateInline) PushPending() *Token {
	t := NewToken("text", "", 0)
	t.Content = s.Pending.String()
	t.Level = s.PendingLevel
	s.Pending.Reset()
	s.Tokens = append(s.Tokens, t)
	return t
}

// Push appends a token, flushing pending text first.
func (s *StateInline) Push(typ, tag string, nesting int) *Token {
	if s.Pending.Len() > 0 {
		s.PushPending()
	}
	t := NewToken(typ, tag, nesting)
	if nesting < 0 {
		s.Level--
	}
	t.Level = s.Level
	if nesting > 0 {
		s.Level++
	}
	s.PendingLevel = s.Level
	s.Tokens = append(s.Tokens, t)
	return t
}
