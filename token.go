//
// Cooked forum markup processor
//

//
// Token stream data model
//

package cooked

// Attr is a single rendered attribute. Attribute order is rendering order
// and must be preserved, so attributes are a slice, not a map.
type Attr struct {
	Name  string
	Value string
}

// Token is the atomic unit of the intermediate representation. Block
// parsing produces a flat token slice; each "inline" token carries its own
// Children slice produced by the inline parser.
type Token struct {
	// Type is the semantic kind, e.g. "paragraph_open", "text",
	// "bbcode_b_open". Open/close pairs share a stem with _open/_close
	// suffixes.
	Type string

	// Tag is the markup tag name to render ("a", "div", "span", ...).
	Tag string

	// Nesting is +1 for _open tokens, -1 for _close tokens, 0 otherwise.
	Nesting int

	// Level is the nesting depth, used for delimiter matching and text
	// splicing order.
	Level int

	Attrs    []Attr
	Content  string
	Children []*Token

	// Meta marks tokens a rule module owns (e.g. "bbcode") so later
	// passes can recognize them without re-parsing.
	Meta string

	// Markup and Info are provenance hints: what literal syntax produced
	// this token. An autolink carries Markup "linkify" and Info "auto",
	// which is how later passes tell it apart from a typed link.
	Markup string
	Info   string

	// Block is true for block-level tokens; the renderer emits newlines
	// around them.
	Block bool

	// Hidden tokens produce no output.
	Hidden bool
}

// NewToken creates a token of the given semantic type.
func NewToken(typ, tag string, nesting int) *Token {
	return &Token{Type: typ, Tag: tag, Nesting: nesting}
}

// AttrIndex returns the index of the named attribute, or -1.
func (t *Token) AttrIndex(name string) int {
	for i, a := range t.Attrs {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// AttrGet returns the value of the named attribute, or "".
func (t *Token) AttrGet(name string) string {
	if i := t.AttrIndex(name); i >= 0 {
		return t.Attrs[i].Value
	}
	return ""
}

// AttrPush appends an attribute, preserving insertion order.
func (t *Token) AttrPush(name, value string) {
	t.Attrs = append(t.Attrs, Attr{name, value})
}

// AttrSet overwrites the named attribute, appending it if absent.
func (t *Token) AttrSet(name, value string) {
	if i := t.AttrIndex(name); i >= 0 {
		t.Attrs[i].Value = value
		return
	}
	t.AttrPush(name, value)
}

// AttrJoin appends value to the named attribute separated by a space.
// Used for class lists.
func (t *Token) AttrJoin(name, value string) {
	if i := t.AttrIndex(name); i >= 0 {
		if t.Attrs[i].Value == "" {
			t.Attrs[i].Value = value
		} else {
			t.Attrs[i].Value += " " + value
		}
		return
	}
	t.AttrPush(name, value)
}
