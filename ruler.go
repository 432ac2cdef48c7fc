//
// Cooked forum markup processor
//

//
// Ordered rule registries
//
// Every extension point in the pipeline (block rules, inline rules, inline
// postprocess rules, core passes) is an explicit ordered list of named
// rules. Order is execution order; plugins extend a list with Push, Before
// or After. Two rules must not share a name within one list.
//

package cooked

// BlockRule attempts to consume one block construct starting at startLine.
// In silent mode it only probes (used for paragraph termination) and must
// not emit tokens.
type BlockRule func(s *StateBlock, startLine, endLine int, silent bool) bool

// InlineRule attempts to consume one inline construct at s.Pos. In silent
// mode it must not emit tokens.
type InlineRule func(s *StateInline, silent bool) bool

// PostprocessRule runs over a completed inline token list, once per inline
// parse.
type PostprocessRule func(s *StateInline)

// CoreRule runs over the full token tree after block and inline parsing.
type CoreRule func(s *StateCore)

type namedRule[F any] struct {
	name string
	fn   F
}

type ruler[F any] struct {
	rules []namedRule[F]
}

func (r *ruler[F]) index(name string) int {
	for i := range r.rules {
		if r.rules[i].name == name {
			return i
		}
	}
	return -1
}

// Push appends a rule to the end of the list.
func (r *ruler[F]) Push(name string, fn F) {
	r.rules = append(r.rules, namedRule[F]{name, fn})
}

// Before inserts a rule immediately before the named target. If the target
// is not registered the rule is appended instead; a rule list must stay
// usable even when an optional module it orders against is disabled.
func (r *ruler[F]) Before(target, name string, fn F) {
	r.insert(r.index(target), name, fn)
}

// After inserts a rule immediately after the named target, or appends if
// the target is not registered.
func (r *ruler[F]) After(target, name string, fn F) {
	if i := r.index(target); i >= 0 {
		r.insert(i+1, name, fn)
		return
	}
	r.insert(-1, name, fn)
}

// Replace swaps the implementation of a registered rule, keeping its
// position. Unknown names are appended.
func (r *ruler[F]) Replace(name string, fn F) {
	if i := r.index(name); i >= 0 {
		r.rules[i].fn = fn
		return
	}
	r.Push(name, fn)
}

func (r *ruler[F]) insert(at int, name string, fn F) {
	if at < 0 || at >= len(r.rules) {
		r.Push(name, fn)
		return
	}
	r.rules = append(r.rules, namedRule[F]{})
	copy(r.rules[at+1:], r.rules[at:])
	r.rules[at] = namedRule[F]{name, fn}
}

func (r *ruler[F]) funcs() []F {
	out := make([]F, len(r.rules))
	for i := range r.rules {
		out[i] = r.rules[i].fn
	}
	return out
}
