//
// Cooked forum markup processor
//

//
// Rule registry ordering tests
//

package cooked

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rulerOrder(r *ruler[CoreRule]) []string {
	names := make([]string, len(r.rules))
	for i := range r.rules {
		names[i] = r.rules[i].name
	}
	return names
}

func noopCore(*StateCore) {}

func TestRulerOrdering(t *testing.T) {
	var r ruler[CoreRule]
	r.Push("a", noopCore)
	r.Push("c", noopCore)
	r.Before("c", "b", noopCore)
	r.After("c", "d", noopCore)
	assert.Equal(t, []string{"a", "b", "c", "d"}, rulerOrder(&r))
}

func TestRulerMissingTargetAppends(t *testing.T) {
	var r ruler[CoreRule]
	r.Push("a", noopCore)
	r.Before("ghost", "b", noopCore)
	r.After("phantom", "c", noopCore)
	assert.Equal(t, []string{"a", "b", "c"}, rulerOrder(&r))
}

func TestRulerReplaceKeepsPosition(t *testing.T) {
	var r ruler[CoreRule]
	called := ""
	r.Push("a", func(*StateCore) { called = "old" })
	r.Push("b", noopCore)
	r.Replace("a", func(*StateCore) { called = "new" })
	assert.Equal(t, []string{"a", "b"}, rulerOrder(&r))
	r.funcs()[0](nil)
	assert.Equal(t, "new", called)
}

func TestEngineCorePassOrder(t *testing.T) {
	e := New(nil)
	names := rulerOrder(&e.Core)
	assert.Equal(t, "inline", names[0])
	idx := func(name string) int {
		for i, n := range names {
			if n == name {
				return i
			}
		}
		return -1
	}
	// uploads and onebox need finished links; watched words run after
	// onebox so substituted text is never re-classified
	assert.Less(t, idx("inline"), idx("linkify"))
	assert.Less(t, idx("linkify"), idx("uploads"))
	assert.Less(t, idx("uploads"), idx("onebox"))
	assert.Less(t, idx("onebox"), idx("watched_words"))
	assert.Less(t, idx("watched_words"), idx("hashtags"))
}
