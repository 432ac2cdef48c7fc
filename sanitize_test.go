//
// Cooked forum markup processor
//

//
// Allow-list sanitizer tests
//

package cooked

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testAllowList() *AllowList {
	a := newAllowList()
	a.Allow("p", "b", "a[href]", "a[rel=nofollow]", "img[src]", "div[data-*]")
	a.AllowClass("div", func(class string) bool {
		return strings.HasPrefix(class, "safe-")
	})
	return a
}

func TestSanitizeStripsDisallowedTags(t *testing.T) {
	a := testAllowList()
	assert.Equal(t, "alert(1)", a.Sanitize("<script>alert(1)</script>"))
	assert.Equal(t, "<p>hi</p>", a.Sanitize("<p>hi</p>"))
	assert.Equal(t, "text", a.Sanitize("<marquee>text</marquee>"))
	assert.Equal(t, "<b>x</b>", a.Sanitize("<B>x</B>"))
}

func TestSanitizeFiltersAttributes(t *testing.T) {
	a := testAllowList()
	assert.Equal(t, `<a href="/x">y</a>`, a.Sanitize(`<a href="/x" onclick="evil()">y</a>`))
	assert.Equal(t, `<a href="/x" rel="nofollow">y</a>`, a.Sanitize(`<a href="/x" rel="nofollow">y</a>`))
	assert.Equal(t, `<a href="/x">y</a>`, a.Sanitize(`<a href="/x" rel="opener">y</a>`))
	assert.Equal(t, `<img src="/i.png">`, a.Sanitize(`<img src=/i.png style="x">`))
}

func TestSanitizeWildcardAttributes(t *testing.T) {
	a := testAllowList()
	assert.Equal(t, `<div data-wrap="x" data-size="2">y</div>`,
		a.Sanitize(`<div data-wrap="x" data-size="2">y</div>`))
	assert.Equal(t, `<div>y</div>`, a.Sanitize(`<div title="x">y</div>`))
}

func TestSanitizeClassPredicates(t *testing.T) {
	a := testAllowList()
	assert.Equal(t, `<div class="safe-box">y</div>`, a.Sanitize(`<div class="safe-box">y</div>`))
	assert.Equal(t, `<div>y</div>`, a.Sanitize(`<div class="evil">y</div>`))
}

func TestSanitizeNonTagMarkup(t *testing.T) {
	a := testAllowList()
	assert.Equal(t, "a &lt; b", a.Sanitize("a < b"))
	assert.Equal(t, "ab", a.Sanitize("a<!-- hidden -->b"))
	assert.Equal(t, "ab", a.Sanitize("a<![CDATA[x]]>b"))
	assert.Equal(t, "ab", a.Sanitize("a<?php evil() ?>b"))
}

func TestSanitizeIdempotent(t *testing.T) {
	a := testAllowList()
	inputs := []string{
		`<p>hi <b>there</b></p>`,
		`<a href="/x" onclick="evil()">y</a>`,
		`a < b <script>x</script>`,
		`<div class="safe-box" data-k="v">mix</div>`,
		`<img src="/i.png" />`,
	}
	for _, in := range inputs {
		once := a.Sanitize(in)
		assert.Equal(t, once, a.Sanitize(once), "input %q", in)
	}
}
