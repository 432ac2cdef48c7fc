//
// Cooked forum markup processor
//

//
// Linkify and onebox tests
//

package cooked

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinkifyBareURL(t *testing.T) {
	doTests(t, []string{
		"go to http://example.com then stop",
		"<p>go to <a href=\"http://example.com\">http://example.com</a> then stop</p>\n",

		"trailing http://example.com.",
		"<p>trailing <a href=\"http://example.com\">http://example.com</a>.</p>\n",

		"wrapped (http://example.com) here",
		"<p>wrapped (<a href=\"http://example.com\">http://example.com</a>) here</p>\n",

		"not a url: example.com",
		"<p>not a url: example.com</p>\n",
	})
}

func TestLinkifySkipsCodeAndLinks(t *testing.T) {
	doTests(t, []string{
		"`http://example.com`",
		"<p><code>http://example.com</code></p>\n",

		"[already](http://a.b/c) http://example.com",
		"<p><a href=\"http://a.b/c\">already</a> <a href=\"http://example.com\">http://example.com</a></p>\n",
	})
}

func TestOneboxMiss(t *testing.T) {
	e := New(nil)
	html := e.Render("http://example.com", nil)
	assert.Equal(t,
		"<p><a href=\"http://example.com\" class=\"onebox\" target=\"_blank\">http://example.com</a></p>\n",
		html)
}

func TestOneboxCacheHit(t *testing.T) {
	e := New(nil)
	e.CacheOnebox("http://example.com", `<aside class="onebox">Example</aside>`)
	html := e.Render("http://example.com", nil)
	assert.Equal(t, "<p><aside class=\"onebox\">Example</aside></p>\n", html)
}

func TestOneboxOnlySoleParagraphContent(t *testing.T) {
	e := New(nil)
	e.CacheOnebox("http://example.com", `<aside class="onebox">Example</aside>`)

	// a link with surrounding text is never block-oneboxed
	html := e.Render("see http://example.com", nil)
	assert.NotContains(t, html, "<aside")

	// nor is a link inside a blockquote (the paragraph opens above level 0)
	html = e.Render("> http://example.com", nil)
	assert.NotContains(t, html, "<aside")
}

func TestInlineOneboxLoading(t *testing.T) {
	e := New(nil)
	html := e.Render("see http://example.com/page today", nil)
	assert.Equal(t,
		"<p>see <a href=\"http://example.com/page\" class=\"inline-onebox-loading\">http://example.com/page</a> today</p>\n",
		html)
}

func TestInlineOneboxTitleHit(t *testing.T) {
	e := New(nil)
	e.CacheInlineOnebox("http://example.com/page", "Page Title")
	html := e.Render("see http://example.com/page today", nil)
	assert.Equal(t,
		"<p>see <a href=\"http://example.com/page\" class=\"inline-onebox\">Page Title</a> today</p>\n",
		html)
}

func TestInlineOneboxResolvedNotOneboxable(t *testing.T) {
	e := New(nil)
	e.CacheInlineOnebox("http://example.com/page", "")
	html := e.Render("see http://example.com/page today", nil)
	assert.Equal(t,
		"<p>see <a href=\"http://example.com/page\">http://example.com/page</a> today</p>\n",
		html)
}

func TestInlineOneboxSkipsTopLevelURL(t *testing.T) {
	e := New(nil)
	html := e.Render("see http://example.com today", nil)
	assert.Equal(t,
		"<p>see <a href=\"http://example.com\">http://example.com</a> today</p>\n",
		html)
}

func TestOneboxSkipsDecoratedLinks(t *testing.T) {
	e := New(nil)
	e.CacheOnebox("http://example.com", `<aside class="onebox">Example</aside>`)
	// a typed markdown link is not an autolink and never expands
	html := e.Render("[http://example.com](http://example.com)", nil)
	assert.NotContains(t, html, "<aside")
}

func TestIsTopLevelURL(t *testing.T) {
	assert.True(t, isTopLevelURL("http://example.com"))
	assert.True(t, isTopLevelURL("http://example.com/"))
	assert.True(t, isTopLevelURL("//example.com"))
	assert.False(t, isTopLevelURL("http://example.com/page"))
	assert.False(t, isTopLevelURL("http://example.com?q=1"))
}
