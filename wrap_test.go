//
// Cooked forum markup processor
//

//
// [wrap] and [grid] container tests
//

package cooked

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func wrapSettings() *SiteSettings {
	s := DefaultSettings()
	s.EnableWrapTags = true
	s.EnableImageGrid = true
	return s
}

func TestWrapContainer(t *testing.T) {
	doTestsParam(t, []string{
		"[wrap=warning]\ntext\n[/wrap]",
		"<div class=\"d-wrap\" data-wrap=\"warning\">\n<p>text</p>\n</div>\n",

		"[wrap=event date=2026-08-29]\nmeetup\n[/wrap]",
		"<div class=\"d-wrap\" data-wrap=\"event\" data-date=\"2026-08-29\">\n<p>meetup</p>\n</div>\n",
	}, testParams{Settings: wrapSettings()})
}

func TestWrapDisabledByDefault(t *testing.T) {
	doTests(t, []string{
		"[wrap=warning]\ntext\n[/wrap]",
		"<p>[wrap=warning]<br>\ntext<br>\n[/wrap]</p>\n",
	})
}

func TestWrapInvalidAttrNamesDropped(t *testing.T) {
	e := New(wrapSettings())
	html := e.Render("[wrap=x on$click=evil]\ntext\n[/wrap]", nil)
	assert.NotContains(t, html, "evil")
	assert.Contains(t, html, `data-wrap="x"`)
}

func TestGridContainer(t *testing.T) {
	doTestsParam(t, []string{
		"[grid]\n![a](http://x.y/1.png)\n[/grid]",
		"<div class=\"d-image-grid\">\n<p><img src=\"http://x.y/1.png\" alt=\"a\"></p>\n</div>\n",
	}, testParams{Settings: wrapSettings()})
}

func TestGridDisabledByDefault(t *testing.T) {
	doTests(t, []string{
		"[grid]\n![a](http://x.y/1.png)\n[/grid]",
		"<p>[grid]<br>\n<img src=\"http://x.y/1.png\" alt=\"a\"><br>\n[/grid]</p>\n",
	})
}

func TestGridPreviewToggle(t *testing.T) {
	e := New(wrapSettings())
	html := e.Render("[grid]\n![a](http://x.y/1.png)\n[/grid]", &RenderOptions{Previewing: true})
	assert.Contains(t, html, `<button class="grid-toggle">`)
}
