//
// Cooked forum markup processor
//

//
// Image size annotation tests
//

package cooked

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageSizeAnnotation(t *testing.T) {
	doTests(t, []string{
		"![pic|100x50](http://a.b/i.png)",
		"<p><img src=\"http://a.b/i.png\" alt=\"pic\" width=\"100\" height=\"50\"></p>\n",

		"![pic|100x50, 50%](http://a.b/i.png)",
		"<p><img src=\"http://a.b/i.png\" alt=\"pic\" width=\"50\" height=\"25\"></p>\n",

		"![no annotation](http://a.b/i.png)",
		"<p><img src=\"http://a.b/i.png\" alt=\"no annotation\"></p>\n",

		"![pipe|but no size](http://a.b/i.png)",
		"<p><img src=\"http://a.b/i.png\" alt=\"pipe|but no size\"></p>\n",
	})
}

func TestImageSizeMalformedScale(t *testing.T) {
	// a junk scale silently falls back to 100%
	doTests(t, []string{
		"![pic|100x50, banana](http://a.b/i.png)",
		"<p><img src=\"http://a.b/i.png\" alt=\"pic\" width=\"100\" height=\"50\"></p>\n",

		"![pic|100x50, 250%](http://a.b/i.png)",
		"<p><img src=\"http://a.b/i.png\" alt=\"pic\" width=\"100\" height=\"50\"></p>\n",
	})
}

func TestImageSizePreviewScaleAttr(t *testing.T) {
	e := New(nil)
	html := e.Render("![pic|100x50, 50%](http://a.b/i.png)", &RenderOptions{Previewing: true})
	assert.Contains(t, html, `data-scale="50"`)
}

func TestParseImageScale(t *testing.T) {
	assert.Equal(t, 50, parseImageScale("50%"))
	assert.Equal(t, 100, parseImageScale("banana"))
	assert.Equal(t, 100, parseImageScale(""))
	assert.Equal(t, 75, parseImageScale("x, 75%"))
	assert.Equal(t, 100, parseImageScale("0%"))
}
