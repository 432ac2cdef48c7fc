//
// Cooked forum markup processor
//

//
// upload:// rewriting tests
//

package cooked

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func uploadTable(t *testing.T, table map[string]*UploadInfo) func([]string) map[string]*UploadInfo {
	calls := 0
	t.Cleanup(func() {
		assert.LessOrEqual(t, calls, 1, "lookup must be batched into one call")
	})
	return func(urls []string) map[string]*UploadInfo {
		calls++
		return table
	}
}

func TestUploadRawHTMLHit(t *testing.T) {
	e := New(nil)
	html := e.Render(`<img src="upload://ABC123">`, &RenderOptions{
		LookupUploadUrls: uploadTable(t, map[string]*UploadInfo{
			"upload://ABC123": {URL: "/u/x.png", Base62SHA1: "h1"},
		}),
	})
	assert.Equal(t, "<img src=\"/u/x.png\" data-base62-sha1=\"h1\">\n", html)
}

func TestUploadRawHTMLMiss(t *testing.T) {
	e := New(nil)
	html := e.Render(`<img src="upload://ABC123">`, &RenderOptions{
		LookupUploadUrls: uploadTable(t, nil),
	})
	assert.Equal(t, "<img src=\"/images/transparent.png\" data-orig-src=\"upload://ABC123\">\n", html)
}

func TestUploadImageToken(t *testing.T) {
	e := New(nil)
	html := e.Render("![pic](upload://DEF)", &RenderOptions{
		LookupUploadUrls: uploadTable(t, map[string]*UploadInfo{
			"upload://DEF": {URL: "/u/pic.jpg", Base62SHA1: "h2"},
		}),
	})
	assert.Equal(t, "<p><img src=\"/u/pic.jpg\" alt=\"pic\" data-base62-sha1=\"h2\"></p>\n", html)
}

func TestUploadImageTokenMiss(t *testing.T) {
	e := New(nil)
	html := e.Render("![pic](upload://DEF)", nil)
	assert.Equal(t,
		"<p><img src=\"/images/transparent.png\" alt=\"pic\" data-orig-src=\"upload://DEF\"></p>\n",
		html)
}

func TestUploadVideoMissUses404(t *testing.T) {
	e := New(nil)
	html := e.Render("![clip|video](upload://VID)", nil)
	assert.Contains(t, html, `src="/404"`)
	assert.Contains(t, html, `data-orig-src="upload://VID"`)
}

func TestUploadLinkShortPath(t *testing.T) {
	e := New(nil)
	html := e.Render("[file](upload://XYZ)", &RenderOptions{
		LookupUploadUrls: uploadTable(t, map[string]*UploadInfo{
			"upload://XYZ": {URL: "/uploads/default/original/xyz.pdf", ShortPath: "/uploads/short-url/xyz.pdf"},
		}),
	})
	assert.Equal(t, "<p><a href=\"/uploads/short-url/xyz.pdf\">file</a></p>\n", html)
}

func TestUploadLinkSecureMedia(t *testing.T) {
	e := New(nil)
	html := e.Render("[file](upload://XYZ)", &RenderOptions{
		SecureUploads: true,
		LookupUploadUrls: uploadTable(t, map[string]*UploadInfo{
			"upload://XYZ": {URL: "/secure-media-uploads/original/xyz.pdf", ShortPath: "/uploads/short-url/xyz.pdf"},
		}),
	})
	// secure URLs cannot be shortened
	assert.Equal(t, "<p><a href=\"/secure-media-uploads/original/xyz.pdf\">file</a></p>\n", html)
}

func TestUploadLinkMiss(t *testing.T) {
	e := New(nil)
	html := e.Render("[file](upload://XYZ)", nil)
	assert.Equal(t, "<p><a href=\"/404\" data-orig-href=\"upload://XYZ\">file</a></p>\n", html)
}

func TestUploadBatchesAcrossOccurrences(t *testing.T) {
	e := New(nil)
	var got []string
	e.Render("![a](upload://A) ![b](upload://B)\n\n<img src=\"upload://C\">", &RenderOptions{
		LookupUploadUrls: func(urls []string) map[string]*UploadInfo {
			got = append(got, urls...)
			return nil
		},
	})
	assert.ElementsMatch(t, []string{"upload://A", "upload://B", "upload://C"}, got)
}

func TestUploadNoneFoundSkipsLookup(t *testing.T) {
	e := New(nil)
	e.Render("no uploads here", &RenderOptions{
		LookupUploadUrls: func(urls []string) map[string]*UploadInfo {
			t.Fatal("lookup should not be called")
			return nil
		},
	})
}
