//
// Cooked forum markup processor
//

//
// upload:// protocol rewriting
//
// Posts are authored against opaque upload://<id> URIs so content can be
// stored before the final CDN or short URL exists. This pass finds every
// occurrence, resolves them all through one batched lookup, and splices
// the results back in. Misses are rewritten to placeholder targets with a
// data-orig-* attribute so an out-of-band resolver can fix them up later.
//

package cooked

import (
	"regexp"
	"strings"
)

const uploadPrefix = "upload://"

const (
	transparentPixelPath = "/images/transparent.png"
	notFoundPath         = "/404"
)

// locator substituted into raw HTML so the resolved value can be spliced
// in after the batched lookup
func uploadLocator(url string) string {
	return "___REPLACE_UPLOAD_SRC_" + url + "___"
}

var reHTMLUploadSrc = regexp.MustCompile(`src=["']?(upload://[^"'\s>]+)["']?`)

// collectUploads gathers every upload:// occurrence. Raw HTML content is
// rewritten to locators as a side effect; token attributes are left alone
// until resolution.
func collectUploads(s *StateCore) []string {
	var urls []string
	seen := map[string]bool{}
	add := func(u string) {
		if !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}

	scanHTML := func(t *Token) {
		if !strings.Contains(t.Content, uploadPrefix) {
			return
		}
		t.Content = reHTMLUploadSrc.ReplaceAllStringFunc(t.Content, func(m string) string {
			url := reHTMLUploadSrc.FindStringSubmatch(m)[1]
			add(url)
			return `src="` + uploadLocator(url) + `"`
		})
	}

	for _, t := range s.Tokens {
		if t.Type == "html_block" {
			scanHTML(t)
			continue
		}
		if t.Type != "inline" {
			continue
		}
		for _, c := range t.Children {
			switch c.Type {
			case "image":
				if src := c.AttrGet("src"); strings.HasPrefix(src, uploadPrefix) {
					add(src)
				}
			case "link_open":
				if href := c.AttrGet("href"); strings.HasPrefix(href, uploadPrefix) {
					add(href)
				}
			case "html_inline":
				scanHTML(c)
			}
		}
	}
	return urls
}

func rewriteUploadImage(t *Token, info *UploadInfo, opts *RenderOptions) {
	src := t.AttrGet("src")
	if info != nil && info.URL != "" {
		t.AttrSet("src", info.URL)
		if info.Base62SHA1 != "" {
			t.AttrPush("data-base62-sha1", info.Base62SHA1)
		}
		return
	}
	// video/audio markup resolves through the same img token; point those
	// at the 404 path, plain images at the transparent pixel
	if strings.Contains(t.Content, "|video") || strings.Contains(t.Content, "|audio") {
		t.AttrSet("src", opts.getURL(notFoundPath))
	} else {
		t.AttrSet("src", opts.getURL(transparentPixelPath))
	}
	t.AttrPush("data-orig-src", src)
}

func rewriteUploadLink(t *Token, info *UploadInfo, opts *RenderOptions) {
	href := t.AttrGet("href")
	if info != nil && info.URL != "" {
		// secure media URLs are access-controlled per request and cannot
		// be shortened
		if opts.SecureUploads && strings.Contains(info.URL, "/secure-media-uploads/") {
			t.AttrSet("href", info.URL)
		} else if info.ShortPath != "" {
			t.AttrSet("href", info.ShortPath)
		} else {
			t.AttrSet("href", info.URL)
		}
		return
	}
	t.AttrSet("href", opts.getURL(notFoundPath))
	t.AttrPush("data-orig-href", href)
}

func rewriteUploadHTML(t *Token, resolved map[string]*UploadInfo, urls []string, opts *RenderOptions) {
	for _, url := range urls {
		loc := uploadLocator(url)
		if !strings.Contains(t.Content, loc) {
			continue
		}
		info := resolved[url]
		var repl string
		if info != nil && info.URL != "" {
			repl = info.URL + `" data-base62-sha1="` + info.Base62SHA1
		} else {
			repl = opts.getURL(transparentPixelPath) + `" data-orig-src="` + url
		}
		t.Content = strings.ReplaceAll(t.Content, loc, repl)
	}
}

func ruleUploads(s *StateCore) {
	urls := collectUploads(s)
	if len(urls) == 0 {
		return
	}

	// exactly one batched round-trip per render, however many occurrences
	var resolved map[string]*UploadInfo
	if s.Opts.LookupUploadUrls != nil {
		resolved = s.Opts.LookupUploadUrls(urls)
	}

	for _, t := range s.Tokens {
		if t.Type == "html_block" {
			rewriteUploadHTML(t, resolved, urls, s.Opts)
			continue
		}
		if t.Type != "inline" {
			continue
		}
		for _, c := range t.Children {
			switch c.Type {
			case "image":
				if src := c.AttrGet("src"); strings.HasPrefix(src, uploadPrefix) {
					rewriteUploadImage(c, resolved[src], s.Opts)
				}
			case "link_open":
				if href := c.AttrGet("href"); strings.HasPrefix(href, uploadPrefix) {
					rewriteUploadLink(c, resolved[href], s.Opts)
				}
			case "html_inline":
				rewriteUploadHTML(c, resolved, urls, s.Opts)
			}
		}
	}
}

func setupUploads(h *PluginHelper) {
	h.AllowList(
		"img[data-base62-sha1]", "img[data-orig-src]",
		"a[data-orig-href]",
	)

	h.RegisterOptions(func(opts *RenderOptions, settings *SiteSettings) {
		if settings.SecureUploads {
			opts.SecureUploads = true
		}
	})

	h.RegisterPlugin(func(e *Engine) {
		e.Core.Push("uploads", ruleUploads)
	})
}
