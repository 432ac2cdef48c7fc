//
// Cooked forum markup processor
//

//
// Watched-word tests
//

package cooked

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWatchedWordReplace(t *testing.T) {
	e := New(&SiteSettings{
		WatchedWordsReplace: map[string]string{"carrot": "broccoli"},
	})
	assert.Equal(t, "<p>eat broccoli and broccoli soup</p>\n",
		e.Render("eat carrot and carrot soup", nil))
}

func TestWatchedWordCaseInsensitive(t *testing.T) {
	e := New(&SiteSettings{
		WatchedWordsReplace: map[string]string{"carrot": "broccoli"},
	})
	assert.Equal(t, "<p>broccoli</p>\n", e.Render("CARROT", nil))
}

func TestWatchedWordLink(t *testing.T) {
	e := New(&SiteSettings{
		WatchedWordsLink: map[string]string{"docs": "https://docs.example.com"},
	})
	assert.Equal(t, "<p>see <a href=\"https://docs.example.com\">docs</a> here</p>\n",
		e.Render("see docs here", nil))
}

func TestWatchedWordLinkRejectedTarget(t *testing.T) {
	e := New(&SiteSettings{
		WatchedWordsLink: map[string]string{"docs": "javascript:alert(1)"},
	})
	// rejected targets keep the original text unlinked
	assert.Equal(t, "<p>see docs here</p>\n", e.Render("see docs here", nil))
}

func TestWatchedWordSkipsLinkedText(t *testing.T) {
	e := New(&SiteSettings{
		WatchedWordsReplace: map[string]string{"docs": "files"},
	})
	assert.Equal(t, "<p><a href=\"http://a.b/c\">docs</a> and files</p>\n",
		e.Render("[docs](http://a.b/c) and docs", nil))
}

func TestWatchedWordSkipsRawHTMLAnchor(t *testing.T) {
	e := New(&SiteSettings{
		WatchedWordsReplace: map[string]string{"docs": "files"},
	})
	assert.Equal(t, "<p>see <a href=\"/x\">docs</a> and files</p>\n",
		e.Render(`see <a href="/x">docs</a> and docs`, nil))
}

func TestWatchedWordMatchCap(t *testing.T) {
	e := New(&SiteSettings{
		WatchedWordsReplace: map[string]string{"spam": "eggs"},
	})
	input := strings.TrimSpace(strings.Repeat("spam ", 150))
	html := e.Render(input, nil)
	assert.Equal(t, 100, strings.Count(html, "eggs"))
	assert.Equal(t, 50, strings.Count(html, "spam"))
}

func TestWatchedWordCapPerAction(t *testing.T) {
	e := New(&SiteSettings{
		WatchedWordsReplace: map[string]string{"spam": "eggs"},
		WatchedWordsLink:    map[string]string{"docs": "https://docs.example.com"},
	})
	input := strings.TrimSpace(strings.Repeat("spam ", 120) + strings.Repeat("docs ", 5))
	html := e.Render(input, nil)
	// a flood of replace matches must not eat into the link budget
	assert.Equal(t, 100, strings.Count(html, "eggs"))
	assert.Equal(t, 20, strings.Count(html, "spam"))
	assert.Equal(t, 5, strings.Count(html, "<a href=\"https://docs.example.com\">docs</a>"))
}

func TestWatchedWordRegexPattern(t *testing.T) {
	e := New(&SiteSettings{
		WatchedWordsReplace: map[string]string{`colou?r`: "shade"},
	})
	assert.Equal(t, "<p>shade and shade</p>\n", e.Render("color and colour", nil))
}

func TestWatchedWordMemoCache(t *testing.T) {
	e := New(&SiteSettings{
		WatchedWordsReplace: map[string]string{"carrot": "broccoli"},
	})
	first := e.Render("carrot stew", nil)
	second := e.Render("carrot stew", nil)
	assert.Equal(t, first, second)
	e.mu.Lock()
	defer e.mu.Unlock()
	assert.NotEmpty(t, e.wordMatches)
}

func TestFindMatchesNonOverlapping(t *testing.T) {
	m := &wordMatcher{patterns: []wordPattern{
		{regexp.MustCompile("abcd"), "x", false},
		{regexp.MustCompile("cd"), "y", false},
	}}
	matches := m.findMatches("abcdcd")
	// "abcd" wins at 0; the overlapped "cd" at 2 is dropped, the one at 4 kept
	assert.Equal(t, []wordMatch{
		{0, 4, "x", false},
		{4, 6, "y", false},
	}, matches)
}
