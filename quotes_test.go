//
// Cooked forum markup processor
//

//
// [quote] block tests
//

package cooked

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteSameTopicHeader(t *testing.T) {
	e := New(nil)
	html := e.Render("[quote=alice, post:5, topic:10]hi[/quote]", &RenderOptions{TopicID: 10})
	assert.Equal(t,
		"<aside class=\"quote no-group\" data-username=\"alice\" data-post=\"5\" data-topic=\"10\">\n"+
			"<div class=\"title\"> alice:</div>\n"+
			"<blockquote>\n<p>hi</p>\n</blockquote>\n</aside>\n",
		html)
}

func TestQuoteCrossTopicHeader(t *testing.T) {
	e := New(nil)
	html := e.Render("[quote=alice, post:5, topic:10]hi[/quote]", &RenderOptions{
		TopicID: 99,
		GetTopicInfo: func(topicID int) *TopicInfo {
			assert.Equal(t, 10, topicID)
			return &TopicInfo{Title: "Some Topic", HRef: "/t/some-topic/10"}
		},
	})
	assert.Contains(t, html, `<div class="title"> <a href="/t/some-topic/10/5">Some Topic</a></div>`)
	assert.NotContains(t, html, "alice:")
}

func TestQuoteCrossTopicLookupMiss(t *testing.T) {
	e := New(nil)
	html := e.Render("[quote=alice, topic:10]hi[/quote]", &RenderOptions{
		TopicID:      99,
		GetTopicInfo: func(int) *TopicInfo { return nil },
	})
	// falls back to the plain username header
	assert.Contains(t, html, `<div class="title"> alice:</div>`)
}

func TestQuotePrimaryGroupClass(t *testing.T) {
	e := New(nil)
	html := e.Render("[quote=alice]hi[/quote]", &RenderOptions{
		LookupPrimaryUserGroup: func(username string) string {
			assert.Equal(t, "alice", username)
			return "admins"
		},
	})
	assert.Contains(t, html, `<aside class="quote group-admins"`)
}

func TestQuoteAvatar(t *testing.T) {
	e := New(nil)
	html := e.Render("[quote=alice, post:5, topic:10]hi[/quote]", &RenderOptions{
		TopicID: 10,
		LookupAvatarByPostNumber: func(postNumber, topicID int) string {
			assert.Equal(t, 5, postNumber)
			assert.Equal(t, 10, topicID)
			return "/avatars/alice.png"
		},
	})
	assert.Contains(t, html,
		`<img alt="" width="24" height="24" src="/avatars/alice.png" class="avatar"> alice:`)
}

func TestQuoteFullAndFormatUsername(t *testing.T) {
	e := New(nil)
	html := e.Render("[quote=alice, full:true]hi[/quote]", &RenderOptions{
		FormatUsername: func(u string) string { return "Alice L." },
	})
	assert.Contains(t, html, `data-full="true"`)
	assert.Contains(t, html, `<div class="title"> Alice L.:</div>`)
}

func TestParseQuoteParams(t *testing.T) {
	q := parseQuoteParams("alice, post:5, topic:10, full:true")
	assert.Equal(t, quoteParams{username: "alice", postNumber: 5, topicID: 10, full: true}, q)

	q = parseQuoteParams("@bob")
	assert.Equal(t, "bob", q.username)

	// junk numbers leave fields unset instead of failing
	q = parseQuoteParams("alice, post:NaN, topic:")
	assert.Equal(t, quoteParams{username: "alice"}, q)

	assert.Equal(t, quoteParams{}, parseQuoteParams(""))
}
