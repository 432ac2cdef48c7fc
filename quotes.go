//
// Cooked forum markup processor
//

//
// [quote] block rendering
//
// [quote=username, post:N, topic:M, full:true] renders an aside with a
// title header (avatar, display name, or a link to the quoted topic when
// quoting across topics) and a blockquote body. Everything here is
// lookup-driven: avatar, primary group and topic info all come from
// injected callbacks and every miss degrades to plainer markup.
//

package cooked

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	rePostOption  = regexp.MustCompile(`^post:(\d+)$`)
	reTopicOption = regexp.MustCompile(`^topic:(\d+)$`)
	reFullOption  = regexp.MustCompile(`^full:\s*true$`)
)

type quoteParams struct {
	username   string
	postNumber int
	topicID    int
	full       bool
}

// parseQuoteParams splits the default attribute on commas; the first
// token is the username, the rest are matched against the post/topic/full
// forms. Unrecognized tokens are ignored, and numbers that fail to parse
// just leave their field unset.
func parseQuoteParams(def string) quoteParams {
	var q quoteParams
	parts := strings.Split(def, ",")
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if i == 0 {
			q.username = strings.TrimPrefix(part, "@")
			continue
		}
		if m := rePostOption.FindStringSubmatch(part); m != nil {
			q.postNumber, _ = strconv.Atoi(m[1])
			continue
		}
		if m := reTopicOption.FindStringSubmatch(part); m != nil {
			q.topicID, _ = strconv.Atoi(m[1])
			continue
		}
		if reFullOption.MatchString(part) {
			q.full = true
		}
	}
	return q
}

// quoteAvatar prefers the post-number-scoped lookup (the post is already
// in memory client side) over the username-scoped one (a server query).
func quoteAvatar(opts *RenderOptions, q quoteParams) string {
	var src string
	if q.postNumber > 0 && q.topicID > 0 && opts.LookupAvatarByPostNumber != nil {
		src = opts.LookupAvatarByPostNumber(q.postNumber, q.topicID)
	}
	if src == "" && q.username != "" && opts.LookupAvatar != nil {
		src = opts.LookupAvatar(q.username)
	}
	if src == "" {
		return ""
	}
	return `<img alt="" width="24" height="24" src="` + escapeHTMLString(src) + `" class="avatar">`
}

func quotePrimaryGroup(opts *RenderOptions, q quoteParams) string {
	if q.postNumber > 0 && q.topicID > 0 && opts.LookupPrimaryUserGroupByPostNumber != nil {
		if g := opts.LookupPrimaryUserGroupByPostNumber(q.postNumber, q.topicID); g != "" {
			return g
		}
	}
	if q.username != "" && opts.LookupPrimaryUserGroup != nil {
		return opts.LookupPrimaryUserGroup(q.username)
	}
	return ""
}

// quoteTitle builds the header inner HTML. When the quoted post lives in
// a different topic than the one being rendered and topic info is
// resolvable, the header links there instead of naming the user.
func quoteTitle(opts *RenderOptions, q quoteParams) string {
	if q.topicID > 0 && q.topicID != opts.TopicID && opts.GetTopicInfo != nil {
		if info := opts.GetTopicInfo(q.topicID); info != nil && info.HRef != "" {
			href := info.HRef
			if q.postNumber > 0 {
				href += "/" + strconv.Itoa(q.postNumber)
			}
			title := info.Title
			if title == "" {
				title = href
			}
			return ` <a href="` + escapeHTMLString(href) + `">` + escapeHTMLString(title) + `</a>`
		}
	}
	if q.username == "" {
		return ""
	}
	return " " + escapeHTMLString(opts.formatUsername(q.username)) + ":"
}

func quoteOpen(s *StateBlock, info *BBCodeTag) {
	q := parseQuoteParams(info.Attrs["_default"])

	tok := s.Push("quote_open", "aside", 1)
	if group := quotePrimaryGroup(s.Opts, q); group != "" {
		tok.AttrPush("class", "quote group-"+group)
	} else {
		tok.AttrPush("class", "quote no-group")
	}
	if q.username != "" {
		tok.AttrPush("data-username", q.username)
	}
	if q.postNumber > 0 {
		tok.AttrPush("data-post", strconv.Itoa(q.postNumber))
	}
	if q.topicID > 0 {
		tok.AttrPush("data-topic", strconv.Itoa(q.topicID))
	}
	if q.full {
		tok.AttrPush("data-full", "true")
	}

	if title := quoteTitle(s.Opts, q); title != "" {
		header := s.Push("html_block", "", 0)
		header.Content = `<div class="title">` + quoteAvatar(s.Opts, q) + title + "</div>\n"
	}

	s.Push("blockquote_open", "blockquote", 1)
}

func quoteClose(s *StateBlock, info *BBCodeTag) {
	s.Push("blockquote_close", "blockquote", -1)
	s.Push("quote_close", "aside", -1)
}

var reQuoteGroupClass = regexp.MustCompile(`^quote group-(.+)$`)

func setupQuotes(h *PluginHelper) {
	h.AllowList(
		"aside[data-username]", "aside[data-post]", "aside[data-topic]", "aside[data-full=true]",
		"div[class=title]",
		"img[class=avatar]",
	)
	// the only class patterns an aside may carry
	h.AllowListClass("aside", func(class string) bool {
		return class == "quote no-group" || reQuoteGroupClass.MatchString(class)
	})

	h.RegisterPlugin(func(e *Engine) {
		e.BBCode.RegisterBlock(&BBCodeBlockRule{
			Tag:   "quote",
			Open:  quoteOpen,
			Close: quoteClose,
		})
	})
}
