//
// Cooked forum markup processor
//

//
// Watched-word replacement and auto-linking
//
// Site operators configure regex patterns that either get replaced with
// fixed text or turned into links wherever they appear in a post. The
// pass runs over the finished token tree, touches only plain text that is
// not already inside a link, and is capped so a pathological post cannot
// blow up render time.
//

package cooked

import (
	"regexp"
	"sort"
)

// hard cap on rewrites per render, applied to the replace and link
// actions independently
const maxWatchedWordMatches = 100

type wordMatch struct {
	start, end  int
	replacement string
	link        bool
}

type wordPattern struct {
	re          *regexp.Regexp
	replacement string
	link        bool
}

type wordMatcher struct {
	patterns  []wordPattern
	cacheable bool
}

// newWordMatcher compiles the per-render pattern set. Patterns that fail
// to compile are skipped; Validate catches them at configuration time.
func newWordMatcher(opts *RenderOptions) *wordMatcher {
	if len(opts.WatchedWordsReplace) == 0 && len(opts.WatchedWordsLink) == 0 {
		return nil
	}
	m := &wordMatcher{cacheable: opts.watchedWordsFromSettings}

	add := func(words map[string]string, link bool) {
		keys := make([]string, 0, len(words))
		for w := range words {
			keys = append(keys, w)
		}
		sort.Strings(keys)
		for _, w := range keys {
			re, err := regexp.Compile("(?i)" + w)
			if err != nil {
				continue
			}
			m.patterns = append(m.patterns, wordPattern{re, words[w], link})
		}
	}
	add(opts.WatchedWordsReplace, false)
	add(opts.WatchedWordsLink, true)

	if len(m.patterns) == 0 {
		return nil
	}
	return m
}

// findMatches collects non-overlapping matches across all patterns in
// text order. Earlier-starting matches win; on a tie the pattern
// registered first wins.
func (m *wordMatcher) findMatches(text string) []wordMatch {
	var all []wordMatch
	for _, p := range m.patterns {
		for _, loc := range p.re.FindAllStringIndex(text, maxWatchedWordMatches) {
			all = append(all, wordMatch{loc[0], loc[1], p.replacement, p.link})
		}
	}
	if len(all) == 0 {
		return nil
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].start < all[j].start })

	out := all[:0]
	last := 0
	for _, wm := range all {
		if wm.start < last {
			continue
		}
		out = append(out, wm)
		last = wm.end
	}
	return out
}

// wordMatchesFor wraps findMatches with the engine-level memo. The memo
// only applies when the pattern set came verbatim from site settings,
// which is fixed for the engine's lifetime.
func (e *Engine) wordMatchesFor(m *wordMatcher, text string) []wordMatch {
	if !m.cacheable {
		return m.findMatches(text)
	}
	e.mu.Lock()
	cached, ok := e.wordMatches[text]
	e.mu.Unlock()
	if ok {
		return cached
	}
	matches := m.findMatches(text)
	e.mu.Lock()
	e.wordMatches[text] = matches
	e.mu.Unlock()
	return matches
}

// rewriteWordMatches turns one text token into the spliced sequence of
// text and link tokens its matches dictate.
func rewriteWordMatches(e *Engine, t *Token, matches []wordMatch) []*Token {
	var out []*Token
	text := t.Content
	pos := 0

	pushText := func(content string) {
		if content == "" {
			return
		}
		nt := NewToken("text", "", 0)
		nt.Level = t.Level
		nt.Content = content
		out = append(out, nt)
	}

	for _, wm := range matches {
		pushText(text[pos:wm.start])
		matched := text[wm.start:wm.end]
		pos = wm.end

		if !wm.link {
			pushText(wm.replacement)
			continue
		}
		if !e.ValidateLink(wm.replacement) {
			pushText(matched)
			continue
		}
		open := NewToken("link_open", "a", 1)
		open.Level = t.Level
		open.AttrPush("href", wm.replacement)
		label := NewToken("text", "", 0)
		label.Level = t.Level + 1
		label.Content = matched
		closing := NewToken("link_close", "a", -1)
		closing.Level = t.Level
		out = append(out, open, label, closing)
	}
	pushText(text[pos:])
	return out
}

func ruleWatchedWords(s *StateCore) {
	matcher := newWordMatcher(s.Opts)
	if matcher == nil {
		return
	}
	replaceBudget := maxWatchedWordMatches
	linkBudget := maxWatchedWordMatches

	eachInline(s.Tokens, func(_ int, inline *Token) {
		if replaceBudget <= 0 && linkBudget <= 0 {
			return
		}
		edits := map[int][]*Token{}
		eachLinkFreeText(inline.Children, func(i int, t *Token) {
			if (replaceBudget <= 0 && linkBudget <= 0) || t.Content == "" {
				return
			}
			matches := s.Engine.wordMatchesFor(matcher, t.Content)
			if len(matches) == 0 {
				return
			}
			// filter against the per-action budgets without touching the
			// cached slice; a skipped match stays literal text
			var kept []wordMatch
			for _, wm := range matches {
				if wm.link {
					if linkBudget <= 0 {
						continue
					}
					linkBudget--
				} else {
					if replaceBudget <= 0 {
						continue
					}
					replaceBudget--
				}
				kept = append(kept, wm)
			}
			if len(kept) == 0 {
				return
			}
			edits[i] = rewriteWordMatches(s.Engine, t, kept)
		})
		inline.Children = applyTokenEdits(inline.Children, edits)
	})
}

func setupWatchedWords(h *PluginHelper) {
	h.RegisterOptions(func(opts *RenderOptions, settings *SiteSettings) {
		if opts.WatchedWordsReplace == nil && opts.WatchedWordsLink == nil {
			opts.WatchedWordsReplace = settings.WatchedWordsReplace
			opts.WatchedWordsLink = settings.WatchedWordsLink
			opts.watchedWordsFromSettings = true
		}
	})

	h.RegisterPlugin(func(e *Engine) {
		e.Core.Push("watched_words", ruleWatchedWords)
	})
}
