//
// Cooked forum markup processor
//

//
// Engine assembly and the render entry point
//

package cooked

import (
	"regexp"
	"strings"
	"sync"
)

// Engine hosts the rule registries, the renderer, the allow-list and the
// engine-scoped caches. Configuration is fixed at construction; Render may
// be called concurrently from multiple goroutines.
type Engine struct {
	Block    *parserBlock
	Inline   *parserInline
	Core     ruler[CoreRule]
	Renderer *Renderer
	BBCode   *bbcodeRegistry
	Allow    *AllowList
	Settings *SiteSettings

	optionDerivers []func(*RenderOptions, *SiteSettings)

	// engine-scoped caches; everything else is allocated per render call
	mu                sync.Mutex
	wordMatches       map[string][]wordMatch
	oneboxHTML        map[string]string
	inlineOneboxTitle map[string]string
}

// PluginHelper is handed to each rule module's setup function.
type PluginHelper struct {
	engine *Engine
}

// AllowList registers tag/attribute patterns the module may emit.
func (h *PluginHelper) AllowList(specs ...string) {
	h.engine.Allow.Allow(specs...)
}

// AllowListClass registers a class predicate for one tag.
func (h *PluginHelper) AllowListClass(tag string, pred func(string) bool) {
	h.engine.Allow.AllowClass(tag, pred)
}

// RegisterOptions registers a deriver folding site settings into the
// per-render options. Derivers run before any rule executes.
func (h *PluginHelper) RegisterOptions(fn func(*RenderOptions, *SiteSettings)) {
	h.engine.optionDerivers = append(h.engine.optionDerivers, fn)
}

// RegisterPlugin runs the module's tokenizer/renderer wiring.
func (h *PluginHelper) RegisterPlugin(fn func(*Engine)) {
	fn(h.engine)
}

var defaultPlugins = []func(*PluginHelper){
	setupCore,
	setupBBCodeInline,
	setupQuotes,
	setupWrap,
	setupGrid,
	setupFence,
	setupLinkify,
	setupUploads,
	setupOnebox,
	setupWatchedWords,
	setupHashtags,
	setupArrows,
	setupResize,
}

// New builds an engine with the full default rule-module set. A nil
// settings value gets the stock defaults.
func New(settings *SiteSettings) *Engine {
	if settings == nil {
		settings = DefaultSettings()
	}
	e := &Engine{
		Block:             newParserBlock(),
		Inline:            newParserInline(),
		Renderer:          newRenderer(),
		BBCode:            newBBCodeRegistry(),
		Allow:             newAllowList(),
		Settings:          settings,
		wordMatches:       map[string][]wordMatch{},
		oneboxHTML:        map[string]string{},
		inlineOneboxTitle: map[string]string{},
	}
	e.Core.Push("inline", coreInline)

	h := &PluginHelper{engine: e}
	for _, setup := range defaultPlugins {
		setup(h)
	}
	return e
}

// Render turns source text into sanitized HTML. It never fails on
// malformed input; broken syntax degrades to literal text.
func (e *Engine) Render(src string, opts *RenderOptions) string {
	opts = e.finalizeOptions(opts)
	tokens := e.parse(src, opts)
	html := e.Renderer.Render(tokens, opts)
	return e.Allow.Sanitize(html)
}

// Parse exposes the token stream for callers that post-process tokens
// themselves. The returned stream is well formed: every _open has a
// matching _close in stack order.
func (e *Engine) Parse(src string, opts *RenderOptions) []*Token {
	return e.parse(src, e.finalizeOptions(opts))
}

func (e *Engine) parse(src string, opts *RenderOptions) []*Token {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	s := &StateCore{Src: src, Engine: e, Opts: opts}
	s.Tokens = e.Block.parse(src, e, opts)
	for _, rule := range e.Core.funcs() {
		rule(s)
	}
	return s.Tokens
}

func (e *Engine) finalizeOptions(opts *RenderOptions) *RenderOptions {
	if opts == nil {
		opts = &RenderOptions{}
	}
	opts = opts.clone()
	for _, derive := range e.optionDerivers {
		derive(opts, e.Settings)
	}
	return opts
}

// coreInline expands every "inline" token's raw text into child tokens.
func coreInline(s *StateCore) {
	for _, t := range s.Tokens {
		if t.Type == "inline" && t.Children == nil {
			t.Children = s.Engine.Inline.parse(t.Content, s.Engine, s.Opts)
		}
	}
}

var reBadProtocol = regexp.MustCompile(`(?i)^(javascript|vbscript|file|data):`)
var reGoodData = regexp.MustCompile(`(?i)^data:image/(gif|png|jpeg|webp);`)

// ValidateLink is the security gate for every emitted link target.
func (e *Engine) ValidateLink(url string) bool {
	url = strings.TrimSpace(url)
	if url == "" {
		return false
	}
	if reBadProtocol.MatchString(url) {
		return reGoodData.MatchString(url)
	}
	return true
}

// CacheOnebox stores pre-fetched block onebox HTML for a URL. The fetch
// itself happens out-of-band; rendering only ever does a synchronous
// lookup here.
func (e *Engine) CacheOnebox(url, html string) {
	e.mu.Lock()
	e.oneboxHTML[url] = html
	e.mu.Unlock()
}

func (e *Engine) cachedOnebox(url string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	html, ok := e.oneboxHTML[url]
	return html, ok
}

// CacheInlineOnebox stores a resolved title for inline onebox
// substitution. An empty title marks the URL as resolved but not
// oneboxable. This cache is intentionally separate from the block onebox
// cache; the two have different shapes and lifecycles.
func (e *Engine) CacheInlineOnebox(url, title string) {
	e.mu.Lock()
	e.inlineOneboxTitle[url] = title
	e.mu.Unlock()
}

func (e *Engine) cachedInlineOnebox(url string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	title, ok := e.inlineOneboxTitle[url]
	return title, ok
}

// setupCore registers the allow-list entries for everything the stock
// tokenizer and renderer emit, and folds the emoji site settings into the
// options surface for emoji-rendering plugins.
func setupCore(h *PluginHelper) {
	h.RegisterOptions(func(opts *RenderOptions, settings *SiteSettings) {
		if settings.EnableEmoji {
			opts.EnableEmoji = true
		}
		if opts.EmojiSet == "" {
			opts.EmojiSet = settings.EmojiSet
		}
		if opts.EmojiCDNURL == "" {
			opts.EmojiCDNURL = settings.EmojiCDNURL
		}
		if settings.EnableEmojiShortcuts {
			opts.EnableEmojiShortcuts = true
		}
		if settings.InlineEmoji {
			opts.InlineEmoji = true
		}
	})

	h.AllowList(
		"p", "br", "hr",
		"strong", "em", "b", "i", "u", "s", "del", "ins", "small", "sub", "sup",
		"blockquote", "pre", "code",
		"h1[id]", "h2[id]", "h3[id]", "h4[id]", "h5[id]", "h6[id]",
		"a[href]", "a[title]", "a[rel]",
		"img[src]", "img[alt]", "img[title]", "img[width]", "img[height]",
		"ul", "ol", "li",
		"span",
	)
}
