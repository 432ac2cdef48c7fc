//
// Cooked forum markup processor
//

//
// Per-render options and context injection
//
// A RenderOptions value is assembled once per render call: the caller
// supplies user context and lookup hooks, each rule module's registered
// deriver folds in its site-setting defaults, and the result is treated as
// read-only by every rule. The one exception is Features, a capability map
// rules may toggle during setup to signal cross-rule flags.
//

package cooked

// TopicInfo is what GetTopicInfo resolves for a quoted topic.
type TopicInfo struct {
	Title string
	HRef  string
}

// HashtagResult is what HashtagLookup resolves for a #slug mention.
type HashtagResult struct {
	URL  string
	Icon string
	Text string
}

// UploadInfo is one resolved upload:// placeholder.
type UploadInfo struct {
	URL        string
	ShortPath  string
	Base62SHA1 string
}

// RenderOptions carries the site settings snapshot, current-user context
// and external lookup callbacks for one render call. All lookups are
// optional; a missing callback degrades the dependent feature to its
// plain-text fallback.
type RenderOptions struct {
	// Features is the capability map rule modules read and write during
	// setup (e.g. "bbcode-inline", "image-grid").
	Features map[string]bool

	DefaultCodeLang       string
	AcceptableCodeClasses []string

	CurrentUser string
	TopicID     int

	// Previewing toggles preview-only affordances (resize/scale
	// controls, image grid toggles).
	Previewing bool

	SecureUploads bool

	EnableEmoji          bool
	EmojiSet             string
	EmojiCDNURL          string
	EnableEmojiShortcuts bool
	InlineEmoji          bool

	WatchedWordsReplace map[string]string
	WatchedWordsLink    map[string]string

	// set when the watched-word maps were inherited untouched from site
	// settings; gates the engine-level match cache
	watchedWordsFromSettings bool

	HashtagTypesInPriorityOrder []string
	HashtagLookup               func(slug, currentUser string, typesInPriorityOrder []string) *HashtagResult

	LookupAvatar             func(username string) string
	LookupAvatarByPostNumber func(postNumber, topicID int) string

	LookupPrimaryUserGroup             func(username string) string
	LookupPrimaryUserGroupByPostNumber func(postNumber, topicID int) string

	FormatUsername func(username string) string

	GetTopicInfo func(topicID int) *TopicInfo

	// GetURL maps an application-relative path to a servable URL
	// (subfolder/CDN prefixing).
	GetURL func(path string) string

	// LookupUploadUrls resolves all upload:// placeholders found in one
	// render in a single batched call.
	LookupUploadUrls func(urls []string) map[string]*UploadInfo
}

func (o *RenderOptions) getURL(path string) string {
	if o.GetURL != nil {
		return o.GetURL(path)
	}
	return path
}

func (o *RenderOptions) formatUsername(username string) string {
	if o.FormatUsername != nil {
		return o.FormatUsername(username)
	}
	return username
}

func (o *RenderOptions) clone() *RenderOptions {
	c := *o
	c.Features = make(map[string]bool, len(o.Features))
	for k, v := range o.Features {
		c.Features[k] = v
	}
	return &c
}
