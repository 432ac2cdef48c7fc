//
// Cooked forum markup processor
//

//
// Site settings, loadable from YAML
//

package cooked

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// SiteSettings is the immutable site-wide configuration an Engine is built
// with. Rule modules fold it into per-render options through their
// registered derivers.
type SiteSettings struct {
	DefaultCodeLang       string   `yaml:"default_code_lang"`
	AcceptableCodeClasses []string `yaml:"acceptable_code_classes"`

	EnableHashtags  bool `yaml:"enable_hashtags"`
	EnableWrapTags  bool `yaml:"enable_wrap_tags"`
	EnableImageGrid bool `yaml:"enable_image_grid"`
	SecureUploads   bool `yaml:"secure_uploads"`

	EnableEmoji          bool   `yaml:"enable_emoji"`
	EmojiSet             string `yaml:"emoji_set"`
	EmojiCDNURL          string `yaml:"emoji_cdn_url"`
	EnableEmojiShortcuts bool   `yaml:"enable_emoji_shortcuts"`
	InlineEmoji          bool   `yaml:"inline_emoji"`

	WatchedWordsReplace map[string]string `yaml:"watched_words_replace"`
	WatchedWordsLink    map[string]string `yaml:"watched_words_link"`
}

// DefaultSettings mirrors a stock site configuration.
func DefaultSettings() *SiteSettings {
	return &SiteSettings{
		DefaultCodeLang:       "auto",
		AcceptableCodeClasses: []string{"auto", "nohighlight", "text", "ruby", "go", "js", "sql", "bash", "css", "html", "json", "python", "yaml"},
		EnableHashtags:        true,
		EnableEmoji:           true,
		EmojiSet:              "twitter",
	}
}

// Validate reports the first problem with the settings. Watched-word
// patterns that fail to compile are configuration errors here, even though
// the renderer itself would just skip them.
func (s *SiteSettings) Validate() error {
	for word := range s.WatchedWordsReplace {
		if _, err := regexp.Compile("(?i)" + word); err != nil {
			return fmt.Errorf("watched word replace pattern %q: %w", word, err)
		}
	}
	for word := range s.WatchedWordsLink {
		if _, err := regexp.Compile("(?i)" + word); err != nil {
			return fmt.Errorf("watched word link pattern %q: %w", word, err)
		}
	}
	return nil
}

// LoadSettings reads and validates a YAML settings file.
func LoadSettings(path string) (*SiteSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}
