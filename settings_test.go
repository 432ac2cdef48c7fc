//
// Cooked forum markup processor
//

//
// Site settings tests
//

package cooked

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
default_code_lang: ruby
enable_wrap_tags: true
watched_words_replace:
  carrot: broccoli
`), 0o644))

	settings, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "ruby", settings.DefaultCodeLang)
	assert.True(t, settings.EnableWrapTags)
	assert.Equal(t, "broccoli", settings.WatchedWordsReplace["carrot"])
	// fields absent from the file keep their defaults
	assert.True(t, settings.EnableHashtags)
}

func TestLoadSettingsMissingFile(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestValidateBadWatchedWordPattern(t *testing.T) {
	s := DefaultSettings()
	s.WatchedWordsReplace = map[string]string{"[unclosed": "x"}
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[unclosed")
}

func TestLoadSettingsRejectsBadPatterns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
watched_words_link:
  "(bad": "/x"
`), 0o644))
	_, err := LoadSettings(path)
	assert.Error(t, err)
}
