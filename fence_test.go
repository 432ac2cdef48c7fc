//
// Cooked forum markup processor
//

//
// Fenced code block tests
//

package cooked

import "testing"

func TestFenceLanguageClasses(t *testing.T) {
	doTests(t, []string{
		"```go\nx := 1\n```",
		"<pre><code class=\"lang-go\">x := 1\n</code></pre>\n",

		"```\nplain\n```",
		"<pre><code class=\"lang-auto\">plain\n</code></pre>\n",

		"```klingon\nqapla\n```",
		"<pre><code class=\"lang-nohighlight\">qapla\n</code></pre>\n",

		"~~~ruby\nputs 1\n~~~",
		"<pre><code class=\"lang-ruby\">puts 1\n</code></pre>\n",
	})
}

func TestFenceContentEscaped(t *testing.T) {
	doTests(t, []string{
		"```html\n<b>raw</b>\n```",
		"<pre><code class=\"lang-html\">&lt;b&gt;raw&lt;/b&gt;\n</code></pre>\n",
	})
}

func TestFenceUnclosedRunsToEnd(t *testing.T) {
	doTests(t, []string{
		"```\nline1\nline2",
		"<pre><code class=\"lang-auto\">line1\nline2\n</code></pre>\n",
	})
}

func TestFenceDefaultLangOverride(t *testing.T) {
	settings := DefaultSettings()
	settings.DefaultCodeLang = "ruby"
	doTestsParam(t, []string{
		"```\nplain\n```",
		"<pre><code class=\"lang-ruby\">plain\n</code></pre>\n",
	}, testParams{Settings: settings})
}
