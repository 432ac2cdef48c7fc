//
// Cooked forum markup processor
//

//
// Typographic arrow tests
//

package cooked

import "testing"

func TestArrows(t *testing.T) {
	doTests(t, []string{
		"a -> b",
		"<p>a → b</p>\n",

		"a <- b",
		"<p>a ← b</p>\n",

		"a => b",
		"<p>a ⇒ b</p>\n",

		"a <= b",
		"<p>a ⇐ b</p>\n",

		"(-> works)",
		"<p>(→ works)</p>\n",
	})
}

func TestArrowsLeftAloneInCode(t *testing.T) {
	doTests(t, []string{
		"`a -> b`",
		"<p><code>a -&gt; b</code></p>\n",

		"```\na -> b\n```",
		"<pre><code class=\"lang-auto\">a -&gt; b\n</code></pre>\n",
	})
}

func TestArrowsNeedSpacing(t *testing.T) {
	doTests(t, []string{
		"a->b",
		"<p>a-&gt;b</p>\n",
	})
}
