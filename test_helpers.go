//
// Cooked forum markup processor
//

//
// Helper functions for unit testing
//

package cooked

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

type testParams struct {
	Settings *SiteSettings
	Opts     *RenderOptions
	Setup    func(e *Engine)
}

func runRender(input string, params testParams) string {
	e := New(params.Settings)
	if params.Setup != nil {
		params.Setup(e)
	}
	return e.Render(input, params.Opts)
}

// doTestsParam runs input/expected pairs through a fresh engine.
func doTestsParam(t *testing.T, tests []string, params testParams) {
	t.Helper()

	// catch and report panics
	var candidate string
	defer func() {
		if err := recover(); err != nil {
			t.Errorf("\npanic while processing [%#v]: %s\n", candidate, err)
		}
	}()

	for i := 0; i+1 < len(tests); i += 2 {
		input := tests[i]
		candidate = input
		expected := tests[i+1]
		actual := runRender(candidate, params)
		if actual != expected {
			diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
				A:        difflib.SplitLines(expected),
				B:        difflib.SplitLines(actual),
				FromFile: "expected",
				ToFile:   "actual",
				Context:  2,
			})
			t.Errorf("\nInput   [%#v]\nExpected[%#v]\nActual  [%#v]\n%s",
				candidate, expected, actual, diff)
		}

		// now test every substring to stress test bounds checking
		if !testing.Short() {
			for start := 0; start < len(input); start++ {
				for end := start + 1; end <= len(input); end++ {
					candidate = input[start:end]
					runRender(candidate, params)
				}
			}
		}
	}
}

func doTests(t *testing.T, tests []string) {
	t.Helper()
	doTestsParam(t, tests, testParams{})
}
