package vocab

import (
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyRestoresVocabularyTerm(t *testing.T) {
	r, err := Compile([]string{"VS Code"}, nil)
	require.NoError(t, err)
	require.Equal(t, "i use VS Code daily", r.Apply("i use vs code daily"))
	require.Equal(t, "VS Code and VS Code", r.Apply("vs  code and Vs Code"))
}

func TestApplyRulesInOrder(t *testing.T) {
	r := New(
		Rule{Pattern: regexp.MustCompile("foo"), Replacement: "bar"},
		Rule{Pattern: regexp.MustCompile("bar"), Replacement: "baz"},
	)
	require.Equal(t, "baz", r.Apply("foo"))

	reversed := New(
		Rule{Pattern: regexp.MustCompile("bar"), Replacement: "baz"},
		Rule{Pattern: regexp.MustCompile("foo"), Replacement: "bar"},
	)
	require.Equal(t, "bar", reversed.Apply("foo"))
}

func TestTermsMatchWholeWordsOnly(t *testing.T) {
	r, err := Compile([]string{"Go"}, nil)
	require.NoError(t, err)
	require.Equal(t, "Go is good, going is fine", r.Apply("go is good, going is fine"))
}

func TestTermsWithPunctuationEdges(t *testing.T) {
	r, err := Compile([]string{"C++", ".NET"}, nil)
	require.NoError(t, err)
	require.Equal(t, "write C++ and .NET", r.Apply("write c++ and .net"))
}

func TestReplacementsExpandGroupsAfterTerms(t *testing.T) {
	r, err := Compile(
		[]string{"Kubernetes"},
		[]Replacement{
			{Pattern: `(?i)\bkubernetes\b`, Replacement: "k8s"},
			{Pattern: `(\w+)@example`, Replacement: "${1} at example"},
		},
	)
	require.NoError(t, err)
	require.Equal(t, 3, r.Len())
	require.Equal(t, []string{"Kubernetes"}, r.Terms())
	require.Equal(t, "k8s mail ops at example", r.Apply("kubernetes mail ops@example"))
}

func TestCompileRejectsBadPattern(t *testing.T) {
	_, err := Compile(nil, []Replacement{{Pattern: "(", Replacement: "x"}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "replacements[0]")
}

func TestCompileSkipsBlankTerms(t *testing.T) {
	r, err := Compile([]string{"  ", ""}, nil)
	require.NoError(t, err)
	require.Zero(t, r.Len())
	require.Equal(t, "unchanged", r.Apply("unchanged"))
}

func TestNilRewriterIsIdentity(t *testing.T) {
	var r *Rewriter
	require.Equal(t, "text", r.Apply("text"))
	require.Zero(t, r.Len())
}

func TestApplyIsSafeForConcurrentUse(t *testing.T) {
	r, err := Compile([]string{"GitHub"}, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.Equal(t, "push to GitHub", r.Apply("push to github"))
		}()
	}
	wg.Wait()
}
