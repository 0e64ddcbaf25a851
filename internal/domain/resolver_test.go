package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jorgejac1/allylab-sub006/internal/adapter"
	m "github.com/jorgejac1/allylab-sub006/internal/model"
)

type fakeSearch struct {
	results map[string][]adapter.SearchResult
	errs    map[string]error
	queries []string
}

func (f *fakeSearch) SearchCode(_ context.Context, _, _, query string) ([]adapter.SearchResult, error) {
	f.queries = append(f.queries, query)

	if err, ok := f.errs[query]; ok {
		return nil, err
	}

	return f.results[query], nil
}

type fakeContent struct {
	contents map[string]string
	err      error
	fetched  []string
}

func (f *fakeContent) GetFileContent(_ context.Context, _, _, path, _ string) (string, error) {
	f.fetched = append(f.fetched, path)

	if f.err != nil {
		return "", f.err
	}

	return f.contents[path], nil
}

// fakeVerifier returns a configured result per file content, nil otherwise.
type fakeVerifier struct {
	byContent map[string]*m.VerifierResult
}

func (f *fakeVerifier) VerifyMatch(fileContent, _, _ string) *m.VerifierResult {
	return f.byContent[fileContent]
}

func buttonItem() *m.FindingWithFix {
	return &m.FindingWithFix{
		Finding: m.Finding{
			ID:       "f1",
			RuleID:   "button-name",
			Title:    "Buttons must have discernible text",
			Severity: m.SeverityCritical,
			Selector: "button.submit-button",
			HTML:     "<button>Click</button>",
		},
		Fix: &m.Fix{
			FindingID:    "f1",
			OriginalCode: "<button>Click</button>",
			FixedCode:    map[string]string{"tsx": `<button aria-label="Submit">Click</button>`},
		},
	}
}

func testRepo() m.RepositoryContext {
	return m.RepositoryContext{Owner: "acme", Repo: "storefront", Branch: "main", DefaultBranch: "main"}
}

func newTestResolver(search *fakeSearch, content *fakeContent, verifier *fakeVerifier, states StateStore) Resolver {
	return NewResolver(search, content, verifier, NewQueryBuilder(), states)
}

func TestResolver_NoSignalMakesNoExternalCalls(t *testing.T) {
	search := &fakeSearch{}
	content := &fakeContent{}
	states := NewStateStore()

	resolver := newTestResolver(search, content, &fakeVerifier{}, states)

	item := buttonItem()
	item.Finding.HTML = `<img src="decorative.png">`
	item.Finding.Selector = "img"

	outcome := resolver.Resolve(context.Background(), item, testRepo())

	assert.Equal(t, m.OutcomeNoSignal, outcome.Kind)
	assert.Equal(t, "no searchable content in element", outcome.Reason)
	assert.Empty(t, search.queries)
	assert.Empty(t, content.fetched)
	assert.Empty(t, item.FilePath)

	state, ok := states.Read("f1")
	require.True(t, ok)
	assert.False(t, state.InProgress)
	require.NotNil(t, state.Result)
	assert.Equal(t, m.OutcomeNoSignal, state.Result.Kind)
}

func TestResolver_FirstQueryMatchStopsSearching(t *testing.T) {
	search := &fakeSearch{
		results: map[string][]adapter.SearchResult{
			"Click": {{Path: "src/Button.tsx"}},
		},
	}
	content := &fakeContent{contents: map[string]string{"src/Button.tsx": "file body"}}
	verifier := &fakeVerifier{byContent: map[string]*m.VerifierResult{
		"file body": {Confidence: m.ConfidenceHigh, Reason: "exact markup fragment found in file", LineStart: 7},
	}}
	states := NewStateStore()

	resolver := newTestResolver(search, content, verifier, states)

	item := buttonItem()
	outcome := resolver.Resolve(context.Background(), item, testRepo())

	require.Equal(t, m.OutcomeMatch, outcome.Kind)
	assert.Equal(t, "src/Button.tsx", outcome.Path)
	assert.Equal(t, m.ConfidenceHigh, outcome.Confidence)
	assert.Equal(t, 7, outcome.LineStart)

	// The class-token query must never be issued once the text query matched.
	assert.Equal(t, []string{"Click"}, search.queries)

	// The resolved path is written back into the item.
	assert.Equal(t, "src/Button.tsx", item.FilePath)
}

func TestResolver_EmptySearchResultsResolveToNoMatch(t *testing.T) {
	search := &fakeSearch{}
	content := &fakeContent{}
	states := NewStateStore()

	resolver := newTestResolver(search, content, &fakeVerifier{}, states)

	item := buttonItem()
	outcome := resolver.Resolve(context.Background(), item, testRepo())

	assert.Equal(t, m.OutcomeNoMatch, outcome.Kind)
	assert.Empty(t, item.FilePath)
	assert.Equal(t, []string{"Click", "submit-button"}, search.queries)
	assert.Empty(t, content.fetched)
}

func TestResolver_SearchFailureSkipsToNextQuery(t *testing.T) {
	search := &fakeSearch{
		errs: map[string]error{"Click": errors.New("rate limited")},
		results: map[string][]adapter.SearchResult{
			"submit-button": {{Path: "src/SubmitButton.tsx"}},
		},
	}
	content := &fakeContent{contents: map[string]string{"src/SubmitButton.tsx": "component body"}}
	verifier := &fakeVerifier{byContent: map[string]*m.VerifierResult{
		"component body": {Confidence: m.ConfidenceMedium, Reason: "markup fragment found ignoring whitespace"},
	}}

	resolver := newTestResolver(search, content, verifier, NewStateStore())

	item := buttonItem()
	outcome := resolver.Resolve(context.Background(), item, testRepo())

	require.Equal(t, m.OutcomeMatch, outcome.Kind)
	assert.Equal(t, "src/SubmitButton.tsx", outcome.Path)
	assert.Equal(t, m.ConfidenceMedium, outcome.Confidence)
}

func TestResolver_FetchFailureTreatedAsNoResult(t *testing.T) {
	search := &fakeSearch{
		results: map[string][]adapter.SearchResult{
			"Click":         {{Path: "src/Button.tsx"}},
			"submit-button": {{Path: "src/Button.tsx"}},
		},
	}
	content := &fakeContent{err: errors.New("unavailable")}

	resolver := newTestResolver(search, content, &fakeVerifier{}, NewStateStore())

	item := buttonItem()
	outcome := resolver.Resolve(context.Background(), item, testRepo())

	assert.Equal(t, m.OutcomeNoMatch, outcome.Kind)
	assert.Empty(t, item.FilePath)
}

func TestResolver_FiltersNonSourceCandidates(t *testing.T) {
	search := &fakeSearch{
		results: map[string][]adapter.SearchResult{
			"Click": {
				{Path: "node_modules/ui/Button.tsx"},
				{Path: "src/Button.test.tsx"},
				{Path: "docs/button.md"},
				{Path: "src/Button.tsx"},
			},
		},
	}
	content := &fakeContent{contents: map[string]string{"src/Button.tsx": "real component"}}
	verifier := &fakeVerifier{byContent: map[string]*m.VerifierResult{
		"real component": {Confidence: m.ConfidenceHigh, Reason: "exact markup fragment found in file"},
	}}

	resolver := newTestResolver(search, content, verifier, NewStateStore())

	item := buttonItem()
	outcome := resolver.Resolve(context.Background(), item, testRepo())

	require.Equal(t, m.OutcomeMatch, outcome.Kind)
	assert.Equal(t, []string{"src/Button.tsx"}, content.fetched)
}

func TestResolver_WeakMatchWhenVerifierDeclines(t *testing.T) {
	search := &fakeSearch{
		results: map[string][]adapter.SearchResult{
			"Click": {{Path: "src/Button.tsx"}},
		},
	}
	content := &fakeContent{contents: map[string]string{"src/Button.tsx": "unrelated body"}}

	resolver := newTestResolver(search, content, &fakeVerifier{}, NewStateStore())

	item := buttonItem()
	outcome := resolver.Resolve(context.Background(), item, testRepo())

	require.Equal(t, m.OutcomeWeakMatch, outcome.Kind)
	assert.Equal(t, "src/Button.tsx", outcome.Path)
	assert.Equal(t, "file found but exact code location unclear", outcome.Reason)
	assert.Equal(t, m.ConfidenceLow, outcome.Confidence)

	// Weak matches never mutate the path on their own.
	assert.Empty(t, item.FilePath)
}

func TestResolver_FirstWeakResultWins(t *testing.T) {
	search := &fakeSearch{
		results: map[string][]adapter.SearchResult{
			"Click":         {{Path: "src/First.tsx"}},
			"submit-button": {{Path: "src/Second.tsx"}},
		},
	}
	content := &fakeContent{contents: map[string]string{
		"src/First.tsx":  "first body",
		"src/Second.tsx": "second body",
	}}

	resolver := newTestResolver(search, content, &fakeVerifier{}, NewStateStore())

	outcome := resolver.Resolve(context.Background(), buttonItem(), testRepo())

	require.Equal(t, m.OutcomeWeakMatch, outcome.Kind)
	assert.Equal(t, "src/First.tsx", outcome.Path)
}

func TestResolver_LaterTrueMatchBeatsEarlierWeak(t *testing.T) {
	search := &fakeSearch{
		results: map[string][]adapter.SearchResult{
			"Click":         {{Path: "src/Wrong.tsx"}},
			"submit-button": {{Path: "src/Right.tsx"}},
		},
	}
	content := &fakeContent{contents: map[string]string{
		"src/Wrong.tsx": "wrong body",
		"src/Right.tsx": "right body",
	}}
	verifier := &fakeVerifier{byContent: map[string]*m.VerifierResult{
		"right body": {Confidence: m.ConfidenceHigh, Reason: "exact markup fragment found in file", LineStart: 3},
	}}

	states := NewStateStore()
	resolver := newTestResolver(search, content, verifier, states)

	item := buttonItem()
	outcome := resolver.Resolve(context.Background(), item, testRepo())

	require.Equal(t, m.OutcomeMatch, outcome.Kind)
	assert.Equal(t, "src/Right.tsx", outcome.Path)
	assert.Equal(t, "src/Right.tsx", item.FilePath)
}

func TestResolver_MissingFixIsNoOp(t *testing.T) {
	search := &fakeSearch{}
	states := NewStateStore()

	resolver := newTestResolver(search, &fakeContent{}, &fakeVerifier{}, states)

	item := buttonItem()
	item.Fix = nil

	outcome := resolver.Resolve(context.Background(), item, testRepo())

	assert.Equal(t, m.OutcomeNoMatch, outcome.Kind)
	assert.Equal(t, "fix or code-host capability unavailable", outcome.Reason)
	assert.Empty(t, search.queries)

	_, ok := states.Read("f1")
	assert.False(t, ok)
}

func TestAcceptWeak(t *testing.T) {
	states := NewStateStore()

	item := buttonItem()
	states.Begin(item.Finding.ID)
	states.Complete(item.Finding.ID, m.WeakMatch("src/Maybe.tsx"))

	require.True(t, AcceptWeak(states, item))
	assert.Equal(t, "src/Maybe.tsx", item.FilePath)
}

func TestAcceptWeak_RequiresWeakResult(t *testing.T) {
	states := NewStateStore()

	item := buttonItem()
	states.Begin(item.Finding.ID)
	states.Complete(item.Finding.ID, m.NoMatch())

	assert.False(t, AcceptWeak(states, item))
	assert.Empty(t, item.FilePath)
}

func TestIsSourcePath(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"src/Button.tsx", true},
		{"app/views/home.erb", true},
		{"templates/index.html", true},
		{"node_modules/react/index.js", false},
		{"vendor/lib/button.js", false},
		{"dist/bundle.js", false},
		{"src/Button.test.tsx", false},
		{"src/Button.spec.ts", false},
		{"src/__tests__/Button.tsx", false},
		{"tests/fixtures/page.html", false},
		{"README.md", false},
		{"src/styles.css", false},
		{"Makefile", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, isSourcePath(tc.path), tc.path)
	}
}
