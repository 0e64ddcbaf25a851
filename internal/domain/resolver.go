package domain

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jorgejac1/allylab-sub006/internal/adapter"
	m "github.com/jorgejac1/allylab-sub006/internal/model"
)

// sourceExtensions are the file extensions search candidates may carry to be
// treated as application source.
var sourceExtensions = map[string]bool{
	".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".vue": true, ".svelte": true, ".astro": true,
	".html": true, ".htm": true, ".erb": true, ".ejs": true,
	".hbs": true, ".php": true, ".cshtml": true, ".mdx": true,
}

// vendorSegments mark dependency or build-output directories that never hold
// the project's own markup.
var vendorSegments = []string{
	"node_modules/", "vendor/", "bower_components/",
	"dist/", "build/", ".next/", "out/", "coverage/",
}

// Resolver locates, within the target repository, the file a finding's
// element most plausibly lives in. One call handles one finding; batches go
// through the Orchestrator.
type Resolver interface {
	// Resolve runs query building, code search, content fetch and
	// verification for one finding, records the terminal outcome in the
	// state store and, on an accepted match, writes the resolved path into
	// the item. It never returns an error: every failure folds into an
	// inspectable outcome.
	Resolve(ctx context.Context, item *m.FindingWithFix, repo m.RepositoryContext) m.DetectionOutcome
}

type resolver struct {
	search   adapter.CodeSearchAdapter
	content  adapter.FileContentAdapter
	verifier adapter.MatchVerifier
	queries  QueryBuilder
	states   StateStore
}

// NewResolver constructs a Resolver backed by the provided capabilities and
// state store.
func NewResolver(
	search adapter.CodeSearchAdapter,
	content adapter.FileContentAdapter,
	verifier adapter.MatchVerifier,
	queries QueryBuilder,
	states StateStore,
) Resolver {
	return &resolver{
		search:   search,
		content:  content,
		verifier: verifier,
		queries:  queries,
		states:   states,
	}
}

// Resolve implements Resolver.
func (r *resolver) Resolve(ctx context.Context, item *m.FindingWithFix, repo m.RepositoryContext) m.DetectionOutcome {
	if item == nil || item.Fix == nil || r.search == nil || r.content == nil {
		slog.Warn("detection skipped: fix or code-host capability missing")

		outcome := m.NoMatch()
		outcome.Reason = "fix or code-host capability unavailable"

		return outcome
	}

	findingID := item.Finding.ID
	r.states.Begin(findingID)

	outcome := r.resolve(ctx, item, repo)

	r.states.Complete(findingID, outcome)

	// Only an accepted match mutates the item; weak matches wait for the
	// caller to accept them explicitly.
	if outcome.Accepted() {
		item.FilePath = outcome.Path
	}

	return outcome
}

func (r *resolver) resolve(ctx context.Context, item *m.FindingWithFix, repo m.RepositoryContext) m.DetectionOutcome {
	finding := item.Finding

	queries := r.queries.Build(finding.HTML, finding.Selector)
	if len(queries) == 0 {
		slog.Debug("no queries derivable for finding", "finding", finding.ID)
		return m.NoSignal()
	}

	extractedText := r.queries.ExtractText(finding.HTML)

	var weak *m.DetectionOutcome

	for _, query := range queries {
		results, err := r.search.SearchCode(ctx, repo.Owner, repo.Repo, query)
		if err != nil {
			// A single query failure must never abort the whole resolution.
			slog.Warn("code search failed", "finding", finding.ID, "query", query, "error", err)
			continue
		}

		candidates := filterSourcePaths(results)
		if len(candidates) == 0 {
			slog.Debug("no source-like candidates", "finding", finding.ID, "query", query)
			continue
		}

		candidate := candidates[0].Path

		content, err := r.content.GetFileContent(ctx, repo.Owner, repo.Repo, candidate, repo.Ref())
		if err != nil || content == "" {
			slog.Warn("content fetch failed", "finding", finding.ID, "path", candidate, "error", err)
			continue
		}

		if verified := r.verifier.VerifyMatch(content, finding.HTML, extractedText); verified != nil {
			// First confident match wins; later queries are not consulted.
			return m.Match(candidate, verified.Confidence, verified.Reason, verified.LineStart)
		}

		// The file exists but the fragment could not be confirmed. The first
		// weak result stands; only a true match from a later query beats it.
		if weak == nil {
			outcome := m.WeakMatch(candidate)
			weak = &outcome
		} else {
			slog.Debug("dropping later weak candidate", "finding", finding.ID, "path", candidate)
		}
	}

	if weak != nil {
		return *weak
	}

	return m.NoMatch()
}

// AcceptWeak writes a stored weak-match path into the item. It returns true
// when the item carried a weak result and the path was applied.
func AcceptWeak(states StateStore, item *m.FindingWithFix) bool {
	if item == nil {
		return false
	}

	state, ok := states.Read(item.Finding.ID)
	if !ok || state.Result == nil || state.Result.Kind != m.OutcomeWeakMatch {
		return false
	}

	item.FilePath = state.Result.Path

	return true
}

// filterSourcePaths keeps results whose paths look like application source:
// a known extension, no dependency/build segment, and not a test file.
func filterSourcePaths(results []adapter.SearchResult) []adapter.SearchResult {
	filtered := make([]adapter.SearchResult, 0, len(results))

	for _, result := range results {
		if !isSourcePath(result.Path) {
			continue
		}

		filtered = append(filtered, result)
	}

	return filtered
}

func isSourcePath(path string) bool {
	lower := strings.ToLower(path)

	dot := strings.LastIndex(lower, ".")
	if dot < 0 || !sourceExtensions[lower[dot:]] {
		return false
	}

	for _, segment := range vendorSegments {
		if strings.Contains(lower, segment) {
			return false
		}
	}

	return !isTestPath(lower)
}

func isTestPath(lower string) bool {
	if strings.Contains(lower, ".test.") || strings.Contains(lower, ".spec.") {
		return true
	}

	if strings.Contains(lower, "__tests__/") || strings.Contains(lower, "__mocks__/") {
		return true
	}

	return strings.HasPrefix(lower, "test/") || strings.Contains(lower, "/test/") ||
		strings.HasPrefix(lower, "tests/") || strings.Contains(lower, "/tests/")
}
