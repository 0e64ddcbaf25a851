// Package adapter contains capability ports and infrastructure adapters
// for the allylab remediation engine.
package adapter

import (
	"context"

	m "github.com/jorgejac1/allylab-sub006/internal/model"
)

// SearchResult is one path returned by a code search.
type SearchResult struct {
	Path string
}

// CodeSearchAdapter abstracts text/code search scoped to a repository.
type CodeSearchAdapter interface {
	// SearchCode searches the repository for the given query and returns
	// candidate file paths, most relevant first.
	SearchCode(ctx context.Context, owner, repo, query string) ([]SearchResult, error)
}

// FileContentAdapter abstracts retrieval of full file text.
type FileContentAdapter interface {
	// GetFileContent returns the file's text at the given ref.
	GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, error)
}

// MatchVerifier decides whether fetched file content structurally
// corresponds to the original markup fragment. A nil result means no match.
// Only high and medium confidences originate here.
type MatchVerifier interface {
	VerifyMatch(fileContent, originalFragment, extractedText string) *m.VerifierResult
}

// FileEdit is one file replacement inside a proposed change.
type FileEdit struct {
	Path    string
	Content string
}

// ChangeResult reports the outcome of a change proposal.
type ChangeResult struct {
	Success bool
	URL     string
	Number  int
	Error   string
}

// ChangeAdapter abstracts pull/merge-request creation on the code host.
// The engine only assembles the inputs; it never writes commits itself.
type ChangeAdapter interface {
	CreateChange(ctx context.Context, repo m.RepositoryContext, edits []FileEdit, title, description, branchName string) (ChangeResult, error)
}
