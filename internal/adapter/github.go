package adapter

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	m "github.com/jorgejac1/allylab-sub006/internal/model"
)

const (
	defaultAPIBaseURL  = "https://api.github.com"
	defaultHTTPTimeout = 15 * time.Second

	acceptJSON = "application/vnd.github+json"
	acceptRaw  = "application/vnd.github.raw"
)

// GitHubAdapter implements code search, file retrieval and change creation
// against the GitHub REST API.
type GitHubAdapter struct {
	baseURL string
	token   string
	client  *http.Client
}

// GitHubOption configures a GitHubAdapter.
type GitHubOption func(*GitHubAdapter)

// WithBaseURL overrides the API base URL (used for GitHub Enterprise and tests).
func WithBaseURL(baseURL string) GitHubOption {
	return func(a *GitHubAdapter) {
		a.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) GitHubOption {
	return func(a *GitHubAdapter) {
		a.client = client
	}
}

// NewGitHubAdapter constructs a GitHubAdapter authenticated with the given token.
func NewGitHubAdapter(token string, options ...GitHubOption) *GitHubAdapter {
	adapter := &GitHubAdapter{
		baseURL: defaultAPIBaseURL,
		token:   token,
		client:  &http.Client{Timeout: defaultHTTPTimeout},
	}

	for _, option := range options {
		option(adapter)
	}

	return adapter
}

// SearchCode implements CodeSearchAdapter via GET /search/code.
func (a *GitHubAdapter) SearchCode(ctx context.Context, owner, repo, query string) ([]SearchResult, error) {
	q := fmt.Sprintf("%s repo:%s/%s", query, owner, repo)
	endpoint := fmt.Sprintf("%s/search/code?q=%s&per_page=10", a.baseURL, url.QueryEscape(q))

	var payload struct {
		Items []struct {
			Path string `json:"path"`
		} `json:"items"`
	}

	if err := a.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("code search %q: %w", query, err)
	}

	results := make([]SearchResult, 0, len(payload.Items))
	for _, item := range payload.Items {
		results = append(results, SearchResult{Path: item.Path})
	}

	return results, nil
}

// GetFileContent implements FileContentAdapter via the contents API with the
// raw media type.
func (a *GitHubAdapter) GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s", a.baseURL, owner, repo, escapePath(path))
	if ref != "" {
		endpoint += "?ref=" + url.QueryEscape(ref)
	}

	body, err := a.do(ctx, http.MethodGet, endpoint, acceptRaw, nil)
	if err != nil {
		return "", fmt.Errorf("fetch content %s: %w", path, err)
	}

	return string(body), nil
}

// CreateChange implements ChangeAdapter: it branches off the base branch,
// commits each edit through the contents API and opens a pull request.
func (a *GitHubAdapter) CreateChange(ctx context.Context, repo m.RepositoryContext, edits []FileEdit, title, description, branchName string) (ChangeResult, error) {
	base := repo.Ref()

	baseSHA, err := a.refSHA(ctx, repo.Owner, repo.Repo, base)
	if err != nil {
		return ChangeResult{Error: err.Error()}, err
	}

	if err := a.createRef(ctx, repo.Owner, repo.Repo, branchName, baseSHA); err != nil {
		return ChangeResult{Error: err.Error()}, err
	}

	for _, edit := range edits {
		if err := a.putFile(ctx, repo.Owner, repo.Repo, branchName, base, edit, title); err != nil {
			return ChangeResult{Error: err.Error()}, err
		}
	}

	prURL, prNumber, err := a.openPullRequest(ctx, repo.Owner, repo.Repo, base, branchName, title, description)
	if err != nil {
		return ChangeResult{Error: err.Error()}, err
	}

	return ChangeResult{Success: true, URL: prURL, Number: prNumber}, nil
}

func (a *GitHubAdapter) refSHA(ctx context.Context, owner, repo, branch string) (string, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/git/ref/heads/%s", a.baseURL, owner, repo, url.PathEscape(branch))

	var payload struct {
		Object struct {
			SHA string `json:"sha"`
		} `json:"object"`
	}

	if err := a.getJSON(ctx, endpoint, &payload); err != nil {
		return "", fmt.Errorf("resolve base branch %s: %w", branch, err)
	}

	return payload.Object.SHA, nil
}

func (a *GitHubAdapter) createRef(ctx context.Context, owner, repo, branch, sha string) error {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/git/refs", a.baseURL, owner, repo)
	request := map[string]string{
		"ref": "refs/heads/" + branch,
		"sha": sha,
	}

	if _, err := a.doJSON(ctx, http.MethodPost, endpoint, request, nil); err != nil {
		return fmt.Errorf("create branch %s: %w", branch, err)
	}

	return nil
}

func (a *GitHubAdapter) putFile(ctx context.Context, owner, repo, branch, base string, edit FileEdit, message string) error {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s", a.baseURL, owner, repo, escapePath(edit.Path))

	request := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString([]byte(edit.Content)),
		"branch":  branch,
	}

	// An existing file needs its blob SHA for the update to be accepted.
	if sha, err := a.fileSHA(ctx, owner, repo, edit.Path, base); err == nil && sha != "" {
		request["sha"] = sha
	}

	if _, err := a.doJSON(ctx, http.MethodPut, endpoint, request, nil); err != nil {
		return fmt.Errorf("commit %s: %w", edit.Path, err)
	}

	return nil
}

func (a *GitHubAdapter) fileSHA(ctx context.Context, owner, repo, path, ref string) (string, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s", a.baseURL, owner, repo, escapePath(path), url.QueryEscape(ref))

	var payload struct {
		SHA string `json:"sha"`
	}

	if err := a.getJSON(ctx, endpoint, &payload); err != nil {
		return "", err
	}

	return payload.SHA, nil
}

func (a *GitHubAdapter) openPullRequest(ctx context.Context, owner, repo, base, head, title, description string) (string, int, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/pulls", a.baseURL, owner, repo)
	request := map[string]string{
		"title": title,
		"head":  head,
		"base":  base,
		"body":  description,
	}

	var payload struct {
		HTMLURL string `json:"html_url"`
		Number  int    `json:"number"`
	}

	if _, err := a.doJSON(ctx, http.MethodPost, endpoint, request, &payload); err != nil {
		return "", 0, fmt.Errorf("open pull request: %w", err)
	}

	return payload.HTMLURL, payload.Number, nil
}

func (a *GitHubAdapter) getJSON(ctx context.Context, endpoint string, out any) error {
	body, err := a.do(ctx, http.MethodGet, endpoint, acceptJSON, nil)
	if err != nil {
		return err
	}

	return json.Unmarshal(body, out)
}

func (a *GitHubAdapter) doJSON(ctx context.Context, method, endpoint string, in, out any) ([]byte, error) {
	encoded, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	body, err := a.do(ctx, method, endpoint, acceptJSON, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}

	return body, nil
}

func (a *GitHubAdapter) do(ctx context.Context, method, endpoint, accept string, body io.Reader) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}

	request.Header.Set("Accept", accept)
	request.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	if a.token != "" {
		request.Header.Set("Authorization", "Bearer "+a.token)
	}

	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := a.client.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		slog.Debug("code host request failed", "method", method, "url", endpoint, "status", response.StatusCode)
		return nil, fmt.Errorf("%s %s: unexpected status %d", method, endpoint, response.StatusCode)
	}

	return payload, nil
}

// escapePath escapes each path segment while keeping the separators.
func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}

	return strings.Join(segments, "/")
}
