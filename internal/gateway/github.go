// Package gateway provides a gateway to the GitHub REST API,
// hiding the HTTP mechanics behind one method per repository operation.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/google/go-querystring/query"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/github-repos/internal/domain"
)

const (
	// DefaultBaseURL is the GitHub REST API root.
	DefaultBaseURL = "https://api.github.com/"
	// UserAgent identifies this client on every request.
	UserAgent = "github-repos-cli"

	acceptHeader = "application/vnd.github+json"
	tokenType    = "token"
)

// RepoGateway defines the repository operations the application needs from GitHub.
type RepoGateway interface {
	AuthenticatedUser(ctx context.Context) (string, error)
	CreateRepo(ctx context.Context, in domain.CreateRepoInput) (domain.Repository, error)
	DeleteRepo(ctx context.Context, owner, name string) error
	ListRepos(ctx context.Context, visibility domain.Visibility, perPage, page int) ([]domain.Repository, error)
	GetRepo(ctx context.Context, owner, name string) (domain.Repository, error)
	UpdateRepo(ctx context.Context, owner, name string, update domain.RepoUpdate) (domain.Repository, error)
}

// GitHubGateway is the concrete implementation of RepoGateway.
type GitHubGateway struct {
	restClient *github.Client
	httpClient *http.Client
	logger     logrus.FieldLogger
}

var _ RepoGateway = (*GitHubGateway)(nil)

type options struct {
	baseURL string
}

// Option configures a GitHubGateway.
type Option func(*options)

// WithBaseURL points the gateway at another API root, e.g. a test server.
func WithBaseURL(rawURL string) Option {
	return func(o *options) { o.baseURL = rawURL }
}

// NewGitHubGateway creates a gateway that authenticates every request with token.
func NewGitHubGateway(token string, logger logrus.FieldLogger, opts ...Option) (*GitHubGateway, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}
	o := options{baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(&o)
	}

	// A zero sleep limit means the waiter never backs off; it only reports the limit.
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil,
		github_ratelimit.WithSingleSleepLimit(0, func(cbContext *github_ratelimit.CallbackContext) {
			entry := logger.WithFields(logrus.Fields{})
			if cbContext.Request != nil {
				entry = entry.WithField("url", cbContext.Request.URL.String())
			}
			if cbContext.SleepUntil != nil {
				entry = entry.WithField("reset", cbContext.SleepUntil.Format(time.RFC3339))
			}
			entry.Warn("GitHub secondary rate limit hit")
		}))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: tokenType})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}

	restClient := github.NewClient(httpClient)
	baseURL, err := parseBaseURL(o.baseURL)
	if err != nil {
		return nil, err
	}
	restClient.BaseURL = baseURL
	restClient.UserAgent = UserAgent

	return &GitHubGateway{
		restClient: restClient,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

func parseBaseURL(rawURL string) (*url.URL, error) {
	if !strings.HasSuffix(rawURL, "/") {
		rawURL += "/"
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", rawURL, err)
	}
	return u, nil
}

// do sends a single request. A status of 400 or above becomes an *APIError, 204 yields nil,
// and any other body is returned JSON-decoded or, failing that, as raw text.
func (g *GitHubGateway) do(ctx context.Context, method, path string, params, body any) (any, error) {
	urlStr := strings.TrimPrefix(path, "/")
	if params != nil {
		values, err := query.Values(params)
		if err != nil {
			return nil, fmt.Errorf("failed to encode query parameters: %w", err)
		}
		if encoded := values.Encode(); encoded != "" {
			urlStr += "?" + encoded
		}
	}

	req, err := g.restClient.NewRequest(method, urlStr, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", acceptHeader)
	req = req.WithContext(ctx)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	g.logger.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
		"status": resp.StatusCode,
	}).Debug("GitHub API call completed")

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Reason:     reasonPhrase(resp),
			Body:       decodeBody(data),
		}
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	return decodeBody(data), nil
}

// decodeBody parses data as a single JSON document, keeping numbers verbatim.
// Anything that is not exactly one JSON value is returned as text.
func decodeBody(data []byte) any {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return string(data)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return string(data)
	}
	return v
}

func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}

func repoPath(owner, name string) string {
	return fmt.Sprintf("/repos/%s/%s", url.PathEscape(owner), url.PathEscape(name))
}

func asRepository(v any) (domain.Repository, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected response: want a JSON object, got %T", v)
	}
	return domain.Repository(obj), nil
}

// AuthenticatedUser returns the login of the user owning the token.
func (g *GitHubGateway) AuthenticatedUser(ctx context.Context) (string, error) {
	data, err := g.do(ctx, http.MethodGet, "/user", nil, nil)
	if err != nil {
		return "", err
	}
	user, ok := data.(map[string]any)
	if !ok {
		return "", fmt.Errorf("unexpected response: want a JSON object, got %T", data)
	}
	login, _ := user["login"].(string)
	return login, nil
}

type createRepoRequest struct {
	Name        string `json:"name"`
	Private     bool   `json:"private"`
	Description string `json:"description"`
}

// CreateRepo creates a repository for the authenticated user, or inside in.Org when set.
func (g *GitHubGateway) CreateRepo(ctx context.Context, in domain.CreateRepoInput) (domain.Repository, error) {
	path := "/user/repos"
	if in.Org != "" {
		path = fmt.Sprintf("/orgs/%s/repos", url.PathEscape(in.Org))
	}
	body := &createRepoRequest{Name: in.Name, Private: in.Private, Description: in.Description}
	data, err := g.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return nil, err
	}
	return asRepository(data)
}

// DeleteRepo deletes owner/name.
func (g *GitHubGateway) DeleteRepo(ctx context.Context, owner, name string) error {
	_, err := g.do(ctx, http.MethodDelete, repoPath(owner, name), nil, nil)
	return err
}

type listReposOptions struct {
	Visibility domain.Visibility `url:"visibility,omitempty"`
	PerPage    int               `url:"per_page,omitempty"`
	Page       int               `url:"page,omitempty"`
}

// ListRepos fetches one page of the authenticated user's repositories in server order.
func (g *GitHubGateway) ListRepos(ctx context.Context, visibility domain.Visibility, perPage, page int) ([]domain.Repository, error) {
	params := &listReposOptions{Visibility: visibility, PerPage: perPage, Page: page}
	data, err := g.do(ctx, http.MethodGet, "/user/repos", params, nil)
	if err != nil {
		return nil, err
	}
	if text, ok := data.(string); data == nil || (ok && strings.TrimSpace(text) == "") {
		return []domain.Repository{}, nil
	}
	items, ok := data.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected response: want a JSON array, got %T", data)
	}
	repos := make([]domain.Repository, 0, len(items))
	for i, item := range items {
		repo, err := asRepository(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		repos = append(repos, repo)
	}
	return repos, nil
}

// GetRepo fetches the full representation of owner/name.
func (g *GitHubGateway) GetRepo(ctx context.Context, owner, name string) (domain.Repository, error) {
	data, err := g.do(ctx, http.MethodGet, repoPath(owner, name), nil, nil)
	if err != nil {
		return nil, err
	}
	return asRepository(data)
}

// UpdateRepo applies a partial update to owner/name and returns the updated repository.
func (g *GitHubGateway) UpdateRepo(ctx context.Context, owner, name string, update domain.RepoUpdate) (domain.Repository, error) {
	data, err := g.do(ctx, http.MethodPatch, repoPath(owner, name), nil, &update)
	if err != nil {
		return nil, err
	}
	return asRepository(data)
}
