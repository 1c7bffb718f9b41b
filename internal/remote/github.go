package remote

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/asteroid-belt/solvesync/pkg/version"
)

// DefaultRateLimit is requests per minute against the GitHub API.
const DefaultRateLimit = 30

// GitHubOptions configures a GitHubStore.
type GitHubOptions struct {
	// RateLimit is requests per minute (DefaultRateLimit when <= 0).
	RateLimit int
	// BaseURL overrides the API endpoint, e.g. for GitHub Enterprise or tests.
	BaseURL string
}

// GitHubStore implements Store with the GitHub repository contents API.
// The blob SHA of a file is its version token.
type GitHubStore struct {
	rest    *github.Client
	owner   string
	repo    string
	limiter *rate.Limiter
}

// NewGitHubStore creates a store for owner/repo authenticated with token.
func NewGitHubStore(token, owner, repo string, opts GitHubOptions) (*GitHubStore, error) {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	rateLimit := opts.RateLimit
	if rateLimit <= 0 {
		rateLimit = DefaultRateLimit
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(rateLimit)), rateLimit)

	client := github.NewClient(httpClient)
	client.UserAgent = version.UserAgent()
	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parse base url: %w", err)
		}
		client.BaseURL = u
	}

	return &GitHubStore{
		rest:    client,
		owner:   owner,
		repo:    repo,
		limiter: limiter,
	}, nil
}

// GetFile fetches a file's content and blob SHA on branch.
func (s *GitHubStore) GetFile(ctx context.Context, path, branch string) (*File, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	opts := &github.RepositoryContentGetOptions{Ref: branch}
	fileContent, dirContent, resp, err := s.rest.Repositories.GetContents(ctx, s.owner, s.repo, path, opts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, s.translate(path, err)
	}
	s.noteRate(resp)

	if fileContent == nil || dirContent != nil {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	content, err := fileContent.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}

	return &File{
		Path:         path,
		VersionToken: fileContent.GetSHA(),
		Content:      []byte(content),
	}, nil
}

// PutFile creates or updates a file. The content is sent base64-encoded.
func (s *GitHubStore) PutFile(ctx context.Context, req PutRequest) (string, error) {
	if err := s.wait(ctx); err != nil {
		return "", err
	}

	opts := &github.RepositoryContentFileOptions{
		Message: github.String(req.Message),
		Content: req.Content,
		Branch:  github.String(req.Branch),
	}

	var (
		result *github.RepositoryContentResponse
		resp   *github.Response
		err    error
	)
	if req.VersionToken == "" {
		result, resp, err = s.rest.Repositories.CreateFile(ctx, s.owner, s.repo, req.Path, opts)
	} else {
		opts.SHA = github.String(req.VersionToken)
		result, resp, err = s.rest.Repositories.UpdateFile(ctx, s.owner, s.repo, req.Path, opts)
	}
	if err != nil {
		return "", s.translate(req.Path, err)
	}
	s.noteRate(resp)

	if result == nil || result.Content == nil {
		return "", nil
	}
	return result.Content.GetSHA(), nil
}

// CheckAccess verifies that the repository is visible with the token.
func (s *GitHubStore) CheckAccess(ctx context.Context) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	_, resp, err := s.rest.Repositories.Get(ctx, s.owner, s.repo)
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return fmt.Errorf("credential rejected for %s/%s: %w", s.owner, s.repo, s.translate("", err))
		}
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("repository %s/%s not found or not accessible", s.owner, s.repo)
		}
		return s.translate("", err)
	}
	return nil
}

func (s *GitHubStore) wait(ctx context.Context) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}

func (s *GitHubStore) noteRate(resp *github.Response) {
	if resp != nil && resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		log.Printf("github: rate limit low: %d remaining", resp.Rate.Remaining)
	}
}

// translate maps go-github errors onto the Store error taxonomy.
func (s *GitHubStore) translate(path string, err error) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &HTTPError{StatusCode: statusOf(rateErr.Response), Body: rateErr.Message}
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &HTTPError{StatusCode: statusOf(abuseErr.Response), Body: abuseErr.Message}
	}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		status := statusOf(ghErr.Response)
		switch {
		case status == http.StatusConflict:
			return &ConflictError{Path: path, Err: err}
		case status == http.StatusUnprocessableEntity && strings.Contains(strings.ToLower(ghErr.Message), "sha"):
			return &ConflictError{Path: path, Err: err}
		}
		return &HTTPError{StatusCode: status, Body: ghErr.Message}
	}

	return err
}

func statusOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}
