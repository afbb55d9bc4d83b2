package github

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/elliotbe/gitinit/internal/errors"
	"github.com/elliotbe/gitinit/internal/logger"
	"github.com/sethvargo/go-retry"
)

// UserAgent is sent with every API request.
const UserAgent = "gitinit"

// Retry settings for transient API failures.
const (
	retryBase  = 500 * time.Millisecond
	maxRetries = 2
)

// Repository is the subset of a GitHub repository the CLI uses.
type Repository struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	HTMLURL  string `json:"html_url"`
	SSHURL   string `json:"ssh_url"`
	CloneURL string `json:"clone_url"`
	Private  bool   `json:"private"`
	Owner    User   `json:"owner"`
}

// User is a GitHub account.
type User struct {
	Login string `json:"login"`
}

// RepoRequest is the body of POST /user/repos.
type RepoRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Private     bool   `json:"private"`
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("GitHub API returned %d", e.Status)
	}
	return fmt.Sprintf("GitHub API returned %d: %s", e.Status, e.Message)
}

// Client talks to the GitHub REST API with a user token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	backoff func() retry.Backoff
	log     logger.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithBackoff replaces the retry policy.
func WithBackoff(fn func() retry.Backoff) ClientOption {
	return func(c *Client) { c.backoff = fn }
}

// WithClientLogger sets the logger.
func WithClientLogger(l logger.Logger) ClientOption {
	return func(c *Client) { c.log = l }
}

// NewClient returns a client for the API at baseURL.
func NewClient(baseURL, token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(maxRetries, retry.NewExponential(retryBase))
		},
		log: logger.Noop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CurrentUser returns the account the token belongs to. A 401 means the
// stored token was revoked.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/user", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateRepo creates a repository owned by the authenticated user.
func (c *Client) CreateRepo(ctx context.Context, req RepoRequest) (*Repository, error) {
	var repo Repository
	if err := c.do(ctx, http.MethodPost, "/user/repos", req, &repo); err != nil {
		return nil, err
	}
	if repo.SSHURL == "" && repo.CloneURL == "" {
		return nil, errors.New(errors.ErrAPI,
			"GitHub didn't return the new repository's URLs",
			"Check the repository on github.com before trying again")
	}
	return &repo, nil
}

// DeleteRepo removes owner/name. Used to undo CreateRepo when a later step
// fails; it needs the delete_repo scope, so a 403 is reported, not retried.
func (c *Client) DeleteRepo(ctx context.Context, owner, name string) error {
	path := "/repos/" + url.PathEscape(owner) + "/" + url.PathEscape(name)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return errors.WrapWithCode(err, errors.ErrAPI, "Couldn't encode the request", "")
		}
	}

	attempt := 0
	err := retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		attempt++
		c.log.Debug("%s %s (attempt %d)", method, path, attempt)

		err := c.send(ctx, method, path, payload, out)
		var apiErr *APIError
		switch {
		case err == nil:
			return nil
		case stderrors.As(err, &apiErr) && apiErr.Status < 500:
			return err
		case ctx.Err() != nil:
			return ctx.Err()
		default:
			return retry.RetryableError(err)
		}
	})
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusUnauthorized:
			return errors.WrapWithCode(err, errors.ErrAuth,
				"GitHub rejected the stored token",
				"Run gitinit --logout to sign in again")
		case http.StatusForbidden, http.StatusNotFound:
			if method == http.MethodDelete {
				return errors.WrapWithCode(err, errors.ErrAPI,
					"Couldn't delete the GitHub repository",
					"Delete it from the repository settings page")
			}
		}
		return errors.WrapWithCode(err, errors.ErrAPI,
			fmt.Sprintf("GitHub request %s %s failed", method, path),
			apiSuggestion(apiErr))
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return errors.WrapWithCode(err, errors.ErrAPI,
		"Couldn't reach GitHub",
		"Check your network connection and try again")
}

func apiSuggestion(e *APIError) string {
	if e.Status == http.StatusUnprocessableEntity {
		return "A repository with that name may already exist on your account"
	}
	return ""
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(data, &msg)
		return &APIError{Status: resp.StatusCode, Message: msg.Message}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{Status: resp.StatusCode, Message: "unreadable response: " + err.Error()}
	}
	return nil
}
