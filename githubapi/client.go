// Package githubapi is a minimal GitHub REST client covering the four
// operations the bot needs: repo-from-template, file get/upsert and
// workflow dispatch. Methods take the session token explicitly; the bot
// never stores tokens outside a user session.
package githubapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.github.com"
const maxErrorBodyBytes = 2048

var (
	// ErrNotFound means the repository, template or file does not exist.
	ErrNotFound = errors.New("github: not found")
	// ErrUnauthorized means the token was rejected or lacks scope.
	ErrUnauthorized = errors.New("github: unauthorized or insufficient scope")
)

// Client talks to the GitHub REST API v3.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client against api.github.com.
func NewClient() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// NewClientWithBaseURL creates a client against a custom endpoint.
// Used by tests with httptest servers.
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Repo is the subset of the repository descriptor the bot cares about.
type Repo struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	HTMLURL  string `json:"html_url"`
}

// EnsureRepoFromTemplate returns the repository {owner}/{repo}, creating it
// from {tmplOwner}/{tmplRepo} when it does not exist yet. Idempotent: an
// existing repository is returned as-is.
func (c *Client) EnsureRepoFromTemplate(ctx context.Context, token, owner, repo, tmplOwner, tmplRepo string) (Repo, error) {
	var out Repo
	status, err := c.doJSON(ctx, token, http.MethodGet,
		fmt.Sprintf("/repos/%s/%s", owner, repo), nil, &out)
	if err == nil && status == http.StatusOK {
		return out, nil
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Repo{}, fmt.Errorf("inspect repo %s/%s: %w", owner, repo, err)
	}

	payload := map[string]any{
		"owner":   owner,
		"name":    repo,
		"private": false,
	}
	status, err = c.doJSON(ctx, token, http.MethodPost,
		fmt.Sprintf("/repos/%s/%s/generate", tmplOwner, tmplRepo), payload, &out)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Repo{}, fmt.Errorf("template %s/%s: %w", tmplOwner, tmplRepo, err)
		}
		return Repo{}, fmt.Errorf("create repo from template: %w", err)
	}
	if status != http.StatusCreated && status != http.StatusAccepted {
		return Repo{}, fmt.Errorf("create repo from template: unexpected status %d", status)
	}
	return out, nil
}

type contentsResponse struct {
	SHA     string `json:"sha"`
	Content string `json:"content"`
}

// GetFile fetches a file from the default branch via the contents API.
func (c *Client) GetFile(ctx context.Context, token, owner, repo, path string) ([]byte, error) {
	var out contentsResponse
	_, err := c.doJSON(ctx, token, http.MethodGet, contentsPath(owner, repo, path), nil, &out)
	if err != nil {
		return nil, err
	}
	// The contents API wraps base64 at 60 columns.
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(out.Content, "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return raw, nil
}

// UpsertFile creates or updates a file on the main branch. The existing SHA,
// when present, is threaded through so GitHub accepts the update.
func (c *Client) UpsertFile(ctx context.Context, token, owner, repo, path string, content []byte, message string) error {
	sha, err := c.fileSHA(ctx, token, owner, repo, path)
	if err != nil {
		return err
	}
	payload := map[string]any{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(content),
		"branch":  "main",
	}
	if sha != "" {
		payload["sha"] = sha
	}
	status, err := c.doJSON(ctx, token, http.MethodPut, contentsPath(owner, repo, path), payload, nil)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", path, err)
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return fmt.Errorf("upsert %s: unexpected status %d", path, status)
	}
	return nil
}

func (c *Client) fileSHA(ctx context.Context, token, owner, repo, path string) (string, error) {
	var out contentsResponse
	_, err := c.doJSON(ctx, token, http.MethodGet, contentsPath(owner, repo, path), nil, &out)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("inspect %s: %w", path, err)
	}
	return out.SHA, nil
}

func contentsPath(owner, repo, path string) string {
	return fmt.Sprintf("/repos/%s/%s/contents/%s", owner, repo, path)
}

// doJSON performs one API call. A nil out skips response decoding. Error
// statuses are classified into the sentinel errors with the response body
// attached, so the dialog layer can surface it verbatim.
func (c *Client) doJSON(ctx context.Context, token, method, path string, payload, out any) (int, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "token "+token)
	req.Header.Set("Accept", "application/vnd.github+json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return resp.StatusCode, fmt.Errorf("%w: %s", ErrUnauthorized, errorBody(resp))
	case resp.StatusCode == http.StatusNotFound:
		return resp.StatusCode, ErrNotFound
	case resp.StatusCode >= 400:
		return resp.StatusCode, fmt.Errorf("github: %s: %s", resp.Status, errorBody(resp))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func errorBody(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	return strings.TrimSpace(string(raw))
}
