// Package github checks GitHub releases for a newer version of the application.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// Errors
var (
	ErrNetwork          = errors.New("could not connect to update server")
	ErrUnexpectedStatus = errors.New("unexpected response from update server")
)

// Config represents update checker configuration.
type Config struct {
	Repo    string        // owner/repo
	BaseURL string        // API base URL (https://api.github.com when empty)
	Timeout time.Duration // Request timeout (5s when zero)
	Token   string        // Optional token to raise the API rate limit
}

// Client is a GitHub releases client.
type Client struct {
	repo       string
	baseURL    string
	token      string
	httpClient *http.Client
}

// Release is the subset of the latest-release payload that is used.
type Release struct {
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
	HTMLURL string `json:"html_url"`
}

// Result is the outcome of an update check.
type Result struct {
	Current         string
	Latest          string
	URL             string
	UpdateAvailable bool
}

// New creates a new GitHub releases client.
func New(cfg Config) (*Client, error) {
	if cfg.Repo == "" || !strings.Contains(cfg.Repo, "/") {
		return nil, errors.Newf("repository must be owner/name, got %q", cfg.Repo)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		repo:       cfg.Repo,
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// LatestRelease fetches the latest published release.
// Reference: https://docs.github.com/en/rest/releases/releases#get-the-latest-release
func (c *Client) LatestRelease(ctx context.Context) (*Release, error) {
	reqURL := fmt.Sprintf("%s/repos/%s/releases/latest", c.baseURL, c.repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to send request"), ErrNetwork)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, errors.Mark(errors.Newf("GET %s: status %d", reqURL, resp.StatusCode), ErrUnexpectedStatus)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, errors.Wrap(err, "failed to parse response")
	}
	return &release, nil
}

// Check compares the latest release with the running version.
func (c *Client) Check(ctx context.Context, current string) (*Result, error) {
	release, err := c.LatestRelease(ctx)
	if err != nil {
		return nil, err
	}

	latest := strings.TrimLeft(release.TagName, "v")
	result := &Result{
		Current:         current,
		Latest:          latest,
		URL:             release.HTMLURL,
		UpdateAvailable: latest != "" && latest != strings.TrimLeft(current, "v"),
	}
	zlog.Debug().Msgf("github: update check: current=%s latest=%s available=%v", current, latest, result.UpdateAvailable)
	return result, nil
}
