// Package github looks up published releases for the upgrade command.
package github

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/carlmjohnson/requests"
	go_json "github.com/goccy/go-json"

	"github.com/garrettladley/ksclock/internal/xhttp"
)

const (
	defaultBaseURL = "https://api.github.com"
	defaultTimeout = 10 * time.Second

	acceptGitHubJSON = "application/vnd.github+json"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) { client.httpClient = c }
}

func WithBaseURL(url string) Option {
	return func(client *Client) { client.baseURL = url }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: xhttp.NewHTTPClient(xhttp.WithTimeout(defaultTimeout)),
		baseURL:    defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

func (c *Client) GetLatestRelease(ctx context.Context, owner, repo string) (*Release, error) {
	var release Release
	err := requests.
		URL(c.baseURL).
		Pathf("/repos/%s/%s/releases/latest", owner, repo).
		Accept(acceptGitHubJSON).
		Client(c.httpClient).
		Handle(func(resp *http.Response) error {
			return go_json.NewDecoder(resp.Body).Decode(&release)
		}).
		Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest release of %s/%s: %w", owner, repo, err)
	}
	return &release, nil
}
