// Package news fetches articles from the hosted CMS document API. The CMS is
// read-only from this service's point of view; editors publish through the
// CMS console.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gazebo-web/gz-go/v7"
	"github.com/pkg/errors"
)

// Block is one body block of an article. The CMS emits a small set of block
// types (paragraph, heading, image) and the frontend renders them directly.
type Block struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Article is a single CMS document.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Tags        []string  `json:"tags"`
	PublishedAt time.Time `json:"published_at"`
	Body        []Block   `json:"body,omitempty"`
}

// Articles is a paginated list of CMS documents.
type Articles struct {
	Items []Article `json:"items"`
	Total int       `json:"total"`
}

// Client talks to the CMS document API.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient builds a Client from environment variables. The returned client
// is nil when no CMS endpoint is configured, in which case the news routes
// are disabled.
func NewClient() *Client {
	baseURL, err := gz.ReadEnvVar("NEWS_CMS_URL")
	if err != nil || baseURL == "" {
		return nil
	}
	// The API key is optional; public CMS repositories don't need one.
	apiKey, _ := gz.ReadEnvVar("NEWS_CMS_API_KEY")
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// List returns published articles, newest first.
func (c *Client) List(ctx context.Context, page, perPage int) (*Articles, error) {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("per_page", fmt.Sprint(perPage))
	q.Set("order", "-published_at")

	var arts Articles
	if err := c.get(ctx, "/documents?"+q.Encode(), &arts); err != nil {
		return nil, err
	}
	return &arts, nil
}

// Get returns a single article with its body blocks.
func (c *Client) Get(ctx context.Context, id string) (*Article, error) {
	var art Article
	if err := c.get(ctx, "/documents/"+url.PathEscape(id), &art); err != nil {
		return nil, err
	}
	return &art, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "cms request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrArticleNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("cms error (status %d)", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "failed to parse cms response")
	}
	return nil
}

// ErrArticleNotFound is returned when the CMS has no document with the
// requested id.
var ErrArticleNotFound = errors.New("article not found")
