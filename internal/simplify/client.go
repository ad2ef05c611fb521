package simplify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client fetches a user's tracked applications from the Simplify API.
// All requests authenticate with the raw cookie string the user captured
// from their browser session.
type Client struct {
	client    *http.Client
	baseURL   string
	pageSize  int
	userAgent string
}

// NewClient creates a Simplify API client
func NewClient(baseURL string, pageSize int, userAgent string) *Client {
	if pageSize <= 0 {
		pageSize = 500
	}
	return &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:   strings.TrimRight(baseURL, "/"),
		pageSize:  pageSize,
		userAgent: userAgent,
	}
}

// trackerPage mirrors the paginated tracker response
type trackerPage struct {
	Items []json.RawMessage `json:"items"`
	Pages int               `json:"pages"`
	Page  int               `json:"page"`
	Total int               `json:"total"`
}

// FetchTracker downloads every page of the user's tracker and returns the
// raw item objects in page order.
func (c *Client) FetchTracker(ctx context.Context, cookie string) ([]json.RawMessage, error) {
	var items []json.RawMessage

	// Pages are zero-based; the first response reports the total page count.
	page, pages := 0, 1
	for page < pages {
		result, err := c.fetchPage(ctx, cookie, page)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", page, err)
		}

		items = append(items, result.Items...)

		if page == 0 && result.Pages > 0 {
			pages = result.Pages
		}
		page++
	}

	return items, nil
}

func (c *Client) fetchPage(ctx context.Context, cookie string, page int) (*trackerPage, error) {
	reqURL := fmt.Sprintf("%s/candidate/me/tracker/?value=&archived=false&page=%d&size=%d",
		c.baseURL, page, c.pageSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	c.setHeaders(req, cookie)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrCookieExpired
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var result trackerPage
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	return &result, nil
}

func (c *Client) setHeaders(req *http.Request, cookie string) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cookie", cookie)
	req.Header.Set("Referer", "https://simplify.jobs/")
	req.Header.Set("Origin", "https://simplify.jobs")

	// The API requires the CSRF token from the session cookie to be echoed
	// back as a header.
	if token := csrfFromCookie(cookie); token != "" {
		req.Header.Set("x-csrf-token", token)
	}
}

// csrfFromCookie pulls the value of the "csrf" cookie out of a raw
// Cookie header string.
func csrfFromCookie(cookie string) string {
	for _, part := range strings.Split(cookie, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		if name == "csrf" {
			if decoded, err := url.QueryUnescape(value); err == nil {
				return decoded
			}
			return value
		}
	}
	return ""
}
