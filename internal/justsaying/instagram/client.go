// Package instagram provides a minimal client for the Instagram Graph API content publishing flow.
package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"microsites/internal/config"
)

// ErrNoCreationID is returned when the media endpoint answers 200 without an id.
var ErrNoCreationID = errors.New("no creation_id in response")

// StatusError is a non-200 answer from the Graph API.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed: %d %s", e.Op, e.Status, e.Body)
}

// Client posts to one Instagram business account.
type Client struct {
	BaseURL string
	UserID  string
	Token   string
	HTTP    *http.Client

	limiter *rate.Limiter
}

// New returns a client for cfg. If httpClient is nil, one with cfg.Timeout is used.
func New(cfg config.InstagramConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if cfg.APIVersion != "" {
		base += "/" + cfg.APIVersion
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RateLimit > 0 {
		// requests per minute -> per second
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RateLimit)/60), 1)
	}
	return &Client{BaseURL: base, UserID: cfg.UserID, Token: cfg.PageToken, HTTP: httpClient, limiter: limiter}
}

// CreateMedia creates a media container for imageURL and returns its creation id.
func (c *Client) CreateMedia(ctx context.Context, imageURL, caption string) (string, error) {
	form := url.Values{}
	form.Set("image_url", imageURL)
	form.Set("caption", caption)
	form.Set("access_token", c.Token)

	body, err := c.post(ctx, "create media", "media", form)
	if err != nil {
		return "", err
	}
	id := idOf(body)
	if id == "" {
		return "", fmt.Errorf("%w: %s", ErrNoCreationID, body)
	}
	return id, nil
}

// Publish publishes a container created by CreateMedia and returns the media id.
func (c *Client) Publish(ctx context.Context, creationID string) (string, error) {
	form := url.Values{}
	form.Set("creation_id", creationID)
	form.Set("access_token", c.Token)

	body, err := c.post(ctx, "publish", "media_publish", form)
	if err != nil {
		return "", err
	}
	return idOf(body), nil
}

func (c *Client) post(ctx context.Context, op, edge string, form url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: rate limiter: %w", op, err)
	}
	reqURL := fmt.Sprintf("%s/%s/%s", c.BaseURL, url.PathEscape(c.UserID), edge)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Op: op, Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// idOf tolerates numeric ids as well as strings.
func idOf(body []byte) string {
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		return ""
	}
	switch v := m["id"].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	}
	return ""
}
