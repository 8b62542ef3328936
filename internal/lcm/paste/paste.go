// Package paste shares profile blobs through a paste-bin service.
package paste

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/OpenGG/league-config-manager/internal/lcm/domain"
)

const (
	// DefaultURL is the paste-bin create endpoint.
	DefaultURL = "https://dpaste.com/api/"
	// UserAgent identifies lcm to the paste service.
	UserAgent = "League Config Manager - Settings manager for League of Legends"

	maxBody = 4 << 20
)

// ErrNoLocation is returned when the service does not report the paste link.
var ErrNoLocation = errors.New("paste service returned no link")

// Client creates and fetches pastes.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *slog.Logger
}

// New creates a Client posting to endpoint. An empty endpoint uses DefaultURL.
func New(endpoint string, logger *slog.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultURL
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
	}
}

// Create uploads content and returns the shareable link.
func (c *Client) Create(ctx context.Context, content string) (string, error) {
	form := url.Values{"content": {content}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("create paste: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return "", fmt.Errorf("create paste: %w", err)
	}

	link := strings.TrimSpace(resp.Header.Get("Location"))
	if link == "" {
		return "", ErrNoLocation
	}
	c.logger.Info("paste created", "link", link)
	return link, nil
}

// Fetch downloads the raw content behind a link returned by Create.
func (c *Client) Fetch(ctx context.Context, link string) (string, error) {
	link = strings.TrimSuffix(strings.TrimSpace(link), "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link+".txt", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch paste: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return "", fmt.Errorf("fetch paste: %w", err)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return "", fmt.Errorf("read paste: %w", err)
	}
	if len(body) > maxBody {
		return "", fmt.Errorf("%w: paste is larger than %d bytes", domain.ErrImport, maxBody)
	}
	c.logger.Info("paste fetched", "link", link, "bytes", len(body))
	return string(body), nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return fmt.Errorf("unexpected status %s", resp.Status)
}
