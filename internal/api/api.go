// Package api provides functions for interacting with the verisite backend API.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tkarls/verisite/internal/logging"
	"github.com/tkarls/verisite/internal/sites"
	"github.com/tkarls/verisite/internal/submission"
	"github.com/tkarls/verisite/internal/verify"
)

const (
	defaultBaseURL = "http://localhost:8080"
	defaultTimeout = 10 * time.Second
	defaultVersion = "dev"
)

// Client encapsulates the HTTP client for interacting with the backend API
type Client struct {
	httpClient *http.Client
	baseURL    string
	version    string
	logLevel   logging.LogLevel
}

// ClientOption is a function that configures a Client
type ClientOption func(*Client)

// WithBaseURL sets a custom API base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout sets a custom timeout for HTTP requests
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithVersion sets the version string for the User-Agent header
func WithVersion(version string) ClientOption {
	return func(c *Client) {
		c.version = version
	}
}

// WithLogLevel sets the log level for the client
func WithLogLevel(logLevel logging.LogLevel) ClientOption {
	return func(c *Client) {
		c.logLevel = logLevel
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new API client with the given options
func NewClient(opts ...ClientOption) *Client {
	client := &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL:  defaultBaseURL,
		version:  defaultVersion,
		logLevel: logging.LogLevelError,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Error represents a structured error from the API client
type Error struct {
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("API error: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// GetLocations fetches the list of selectable locations from the backend.
// A single attempt is made: callers that treat the backend as optional are
// expected to discard the error.
func (c *Client) GetLocations(ctx context.Context) ([]sites.Location, error) {
	var locations []sites.Location
	if err := c.getJSON(ctx, "/api/locations", &locations); err != nil {
		return nil, err
	}

	if c.logLevel <= logging.LogLevelInfo {
		log.Printf("Fetched %d locations", len(locations))
	}
	return locations, nil
}

// GetVerificationResult fetches the verification result for a submission.
func (c *Client) GetVerificationResult(ctx context.Context, submissionID string) (*verify.Result, error) {
	var result verify.Result
	path := fmt.Sprintf("/api/submissions/%s/result", url.PathEscape(submissionID))
	if err := c.getJSON(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetSubmissionProgress fetches the current progress of a submission.
func (c *Client) GetSubmissionProgress(ctx context.Context, submissionID string) (*submission.Progress, error) {
	var progress submission.Progress
	path := fmt.Sprintf("/api/submissions/%s/progress", url.PathEscape(submissionID))
	if err := c.getJSON(ctx, path, &progress); err != nil {
		return nil, err
	}
	return &progress, nil
}

// getJSON performs a single GET request and decodes the JSON response into out
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	requestURL := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		if c.logLevel <= logging.LogLevelError {
			log.Printf("Failed to create HTTP request: %v", err)
		}
		return &Error{Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("User-Agent", fmt.Sprintf("verisite/%s", c.version))

	if c.logLevel <= logging.LogLevelDebug {
		log.Printf("Sending GET request to %s", requestURL)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.logLevel <= logging.LogLevelDebug {
			log.Printf("HTTP request failed: %v", err)
		}
		return fmt.Errorf("request to %s failed: %w", requestURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if c.logLevel <= logging.LogLevelDebug {
		log.Printf("Received HTTP %d response from %s", resp.StatusCode, requestURL)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &Error{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status code %d", resp.StatusCode),
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		return &Error{
			Err: fmt.Errorf("unexpected content-type: %s (expected application/json)", contentType),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{
			Err: fmt.Errorf("failed to parse API response: %w", err),
		}
	}

	return nil
}
