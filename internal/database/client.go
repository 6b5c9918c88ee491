// Package database provides the Supabase PostgREST integration backing
// the storefront: developer accounts and app translations.
package database

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"os"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/zenhub-store/devportal/internal/httputil"
)

// Config holds Supabase connection settings.
type Config struct {
	URL        string
	ServiceKey string
	Timeout    time.Duration
}

// Client wraps the Supabase REST API.
type Client struct {
	url        string
	serviceKey string
	httpClient *http.Client
}

const (
	maxResponseBytes  = 8 << 20  // 8 MiB
	maxErrorBodyBytes = 32 << 10 // 32 KiB
)

// APIError is a non-2xx response from Supabase.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("supabase API error %d: %s", e.Status, e.Message)
}

// NewClient creates a Supabase client. URL and key fall back to the
// SUPABASE_URL and SUPABASE_SERVICE_KEY environment variables.
func NewClient(cfg Config) (*Client, error) {
	url := cfg.URL
	if url == "" {
		url = os.Getenv("SUPABASE_URL")
	}
	if url == "" {
		return nil, fmt.Errorf("SUPABASE_URL is required")
	}

	key := cfg.ServiceKey
	if key == "" {
		key = os.Getenv("SUPABASE_SERVICE_KEY")
	}
	if key == "" {
		return nil, fmt.Errorf("SUPABASE_SERVICE_KEY is required")
	}

	if parsed, err := neturl.Parse(url); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("SUPABASE_URL must be a valid URL")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	transport := http.DefaultTransport
	if base, ok := http.DefaultTransport.(*http.Transport); ok {
		cloned := base.Clone()
		if cloned.TLSClientConfig == nil {
			cloned.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		} else if cloned.TLSClientConfig.MinVersion < tls.VersionTLS12 {
			cloned.TLSClientConfig = cloned.TLSClientConfig.Clone()
			cloned.TLSClientConfig.MinVersion = tls.VersionTLS12
		}
		transport = cloned
	}

	return &Client{
		url:        strings.TrimRight(url, "/"),
		serviceKey: key,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}, nil
}

// Select performs a GET on a table with an already-encoded query string.
func (c *Client) Select(ctx context.Context, table, query string) ([]byte, error) {
	return c.request(ctx, http.MethodGet, table, nil, query)
}

// Insert performs a POST insert into a table.
func (c *Client) Insert(ctx context.Context, table string, body any) ([]byte, error) {
	return c.request(ctx, http.MethodPost, table, body, "")
}

// request makes an HTTP request to the Supabase REST API.
func (c *Client) request(ctx context.Context, method, table string, body any, query string) ([]byte, error) {
	url := fmt.Sprintf("%s/rest/v1/%s", c.url, neturl.PathEscape(table))
	if query != "" {
		url += "?" + query
	}

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, truncated, readErr := httputil.ReadAllWithLimit(resp.Body, maxErrorBodyBytes)
		if readErr != nil {
			return nil, fmt.Errorf("read error response: %w", readErr)
		}
		msg := errorMessage(respBody)
		if truncated {
			msg += "...(truncated)"
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}

	respBody, err := httputil.ReadAllStrict(resp.Body, maxResponseBytes)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return respBody, nil
}

// errorMessage extracts the PostgREST "message" field when present,
// otherwise returns the raw body.
func errorMessage(body []byte) string {
	if msg := gjson.GetBytes(body, "message"); msg.Exists() && msg.String() != "" {
		return msg.String()
	}
	return strings.TrimSpace(string(body))
}
