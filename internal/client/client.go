// Package client is a typed HTTP client for the leaderboard API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/atinyakov/leaderboard/internal/models"
)

var (
	// ErrNotFound is returned by Verify for an unknown hash.
	ErrNotFound = errors.New("hash not found")
	// ErrUnauthorized is returned by Reset for a wrong password.
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is any non-2xx response not mapped to a sentinel error.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// Client talks to a leaderboard server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for baseURL. A nil httpClient gets a 10s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Submit posts a score and returns its receipt hash.
func (c *Client) Submit(ctx context.Context, name string, score int64) (string, error) {
	var out struct {
		Hash string `json:"hash"`
	}
	req := map[string]any{"name": name, "score": score}
	if err := c.do(ctx, http.MethodPost, "/api/scores", req, &out); err != nil {
		return "", err
	}
	return out.Hash, nil
}

// Top returns the current top scores.
func (c *Client) Top(ctx context.Context) ([]models.RankedScore, error) {
	var out []models.RankedScore
	if err := c.do(ctx, http.MethodGet, "/api/scores", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Verify looks up the submission behind hash.
func (c *Client) Verify(ctx context.Context, hash string) (models.ScoreRecord, error) {
	var out models.ScoreRecord
	err := c.do(ctx, http.MethodGet, "/api/verify/"+url.PathEscape(hash), nil, &out)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return models.ScoreRecord{}, ErrNotFound
	}
	return out, err
}

// Reset wipes the leaderboard.
func (c *Client) Reset(ctx context.Context, password string) error {
	err := c.do(ctx, http.MethodPost, "/api/reset-leaderboard", map[string]string{"password": password}, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return err
}

// CheckName runs the advisory profanity check.
func (c *Client) CheckName(ctx context.Context, name string) (models.CheckResult, string, error) {
	var out struct {
		Result  models.CheckResult `json:"result"`
		Message string             `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/check-profanity", map[string]string{"name": name}, &out); err != nil {
		return "", "", err
	}
	return out.Result, out.Message, nil
}

// Health calls the load balancer probe.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var e struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
