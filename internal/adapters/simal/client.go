package simal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/modelfactory/mes/internal/domain/scheduling"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultRequests = 5
	defaultBurst    = 10

	schedulesPath = "/simal/schedules"
)

// Client talks to the SimAL scheduling service over HTTP JSON. It owns
// transport concerns only; retries and error translation live in the
// scheduler adapter above it.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
}

// NewClient creates a SimAL client with default rate limiting
func NewClient(baseURL string) *Client {
	return NewClientWithConfig(baseURL, defaultTimeout, defaultRequests, defaultBurst)
}

// NewClientWithConfig creates a SimAL client with explicit transport settings
func NewClientWithConfig(baseURL string, timeout time.Duration, requestsPerSecond, burst int) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

// CreateSchedule submits a schedule request and decodes the engine's answer
func (c *Client) CreateSchedule(ctx context.Context, req scheduling.ScheduleRequest) (*scheduling.Schedule, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schedule request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+schedulesPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build schedule request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call scheduling service: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read scheduling response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &scheduling.ErrBackend{
			StatusCode: resp.StatusCode,
			Reason:     backendReason(respBody),
		}
	}

	var schedule scheduling.Schedule
	if err := json.Unmarshal(respBody, &schedule); err != nil {
		return nil, fmt.Errorf("failed to decode schedule: %w", err)
	}
	return &schedule, nil
}

// backendReason extracts a human-readable reason from an error body. SimAL
// answers {"message": "..."} on failure; anything else is passed through raw.
func backendReason(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	reason := strings.TrimSpace(string(body))
	if reason == "" {
		return "scheduling service returned no detail"
	}
	return reason
}
