package controlit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/username/attendance-bot/pkg/dateutil"
	"go.uber.org/zap"
)

const (
	defaultTimeout = 30 * time.Second

	// DefaultEventTypeID identifies a manual clock-in/clock-out event
	DefaultEventTypeID = "d8cc9d74-ef29-4267-906b-24fda81e87ec"

	authenticatePath   = "/api/authenticate"
	latestEventPath    = "/api/events/latest"
	manualRegisterPath = "/api/events/manual-register"
)

// Client talks to the attendance service. It performs exactly one HTTP
// attempt per call; retry policy belongs to the caller.
type Client struct {
	baseURL     string
	eventTypeID string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient creates an attendance API client
func NewClient(baseURL, eventTypeID string, timeout time.Duration, logger *zap.Logger) *Client {
	if eventTypeID == "" {
		eventTypeID = DefaultEventTypeID
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:     baseURL,
		eventTypeID: eventTypeID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Login authenticates with username and password and returns the session
// token used by every subsequent call. Any failure here is fatal for the
// whole run: without a token no day can be registered.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	req := LoginRequest{
		Username: username,
		Password: password,
	}

	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, authenticatePath, "", req, &resp); err != nil {
		return "", fmt.Errorf("login failed: %w", err)
	}

	if resp.User.AccessToken == "" {
		return "", fmt.Errorf("login succeeded but no access token returned")
	}

	c.logger.Info("Logged in", zap.String("username", username))

	return resp.User.AccessToken, nil
}

// LatestEventDate returns the calendar date of the most recent registered
// attendance event, used to seed a default start date.
func (c *Client) LatestEventDate(ctx context.Context, token string) (time.Time, error) {
	var resp EventHistoryResponse
	if err := c.do(ctx, http.MethodGet, latestEventPath, token, nil, &resp); err != nil {
		return time.Time{}, fmt.Errorf("failed to fetch latest event: %w", err)
	}

	if len(resp.EventHistory) == 0 {
		return time.Time{}, fmt.Errorf("no registered events found")
	}

	start, err := dateutil.ParseAPITimestamp(resp.EventHistory[0].StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse latest event date: %w", err)
	}

	date := dateutil.StartOfDay(start.In(time.Local))

	c.logger.Info("Latest registered event",
		zap.String("date", date.Format("2006-01-02")))

	return date, nil
}

// Register submits one clock-in/clock-out pair. Exactly one remote
// attempt per invocation.
func (c *Client) Register(ctx context.Context, token string, start, end time.Time) error {
	req := RegisterRequest{
		EventTypeID: c.eventTypeID,
		StartDate:   dateutil.FormatAPITimestamp(start),
		EndDate:     dateutil.FormatAPITimestamp(end),
	}

	var resp APIResponse
	if err := c.do(ctx, http.MethodPost, manualRegisterPath, token, req, &resp); err != nil {
		return err
	}

	c.logger.Info("Attendance registered",
		zap.String("start", req.StartDate),
		zap.String("end", req.EndDate))

	return nil
}

// do performs a single authenticated HTTP exchange and classifies the
// result: non-2xx or network failure becomes *TransportError, a 2xx body
// with Success=false becomes *RejectedError.
func (c *Client) do(ctx context.Context, method, path, token string, body, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Request failed",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return &TransportError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s %s: %s", method, path, bytes.TrimSpace(respBody)),
		}
	}

	var envelope APIResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if !envelope.Success {
		return &RejectedError{
			Message:   envelope.Message,
			ErrorCode: envelope.ErrorCode,
		}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}
