// Package api is the one client for the EventSphere backend.
//
// The browser frontend this tool replaces had several drifting copies of its
// service layer; everything the scanner needs from the server goes through
// this single implementation. All endpoints answer the same JSON envelope
// with "success" and "message"; extra fields ride along untouched.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// CLIENT_TIMEOUT is the ambient HTTP timeout for every backend call.
const CLIENT_TIMEOUT = 30 * time.Second

var ErrServerEnvelope = errors.New("api: malformed response envelope")

// StatusPresent is the participant status the backend sets after a
// successful presence confirmation.
const StatusPresent = "PRESENT"

type Participant struct {
	ID             int64  `json:"id"`
	UserName       string `json:"userName"`
	UserEmail      string `json:"userEmail"`
	IsCollaborator bool   `json:"isCollaborator"`
	Status         string `json:"status"`
}

type Event struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	Location     string        `json:"location"`
	Date         string        `json:"date"`
	Participants []Participant `json:"participants"`
}

// envelope is the common response wrapper. Only success and message are
// interpreted here; data carries the payload of the particular endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Event   json.RawMessage `json:"event"`
}

// PresenceResponse is the classified outcome of a presence submission.
// Success=false with a message is a normal server answer (expired token,
// already present, unknown participant), not a transport error.
type PresenceResponse struct {
	Success bool
	Message string
	Event   *Event
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient builds a client for the given backend. The bearer token comes in
// explicitly; nothing here reaches into ambient storage.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: CLIENT_TIMEOUT},
		logger:  slog.With("component", "api"),
	}
}

// GetEvent fetches the event detail including its participant list.
func (c *Client) GetEvent(ctx context.Context, eventID int64) (*Event, error) {
	env, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/event/%d", eventID), nil)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("api: get event %d: %s", eventID, env.Message)
	}

	var event Event
	if err := json.Unmarshal(env.Data, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServerEnvelope, err)
	}
	if event.ID == 0 {
		// Some backend builds omit the id in the payload; the caller asked
		// for a specific event, so fill it back in.
		event.ID = eventID
	}
	return &event, nil
}

// MarkPresenceByQR submits a scanned presence code. The event context is
// implicit in the code itself, the server resolves the participant.
func (c *Client) MarkPresenceByQR(ctx context.Context, qrCode string) (*PresenceResponse, error) {
	return c.presence(ctx, "/api/event/qr-presence", map[string]string{"qrCode": qrCode})
}

// MarkPresenceManual submits a hand-typed presence code scoped to an event.
func (c *Client) MarkPresenceManual(ctx context.Context, eventID int64, presenceCode string) (*PresenceResponse, error) {
	path := fmt.Sprintf("/api/event/%d/manual-presence", eventID)
	return c.presence(ctx, path, map[string]string{"code": presenceCode})
}

func (c *Client) presence(ctx context.Context, path string, body any) (*PresenceResponse, error) {
	env, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}

	resp := &PresenceResponse{Success: env.Success, Message: env.Message}
	if len(env.Event) > 0 {
		var event Event
		if err := json.Unmarshal(env.Event, &event); err == nil {
			resp.Event = &event
		}
	}
	return resp, nil
}

// do performs one request and decodes the envelope. A non-2xx status with a
// decodable envelope is a server answer, not an error; only transport
// failures and unreadable bodies surface as errors.
func (c *Client) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("api: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("api: read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.logger.Debug("Undecodable response body", "status", res.StatusCode, "path", path)
		return nil, fmt.Errorf("%w: status %d", ErrServerEnvelope, res.StatusCode)
	}

	// Older backend builds answer 200 with no explicit success flag; treat
	// a 2xx without failure message the way the frontend did: as success.
	if !env.Success && env.Message == "" && res.StatusCode >= 200 && res.StatusCode < 300 {
		env.Success = true
	}
	return &env, nil
}
