package control

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

// Client talks to a running control API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the API listening on addr (host:port).
// Requests have no timeout because stop blocks until transcription finishes.
func NewClient(addr string) *Client {
	base := addr
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		http:    &http.Client{},
	}
}

// Start asks the daemon to begin recording.
func (c *Client) Start(ctx context.Context) (*StatusResponse, error) {
	var out StatusResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/recording/start", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Stop ends the recording and returns the transcript that was copied.
func (c *Client) Stop(ctx context.Context) (*StopResponse, error) {
	var out StopResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/recording/stop", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Status returns the current session state.
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var out StatusResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/status", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Watch streams indicator changes to fn until ctx is cancelled or the
// connection drops. The current state is delivered first.
func (c *Client) Watch(ctx context.Context, fn func(StatusEvent)) error {
	u, err := url.Parse(c.baseURL + "/api/v1/events")
	if err != nil {
		return err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", u, err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			conn.Close()
		case <-done:
		}
	}()

	for {
		var ev StatusEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		fn(ev)
	}
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("is 'whisperclip serve' running? %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr ErrorResponse
		if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error == "" {
			return &APIError{Status: resp.StatusCode, Code: codeInternal, Message: strings.TrimSpace(string(body))}
		}
		return &APIError{Status: resp.StatusCode, Code: apiErr.Code, Message: apiErr.Error}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}
