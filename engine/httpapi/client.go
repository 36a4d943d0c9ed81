// Package httpapi implements engine.GameServer over the game server's JSON HTTP API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"aigo-board/engine"
	"aigo-board/types"
)

// Endpoint paths exposed by the game server.
const (
	PathGetBoard    = "/get-board"
	PathUpdateBoard = "/update-board"
	PathResetBoard  = "/reset-board"
	PathTrigger     = "/trigger"
)

// RequestIDHeader carries a per-request id so client and server logs line up.
const RequestIDHeader = "X-Request-ID"

// MoveRequest is the body of POST /update-board.
type MoveRequest struct {
	X       int `json:"x"`
	Y       int `json:"y"`
	IsWhite int `json:"isWhite"`
}

// TriggerRequest is the body of POST /trigger.
type TriggerRequest struct {
	IsPlayerTurn int `json:"isPlayerTurn"`
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Client talks to the game server. It never retries and sets no timeout of its own.
type Client struct {
	base *url.URL
	http *http.Client
	log  *zap.SugaredLogger
}

var _ engine.GameServer = (*Client)(nil)

// NewClient creates a client for the server at baseURL. A nil httpClient uses http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client, log *zap.SugaredLogger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Client{base: u, http: httpClient, log: log}, nil
}

// BaseURL returns the server address the client was built with.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// GetBoard fetches the current board snapshot.
func (c *Client) GetBoard(ctx context.Context) (*types.Snapshot, error) {
	var snap types.Snapshot
	if err := c.do(ctx, http.MethodGet, PathGetBoard, nil, &snap); err != nil {
		return nil, fmt.Errorf("get board: %w", err)
	}
	return &snap, nil
}

// PlaceStone posts a move at (col, row) for the given color.
func (c *Client) PlaceStone(ctx context.Context, col, row int, color types.Color) error {
	req := MoveRequest{X: col, Y: row, IsWhite: int(color)}
	if err := c.do(ctx, http.MethodPost, PathUpdateBoard, req, nil); err != nil {
		return fmt.Errorf("place stone: %w", err)
	}
	return nil
}

// Reset clears the server board.
func (c *Client) Reset(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, PathResetBoard, nil, nil); err != nil {
		return fmt.Errorf("reset board: %w", err)
	}
	return nil
}

// Trigger asks the server to make the opponent's move if playerTurn is false.
func (c *Client) Trigger(ctx context.Context, playerTurn bool) error {
	req := TriggerRequest{}
	if playerTurn {
		req.IsPlayerTurn = 1
	}
	if err := c.do(ctx, http.MethodPost, PathTrigger, req, nil); err != nil {
		return fmt.Errorf("trigger: %w", err)
	}
	return nil
}

// do sends one request. body is JSON-encoded when non-nil; out receives the
// decoded response when non-nil, otherwise the response body is only logged.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	reqID := uuid.New().String()
	endpoint := c.base.JoinPath(path).String()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debugw("sending request", "request_id", reqID, "method", method, "path", path, "body", body)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Errorw("request failed", "request_id", reqID, "path", path, "error", err)
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Errorw("reading response failed", "request_id", reqID, "path", path, "error", err)
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &engine.ServerError{StatusCode: resp.StatusCode}
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil {
			se.Message = eb.Message
			se.Detail = eb.Error
		}
		c.log.Warnw("server returned error", "request_id", reqID, "path", path, "status", resp.StatusCode,
			"message", se.Message, "detail", se.Detail)
		return se
	}

	c.log.Debugw("received response", "request_id", reqID, "path", path, "status", resp.StatusCode, "body", string(data))

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.log.Errorw("decoding response failed", "request_id", reqID, "path", path, "error", err)
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
