package api

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

	"golang.org/x/oauth2"

	"github.com/Tiliavir/trivial-attendance/internal/model"
)

// DefaultBaseURL is the hosted attendance API.
const DefaultBaseURL = "https://scanqr-jdez.onrender.com/api"

// ErrSessionExpired is returned when the API answers 401.
var ErrSessionExpired = errors.New("session expired")

// Error is a non-2xx answer to a read or admin call.
type Error struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: API error %d: %s", e.Op, e.StatusCode, e.Message)
}

// SubmissionError is any failure of the attendance add call other than 401.
// StatusCode is 0 when no response was received.
type SubmissionError struct {
	StatusCode int
	Message    string
}

func (e *SubmissionError) Error() string {
	return "Attendance marking failed: " + e.Message
}

// Client talks to the attendance API with a bearer token.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for baseURL authenticating with token. An
// *http.Client stored in ctx under oauth2.HTTPClient is used as transport.
func NewClient(ctx context.Context, baseURL, token string) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: oauth2.NewClient(ctx, ts),
	}
}

// response is a fully read HTTP answer.
type response struct {
	status int
	body   []byte
}

func (c *Client) do(ctx context.Context, method, path string, payload any, header http.Header) (*response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return &response{status: resp.StatusCode, body: data}, nil
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

// message extracts the server-provided message from a JSON body, falling
// back to a generic description of the status.
func (r *response) message() string {
	var m struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(r.body, &m); err == nil {
		if m.Message != "" {
			return m.Message
		}
		if m.Error != "" {
			return m.Error
		}
	}
	return fmt.Sprintf("Request failed with status code %d", r.status)
}

func (r *response) asError(op string) error {
	if r.status == http.StatusUnauthorized {
		return ErrSessionExpired
	}
	return &Error{Op: op, StatusCode: r.status, Message: r.message()}
}

// FetchStatus returns which event types the API has recorded for today.
func (c *Client) FetchStatus(ctx context.Context) (model.RemoteStatus, error) {
	resp, err := c.do(ctx, http.MethodGet, "/attendance/status", nil, nil)
	if err != nil {
		return model.RemoteStatus{}, err
	}
	if !resp.ok() {
		return model.RemoteStatus{}, resp.asError("attendance status")
	}
	var status model.RemoteStatus
	if err := json.Unmarshal(resp.body, &status); err != nil {
		return model.RemoteStatus{}, fmt.Errorf("decoding attendance status: %w", err)
	}
	return status, nil
}

// Submit records an attendance event and returns the server's confirmation
// message. key is sent as Idempotency-Key so a resubmission of the same
// event is recognised by the server.
func (c *Client) Submit(ctx context.Context, sub model.Submission, key string) (string, error) {
	header := http.Header{}
	if key != "" {
		header.Set("Idempotency-Key", key)
	}
	resp, err := c.do(ctx, http.MethodPost, "/attendance/add", sub, header)
	if err != nil {
		return "", &SubmissionError{Message: err.Error()}
	}
	if resp.status == http.StatusUnauthorized {
		return "", ErrSessionExpired
	}
	if !resp.ok() {
		return "", &SubmissionError{StatusCode: resp.status, Message: resp.message()}
	}

	var m struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.body, &m); err != nil || m.Message == "" {
		return "Attendance marked successfully.", nil
	}
	return m.Message, nil
}

// ListUsers returns all users visible to the caller.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	resp, err := c.do(ctx, http.MethodGet, "/users", nil, nil)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, resp.asError("list users")
	}
	var users []model.User
	if err := json.Unmarshal(resp.body, &users); err != nil {
		return nil, fmt.Errorf("decoding users: %w", err)
	}
	return users, nil
}

// DeleteUser removes the user with the given id.
func (c *Client) DeleteUser(ctx context.Context, id model.UserID) error {
	resp, err := c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(string(id)), nil, nil)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return resp.asError("delete user")
	}
	return nil
}
