// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client error messages.
const (
	MsgNetworkError = "Network error"
	MsgSubmitFailed = "Failed to submit feedback"
)

// DefaultClientTimeout bounds one submission.
const DefaultClientTimeout = 15 * time.Second

// FeedbackPath is the submission endpoint relative to the API base URL.
const FeedbackPath = "/feedback"

// Response is the body of a successful submission.
type Response struct {
	Success bool `json:"success"`
}

// NetworkError reports a submission that never produced a usable response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return MsgNetworkError + ": " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError reports a non-2xx response. Message is safe to show to users.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.StatusCode, e.Message)
}

// Client posts feedback to the Userbird server.
type Client struct {
	baseURL    string
	origin     string
	httpClient *http.Client
}

// NewClient creates a client for the API at baseURL. origin is sent as the
// Origin header and should be the embedding page's origin.
func NewClient(baseURL, origin string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		origin:  origin,
		// No cookie jar: submissions never carry credentials.
		httpClient: &http.Client{Timeout: DefaultClientTimeout},
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

type submitRequest struct {
	FormID  string `json:"formId"`
	Message string `json:"message"`
}

// Submit posts one message. Errors are *NetworkError or *ServerError.
func (c *Client) Submit(ctx context.Context, formID, message string) (Response, error) {
	body, err := json.Marshal(submitRequest{FormID: formID, Message: message})
	if err != nil {
		return Response{}, fmt.Errorf("encoding feedback: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+FeedbackPath, bytes.NewReader(body))
	if err != nil {
		return Response{}, &NetworkError{Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.origin != "" {
		req.Header.Set("Origin", c.origin)
	}
	setFetchOptions(req.Header)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, &NetworkError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return Response{}, &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Response{}, &ServerError{StatusCode: resp.StatusCode, Message: serverMessage(data)}
	}

	var out Response
	if err := json.Unmarshal(data, &out); err != nil {
		return Response{}, &NetworkError{Err: fmt.Errorf("decoding response: %w", err)}
	}
	return out, nil
}

// serverMessage extracts the error text from a non-2xx body.
func serverMessage(data []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return MsgNetworkError
	}
	if body.Error == "" {
		return MsgSubmitFailed
	}
	return body.Error
}
