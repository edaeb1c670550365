// Copyright 2026 The Docshell Authors
// SPDX-License-Identifier: Apache-2.0

package docservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/docshell-project/docshell/lib/docedit"
	"github.com/docshell-project/docshell/lib/doctree"
)

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// BaseURL is the base URL of the document API
	// (e.g., "https://docs.example.com").
	BaseURL string
	// HTTPClient is used for all requests. If nil, http.DefaultClient
	// is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default() is
	// used.
	Logger *slog.Logger
}

// Client holds the API base URL and HTTP transport, shared across
// Sessions. A Client carries no credentials.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new unauthenticated document API client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("docservice: BaseURL is required")
	}
	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, fmt.Errorf("docservice: invalid BaseURL %q: %w", config.BaseURL, err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Session binds an access token to a Client. The token is the opaque
// blob persisted by the external identity flow.
type Session struct {
	client      *Client
	accessToken string
}

// SessionFromToken creates a Session from a stored access token.
func (c *Client) SessionFromToken(accessToken string) *Session {
	return &Session{client: c, accessToken: accessToken}
}

// Get fetches the full document tree.
func (s *Session) Get(ctx context.Context, documentID string) (*doctree.Document, error) {
	body, err := s.client.doRequest(ctx, http.MethodGet, "/v1/documents/"+url.PathEscape(documentID), s.accessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("docservice: fetching document %s: %w", documentID, err)
	}

	var document doctree.Document
	if err := json.Unmarshal(body, &document); err != nil {
		return nil, fmt.Errorf("docservice: parsing document %s: %w", documentID, err)
	}
	return &document, nil
}

// batchUpdateRequest is the wire body of a batchUpdate call.
type batchUpdateRequest struct {
	Requests []docedit.Request `json:"requests"`
}

// BatchUpdate submits a batch of edit operations. The engine applies
// them in array order against the pre-batch document state; ordering is
// the caller's responsibility (see package docedit).
func (s *Session) BatchUpdate(ctx context.Context, documentID string, requests []docedit.Request) error {
	if len(requests) == 0 {
		return nil
	}

	path := "/v1/documents/" + url.PathEscape(documentID) + ":batchUpdate"
	_, err := s.client.doRequest(ctx, http.MethodPost, path, s.accessToken, batchUpdateRequest{Requests: requests})
	if err != nil {
		return fmt.Errorf("docservice: batch update of document %s: %w", documentID, err)
	}
	return nil
}

// createRequest and createResponse are the wire types of documents.create.
type createRequest struct {
	Title string `json:"title"`
}

type createResponse struct {
	DocumentID string `json:"documentId"`
}

// Create creates a new empty document owned by the authorized user and
// returns its identifier.
func (s *Session) Create(ctx context.Context, title string) (string, error) {
	body, err := s.client.doRequest(ctx, http.MethodPost, "/v1/documents", s.accessToken, createRequest{Title: title})
	if err != nil {
		return "", fmt.Errorf("docservice: creating document %q: %w", title, err)
	}

	var response createResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("docservice: parsing create response: %w", err)
	}
	if response.DocumentID == "" {
		return "", fmt.Errorf("docservice: create response missing document id")
	}

	s.client.logger.Info("created document", "document_id", response.DocumentID, "title", title)
	return response.DocumentID, nil
}

// errorEnvelope is the wire shape of every API error response.
type errorEnvelope struct {
	Error APIError `json:"error"`
}

// doRequest performs an HTTP request and returns the response body.
// On 2xx, returns the body. On 4xx/5xx, returns an *APIError.
func (c *Client) doRequest(ctx context.Context, method, path, accessToken string, requestBody any) ([]byte, error) {
	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		request.Header.Set("Authorization", "Bearer "+accessToken)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}

	// All API error responses use the same JSON envelope.
	var envelope errorEnvelope
	if jsonErr := json.Unmarshal(responseBody, &envelope); jsonErr != nil || envelope.Error.Status == "" {
		// Non-JSON error body. Should not happen with a conforming
		// server; fail loud with the raw body.
		return nil, fmt.Errorf("unexpected %d response from %s %s: %s",
			response.StatusCode, method, path, string(responseBody))
	}
	envelope.Error.StatusCode = response.StatusCode

	return responseBody, &envelope.Error
}
