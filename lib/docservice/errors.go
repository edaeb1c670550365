// Copyright 2026 The Docshell Authors
// SPDX-License-Identifier: Apache-2.0

package docservice

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a structured error response from the document API.
// Callers branch on it with errors.As:
//
//	var apiErr *docservice.APIError
//	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound { ... }
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int `json:"-"`
	// Status is the API's symbolic status (e.g., "NOT_FOUND").
	Status string `json:"status"`
	// Message is the human-readable description from the server.
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("docservice: %s (%d): %s", e.Status, e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an *APIError for a missing document.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is an *APIError for an expired or
// invalid token. The daemon does not recover from this (the identity
// flow is external); it is distinguished only so the log says so.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) &&
		(apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden)
}
