// Copyright 2026 The Docshell Authors
// SPDX-License-Identifier: Apache-2.0

// Package identity loads the credential artifacts that the external
// identity-provider flow leaves on disk. Docshell never implements the
// authorization protocol itself: the credentials file identifies the
// installation to the provider, and the token file holds the access
// token the provider's flow produced. Both are owned by that flow;
// docshell only reads them.
//
// Both files are parsed as JSONC so operators can annotate them
// (provenance, expiry notes) without breaking the daemon.
package identity

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// Token is the slice of the token file docshell understands. Every
// other field is opaque provider state and is ignored.
type Token struct {
	// AccessToken authorizes document API requests as a bearer token.
	AccessToken string `json:"access_token"`
	// TokenType is informational; the API accepts only "Bearer".
	TokenType string `json:"token_type,omitempty"`
}

// LoadToken reads and parses the token file. An absent file wraps
// os.ErrNotExist; a present file with an empty access token is an
// error (the identity flow has not completed).
func LoadToken(path string) (Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Token{}, err
	}

	var token Token
	if err := json.Unmarshal(jsonc.ToJSON(data), &token); err != nil {
		return Token{}, fmt.Errorf("identity: parsing token file %s: %w", path, err)
	}
	if token.AccessToken == "" {
		return Token{}, fmt.Errorf("identity: token file %s has no access token; run the provider's authorization flow", path)
	}
	return token, nil
}

// CheckCredentials verifies the credentials file exists and is
// well-formed JSONC. Its content beyond that is opaque to docshell —
// the external flow consumes it. A missing file is fatal at startup
// (reported before the daemon detaches), so this runs first.
func CheckCredentials(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("identity: credentials file not readable (check the credentials path in the config): %w", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(data), &parsed); err != nil {
		return fmt.Errorf("identity: credentials file %s is not valid JSON: %w", path, err)
	}
	return nil
}
