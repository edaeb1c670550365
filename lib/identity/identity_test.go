// Copyright 2026 The Docshell Authors
// SPDX-License-Identifier: Apache-2.0

package identity

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadToken(t *testing.T) {
	path := writeFile(t, "token", `{
		// issued 2026-08-12 by the provider flow
		"access_token": "tok-xyz",
		"token_type": "Bearer",
		"refresh_token": "opaque-and-ignored"
	}`)

	token, err := LoadToken(path)
	if err != nil {
		t.Fatalf("LoadToken: %v", err)
	}
	if token.AccessToken != "tok-xyz" {
		t.Errorf("AccessToken = %q, want tok-xyz", token.AccessToken)
	}
	if token.TokenType != "Bearer" {
		t.Errorf("TokenType = %q, want Bearer", token.TokenType)
	}
}

func TestLoadTokenMissingFile(t *testing.T) {
	_, err := LoadToken(filepath.Join(t.TempDir(), "absent"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want os.ErrNotExist", err)
	}
}

func TestLoadTokenEmptyAccessToken(t *testing.T) {
	path := writeFile(t, "token", `{"token_type": "Bearer"}`)

	_, err := LoadToken(path)
	if err == nil {
		t.Fatal("LoadToken accepted a token file without an access token")
	}
}

func TestCheckCredentials(t *testing.T) {
	path := writeFile(t, "credentials", `{
		// installation credential, content opaque to docshell
		"installed": {"client_id": "abc", "client_secret": "shh"}
	}`)

	if err := CheckCredentials(path); err != nil {
		t.Fatalf("CheckCredentials: %v", err)
	}
}

func TestCheckCredentialsMissing(t *testing.T) {
	if err := CheckCredentials(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("CheckCredentials accepted a missing file")
	}
}

func TestCheckCredentialsMalformed(t *testing.T) {
	path := writeFile(t, "credentials", `not json at all`)
	if err := CheckCredentials(path); err == nil {
		t.Fatal("CheckCredentials accepted a malformed file")
	}
}
