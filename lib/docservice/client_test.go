// Copyright 2026 The Docshell Authors
// SPDX-License-Identifier: Apache-2.0

package docservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/docshell-project/docshell/lib/docedit"
)

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(ClientConfig{})
	if err == nil {
		t.Fatal("NewClient accepted an empty BaseURL")
	}
}

func TestSessionGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/v1/documents/doc-42" {
			t.Errorf("path = %s, want /v1/documents/doc-42", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("Authorization = %q, want Bearer tok-1", got)
		}
		w.Write([]byte(`{"documentId": "doc-42", "title": "Docshell", "body": {"content": []}}`))
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	session := client.SessionFromToken("tok-1")

	document, err := session.Get(context.Background(), "doc-42")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if document.DocumentID != "doc-42" {
		t.Errorf("DocumentID = %q, want doc-42", document.DocumentID)
	}
}

func TestSessionBatchUpdate(t *testing.T) {
	var received struct {
		Requests []docedit.Request `json:"requests"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/v1/documents/doc-42:batchUpdate" {
			t.Errorf("path = %s, want /v1/documents/doc-42:batchUpdate", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	session := client.SessionFromToken("tok-1")

	requests := []docedit.Request{
		{InsertText: &docedit.InsertText{Location: docedit.Location{Index: 7}, Text: "hi"}},
	}
	if err := session.BatchUpdate(context.Background(), "doc-42", requests); err != nil {
		t.Fatalf("BatchUpdate: %v", err)
	}
	if len(received.Requests) != 1 || received.Requests[0].InsertText == nil {
		t.Fatalf("server received %+v, want the one insertText request", received)
	}
	if received.Requests[0].InsertText.Location.Index != 7 {
		t.Errorf("received index = %d, want 7", received.Requests[0].InsertText.Location.Index)
	}
}

func TestSessionBatchUpdateEmptySkipsRequest(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	session := client.SessionFromToken("tok-1")

	if err := session.BatchUpdate(context.Background(), "doc-42", nil); err != nil {
		t.Fatalf("BatchUpdate(nil): %v", err)
	}
	if calls != 0 {
		t.Errorf("server saw %d calls, want 0 for an empty batch", calls)
	}
}

func TestSessionCreate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/documents" {
			t.Errorf("path = %s, want /v1/documents", r.URL.Path)
		}
		var body struct {
			Title string `json:"title"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.Title != "Docshell" {
			t.Errorf("title = %q, want Docshell", body.Title)
		}
		w.Write([]byte(`{"documentId": "new-doc"}`))
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	session := client.SessionFromToken("tok-1")

	documentID, err := session.Create(context.Background(), "Docshell")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if documentID != "new-doc" {
		t.Errorf("documentID = %q, want new-doc", documentID)
	}
}

func TestAPIErrorMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": {"status": "NOT_FOUND", "message": "no such document"}}`))
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	session := client.SessionFromToken("tok-1")

	_, err = session.Get(context.Background(), "missing")
	if err == nil {
		t.Fatal("Get succeeded on a 404")
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = false, want true", err)
	}
	if IsUnauthorized(err) {
		t.Errorf("IsUnauthorized(%v) = true, want false", err)
	}
}

func TestNonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	session := client.SessionFromToken("tok-1")

	_, err = session.Get(context.Background(), "doc")
	if err == nil {
		t.Fatal("Get succeeded on a 502")
	}
	if IsNotFound(err) || IsUnauthorized(err) {
		t.Errorf("non-envelope error %v classified as an APIError", err)
	}
}
