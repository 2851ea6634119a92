// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func TestParsePostRequestJSON(t *testing.T) {
	body := `{"title":"Hello World","content":"Some content here.","tags":["go","web"]}`
	req := httptest.NewRequest("POST", "/api/posts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	parsed, err := parsePostRequest(req)
	if err != nil {
		t.Fatalf("parsePostRequest: %v", err)
	}

	if parsed.Title == nil || *parsed.Title != "Hello World" {
		t.Errorf("title: got %v", parsed.Title)
	}
	if parsed.Content == nil || *parsed.Content != "Some content here." {
		t.Errorf("content: got %v", parsed.Content)
	}
	// Absent fields stay nil so partial updates leave them alone.
	if parsed.Excerpt != nil {
		t.Errorf("excerpt should be nil, got %q", *parsed.Excerpt)
	}
	if parsed.Category != nil {
		t.Errorf("category should be nil, got %q", *parsed.Category)
	}
	if !reflect.DeepEqual(parsed.Tags, []string{"go", "web"}) {
		t.Errorf("tags: got %v", parsed.Tags)
	}
}

func TestParsePostRequestJSONInvalid(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/posts", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")

	if _, err := parsePostRequest(req); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestParsePostRequestMultipart(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("title", "Multipart Title")
	mw.WriteField("content", "Multipart content body.")
	mw.WriteField("category", "64b5f0c2a1d2e3f4a5b6c7d8")
	mw.WriteField("tags", "go, web , ,api")
	mw.Close()

	req := httptest.NewRequest("POST", "/api/posts", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	parsed, err := parsePostRequest(req)
	if err != nil {
		t.Fatalf("parsePostRequest: %v", err)
	}

	if parsed.Title == nil || *parsed.Title != "Multipart Title" {
		t.Errorf("title: got %v", parsed.Title)
	}
	if parsed.Category == nil || *parsed.Category != "64b5f0c2a1d2e3f4a5b6c7d8" {
		t.Errorf("category: got %v", parsed.Category)
	}
	if parsed.Excerpt != nil {
		t.Errorf("excerpt should be nil, got %q", *parsed.Excerpt)
	}
	// Tags are comma-split with blanks dropped.
	if !reflect.DeepEqual(parsed.Tags, []string{"go", "web", "api"}) {
		t.Errorf("tags: got %v", parsed.Tags)
	}
}
