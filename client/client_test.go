// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientDecodesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/posts" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("search"); got != "gophers" {
			t.Errorf("search param: got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success":    true,
			"data":       []map[string]any{{"id": "p1", "title": "Hello", "slug": "hello"}},
			"pagination": map[string]any{"page": 1, "limit": 10, "total": 1, "pages": 1},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	posts, pagination, err := c.ListPosts(context.Background(), ListPostsOptions{Search: "gophers"})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(posts) != 1 || posts[0].Title != "Hello" {
		t.Errorf("posts: got %+v", posts)
	}
	if pagination.Total != 1 {
		t.Errorf("pagination: got %+v", pagination)
	}
}

func TestClientSendsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("authorization: got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": map[string]any{"id": "u1"}})
	}))
	defer server.Close()

	c := New(server.URL)
	c.SetToken("tok-123")
	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("Me: %v", err)
	}
}

func TestClientSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"errors": []map[string]string{
				{"field": "title", "message": "title is required"},
				{"field": "category", "message": "valid category is required"},
			},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.CreatePost(context.Background(), PostInput{})
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("status: got %d", apiErr.Status)
	}
	if len(apiErr.Fields) != 2 {
		t.Fatalf("fields: got %d, want 2", len(apiErr.Fields))
	}
	if !strings.Contains(apiErr.Error(), "title is required") {
		t.Errorf("error text: %q", apiErr.Error())
	}
}

func TestClientRegisterStoresToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"token": "fresh-token", "user": map[string]any{"id": "u1", "name": "Ada"}},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	session, err := c.Register(context.Background(), "Ada", "ada@example.com", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if session.User.Name != "Ada" {
		t.Errorf("user: got %+v", session.User)
	}
	if c.Token() != "fresh-token" {
		t.Errorf("token not stored: %q", c.Token())
	}
}
