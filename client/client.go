// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package client provides a typed Go client for the inkpress REST API.
// It decodes the response envelope into typed values and surfaces API
// failures as *APIError.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIError is a non-2xx response decoded from the failure envelope.
type APIError struct {
	Status  int
	Message string
	Fields  []FieldError
}

// FieldError is one validation violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, f.Field+": "+f.Message)
		}
		return fmt.Sprintf("api error %d: %s", e.Status, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client talks to an inkpress server. The zero value is not usable; use New.
type Client struct {
	base  string
	http  *http.Client
	token string
}

// New creates a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken attaches a bearer token to subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the bearer token currently in use, if any.
func (c *Client) Token() string {
	return c.token
}

// User is the public profile returned by the API.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Avatar    string    `json:"avatar"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthorRef is the minimal author projection embedded in posts and comments.
type AuthorRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// CategoryRef is the minimal category projection embedded in posts.
type CategoryRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Color string `json:"color"`
}

// Category is a full category resource.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	IsActive    bool      `json:"isActive"`
	PostCount   int64     `json:"postCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Comment is a post comment with its author resolved.
type Comment struct {
	ID        string    `json:"id"`
	Author    AuthorRef `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Post is a post resource with author and category resolved.
type Post struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Slug          string      `json:"slug"`
	Content       string      `json:"content,omitempty"`
	Excerpt       string      `json:"excerpt,omitempty"`
	FeaturedImage string      `json:"featuredImage"`
	Author        AuthorRef   `json:"author"`
	Category      CategoryRef `json:"category"`
	Tags          []string    `json:"tags,omitempty"`
	Comments      []Comment   `json:"comments,omitempty"`
	CommentCount  int         `json:"commentCount"`
	ViewCount     int64       `json:"viewCount"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// Session is the payload returned by Register and Login.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// envelope mirrors the server's response shape.
type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Error      string          `json:"error"`
	Errors     []FieldError    `json:"errors"`
	Pagination *Pagination     `json:"pagination"`
}

// Register creates an account and stores the returned token on the client.
func (c *Client) Register(ctx context.Context, name, email, password string) (*Session, error) {
	var session Session
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &session, nil); err != nil {
		return nil, err
	}
	c.token = session.Token
	return &session, nil
}

// Login authenticates and stores the returned token on the client.
// totpCode may be empty for accounts without two-factor auth.
func (c *Client) Login(ctx context.Context, email, password, totpCode string) (*Session, error) {
	var session Session
	body := map[string]string{"email": email, "password": password}
	if totpCode != "" {
		body["totpCode"] = totpCode
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &session, nil); err != nil {
		return nil, err
	}
	c.token = session.Token
	return &session, nil
}

// Me returns the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user, nil); err != nil {
		return nil, err
	}
	return &user, nil
}

// ProfileUpdate carries the optional profile fields; nil fields are left
// unchanged by the server.
type ProfileUpdate struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
	Password *string `json:"password,omitempty"`
}

// UpdateProfile applies a partial update to the authenticated user.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPut, "/api/auth/profile", update, &user, nil); err != nil {
		return nil, err
	}
	return &user, nil
}

// TwoFAKey is the secret material returned when two-factor enrollment
// starts. QRCode is a provisioning QR image as a base64 data URI.
type TwoFAKey struct {
	Secret string `json:"secret"`
	QRCode string `json:"qrCode"`
}

// SetupTwoFA starts two-factor enrollment for the authenticated user.
func (c *Client) SetupTwoFA(ctx context.Context) (*TwoFAKey, error) {
	var key TwoFAKey
	if err := c.do(ctx, http.MethodPost, "/api/auth/2fa/setup", nil, &key, nil); err != nil {
		return nil, err
	}
	return &key, nil
}

// EnableTwoFA verifies an authenticator code and turns on two-factor auth.
func (c *Client) EnableTwoFA(ctx context.Context, code string) error {
	body := map[string]string{"code": code}
	return c.do(ctx, http.MethodPost, "/api/auth/2fa/enable", body, nil, nil)
}

// ListCategories returns all active categories sorted by name.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var cats []Category
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &cats, nil); err != nil {
		return nil, err
	}
	return cats, nil
}

// GetCategory fetches one category by ID or slug.
func (c *Client) GetCategory(ctx context.Context, key string) (*Category, error) {
	var cat Category
	if err := c.do(ctx, http.MethodGet, "/api/categories/"+url.PathEscape(key), nil, &cat, nil); err != nil {
		return nil, err
	}
	return &cat, nil
}

// CategoryInput carries category fields for create and update.
type CategoryInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// CreateCategory adds a category. Requires an admin token.
func (c *Client) CreateCategory(ctx context.Context, input CategoryInput) (*Category, error) {
	var cat Category
	if err := c.do(ctx, http.MethodPost, "/api/categories", input, &cat, nil); err != nil {
		return nil, err
	}
	return &cat, nil
}

// UpdateCategory applies a partial update. Requires an admin token.
func (c *Client) UpdateCategory(ctx context.Context, id string, input CategoryInput) (*Category, error) {
	var cat Category
	if err := c.do(ctx, http.MethodPut, "/api/categories/"+url.PathEscape(id), input, &cat, nil); err != nil {
		return nil, err
	}
	return &cat, nil
}

// DeleteCategory removes an empty category. Requires an admin token.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/categories/"+url.PathEscape(id), nil, nil, nil)
}

// ListPostsOptions filters and paginates the post listing. Zero values are
// omitted from the query.
type ListPostsOptions struct {
	Page     int64
	Limit    int64
	Category string
	Search   string
}

// ListPosts returns a page of posts, newest first.
func (c *Client) ListPosts(ctx context.Context, opts ListPostsOptions) ([]Post, *Pagination, error) {
	q := url.Values{}
	if opts.Page > 0 {
		q.Set("page", fmt.Sprint(opts.Page))
	}
	if opts.Limit > 0 {
		q.Set("limit", fmt.Sprint(opts.Limit))
	}
	if opts.Category != "" {
		q.Set("category", opts.Category)
	}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}

	path := "/api/posts"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var posts []Post
	var pagination Pagination
	if err := c.do(ctx, http.MethodGet, path, nil, &posts, &pagination); err != nil {
		return nil, nil, err
	}
	return posts, &pagination, nil
}

// GetPost fetches one post by ID or slug. Each call counts a view.
func (c *Client) GetPost(ctx context.Context, key string) (*Post, error) {
	var post Post
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+url.PathEscape(key), nil, &post, nil); err != nil {
		return nil, err
	}
	return &post, nil
}

// PostInput carries post fields for create and update. For create, Title,
// Content, and Category are required by the server.
type PostInput struct {
	Title    *string  `json:"title,omitempty"`
	Content  *string  `json:"content,omitempty"`
	Excerpt  *string  `json:"excerpt,omitempty"`
	Category *string  `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// CreatePost adds a post authored by the authenticated user.
func (c *Client) CreatePost(ctx context.Context, input PostInput) (*Post, error) {
	var post Post
	if err := c.do(ctx, http.MethodPost, "/api/posts", input, &post, nil); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePostWithImage adds a post with a featured image, sent as a
// multipart form. image supplies the file bytes; filename is advisory
// since the server renames uploads.
func (c *Client) CreatePostWithImage(ctx context.Context, input PostInput, filename string, image io.Reader) (*Post, error) {
	var post Post
	if err := c.doMultipart(ctx, http.MethodPost, "/api/posts", input, filename, image, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost applies a partial update to a post the caller authored (or
// any post, for admins).
func (c *Client) UpdatePost(ctx context.Context, id string, input PostInput) (*Post, error) {
	var post Post
	if err := c.do(ctx, http.MethodPut, "/api/posts/"+url.PathEscape(id), input, &post, nil); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes a post the caller authored (or any post, for admins).
func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/posts/"+url.PathEscape(id), nil, nil, nil)
}

// AddComment appends a comment and returns the post's full comment list.
func (c *Client) AddComment(ctx context.Context, postID, content string) ([]Comment, error) {
	var comments []Comment
	body := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPost, "/api/posts/"+url.PathEscape(postID)+"/comments", body, &comments, nil); err != nil {
		return nil, err
	}
	return comments, nil
}

// do performs a JSON request and decodes the envelope. out and pagination
// may be nil when the caller only needs success or failure.
func (c *Client) do(ctx context.Context, method, path string, body, out any, pagination *Pagination) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out, pagination)
}

// doMultipart sends the input fields plus one image file as a multipart
// form under the featuredImage field.
func (c *Client) doMultipart(ctx context.Context, method, path string, input PostInput, filename string, image io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	writeField := func(name string, value *string) {
		if value != nil {
			mw.WriteField(name, *value)
		}
	}
	writeField("title", input.Title)
	writeField("content", input.Content)
	writeField("excerpt", input.Excerpt)
	writeField("category", input.Category)
	if len(input.Tags) > 0 {
		mw.WriteField("tags", strings.Join(input.Tags, ","))
	}

	fw, err := mw.CreateFormFile("featuredImage", filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(fw, image); err != nil {
		return fmt.Errorf("copy image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.send(req, out, nil)
}

func (c *Client) send(req *http.Request, out any, pagination *Pagination) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if !env.Success {
		return &APIError{Status: resp.StatusCode, Message: env.Error, Fields: env.Errors}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	if pagination != nil && env.Pagination != nil {
		*pagination = *env.Pagination
	}
	return nil
}
