// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkpress/internal/apperror"
	"inkpress/internal/cache"
	"inkpress/internal/middleware"
	"inkpress/internal/models"
	"inkpress/internal/store"
	"inkpress/internal/upload"
	"inkpress/internal/validate"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// Posts serves the post resource endpoints, including embedded comments.
type Posts struct {
	posts      *store.PostStore
	categories *store.CategoryStore
	users      *store.UserStore
	cache      *cache.ListCache
	shaper     viewShaper
}

func NewPosts(posts *store.PostStore, categories *store.CategoryStore, users *store.UserStore, listCache *cache.ListCache) *Posts {
	return &Posts{
		posts:      posts,
		categories: categories,
		users:      users,
		cache:      listCache,
		shaper:     viewShaper{users: users, categories: categories},
	}
}

// List returns a page of posts, newest first. Supports filtering by
// category (ID or slug) and case-insensitive search over title and content.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.ParseInt(q.Get("page"), 10, 64)
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.ParseInt(q.Get("limit"), 10, 64)
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	opts := store.ListOptions{Page: page, Limit: limit, Search: strings.TrimSpace(q.Get("search"))}

	if key := strings.TrimSpace(q.Get("category")); key != "" {
		cat, err := h.categories.FindByIDOrSlug(r.Context(), key, true)
		if err != nil {
			writeError(w, err)
			return
		}
		if cat == nil {
			// Unknown category filter yields an empty page, not an error.
			writeJSON(w, http.StatusOK, envelope{
				Success:    true,
				Data:       []postView{},
				Pagination: &models.Pagination{Page: page, Limit: limit},
			})
			return
		}
		opts.Category = &cat.ID
	}

	cacheKey := listCacheKey(opts)
	if payload, ok := h.cache.GetPosts(r.Context(), cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(payload)
		return
	}

	posts, pagination, err := h.posts.List(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	views, err := h.shaper.shapeList(r.Context(), posts)
	if err != nil {
		writeError(w, err)
		return
	}

	env := envelope{Success: true, Data: views, Pagination: &pagination}
	if payload, err := json.Marshal(env); err == nil {
		h.cache.SetPosts(r.Context(), cacheKey, payload)
	}
	writeJSON(w, http.StatusOK, env)
}

// Get returns a single post by ID or slug and counts the view.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.GetAndCountView(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, err)
		return
	}
	if post == nil {
		writeError(w, apperror.NotFound("post"))
		return
	}

	view, err := h.shaper.shapeDetail(r.Context(), post)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, view)
}

// Create adds a post authored by the authenticated user.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	req, err := parsePostRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	title := strOrEmpty(req.Title)
	content := strOrEmpty(req.Content)
	excerpt := strOrEmpty(req.Excerpt)
	categoryKey := strOrEmpty(req.Category)
	if fields := validate.Post(title, content, excerpt, categoryKey); len(fields) > 0 {
		writeError(w, apperror.Validation(fields))
		return
	}

	cat, err := h.categories.FindByIDOrSlug(r.Context(), categoryKey, true)
	if err != nil {
		writeError(w, err)
		return
	}
	if cat == nil {
		writeError(w, apperror.Validation([]apperror.FieldError{{Field: "category", Message: "category not found"}}))
		return
	}

	post := &models.Post{
		Title:    strings.TrimSpace(title),
		Content:  content,
		Excerpt:  excerpt,
		Author:   user.ID,
		Category: cat.ID,
		Tags:     req.Tags,
	}
	if filename, ok := upload.FilenameFromCtx(r.Context()); ok {
		post.FeaturedImage = filename
	}

	created, err := h.posts.Create(r.Context(), post)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.categories.IncrementPostCount(r.Context(), cat.ID); err != nil {
		slog.Warn("increment category post count failed", "category", cat.ID.Hex(), "error", err)
	}
	h.cache.InvalidatePosts(r.Context())
	h.cache.InvalidateCategories(r.Context())

	view, err := h.shaper.shapeDetail(r.Context(), created)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, view)
}

// Update applies a partial update to a post. Only the author or an admin
// may update; changing the category moves the denormalized post counts.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperror.NotFound("post"))
		return
	}
	post, err := h.posts.FindByIDOrSlug(r.Context(), id.Hex())
	if err != nil {
		writeError(w, err)
		return
	}
	if post == nil {
		writeError(w, apperror.NotFound("post"))
		return
	}
	if post.Author != user.ID && !user.IsAdmin() {
		writeError(w, apperror.Forbidden("not authorized to update this post"))
		return
	}

	req, err := parsePostRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var fields []validate.Field
	if req.Title != nil {
		fields = append(fields, validate.Field{Name: "title", Value: *req.Title, Checks: []validate.Check{validate.Length(5, 100, "title must be between 5 and 100 characters")}})
	}
	if req.Content != nil {
		fields = append(fields, validate.Field{Name: "content", Value: *req.Content, Checks: []validate.Check{validate.MinLength(10, "content must be at least 10 characters long")}})
	}
	if req.Excerpt != nil {
		fields = append(fields, validate.Field{Name: "excerpt", Value: *req.Excerpt, Optional: true, Checks: []validate.Check{validate.MaxLength(200, "excerpt cannot be more than 200 characters")}})
	}
	if req.Category != nil {
		fields = append(fields, validate.Field{Name: "category", Value: *req.Category, Checks: []validate.Check{validate.ObjectID("invalid category ID")}})
	}
	if violations := validate.Run(fields...); len(violations) > 0 {
		writeError(w, apperror.Validation(violations))
		return
	}

	patch := store.PostPatch{
		Title:   req.Title,
		Content: req.Content,
		Excerpt: req.Excerpt,
		Tags:    req.Tags,
	}

	var newCategory *primitive.ObjectID
	if req.Category != nil {
		cat, err := h.categories.FindByIDOrSlug(r.Context(), *req.Category, true)
		if err != nil {
			writeError(w, err)
			return
		}
		if cat == nil {
			writeError(w, apperror.Validation([]apperror.FieldError{{Field: "category", Message: "category not found"}}))
			return
		}
		if cat.ID != post.Category {
			newCategory = &cat.ID
			patch.Category = &cat.ID
		}
	}

	if filename, ok := upload.FilenameFromCtx(r.Context()); ok {
		patch.FeaturedImage = &filename
	}

	updated, err := h.posts.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	if updated == nil {
		writeError(w, apperror.NotFound("post"))
		return
	}

	if newCategory != nil {
		if err := h.categories.DecrementPostCount(r.Context(), post.Category); err != nil {
			slog.Warn("decrement category post count failed", "category", post.Category.Hex(), "error", err)
		}
		if err := h.categories.IncrementPostCount(r.Context(), *newCategory); err != nil {
			slog.Warn("increment category post count failed", "category", newCategory.Hex(), "error", err)
		}
		h.cache.InvalidateCategories(r.Context())
	}
	h.cache.InvalidatePosts(r.Context())

	view, err := h.shaper.shapeDetail(r.Context(), updated)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, view)
}

// Delete removes a post. Only the author or an admin may delete.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperror.NotFound("post"))
		return
	}
	post, err := h.posts.FindByIDOrSlug(r.Context(), id.Hex())
	if err != nil {
		writeError(w, err)
		return
	}
	if post == nil {
		writeError(w, apperror.NotFound("post"))
		return
	}
	if post.Author != user.ID && !user.IsAdmin() {
		writeError(w, apperror.Forbidden("not authorized to delete this post"))
		return
	}

	deleted, err := h.posts.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeError(w, apperror.NotFound("post"))
		return
	}

	if err := h.categories.DecrementPostCount(r.Context(), post.Category); err != nil {
		slog.Warn("decrement category post count failed", "category", post.Category.Hex(), "error", err)
	}
	h.cache.InvalidatePosts(r.Context())
	h.cache.InvalidateCategories(r.Context())
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "post deleted"})
}

type commentRequest struct {
	Content string `json:"content"`
}

// AddComment appends a comment by the authenticated user and returns the
// post's full comment list in insertion order.
func (h *Posts) AddComment(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperror.NotFound("post"))
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.Validation([]apperror.FieldError{{Field: "body", Message: "invalid request body"}}))
		return
	}
	if fields := validate.Comment(req.Content); len(fields) > 0 {
		writeError(w, apperror.Validation(fields))
		return
	}

	comments, err := h.posts.AddComment(r.Context(), id, user.ID, strings.TrimSpace(req.Content))
	if err != nil {
		writeError(w, err)
		return
	}
	if comments == nil {
		writeError(w, apperror.NotFound("post"))
		return
	}

	views, err := h.shaper.shapeComments(r.Context(), comments)
	if err != nil {
		writeError(w, err)
		return
	}
	h.cache.InvalidatePosts(r.Context())
	writeData(w, http.StatusCreated, views)
}

// postRequest carries the mutable post fields. Pointers distinguish absent
// fields from empty ones so partial updates leave unset fields alone.
type postRequest struct {
	Title    *string
	Content  *string
	Excerpt  *string
	Category *string
	Tags     []string
}

// parsePostRequest reads the post payload from either a JSON body or the
// multipart form left behind by the upload middleware. Multipart tags come
// as a single comma-separated field.
func parsePostRequest(r *http.Request) (postRequest, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if r.MultipartForm == nil {
			if err := r.ParseMultipartForm(upload.MaxSize); err != nil {
				return postRequest{}, apperror.Validation([]apperror.FieldError{{Field: "body", Message: "invalid request body"}})
			}
		}
		var req postRequest
		values := r.MultipartForm.Value
		req.Title = formField(values, "title")
		req.Content = formField(values, "content")
		req.Excerpt = formField(values, "excerpt")
		req.Category = formField(values, "category")
		if tags := formField(values, "tags"); tags != nil {
			req.Tags = splitTags(*tags)
		}
		return req, nil
	}

	var body struct {
		Title    *string  `json:"title"`
		Content  *string  `json:"content"`
		Excerpt  *string  `json:"excerpt"`
		Category *string  `json:"category"`
		Tags     []string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return postRequest{}, apperror.Validation([]apperror.FieldError{{Field: "body", Message: "invalid request body"}})
	}
	return postRequest{
		Title:    body.Title,
		Content:  body.Content,
		Excerpt:  body.Excerpt,
		Category: body.Category,
		Tags:     body.Tags,
	}, nil
}

func formField(values map[string][]string, name string) *string {
	if vals, ok := values[name]; ok && len(vals) > 0 {
		return &vals[0]
	}
	return nil
}

func splitTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// listCacheKey builds a canonical cache key from the listing options so
// equivalent queries share an entry.
func listCacheKey(opts store.ListOptions) string {
	v := url.Values{}
	v.Set("page", fmt.Sprint(opts.Page))
	v.Set("limit", fmt.Sprint(opts.Limit))
	if opts.Category != nil {
		v.Set("category", opts.Category.Hex())
	}
	if opts.Search != "" {
		v.Set("search", opts.Search)
	}
	return v.Encode()
}
