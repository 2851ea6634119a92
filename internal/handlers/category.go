// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkpress/internal/apperror"
	"inkpress/internal/cache"
	"inkpress/internal/store"
	"inkpress/internal/validate"
)

// Categories serves the category resource endpoints.
type Categories struct {
	categories *store.CategoryStore
	cache      *cache.ListCache
}

func NewCategories(categories *store.CategoryStore, listCache *cache.ListCache) *Categories {
	return &Categories{categories: categories, cache: listCache}
}

// List returns all active categories sorted by name.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	if payload, ok := h.cache.GetCategories(r.Context()); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(payload)
		return
	}

	cats, err := h.categories.List(r.Context(), true)
	if err != nil {
		writeError(w, err)
		return
	}

	env := envelope{Success: true, Data: cats}
	if payload, err := json.Marshal(env); err == nil {
		h.cache.SetCategories(r.Context(), payload)
	}
	writeJSON(w, http.StatusOK, env)
}

// Get returns a single active category by ID or slug.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	cat, err := h.categories.FindByIDOrSlug(r.Context(), chi.URLParam(r, "key"), true)
	if err != nil {
		writeError(w, err)
		return
	}
	if cat == nil {
		writeError(w, apperror.NotFound("category"))
		return
	}
	writeData(w, http.StatusOK, cat)
}

type categoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	IsActive    *bool   `json:"isActive"`
}

// Create adds a category. Admin only; gating happens in the router.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.Validation([]apperror.FieldError{{Field: "body", Message: "invalid request body"}}))
		return
	}

	name := strOrEmpty(req.Name)
	description := strOrEmpty(req.Description)
	color := strOrEmpty(req.Color)
	if fields := validate.Category(name, description, color); len(fields) > 0 {
		writeError(w, apperror.Validation(fields))
		return
	}

	cat, err := h.categories.Create(r.Context(), name, description, color)
	if err != nil {
		writeError(w, err)
		return
	}
	h.cache.InvalidateCategories(r.Context())
	writeData(w, http.StatusCreated, cat)
}

// Update applies a partial update to a category. Only provided fields
// change; renaming regenerates the slug.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperror.NotFound("category"))
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.Validation([]apperror.FieldError{{Field: "body", Message: "invalid request body"}}))
		return
	}

	var fields []validate.Field
	if req.Name != nil {
		fields = append(fields, validate.Field{Name: "name", Value: *req.Name, Checks: []validate.Check{validate.Length(2, 50, "category name must be between 2 and 50 characters")}})
	}
	if req.Description != nil {
		fields = append(fields, validate.Field{Name: "description", Value: *req.Description, Optional: true, Checks: []validate.Check{validate.MaxLength(200, "description cannot be more than 200 characters")}})
	}
	if req.Color != nil {
		fields = append(fields, validate.Field{Name: "color", Value: *req.Color, Optional: true, Checks: []validate.Check{validate.HexColor()}})
	}
	if violations := validate.Run(fields...); len(violations) > 0 {
		writeError(w, apperror.Validation(violations))
		return
	}

	cat, err := h.categories.Update(r.Context(), id, store.CategoryPatch{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		IsActive:    req.IsActive,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if cat == nil {
		writeError(w, apperror.NotFound("category"))
		return
	}
	h.cache.InvalidateCategories(r.Context())
	writeData(w, http.StatusOK, cat)
}

// Delete removes a category that has no posts.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperror.NotFound("category"))
		return
	}
	if err := h.categories.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	h.cache.InvalidateCategories(r.Context())
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "category deleted"})
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
