// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package web serves the public-facing site. Templates are embedded so the
// binary stays self-contained; the API remains the primary surface and the
// site renders from the same stores.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strings"

	"inkpress/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// placeholderImage is shown for posts carrying the default image marker.
const placeholderImage = "https://placehold.co/600x400"

// PageData holds everything the public templates receive.
type PageData struct {
	Title      string
	Posts      []PostData
	Post       *PostData
	Category   *models.Category
	Categories []models.Category
	Pagination *models.Pagination
}

// PostData is a post prepared for rendering: references resolved, markdown
// already converted, image URL substituted.
type PostData struct {
	Title        string
	Slug         string
	Excerpt      string
	ContentHTML  template.HTML
	ImageURL     string
	AuthorName   string
	CategoryName string
	CategorySlug string
	Color        string
	Tags         []string
	ViewCount    int64
	CreatedAt    string
	Comments     []CommentData
}

type CommentData struct {
	AuthorName string
	Content    string
	CreatedAt  string
}

// ImageURL maps a stored featured-image filename to a servable URL,
// substituting a placeholder for the default marker.
func ImageURL(filename string) string {
	if filename == "" || filename == models.DefaultPostImage {
		return placeholderImage
	}
	return "/uploads/" + filename
}

// Renderer parses the embedded public templates and executes them against
// the base layout.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses every page template paired with the base layout.
func NewRenderer() (*Renderer, error) {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}

	r := &Renderer{templates: make(map[string]*template.Template)}
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if name == "base" {
			continue
		}
		tmpl, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", entry.Name(), err)
		}
		r.templates[name] = tmpl
	}
	return r, nil
}

// Render executes the named page template with the base layout.
func (r *Renderer) Render(w http.ResponseWriter, name string, data PageData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tmpl.ExecuteTemplate(w, "base", data)
}
