// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package web

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkpress/internal/markdown"
	"inkpress/internal/models"
	"inkpress/internal/store"
)

const dateFormat = "Jan 2, 2006"

// Site renders the public pages from the same stores the API uses.
type Site struct {
	renderer   *Renderer
	posts      *store.PostStore
	categories *store.CategoryStore
	users      *store.UserStore
}

func NewSite(renderer *Renderer, posts *store.PostStore, categories *store.CategoryStore, users *store.UserStore) *Site {
	return &Site{renderer: renderer, posts: posts, categories: categories, users: users}
}

// Home renders the paginated post listing.
func (s *Site) Home(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	if page < 1 {
		page = 1
	}
	s.renderList(w, r, store.ListOptions{Page: page, Limit: 10}, "Latest posts", nil)
}

// Category renders the post listing filtered to one category.
func (s *Site) Category(w http.ResponseWriter, r *http.Request) {
	cat, err := s.categories.FindByIDOrSlug(r.Context(), chi.URLParam(r, "slug"), true)
	if err != nil {
		s.serverError(w, err)
		return
	}
	if cat == nil {
		http.NotFound(w, r)
		return
	}

	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	if page < 1 {
		page = 1
	}
	s.renderList(w, r, store.ListOptions{Page: page, Limit: 10, Category: &cat.ID}, cat.Name, cat)
}

// Post renders a single post with markdown-converted content and its
// comments. Viewing through the site counts toward the view count, the
// same as through the API.
func (s *Site) Post(w http.ResponseWriter, r *http.Request) {
	post, err := s.posts.GetAndCountView(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.serverError(w, err)
		return
	}
	if post == nil {
		http.NotFound(w, r)
		return
	}

	authorIDs := []primitive.ObjectID{post.Author}
	for _, c := range post.Comments {
		authorIDs = append(authorIDs, c.Author)
	}
	authors, err := s.users.FindByIDs(r.Context(), authorIDs)
	if err != nil {
		s.serverError(w, err)
		return
	}
	cats, err := s.categories.FindByIDs(r.Context(), []primitive.ObjectID{post.Category})
	if err != nil {
		s.serverError(w, err)
		return
	}

	data := s.postData(post, authors, cats)

	contentHTML, err := markdown.ToHTML(post.Content)
	if err != nil {
		s.serverError(w, err)
		return
	}
	data.ContentHTML = template.HTML(contentHTML)

	for _, c := range post.Comments {
		cd := CommentData{Content: c.Content, CreatedAt: c.CreatedAt.Format(dateFormat)}
		if a, ok := authors[c.Author]; ok {
			cd.AuthorName = a.Name
		}
		data.Comments = append(data.Comments, cd)
	}

	if err := s.renderer.Render(w, "post", PageData{Title: post.Title, Post: &data}); err != nil {
		slog.Error("render post page failed", "slug", post.Slug, "error", err)
	}
}

func (s *Site) renderList(w http.ResponseWriter, r *http.Request, opts store.ListOptions, title string, cat *models.Category) {
	posts, pagination, err := s.posts.List(r.Context(), opts)
	if err != nil {
		s.serverError(w, err)
		return
	}

	items, err := s.listData(r.Context(), posts)
	if err != nil {
		s.serverError(w, err)
		return
	}

	data := PageData{Title: title, Posts: items, Category: cat, Pagination: &pagination}
	if err := s.renderer.Render(w, "home", data); err != nil {
		slog.Error("render post list failed", "error", err)
	}
}

func (s *Site) listData(ctx context.Context, posts []models.Post) ([]PostData, error) {
	authorIDs := make([]primitive.ObjectID, 0, len(posts))
	categoryIDs := make([]primitive.ObjectID, 0, len(posts))
	for _, p := range posts {
		authorIDs = append(authorIDs, p.Author)
		categoryIDs = append(categoryIDs, p.Category)
	}

	authors, err := s.users.FindByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	cats, err := s.categories.FindByIDs(ctx, categoryIDs)
	if err != nil {
		return nil, err
	}

	items := make([]PostData, 0, len(posts))
	for _, p := range posts {
		items = append(items, s.postData(&p, authors, cats))
	}
	return items, nil
}

func (s *Site) postData(p *models.Post, authors map[primitive.ObjectID]models.User, cats map[primitive.ObjectID]models.Category) PostData {
	data := PostData{
		Title:     p.Title,
		Slug:      p.Slug,
		Excerpt:   p.Excerpt,
		ImageURL:  ImageURL(p.FeaturedImage),
		Tags:      p.Tags,
		ViewCount: p.ViewCount,
		CreatedAt: p.CreatedAt.Format(dateFormat),
		Color:     models.DefaultCategoryColor,
	}
	if a, ok := authors[p.Author]; ok {
		data.AuthorName = a.Name
	}
	if c, ok := cats[p.Category]; ok {
		data.CategoryName = c.Name
		data.CategorySlug = c.Slug
		data.Color = c.Color
	}
	return data
}

func (s *Site) serverError(w http.ResponseWriter, err error) {
	slog.Error("public site request failed", "error", err)
	http.Error(w, "server error", http.StatusInternalServerError)
}
