// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkpress/internal/models"
	"inkpress/internal/store"
)

// postView is a post with its author and category references resolved into
// embedded projections. Lists omit comments and report a count instead;
// the detail view carries the resolved comments.
type postView struct {
	ID            primitive.ObjectID `json:"id"`
	Title         string             `json:"title"`
	Slug          string             `json:"slug"`
	Content       string             `json:"content,omitempty"`
	Excerpt       string             `json:"excerpt,omitempty"`
	FeaturedImage string             `json:"featuredImage"`
	Author        models.AuthorRef   `json:"author"`
	Category      models.CategoryRef `json:"category"`
	Tags          []string           `json:"tags,omitempty"`
	Comments      []commentView      `json:"comments,omitempty"`
	CommentCount  int                `json:"commentCount"`
	ViewCount     int64              `json:"viewCount"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

type commentView struct {
	ID        primitive.ObjectID `json:"id"`
	Author    models.AuthorRef   `json:"author"`
	Content   string             `json:"content"`
	CreatedAt time.Time          `json:"createdAt"`
}

// viewShaper resolves author and category references for response shaping.
type viewShaper struct {
	users      *store.UserStore
	categories *store.CategoryStore
}

// shapeList resolves references for a page of posts in two batch lookups.
// Content is dropped from list items; the excerpt stands in for it.
func (s viewShaper) shapeList(ctx context.Context, posts []models.Post) ([]postView, error) {
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

	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		v := shapePost(&p, authors, cats)
		v.Content = ""
		v.Comments = nil
		views = append(views, v)
	}
	return views, nil
}

// shapeDetail resolves references for a single post, including the authors
// of its embedded comments.
func (s viewShaper) shapeDetail(ctx context.Context, p *models.Post) (*postView, error) {
	authorIDs := []primitive.ObjectID{p.Author}
	for _, c := range p.Comments {
		authorIDs = append(authorIDs, c.Author)
	}

	authors, err := s.users.FindByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	cats, err := s.categories.FindByIDs(ctx, []primitive.ObjectID{p.Category})
	if err != nil {
		return nil, err
	}

	v := shapePost(p, authors, cats)
	v.Comments = shapeComments(p.Comments, authors)
	return &v, nil
}

// shapeComments resolves comment authors, preserving insertion order.
func (s viewShaper) shapeComments(ctx context.Context, comments []models.Comment) ([]commentView, error) {
	ids := make([]primitive.ObjectID, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.Author)
	}
	authors, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return shapeComments(comments, authors), nil
}

func shapePost(p *models.Post, authors map[primitive.ObjectID]models.User, cats map[primitive.ObjectID]models.Category) postView {
	v := postView{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Content:       p.Content,
		Excerpt:       p.Excerpt,
		FeaturedImage: p.FeaturedImage,
		Tags:          p.Tags,
		CommentCount:  len(p.Comments),
		ViewCount:     p.ViewCount,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if a, ok := authors[p.Author]; ok {
		v.Author = a.Ref()
	}
	if c, ok := cats[p.Category]; ok {
		v.Category = c.Ref()
	}
	return v
}

func shapeComments(comments []models.Comment, authors map[primitive.ObjectID]models.User) []commentView {
	views := make([]commentView, 0, len(comments))
	for _, c := range comments {
		cv := commentView{ID: c.ID, Content: c.Content, CreatedAt: c.CreatedAt}
		if a, ok := authors[c.Author]; ok {
			cv.Author = a.Ref()
		}
		views = append(views, cv)
	}
	return views
}
