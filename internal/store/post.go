// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"inkpress/internal/database"
	"inkpress/internal/models"
	"inkpress/internal/slug"
)

// PostStore manages posts, their embedded comments, and view counters.
type PostStore struct {
	col *mongo.Collection
}

// NewPostStore returns a new PostStore on the given database.
func NewPostStore(db *mongo.Database) *PostStore {
	return &PostStore{col: db.Collection(database.PostsCollection)}
}

// ListOptions filters and paginates a post listing. Category and Search
// are combined with logical AND when both are present.
type ListOptions struct {
	Page     int64
	Limit    int64
	Category *primitive.ObjectID
	Search   string
}

// List returns one page of posts, newest first, along with pagination
// metadata. Search matches title or content case-insensitively.
func (s *PostStore) List(ctx context.Context, opts ListOptions) ([]models.Post, models.Pagination, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 10
	}

	filter := bson.M{}
	if opts.Category != nil {
		filter["category"] = *opts.Category
	}
	if term := strings.TrimSpace(opts.Search); term != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"content": pattern},
		}
	}

	total, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("count posts: %w", err)
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((opts.Page - 1) * opts.Limit).
		SetLimit(opts.Limit)

	cur, err := s.col.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("list posts: %w", err)
	}
	defer cur.Close(ctx)

	var items []models.Post
	if err := cur.All(ctx, &items); err != nil {
		return nil, models.Pagination{}, fmt.Errorf("decode posts: %w", err)
	}

	p := models.Pagination{
		Page:  opts.Page,
		Limit: opts.Limit,
		Total: total,
		Pages: (total + opts.Limit - 1) / opts.Limit,
	}
	return items, p, nil
}

// FindByIDOrSlug resolves a post by either its hex ID or its slug, without
// side effects. Returns nil if not found.
func (s *PostStore) FindByIDOrSlug(ctx context.Context, key string) (*models.Post, error) {
	p := &models.Post{}
	err := s.col.FindOne(ctx, idOrSlugFilter(key)).Decode(p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	return p, nil
}

// GetAndCountView resolves a post by ID or slug and atomically increments
// its view counter, returning the post as it looks after the increment.
// Each successful public read bumps the counter by exactly one. Returns
// nil if not found.
func (s *PostStore) GetAndCountView(ctx context.Context, key string) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	p := &models.Post{}
	err := s.col.FindOneAndUpdate(ctx, idOrSlugFilter(key),
		bson.M{"$inc": bson.M{"viewCount": 1}}, opts).Decode(p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return p, nil
}

// Create inserts a new post. The slug derives from the title; on a slug
// collision a short disambiguating suffix is appended and the insert is
// retried.
func (s *PostStore) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.FeaturedImage == "" {
		p.FeaturedImage = models.DefaultPostImage
	}
	if p.Comments == nil {
		p.Comments = []models.Comment{}
	}

	base := slug.Generate(p.Title)
	p.Slug = base
	for attempt := 0; ; attempt++ {
		res, err := s.col.InsertOne(ctx, p)
		if err == nil {
			p.ID = res.InsertedID.(primitive.ObjectID)
			return p, nil
		}
		if !mongo.IsDuplicateKeyError(err) || attempt >= 3 {
			return nil, fmt.Errorf("create post: %w", err)
		}
		p.Slug = fmt.Sprintf("%s-%s", base, primitive.NewObjectID().Hex()[18:])
	}
}

// PostPatch carries the optional fields of a post update. Only non-nil
// fields are written.
type PostPatch struct {
	Title         *string
	Content       *string
	Excerpt       *string
	Category      *primitive.ObjectID
	Tags          []string
	FeaturedImage *string
}

// Update applies a partial update to a post. The slug is recomputed only
// when the title changes, with the same collision suffix as Create.
// Returns the updated post, or nil if it does not exist.
func (s *PostStore) Update(ctx context.Context, id primitive.ObjectID, patch PostPatch) (*models.Post, error) {
	set := bson.M{"updatedAt": time.Now()}
	var base string
	if patch.Title != nil {
		set["title"] = *patch.Title
		base = slug.Generate(*patch.Title)
		set["slug"] = base
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.Excerpt != nil {
		set["excerpt"] = *patch.Excerpt
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Tags != nil {
		set["tags"] = patch.Tags
	}
	if patch.FeaturedImage != nil {
		set["featuredImage"] = *patch.FeaturedImage
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	for attempt := 0; ; attempt++ {
		p := &models.Post{}
		err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(p)
		if err == nil {
			return p, nil
		}
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		if patch.Title == nil || !mongo.IsDuplicateKeyError(err) || attempt >= 3 {
			return nil, fmt.Errorf("update post: %w", err)
		}
		set["slug"] = fmt.Sprintf("%s-%s", base, primitive.NewObjectID().Hex()[18:])
	}
}

// Delete removes a post by ID. Reports whether a document was deleted.
func (s *PostStore) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	return res.DeletedCount == 1, nil
}

// AddComment appends a comment to a post's embedded comment list and
// returns the full updated list. The append is a single-document $push, so
// concurrent comments never lose each other. Returns nil if the post does
// not exist.
func (s *PostStore) AddComment(ctx context.Context, postID, author primitive.ObjectID, content string) ([]models.Comment, error) {
	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		Author:    author,
		Content:   content,
		CreatedAt: time.Now(),
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	p := &models.Post{}
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": postID},
		bson.M{"$push": bson.M{"comments": comment}}, opts).Decode(p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return p.Comments, nil
}
