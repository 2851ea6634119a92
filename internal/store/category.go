// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"inkpress/internal/apperror"
	"inkpress/internal/database"
	"inkpress/internal/models"
	"inkpress/internal/slug"
)

// CategoryStore manages categories and their denormalized post counts.
type CategoryStore struct {
	col *mongo.Collection
}

// NewCategoryStore returns a new CategoryStore on the given database.
func NewCategoryStore(db *mongo.Database) *CategoryStore {
	return &CategoryStore{col: db.Collection(database.CategoriesCollection)}
}

// List returns categories ordered by name ascending. With activeOnly set,
// inactive categories are excluded.
func (s *CategoryStore) List(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer cur.Close(ctx)

	var items []models.Category
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return items, nil
}

// FindByIDs returns the categories for the given IDs keyed by ID. Missing
// IDs are simply absent from the map.
func (s *CategoryStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Category, error) {
	if len(ids) == 0 {
		return map[primitive.ObjectID]models.Category{}, nil
	}

	cur, err := s.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	defer cur.Close(ctx)

	var items []models.Category
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}

	byID := make(map[primitive.ObjectID]models.Category, len(items))
	for _, c := range items {
		byID[c.ID] = c
	}
	return byID, nil
}

// FindByIDOrSlug resolves a category by either its hex ID or its slug.
// With activeOnly set, inactive categories resolve as missing. Returns nil
// if not found.
func (s *CategoryStore) FindByIDOrSlug(ctx context.Context, key string, activeOnly bool) (*models.Category, error) {
	filter := idOrSlugFilter(key)
	if activeOnly {
		filter["isActive"] = true
	}

	c := &models.Category{}
	err := s.col.FindOne(ctx, filter).Decode(c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	return c, nil
}

// Create inserts a new category, deriving its slug from the name and
// defaulting the color when omitted. A name collision returns
// apperror.ErrDuplicate.
func (s *CategoryStore) Create(ctx context.Context, name, description, color string) (*models.Category, error) {
	if color == "" {
		color = models.DefaultCategoryColor
	}

	now := time.Now()
	c := &models.Category{
		Name:        strings.TrimSpace(name),
		Slug:        slug.Generate(name),
		Description: description,
		Color:       color,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	res, err := s.col.InsertOne(ctx, c)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperror.Duplicate("category already exists with this name")
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	c.ID = res.InsertedID.(primitive.ObjectID)
	return c, nil
}

// CategoryPatch carries the optional fields of a category update. Only
// non-nil fields are written.
type CategoryPatch struct {
	Name        *string
	Description *string
	Color       *string
	IsActive    *bool
}

// Update applies a partial update to a category. The slug is recomputed
// only when the name changes, keeping it a pure function of the name.
// Returns the updated category, or nil if it does not exist.
func (s *CategoryStore) Update(ctx context.Context, id primitive.ObjectID, patch CategoryPatch) (*models.Category, error) {
	set := bson.M{"updatedAt": time.Now()}
	if patch.Name != nil {
		set["name"] = strings.TrimSpace(*patch.Name)
		set["slug"] = slug.Generate(*patch.Name)
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Color != nil {
		set["color"] = *patch.Color
	}
	if patch.IsActive != nil {
		set["isActive"] = *patch.IsActive
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	c := &models.Category{}
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperror.Duplicate("category already exists with this name")
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

// Delete removes a category. The delete filter requires postCount == 0 so
// a category with dependent posts is never removed, even under concurrent
// post creation. Returns apperror.ErrHasDependents when blocked and
// apperror.ErrNotFound when the category does not exist.
func (s *CategoryStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id, "postCount": 0})
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if res.DeletedCount == 1 {
		return nil
	}

	// Nothing deleted: either missing or still referenced by posts.
	count, err := s.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete category lookup: %w", err)
	}
	if count == 0 {
		return apperror.NotFound("category")
	}
	return apperror.HasDependents("cannot delete category with existing posts")
}

// IncrementPostCount adjusts the denormalized post count up by one.
func (s *CategoryStore) IncrementPostCount(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"postCount": 1}})
	if err != nil {
		return fmt.Errorf("increment post count: %w", err)
	}
	return nil
}

// DecrementPostCount adjusts the denormalized post count down by one,
// flooring at zero: the update filter skips documents already at zero.
func (s *CategoryStore) DecrementPostCount(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id, "postCount": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"postCount": -1}},
	)
	if err != nil {
		return fmt.Errorf("decrement post count: %w", err)
	}
	return nil
}

// idOrSlugFilter builds a filter matching either a hex ObjectID or a slug.
// Keys that do not parse as ObjectIDs only match on slug.
func idOrSlugFilter(key string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(key); err == nil {
		return bson.M{"$or": bson.A{bson.M{"_id": oid}, bson.M{"slug": key}}}
	}
	return bson.M{"slug": key}
}
