// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultCategoryColor is assigned when a category is created without an
// explicit display color.
const DefaultCategoryColor = "#3B82F6"

// Category represents a blog category. PostCount is a denormalized
// aggregate kept in sync by the category store's increment/decrement
// operations; it is never recomputed per query.
type Category struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Color       string             `bson:"color" json:"color"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	PostCount   int64              `bson:"postCount" json:"postCount"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CategoryRef is the minimal category projection embedded in post responses.
type CategoryRef struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Slug  string             `json:"slug"`
	Color string             `json:"color"`
}

// Ref returns the minimal category projection for embedding in responses.
func (c *Category) Ref() CategoryRef {
	return CategoryRef{ID: c.ID, Name: c.Name, Slug: c.Slug, Color: c.Color}
}
