// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultPostImage is the featured-image filename used when a post has no
// uploaded image. Clients substitute a placeholder for it.
const DefaultPostImage = "default-post.jpg"

// Comment is embedded in a post's comments array. Comments are append-only
// in this surface; their order is the order of insertion.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Author    primitive.ObjectID `bson:"author" json:"author"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Post represents a blog post. Author and Category are references resolved
// into projections at response-shaping time; Comments are embedded in the
// document itself.
type Post struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Slug          string             `bson:"slug" json:"slug"`
	Content       string             `bson:"content" json:"content"`
	Excerpt       string             `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	FeaturedImage string             `bson:"featuredImage" json:"featuredImage"`
	Author        primitive.ObjectID `bson:"author" json:"author"`
	Category      primitive.ObjectID `bson:"category" json:"category"`
	Tags          []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Comments      []Comment          `bson:"comments" json:"comments"`
	ViewCount     int64              `bson:"viewCount" json:"viewCount"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Pagination describes one page of a post listing.
type Pagination struct {
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}
