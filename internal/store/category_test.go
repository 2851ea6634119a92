// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"testing"

	"inkpress/internal/apperror"
	"inkpress/internal/models"
)

func TestCategoryStoreCreate(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	ctx := context.Background()

	t.Cleanup(func() { cleanCategories(t, db, "tech-life") })

	cat, err := s.Create(ctx, "Tech & Life", "Technology and lifestyle", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if cat.Slug != "tech-life" {
		t.Errorf("slug: got %q, want %q", cat.Slug, "tech-life")
	}
	if cat.Color != models.DefaultCategoryColor {
		t.Errorf("color: got %q, want default %q", cat.Color, models.DefaultCategoryColor)
	}
	if !cat.IsActive {
		t.Error("expected new category to be active")
	}
	if cat.PostCount != 0 {
		t.Errorf("post count: got %d, want 0", cat.PostCount)
	}
}

func TestCategoryStoreCreateDuplicateName(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	ctx := context.Background()

	t.Cleanup(func() { cleanCategories(t, db, "duplicated") })

	if _, err := s.Create(ctx, "Duplicated", "", "#112233"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := s.Create(ctx, "Duplicated", "", "#445566")
	if !errors.Is(err, apperror.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestCategoryStoreFindByIDOrSlug(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	ctx := context.Background()

	t.Cleanup(func() { cleanCategories(t, db, "lookup-test") })

	created, err := s.Create(ctx, "Lookup Test", "", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// By slug.
	cat, err := s.FindByIDOrSlug(ctx, "lookup-test", true)
	if err != nil {
		t.Fatalf("FindByIDOrSlug (slug): %v", err)
	}
	if cat == nil || cat.ID != created.ID {
		t.Fatal("slug lookup did not resolve the created category")
	}

	// By hex ID.
	cat, err = s.FindByIDOrSlug(ctx, created.ID.Hex(), true)
	if err != nil {
		t.Fatalf("FindByIDOrSlug (id): %v", err)
	}
	if cat == nil || cat.ID != created.ID {
		t.Fatal("id lookup did not resolve the created category")
	}

	// Inactive categories resolve as missing with activeOnly.
	inactive := false
	if _, err := s.Update(ctx, created.ID, CategoryPatch{IsActive: &inactive}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	cat, err = s.FindByIDOrSlug(ctx, "lookup-test", true)
	if err != nil {
		t.Fatalf("FindByIDOrSlug (inactive): %v", err)
	}
	if cat != nil {
		t.Error("inactive category resolved with activeOnly=true")
	}
	cat, err = s.FindByIDOrSlug(ctx, "lookup-test", false)
	if err != nil {
		t.Fatalf("FindByIDOrSlug (inactive, all): %v", err)
	}
	if cat == nil {
		t.Error("inactive category not resolved with activeOnly=false")
	}
}

func TestCategoryStoreUpdateRename(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	ctx := context.Background()

	t.Cleanup(func() { cleanCategories(t, db, "old-name", "new-name") })

	created, err := s.Create(ctx, "Old Name", "desc", "#112233")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Renaming regenerates the slug; untouched fields survive.
	name := "New Name"
	updated, err := s.Update(ctx, created.ID, CategoryPatch{Name: &name})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Slug != "new-name" {
		t.Errorf("slug: got %q, want %q", updated.Slug, "new-name")
	}
	if updated.Description != "desc" {
		t.Errorf("description changed unexpectedly: %q", updated.Description)
	}
	if updated.Color != "#112233" {
		t.Errorf("color changed unexpectedly: %q", updated.Color)
	}
}

func TestCategoryStoreDeleteWithPosts(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	ctx := context.Background()

	t.Cleanup(func() { cleanCategories(t, db, "guarded") })

	created, err := s.Create(ctx, "Guarded", "", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.IncrementPostCount(ctx, created.ID); err != nil {
		t.Fatalf("IncrementPostCount: %v", err)
	}

	err = s.Delete(ctx, created.ID)
	if !errors.Is(err, apperror.ErrHasDependents) {
		t.Errorf("expected ErrHasDependents, got %v", err)
	}

	// After the count drops to zero, deletion goes through.
	if err := s.DecrementPostCount(ctx, created.ID); err != nil {
		t.Fatalf("DecrementPostCount: %v", err)
	}
	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	cat, err := s.FindByIDOrSlug(ctx, created.ID.Hex(), false)
	if err != nil {
		t.Fatalf("FindByIDOrSlug: %v", err)
	}
	if cat != nil {
		t.Error("category still present after delete")
	}
}

func TestCategoryStoreDecrementFloor(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	ctx := context.Background()

	t.Cleanup(func() { cleanCategories(t, db, "floor-test") })

	created, err := s.Create(ctx, "Floor Test", "", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Decrementing at zero must not go negative.
	if err := s.DecrementPostCount(ctx, created.ID); err != nil {
		t.Fatalf("DecrementPostCount: %v", err)
	}

	cat, err := s.FindByIDOrSlug(ctx, created.ID.Hex(), true)
	if err != nil {
		t.Fatalf("FindByIDOrSlug: %v", err)
	}
	if cat.PostCount != 0 {
		t.Errorf("post count went below zero: %d", cat.PostCount)
	}
}
