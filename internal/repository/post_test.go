package repository

import (
	"context"
	"testing"

	"quill/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Post{}); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func TestPostCreateDerivesSlug(t *testing.T) {
	t.Parallel()

	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	post, err := repo.Create(ctx, PostInput{Title: "Hello World!", Category: "cat1", Draft: true, Body: "hi"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if post.Slug != "hello-world" {
		t.Fatalf("expected slug hello-world, got %q", post.Slug)
	}
	if post.ID == 0 {
		t.Fatal("expected assigned ID")
	}
	if post.DatePosted.IsZero() {
		t.Fatal("expected DatePosted to be stamped")
	}
}

func TestPostCreateDuplicateTitleConflicts(t *testing.T) {
	t.Parallel()

	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	first, err := repo.Create(ctx, PostInput{Title: "Once", Category: "cat1", Body: "a"})
	if err != nil {
		t.Fatalf("first Create: %v", err)
	}

	if _, err := repo.Create(ctx, PostInput{Title: "Once", Category: "cat2", Body: "b"}); !models.IsConflict(err) {
		t.Fatalf("expected CONFLICT, got %v", err)
	}

	// The first post is unaffected.
	got, err := repo.GetBySlug(ctx, first.Slug)
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if got.Body != "a" {
		t.Fatalf("first post mutated: %+v", got)
	}
}

func TestPostUpdateRegeneratesSlugOnTitleChange(t *testing.T) {
	t.Parallel()

	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	post, err := repo.Create(ctx, PostInput{Title: "Old Title", Category: "cat1", Body: "body"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	created := post.DatePosted

	// Policy: the slug follows the title whenever the title changes.
	updated, err := repo.Update(ctx, post.Slug, PostInput{Title: "New Title", Category: "cat2", Draft: false, Body: "body2"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Slug != "new-title" {
		t.Fatalf("expected regenerated slug new-title, got %q", updated.Slug)
	}
	if !updated.DatePosted.Equal(created) {
		t.Fatalf("DatePosted changed on edit: %v vs %v", updated.DatePosted, created)
	}
	if updated.Category != "cat2" || updated.Draft || updated.Body != "body2" {
		t.Fatalf("fields not updated: %+v", updated)
	}

	// Same title submitted again: slug stays put.
	again, err := repo.Update(ctx, "new-title", PostInput{Title: "New Title", Category: "cat2", Body: "body3"})
	if err != nil {
		t.Fatalf("second Update: %v", err)
	}
	if again.Slug != "new-title" {
		t.Fatalf("slug changed without a title change: %q", again.Slug)
	}
}

func TestPostUpdateSlugCollisionConflicts(t *testing.T) {
	t.Parallel()

	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	if _, err := repo.Create(ctx, PostInput{Title: "Taken", Category: "cat1", Body: "x"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	victim, err := repo.Create(ctx, PostInput{Title: "Free", Category: "cat1", Body: "y"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Retitling "Free" to "Taken!" regenerates the slug to "taken",
	// which collides. The update must fail whole.
	if _, err := repo.Update(ctx, victim.Slug, PostInput{Title: "Taken!", Category: "cat1", Body: "y"}); !models.IsConflict(err) {
		t.Fatalf("expected CONFLICT, got %v", err)
	}

	got, err := repo.GetBySlug(ctx, "free")
	if err != nil {
		t.Fatalf("victim post lost: %v", err)
	}
	if got.Title != "Free" {
		t.Fatalf("partial write: %+v", got)
	}
}

func TestPostGetByID(t *testing.T) {
	t.Parallel()

	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, PostInput{Title: "By ID", Category: "cat1", Body: "x"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Slug != "by-id" {
		t.Fatalf("unexpected post: %+v", got)
	}

	if _, err := repo.GetByID(ctx, 9999); !models.IsNotFound(err) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestPostUpdateMissingIsNotFound(t *testing.T) {
	t.Parallel()

	repo := NewPostRepository(setupTestDB(t))

	if _, err := repo.Update(context.Background(), "no-such-post", PostInput{Title: "x"}); !models.IsNotFound(err) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestPostDeleteIsIdempotent(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	if _, err := repo.Create(ctx, PostInput{Title: "Keep Me", Category: "cat1", Body: "z"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.Delete(ctx, "does-not-exist"); err != nil {
		t.Fatalf("delete of missing slug must be a no-op, got %v", err)
	}

	var count int64
	if err := db.Model(&models.Post{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("store changed by no-op delete: %d rows", count)
	}

	if err := repo.Delete(ctx, "keep-me"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, "keep-me"); err != nil {
		t.Fatalf("repeat delete must be harmless, got %v", err)
	}

	if _, err := repo.GetBySlug(ctx, "keep-me"); !models.IsNotFound(err) {
		t.Fatalf("expected NOT_FOUND after delete, got %v", err)
	}
}

func TestPostListOrdersByDateDesc(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	for _, title := range []string{"First", "Second", "Third"} {
		if _, err := repo.Create(ctx, PostInput{Title: title, Category: "cat1", Body: title}); err != nil {
			t.Fatalf("Create %s: %v", title, err)
		}
	}

	posts, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(posts))
	}
	for i := 1; i < len(posts); i++ {
		if posts[i].DatePosted.After(posts[i-1].DatePosted) {
			t.Fatalf("posts not ordered newest first: %v", posts)
		}
	}
}
