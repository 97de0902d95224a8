package repository

import (
	"context"
	"testing"

	"quill/internal/models"
)

func TestUserCreateAndLookup(t *testing.T) {
	t.Parallel()

	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	user := &models.User{Username: "alice", Email: "a@x.com", PasswordHash: "digest"}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected assigned ID")
	}

	got, err := repo.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if got == nil || got.Email != "a@x.com" {
		t.Fatalf("unexpected user: %+v", got)
	}

	byID, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if byID == nil || byID.Username != "alice" {
		t.Fatalf("unexpected user: %+v", byID)
	}
}

func TestUserLookupMissReturnsNil(t *testing.T) {
	t.Parallel()

	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	got, err := repo.GetByUsername(ctx, "nobody")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for unknown user, got %+v", got)
	}
}

func TestUserDuplicateConflicts(t *testing.T) {
	t.Parallel()

	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, &models.User{Username: "alice", Email: "a@x.com", PasswordHash: "d"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.Create(ctx, &models.User{Username: "alice", Email: "other@x.com", PasswordHash: "d"}); !models.IsConflict(err) {
		t.Fatalf("expected CONFLICT on duplicate username, got %v", err)
	}
	if err := repo.Create(ctx, &models.User{Username: "bob", Email: "a@x.com", PasswordHash: "d"}); !models.IsConflict(err) {
		t.Fatalf("expected CONFLICT on duplicate email, got %v", err)
	}
}
