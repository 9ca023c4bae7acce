package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/microfeed/core/internal/domain/entities"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
	List(ctx context.Context) ([]entities.User, error)
	// CreateUnique appends the user if no existing user has the same
	// username (exact match). The uniqueness check and the write happen
	// inside one collection critical section.
	CreateUnique(ctx context.Context, user *entities.User) error
}

// PostRepository defines the interface for post data operations. Every
// mutation runs as a whole load-modify-save cycle under the collection
// lock.
type PostRepository interface {
	List(ctx context.Context) ([]entities.Post, error)
	Create(ctx context.Context, post *entities.Post) error
	// DeleteOwned removes the post only when it exists and is owned by
	// ownerID; otherwise entities.ErrPostForbidden.
	DeleteOwned(ctx context.Context, postID, ownerID uuid.UUID) error
	// DeleteAllByOwner removes every post owned by ownerID and returns
	// how many were removed.
	DeleteAllByOwner(ctx context.Context, ownerID uuid.UUID) (int, error)
	// UpdatePost loads the post, applies fn, and persists the result.
	// fn errors abort the save and propagate unchanged.
	UpdatePost(ctx context.Context, postID uuid.UUID, fn func(*entities.Post) error) (*entities.Post, error)
}
