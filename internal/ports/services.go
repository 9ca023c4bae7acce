package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/microfeed/core/internal/domain/entities"
)

// RegisterRequest is the input for account creation.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest is the input for authentication.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CreatePostRequest carries the post payload. Identity comes from the
// boundary layer, never from this body.
type CreatePostRequest struct {
	Content string `json:"content"`
	Image   string `json:"image"`
	Video   string `json:"video"`
}

// AddCommentRequest carries the comment text.
type AddCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// AuthService handles registration and credential checks.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*entities.User, error)
	Authenticate(ctx context.Context, req LoginRequest) (*entities.User, error)
}

// PostService handles the feed lifecycle.
type PostService interface {
	List(ctx context.Context) ([]entities.Post, error)
	Create(ctx context.Context, identity entities.Identity, req CreatePostRequest) (*entities.Post, error)
	Delete(ctx context.Context, postID uuid.UUID, identity entities.Identity) error
	ClearByOwner(ctx context.Context, identity entities.Identity) (int, error)
}

// ReactionService drives the like/dislike toggle state machine.
type ReactionService interface {
	ToggleLike(ctx context.Context, postID uuid.UUID, identity entities.Identity) (*entities.Post, error)
	ToggleDislike(ctx context.Context, postID uuid.UUID, identity entities.Identity) (*entities.Post, error)
}

// CommentService appends comments to posts.
type CommentService interface {
	Add(ctx context.Context, postID uuid.UUID, identity entities.Identity, req AddCommentRequest) (*entities.Comment, error)
}
