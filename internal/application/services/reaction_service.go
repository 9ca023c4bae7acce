package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/microfeed/core/internal/domain/entities"
	"github.com/microfeed/core/internal/infrastructure/logger"
	"github.com/microfeed/core/internal/ports"
)

// ReactionService drives the like/dislike toggle state machine. The
// transition rules live on entities.Post; this service binds them to
// storage so the read-check-mutate sequence runs inside one collection
// critical section.
type ReactionService struct {
	postRepo ports.PostRepository
	logger   *logger.Logger
}

// NewReactionService creates a new reaction service
func NewReactionService(postRepo ports.PostRepository, logger *logger.Logger) *ReactionService {
	return &ReactionService{
		postRepo: postRepo,
		logger:   logger,
	}
}

// ToggleLike flips the caller's like on a post. Rejected while the
// caller's dislike is active; both membership lists stay untouched on
// rejection.
func (s *ReactionService) ToggleLike(ctx context.Context, postID uuid.UUID, identity entities.Identity) (*entities.Post, error) {
	return s.toggle(ctx, postID, identity, "toggle_like", (*entities.Post).ToggleLike)
}

// ToggleDislike flips the caller's dislike on a post, with the mirrored
// rejection while a like is active.
func (s *ReactionService) ToggleDislike(ctx context.Context, postID uuid.UUID, identity entities.Identity) (*entities.Post, error) {
	return s.toggle(ctx, postID, identity, "toggle_dislike", (*entities.Post).ToggleDislike)
}

func (s *ReactionService) toggle(ctx context.Context, postID uuid.UUID, identity entities.Identity, action string, fn func(*entities.Post, uuid.UUID) error) (*entities.Post, error) {
	if !identity.Valid() {
		return nil, entities.ErrValidation
	}

	post, err := s.postRepo.UpdatePost(ctx, postID, func(p *entities.Post) error {
		return fn(p, identity.UserID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.LogUserAction(identity.UserID.String(), action, map[string]interface{}{
		"post_id":  postID,
		"likes":    len(post.LikedBy),
		"dislikes": len(post.DislikedBy),
	})

	return post, nil
}
