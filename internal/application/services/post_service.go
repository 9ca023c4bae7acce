package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/microfeed/core/internal/domain/entities"
	"github.com/microfeed/core/internal/infrastructure/logger"
	"github.com/microfeed/core/internal/ports"
)

// PostService handles the feed lifecycle.
type PostService struct {
	postRepo ports.PostRepository
	logger   *logger.Logger
}

// NewPostService creates a new post service
func NewPostService(postRepo ports.PostRepository, logger *logger.Logger) *PostService {
	return &PostService{
		postRepo: postRepo,
		logger:   logger,
	}
}

// List returns every post in storage order. Filtering and pagination
// are left to callers.
func (s *PostService) List(ctx context.Context) ([]entities.Post, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []entities.Post{}
	}
	return posts, nil
}

// Create adds a post to the feed. A post must carry at least one of
// content, image, or video.
func (s *PostService) Create(ctx context.Context, identity entities.Identity, req ports.CreatePostRequest) (*entities.Post, error) {
	if !identity.Valid() {
		return nil, entities.ErrValidation
	}

	post := &entities.Post{
		ID:         uuid.New(),
		UserID:     identity.UserID,
		Username:   identity.Username,
		Content:    req.Content,
		Image:      req.Image,
		Video:      req.Video,
		Timestamp:  time.Now().UTC(),
		LikedBy:    []uuid.UUID{},
		DislikedBy: []uuid.UUID{},
		Comments:   []entities.Comment{},
	}

	if !post.HasPayload() {
		return nil, entities.ErrValidation
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	s.logger.LogUserAction(identity.UserID.String(), "create_post", map[string]interface{}{
		"post_id": post.ID,
	})

	return post, nil
}

// Delete removes a single post when the requester owns it.
func (s *PostService) Delete(ctx context.Context, postID uuid.UUID, identity entities.Identity) error {
	if !identity.Valid() {
		return entities.ErrValidation
	}

	if err := s.postRepo.DeleteOwned(ctx, postID, identity.UserID); err != nil {
		return err
	}

	s.logger.LogUserAction(identity.UserID.String(), "delete_post", map[string]interface{}{
		"post_id": postID,
	})

	return nil
}

// ClearByOwner removes every post the requester owns and returns the
// removed count. Zero matches is reported as entities.ErrNoPosts.
func (s *PostService) ClearByOwner(ctx context.Context, identity entities.Identity) (int, error) {
	if !identity.Valid() {
		return 0, entities.ErrValidation
	}

	removed, err := s.postRepo.DeleteAllByOwner(ctx, identity.UserID)
	if err != nil {
		return 0, err
	}
	if removed == 0 {
		return 0, entities.ErrNoPosts
	}

	s.logger.LogUserAction(identity.UserID.String(), "clear_posts", map[string]interface{}{
		"removed": removed,
	})

	return removed, nil
}
