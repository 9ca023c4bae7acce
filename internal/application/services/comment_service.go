package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/microfeed/core/internal/domain/entities"
	"github.com/microfeed/core/internal/infrastructure/logger"
	"github.com/microfeed/core/internal/ports"
)

// CommentService appends comments to posts. Comments are append-only;
// there is no edit or delete.
type CommentService struct {
	postRepo ports.PostRepository
	logger   *logger.Logger
}

// NewCommentService creates a new comment service
func NewCommentService(postRepo ports.PostRepository, logger *logger.Logger) *CommentService {
	return &CommentService{
		postRepo: postRepo,
		logger:   logger,
	}
}

// Add appends a comment to the post and returns it.
func (s *CommentService) Add(ctx context.Context, postID uuid.UUID, identity entities.Identity, req ports.AddCommentRequest) (*entities.Comment, error) {
	text := strings.TrimSpace(req.Text)
	if !identity.Valid() || text == "" {
		return nil, entities.ErrValidation
	}

	var comment entities.Comment
	_, err := s.postRepo.UpdatePost(ctx, postID, func(p *entities.Post) error {
		comment = p.AddComment(identity.UserID, identity.Username, text)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.LogUserAction(identity.UserID.String(), "add_comment", map[string]interface{}{
		"post_id":    postID,
		"comment_id": comment.ID,
	})

	return &comment, nil
}
