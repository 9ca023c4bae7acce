package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microfeed/core/internal/adapters/repository"
	"github.com/microfeed/core/internal/domain/entities"
	"github.com/microfeed/core/internal/infrastructure/logger"
	"github.com/microfeed/core/internal/ports"
)

func newFeedServices(t *testing.T) (*PostService, *ReactionService, *CommentService) {
	t.Helper()
	postRepo := repository.NewPostRepository(newTestStore(t))
	return NewPostService(postRepo, logger.NewNop()),
		NewReactionService(postRepo, logger.NewNop()),
		NewCommentService(postRepo, logger.NewNop())
}

func TestReactionServiceToggleLikeLifecycle(t *testing.T) {
	postSvc, reactionSvc, _ := newFeedServices(t)
	ctx := context.Background()
	alice := newIdentity("alice")
	bob := newIdentity("bob")

	post, err := postSvc.Create(ctx, alice, ports.CreatePostRequest{Content: "hi"})
	require.NoError(t, err)

	// neutral -> liked
	updated, err := reactionSvc.ToggleLike(ctx, post.ID, bob)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{bob.UserID}, updated.LikedBy)

	// dislike while liked is rejected and changes nothing
	_, err = reactionSvc.ToggleDislike(ctx, post.ID, bob)
	assert.ErrorIs(t, err, entities.ErrReactionConflict)

	posts, err := postSvc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{bob.UserID}, posts[0].LikedBy)
	assert.Empty(t, posts[0].DislikedBy)

	// liked -> neutral
	updated, err = reactionSvc.ToggleLike(ctx, post.ID, bob)
	require.NoError(t, err)
	assert.Empty(t, updated.LikedBy)
}

func TestReactionServiceToggleDislikeLifecycle(t *testing.T) {
	postSvc, reactionSvc, _ := newFeedServices(t)
	ctx := context.Background()
	alice := newIdentity("alice")
	bob := newIdentity("bob")

	post, err := postSvc.Create(ctx, alice, ports.CreatePostRequest{Content: "hi"})
	require.NoError(t, err)

	updated, err := reactionSvc.ToggleDislike(ctx, post.ID, bob)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{bob.UserID}, updated.DislikedBy)

	_, err = reactionSvc.ToggleLike(ctx, post.ID, bob)
	assert.ErrorIs(t, err, entities.ErrReactionConflict)

	updated, err = reactionSvc.ToggleDislike(ctx, post.ID, bob)
	require.NoError(t, err)
	assert.Empty(t, updated.DislikedBy)
}

func TestReactionServiceUnknownPost(t *testing.T) {
	_, reactionSvc, _ := newFeedServices(t)
	ctx := context.Background()
	bob := newIdentity("bob")

	_, err := reactionSvc.ToggleLike(ctx, uuid.New(), bob)
	assert.ErrorIs(t, err, entities.ErrPostNotFound)

	_, err = reactionSvc.ToggleDislike(ctx, uuid.New(), bob)
	assert.ErrorIs(t, err, entities.ErrPostNotFound)
}

func TestReactionServiceRequiresIdentity(t *testing.T) {
	postSvc, reactionSvc, _ := newFeedServices(t)
	ctx := context.Background()

	post, err := postSvc.Create(ctx, newIdentity("alice"), ports.CreatePostRequest{Content: "hi"})
	require.NoError(t, err)

	_, err = reactionSvc.ToggleLike(ctx, post.ID, entities.Identity{})
	assert.ErrorIs(t, err, entities.ErrValidation)
}

func TestCommentServiceAdd(t *testing.T) {
	postSvc, _, commentSvc := newFeedServices(t)
	ctx := context.Background()
	alice := newIdentity("alice")
	bob := newIdentity("bob")

	post, err := postSvc.Create(ctx, alice, ports.CreatePostRequest{Content: "hi"})
	require.NoError(t, err)

	first, err := commentSvc.Add(ctx, post.ID, bob, ports.AddCommentRequest{Text: "nice"})
	require.NoError(t, err)
	assert.Equal(t, "nice", first.Text)
	assert.Equal(t, bob.UserID, first.UserID)
	assert.Equal(t, "bob", first.User)

	second, err := commentSvc.Add(ctx, post.ID, alice, ports.AddCommentRequest{Text: "thanks"})
	require.NoError(t, err)

	posts, err := postSvc.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts[0].Comments, 2)
	assert.Equal(t, first.ID, posts[0].Comments[0].ID)
	assert.Equal(t, second.ID, posts[0].Comments[1].ID)
}

func TestCommentServiceValidation(t *testing.T) {
	postSvc, _, commentSvc := newFeedServices(t)
	ctx := context.Background()
	alice := newIdentity("alice")

	post, err := postSvc.Create(ctx, alice, ports.CreatePostRequest{Content: "hi"})
	require.NoError(t, err)

	t.Run("empty text", func(t *testing.T) {
		_, err := commentSvc.Add(ctx, post.ID, alice, ports.AddCommentRequest{Text: "  "})
		assert.ErrorIs(t, err, entities.ErrValidation)
	})

	t.Run("missing identity", func(t *testing.T) {
		_, err := commentSvc.Add(ctx, post.ID, entities.Identity{}, ports.AddCommentRequest{Text: "hi"})
		assert.ErrorIs(t, err, entities.ErrValidation)
	})

	t.Run("unknown post", func(t *testing.T) {
		_, err := commentSvc.Add(ctx, uuid.New(), alice, ports.AddCommentRequest{Text: "hi"})
		assert.ErrorIs(t, err, entities.ErrPostNotFound)
	})
}
