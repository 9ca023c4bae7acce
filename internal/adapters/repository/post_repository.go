package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/microfeed/core/internal/domain/entities"
)

// PostRepository stores posts in the posts collection snapshot. All
// mutations hold the collection lock across the full
// load-mutate-save cycle.
type PostRepository struct {
	store *Store
}

// NewPostRepository creates a new post repository
func NewPostRepository(store *Store) *PostRepository {
	return &PostRepository{store: store}
}

// List returns the full post collection in storage order.
func (r *PostRepository) List(ctx context.Context) ([]entities.Post, error) {
	var posts []entities.Post
	if err := r.store.Load(PostsCollection, &posts); err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}
	return posts, nil
}

// Create appends the post to the collection.
func (r *PostRepository) Create(ctx context.Context, post *entities.Post) error {
	unlock := r.store.Lock(PostsCollection)
	defer unlock()

	var posts []entities.Post
	if err := r.store.Load(PostsCollection, &posts); err != nil {
		return fmt.Errorf("failed to load posts: %w", err)
	}

	posts = append(posts, *post)

	if err := r.store.Save(PostsCollection, posts); err != nil {
		return fmt.Errorf("failed to save posts: %w", err)
	}

	return nil
}

// DeleteOwned removes the post only when it exists and is owned by
// ownerID. An absent post and a post owned by someone else produce the
// same error, so callers learn nothing about other users' posts.
func (r *PostRepository) DeleteOwned(ctx context.Context, postID, ownerID uuid.UUID) error {
	unlock := r.store.Lock(PostsCollection)
	defer unlock()

	var posts []entities.Post
	if err := r.store.Load(PostsCollection, &posts); err != nil {
		return fmt.Errorf("failed to load posts: %w", err)
	}

	kept := posts[:0]
	removed := false
	for i := range posts {
		if posts[i].ID == postID && posts[i].IsOwnedBy(ownerID) {
			removed = true
			continue
		}
		kept = append(kept, posts[i])
	}

	if !removed {
		return entities.ErrPostForbidden
	}

	if err := r.store.Save(PostsCollection, kept); err != nil {
		return fmt.Errorf("failed to save posts: %w", err)
	}

	return nil
}

// DeleteAllByOwner removes every post owned by ownerID and returns the
// removed count. Zero matches skips the save entirely.
func (r *PostRepository) DeleteAllByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	unlock := r.store.Lock(PostsCollection)
	defer unlock()

	var posts []entities.Post
	if err := r.store.Load(PostsCollection, &posts); err != nil {
		return 0, fmt.Errorf("failed to load posts: %w", err)
	}

	kept := posts[:0]
	for i := range posts {
		if !posts[i].IsOwnedBy(ownerID) {
			kept = append(kept, posts[i])
		}
	}

	removed := len(posts) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	if err := r.store.Save(PostsCollection, kept); err != nil {
		return 0, fmt.Errorf("failed to save posts: %w", err)
	}

	return removed, nil
}

// UpdatePost loads the post, applies fn to it in place, and persists
// the collection. An fn error aborts the save and propagates unchanged,
// so a rejected mutation leaves the file untouched.
func (r *PostRepository) UpdatePost(ctx context.Context, postID uuid.UUID, fn func(*entities.Post) error) (*entities.Post, error) {
	unlock := r.store.Lock(PostsCollection)
	defer unlock()

	var posts []entities.Post
	if err := r.store.Load(PostsCollection, &posts); err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}

	for i := range posts {
		if posts[i].ID != postID {
			continue
		}

		if err := fn(&posts[i]); err != nil {
			return nil, err
		}

		if err := r.store.Save(PostsCollection, posts); err != nil {
			return nil, fmt.Errorf("failed to save posts: %w", err)
		}

		updated := posts[i]
		return &updated, nil
	}

	return nil, entities.ErrPostNotFound
}
