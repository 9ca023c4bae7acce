package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/microfeed/core/internal/domain/entities"
)

// UserRepository stores users in the users collection snapshot.
type UserRepository struct {
	store *Store
}

// NewUserRepository creates a new user repository
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

// GetByID returns the user with the given id.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}

	return nil, entities.ErrUserNotFound
}

// GetByUsername returns the user with the given username (exact match).
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}

	return nil, entities.ErrUserNotFound
}

// List returns the full user collection in storage order.
func (r *UserRepository) List(ctx context.Context) ([]entities.User, error) {
	var users []entities.User
	if err := r.store.Load(UsersCollection, &users); err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	return users, nil
}

// CreateUnique appends the user unless the username is already taken.
// The check and the append run under the collection lock, so two
// concurrent registrations of the same name cannot both succeed.
func (r *UserRepository) CreateUnique(ctx context.Context, user *entities.User) error {
	unlock := r.store.Lock(UsersCollection)
	defer unlock()

	var users []entities.User
	if err := r.store.Load(UsersCollection, &users); err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}

	for i := range users {
		if users[i].Username == user.Username {
			return entities.ErrUsernameTaken
		}
	}

	users = append(users, *user)

	if err := r.store.Save(UsersCollection, users); err != nil {
		return fmt.Errorf("failed to save users: %w", err)
	}

	return nil
}
