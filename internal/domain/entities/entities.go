package entities

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrValidation         = errors.New("invalid input")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrPostForbidden      = errors.New("post not found or not owned by requester")
	ErrNoPosts            = errors.New("no posts for user")
	ErrReactionConflict   = errors.New("conflicting reaction")
)

// User represents a registered account. The same struct is the stored
// record, so the hash must survive JSON marshaling; it still never
// leaves the process because the auth service strips it via Sanitized
// before returning a user, and omitempty drops the emptied field from
// responses.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Sanitized returns a copy safe to hand to callers.
func (u User) Sanitized() *User {
	u.PasswordHash = ""
	return &u
}

// Identity is the authenticated caller as established by the boundary
// layer. The core never trusts identity fields inside request bodies.
type Identity struct {
	UserID   uuid.UUID
	Username string
}

func (i Identity) Valid() bool {
	return i.UserID != uuid.Nil && strings.TrimSpace(i.Username) != ""
}

// Post is one feed entry. Reactions are stored as membership lists so
// the on-disk shape stays a plain JSON array; the invariant that a user
// appears in at most one of LikedBy/DislikedBy is enforced by the
// toggle methods below.
type Post struct {
	ID         uuid.UUID   `json:"id"`
	UserID     uuid.UUID   `json:"user_id"`
	Username   string      `json:"username"`
	Content    string      `json:"content"`
	Image      string      `json:"image,omitempty"`
	Video      string      `json:"video,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	LikedBy    []uuid.UUID `json:"liked_by"`
	DislikedBy []uuid.UUID `json:"disliked_by"`
	Comments   []Comment   `json:"comments"`
}

// Comment is an append-only entry embedded in its parent post.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	User      string    `json:"user"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// HasPayload reports whether the post carries at least one of content,
// image, or video. Posts with none of the three are rejected.
func (p *Post) HasPayload() bool {
	return strings.TrimSpace(p.Content) != "" || p.Image != "" || p.Video != ""
}

// IsOwnedBy reports whether userID is the post's author.
func (p *Post) IsOwnedBy(userID uuid.UUID) bool {
	return p.UserID == userID
}

func (p *Post) IsLikedBy(userID uuid.UUID) bool {
	return containsID(p.LikedBy, userID)
}

func (p *Post) IsDislikedBy(userID uuid.UUID) bool {
	return containsID(p.DislikedBy, userID)
}

// ToggleLike flips the like state for userID. Liking while a dislike is
// active is rejected without touching either list; the caller must
// remove the dislike first.
func (p *Post) ToggleLike(userID uuid.UUID) error {
	if p.IsDislikedBy(userID) {
		return ErrReactionConflict
	}
	if p.IsLikedBy(userID) {
		p.LikedBy = removeID(p.LikedBy, userID)
		return nil
	}
	p.LikedBy = append(p.LikedBy, userID)
	return nil
}

// ToggleDislike mirrors ToggleLike for the dislike list.
func (p *Post) ToggleDislike(userID uuid.UUID) error {
	if p.IsLikedBy(userID) {
		return ErrReactionConflict
	}
	if p.IsDislikedBy(userID) {
		p.DislikedBy = removeID(p.DislikedBy, userID)
		return nil
	}
	p.DislikedBy = append(p.DislikedBy, userID)
	return nil
}

// AddComment appends a comment and returns it. Comments are never
// edited or removed.
func (p *Post) AddComment(userID uuid.UUID, username, text string) Comment {
	comment := Comment{
		ID:        uuid.New(),
		UserID:    userID,
		User:      username,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
	p.Comments = append(p.Comments, comment)
	return comment
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
