package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/microfeed/core/internal/infrastructure/logger"
	"github.com/microfeed/core/internal/ports"
)

// MessageResponse is a minimal acknowledgment body.
type MessageResponse struct {
	Message string `json:"message"`
}

// AuthHandler handles registration and login requests
type AuthHandler struct {
	authService ports.AuthService
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService ports.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register handles account creation
func (h *AuthHandler) Register(c echo.Context) error {
	var req ports.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, user)
}

// Login handles credential verification
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Authenticate(c.Request().Context(), req)
	if err != nil {
		h.logger.LogSecurityEvent("login_failed", req.Username, c.RealIP(), map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}

	return c.JSON(http.StatusOK, user)
}

// PostHandler handles feed requests
type PostHandler struct {
	postService ports.PostService
	logger      *logger.Logger
}

// NewPostHandler creates a new post handler
func NewPostHandler(postService ports.PostService, logger *logger.Logger) *PostHandler {
	return &PostHandler{
		postService: postService,
		logger:      logger,
	}
}

// ListPosts returns the full feed in storage order
func (h *PostHandler) ListPosts(c echo.Context) error {
	posts, err := h.postService.List(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, posts)
}

// CreatePost adds a post authored by the caller
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req ports.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	post, err := h.postService.Create(c.Request().Context(), GetIdentity(c), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, post)
}

// DeletePost removes one post owned by the caller
func (h *PostHandler) DeletePost(c echo.Context) error {
	postID, err := parsePostID(c)
	if err != nil {
		return err
	}

	if err := h.postService.Delete(c.Request().Context(), postID, GetIdentity(c)); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Post deleted"})
}

// ClearMyPosts removes every post owned by the caller
func (h *PostHandler) ClearMyPosts(c echo.Context) error {
	removed, err := h.postService.ClearByOwner(c.Request().Context(), GetIdentity(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Posts deleted",
		"removed": removed,
	})
}

// ReactionHandler handles like/dislike toggles
type ReactionHandler struct {
	reactionService ports.ReactionService
	logger          *logger.Logger
}

// NewReactionHandler creates a new reaction handler
func NewReactionHandler(reactionService ports.ReactionService, logger *logger.Logger) *ReactionHandler {
	return &ReactionHandler{
		reactionService: reactionService,
		logger:          logger,
	}
}

// ToggleLike flips the caller's like on a post
func (h *ReactionHandler) ToggleLike(c echo.Context) error {
	postID, err := parsePostID(c)
	if err != nil {
		return err
	}

	post, err := h.reactionService.ToggleLike(c.Request().Context(), postID, GetIdentity(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, post)
}

// ToggleDislike flips the caller's dislike on a post
func (h *ReactionHandler) ToggleDislike(c echo.Context) error {
	postID, err := parsePostID(c)
	if err != nil {
		return err
	}

	post, err := h.reactionService.ToggleDislike(c.Request().Context(), postID, GetIdentity(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, post)
}

// CommentHandler handles comment creation
type CommentHandler struct {
	commentService ports.CommentService
	logger         *logger.Logger
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(commentService ports.CommentService, logger *logger.Logger) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		logger:         logger,
	}
}

// AddComment appends a comment to a post
func (h *CommentHandler) AddComment(c echo.Context) error {
	postID, err := parsePostID(c)
	if err != nil {
		return err
	}

	var req ports.AddCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.commentService.Add(c.Request().Context(), postID, GetIdentity(c), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, comment)
}

func parsePostID(c echo.Context) (uuid.UUID, error) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid post id")
	}
	return postID, nil
}
