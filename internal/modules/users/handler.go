package users

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"foodgram/internal/logging"
	"foodgram/internal/middleware"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/pkg/response"
	"foodgram/internal/pkg/validator"
	"foodgram/internal/storage"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service      *Service
	defaultLimit int
	maxLimit     int
}

func NewHandler(service *Service, defaultLimit, maxLimit int) *Handler {
	return &Handler{service: service, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// RegisterRoutes mounts profile and subscription endpoints under /users.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, authRequired, authOptional gin.HandlerFunc) {
	users := api.Group("/users")
	{
		users.GET("", authRequired, h.List)
		users.GET("/me", authRequired, h.Me)
		users.PUT("/me/avatar", authRequired, h.SetAvatar)
		users.DELETE("/me/avatar", authRequired, h.DeleteAvatar)
		users.GET("/subscriptions", authRequired, h.Subscriptions)
		users.GET("/:id", authOptional, h.Get)
		users.POST("/:id/subscribe", authRequired, h.Subscribe)
		users.DELETE("/:id/subscribe", authRequired, h.Unsubscribe)
	}
}

func (h *Handler) List(c *gin.Context) {
	viewerID, _ := middleware.UserID(c)
	p := pagination.FromQuery(c, h.defaultLimit, h.maxLimit)

	list, total, err := h.service.List(c.Request.Context(), viewerID, p.Limit, p.Offset())
	if err != nil {
		slog.Error("list users", logging.Err(err))
		response.Internal(c)
		return
	}
	response.Success(c, http.StatusOK, pagination.New(c, p, total, list))
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	viewerID, _ := middleware.UserID(c)

	user, err := h.service.Get(c.Request.Context(), viewerID, id)
	if err != nil {
		h.fail(c, "get user", err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

func (h *Handler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}
	user, err := h.service.Get(c.Request.Context(), userID, userID)
	if err != nil {
		h.fail(c, "get current user", err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

func (h *Handler) SetAvatar(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	var req AvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidJSON(c)
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(c, errs)
		return
	}

	url, err := h.service.SetAvatar(c.Request.Context(), userID, req.Avatar)
	if err != nil {
		h.fail(c, "set avatar", err)
		return
	}
	response.Success(c, http.StatusOK, AvatarResponse{Avatar: url})
}

func (h *Handler) DeleteAvatar(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}
	if err := h.service.DeleteAvatar(c.Request.Context(), userID); err != nil {
		h.fail(c, "delete avatar", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Subscriptions(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}
	recipesLimit, err := parseRecipesLimit(c)
	if err != nil {
		response.ValidationError(c, map[string]string{"recipes_limit": "min=0"})
		return
	}
	p := pagination.FromQuery(c, h.defaultLimit, h.maxLimit)

	authors, total, err := h.service.Subscriptions(c.Request.Context(), userID, p.Limit, p.Offset(), recipesLimit)
	if err != nil {
		h.fail(c, "list subscriptions", err)
		return
	}
	response.Success(c, http.StatusOK, pagination.New(c, p, total, authors))
}

func (h *Handler) Subscribe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}
	authorID, ok := parseID(c)
	if !ok {
		return
	}
	recipesLimit, err := parseRecipesLimit(c)
	if err != nil {
		response.ValidationError(c, map[string]string{"recipes_limit": "min=0"})
		return
	}

	author, err := h.service.Subscribe(c.Request.Context(), userID, authorID, recipesLimit)
	if err != nil {
		h.fail(c, "subscribe", err)
		return
	}
	response.Success(c, http.StatusCreated, author)
}

func (h *Handler) Unsubscribe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}
	authorID, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Unsubscribe(c.Request.Context(), userID, authorID); err != nil {
		h.fail(c, "unsubscribe", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// fail maps service errors onto the response envelope.
func (h *Handler) fail(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
	case errors.Is(err, ErrSelfSubscription):
		response.Error(c, http.StatusBadRequest, "SELF_SUBSCRIPTION", "You cannot subscribe to yourself")
	case errors.Is(err, ErrAlreadySubscribed):
		response.Error(c, http.StatusConflict, "ALREADY_SUBSCRIBED", "You are already subscribed to this user")
	case errors.Is(err, ErrNotSubscribed):
		response.Error(c, http.StatusNotFound, "NOT_SUBSCRIBED", "You are not subscribed to this user")
	case errors.Is(err, ErrAvatarNotSet):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Avatar is not set")
	case errors.Is(err, storage.ErrInvalidDataURI),
		errors.Is(err, storage.ErrInvalidMimeType),
		errors.Is(err, storage.ErrImageTooLarge),
		errors.Is(err, storage.ErrEmptyImage):
		response.ValidationError(c, map[string]string{"avatar": err.Error()})
	default:
		slog.Error(op, logging.Err(err))
		response.Internal(c)
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		return 0, false
	}
	return id, true
}

// parseRecipesLimit returns -1 when the parameter is absent.
func parseRecipesLimit(c *gin.Context) (int, error) {
	raw, ok := c.GetQuery("recipes_limit")
	if !ok || raw == "" {
		return -1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, ErrInvalidRecipeLimit
	}
	return n, nil
}
