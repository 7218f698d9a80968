package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"foodgram/internal/logging"
	"foodgram/internal/middleware"
	"foodgram/internal/pkg/response"
	"foodgram/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

// Handler manages registration, token login/logout and password changes.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the auth endpoints. throttle guards the credential endpoints.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, authRequired, throttle gin.HandlerFunc) {
	api.POST("/users", throttle, h.Register)
	api.POST("/users/set_password", authRequired, h.SetPassword)

	token := api.Group("/auth/token")
	{
		token.POST("/login", throttle, h.Login)
		token.POST("/logout", authRequired, h.Logout)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidJSON(c)
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(c, errs)
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	switch {
	case errors.Is(err, ErrEmailAlreadyExists):
		response.ValidationError(c, map[string]string{"email": "unique"})
	case errors.Is(err, ErrUsernameTaken):
		response.ValidationError(c, map[string]string{"username": "unique"})
	case errors.Is(err, ErrNumericPassword):
		response.ValidationError(c, map[string]string{"password": "numeric"})
	case err != nil:
		slog.Error("register user", logging.Err(err))
		response.Internal(c)
	default:
		response.Success(c, http.StatusCreated, RegisteredUser{
			Email:     user.Email,
			ID:        user.ID,
			Username:  user.Username,
			FirstName: user.FirstName,
			LastName:  user.LastName,
		})
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidJSON(c)
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(c, errs)
		return
	}

	token, err := h.service.Login(c.Request.Context(), req)
	if errors.Is(err, ErrInvalidCredentials) {
		response.Error(c, http.StatusBadRequest, "INVALID_CREDENTIALS", "Unable to log in with provided credentials")
		return
	}
	if err != nil {
		slog.Error("login", logging.Err(err))
		response.Internal(c)
		return
	}
	response.Success(c, http.StatusOK, TokenResponse{AuthToken: token})
}

func (h *Handler) Logout(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}
	jti, exp := middleware.TokenID(c)
	if err := h.service.Logout(c.Request.Context(), userID, jti, exp); err != nil {
		slog.Error("logout", "user_id", userID, logging.Err(err))
		response.Internal(c)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) SetPassword(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	var req SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidJSON(c)
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(c, errs)
		return
	}

	err := h.service.SetPassword(c.Request.Context(), userID, req)
	switch {
	case errors.Is(err, ErrWrongPassword):
		response.ValidationError(c, map[string]string{"current_password": "invalid"})
	case errors.Is(err, ErrNumericPassword):
		response.ValidationError(c, map[string]string{"new_password": "numeric"})
	case err != nil:
		slog.Error("set password", "user_id", userID, logging.Err(err))
		response.Internal(c)
	default:
		c.Status(http.StatusNoContent)
	}
}
