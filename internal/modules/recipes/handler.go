package recipes

import (
	"context"
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

// RegisterRoutes mounts the recipe endpoints and returns the /recipes group so
// other modules can attach routes under it.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, authRequired, authOptional gin.HandlerFunc) *gin.RouterGroup {
	recipes := api.Group("/recipes")
	{
		recipes.GET("", authOptional, h.List)
		recipes.POST("", authRequired, h.Create)
		recipes.GET("/:id", authOptional, h.Get)
		recipes.PATCH("/:id", authRequired, h.Update)
		recipes.DELETE("/:id", authRequired, h.Delete)
		recipes.GET("/:id/get-link", h.GetLink)
		recipes.POST("/:id/favorite", authRequired, h.AddFavorite)
		recipes.DELETE("/:id/favorite", authRequired, h.RemoveFavorite)
		recipes.POST("/:id/shopping_cart", authRequired, h.AddToCart)
		recipes.DELETE("/:id/shopping_cart", authRequired, h.RemoveFromCart)
	}
	return recipes
}

// RegisterShortLinks mounts the short link redirect outside the API prefix.
func (h *Handler) RegisterShortLinks(r gin.IRoutes) {
	r.GET("/s/:code", h.Redirect)
}

func (h *Handler) List(c *gin.Context) {
	viewerID, _ := middleware.UserID(c)
	p := pagination.FromQuery(c, h.defaultLimit, h.maxLimit)

	q := ListQuery{
		TagSlugs:         c.QueryArray("tags"),
		IsFavorited:      queryFlag(c, "is_favorited"),
		IsInShoppingCart: queryFlag(c, "is_in_shopping_cart"),
		Limit:            p.Limit,
		Offset:           p.Offset(),
	}
	if raw := c.Query("author"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.ValidationError(c, map[string]string{"author": "numeric"})
			return
		}
		q.AuthorID = id
	}

	list, total, err := h.service.List(c.Request.Context(), viewerID, q)
	if err != nil {
		h.fail(c, "list recipes", err)
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

	recipe, err := h.service.Get(c.Request.Context(), viewerID, id)
	if err != nil {
		h.fail(c, "get recipe", err)
		return
	}
	response.Success(c, http.StatusOK, recipe)
}

func (h *Handler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidJSON(c)
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(c, errs)
		return
	}

	recipe, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.fail(c, "create recipe", err)
		return
	}
	response.Success(c, http.StatusCreated, recipe)
}

func (h *Handler) Update(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		response.Unauthorized(c)
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidJSON(c)
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(c, errs)
		return
	}

	recipe, err := h.service.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.fail(c, "update recipe", err)
		return
	}
	response.Success(c, http.StatusOK, recipe)
}

func (h *Handler) Delete(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		response.Unauthorized(c)
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		h.fail(c, "delete recipe", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetLink(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	link, err := h.service.ShortLink(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "short link", err)
		return
	}
	response.Success(c, http.StatusOK, ShortLinkResponse{ShortLink: link})
}

func (h *Handler) Redirect(c *gin.Context) {
	id, err := h.service.Resolve(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.fail(c, "resolve short link", err)
		return
	}
	c.Redirect(http.StatusFound, h.service.RecipeURL(id))
}

func (h *Handler) AddFavorite(c *gin.Context) {
	h.addMark(c, "add favorite", h.service.AddFavorite)
}

func (h *Handler) RemoveFavorite(c *gin.Context) {
	h.removeMark(c, "remove favorite", h.service.RemoveFavorite)
}

func (h *Handler) AddToCart(c *gin.Context) {
	h.addMark(c, "add to cart", h.service.AddToCart)
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	h.removeMark(c, "remove from cart", h.service.RemoveFromCart)
}

func (h *Handler) addMark(c *gin.Context, op string, add func(ctx context.Context, userID, recipeID int64) (*RecipeShortResponse, error)) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	short, err := add(c.Request.Context(), userID, id)
	if err != nil {
		h.fail(c, op, err)
		return
	}
	response.Success(c, http.StatusCreated, short)
}

func (h *Handler) removeMark(c *gin.Context, op string, remove func(ctx context.Context, userID, recipeID int64) error) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := remove(c.Request.Context(), userID, id); err != nil {
		h.fail(c, op, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// fail maps service errors onto the response envelope.
func (h *Handler) fail(c *gin.Context, op string, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.ValidationError(c, verr.Fields)
	case errors.Is(err, ErrRecipeNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Recipe not found")
	case errors.Is(err, ErrShortCodeNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Short link not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to modify this recipe")
	case errors.Is(err, ErrAlreadyFavorited):
		response.Error(c, http.StatusConflict, "ALREADY_FAVORITED", "Recipe is already in favorites")
	case errors.Is(err, ErrNotFavorited):
		response.Error(c, http.StatusNotFound, "NOT_FAVORITED", "Recipe is not in favorites")
	case errors.Is(err, ErrAlreadyInCart):
		response.Error(c, http.StatusConflict, "ALREADY_IN_CART", "Recipe is already in the shopping cart")
	case errors.Is(err, ErrNotInCart):
		response.Error(c, http.StatusNotFound, "NOT_IN_CART", "Recipe is not in the shopping cart")
	case errors.Is(err, storage.ErrInvalidDataURI),
		errors.Is(err, storage.ErrInvalidMimeType),
		errors.Is(err, storage.ErrImageTooLarge),
		errors.Is(err, storage.ErrEmptyImage):
		response.ValidationError(c, map[string]string{"image": err.Error()})
	default:
		slog.Error(op, logging.Err(err))
		response.Internal(c)
	}
}

func actorFrom(c *gin.Context) (Actor, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		return Actor{}, false
	}
	return Actor{UserID: userID, Role: middleware.Role(c)}, true
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Recipe not found")
		return 0, false
	}
	return id, true
}

func queryFlag(c *gin.Context, key string) bool {
	switch c.Query(key) {
	case "1", "true", "True":
		return true
	}
	return false
}
