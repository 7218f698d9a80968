package catalog

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"foodgram/internal/logging"
	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	tags := api.Group("/tags")
	{
		tags.GET("", h.ListTags)
		tags.GET("/:id", h.GetTag)
	}
	ingredients := api.Group("/ingredients")
	{
		ingredients.GET("", h.ListIngredients)
		ingredients.GET("/:id", h.GetIngredient)
	}
}

func (h *Handler) ListTags(c *gin.Context) {
	tags, err := h.service.ListTags(c.Request.Context())
	if err != nil {
		slog.Error("list tags", logging.Err(err))
		response.Internal(c)
		return
	}
	response.Success(c, http.StatusOK, tags)
}

func (h *Handler) GetTag(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	tag, err := h.service.GetTag(c.Request.Context(), id)
	switch {
	case errors.Is(err, ErrTagNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Tag not found")
	case err != nil:
		slog.Error("get tag", "id", id, logging.Err(err))
		response.Internal(c)
	default:
		response.Success(c, http.StatusOK, tag)
	}
}

// ListIngredients supports ?name= as a case-insensitive prefix filter.
func (h *Handler) ListIngredients(c *gin.Context) {
	items, err := h.service.ListIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		slog.Error("list ingredients", logging.Err(err))
		response.Internal(c)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) GetIngredient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := h.service.GetIngredient(c.Request.Context(), id)
	switch {
	case errors.Is(err, ErrIngredientNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Ingredient not found")
	case err != nil:
		slog.Error("get ingredient", "id", id, logging.Err(err))
		response.Internal(c)
	default:
		response.Success(c, http.StatusOK, item)
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Not found")
		return 0, false
	}
	return id, true
}
