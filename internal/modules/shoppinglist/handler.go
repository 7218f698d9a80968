package shoppinglist

import (
	"bytes"
	"log/slog"
	"net/http"

	"foodgram/internal/logging"
	"foodgram/internal/middleware"
	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// DownloadRecorder counts rendered lists by format.
type DownloadRecorder interface {
	ShoppingListDownloaded(format string)
}

type Handler struct {
	service *Service
	metrics DownloadRecorder
}

func NewHandler(service *Service, metrics DownloadRecorder) *Handler {
	return &Handler{service: service, metrics: metrics}
}

// RegisterRoutes mounts the download under the recipes group, which must require auth.
func (h *Handler) RegisterRoutes(recipes *gin.RouterGroup) {
	recipes.GET("/download_shopping_cart", h.Download)
}

func (h *Handler) Download(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	format, err := ParseFormat(c.Query("format"))
	if err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unsupported format",
			map[string]string{"format": "oneof=txt pdf"})
		return
	}

	entries, err := h.service.Build(c.Request.Context(), userID)
	if err != nil {
		slog.Error("build shopping list", "user_id", userID, logging.Err(err))
		response.Internal(c)
		return
	}

	var buf bytes.Buffer
	if err := Render(&buf, format, entries); err != nil {
		slog.Error("render shopping list", "format", string(format), logging.Err(err))
		response.Internal(c)
		return
	}

	if h.metrics != nil {
		h.metrics.ShoppingListDownloaded(string(format))
	}
	c.Header("Content-Disposition", `attachment; filename="`+format.Filename()+`"`)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
