package feed

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"foodgram/internal/logging"
	"foodgram/internal/middleware"
	"foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type Handler struct {
	hub      *Hub
	jwt      *jwt.Service
	revoked  middleware.RevocationChecker
	upgrader websocket.Upgrader
}

// NewHandler accepts upgrades from the given origins; "*" allows any. Requests without
// an Origin header (non-browser clients) are always allowed.
func NewHandler(hub *Hub, jwtService *jwt.Service, revoked middleware.RevocationChecker, origins []string) *Handler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return &Handler{
		hub:     hub,
		jwt:     jwtService,
		revoked: revoked,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/ws/feed", h.Connect)
}

// Connect authenticates with ?token= (browsers cannot set headers on WebSocket
// handshakes) or the usual Authorization header, then upgrades.
func (h *Handler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		if _, rest, ok := strings.Cut(c.GetHeader("Authorization"), " "); ok {
			token = strings.TrimSpace(rest)
		}
	}
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Token required")
		return
	}

	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}
	if revoked, err := h.isRevoked(c.Request.Context(), claims.ID); err != nil || revoked {
		response.Error(c, http.StatusUnauthorized, "TOKEN_REVOKED", "Token has been revoked")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("feed: websocket upgrade failed", "user_id", claims.UserID, logging.Err(err))
		return
	}
	h.hub.Serve(conn, claims.UserID)
}

func (h *Handler) isRevoked(ctx context.Context, jti string) (bool, error) {
	if h.revoked == nil || jti == "" {
		return false, nil
	}
	return h.revoked.IsRevoked(ctx, jti)
}
