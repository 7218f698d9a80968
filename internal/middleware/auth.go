package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"foodgram/internal/logging"
	"foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware.
const (
	ContextUserID    = "user_id"
	ContextRole      = "role"
	ContextTokenID   = "token_id"
	ContextTokenExp  = "token_expires_at"
	authHeader       = "Authorization"
	errHeaderMissing = "AUTH_HEADER_MISSING"
)

// RevocationChecker reports whether a token id was logged out.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

var errNoHeader = errors.New("no authorization header")

// JWTAuth rejects requests without a valid, unrevoked token.
// Both "Bearer <jwt>" and "Token <jwt>" schemes are accepted.
func JWTAuth(jwtService *jwt.Service, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := authenticate(c, jwtService, revoked)
		if errors.Is(err, errNoHeader) {
			response.Abort(c, http.StatusUnauthorized, errHeaderMissing, "Authentication credentials were not provided")
			return
		}
		if err != nil {
			return
		}
		c.Next()
	}
}

// OptionalAuth lets anonymous requests through but still rejects a bad token,
// so a client never silently loses its identity.
func OptionalAuth(jwtService *jwt.Service, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := authenticate(c, jwtService, revoked)
		if err != nil && !errors.Is(err, errNoHeader) {
			return
		}
		c.Next()
	}
}

// authenticate populates the context from the Authorization header. On any failure
// other than a missing header it has already aborted with 401.
func authenticate(c *gin.Context, jwtService *jwt.Service, revoked RevocationChecker) error {
	header := strings.TrimSpace(c.GetHeader(authHeader))
	if header == "" {
		return errNoHeader
	}

	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || token == "" || (!strings.EqualFold(scheme, "Bearer") && !strings.EqualFold(scheme, "Token")) {
		response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>' or 'Token <token>'")
		return errors.New("bad scheme")
	}

	claims, err := jwtService.ValidateToken(token)
	if err != nil {
		response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return err
	}

	if revoked != nil && claims.ID != "" {
		isRevoked, err := revoked.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			slog.Error("token revocation lookup failed", logging.Err(err))
			response.Abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
			return err
		}
		if isRevoked {
			response.Abort(c, http.StatusUnauthorized, "TOKEN_REVOKED", "Token has been revoked")
			return errors.New("revoked")
		}
	}

	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextRole, claims.Role)
	c.Set(ContextTokenID, claims.ID)
	if claims.ExpiresAt != nil {
		c.Set(ContextTokenExp, claims.ExpiresAt.Time)
	}
	return nil
}

// UserID returns the authenticated user id, or false for anonymous requests.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id > 0
}

func Role(c *gin.Context) string {
	return c.GetString(ContextRole)
}

// TokenID returns the jti and expiry of the token used for this request.
func TokenID(c *gin.Context) (string, time.Time) {
	exp, _ := c.Get(ContextTokenExp)
	t, _ := exp.(time.Time)
	return c.GetString(ContextTokenID), t
}
