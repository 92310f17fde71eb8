package middlewares

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/emali/estates-api/internal/actorctx"
	"github.com/emali/estates-api/internal/auth"
	"github.com/emali/estates-api/internal/i18n"
	"github.com/gin-gonic/gin"
)

// Keep these small so tests can fake them easily.
type TokenVerifier interface {
	VerifyToken(token string) (*auth.Claims, error)
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type AuthMiddleware struct {
	jwt     TokenVerifier
	revoked RevocationChecker
	log     *slog.Logger
}

func NewAuthMiddleware(jwt TokenVerifier, revoked RevocationChecker, log *slog.Logger) *AuthMiddleware {
	if log == nil {
		log = slog.Default()
	}
	return &AuthMiddleware{jwt: jwt, revoked: revoked, log: log}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortWithError(c, http.StatusUnauthorized, "unauthorized", i18n.MsgUnauthorized)
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if raw == "" {
			abortWithError(c, http.StatusUnauthorized, "unauthorized", i18n.MsgUnauthorized)
			return
		}

		claims, err := m.jwt.VerifyToken(raw)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "unauthorized", i18n.MsgUnauthorized)
			return
		}

		if m.revoked != nil {
			revoked, err := m.revoked.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				m.log.ErrorContext(c.Request.Context(), "auth.revocation_check_failed", "err", err)
				abortWithError(c, http.StatusInternalServerError, "internal_error", i18n.MsgInternal)
				return
			}
			if revoked {
				abortWithError(c, http.StatusUnauthorized, "token_revoked", i18n.MsgUnauthorized)
				return
			}
		}

		// Stash useful bits of identity on the context
		c.Set(CtxClaims, claims)
		c.Set(CtxUserID, claims.UserID())
		c.Set(CtxRole, claims.Role)
		c.Request = c.Request.WithContext(actorctx.WithUserID(c.Request.Context(), claims.UserID()))

		c.Next()
	}
}

// Optional helpers so handlers don't need to know the magic keys.

func ClaimsFromContext(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(CtxClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok && claims != nil
}

func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

func RoleFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxRole)
	if !ok {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}
