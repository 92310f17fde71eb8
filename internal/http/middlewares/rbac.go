package middlewares

import (
	"net/http"

	"github.com/emali/estates-api/internal/domain/user"
	"github.com/emali/estates-api/internal/i18n"
	"github.com/gin-gonic/gin"
)

// RequireRole lets the request through when the caller holds any of roles.
func (m *AuthMiddleware) RequireRole(roles ...user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := RoleFromContext(c)

		if !ok || role == "" {
			abortWithError(c, http.StatusUnauthorized, "unauthorized", i18n.MsgUnauthorized)
			return
		}

		for _, r := range roles {
			if role == string(r) {
				c.Next()
				return
			}
		}

		abortWithError(c, http.StatusForbidden, "forbidden", i18n.MsgForbidden)
	}
}
