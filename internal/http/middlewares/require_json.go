package middlewares

import (
	"net/http"
	"strings"

	"github.com/emali/estates-api/internal/i18n"
	"github.com/gin-gonic/gin"
)

// RequireJSON rejects bodies that are not declared as JSON. Body-less
// POSTs (logout, refresh-otp) pass.
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			if c.Request.ContentLength == 0 {
				break
			}
			ct := c.GetHeader("Content-Type")
			// allow "application/json; charset=utf-8"
			if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
				abortWithError(c, http.StatusUnsupportedMediaType, "unsupported_media_type", i18n.MsgInvalidJSON)
				return
			}
		}
		c.Next()
	}
}
