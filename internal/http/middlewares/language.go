package middlewares

import (
	"github.com/emali/estates-api/internal/i18n"
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// Language resolves the response language once per request and sets
// Content-Language on the response.
func Language(fallback language.Tag) gin.HandlerFunc {
	return func(c *gin.Context) {
		tag := i18n.ResolveTag(c.Request, fallback)

		c.Set(CtxLang, tag)
		c.Set(CtxFallbackLang, fallback)
		c.Header("Content-Language", tag.String())

		c.Next()
	}
}

func LanguageFromContext(c *gin.Context) language.Tag {
	if v, ok := c.Get(CtxLang); ok {
		if tag, ok := v.(language.Tag); ok {
			return tag
		}
	}
	return language.English
}

// Message translates key for the request language.
func Message(c *gin.Context, key string, args ...any) string {
	fallback := language.English
	if v, ok := c.Get(CtxFallbackLang); ok {
		if tag, ok := v.(language.Tag); ok {
			fallback = tag
		}
	}
	return i18n.Message(LanguageFromContext(c), fallback, key, args...)
}

func abortWithError(c *gin.Context, status int, code, key string) {
	reqID, _ := c.Get(CtxRequestID)

	c.AbortWithStatusJSON(status, gin.H{
		"status":  "error",
		"message": Message(c, key),
		"error": gin.H{
			"code":      code,
			"requestId": reqID,
		},
	})
}
