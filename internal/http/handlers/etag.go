package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/emali/estates-api/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

// RespondSuccessWithETag writes a success envelope tagged with a hash of its
// body, answering 304 when the client already holds that version.
func RespondSuccessWithETag(ctx *gin.Context, status int, msgKey string, data any) {
	env := Envelope{
		Status:  "success",
		Message: middlewares.Message(ctx, msgKey),
		Data:    data,
	}

	etag, err := buildETag(env)
	if err != nil {
		ctx.JSON(status, env)
		return
	}

	// revalidate instead of the global no-store
	ctx.Header("Cache-Control", "private, no-cache")
	ctx.Header("ETag", etag)

	if ifNoneMatchMatches(ctx.GetHeader("If-None-Match"), etag) {
		ctx.Status(http.StatusNotModified)
		return
	}

	ctx.JSON(status, env)
}

func buildETag(payload any) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(b)

	return `"` + hex.EncodeToString(sum[:16]) + `"`, nil
}

func ifNoneMatchMatches(headerValue, currentETag string) bool {
	if strings.TrimSpace(headerValue) == "" || strings.TrimSpace(currentETag) == "" {
		return false
	}

	if strings.TrimSpace(headerValue) == "*" {
		return true
	}

	current := normalizeETag(currentETag)

	for _, part := range strings.Split(headerValue, ",") {
		if normalizeETag(part) == current {
			return true
		}
	}

	return false
}

func normalizeETag(raw string) string {
	v := strings.TrimSpace(raw)

	// RFC allows weak validators like W/"abc".
	if strings.HasPrefix(v, "W/") {
		v = strings.TrimSpace(strings.TrimPrefix(v, "W/"))
	}

	return v
}
