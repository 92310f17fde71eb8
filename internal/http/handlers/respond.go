package handlers

import (
	"net/http"

	"github.com/emali/estates-api/internal/http/middlewares"
	"github.com/emali/estates-api/internal/i18n"
	"github.com/gin-gonic/gin"
)

// Envelope wraps every response body.
type Envelope struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code      string `json:"code"`
	RequestID string `json:"requestId,omitempty"`
	Details   any    `json:"details,omitempty"`
}

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get(middlewares.CtxRequestID)

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

// RespondSuccess writes a success envelope; msgKey is an i18n catalog key.
func RespondSuccess(ctx *gin.Context, status int, msgKey string, data any) {
	ctx.JSON(status, Envelope{
		Status:  "success",
		Message: middlewares.Message(ctx, msgKey),
		Data:    data,
	})
}

func RespondError(ctx *gin.Context, status int, code, msgKey string, details any) {
	ctx.AbortWithStatusJSON(status, Envelope{
		Status:  "error",
		Message: middlewares.Message(ctx, msgKey),
		Error: &APIError{
			Code:      code,
			RequestID: requestIDFrom(ctx),
			Details:   details,
		},
	})
}

func RespondBadRequest(ctx *gin.Context, code, msgKey string, details any) {
	RespondError(ctx, http.StatusBadRequest, code, msgKey, details)
}

func RespondUnauthorized(ctx *gin.Context, code, msgKey string) {
	RespondError(ctx, http.StatusUnauthorized, code, msgKey, nil)
}

func RespondForbidden(ctx *gin.Context) {
	RespondError(ctx, http.StatusForbidden, "forbidden", i18n.MsgForbidden, nil)
}

func RespondNotFound(ctx *gin.Context, msgKey string) {
	RespondError(ctx, http.StatusNotFound, "not_found", msgKey, nil)
}

func RespondInternal(ctx *gin.Context) {
	RespondError(ctx, http.StatusInternalServerError, "internal_error", i18n.MsgInternal, nil)
}
