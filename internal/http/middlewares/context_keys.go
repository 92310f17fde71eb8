package middlewares

// gin context keys
const (
	CtxRequestID    = "request_id"
	CtxClaims       = "auth.claims"
	CtxUserID       = "auth.userID"
	CtxRole         = "auth.role"
	CtxLang         = "i18n.lang"
	CtxFallbackLang = "i18n.fallback"
)
