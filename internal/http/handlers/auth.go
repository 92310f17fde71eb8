package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/emali/estates-api/internal/auth"
	"github.com/emali/estates-api/internal/config"
	"github.com/emali/estates-api/internal/domain/user"
	"github.com/emali/estates-api/internal/http/middlewares"
	"github.com/emali/estates-api/internal/i18n"
	"github.com/emali/estates-api/internal/otp"
	"github.com/gin-gonic/gin"
)

type AuthService interface {
	SignUp(ctx context.Context, req user.SignUpRequest) (auth.Session, error)
	Login(ctx context.Context, identifier, password string) (auth.Session, error)
	VerifyOTP(ctx context.Context, email, code string) (bool, error)
	RefreshOTP(ctx context.Context, email string) (bool, error)
	Logout(ctx context.Context, claims *auth.Claims) (bool, error)
}

// AuthObserver records auth outcomes; *observability.Prom satisfies it.
type AuthObserver interface {
	ObserveAuth(op string, err error, rejected bool)
}

type AuthHandler struct {
	svc       AuthService
	obs       AuthObserver
	log       *slog.Logger
	timeout   time.Duration
	otpLength int
}

// signup sends mail before it writes, so it gets a longer budget
const (
	defaultAuthTimeout = 5 * time.Second
	signupTimeout      = 15 * time.Second
)

func NewAuthHandler(svc AuthService, obs AuthObserver, log *slog.Logger) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{svc: svc, obs: obs, log: log, timeout: defaultAuthTimeout, otpLength: otp.DefaultLength}
}

// WithOTPLength sets the code length verify-otp accepts. It follows the same
// bounds as otp.WithLength so both sides agree.
func (h *AuthHandler) WithOTPLength(n int) *AuthHandler {
	if n > 0 && n <= 18 {
		h.otpLength = n
	}
	return h
}

type successData struct {
	Success bool `json:"success"`
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req user.SignUpRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), signupTimeout)
	defer cancel()

	sess, err := h.svc.SignUp(cctx, req)
	h.observe("signup", err)
	if err != nil {
		h.fail(ctx, "signup", err)
		return
	}

	RespondSuccess(ctx, http.StatusCreated, i18n.MsgSignedUp, sess)
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	sess, err := h.svc.Login(cctx, req.Identifier, req.Password)
	h.observe("login", err)
	if err != nil {
		h.fail(ctx, "login", err)
		return
	}

	RespondSuccess(ctx, http.StatusOK, i18n.MsgLoggedIn, sess)
}

// VerifyOTP checks the code against the address in the caller's token,
// never one from the body.
func (h *AuthHandler) VerifyOTP(ctx *gin.Context) {
	claims, ok := middlewares.ClaimsFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "unauthorized", i18n.MsgUnauthorized)
		return
	}

	var req user.VerifyOTPRequest
	if !BindJSON(ctx, &req) {
		return
	}

	if len(req.OTP) != h.otpLength {
		param := strconv.Itoa(h.otpLength)
		RespondBadRequest(ctx, "validation_failed", i18n.MsgValidationFailed, gin.H{
			"fields": []FieldError{{Field: "otp", Rule: "len", Param: param, Message: validationMessage("len", param)}},
		})
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	verified, err := h.svc.VerifyOTP(cctx, claims.Email, req.OTP)
	h.observe("verify_otp", err)
	if err != nil {
		h.fail(ctx, "verify_otp", err)
		return
	}

	RespondSuccess(ctx, http.StatusOK, i18n.MsgOTPVerified, successData{Success: verified})
}

func (h *AuthHandler) RefreshOTP(ctx *gin.Context) {
	claims, ok := middlewares.ClaimsFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "unauthorized", i18n.MsgUnauthorized)
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), signupTimeout)
	defer cancel()

	sent, err := h.svc.RefreshOTP(cctx, claims.Email)
	h.observe("refresh_otp", err)
	if err != nil {
		h.fail(ctx, "refresh_otp", err)
		return
	}

	RespondSuccess(ctx, http.StatusOK, i18n.MsgOTPSent, successData{Success: sent})
}

func (h *AuthHandler) Logout(ctx *gin.Context) {
	claims, ok := middlewares.ClaimsFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "unauthorized", i18n.MsgUnauthorized)
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	done, err := h.svc.Logout(cctx, claims)
	h.observe("logout", err)
	if err != nil {
		h.fail(ctx, "logout", err)
		return
	}

	RespondSuccess(ctx, http.StatusOK, i18n.MsgLoggedOut, successData{Success: done})
}

func (h *AuthHandler) observe(op string, err error) {
	if h.obs == nil {
		return
	}
	h.obs.ObserveAuth(op, err, isClientError(err))
}

func isClientError(err error) bool {
	var conflict *user.ConflictError
	return errors.As(err, &conflict) ||
		errors.Is(err, auth.ErrInvalidCredentials) ||
		errors.Is(err, auth.ErrInvalidOTP) ||
		errors.Is(err, auth.ErrOTPDispatch) ||
		errors.Is(err, auth.ErrUserNotFound) ||
		errors.Is(err, auth.ErrInvalidToken)
}

// fail maps service errors onto the envelope. Unexpected errors are logged
// and reported without detail.
func (h *AuthHandler) fail(ctx *gin.Context, op string, err error) {
	var conflict *user.ConflictError

	switch {
	case errors.As(err, &conflict):
		RespondBadRequest(ctx, "conflict", i18n.MsgConflict, gin.H{"fields": conflict.Fields})
	case errors.Is(err, auth.ErrOTPDispatch):
		h.log.WarnContext(ctx.Request.Context(), "auth.otp_dispatch_failed", "op", op, "err", err)
		RespondBadRequest(ctx, "otp_dispatch_failed", i18n.MsgOTPDispatch, nil)
	case errors.Is(err, auth.ErrUserNotFound):
		RespondBadRequest(ctx, "user_not_found", i18n.MsgUserNotFound, nil)
	case errors.Is(err, auth.ErrInvalidCredentials):
		RespondUnauthorized(ctx, "invalid_credentials", i18n.MsgInvalidCreds)
	case errors.Is(err, auth.ErrInvalidOTP):
		RespondUnauthorized(ctx, "invalid_otp", i18n.MsgInvalidOTP)
	case errors.Is(err, auth.ErrInvalidToken):
		RespondUnauthorized(ctx, "unauthorized", i18n.MsgUnauthorized)
	default:
		h.log.ErrorContext(ctx.Request.Context(), "auth.failed", "op", op, "err", err)
		RespondInternal(ctx)
	}
}
