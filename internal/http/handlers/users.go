package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/emali/estates-api/internal/config"
	"github.com/emali/estates-api/internal/domain/user"
	"github.com/emali/estates-api/internal/http/middlewares"
	"github.com/emali/estates-api/internal/i18n"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserStore interface {
	List(ctx context.Context, f user.ListFilter) ([]user.User, int, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	Delete(ctx context.Context, id string) error
	SetActive(ctx context.Context, id string, active bool) error
}

type UsersHandler struct {
	users UserStore
	log   *slog.Logger
}

func NewUsersHandler(users UserStore, log *slog.Logger) *UsersHandler {
	if log == nil {
		log = slog.Default()
	}
	return &UsersHandler{users: users, log: log}
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type userList struct {
	Items  []user.Public `json:"items"`
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

func (h *UsersHandler) List(ctx *gin.Context) {
	f, details := parseListFilter(ctx)
	if details != nil {
		RespondBadRequest(ctx, "validation_failed", i18n.MsgValidationFailed, details)
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	items, total, err := h.users.List(cctx, f)
	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "users.list_failed", "err", err)
		RespondInternal(ctx)
		return
	}

	out := make([]user.Public, 0, len(items))
	for _, u := range items {
		out = append(out, u.Public())
	}

	RespondSuccess(ctx, http.StatusOK, i18n.MsgUsersListed, userList{
		Items:  out,
		Total:  total,
		Limit:  f.Limit,
		Offset: f.Offset,
	})
}

func parseListFilter(ctx *gin.Context) (user.ListFilter, []FieldError) {
	f := user.ListFilter{Limit: defaultPageSize}
	var fields []FieldError

	if v := ctx.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPageSize {
			fields = append(fields, FieldError{Field: "limit", Rule: "range", Param: "1-100", Message: "must be between 1 and 100"})
		} else {
			f.Limit = n
		}
	}

	if v := ctx.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			fields = append(fields, FieldError{Field: "offset", Rule: "min", Param: "0", Message: "must be at least 0"})
		} else {
			f.Offset = n
		}
	}

	if v := ctx.Query("role"); v != "" {
		role := user.Role(strings.ToUpper(v))
		if !role.IsValid() {
			fields = append(fields, FieldError{Field: "role", Rule: "oneof", Param: "CLIENT AGENT ADMIN", Message: validationMessage("oneof", "CLIENT AGENT ADMIN")})
		} else {
			f.Role = &role
		}
	}

	if len(fields) > 0 {
		return f, fields
	}
	return f, nil
}

// Get returns a user to an admin or to the user themselves.
func (h *UsersHandler) Get(ctx *gin.Context) {
	id := ctx.Param("id")
	if !h.canAccess(ctx, id) {
		RespondForbidden(ctx)
		return
	}
	h.respondUser(ctx, id)
}

func (h *UsersHandler) Me(ctx *gin.Context) {
	id, ok := middlewares.UserIDFromContext(ctx)
	if !ok || id == "" {
		RespondUnauthorized(ctx, "unauthorized", i18n.MsgUnauthorized)
		return
	}
	h.respondUser(ctx, id)
}

func (h *UsersHandler) Delete(ctx *gin.Context) {
	id := ctx.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		RespondNotFound(ctx, i18n.MsgUserNotFound)
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.users.Delete(cctx, id); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, i18n.MsgUserNotFound)
			return
		}
		h.log.ErrorContext(ctx.Request.Context(), "users.delete_failed", "target_id", id, "err", err)
		RespondInternal(ctx)
		return
	}

	h.log.InfoContext(ctx.Request.Context(), "users.deleted", "target_id", id)

	RespondSuccess(ctx, http.StatusOK, i18n.MsgUserDeleted, gin.H{"id": id})
}

// SetStatus activates or deactivates an account. Inactive users cannot log in.
func (h *UsersHandler) SetStatus(ctx *gin.Context) {
	id := ctx.Param("id")

	var req user.SetStatusRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.users.SetActive(cctx, id, *req.IsActive); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, i18n.MsgUserNotFound)
			return
		}
		h.log.ErrorContext(ctx.Request.Context(), "users.set_status_failed", "target_id", id, "err", err)
		RespondInternal(ctx)
		return
	}

	h.respondUserWith(ctx, cctx, id, i18n.MsgUserUpdated)
}

func (h *UsersHandler) canAccess(ctx *gin.Context, id string) bool {
	if role, _ := middlewares.RoleFromContext(ctx); role == string(user.RoleAdmin) {
		return true
	}
	self, ok := middlewares.UserIDFromContext(ctx)
	return ok && self == id
}

func (h *UsersHandler) respondUser(ctx *gin.Context, id string) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	h.respondUserWith(ctx, cctx, id, i18n.MsgUserFound)
}

func (h *UsersHandler) respondUserWith(ctx *gin.Context, cctx context.Context, id, msgKey string) {
	if _, err := uuid.Parse(id); err != nil {
		RespondNotFound(ctx, i18n.MsgUserNotFound)
		return
	}

	u, err := h.users.GetByID(cctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, i18n.MsgUserNotFound)
			return
		}
		h.log.ErrorContext(ctx.Request.Context(), "users.get_failed", "target_id", id, "err", err)
		RespondInternal(ctx)
		return
	}

	RespondSuccessWithETag(ctx, http.StatusOK, msgKey, u.Public())
}
