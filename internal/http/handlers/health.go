package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/emali/estates-api/internal/i18n"
	"github.com/gin-gonic/gin"
)

// Check is one readiness dependency, for example a Postgres or Redis ping.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

type HealthHandler struct {
	checks  []Check
	timeout time.Duration
}

// create a new instance of the health handler
func NewHealthHandler(checks ...Check) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: time.Second}
}

func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz pings every dependency and reports each result.
func (h *HealthHandler) Readyz(ctx *gin.Context) {
	results := make(gin.H, len(h.checks))
	ready := true

	for _, c := range h.checks {
		cctx, cancel := context.WithTimeout(ctx.Request.Context(), h.timeout)
		err := c.Ping(cctx)
		cancel()

		if err != nil {
			ready = false
			results[c.Name] = "down"
			continue
		}
		results[c.Name] = "up"
	}

	if !ready {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "checks": results})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ready", "checks": results})
}

func Welcome(ctx *gin.Context) {
	RespondSuccess(ctx, http.StatusOK, i18n.MsgWelcome, nil)
}
