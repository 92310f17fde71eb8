package http

import (
	"log/slog"
	"net/http"

	"github.com/emali/estates-api/internal/config"
	"github.com/emali/estates-api/internal/domain/user"
	"github.com/emali/estates-api/internal/http/handlers"
	"github.com/emali/estates-api/internal/http/middlewares"
	"github.com/emali/estates-api/internal/i18n"
	"github.com/emali/estates-api/internal/observability"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Log     *slog.Logger
	Config  config.Config
	Auth    handlers.AuthService
	Users   handlers.UserStore
	Tokens  middlewares.TokenVerifier
	Revoked middlewares.RevocationChecker
	Prom    *observability.Prom
	Checks  []handlers.Check
	Limiter *middlewares.RateLimiter
	Tracing bool
}

const apiPrefix = "/api/v1"

func NewRouter(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.Config.Env != "dev" && d.Config.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := handlers.RegisterValidators(); err != nil {
		d.Log.Error("register validators", "err", err)
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true

	// middleware
	r.Use(middlewares.RequestID())
	r.Use(middlewares.Language(i18n.Fallback(d.Config.FallbackLanguage)))
	r.Use(gin.CustomRecovery(func(c *gin.Context, rec any) {
		d.Log.ErrorContext(c.Request.Context(), "panic recovered", "panic", rec, "path", c.Request.URL.Path)
		handlers.RespondInternal(c)
	}))
	if d.Tracing {
		r.Use(otelgin.Middleware(d.Config.ServiceName))
	}
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.RequestLogger(d.Log))
	r.Use(middlewares.SecurityHeaders(d.Config.Env == "prod"))
	r.Use(middlewares.CORSMiddleware(d.Config.CORSAllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(d.Config.MaxBodyBytes))

	r.NoRoute(func(c *gin.Context) {
		handlers.RespondNotFound(c, i18n.MsgNotFound)
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.RespondError(c, http.StatusMethodNotAllowed, "method_not_allowed", i18n.MsgNotFound, nil)
	})

	// health
	h := handlers.NewHealthHandler(d.Checks...)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	if d.Prom != nil {
		r.GET("/metrics", gin.WrapH(d.Prom.Handler()))
	}

	limiter := d.Limiter
	if limiter == nil {
		limiter = middlewares.NewRateLimiter(d.Config.AuthRateLimit, d.Config.AuthRateLimitWindow)
	}

	authMW := middlewares.NewAuthMiddleware(d.Tokens, d.Revoked, d.Log)
	authHandler := handlers.NewAuthHandler(d.Auth, d.Prom, d.Log).WithOTPLength(d.Config.OTPLength)
	usersHandler := handlers.NewUsersHandler(d.Users, d.Log)

	api := r.Group(apiPrefix)
	api.Use(middlewares.RequireJSON())
	api.GET("/welcome", handlers.Welcome)

	// public auth routes, rate limited per client IP
	authGroup := api.Group("/auth")
	authGroup.POST("/signup", limiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.SignUp)
	authGroup.POST("/login", limiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Login)

	// identity for these comes from the bearer token only
	session := authGroup.Group("", authMW.RequireAuth())
	session.POST("/verify-otp", limiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP), authHandler.VerifyOTP)
	session.POST("/refresh-otp", limiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP), authHandler.RefreshOTP)
	session.POST("/logout", authHandler.Logout)

	users := api.Group("/users", authMW.RequireAuth())
	users.GET("/me", usersHandler.Me)
	users.GET("/:id", usersHandler.Get)

	admin := users.Group("", authMW.RequireRole(user.RoleAdmin))
	admin.GET("", usersHandler.List)
	admin.DELETE("/:id", usersHandler.Delete)
	admin.PATCH("/:id/status", usersHandler.SetStatus)

	return r
}
