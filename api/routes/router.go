package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/matmaster-backend/api/controllers"
	"github.com/angelmondragon/matmaster-backend/api/middleware"
	"github.com/angelmondragon/matmaster-backend/internal/auth"
	"github.com/angelmondragon/matmaster-backend/internal/materials"
	"github.com/angelmondragon/matmaster-backend/internal/otp"
	"github.com/angelmondragon/matmaster-backend/internal/registration"
	"github.com/angelmondragon/matmaster-backend/internal/stock"
	"github.com/angelmondragon/matmaster-backend/internal/users"
	"github.com/angelmondragon/matmaster-backend/pkg/config"
	"github.com/angelmondragon/matmaster-backend/pkg/enums"
	"github.com/angelmondragon/matmaster-backend/pkg/logger"
	"github.com/angelmondragon/matmaster-backend/pkg/metrics"
	pkgredis "github.com/angelmondragon/matmaster-backend/pkg/redis"
)

type pinger interface {
	Ping(context.Context) error
}

type rateLimitStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// Dependencies carries everything the router hands to middleware and controllers.
// Nil stores disable the middleware that needs them.
type Dependencies struct {
	DB          pinger
	Redis       pinger
	RateLimits  rateLimitStore
	Idempotency pkgredis.IdempotencyStore
	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTPMetrics

	Auth         auth.Service
	Registration registration.Service
	OTP          otp.Service
	Users        users.Service
	Materials    materials.Service
	Stock        stock.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.Logging(logg, deps.HTTPMetrics),
	)

	limits := cfg.AuthRateLimit
	loginPolicy := middleware.NewAuthRateLimitPolicy("login", limits.LoginWindow, limits.LoginIPLimit, limits.LoginIdentityLimit)
	registerPolicy := middleware.NewAuthRateLimitPolicy("register", limits.RegisterWindow, limits.RegisterIPLimit, limits.RegisterEmailLimit)
	forgotPolicy := middleware.NewAuthRateLimitPolicy("forgot", limits.ForgotWindow, limits.ForgotIPLimit, limits.ForgotEmailLimit)

	// Applied per route so the chi pattern is resolved before the rule lookup.
	idempotent := middleware.Idempotency(deps.Idempotency, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.RateLimits, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.RateLimits, logg)).Post("/register-request", controllers.AuthRegisterRequest(deps.Registration, logg))

		r.Route("/forgot-password", func(r chi.Router) {
			r.Use(middleware.AuthRateLimit(forgotPolicy, deps.RateLimits, logg))
			r.Post("/send-otp", controllers.OTPSend(deps.OTP, logg))
			r.Post("/resend-otp", controllers.OTPResend(deps.OTP, logg))
			r.Post("/verify-otp", controllers.OTPVerify(deps.OTP, logg))
			r.Post("/reset-password", controllers.OTPResetPassword(deps.OTP, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireRole(enums.RoleAdmin, logg))
			r.Get("/requests", controllers.RegistrationRequests(deps.Registration, logg))
			r.With(idempotent).Post("/approve/{id}", controllers.RegistrationApprove(deps.Registration, logg))
			r.Post("/decline/{id}", controllers.RegistrationDecline(deps.Registration, logg))
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/api/users", func(r chi.Router) {
			r.Get("/me", controllers.UsersMe(deps.Users, logg))
			r.Post("/me/change-password", controllers.UsersChangePassword(deps.Users, logg))
			r.Get("/me/activities", controllers.UsersMyActivities(deps.Users, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.RoleAdmin, logg))
				r.Get("/", controllers.AdminUsersList(deps.Users, logg))
				r.Get("/{id}", controllers.AdminUserGet(deps.Users, logg))
				r.Put("/{id}", controllers.AdminUserUpdate(deps.Users, logg))
				r.Delete("/{id}", controllers.AdminUserDelete(deps.Users, logg))
				r.Get("/{id}/activities", controllers.AdminUserActivities(deps.Users, logg))
			})
		})

		r.Route("/api/master", func(r chi.Router) {
			r.Get("/", controllers.MaterialsList(deps.Materials, logg))
			r.With(idempotent).Post("/", controllers.MaterialCreate(deps.Materials, logg))
			r.Get("/next-code", controllers.MaterialNextCode(deps.Materials, logg))
			r.Get("/{id}", controllers.MaterialGet(deps.Materials, logg))
			r.Put("/{id}", controllers.MaterialUpdate(deps.Materials, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.RoleAdmin, logg))
				r.Delete("/{id}", controllers.MaterialDelete(deps.Materials, logg))
				r.Post("/{id}/archive", controllers.MaterialArchive(deps.Materials, logg))
			})
		})

		r.Route("/api/archive", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.RoleAdmin, logg))
			r.Get("/", controllers.ArchiveList(deps.Materials, logg))
			r.Get("/{id}", controllers.ArchiveGet(deps.Materials, logg))
			r.Delete("/{id}", controllers.ArchiveDelete(deps.Materials, logg))
			r.Post("/{id}/restore", controllers.ArchiveRestore(deps.Materials, logg))
		})

		r.Route("/api/stock", func(r chi.Router) {
			r.Get("/", controllers.StockList(deps.Stock, logg))
			r.With(idempotent).Post("/", controllers.StockCreate(deps.Stock, logg))
			r.Get("/balance/{materialCode}", controllers.StockBalance(deps.Stock, logg))
			r.Get("/{id}", controllers.StockGet(deps.Stock, logg))
			r.Put("/{id}", controllers.StockUpdate(deps.Stock, logg))
			r.Delete("/{id}", controllers.StockDelete(deps.Stock, logg))
		})
	})

	return r
}
