package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agendahub/agenda-backend/api/controllers"
	"github.com/agendahub/agenda-backend/api/middleware"
	"github.com/agendahub/agenda-backend/internal/accessrequests"
	"github.com/agendahub/agenda-backend/internal/aggregate"
	"github.com/agendahub/agenda-backend/internal/appointments"
	authsvc "github.com/agendahub/agenda-backend/internal/auth"
	"github.com/agendahub/agenda-backend/internal/catalog"
	"github.com/agendahub/agenda-backend/internal/clients"
	"github.com/agendahub/agenda-backend/internal/dashboard"
	"github.com/agendahub/agenda-backend/internal/members"
	"github.com/agendahub/agenda-backend/internal/professionals"
	"github.com/agendahub/agenda-backend/internal/sessions"
	"github.com/agendahub/agenda-backend/internal/users"
	pkgauth "github.com/agendahub/agenda-backend/pkg/auth"
	"github.com/agendahub/agenda-backend/pkg/config"
	"github.com/agendahub/agenda-backend/pkg/db"
	"github.com/agendahub/agenda-backend/pkg/enums"
	"github.com/agendahub/agenda-backend/pkg/logger"
	"github.com/agendahub/agenda-backend/pkg/metrics"
	"github.com/agendahub/agenda-backend/pkg/redis"
)

// Deps bundles everything the router mounts. Every field is required unless
// noted otherwise.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *redis.Client // optional, disables login rate limiting when nil
	Registry *prometheus.Registry

	Tokens   *pkgauth.TokenManager
	Sessions *sessions.Registry

	Auth           authsvc.Service
	Profiles       *users.Repository
	Clients        *clients.Service
	Professionals  *professionals.Service
	Catalog        *catalog.Service
	Appointments   *appointments.Service
	Members        *members.Service
	Aggregate      *aggregate.Service
	Dashboard      *dashboard.Service
	AccessRequests *accessrequests.Service
}

func NewRouter(d Deps) http.Handler {
	logg := d.Logger
	var registerer prometheus.Registerer
	if d.Registry != nil {
		registerer = d.Registry
	}
	httpMx := metrics.NewHTTPMetrics(registerer)

	owners := []enums.Role{enums.RoleAdmin, enums.RoleAdmin2}
	frontDesk := []enums.Role{enums.RoleAdmin, enums.RoleRecepcionista}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMx),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(d.DB, readyPinger(d.Redis)))
	})
	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	// Public lead form. Everything else under /api/v1 requires a session.
	r.Post("/api/public/solicitacoes", controllers.CreateAccessRequest(d.AccessRequests, logg))

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(d.Config.AuthRateLimit, loginAttemptStore(d.Redis), logg)).
			Post("/login", controllers.Login(d.Auth, logg))
		r.Post("/refresh", controllers.Refresh(d.Auth, logg))
		r.With(middleware.Auth(d.Tokens, d.Sessions, logg)).
			Post("/logout", controllers.Logout(d.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(d.Tokens, d.Sessions, logg))

		r.Get("/me", controllers.Me(d.Profiles, logg))

		r.Route("/clientes", func(r chi.Router) {
			r.Use(middleware.RequireAnyRole(logg, frontDesk...))
			r.Get("/", controllers.ListClients(d.Clients, logg))
			r.Post("/", controllers.CreateClient(d.Clients, logg))
			r.Get("/{id}", controllers.GetClient(d.Clients, logg))
			r.Patch("/{id}", controllers.UpdateClient(d.Clients, logg))
			r.Delete("/{id}", controllers.DeleteClient(d.Clients, logg))
		})

		r.Route("/profissionais", func(r chi.Router) {
			r.Use(middleware.RequireAnyRole(logg, enums.RoleAdmin))
			r.Get("/", controllers.ListProfessionals(d.Professionals, logg))
			r.Post("/", controllers.CreateProfessional(d.Professionals, logg))
			r.Patch("/{id}", controllers.UpdateProfessional(d.Professionals, logg))
			r.Delete("/{id}", controllers.DeleteProfessional(d.Professionals, logg))
		})

		r.Route("/servicos", func(r chi.Router) {
			r.Use(middleware.RequireAnyRole(logg, enums.RoleAdmin))
			r.Get("/", controllers.ListServices(d.Catalog, logg))
			r.Post("/", controllers.CreateService(d.Catalog, logg))
			r.Patch("/{id}", controllers.UpdateService(d.Catalog, logg))
			r.Delete("/{id}", controllers.DeleteService(d.Catalog, logg))
		})

		r.Route("/agendamentos", func(r chi.Router) {
			r.With(middleware.RequireAnyRole(logg, frontDesk...)).Get("/", controllers.ListAppointments(d.Appointments, logg))
			r.With(middleware.RequireAnyRole(logg, frontDesk...)).Post("/", controllers.CreateAppointment(d.Appointments, logg))
			// staff may look a booking up, only the front desk mutates it
			r.With(middleware.RequireAnyRole(logg, enums.RoleAdmin, enums.RoleRecepcionista, enums.RoleProfissional)).
				Get("/{id}", controllers.GetAppointment(d.Appointments, logg))
			r.With(middleware.RequireAnyRole(logg, frontDesk...)).Patch("/{id}", controllers.UpdateAppointment(d.Appointments, logg))
			r.With(middleware.RequireAnyRole(logg, frontDesk...)).Delete("/{id}", controllers.DeleteAppointment(d.Appointments, logg))
		})

		r.Route("/membros", func(r chi.Router) {
			r.Use(middleware.RequireAnyRole(logg, owners...))
			r.Get("/", controllers.ListMembers(d.Members, logg))
			r.Post("/", controllers.CreateMember(d.Members, d.Profiles, logg))
			r.Patch("/{id}", controllers.UpdateMember(d.Members, logg))
			r.Delete("/{id}", controllers.DeleteMember(d.Members, logg))
		})

		r.With(middleware.RequireAnyRole(logg, enums.RoleAdmin, enums.RoleProfissional)).
			Get("/calendar", controllers.Calendar(d.Aggregate, logg))
		r.With(middleware.RequireAnyRole(logg, owners...)).
			Get("/dashboard", controllers.Dashboard(d.Dashboard, logg))

		r.With(middleware.RequireAnyRole(logg, enums.RoleAdmin)).
			Get("/solicitacoes", controllers.ListAccessRequests(d.AccessRequests, logg))
		r.With(middleware.RequireAnyRole(logg, enums.RoleAdmin)).
			Patch("/solicitacoes/{id}", controllers.ReviewAccessRequest(d.AccessRequests, logg))
	})

	return r
}

// loginAttemptStore keeps a nil Redis client from reaching the rate limiter
// as a non-nil interface, which would bypass its disabled check.
func loginAttemptStore(c *redis.Client) interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
} {
	if c == nil {
		return nil
	}
	return c
}

func readyPinger(c *redis.Client) interface {
	Ping(ctx context.Context) error
} {
	if c == nil {
		return nil
	}
	return c
}
