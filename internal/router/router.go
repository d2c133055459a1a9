package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"issue-tracking/internal/config"
	"issue-tracking/internal/database"
	"issue-tracking/internal/handlers"
	"issue-tracking/internal/middleware"
	"issue-tracking/internal/models"
	"issue-tracking/internal/repository/sqlrepo"
	"issue-tracking/internal/service"
)

func New(log zerolog.Logger, db *database.DB, cfg config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Total-Count"},
		AllowCredentials: true,
	}))
	if cfg.RateLimit > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))
	}
	r.Use(middleware.WithAuth(log, cfg))

	// Health
	r.Get("/healthz", handlers.Health(db))

	// Repos + services
	ticketRepo := sqlrepo.NewTicketRepo(db)
	commentRepo := sqlrepo.NewCommentRepo(db)
	projectRepo := sqlrepo.NewProjectRepo(db)
	companyRepo := sqlrepo.NewCompanyRepo(db)
	serviceRepo := sqlrepo.NewServiceRepo(db)
	userRepo := sqlrepo.NewUserRepo(db)

	opts := service.Options{EmptyListNotFound: cfg.EmptyListNotFound, StrictUpdates: cfg.StrictUpdates}
	ticketSvc := service.NewTicketService(ticketRepo, commentRepo, projectRepo, log, opts)
	commentSvc := service.NewCommentService(ticketRepo, commentRepo)
	projectSvc := service.NewProjectService(projectRepo, companyRepo, log, opts)
	catalogSvc := service.NewCatalogService(companyRepo, serviceRepo)
	reportSvc := service.NewReportService(ticketRepo)
	authSvc := service.NewAuthService(userRepo, companyRepo, cfg.SessionSecret)

	// Handlers
	rs := handlers.NewResponder(log, cfg.Production())
	th := handlers.NewTicketHTTP(ticketSvc, commentSvc, rs)
	ch := handlers.NewCommentHTTP(commentSvc, rs)
	ph := handlers.NewProjectHTTP(projectSvc, rs)
	cat := handlers.NewCatalogHTTP(catalogSvc, rs)
	rh := handlers.NewReportsHTTP(reportSvc, rs)
	ah := handlers.NewAuthHTTP(authSvc, rs, cfg.Production())
	uh := handlers.NewUserHTTP(authSvc, rs)

	staff := middleware.RequireRoles(middleware.StaffRoles...)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", ah.Register())
			r.Post("/login", ah.Login())
			r.Post("/logout", ah.Logout())
			r.With(middleware.RequireAuth).Get("/me", ah.Me())
		})

		r.Route("/tickets", func(r chi.Router) {
			r.Get("/", th.List())
			r.With(middleware.RequireAuth).Post("/", th.Create())
			r.Route("/{id}", func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/", th.Get())
				r.Patch("/", th.Update())
				r.Delete("/", th.Delete())
				r.Post("/comments", th.AddComment())
			})
		})

		r.Route("/comments/{id}", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Patch("/", ch.Update())
			r.Delete("/", ch.Delete())
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", ph.List())
			r.Get("/{id}", ph.Get())
			r.With(staff).Post("/", ph.Create())
			r.With(staff).Patch("/{id}", ph.Update())
			r.With(staff).Delete("/{id}", ph.Delete())
		})

		r.Route("/companies", func(r chi.Router) {
			r.With(staff).Get("/", cat.ListCompanies())
			r.With(staff).Post("/", cat.CreateCompany())
			r.With(middleware.RequireAuth).Get("/{id}", cat.GetCompany())
		})

		r.Route("/services", func(r chi.Router) {
			r.Get("/", cat.ListServices())
			r.With(staff).Post("/", cat.CreateService())
		})

		r.Route("/users", func(r chi.Router) {
			r.With(staff).Get("/", uh.List())
			r.With(middleware.RequireSelfOrRoles(models.RoleStaff, models.RoleAdmin, models.RoleSuperAdmin)).Get("/{id}", uh.Get())
		})

		r.Get("/reports/summary", rh.Summary())
	})

	return r
}
