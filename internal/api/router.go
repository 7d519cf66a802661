package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/mx-styles/library-management-system/internal/api/handlers"
	"github.com/mx-styles/library-management-system/internal/auth"
	"github.com/mx-styles/library-management-system/internal/config"
	"github.com/mx-styles/library-management-system/internal/metrics"
	"github.com/mx-styles/library-management-system/internal/middleware"
	"github.com/mx-styles/library-management-system/internal/services"
)

type RouterDeps struct {
	Cfg        config.Config
	TM         *auth.TokenManager
	UserSvc    *services.UserService
	CatalogSvc *services.CatalogService
	LendingSvc *services.LendingService
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics, middleware.RateLimit(d.Cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	authn := middleware.NewAuthMiddleware(d.TM)

	authH := handlers.NewAuthHandler(d.UserSvc)
	booksH := handlers.NewBooksHandler(d.CatalogSvc)
	borrowH := handlers.NewBorrowHandler(d.LendingSvc)
	adminH := handlers.NewAdminHandler(d.CatalogSvc, d.UserSvc, d.LendingSvc)

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", authH.Register)
		r.Post("/auth/login", authH.Login)
		r.Post("/auth/refresh", authH.Refresh)

		// first-admin bootstrap, intentionally unauthenticated
		r.Post("/admin/create-admin", adminH.CreateAdmin)

		r.Group(func(r chi.Router) {
			r.Use(authn.Auth)

			r.Get("/books", booksH.List)
			r.Get("/books/{id}", booksH.Get)

			r.Post("/borrow/{book_id}", borrowH.Borrow)
			r.Post("/return/{borrow_id}", borrowH.Return)
			r.Get("/borrowed", borrowH.Borrowed)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Get("/books", adminH.ListBooks)
				r.Post("/books", adminH.CreateBook)
				r.Put("/books/{id}", adminH.UpdateBook)
				r.Delete("/books/{id}", adminH.DeleteBook)

				r.Get("/users", adminH.ListUsers)
				r.Get("/users/{id}", adminH.GetUser)
				r.Put("/users/{id}/admin", adminH.ToggleAdmin)

				r.Get("/borrows", adminH.ListBorrows)
			})
		})
	})

	return r
}
