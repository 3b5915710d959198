package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/acamposr/devjobs-be/internal/api/handlers"
	"github.com/acamposr/devjobs-be/internal/auth"
	"github.com/acamposr/devjobs-be/internal/services"
	"github.com/acamposr/devjobs-be/internal/storage"
	"github.com/acamposr/devjobs-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	hub *websocket.Hub,
	authenticator *auth.Authenticator,
	tokens *auth.TokenManager,
	guard *auth.Guard,
	userService services.UserServiceProvider,
	jobService services.JobServiceProvider,
	resetService services.ResetServiceProvider,
	eventService services.EventServiceProvider,
	files storage.FileStore,
	isProd bool,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authenticator, tokens, userService, eventService, isProd)
	userHandler := handlers.NewUserHandler(userService, guard, files)
	resetHandler := handlers.NewResetHandler(resetService)
	jobHandler := handlers.NewJobHandler(jobService, files)
	eventHandler := handlers.NewEventHandler(eventService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	requireAuth := tokens.Middleware()

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Post("/login", authHandler.Login)
		r.Post("/users", userHandler.Register)

		// Password reset, token in the URL exactly as issued
		r.Route("/reestablecer-password", func(r chi.Router) {
			r.Post("/", resetHandler.Request)
			r.Get("/{token}", resetHandler.Validate)
			r.Post("/{token}", resetHandler.Complete)
		})

		// Job postings
		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", jobHandler.GetAll)
			r.Get("/search", jobHandler.Search)
			r.With(requireAuth).Get("/mine", jobHandler.GetMine)
			r.With(requireAuth).Post("/", jobHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", jobHandler.Get)
				r.Post("/apply", jobHandler.Apply)
				r.With(requireAuth).Put("/", jobHandler.Update)
				r.With(requireAuth).Delete("/", jobHandler.Delete)
				r.With(requireAuth).Get("/candidates", jobHandler.GetCandidates)
			})
		})

		// Authenticated-only endpoints
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.GetMe)
			r.Get("/events", eventHandler.GetRecent)
			r.Get("/ws", wsHandler.Serve)
			r.Route("/users/{id}", func(r chi.Router) {
				r.Put("/", userHandler.Update)
				r.Post("/avatar", userHandler.UploadAvatar)
				r.Post("/password", userHandler.ChangePassword)
			})
		})
	})

	return r
}
