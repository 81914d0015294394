package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/leave-engine-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/leave-engine-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(logger *slog.Logger, jwtService jwt.Service, leaveHandler LeaveHandler, eventHandler EventHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// The event stream authenticates with its own short-lived token
		// delivered as a query parameter.
		r.Get("/events", eventHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Get("/events/token", eventHandler.GetSSEToken)

			r.Route("/leaves", func(r chi.Router) {
				r.Post("/", leaveHandler.SubmitRequest)
				r.Get("/my", leaveHandler.GetMyRequests)
				r.Get("/statistics", leaveHandler.GetStatistics)
				r.Get("/calendar", leaveHandler.GetCalendar)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", leaveHandler.GetRequest)
					r.Post("/withdraw", leaveHandler.WithdrawRequest)
					r.Post("/cancel", leaveHandler.CancelRequest)

					// Manager or owner only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireManager)
						r.Post("/approve", leaveHandler.ApproveRequest)
						r.Post("/reject", leaveHandler.RejectRequest)
					})
				})
			})

			r.Route("/balances", func(r chi.Router) {
				r.Get("/", leaveHandler.GetMyBalances)
				r.Get("/{leaveTypeID}", leaveHandler.GetMyBalance)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/accrue", leaveHandler.AccrueBalance)
				})
			})

			r.Route("/leave-types", func(r chi.Router) {
				r.Get("/", leaveHandler.ListTypes)

				// Policy changes affect every employee's balance; owner only.
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireOwner)
					r.Post("/", leaveHandler.CreateType)
					r.Put("/{id}", leaveHandler.UpdateType)
				})
			})

			r.Route("/holidays", func(r chi.Router) {
				r.Get("/", leaveHandler.ListHolidays)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/", leaveHandler.CreateHoliday)
					r.Delete("/{id}", leaveHandler.DeleteHoliday)
				})
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	return r
}
