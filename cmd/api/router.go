package main

import (
	"log/slog"
	"net/http"
	"time"

	"barbearia-backend/internal/booking"
	"barbearia-backend/internal/catalog"
	"barbearia-backend/internal/health"
	"barbearia-backend/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type routerDeps struct {
	Log            *slog.Logger
	Services       *catalog.Handler
	Appointments   *booking.Handler
	Health         *health.Handler
	Origins        []string
	BookingLimiter *middleware.RateLimiter
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(d.Log, "/api/health", "/api/ready"))
	r.Use(middleware.CORS(d.Origins))
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	var bookingMW []func(http.Handler) http.Handler
	if d.BookingLimiter != nil {
		bookingMW = append(bookingMW, d.BookingLimiter.Middleware)
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", d.Health.Live)
		api.Get("/ready", d.Health.Ready)

		api.Route("/services", d.Services.Routes)
		api.Route("/appointments", func(ar chi.Router) {
			d.Appointments.Routes(ar, bookingMW...)
		})
		api.Get("/available-slots/{date}", d.Appointments.AvailableSlots)
	})

	return otelhttp.NewHandler(r, "barbearia-backend",
		otelhttp.WithSpanNameFormatter(func(_ string, req *http.Request) string {
			return req.Method + " " + req.URL.Path
		}),
	)
}
