package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lifelineclinics/booking-gateway/internal/http/handlers"
	httpmiddleware "github.com/lifelineclinics/booking-gateway/internal/http/middleware"
	"github.com/lifelineclinics/booking-gateway/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	ClinicHandler      *handlers.ClinicHandler
	BookingHandler     *handlers.BookingHandler
	PaymentsHandler    *handlers.PaymentsHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Requests/sec and burst per client IP for booking mutations. Zero
	// disables rate limiting.
	BookingRateLimit float64
	BookingRateBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		api.Route("/clinics", func(c chi.Router) {
			c.Get("/{username}", cfg.ClinicHandler.GetProfile)
			c.Get("/{clinicID:[0-9]+}/slots", cfg.ClinicHandler.GetSlots)
			c.Get("/{clinicID:[0-9]+}/discounts", cfg.ClinicHandler.GetDiscounts)
		})
		api.Post("/discounts/apply", cfg.ClinicHandler.ApplyDiscount)

		api.Route("/booking/sessions", func(b chi.Router) {
			if cfg.BookingRateLimit > 0 {
				b.Use(httpmiddleware.RateLimit(cfg.BookingRateLimit, cfg.BookingRateBurst))
			}
			b.Post("/", cfg.BookingHandler.CreateSession)
			b.Route("/{id}", func(s chi.Router) {
				s.Get("/", cfg.BookingHandler.GetSession)
				s.Put("/date", cfg.BookingHandler.SelectDate)
				s.Put("/time", cfg.BookingHandler.SelectTime)
				s.Put("/delivery-method", cfg.BookingHandler.SelectDeliveryMethod)
				s.Put("/payment-method", cfg.BookingHandler.SelectPaymentMethod)
				s.Put("/contact", cfg.BookingHandler.SetContact)
				s.Post("/discount", cfg.BookingHandler.ApplyDiscount)
				s.Post("/confirm", cfg.BookingHandler.Confirm)
			})
		})

		api.Get("/payments/{transactionID}", cfg.PaymentsHandler.GetDetails)
		api.Route("/receipts/{transactionID}", func(rc chi.Router) {
			rc.Get("/png", cfg.PaymentsHandler.ReceiptPNG)
			rc.Get("/pdf", cfg.PaymentsHandler.ReceiptPDF)
		})
	})

	return r
}
