package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RouterConfig selects the handlers mounted by NewRouter. Nil handlers leave
// their routes unregistered.
type RouterConfig struct {
	Slots        *SlotHandler
	Reservations *ReservationHandler
	Logger       *slog.Logger
	Middleware   []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	logger := defaultLogger(cfg.Logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(logger))
	for _, mw := range cfg.Middleware {
		if mw != nil {
			r.Use(mw)
		}
	}

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		newResponder(logger).writeJSON(req.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if cfg.Slots != nil {
		r.Post("/recurrences/preview", cfg.Slots.Preview)

		r.Route("/opportunities/{opportunityID}", func(r chi.Router) {
			r.Get("/slots", cfg.Slots.List)
			r.Get("/slots.ics", cfg.Slots.ExportICS)
			r.With(RequirePrincipal(logger)).Post("/slots", cfg.Slots.Create)
		})
	}

	r.Group(func(r chi.Router) {
		r.Use(RequirePrincipal(logger))

		if cfg.Slots != nil {
			r.Put("/slots/{slotID}", cfg.Slots.Reschedule)
			r.Post("/slots/{slotID}/cancel", cfg.Slots.Cancel)
		}

		if cfg.Reservations != nil {
			r.Post("/slots/{slotID}/reservations", cfg.Reservations.Apply)
			r.Route("/reservations/{reservationID}", func(r chi.Router) {
				r.Post("/accept", cfg.Reservations.Accept)
				r.Post("/reject", cfg.Reservations.Reject)
				r.Post("/cancel", cfg.Reservations.Cancel)
				r.Get("/eligibility", cfg.Reservations.Eligibility)
			})
		}
	})

	return r
}
