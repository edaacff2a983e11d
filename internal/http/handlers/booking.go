package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lifelineclinics/booking-gateway/internal/booking"
	"github.com/lifelineclinics/booking-gateway/internal/clinic"
	"github.com/lifelineclinics/booking-gateway/internal/notify"
	"github.com/lifelineclinics/booking-gateway/internal/observability/metrics"
	"github.com/lifelineclinics/booking-gateway/internal/receipt"
	"github.com/lifelineclinics/booking-gateway/internal/store"
	"github.com/lifelineclinics/booking-gateway/pkg/logging"
)

// BookingHandler drives server-side checkout sessions.
type BookingHandler struct {
	store    *store.Store
	registry *booking.Registry
	archive  *receipt.Archive
	notify   *notify.Service
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
}

// NewBookingHandler creates the booking session handler. notify and metrics
// may be nil.
func NewBookingHandler(st *store.Store, registry *booking.Registry, archive *receipt.Archive, n *notify.Service, m *metrics.BookingMetrics, logger *logging.Logger) *BookingHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingHandler{
		store:    st,
		registry: registry,
		archive:  archive,
		notify:   n,
		metrics:  m,
		logger:   logger,
	}
}

type createSessionRequest struct {
	ClinicUsername string `json:"clinicUsername"`
	TestNo         int    `json:"testNo"`
	Quantity       int    `json:"quantity"`
}

type sessionPayload struct {
	SessionID string          `json:"sessionId"`
	Summary   booking.Summary `json:"summary"`
	Slots     []string        `json:"slots,omitempty"`
}

// CreateSession handles POST /api/booking/sessions.
func (h *BookingHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.ClinicUsername) == "" {
		jsonError(w, "clinicUsername is required", http.StatusBadRequest)
		return
	}

	profile, err := h.store.FetchClinicData(r.Context(), req.ClinicUsername)
	if err != nil {
		jsonError(w, "Clinic not found", http.StatusNotFound)
		return
	}
	test, ok := profile.TestByNo(req.TestNo)
	if !ok {
		jsonError(w, "Test not found", http.StatusNotFound)
		return
	}

	flow := booking.NewFlow(h.store, profile, test, req.Quantity)
	id := h.registry.Create(flow)
	h.logger.Info("booking session created", "session_id", id, "clinic_id", profile.ClinicID, "test_no", test.TestNo)
	jsonData(w, http.StatusCreated, sessionPayload{SessionID: id, Summary: flow.Summarize()})
}

// GetSession handles GET /api/booking/sessions/{id}.
func (h *BookingHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.withFlow(w, r, func(f *booking.Flow) (any, int, error) {
		return sessionPayload{SessionID: sessionID(r), Summary: f.Summarize()}, http.StatusOK, nil
	})
}

// SelectDate handles PUT /api/booking/sessions/{id}/date.
func (h *BookingHandler) SelectDate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	h.withFlow(w, r, func(f *booking.Flow) (any, int, error) {
		slots, err := f.SelectDate(r.Context(), req.Date)
		if err != nil {
			return nil, http.StatusUnprocessableEntity, err
		}
		return sessionPayload{SessionID: sessionID(r), Summary: f.Summarize(), Slots: slots}, http.StatusOK, nil
	})
}

// SelectTime handles PUT /api/booking/sessions/{id}/time.
func (h *BookingHandler) SelectTime(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Time string `json:"time"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	h.withFlow(w, r, func(f *booking.Flow) (any, int, error) {
		if err := f.SelectTime(req.Time); err != nil {
			return nil, http.StatusUnprocessableEntity, err
		}
		return sessionPayload{SessionID: sessionID(r), Summary: f.Summarize()}, http.StatusOK, nil
	})
}

// SelectDeliveryMethod handles PUT /api/booking/sessions/{id}/delivery-method.
func (h *BookingHandler) SelectDeliveryMethod(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method int `json:"method"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	h.withFlow(w, r, func(f *booking.Flow) (any, int, error) {
		if err := f.SelectDeliveryMethod(clinic.DeliveryMethod(req.Method)); err != nil {
			return nil, http.StatusUnprocessableEntity, err
		}
		return sessionPayload{SessionID: sessionID(r), Summary: f.Summarize()}, http.StatusOK, nil
	})
}

// SelectPaymentMethod handles PUT /api/booking/sessions/{id}/payment-method.
func (h *BookingHandler) SelectPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method string `json:"method"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	h.withFlow(w, r, func(f *booking.Flow) (any, int, error) {
		if err := f.SetPaymentMethod(req.Method); err != nil {
			return nil, http.StatusUnprocessableEntity, err
		}
		return sessionPayload{SessionID: sessionID(r), Summary: f.Summarize()}, http.StatusOK, nil
	})
}

// SetContact handles PUT /api/booking/sessions/{id}/contact.
func (h *BookingHandler) SetContact(w http.ResponseWriter, r *http.Request) {
	var req booking.Contact
	if !decodeBody(w, r, &req) {
		return
	}
	h.withFlow(w, r, func(f *booking.Flow) (any, int, error) {
		f.SetContact(req)
		return sessionPayload{SessionID: sessionID(r), Summary: f.Summarize()}, http.StatusOK, nil
	})
}

// ApplyDiscount handles POST /api/booking/sessions/{id}/discount.
func (h *BookingHandler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	h.withFlow(w, r, func(f *booking.Flow) (any, int, error) {
		res := f.ApplyDiscount(r.Context(), req.Code)
		h.metrics.ObserveDiscount(res.Success)
		if !res.Success {
			return nil, http.StatusUnprocessableEntity, errors.New(res.Message)
		}
		return sessionPayload{SessionID: sessionID(r), Summary: f.Summarize()}, http.StatusOK, nil
	})
}

type confirmPayload struct {
	SessionID string          `json:"sessionId"`
	Summary   booking.Summary `json:"summary"`
	Result    any             `json:"result,omitempty"`
}

// Confirm handles POST /api/booking/sessions/{id}/confirm: submits the
// checkout upstream. A rejected checkout comes back as a 422 envelope with
// the session still editable.
func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.withFlow(w, r, func(f *booking.Flow) (any, int, error) {
		start := time.Now()
		outcome, err := f.Submit(r.Context())
		h.metrics.ObserveUpstreamLatency("checkout", time.Since(start).Seconds())
		if err != nil {
			return nil, http.StatusBadRequest, err
		}

		summary := f.Summarize()
		if !outcome.Success {
			h.metrics.ObserveCheckout("rejected", summary.DeliveryMethod)
			return nil, http.StatusUnprocessableEntity, errors.New(outcome.Message)
		}

		h.metrics.ObserveCheckout("success", summary.DeliveryMethod)
		result := *outcome.Result
		h.archive.Put(receipt.Record{
			ClinicName:     f.ClinicName(),
			TestName:       summary.TestName,
			CurrencySymbol: summary.CurrencySymbol,
			Payment:        result,
		})
		h.logger.Info("checkout confirmed", "session_id", sessionID(r), "transaction_id", result.TransactionID)

		if h.notify != nil {
			conf := notify.BookingConfirmation{
				ClinicName: f.ClinicName(),
				TestName:   summary.TestName,
				Currency:   summary.CurrencySymbol,
				Date:       summary.Date,
				Time:       summary.TimeDisplay,
				Result:     result,
			}
			// Best effort: a lost email never fails the booking.
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer cancel()
				_ = h.notify.SendBookingConfirmation(ctx, conf)
			}()
		}

		return confirmPayload{SessionID: sessionID(r), Summary: summary, Result: result}, http.StatusOK, nil
	})
}

func sessionID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// withFlow resolves the session, runs fn under the session lock, and writes
// the resulting payload or error envelope.
func (h *BookingHandler) withFlow(w http.ResponseWriter, r *http.Request, fn func(*booking.Flow) (any, int, error)) {
	var payload any
	var status int
	err := h.registry.Do(sessionID(r), func(f *booking.Flow) error {
		var ferr error
		payload, status, ferr = fn(f)
		return ferr
	})
	if errors.Is(err, booking.ErrSessionNotFound) {
		jsonError(w, "Session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		if status == 0 {
			status = http.StatusInternalServerError
		}
		jsonError(w, err.Error(), status)
		return
	}
	jsonData(w, status, payload)
}
