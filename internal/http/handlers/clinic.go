package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lifelineclinics/booking-gateway/internal/clinic"
	"github.com/lifelineclinics/booking-gateway/internal/observability/metrics"
	"github.com/lifelineclinics/booking-gateway/internal/store"
	"github.com/lifelineclinics/booking-gateway/pkg/logging"
)

// ClinicHandler serves the public clinic profile, availability slots and
// discount codes.
type ClinicHandler struct {
	store   *store.Store
	metrics *metrics.BookingMetrics
	logger  *logging.Logger
}

// NewClinicHandler creates a clinic handler. metrics may be nil.
func NewClinicHandler(st *store.Store, m *metrics.BookingMetrics, logger *logging.Logger) *ClinicHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ClinicHandler{store: st, metrics: m, logger: logger}
}

// profilePayload is the profile plus the display fields derived from it.
type profilePayload struct {
	*clinic.Profile
	DeliveryMethodNames []string `json:"deliveryMethodNames"`
	InsuranceNames      []string `json:"insuranceNames"`
	BioPreview          string   `json:"bioPreview"`
	BioTruncated        bool     `json:"bioTruncated"`
}

// GetProfile handles GET /api/clinics/{username}. An unknown slug or an
// upstream failure both produce the not-found envelope.
func (h *ClinicHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(chi.URLParam(r, "username"))
	if username == "" {
		jsonError(w, "username is required", http.StatusBadRequest)
		return
	}

	start := time.Now()
	profile, err := h.store.FetchClinicData(r.Context(), username)
	h.metrics.ObserveUpstreamLatency("profile", time.Since(start).Seconds())
	if err != nil {
		h.logger.Warn("clinic profile fetch failed", "username", username, "error", err)
		jsonError(w, "Clinic not found", http.StatusNotFound)
		return
	}

	preview, truncated := profile.BioSummary()
	jsonData(w, http.StatusOK, profilePayload{
		Profile:             profile,
		DeliveryMethodNames: clinic.DeliveryMethodNames(profile.DeliveryMethods),
		InsuranceNames:      clinic.InsuranceNames(profile.SupportInsurance),
		BioPreview:          preview,
		BioTruncated:        truncated,
	})
}

type slotsPayload struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

// GetSlots handles GET /api/clinics/{clinicID}/slots?date=YYYY-MM-DD.
func (h *ClinicHandler) GetSlots(w http.ResponseWriter, r *http.Request) {
	clinicID, err := strconv.Atoi(chi.URLParam(r, "clinicID"))
	if err != nil {
		jsonError(w, "invalid clinic id", http.StatusBadRequest)
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		jsonError(w, "date is required", http.StatusBadRequest)
		return
	}

	slots, err := h.store.FetchAvailabilitySlots(r.Context(), clinicID, date)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	jsonData(w, http.StatusOK, slotsPayload{Date: date, Slots: slots})
}

// GetDiscounts handles GET /api/clinics/{clinicID}/discounts.
func (h *ClinicHandler) GetDiscounts(w http.ResponseWriter, r *http.Request) {
	clinicID, err := strconv.Atoi(chi.URLParam(r, "clinicID"))
	if err != nil {
		jsonError(w, "invalid clinic id", http.StatusBadRequest)
		return
	}

	codes, err := h.store.FetchDiscountCodes(r.Context(), clinicID)
	if err != nil {
		h.logger.Warn("discount codes fetch failed", "clinic_id", clinicID, "error", err)
		jsonData(w, http.StatusOK, []clinic.DiscountCode{})
		return
	}
	jsonData(w, http.StatusOK, codes)
}

type applyDiscountRequest struct {
	ClinicID int     `json:"clinicId"`
	Code     string  `json:"code"`
	Amount   float64 `json:"amount"`
}

// ApplyDiscount handles POST /api/discounts/apply: validates a code against
// the given amount and returns the percentage plus the derived discount.
func (h *ClinicHandler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	var req applyDiscountRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		jsonError(w, "code is required", http.StatusBadRequest)
		return
	}

	res := h.store.ApplyDiscountCode(r.Context(), req.ClinicID, req.Code, req.Amount)
	h.metrics.ObserveDiscount(res.Success)
	if !res.Success {
		jsonError(w, res.Message, http.StatusUnprocessableEntity)
		return
	}
	jsonData(w, http.StatusOK, res)
}
