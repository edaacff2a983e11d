// Package store holds the server-derived clinic state behind one constructed,
// injectable object: the profile, discount list and last checkout. State that
// belongs to a single booking attempt (date, time, slots) lives in the booking
// flow, never here; the store is shared by every session.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/lifelineclinics/booking-gateway/internal/availability"
	"github.com/lifelineclinics/booking-gateway/internal/clinic"
	"github.com/lifelineclinics/booking-gateway/internal/lifeline"
	"github.com/lifelineclinics/booking-gateway/pkg/logging"
)

// Availability error messages, surfaced verbatim to the caller.
var (
	ErrDayMismatch  = errors.New("No availability for this day")
	ErrClinicClosed = errors.New("Clinic is closed on this day")
	ErrNoSlots      = errors.New("No available slots for this day")
)

// API is the slice of the upstream client the store depends on.
type API interface {
	GetClinicProfile(ctx context.Context, username string) (*clinic.Profile, error)
	GetAvailability(ctx context.Context, clinicID int, date string) (*availability.Window, error)
	GetDiscountCodes(ctx context.Context, clinicID int) ([]clinic.DiscountCode, error)
	ApplyDiscount(ctx context.Context, clinicID int, code string, amount float64) (float64, error)
	CreateCheckout(ctx context.Context, req lifeline.CheckoutRequest) (*lifeline.CheckoutResult, error)
	GetPaymentDetails(ctx context.Context, transactionID string) (*lifeline.PaymentDetails, error)
}

// DiscountResult is the outcome of validating a discount code. The amount is
// derived from the subtotal the caller supplied; shared state is not touched.
type DiscountResult struct {
	Success    bool    `json:"success"`
	Percentage float64 `json:"percentage,omitempty"`
	Amount     float64 `json:"amount,omitempty"`
	Message    string  `json:"message,omitempty"`
}

// CheckoutOutcome is the terminal result of a checkout submission.
type CheckoutOutcome struct {
	Success bool                     `json:"success"`
	Result  *lifeline.CheckoutResult `json:"data,omitempty"`
	Message string                   `json:"message,omitempty"`
}

// PaymentDetailsResult wraps a payment-details lookup.
type PaymentDetailsResult struct {
	Success bool                     `json:"success"`
	Details *lifeline.PaymentDetails `json:"data,omitempty"`
	Message string                   `json:"message,omitempty"`
}

// Snapshot is a point-in-time copy of the store's state.
type Snapshot struct {
	Clinic         *clinic.Profile
	Loading        bool
	Error          string
	DiscountCodes  []clinic.DiscountCode
	DiscountsError string
	LastCheckout   *lifeline.CheckoutResult
}

// Store owns the clinic profile, the discount list and the last checkout
// result. Safe for concurrent use. It holds no per-booking selection: slot
// fetches return their result to the asking flow instead of retaining it.
type Store struct {
	api    API
	cache  *clinic.ProfileCache
	logger *logging.Logger

	mu             sync.Mutex
	clinicData     *clinic.Profile
	loading        bool
	err            string
	discountCodes  []clinic.DiscountCode
	discountsError string
	lastCheckout   *lifeline.CheckoutResult
}

// New creates a store backed by the given API client. cache may be nil.
func New(api API, cache *clinic.ProfileCache, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{api: api, cache: cache, logger: logger}
}

// FetchClinicData loads a clinic profile by username, deriving the display
// address from location fields. On failure the previous profile, if any, is
// left untouched and the state error is set; callers must treat a non-empty
// error as "do not render profile".
func (s *Store) FetchClinicData(ctx context.Context, username string) (*clinic.Profile, error) {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	if cached, err := s.cache.Get(ctx, username); err != nil {
		s.logger.Warn("profile cache read failed", "username", username, "error", err)
	} else if cached != nil {
		s.mu.Lock()
		s.clinicData = cached
		s.loading = false
		s.mu.Unlock()
		return cached, nil
	}

	profile, err := s.api.GetClinicProfile(ctx, username)
	if err != nil {
		s.mu.Lock()
		s.err = err.Error()
		s.loading = false
		s.mu.Unlock()
		return nil, fmt.Errorf("store: fetch clinic data: %w", err)
	}

	profile.Address = clinic.FormatAddress(profile.Location)

	s.mu.Lock()
	s.clinicData = profile
	s.loading = false
	s.mu.Unlock()

	if err := s.cache.Set(ctx, profile); err != nil {
		s.logger.Warn("profile cache write failed", "username", username, "error", err)
	}
	return profile, nil
}

// FetchAvailabilitySlots loads and validates bookable slots for a clinic and
// date. The result is returned, not retained: which slots a patient is
// choosing from belongs to their booking flow, not to the shared store.
func (s *Store) FetchAvailabilitySlots(ctx context.Context, clinicID int, date string) ([]string, error) {
	window, err := s.api.GetAvailability(ctx, clinicID, date)
	if err != nil {
		return nil, err
	}

	wantDay, err := availability.DayOfWeek(date)
	if err != nil {
		return nil, err
	}

	switch {
	case !strings.EqualFold(window.Day, wantDay):
		// Never trust the upstream's day label blindly.
		return nil, ErrDayMismatch
	case window.IsClosed:
		return nil, ErrClinicClosed
	case len(window.TimeRanges) == 0:
		return nil, ErrNoSlots
	}

	slots := availability.GenerateSlots(window.TimeRanges)
	if len(slots) == 0 {
		return nil, ErrNoSlots
	}
	return slots, nil
}

// FetchDiscountCodes loads the clinic's active discount codes. Failure yields
// an empty list plus the error, never stale data from a different clinic.
func (s *Store) FetchDiscountCodes(ctx context.Context, clinicID int) ([]clinic.DiscountCode, error) {
	codes, err := s.api.GetDiscountCodes(ctx, clinicID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.discountCodes = []clinic.DiscountCode{}
		s.discountsError = err.Error()
		return nil, fmt.Errorf("store: fetch discount codes: %w", err)
	}
	if codes == nil {
		codes = []clinic.DiscountCode{}
	}
	s.discountCodes = codes
	s.discountsError = ""
	return codes, nil
}

// ApplyDiscountCode validates a code against a subtotal. The result carries
// both the percentage and the derived monetary amount; shared state is not
// mutated, so the caller decides what to do with the outcome.
func (s *Store) ApplyDiscountCode(ctx context.Context, clinicID int, code string, subtotal float64) DiscountResult {
	pct, err := s.api.ApplyDiscount(ctx, clinicID, code, subtotal)
	if err != nil {
		return DiscountResult{Success: false, Message: rejectionMessage(err, "Failed to apply discount code")}
	}
	return DiscountResult{
		Success:    true,
		Percentage: pct,
		Amount:     subtotal * pct / 100,
		Message:    "Discount applied successfully",
	}
}

// CreateCheckout submits a checkout request. Errors never escape as panics or
// raw errors; the outcome always carries a presentable message. No retries.
func (s *Store) CreateCheckout(ctx context.Context, req lifeline.CheckoutRequest) CheckoutOutcome {
	result, err := s.api.CreateCheckout(ctx, req)
	if err != nil {
		s.logger.Warn("checkout failed", "clinic_id", req.ClinicID, "test_no", req.TestNo, "error", err)
		return CheckoutOutcome{Success: false, Message: rejectionMessage(err, "Failed to create checkout")}
	}

	s.mu.Lock()
	s.lastCheckout = result
	s.mu.Unlock()

	s.logger.Info("checkout created", "clinic_id", req.ClinicID, "transaction_id", result.TransactionID)
	return CheckoutOutcome{Success: true, Result: result, Message: "Checkout successful"}
}

// GetPaymentDetails fetches payment-provider status for a transaction.
func (s *Store) GetPaymentDetails(ctx context.Context, transactionID string) PaymentDetailsResult {
	details, err := s.api.GetPaymentDetails(ctx, transactionID)
	if err != nil {
		return PaymentDetailsResult{Success: false, Message: rejectionMessage(err, "Failed to fetch payment details")}
	}
	return PaymentDetailsResult{Success: true, Details: details}
}

// State returns a copy of the current store state.
func (s *Store) State() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Clinic:         s.clinicData,
		Loading:        s.loading,
		Error:          s.err,
		DiscountCodes:  append([]clinic.DiscountCode(nil), s.discountCodes...),
		DiscountsError: s.discountsError,
		LastCheckout:   s.lastCheckout,
	}
}

// rejectionMessage surfaces upstream business rejections verbatim and hides
// transport errors behind a generic fallback.
func rejectionMessage(err error, fallback string) string {
	if lifeline.IsRejection(err) {
		return err.Error()
	}
	return fallback
}
