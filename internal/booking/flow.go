// Package booking drives the checkout flow for a single appointment: date and
// time selection, delivery method, contact details, discount application and
// final submission. A Flow owns the not-yet-submitted form state, including
// the slot list it is choosing from; only clinic-wide data stays in the store.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/lifelineclinics/booking-gateway/internal/clinic"
	"github.com/lifelineclinics/booking-gateway/internal/lifeline"
	"github.com/lifelineclinics/booking-gateway/internal/store"
)

// State is the flow's position in the checkout sequence.
type State string

const (
	StateSelectingDate           State = "selecting_date"
	StateSelectingTime           State = "selecting_time"
	StateSelectingDeliveryMethod State = "selecting_delivery_method"
	StateEnteringDetails         State = "entering_details"
	StateSubmitting              State = "submitting"
	StateBooked                  State = "booked"
	StateFailed                  State = "failed"
)

// Accepted payment methods. Card checkout is advertised but not yet live.
const (
	PaymentMethodMobile = "mobile"
	PaymentMethodCard   = "card"
)

// ErrSubmitIncomplete blocks submission before any network call when one of
// date, time, payment method or delivery method is still unset.
var ErrSubmitIncomplete = errors.New("date, time, payment method and delivery method must all be selected")

// ValidationError reports required contact fields left blank at submit time.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "Please fill in: " + strings.Join(e.Missing, ", ")
}

// Contact is the patient's contact and, for home service, delivery details.
type Contact struct {
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Address        string `json:"address,omitempty"`
	CityOrDistrict string `json:"cityOrDistrict,omitempty"`
}

// Flow is the checkout state machine for one appointment booking. Transitions
// are caller-driven and non-linear: date, time and method may be revisited any
// number of times before submission. The session registry serializes requests
// against a flow; slot state additionally carries its own guard so overlapping
// date selections resolve in favor of the newest one.
type Flow struct {
	store    *store.Store
	profile  *clinic.Profile
	test     clinic.Test
	quantity int

	state          State
	slotsMu        sync.Mutex
	slotsSeq       uint64
	availableSlots []string
	selectedDate   string
	selectedTime   string
	deliveryMethod *clinic.DeliveryMethod
	paymentMethod  string
	contact        Contact

	appliedDiscountCode string
	discountPercentage  float64

	failureMessage string
	result         *lifeline.CheckoutResult
}

// NewFlow starts a checkout flow for the given test offering.
func NewFlow(st *store.Store, profile *clinic.Profile, test clinic.Test, quantity int) *Flow {
	if quantity < 1 {
		quantity = 1
	}
	return &Flow{
		store:    st,
		profile:  profile,
		test:     test,
		quantity: quantity,
		state:    StateSelectingDate,
	}
}

// State returns the flow's current state.
func (f *Flow) State() State { return f.state }

// ClinicName returns the display name of the clinic being booked.
func (f *Flow) ClinicName() string { return f.profile.ClinicName }

// Result returns the checkout result once the flow reached StateBooked.
func (f *Flow) Result() *lifeline.CheckoutResult { return f.result }

// FailureMessage returns the surfaced message after a failed submission.
func (f *Flow) FailureMessage() string { return f.failureMessage }

// Subtotal is unit price times quantity.
func (f *Flow) Subtotal() float64 {
	return f.test.Price * float64(f.quantity)
}

// DiscountAmount derives the monetary discount from the applied percentage
// against the current subtotal, so a quantity change can never leave a stale
// frozen amount.
func (f *Flow) DiscountAmount() float64 {
	return f.Subtotal() * f.discountPercentage / 100
}

// Total is the payable amount after discount.
func (f *Flow) Total() float64 {
	return f.Subtotal() - f.DiscountAmount()
}

// AppliedDiscount returns the applied code and percentage, if any.
func (f *Flow) AppliedDiscount() (code string, percentage float64) {
	return f.appliedDiscountCode, f.discountPercentage
}

// errSlotsSuperseded marks a slot response that lost the race to a newer
// date selection on the same flow.
var errSlotsSuperseded = errors.New("booking: slot response superseded")

// SelectDate picks a booking date and fetches that day's slots. Any previous
// time selection is cleared; an availability error leaves the flow waiting on
// a new date. When date selections overlap, the response belonging to the
// older request is discarded, never committed over the newer one.
func (f *Flow) SelectDate(ctx context.Context, date string) ([]string, error) {
	f.slotsMu.Lock()
	f.slotsSeq++
	seq := f.slotsSeq
	f.selectedDate = date
	f.selectedTime = ""
	f.state = StateSelectingDate
	f.slotsMu.Unlock()

	slots, err := f.store.FetchAvailabilitySlots(ctx, f.profile.ClinicID, date)

	f.slotsMu.Lock()
	defer f.slotsMu.Unlock()
	if seq != f.slotsSeq {
		// A newer date selection owns the slot state now.
		return nil, errSlotsSuperseded
	}
	if err != nil {
		f.selectedDate = ""
		f.availableSlots = nil
		return nil, err
	}
	f.availableSlots = slots
	f.state = StateSelectingTime
	return slots, nil
}

// AvailableSlots returns the slots fetched for the selected date.
func (f *Flow) AvailableSlots() []string {
	f.slotsMu.Lock()
	defer f.slotsMu.Unlock()
	return append([]string(nil), f.availableSlots...)
}

// SelectTime picks one of the fetched slots.
func (f *Flow) SelectTime(slot string) error {
	f.slotsMu.Lock()
	defer f.slotsMu.Unlock()
	if f.selectedDate == "" {
		return errors.New("booking: select a date first")
	}
	found := false
	for _, t := range f.availableSlots {
		if t == slot {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("booking: time %q not among available slots", slot)
	}
	f.selectedTime = slot
	if f.deliveryMethod == nil {
		f.state = StateSelectingDeliveryMethod
	}
	return nil
}

// SelectDeliveryMethod picks the service delivery modality. The method must
// be one the clinic actually offers.
func (f *Flow) SelectDeliveryMethod(m clinic.DeliveryMethod) error {
	if !m.Valid() {
		return fmt.Errorf("booking: unknown delivery method %d", m)
	}
	if !f.clinicOffers(m) {
		return fmt.Errorf("booking: clinic does not offer %s", m)
	}
	f.deliveryMethod = &m
	f.state = StateEnteringDetails
	return nil
}

func (f *Flow) clinicOffers(m clinic.DeliveryMethod) bool {
	if len(f.profile.DeliveryMethods) == 0 {
		return true
	}
	for _, code := range f.profile.DeliveryMethods {
		if n, err := strconv.Atoi(code); err == nil && clinic.DeliveryMethod(n) == m {
			return true
		}
	}
	return false
}

// SetPaymentMethod records the payment method. Only mobile money is live;
// card checkout is rejected until the provider integration ships.
func (f *Flow) SetPaymentMethod(method string) error {
	switch method {
	case PaymentMethodMobile:
		f.paymentMethod = method
		return nil
	case PaymentMethodCard:
		return errors.New("booking: card payments are not available yet")
	default:
		return fmt.Errorf("booking: unknown payment method %q", method)
	}
}

// SetContact records contact and delivery details. Validation happens at
// submit time, so partially filled forms are fine here.
func (f *Flow) SetContact(c Contact) {
	f.contact = c
}

// ApplyDiscount validates a discount code against the current subtotal. On
// success the percentage is held in flow state (amounts always derive from it
// on read); on failure any previously applied discount is cleared and the
// rejection message returned.
func (f *Flow) ApplyDiscount(ctx context.Context, code string) store.DiscountResult {
	res := f.store.ApplyDiscountCode(ctx, f.profile.ClinicID, code, f.Subtotal())
	if !res.Success {
		f.appliedDiscountCode = ""
		f.discountPercentage = 0
		return res
	}
	f.appliedDiscountCode = strings.ToUpper(code)
	f.discountPercentage = res.Percentage
	return res
}

// requiredFields returns the blank-but-required detail fields for the chosen
// delivery method. Home service additionally needs a delivery address.
func (f *Flow) requiredFields() []string {
	var missing []string
	if strings.TrimSpace(f.contact.FullName) == "" {
		missing = append(missing, "full name")
	}
	if strings.TrimSpace(f.contact.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(f.contact.Phone) == "" {
		missing = append(missing, "phone number")
	}
	if f.deliveryMethod != nil && *f.deliveryMethod == clinic.HomeService {
		if strings.TrimSpace(f.contact.Address) == "" {
			missing = append(missing, "address")
		}
		if strings.TrimSpace(f.contact.CityOrDistrict) == "" {
			missing = append(missing, "city/district")
		}
	}
	return missing
}

// CanSubmit reports whether the confirm action is enabled: date, time,
// payment method and delivery method all set.
func (f *Flow) CanSubmit() bool {
	return f.selectedDate != "" && f.selectedTime != "" && f.paymentMethod != "" && f.deliveryMethod != nil
}

// Submit validates the form and posts the checkout. With an incomplete
// selection or blank required fields it returns before any network call.
// A failed checkout keeps all entered data so the caller can retry.
func (f *Flow) Submit(ctx context.Context) (store.CheckoutOutcome, error) {
	if !f.CanSubmit() {
		return store.CheckoutOutcome{}, ErrSubmitIncomplete
	}
	if missing := f.requiredFields(); len(missing) > 0 {
		return store.CheckoutOutcome{}, &ValidationError{Missing: missing}
	}

	req := lifeline.CheckoutRequest{
		ClinicID:       f.profile.ClinicID,
		TestNo:         f.test.TestNo,
		PaymentMethod:  f.paymentMethod,
		PhoneNumber:    NormalizePhone(f.contact.Phone),
		FullName:       f.contact.FullName,
		Email:          f.contact.Email,
		DeliveryMethod: int(*f.deliveryMethod),
		Date:           f.selectedDate,
		Time:           f.selectedTime,
		DiscountCode:   f.appliedDiscountCode,
	}
	if *f.deliveryMethod == clinic.HomeService {
		req.DeliveryAddress = &lifeline.DeliveryAddress{
			Address:        f.contact.Address,
			CityOrDistrict: f.contact.CityOrDistrict,
			PhoneNo:        NormalizePhone(f.contact.Phone),
		}
	}

	f.state = StateSubmitting
	outcome := f.store.CreateCheckout(ctx, req)
	if !outcome.Success {
		f.state = StateFailed
		f.failureMessage = outcome.Message
		return outcome, nil
	}

	f.state = StateBooked
	f.failureMessage = ""
	f.result = outcome.Result
	return outcome, nil
}

// Summary is the flow's current selections and pricing, shaped for display.
type Summary struct {
	State          State   `json:"state"`
	TestNo         int     `json:"testNo"`
	TestName       string  `json:"testName"`
	Quantity       int     `json:"quantity"`
	CurrencySymbol string  `json:"currencySymbol"`
	Date           string  `json:"date,omitempty"`
	Time           string  `json:"time,omitempty"`
	TimeDisplay    string  `json:"timeDisplay,omitempty"`
	DeliveryMethod string  `json:"deliveryMethod,omitempty"`
	PaymentMethod  string  `json:"paymentMethod,omitempty"`
	Subtotal       float64 `json:"subtotal"`
	DiscountCode   string  `json:"discountCode,omitempty"`
	DiscountAmount float64 `json:"discountAmount"`
	Total          float64 `json:"total"`
	CanSubmit      bool    `json:"canSubmit"`
	FailureMessage string  `json:"failureMessage,omitempty"`
}

// Summarize snapshots the flow for API responses.
func (f *Flow) Summarize() Summary {
	s := Summary{
		State:          f.state,
		TestNo:         f.test.TestNo,
		TestName:       clinic.Capitalize(f.test.TestName),
		Quantity:       f.quantity,
		CurrencySymbol: f.test.CurrencySymbol,
		Date:           f.selectedDate,
		Time:           f.selectedTime,
		TimeDisplay:    FormatTime12h(f.selectedTime),
		PaymentMethod:  f.paymentMethod,
		Subtotal:       f.Subtotal(),
		DiscountCode:   f.appliedDiscountCode,
		DiscountAmount: f.DiscountAmount(),
		Total:          f.Total(),
		CanSubmit:      f.CanSubmit(),
		FailureMessage: f.failureMessage,
	}
	if f.deliveryMethod != nil {
		s.DeliveryMethod = f.deliveryMethod.String()
	}
	return s
}

// FormatTime12h converts an "HH:00" slot to a 12-hour display string, e.g.
// "09:00" becomes "9:00 AM". Values it cannot parse pass through unchanged.
func FormatTime12h(slot string) string {
	parts := strings.SplitN(slot, ":", 2)
	if len(parts) != 2 {
		return slot
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return slot
	}
	ampm := "AM"
	if hour >= 12 {
		ampm = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%s %s", display, parts[1], ampm)
}
