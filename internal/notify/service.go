package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/lifelineclinics/booking-gateway/internal/clinic"
	"github.com/lifelineclinics/booking-gateway/internal/lifeline"
	"github.com/lifelineclinics/booking-gateway/pkg/logging"
)

// Service sends booking confirmations to patients.
type Service struct {
	email         EmailSender
	publicBaseURL string
	logger        *logging.Logger
}

// NewService creates a notification service. email may be nil; confirmations
// are then skipped. publicBaseURL is the gateway's externally reachable base
// URL, used to build the receipt download link; empty omits the link.
func NewService(email EmailSender, publicBaseURL string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{email: email, publicBaseURL: strings.TrimRight(publicBaseURL, "/"), logger: logger}
}

// BookingConfirmation is the data a confirmation email is built from.
type BookingConfirmation struct {
	ClinicName string
	TestName   string
	Currency   string
	Date       string
	Time       string
	Result     lifeline.CheckoutResult
}

// SendBookingConfirmation emails the patient after a successful checkout.
// Callers treat a returned error as log-and-continue.
func (s *Service) SendBookingConfirmation(ctx context.Context, c BookingConfirmation) error {
	if s.email == nil {
		s.logger.Debug("notify: email sender not configured, skipping confirmation")
		return nil
	}
	if c.Result.Email == "" {
		return nil
	}

	clinicName := c.ClinicName
	if clinicName == "" {
		clinicName = "Lifeline Clinics"
	}
	method := clinic.DeliveryMethod(c.Result.DeliveryMethod).String()
	testName := clinic.Capitalize(c.TestName)

	subject := fmt.Sprintf("Booking Confirmed - %s", testName)

	var b strings.Builder
	fmt.Fprintf(&b, "Your appointment with %s is confirmed!\n\n", clinicName)
	fmt.Fprintf(&b, "Service: %s\n", testName)
	fmt.Fprintf(&b, "Date: %s\n", c.Date)
	fmt.Fprintf(&b, "Time: %s\n", c.Time)
	fmt.Fprintf(&b, "Delivery Method: %s\n", method)
	if addr := c.Result.DeliveryAddress; addr != nil {
		fmt.Fprintf(&b, "Address: %s, %s\n", addr.Address, addr.CityOrDistrict)
	}
	fmt.Fprintf(&b, "Amount Paid: %.0f %s\n", c.Result.FinalAmount, c.Currency)
	if d := c.Result.Discount; d != nil {
		fmt.Fprintf(&b, "Discount Applied: %s (%.0f%%)\n", d.Code, d.Percentage)
	}
	fmt.Fprintf(&b, "Transaction ID: %s\n\n", c.Result.TransactionID)
	if s.publicBaseURL != "" && c.Result.TransactionID != "" {
		fmt.Fprintf(&b, "Download your receipt: %s/api/receipts/%s/pdf\n\n", s.publicBaseURL, c.Result.TransactionID)
	}
	fmt.Fprintf(&b, "Please keep this email for your records.\n\n— %s", clinicName)

	msg := EmailMessage{
		To:      c.Result.Email,
		Subject: subject,
		Body:    b.String(),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("notify: failed to send booking confirmation", "error", err, "to", c.Result.Email, "transaction_id", c.Result.TransactionID)
		return err
	}
	s.logger.Info("notify: booking confirmation sent", "to", c.Result.Email, "transaction_id", c.Result.TransactionID)
	return nil
}
