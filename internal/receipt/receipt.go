// Package receipt builds payment receipts from a checkout result and the
// provider's payment details, and exports them as PNG images or paginated
// A4 PDFs.
package receipt

import (
	"strconv"
	"strings"
	"time"

	"github.com/lifelineclinics/booking-gateway/internal/lifeline"
)

// Status is the provider-reported payment state, collapsed to the three
// values the receipt distinguishes.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
	StatusPending Status = "PENDING"
)

// StatusStyle is the label and palette a status renders with.
type StatusStyle struct {
	Label     string
	TextHex   string
	FillHex   string
	BorderHex string
}

var statusStyles = map[Status]StatusStyle{
	StatusSuccess: {Label: "Payment Successful", TextHex: "#15803d", FillHex: "#f0fdf4", BorderHex: "#86efac"},
	StatusFailed:  {Label: "Payment Failed", TextHex: "#b91c1c", FillHex: "#fef2f2", BorderHex: "#fecaca"},
	StatusPending: {Label: "Payment Pending", TextHex: "#b45309", FillHex: "#fef3c7", BorderHex: "#fde047"},
}

// ClassifyStatus maps a raw provider status to one of the three receipt
// statuses. Anything unrecognized, including an empty string, is PENDING.
func ClassifyStatus(raw string) Status {
	switch Status(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusSuccess:
		return StatusSuccess
	case StatusFailed:
		return StatusFailed
	default:
		return StatusPending
	}
}

// Style returns the render style for a status.
func (s Status) Style() StatusStyle {
	if st, ok := statusStyles[s]; ok {
		return st
	}
	return statusStyles[StatusPending]
}

var correspondentNames = map[string]string{
	"MTN_MOMO_RWA":     "MTN Mobile Money",
	"AIRTEL_MONEY_RWA": "Airtel Money",
	"EQUITY_BANK_RWA":  "Equity Bank",
}

// CorrespondentName resolves a provider correspondent code to its display
// name. Unknown codes pass through verbatim.
func CorrespondentName(code string) string {
	if name, ok := correspondentNames[code]; ok {
		return name
	}
	return code
}

// Receipt is everything needed to render a payment receipt. Details may be
// nil when the provider lookup has not completed; the receipt then renders
// as pending without a payment method section.
type Receipt struct {
	ClinicName     string
	TestName       string
	CurrencySymbol string
	Payment        lifeline.CheckoutResult
	Details        *lifeline.PaymentDetails
}

// New assembles a receipt. An empty clinic name falls back to the brand
// default.
func New(clinicName, testName, currencySymbol string, payment lifeline.CheckoutResult, details *lifeline.PaymentDetails) *Receipt {
	if clinicName == "" {
		clinicName = "Lifeline Clinics"
	}
	return &Receipt{
		ClinicName:     clinicName,
		TestName:       testName,
		CurrencySymbol: currencySymbol,
		Payment:        payment,
		Details:        details,
	}
}

// Number is the short receipt number shown in the header: the first eight
// characters of the transaction id, upper-cased.
func (r *Receipt) Number() string {
	id := r.Payment.TransactionID
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToUpper(id)
}

// Status classifies the provider status, defaulting to pending when no
// details were fetched.
func (r *Receipt) Status() Status {
	if r.Details == nil {
		return StatusPending
	}
	return ClassifyStatus(r.Details.Status)
}

// formatAmount renders a monetary value with thousands separators, dropping
// the fraction when it is whole.
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimSuffix(s, ".00")
	dot := strings.IndexByte(s, '.')
	intPart := s
	frac := ""
	if dot >= 0 {
		intPart, frac = s[:dot], s[dot:]
	}
	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}
	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	out := b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}

// formatTimestamp renders an RFC3339 timestamp as e.g. "Mar 10, 2025, 9:00 AM".
// Unparseable values pass through unchanged.
func formatTimestamp(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.Format("Jan 2, 2006, 3:04 PM")
}

// formatDate renders the date part only, e.g. "Mar 10, 2025".
func formatDate(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		if d, derr := time.Parse("2006-01-02", s); derr == nil {
			return d.Format("Jan 2, 2006")
		}
		return s
	}
	return t.Format("Jan 2, 2006")
}
