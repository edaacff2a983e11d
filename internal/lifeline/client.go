package lifeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/lifelineclinics/booking-gateway/internal/availability"
	"github.com/lifelineclinics/booking-gateway/internal/clinic"
	"github.com/lifelineclinics/booking-gateway/pkg/logging"
)

const defaultTimeout = 20 * time.Second

var tracer = otel.Tracer("bookinggateway.internal.lifeline")

// RejectionError is a business rejection: the upstream answered the request
// but declined it (success:false), e.g. an invalid discount code or a slot
// that is no longer available. The message is safe to surface verbatim.
type RejectionError struct {
	Message string
}

func (e *RejectionError) Error() string {
	return e.Message
}

// IsRejection reports whether err is an upstream business rejection.
func IsRejection(err error) bool {
	var r *RejectionError
	return errors.As(err, &r)
}

// Client is an HTTP client for the Lifeline clinic backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewClient creates a clinic API client for the given base URL
// (e.g. "https://clinic-backend.mylifeline.world/api/v1").
func NewClient(baseURL string, timeout time.Duration, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// GetClinicProfile fetches a public clinic profile by username.
func (c *Client) GetClinicProfile(ctx context.Context, username string) (*clinic.Profile, error) {
	if strings.TrimSpace(username) == "" {
		return nil, fmt.Errorf("lifeline: missing username")
	}
	var out apiResponse[*clinic.Profile]
	if err := c.get(ctx, "/clinic/public/"+username, &out); err != nil {
		return nil, err
	}
	if !out.Success || out.Data == nil {
		return nil, &RejectionError{Message: messageOr(out.Message, "failed to fetch clinic data")}
	}
	return out.Data, nil
}

// GetAvailability fetches one day's availability window for a clinic.
// Date must be a YYYY-MM-DD calendar date.
func (c *Client) GetAvailability(ctx context.Context, clinicID int, date string) (*availability.Window, error) {
	path := fmt.Sprintf("/availability/%d/slots?date=%s", clinicID, date)
	var out apiResponse[*availability.Window]
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	if !out.Success || out.Data == nil {
		return nil, &RejectionError{Message: messageOr(out.Message, "failed to fetch availability slots")}
	}
	return out.Data, nil
}

// GetDiscountCodes fetches the clinic's active discount codes.
func (c *Client) GetDiscountCodes(ctx context.Context, clinicID int) ([]clinic.DiscountCode, error) {
	var out apiResponse[[]clinic.DiscountCode]
	if err := c.get(ctx, fmt.Sprintf("/discount/clinic/%d", clinicID), &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return []clinic.DiscountCode{}, nil
	}
	return out.Data, nil
}

// ApplyDiscount validates a discount code against a subtotal and returns the
// discount percentage. The code is upper-cased before transmission.
func (c *Client) ApplyDiscount(ctx context.Context, clinicID int, code string, amount float64) (float64, error) {
	body := map[string]any{
		"clinicId": strconv.Itoa(clinicID),
		"code":     strings.ToUpper(code),
		"amount":   amount,
	}
	var out apiResponse[discountApplyData]
	if err := c.post(ctx, "/discount/public/apply", body, &out); err != nil {
		return 0, err
	}
	if !out.Success {
		return 0, &RejectionError{Message: messageOr(out.Message, "Invalid discount code")}
	}
	return out.Data.Discount, nil
}

// CreateCheckout submits a booking checkout. No retries are attempted; a
// business rejection carries the server-provided message.
func (c *Client) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	ctx, span := tracer.Start(ctx, "lifeline.create_checkout")
	defer span.End()
	span.SetAttributes(
		attribute.Int("clinic.id", req.ClinicID),
		attribute.Int("clinic.test_no", req.TestNo),
		attribute.Int("clinic.delivery_method", req.DeliveryMethod),
	)

	var out apiResponse[*CheckoutResult]
	if err := c.post(ctx, "/orders/checkout/public", req, &out); err != nil {
		return nil, err
	}
	if !out.Success || out.Data == nil {
		return nil, &RejectionError{Message: messageOr(out.Message, "Checkout failed")}
	}
	return out.Data, nil
}

// GetPaymentDetails fetches payment-provider status for a transaction. The
// upstream has been observed returning either a single object or a
// one-element array; both are normalized to a single value.
func (c *Client) GetPaymentDetails(ctx context.Context, transactionID string) (*PaymentDetails, error) {
	if strings.TrimSpace(transactionID) == "" {
		return nil, fmt.Errorf("lifeline: missing transaction id")
	}
	var out apiResponse[json.RawMessage]
	if err := c.get(ctx, "/payment/pawapay/details/"+transactionID, &out); err != nil {
		return nil, err
	}
	if !out.Success || len(out.Data) == 0 {
		return nil, &RejectionError{Message: messageOr(out.Message, "failed to fetch payment details")}
	}

	raw := bytes.TrimSpace(out.Data)
	if len(raw) > 0 && raw[0] == '[' {
		var list []PaymentDetails
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("lifeline: unmarshal payment details list: %w", err)
		}
		if len(list) == 0 {
			return nil, &RejectionError{Message: "no payment details found"}
		}
		return &list[0], nil
	}

	var details PaymentDetails
	if err := json.Unmarshal(raw, &details); err != nil {
		return nil, fmt.Errorf("lifeline: unmarshal payment details: %w", err)
	}
	return &details, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("lifeline: marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("lifeline: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("lifeline: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("lifeline: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Error bodies still use the envelope; prefer its message.
		var env apiResponse[json.RawMessage]
		if jsonErr := json.Unmarshal(respBody, &env); jsonErr == nil && env.Message != "" {
			return &RejectionError{Message: env.Message}
		}
		msg := string(respBody)
		if len(msg) > 300 {
			msg = msg[:300]
		}
		return fmt.Errorf("lifeline: status %d: %s", resp.StatusCode, msg)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("lifeline: unmarshal response: %w", err)
	}
	return nil
}

func messageOr(message, fallback string) string {
	if strings.TrimSpace(message) != "" {
		return message
	}
	return fallback
}
