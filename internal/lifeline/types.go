package lifeline

// apiResponse is the upstream envelope wrapping every endpoint's payload.
type apiResponse[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message"`
}

// DeliveryAddress is the home-service delivery destination.
type DeliveryAddress struct {
	Address        string `json:"address"`
	CityOrDistrict string `json:"cityOrDistrict"`
	PhoneNo        string `json:"phoneNo"`
}

// CheckoutRequest is the wire payload for POST /orders/checkout/public.
// DeliveryAddress is required iff DeliveryMethod is home service (0).
type CheckoutRequest struct {
	ClinicID        int              `json:"clinicId"`
	TestNo          int              `json:"testNo"`
	PaymentMethod   string           `json:"paymentMethod"`
	PhoneNumber     string           `json:"phoneNumber"`
	FullName        string           `json:"fullName"`
	Email           string           `json:"email"`
	DeliveryMethod  int              `json:"deliveryMethod"`
	DeliveryAddress *DeliveryAddress `json:"deliveryAddress,omitempty"`
	Date            string           `json:"date"`
	Time            string           `json:"time"`
	DiscountCode    string           `json:"discountCode,omitempty"`
}

// AppliedDiscount echoes the discount applied to a checkout.
type AppliedDiscount struct {
	Code           string  `json:"code"`
	Percentage     float64 `json:"percentage"`
	DiscountAmount float64 `json:"discountAmount"`
	ExpiresAt      string  `json:"expiresAt"`
}

// CheckoutResult is the upstream response to a successful checkout.
// Immutable once received.
type CheckoutResult struct {
	TransactionID   string           `json:"transactionId"`
	PhoneNumber     string           `json:"phoneNumber"`
	Email           string           `json:"email"`
	Amount          float64          `json:"amount"`
	FinalAmount     float64          `json:"finalAmount"`
	Discount        *AppliedDiscount `json:"discount,omitempty"`
	DeliveryMethod  int              `json:"deliveryMethod"`
	DeliveryAddress *DeliveryAddress `json:"deliveryAddress,omitempty"`
	ScheduledAt     string           `json:"scheduledAt"`
}

// PaymentPayer identifies the paying party as reported by the provider.
type PaymentPayer struct {
	Address struct {
		Value string `json:"value"`
	} `json:"address"`
}

// PaymentFailure carries provider failure details when a payment did not
// complete.
type PaymentFailure struct {
	FailureCode    string `json:"failureCode"`
	FailureMessage string `json:"failureMessage"`
}

// PaymentDetails is the payment-provider status for a transaction.
type PaymentDetails struct {
	Status        string          `json:"status"`
	Correspondent string          `json:"correspondent"`
	Payer         *PaymentPayer   `json:"payer,omitempty"`
	Currency      string          `json:"currency"`
	Country       string          `json:"country"`
	Created       string          `json:"created"`
	FailureReason *PaymentFailure `json:"failureReason,omitempty"`
}

// discountApplyData is the payload of POST /discount/public/apply. The
// deployed contract is percentage-based: "discount" is a percentage that the
// caller turns into a monetary amount against its own subtotal.
type discountApplyData struct {
	Discount float64 `json:"discount"`
}
