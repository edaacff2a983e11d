package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lifelineclinics/booking-gateway/internal/booking"
	"github.com/lifelineclinics/booking-gateway/internal/http/handlers"
	"github.com/lifelineclinics/booking-gateway/internal/lifeline"
	"github.com/lifelineclinics/booking-gateway/internal/receipt"
	"github.com/lifelineclinics/booking-gateway/internal/store"
	"github.com/lifelineclinics/booking-gateway/pkg/logging"
)

// fakeUpstream mimics the clinic backend API for end-to-end routing tests.
func fakeUpstream(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/clinic/public/lifeline-kigali", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":true,"data":{
			"clinicId":42,
			"clinicName":"Lifeline Kigali",
			"username":"lifeline-kigali",
			"bio":"Trusted diagnostics.",
			"deliveryMethods":["0","1"],
			"supportInsurance":[1,2],
			"location":{"street":"KG 7 Ave","cityOrDistrict":"Gasabo","stateOrProvince":"Kigali","postalCode":"00000"},
			"tests":[{"testNo":7,"testName":"malaria screening","price":5000,"currencySymbol":"RWF"}]
		}}`)
	})
	mux.HandleFunc("/clinic/public/nobody", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":false,"message":"Clinic not found"}`)
	})
	mux.HandleFunc("/availability/42/slots", func(w http.ResponseWriter, r *http.Request) {
		// 2025-03-10 is a Monday.
		fmt.Fprint(w, `{"success":true,"data":{"day":"monday","isClosed":false,"timeRanges":[{"openHour":9,"closeHour":11}]}}`)
	})
	mux.HandleFunc("/discount/public/apply", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":true,"data":{"discount":20}}`)
	})
	mux.HandleFunc("/orders/checkout/public", func(w http.ResponseWriter, r *http.Request) {
		var req lifeline.CheckoutRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		fmt.Fprintf(w, `{"success":true,"data":{
			"transactionId":"e2e-tx-0001",
			"phoneNumber":%q,"email":%q,
			"amount":5000,"finalAmount":4000,
			"discount":{"code":"SAVE20","percentage":20,"discountAmount":1000,"expiresAt":"2025-12-31"},
			"deliveryMethod":%d,
			"scheduledAt":"2025-03-10T09:00:00Z"
		}}`, req.PhoneNumber, req.Email, req.DeliveryMethod)
	})
	mux.HandleFunc("/payment/pawapay/details/e2e-tx-0001", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":true,"data":{"status":"SUCCESS","correspondent":"MTN_MOMO_RWA","currency":"RWF","country":"RWA"}}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := logging.Default()
	client := lifeline.NewClient(fakeUpstream(t).URL, 5*time.Second, logger)
	st := store.New(client, nil, logger)
	registry := booking.NewRegistry(30*time.Minute, logger)
	archive := receipt.NewArchive()

	cfg := &Config{
		Logger:          logger,
		ClinicHandler:   handlers.NewClinicHandler(st, nil, logger),
		BookingHandler:  handlers.NewBookingHandler(st, registry, archive, nil, nil, logger),
		PaymentsHandler: handlers.NewPaymentsHandler(st, archive, logger),
	}
	return New(cfg)
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", resp["status"])
	}
}

func TestRouterClinicProfile(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, http.MethodGet, "/api/clinics/lifeline-kigali", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	for _, want := range []string{`"success":true`, `"clinicName":"Lifeline Kigali"`, `"address":"KG 7 Ave, Gasabo, Kigali 00000"`, "Home Service", "RSSB"} {
		if !strings.Contains(body, want) {
			t.Errorf("profile response missing %q: %s", want, body)
		}
	}
}

func TestRouterClinicProfileNotFound(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, http.MethodGet, "/api/clinics/nobody", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"success":false`) {
		t.Errorf("expected failure envelope, got %s", rr.Body.String())
	}
}

func TestRouterSlots(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, http.MethodGet, "/api/clinics/42/slots?date=2025-03-10", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"slots":["09:00","10:00"]`) {
		t.Errorf("unexpected slots payload: %s", rr.Body.String())
	}
}

func TestRouterBookingFlowEndToEnd(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/booking/sessions",
		`{"clinicUsername":"lifeline-kigali","testNo":7,"quantity":1}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create session: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var created struct {
		Data struct {
			SessionID string `json:"sessionId"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	id := created.Data.SessionID
	if id == "" {
		t.Fatal("expected a session id")
	}
	base := "/api/booking/sessions/" + id

	steps := []struct {
		method, path, body string
	}{
		{http.MethodPut, base + "/date", `{"date":"2025-03-10"}`},
		{http.MethodPut, base + "/time", `{"time":"09:00"}`},
		{http.MethodPut, base + "/delivery-method", `{"method":1}`},
		{http.MethodPut, base + "/payment-method", `{"method":"mobile"}`},
		{http.MethodPut, base + "/contact", `{"fullName":"Jane Doe","email":"jane@example.com","phone":"0788123456"}`},
		{http.MethodPost, base + "/discount", `{"code":"save20"}`},
	}
	for _, step := range steps {
		rr := doJSON(t, router, step.method, step.path, step.body)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s %s: expected 200, got %d: %s", step.method, step.path, rr.Code, rr.Body.String())
		}
	}

	rr = doJSON(t, router, http.MethodPost, base+"/confirm", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("confirm: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	for _, want := range []string{`"transactionId":"e2e-tx-0001"`, `"finalAmount":4000`, `"state":"booked"`} {
		if !strings.Contains(body, want) {
			t.Errorf("confirm response missing %q: %s", want, body)
		}
	}

	// The receipt is downloadable once the checkout confirmed.
	rr = doJSON(t, router, http.MethodGet, "/api/receipts/e2e-tx-0001/png", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("receipt png: expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %q", ct)
	}

	rr = doJSON(t, router, http.MethodGet, "/api/receipts/e2e-tx-0001/pdf", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("receipt pdf: expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", ct)
	}
}

func TestRouterPaymentDetails(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, http.MethodGet, "/api/payments/e2e-tx-0001", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	for _, want := range []string{`"correspondentName":"MTN Mobile Money"`, `"statusLabel":"Payment Successful"`} {
		if !strings.Contains(body, want) {
			t.Errorf("payment response missing %q: %s", want, body)
		}
	}
}

func TestRouterSessionNotFound(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, http.MethodGet, "/api/booking/sessions/unknown", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
