package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lifelineclinics/booking-gateway/internal/lifeline"
	"github.com/lifelineclinics/booking-gateway/internal/receipt"
	"github.com/lifelineclinics/booking-gateway/internal/store"
	"github.com/lifelineclinics/booking-gateway/pkg/logging"
)

// PaymentsHandler serves payment status lookups and receipt downloads.
type PaymentsHandler struct {
	store   *store.Store
	archive *receipt.Archive
	logger  *logging.Logger
}

// NewPaymentsHandler creates the payments handler.
func NewPaymentsHandler(st *store.Store, archive *receipt.Archive, logger *logging.Logger) *PaymentsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &PaymentsHandler{store: st, archive: archive, logger: logger}
}

// paymentPayload is the provider status with display names resolved.
type paymentPayload struct {
	*lifeline.PaymentDetails
	CorrespondentName string `json:"correspondentName"`
	StatusLabel       string `json:"statusLabel"`
}

// GetDetails handles GET /api/payments/{transactionID}.
func (h *PaymentsHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	txID := chi.URLParam(r, "transactionID")
	res := h.store.GetPaymentDetails(r.Context(), txID)
	if !res.Success {
		jsonError(w, res.Message, http.StatusNotFound)
		return
	}
	jsonData(w, http.StatusOK, paymentPayload{
		PaymentDetails:    res.Details,
		CorrespondentName: receipt.CorrespondentName(res.Details.Correspondent),
		StatusLabel:       receipt.ClassifyStatus(res.Details.Status).Style().Label,
	})
}

// ReceiptPNG handles GET /api/receipts/{transactionID}/png.
func (h *PaymentsHandler) ReceiptPNG(w http.ResponseWriter, r *http.Request) {
	h.serveReceipt(w, r, "png")
}

// ReceiptPDF handles GET /api/receipts/{transactionID}/pdf.
func (h *PaymentsHandler) ReceiptPDF(w http.ResponseWriter, r *http.Request) {
	h.serveReceipt(w, r, "pdf")
}

func (h *PaymentsHandler) serveReceipt(w http.ResponseWriter, r *http.Request, format string) {
	txID := chi.URLParam(r, "transactionID")
	rec, ok := h.archive.Get(txID)
	if !ok {
		jsonError(w, "Receipt not found", http.StatusNotFound)
		return
	}

	// Provider details are fetched lazily and are optional: a receipt for a
	// payment still settling renders as pending.
	var details *lifeline.PaymentDetails
	if res := h.store.GetPaymentDetails(r.Context(), txID); res.Success {
		details = res.Details
	}

	rcpt := receipt.New(rec.ClinicName, rec.TestName, rec.CurrencySymbol, rec.Payment, details)

	var data []byte
	var contentType string
	var err error
	switch format {
	case "pdf":
		data, err = rcpt.PDF()
		contentType = "application/pdf"
	default:
		data, err = rcpt.PNG()
		contentType = "image/png"
	}
	if err != nil {
		h.logger.Error("receipt export failed", "transaction_id", txID, "format", format, "error", err)
		jsonError(w, "Failed to generate receipt. Please try again.", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=payment-receipt-%s.%s", txID, format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
