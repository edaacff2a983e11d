package receipt

import (
	"sync"

	"github.com/lifelineclinics/booking-gateway/internal/lifeline"
)

// Record is what a confirmed checkout leaves behind for receipt rendering.
type Record struct {
	ClinicName     string
	TestName       string
	CurrencySymbol string
	Payment        lifeline.CheckoutResult
}

// Archive keeps confirmed checkouts by transaction id so receipts can be
// rendered after the booking session itself is gone.
type Archive struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewArchive creates an empty archive.
func NewArchive() *Archive {
	return &Archive{records: make(map[string]Record)}
}

// Put stores a record under its transaction id.
func (a *Archive) Put(rec Record) {
	if rec.Payment.TransactionID == "" {
		return
	}
	a.mu.Lock()
	a.records[rec.Payment.TransactionID] = rec
	a.mu.Unlock()
}

// Get returns the record for a transaction id.
func (a *Archive) Get(transactionID string) (Record, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	rec, ok := a.records[transactionID]
	return rec, ok
}
