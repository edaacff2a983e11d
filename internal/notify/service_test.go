package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifelineclinics/booking-gateway/internal/lifeline"
)

type captureSender struct {
	sent []EmailMessage
	err  error
}

func (c *captureSender) Send(ctx context.Context, msg EmailMessage) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, msg)
	return nil
}

func confirmation() BookingConfirmation {
	return BookingConfirmation{
		ClinicName: "Kigali Health Center",
		TestName:   "full blood count",
		Currency:   "RWF",
		Date:       "2025-03-10",
		Time:       "9:00 AM",
		Result: lifeline.CheckoutResult{
			TransactionID: "tx-9f2a77b1",
			Email:         "jane@example.com",
			FinalAmount:   8000,
			Discount: &lifeline.AppliedDiscount{
				Code:       "SAVE20",
				Percentage: 20,
			},
			DeliveryMethod: 0,
			DeliveryAddress: &lifeline.DeliveryAddress{
				Address:        "KG 11 Ave",
				CityOrDistrict: "Gasabo",
			},
		},
	}
}

func TestSendBookingConfirmation(t *testing.T) {
	sender := &captureSender{}
	svc := NewService(sender, "", nil)

	err := svc.SendBookingConfirmation(context.Background(), confirmation())
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "jane@example.com", msg.To)
	assert.Equal(t, "Booking Confirmed - Full Blood Count", msg.Subject)
	assert.True(t, strings.Contains(msg.Body, "Kigali Health Center"))
	assert.True(t, strings.Contains(msg.Body, "2025-03-10"))
	assert.True(t, strings.Contains(msg.Body, "9:00 AM"))
	assert.True(t, strings.Contains(msg.Body, "Home Service"))
	assert.True(t, strings.Contains(msg.Body, "KG 11 Ave, Gasabo"))
	assert.True(t, strings.Contains(msg.Body, "8000 RWF"))
	assert.True(t, strings.Contains(msg.Body, "SAVE20 (20%)"))
	assert.True(t, strings.Contains(msg.Body, "tx-9f2a77b1"))
	assert.False(t, strings.Contains(msg.Body, "Download your receipt"), "no link without a public base URL")
}

func TestSendBookingConfirmation_ReceiptLink(t *testing.T) {
	sender := &captureSender{}
	svc := NewService(sender, "https://book.mylifeline.world/", nil)

	err := svc.SendBookingConfirmation(context.Background(), confirmation())
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	assert.True(t, strings.Contains(sender.sent[0].Body,
		"Download your receipt: https://book.mylifeline.world/api/receipts/tx-9f2a77b1/pdf"))
}

func TestSendBookingConfirmation_NoSenderConfigured(t *testing.T) {
	svc := NewService(nil, "", nil)
	err := svc.SendBookingConfirmation(context.Background(), confirmation())
	assert.NoError(t, err)
}

func TestSendBookingConfirmation_NoPatientEmail(t *testing.T) {
	sender := &captureSender{}
	svc := NewService(sender, "", nil)

	c := confirmation()
	c.Result.Email = ""
	err := svc.SendBookingConfirmation(context.Background(), c)
	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}

func TestSendBookingConfirmation_SendFailure(t *testing.T) {
	sender := &captureSender{err: errors.New("smtp down")}
	svc := NewService(sender, "", nil)

	err := svc.SendBookingConfirmation(context.Background(), confirmation())
	assert.Error(t, err)
}
