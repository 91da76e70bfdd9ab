package orders

import (
	"testing"

	"velora/models"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to string
		allowed  bool
	}{
		{models.OrderPending, models.OrderProcessing, true},
		{models.OrderPending, models.OrderCancelled, true},
		{models.OrderProcessing, models.OrderShipped, true},
		{models.OrderProcessing, models.OrderCancelled, true},
		{models.OrderShipped, models.OrderDelivered, true},

		{models.OrderPending, models.OrderShipped, false},
		{models.OrderPending, models.OrderDelivered, false},
		{models.OrderShipped, models.OrderCancelled, false},
		{models.OrderDelivered, models.OrderCancelled, false},
		{models.OrderCancelled, models.OrderPending, false},
		{models.OrderDelivered, models.OrderPending, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestPaymentTransitions(t *testing.T) {
	tests := []struct {
		from, to string
		allowed  bool
	}{
		{models.PaymentPending, models.PaymentPaid, true},
		{models.PaymentPending, models.PaymentFailed, true},
		{models.PaymentPaid, models.PaymentRefunded, true},
		{models.PaymentFailed, models.PaymentPending, true},

		{models.PaymentPending, models.PaymentRefunded, false},
		{models.PaymentPaid, models.PaymentPending, false},
		{models.PaymentRefunded, models.PaymentPaid, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, CanTransitionPayment(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(models.OrderPending))
	assert.True(t, ValidPaymentStatus(models.PaymentRefunded))
	assert.False(t, ValidStatus("archived"))
	assert.False(t, ValidPaymentStatus("chargeback"))
}
