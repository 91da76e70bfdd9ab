package orders

import "velora/models"

// Order status transitions. The backend is the only writer; everything else
// treats status as read-only.
var statusTransitions = map[string][]string{
	models.OrderPending:    {models.OrderProcessing, models.OrderCancelled},
	models.OrderProcessing: {models.OrderShipped, models.OrderCancelled},
	models.OrderShipped:    {models.OrderDelivered},
	models.OrderDelivered:  {},
	models.OrderCancelled:  {},
}

// Payment status is an independent axis.
var paymentTransitions = map[string][]string{
	models.PaymentPending:  {models.PaymentPaid, models.PaymentFailed},
	models.PaymentPaid:     {models.PaymentRefunded},
	models.PaymentFailed:   {models.PaymentPending},
	models.PaymentRefunded: {},
}

func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func CanTransitionPayment(from, to string) bool {
	for _, next := range paymentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func ValidStatus(s string) bool {
	_, ok := statusTransitions[s]
	return ok
}

func ValidPaymentStatus(s string) bool {
	_, ok := paymentTransitions[s]
	return ok
}
