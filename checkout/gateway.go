// Package checkout places finalized orders. The primary path POSTs to the
// order service with an Idempotency-Key and bounded retries; only when every
// attempt fails does it fall back to writing the order directly to the
// database. The fallback is two sequential writes with no transaction, so a
// crash between them leaves an order without items, kept observable in the
// logs rather than papered over.
package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"velora/models"
	"velora/pricing"
	"velora/utils"

	"github.com/google/uuid"
)

// Payload is a finalized checkout: the cart lines plus delivery and payment
// selections.
type Payload struct {
	UserID           string            `json:"userId"`
	Items            []models.LineItem `json:"items"`
	Address          models.Address    `json:"address"`
	DeliveryOptionID string            `json:"deliveryOptionId"`
	DeliveryFee      float64           `json:"deliveryFee"`
	PaymentMethod    string            `json:"paymentMethod"`
	Notes            string            `json:"notes,omitempty"`
	CouponCode       string            `json:"couponCode,omitempty"`
	Discount         float64           `json:"discount,omitempty"`
}

// Store is the direct-database fallback target.
type Store interface {
	InsertOrder(ctx context.Context, order models.Order) error
	InsertOrderItems(ctx context.Context, orderID string, items []models.OrderItem) error
}

// Gateway submits orders. Zero-value retry settings get sane defaults.
type Gateway struct {
	BaseURL    string
	HTTPClient *http.Client
	Store      Store
	Retries    int
	Backoff    time.Duration
	Now        func() time.Time
}

func NewGateway(baseURL string, store Store) *Gateway {
	return &Gateway{
		BaseURL:    baseURL,
		HTTPClient: http.DefaultClient,
		Store:      store,
		Retries:    3,
		Backoff:    500 * time.Millisecond,
		Now:        time.Now,
	}
}

// Place computes the order totals, submits to the primary order endpoint,
// and falls back to direct writes when the primary path stays down. Both
// paths produce identical totals.
func (g *Gateway) Place(ctx context.Context, p Payload) (models.Order, error) {
	if len(p.Items) == 0 {
		return models.Order{}, fmt.Errorf("cannot place an empty order")
	}
	for _, it := range p.Items {
		if it.ProductID == "" || it.Quantity <= 0 {
			return models.Order{}, fmt.Errorf("invalid line item %q", it.ProductName)
		}
	}

	order := g.buildOrder(p)
	idemKey := uuid.New().String()

	primaryErr := g.submitPrimary(ctx, order, idemKey)
	if primaryErr == nil {
		return order, nil
	}
	log.Printf("checkout: primary order submission failed after retries, using fallback: %v", primaryErr)

	if err := g.submitFallback(ctx, order); err != nil {
		return models.Order{}, fmt.Errorf("order creation failed on both paths: primary: %v, fallback: %w", primaryErr, err)
	}
	return order, nil
}

func (g *Gateway) buildOrder(p Payload) models.Order {
	now := g.Now()
	totals := pricing.OrderTotals(p.Items, p.DeliveryFee, 0, p.Discount)

	items := make([]models.OrderItem, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, models.OrderItem{
			ProductID:        it.ProductID,
			ProductName:      it.ProductName,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			Subtotal:         it.Subtotal,
			SelectedVariants: it.SelectedVariants,
		})
	}

	return models.Order{
		OrderID:          utils.GenerateOrderNumber(now),
		UserID:           p.UserID,
		Items:            items,
		Address:          p.Address,
		DeliveryOptionID: p.DeliveryOptionID,
		PaymentMethod:    p.PaymentMethod,
		Notes:            p.Notes,
		CouponCode:       p.CouponCode,
		Subtotal:         totals.Subtotal,
		DeliveryFee:      totals.DeliveryFee,
		Tax:              totals.Tax,
		Discount:         totals.Discount,
		Total:            totals.Total,
		Status:           models.OrderPending,
		PaymentStatus:    models.PaymentPending,
		CreatedAt:        now,
	}
}

// submitPrimary POSTs the order with the same Idempotency-Key on every
// attempt, backing off between tries, so retries can never double-create.
func (g *Gateway) submitPrimary(ctx context.Context, order models.Order, idemKey string) error {
	body, err := json.Marshal(order)
	if err != nil {
		return err
	}

	attempts := g.Retries
	if attempts < 1 {
		attempts = 1
	}
	backoff := g.Backoff

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 && backoff > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/api/orders", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", idemKey)

		resp, err := g.HTTPClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return nil
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		resp.Body.Close()
		lastErr = fmt.Errorf("order api: %s: %s", resp.Status, bytes.TrimSpace(raw))

		// 4xx will not improve on retry
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return lastErr
		}
	}
	return lastErr
}

// submitFallback performs the two direct writes: order header first, items
// second. If the second write fails the header stays behind without items.
func (g *Gateway) submitFallback(ctx context.Context, order models.Order) error {
	header := order
	header.Items = nil
	if err := g.Store.InsertOrder(ctx, header); err != nil {
		return fmt.Errorf("fallback order write: %w", err)
	}
	if err := g.Store.InsertOrderItems(ctx, order.OrderID, order.Items); err != nil {
		log.Printf("checkout: order %s written without items, manual repair needed: %v", order.OrderID, err)
		return fmt.Errorf("fallback order-items write: %w", err)
	}
	return nil
}
