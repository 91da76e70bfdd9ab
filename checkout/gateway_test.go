package checkout

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"velora/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	order      *models.Order
	items      []models.OrderItem
	orderErr   error
	itemsErr   error
	itemCalls  int
	orderCalls int
}

func (f *fakeStore) InsertOrder(_ context.Context, order models.Order) error {
	f.orderCalls++
	if f.orderErr != nil {
		return f.orderErr
	}
	f.order = &order
	return nil
}

func (f *fakeStore) InsertOrderItems(_ context.Context, _ string, items []models.OrderItem) error {
	f.itemCalls++
	if f.itemsErr != nil {
		return f.itemsErr
	}
	f.items = items
	return nil
}

func fixedNow() time.Time {
	return time.Date(2026, 4, 29, 15, 4, 5, 0, time.UTC)
}

func payload() Payload {
	return Payload{
		UserID: "u1",
		Items: []models.LineItem{
			{ProductID: "p1", ProductName: "Phone", Quantity: 1, UnitPrice: 50.00, Subtotal: 50.00},
			{ProductID: "p2", ProductName: "Case", Quantity: 3, UnitPrice: 25.00, Subtotal: 75.00},
		},
		Address:          models.Address{FullName: "A Shopper", Line1: "1 High St", City: "Leeds", Postcode: "LS1", Country: "GB"},
		DeliveryOptionID: "standard",
		DeliveryFee:      15.00,
		PaymentMethod:    "card",
	}
}

func newTestGateway(url string, store Store) *Gateway {
	g := NewGateway(url, store)
	g.Backoff = 0 // no sleeping in tests
	g.Now = fixedNow
	return g
}

func TestPlacePrimarySuccess(t *testing.T) {
	var gotKey string
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		gotKey = r.Header.Get("Idempotency-Key")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	store := &fakeStore{}
	g := newTestGateway(srv.URL, store)

	order, err := g.Place(context.Background(), payload())
	require.NoError(t, err)

	assert.Equal(t, 125.00, order.Subtotal)
	assert.Equal(t, 0.00, order.Tax)
	assert.Equal(t, 140.00, order.Total)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.NotEmpty(t, gotKey)
	assert.Equal(t, 1, calls)
	assert.Zero(t, store.orderCalls, "fallback untouched on primary success")
}

func TestPlaceRetriesKeepIdempotencyKey(t *testing.T) {
	keys := map[string]bool{}
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		keys[r.Header.Get("Idempotency-Key")] = true
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	g := newTestGateway(srv.URL, &fakeStore{})

	_, err := g.Place(context.Background(), payload())
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Len(t, keys, 1, "every retry carries the same key")
}

func TestPlaceFallbackOnPrimaryFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := &fakeStore{}
	g := newTestGateway(srv.URL, store)

	order, err := g.Place(context.Background(), payload())
	require.NoError(t, err)

	require.NotNil(t, store.order)
	assert.Equal(t, order.OrderID, store.order.OrderID)
	// fallback order carries the same computed totals as the primary path
	assert.Equal(t, 125.00, store.order.Subtotal)
	assert.Equal(t, 140.00, store.order.Total)
	assert.Nil(t, store.order.Items, "header row written without items")
	assert.Len(t, store.items, 2, "items written in the second step")
}

func TestPlaceFallbackOrphanOnSecondWriteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := &fakeStore{itemsErr: errors.New("write timeout")}
	g := newTestGateway(srv.URL, store)

	_, err := g.Place(context.Background(), payload())
	require.Error(t, err)
	assert.Equal(t, 1, store.orderCalls, "header row already written when items fail")
	assert.Equal(t, 1, store.itemCalls)
}

func TestPlaceNoRetryOnClientError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"message":"invalid address"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	store := &fakeStore{}
	g := newTestGateway(srv.URL, store)

	// 4xx goes straight to fallback without burning retries
	_, err := g.Place(context.Background(), payload())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, store.orderCalls)
}

func TestPlaceRejectsBadPayloads(t *testing.T) {
	g := newTestGateway("http://unused", &fakeStore{})

	_, err := g.Place(context.Background(), Payload{})
	assert.Error(t, err, "empty order")

	p := payload()
	p.Items[0].ProductID = ""
	_, err = g.Place(context.Background(), p)
	assert.Error(t, err, "item without product id")

	p = payload()
	p.Items[0].Quantity = 0
	_, err = g.Place(context.Background(), p)
	assert.Error(t, err, "non-positive quantity")
}

func TestOrderNumberFormat(t *testing.T) {
	g := newTestGateway("http://unused", &fakeStore{})

	order := g.buildOrder(payload())
	// truncated timestamp suffix + day/month for 29 April
	assert.Regexp(t, `^ORD-\d{6}-2904$`, order.OrderID)
}
