package cart

import (
	"context"
	"errors"
	"testing"

	"velora/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServer struct {
	entries    []models.CartEntry
	fetchCalls int
	replaced   []models.CartLine
	replaceErr error
}

func (f *fakeServer) Fetch(_ context.Context, _ string) ([]models.CartEntry, error) {
	f.fetchCalls++
	return f.entries, nil
}

func (f *fakeServer) Replace(_ context.Context, _ string, items []models.CartLine) error {
	f.replaced = items
	return f.replaceErr
}

func TestPullUnauthenticatedMakesNoCall(t *testing.T) {
	srv := &fakeServer{}
	bridge := NewBridge(srv)

	items, err := bridge.Pull(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, srv.fetchCalls, "no network call without a session")
}

func TestPullRecomputesPricesFromInlineProducts(t *testing.T) {
	srv := &fakeServer{
		entries: []models.CartEntry{
			{
				Product: models.Product{
					ProductID: "p1",
					Name:      "Phone",
					Price:     500,
					Attributes: []models.VariantAttribute{
						{
							AttributeID: "storage",
							Options: []models.VariantOption{
								{OptionID: "256gb", PriceModifier: 100, Stock: 2},
							},
						},
					},
				},
				Quantity:         2,
				SelectedVariants: map[string]string{"storage": "256gb"},
			},
		},
	}
	bridge := NewBridge(srv)

	items, err := bridge.Pull(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 600.00, items[0].UnitPrice)
	assert.Equal(t, 1200.00, items[0].Subtotal)
	assert.Equal(t, "p1", items[0].ProductID)
}

func TestPushUnauthenticatedIsNoOp(t *testing.T) {
	srv := &fakeServer{}
	bridge := NewBridge(srv)

	err := bridge.Push(context.Background(), "", []models.LineItem{{ProductID: "p1", Quantity: 1}})
	require.NoError(t, err)
	assert.Nil(t, srv.replaced, "nothing pushed without a session")
}

func TestSerializeForSyncDropsIDLessItems(t *testing.T) {
	items := []models.LineItem{
		{ProductID: "p1", ProductName: "Phone", Quantity: 1, UnitPrice: 500, Subtotal: 500},
		{ProductID: "", ProductName: "Ghost", Quantity: 3},
		{ProductID: "p3", ProductName: "Case", Quantity: 2, SelectedVariants: map[string]string{"color": "black"}},
	}

	out := SerializeForSync(items)
	require.Len(t, out, 2)
	// order of the retained items is preserved
	assert.Equal(t, "p1", out[0].ProductID)
	assert.Equal(t, "p3", out[1].ProductID)
	assert.Equal(t, map[string]string{"color": "black"}, out[1].SelectedVariants)
}

func TestSerializeForSyncSendsInputsOnly(t *testing.T) {
	out := SerializeForSync([]models.LineItem{
		{ProductID: "p1", Quantity: 2, UnitPrice: 99.99, Subtotal: 199.98},
	})
	require.Len(t, out, 1)
	// CartLine carries no price fields; only inputs cross the wire
	assert.Equal(t, models.CartLine{ProductID: "p1", Quantity: 2}, out[0])
}

func TestPushPropagatesServerError(t *testing.T) {
	srv := &fakeServer{replaceErr: errors.New("boom")}
	bridge := NewBridge(srv)

	err := bridge.Push(context.Background(), "tok", []models.LineItem{{ProductID: "p1", Quantity: 1}})
	assert.Error(t, err)
}
