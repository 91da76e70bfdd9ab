package cart

import (
	"context"
	"log"

	"velora/models"
	"velora/pricing"
)

// ServerCart is the remote cart the bridge reconciles against. The HTTP
// client in client.go implements it; tests substitute a fake.
type ServerCart interface {
	Fetch(ctx context.Context, token string) ([]models.CartEntry, error)
	Replace(ctx context.Context, token string, items []models.CartLine) error
}

// Bridge reconciles a locally held cart with the server copy. The server is
// authoritative on login (Pull replaces local state wholesale); local
// mutations push a full replace (last-write-wins, no merge).
type Bridge struct {
	server ServerCart
}

func NewBridge(server ServerCart) *Bridge {
	return &Bridge{server: server}
}

// Pull fetches the server cart and rebuilds local line items, resolving each
// unit price from the inline product data so prices are always current.
// Without a token there is no session: Pull returns an empty cart and makes
// no network call.
func (b *Bridge) Pull(ctx context.Context, token string) ([]models.LineItem, error) {
	if token == "" {
		return []models.LineItem{}, nil
	}

	entries, err := b.server.Fetch(ctx, token)
	if err != nil {
		return nil, err
	}

	items := make([]models.LineItem, 0, len(entries))
	for _, e := range entries {
		unit := pricing.ResolveUnitPrice(e.Product.Price, e.Product.Attributes, e.SelectedVariants)
		items = append(items, models.LineItem{
			ProductID:        e.Product.ProductID,
			ProductName:      e.Product.Name,
			Quantity:         e.Quantity,
			UnitPrice:        unit,
			Subtotal:         pricing.LineSubtotal(unit, e.Quantity),
			SelectedVariants: e.SelectedVariants,
		})
	}
	return items, nil
}

// Push serializes the local cart and replaces the server copy. Only inputs
// travel: product id, quantity and the variant selection, never computed
// prices. Items with no resolvable product id are dropped with a warning,
// preserving the order of the rest. Without a token Push is a no-op.
func (b *Bridge) Push(ctx context.Context, token string, items []models.LineItem) error {
	if token == "" {
		return nil
	}

	outgoing := SerializeForSync(items)
	return b.server.Replace(ctx, token, outgoing)
}

// SerializeForSync maps local line items to the wire shape, dropping lines
// without a product id.
func SerializeForSync(items []models.LineItem) []models.CartLine {
	outgoing := make([]models.CartLine, 0, len(items))
	for _, it := range items {
		if it.ProductID == "" {
			log.Printf("cart sync: dropping item %q with no product id", it.ProductName)
			continue
		}
		outgoing = append(outgoing, models.CartLine{
			ProductID:        it.ProductID,
			Quantity:         it.Quantity,
			SelectedVariants: it.SelectedVariants,
		})
	}
	return outgoing
}
