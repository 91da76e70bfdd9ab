package checkout

import (
	"context"

	"velora/db"
	"velora/models"

	"go.mongodb.org/mongo-driver/bson"
)

// MongoStore writes orders straight to the orders collection, bypassing the
// order service. Used only by the fallback path.
type MongoStore struct{}

func (MongoStore) InsertOrder(ctx context.Context, order models.Order) error {
	_, err := db.OrdersCollection.InsertOne(ctx, order)
	return err
}

func (MongoStore) InsertOrderItems(ctx context.Context, orderID string, items []models.OrderItem) error {
	_, err := db.OrdersCollection.UpdateOne(ctx,
		bson.M{"orderId": orderID},
		bson.M{"$set": bson.M{"items": items}},
	)
	return err
}
