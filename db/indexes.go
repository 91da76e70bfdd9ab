package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InitIndexes creates the indexes the write paths rely on: unique order
// numbers, unique coupon codes, one cart per user, and the idempotency
// unique-key + TTL pair.
func InitIndexes(ctx context.Context) error {
	_, err := OrdersCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"orderId": 1},
		Options: options.Index().SetUnique(true).SetName("unique_order_id"),
	})
	if err != nil {
		return err
	}

	_, err = DiscountsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"code": 1},
		Options: options.Index().SetUnique(true).SetName("unique_code"),
	})
	if err != nil {
		return err
	}

	_, err = CartsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"userId": 1},
		Options: options.Index().SetUnique(true).SetName("unique_user_cart"),
	})
	if err != nil {
		return err
	}

	idxs := []mongo.IndexModel{
		{
			Keys:    bson.M{"key": 1},
			Options: options.Index().SetUnique(true).SetName("unique_key"),
		},
		{
			Keys:    bson.M{"expires_at": 1},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_expires_at"),
		},
	}
	_, err = IdempotencyCollection.Indexes().CreateMany(ctx, idxs)
	return err
}

// IsMissingCollection reports whether err is Mongo's "namespace not found"
// server error, raised when a collection has not been created yet. Callers
// treat it as "feature not available" rather than a hard failure.
func IsMissingCollection(err error) bool {
	if err == nil {
		return false
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == 26 // NamespaceNotFound
	}
	return false
}

// IsDuplicateKey reports whether err is a unique-index violation.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if we, ok := err.(mongo.WriteException); ok {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	return false
}
