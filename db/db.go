package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ProductsCollection        *mongo.Collection
	CategoriesCollection      *mongo.Collection
	BrandsCollection          *mongo.Collection
	CartsCollection           *mongo.Collection
	OrdersCollection          *mongo.Collection
	WishlistsCollection       *mongo.Collection
	ReviewsCollection         *mongo.Collection
	DiscountsCollection       *mongo.Collection
	DealsCollection           *mongo.Collection
	TaxesCollection           *mongo.Collection
	DeliveryOptionsCollection *mongo.Collection
	MediaLibraryCollection    *mongo.Collection
	NotificationsCollection   *mongo.Collection
	SettingsCollection        *mongo.Collection
	AuditLogsCollection       *mongo.Collection
	IdempotencyCollection     *mongo.Collection
	Client                    *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("veloradb")
	ProductsCollection = database.Collection("products")
	CategoriesCollection = database.Collection("categories")
	BrandsCollection = database.Collection("brands")
	CartsCollection = database.Collection("carts")
	OrdersCollection = database.Collection("orders")
	WishlistsCollection = database.Collection("wishlists")
	ReviewsCollection = database.Collection("reviews")
	DiscountsCollection = database.Collection("discounts")
	DealsCollection = database.Collection("deals")
	TaxesCollection = database.Collection("taxes")
	DeliveryOptionsCollection = database.Collection("delivery_options")
	MediaLibraryCollection = database.Collection("media_library")
	NotificationsCollection = database.Collection("notifications")
	SettingsCollection = database.Collection("settings")
	AuditLogsCollection = database.Collection("auditlogs")
	IdempotencyCollection = database.Collection("idempotency")
}
