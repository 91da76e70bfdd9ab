package cart

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"velora/db"
	"velora/models"
	"velora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetCart returns the user's server cart with the freshest product document
// resolved inline for every line, so clients recompute prices from current
// data. Lines whose product has vanished from the catalog are dropped.
func GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var stored models.Cart
	err := db.CartsCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&stored)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithData(w, http.StatusOK, []models.CartEntry{})
		return
	}
	if err != nil {
		log.Println("GetCart FindOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve cart")
		return
	}

	entries := make([]models.CartEntry, 0, len(stored.Items))
	for _, line := range stored.Items {
		var product models.Product
		err := db.ProductsCollection.FindOne(ctx, bson.M{"productId": line.ProductID}).Decode(&product)
		if err != nil {
			log.Printf("GetCart: dropping line for unresolvable product %s: %v", line.ProductID, err)
			continue
		}
		entries = append(entries, models.CartEntry{
			Product:          product,
			Quantity:         line.Quantity,
			SelectedVariants: line.SelectedVariants,
		})
	}

	utils.RespondWithData(w, http.StatusOK, entries)
}

// ReplaceCart is the PUT handler: a full last-write-wins replace of the
// user's cart with the pushed inputs. No merging.
func ReplaceCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		Items []models.CartLine `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Println("ReplaceCart decode error:", err)
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	items := make([]models.CartLine, 0, len(payload.Items))
	for _, line := range payload.Items {
		if line.ProductID == "" {
			log.Printf("ReplaceCart: skipping line with no product id for user %s", userID)
			continue
		}
		if line.Quantity <= 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Quantity must be positive")
			return
		}
		items = append(items, line)
	}

	update := bson.M{"$set": models.Cart{
		UserID:    userID,
		Items:     items,
		UpdatedAt: time.Now(),
	}}
	opts := options.Update().SetUpsert(true)

	if _, err := db.CartsCollection.UpdateOne(ctx, bson.M{"userId": userID}, update, opts); err != nil {
		log.Println("ReplaceCart UpdateOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not update cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "replaced"})
}

// ClearCart removes the user's server cart.
func ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if _, err := db.CartsCollection.DeleteOne(ctx, bson.M{"userId": userID}); err != nil {
		log.Println("ClearCart DeleteOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not clear cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
