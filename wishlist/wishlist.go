package wishlist

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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetWishlist returns the user's saved products. A missing collection means
// the feature has not been provisioned: respond with an empty list and a
// flag rather than an error.
func GetWishlist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	cursor, err := db.WishlistsCollection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		if db.IsMissingCollection(err) {
			utils.RespondWithJSON(w, http.StatusOK, utils.M{"data": []models.WishlistItem{}, "available": false})
			return
		}
		log.Println("GetWishlist Find error:", err)
		utils.RespondWithData(w, http.StatusOK, []models.WishlistItem{})
		return
	}
	defer cursor.Close(ctx)

	var items []models.WishlistItem
	if err := cursor.All(ctx, &items); err != nil {
		log.Println("GetWishlist cursor error:", err)
		utils.RespondWithData(w, http.StatusOK, []models.WishlistItem{})
		return
	}
	if items == nil {
		items = []models.WishlistItem{}
	}

	utils.RespondWithData(w, http.StatusOK, items)
}

// AddToWishlist upserts so double-taps don't duplicate.
func AddToWishlist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		ProductID string `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.ProductID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "product_id is required")
		return
	}

	filter := bson.M{"userId": userID, "productId": payload.ProductID}
	update := bson.M{"$setOnInsert": models.WishlistItem{
		UserID:    userID,
		ProductID: payload.ProductID,
		AddedAt:   time.Now(),
	}}
	opts := options.Update().SetUpsert(true)

	if _, err := db.WishlistsCollection.UpdateOne(ctx, filter, update, opts); err != nil {
		log.Println("AddToWishlist UpdateOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not update wishlist")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

func RemoveFromWishlist(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	productID := ps.ByName("productid")
	if _, err := db.WishlistsCollection.DeleteOne(ctx, bson.M{"userId": userID, "productId": productID}); err != nil {
		log.Println("RemoveFromWishlist DeleteOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not update wishlist")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
