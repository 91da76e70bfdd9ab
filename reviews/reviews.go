package reviews

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

// GetReviews lists reviews for a product, newest first. Read failures
// degrade to an empty list.
func GetReviews(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	productID := ps.ByName("productid")

	skip, limit := utils.ParsePagination(r, 10, 100)
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := db.ReviewsCollection.Find(ctx, bson.M{"productId": productID}, opts)
	if err != nil {
		log.Println("GetReviews Find error:", err)
		utils.RespondWithData(w, http.StatusOK, []models.Review{})
		return
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		log.Println("GetReviews cursor error:", err)
		utils.RespondWithData(w, http.StatusOK, []models.Review{})
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}

	utils.RespondWithData(w, http.StatusOK, reviews)
}

// AddReview allows one review per user per product.
func AddReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	productID := ps.ByName("productid")

	var review models.Review
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if review.Rating < 1 || review.Rating > 5 {
		utils.RespondWithError(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	count, err := db.ReviewsCollection.CountDocuments(ctx, bson.M{"userId": userID, "productId": productID})
	if err != nil {
		log.Println("AddReview count error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not save review")
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusConflict, "You have already reviewed this product")
		return
	}

	review.ReviewID = utils.GetUUID()
	review.ProductID = productID
	review.UserID = userID
	review.CreatedAt = time.Now()

	if _, err := db.ReviewsCollection.InsertOne(ctx, review); err != nil {
		log.Println("AddReview InsertOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not save review")
		return
	}

	utils.RespondWithData(w, http.StatusCreated, review)
}

func DeleteReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	reviewID := ps.ByName("reviewid")
	filter := bson.M{"reviewId": reviewID}
	// admins may remove any review, owners only their own
	if !utils.Contains(utils.GetRolesFromRequest(r), "admin") {
		filter["userId"] = userID
	}

	res, err := db.ReviewsCollection.DeleteOne(ctx, filter)
	if err != nil {
		log.Println("DeleteReview DeleteOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not delete review")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Review not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
