package discounts

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"velora/audit"
	"velora/db"
	"velora/models"
	"velora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Admin CRUD over discounts. Pass-through to the collection plus validation
// and audit events.

func ListDiscounts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	skip, limit := utils.ParsePagination(r, 20, 100)
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := db.DiscountsCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		log.Println("ListDiscounts Find error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not list discounts")
		return
	}
	defer cursor.Close(ctx)

	var discounts []models.Discount
	if err := cursor.All(ctx, &discounts); err != nil {
		log.Println("ListDiscounts cursor error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading discounts")
		return
	}
	if discounts == nil {
		discounts = []models.Discount{}
	}

	utils.RespondWithData(w, http.StatusOK, discounts)
}

func CreateDiscount(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var discount models.Discount
	if err := json.NewDecoder(r.Body).Decode(&discount); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	discount.Code = utils.NormalizeCode(discount.Code)
	if msg := validate(discount); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	discount.DiscountID = utils.GetUUID()
	discount.CreatedAt = time.Now()

	if _, err := db.DiscountsCollection.InsertOne(ctx, discount); err != nil {
		if db.IsDuplicateKey(err) {
			utils.RespondWithError(w, http.StatusConflict, "A discount with this code already exists")
			return
		}
		log.Println("CreateDiscount InsertOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not create discount")
		return
	}

	audit.Emit(ctx, utils.GetUserIDFromRequest(r), "discount.create", "discount", discount.DiscountID, discount.Code)
	utils.RespondWithData(w, http.StatusCreated, discount)
}

func UpdateDiscount(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	discountID := ps.ByName("discountid")

	var discount models.Discount
	if err := json.NewDecoder(r.Body).Decode(&discount); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	discount.Code = utils.NormalizeCode(discount.Code)
	if msg := validate(discount); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	update := bson.M{"$set": bson.M{
		"code":          discount.Code,
		"type":          discount.Type,
		"appliesTo":     discount.AppliesTo,
		"value":         discount.Value,
		"productIds":    discount.ProductIDs,
		"minOrderValue": discount.MinOrderValue,
		"usageLimit":    discount.UsageLimit,
		"validFrom":     discount.ValidFrom,
		"validTo":       discount.ValidTo,
		"active":        discount.Active,
		"updatedAt":     time.Now(),
	}}

	res, err := db.DiscountsCollection.UpdateOne(ctx, bson.M{"discountId": discountID}, update)
	if err != nil {
		log.Println("UpdateDiscount UpdateOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not update discount")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Discount not found")
		return
	}

	audit.Emit(ctx, utils.GetUserIDFromRequest(r), "discount.update", "discount", discountID, discount.Code)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func DeleteDiscount(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	discountID := ps.ByName("discountid")

	res, err := db.DiscountsCollection.DeleteOne(ctx, bson.M{"discountId": discountID})
	if err != nil {
		log.Println("DeleteDiscount DeleteOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not delete discount")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Discount not found")
		return
	}

	audit.Emit(ctx, utils.GetUserIDFromRequest(r), "discount.delete", "discount", discountID, "")
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// validate returns a human-readable problem with the payload, or "".
func validate(d models.Discount) string {
	if d.Code == "" {
		return "Code is required"
	}
	switch d.Type {
	case models.DiscountPercentage:
		if d.Value <= 0 || d.Value > 100 {
			return "Percentage value must be within (0, 100]"
		}
	case models.DiscountFixed:
		if d.Value <= 0 {
			return "Fixed amount must be positive"
		}
	case models.DiscountFreeShipping:
		// value unused
	default:
		return "Unknown discount type"
	}
	switch d.AppliesTo {
	case models.AppliesToAll, models.AppliesToProducts, models.AppliesToShipping, models.AppliesToTotal:
	default:
		return "Unknown applicability scope"
	}
	if d.AppliesTo == models.AppliesToProducts && len(d.ProductIDs) == 0 {
		return "Product-scoped discounts need at least one product id"
	}
	if d.ValidFrom != nil && d.ValidTo != nil && d.ValidTo.Before(*d.ValidFrom) {
		return "validTo must be after validFrom"
	}
	return ""
}
