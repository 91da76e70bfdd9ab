// Package deals manages flash deals: time-boxed discounts on specific
// products with an optional remaining-units counter kept in Redis.
package deals

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"velora/audit"
	"velora/db"
	"velora/models"
	"velora/rdx"
	"velora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ActiveDealFor returns the live deal covering a product, if any. First
// match wins; overlapping deals are an admin mistake, not a merge.
func ActiveDealFor(ctx context.Context, productID string, now time.Time) (models.Deal, bool) {
	filter := bson.M{
		"active":     true,
		"productIds": productID,
		"startsAt":   bson.M{"$lte": now},
		"endsAt":     bson.M{"$gt": now},
	}

	var deal models.Deal
	err := db.DealsCollection.FindOne(ctx, filter).Decode(&deal)
	if err == mongo.ErrNoDocuments {
		return models.Deal{}, false
	}
	if err != nil {
		log.Println("ActiveDealFor FindOne error:", err)
		return models.Deal{}, false
	}
	return deal, true
}

// GetActiveDeals lists deals currently in their window, with remaining
// units where a counter was seeded.
func GetActiveDeals(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	now := time.Now()
	filter := bson.M{
		"active":   true,
		"startsAt": bson.M{"$lte": now},
		"endsAt":   bson.M{"$gt": now},
	}

	cursor, err := db.DealsCollection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "endsAt", Value: 1}}))
	if err != nil {
		log.Println("GetActiveDeals Find error:", err)
		utils.RespondWithData(w, http.StatusOK, []models.Deal{})
		return
	}
	defer cursor.Close(ctx)

	var found []models.Deal
	if err := cursor.All(ctx, &found); err != nil {
		log.Println("GetActiveDeals cursor error:", err)
		utils.RespondWithData(w, http.StatusOK, []models.Deal{})
		return
	}

	type dealView struct {
		models.Deal
		Remaining int64 `json:"remaining,omitempty"`
	}
	views := make([]dealView, 0, len(found))
	for _, d := range found {
		v := dealView{Deal: d}
		if d.Units > 0 {
			if remaining, err := rdx.DealStock(d.DealID); err == nil {
				v.Remaining = remaining
			}
		}
		views = append(views, v)
	}

	utils.RespondWithData(w, http.StatusOK, views)
}

// --- Admin CRUD ---

func ListDeals(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	skip, limit := utils.ParsePagination(r, 20, 100)
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "startsAt", Value: -1}})

	cursor, err := db.DealsCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		log.Println("ListDeals Find error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not list deals")
		return
	}
	defer cursor.Close(ctx)

	var found []models.Deal
	if err := cursor.All(ctx, &found); err != nil {
		log.Println("ListDeals cursor error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading deals")
		return
	}
	if found == nil {
		found = []models.Deal{}
	}
	utils.RespondWithData(w, http.StatusOK, found)
}

func CreateDeal(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var deal models.Deal
	if err := json.NewDecoder(r.Body).Decode(&deal); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if msg := validate(deal); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	deal.DealID = utils.GetUUID()
	deal.CreatedAt = time.Now()

	if _, err := db.DealsCollection.InsertOne(ctx, deal); err != nil {
		log.Println("CreateDeal InsertOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not create deal")
		return
	}

	if deal.Units > 0 {
		if err := rdx.SetDealStock(deal.DealID, deal.Units, time.Until(deal.EndsAt)); err != nil {
			log.Println("CreateDeal stock counter error:", err)
		}
	}

	audit.Emit(ctx, utils.GetUserIDFromRequest(r), "deal.create", "deal", deal.DealID, deal.Title)
	utils.RespondWithData(w, http.StatusCreated, deal)
}

func UpdateDeal(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	dealID := ps.ByName("dealid")

	var deal models.Deal
	if err := json.NewDecoder(r.Body).Decode(&deal); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if msg := validate(deal); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	update := bson.M{"$set": bson.M{
		"title":      deal.Title,
		"productIds": deal.ProductIDs,
		"type":       deal.Type,
		"value":      deal.Value,
		"units":      deal.Units,
		"startsAt":   deal.StartsAt,
		"endsAt":     deal.EndsAt,
		"active":     deal.Active,
	}}

	res, err := db.DealsCollection.UpdateOne(ctx, bson.M{"dealId": dealID}, update)
	if err != nil {
		log.Println("UpdateDeal UpdateOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not update deal")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Deal not found")
		return
	}

	audit.Emit(ctx, utils.GetUserIDFromRequest(r), "deal.update", "deal", dealID, deal.Title)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func DeleteDeal(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	dealID := ps.ByName("dealid")

	res, err := db.DealsCollection.DeleteOne(ctx, bson.M{"dealId": dealID})
	if err != nil {
		log.Println("DeleteDeal DeleteOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not delete deal")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Deal not found")
		return
	}

	audit.Emit(ctx, utils.GetUserIDFromRequest(r), "deal.delete", "deal", dealID, "")
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func validate(d models.Deal) string {
	if d.Title == "" {
		return "Title is required"
	}
	if len(d.ProductIDs) == 0 {
		return "At least one product id is required"
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
	default:
		return "Deal type must be percentage or fixed"
	}
	if !d.EndsAt.After(d.StartsAt) {
		return "endsAt must be after startsAt"
	}
	return ""
}
