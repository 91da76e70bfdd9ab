package delivery

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"velora/audit"
	"velora/db"
	"velora/models"
	"velora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetDeliveryOptions returns the active options sorted cheapest first.
// The storefront shows these at checkout.
func GetDeliveryOptions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "fee", Value: 1}})
	cursor, err := db.DeliveryOptionsCollection.Find(ctx, bson.M{"active": true}, opts)
	if err != nil {
		log.Println("GetDeliveryOptions Find error:", err)
		utils.RespondWithData(w, http.StatusOK, []models.DeliveryOption{})
		return
	}
	defer cursor.Close(ctx)

	var list []models.DeliveryOption
	if err := cursor.All(ctx, &list); err != nil {
		log.Println("GetDeliveryOptions cursor error:", err)
		utils.RespondWithData(w, http.StatusOK, []models.DeliveryOption{})
		return
	}
	if list == nil {
		list = []models.DeliveryOption{}
	}

	utils.RespondWithData(w, http.StatusOK, list)
}

func AdminListDeliveryOptions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.DeliveryOptionsCollection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "fee", Value: 1}}))
	if err != nil {
		log.Println("AdminListDeliveryOptions Find error:", err)
		utils.RespondWithData(w, http.StatusOK, []models.DeliveryOption{})
		return
	}
	defer cursor.Close(ctx)

	var list []models.DeliveryOption
	if err := cursor.All(ctx, &list); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to read delivery options")
		return
	}
	if list == nil {
		list = []models.DeliveryOption{}
	}

	utils.RespondWithData(w, http.StatusOK, list)
}

func CreateDeliveryOption(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var opt models.DeliveryOption
	if err := json.NewDecoder(r.Body).Decode(&opt); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate(&opt); err != "" {
		utils.RespondWithError(w, http.StatusBadRequest, err)
		return
	}

	opt.OptionID = utils.GetUUID()
	opt.CreatedAt = time.Now()
	if _, err := db.DeliveryOptionsCollection.InsertOne(ctx, opt); err != nil {
		log.Println("CreateDeliveryOption insert error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not create delivery option")
		return
	}

	audit.Emit(ctx, utils.GetUserIDFromRequest(r), "delivery.create", "delivery_option", opt.OptionID, opt.Name)
	utils.RespondWithJSON(w, http.StatusCreated, opt)
}

func UpdateDeliveryOption(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	optionID := ps.ByName("optionid")

	var opt models.DeliveryOption
	if err := json.NewDecoder(r.Body).Decode(&opt); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate(&opt); err != "" {
		utils.RespondWithError(w, http.StatusBadRequest, err)
		return
	}
	opt.OptionID = optionID

	res, err := db.DeliveryOptionsCollection.ReplaceOne(ctx, bson.M{"optionId": optionID}, opt)
	if err != nil {
		log.Println("UpdateDeliveryOption replace error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not update delivery option")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Delivery option not found")
		return
	}

	audit.Emit(ctx, utils.GetUserIDFromRequest(r), "delivery.update", "delivery_option", optionID, opt.Name)
	utils.RespondWithJSON(w, http.StatusOK, opt)
}

func DeleteDeliveryOption(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	optionID := ps.ByName("optionid")
	res, err := db.DeliveryOptionsCollection.DeleteOne(ctx, bson.M{"optionId": optionID})
	if err != nil && err != mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not delete delivery option")
		return
	}
	if res == nil || res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Delivery option not found")
		return
	}

	audit.Emit(ctx, utils.GetUserIDFromRequest(r), "delivery.delete", "delivery_option", optionID, "")
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func validate(opt *models.DeliveryOption) string {
	opt.Name = strings.TrimSpace(opt.Name)
	if opt.Name == "" {
		return "Name is required"
	}
	if opt.Fee < 0 {
		return "Fee cannot be negative"
	}
	return ""
}
