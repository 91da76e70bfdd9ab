package taxes

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
)

// ActiveRate returns the combined percentage rate of all active taxes.
// No taxes configured means a zero rate, not an error.
func ActiveRate(ctx context.Context) float64 {
	cursor, err := db.TaxesCollection.Find(ctx, bson.M{"active": true})
	if err != nil {
		log.Println("taxes: ActiveRate Find error:", err)
		return 0
	}
	defer cursor.Close(ctx)

	var list []models.Tax
	if err := cursor.All(ctx, &list); err != nil {
		log.Println("taxes: ActiveRate cursor error:", err)
		return 0
	}

	var rate float64
	for _, t := range list {
		rate += t.Rate
	}
	return rate
}

// GetActiveTaxes is the storefront read: only active taxes, for showing the
// rate breakdown at checkout.
func GetActiveTaxes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.TaxesCollection.Find(ctx, bson.M{"active": true})
	if err != nil {
		log.Println("GetActiveTaxes Find error:", err)
		utils.RespondWithData(w, http.StatusOK, []models.Tax{})
		return
	}
	defer cursor.Close(ctx)

	var list []models.Tax
	if err := cursor.All(ctx, &list); err != nil {
		log.Println("GetActiveTaxes cursor error:", err)
		utils.RespondWithData(w, http.StatusOK, []models.Tax{})
		return
	}
	if list == nil {
		list = []models.Tax{}
	}

	utils.RespondWithData(w, http.StatusOK, list)
}

func ListTaxes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.TaxesCollection.Find(ctx, bson.M{})
	if err != nil {
		log.Println("ListTaxes Find error:", err)
		utils.RespondWithData(w, http.StatusOK, []models.Tax{})
		return
	}
	defer cursor.Close(ctx)

	var list []models.Tax
	if err := cursor.All(ctx, &list); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to read taxes")
		return
	}
	if list == nil {
		list = []models.Tax{}
	}

	utils.RespondWithData(w, http.StatusOK, list)
}

func CreateTax(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var tax models.Tax
	if err := json.NewDecoder(r.Body).Decode(&tax); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := validate(&tax); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	tax.TaxID = utils.GetUUID()
	tax.CreatedAt = time.Now()
	if _, err := db.TaxesCollection.InsertOne(ctx, tax); err != nil {
		log.Println("CreateTax insert error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not create tax")
		return
	}

	audit.Emit(ctx, utils.GetUserIDFromRequest(r), "tax.create", "tax", tax.TaxID, tax.Name)
	utils.RespondWithJSON(w, http.StatusCreated, tax)
}

func UpdateTax(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	taxID := ps.ByName("taxid")

	var tax models.Tax
	if err := json.NewDecoder(r.Body).Decode(&tax); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := validate(&tax); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}
	tax.TaxID = taxID

	res, err := db.TaxesCollection.ReplaceOne(ctx, bson.M{"taxId": taxID}, tax)
	if err != nil {
		log.Println("UpdateTax replace error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not update tax")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Tax not found")
		return
	}

	audit.Emit(ctx, utils.GetUserIDFromRequest(r), "tax.update", "tax", taxID, tax.Name)
	utils.RespondWithJSON(w, http.StatusOK, tax)
}

func DeleteTax(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	taxID := ps.ByName("taxid")
	res, err := db.TaxesCollection.DeleteOne(ctx, bson.M{"taxId": taxID})
	if err != nil && err != mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not delete tax")
		return
	}
	if res == nil || res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Tax not found")
		return
	}

	audit.Emit(ctx, utils.GetUserIDFromRequest(r), "tax.delete", "tax", taxID, "")
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func validate(tax *models.Tax) string {
	tax.Name = strings.TrimSpace(tax.Name)
	if tax.Name == "" {
		return "Name is required"
	}
	if tax.Rate < 0 || tax.Rate > 100 {
		return "Rate must be between 0 and 100"
	}
	return ""
}
