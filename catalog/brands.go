package catalog

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
)

// GetBrands mirrors GetCategories: all brands plus derived product counts.
func GetBrands(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.BrandsCollection.Find(ctx, bson.M{})
	if err != nil {
		log.Println("GetBrands Find error:", err)
		utils.RespondWithData(w, http.StatusOK, []models.Brand{})
		return
	}
	defer cursor.Close(ctx)

	var brands []models.Brand
	if err := cursor.All(ctx, &brands); err != nil {
		log.Println("GetBrands cursor error:", err)
		utils.RespondWithData(w, http.StatusOK, []models.Brand{})
		return
	}

	for i := range brands {
		count, err := db.ProductsCollection.CountDocuments(ctx, bson.M{
			"brandId":   brands[i].BrandID,
			"published": true,
		})
		if err != nil {
			log.Println("GetBrands count error:", err)
			continue
		}
		brands[i].ProductCount = count
	}

	utils.RespondWithData(w, http.StatusOK, brands)
}

func CreateBrand(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var brand models.Brand
	if err := json.NewDecoder(r.Body).Decode(&brand); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if brand.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Name is required")
		return
	}

	brand.BrandID = utils.GetUUID()
	if brand.Slug == "" {
		brand.Slug = slugify(brand.Name)
	}
	brand.CreatedAt = time.Now()

	if _, err := db.BrandsCollection.InsertOne(ctx, brand); err != nil {
		log.Println("CreateBrand InsertOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not create brand")
		return
	}

	audit.Emit(ctx, utils.GetUserIDFromRequest(r), "brand.create", "brand", brand.BrandID, brand.Name)
	utils.RespondWithData(w, http.StatusCreated, brand)
}

func UpdateBrand(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	brandID := ps.ByName("brandid")

	var brand models.Brand
	if err := json.NewDecoder(r.Body).Decode(&brand); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	update := bson.M{"$set": bson.M{
		"name":    brand.Name,
		"slug":    brand.Slug,
		"logoUrl": brand.LogoURL,
	}}

	res, err := db.BrandsCollection.UpdateOne(ctx, bson.M{"brandId": brandID}, update)
	if err != nil {
		log.Println("UpdateBrand UpdateOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not update brand")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Brand not found")
		return
	}

	audit.Emit(ctx, utils.GetUserIDFromRequest(r), "brand.update", "brand", brandID, brand.Name)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func DeleteBrand(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	brandID := ps.ByName("brandid")

	res, err := db.BrandsCollection.DeleteOne(ctx, bson.M{"brandId": brandID})
	if err != nil {
		log.Println("DeleteBrand DeleteOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not delete brand")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Brand not found")
		return
	}

	audit.Emit(ctx, utils.GetUserIDFromRequest(r), "brand.delete", "brand", brandID, "")
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
