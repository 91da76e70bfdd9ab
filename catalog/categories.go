package catalog

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
)

// GetCategories lists all categories with a derived product count per
// category. Failures degrade to an empty list.
func GetCategories(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.CategoriesCollection.Find(ctx, bson.M{})
	if err != nil {
		log.Println("GetCategories Find error:", err)
		utils.RespondWithData(w, http.StatusOK, []models.Category{})
		return
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		log.Println("GetCategories cursor error:", err)
		utils.RespondWithData(w, http.StatusOK, []models.Category{})
		return
	}

	for i := range categories {
		count, err := db.ProductsCollection.CountDocuments(ctx, bson.M{
			"categoryId": categories[i].CategoryID,
			"published":  true,
		})
		if err != nil {
			log.Println("GetCategories count error:", err)
			continue
		}
		categories[i].ProductCount = count
	}

	utils.RespondWithData(w, http.StatusOK, categories)
}

func CreateCategory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var category models.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if category.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Name is required")
		return
	}

	category.CategoryID = utils.GetUUID()
	if category.Slug == "" {
		category.Slug = slugify(category.Name)
	}
	category.CreatedAt = time.Now()

	if _, err := db.CategoriesCollection.InsertOne(ctx, category); err != nil {
		log.Println("CreateCategory InsertOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not create category")
		return
	}

	audit.Emit(ctx, utils.GetUserIDFromRequest(r), "category.create", "category", category.CategoryID, category.Name)
	utils.RespondWithData(w, http.StatusCreated, category)
}

func UpdateCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	categoryID := ps.ByName("categoryid")

	var category models.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	update := bson.M{"$set": bson.M{
		"name":     category.Name,
		"slug":     category.Slug,
		"parentId": category.ParentID,
	}}

	res, err := db.CategoriesCollection.UpdateOne(ctx, bson.M{"categoryId": categoryID}, update)
	if err != nil {
		log.Println("UpdateCategory UpdateOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not update category")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Category not found")
		return
	}

	audit.Emit(ctx, utils.GetUserIDFromRequest(r), "category.update", "category", categoryID, category.Name)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func DeleteCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	categoryID := ps.ByName("categoryid")

	res, err := db.CategoriesCollection.DeleteOne(ctx, bson.M{"categoryId": categoryID})
	if err != nil {
		log.Println("DeleteCategory DeleteOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not delete category")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Category not found")
		return
	}

	audit.Emit(ctx, utils.GetUserIDFromRequest(r), "category.delete", "category", categoryID, "")
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	return slug
}
