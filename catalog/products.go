package catalog

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"velora/audit"
	"velora/db"
	"velora/deals"
	"velora/models"
	"velora/pricing"
	"velora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetProducts lists published products with pagination, text search and
// category/brand filters. Read failures degrade to an empty list.
func GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	q := utils.ParseQueryOptions(r)
	filter := bson.M{"published": true}
	if q.Category != "" {
		filter["categoryId"] = q.Category
	}
	if q.Brand != "" {
		filter["brandId"] = q.Brand
	}
	if q.Search != "" {
		filter["name"] = bson.M{"$regex": q.Search, "$options": "i"}
	}

	skip, limit := utils.ParsePagination(r, 20, 100)
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := db.ProductsCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Println("GetProducts Find error:", err)
		utils.RespondWithData(w, http.StatusOK, []productView{})
		return
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		log.Println("GetProducts cursor error:", err)
		utils.RespondWithData(w, http.StatusOK, []productView{})
		return
	}

	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, newProductView(ctx, p))
	}
	utils.RespondWithData(w, http.StatusOK, views)
}

// productView is the storefront shape: the product plus derived fields the
// clients used to compute themselves.
type productView struct {
	models.Product
	ImageURL  string   `json:"imageUrl"`
	DealPrice *float64 `json:"dealPrice,omitempty"`
}

func newProductView(ctx context.Context, p models.Product) productView {
	view := productView{Product: p, ImageURL: p.ImageURL()}
	if deal, ok := deals.ActiveDealFor(ctx, p.ProductID, time.Now()); ok {
		dp := pricing.DealPrice(p.Price, p.ProductID, deal, time.Now())
		view.DealPrice = &dp
	}
	return view
}

// GetProduct returns one product with its variant attributes; each option
// carries a selectable flag so zero-stock options render disabled.
func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("productid")

	var product models.Product
	err := db.ProductsCollection.FindOne(ctx, bson.M{"productId": productID}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		log.Println("GetProduct FindOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve product")
		return
	}

	type optionView struct {
		models.VariantOption
		Selectable bool `json:"selectable"`
	}
	type attrView struct {
		AttributeID string       `json:"attributeId"`
		Name        string       `json:"name"`
		Options     []optionView `json:"options"`
	}

	attrs := make([]attrView, 0, len(product.Attributes))
	for _, a := range product.Attributes {
		av := attrView{AttributeID: a.AttributeID, Name: a.Name}
		for _, o := range a.Options {
			av.Options = append(av.Options, optionView{VariantOption: o, Selectable: pricing.Selectable(o)})
		}
		attrs = append(attrs, av)
	}

	view := newProductView(ctx, product)
	utils.RespondWithData(w, http.StatusOK, map[string]any{
		"product":    view,
		"attributes": attrs,
	})
}

// --- Admin CRUD ---

func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if product.Name == "" || product.Price < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Name is required and price must be non-negative")
		return
	}

	product.ProductID = utils.GetUUID()
	product.CreatedAt = time.Now()

	if _, err := db.ProductsCollection.InsertOne(ctx, product); err != nil {
		log.Println("CreateProduct InsertOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not create product")
		return
	}

	audit.Emit(ctx, utils.GetUserIDFromRequest(r), "product.create", "product", product.ProductID, product.Name)
	utils.RespondWithData(w, http.StatusCreated, product)
}

func UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("productid")

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	update := bson.M{"$set": bson.M{
		"name":        product.Name,
		"description": product.Description,
		"categoryId":  product.CategoryID,
		"brandId":     product.BrandID,
		"price":       product.Price,
		"stock":       product.Stock,
		"attributes":  product.Attributes,
		"images":      product.Images,
		"published":   product.Published,
		"updatedAt":   time.Now(),
	}}

	res, err := db.ProductsCollection.UpdateOne(ctx, bson.M{"productId": productID}, update)
	if err != nil {
		log.Println("UpdateProduct UpdateOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not update product")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	audit.Emit(ctx, utils.GetUserIDFromRequest(r), "product.update", "product", productID, product.Name)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("productid")

	res, err := db.ProductsCollection.DeleteOne(ctx, bson.M{"productId": productID})
	if err != nil {
		log.Println("DeleteProduct DeleteOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not delete product")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	audit.Emit(ctx, utils.GetUserIDFromRequest(r), "product.delete", "product", productID, "")
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
