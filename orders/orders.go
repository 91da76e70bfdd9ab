package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"velora/audit"
	"velora/db"
	"velora/deals"
	"velora/models"
	"velora/pricing"
	"velora/rdx"
	"velora/settings"
	"velora/taxes"
	"velora/updates"
	"velora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateOrder is POST /api/orders. Totals are recomputed server-side from
// the submitted line items; the client's numbers are never trusted. Stock is
// decremented per item with a guard filter unless backorders are allowed.
func CreateOrder(hub *updates.Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		createOrder(hub, w, r)
	}
}

func createOrder(hub *updates.Hub, w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var order models.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		log.Println("CreateOrder decode error:", err)
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if len(order.Items) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Order has no items")
		return
	}
	for _, it := range order.Items {
		if it.ProductID == "" || it.Quantity <= 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid line item")
			return
		}
	}

	order.UserID = userID
	order.Status = models.OrderPending
	order.PaymentStatus = models.PaymentPending
	order.CreatedAt = time.Now()
	if order.OrderID == "" {
		order.OrderID = utils.GenerateOrderNumber(order.CreatedAt)
	}
	if order.DeliveryOptionID == "" && order.DeliveryFee == 0 {
		order.DeliveryFee = settings.Shared.Float(ctx, settings.KeyDefaultDelivery, 0)
	}

	// Server-side totals from the submitted lines.
	lines := make([]models.LineItem, 0, len(order.Items))
	for _, it := range order.Items {
		lines = append(lines, models.LineItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  pricing.LineSubtotal(it.UnitPrice, it.Quantity),
		})
	}
	totals := pricing.OrderTotals(lines, order.DeliveryFee, taxes.ActiveRate(ctx), order.Discount)
	order.Subtotal = totals.Subtotal
	order.Tax = totals.Tax
	order.Total = totals.Total

	if !decrementStock(ctx, r, order.Items, w) {
		return
	}

	if order.CouponCode != "" {
		if _, err := rdx.IncrementCouponUsage(order.CouponCode); err != nil {
			log.Println("CreateOrder coupon counter error:", err)
		}
	}

	_, err := db.OrdersCollection.InsertOne(ctx, order)
	if db.IsDuplicateKey(err) {
		// order-number collision under concurrent checkouts: retry once
		order.OrderID = utils.GenerateOrderNumber(time.Now())
		_, err = db.OrdersCollection.InsertOne(ctx, order)
	}
	if err != nil {
		log.Println("CreateOrder InsertOne error:", err)
		restoreStock(ctx, order.Items)
		if order.CouponCode != "" {
			_ = rdx.DecrementCouponUsage(order.CouponCode)
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not create order")
		return
	}

	consumeDealStock(ctx, hub, order.Items)

	utils.RespondWithData(w, http.StatusCreated, order)
}

// consumeDealStock takes units off the Redis counter for every line covered
// by a live deal and broadcasts the remainder. Counter failures never fail
// the order.
func consumeDealStock(ctx context.Context, hub *updates.Hub, items []models.OrderItem) {
	now := time.Now()
	for _, it := range items {
		deal, ok := deals.ActiveDealFor(ctx, it.ProductID, now)
		if !ok {
			continue
		}
		remaining, err := rdx.TakeDealStock(deal.DealID, it.Quantity)
		if err != nil {
			log.Printf("consumeDealStock: counter failed for deal %s: %v", deal.DealID, err)
			continue
		}
		if hub != nil {
			hub.Publish("deal:"+deal.DealID, map[string]any{
				"type":      "deal_stock",
				"dealId":    deal.DealID,
				"remaining": remaining,
			})
		}
	}
}

// decrementStock reserves units for every line; on any shortfall it restores
// what it already took and rejects the order. Returns false when the
// response has been written.
func decrementStock(ctx context.Context, r *http.Request, items []models.OrderItem, w http.ResponseWriter) bool {
	if settings.Shared.Bool(r.Context(), settings.KeyAllowBackorder) {
		return true
	}

	threshold := settings.Shared.Float(ctx, settings.KeyLowStockThreshold, 0)

	taken := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		var after struct {
			Stock int `bson:"stock"`
		}
		err := db.ProductsCollection.FindOneAndUpdate(ctx,
			bson.M{"productId": it.ProductID, "stock": bson.M{"$gte": it.Quantity}},
			bson.M{"$inc": bson.M{"stock": -it.Quantity}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&after)
		if err == mongo.ErrNoDocuments {
			restoreStock(ctx, taken)
			utils.RespondWithError(w, http.StatusConflict, "Insufficient stock for "+it.ProductName)
			return false
		}
		if err != nil {
			restoreStock(ctx, taken)
			log.Println("CreateOrder stock decrement error:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Could not reserve stock")
			return false
		}
		taken = append(taken, it)

		if threshold > 0 && float64(after.Stock) < threshold {
			audit.Emit(ctx, "system", "product.low_stock", "product", it.ProductID,
				fmt.Sprintf("%d left", after.Stock))
		}
	}
	return true
}

func restoreStock(ctx context.Context, items []models.OrderItem) {
	for _, it := range items {
		if _, err := db.ProductsCollection.UpdateOne(ctx,
			bson.M{"productId": it.ProductID},
			bson.M{"$inc": bson.M{"stock": it.Quantity}},
		); err != nil {
			log.Printf("restoreStock: failed for %s: %v", it.ProductID, err)
		}
	}
}

// GetMyOrders lists the requesting user's orders, newest first.
func GetMyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	skip, limit := utils.ParsePagination(r, 20, 100)
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := db.OrdersCollection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		log.Println("GetMyOrders Find error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve orders")
		return
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		log.Println("GetMyOrders cursor error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading orders")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	utils.RespondWithData(w, http.StatusOK, orders)
}

// GetOrder returns one order. Owner or admin only.
func GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orderID := ps.ByName("orderid")
	userID := utils.GetUserIDFromRequest(r)

	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		log.Println("GetOrder FindOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve order")
		return
	}

	if order.UserID != userID && !utils.Contains(utils.GetRolesFromRequest(r), "admin") {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	utils.RespondWithData(w, http.StatusOK, order)
}

// AdminListOrders lists all orders with optional status filter.
func AdminListOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	skip, limit := utils.ParsePagination(r, 20, 100)
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := db.OrdersCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Println("AdminListOrders Find error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not list orders")
		return
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		log.Println("AdminListOrders cursor error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading orders")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	utils.RespondWithData(w, http.StatusOK, orders)
}
