package orders

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"velora/audit"
	"velora/db"
	"velora/models"
	"velora/notifications"
	"velora/updates"
	"velora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UpdateOrderStatus is PATCH /api/admin/orders/:orderid/status. It validates
// the requested transition against the state machine and broadcasts the
// change on the updates hub.
func UpdateOrderStatus(hub *updates.Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		orderID := ps.ByName("orderid")

		var payload struct {
			Status        string `json:"status,omitempty"`
			PaymentStatus string `json:"paymentStatus,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
			return
		}
		if payload.Status == "" && payload.PaymentStatus == "" {
			utils.RespondWithError(w, http.StatusBadRequest, "Nothing to update")
			return
		}

		var order models.Order
		err := db.OrdersCollection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		if err != nil {
			log.Println("UpdateOrderStatus FindOne error:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve order")
			return
		}

		set := bson.M{"updatedAt": time.Now()}

		if payload.Status != "" {
			if !ValidStatus(payload.Status) {
				utils.RespondWithError(w, http.StatusBadRequest, "Unknown status "+payload.Status)
				return
			}
			if !CanTransition(order.Status, payload.Status) {
				utils.RespondWithError(w, http.StatusBadRequest,
					"Cannot move order from "+order.Status+" to "+payload.Status)
				return
			}
			set["status"] = payload.Status
		}

		if payload.PaymentStatus != "" {
			if !ValidPaymentStatus(payload.PaymentStatus) {
				utils.RespondWithError(w, http.StatusBadRequest, "Unknown payment status "+payload.PaymentStatus)
				return
			}
			if !CanTransitionPayment(order.PaymentStatus, payload.PaymentStatus) {
				utils.RespondWithError(w, http.StatusBadRequest,
					"Cannot move payment from "+order.PaymentStatus+" to "+payload.PaymentStatus)
				return
			}
			set["paymentStatus"] = payload.PaymentStatus
		}

		if _, err := db.OrdersCollection.UpdateOne(ctx, bson.M{"orderId": orderID}, bson.M{"$set": set}); err != nil {
			log.Println("UpdateOrderStatus UpdateOne error:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Could not update order")
			return
		}

		if hub != nil {
			hub.Publish("order:"+orderID, map[string]any{
				"type":          "order_update",
				"orderId":       orderID,
				"status":        set["status"],
				"paymentStatus": set["paymentStatus"],
			})
		}

		actor := utils.GetUserIDFromRequest(r)
		audit.Emit(ctx, actor, "order.status", "order", orderID, payload.Status+" "+payload.PaymentStatus)

		if payload.Status != "" {
			notifications.Notify(ctx, order.UserID, "order_status",
				"Order "+orderID+" is now "+payload.Status)
		}

		utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	}
}
