package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"velora/audit"
	"velora/db"
	"velora/models"
	"velora/orders"
	"velora/settings"
	"velora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

var widgetSecret = func() []byte {
	if s := os.Getenv("PAYMENT_HMAC_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("dev-payment-secret")
}()

// Session is an inline payment widget descriptor. The widget runs on the
// client; we only hand it the amount and a signed reference.
type Session struct {
	Email       string            `json:"email"`
	AmountMinor int64             `json:"amount"` // minor units
	Currency    string            `json:"currency"`
	Ref         string            `json:"ref"`
	Signature   string            `json:"signature"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

func signRef(ref string) string {
	mac := hmac.New(sha256.New, widgetSecret)
	mac.Write([]byte(ref))
	return hex.EncodeToString(mac.Sum(nil))
}

// CreateSession builds a widget session for an order. Amount is derived
// server-side from the stored order total, never trusted from the client.
func CreateSession(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	orderID := ps.ByName("orderid")

	var body struct {
		Email    string `json:"email"`
		Currency string `json:"currency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Currency == "" {
		body.Currency = settings.Shared.String(ctx, settings.KeyCurrency, "USD")
	}

	var order models.Order
	if err := db.OrdersCollection.FindOne(ctx, bson.M{"orderId": orderID, "userId": userID}).Decode(&order); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	if order.PaymentStatus == models.PaymentPaid {
		utils.RespondWithError(w, http.StatusConflict, "Order already paid")
		return
	}

	ref := utils.GetUUID()
	session := Session{
		Email:       body.Email,
		AmountMinor: int64(order.Total*100 + 0.5),
		Currency:    body.Currency,
		Ref:         ref,
		Signature:   signRef(ref),
		Metadata: map[string]string{
			"orderId": order.OrderID,
			"userId":  userID,
		},
	}

	if _, err := db.OrdersCollection.UpdateOne(ctx,
		bson.M{"orderId": orderID},
		bson.M{"$set": bson.M{"paymentRef": ref, "updatedAt": time.Now()}},
	); err != nil {
		log.Println("CreateSession: could not store payment ref:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not create payment session")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, session)
}

// PaymentCallback is hit by the widget after the gateway resolves the
// charge. The signed ref ties the callback to a session we issued.
func PaymentCallback(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var body struct {
		Ref       string `json:"ref"`
		Signature string `json:"signature"`
		Outcome   string `json:"outcome"` // "paid" or "failed"
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Ref == "" || !hmac.Equal([]byte(signRef(body.Ref)), []byte(body.Signature)) {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid payment signature")
		return
	}
	if body.Outcome != models.PaymentPaid && body.Outcome != models.PaymentFailed {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payment outcome")
		return
	}

	var order models.Order
	if err := db.OrdersCollection.FindOne(ctx, bson.M{"paymentRef": body.Ref}).Decode(&order); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Unknown payment reference")
		return
	}
	if !orders.CanTransitionPayment(order.PaymentStatus, body.Outcome) {
		utils.RespondWithError(w, http.StatusConflict, "Payment already settled")
		return
	}

	if _, err := db.OrdersCollection.UpdateOne(ctx,
		bson.M{"orderId": order.OrderID, "paymentStatus": order.PaymentStatus},
		bson.M{"$set": bson.M{"paymentStatus": body.Outcome, "updatedAt": time.Now()}},
	); err != nil {
		log.Println("PaymentCallback: update failed:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not record payment")
		return
	}

	audit.Emit(ctx, order.UserID, "payment."+body.Outcome, "order", order.OrderID, body.Ref)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": body.Outcome})
}
