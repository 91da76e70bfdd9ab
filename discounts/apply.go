package discounts

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"velora/db"
	"velora/models"
	"velora/rdx"
	"velora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ApplyDiscount is the coupon decision endpoint. It validates the code
// against the stored discount and the cart snapshot and returns the amount
// off plus the adjusted delivery fee. Any failure is a JSON {message} with a
// non-2xx status and no state change.
func ApplyDiscount(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req models.ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Println("ApplyDiscount decode error:", err)
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	req.Code = utils.NormalizeCode(req.Code)
	if req.Code == "" {
		utils.RespondWithError(w, http.StatusBadRequest, ErrEmptyCode.Error())
		return
	}

	var discount models.Discount
	err := db.DiscountsCollection.FindOne(ctx, bson.M{"code": req.Code}).Decode(&discount)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	if err != nil {
		log.Println("ApplyDiscount FindOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not look up coupon")
		return
	}

	usage, err := rdx.CouponUsage(req.Code)
	if err != nil {
		// Counter unavailable: fail open on the limit rather than block checkout.
		log.Println("ApplyDiscount usage counter error:", err)
		usage = 0
	}

	result, err := Decide(discount, req, usage, time.Now())
	if err != nil {
		utils.RespondWithError(w, applyStatus(err), err.Error())
		return
	}

	utils.RespondWithData(w, http.StatusOK, result)
}

func applyStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInactive), errors.Is(err, ErrNotStarted),
		errors.Is(err, ErrExpired), errors.Is(err, ErrMinOrderValue),
		errors.Is(err, ErrUsageLimit):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}
