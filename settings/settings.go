// Package settings serves the storefront feature flags: maintenance mode,
// announcement text, backorder policy, stock thresholds and delivery/currency
// defaults.
package settings

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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Known setting keys.
const (
	KeyMaintenanceMode   = "maintenance_mode"
	KeyAnnouncementText  = "announcement_text"
	KeyAllowBackorder    = "allow_backorder"
	KeyLowStockThreshold = "low_stock_threshold"
	KeyDefaultDelivery   = "default_delivery_fee"
	KeyCurrency          = "currency"
)

// Shared is the process-wide settings cache, refreshed at most once per TTL.
// Handlers that need flags read through it; admin writes invalidate it.
var Shared = NewCache(30*time.Second, FetchAll)

// FetchAll loads every setting document into a key→value map.
func FetchAll(ctx context.Context) (map[string]interface{}, error) {
	cursor, err := db.SettingsCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []models.Setting
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make(map[string]interface{}, len(docs))
	for _, d := range docs {
		out[d.Key] = d.Value
	}
	return out, nil
}

// GetSettings handles GET /api/settings?keys=a,b and returns {data:{k:v}}.
// Without a keys filter it returns everything.
func GetSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	all, err := Shared.Get(ctx)
	if err != nil {
		log.Println("GetSettings fetch error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load settings")
		return
	}

	keysParam := r.URL.Query().Get("keys")
	if keysParam == "" {
		utils.RespondWithData(w, http.StatusOK, all)
		return
	}

	filtered := map[string]interface{}{}
	for _, key := range strings.Split(keysParam, ",") {
		key = strings.TrimSpace(key)
		if v, ok := all[key]; ok {
			filtered[key] = v
		}
	}
	utils.RespondWithData(w, http.StatusOK, filtered)
}

// CheckMaintenance handles GET /api/check-maintenance. The announcement text
// rides along so the storefront banner needs no second request.
func CheckMaintenance(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"maintenance":  Shared.Bool(r.Context(), KeyMaintenanceMode),
		"announcement": Shared.String(r.Context(), KeyAnnouncementText, ""),
	})
}

// InMaintenance adapts the shared cache for the middleware gate.
func InMaintenance(r *http.Request) bool {
	return Shared.Bool(r.Context(), KeyMaintenanceMode)
}

// UpsertSetting is the admin write: PUT /api/admin/settings/:key.
func UpsertSetting(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	key := ps.ByName("key")
	if key == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Setting key is required")
		return
	}

	var payload struct {
		Value interface{} `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	update := bson.M{"$set": bson.M{
		"key":       key,
		"value":     payload.Value,
		"updatedAt": time.Now(),
	}}
	opts := options.Update().SetUpsert(true)

	if _, err := db.SettingsCollection.UpdateOne(ctx, bson.M{"key": key}, update, opts); err != nil {
		log.Println("UpsertSetting UpdateOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not save setting")
		return
	}

	Shared.Invalidate()
	audit.Emit(ctx, utils.GetUserIDFromRequest(r), "setting.upsert", "setting", key, "")
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// DeleteSetting removes a key. Admin only.
func DeleteSetting(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	key := ps.ByName("key")
	res, err := db.SettingsCollection.DeleteOne(ctx, bson.M{"key": key})
	if err != nil {
		log.Println("DeleteSetting DeleteOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not delete setting")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Setting not found")
		return
	}

	Shared.Invalidate()
	audit.Emit(ctx, utils.GetUserIDFromRequest(r), "setting.delete", "setting", key, "")
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
