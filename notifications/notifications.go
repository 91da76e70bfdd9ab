package notifications

import (
	"context"
	"log"
	"net/http"
	"time"

	"velora/db"
	"velora/models"
	"velora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetNotifications lists the user's notifications. A missing collection is
// the schema-not-migrated case: soft "feature not available".
func GetNotifications(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	skip, limit := utils.ParsePagination(r, 20, 100)
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := db.NotificationsCollection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		if db.IsMissingCollection(err) {
			utils.RespondWithJSON(w, http.StatusOK, utils.M{"data": []models.Notification{}, "available": false})
			return
		}
		log.Println("GetNotifications Find error:", err)
		utils.RespondWithData(w, http.StatusOK, []models.Notification{})
		return
	}
	defer cursor.Close(ctx)

	var items []models.Notification
	if err := cursor.All(ctx, &items); err != nil {
		log.Println("GetNotifications cursor error:", err)
		utils.RespondWithData(w, http.StatusOK, []models.Notification{})
		return
	}
	if items == nil {
		items = []models.Notification{}
	}

	utils.RespondWithData(w, http.StatusOK, items)
}

func MarkNotificationRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	notificationID := ps.ByName("notificationid")
	res, err := db.NotificationsCollection.UpdateOne(ctx,
		bson.M{"notificationId": notificationID, "userId": userID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		log.Println("MarkNotificationRead UpdateOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not update notification")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Notification not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

// Notify records a notification for a user. Best effort: failures are
// logged, never surfaced to the triggering flow.
func Notify(ctx context.Context, userID, kind, message string) {
	n := models.Notification{
		NotificationID: utils.GetUUID(),
		UserID:         userID,
		Kind:           kind,
		Message:        message,
		CreatedAt:      time.Now(),
	}
	if _, err := db.NotificationsCollection.InsertOne(ctx, n); err != nil {
		log.Printf("notifications: insert failed for %s: %v", userID, err)
	}
}
