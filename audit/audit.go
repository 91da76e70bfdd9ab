// Package audit records back-office mutations. Emitters publish events to a
// Redis channel so admin handlers never block on the audit write; a
// background worker drains the channel into the auditlogs collection.
package audit

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"velora/db"
	"velora/models"
	"velora/rdx"
	"velora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const channel = "audit-events"

// Emit publishes an audit event. Failures are logged and swallowed: an audit
// hiccup must never fail the admin action itself.
func Emit(ctx context.Context, actorID, action, entity, entityID, detail string) {
	entry := models.AuditLog{
		LogID:     utils.GetUUID(),
		ActorID:   actorID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Detail:    detail,
		CreatedAt: time.Now(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Printf("audit: marshal failed: %v", err)
		return
	}
	if err := rdx.Conn.Publish(ctx, channel, data).Err(); err != nil {
		log.Printf("audit: publish failed: %v", err)
	}
}

// StartWorker subscribes to the audit channel and persists entries until the
// context is cancelled. Run it from main in its own goroutine.
func StartWorker(ctx context.Context) {
	sub := rdx.Conn.Subscribe(ctx, channel)
	defer sub.Close()
	ch := sub.Channel()

	log.Println("audit worker listening")

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var entry models.AuditLog
			if err := json.Unmarshal([]byte(msg.Payload), &entry); err != nil {
				log.Printf("audit: bad payload: %v", err)
				continue
			}
			if _, err := db.AuditLogsCollection.InsertOne(ctx, entry); err != nil {
				log.Printf("audit: insert failed: %v", err)
			}
		}
	}
}

// ListAuditLogs is the admin read endpoint, newest first.
func ListAuditLogs(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	skip, limit := utils.ParsePagination(r, 50, 200)
	filter := bson.M{}
	if entity := r.URL.Query().Get("entity"); entity != "" {
		filter["entity"] = entity
	}
	if actor := r.URL.Query().Get("actor"); actor != "" {
		filter["actorId"] = actor
	}

	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := db.AuditLogsCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Println("ListAuditLogs Find error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not list audit logs")
		return
	}
	defer cursor.Close(ctx)

	var logs []models.AuditLog
	if err := cursor.All(ctx, &logs); err != nil {
		log.Println("ListAuditLogs cursor error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading audit logs")
		return
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}

	utils.RespondWithData(w, http.StatusOK, logs)
}
