package models

import "time"

type Review struct {
	ReviewID  string    `json:"reviewId" bson:"reviewId"`
	ProductID string    `json:"productId" bson:"productId"`
	UserID    string    `json:"userId" bson:"userId"`
	Rating    int       `json:"rating" bson:"rating"` // 1-5
	Comment   string    `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type WishlistItem struct {
	UserID    string    `json:"userId" bson:"userId"`
	ProductID string    `json:"productId" bson:"productId"`
	AddedAt   time.Time `json:"addedAt" bson:"addedAt"`
}

type Notification struct {
	NotificationID string    `json:"notificationId" bson:"notificationId"`
	UserID         string    `json:"userId" bson:"userId"`
	Kind           string    `json:"kind" bson:"kind"`
	Message        string    `json:"message" bson:"message"`
	Read           bool      `json:"read" bson:"read"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
}

type MediaAsset struct {
	AssetID   string    `json:"assetId" bson:"assetId"`
	FileName  string    `json:"fileName" bson:"fileName"`
	URL       string    `json:"url" bson:"url"`
	ThumbURL  string    `json:"thumbUrl,omitempty" bson:"thumbUrl,omitempty"`
	MimeType  string    `json:"mimeType" bson:"mimeType"`
	SizeBytes int64     `json:"sizeBytes" bson:"sizeBytes"`
	UploadedBy string   `json:"uploadedBy" bson:"uploadedBy"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type AuditLog struct {
	LogID     string    `json:"logId" bson:"logId"`
	ActorID   string    `json:"actorId" bson:"actorId"`
	Action    string    `json:"action" bson:"action"` // e.g. "discount.create"
	Entity    string    `json:"entity" bson:"entity"`
	EntityID  string    `json:"entityId,omitempty" bson:"entityId,omitempty"`
	Detail    string    `json:"detail,omitempty" bson:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type Setting struct {
	Key       string      `json:"key" bson:"key"`
	Value     interface{} `json:"value" bson:"value"`
	UpdatedAt time.Time   `json:"updatedAt" bson:"updatedAt"`
}

// IdempotencyRecord is an idempotency key record stored in Mongo with a TTL.
type IdempotencyRecord struct {
	Key         string                 `bson:"key" json:"key"`
	Method      string                 `bson:"method" json:"method"`
	Path        string                 `bson:"path" json:"path"`
	UserID      string                 `bson:"userid" json:"userid"`
	RequestHash string                 `bson:"request_hash" json:"request_hash"`
	Response    map[string]interface{} `bson:"response,omitempty" json:"response,omitempty"`
	CreatedAt   time.Time              `bson:"created_at" json:"created_at"`
	ExpiresAt   time.Time              `bson:"expires_at" json:"expires_at"`
}
