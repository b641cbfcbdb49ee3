package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// NotificationKind classifies a user-facing notification.
type NotificationKind string

const (
	NotificationBookingConflict NotificationKind = "booking_conflict"
	NotificationClaimUpdate     NotificationKind = "claim_update"
	NotificationCampaign        NotificationKind = "campaign"
)

// Notification is a user-facing push message.
type Notification struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    string             `json:"user_id" bson:"user_id"`
	Kind      NotificationKind   `json:"kind" bson:"kind"`
	Title     string             `json:"title" bson:"title"`
	Body      string             `json:"body" bson:"body"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// PushSubscription records a device token registered for push delivery.
type PushSubscription struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID      string             `json:"user_id" bson:"user_id"`
	DeviceToken string             `json:"device_token" bson:"device_token"`
	Platform    string             `json:"platform" bson:"platform"` // "web", "ios", "android"
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}
