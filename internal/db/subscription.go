package db

import (
	"context"
	"time"

	"github.com/teslys/teslys-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSubscriptionCollection implements SubscriptionCollection for MongoDB.
type MongoSubscriptionCollection struct {
	Collection *mongo.Collection
}

// InsertSubscription registers a device token for push delivery. Re-registering
// the same token for the same user is an upsert, not a duplicate.
func (c *MongoSubscriptionCollection) InsertSubscription(ctx context.Context, sub models.PushSubscription) error {
	sub.CreatedAt = time.Now()
	_, err := c.Collection.ReplaceOne(
		ctx,
		bson.M{"user_id": sub.UserID, "device_token": sub.DeviceToken},
		sub,
		options.Replace().SetUpsert(true),
	)
	return err
}

// FindSubscriptionsByUser returns all device tokens registered for a user.
func (c *MongoSubscriptionCollection) FindSubscriptionsByUser(ctx context.Context, userID string) ([]models.PushSubscription, error) {
	cursor, err := c.Collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}

	var subs []models.PushSubscription
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// DeleteSubscription removes a device token registration.
func (c *MongoSubscriptionCollection) DeleteSubscription(ctx context.Context, userID, deviceToken string) error {
	_, err := c.Collection.DeleteMany(ctx, bson.M{"user_id": userID, "device_token": deviceToken})
	return err
}
