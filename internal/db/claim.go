package db

import (
	"context"
	"time"

	"github.com/teslys/teslys-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoClaimCollection implements ClaimCollection for MongoDB.
type MongoClaimCollection struct {
	Collection *mongo.Collection
}

// mongoClaimCursor wraps a MongoDB cursor for claim queries.
type mongoClaimCursor struct {
	cursor *mongo.Cursor
}

func (m *mongoClaimCursor) All(ctx context.Context, out interface{}) error {
	return m.cursor.All(ctx, out)
}

func (m *mongoClaimCursor) Close(ctx context.Context) error {
	return m.cursor.Close(ctx)
}

// InsertClaim inserts a claim record into the collection.
func (c *MongoClaimCollection) InsertClaim(ctx context.Context, claim models.Claim) error {
	claim.CreatedAt = time.Now()
	claim.UpdatedAt = time.Now()
	if claim.Status == "" {
		claim.Status = models.ClaimStatusPending
	}
	_, err := c.Collection.InsertOne(ctx, claim)
	return err
}

// FindClaims queries claim records from the collection.
func (c *MongoClaimCollection) FindClaims(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (ClaimCursor, error) {
	cursor, err := c.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return &mongoClaimCursor{cursor: cursor}, nil
}

// FindClaimByID finds a claim by its ID.
func (c *MongoClaimCollection) FindClaimByID(ctx context.Context, id string) (*models.Claim, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var claim models.Claim
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&claim)
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

// UpdateClaim updates a claim by its ID.
func (c *MongoClaimCollection) UpdateClaim(ctx context.Context, id string, claim models.Claim) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	claim.UpdatedAt = time.Now()
	_, err = c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": claim})
	return err
}

// UpdateClaimStatus transitions a claim's review status, optionally recording
// the approved amount.
func (c *MongoClaimCollection) UpdateClaimStatus(ctx context.Context, id string, status models.ClaimStatus, approvedAmount *float64) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	set := bson.M{"status": status, "updated_at": time.Now()}
	if approvedAmount != nil {
		set["approved_amount"] = *approvedAmount
	}

	_, err = c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": set})
	return err
}

// DeleteClaim deletes a claim by its ID.
func (c *MongoClaimCollection) DeleteClaim(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	return err
}
