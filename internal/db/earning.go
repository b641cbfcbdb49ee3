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

// MongoEarningCollection implements EarningCollection for MongoDB.
type MongoEarningCollection struct {
	Collection *mongo.Collection
}

// mongoEarningCursor wraps a MongoDB cursor for earning queries.
type mongoEarningCursor struct {
	cursor *mongo.Cursor
}

func (m *mongoEarningCursor) All(ctx context.Context, out interface{}) error {
	return m.cursor.All(ctx, out)
}

func (m *mongoEarningCursor) Close(ctx context.Context) error {
	return m.cursor.Close(ctx)
}

// InsertEarning inserts an earning record into the collection.
func (c *MongoEarningCollection) InsertEarning(ctx context.Context, earning models.Earning) error {
	earning.CreatedAt = time.Now()
	earning.UpdatedAt = time.Now()
	_, err := c.Collection.InsertOne(ctx, earning)
	return err
}

// FindEarnings queries earning records from the collection.
func (c *MongoEarningCollection) FindEarnings(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (EarningCursor, error) {
	cursor, err := c.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return &mongoEarningCursor{cursor: cursor}, nil
}

// FindEarningByID finds an earning by its ID.
func (c *MongoEarningCollection) FindEarningByID(ctx context.Context, id string) (*models.Earning, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var earning models.Earning
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&earning)
	if err != nil {
		return nil, err
	}
	return &earning, nil
}

// FindOverlapping returns all earnings for a car whose closed period
// [period_start, period_end] overlaps [start, end]. Two closed intervals
// overlap iff periodStart <= end && start <= periodEnd.
func (c *MongoEarningCollection) FindOverlapping(ctx context.Context, carID string, start, end time.Time) ([]models.Earning, error) {
	filter := bson.M{
		"car_id":       carID,
		"period_start": bson.M{"$lte": end},
		"period_end":   bson.M{"$gte": start},
	}

	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	var earnings []models.Earning
	if err := cursor.All(ctx, &earnings); err != nil {
		return nil, err
	}
	return earnings, nil
}

// UpdateEarning updates an earning by its ID.
func (c *MongoEarningCollection) UpdateEarning(ctx context.Context, id string, earning models.Earning) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	earning.UpdatedAt = time.Now()
	_, err = c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": earning})
	return err
}

// DeleteEarning deletes an earning by its ID.
func (c *MongoEarningCollection) DeleteEarning(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	return err
}
