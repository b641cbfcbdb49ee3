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

// MongoExpenseCollection implements ExpenseCollection for MongoDB.
type MongoExpenseCollection struct {
	Collection *mongo.Collection
}

// mongoExpenseCursor wraps a MongoDB cursor for expense queries.
type mongoExpenseCursor struct {
	cursor *mongo.Cursor
}

func (m *mongoExpenseCursor) All(ctx context.Context, out interface{}) error {
	return m.cursor.All(ctx, out)
}

func (m *mongoExpenseCursor) Close(ctx context.Context) error {
	return m.cursor.Close(ctx)
}

// InsertExpense inserts an expense record into the collection.
func (c *MongoExpenseCollection) InsertExpense(ctx context.Context, expense models.Expense) error {
	expense.CreatedAt = time.Now()
	expense.UpdatedAt = time.Now()
	_, err := c.Collection.InsertOne(ctx, expense)
	return err
}

// FindExpenses queries expense records from the collection.
func (c *MongoExpenseCollection) FindExpenses(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (ExpenseCursor, error) {
	cursor, err := c.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return &mongoExpenseCursor{cursor: cursor}, nil
}

// FindExpenseByID finds an expense record by its ID.
func (c *MongoExpenseCollection) FindExpenseByID(ctx context.Context, id string) (*models.Expense, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var expense models.Expense
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&expense)
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

// UpdateExpense updates an expense record by its ID.
func (c *MongoExpenseCollection) UpdateExpense(ctx context.Context, id string, expense models.Expense) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	expense.UpdatedAt = time.Now()
	_, err = c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": expense})
	return err
}

// DeleteExpense deletes an expense record by its ID.
func (c *MongoExpenseCollection) DeleteExpense(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	return err
}
