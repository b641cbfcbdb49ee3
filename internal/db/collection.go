package db

import (
	"context"
	"time"

	"github.com/teslys/teslys-backend/internal/models"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CarCollection defines the interface for car data operations.
type CarCollection interface {
	InsertCar(ctx context.Context, car models.Car) error
	FindCars(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (CarCursor, error)
	FindCarByID(ctx context.Context, id string) (*models.Car, error)
	UpdateCar(ctx context.Context, id string, car models.Car) error
	UpdateCarStatus(ctx context.Context, id string, status models.CarStatus) error
	DeleteCar(ctx context.Context, id string) error
}

// CarCursor defines the interface for car cursor operations.
type CarCursor interface {
	All(ctx context.Context, out interface{}) error
	Close(ctx context.Context) error
}

// EarningCollection defines the interface for earning data operations.
type EarningCollection interface {
	InsertEarning(ctx context.Context, earning models.Earning) error
	FindEarnings(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (EarningCursor, error)
	FindEarningByID(ctx context.Context, id string) (*models.Earning, error)
	FindOverlapping(ctx context.Context, carID string, start, end time.Time) ([]models.Earning, error)
	UpdateEarning(ctx context.Context, id string, earning models.Earning) error
	DeleteEarning(ctx context.Context, id string) error
}

// EarningCursor defines the interface for earning cursor operations.
type EarningCursor interface {
	All(ctx context.Context, out interface{}) error
	Close(ctx context.Context) error
}

// ExpenseCollection defines the interface for expense data operations.
type ExpenseCollection interface {
	InsertExpense(ctx context.Context, expense models.Expense) error
	FindExpenses(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (ExpenseCursor, error)
	FindExpenseByID(ctx context.Context, id string) (*models.Expense, error)
	UpdateExpense(ctx context.Context, id string, expense models.Expense) error
	DeleteExpense(ctx context.Context, id string) error
}

// ExpenseCursor defines the interface for expense cursor operations.
type ExpenseCursor interface {
	All(ctx context.Context, out interface{}) error
	Close(ctx context.Context) error
}

// ClaimCollection defines the interface for claim data operations.
type ClaimCollection interface {
	InsertClaim(ctx context.Context, claim models.Claim) error
	FindClaims(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (ClaimCursor, error)
	FindClaimByID(ctx context.Context, id string) (*models.Claim, error)
	UpdateClaim(ctx context.Context, id string, claim models.Claim) error
	UpdateClaimStatus(ctx context.Context, id string, status models.ClaimStatus, approvedAmount *float64) error
	DeleteClaim(ctx context.Context, id string) error
}

// ClaimCursor defines the interface for claim cursor operations.
type ClaimCursor interface {
	All(ctx context.Context, out interface{}) error
	Close(ctx context.Context) error
}

// UserCollection defines the interface for user account operations.
type UserCollection interface {
	InsertUser(ctx context.Context, user models.User) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUsers(ctx context.Context, filter interface{}) (UserCursor, error)
	UpdateUser(ctx context.Context, id string, user models.User) error
	UpdateUserPlan(ctx context.Context, id string, plan string) error
	UpdateLastLogin(ctx context.Context, id string) error
	DeleteUser(ctx context.Context, id string) error
}

// UserCursor defines the interface for user cursor operations.
type UserCursor interface {
	All(ctx context.Context, out interface{}) error
	Close(ctx context.Context) error
}

// SubscriptionCollection defines the interface for push subscription operations.
type SubscriptionCollection interface {
	InsertSubscription(ctx context.Context, sub models.PushSubscription) error
	FindSubscriptionsByUser(ctx context.Context, userID string) ([]models.PushSubscription, error)
	DeleteSubscription(ctx context.Context, userID, deviceToken string) error
}
