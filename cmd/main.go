package main

import (
	"net/http"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/teslys/teslys-backend/internal/attribution"
	"github.com/teslys/teslys-backend/internal/auth"
	"github.com/teslys/teslys-backend/internal/config"
	"github.com/teslys/teslys-backend/internal/db"
	"github.com/teslys/teslys-backend/internal/handlers"
	"github.com/teslys/teslys-backend/internal/mailer"
	"github.com/teslys/teslys-backend/internal/middleware"
	"github.com/teslys/teslys-backend/internal/models"
	"github.com/teslys/teslys-backend/internal/notify"
)

// collections bundles every Mongo-backed store the handlers need.
type collections struct {
	users         db.UserCollection
	cars          db.CarCollection
	earnings      db.EarningCollection
	expenses      db.ExpenseCollection
	claims        db.ClaimCollection
	subscriptions db.SubscriptionCollection
}

func newCollections(database *mongo.Database) collections {
	return collections{
		users:         &db.MongoUserCollection{Collection: database.Collection("users")},
		cars:          &db.MongoCarCollection{Collection: database.Collection("cars")},
		earnings:      &db.MongoEarningCollection{Collection: database.Collection("earnings")},
		expenses:      &db.MongoExpenseCollection{Collection: database.Collection("expenses")},
		claims:        &db.MongoClaimCollection{Collection: database.Collection("claims")},
		subscriptions: &db.MongoSubscriptionCollection{Collection: database.Collection("push_subscriptions")},
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// newRouter wires every route behind the rate-limit and auth middleware.
// Claim review and campaign sends are admin-only.
func newRouter(authService *auth.Service, cols collections, notifier handlers.ConflictNotifier, sender mailer.Sender, attributionClient *attribution.Client, events *notify.Events) http.Handler {
	authHandler := handlers.NewAuthHandler(authService, cols.users, attributionClient)
	accountHandler := handlers.NewAccountHandler(cols.users, events, attributionClient)
	carHandler := handlers.NewCarHandler(cols.cars)
	earningHandler := handlers.NewEarningHandler(cols.earnings, cols.expenses, notifier)
	expenseHandler := handlers.NewExpenseHandler(cols.expenses)
	claimHandler := handlers.NewClaimHandler(cols.claims, cols.cars, notifier)
	performanceHandler := handlers.NewPerformanceHandler(cols.cars, cols.earnings, cols.expenses, cols.claims)
	notificationHandler := handlers.NewNotificationHandler(cols.subscriptions, events)
	campaignHandler := handlers.NewCampaignHandler(cols.users, sender, attributionClient)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	adminOnly := authMiddleware.RequireRole(models.RoleAdmin)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/register", authHandler.Register)
	mux.HandleFunc("/api/auth/profile", authHandler.GetProfile)
	mux.HandleFunc("/api/auth/profile/update", authHandler.UpdateProfile)
	mux.HandleFunc("/api/auth/change-password", authHandler.ChangePassword)

	mux.HandleFunc("POST /api/account/plan", accountHandler.PurchasePlan)
	mux.HandleFunc("DELETE /api/account/plan", accountHandler.CancelPlan)

	mux.HandleFunc("POST /api/cars", carHandler.CreateCar)
	mux.HandleFunc("GET /api/cars", carHandler.ListCars)
	mux.HandleFunc("GET /api/cars/{id}", carHandler.GetCar)
	mux.HandleFunc("PUT /api/cars/{id}", carHandler.UpdateCar)
	mux.HandleFunc("PATCH /api/cars/{id}/status", carHandler.UpdateCarStatus)
	mux.HandleFunc("DELETE /api/cars/{id}", carHandler.DeleteCar)
	mux.HandleFunc("GET /api/cars/{id}/performance", performanceHandler.GetCarPerformance)

	mux.HandleFunc("POST /api/earnings", earningHandler.CreateEarning)
	mux.HandleFunc("GET /api/earnings", earningHandler.ListEarnings)
	mux.HandleFunc("POST /api/earnings/validate-dates", earningHandler.ValidateDates)
	mux.HandleFunc("GET /api/earnings/{id}", earningHandler.GetEarning)
	mux.HandleFunc("PUT /api/earnings/{id}", earningHandler.UpdateEarning)
	mux.HandleFunc("DELETE /api/earnings/{id}", earningHandler.DeleteEarning)

	mux.HandleFunc("POST /api/expenses", expenseHandler.CreateExpense)
	mux.HandleFunc("GET /api/expenses", expenseHandler.ListExpenses)
	mux.HandleFunc("GET /api/expenses/{id}", expenseHandler.GetExpense)
	mux.HandleFunc("PUT /api/expenses/{id}", expenseHandler.UpdateExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", expenseHandler.DeleteExpense)

	mux.HandleFunc("POST /api/claims", claimHandler.CreateClaim)
	mux.HandleFunc("GET /api/claims", claimHandler.ListClaims)
	mux.HandleFunc("GET /api/claims/{id}", claimHandler.GetClaim)
	mux.Handle("POST /api/claims/{id}/review", adminOnly(http.HandlerFunc(claimHandler.ReviewClaim)))
	mux.Handle("DELETE /api/claims/{id}", adminOnly(http.HandlerFunc(claimHandler.DeleteClaim)))

	mux.HandleFunc("GET /api/portfolio/summary", performanceHandler.GetPortfolioSummary)

	mux.HandleFunc("POST /api/notifications/subscribe", notificationHandler.Subscribe)
	mux.HandleFunc("POST /api/notifications/unsubscribe", notificationHandler.Unsubscribe)
	mux.HandleFunc("GET /api/notifications/subscriptions", notificationHandler.ListSubscriptions)

	mux.Handle("POST /api/admin/campaigns", adminOnly(http.HandlerFunc(campaignHandler.SendCampaign)))

	rateLimiter := middleware.NewRateLimitMiddleware()
	return rateLimiter.RateLimit(300, 60)(authMiddleware.Authenticate(mux))
}

func main() {
	cfg := config.Load()

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	log.Info("Connected to MongoDB")

	cols := newCollections(client.Database(cfg.MongoDatabase))

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("Failed to create auth service")
	}

	// Push delivery is optional: without a broker the API still serves,
	// conflict warnings and claim updates are just not pushed.
	var notifier handlers.ConflictNotifier
	publisher, err := notify.NewPublisher(cfg.MQTTBrokerURL, cfg.MQTTClientID)
	if err != nil {
		log.WithError(err).Warn("Push gateway unavailable, notifications disabled")
	} else {
		notifier = publisher
		defer publisher.Close()
	}

	events := notify.NewEvents()
	events.OnToken(func(ev notify.TokenEvent) {
		log.WithFields(log.Fields{
			"user_id": ev.UserID,
			"revoked": ev.Revoked,
		}).Info("Device token event")
	})
	events.OnPurchase(func(ev notify.PurchaseEvent) {
		log.WithFields(log.Fields{
			"user_id": ev.UserID,
			"plan":    ev.ProductID,
			"active":  ev.Active,
		}).Info("Plan purchase event")
	})

	var attributionClient *attribution.Client
	if cfg.AttributionAppID != "" {
		attributionClient = attribution.NewClient(attribution.Config{
			AppID:    cfg.AttributionAppID,
			Endpoint: cfg.AttributionEndpoint,
		})
		if err := attributionClient.Start(); err != nil {
			log.WithError(err).Warn("Attribution disabled")
			attributionClient = nil
		}
	}

	router := newRouter(authService, cols, notifier, mailer.NewSMTPSender(), attributionClient, events)

	log.WithField("port", cfg.Port).Info("HTTP server listening")
	log.Fatal(http.ListenAndServe(":"+cfg.Port, router))
}
