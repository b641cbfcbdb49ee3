package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/teslys/teslys-backend/internal/models"
	"github.com/teslys/teslys-backend/internal/notify"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAccountHandler_PurchasePlan(t *testing.T) {
	t.Run("upgrade stores the plan and fires a purchase event", func(t *testing.T) {
		users := new(MockUserCollection)
		events := notify.NewEvents()

		var purchases []notify.PurchaseEvent
		events.OnPurchase(func(ev notify.PurchaseEvent) {
			purchases = append(purchases, ev)
		})

		handler := NewAccountHandler(users, events, nil)
		users.On("UpdateUserPlan", mock.Anything, "host-1", models.PlanPremium).Return(nil)

		req := postJSON("/api/account/plan", map[string]string{"plan": models.PlanPremium})
		req = withRole(req, "host-1", models.RoleHost)
		w := httptest.NewRecorder()
		handler.PurchasePlan(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, purchases, 1)
		assert.Equal(t, "host-1", purchases[0].UserID)
		assert.Equal(t, models.PlanPremium, purchases[0].ProductID)
		assert.True(t, purchases[0].Active)
		users.AssertExpectations(t)
	})

	t.Run("unknown plan", func(t *testing.T) {
		users := new(MockUserCollection)
		handler := NewAccountHandler(users, notify.NewEvents(), nil)

		req := postJSON("/api/account/plan", map[string]string{"plan": "platinum"})
		req = withRole(req, "host-1", models.RoleHost)
		w := httptest.NewRecorder()
		handler.PurchasePlan(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		users.AssertNotCalled(t, "UpdateUserPlan", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAccountHandler_CancelPlan(t *testing.T) {
	t.Run("cancel clears the plan and fires an inactive purchase event", func(t *testing.T) {
		users := new(MockUserCollection)
		events := notify.NewEvents()

		var purchases []notify.PurchaseEvent
		events.OnPurchase(func(ev notify.PurchaseEvent) {
			purchases = append(purchases, ev)
		})

		handler := NewAccountHandler(users, events, nil)

		user := &models.User{ID: primitive.NewObjectID(), Username: "premium-host", Plan: models.PlanPremium}
		users.On("FindUserByID", mock.Anything, user.ID.Hex()).Return(user, nil)
		users.On("UpdateUserPlan", mock.Anything, user.ID.Hex(), "").Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/account/plan", nil)
		req = withRole(req, user.ID.Hex(), models.RoleHost)
		w := httptest.NewRecorder()
		handler.CancelPlan(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, purchases, 1)
		assert.Equal(t, models.PlanPremium, purchases[0].ProductID)
		assert.False(t, purchases[0].Active)
		users.AssertExpectations(t)
	})

	t.Run("cancel without an active plan", func(t *testing.T) {
		users := new(MockUserCollection)
		handler := NewAccountHandler(users, notify.NewEvents(), nil)

		user := &models.User{ID: primitive.NewObjectID(), Username: "free-host"}
		users.On("FindUserByID", mock.Anything, user.ID.Hex()).Return(user, nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/account/plan", nil)
		req = withRole(req, user.ID.Hex(), models.RoleHost)
		w := httptest.NewRecorder()
		handler.CancelPlan(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		users.AssertNotCalled(t, "UpdateUserPlan", mock.Anything, mock.Anything, mock.Anything)
	})
}
