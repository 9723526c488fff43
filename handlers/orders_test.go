package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-ordering-api/auth"
	"restaurant-ordering-api/models"
)

func TestCreateOrder_SnapshotsPricesAndTotal(t *testing.T) {
	env := newTestEnv(t)
	user := env.addUser(t, "customer1", models.TypeUser)
	product := env.addProduct(t, "Koshari", 9.99)

	w := env.request(t, "POST", "/api/orders", "customer1", gin.H{
		"items":    []gin.H{{"productId": product.ID, "quantity": 2}},
		"location": "Downtown Cairo",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var order models.Order
	require.NoError(t, env.DB.Preload("Items").Where("user_id = ?", user.ID).First(&order).Error)
	assert.Equal(t, "19.98", order.TotalPrice)
	assert.Equal(t, models.StatusPending, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 9.99, order.Items[0].Price)
	assert.Equal(t, 2, order.Items[0].Quantity)

	// Later price changes must not touch the snapshot.
	require.NoError(t, env.DB.Model(&models.Product{}).
		Where("id = ?", product.ID).Update("price", 14.50).Error)
	require.NoError(t, env.DB.Preload("Items").First(&order, order.ID).Error)
	assert.Equal(t, 9.99, order.Items[0].Price)
	assert.Equal(t, "19.98", order.TotalPrice)
}

func TestCreateOrder_NamesEveryMissingProduct(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "customer1", models.TypeUser)
	product := env.addProduct(t, "Falafel", 3.50)

	w := env.request(t, "POST", "/api/orders", "customer1", gin.H{
		"items": []gin.H{
			{"productId": product.ID, "quantity": 1},
			{"productId": 777, "quantity": 1},
			{"productId": 888, "quantity": 2},
		},
	})
	require.Equal(t, http.StatusNotFound, w.Code)

	body := decode(t, w)
	details := body["details"].(map[string]interface{})
	missing := details["missing_ids"].([]interface{})
	assert.ElementsMatch(t, []interface{}{float64(777), float64(888)}, missing)

	// Nothing was persisted.
	var count int64
	env.DB.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateOrder_RequiresRegistration(t *testing.T) {
	env := newTestEnv(t)
	// Verified token, but no user record.
	env.Verifier.Add("ghost", auth.Identity{UID: "ghost"})

	w := env.request(t, "POST", "/api/orders", "ghost", gin.H{
		"items": []gin.H{{"productId": 1, "quantity": 1}},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateOrder_Unauthenticated(t *testing.T) {
	env := newTestEnv(t)
	w := env.request(t, "POST", "/api/orders", "", gin.H{
		"items": []gin.H{{"productId": 1, "quantity": 1}},
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListMine_NewestFirstAndOwnOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.addUser(t, "alice", models.TypeUser)
	bob := env.addUser(t, "bob", models.TypeUser)
	product := env.addProduct(t, "Shawarma", 5.00)

	for i := 0; i < 3; i++ {
		w := env.request(t, "POST", "/api/orders", "alice", gin.H{
			"items": []gin.H{{"productId": product.ID, "quantity": i + 1}},
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}
	w := env.request(t, "POST", "/api/orders", "bob", gin.H{
		"items": []gin.H{{"productId": product.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, "GET", "/api/orders", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(3), body["count"])

	orders := body["orders"].([]interface{})
	require.Len(t, orders, 3)
	for _, o := range orders {
		order := o.(map[string]interface{})
		assert.Equal(t, float64(alice.ID), order["user_id"])
		assert.NotEqual(t, float64(bob.ID), order["user_id"])
	}
}

func TestListAll_AdminOnlyWithStatusFilter(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "admin1", models.TypeAdmin)
	customer := env.addUser(t, "customer1", models.TypeUser)
	product := env.addProduct(t, "Pizza", 8.00)

	for i := 0; i < 2; i++ {
		w := env.request(t, "POST", "/api/orders", "customer1", gin.H{
			"items": []gin.H{{"productId": product.ID, "quantity": 1}},
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}
	// Cancel one of them.
	var order models.Order
	require.NoError(t, env.DB.Where("user_id = ?", customer.ID).First(&order).Error)
	w := env.request(t, "PATCH", fmt.Sprintf("/api/orders/%d", order.ID), "customer1",
		gin.H{"status": "CANCELLED"})
	require.Equal(t, http.StatusOK, w.Code)

	// Non-admin is forbidden.
	w = env.request(t, "GET", "/api/orders/all", "customer1", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Case-insensitive filter.
	w = env.request(t, "GET", "/api/orders/all?status=cancelled", "admin1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["count"])

	// Unrecognized filter values are ignored, not rejected.
	w = env.request(t, "GET", "/api/orders/all?status=BOGUS", "admin1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(2), body["count"])

	// Each listed order carries its owner's projection.
	orders := body["orders"].([]interface{})
	require.NotEmpty(t, orders)
	for _, o := range orders {
		owner, ok := o.(map[string]interface{})["owner"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(customer.ID), owner["id"])
		assert.Equal(t, customer.FullName, owner["full_name"])
	}
}

func TestUpdateStatus_TransitionMatrix(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "admin1", models.TypeAdmin)
	env.addUser(t, "owner1", models.TypeUser)
	env.addUser(t, "other1", models.TypeUser)
	product := env.addProduct(t, "Burger", 6.25)

	placeOrder := func() uint {
		w := env.request(t, "POST", "/api/orders", "owner1", gin.H{
			"items": []gin.H{{"productId": product.ID, "quantity": 1}},
		})
		require.Equal(t, http.StatusCreated, w.Code)
		var order models.Order
		require.NoError(t, env.DB.Order("id desc").First(&order).Error)
		return order.ID
	}

	patch := func(id uint, token, status string) int {
		w := env.request(t, "PATCH", fmt.Sprintf("/api/orders/%d", id), token,
			gin.H{"status": status})
		return w.Code
	}

	// Owner may cancel their own pending order; a second attempt finds it
	// terminal.
	id := placeOrder()
	assert.Equal(t, http.StatusOK, patch(id, "owner1", "CANCELLED"))
	assert.Equal(t, http.StatusBadRequest, patch(id, "owner1", "CANCELLED"))

	// Owner may not complete.
	id = placeOrder()
	assert.Equal(t, http.StatusForbidden, patch(id, "owner1", "COMPLETED"))

	// A stranger may not touch the order at all.
	assert.Equal(t, http.StatusForbidden, patch(id, "other1", "CANCELLED"))

	// Admin may complete any order; the terminal order then rejects
	// further transitions, even from an admin.
	assert.Equal(t, http.StatusOK, patch(id, "admin1", "COMPLETED"))
	w := env.request(t, "PATCH", fmt.Sprintf("/api/orders/%d", id), "admin1",
		gin.H{"status": "CANCELLED"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	details := decode(t, w)["details"].(map[string]interface{})
	assert.Equal(t, "COMPLETED", details["current_status"])

	// Order unchanged after the rejected transition.
	var order models.Order
	require.NoError(t, env.DB.First(&order, id).Error)
	assert.Equal(t, models.StatusCompleted, order.Status)

	// PENDING is never a settable target, nor is garbage.
	id = placeOrder()
	assert.Equal(t, http.StatusBadRequest, patch(id, "admin1", "PENDING"))
	assert.Equal(t, http.StatusBadRequest, patch(id, "admin1", "SHIPPED"))

	// Lowercase target status is accepted.
	assert.Equal(t, http.StatusOK, patch(id, "admin1", "completed"))
}

// The status write is conditional on the status the handler validated, so a
// handler holding a PENDING snapshot cannot overwrite a terminal status that
// another request committed in between. This replays that interleaving with
// the same guarded statement the handler issues.
func TestUpdateStatus_StaleWriterCannotOverrideTerminal(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "admin1", models.TypeAdmin)
	customer := env.addUser(t, "customer1", models.TypeUser)
	product := env.addProduct(t, "Wrap", 4.50)

	w := env.request(t, "POST", "/api/orders", "customer1", gin.H{
		"items": []gin.H{{"productId": product.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Read the order while it is still PENDING; this is the snapshot a
	// losing request would act on.
	var stale models.Order
	require.NoError(t, env.DB.Where("user_id = ?", customer.ID).First(&stale).Error)
	require.Equal(t, models.StatusPending, stale.Status)

	// Another request completes the order first.
	w = env.request(t, "PATCH", fmt.Sprintf("/api/orders/%d", stale.ID), "admin1",
		gin.H{"status": "COMPLETED"})
	require.Equal(t, http.StatusOK, w.Code)

	// The write keyed on the stale status matches nothing.
	res := env.DB.Model(&models.Order{}).
		Where("id = ? AND status = ?", stale.ID, stale.Status).
		Update("status", models.StatusCancelled)
	require.NoError(t, res.Error)
	assert.Equal(t, int64(0), res.RowsAffected)

	var order models.Order
	require.NoError(t, env.DB.First(&order, stale.ID).Error)
	assert.Equal(t, models.StatusCompleted, order.Status)
}

func TestUpdateStatus_OrderNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "customer1", models.TypeUser)
	w := env.request(t, "PATCH", "/api/orders/9999", "customer1", gin.H{"status": "CANCELLED"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
