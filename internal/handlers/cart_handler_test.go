package handlers

import (
	"net/http"
	"testing"

	"pharmacare-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateCartReplacesLines(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "alice", models.RoleUser)
	old := seedMedicine(t, db, "aspirin", "3.50", 10)
	kept := seedMedicine(t, db, "ibuprofen", "4.25", 10)
	seedCartLine(t, db, user.ID, old.ID, 5)

	c, w := newContext(t, principalFor(user), http.MethodPut, "/cart", map[string]any{
		"items": []map[string]any{
			{"medicine_id": kept.ID, "quantity": 3},
		},
	})
	UpdateCart(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Cart updated successfully.", decodeBody(t, w)["success"])

	var items []models.CartItem
	require.NoError(t, db.Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, kept.ID, items[0].MedicineID)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestGetCart(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "bob", models.RoleUser)
	medicine := seedMedicine(t, db, "paracetamol", "5.99", 10)
	seedCartLine(t, db, user.ID, medicine.ID, 2)

	c, w := newContext(t, principalFor(user), http.MethodGet, "/cart", nil)
	GetCart(c)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	items := body["cart_items"].([]any)
	require.Len(t, items, 1)
	line := items[0].(map[string]any)
	assert.EqualValues(t, 2, line["quantity"])
	assert.Equal(t, "paracetamol", line["medicine"].(map[string]any)["name"])
}

func TestGetCartMissing(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "carol", models.RoleUser)
	require.NoError(t, db.Where("user_id = ?", user.ID).Delete(&models.Cart{}).Error)

	c, w := newContext(t, principalFor(user), http.MethodGet, "/cart", nil)
	GetCart(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Cart not found.", decodeBody(t, w)["errors"])
}

func TestClearCart(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "dave", models.RoleUser)
	medicine := seedMedicine(t, db, "aspirin", "3.50", 10)
	seedCartLine(t, db, user.ID, medicine.ID, 1)

	c, w := newContext(t, principalFor(user), http.MethodDelete, "/cart", nil)
	ClearCart(c)
	c.Writer.WriteHeaderNow()

	require.Equal(t, http.StatusNoContent, w.Code)

	var items int64
	db.Model(&models.CartItem{}).Count(&items)
	assert.Zero(t, items)
}
