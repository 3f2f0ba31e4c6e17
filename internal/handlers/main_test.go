package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pharmacare-backend/internal/config"
	"pharmacare-backend/internal/middleware"
	"pharmacare-backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupDB points the global connection at a fresh in-memory database and
// returns it.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	config.DB = db
	return db
}

// newContext builds a request-scoped gin context with an authenticated
// principal attached, the way the auth middleware would.
func newContext(t *testing.T, p models.Principal, method, target string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	c.Set(middleware.PrincipalKey, p)
	return c, w
}

func setParam(c *gin.Context, key string, value uint64) {
	c.Params = append(c.Params, gin.Param{Key: key, Value: fmt.Sprintf("%d", value)})
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func seedUser(t *testing.T, db *gorm.DB, username string, role models.Role) models.User {
	t.Helper()
	user := models.User{
		Role:         role,
		FirstName:    "Test",
		LastName:     "User",
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
	}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.Cart{UserID: user.ID}).Error)
	return user
}

func seedPharmacist(t *testing.T, db *gorm.DB, username string) (models.User, models.Pharmacist) {
	t.Helper()
	user := seedUser(t, db, username, models.RoleAdmin)
	pharmacist := models.Pharmacist{
		UserID:         user.ID,
		LicenseNum:     12345,
		Speciality:     "General",
		IsConsultation: true,
	}
	require.NoError(t, db.Create(&pharmacist).Error)
	return user, pharmacist
}

func seedMedicine(t *testing.T, db *gorm.DB, name string, price string, stock uint) models.Medicine {
	t.Helper()
	p, err := decimal.NewFromString(price)
	require.NoError(t, err)
	medicine := models.Medicine{
		Name:   name,
		Price:  p,
		Dosage: "500mg",
		Brand:  "Acme",
		Stock:  stock,
	}
	require.NoError(t, db.Create(&medicine).Error)
	return medicine
}

// seedCartLine puts quantity units of the medicine in the user's cart.
func seedCartLine(t *testing.T, db *gorm.DB, userID, medicineID uint64, quantity int) {
	t.Helper()
	var cart models.Cart
	require.NoError(t, db.Where("user_id = ?", userID).First(&cart).Error)
	require.NoError(t, db.Create(&models.CartItem{
		CartID:     cart.ID,
		MedicineID: medicineID,
		Quantity:   quantity,
	}).Error)
}

// seedOrder creates an order with one item and a processing delivery.
func seedOrder(t *testing.T, db *gorm.DB, userID uint64, subscribe models.SubscribeType) models.Order {
	t.Helper()
	medicine := seedMedicine(t, db, fmt.Sprintf("med-%d-%s", userID, subscribe), "5.99", 50)
	order := models.Order{
		UserID:        userID,
		TotalAmount:   decimal.RequireFromString("11.98"),
		OrderDate:     time.Now(),
		OrderStatus:   models.OrderPending,
		PaymentStatus: models.PaymentPending,
		SubscribeType: subscribe,
	}
	require.NoError(t, db.Create(&order).Error)
	require.NoError(t, db.Create(&models.OrderItem{
		OrderID:    order.ID,
		MedicineID: medicine.ID,
		Quantity:   2,
	}).Error)
	est := time.Now().AddDate(0, 0, 3)
	require.NoError(t, db.Create(&models.Delivery{
		OrderID:        order.ID,
		TrackNum:       1234567890,
		EstDelDate:     &est,
		DeliveryStatus: models.DeliveryProcessing,
		DeliveryType:   models.DeliveryBasic,
	}).Error)
	return order
}

func seedPayment(t *testing.T, db *gorm.DB, orderID, userID uint64) models.Payment {
	t.Helper()
	payment := models.Payment{
		OrderID:     orderID,
		UserID:      userID,
		PaymentType: models.PaymentCash,
		PaymentDate: time.Now(),
	}
	require.NoError(t, db.Create(&payment).Error)
	return payment
}

func principalFor(user models.User) models.Principal {
	return models.Principal{UserID: user.ID, Role: user.Role}
}
