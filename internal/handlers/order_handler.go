package handlers

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"pharmacare-backend/internal/config"
	"pharmacare-backend/internal/models"
	"pharmacare-backend/internal/policy"
	"pharmacare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Domain failures inside the order transaction; mapped to status codes after
// rollback instead of string-matching exception text.
var (
	errCartNotFound = errors.New("cart not found")
	errCartEmpty    = errors.New("cart is empty")
)

func GetOrders(c *gin.Context) {
	p := principal(c)

	query := config.DB.Model(&models.Order{})
	if !p.Role.IsAdmin() {
		query = query.Where("user_id = ?", p.UserID)
	}

	var orders []models.Order
	if err := paginate(c, query).Find(&orders).Error; err != nil {
		log.Printf("Error listing orders: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to retrieve orders.")
		return
	}
	c.JSON(http.StatusOK, orders)
}

func GetOrder(c *gin.Context) {
	var order models.Order
	err := config.DB.
		Preload("Items.Medicine", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		}).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username")
		}).
		Preload("Prescriptions").
		Preload("Delivery").
		First(&order, utils.StringToUint64(c.Param("id"))).Error
	if err != nil {
		utils.Error(c, http.StatusNotFound, "Order not found.")
		return
	}

	if !policy.CanViewOrder(principal(c), &order) {
		utils.Error(c, http.StatusForbidden, "You are not authorized to see this order.")
		return
	}

	c.JSON(http.StatusOK, order)
}

// CreateOrder snapshots the caller's cart into an order. Everything — order,
// items, prescriptions, delivery, cart wipe, notification — commits or rolls
// back as one unit.
func CreateOrder(c *gin.Context) {
	p := principal(c)

	var input models.CreateOrderInput
	if err := c.ShouldBind(&input); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	files := prescriptionFiles(c)

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Preload("Items.Medicine").Where("user_id = ?", p.UserID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errCartNotFound
			}
			return err
		}
		if len(cart.Items) == 0 {
			return errCartEmpty
		}

		total := decimal.Zero
		for _, item := range cart.Items {
			if item.Medicine != nil {
				total = total.Add(item.Medicine.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			}
		}

		deliveryType := models.DeliveryType(input.DeliveryType)
		total = total.Add(deliveryType.Surcharge())
		estDelDate := deliveryType.EstDeliveryDate(time.Now())

		order := models.Order{
			UserID:        p.UserID,
			TotalAmount:   total,
			OrderDate:     time.Now(),
			OrderStatus:   models.OrderPending,
			PaymentStatus: models.PaymentPending,
			SubscribeType: models.SubscribeType(input.SubscribeType),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, item := range cart.Items {
			snapshot := models.OrderItem{
				OrderID:    order.ID,
				MedicineID: item.MedicineID,
				Quantity:   item.Quantity,
			}
			if err := tx.Create(&snapshot).Error; err != nil {
				return err
			}
		}

		if err := storePrescriptions(c, tx, files, p.UserID, order.ID); err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		delivery := models.Delivery{
			OrderID:        order.ID,
			TrackNum:       utils.NewTrackNum(),
			EstDelDate:     &estDelDate,
			DeliveryStatus: models.DeliveryProcessing,
			DeliveryType:   deliveryType,
		}
		if err := tx.Create(&delivery).Error; err != nil {
			return err
		}

		return notify(tx, p.UserID, "Order created",
			fmt.Sprintf("Your order %d has been placed and payment is pending", order.ID))
	})
	if err != nil {
		switch {
		case errors.Is(err, errCartNotFound):
			utils.Error(c, http.StatusNotFound, "Cart not found.")
		case errors.Is(err, errCartEmpty):
			utils.Error(c, http.StatusBadRequest, "Cart is empty.")
		default:
			log.Printf("Error creating order: %v", err)
			utils.Error(c, http.StatusInternalServerError, "Failed to create order.")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Order created successfully."})
}

// UpdateOrder handles status changes and, when a subscription order is
// delivered, spawns its renewal.
func UpdateOrder(c *gin.Context) {
	p := principal(c)

	var order models.Order
	err := config.DB.Preload("Delivery").Preload("Items").Preload("Prescriptions").
		First(&order, utils.StringToUint64(c.Param("id"))).Error
	if err != nil {
		utils.Error(c, http.StatusNotFound, "Order not found.")
		return
	}

	var input models.UpdateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if input.OrderStatus == nil {
		utils.Error(c, http.StatusUnprocessableEntity, "order_status is required.")
		return
	}

	newStatus := models.OrderStatus(*input.OrderStatus)

	if !policy.CanUpdateOrder(p, &order, newStatus, input.SubscribeType != nil) {
		utils.Error(c, http.StatusForbidden,
			fmt.Sprintf("You are not authorized to set %s status.", newStatus))
		return
	}

	switch newStatus {
	case models.OrderDelivered:
		if order.OrderStatus == models.OrderDelivered {
			utils.Error(c, http.StatusBadRequest, "Order already delivered.")
			return
		}

		var payment models.Payment
		if err := config.DB.Where("order_id = ?", order.ID).First(&payment).Error; err != nil {
			utils.Error(c, http.StatusNotFound, "Payment not found.")
			return
		}

		now := time.Now()
		order.PaymentStatus = models.PaymentPaid
		if err := config.DB.Model(&models.Delivery{}).Where("order_id = ?", order.ID).
			Updates(map[string]interface{}{
				"delivery_status": models.DeliveryDelivered,
				"act_del_date":    now,
			}).Error; err != nil {
			log.Printf("Error updating delivery: %v", err)
			utils.Error(c, http.StatusInternalServerError, "Failed to update order.")
			return
		}
		if order.Delivery != nil {
			order.Delivery.DeliveryStatus = models.DeliveryDelivered
		}

	case models.OrderCanceled:
		order.PaymentStatus = models.PaymentFailed
		if err := config.DB.Model(&models.Delivery{}).Where("order_id = ?", order.ID).
			Updates(map[string]interface{}{
				"delivery_status": models.DeliveryFailed,
				"est_del_date":    nil,
				"act_del_date":    nil,
			}).Error; err != nil {
			log.Printf("Error updating delivery: %v", err)
			utils.Error(c, http.StatusInternalServerError, "Failed to update order.")
			return
		}
		if order.Delivery != nil {
			order.Delivery.DeliveryStatus = models.DeliveryFailed
		}
	}

	if input.SubscribeType != nil {
		order.SubscribeType = models.SubscribeType(*input.SubscribeType)
	}
	order.OrderStatus = newStatus

	if err := config.DB.Omit(clause.Associations).Save(&order).Error; err != nil {
		log.Printf("Error saving order: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to update order.")
		return
	}

	if newStatus == models.OrderDelivered && order.SubscribeType.IsRecurring() {
		if err := renewSubscription(&order); err != nil {
			log.Printf("Error renewing order %d: %v", order.ID, err)
			utils.Error(c, http.StatusInternalServerError, "Failed to renew order.")
			return
		}
	}

	notify(config.DB, order.UserID,
		fmt.Sprintf("Order status updated to %s", order.OrderStatus),
		fmt.Sprintf("Your order %d has been %s and payment %s", order.ID, order.OrderStatus, order.PaymentStatus))
	if order.Delivery != nil {
		notify(config.DB, order.UserID,
			fmt.Sprintf("Delivery status updated to %s", order.Delivery.DeliveryStatus),
			fmt.Sprintf("Your order %d has been %s", order.ID, order.Delivery.DeliveryStatus))
	}

	utils.Success(c, http.StatusOK, "Order updated successfully.")
}

// renewSubscription replicates a delivered subscription order into a fresh
// future-dated one: same items and prescriptions, new delivery with a new
// tracking number but the same delivery type.
func renewSubscription(order *models.Order) error {
	return config.DB.Transaction(func(tx *gorm.DB) error {
		date := order.SubscribeType.NextDate(time.Now())

		newOrder := models.RenewOrder(order, date)
		if err := tx.Create(&newOrder).Error; err != nil {
			return err
		}

		for _, item := range order.Items {
			copied := models.CopyOrderItem(item, newOrder.ID)
			if err := tx.Create(&copied).Error; err != nil {
				return err
			}
		}

		for _, prescription := range order.Prescriptions {
			copied := models.CopyPrescription(prescription, newOrder.ID)
			if err := tx.Create(&copied).Error; err != nil {
				return err
			}
		}

		deliveryType := models.DeliveryBasic
		if order.Delivery != nil {
			deliveryType = order.Delivery.DeliveryType
		}
		delivery := models.Delivery{
			OrderID:        newOrder.ID,
			TrackNum:       utils.NewTrackNum(),
			EstDelDate:     &date,
			DeliveryStatus: models.DeliveryProcessing,
			DeliveryType:   deliveryType,
		}
		if err := tx.Create(&delivery).Error; err != nil {
			return err
		}

		return notify(tx, order.UserID,
			fmt.Sprintf("Order renewed and placed at %s", date.Format("2006-01-02")),
			fmt.Sprintf("Your new order %d has been placed and payment is pending", newOrder.ID))
	})
}

func DeleteOrder(c *gin.Context) {
	var order models.Order
	if err := config.DB.First(&order, utils.StringToUint64(c.Param("id"))).Error; err != nil {
		utils.Error(c, http.StatusNotFound, "Order not found.")
		return
	}

	if !policy.CanDeleteOrder(principal(c)) {
		utils.Error(c, http.StatusForbidden, "You are not authorized to delete this order.")
		return
	}

	notify(config.DB, order.UserID, "Order deleted",
		fmt.Sprintf("Your order %d has been deleted", order.ID))

	if err := config.DB.Delete(&order).Error; err != nil {
		log.Printf("Error deleting order: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to delete order.")
		return
	}
	c.Status(http.StatusNoContent)
}

// prescriptionFiles pulls the optional uploads out of a multipart request.
func prescriptionFiles(c *gin.Context) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	files := form.File["prescription_images[]"]
	if len(files) == 0 {
		files = form.File["prescription_images"]
	}
	return files
}

func storePrescriptions(c *gin.Context, tx *gorm.DB, files []*multipart.FileHeader, userID, orderID uint64) error {
	for _, file := range files {
		url, err := saveUpload(c, file, "prescriptions")
		if err != nil {
			return err
		}
		prescription := models.Prescription{
			UserID:   userID,
			OrderID:  orderID,
			ImageURL: url,
		}
		if err := tx.Create(&prescription).Error; err != nil {
			return err
		}
	}
	return nil
}
