package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"pharmacare-backend/internal/config"
	"pharmacare-backend/internal/models"
	"pharmacare-backend/internal/policy"
	"pharmacare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"gorm.io/gorm"
)

// midtransNotification captures the fields we need from the payment gateway
// webhook; the full payload carries a lot more.
type midtransNotification struct {
	TransactionStatus string `json:"transaction_status"`
	OrderID           string `json:"order_id"`
	FraudStatus       string `json:"fraud_status"`
}

func GetPayments(c *gin.Context) {
	p := principal(c)

	query := config.DB.Model(&models.Payment{})
	if !p.Role.IsSuperAdmin() {
		query = query.Where("user_id = ?", p.UserID)
	}
	if orderID := c.Query("order_id"); orderID != "" {
		query = query.Where("order_id = ?", utils.StringToUint64(orderID))
	}

	var payments []models.Payment
	if err := paginate(c, query).Find(&payments).Error; err != nil {
		log.Printf("Error listing payments: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to retrieve payments.")
		return
	}
	c.JSON(http.StatusOK, payments)
}

func GetPayment(c *gin.Context) {
	var payment models.Payment
	if err := config.DB.First(&payment, utils.StringToUint64(c.Param("id"))).Error; err != nil {
		utils.Error(c, http.StatusNotFound, "Payment not found.")
		return
	}

	if !policy.CanViewPayment(principal(c), &payment) {
		utils.Error(c, http.StatusForbidden, "You are not authorized to see this payment.")
		return
	}
	c.JSON(http.StatusOK, payment)
}

// CreatePayment records a payment against a pending order. Cash settles
// immediately; card issues a gateway checkout token when the gateway is
// configured and leaves settlement to the webhook.
func CreatePayment(c *gin.Context) {
	p := principal(c)

	var input models.RegisterPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var order models.Order
	if err := config.DB.First(&order, input.OrderID).Error; err != nil {
		utils.Error(c, http.StatusNotFound, "Order not found.")
		return
	}
	if order.UserID != p.UserID && !p.Role.IsAdmin() {
		utils.Error(c, http.StatusForbidden, "You are not authorized to pay for this order.")
		return
	}
	if order.PaymentStatus == models.PaymentPaid {
		utils.Error(c, http.StatusBadRequest, "Order already paid.")
		return
	}

	var existing int64
	config.DB.Model(&models.Payment{}).Where("order_id = ?", order.ID).Count(&existing)
	if existing > 0 {
		utils.Error(c, http.StatusBadRequest, "Payment already registered for this order.")
		return
	}

	payment := models.Payment{
		OrderID:     order.ID,
		UserID:      order.UserID,
		PaymentType: models.PaymentType(input.PaymentType),
		PaymentDate: time.Now(),
	}
	// Registering a payment settles the order; for card the gateway webhook
	// remains the correction channel if the charge later fails.
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("payment_status", models.PaymentPaid).Error
	})
	if err != nil {
		log.Printf("Error creating payment: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to create payment.")
		return
	}

	if payment.PaymentType == models.PaymentCard {
		if token, redirect, err := createSnapTransaction(&order); err == nil && token != "" {
			c.JSON(http.StatusCreated, gin.H{
				"payment":      payment,
				"snap_token":   token,
				"redirect_url": redirect,
			})
			return
		} else if err != nil {
			log.Printf("Midtrans snap error for order %d: %v", order.ID, err)
		}
	}

	notify(config.DB, order.UserID, "Payment registered",
		fmt.Sprintf("A %s payment has been registered for your order %d", payment.PaymentType, order.ID))

	c.JSON(http.StatusCreated, gin.H{"payment": payment})
}

// createSnapTransaction asks the gateway for a checkout token. Returns empty
// values without error when no server key is configured, so local setups can
// run card payments without the gateway.
func createSnapTransaction(order *models.Order) (string, string, error) {
	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	if serverKey == "" {
		return "", "", nil
	}

	var customer models.User
	if err := config.DB.First(&customer, order.UserID).Error; err != nil {
		return "", "", err
	}

	var s snap.Client
	s.New(serverKey, midtrans.Sandbox)

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  fmt.Sprintf("ORD-%d", order.ID),
			GrossAmt: order.TotalAmount.IntPart(),
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: customer.Username,
			Email: customer.Email,
		},
	}

	resp, snapErr := s.CreateTransaction(req)
	if snapErr != nil {
		return "", "", fmt.Errorf("create snap transaction: %s", snapErr.GetMessage())
	}
	return resp.Token, resp.RedirectURL, nil
}

// HandlePaymentNotification is the gateway webhook. Settlement marks the
// order paid, failures mark it failed; anything else stays pending.
func HandlePaymentNotification(c *gin.Context) {
	var notification midtransNotification
	if err := c.ShouldBindJSON(&notification); err != nil {
		utils.Error(c, http.StatusBadRequest, "Invalid notification payload.")
		return
	}

	var status models.PaymentStatus
	switch notification.TransactionStatus {
	case "capture":
		if notification.FraudStatus == "accept" {
			status = models.PaymentPaid
		} else {
			status = models.PaymentPending
		}
	case "settlement":
		status = models.PaymentPaid
	case "deny", "cancel", "expire":
		status = models.PaymentFailed
	default:
		status = models.PaymentPending
	}

	log.Printf("[Webhook] gateway notification - OrderID: %s, TransactionStatus: %s, MappedStatus: %s",
		notification.OrderID, notification.TransactionStatus, status)

	var orderID uint64
	if _, err := fmt.Sscanf(notification.OrderID, "ORD-%d", &orderID); err != nil {
		utils.Error(c, http.StatusNotFound, "Order not found.")
		return
	}

	var order models.Order
	if err := config.DB.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(c, http.StatusNotFound, "Order not found.")
			return
		}
		log.Printf("[Webhook] error fetching order %d: %v", orderID, err)
		utils.Error(c, http.StatusInternalServerError, "Failed to process notification.")
		return
	}

	if order.PaymentStatus != status {
		order.PaymentStatus = status
		if err := config.DB.Save(&order).Error; err != nil {
			log.Printf("[Webhook] error updating order %d: %v", orderID, err)
			utils.Error(c, http.StatusInternalServerError, "Failed to process notification.")
			return
		}
		notify(config.DB, order.UserID,
			fmt.Sprintf("Payment %s", status),
			fmt.Sprintf("Payment for your order %d is now %s", order.ID, status))
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func DeletePayment(c *gin.Context) {
	if !policy.CanDeletePayment(principal(c)) {
		utils.Error(c, http.StatusForbidden, "You are not authorized to delete payments.")
		return
	}

	var payment models.Payment
	if err := config.DB.First(&payment, utils.StringToUint64(c.Param("id"))).Error; err != nil {
		utils.Error(c, http.StatusNotFound, "Payment not found.")
		return
	}

	if err := config.DB.Delete(&payment).Error; err != nil {
		log.Printf("Error deleting payment: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to delete payment.")
		return
	}
	c.Status(http.StatusNoContent)
}
