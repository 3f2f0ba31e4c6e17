package handlers

import (
	"fmt"
	"log"
	"net/http"

	"pharmacare-backend/internal/config"
	"pharmacare-backend/internal/models"
	"pharmacare-backend/internal/policy"
	"pharmacare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

func GetDeliveries(c *gin.Context) {
	p := principal(c)

	query := config.DB.Model(&models.Delivery{})
	if !p.Role.IsAdmin() {
		query = query.
			Joins("JOIN orders ON orders.id = deliveries.order_id").
			Where("orders.user_id = ?", p.UserID)
	}

	var deliveries []models.Delivery
	if err := paginate(c, query).Find(&deliveries).Error; err != nil {
		log.Printf("Error listing deliveries: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to retrieve deliveries.")
		return
	}
	c.JSON(http.StatusOK, deliveries)
}

func GetDelivery(c *gin.Context) {
	var delivery models.Delivery
	err := config.DB.Preload("Order").First(&delivery, utils.StringToUint64(c.Param("id"))).Error
	if err != nil {
		utils.Error(c, http.StatusNotFound, "Delivery not found.")
		return
	}

	if !policy.CanViewDelivery(principal(c), &delivery) {
		utils.Error(c, http.StatusForbidden, "You are not authorized to see this delivery.")
		return
	}
	c.JSON(http.StatusOK, delivery)
}

func DeleteDelivery(c *gin.Context) {
	if !policy.CanDeleteDelivery(principal(c)) {
		utils.Error(c, http.StatusForbidden, "You are not authorized to delete deliveries.")
		return
	}

	var delivery models.Delivery
	err := config.DB.Preload("Order").First(&delivery, utils.StringToUint64(c.Param("id"))).Error
	if err != nil {
		utils.Error(c, http.StatusNotFound, "Delivery not found.")
		return
	}

	if delivery.Order != nil {
		notify(config.DB, delivery.Order.UserID, "Delivery deleted",
			fmt.Sprintf("The delivery for your order %d has been removed", delivery.OrderID))
	}

	if err := config.DB.Delete(&delivery).Error; err != nil {
		log.Printf("Error deleting delivery: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to delete delivery.")
		return
	}
	c.Status(http.StatusNoContent)
}
