package handlers

import (
	"log"
	"net/http"
	"time"

	"pharmacare-backend/internal/config"
	"pharmacare-backend/internal/models"
	"pharmacare-backend/internal/policy"
	"pharmacare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// GetDashboard aggregates the numbers the admin landing page shows.
func GetDashboard(c *gin.Context) {
	if !policy.CanViewDashboard(principal(c)) {
		utils.Error(c, http.StatusForbidden, "You are not authorized to see the dashboard.")
		return
	}

	var revenue float64
	err := config.DB.Model(&models.Order{}).
		Where("payment_status = ?", models.PaymentPaid).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&revenue).Error
	if err != nil {
		log.Printf("Error computing revenue: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to load dashboard.")
		return
	}

	var pendingOrders int64
	config.DB.Model(&models.Order{}).
		Where("order_status = ?", models.OrderPending).
		Count(&pendingOrders)

	var upcomingConsultations int64
	config.DB.Model(&models.Consultation{}).
		Joins("JOIN slots ON slots.id = consultations.slot_id").
		Where("consultations.status IN ? AND slots.date >= ?",
			[]models.ConsultationStatus{models.ConsultationPending, models.ConsultationConfirmed},
			time.Now().Format("2006-01-02")).
		Count(&upcomingConsultations)

	var lowStock int64
	config.DB.Model(&models.Medicine{}).Where("stock < ?", 10).Count(&lowStock)

	var totalUsers int64
	config.DB.Model(&models.User{}).Where("role = ?", models.RoleUser).Count(&totalUsers)

	c.JSON(http.StatusOK, gin.H{
		"revenue":                revenue,
		"pending_orders":         pendingOrders,
		"upcoming_consultations": upcomingConsultations,
		"low_stock_medicines":    lowStock,
		"total_users":            totalUsers,
	})
}
