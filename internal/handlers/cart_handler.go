package handlers

import (
	"log"
	"net/http"

	"pharmacare-backend/internal/config"
	"pharmacare-backend/internal/models"
	"pharmacare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func GetCart(c *gin.Context) {
	p := principal(c)

	var cart models.Cart
	err := config.DB.
		Preload("Items.Medicine", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "price")
		}).
		Where("user_id = ?", p.UserID).
		First(&cart).Error
	if err != nil {
		utils.Error(c, http.StatusNotFound, "Cart not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart_id":    cart.ID,
		"cart_items": cart.Items,
	})
}

// UpdateCart replaces the whole cart with the submitted lines.
func UpdateCart(c *gin.Context) {
	p := principal(c)

	var cart models.Cart
	if err := config.DB.Where("user_id = ?", p.UserID).First(&cart).Error; err != nil {
		utils.Error(c, http.StatusNotFound, "Cart not found.")
		return
	}

	var input models.UpdateCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if len(input.Items) == 0 {
			return nil
		}
		items := make([]models.CartItem, 0, len(input.Items))
		for _, line := range input.Items {
			items = append(items, models.CartItem{
				CartID:     cart.ID,
				MedicineID: line.MedicineID,
				Quantity:   line.Quantity,
			})
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		log.Printf("Error updating cart: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to update cart.")
		return
	}

	utils.Success(c, http.StatusOK, "Cart updated successfully.")
}

func ClearCart(c *gin.Context) {
	p := principal(c)

	var cart models.Cart
	if err := config.DB.Where("user_id = ?", p.UserID).First(&cart).Error; err != nil {
		utils.Error(c, http.StatusNotFound, "Cart not found.")
		return
	}

	if err := config.DB.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		log.Printf("Error clearing cart: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to clear cart.")
		return
	}
	c.Status(http.StatusNoContent)
}
