package handlers

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"pharmacare-backend/internal/config"
	"pharmacare-backend/internal/models"
	"pharmacare-backend/internal/policy"
	"pharmacare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetMedicines is public. Filters: ?category=<name>, ?name=<substring>,
// ?sort_by_price=asc|desc, ?is_available=true|false. Paginated.
func GetMedicines(c *gin.Context) {
	query := config.DB.Model(&models.Medicine{})

	if category := c.Query("category"); category != "" {
		query = query.
			Joins("JOIN medicine_categories mc ON mc.medicine_id = medicines.id").
			Joins("JOIN categories ON categories.id = mc.category_id").
			Where("categories.name = ?", category)
	}

	if name := c.Query("name"); name != "" {
		query = query.Where("medicines.name LIKE ?", "%"+name+"%")
	}

	if sort := c.Query("sort_by_price"); sort != "" {
		if sort != "asc" && sort != "desc" {
			sort = "asc"
		}
		query = query.Order("price " + sort)
	}

	if avail := c.Query("is_available"); avail != "" {
		if avail == "true" {
			query = query.Where("stock > 0")
		} else {
			query = query.Where("stock = 0")
		}
	}

	var medicines []models.Medicine
	if err := paginate(c, query).Find(&medicines).Error; err != nil {
		log.Printf("Error listing medicines: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to retrieve medicines.")
		return
	}
	c.JSON(http.StatusOK, medicines)
}

func GetMedicine(c *gin.Context) {
	var medicine models.Medicine
	err := config.DB.Preload("Categories").
		First(&medicine, utils.StringToUint64(c.Param("id"))).Error
	if err != nil {
		utils.Error(c, http.StatusNotFound, "Medicine not found.")
		return
	}
	c.JSON(http.StatusOK, medicine)
}

func CreateMedicine(c *gin.Context) {
	if !policy.CanManageCatalog(principal(c)) {
		utils.Error(c, http.StatusForbidden, "You are not authorized to create a medicine.")
		return
	}

	var input models.RegisterMedicineInput
	if err := c.ShouldBind(&input); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	price, err := decimal.NewFromString(input.Price)
	if err != nil || price.IsNegative() {
		utils.Error(c, http.StatusUnprocessableEntity, "Invalid price.")
		return
	}

	medicine := models.Medicine{
		Name:        input.Name,
		Description: input.Description,
		Price:       price,
		Dosage:      input.Dosage,
		Brand:       input.Brand,
		Stock:       input.Stock,
	}

	if file, err := c.FormFile("image"); err == nil {
		url, err := saveUpload(c, file, "medicine_images")
		if err != nil {
			log.Printf("Error saving medicine image: %v", err)
			utils.Error(c, http.StatusInternalServerError, "Failed to store image.")
			return
		}
		medicine.ImageURL = &url
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&medicine).Error; err != nil {
			return err
		}
		var categories []models.Category
		if err := tx.Find(&categories, input.CategoryIDs).Error; err != nil {
			return err
		}
		return tx.Model(&medicine).Association("Categories").Append(categories)
	})
	if err != nil {
		log.Printf("Error creating medicine: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to create medicine.")
		return
	}

	utils.Success(c, http.StatusCreated, "Medicine created successfully.")
}

func UpdateMedicine(c *gin.Context) {
	if !policy.CanManageCatalog(principal(c)) {
		utils.Error(c, http.StatusForbidden, "You are not authorized to update this medicine.")
		return
	}

	var medicine models.Medicine
	if err := config.DB.First(&medicine, utils.StringToUint64(c.Param("id"))).Error; err != nil {
		utils.Error(c, http.StatusNotFound, "Medicine not found.")
		return
	}

	var input models.UpdateMedicineInput
	if err := c.ShouldBind(&input); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if input.Name != nil {
		medicine.Name = *input.Name
	}
	if input.Description != nil {
		medicine.Description = *input.Description
	}
	if input.Price != nil {
		price, err := decimal.NewFromString(*input.Price)
		if err != nil || price.IsNegative() {
			utils.Error(c, http.StatusUnprocessableEntity, "Invalid price.")
			return
		}
		medicine.Price = price
	}
	if input.Dosage != nil {
		medicine.Dosage = *input.Dosage
	}
	if input.Brand != nil {
		medicine.Brand = *input.Brand
	}
	if input.Stock != nil {
		medicine.Stock = *input.Stock
	}

	if file, err := c.FormFile("image"); err == nil {
		deleteStoredImage(medicine.ImageURL)
		url, err := saveUpload(c, file, "medicine_images")
		if err != nil {
			log.Printf("Error saving medicine image: %v", err)
			utils.Error(c, http.StatusInternalServerError, "Failed to store image.")
			return
		}
		medicine.ImageURL = &url
	} else if input.RemoveImage {
		deleteStoredImage(medicine.ImageURL)
		medicine.ImageURL = nil
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&medicine).Error; err != nil {
			return err
		}
		if input.CategoryIDs == nil {
			return nil
		}
		var categories []models.Category
		if err := tx.Find(&categories, input.CategoryIDs).Error; err != nil {
			return err
		}
		return tx.Model(&medicine).Association("Categories").Replace(categories)
	})
	if err != nil {
		log.Printf("Error updating medicine: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to update medicine.")
		return
	}

	utils.Success(c, http.StatusOK, "Medicine updated successfully.")
}

func DeleteMedicine(c *gin.Context) {
	if !policy.CanManageCatalog(principal(c)) {
		utils.Error(c, http.StatusForbidden, "You are not authorized to delete this medicine.")
		return
	}

	var medicine models.Medicine
	if err := config.DB.First(&medicine, utils.StringToUint64(c.Param("id"))).Error; err != nil {
		utils.Error(c, http.StatusNotFound, "Medicine not found.")
		return
	}

	deleteStoredImage(medicine.ImageURL)

	if err := config.DB.Delete(&medicine).Error; err != nil {
		log.Printf("Error deleting medicine: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to delete medicine.")
		return
	}
	c.Status(http.StatusNoContent)
}

func deleteStoredImage(imageURL *string) {
	if imageURL == nil {
		return
	}
	path := strings.TrimPrefix(*imageURL, "/")
	if !strings.HasPrefix(path, "uploads/") {
		return
	}
	if err := os.Remove(filepath.Clean(path)); err != nil && !os.IsNotExist(err) {
		log.Printf("Error removing image %s: %v", path, err)
	}
}
