package handlers

import (
	"log"
	"net/http"

	"pharmacare-backend/internal/config"
	"pharmacare-backend/internal/models"
	"pharmacare-backend/internal/policy"
	"pharmacare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

func GetCategories(c *gin.Context) {
	var categories []models.Category
	if err := config.DB.Find(&categories).Error; err != nil {
		log.Printf("Error listing categories: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to retrieve categories.")
		return
	}
	c.JSON(http.StatusOK, categories)
}

func GetCategory(c *gin.Context) {
	var category models.Category
	if err := config.DB.First(&category, utils.StringToUint64(c.Param("id"))).Error; err != nil {
		utils.Error(c, http.StatusNotFound, "Category not found.")
		return
	}
	c.JSON(http.StatusOK, category)
}

func CreateCategory(c *gin.Context) {
	if !policy.CanManageCatalog(principal(c)) {
		utils.Error(c, http.StatusForbidden, "You are not authorized to create a category.")
		return
	}

	var input models.RegisterCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	category := models.Category{Name: input.Name}
	if err := config.DB.Create(&category).Error; err != nil {
		log.Printf("Error creating category: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to create category.")
		return
	}
	c.JSON(http.StatusCreated, category)
}

func UpdateCategory(c *gin.Context) {
	if !policy.CanManageCatalog(principal(c)) {
		utils.Error(c, http.StatusForbidden, "You are not authorized to update this category.")
		return
	}

	var category models.Category
	if err := config.DB.First(&category, utils.StringToUint64(c.Param("id"))).Error; err != nil {
		utils.Error(c, http.StatusNotFound, "Category not found.")
		return
	}

	var input models.RegisterCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	category.Name = input.Name
	if err := config.DB.Save(&category).Error; err != nil {
		log.Printf("Error updating category: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to update category.")
		return
	}
	c.JSON(http.StatusOK, category)
}

func DeleteCategory(c *gin.Context) {
	if !policy.CanManageCatalog(principal(c)) {
		utils.Error(c, http.StatusForbidden, "You are not authorized to delete this category.")
		return
	}

	var category models.Category
	if err := config.DB.First(&category, utils.StringToUint64(c.Param("id"))).Error; err != nil {
		utils.Error(c, http.StatusNotFound, "Category not found.")
		return
	}

	if err := config.DB.Delete(&category).Error; err != nil {
		log.Printf("Error deleting category: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to delete category.")
		return
	}
	c.Status(http.StatusNoContent)
}
