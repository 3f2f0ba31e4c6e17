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

func GetUsers(c *gin.Context) {
	if !policy.CanListUsers(principal(c)) {
		utils.Error(c, http.StatusForbidden, "You are not authorized to view all users.")
		return
	}

	var users []models.User
	if err := paginate(c, config.DB).Find(&users).Error; err != nil {
		log.Printf("Error listing users: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to retrieve users.")
		return
	}
	c.JSON(http.StatusOK, users)
}

func GetUser(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, utils.StringToUint64(c.Param("id"))).Error; err != nil {
		utils.Error(c, http.StatusNotFound, "User not found.")
		return
	}
	c.JSON(http.StatusOK, user)
}

func UpdateUser(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, utils.StringToUint64(c.Param("id"))).Error; err != nil {
		utils.Error(c, http.StatusNotFound, "User not found.")
		return
	}

	if !policy.CanManageUser(principal(c), user.ID) {
		utils.Error(c, http.StatusForbidden, "You are not authorized to update this user.")
		return
	}

	var input models.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Address != nil {
		user.Address = *input.Address
	}
	if input.FCMToken != nil {
		user.FCMToken = *input.FCMToken
	}
	if input.Password != nil {
		hash, err := utils.HashPassword(*input.Password)
		if err != nil {
			log.Printf("Error hashing password: %v", err)
			utils.Error(c, http.StatusInternalServerError, "Failed to update user.")
			return
		}
		user.PasswordHash = hash
	}

	if err := config.DB.Save(&user).Error; err != nil {
		log.Printf("Error updating user: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to update user.")
		return
	}

	utils.Success(c, http.StatusOK, "User updated successfully.")
}

func DeleteUser(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, utils.StringToUint64(c.Param("id"))).Error; err != nil {
		utils.Error(c, http.StatusNotFound, "User not found.")
		return
	}

	if !policy.CanManageUser(principal(c), user.ID) {
		utils.Error(c, http.StatusForbidden, "You are not authorized to delete this user.")
		return
	}

	if err := config.DB.Delete(&user).Error; err != nil {
		log.Printf("Error deleting user: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to delete user.")
		return
	}

	c.Status(http.StatusNoContent)
}
