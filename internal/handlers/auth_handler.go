package handlers

import (
	"errors"
	"log"
	"net/http"

	"pharmacare-backend/internal/config"
	"pharmacare-backend/internal/models"
	"pharmacare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Register creates a user account and its cart in one transaction; every
// user owns exactly one cart from the moment they exist.
func Register(c *gin.Context) {
	var input models.RegisterUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to create user.")
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			Role:         models.RoleUser,
			FirstName:    input.FirstName,
			LastName:     input.LastName,
			Username:     input.Username,
			Email:        input.Email,
			PasswordHash: hash,
			Address:      input.Address,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&models.Cart{UserID: user.ID}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(c, http.StatusUnprocessableEntity, "Username or email already taken.")
			return
		}
		log.Printf("Error creating user: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to create user.")
		return
	}

	utils.Success(c, http.StatusCreated, "User created successfully.")
}

func Login(c *gin.Context) {
	var input models.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var user models.User
	if err := config.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		utils.Error(c, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	if !utils.CheckPassword(input.Password, user.PasswordHash) {
		utils.Error(c, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	token, err := utils.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		log.Printf("Error generating token: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to log in.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}
