package handlers

import (
	"errors"
	"log"
	"net/http"

	"pharmacare-backend/internal/config"
	"pharmacare-backend/internal/models"
	"pharmacare-backend/internal/policy"
	"pharmacare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func GetPharmacists(c *gin.Context) {
	var pharmacists []models.Pharmacist
	if err := paginate(c, config.DB.Preload("User")).Find(&pharmacists).Error; err != nil {
		log.Printf("Error listing pharmacists: %v", err)
		utils.Error(c, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	c.JSON(http.StatusOK, pharmacists)
}

// GetPharmacist looks up a pharmacist by their user id, which is what the
// rest of the API links to.
func GetPharmacist(c *gin.Context) {
	var pharmacist models.Pharmacist
	err := config.DB.Preload("User").
		Where("user_id = ?", utils.StringToUint64(c.Param("user_id"))).
		First(&pharmacist).Error
	if err != nil {
		utils.Error(c, http.StatusNotFound, "Pharmacist not found.")
		return
	}
	c.JSON(http.StatusOK, pharmacist)
}

// CreatePharmacist provisions a staff account: admin user, their cart and the
// pharmacist profile, all in one transaction.
func CreatePharmacist(c *gin.Context) {
	if !policy.CanCreatePharmacist(principal(c)) {
		utils.Error(c, http.StatusForbidden, "You are not authorized to create a pharmacist account.")
		return
	}

	var input models.RegisterPharmacistInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		utils.Error(c, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			Role:         models.RoleAdmin,
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
		if err := tx.Create(&models.Cart{UserID: user.ID}).Error; err != nil {
			return err
		}
		return tx.Create(&models.Pharmacist{
			UserID:         user.ID,
			LicenseNum:     input.LicenseNum,
			Speciality:     input.Speciality,
			Bio:            input.Bio,
			IsConsultation: input.IsConsultation,
		}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(c, http.StatusUnprocessableEntity, "Username or email already taken.")
			return
		}
		log.Printf("Error creating pharmacist: %v", err)
		utils.Error(c, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	utils.Success(c, http.StatusCreated, "Pharmacist profile created successfully.")
}

func UpdatePharmacist(c *gin.Context) {
	userID := utils.StringToUint64(c.Param("user_id"))

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		utils.Error(c, http.StatusNotFound, "User not found.")
		return
	}

	var pharmacist models.Pharmacist
	if err := config.DB.Where("user_id = ?", user.ID).First(&pharmacist).Error; err != nil {
		utils.Error(c, http.StatusNotFound, "Pharmacist not found.")
		return
	}

	if !policy.CanUpdatePharmacist(principal(c), &pharmacist) {
		utils.Error(c, http.StatusForbidden, "You are not authorized to update this pharmacist profile.")
		return
	}

	var input models.UpdatePharmacistInput
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
	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Address != nil {
		user.Address = *input.Address
	}
	if input.Password != nil {
		hash, err := utils.HashPassword(*input.Password)
		if err != nil {
			log.Printf("Error hashing password: %v", err)
			utils.Error(c, http.StatusInternalServerError, "An unexpected error occurred.")
			return
		}
		user.PasswordHash = hash
	}

	if input.LicenseNum != nil {
		pharmacist.LicenseNum = *input.LicenseNum
	}
	if input.Speciality != nil {
		pharmacist.Speciality = *input.Speciality
	}
	if input.Bio != nil {
		pharmacist.Bio = *input.Bio
	}
	if input.IsConsultation != nil {
		pharmacist.IsConsultation = *input.IsConsultation
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		return tx.Save(&pharmacist).Error
	})
	if err != nil {
		log.Printf("Error updating pharmacist: %v", err)
		utils.Error(c, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	utils.Success(c, http.StatusOK, "Pharmacist profile updated successfully.")
}
