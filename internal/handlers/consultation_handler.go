package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"pharmacare-backend/internal/config"
	"pharmacare-backend/internal/models"
	"pharmacare-backend/internal/policy"
	"pharmacare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var errSlotTaken = errors.New("slot already booked")

// GetSlots renders a pharmacist's day as the full business-hour grid. Slots
// only exist in the database once booked; unbooked hours are synthesized as
// available.
func GetSlots(c *gin.Context) {
	userID := utils.StringToUint64(c.Param("user_id"))

	var pharmacist models.Pharmacist
	if err := config.DB.Where("user_id = ?", userID).First(&pharmacist).Error; err != nil {
		utils.Error(c, http.StatusNotFound, "Pharmacist not found.")
		return
	}

	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	var booked []models.Slot
	if err := config.DB.Where("pharmacist_id = ? AND date = ?", pharmacist.ID, date).
		Find(&booked).Error; err != nil {
		log.Printf("Error listing slots: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to retrieve slots.")
		return
	}

	byHour := make(map[int]models.Slot, len(booked))
	for _, s := range booked {
		byHour[s.StartTime] = s
	}

	views := make([]models.SlotView, 0, models.SlotClosingHour-models.SlotOpeningHour+1)
	for hour := models.SlotOpeningHour; hour <= models.SlotClosingHour; hour++ {
		slot, ok := byHour[hour]
		if !ok {
			slot = models.Slot{
				PharmacistID: pharmacist.ID,
				Date:         date,
				StartTime:    hour,
				EndTime:      hour + 1,
				IsAvailable:  true,
			}
		}
		views = append(views, models.NewSlotView(slot))
	}

	c.JSON(http.StatusOK, gin.H{"date": date, "slots": views})
}

// BookConsultation claims an hour slot and opens a pending consultation.
// Concurrent requests for the same window race on a conditional update (for a
// slot row that already exists) or on the slot table's unique index (for a
// fresh row); the loser gets a conflict.
func BookConsultation(c *gin.Context) {
	p := principal(c)

	if !policy.CanBookConsultation(p) {
		utils.Error(c, http.StatusForbidden, "Admins cannot register consultations.")
		return
	}

	var input models.RegisterConsultationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	hour, err := input.NormalizeHour()
	if err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, "The date must be a valid date in YYYY-MM-DD format.")
		return
	}

	var pharmacist models.Pharmacist
	if err := config.DB.Preload("User").Where("user_id = ?", input.PharmacistID).
		First(&pharmacist).Error; err != nil {
		utils.Error(c, http.StatusNotFound, "Pharmacist not found.")
		return
	}

	var consultation models.Consultation
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		slotID, err := claimSlot(tx, pharmacist.ID, input.Date, hour)
		if err != nil {
			return err
		}

		consultation = models.Consultation{
			UserID: p.UserID,
			SlotID: slotID,
			Status: models.ConsultationPending,
		}
		if err := tx.Create(&consultation).Error; err != nil {
			return err
		}

		startHour, startPeriod := models.Hour12(hour)
		window := fmt.Sprintf("%s at %d %s", input.Date, startHour, startPeriod)

		if err := notify(tx, p.UserID, "Consultation booked",
			fmt.Sprintf("Your consultation on %s is pending confirmation", window)); err != nil {
			return err
		}
		return notify(tx, pharmacist.UserID, "New consultation request",
			fmt.Sprintf("A consultation has been requested on %s", window))
	})
	if err != nil {
		if errors.Is(err, errSlotTaken) {
			utils.Error(c, http.StatusConflict, "This slot is already booked.")
			return
		}
		log.Printf("Error booking consultation: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to book consultation.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Consultation booked successfully.",
		"consultation": consultation,
	})
}

// claimSlot takes the (pharmacist, date, hour) window inside tx. An existing
// row is claimed with a conditional update so only one transaction flips
// is_available; a missing row is inserted, and the unique index rejects the
// second concurrent insert.
func claimSlot(tx *gorm.DB, pharmacistID uint64, date string, hour int) (uint64, error) {
	res := tx.Model(&models.Slot{}).
		Where("pharmacist_id = ? AND date = ? AND start_time = ? AND is_available = ?",
			pharmacistID, date, hour, true).
		Update("is_available", false)
	if res.Error != nil {
		return 0, res.Error
	}

	if res.RowsAffected == 1 {
		var slot models.Slot
		err := tx.Where("pharmacist_id = ? AND date = ? AND start_time = ?",
			pharmacistID, date, hour).First(&slot).Error
		if err != nil {
			return 0, err
		}
		return slot.ID, nil
	}

	// Nothing updated: either the row exists but is taken, or it does not
	// exist yet.
	var existing int64
	err := tx.Model(&models.Slot{}).
		Where("pharmacist_id = ? AND date = ? AND start_time = ?", pharmacistID, date, hour).
		Count(&existing).Error
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		return 0, errSlotTaken
	}

	slot := models.Slot{
		PharmacistID: pharmacistID,
		Date:         date,
		StartTime:    hour,
		EndTime:      hour + 1,
		IsAvailable:  false,
	}
	if err := tx.Create(&slot).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, errSlotTaken
		}
		return 0, err
	}
	return slot.ID, nil
}

func GetConsultations(c *gin.Context) {
	p := principal(c)

	query := config.DB.Model(&models.Consultation{}).
		Preload("Slot").
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username")
		})

	switch {
	case p.Role.IsSuperAdmin():
		// all consultations
	case p.Role.IsAdmin():
		var pharmacist models.Pharmacist
		if err := config.DB.Where("user_id = ?", p.UserID).First(&pharmacist).Error; err != nil {
			utils.Error(c, http.StatusNotFound, "Pharmacist not found.")
			return
		}
		query = query.
			Joins("JOIN slots ON slots.id = consultations.slot_id").
			Where("slots.pharmacist_id = ?", pharmacist.ID)
	default:
		query = query.Where("user_id = ?", p.UserID)
	}

	var consultations []models.Consultation
	if err := paginate(c, query).Find(&consultations).Error; err != nil {
		log.Printf("Error listing consultations: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to retrieve consultations.")
		return
	}
	c.JSON(http.StatusOK, consultations)
}

func GetConsultation(c *gin.Context) {
	var consultation models.Consultation
	err := config.DB.Preload("Slot.Pharmacist").Preload("User", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "username")
	}).First(&consultation, utils.StringToUint64(c.Param("id"))).Error
	if err != nil {
		utils.Error(c, http.StatusNotFound, "Consultation not found.")
		return
	}

	if !policy.CanViewConsultation(principal(c), &consultation) {
		utils.Error(c, http.StatusForbidden, "You are not authorized to see this consultation.")
		return
	}
	c.JSON(http.StatusOK, consultation)
}

// UpdateConsultation moves a consultation through its lifecycle. Rejecting
// one releases its slot back to availability.
func UpdateConsultation(c *gin.Context) {
	p := principal(c)

	var consultation models.Consultation
	err := config.DB.Preload("Slot.Pharmacist").
		First(&consultation, utils.StringToUint64(c.Param("id"))).Error
	if err != nil {
		utils.Error(c, http.StatusNotFound, "Consultation not found.")
		return
	}

	var input models.UpdateConsultationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	newStatus := models.ConsultationStatus(input.Status)

	if !policy.CanUpdateConsultation(p, &consultation, newStatus) {
		utils.Error(c, http.StatusForbidden,
			fmt.Sprintf("You are not authorized to set %s status.", newStatus))
		return
	}

	if !consultation.Status.CanTransition(newStatus) {
		utils.Error(c, http.StatusBadRequest,
			fmt.Sprintf("Cannot change a %s consultation to %s.", consultation.Status, newStatus))
		return
	}

	now := time.Now()
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		consultation.Status = newStatus
		switch newStatus {
		case models.ConsultationConfirmed:
			consultation.ConfirmedAt = &now
		case models.ConsultationCompleted:
			consultation.CompletedAt = &now
		case models.ConsultationRejected:
			if err := tx.Model(&models.Slot{}).Where("id = ?", consultation.SlotID).
				Update("is_available", true).Error; err != nil {
				return err
			}
		}

		err := tx.Model(&models.Consultation{}).Where("id = ?", consultation.ID).
			Updates(map[string]interface{}{
				"status":       consultation.Status,
				"confirmed_at": consultation.ConfirmedAt,
				"completed_at": consultation.CompletedAt,
			}).Error
		if err != nil {
			return err
		}

		if err := notify(tx, consultation.UserID,
			fmt.Sprintf("Consultation %s", newStatus),
			fmt.Sprintf("Your consultation %d is now %s", consultation.ID, newStatus)); err != nil {
			return err
		}
		if consultation.Slot != nil && consultation.Slot.Pharmacist != nil {
			return notify(tx, consultation.Slot.Pharmacist.UserID,
				fmt.Sprintf("Consultation %s", newStatus),
				fmt.Sprintf("Consultation %d is now %s", consultation.ID, newStatus))
		}
		return nil
	})
	if err != nil {
		log.Printf("Error updating consultation: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to update consultation.")
		return
	}

	utils.Success(c, http.StatusOK, "Consultation updated successfully.")
}

func DeleteConsultation(c *gin.Context) {
	if !policy.CanDeleteConsultation(principal(c)) {
		utils.Error(c, http.StatusForbidden, "You are not authorized to delete consultations.")
		return
	}

	var consultation models.Consultation
	err := config.DB.Preload("Slot.Pharmacist").
		First(&consultation, utils.StringToUint64(c.Param("id"))).Error
	if err != nil {
		utils.Error(c, http.StatusNotFound, "Consultation not found.")
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Slot{}).Where("id = ?", consultation.SlotID).
			Update("is_available", true).Error; err != nil {
			return err
		}
		if err := tx.Delete(&consultation).Error; err != nil {
			return err
		}
		if err := notify(tx, consultation.UserID, "Consultation deleted",
			fmt.Sprintf("Your consultation %d has been deleted", consultation.ID)); err != nil {
			return err
		}
		if consultation.Slot != nil && consultation.Slot.Pharmacist != nil {
			return notify(tx, consultation.Slot.Pharmacist.UserID, "Consultation deleted",
				fmt.Sprintf("Consultation %d has been deleted", consultation.ID))
		}
		return nil
	})
	if err != nil {
		log.Printf("Error deleting consultation: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to delete consultation.")
		return
	}
	c.Status(http.StatusNoContent)
}
