package models

import (
	"errors"
	"strings"
	"time"
)

// Business hours for consultations, 24-hour clock.
const (
	SlotOpeningHour = 9
	SlotClosingHour = 17
)

// Slot is an hour-long consultation window, created lazily on first booking.
// The unique index makes concurrent bookings of the same hour race on the
// insert instead of on a read-check-write sequence.
type Slot struct {
	ID           uint64 `gorm:"primaryKey" json:"id"`
	PharmacistID uint64 `gorm:"not null;uniqueIndex:idx_slot_window" json:"pharmacist_id"`
	Date         string `gorm:"type:date;not null;uniqueIndex:idx_slot_window" json:"date"`
	StartTime    int    `gorm:"not null;uniqueIndex:idx_slot_window" json:"start_time"`
	EndTime      int    `gorm:"not null" json:"end_time"`
	IsAvailable  bool   `gorm:"default:true" json:"is_available"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Pharmacist   *Pharmacist   `gorm:"foreignKey:PharmacistID" json:"pharmacist,omitempty"`
	Consultation *Consultation `gorm:"foreignKey:SlotID" json:"consultation,omitempty"`
}

// SlotView is the wire form of a slot, with the hours rendered back on a
// 12-hour clock.
type SlotView struct {
	ID           uint64 `json:"id"`
	PharmacistID uint64 `json:"pharmacist_id"`
	Date         string `json:"date"`
	StartTime    int    `json:"start_time"`
	StartPeriod  string `json:"start_period"`
	EndTime      int    `json:"end_time"`
	EndPeriod    string `json:"end_period"`
	IsAvailable  bool   `json:"is_available"`
}

func NewSlotView(s Slot) SlotView {
	startHour, startPeriod := Hour12(s.StartTime)
	endHour, endPeriod := Hour12(s.EndTime)
	return SlotView{
		ID:           s.ID,
		PharmacistID: s.PharmacistID,
		Date:         s.Date,
		StartTime:    startHour,
		StartPeriod:  startPeriod,
		EndTime:      endHour,
		EndPeriod:    endPeriod,
		IsAvailable:  s.IsAvailable,
	}
}

// Hour12 converts a 24-hour clock hour to its 12-hour rendering.
func Hour12(hour int) (int, string) {
	h := hour
	if h > 12 {
		h -= 12
	}
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	return h, period
}

type RegisterConsultationInput struct {
	PharmacistID uint64 `json:"pharmacist_id" binding:"required"`
	Date         string `json:"date" binding:"required"`
	StartTime    int    `json:"start_time" binding:"required,min=1,max=12"`
	StartPeriod  string `json:"start_period" binding:"required"`
}

var (
	ErrBadPeriod    = errors.New("The start period must be AM or PM.")
	ErrOutsideHours = errors.New("The start time must be between 9 AM and 5 PM.")
)

// NormalizeHour converts the 12-hour request time to a 24-hour slot hour and
// rejects anything outside business hours.
func (in *RegisterConsultationInput) NormalizeHour() (int, error) {
	period := strings.ToUpper(in.StartPeriod)
	if period != "AM" && period != "PM" {
		return 0, ErrBadPeriod
	}

	hour := in.StartTime
	if period == "PM" && hour != 12 {
		hour += 12
	} else if period == "AM" && hour == 12 {
		hour = 0 // midnight
	}

	if hour < SlotOpeningHour || hour > SlotClosingHour {
		return 0, ErrOutsideHours
	}
	return hour, nil
}
