package models

import "time"

type ConsultationStatus string

const (
	ConsultationPending   ConsultationStatus = "pending"
	ConsultationConfirmed ConsultationStatus = "confirmed"
	ConsultationRejected  ConsultationStatus = "rejected"
	ConsultationCompleted ConsultationStatus = "completed"
)

// CanTransition encodes the consultation state machine:
// pending -> confirmed -> completed, with rejection possible until completion.
// Rejected and completed are terminal.
func (s ConsultationStatus) CanTransition(to ConsultationStatus) bool {
	switch s {
	case ConsultationPending:
		return to == ConsultationConfirmed || to == ConsultationRejected
	case ConsultationConfirmed:
		return to == ConsultationCompleted || to == ConsultationRejected
	default:
		return false
	}
}

type Consultation struct {
	ID          uint64             `gorm:"primaryKey" json:"id"`
	UserID      uint64             `gorm:"not null;index" json:"user_id"`
	SlotID      uint64             `gorm:"not null;index" json:"slot_id"`
	Status      ConsultationStatus `gorm:"size:20;not null;default:pending" json:"status"`
	ConfirmedAt *time.Time         `json:"confirmed_at"`
	CompletedAt *time.Time         `json:"completed_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Slot *Slot `gorm:"foreignKey:SlotID" json:"slot,omitempty"`
}

type UpdateConsultationInput struct {
	Status string `json:"status" binding:"required,oneof=confirmed rejected completed"`
}
