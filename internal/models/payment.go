package models

import "time"

type PaymentType string

const (
	PaymentCash PaymentType = "cash"
	PaymentCard PaymentType = "card"
)

type Payment struct {
	ID          uint64      `gorm:"primaryKey" json:"id"`
	OrderID     uint64      `gorm:"not null;index" json:"order_id"`
	UserID      uint64      `gorm:"not null;index" json:"user_id"`
	PaymentType PaymentType `gorm:"size:20;not null" json:"payment_type"`
	PaymentDate time.Time   `gorm:"type:date;not null" json:"payment_date"`

	Order *Order `gorm:"foreignKey:OrderID" json:"order,omitempty"`
}

type RegisterPaymentInput struct {
	OrderID     uint64 `json:"order_id" binding:"required"`
	PaymentType string `json:"payment_type" binding:"required,oneof=cash card"`
}
