package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderDelivered OrderStatus = "delivered"
	OrderCanceled  OrderStatus = "canceled"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

type SubscribeType string

const (
	SubscribeNone    SubscribeType = "none"
	SubscribeWeekly  SubscribeType = "weekly"
	SubscribeMonthly SubscribeType = "monthly"
)

// IsRecurring reports whether a delivered order spawns a renewal.
func (s SubscribeType) IsRecurring() bool {
	return s == SubscribeWeekly || s == SubscribeMonthly
}

// NextDate returns the date the renewal order is placed for.
func (s SubscribeType) NextDate(from time.Time) time.Time {
	if s == SubscribeWeekly {
		return from.AddDate(0, 0, 7)
	}
	return from.AddDate(0, 1, 0)
}

type Order struct {
	ID            uint64          `gorm:"primaryKey" json:"id"`
	UserID        uint64          `gorm:"not null;index" json:"user_id"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	OrderDate     time.Time       `gorm:"type:date;not null" json:"order_date"`
	OrderStatus   OrderStatus     `gorm:"size:20;not null;default:pending" json:"order_status"`
	PaymentStatus PaymentStatus   `gorm:"size:20;not null;default:pending" json:"payment_status"`
	SubscribeType SubscribeType   `gorm:"size:20;not null;default:none" json:"subscribe_type"`

	User          *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items         []OrderItem    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Delivery      *Delivery      `gorm:"foreignKey:OrderID" json:"delivery,omitempty"`
	Payment       *Payment       `gorm:"foreignKey:OrderID" json:"payment,omitempty"`
	Prescriptions []Prescription `gorm:"foreignKey:OrderID" json:"prescriptions,omitempty"`
}

// OrderItem is an immutable snapshot of a cart line at order time.
type OrderItem struct {
	ID         uint64 `gorm:"primaryKey" json:"id"`
	OrderID    uint64 `gorm:"not null;index" json:"order_id"`
	MedicineID uint64 `gorm:"not null" json:"medicine_id"`
	Quantity   int    `gorm:"not null" json:"quantity"`

	Medicine *Medicine `gorm:"foreignKey:MedicineID" json:"medicine,omitempty"`
}

type Prescription struct {
	ID       uint64 `gorm:"primaryKey" json:"id"`
	UserID   uint64 `gorm:"not null" json:"user_id"`
	OrderID  uint64 `gorm:"not null;index" json:"order_id"`
	ImageURL string `gorm:"size:255;not null" json:"image_url"`
}

// RenewOrder copies an order for a subscription renewal. Only listed fields
// transfer; date and both statuses start fresh.
func RenewOrder(src *Order, date time.Time) Order {
	return Order{
		UserID:        src.UserID,
		TotalAmount:   src.TotalAmount,
		OrderDate:     date,
		OrderStatus:   OrderPending,
		PaymentStatus: PaymentPending,
		SubscribeType: src.SubscribeType,
	}
}

func CopyOrderItem(src OrderItem, orderID uint64) OrderItem {
	return OrderItem{
		OrderID:    orderID,
		MedicineID: src.MedicineID,
		Quantity:   src.Quantity,
	}
}

func CopyPrescription(src Prescription, orderID uint64) Prescription {
	return Prescription{
		UserID:   src.UserID,
		OrderID:  orderID,
		ImageURL: src.ImageURL,
	}
}

type CreateOrderInput struct {
	SubscribeType string `form:"subscribe_type" json:"subscribe_type" binding:"required,oneof=none weekly monthly"`
	DeliveryType  string `form:"delivery_type" json:"delivery_type" binding:"required,oneof=basic rapid emergency"`
}

type UpdateOrderInput struct {
	OrderStatus   *string `json:"order_status" binding:"omitempty,oneof=delivered canceled"`
	SubscribeType *string `json:"subscribe_type" binding:"omitempty,oneof=none weekly monthly"`
}
