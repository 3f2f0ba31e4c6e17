package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DeliveryStatus string

const (
	DeliveryProcessing DeliveryStatus = "processing"
	DeliveryShipping   DeliveryStatus = "shipping"
	DeliveryDelivered  DeliveryStatus = "delivered"
	DeliveryFailed     DeliveryStatus = "failed"
)

type DeliveryType string

const (
	DeliveryBasic     DeliveryType = "basic"
	DeliveryRapid     DeliveryType = "rapid"
	DeliveryEmergency DeliveryType = "emergency"
)

// Surcharge is added on top of the cart total at order time.
func (t DeliveryType) Surcharge() decimal.Decimal {
	switch t {
	case DeliveryRapid:
		return decimal.NewFromInt(10)
	case DeliveryEmergency:
		return decimal.NewFromInt(20)
	default:
		return decimal.Zero
	}
}

// EstDeliveryDate computes the promised delivery date for an order placed at
// the given time: basic +3 days, rapid +1 day, emergency +1 hour.
func (t DeliveryType) EstDeliveryDate(from time.Time) time.Time {
	switch t {
	case DeliveryRapid:
		return from.AddDate(0, 0, 1)
	case DeliveryEmergency:
		return from.Add(time.Hour)
	default:
		return from.AddDate(0, 0, 3)
	}
}

type Delivery struct {
	ID             uint64         `gorm:"primaryKey" json:"id"`
	OrderID        uint64         `gorm:"uniqueIndex;not null" json:"order_id"`
	TrackNum       int64          `gorm:"not null" json:"track_num"`
	EstDelDate     *time.Time     `gorm:"type:date" json:"est_del_date"`
	ActDelDate     *time.Time     `gorm:"type:date" json:"act_del_date"`
	DeliveryStatus DeliveryStatus `gorm:"size:20;not null;default:processing" json:"delivery_status"`
	DeliveryType   DeliveryType   `gorm:"size:20;not null;default:basic" json:"delivery_type"`

	Order *Order `gorm:"foreignKey:OrderID" json:"order,omitempty"`
}
