package models

import "time"

type Cart struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

type CartItem struct {
	ID         uint64 `gorm:"primaryKey" json:"id"`
	CartID     uint64 `gorm:"index;not null" json:"cart_id"`
	MedicineID uint64 `gorm:"not null" json:"medicine_id"`
	Quantity   int    `gorm:"not null" json:"quantity"`

	Medicine *Medicine `gorm:"foreignKey:MedicineID" json:"medicine,omitempty"`
}

type CartLineInput struct {
	MedicineID uint64 `json:"medicine_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
}

// UpdateCartInput replaces the whole cart: existing lines are wiped and the
// given lines inserted in their place.
type UpdateCartInput struct {
	Items []CartLineInput `json:"items" binding:"required,dive"`
}
