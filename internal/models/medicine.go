package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID   uint64 `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`

	Medicines []Medicine `gorm:"many2many:medicine_categories" json:"medicines,omitempty"`
}

type Medicine struct {
	ID          uint64          `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(8,2);not null" json:"price"`
	Dosage      string          `gorm:"size:100;not null" json:"dosage"`
	Brand       string          `gorm:"size:100;not null" json:"brand"`
	ImageURL    *string         `gorm:"size:255" json:"image_url"`
	Stock       uint            `gorm:"default:0" json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Categories []Category `gorm:"many2many:medicine_categories" json:"categories,omitempty"`
}

type RegisterCategoryInput struct {
	Name string `json:"name" binding:"required"`
}

type RegisterMedicineInput struct {
	Name        string   `form:"name" json:"name" binding:"required"`
	Description string   `form:"description" json:"description"`
	Price       string   `form:"price" json:"price" binding:"required"`
	Dosage      string   `form:"dosage" json:"dosage" binding:"required"`
	Brand       string   `form:"brand" json:"brand" binding:"required"`
	Stock       uint     `form:"stock" json:"stock"`
	CategoryIDs []uint64 `form:"category_ids" json:"category_ids" binding:"required,min=1"`
}

type UpdateMedicineInput struct {
	Name        *string  `form:"name" json:"name"`
	Description *string  `form:"description" json:"description"`
	Price       *string  `form:"price" json:"price"`
	Dosage      *string  `form:"dosage" json:"dosage"`
	Brand       *string  `form:"brand" json:"brand"`
	Stock       *uint    `form:"stock" json:"stock"`
	CategoryIDs []uint64 `form:"category_ids" json:"category_ids"`
	RemoveImage bool     `form:"remove_image" json:"remove_image"`
}
