package models

type Pharmacist struct {
	ID             uint64 `gorm:"primaryKey" json:"id"`
	UserID         uint64 `gorm:"not null;uniqueIndex" json:"user_id"`
	LicenseNum     int    `gorm:"not null" json:"license_num"`
	Speciality     string `gorm:"size:100;not null" json:"speciality"`
	Bio            string `gorm:"type:text" json:"bio"`
	IsConsultation bool   `gorm:"default:false" json:"is_consultation"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

type RegisterPharmacistInput struct {
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	Username       string `json:"username" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=6"`
	Address        string `json:"address"`
	LicenseNum     int    `json:"license_num" binding:"required"`
	Speciality     string `json:"speciality" binding:"required"`
	Bio            string `json:"bio"`
	IsConsultation bool   `json:"is_consultation"`
}

type UpdatePharmacistInput struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Username       *string `json:"username"`
	Address        *string `json:"address"`
	Password       *string `json:"password" binding:"omitempty,min=6"`
	LicenseNum     *int    `json:"license_num"`
	Speciality     *string `json:"speciality"`
	Bio            *string `json:"bio"`
	IsConsultation *bool   `json:"is_consultation"`
}
