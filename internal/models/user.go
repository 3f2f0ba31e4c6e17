package models

import "time"

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// IsAdmin reports whether the role carries staff privileges. Super admins
// count as admins everywhere an admin check appears.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

func (r Role) IsSuperAdmin() bool {
	return r == RoleSuperAdmin
}

// Principal is the authenticated caller, extracted from the bearer token by
// the auth middleware and passed explicitly into every policy check.
type Principal struct {
	UserID uint64
	Role   Role
}

type User struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	Role         Role      `gorm:"size:20;not null;default:user" json:"role"`
	FirstName    string    `gorm:"size:100;not null" json:"first_name"`
	LastName     string    `gorm:"size:100;not null" json:"last_name"`
	Username     string    `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Address      string    `gorm:"type:text" json:"address"`
	FCMToken     string    `gorm:"size:255" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Cart *Cart `gorm:"foreignKey:UserID" json:"cart,omitempty"`
}

type RegisterUserInput struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Address   string `json:"address"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateUserInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Address   *string `json:"address"`
	Password  *string `json:"password" binding:"omitempty,min=6"`
	FCMToken  *string `json:"fcm_token"`
}
