package user

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	Email             string    `gorm:"uniqueIndex" json:"email"`
	Password          string    `json:"-"`
	Role              string    `gorm:"default:user" json:"role"`
	Username          string    `json:"username,omitempty"`
	Name              string    `json:"name,omitempty"`
	Phone             string    `json:"phone,omitempty"`
	ProfileCompletion int       `json:"profileCompletion"`
	TermsAgreed       bool      `json:"termsAgreed"`
	IsActive          bool      `gorm:"default:true" json:"isActive"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// UpdateProfileRequest carries the caller-editable profile fields.
type UpdateProfileRequest struct {
	Username *string `json:"username"`
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
}
