package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RefreshToken is a single-use opaque token exchanged for a fresh token pair.
type RefreshToken struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	Token     string    `gorm:"uniqueIndex" json:"token"`
	UserID    uint      `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"-"`
}

// Claims represents the JWT claims structure
type Claims struct {
	jwt.RegisteredClaims
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
}

type SignupRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	TermsAgreed bool   `json:"termsAgreed" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse represents the issued token pair
type TokenResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	Expiration   time.Time `json:"expiration"`
}
