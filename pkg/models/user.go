package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole represents user role type
type UserRole string

const (
	RolePassenger UserRole = "passenger"
	RoleDriver    UserRole = "driver"
	RoleAdmin     UserRole = "admin"
)

// User represents an account in the system. WalletBalance is mutated only
// through atomic increments paired with a ledger transaction.
type User struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Email         string     `json:"email" db:"email"`
	PhoneNumber   string     `json:"phone_number" db:"phone_number"`
	PasswordHash  string     `json:"-" db:"password_hash"`
	FullName      string     `json:"full_name" db:"full_name"`
	Role          UserRole   `json:"role" db:"role"`
	WalletBalance float64    `json:"wallet_balance" db:"wallet_balance"`
	ReferralCode  string     `json:"referral_code" db:"referral_code"`
	ReferralCount int        `json:"referral_count" db:"referral_count"`
	IsActive      bool       `json:"is_active" db:"is_active"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// RegisterRequest represents registration request
type RegisterRequest struct {
	Email        string   `json:"email" binding:"required,email"`
	Password     string   `json:"password" binding:"required,min=8"`
	PhoneNumber  string   `json:"phone" binding:"required"`
	FullName     string   `json:"name" binding:"required"`
	Role         UserRole `json:"role" binding:"omitempty,oneof=passenger driver admin"`
	ReferralCode string   `json:"referralCode" binding:"omitempty"`
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the authenticated user and its bearer token.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
