package models

import "time"

const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

type User struct {
	ID           string    `json:"id"`
	UserName     string    `json:"userName"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phoneNumber,omitempty"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type RegisterRequest struct {
	UserName    string `json:"username" validate:"required,max=256"`
	Email       string `json:"email" validate:"required,email,max=150"`
	Password    string `json:"password" validate:"required,min=4"`
	PhoneNumber string `json:"phoneNumber,omitempty" validate:"omitempty,max=20"`
}

type RegisterResponse struct {
	UserID     string `json:"userId"`
	CustomerID int    `json:"customerId"`
	UserName   string `json:"userName"`
	Email      string `json:"email"`
}

type LoginRequest struct {
	LoginIdentifier string `json:"loginIdentifier" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword     string `json:"oldPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=4"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

type RequestPasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email           string `json:"email" validate:"required,email"`
	ResetCode       string `json:"resetCode" validate:"required,len=6,numeric"`
	NewPassword     string `json:"newPassword" validate:"required,min=4"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}
