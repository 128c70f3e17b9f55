package models

type Customer struct {
	ID             int    `json:"id" db:"id"`
	FullName       string `json:"fullName" db:"full_name"`
	Phone          string `json:"phone" db:"phone"`
	Email          string `json:"email" db:"email"`
	IdentityUserID string `json:"identityUserId,omitempty" db:"identity_user_id"`
}

type CreateCustomerRequest struct {
	FullName string `json:"fullName" validate:"required,max=150"`
	Phone    string `json:"phone" validate:"required,max=20"`
	Email    string `json:"email" validate:"required,email,max=150"`
}

type UpdateCustomerRequest struct {
	FullName string `json:"fullName" validate:"required,max=150"`
	Phone    string `json:"phone" validate:"required,max=20"`
	Email    string `json:"email" validate:"required,email,max=150"`
}
