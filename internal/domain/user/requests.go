package user

import "strings"

type SignUpRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Phone    string  `json:"phone" binding:"required,phone"`
	Name     string  `json:"name" binding:"required,max=120"`
	Password string  `json:"password" binding:"required,strongpassword"`
	Username *string `json:"username,omitempty" binding:"omitempty,username"`
	Role     *Role   `json:"role,omitempty" binding:"omitempty,oneof=CLIENT AGENT"`
	Language *string `json:"language,omitempty" binding:"omitempty,language"`
}

// Normalize trims input and upper-cases the language code once binding succeeds.
func (r *SignUpRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Name = strings.TrimSpace(r.Name)

	if r.Username != nil {
		u := strings.TrimSpace(*r.Username)
		if u == "" {
			r.Username = nil
		} else {
			r.Username = &u
		}
	}

	if r.Language != nil {
		l := strings.ToUpper(strings.TrimSpace(*r.Language))
		r.Language = &l
	}
}

type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required,identifier"`
	Password   string `json:"password" binding:"required"`
}

// Normalize trims the identifier. The password is compared exactly as typed,
// the same way signup hashed it.
func (r *LoginRequest) Normalize() {
	r.Identifier = strings.TrimSpace(r.Identifier)
}

// VerifyOTPRequest carries the code. Its exact length depends on OTP_LENGTH
// and is checked by the handler.
type VerifyOTPRequest struct {
	OTP string `json:"otp" binding:"required,numeric,max=18"`
}

// NewUser is what the repository persists for a fresh signup.
type NewUser struct {
	Email        string
	Phone        string
	Username     string
	Name         string
	PasswordHash string
	Role         Role
	Language     *Language
}

// ListFilter pages through users for the admin listing.
type ListFilter struct {
	Role   *Role
	Limit  int
	Offset int
}

type SetStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}
