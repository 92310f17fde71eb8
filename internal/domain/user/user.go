package user

import (
	"errors"
	"strings"
	"time"
)

var ErrNotFound = errors.New("user not found")

type Role string

const (
	RoleClient Role = "CLIENT"
	RoleAgent  Role = "AGENT"
	RoleAdmin  Role = "ADMIN"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

type Language string

const (
	LanguageEN Language = "EN"
	LanguageFR Language = "FR"
	LanguageSW Language = "SW"
	LanguageRW Language = "RW"
)

type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Username     string     `json:"username"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"` // never expose hash in JSON
	Role         Role       `json:"role"`
	IsVerified   bool       `json:"isVerified"`
	IsActive     bool       `json:"isActive"`
	Language     *Language  `json:"language,omitempty"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Public is the projection of a user that is safe to return to clients.
type Public struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Username   string     `json:"username"`
	Name       string     `json:"name"`
	Role       Role       `json:"role"`
	IsActive   bool       `json:"isActive"`
	IsVerified bool       `json:"isVerified"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
}

func (u User) Public() Public {
	return Public{
		ID:         u.ID,
		Email:      u.Email,
		Phone:      u.Phone,
		Username:   u.Username,
		Name:       u.Name,
		Role:       u.Role,
		IsActive:   u.IsActive,
		IsVerified: u.IsVerified,
		LastLogin:  u.LastLogin,
	}
}

// Lookup holds the unique fields used for conflict detection. Empty fields are ignored.
type Lookup struct {
	Email    string
	Phone    string
	Username string
}

// ConflictError lists which unique fields of a new user are already taken.
type ConflictError struct {
	Fields []string
}

func (e *ConflictError) Error() string {
	return "already in use: " + strings.Join(e.Fields, ", ")
}

// Conflicts reports which of the lookup fields the existing user collides with.
func (l Lookup) Conflicts(existing User) []string {
	var fields []string

	if l.Email != "" && strings.EqualFold(existing.Email, l.Email) {
		fields = append(fields, "email")
	}
	if l.Phone != "" && existing.Phone == l.Phone {
		fields = append(fields, "phone")
	}
	if l.Username != "" && strings.EqualFold(existing.Username, l.Username) {
		fields = append(fields, "username")
	}

	return fields
}

// Fold case-folds identifiers that are stored lowercase (email, username).
func Fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
