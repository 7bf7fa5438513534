package models

import "time"

// Roles assignable to platform accounts.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account on the platform.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FirstName    string    `gorm:"size:20;not null" json:"first_name"`
	LastName     string    `gorm:"size:20" json:"last_name,omitempty"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Age          int       `json:"age,omitempty"`
	Role         string    `gorm:"size:16;not null;default:user" json:"role"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SolvedProblem is one row of a user's solved-problems set. The composite
// primary key makes the union insert naturally idempotent.
type SolvedProblem struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	ProblemID uint      `gorm:"primaryKey" json:"problem_id"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
