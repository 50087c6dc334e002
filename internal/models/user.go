package models

import "time"

// UserRole represents the role stored alongside a user account.
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleUser  UserRole = "USER"
)

// User represents an account stored in the users table. Admin accounts are
// users with RoleAdmin and a college.
type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	College      string    `db:"college" json:"college"`
	Role         UserRole  `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Admin is the public view of an admin account.
type Admin struct {
	Email   string `json:"email"`
	College string `json:"college"`
}
