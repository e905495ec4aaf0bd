// Package admin defines the back-office account entity and its repository.
package admin

import "time"

// Admin is a back-office account. Authentication is email + bcrypt password,
// exchanged for a signed token.
type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize password hash
	CreatedAt    time.Time `json:"createdAt"`
}

// Repository defines the operations for persisting Admin entities.
type Repository interface {
	FindByEmail(email string) (*Admin, error)
}
