package models

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Admin account lifecycle. New registrations start pending and can only sign
// in once approved.
const (
	AdminStatusPending  = "pending"
	AdminStatusApproved = "approved"
	AdminStatusRejected = "rejected"
)

// AdminUser is the model for the 'admin_users' table (back-office accounts).
type AdminUser struct {
	ID           int64   `json:"id" db:"id"`
	Name         string  `json:"name" db:"name"`
	Email        string  `json:"email" db:"email"`
	PasswordHash string  `json:"-" db:"password_hash"`
	StoreName    *string `json:"store_name,omitempty" db:"store_name"`
	Bio          *string `json:"bio,omitempty" db:"bio"`
	Role         string  `json:"role" db:"role"`     // regular | super
	Status       string  `json:"status" db:"status"` // pending | approved | rejected

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Password Helper (Standard)
type Password struct {
	Plaintext *string
	Hash      string
}

func (p *Password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Hash = string(hash)
	p.Plaintext = &plaintextPassword
	return nil
}

func (p *Password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(plaintextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
