package domain

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Password  password
	CreatedAt time.Time
}

type password struct {
	Hash []byte
}

func (p *password) Set(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), 12)
	if err != nil {
		return err
	}

	p.Hash = hash

	return nil
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	WithPendingBookings(ctx context.Context) ([]User, error)
}
