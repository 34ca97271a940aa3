package domain

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleStaff Role = "staff"
)

type User struct {
	ID        int
	FirstName string
	LastName  string
	Email     string
	Password  password
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
	Activated bool
	Version   int
}

func (u *User) IsStaff() bool {
	return u.Role == RoleStaff
}

const bcryptCost = 12

// password keeps the plaintext around only between Set and the insert, so
// validation can still inspect it. Only the hash is ever persisted.
type password struct {
	plaintext *string
	Hash      []byte
}

func (p *password) Set(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return err
	}

	p.plaintext = &plaintext
	p.Hash = hash

	return nil
}

// Matches reports whether the plaintext matches the stored hash. A mismatch
// is a normal outcome, not an error.
func (p *password) Matches(plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.Hash, []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

type UserRepository interface {
	CreateWithToken(context.Context, *User, func(*User) (*Token, error)) (*Token, error)
	GetByToken(ctx context.Context, tokenHash []byte, tokenScope string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetById(ctx context.Context, id int) (*User, error)
	ActivateUser(context.Context, *User) error
}
