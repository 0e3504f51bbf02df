package users

import (
	"context"
	"errors"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User is persisted as-is, password included. Credential checks are exact,
// case-sensitive matches against the stored bytes.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type Store interface {
	Register(ctx context.Context, username, password string) (User, error)
	Authenticate(ctx context.Context, username, password string) (User, error)
	Ping(ctx context.Context) error
}
