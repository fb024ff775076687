package client

import (
	"context"
	"time"
)

type Client interface {
	Register(ctx context.Context, r RegisterRequest) (*User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Me(ctx context.Context, accessToken string) (*User, error)
	Ping(ctx context.Context) error
}

type RegisterRequest struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	JobTitle  *string `json:"job_title,omitempty"`
}

// User is the account as the API returns it.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	FirstName *string   `json:"first_name"`
	LastName  *string   `json:"last_name"`
	JobTitle  *string   `json:"job_title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
