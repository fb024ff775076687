// Package users is the user directory: persistent user records keyed by a
// unique, case-sensitive email.
package users

import (
	"context"

	"github.com/dmitrijs2005/stakr/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills in the server-assigned timestamps.
	// A duplicate email yields common.ErrEmailInUse.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByEmail returns common.ErrorNotFound when no user has exactly this email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}
