// Package services contains server-side business logic. This file implements
// UserService, which registers accounts and exchanges credentials for access
// tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/stakr/internal/common"
	"github.com/dmitrijs2005/stakr/internal/dbx"
	"github.com/dmitrijs2005/stakr/internal/server/auth"
	"github.com/dmitrijs2005/stakr/internal/server/config"
	"github.com/dmitrijs2005/stakr/internal/server/models"
	"github.com/dmitrijs2005/stakr/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// dummyPassword is hashed once so that logins for unknown emails spend the
// same bcrypt time as logins with a wrong password.
const dummyPassword = "stakr-timing-equaliser"

// TokenIssuer mints signed access tokens.
type TokenIssuer interface {
	Issue(claims map[string]any, ttl time.Duration) (string, error)
}

// Registration is the input of UserService.Register. Profile fields are
// optional.
type Registration struct {
	Email     string
	Password  string
	FirstName *string
	LastName  *string
	JobTitle  *string
}

// UserService provides authentication-related operations:
// - Register: create users
// - Login: verify credentials and mint an access token
type UserService struct {
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	hasher         auth.Hasher
	tokens         TokenIssuer
	accessTokenTTL time.Duration
	dummyDigest    string
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, h auth.Hasher, t TokenIssuer, cfg *config.Config) *UserService {
	// an empty digest never verifies, so a failure here only costs timing parity
	digest, _ := h.Hash(dummyPassword)
	return &UserService{
		db:             db,
		repomanager:    m,
		hasher:         h,
		tokens:         t,
		accessTokenTTL: cfg.AccessTokenValidityDuration,
		dummyDigest:    digest,
	}
}

// Register creates an active user. The lookup and insert share one
// transaction; a duplicate that slips past the lookup is still rejected by
// the unique constraint and reported as common.ErrEmailInUse.
func (s *UserService) Register(ctx context.Context, r Registration) (*models.User, error) {
	var created *models.User

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetUserByEmail(ctx, r.Email)
		switch {
		case err == nil:
			return common.ErrEmailInUse
		case !errors.Is(err, common.ErrorNotFound):
			return fmt.Errorf("%w: error searching user: %w", common.ErrorUnavailable, err)
		}

		digest, err := s.hasher.Hash(r.Password)
		if err != nil {
			return err
		}

		user := &models.User{
			ID:           uuid.NewString(),
			Email:        r.Email,
			PasswordHash: digest,
			IsActive:     true,
			FirstName:    r.FirstName,
			LastName:     r.LastName,
			JobTitle:     r.JobTitle,
		}

		created, err = repo.Create(ctx, user)
		if err != nil {
			if errors.Is(err, common.ErrEmailInUse) {
				return err
			}
			return fmt.Errorf("%w: error creating user: %w", common.ErrorUnavailable, err)
		}
		return nil
	})
	if err != nil {
		if isKnown(err) {
			return nil, err
		}
		// BeginTx/Commit failures
		return nil, fmt.Errorf("%w: %w", common.ErrorUnavailable, err)
	}
	return created, nil
}

// Login checks email and password and returns a bearer token whose subject
// is the email. Unknown email and wrong password give the same
// common.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.dummyDigest)
			return "", common.ErrInvalidCredentials
		}
		return "", fmt.Errorf("%w: error searching user: %w", common.ErrorUnavailable, err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", common.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(map[string]any{auth.SubjectClaim: user.Email}, s.accessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("%w: error issuing token: %w", common.ErrorInternal, err)
	}
	return token, nil
}

func isKnown(err error) bool {
	for _, target := range []error{
		common.ErrEmailInUse,
		common.ErrorUnavailable,
		common.ErrorValidation,
		common.ErrorInternal,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
