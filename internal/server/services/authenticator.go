package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/stakr/internal/common"
	"github.com/dmitrijs2005/stakr/internal/server/auth"
	"github.com/dmitrijs2005/stakr/internal/server/models"
	"github.com/dmitrijs2005/stakr/internal/server/repositories/repomanager"
)

// TokenDecoder verifies a bearer token and returns its claims.
type TokenDecoder interface {
	Decode(token string) (map[string]any, error)
}

// Authenticator resolves bearer tokens to the users they were issued for.
// Nothing is cached; every call reads the directory.
type Authenticator struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      TokenDecoder
}

func NewAuthenticator(db *sql.DB, m repomanager.RepositoryManager, t TokenDecoder) *Authenticator {
	return &Authenticator{db: db, repomanager: m, tokens: t}
}

// Resolve returns the user named by the token's subject. Bad tokens, tokens
// without a usable subject and subjects that no longer exist all yield
// common.ErrorUnauthorized.
func (a *Authenticator) Resolve(ctx context.Context, token string) (*models.User, error) {
	claims, err := a.tokens.Decode(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}

	email, ok := claims[auth.SubjectClaim].(string)
	if !ok || email == "" {
		return nil, common.ErrorUnauthorized
	}

	user, err := a.repomanager.Users(a.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: error searching user: %w", common.ErrorUnavailable, err)
	}
	return user, nil
}
