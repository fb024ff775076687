package httpserver

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/dmitrijs2005/stakr/internal/common"
	"github.com/dmitrijs2005/stakr/internal/dbx"
	"github.com/dmitrijs2005/stakr/internal/server/models"
	"github.com/dmitrijs2005/stakr/internal/server/repositories/users"
	"github.com/dmitrijs2005/stakr/internal/server/services"
)

type fakeAuthService struct {
	regUser  *models.User
	regErr   error
	regGot   services.Registration
	token    string
	loginErr error
}

func (f *fakeAuthService) Register(_ context.Context, r services.Registration) (*models.User, error) {
	f.regGot = r
	return f.regUser, f.regErr
}

func (f *fakeAuthService) Login(context.Context, string, string) (string, error) {
	return f.token, f.loginErr
}

type fakeAuthenticator struct {
	user *models.User
	err  error
	got  string
}

func (f *fakeAuthenticator) Resolve(_ context.Context, token string) (*models.User, error) {
	f.got = token
	return f.user, f.err
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

// memUsers is an in-memory users.Repository for end-to-end handler tests.
type memUsers struct {
	mu      sync.Mutex
	byEmail map[string]models.User
}

func (m *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[u.Email]; ok {
		return nil, common.ErrEmailInUse
	}
	u.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	u.UpdatedAt = u.CreatedAt
	m.byEmail[u.Email] = *u
	return u, nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

type memManager struct{ users *memUsers }

func (m *memManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memManager) Users(dbx.DBTX) users.Repository             { return m.users }
