package httpserver

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/stakr/internal/common"
	"github.com/dmitrijs2005/stakr/internal/server/auth"
	"github.com/dmitrijs2005/stakr/internal/server/config"
	"github.com/dmitrijs2005/stakr/internal/server/models"
	"github.com/dmitrijs2005/stakr/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func formRequest(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func bearerRequest(path, header string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	return req
}

func sampleUser() *models.User {
	first := "Test"
	return &models.User{
		ID:           "7f1b0c7e-2d7a-4e38-9a51-1f0f1a4a0c11",
		Email:        "test@example.com",
		PasswordHash: "$2a$12$should.never.be.serialised",
		IsActive:     true,
		FirstName:    &first,
		CreatedAt:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRegister(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		us := &fakeAuthService{regUser: sampleUser()}
		h := newTestServer(us, &fakeAuthenticator{}, fakePinger{})

		rec, body := do(t, h, jsonRequest(http.MethodPost, "/auth/register",
			`{"email":"test@example.com","password":"test-password-123","first_name":"Test"}`))

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "test@example.com", body["email"])
		assert.Equal(t, true, body["is_active"])
		assert.Equal(t, "Test", body["first_name"])
		assert.Nil(t, body["last_name"])
		assert.Contains(t, body, "created_at")
		assert.NotContains(t, body, "password")
		assert.NotContains(t, body, "hashed_password")
		assert.NotContains(t, rec.Body.String(), "$2a$")

		assert.Equal(t, "test-password-123", us.regGot.Password)
		require.NotNil(t, us.regGot.FirstName)
		assert.Nil(t, us.regGot.JobTitle)
	})

	t.Run("email in use", func(t *testing.T) {
		us := &fakeAuthService{regErr: common.ErrEmailInUse}
		h := newTestServer(us, &fakeAuthenticator{}, fakePinger{})

		rec, body := do(t, h, jsonRequest(http.MethodPost, "/auth/register", `{"email":"test@example.com","password":"x"}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Email already in use", body["detail"])
	})

	t.Run("directory unavailable", func(t *testing.T) {
		us := &fakeAuthService{regErr: fmt.Errorf("%w: dial tcp: refused", common.ErrorUnavailable)}
		h := newTestServer(us, &fakeAuthenticator{}, fakePinger{})

		rec, body := do(t, h, jsonRequest(http.MethodPost, "/auth/register", `{"email":"test@example.com","password":"x"}`))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.NotContains(t, body["detail"], "dial tcp")
	})

	invalid := map[string]string{
		"bad email":        `{"email":"not-an-email","password":"x"}`,
		"missing email":    `{"password":"x"}`,
		"missing password": `{"email":"test@example.com"}`,
		"long password":    fmt.Sprintf(`{"email":"test@example.com","password":"%s"}`, strings.Repeat("p", 73)),
		"not json":         `email=test@example.com`,
		"array":            `[]`,
	}
	for name, payload := range invalid {
		t.Run(name, func(t *testing.T) {
			us := &fakeAuthService{regUser: sampleUser()}
			h := newTestServer(us, &fakeAuthenticator{}, fakePinger{})

			rec, body := do(t, h, jsonRequest(http.MethodPost, "/auth/register", payload))
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.NotEmpty(t, body["detail"])
			assert.Empty(t, us.regGot.Email, "service must not be reached")
		})
	}
}

func TestToken(t *testing.T) {
	t.Run("issued", func(t *testing.T) {
		h := newTestServer(&fakeAuthService{token: "a.b.c"}, &fakeAuthenticator{}, fakePinger{})

		rec, body := do(t, h, formRequest("/auth/token", url.Values{"username": {"test@example.com"}, "password": {"pw"}}))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "a.b.c", body["access_token"])
		assert.Equal(t, "bearer", body["token_type"])
	})

	t.Run("invalid credentials", func(t *testing.T) {
		h := newTestServer(&fakeAuthService{loginErr: common.ErrInvalidCredentials}, &fakeAuthenticator{}, fakePinger{})

		rec, body := do(t, h, formRequest("/auth/token", url.Values{"username": {"test@example.com"}, "password": {""}}))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Incorrect email or password", body["detail"])
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("missing fields", func(t *testing.T) {
		h := newTestServer(&fakeAuthService{token: "a.b.c"}, &fakeAuthenticator{}, fakePinger{})

		rec, body := do(t, h, formRequest("/auth/token", url.Values{"username": {"test@example.com"}}))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, body["detail"], "password")
	})

	t.Run("directory unavailable", func(t *testing.T) {
		h := newTestServer(&fakeAuthService{loginErr: common.ErrorUnavailable}, &fakeAuthenticator{}, fakePinger{})

		rec, _ := do(t, h, formRequest("/auth/token", url.Values{"username": {"a@b.c"}, "password": {"pw"}}))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Empty(t, rec.Header().Get("WWW-Authenticate"))
	})
}

func TestMe(t *testing.T) {
	t.Run("no header", func(t *testing.T) {
		a := &fakeAuthenticator{user: sampleUser()}
		h := newTestServer(&fakeAuthService{}, a, fakePinger{})

		rec, body := do(t, h, bearerRequest("/auth/users/me", ""))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Not authenticated", body["detail"])
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
		assert.Empty(t, a.got)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		h := newTestServer(&fakeAuthService{}, &fakeAuthenticator{user: sampleUser()}, fakePinger{})

		rec, body := do(t, h, bearerRequest("/auth/users/me", "Basic dXNlcjpwdw=="))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Not authenticated", body["detail"])
	})

	t.Run("rejected token", func(t *testing.T) {
		h := newTestServer(&fakeAuthService{}, &fakeAuthenticator{err: common.ErrorUnauthorized}, fakePinger{})

		rec, body := do(t, h, bearerRequest("/auth/users/me", "Bearer invalid"))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Could not validate credentials", body["detail"])
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("directory unavailable", func(t *testing.T) {
		h := newTestServer(&fakeAuthService{}, &fakeAuthenticator{err: common.ErrorUnavailable}, fakePinger{})

		rec, _ := do(t, h, bearerRequest("/auth/users/me", "Bearer a.b.c"))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("resolved", func(t *testing.T) {
		a := &fakeAuthenticator{user: sampleUser()}
		h := newTestServer(&fakeAuthService{}, a, fakePinger{})

		rec, body := do(t, h, bearerRequest("/auth/users/me", "bearer a.b.c"))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "a.b.c", a.got)
		assert.Equal(t, "test@example.com", body["email"])
		assert.NotContains(t, body, "hashed_password")
	})
}

// TestAuthFlow drives register, token and me through the real services
// backed by an in-memory directory.
func TestAuthFlow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := &memManager{users: &memUsers{byEmail: map[string]models.User{}}}
	codec := auth.NewTokenCodec([]byte("flow-secret"), 0)
	us := services.NewUserService(db, rm, auth.NewBcryptHasher(bcrypt.MinCost), codec,
		&config.Config{AccessTokenValidityDuration: 30 * time.Minute})
	h := newTestServer(us, services.NewAuthenticator(db, rm, codec), fakePinger{})

	rec, body := do(t, h, jsonRequest(http.MethodPost, "/auth/register",
		`{"email":"test@example.com","password":"test-password-123","first_name":"Test","last_name":"User","job_title":"Developer"}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := body["id"]

	rec, _ = do(t, h, jsonRequest(http.MethodPost, "/auth/register", `{"email":"test@example.com","password":"other"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, formRequest("/auth/token", url.Values{"username": {"test@example.com"}, "password": {"wrong"}}))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, body = do(t, h, formRequest("/auth/token", url.Values{"username": {"test@example.com"}, "password": {"test-password-123"}}))
	require.Equal(t, http.StatusOK, rec.Code)
	token, _ := body["access_token"].(string)
	require.Len(t, strings.Split(token, "."), 3)

	rec, body = do(t, h, bearerRequest("/auth/users/me", "Bearer "+token))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, body["id"])
	assert.Equal(t, "test@example.com", body["email"])
	assert.Equal(t, "Developer", body["job_title"])

	// a token signed with another secret is refused
	forged, err := auth.NewTokenCodec([]byte("other"), 0).Issue(map[string]any{"sub": "test@example.com"}, time.Minute)
	require.NoError(t, err)
	rec, _ = do(t, h, bearerRequest("/auth/users/me", "Bearer "+forged))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	require.NoError(t, mock.ExpectationsWereMet())
}
