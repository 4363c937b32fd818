package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/example/authgate/internal/config"
	"github.com/example/authgate/internal/middleware"
	"github.com/example/authgate/internal/models"
	"github.com/example/authgate/internal/services"
)

// memStore is a minimal in-memory CredentialStore for endpoint tests.
type memStore struct {
	users   map[string]*models.User
	pending map[string]*models.PendingSignup
}

func newMemStore() *memStore {
	return &memStore{
		users:   map[string]*models.User{},
		pending: map[string]*models.PendingSignup{},
	}
}

func (m *memStore) FindUserByPhone(phone string) (*models.User, error) {
	return m.users[phone], nil
}

func (m *memStore) FindUserByID(id uuid.UUID) (*models.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, nil
}

func (m *memStore) FindUserByEmailExcluding(email string, excludeID uuid.UUID) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email && user.ID != excludeID {
			return user, nil
		}
	}
	return nil, nil
}

func (m *memStore) UserExists(email, phone string) (bool, error) {
	for _, user := range m.users {
		if user.Email == email || user.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) UpsertPending(pending *models.PendingSignup) error {
	if pending.CreatedAt.IsZero() {
		pending.CreatedAt = time.Now()
	}
	m.pending[pending.Phone] = pending
	return nil
}

func (m *memStore) FindPending(phone string) (*models.PendingSignup, error) {
	return m.pending[phone], nil
}

func (m *memStore) DeletePending(phone string) error {
	delete(m.pending, phone)
	return nil
}

func (m *memStore) PromoteToUser(pending *models.PendingSignup) (*models.User, error) {
	user := &models.User{
		Name:         pending.Name,
		Email:        pending.Email,
		Phone:        pending.Phone,
		PasswordHash: pending.PasswordHash,
		Verified:     true,
	}
	user.ID = uuid.New()
	m.users[pending.Phone] = user
	delete(m.pending, pending.Phone)
	return user, nil
}

func (m *memStore) UpdateUser(id uuid.UUID, name, email string) (bool, error) {
	for _, user := range m.users {
		if user.ID == id {
			user.Name = name
			user.Email = email
			return true, nil
		}
	}
	return false, nil
}

// fakeOTP accepts every send and validates a single scripted code.
type fakeOTP struct {
	validCode string
}

func (f *fakeOTP) RequestCode(phone string) (bool, error) { return true, nil }

func (f *fakeOTP) CheckCode(phone, code string) (bool, error) {
	return code == f.validCode, nil
}

func newTestApp(st services.CredentialStore, otp services.OTPClient, cfg *config.Config) *fiber.App {
	svc := services.NewAuthService(st, otp, cfg)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})

	authHandler := NewAuthHandler(svc)
	profileHandler := NewProfileHandler(svc)

	app.Post("/signup", authHandler.Signup)
	app.Post("/verify-signup", authHandler.VerifySignup)
	app.Post("/login", authHandler.Login)
	app.Post("/verify-login", authHandler.VerifyLogin)

	authed := middleware.AuthMiddleware(cfg)
	app.Get("/user", authed, profileHandler.GetUser)
	app.Put("/user", authed, profileHandler.UpdateUser)

	return app
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:    "test-secret",
		TokenExpires: 7 * 24 * time.Hour,
		PendingTTL:   24 * time.Hour,
	}
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func seedUser(st *memStore, name, email, phone string) *models.User {
	user := &models.User{Name: name, Email: email, Phone: phone, Verified: true}
	user.ID = uuid.New()
	st.users[phone] = user
	return user
}

func TestSignupVerifyAndFetchUser(t *testing.T) {
	t.Parallel()

	st := newMemStore()
	app := newTestApp(st, &fakeOTP{validCode: "123456"}, testConfig())

	status, body := doJSON(t, app, http.MethodPost, "/signup", "", map[string]string{
		"name": "A", "email": "a@x.com", "phone": "+1555", "password": "pw",
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, body["success"])
	require.Equal(t, "OTP sent to your WhatsApp", body["message"])

	status, body = doJSON(t, app, http.MethodPost, "/verify-signup", "", map[string]string{
		"phone": "+1555", "code": "123456",
	})
	require.Equal(t, http.StatusOK, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	user, _ := body["user"].(map[string]interface{})
	require.Equal(t, "A", user["name"])
	require.Equal(t, "a@x.com", user["email"])
	require.Equal(t, "+1555", user["phone"])
	require.NotContains(t, user, "password_hash")

	status, body = doJSON(t, app, http.MethodGet, "/user", token, nil)
	require.Equal(t, http.StatusOK, status)
	user, _ = body["user"].(map[string]interface{})
	require.Equal(t, "A", user["name"])
	require.Equal(t, true, user["verified"])
}

func TestSignup_MissingFields(t *testing.T) {
	t.Parallel()

	app := newTestApp(newMemStore(), &fakeOTP{}, testConfig())

	status, body := doJSON(t, app, http.MethodPost, "/signup", "", map[string]string{
		"name": "A", "phone": "+1555",
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "all fields required", body["error"])
}

func TestSignup_ExistingUser(t *testing.T) {
	t.Parallel()

	st := newMemStore()
	seedUser(st, "B", "a@x.com", "+1666")
	app := newTestApp(st, &fakeOTP{}, testConfig())

	status, body := doJSON(t, app, http.MethodPost, "/signup", "", map[string]string{
		"name": "A", "email": "a@x.com", "phone": "+1555", "password": "pw",
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "user already exists", body["error"])
}

func TestVerifySignup_InvalidCode(t *testing.T) {
	t.Parallel()

	st := newMemStore()
	app := newTestApp(st, &fakeOTP{validCode: "123456"}, testConfig())

	doJSON(t, app, http.MethodPost, "/signup", "", map[string]string{
		"name": "A", "email": "a@x.com", "phone": "+1555", "password": "pw",
	})

	status, body := doJSON(t, app, http.MethodPost, "/verify-signup", "", map[string]string{
		"phone": "+1555", "code": "000000",
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "invalid or expired OTP", body["error"])
	require.Empty(t, st.users)
}

func TestVerifySignup_Replay(t *testing.T) {
	t.Parallel()

	st := newMemStore()
	app := newTestApp(st, &fakeOTP{validCode: "123456"}, testConfig())

	doJSON(t, app, http.MethodPost, "/signup", "", map[string]string{
		"name": "A", "email": "a@x.com", "phone": "+1555", "password": "pw",
	})
	status, _ := doJSON(t, app, http.MethodPost, "/verify-signup", "", map[string]string{
		"phone": "+1555", "code": "123456",
	})
	require.Equal(t, http.StatusOK, status)

	status, body := doJSON(t, app, http.MethodPost, "/verify-signup", "", map[string]string{
		"phone": "+1555", "code": "123456",
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "signup session expired", body["error"])
	require.Len(t, st.users, 1)
}

func TestLogin_UnknownPhone(t *testing.T) {
	t.Parallel()

	app := newTestApp(newMemStore(), &fakeOTP{}, testConfig())

	status, body := doJSON(t, app, http.MethodPost, "/login", "", map[string]string{
		"phone": "+1555",
	})
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "user not found", body["error"])
}

func TestLoginAndVerify(t *testing.T) {
	t.Parallel()

	st := newMemStore()
	seeded := seedUser(st, "A", "a@x.com", "+1555")
	app := newTestApp(st, &fakeOTP{validCode: "123456"}, testConfig())

	status, body := doJSON(t, app, http.MethodPost, "/login", "", map[string]string{
		"phone": "+1555",
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, body["success"])

	status, body = doJSON(t, app, http.MethodPost, "/verify-login", "", map[string]string{
		"phone": "+1555", "code": "123456",
	})
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, body["token"])

	user, _ := body["user"].(map[string]interface{})
	require.Equal(t, seeded.ID.String(), user["id"])
}

func TestGetUser_NoToken(t *testing.T) {
	t.Parallel()

	app := newTestApp(newMemStore(), &fakeOTP{}, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUpdateUser(t *testing.T) {
	t.Parallel()

	st := newMemStore()
	seedUser(st, "A", "a@x.com", "+1555")
	seedUser(st, "B", "b@x.com", "+1666")
	cfg := testConfig()
	app := newTestApp(st, &fakeOTP{validCode: "123456"}, cfg)

	_, body := doJSON(t, app, http.MethodPost, "/verify-login", "", map[string]string{
		"phone": "+1555", "code": "123456",
	})
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	// Another account already owns this email.
	status, body := doJSON(t, app, http.MethodPut, "/user", token, map[string]string{
		"name": "A", "email": "b@x.com",
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "email already in use by another account", body["error"])

	// Keeping one's own email is not a conflict.
	status, body = doJSON(t, app, http.MethodPut, "/user", token, map[string]string{
		"name": "Alice", "email": "a@x.com",
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Profile updated successfully", body["message"])

	user, _ := body["user"].(map[string]interface{})
	require.Equal(t, "Alice", user["name"])
	require.Equal(t, "+1555", user["phone"])
}
