package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/medical-records-service/internal/api/http/handlers"
	"github.com/spec-kit/medical-records-service/internal/auth"
	"github.com/spec-kit/medical-records-service/internal/config"
	"github.com/spec-kit/medical-records-service/internal/domain"
	"github.com/spec-kit/medical-records-service/internal/events"
	"github.com/spec-kit/medical-records-service/internal/observability"
	"github.com/spec-kit/medical-records-service/internal/persistence"
	"github.com/spec-kit/medical-records-service/internal/service"
)

type fakeUserRepo struct {
	users map[string]*domain.User
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = "generated"
	f.users[user.ID] = user
	return nil
}
func (f *fakeUserRepo) Update(_ context.Context, _ *domain.User) error { return nil }
func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}
func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}
func (f *fakeUserRepo) TouchLastLogin(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return pgx.ErrNoRows
	}
	return nil
}
func (f *fakeUserRepo) List(_ context.Context, _, _ int) ([]domain.User, error) { return nil, nil }

type fakeRecordRepo struct {
	records map[string]*domain.MedicalRecord
}

func (f *fakeRecordRepo) Create(_ context.Context, record *domain.MedicalRecord) error {
	record.ID = "r1"
	record.CreatedAt = time.Now()
	record.UpdatedAt = time.Now()
	f.records[record.ID] = record
	return nil
}
func (f *fakeRecordRepo) Update(_ context.Context, record *domain.MedicalRecord) error {
	if _, ok := f.records[record.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.records[record.ID] = record
	return nil
}
func (f *fakeRecordRepo) GetByID(_ context.Context, id string) (*domain.MedicalRecord, error) {
	if record, ok := f.records[id]; ok {
		return record, nil
	}
	return nil, pgx.ErrNoRows
}
func (f *fakeRecordRepo) List(_ context.Context, _, _ int) ([]domain.MedicalRecord, error) {
	out := make([]domain.MedicalRecord, 0, len(f.records))
	for _, record := range f.records {
		out = append(out, *record)
	}
	return out, nil
}
func (f *fakeRecordRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.records[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.records, id)
	return nil
}

type testEnv struct {
	app    *fiber.App
	tokens *auth.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{Env: "test", RequestTimeoutSeconds: 5},
		Auth: config.AuthConfig{
			JWTSecret:     "test-secret",
			TokenTTLHours: 24,
			CookieName:    "token",
			BcryptCost:    4,
		},
		CORS: config.CORSConfig{AllowOrigins: "http://localhost:5173"},
	}

	hash, err := auth.HashPassword("correct", 4)
	require.NoError(t, err)

	userRepo := &fakeUserRepo{users: map[string]*domain.User{
		"u1": {
			ID:           "u1",
			Email:        "a@x.com",
			PasswordHash: hash,
			Role:         domain.RolePatient,
			FirstName:    "A",
			LastName:     "X",
		},
	}}
	recordRepo := &fakeRecordRepo{records: make(map[string]*domain.MedicalRecord)}

	dispatcher := events.NewInMemoryDispatcher()
	authService := service.NewAuthService(*cfg, service.AuthDependencies{UserRepo: userRepo, Dispatcher: dispatcher})
	recordService := service.NewRecordService(service.RecordDependencies{RecordRepo: recordRepo, Dispatcher: dispatcher})
	userService := service.NewUserService(userRepo)

	cookie := auth.NewSessionCookie(cfg.Auth.CookieName, cfg.IsProduction(), cfg.Auth.TokenTTL())
	gate := auth.NewMiddleware(authService.TokenManager(), cookie, userRepo, zap.NewNop())

	app := fiber.New()
	RegisterMiddlewares(app, cfg, zap.NewNop(), observability.NewMetrics(), nil)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("test", "dev", &persistence.Postgres{}, &persistence.Redis{}),
		Auth:           handlers.NewAuthHandler(authService, cookie),
		Users:          handlers.NewUsersHandler(userService),
		Records:        handlers.NewRecordsHandler(recordService),
		AuthMiddleware: gate,
	})

	return &testEnv{app: app, tokens: authService.TokenManager()}
}

func jsonRequest(method, target string, payload any) *stdhttp.Request {
	var body io.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode(t *testing.T, resp *stdhttp.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func expiredToken(t *testing.T, secret, userID string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func sessionCookie(resp *stdhttp.Response) *stdhttp.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "token" {
			return cookie
		}
	}
	return nil
}

func TestLoginEndpoint_Success(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	resp, err := env.app.Test(jsonRequest(stdhttp.MethodPost, "/api/auth/login",
		map[string]string{"email": "a@x.com", "password": "correct"}))
	require.NoError(t, err)
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)

	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	require.NotEmpty(t, cookie.Value)
	require.True(t, cookie.HttpOnly)

	body := decode(t, resp)
	require.Equal(t, "success", body["status"])
	user := body["data"].(map[string]any)["user"].(map[string]any)
	require.Equal(t, "u1", user["id"])
	require.Equal(t, "a@x.com", user["email"])
	require.Equal(t, "patient", user["role"])
	require.Equal(t, "A", user["firstName"])
	require.Equal(t, "X", user["lastName"])
	_, leaked := user["password_hash"]
	require.False(t, leaked)
	_, leaked = user["passwordHash"]
	require.False(t, leaked)
}

func TestLoginEndpoint_WrongPassword(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	resp, err := env.app.Test(jsonRequest(stdhttp.MethodPost, "/api/auth/login",
		map[string]string{"email": "a@x.com", "password": "wrong"}))
	require.NoError(t, err)
	require.Equal(t, stdhttp.StatusUnauthorized, resp.StatusCode)
	require.Nil(t, sessionCookie(resp))

	body := decode(t, resp)
	require.Equal(t, "fail", body["status"])
	require.Equal(t, "Invalid credentials", body["message"])
}

func TestLoginEndpoint_UnknownEmailLooksIdentical(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	resp, err := env.app.Test(jsonRequest(stdhttp.MethodPost, "/api/auth/login",
		map[string]string{"email": "nobody@x.com", "password": "correct"}))
	require.NoError(t, err)
	require.Equal(t, stdhttp.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Invalid credentials", decode(t, resp)["message"])
}

func TestLoginEndpoint_MissingFields(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	for _, payload := range []map[string]string{
		{},
		{"email": "a@x.com"},
		{"password": "correct"},
	} {
		resp, err := env.app.Test(jsonRequest(stdhttp.MethodPost, "/api/auth/login", payload))
		require.NoError(t, err)
		require.Equal(t, stdhttp.StatusBadRequest, resp.StatusCode)
		require.Equal(t, "Please provide email and password", decode(t, resp)["message"])
	}
}

func TestLogoutEndpoint_AlwaysSucceeds(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	// no prior authentication at all
	resp, err := env.app.Test(jsonRequest(stdhttp.MethodPost, "/api/auth/logout", nil))
	require.NoError(t, err)
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	require.Equal(t, "success", body["status"])
	require.Nil(t, body["data"])

	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	require.Empty(t, cookie.Value)
	require.True(t, cookie.Expires.Before(time.Now()))
}

func TestProtectedRoute_NoCookie(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	resp, err := env.app.Test(jsonRequest(stdhttp.MethodGet, "/api/users/me", nil))
	require.NoError(t, err)
	require.Equal(t, stdhttp.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Not authorized to access this route", decode(t, resp)["message"])
}

func TestProtectedRoute_ExpiredToken(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	expired := expiredToken(t, "test-secret", "u1")
	req := jsonRequest(stdhttp.MethodGet, "/api/users/me", nil)
	req.AddCookie(&stdhttp.Cookie{Name: "token", Value: expired})

	resp, err := env.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, stdhttp.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Not authorized to access this route", decode(t, resp)["message"])
}

func TestProtectedRoute_ValidSession(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	token, _, err := env.tokens.Issue("u1")
	require.NoError(t, err)

	req := jsonRequest(stdhttp.MethodGet, "/api/users/me", nil)
	req.AddCookie(&stdhttp.Cookie{Name: "token", Value: token})

	resp, err := env.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)

	user := decode(t, resp)["data"].(map[string]any)["user"].(map[string]any)
	require.Equal(t, "a@x.com", user["email"])
}

func TestRecordMutation_RequiresRole(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	// patient token: may read, may not create
	token, _, err := env.tokens.Issue("u1")
	require.NoError(t, err)

	req := jsonRequest(stdhttp.MethodPost, "/api/records/", map[string]any{
		"patient": map[string]any{
			"firstName":   "Jane",
			"lastName":    "Doe",
			"dateOfBirth": "1980-04-02T00:00:00Z",
			"gender":      "female",
		},
	})
	req.AddCookie(&stdhttp.Cookie{Name: "token", Value: token})

	resp, err := env.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, stdhttp.StatusForbidden, resp.StatusCode)

	listReq := jsonRequest(stdhttp.MethodGet, "/api/records/", nil)
	listReq.AddCookie(&stdhttp.Cookie{Name: "token", Value: token})
	listResp, err := env.app.Test(listReq)
	require.NoError(t, err)
	require.Equal(t, stdhttp.StatusOK, listResp.StatusCode)
}
