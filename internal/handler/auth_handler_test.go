package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"eventhub/internal/auth"
	"eventhub/internal/dto"
	"eventhub/internal/middleware"
	"eventhub/internal/models"
	"eventhub/internal/policy"
	"eventhub/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock AuthService ---

type mockAuthService struct {
	registerFn     func(ctx context.Context, username, email, password string) (*models.User, error)
	authenticateFn func(ctx context.Context, username, password string) (*models.User, error)
	profileFn      func(ctx context.Context, actor *models.User) (*models.User, error)
}

func (m *mockAuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	return m.registerFn(ctx, username, email, password)
}
func (m *mockAuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	return m.authenticateFn(ctx, username, password)
}
func (m *mockAuthService) GetProfile(ctx context.Context, actor *models.User) (*models.User, error) {
	return m.profileFn(ctx, actor)
}

func testTokens() *auth.JWTManager {
	return auth.NewJWTManager("test-secret", time.Hour, "eventhub-test")
}

// --- Tests ---

func TestRegisterUser_Handler_IssuesToken(t *testing.T) {
	svc := &mockAuthService{
		registerFn: func(ctx context.Context, username, email, password string) (*models.User, error) {
			return &models.User{ID: 1, Username: username, Email: email}, nil
		},
	}

	body := `{"username":"alice","email":"alice@example.com","password":"s3cret!"}`
	c, rec := newTestContext(t, http.MethodPost, "/api/v1/auth/register", body)

	h := NewAuthHandler(svc, testTokens())
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.User.Username)

	userID, err := testTokens().Validate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, uint(1), userID)
}

func TestRegisterUser_Handler_DuplicateConflict(t *testing.T) {
	svc := &mockAuthService{
		registerFn: func(ctx context.Context, username, email, password string) (*models.User, error) {
			return nil, service.ErrDuplicateUsername
		},
	}

	body := `{"username":"alice","email":"alice@example.com","password":"s3cret!"}`
	c, _ := newTestContext(t, http.MethodPost, "/api/v1/auth/register", body)

	h := NewAuthHandler(svc, testTokens())
	err := h.Register(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Code)
}

func TestLogin_Handler_InvalidCredentials(t *testing.T) {
	svc := &mockAuthService{
		authenticateFn: func(ctx context.Context, username, password string) (*models.User, error) {
			return nil, service.ErrInvalidCredentials
		},
	}

	body := `{"username":"alice","password":"wrong"}`
	c, _ := newTestContext(t, http.MethodPost, "/api/v1/auth/login", body)

	h := NewAuthHandler(svc, testTokens())
	err := h.Login(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestLogin_Handler_Success(t *testing.T) {
	svc := &mockAuthService{
		authenticateFn: func(ctx context.Context, username, password string) (*models.User, error) {
			return &models.User{ID: 5, Username: username, IsAdmin: true}, nil
		},
	}

	body := `{"username":"admin","password":"s3cret!"}`
	c, rec := newTestContext(t, http.MethodPost, "/api/v1/auth/login", body)

	h := NewAuthHandler(svc, testTokens())
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.User.IsAdmin)
	assert.NotEmpty(t, resp.Token)
}

func TestProfile_Handler_InternalErrorStaysGeneric(t *testing.T) {
	svc := &mockAuthService{
		profileFn: func(ctx context.Context, actor *models.User) (*models.User, error) {
			return nil, errors.New("load profile: dial tcp 10.0.0.5:5432: connect: connection refused")
		},
	}

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/auth/profile", "")
	c.Set("actor", &models.User{ID: 2, Username: "alice"})

	h := NewAuthHandler(svc, testTokens())
	err := h.Profile(c)
	require.Error(t, err)

	// A storage failure is not an authorization failure; it must reach the
	// central error handler untouched and render as a generic 500.
	_, isHTTPErr := err.(*echo.HTTPError)
	assert.False(t, isHTTPErr)

	middleware.ErrorHandler(err, c)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "dial tcp")
	assert.Contains(t, rec.Body.String(), "internal server error")
}

func TestProfile_Handler_PolicyDenied(t *testing.T) {
	svc := &mockAuthService{
		profileFn: func(ctx context.Context, actor *models.User) (*models.User, error) {
			return nil, policy.ErrNotAuthorized
		},
	}

	c, _ := newTestContext(t, http.MethodGet, "/api/v1/auth/profile", "")
	c.Set("actor", &models.User{ID: 2, Username: "alice"})

	h := NewAuthHandler(svc, testTokens())
	err := h.Profile(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Code)
}

func TestProfile_Handler(t *testing.T) {
	svc := &mockAuthService{
		profileFn: func(ctx context.Context, actor *models.User) (*models.User, error) {
			return actor, nil
		},
	}

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/auth/profile", "")
	c.Set("actor", &models.User{ID: 2, Username: "alice", Email: "alice@example.com"})

	h := NewAuthHandler(svc, testTokens())
	require.NoError(t, h.Profile(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.Username)
}
