package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventhub/internal/auth"
	"eventhub/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	users map[uint]*models.User
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error { return nil }
func (s *stubUserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (s *stubUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestRequireAuth(t *testing.T) {
	tokens := auth.NewJWTManager("secret", time.Hour, "eventhub-test")
	repo := &stubUserRepo{users: map[uint]*models.User{
		7: {ID: 7, Username: "alice", IsAdmin: true},
	}}

	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	handler := RequireAuth(tokens, repo)(next)

	t.Run("valid token resolves actor", func(t *testing.T) {
		token, err := tokens.Generate(7)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		c := e.NewContext(req, httptest.NewRecorder())

		require.NoError(t, handler(c))
		actor := Actor(c)
		require.NotNil(t, actor)
		assert.Equal(t, "alice", actor.Username)
		assert.True(t, actor.IsAdmin)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())

		err := handler(c)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("token for deleted user rejected", func(t *testing.T) {
		token, err := tokens.Generate(99)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		c := e.NewContext(req, httptest.NewRecorder())

		err = handler(c)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer not.a.token")
		c := e.NewContext(req, httptest.NewRecorder())

		err := handler(c)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("anonymous context has nil actor", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		assert.Nil(t, Actor(c))
	})
}
