package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"eventhub/internal/dto"
	"eventhub/internal/models"
	"eventhub/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock RegistrationService ---

type mockRegistrationService struct {
	registerFn func(ctx context.Context, actor *models.User, eventID uint, name, phone string) (*models.Attendee, error)
	removeFn   func(ctx context.Context, actor *models.User, eventID, attendeeID uint) error
	listFn     func(ctx context.Context, actor *models.User, eventID uint) ([]models.Attendee, error)
}

func (m *mockRegistrationService) Register(ctx context.Context, actor *models.User, eventID uint, name, phone string) (*models.Attendee, error) {
	return m.registerFn(ctx, actor, eventID, name, phone)
}
func (m *mockRegistrationService) Remove(ctx context.Context, actor *models.User, eventID, attendeeID uint) error {
	return m.removeFn(ctx, actor, eventID, attendeeID)
}
func (m *mockRegistrationService) ListByEvent(ctx context.Context, actor *models.User, eventID uint) ([]models.Attendee, error) {
	return m.listFn(ctx, actor, eventID)
}

// --- Tests ---

func TestRegisterAttendee_Handler_Success(t *testing.T) {
	svc := &mockRegistrationService{
		registerFn: func(ctx context.Context, actor *models.User, eventID uint, name, phone string) (*models.Attendee, error) {
			return &models.Attendee{
				ID:      1,
				Name:    name,
				Email:   actor.Email,
				Phone:   phone,
				EventID: eventID,
				UserID:  actor.ID,
			}, nil
		},
	}

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/events/3/attendees", `{"name":"Alice Liddell","phone":"555-0100"}`)
	c.SetParamNames("id")
	c.SetParamValues("3")
	c.Set("actor", &models.User{ID: 2, Email: "alice@example.com"})

	h := NewRegistrationHandler(svc)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.AttendeeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint(3), resp.EventID)
	assert.Equal(t, "alice@example.com", resp.Email, "contact email comes from the account, not the form")
}

func TestRegisterAttendee_Handler_ConflictErrors(t *testing.T) {
	conflicts := []error{
		service.ErrEventFull,
		service.ErrEventCompleted,
		service.ErrAlreadyRegistered,
	}

	for _, conflict := range conflicts {
		svc := &mockRegistrationService{
			registerFn: func(ctx context.Context, actor *models.User, eventID uint, name, phone string) (*models.Attendee, error) {
				return nil, conflict
			},
		}

		c, _ := newTestContext(t, http.MethodPost, "/api/v1/events/3/attendees", `{"name":"Alice Liddell"}`)
		c.SetParamNames("id")
		c.SetParamValues("3")
		c.Set("actor", &models.User{ID: 2})

		h := NewRegistrationHandler(svc)
		err := h.Register(c)

		he, ok := err.(*echo.HTTPError)
		require.True(t, ok, conflict.Error())
		assert.Equal(t, http.StatusConflict, he.Code, conflict.Error())
	}
}

func TestRegisterAttendee_Handler_EventNotFound(t *testing.T) {
	svc := &mockRegistrationService{
		registerFn: func(ctx context.Context, actor *models.User, eventID uint, name, phone string) (*models.Attendee, error) {
			return nil, service.ErrEventNotFound
		},
	}

	c, _ := newTestContext(t, http.MethodPost, "/api/v1/events/99/attendees", `{"name":"Alice Liddell"}`)
	c.SetParamNames("id")
	c.SetParamValues("99")
	c.Set("actor", &models.User{ID: 2})

	h := NewRegistrationHandler(svc)
	err := h.Register(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestRemoveAttendee_Handler_Mismatch(t *testing.T) {
	svc := &mockRegistrationService{
		removeFn: func(ctx context.Context, actor *models.User, eventID, attendeeID uint) error {
			return service.ErrAttendeeEventMismatch
		},
	}

	c, _ := newTestContext(t, http.MethodDelete, "/api/v1/events/3/attendees/8", "")
	c.SetParamNames("id", "attendee_id")
	c.SetParamValues("3", "8")
	c.Set("actor", &models.User{ID: 1, IsAdmin: true})

	h := NewRegistrationHandler(svc)
	err := h.Remove(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Code)
}

func TestRemoveAttendee_Handler_Success(t *testing.T) {
	var gotEvent, gotAttendee uint
	svc := &mockRegistrationService{
		removeFn: func(ctx context.Context, actor *models.User, eventID, attendeeID uint) error {
			gotEvent, gotAttendee = eventID, attendeeID
			return nil
		},
	}

	c, rec := newTestContext(t, http.MethodDelete, "/api/v1/events/3/attendees/8", "")
	c.SetParamNames("id", "attendee_id")
	c.SetParamValues("3", "8")
	c.Set("actor", &models.User{ID: 1, IsAdmin: true})

	h := NewRegistrationHandler(svc)
	require.NoError(t, h.Remove(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, uint(3), gotEvent)
	assert.Equal(t, uint(8), gotAttendee)
}

func TestListAttendees_Handler(t *testing.T) {
	svc := &mockRegistrationService{
		listFn: func(ctx context.Context, actor *models.User, eventID uint) ([]models.Attendee, error) {
			return []models.Attendee{
				{ID: 1, Name: "Alice Liddell", EventID: eventID, UserID: 2},
				{ID: 2, Name: "Bob Stone", EventID: eventID, UserID: 3},
			}, nil
		},
	}

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/events/3/attendees", "")
	c.SetParamNames("id")
	c.SetParamValues("3")
	c.Set("actor", &models.User{ID: 1, IsAdmin: true})

	h := NewRegistrationHandler(svc)
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []dto.AttendeeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}
