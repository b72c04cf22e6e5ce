package dto

import (
	"time"

	"eventhub/internal/models"
	"eventhub/internal/service"
)

type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

type TokenResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type EventResponse struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Date           string    `json:"date"`
	Time           string    `json:"time"`
	Location       string    `json:"location"`
	MaxAttendees   int       `json:"max_attendees"`
	Status         string    `json:"status"`
	AttendeeCount  int       `json:"attendee_count"`
	AvailableSpots int       `json:"available_spots"`
	CreatedBy      uint      `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type AttendeeResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	EventID      uint      `json:"event_id"`
	UserID       uint      `json:"user_id"`
	RegisteredAt time.Time `json:"registered_at"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

// ToEventResponse derives status and available spots at render time.
func ToEventResponse(e *models.Event, attendeeCount int) EventResponse {
	return EventResponse{
		ID:             e.ID,
		Name:           e.Name,
		Description:    e.Description,
		Date:           e.StartsAt.Format("2006-01-02"),
		Time:           e.StartsAt.Format("15:04"),
		Location:       e.Location,
		MaxAttendees:   e.MaxAttendees,
		Status:         string(e.Status()),
		AttendeeCount:  attendeeCount,
		AvailableSpots: e.MaxAttendees - attendeeCount,
		CreatedBy:      e.CreatedBy,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func ToEventDetailResponse(d *service.EventDetail) EventResponse {
	return ToEventResponse(d.Event, d.AttendeeCount)
}

func ToAttendeeResponse(a *models.Attendee) AttendeeResponse {
	return AttendeeResponse{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		Phone:        a.Phone,
		EventID:      a.EventID,
		UserID:       a.UserID,
		RegisteredAt: a.RegisteredAt,
	}
}
