package dto

type RegisterUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email,max=120"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type EventRequest struct {
	Name         string `json:"name" validate:"required,min=3,max=200"`
	Description  string `json:"description" validate:"max=1000"`
	Date         string `json:"date" validate:"required"`
	Time         string `json:"time" validate:"required"`
	Location     string `json:"location" validate:"required,min=5,max=300"`
	MaxAttendees int    `json:"max_attendees" validate:"required,gte=1,lte=10000"`
}

type RegisterAttendeeRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Phone string `json:"phone" validate:"max=20"`
}
