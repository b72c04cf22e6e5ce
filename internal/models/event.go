package models

import "time"

type EventStatus string

const (
	StatusUpcoming  EventStatus = "upcoming"
	StatusOngoing   EventStatus = "ongoing"
	StatusCompleted EventStatus = "completed"
)

type Event struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(200);not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	StartsAt     time.Time `gorm:"not null;index" json:"starts_at"`
	Location     string    `gorm:"type:varchar(300);not null" json:"location"`
	MaxAttendees int       `gorm:"not null;default:100" json:"max_attendees"`
	CreatedBy    uint      `gorm:"not null" json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Creator *User `gorm:"foreignKey:CreatedBy" json:"-"`
}

// StatusAt derives the temporal status of the event relative to now.
// An event is upcoming until its start instant passes, ongoing for the
// rest of that calendar day, and completed afterwards. Status is never
// stored; it is recomputed on every read.
func (e *Event) StatusAt(now time.Time) EventStatus {
	start := e.StartsAt
	now = now.In(start.Location())
	if start.After(now) {
		return StatusUpcoming
	}
	sy, sm, sd := start.Date()
	ny, nm, nd := now.Date()
	if sy == ny && sm == nm && sd == nd {
		return StatusOngoing
	}
	return StatusCompleted
}

func (e *Event) Status() EventStatus {
	return e.StatusAt(time.Now())
}
