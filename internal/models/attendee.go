package models

import "time"

// Attendee is a registration of a user for an event. The unique index on
// (user_id, event_id) is the authoritative guard against duplicate
// registrations under concurrent requests.
type Attendee struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Email        string    `gorm:"type:varchar(120);not null" json:"email"`
	Phone        string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	EventID      uint      `gorm:"not null;uniqueIndex:idx_attendee_user_event" json:"event_id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_attendee_user_event" json:"user_id"`
	RegisteredAt time.Time `gorm:"autoCreateTime" json:"registered_at"`

	Event *Event `gorm:"foreignKey:EventID" json:"-"`
	User  *User  `gorm:"foreignKey:UserID" json:"-"`
}
