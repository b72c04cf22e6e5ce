// Package policy decides whether an actor may perform an operation.
// Services call Check at the start of every guarded operation with the
// actor passed explicitly; a nil actor is anonymous.
package policy

import (
	"errors"

	"eventhub/internal/models"
)

type Action string

const (
	ActionCreateEvent      Action = "event:create"
	ActionUpdateEvent      Action = "event:update"
	ActionDeleteEvent      Action = "event:delete"
	ActionRemoveAttendee   Action = "attendee:remove"
	ActionListAttendees    Action = "attendee:list"
	ActionRegisterAttendee Action = "attendee:register"
	ActionViewProfile      Action = "profile:view"
)

// ErrNotAuthorized covers both "not logged in" and "insufficient role";
// callers must not be able to tell the two apart from the error alone.
var ErrNotAuthorized = errors.New("not authorized")

var adminOnly = map[Action]bool{
	ActionCreateEvent:    true,
	ActionUpdateEvent:    true,
	ActionDeleteEvent:    true,
	ActionRemoveAttendee: true,
	ActionListAttendees:  true,
}

var authenticated = map[Action]bool{
	ActionRegisterAttendee: true,
	ActionViewProfile:      true,
}

// Check returns nil when the actor may perform the action.
func Check(actor *models.User, action Action) error {
	switch {
	case adminOnly[action]:
		if actor == nil || !actor.IsAdmin {
			return ErrNotAuthorized
		}
	case authenticated[action]:
		if actor == nil {
			return ErrNotAuthorized
		}
	default:
		return ErrNotAuthorized
	}
	return nil
}
