package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"eventhub/internal/models"
	"eventhub/internal/policy"
	"eventhub/internal/repository"
	"eventhub/pkg/rabbitmq"

	"gorm.io/gorm"
)

type RegistrationService interface {
	Register(ctx context.Context, actor *models.User, eventID uint, name, phone string) (*models.Attendee, error)
	Remove(ctx context.Context, actor *models.User, eventID, attendeeID uint) error
	ListByEvent(ctx context.Context, actor *models.User, eventID uint) ([]models.Attendee, error)
}

type registrationService struct {
	attendees repository.AttendeeRepository
	events    repository.EventRepository
	publisher *rabbitmq.Publisher
}

func NewRegistrationService(attendees repository.AttendeeRepository, events repository.EventRepository, publisher *rabbitmq.Publisher) RegistrationService {
	return &registrationService{attendees: attendees, events: events, publisher: publisher}
}

// Register signs the actor up for an event. The capacity checks and the
// insert run inside one transaction holding a row lock on the event, so
// two concurrent registrations cannot both take the last spot. The unique
// index on (user_id, event_id) remains the authoritative duplicate guard.
func (s *registrationService) Register(ctx context.Context, actor *models.User, eventID uint, name, phone string) (*models.Attendee, error) {
	if err := policy.Check(actor, policy.ActionRegisterAttendee); err != nil {
		return nil, err
	}
	if verr := validateAttendee(name, phone); verr != nil {
		return nil, verr
	}

	var result *models.Attendee

	err := s.attendees.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event, err := s.events.FindByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		count, err := s.attendees.CountByEvent(ctx, tx, eventID)
		if err != nil {
			return err
		}
		if int(count) >= event.MaxAttendees {
			return ErrEventFull
		}

		if event.Status() == models.StatusCompleted {
			return ErrEventCompleted
		}

		_, err = s.attendees.FindByUserAndEvent(ctx, tx, actor.ID, eventID)
		if err == nil {
			return ErrAlreadyRegistered
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// Re-check spots immediately before the insert.
		count, err = s.attendees.CountByEvent(ctx, tx, eventID)
		if err != nil {
			return err
		}
		if int(count) >= event.MaxAttendees {
			return ErrEventFull
		}

		// Contact email comes from the registering user, never the client.
		attendee := &models.Attendee{
			Name:    name,
			Email:   actor.Email,
			Phone:   phone,
			EventID: eventID,
			UserID:  actor.ID,
		}
		if err := s.attendees.Create(ctx, tx, attendee); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyRegistered
			}
			return err
		}

		result = attendee
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		_ = s.publisher.Publish("attendee.registered", result)
	}
	return result, nil
}

func (s *registrationService) Remove(ctx context.Context, actor *models.User, eventID, attendeeID uint) error {
	if err := policy.Check(actor, policy.ActionRemoveAttendee); err != nil {
		return err
	}

	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("load event: %w", err)
	}

	attendee, err := s.attendees.FindByID(ctx, attendeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttendeeNotFound
		}
		return fmt.Errorf("load attendee: %w", err)
	}
	if attendee.EventID != eventID {
		return ErrAttendeeEventMismatch
	}

	if err := s.attendees.Delete(ctx, attendeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttendeeNotFound
		}
		return fmt.Errorf("remove attendee: %w", err)
	}

	if s.publisher != nil {
		_ = s.publisher.Publish("attendee.removed", attendee)
	}
	return nil
}

func (s *registrationService) ListByEvent(ctx context.Context, actor *models.User, eventID uint) ([]models.Attendee, error) {
	if err := policy.Check(actor, policy.ActionListAttendees); err != nil {
		return nil, err
	}

	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("load event: %w", err)
	}
	return s.attendees.FindByEventID(ctx, eventID)
}

func validateAttendee(name, phone string) error {
	if n := utf8.RuneCountInString(name); n < 2 || n > 100 {
		return &ValidationError{Field: "name", Message: "must be between 2 and 100 characters"}
	}
	if utf8.RuneCountInString(phone) > 20 {
		return &ValidationError{Field: "phone", Message: "cannot exceed 20 characters"}
	}
	return nil
}
