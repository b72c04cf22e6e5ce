package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"eventhub/internal/models"
	"eventhub/internal/policy"
	"eventhub/internal/repository"
	"eventhub/pkg/rabbitmq"

	"gorm.io/gorm"
)

// EventInput carries the writable fields of an event. Date and Time are
// the calendar date ("2006-01-02") and wall-clock time ("15:04") the
// event starts at; they are combined into a single stored instant.
type EventInput struct {
	Name         string
	Description  string
	Date         string
	Time         string
	Location     string
	MaxAttendees int
}

// EventDetail is an event together with its derived registration stats.
type EventDetail struct {
	Event         *models.Event
	AttendeeCount int
}

func (d *EventDetail) AvailableSpots() int {
	return d.Event.MaxAttendees - d.AttendeeCount
}

// StatusFilterAll disables status filtering in Search.
const StatusFilterAll = "all"

type EventService interface {
	Create(ctx context.Context, actor *models.User, input EventInput) (*models.Event, error)
	Update(ctx context.Context, actor *models.User, id uint, input EventInput) (*models.Event, error)
	Delete(ctx context.Context, actor *models.User, id uint) error
	Get(ctx context.Context, id uint) (*EventDetail, error)
	Search(ctx context.Context, query, statusFilter string) ([]EventDetail, error)
}

type eventService struct {
	events    repository.EventRepository
	attendees repository.AttendeeRepository
	publisher *rabbitmq.Publisher
}

func NewEventService(events repository.EventRepository, attendees repository.AttendeeRepository, publisher *rabbitmq.Publisher) EventService {
	return &eventService{events: events, attendees: attendees, publisher: publisher}
}

func (s *eventService) Create(ctx context.Context, actor *models.User, input EventInput) (*models.Event, error) {
	if err := policy.Check(actor, policy.ActionCreateEvent); err != nil {
		return nil, err
	}
	startsAt, err := validateEventInput(input)
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		Name:         input.Name,
		Description:  input.Description,
		StartsAt:     startsAt,
		Location:     input.Location,
		MaxAttendees: input.MaxAttendees,
		CreatedBy:    actor.ID,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	if s.publisher != nil {
		_ = s.publisher.Publish("event.created", event)
	}
	return event, nil
}

func (s *eventService) Update(ctx context.Context, actor *models.User, id uint, input EventInput) (*models.Event, error) {
	if err := policy.Check(actor, policy.ActionUpdateEvent); err != nil {
		return nil, err
	}

	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("load event: %w", err)
	}

	startsAt, verr := validateEventInput(input)
	if verr != nil {
		return nil, verr
	}

	// Shrinking capacity below the current registration count would
	// silently overbook people who already hold a spot.
	count, err := s.attendees.CountByEvent(ctx, s.attendees.GetDB(), id)
	if err != nil {
		return nil, fmt.Errorf("count attendees: %w", err)
	}
	if input.MaxAttendees < int(count) {
		return nil, ErrCapacityBelowRegistrations
	}

	event.Name = input.Name
	event.Description = input.Description
	event.StartsAt = startsAt
	event.Location = input.Location
	event.MaxAttendees = input.MaxAttendees

	if err := s.events.Save(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	if s.publisher != nil {
		_ = s.publisher.Publish("event.updated", event)
	}
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if err := policy.Check(actor, policy.ActionDeleteEvent); err != nil {
		return err
	}

	if err := s.events.DeleteWithAttendees(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}

	if s.publisher != nil {
		_ = s.publisher.Publish("event.deleted", map[string]uint{"id": id})
	}
	return nil
}

func (s *eventService) Get(ctx context.Context, id uint) (*EventDetail, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("load event: %w", err)
	}

	count, err := s.attendees.CountByEvent(ctx, s.attendees.GetDB(), id)
	if err != nil {
		return nil, fmt.Errorf("count attendees: %w", err)
	}
	return &EventDetail{Event: event, AttendeeCount: int(count)}, nil
}

// Search matches the query against name, description, and location, newest
// first. Status is derived per event and filtered in memory: it is a
// function of wall-clock time, not a stored column, so it cannot be pushed
// into the SQL predicate.
func (s *eventService) Search(ctx context.Context, query, statusFilter string) ([]EventDetail, error) {
	events, err := s.events.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}

	if statusFilter != "" && statusFilter != StatusFilterAll {
		filtered := events[:0]
		for _, event := range events {
			if string(event.Status()) == statusFilter {
				filtered = append(filtered, event)
			}
		}
		events = filtered
	}

	ids := make([]uint, len(events))
	for i := range events {
		ids[i] = events[i].ID
	}
	counts, err := s.attendees.CountByEvents(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count attendees: %w", err)
	}

	details := make([]EventDetail, len(events))
	for i := range events {
		details[i] = EventDetail{Event: &events[i], AttendeeCount: int(counts[events[i].ID])}
	}
	return details, nil
}

func validateEventInput(input EventInput) (time.Time, error) {
	if n := utf8.RuneCountInString(input.Name); n < 3 || n > 200 {
		return time.Time{}, &ValidationError{Field: "name", Message: "must be between 3 and 200 characters"}
	}
	if utf8.RuneCountInString(input.Description) > 1000 {
		return time.Time{}, &ValidationError{Field: "description", Message: "cannot exceed 1000 characters"}
	}
	if n := utf8.RuneCountInString(input.Location); n < 5 || n > 300 {
		return time.Time{}, &ValidationError{Field: "location", Message: "must be between 5 and 300 characters"}
	}
	if input.MaxAttendees < 1 || input.MaxAttendees > 10000 {
		return time.Time{}, &ValidationError{Field: "max_attendees", Message: "must be between 1 and 10,000"}
	}
	if input.Date == "" {
		return time.Time{}, &ValidationError{Field: "date", Message: "is required"}
	}
	if input.Time == "" {
		return time.Time{}, &ValidationError{Field: "time", Message: "is required"}
	}

	startsAt, err := time.ParseInLocation("2006-01-02 15:04", input.Date+" "+input.Time, time.UTC)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Message: "must be a valid date (2006-01-02) and time (15:04)"}
	}
	return startsAt, nil
}
