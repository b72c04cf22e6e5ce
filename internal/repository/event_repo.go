package repository

import (
	"context"

	"eventhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	Save(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id uint) (*models.Event, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Event, error)
	Search(ctx context.Context, query string) ([]models.Event, error)
	DeleteWithAttendees(ctx context.Context, id uint) error
	GetDB() *gorm.DB
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) Save(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *eventRepository) FindByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// FindByIDForUpdate acquires a row-level lock on the event within the given
// transaction, serializing concurrent registration attempts.
func (r *eventRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Event, error) {
	var event models.Event
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// Search returns events whose name, description, or location contains the
// query, newest start instant first. An empty query matches everything.
func (r *eventRepository) Search(ctx context.Context, query string) ([]models.Event, error) {
	q := r.db.WithContext(ctx).Model(&models.Event{})
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("name ILIKE ? OR description ILIKE ? OR location ILIKE ?", like, like, like)
	}

	var events []models.Event
	if err := q.Order("starts_at DESC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// DeleteWithAttendees removes an event and cascades deletion of all its
// attendee rows in a single transaction.
func (r *eventRepository) DeleteWithAttendees(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&models.Attendee{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Event{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
