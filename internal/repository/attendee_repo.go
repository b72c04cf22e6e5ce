package repository

import (
	"context"

	"eventhub/internal/models"

	"gorm.io/gorm"
)

type AttendeeRepository interface {
	Create(ctx context.Context, tx *gorm.DB, attendee *models.Attendee) error
	FindByID(ctx context.Context, id uint) (*models.Attendee, error)
	FindByEventID(ctx context.Context, eventID uint) ([]models.Attendee, error)
	FindByUserAndEvent(ctx context.Context, tx *gorm.DB, userID, eventID uint) (*models.Attendee, error)
	CountByEvent(ctx context.Context, tx *gorm.DB, eventID uint) (int64, error)
	CountByEvents(ctx context.Context, eventIDs []uint) (map[uint]int64, error)
	Delete(ctx context.Context, id uint) error
	GetDB() *gorm.DB
}

type attendeeRepository struct {
	db *gorm.DB
}

func NewAttendeeRepository(db *gorm.DB) AttendeeRepository {
	return &attendeeRepository{db: db}
}

func (r *attendeeRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *attendeeRepository) Create(ctx context.Context, tx *gorm.DB, attendee *models.Attendee) error {
	return tx.WithContext(ctx).Create(attendee).Error
}

func (r *attendeeRepository) FindByID(ctx context.Context, id uint) (*models.Attendee, error) {
	var attendee models.Attendee
	if err := r.db.WithContext(ctx).First(&attendee, id).Error; err != nil {
		return nil, err
	}
	return &attendee, nil
}

func (r *attendeeRepository) FindByEventID(ctx context.Context, eventID uint) ([]models.Attendee, error) {
	var attendees []models.Attendee
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("registered_at ASC, id ASC").
		Find(&attendees).Error
	if err != nil {
		return nil, err
	}
	return attendees, nil
}

func (r *attendeeRepository) FindByUserAndEvent(ctx context.Context, tx *gorm.DB, userID, eventID uint) (*models.Attendee, error) {
	var attendee models.Attendee
	err := tx.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		First(&attendee).Error
	if err != nil {
		return nil, err
	}
	return &attendee, nil
}

func (r *attendeeRepository) CountByEvent(ctx context.Context, tx *gorm.DB, eventID uint) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.Attendee{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	return count, err
}

// CountByEvents returns attendee counts grouped by event id, for listing
// pages that show available spots without issuing one count per row.
func (r *attendeeRepository) CountByEvents(ctx context.Context, eventIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		EventID uint
		Total   int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Attendee{}).
		Select("event_id, COUNT(*) AS total").
		Where("event_id IN ?", eventIDs).
		Group("event_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.EventID] = row.Total
	}
	return counts, nil
}

func (r *attendeeRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Attendee{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
