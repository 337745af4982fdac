package repository

import (
	"context"
	"time"

	"RouletteSync/internal/apperr"
	"RouletteSync/internal/model"

	"gorm.io/gorm"
)

// suppressionWindow: an identical error_message recorded within this window
// is not written again. Suppression keys on exact message text; a different
// message within the window is still recorded.
const suppressionWindow = 24 * time.Hour

// ErrorLogRepository is best-effort bookkeeping for failed runs.
type ErrorLogRepository interface {
	Record(ctx context.Context, message, stack, label string) error
}

type errorLogRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewErrorLogRepository(db *gorm.DB) ErrorLogRepository {
	return &errorLogRepository{db: db, now: time.Now}
}

func (r *errorLogRepository) Record(ctx context.Context, message, stack, label string) error {
	since := r.now().Add(-suppressionWindow)

	var recent int64
	if err := r.db.WithContext(ctx).
		Model(&model.ErrorLog{}).
		Where("error_message = ? AND created_at >= ?", message, since).
		Count(&recent).Error; err != nil {
		return &apperr.StorageError{Op: "check recent error logs", Err: err}
	}
	if recent > 0 {
		return nil
	}

	entry := model.ErrorLog{
		ErrorMessage: message,
		ErrorStack:   stack,
		Context:      label,
		CreatedAt:    r.now(),
	}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return &apperr.StorageError{Op: "insert error log", Err: err}
	}
	return nil
}
