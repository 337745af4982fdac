package repository

import (
	"context"
	"time"

	"RouletteSync/internal/apperr"
	"RouletteSync/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RouletteEventRepository owns the fact table.
type RouletteEventRepository interface {
	// LatestSettlement returns the most recent settled_at persisted for the
	// given table, or ok=false when the table has no facts yet.
	LatestSettlement(ctx context.Context, tableID string) (time.Time, bool, error)
	// BulkInsert writes all rows in a single statement with
	// ON CONFLICT (event_id) DO NOTHING; it returns the number actually
	// inserted, which may be lower than len(events).
	BulkInsert(ctx context.Context, events []*model.RouletteEvent) (int64, error)
	// DeleteCreatedBefore removes facts ingested before the cutoff.
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type rouletteEventRepository struct {
	db *gorm.DB
}

func NewRouletteEventRepository(db *gorm.DB) RouletteEventRepository {
	return &rouletteEventRepository{db: db}
}

func (r *rouletteEventRepository) LatestSettlement(ctx context.Context, tableID string) (time.Time, bool, error) {
	var events []model.RouletteEvent
	err := r.db.WithContext(ctx).
		Select("roulette_events.*").
		Joins("JOIN casino ON casino.id = roulette_events.casino_id").
		Where("casino.table_id = ?", tableID).
		Order("roulette_events.settled_at DESC").
		Limit(1).
		Find(&events).Error
	if err != nil {
		return time.Time{}, false, &apperr.StorageError{Op: "latest settlement for table " + tableID, Err: err}
	}
	if len(events) == 0 {
		return time.Time{}, false, nil
	}
	return events[0].SettledAt, true, nil
}

func (r *rouletteEventRepository) BulkInsert(ctx context.Context, events []*model.RouletteEvent) (int64, error) {
	if len(events) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).
		Create(&events)
	if res.Error != nil {
		return 0, &apperr.StorageError{Op: "bulk insert roulette events", Err: res.Error}
	}
	return res.RowsAffected, nil
}

func (r *rouletteEventRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&model.RouletteEvent{})
	if res.Error != nil {
		return 0, &apperr.StorageError{Op: "delete expired roulette events", Err: res.Error}
	}
	return res.RowsAffected, nil
}
