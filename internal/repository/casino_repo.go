package repository

import (
	"context"
	"errors"

	"RouletteSync/internal/apperr"
	"RouletteSync/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CasinoRepository resolves (table id, table name) pairs to casino rows,
// creating them lazily.
type CasinoRepository interface {
	GetOrCreate(ctx context.Context, tableID, tableName string) (*model.Casino, error)
}

type casinoRepository struct {
	db *gorm.DB
}

func NewCasinoRepository(db *gorm.DB) CasinoRepository {
	return &casinoRepository{db: db}
}

// GetOrCreate looks the pair up and inserts on miss. The insert uses
// ON CONFLICT (table_id) DO NOTHING so that overlapping runs racing on the
// same table settle on the unique constraint instead of erroring: a skipped
// insert means another writer (or an earlier run under a different display
// name) already owns the table_id, and that row is re-fetched and reused.
func (r *casinoRepository) GetOrCreate(ctx context.Context, tableID, tableName string) (*model.Casino, error) {
	var casino model.Casino
	err := r.db.WithContext(ctx).
		Where("table_id = ? AND table_name = ?", tableID, tableName).
		First(&casino).Error
	if err == nil {
		return &casino, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.StorageError{Op: "lookup casino", Err: err}
	}

	casino = model.Casino{TableID: tableID, Name: tableName}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "table_id"}},
			DoNothing: true,
		}).
		Create(&casino)
	if res.Error != nil {
		return nil, &apperr.StorageError{Op: "create casino", Err: res.Error}
	}
	if res.RowsAffected > 0 {
		return &casino, nil
	}

	if err := r.db.WithContext(ctx).
		Where("table_id = ?", tableID).
		First(&casino).Error; err != nil {
		return nil, &apperr.StorageError{Op: "refetch casino after conflict", Err: err}
	}
	return &casino, nil
}
