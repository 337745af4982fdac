package model

import (
	"time"

	"gorm.io/datatypes"
)

// Casino is the table dimension: one row per distinct game table seen in an
// upstream batch. Created lazily on first reference, never updated or deleted
// here. table_id is the final arbiter for concurrent get-or-create races.
type Casino struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	TableID   string    `gorm:"column:table_id;type:varchar(64);uniqueIndex;not null"`
	Name      string    `gorm:"column:table_name;type:varchar(128);not null"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp"`
}

// RouletteEvent is one settled round. event_id is the external id and the
// secondary dedup key (insert-or-skip); created_at drives retention.
type RouletteEvent struct {
	ID            uint64         `gorm:"column:id;primaryKey;autoIncrement"`
	EventID       string         `gorm:"column:event_id;type:varchar(64);uniqueIndex;not null"`
	StartedAt     time.Time      `gorm:"column:started_at;type:timestamp;not null"`
	SettledAt     time.Time      `gorm:"column:settled_at;type:timestamp;not null;index"`
	OutcomeNumber int            `gorm:"column:outcome_number;type:int;not null"`
	OutcomeType   string         `gorm:"column:outcome_type;type:varchar(8);not null"`
	OutcomeColor  string         `gorm:"column:outcome_color;type:varchar(8);not null"`
	Multipliers   datatypes.JSON `gorm:"column:multipliers;type:jsonb"`
	CasinoID      uint64         `gorm:"column:casino_id;type:bigint;not null;index"`
	CreatedAt     time.Time      `gorm:"column:created_at;type:timestamp;index"`
}

// ErrorLog records a failed run. Writes are suppressed when the same message
// was already recorded within the last 24 hours.
type ErrorLog struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	ErrorMessage string    `gorm:"column:error_message;type:text;not null"`
	ErrorStack   string    `gorm:"column:error_stack;type:text"`
	Context      string    `gorm:"column:context;type:varchar(128)"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamp"`
}

func (Casino) TableName() string        { return "casino" }
func (RouletteEvent) TableName() string { return "roulette_events" }
func (ErrorLog) TableName() string      { return "error_logs" }
