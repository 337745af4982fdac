package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"RouletteSync/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a per-test in-memory sqlite database; one open conn
// serializes the fan-out goroutines.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.Casino{},
		&model.RouletteEvent{},
		&model.ErrorLog{},
	))
	return db
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// stubSource replaces the upstream client in tests.
type stubSource struct {
	payload []byte
	err     error
}

func (s *stubSource) FetchHistory(ctx context.Context) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.payload, nil
}

type testEvent struct {
	id        string
	status    string
	tableID   string
	tableName string
	settledAt time.Time
	number    int
	parity    string
	color     string
}

func buildPayload(events ...testEvent) []byte {
	parts := make([]string, 0, len(events))
	for _, ev := range events {
		parts = append(parts, fmt.Sprintf(`{
			"id": %q,
			"data": {
				"id": %q,
				"startedAt": %q,
				"settledAt": %q,
				"status": %q,
				"gameType": "ROULETTE",
				"table": {"id": %q, "name": %q},
				"result": {"outcome": {"number": %d, "type": %q, "color": %q}}
			}
		}`,
			ev.id, ev.id,
			ev.settledAt.Add(-90*time.Second).Format(time.RFC3339),
			ev.settledAt.Format(time.RFC3339),
			ev.status, ev.tableID, ev.tableName,
			ev.number, ev.parity, ev.color,
		))
	}
	return []byte("[" + strings.Join(parts, ",") + "]")
}

func countRows(t *testing.T, db *gorm.DB, m interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(m).Count(&count).Error)
	return count
}
