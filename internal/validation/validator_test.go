package validation

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"RouletteSync/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventJSON(id, status, color string) string {
	return fmt.Sprintf(`{
		"id": %q,
		"data": {
			"id": %q,
			"startedAt": "2026-08-01T10:00:00Z",
			"settledAt": "2026-08-01T10:01:30Z",
			"status": %q,
			"gameType": "ROULETTE",
			"table": {"id": "204", "name": "Mega Roulette"},
			"result": {
				"outcome": {"number": 35, "type": "Odd", "color": %q},
				"bonusMultipliers": [{"number": 5, "roundedMultiplier": 50}]
			}
		}
	}`, id, id, status, color)
}

func TestParseEventsValid(t *testing.T) {
	raw := "[" + eventJSON("evt-1", "Resolved", "Black") + "]"

	events, err := ParseEvents([]byte(raw))
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "evt-1", ev.ID)
	assert.Equal(t, "Resolved", ev.Data.Status)
	assert.Equal(t, "204", ev.Data.Table.ID)
	assert.Equal(t, "Mega Roulette", ev.Data.Table.Name)
	assert.Equal(t, 35, ev.Data.Result.Outcome.Number)
	assert.Equal(t, "Odd", ev.Data.Result.Outcome.Type)
	assert.Equal(t, "Black", ev.Data.Result.Outcome.Color)
	assert.Equal(t, time.Date(2026, 8, 1, 10, 1, 30, 0, time.UTC), ev.Data.SettledAt.Time)
	require.Len(t, ev.Data.Result.BonusMultipliers, 1)
	assert.Equal(t, 50, ev.Data.Result.BonusMultipliers[0].RoundedMultiplier)
}

func TestParseEventsAcceptsSpaceSeparatedTimestamp(t *testing.T) {
	raw := `[{
		"id": "evt-2",
		"data": {
			"id": "evt-2",
			"startedAt": "2026-08-01 10:00:00",
			"settledAt": "2026-08-01 10:01:30",
			"status": "Resolved",
			"table": {"id": "204", "name": "Mega Roulette"},
			"result": {"outcome": {"number": 0, "type": "Even", "color": "Green"}}
		}
	}]`

	events, err := ParseEvents([]byte(raw))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 2026, events[0].Data.StartedAt.Year())
}

func TestParseEventsRejectsNonArray(t *testing.T) {
	_, err := ParseEvents([]byte(`{"events": []}`))

	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "(payload)", verr.Field)
}

func TestParseEventsRejectsUnknownColor(t *testing.T) {
	raw := "[" + eventJSON("evt-1", "Resolved", "Blue") + "]"

	_, err := ParseEvents([]byte(raw))

	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Field, "Color")
}

func TestParseEventsRejectsLowercaseParity(t *testing.T) {
	raw := `[{
		"id": "evt-1",
		"data": {
			"id": "evt-1",
			"startedAt": "2026-08-01T10:00:00Z",
			"settledAt": "2026-08-01T10:01:30Z",
			"status": "Resolved",
			"table": {"id": "204", "name": "Mega Roulette"},
			"result": {"outcome": {"number": 35, "type": "odd", "color": "Black"}}
		}
	}]`

	_, err := ParseEvents([]byte(raw))

	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Field, "Type")
}

func TestParseEventsRejectsOutOfRangeOutcome(t *testing.T) {
	raw := `[{
		"id": "evt-1",
		"data": {
			"id": "evt-1",
			"startedAt": "2026-08-01T10:00:00Z",
			"settledAt": "2026-08-01T10:01:30Z",
			"status": "Resolved",
			"table": {"id": "204", "name": "Mega Roulette"},
			"result": {"outcome": {"number": 37, "type": "Odd", "color": "Black"}}
		}
	}]`

	_, err := ParseEvents([]byte(raw))

	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Field, "Number")
}

func TestParseEventsRejectsBadTimestamp(t *testing.T) {
	raw := `[{
		"id": "evt-1",
		"data": {
			"id": "evt-1",
			"startedAt": "yesterday",
			"settledAt": "2026-08-01T10:01:30Z",
			"status": "Resolved",
			"table": {"id": "204", "name": "Mega Roulette"},
			"result": {"outcome": {"number": 35, "type": "Odd", "color": "Black"}}
		}
	}]`

	_, err := ParseEvents([]byte(raw))

	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
}

func TestParseEventsRejectsMissingSettledAt(t *testing.T) {
	raw := `[{
		"id": "evt-1",
		"data": {
			"id": "evt-1",
			"startedAt": "2026-08-01T10:00:00Z",
			"status": "Resolved",
			"table": {"id": "204", "name": "Mega Roulette"},
			"result": {"outcome": {"number": 35, "type": "Odd", "color": "Black"}}
		}
	}]`

	_, err := ParseEvents([]byte(raw))

	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Field, "settledAt")
}

func TestParseEventsRejectsMissingTableID(t *testing.T) {
	raw := `[{
		"id": "evt-1",
		"data": {
			"id": "evt-1",
			"startedAt": "2026-08-01T10:00:00Z",
			"settledAt": "2026-08-01T10:01:30Z",
			"status": "Resolved",
			"table": {"name": "Mega Roulette"},
			"result": {"outcome": {"number": 35, "type": "Odd", "color": "Black"}}
		}
	}]`

	_, err := ParseEvents([]byte(raw))

	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Field, "Table.ID")
}
