package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Upstream payload shape: the history endpoint returns a JSON array of
// GameEvent. Parity and color are closed enums; anything else is rejected at
// the validation boundary rather than coerced.

const (
	ParityEven = "Even"
	ParityOdd  = "Odd"

	ColorRed   = "Red"
	ColorBlack = "Black"
	ColorGreen = "Green"
)

type GameEvent struct {
	ID   string    `json:"id" validate:"required"`
	Data EventData `json:"data" validate:"required"`
}

type EventData struct {
	ID        string     `json:"id" validate:"required"`
	StartedAt ISOTime    `json:"startedAt"`
	SettledAt ISOTime    `json:"settledAt"`
	Status    string     `json:"status" validate:"required"`
	GameType  string     `json:"gameType"`
	Table     GameTable  `json:"table"`
	Result    GameResult `json:"result"`
}

type GameTable struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

type GameResult struct {
	Outcome          Outcome           `json:"outcome"`
	BonusMultipliers []BonusMultiplier `json:"bonusMultipliers" validate:"omitempty,dive"`
}

type Outcome struct {
	Number int    `json:"number" validate:"gte=0,lte=36"`
	Type   string `json:"type" validate:"required,oneof=Even Odd"`
	Color  string `json:"color" validate:"required,oneof=Red Black Green"`
}

type BonusMultiplier struct {
	Number            int `json:"number" validate:"gte=0,lte=36"`
	RoundedMultiplier int `json:"roundedMultiplier" validate:"gte=0"`
}

// ISOTime coerces the upstream ISO-8601 timestamp strings. The endpoint has
// been seen emitting both RFC3339 and a space-separated variant.
type ISOTime struct {
	time.Time
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

func (t *ISOTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if s == "" {
		return nil
	}
	for _, layout := range isoLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

func (t ISOTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}
