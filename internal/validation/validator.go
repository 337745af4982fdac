package validation

import (
	"encoding/json"
	"errors"
	"fmt"

	"RouletteSync/internal/apperr"
	"RouletteSync/internal/model"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ParseEvents decodes and validates an upstream batch. Validation is
// fail-fast: the first shape violation rejects the whole batch, so malformed
// records can never reach the casino or fact tables.
func ParseEvents(raw []byte) ([]model.GameEvent, error) {
	var events []model.GameEvent
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, &apperr.ValidationError{Field: "(payload)", Msg: err.Error()}
	}

	for i := range events {
		if err := validate.Struct(&events[i]); err != nil {
			return nil, validationError(i, err)
		}
		data := &events[i].Data
		if data.StartedAt.IsZero() {
			return nil, &apperr.ValidationError{
				Field: fmt.Sprintf("events[%d].data.startedAt", i),
				Msg:   "missing or unparseable timestamp",
			}
		}
		if data.SettledAt.IsZero() {
			return nil, &apperr.ValidationError{
				Field: fmt.Sprintf("events[%d].data.settledAt", i),
				Msg:   "missing or unparseable timestamp",
			}
		}
	}
	return events, nil
}

func validationError(index int, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return &apperr.ValidationError{
			Field: fmt.Sprintf("events[%d].%s", index, first.Namespace()),
			Msg:   fmt.Sprintf("failed %q constraint", first.Tag()),
		}
	}
	return &apperr.ValidationError{
		Field: fmt.Sprintf("events[%d]", index),
		Msg:   err.Error(),
	}
}
