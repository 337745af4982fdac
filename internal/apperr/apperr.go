package apperr

import "fmt"

// ConfigError means a required piece of configuration is missing or invalid.
// The process refuses to start on it.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return "config: " + e.Msg
}

// ValidationError rejects a whole upstream batch whose shape does not match
// the expected schema. Field identifies the offending field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Msg)
}

// FetchError is a non-success response from the upstream history endpoint.
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch: %s returned status %d", e.URL, e.StatusCode)
}

// IntegrityError means a to-ingest event could not be matched to a resolved
// dimension. It indicates a logic defect, not bad input.
type IntegrityError struct {
	Msg string
}

func (e *IntegrityError) Error() string {
	return "integrity: " + e.Msg
}

// StorageError wraps any failure from the persisted store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
