package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Base contains common fields for persisted entities
type Base struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// JSONColumn stores any JSON-marshalable value in a json/jsonb column.
type JSONColumn[T any] struct {
	V T
}

func (j JSONColumn[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(j.V)
	if err != nil {
		return nil, fmt.Errorf("marshal json column: %w", err)
	}
	return b, nil
}

func (j *JSONColumn[T]) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		var zero T
		j.V = zero
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported json column type %T", src)
	}
	return json.Unmarshal(raw, &j.V)
}

func (j JSONColumn[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.V)
}

func (j *JSONColumn[T]) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &j.V)
}

// StatusMessage is the small {available, message} shape used by the status probes.
type StatusMessage struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
	Sample    string `json:"sample,omitempty"`
	Error     bool   `json:"error,omitempty"`
}
