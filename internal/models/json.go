package models

import (
	"database/sql/driver"
	"encoding/json"
)

// JSONMap is a map stored as a JSONB column
type JSONMap map[string]interface{}

// Value implements the driver.Valuer interface for JSONB
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(JSONMap{})
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface for JSONB
func (m *JSONMap) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return nil
	}
}

// JSONList is an ordered list of objects stored as a JSONB column.
// Element order is significant (rank order for audience locations).
type JSONList []map[string]interface{}

// Value implements the driver.Valuer interface for JSONB
func (l JSONList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(JSONList{})
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface for JSONB
func (l *JSONList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return nil
	}
}
