package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// ColumnMap holds the spreadsheet-derived columns of a MOC. The schema is not
// fixed; whatever columns the last imported sheet carried are stored as-is and
// passed through for display/export. Persisted as a JSON blob.
type ColumnMap map[string]string

func (m ColumnMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *ColumnMap) Scan(value interface{}) error {
	if value == nil {
		*m = ColumnMap{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into ColumnMap", value)
	}
	if len(raw) == 0 {
		*m = ColumnMap{}
		return nil
	}
	if err := json.Unmarshal(raw, m); err != nil {
		return errors.New("malformed column map: " + err.Error())
	}
	return nil
}

// Get returns the first non-blank value among the given column names.
func (m ColumnMap) Get(names ...string) string {
	for _, name := range names {
		if v, ok := m[name]; ok && v != "" {
			return v
		}
	}
	return ""
}
