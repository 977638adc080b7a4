package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"maps"
)

// ErrScanValueNotBytes indicates the database value is not JSON text.
var ErrScanValueNotBytes = errors.New("valueobject: jsonmap scan value is not []byte")

// JSONMap is a free-form JSON object stored in a jsonb column.
// @swaggertype object
type JSONMap map[string]any

// StringParams copies string parameters into a JSONMap.
func StringParams(params map[string]string) JSONMap {
	out := make(JSONMap, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}

// Value implements driver.Valuer. A nil map is stored as an empty object.
func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner.
func (j *JSONMap) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*j = JSONMap{}
		return nil
	case map[string]any:
		*j = JSONMap(v)
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return ErrScanValueNotBytes
	}

	out := JSONMap{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*j = out
	return nil
}

// Clone returns a shallow copy.
func (j JSONMap) Clone() JSONMap {
	if j == nil {
		return JSONMap{}
	}
	return maps.Clone(j)
}

// GetString returns the string stored under key, or "".
func (j JSONMap) GetString(key string) string {
	s, _ := j[key].(string)
	return s
}
