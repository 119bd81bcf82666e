package translate

import (
	"encoding/json"
	"strconv"
)

// asUserID coerces a raw diffable value into an optional legacy user id.
// JSON numbers arrive as float64; ids recorded as strings are tolerated.
func asUserID(value any) *int64 {
	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		id := int64(v)
		return &id
	case int:
		id := int64(v)
		return &id
	case int64:
		return &v
	case json.Number:
		if id, err := v.Int64(); err == nil {
			return &id
		}
		return nil
	case string:
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			return &id
		}
		return nil
	default:
		return nil
	}
}
