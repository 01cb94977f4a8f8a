package data

import (
	"encoding/json"
	"fmt"
	"strconv"
)

func copyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = copyValue(value)
	}
	return out
}

func copyValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return copyMap(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = copyValue(item)
		}
		return out
	default:
		return value
	}
}

// Stringify formats scalar values as text.
func Stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// FromRecord converts a record into a container. Maps and containers are
// used directly; other values are decoded through their JSON representation
// so struct tags decide the keys.
func FromRecord(record any, options ...Option) (*Container, error) {
	switch v := record.(type) {
	case nil:
		return New(options...), nil
	case *Container:
		out := v.Clone()
		for _, opt := range options {
			if opt != nil {
				opt(out)
			}
		}
		return out, nil
	case map[string]any:
		return New(append([]Option{WithData(v)}, options...)...), nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("data: encode record: %w", err)
		}
		decoded := map[string]any{}
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return nil, fmt.Errorf("data: record must encode to an object: %w", err)
		}
		return New(append([]Option{WithData(decoded)}, options...)...), nil
	}
}
