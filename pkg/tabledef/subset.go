package tabledef

import "strings"

// Subset keeps the columns whose key is listed, in definition order.
// With no keys the definition is returned unchanged.
func (d Definition) Subset(keys ...string) Definition {
	return d.Select(Selection{Keys: keys})
}

// Select keeps the columns matching any selected key or tag. An empty
// selection returns a copy of the definition.
func (d Definition) Select(sel Selection) Definition {
	out := d.Clone()
	keys := normaliseTokens(sel.Keys, false)
	tags := normaliseTokens(sel.Tags, true)
	if len(keys) == 0 && len(tags) == 0 {
		return out
	}

	filtered := make([]Column, 0, len(out.Columns))
	for _, col := range out.Columns {
		if matches(col, keys, tags) {
			filtered = append(filtered, col)
		}
	}
	out.Columns = filtered
	return out
}

func matches(col Column, keys, tags map[string]struct{}) bool {
	if _, ok := keys[col.Key]; ok {
		return true
	}
	for _, tag := range col.Tags {
		if _, ok := tags[strings.ToLower(strings.TrimSpace(tag))]; ok {
			return true
		}
	}
	return false
}

func normaliseTokens(values []string, fold bool) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if fold {
			value = strings.ToLower(value)
		}
		if value != "" {
			out[value] = struct{}{}
		}
	}
	return out
}
