package presenters

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	priorityExplicitFormat = 40
	priorityType           = 30
	priorityEnum           = 20
	priorityFallback       = 0
)

// DateTimeLayout and DateLayout are the display layouts for date-time and
// date values.
const (
	DateTimeLayout = "2006-01-02 15:04"
	DateLayout     = "2006-01-02"
)

func (r *Registry) registerBuiltins() {
	r.Register(PresenterDateTime, priorityExplicitFormat, func(field Field) bool {
		switch strings.ToLower(field.Format) {
		case "date-time", "datetime", "date":
			return true
		}
		return false
	}, Presenter{Classes: []string{"is-datetime"}, Format: formatDateTime})

	r.Register(PresenterBoolean, priorityType, func(field Field) bool {
		return strings.EqualFold(field.Type, "boolean")
	}, Presenter{Classes: []string{"is-boolean"}, Format: formatBoolean})

	r.Register(PresenterNumber, priorityType, func(field Field) bool {
		switch strings.ToLower(field.Type) {
		case "integer", "number":
			return true
		}
		return false
	}, Presenter{Classes: []string{"is-numeric"}, Format: numberFormatter(r.lang)})

	lang := r.lang
	r.Register(PresenterEnum, priorityEnum, func(field Field) bool {
		return len(field.Enum) > 0
	}, Presenter{Classes: []string{"is-enum"}, Format: func(value any) (any, error) {
		s, ok := value.(string)
		if !ok || s == "" {
			return value, nil
		}
		return cases.Title(lang).String(strings.NewReplacer("_", " ", "-", " ").Replace(s)), nil
	}})

	r.Register(PresenterText, priorityFallback, func(Field) bool { return true }, Presenter{})
}

func formatBoolean(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		if v {
			return "Yes", nil
		}
		return "No", nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return value, nil
		}
		return formatBoolean(b)
	default:
		return value, nil
	}
}

// Printers and casers are not safe for concurrent use; formatters build
// them per call.
func numberFormatter(lang language.Tag) func(any) (any, error) {
	return func(value any) (any, error) {
		printer := message.NewPrinter(lang)
		switch v := value.(type) {
		case nil:
			return nil, nil
		case int, int32, int64, uint, uint32, uint64, float32, float64:
			return printer.Sprint(number.Decimal(v)), nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return value, nil
			}
			return printer.Sprint(number.Decimal(f)), nil
		default:
			return value, nil
		}
	}
}

var dateTimeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", DateLayout}

func formatDateTime(value any) (any, error) {
	switch v := value.(type) {
	case time.Time:
		return v.Format(DateTimeLayout), nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return value, nil
		}
		for _, layout := range dateTimeLayouts {
			parsed, err := time.Parse(layout, trimmed)
			if err != nil {
				continue
			}
			if layout == DateLayout {
				return parsed.Format(DateLayout), nil
			}
			return parsed.Format(DateTimeLayout), nil
		}
		return nil, fmt.Errorf("presenters: %q is not a recognised date", v)
	default:
		return value, nil
	}
}
