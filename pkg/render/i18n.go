package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-tablegen/pkg/tabledef"
)

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler returns the text used when key cannot be
// translated. For definition labels args holds {"default": fallback}.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// ErrMissingTranslator is passed to MissingTranslationHandler when a key is
// present but no Translator is configured.
var ErrMissingTranslator = errors.New("render: translator is not configured")

// LocalizeDefinition replaces the caption and column headers of def with
// the translations of CaptionKey and HeaderKey. Missing translations go
// through opts.OnMissing, which defaults to the untranslated label, or the
// key when there is no label.
func LocalizeDefinition(def *tabledef.Definition, opts RenderOptions) {
	if def == nil {
		return
	}
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}

	if key := strings.TrimSpace(def.CaptionKey); key != "" {
		def.Caption = translate(opts.Locale, key, def.Caption, opts.Translator, onMissing)
	}
	for i := range def.Columns {
		col := &def.Columns[i]
		key := strings.TrimSpace(col.HeaderKey)
		if key == "" {
			continue
		}
		fallback := col.Header
		if fallback == "" {
			fallback = tabledef.HeaderFromKey(col.Key)
		}
		col.Header = translate(opts.Locale, key, fallback, opts.Translator, onMissing)
	}
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	args := []any{map[string]any{"default": fallback}}
	if t == nil {
		return onMissing(locale, key, args, ErrMissingTranslator)
	}
	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, args, err)
}

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	for _, arg := range args {
		hints, ok := arg.(map[string]any)
		if !ok {
			continue
		}
		if fallback, ok := hints["default"].(string); ok && strings.TrimSpace(fallback) != "" {
			return fallback
		}
	}
	return key
}
