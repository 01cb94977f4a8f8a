// Package attrs manages HTML attributes whose values are space separated
// token lists, such as class or rel.
//
// Tokens within a value stay unique after every merge. Appending a token that
// is already present leaves the value untouched; prepending moves it to the
// front. Attribute names keep their insertion order so rendered output is
// stable.
package attrs

import (
	"html"
	"io"
	"strings"
	"unicode"

	"github.com/goliatone/go-tablegen/pkg/errs"
)

// EmptyPolicy decides what happens to an attribute whose token list becomes
// empty after a removal.
type EmptyPolicy int

const (
	// Purge deletes the attribute.
	Purge EmptyPolicy = iota
	// KeepEmpty keeps the attribute with an empty value.
	KeepEmpty
)

// Map is an ordered attribute name to value map.
type Map struct {
	names  []string
	values map[string]string
}

// NewMap builds a map from name/value pairs in argument order. Values are
// normalised the same way Add does.
func NewMap(pairs ...string) (*Map, error) {
	m := &Map{}
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := m.Add(pairs[i], false, pairs[i+1]); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// FromMap copies values into a new Map, ordering names alphabetically.
func FromMap(values map[string]string) (*Map, error) {
	m := &Map{}
	for _, name := range sortedNames(values) {
		if err := m.Add(name, false, values[name]); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Add merges whitespace separated tokens into the attribute. With prepend set
// the incoming tokens end up first, in the order given.
func (m *Map) Add(name string, prepend bool, values ...string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	incoming := splitTokens(values...)
	if len(incoming) == 0 {
		return nil
	}

	current, exists := m.lookup(name)
	if !exists {
		m.store(name, strings.Join(unique(incoming), " "))
		return nil
	}

	tokens := splitTokens(current)
	if prepend {
		for i := len(incoming) - 1; i >= 0; i-- {
			tokens = moveToFront(tokens, incoming[i])
		}
	} else {
		for _, token := range incoming {
			if indexOf(tokens, token) < 0 {
				tokens = append(tokens, token)
			}
		}
	}
	m.store(name, strings.Join(tokens, " "))
	return nil
}

// Remove drops tokens from the attribute. With no values the whole attribute
// is subject to policy; blank values remove nothing. A token list that ends
// up empty is also subject to policy. Missing attributes are ignored.
func (m *Map) Remove(name string, policy EmptyPolicy, values ...string) {
	current, exists := m.lookup(name)
	if !exists {
		return
	}
	if len(values) == 0 {
		m.applyEmpty(name, policy)
		return
	}
	removing := splitTokens(values...)
	if len(removing) == 0 {
		return
	}

	tokens := splitTokens(current)
	kept := tokens[:0]
	for _, token := range tokens {
		if indexOf(removing, token) < 0 {
			kept = append(kept, token)
		}
	}
	if len(kept) == 0 {
		m.applyEmpty(name, policy)
		return
	}
	m.store(name, strings.Join(kept, " "))
}

// Has reports whether the attribute exists.
func (m *Map) Has(name string) bool {
	_, ok := m.lookup(name)
	return ok
}

// HasToken reports whether the attribute contains token. An empty token
// checks attribute presence only.
func (m *Map) HasToken(name, token string, caseSensitive bool) bool {
	current, ok := m.lookup(name)
	if !ok {
		return false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return true
	}
	for _, candidate := range splitTokens(current) {
		if caseSensitive && candidate == token {
			return true
		}
		if !caseSensitive && strings.EqualFold(candidate, token) {
			return true
		}
	}
	return false
}

// Set replaces the attribute value verbatim.
func (m *Map) Set(name, value string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	m.store(name, value)
	return nil
}

// Get returns the attribute value and whether it exists.
func (m *Map) Get(name string) (string, bool) {
	return m.lookup(name)
}

// Value returns the attribute value or def when missing.
func (m *Map) Value(name, def string) string {
	if value, ok := m.lookup(name); ok {
		return value
	}
	return def
}

// Tokens returns the attribute value split into tokens.
func (m *Map) Tokens(name string) []string {
	value, _ := m.lookup(name)
	return splitTokens(value)
}

// Delete removes the attribute.
func (m *Map) Delete(name string) {
	if _, ok := m.lookup(name); !ok {
		return
	}
	delete(m.values, name)
	for i, existing := range m.names {
		if existing == name {
			m.names = append(m.names[:i], m.names[i+1:]...)
			break
		}
	}
}

// Keys returns attribute names in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.names...)
}

// Len returns the number of attributes.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

// All returns a copy of the attributes as a plain map.
func (m *Map) All() map[string]string {
	out := make(map[string]string, m.Len())
	if m == nil {
		return out
	}
	for _, name := range m.names {
		out[name] = m.values[name]
	}
	return out
}

// Merge appends every attribute of other into m using Add semantics.
func (m *Map) Merge(other *Map) error {
	if other == nil {
		return nil
	}
	for _, name := range other.names {
		if err := m.Add(name, false, other.values[name]); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns an independent copy.
func (m *Map) Clone() *Map {
	out := &Map{}
	if m == nil {
		return out
	}
	out.names = append([]string(nil), m.names...)
	out.values = make(map[string]string, len(m.values))
	for name, value := range m.values {
		out.values[name] = value
	}
	return out
}

// String renders the attributes as ` name="value"` pairs. Empty values render
// as bare names.
func (m *Map) String() string {
	var b strings.Builder
	_, _ = m.WriteTo(&b)
	return b.String()
}

// WriteTo writes the rendered attributes to w.
func (m *Map) WriteTo(w io.Writer) (int64, error) {
	if m == nil {
		return 0, nil
	}
	var total int64
	for _, name := range m.names {
		chunk := " " + name
		if value := m.values[name]; value != "" {
			chunk += `="` + html.EscapeString(value) + `"`
		}
		n, err := io.WriteString(w, chunk)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (m *Map) lookup(name string) (string, bool) {
	if m == nil || m.values == nil {
		return "", false
	}
	value, ok := m.values[name]
	return value, ok
}

func (m *Map) store(name, value string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, exists := m.values[name]; !exists {
		m.names = append(m.names, name)
	}
	m.values[name] = value
}

func (m *Map) applyEmpty(name string, policy EmptyPolicy) {
	if policy == KeepEmpty {
		m.store(name, "")
		return
	}
	m.Delete(name)
}

// ValidateName rejects names that cannot be rendered as an HTML attribute.
func ValidateName(name string) error {
	if name == "" {
		return errs.New(errs.CodeInvalidArgument, "attrs: attribute name is required")
	}
	for _, r := range name {
		if unicode.IsSpace(r) || unicode.IsControl(r) || strings.ContainsRune("\"'<>/=", r) {
			return errs.Newf(errs.CodeInvalidArgument, "attrs: invalid attribute name %q", name).WithDetail("name", name)
		}
	}
	return nil
}

func splitTokens(values ...string) []string {
	var out []string
	for _, value := range values {
		out = append(out, strings.Fields(value)...)
	}
	return out
}

func unique(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if indexOf(out, token) < 0 {
			out = append(out, token)
		}
	}
	return out
}

func moveToFront(tokens []string, token string) []string {
	if idx := indexOf(tokens, token); idx >= 0 {
		tokens = append(tokens[:idx], tokens[idx+1:]...)
	}
	return append([]string{token}, tokens...)
}

func indexOf(tokens []string, token string) int {
	for i, candidate := range tokens {
		if candidate == token {
			return i
		}
	}
	return -1
}
