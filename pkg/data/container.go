// Package data implements a hierarchical key/value container addressed by
// dot-notated paths. A container may delegate reads (and deletes) to a parent
// container, which is how table cells inherit values from their row, group
// and table.
package data

import (
	"sort"
	"strconv"
	"strings"

	"github.com/knadh/koanf/maps"

	"github.com/goliatone/go-tablegen/pkg/errs"
)

// Separator splits nested keys.
const Separator = "."

// Option configures a Container at construction time.
type Option func(*Container)

// ReadOnly marks the container as read-only once construction finishes.
func ReadOnly() Option {
	return func(c *Container) {
		c.readOnly = true
	}
}

// WithParent attaches and enables a parent container.
func WithParent(parent *Container) Option {
	return func(c *Container) {
		c.parent = parent
		c.parentEnabled = parent != nil
	}
}

// WithData seeds the container with a copy of values.
func WithData(values map[string]any) Option {
	return func(c *Container) {
		for _, key := range sortedKeys(values) {
			c.setTop(key, copyValue(values[key]))
		}
	}
}

// Container stores arbitrary values under dot-notated keys.
type Container struct {
	data          map[string]any
	order         []string
	next          int
	parent        *Container
	parentEnabled bool
	readOnly      bool
}

// New constructs an empty writable container and applies options.
func New(options ...Option) *Container {
	c := &Container{data: make(map[string]any)}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// SetParent replaces the parent reference and enables delegation. Passing nil
// detaches the container.
func (c *Container) SetParent(parent *Container) *Container {
	c.parent = parent
	c.parentEnabled = true
	return c
}

// Parent returns the parent reference regardless of whether delegation is
// enabled.
func (c *Container) Parent() *Container {
	return c.parent
}

// HasParent reports whether a parent is attached and delegation is enabled.
func (c *Container) HasParent() bool {
	return c.parentEnabled && c.parent != nil
}

// EnableParent turns parent delegation on.
func (c *Container) EnableParent() *Container {
	c.parentEnabled = true
	return c
}

// DisableParent turns parent delegation off without dropping the reference.
func (c *Container) DisableParent() *Container {
	c.parentEnabled = false
	return c
}

// SetReadOnly toggles read-only mode.
func (c *Container) SetReadOnly(state bool) *Container {
	c.readOnly = state
	return c
}

// IsReadOnly reports whether mutations are rejected.
func (c *Container) IsReadOnly() bool {
	return c.readOnly
}

// Lookup resolves key locally and then through the parent chain. The boolean
// reports whether the key exists, allowing nil values to be stored.
func (c *Container) Lookup(key string) (any, bool) {
	if value, ok := c.lookupLocal(key); ok {
		return value, true
	}
	if c.HasParent() {
		return c.parent.Lookup(key)
	}
	return nil, false
}

// Get returns the value stored under key or def when missing. A def of type
// func() any is invoked lazily and its result returned. An empty key returns
// the merged Data() view.
func (c *Container) Get(key string, def any) any {
	if key == "" {
		return c.Data()
	}
	if value, ok := c.lookupLocal(key); ok {
		return value
	}
	if c.HasParent() {
		return c.parent.Get(key, def)
	}
	return Result(def)
}

// At returns the value under key or an OutOfBounds error.
func (c *Container) At(key string) (any, error) {
	value, ok := c.Lookup(key)
	if !ok {
		return nil, errs.Newf(errs.CodeOutOfBounds, "access to undefined index %q", key).WithDetail("key", key)
	}
	return value, nil
}

// Index is At for integer keys such as those produced by Append.
func (c *Container) Index(i int) (any, error) {
	return c.At(strconv.Itoa(i))
}

// String returns the value under key formatted as text, or def.
func (c *Container) String(key, def string) string {
	value, ok := c.Lookup(key)
	if !ok || value == nil {
		return def
	}
	return Stringify(value)
}

// Has reports whether key exists locally or in an enabled parent.
func (c *Container) Has(key string) bool {
	if _, ok := c.lookupLocal(key); ok {
		return true
	}
	if c.HasParent() {
		return c.parent.Has(key)
	}
	return false
}

// HasLocal reports whether key exists without consulting the parent.
func (c *Container) HasLocal(key string) bool {
	_, ok := c.lookupLocal(key)
	return ok
}

// Set stores value under the dot-notated key, creating intermediate maps and
// replacing non-map intermediates.
func (c *Container) Set(key string, value any) error {
	if c.readOnly {
		return readOnlyErr("set", key)
	}
	if key == "" {
		return errs.New(errs.CodeInvalidArgument, "data: key is required")
	}
	c.setPath(splitKey(key), value)
	return nil
}

// Append stores value under the next free integer key and returns that key.
func (c *Container) Append(value any) (string, error) {
	if c.readOnly {
		return "", readOnlyErr("append", "")
	}
	key := strconv.Itoa(c.next)
	c.setTop(key, value)
	return key, nil
}

// Delete removes key locally. When the key is not stored locally and a parent
// is enabled, the deletion is delegated to the parent. The boolean reports
// whether a value was removed. Paths through a list index are rejected with
// CodeInvalidArgument.
func (c *Container) Delete(key string) (bool, error) {
	if c.readOnly {
		return false, readOnlyErr("delete", key)
	}
	removed, err := c.deleteLocal(key)
	if err != nil || removed {
		return removed, err
	}
	if c.HasParent() {
		return c.parent.Delete(key)
	}
	return false, nil
}

// DeleteLocal removes key from this container only.
func (c *Container) DeleteLocal(key string) (bool, error) {
	if c.readOnly {
		return false, readOnlyErr("delete", key)
	}
	return c.deleteLocal(key)
}

// SetData replaces the local data with a copy of values.
func (c *Container) SetData(values map[string]any) error {
	if c.readOnly {
		return readOnlyErr("set data", "")
	}
	c.reset()
	for _, key := range sortedKeys(values) {
		c.setTop(key, copyValue(values[key]))
	}
	return nil
}

// Clear drops all local data.
func (c *Container) Clear() error {
	if c.readOnly {
		return readOnlyErr("clear", "")
	}
	c.reset()
	return nil
}

// Data returns a deep copy of the visible data: the parent's data with local
// values merged on top when a parent is enabled, otherwise local data only.
func (c *Container) Data() map[string]any {
	local := copyMap(c.data)
	if !c.HasParent() {
		return local
	}
	merged := c.parent.Data()
	maps.Merge(local, merged)
	return merged
}

// Local returns a deep copy of the data stored on this container only.
func (c *Container) Local() map[string]any {
	return copyMap(c.data)
}

// Flatten returns the visible data keyed by full dot paths.
func (c *Container) Flatten() map[string]any {
	flat, _ := maps.Flatten(c.Data(), nil, Separator)
	return flat
}

// Keys lists visible top-level keys: parent keys first, then local keys in
// insertion order.
func (c *Container) Keys() []string {
	var out []string
	seen := make(map[string]struct{})
	if c.HasParent() {
		for _, key := range c.parent.Keys() {
			seen[key] = struct{}{}
			out = append(out, key)
		}
	}
	for _, key := range c.order {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

// Len counts visible top-level entries.
func (c *Container) Len() int {
	return len(c.Keys())
}

// LocalLen counts top-level entries stored on this container.
func (c *Container) LocalLen() int {
	return len(c.order)
}

// Clone copies local data and flags. The parent reference is shared.
func (c *Container) Clone() *Container {
	out := &Container{
		data:          copyMap(c.data),
		order:         append([]string(nil), c.order...),
		next:          c.next,
		parent:        c.parent,
		parentEnabled: c.parentEnabled,
		readOnly:      c.readOnly,
	}
	return out
}

func (c *Container) reset() {
	c.data = make(map[string]any)
	c.order = nil
	c.next = 0
}

func (c *Container) lookupLocal(key string) (any, bool) {
	if key == "" {
		return nil, false
	}
	if value, ok := c.data[key]; ok {
		return value, true
	}
	parts := splitKey(key)
	if len(parts) == 1 {
		return nil, false
	}
	var current any = c.data
	for _, part := range parts {
		switch node := current.(type) {
		case map[string]any:
			value, ok := node[part]
			if !ok {
				return nil, false
			}
			current = value
		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

func (c *Container) setTop(key string, value any) {
	if _, exists := c.data[key]; !exists {
		c.order = append(c.order, key)
	}
	c.data[key] = value
	if idx, err := strconv.Atoi(key); err == nil && idx >= c.next {
		c.next = idx + 1
	}
}

func (c *Container) setPath(parts []string, value any) {
	if len(parts) == 1 {
		c.setTop(parts[0], value)
		return
	}
	head, ok := c.data[parts[0]].(map[string]any)
	if !ok {
		head = make(map[string]any)
		c.setTop(parts[0], head)
	}
	node := head
	for _, part := range parts[1 : len(parts)-1] {
		child, ok := node[part].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[part] = child
		}
		node = child
	}
	node[parts[len(parts)-1]] = value
}

func (c *Container) deleteLocal(key string) (bool, error) {
	if _, ok := c.lookupLocal(key); !ok {
		return false, nil
	}
	if _, ok := c.data[key]; ok {
		delete(c.data, key)
	} else {
		parts := splitKey(key)
		if c.crossesSlice(parts) {
			return false, errs.Newf(errs.CodeInvalidArgument, "data: cannot delete %q through a list index", key).
				WithDetail("key", key)
		}
		// Nested delete prunes parents left empty.
		maps.Delete(c.data, parts)
	}
	c.syncOrder()
	_, still := c.lookupLocal(key)
	return !still, nil
}

// crossesSlice reports whether resolving parts walks through a list.
func (c *Container) crossesSlice(parts []string) bool {
	var current any = c.data
	for _, part := range parts[:len(parts)-1] {
		switch node := current.(type) {
		case map[string]any:
			current = node[part]
		case []any:
			return true
		default:
			return false
		}
	}
	_, isList := current.([]any)
	return isList
}

func (c *Container) syncOrder() {
	kept := c.order[:0]
	for _, key := range c.order {
		if _, ok := c.data[key]; ok {
			kept = append(kept, key)
		}
	}
	c.order = kept
}

// KeyFromPost converts a form-style name such as "user[address][city]" into
// the dot path "user.address.city".
func KeyFromPost(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	replacer := strings.NewReplacer("][", Separator, "[", Separator, "]", "")
	return strings.Trim(replacer.Replace(name), Separator)
}

// Result resolves lazy values: func() any is invoked, anything else is
// returned as is.
func Result(value any) any {
	switch fn := value.(type) {
	case func() any:
		return fn()
	case func() string:
		return fn()
	default:
		return value
	}
}

func readOnlyErr(op, key string) error {
	err := errs.Newf(errs.CodeReadOnly, "data: cannot %s on a read-only container", op)
	if key != "" {
		err.WithDetail("key", key)
	}
	return err
}

func splitKey(key string) []string {
	return strings.Split(key, Separator)
}

func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
