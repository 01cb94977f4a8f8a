package attrs

import (
	"sort"

	"github.com/goliatone/go-tablegen/pkg/data"
)

// Container bundles rendered attributes, unrendered meta values and an
// arbitrary data payload. Table nodes embed it.
type Container struct {
	attributes *Map
	meta       *Map
	data       *data.Container
}

// NewContainer constructs a container with an empty data payload.
func NewContainer(options ...data.Option) *Container {
	return &Container{
		attributes: &Map{},
		meta:       &Map{},
		data:       data.New(options...),
	}
}

// Attributes exposes the rendered attribute map.
func (c *Container) Attributes() *Map {
	return c.attributes
}

// MetaMap exposes the meta map. Meta values are never rendered.
func (c *Container) MetaMap() *Map {
	return c.meta
}

// Data exposes the payload container.
func (c *Container) Data() *data.Container {
	return c.data
}

// AddAttribute appends (or prepends) tokens to an attribute.
func (c *Container) AddAttribute(name string, prepend bool, values ...string) error {
	return c.attributes.Add(name, prepend, values...)
}

// RemoveAttribute removes tokens, deleting the attribute once empty.
func (c *Container) RemoveAttribute(name string, values ...string) {
	c.attributes.Remove(name, Purge, values...)
}

// HasAttribute reports presence of the attribute, or of value within it when
// value is non-empty.
func (c *Container) HasAttribute(name, value string) bool {
	return c.attributes.HasToken(name, value, true)
}

// SetAttribute replaces an attribute value.
func (c *Container) SetAttribute(name, value string) error {
	return c.attributes.Set(name, value)
}

// SetAttributes replaces several attribute values, in name order.
func (c *Container) SetAttributes(values map[string]string) error {
	for _, name := range sortedNames(values) {
		if err := c.attributes.Set(name, values[name]); err != nil {
			return err
		}
	}
	return nil
}

// Attribute returns an attribute value or def.
func (c *Container) Attribute(name, def string) string {
	return c.attributes.Value(name, def)
}

// AddClass is AddAttribute for the class attribute.
func (c *Container) AddClass(classes ...string) error {
	return c.attributes.Add("class", false, classes...)
}

// RemoveClass is RemoveAttribute for the class attribute.
func (c *Container) RemoveClass(classes ...string) {
	c.attributes.Remove("class", Purge, classes...)
}

// HasClass reports whether class is present, case-sensitively.
func (c *Container) HasClass(class string) bool {
	return c.attributes.HasToken("class", class, true)
}

func (c *Container) AddMeta(name string, prepend bool, values ...string) error {
	return c.meta.Add(name, prepend, values...)
}

func (c *Container) RemoveMeta(name string, values ...string) {
	c.meta.Remove(name, Purge, values...)
}

func (c *Container) HasMeta(name, value string) bool {
	return c.meta.HasToken(name, value, true)
}

func (c *Container) SetMeta(name, value string) error {
	return c.meta.Set(name, value)
}

func (c *Container) Meta(name, def string) string {
	return c.meta.Value(name, def)
}

func sortedNames(values map[string]string) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
