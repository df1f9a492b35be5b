package schema

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/keeko-protocol/keeko-go/pkg/wire"
)

// Catalog errors.
var (
	// ErrDuplicateField indicates two fields share a name or key.
	ErrDuplicateField = errors.New("schema: duplicate field")

	// ErrUnknownField indicates a name the catalog does not define.
	ErrUnknownField = errors.New("schema: unknown field")

	// ErrMissingField indicates a required field is absent from a message.
	ErrMissingField = errors.New("schema: missing required field")

	// ErrInvalidCatalog indicates a structurally invalid catalog document.
	ErrInvalidCatalog = errors.New("schema: invalid catalog")
)

// document is the YAML or TOML form of a catalog.
type document struct {
	Name        string     `yaml:"name" toml:"name"`
	Description string     `yaml:"description" toml:"description"`
	Fields      []fieldDef `yaml:"fields" toml:"fields"`
}

type fieldDef struct {
	Name        string  `yaml:"name" toml:"name"`
	Kind        string  `yaml:"kind" toml:"kind"`
	Key         *uint32 `yaml:"key" toml:"key"`
	Required    bool    `yaml:"required" toml:"required"`
	Description string  `yaml:"description" toml:"description"`
}

// Field is a named, typed field key.
type Field struct {
	Name        string
	Key         uint32
	Kind        wire.Kind
	Required    bool
	Description string
}

// Catalog is a resolved set of fields, indexed by name and by key.
type Catalog struct {
	Name        string
	Description string

	byName map[string]Field
	byKey  map[uint32]Field
}

// Load reads and parses the catalog at path. Files ending in .toml are
// parsed as TOML, anything else as YAML.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	parse := Parse
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		parse = ParseTOML
	}
	c, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse parses a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return newCatalog(doc)
}

// ParseTOML parses a TOML catalog document with the same fields as the
// YAML form, fields given as [[fields]] tables.
func ParseTOML(data []byte) (*Catalog, error) {
	var doc document
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return newCatalog(doc)
}

func newCatalog(doc document) (*Catalog, error) {
	c := &Catalog{
		Name:        doc.Name,
		Description: doc.Description,
		byName:      make(map[string]Field, len(doc.Fields)),
		byKey:       make(map[uint32]Field, len(doc.Fields)),
	}
	for i, def := range doc.Fields {
		name := strings.TrimSpace(def.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: field %d has no name", ErrInvalidCatalog, i)
		}
		kind, err := wire.ParseKind(def.Kind)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}

		key := wire.KeyOf(name)
		if def.Key != nil {
			key = *def.Key
		}

		if _, ok := c.byName[name]; ok {
			return nil, fmt.Errorf("%w: name %q", ErrDuplicateField, name)
		}
		if prev, ok := c.byKey[key]; ok {
			return nil, fmt.Errorf("%w: %q and %q share key 0x%08x", ErrDuplicateField, prev.Name, name, key)
		}

		f := Field{
			Name:        name,
			Key:         key,
			Kind:        kind,
			Required:    def.Required,
			Description: def.Description,
		}
		c.byName[name] = f
		c.byKey[key] = f
	}
	return c, nil
}

// Lookup returns the field with the given name.
func (c *Catalog) Lookup(name string) (Field, bool) {
	f, ok := c.byName[name]
	return f, ok
}

// ByKey returns the field with the given key.
func (c *Catalog) ByKey(key uint32) (Field, bool) {
	f, ok := c.byKey[key]
	return f, ok
}

// FieldName returns the field name for key. It satisfies inspect.Names.
func (c *Catalog) FieldName(key uint32) (string, bool) {
	f, ok := c.byKey[key]
	return f.Name, ok
}

// Fields returns all fields in ascending key order.
func (c *Catalog) Fields() []Field {
	fields := make([]Field, 0, len(c.byKey))
	for _, f := range c.byKey {
		fields = append(fields, f)
	}
	slices.SortFunc(fields, func(a, b Field) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return fields
}

// Validate checks m against the catalog: every known key must hold the
// catalog's kind and every required field must be present. Keys the
// catalog does not know are allowed. All violations are reported together.
func (c *Catalog) Validate(m *wire.Message) error {
	var errs []error
	for _, key := range m.Keys() {
		f, ok := c.byKey[key]
		if !ok {
			continue
		}
		v, _ := m.Lookup(key)
		if v.Kind() != f.Kind {
			errs = append(errs, fmt.Errorf("%w: field %q holds %s, want %s", wire.ErrKindMismatch, f.Name, v.Kind(), f.Kind))
		}
	}
	for _, f := range c.Fields() {
		if f.Required && !m.Has(f.Key) {
			errs = append(errs, fmt.Errorf("%w: %q", ErrMissingField, f.Name))
		}
	}
	return errors.Join(errs...)
}

// Set parses text as the kind of the named field and stores it in m.
func (c *Catalog) Set(m *wire.Message, name, text string) error {
	f, ok := c.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	v, err := wire.ParseValue(f.Kind, text)
	if err != nil {
		return fmt.Errorf("field %q: %w", name, err)
	}
	return m.Set(f.Key, v)
}

// Build creates a message from field names and textual values.
func (c *Catalog) Build(values map[string]string) (*wire.Message, error) {
	m := wire.New()
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if err := c.Set(m, name, values[name]); err != nil {
			return nil, err
		}
	}
	return m, nil
}
