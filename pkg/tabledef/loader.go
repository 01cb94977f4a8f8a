package tabledef

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-tablegen/pkg/errs"
)

// Store holds definitions keyed by table name.
type Store struct {
	tables map[string]Definition
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{tables: make(map[string]Definition)}
}

// LoadFS walks fsys and parses every JSON/YAML definition file. A nil fsys
// yields an empty store.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := NewStore()
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		raw, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("tabledef: read %s: %w", path, err)
		}
		defs, err := Parse(raw, path)
		if err != nil {
			return err
		}
		for _, def := range defs {
			if err := store.Add(def); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Parse decodes a definition document. JSON is tried first, then YAML.
// Definitions come back sorted by name.
func Parse(raw []byte, source string) ([]Definition, error) {
	doc, err := parseDocument(raw, source)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(doc.Tables))
	for name := range doc.Tables {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Definition, 0, len(names))
	for _, name := range names {
		def, err := normaliseDefinition(doc.Tables[name], name, source)
		if err != nil {
			return nil, err
		}
		out = append(out, def)
	}
	return out, nil
}

// Add registers def. Names must be unique across the store.
func (s *Store) Add(def Definition) error {
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return errs.New(errs.CodeInvalidArgument, "tabledef: definition name is required")
	}
	if existing, ok := s.tables[name]; ok {
		return errs.Newf(errs.CodeInvalidArgument, "tabledef: duplicate table %q (files %s, %s)", name, existing.Source, def.Source)
	}
	def.Name = name
	s.tables[name] = def
	return nil
}

// Definition returns a copy of the named definition.
func (s *Store) Definition(name string) (Definition, bool) {
	if s == nil {
		return Definition{}, false
	}
	def, ok := s.tables[strings.TrimSpace(name)]
	if !ok {
		return Definition{}, false
	}
	return def.Clone(), true
}

// Get is Definition returning a not-found error on miss.
func (s *Store) Get(name string) (Definition, error) {
	def, ok := s.Definition(name)
	if !ok {
		return Definition{}, errs.Newf(errs.CodeNotFound, "tabledef: table %q not defined", name).WithDetail("table", name)
	}
	return def, nil
}

// Names lists the table names, sorted.
func (s *Store) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.tables))
	for name := range s.tables {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Empty reports whether the store holds any definitions.
func (s *Store) Empty() bool {
	return s == nil || len(s.tables) == 0
}

type documentFile struct {
	Tables map[string]Definition `json:"tables" yaml:"tables"`
}

func parseDocument(raw []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(raw))) == 0 {
		return documentFile{}, errs.Newf(errs.CodeInvalidArgument, "tabledef: file %s is empty", source)
	}

	if err := json.Unmarshal(raw, &doc); err == nil {
		return doc, nil
	}
	doc = documentFile{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return documentFile{}, errs.Wrapf(err, errs.CodeInvalidArgument, "tabledef: parse %s", source)
	}
	return doc, nil
}

func normaliseDefinition(def Definition, name, source string) (Definition, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Definition{}, errs.Newf(errs.CodeInvalidArgument, "tabledef: file %s defines an empty table name", source)
	}
	def.Name = trimmed
	def.Source = source

	seen := make(map[string]struct{}, len(def.Columns))
	for i, col := range def.Columns {
		col.Key = strings.TrimSpace(col.Key)
		if col.Key == "" && strings.TrimSpace(col.Header) == "" {
			return Definition{}, errs.Newf(errs.CodeInvalidArgument,
				"tabledef: table %q (file %s) column %d needs a key or a header", trimmed, source, i)
		}
		if col.Key != "" {
			if _, dup := seen[col.Key]; dup {
				return Definition{}, errs.Newf(errs.CodeInvalidArgument,
					"tabledef: table %q (file %s) defines duplicate column %q", trimmed, source, col.Key)
			}
			seen[col.Key] = struct{}{}
		}
		def.Columns[i] = col
	}
	return def, nil
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
