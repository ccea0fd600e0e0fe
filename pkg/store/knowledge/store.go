// Package knowledge holds the static lookup tables the analyzers read their
// descriptive text and pattern rules from.
//
// A Store is loaded once at process start and is read-only afterwards, so
// concurrent readers need no locking. Load must not race with readers.
package knowledge

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/yjk624/shinryeong/pkg/models/domain"
)

const (
	TableIdentity      = "identity"
	TableElements      = "elements"
	TableStrength      = "strength"
	TableLifeStage     = "life_stage"
	TableLuck          = "luck"
	TableCareer        = "career"
	TableHealth        = "health"
	TableShinsal       = "shinsal"
	TableCompatibility = "compatibility"
)

// Tables lists every table the analyzers know about.
var Tables = []string{
	TableIdentity,
	TableElements,
	TableStrength,
	TableLifeStage,
	TableLuck,
	TableCareer,
	TableHealth,
	TableShinsal,
	TableCompatibility,
}

// Entry is one keyed row of a table.
type Entry struct {
	Key   string `yaml:"-" json:"key"`
	Title string `yaml:"title" json:"title"`
	Text  string `yaml:"text" json:"text"`
	Rule  *Rule  `yaml:"rule,omitempty" json:"rule,omitempty"`
}

// Table maps a symbolic key to its entry.
type Table map[string]Entry

// Keys returns the table keys sorted, for deterministic iteration.
func (t Table) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type Store interface {
	Load(ctx context.Context) error
	// Lookup fails with domain.ErrKnowledgeBaseMissing when the table did not
	// load, and with ErrKeyNotFound when only the key is absent.
	Lookup(table, key string) (Entry, error)
	Table(name string) (Table, error)
	// Available lists the loaded table names, sorted.
	Available() []string
}

var ErrKeyNotFound = errors.New("knowledge entry not found")

// Source reads the raw tables of one backend. Tables that fail to parse are
// logged and left out of the result rather than failing the whole read.
type Source interface {
	Name() string
	Read(ctx context.Context) (map[string]Table, error)
}

type store struct {
	source Source
	tables map[string]Table
}

func NewStore(source Source) Store {
	return &store{source: source, tables: map[string]Table{}}
}

// NewMemoryStore returns an already loaded store over the given tables.
func NewMemoryStore(tables map[string]Table) Store {
	s := &store{tables: map[string]Table{}}
	for name, t := range tables {
		s.tables[name] = withKeys(t)
	}
	return s
}

func (s *store) Load(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	if s.source == nil {
		return nil
	}

	raw, err := s.source.Read(ctx)
	if err != nil {
		return fmt.Errorf("failed to read knowledge base from %s: %w", s.source.Name(), err)
	}

	tables := make(map[string]Table, len(raw))
	for name, t := range raw {
		if err := validateTable(name, t); err != nil {
			logger.Warn().Err(err).Str("table", name).Msg("dropping malformed knowledge table")
			continue
		}
		tables[name] = withKeys(t)
	}

	for _, name := range Tables {
		if _, ok := tables[name]; !ok {
			logger.Warn().Str("table", name).Str("source", s.source.Name()).Msg("knowledge table not available")
		}
	}

	s.tables = tables
	logger.Info().
		Str("source", s.source.Name()).
		Int("tables", len(tables)).
		Msg("knowledge base loaded")
	return nil
}

func (s *store) Table(name string) (Table, error) {
	t, ok := s.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrKnowledgeBaseMissing, name)
	}
	return t, nil
}

func (s *store) Lookup(table, key string) (Entry, error) {
	t, err := s.Table(table)
	if err != nil {
		return Entry{}, err
	}
	e, ok := t[key]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s/%s", ErrKeyNotFound, table, key)
	}
	return e, nil
}

func (s *store) Available() []string {
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func withKeys(t Table) Table {
	out := make(Table, len(t))
	for k, e := range t {
		e.Key = k
		out[k] = e
	}
	return out
}

func validateTable(name string, t Table) error {
	if len(t) == 0 {
		return fmt.Errorf("table %s is empty", name)
	}
	for key, e := range t {
		if e.Title == "" && e.Text == "" {
			return fmt.Errorf("entry %s/%s has neither title nor text", name, key)
		}
		if name == TableShinsal {
			if e.Rule == nil {
				return fmt.Errorf("pattern %s has no rule", key)
			}
			if err := e.Rule.Validate(); err != nil {
				return fmt.Errorf("pattern %s: %w", key, err)
			}
		}
	}
	return nil
}
