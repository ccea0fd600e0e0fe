package knowledge

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const KnowledgeTableSchema = `
	CREATE TABLE IF NOT EXISTS knowledge (
		tbl   TEXT NOT NULL,
		key   TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		text  TEXT NOT NULL DEFAULT '',
		rule  TEXT NULL,
		PRIMARY KEY (tbl, key)
	);
`

const selectKnowledge = `SELECT tbl, key, title, text, rule FROM knowledge ORDER BY tbl, key`

type SQLiteSettings struct {
	DbPath string
}

// OpenSQLite opens (creating if needed) a sqlite knowledge database.
func OpenSQLite(settings SQLiteSettings) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", settings.DbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(KnowledgeTableSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create knowledge schema: %w", err)
	}
	return db, nil
}

type sqlSource struct {
	db *sql.DB
}

// NewSQLSource reads the knowledge table; the rule column holds the pattern
// predicate as YAML or JSON.
func NewSQLSource(db *sql.DB) Source {
	return &sqlSource{db: db}
}

func (s *sqlSource) Name() string {
	return "sql"
}

func (s *sqlSource) Read(ctx context.Context) (map[string]Table, error) {
	logger := zerolog.Ctx(ctx)

	rows, err := s.db.QueryContext(ctx, selectKnowledge)
	if err != nil {
		return nil, fmt.Errorf("knowledge query failed: %w", err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close knowledge query rows")
		}
	}(rows)

	tables := make(map[string]Table)
	broken := make(map[string]bool)
	for rows.Next() {
		var (
			tbl, key, title, text string
			rule                  sql.NullString
		)
		if err := rows.Scan(&tbl, &key, &title, &text, &rule); err != nil {
			return nil, fmt.Errorf("failed to scan knowledge row: %w", err)
		}
		if broken[tbl] {
			continue
		}

		entry := Entry{Title: title, Text: text}
		if rule.Valid && rule.String != "" {
			var r Rule
			if err := yaml.Unmarshal([]byte(rule.String), &r); err != nil {
				logger.Warn().Err(err).Str("table", tbl).Str("key", key).Msg("malformed rule, dropping table")
				broken[tbl] = true
				delete(tables, tbl)
				continue
			}
			entry.Rule = &r
		}

		if tables[tbl] == nil {
			tables[tbl] = make(Table)
		}
		tables[tbl][key] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("knowledge rows failed: %w", err)
	}

	logger.Debug().Int("tables", len(tables)).Msg("read knowledge rows")
	return tables, nil
}

// Import writes tables into the knowledge table, replacing rows with the
// same table and key.
func Import(ctx context.Context, db *sql.DB, tables map[string]Table) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO knowledge (tbl, key, title, text, rule) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare import: %w", err)
	}
	defer stmt.Close()

	for name, t := range tables {
		for _, key := range t.Keys() {
			e := t[key]
			var rule sql.NullString
			if e.Rule != nil {
				data, err := yaml.Marshal(e.Rule)
				if err != nil {
					return fmt.Errorf("failed to encode rule %s/%s: %w", name, key, err)
				}
				rule = sql.NullString{String: string(data), Valid: true}
			}
			if _, err := stmt.ExecContext(ctx, name, key, e.Title, e.Text, rule); err != nil {
				return fmt.Errorf("failed to import %s/%s: %w", name, key, err)
			}
		}
	}
	return tx.Commit()
}
