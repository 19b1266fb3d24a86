package scope

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/scopekit/scopekit/internal/aspect"
	"github.com/scopekit/scopekit/internal/filter"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Config holds scope store configuration.
type Config struct {
	DataDir    string
	MaxResults int
}

// DefaultConfig returns the default configuration for the scope store.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:    filepath.Join(home, ".scopekit"),
		MaxResults: 50,
	}
}

// Store is the persistent scope tracker backed by SQLite.
type Store struct {
	db  *sql.DB
	cfg Config
}

// New creates a Store with the given configuration. It creates the data
// directory if needed, opens SQLite with WAL mode, and runs migrations.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("scope: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "scopes.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("scope: open database: %w", err)
	}

	// SQLite performance pragmas
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("scope: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("scope: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scopes (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL,
			status     TEXT NOT NULL DEFAULT 'pending',
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE IF NOT EXISTS aliases (
			alias     TEXT PRIMARY KEY,
			scope_id  TEXT    NOT NULL,
			canonical INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (scope_id) REFERENCES scopes(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS aspects (
			scope_id TEXT NOT NULL,
			key      TEXT NOT NULL,
			value    TEXT NOT NULL,
			PRIMARY KEY (scope_id, key, value),
			FOREIGN KEY (scope_id) REFERENCES scopes(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS aspect_defs (
			key     TEXT PRIMARY KEY,
			type    TEXT NOT NULL,
			allowed TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_scopes_status   ON scopes(status);
		CREATE INDEX IF NOT EXISTS idx_aliases_scope   ON aliases(scope_id);
		CREATE INDEX IF NOT EXISTS idx_aspects_scope   ON aspects(scope_id);
		CREATE INDEX IF NOT EXISTS idx_aspects_key     ON aspects(key);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ─── Scopes ──────────────────────────────────────────────────────────────────

// Add creates a scope with a fresh ULID and a canonical alias derived
// from the title. Alias collisions get a numeric suffix (plan, plan-2, ...).
func (s *Store) Add(title string) (Scope, error) {
	if len(title) == 0 || len(title) > 500 {
		return Scope{}, fmt.Errorf("scope: title must be 1-500 characters")
	}

	id := ulid.Make().String()

	tx, err := s.db.Begin()
	if err != nil {
		return Scope{}, fmt.Errorf("scope: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO scopes (id, title) VALUES (?, ?)`, id, title,
	); err != nil {
		return Scope{}, fmt.Errorf("scope: insert: %w", err)
	}

	alias, err := uniqueAlias(tx, Slugify(title))
	if err != nil {
		return Scope{}, err
	}
	if _, err := tx.Exec(
		`INSERT INTO aliases (alias, scope_id, canonical) VALUES (?, ?, 1)`, alias, id,
	); err != nil {
		return Scope{}, fmt.Errorf("scope: insert alias: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Scope{}, fmt.Errorf("scope: commit: %w", err)
	}
	return s.Get(id)
}

// uniqueAlias finds the first free alias for a slug within a transaction.
func uniqueAlias(tx *sql.Tx, slug string) (string, error) {
	candidate := slug
	for i := 2; ; i++ {
		var n int
		if err := tx.QueryRow(
			`SELECT COUNT(*) FROM aliases WHERE alias = ?`, candidate,
		).Scan(&n); err != nil {
			return "", fmt.Errorf("scope: alias lookup: %w", err)
		}
		if n == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", slug, i)
	}
}

// Get looks a scope up by ULID or by alias.
func (s *Store) Get(idOrAlias string) (Scope, error) {
	id := idOrAlias
	var aliasID string
	err := s.db.QueryRow(
		`SELECT scope_id FROM aliases WHERE alias = ?`, idOrAlias,
	).Scan(&aliasID)
	if err == nil {
		id = aliasID
	} else if err != sql.ErrNoRows {
		return Scope{}, fmt.Errorf("scope: alias lookup: %w", err)
	}

	var sc Scope
	err = s.db.QueryRow(
		`SELECT s.id, s.title, s.status, s.created_at, s.updated_at,
		        ifnull((SELECT alias FROM aliases WHERE scope_id = s.id AND canonical = 1), '')
		 FROM scopes s WHERE s.id = ?`, id,
	).Scan(&sc.ID, &sc.Title, &sc.Status, &sc.CreatedAt, &sc.UpdatedAt, &sc.Alias)
	if err == sql.ErrNoRows {
		return Scope{}, fmt.Errorf("scope: no scope with id or alias %q", idOrAlias)
	}
	if err != nil {
		return Scope{}, fmt.Errorf("scope: get: %w", err)
	}
	return sc, nil
}

// SetStatus transitions a scope to the given status.
func (s *Store) SetStatus(idOrAlias string, status Status) (Scope, error) {
	if err := ValidateStatus(status); err != nil {
		return Scope{}, err
	}
	sc, err := s.Get(idOrAlias)
	if err != nil {
		return Scope{}, err
	}
	if _, err := s.db.Exec(
		`UPDATE scopes SET status = ?, updated_at = datetime('now') WHERE id = ?`,
		status, sc.ID,
	); err != nil {
		return Scope{}, fmt.Errorf("scope: set status: %w", err)
	}
	return s.Get(sc.ID)
}

// AddAlias attaches an extra (non-canonical) alias to a scope.
func (s *Store) AddAlias(idOrAlias, alias string) error {
	if Slugify(alias) != alias {
		return fmt.Errorf("scope: alias %q must be a lowercase slug", alias)
	}
	sc, err := s.Get(idOrAlias)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(
		`INSERT INTO aliases (alias, scope_id, canonical) VALUES (?, ?, 0)`, alias, sc.ID,
	); err != nil {
		return fmt.Errorf("scope: alias %q already taken: %w", alias, err)
	}
	return nil
}

// List returns scopes ordered newest-first (ULIDs sort by creation time).
// An empty status lists every scope.
func (s *Store) List(status Status) ([]Scope, error) {
	if status != "" {
		if err := ValidateStatus(status); err != nil {
			return nil, err
		}
	}

	query := `
		SELECT s.id, s.title, s.status, s.created_at, s.updated_at,
		       ifnull((SELECT alias FROM aliases WHERE scope_id = s.id AND canonical = 1), '')
		FROM scopes s`
	args := []any{}
	if status != "" {
		query += ` WHERE s.status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY s.id DESC LIMIT ?`
	args = append(args, s.cfg.MaxResults)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("scope: list: %w", err)
	}
	defer rows.Close()

	var out []Scope
	for rows.Next() {
		var sc Scope
		if err := rows.Scan(&sc.ID, &sc.Title, &sc.Status, &sc.CreatedAt, &sc.UpdatedAt, &sc.Alias); err != nil {
			return nil, fmt.Errorf("scope: scan: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// ─── Aspects ─────────────────────────────────────────────────────────────────

// SetAspect replaces the value set of one aspect on a scope. Values are
// validated, and checked against the key's stored definition when one
// exists.
func (s *Store) SetAspect(idOrAlias, key string, values []string) error {
	k, err := aspect.NewKey(key)
	if err != nil {
		return fmt.Errorf("scope: %w", err)
	}
	if len(values) == 0 {
		return fmt.Errorf("scope: aspect %q needs at least one value", key)
	}

	vals := make([]aspect.Value, 0, len(values))
	for _, raw := range values {
		v, err := aspect.NewValue(raw)
		if err != nil {
			return fmt.Errorf("scope: aspect %q: %w", key, err)
		}
		vals = append(vals, v)
	}

	def, ok, err := s.GetDefinition(k.String())
	if err != nil {
		return err
	}
	if ok {
		for _, v := range vals {
			if err := def.Validate(v); err != nil {
				return fmt.Errorf("scope: %w", err)
			}
		}
	}

	sc, err := s.Get(idOrAlias)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("scope: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`DELETE FROM aspects WHERE scope_id = ? AND key = ?`, sc.ID, k.String(),
	); err != nil {
		return fmt.Errorf("scope: clear aspect: %w", err)
	}
	for _, v := range vals {
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO aspects (scope_id, key, value) VALUES (?, ?, ?)`,
			sc.ID, k.String(), v.String(),
		); err != nil {
			return fmt.Errorf("scope: insert aspect: %w", err)
		}
	}
	if _, err := tx.Exec(
		`UPDATE scopes SET updated_at = datetime('now') WHERE id = ?`, sc.ID,
	); err != nil {
		return fmt.Errorf("scope: touch: %w", err)
	}
	return tx.Commit()
}

// RemoveAspect deletes one aspect from a scope entirely.
func (s *Store) RemoveAspect(idOrAlias, key string) error {
	sc, err := s.Get(idOrAlias)
	if err != nil {
		return err
	}
	res, err := s.db.Exec(
		`DELETE FROM aspects WHERE scope_id = ? AND key = ?`, sc.ID, key,
	)
	if err != nil {
		return fmt.Errorf("scope: remove aspect: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("scope: %q has no aspect %q", idOrAlias, key)
	}
	return nil
}

// Aspects loads the full aspect map of one scope.
func (s *Store) Aspects(idOrAlias string) (map[aspect.Key][]aspect.Value, error) {
	sc, err := s.Get(idOrAlias)
	if err != nil {
		return nil, err
	}
	return s.aspectsByID(sc.ID)
}

func (s *Store) aspectsByID(id string) (map[aspect.Key][]aspect.Value, error) {
	rows, err := s.db.Query(
		`SELECT key, value FROM aspects WHERE scope_id = ? ORDER BY key, rowid`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("scope: load aspects: %w", err)
	}
	defer rows.Close()

	out := make(map[aspect.Key][]aspect.Value)
	for rows.Next() {
		var rawKey, rawVal string
		if err := rows.Scan(&rawKey, &rawVal); err != nil {
			return nil, fmt.Errorf("scope: scan aspect: %w", err)
		}
		k, err := aspect.NewKey(rawKey)
		if err != nil {
			return nil, fmt.Errorf("scope: stored aspect key: %w", err)
		}
		v, err := aspect.NewValue(rawVal)
		if err != nil {
			return nil, fmt.Errorf("scope: stored aspect value: %w", err)
		}
		out[k] = append(out[k], v)
	}
	return out, rows.Err()
}

// ─── Aspect definitions ──────────────────────────────────────────────────────

// DefineAspect stores (or replaces) the schema definition for an aspect
// key. Allowed values apply to the ordered type only.
func (s *Store) DefineAspect(key string, typ aspect.Type, allowed []string) error {
	k, err := aspect.NewKey(key)
	if err != nil {
		return fmt.Errorf("scope: %w", err)
	}

	var vals []aspect.Value
	for _, raw := range allowed {
		v, err := aspect.NewValue(raw)
		if err != nil {
			return fmt.Errorf("scope: allowed value: %w", err)
		}
		vals = append(vals, v)
	}
	if _, err := aspect.NewDefinition(k, typ, vals); err != nil {
		return fmt.Errorf("scope: %w", err)
	}

	var allowedJSON any
	if len(allowed) > 0 {
		raw, err := json.Marshal(allowed)
		if err != nil {
			return fmt.Errorf("scope: encode allowed values: %w", err)
		}
		allowedJSON = string(raw)
	}

	if _, err := s.db.Exec(
		`INSERT INTO aspect_defs (key, type, allowed) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET type = excluded.type, allowed = excluded.allowed`,
		k.String(), string(typ), allowedJSON,
	); err != nil {
		return fmt.Errorf("scope: define aspect: %w", err)
	}
	return nil
}

// GetDefinition loads the definition for an aspect key, if any.
func (s *Store) GetDefinition(key string) (aspect.Definition, bool, error) {
	var (
		typ     string
		allowed sql.NullString
	)
	err := s.db.QueryRow(
		`SELECT type, allowed FROM aspect_defs WHERE key = ?`, key,
	).Scan(&typ, &allowed)
	if err == sql.ErrNoRows {
		return aspect.Definition{}, false, nil
	}
	if err != nil {
		return aspect.Definition{}, false, fmt.Errorf("scope: load definition: %w", err)
	}

	k, err := aspect.NewKey(key)
	if err != nil {
		return aspect.Definition{}, false, fmt.Errorf("scope: stored definition key: %w", err)
	}

	var vals []aspect.Value
	if allowed.Valid && allowed.String != "" {
		var raws []string
		if err := json.Unmarshal([]byte(allowed.String), &raws); err != nil {
			return aspect.Definition{}, false, fmt.Errorf("scope: decode allowed values: %w", err)
		}
		for _, raw := range raws {
			v, err := aspect.NewValue(raw)
			if err != nil {
				return aspect.Definition{}, false, fmt.Errorf("scope: stored allowed value: %w", err)
			}
			vals = append(vals, v)
		}
	}

	def, err := aspect.NewDefinition(k, aspect.Type(typ), vals)
	if err != nil {
		return aspect.Definition{}, false, fmt.Errorf("scope: stored definition: %w", err)
	}
	return def, true, nil
}

// ─── Query ───────────────────────────────────────────────────────────────────

// Query compiles a filter string once and returns the scopes whose aspect
// maps match it, newest-first, capped at MaxResults.
func (s *Store) Query(filterStr string) ([]Scope, error) {
	criteria, err := filter.Compile(filterStr)
	if err != nil {
		return nil, err
	}

	scopes, err := s.List("")
	if err != nil {
		return nil, err
	}

	var out []Scope
	for _, sc := range scopes {
		aspects, err := s.aspectsByID(sc.ID)
		if err != nil {
			return nil, err
		}
		if criteria.EvaluateMulti(aspects) {
			out = append(out, sc)
		}
	}
	return out, nil
}
