// Package gramstore persists compiled grammars (solved LevelTables) in a
// SQLite database, keyed by a content hash, so a host editor need not
// recompile a grammar that hasn't changed since its last run. It follows
// the teacher's registry-plus-mutex shape around a *sql.DB
// (internal/evaluator/builtins_sql.go: sqlDBRegistry/sqlDBRegistryMu),
// adapted from a multi-handle object registry to a single-handle cache
// store, since gramstore has exactly one open database per Store rather
// than many script-allocated ones.
package gramstore

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/opgindent/opgindent/internal/opg"
)

const schema = `
CREATE TABLE IF NOT EXISTS grammars (
	key        TEXT PRIMARY KEY,
	levels_json TEXT NOT NULL,
	updated_at  INTEGER NOT NULL DEFAULT (strftime('%s','now'))
);
`

// Store is a single open SQLite handle holding compiled grammars. Access is
// serialized through mu, mirroring the teacher's sqlDBRegistryMu: gramstore
// is the one component in the engine that touches a resource another
// process (or another goroutine, if the host embeds concurrently) might
// also touch.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Open opens (creating if necessary) the grammar cache database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("gramstore: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("gramstore: ping %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("gramstore: migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// entriesRow is the on-disk shape of an opg.LevelTable's Entries map: JSON
// object keys must be strings, so Level's optional ints are stored as
// pointers directly (encoding/json already renders a nil *int as null).
type entriesRow map[string]struct {
	Left  *int `json:"left"`
	Right *int `json:"right"`
}

// Load fetches the level table stored under key, reporting ok=false (with a
// nil error) on a cache miss rather than treating it as failure.
func (s *Store) Load(key string) (*opg.LevelTable, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var raw string
	err := s.db.QueryRow(`SELECT levels_json FROM grammars WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("gramstore: load %s: %w", key, err)
	}

	var rows entriesRow
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil, false, fmt.Errorf("gramstore: decode %s: %w", key, err)
	}
	entries := make(map[opg.Token]opg.Level, len(rows))
	for tok, lvl := range rows {
		entries[opg.Token(tok)] = opg.Level{Left: lvl.Left, Right: lvl.Right}
	}
	return opg.FromEntries(entries), true, nil
}

// Key hashes a grammar's BNF productions and precedence-list declarations
// into a stable cache key, so the same grammar source always lands on the
// same row regardless of map iteration order.
func Key(bnf opg.Grammar, precs []opg.OperatorGroup) string {
	var prods []string
	for _, p := range bnf.Productions {
		for _, alt := range p.Alternatives {
			prods = append(prods, fmt.Sprintf("%s->%v", p.NonTerminal, alt))
		}
	}
	sort.Strings(prods)

	var groups []string
	for _, g := range precs {
		groups = append(groups, fmt.Sprintf("%d:%v", g.Assoc, g.Tokens))
	}

	h := sha256.New()
	for _, p := range prods {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	for _, g := range groups {
		h.Write([]byte(g))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Save writes lvl under key, overwriting any prior entry for the same key.
func (s *Store) Save(key string, lvl *opg.LevelTable) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make(entriesRow, len(lvl.Entries()))
	for tok, v := range lvl.Entries() {
		rows[string(tok)] = struct {
			Left  *int `json:"left"`
			Right *int `json:"right"`
		}{Left: v.Left, Right: v.Right}
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("gramstore: encode %s: %w", key, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO grammars (key, levels_json) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET levels_json = excluded.levels_json,
			updated_at = strftime('%s','now')
	`, key, string(raw))
	if err != nil {
		return fmt.Errorf("gramstore: save %s: %w", key, err)
	}
	return nil
}
