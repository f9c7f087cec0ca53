// Package store persists named family trees in SQLite.
//
// Each tree is one row holding its JSON document, so a tree saved here can
// be loaded by any tool that reads the .json interchange format. Rows carry
// a UUID that survives overwrites of the same name.
//
//	s, err := store.Open("trees.db", logger)
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	rec, err := s.Save(ctx, "lovelace", root)
//	root, err = s.Load(ctx, "lovelace")
package store

import (
	"context"
	"database/sql"
	_ "embed"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/repeatyourselfpls/family-tree-v2/pkg/errors"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/family"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/io"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned when no tree has the requested name.
var ErrNotFound = stderrors.New("tree not found")

// Memory is the path of a private in-memory database.
const Memory = ":memory:"

// Record describes a stored tree. Data is only filled by Get.
type Record struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Nodes     int       `json:"nodes"`
	Spouses   int       `json:"spouses"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Data      []byte    `json:"-"`
}

// Store is a SQLite-backed tree store. It is safe for concurrent use.
type Store struct {
	db     *sql.DB
	logger *log.Logger
	now    func() time.Time
}

// Open opens (creating if needed) the database at path and applies the
// schema. Pass [Memory] for a throwaway database.
func Open(path string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.Default()
	}
	if path != Memory {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "create store dir")
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "open %s", path)
	}
	// SQLite has one writer, and each :memory: connection is its own database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "apply schema")
	}

	logger.Debug("opened tree store", "path", path)
	return &Store{db: db, logger: logger, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores root under name, replacing any tree already saved there. The
// record keeps its ID and creation time across replacements.
func (s *Store) Save(ctx context.Context, name string, root *family.Node) (Record, error) {
	if err := errors.ValidateTreeName(name); err != nil {
		return Record{}, err
	}
	if root == nil {
		return Record{}, errors.New(errors.ErrCodeInvalidInput, "tree is empty")
	}
	data, err := io.MarshalJSON(root)
	if err != nil {
		return Record{}, fmt.Errorf("encode tree: %w", err)
	}
	nodes, spouses := family.Count(root)
	now := s.now().UTC()

	rec := Record{Name: name, Nodes: nodes, Spouses: spouses, UpdatedAt: now}
	var created int64
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO trees (id, name, data, nodes, spouses, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			data = excluded.data,
			nodes = excluded.nodes,
			spouses = excluded.spouses,
			updated_at = excluded.updated_at
		RETURNING id, created_at`,
		uuid.NewString(), name, data, nodes, spouses, now.UnixNano(), now.UnixNano(),
	).Scan(&rec.ID, &created)
	if err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeStorage, err, "save %s", name)
	}
	rec.CreatedAt = time.Unix(0, created).UTC()

	s.logger.Debug("saved tree", "name", name, "id", rec.ID, "nodes", nodes)
	return rec, nil
}

// Get returns the record for name, including its JSON document.
func (s *Store) Get(ctx context.Context, name string) (Record, error) {
	var (
		rec              Record
		created, updated int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, data, nodes, spouses, created_at, updated_at
		FROM trees WHERE name = ?`, name,
	).Scan(&rec.ID, &rec.Name, &rec.Data, &rec.Nodes, &rec.Spouses, &created, &updated)
	if err == sql.ErrNoRows {
		return Record{}, notFound(name)
	}
	if err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeStorage, err, "get %s", name)
	}
	rec.CreatedAt = time.Unix(0, created).UTC()
	rec.UpdatedAt = time.Unix(0, updated).UTC()
	return rec, nil
}

// Load decodes the tree saved under name.
func (s *Store) Load(ctx context.Context, name string) (*family.Node, error) {
	rec, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	root, err := io.UnmarshalJSON(rec.Data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return root, nil
}

// List returns every stored tree ordered by name, without documents.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, nodes, spouses, created_at, updated_at
		FROM trees ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list trees")
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec              Record
			created, updated int64
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Nodes, &rec.Spouses, &created, &updated); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "scan tree")
		}
		rec.CreatedAt = time.Unix(0, created).UTC()
		rec.UpdatedAt = time.Unix(0, updated).UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list trees")
	}
	return out, nil
}

// Delete removes the tree saved under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trees WHERE name = ?`, name)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete %s", name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete %s", name)
	}
	if n == 0 {
		return notFound(name)
	}
	s.logger.Debug("deleted tree", "name", name)
	return nil
}

func notFound(name string) error {
	return errors.Wrap(errors.ErrCodeTreeNotFound, ErrNotFound, "tree %q", name)
}
