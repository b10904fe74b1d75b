// Package export writes a loaded graph to a SQLite database with one table for
// nodes and one for links.
package export

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/stockgraph/core/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS nodes (
	position   INTEGER NOT NULL,
	id         TEXT PRIMARY KEY,
	grp        TEXT NOT NULL,
	sector     TEXT NOT NULL,
	market_cap REAL NOT NULL,
	price      TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS links (
	position INTEGER PRIMARY KEY,
	source   TEXT NOT NULL REFERENCES nodes(id),
	target   TEXT NOT NULL REFERENCES nodes(id),
	value    REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS links_source ON links(source);
CREATE INDEX IF NOT EXISTS links_target ON links(target);
`

// Store is a SQLite graph database.
type Store struct {
	sqlDB *sql.DB
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// WriteGraph replaces the stored graph with g in one transaction.
func (s *Store) WriteGraph(ctx context.Context, g *models.Graph) (err error) {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM links`); err != nil {
		return fmt.Errorf("clear links: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM nodes`); err != nil {
		return fmt.Errorf("clear nodes: %w", err)
	}

	nodeStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO nodes (position, id, grp, sector, market_cap, price) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare node insert: %w", err)
	}
	defer nodeStmt.Close()

	for i, n := range g.Nodes {
		group, perr := json.Marshal(n.Group)
		if perr != nil {
			return fmt.Errorf("encode group of %s: %w", n.ID, perr)
		}
		price, perr := json.Marshal(n.Price)
		if perr != nil {
			return fmt.Errorf("encode price of %s: %w", n.ID, perr)
		}
		if _, err = nodeStmt.ExecContext(ctx, i, n.ID, string(group), n.Sector, n.MarketCap, string(price)); err != nil {
			return fmt.Errorf("insert node %s: %w", n.ID, err)
		}
	}

	linkStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO links (position, source, target, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare link insert: %w", err)
	}
	defer linkStmt.Close()

	for i, l := range g.Links {
		if _, err = linkStmt.ExecContext(ctx, i, l.Source, l.Target, l.Value); err != nil {
			return fmt.Errorf("insert link %s: %w", l.Key(), err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ReadGraph loads the stored graph in insertion order.
func (s *Store) ReadGraph(ctx context.Context) (*models.Graph, error) {
	g := &models.Graph{Nodes: []models.Node{}, Links: []models.Link{}}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, grp, sector, market_cap, price FROM nodes ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query nodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			n            models.Node
			group, price string
		)
		if err := rows.Scan(&n.ID, &group, &n.Sector, &n.MarketCap, &price); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		if err := json.Unmarshal([]byte(group), &n.Group); err != nil {
			return nil, fmt.Errorf("decode group of %s: %w", n.ID, err)
		}
		if err := json.Unmarshal([]byte(price), &n.Price); err != nil {
			return nil, fmt.Errorf("decode price of %s: %w", n.ID, err)
		}
		g.Nodes = append(g.Nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nodes: %w", err)
	}

	linkRows, err := s.sqlDB.QueryContext(ctx,
		`SELECT source, target, value FROM links ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query links: %w", err)
	}
	defer linkRows.Close()

	for linkRows.Next() {
		var l models.Link
		if err := linkRows.Scan(&l.Source, &l.Target, &l.Value); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		g.Links = append(g.Links, l)
	}
	if err := linkRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate links: %w", err)
	}

	g.ComputeStats(0)
	return g, nil
}

// SQLite writes g to the database at path, creating it if needed.
func SQLite(ctx context.Context, path string, g *models.Graph) error {
	store, err := Open(path)
	if err != nil {
		return err
	}
	if err := store.WriteGraph(ctx, g); err != nil {
		_ = store.Close()
		return err
	}
	return store.Close()
}
