// Package catalog indexes decoded replays in SQLite.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/robert-malhotra/go-twreplay/internal/catalog/migrations"
	"github.com/robert-malhotra/go-twreplay/project"
	"github.com/robert-malhotra/go-twreplay/replay"
)

// Errors
var (
	ErrNotFound  = errors.New("replay not indexed")
	ErrDuplicate = errors.New("replay already indexed")
)

// Entry is one indexed replay.
type Entry struct {
	// Fingerprint identifies the decompressed replay bytes.
	Fingerprint string
	Path        string
	Size        int64
	Variant     string
	Compression string
	RecordedAt  time.Time

	// Summary fields are empty when no layout matched.
	Layout           string
	GameTitle        string
	GameName         string
	GameVersion      string
	BuildNumber      uint64
	ChangelistNumber uint64
	MapID            string
	MapIDSub         string
	Teams            [][]project.Player

	IndexedAt time.Time
}

// Fingerprint returns the catalog key for replay bytes.
func Fingerprint(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// NewEntry builds an entry from a decoded replay and, if available, its
// summary. data is the decompressed replay.
func NewEntry(path string, data []byte, rep *replay.Replay, s *project.Summary) Entry {
	e := Entry{
		Fingerprint: Fingerprint(data),
		Path:        path,
		Size:        int64(len(data)),
		Variant:     rep.Variant,
		Compression: rep.Compression,
		RecordedAt:  rep.Header.Timestamp,
	}
	if s != nil {
		e.Layout = s.Layout
		e.GameTitle = s.GameTitle
		e.GameName = s.GameName
		e.GameVersion = s.GameVersion
		e.BuildNumber = s.BuildNumber
		e.ChangelistNumber = s.ChangelistNumber
		e.MapID = s.BattlefieldMapID
		e.MapIDSub = s.BattlefieldMapIDSub
		e.Teams = s.Teams
	}
	return e
}

// Store persists the catalog in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite catalog and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// SQLite allows one writer; indexing workers queue on the pool instead.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Put inserts an entry and its players. It returns ErrDuplicate if the
// fingerprint is already indexed.
func (s *Store) Put(ctx context.Context, e Entry) error {
	if e.Fingerprint == "" {
		return fmt.Errorf("fingerprint is required")
	}
	indexedAt := e.IndexedAt
	if indexedAt.IsZero() {
		indexedAt = time.Now()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO replays (
		   fingerprint, path, size, variant, compression, recorded_at,
		   layout, game_title, game_name, game_version,
		   build_number, changelist_number, map_id, map_id_sub, indexed_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Fingerprint, e.Path, e.Size, e.Variant, e.Compression, e.RecordedAt.UTC().Unix(),
		e.Layout, e.GameTitle, e.GameName, e.GameVersion,
		int64(e.BuildNumber), int64(e.ChangelistNumber), e.MapID, e.MapIDSub,
		indexedAt.UTC().UnixMilli(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicate, e.Fingerprint)
		}
		return fmt.Errorf("insert replay: %w", err)
	}

	for team, players := range e.Teams {
		for slot, p := range players {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO players (fingerprint, team, slot, name, region_id) VALUES (?, ?, ?, ?, ?)`,
				e.Fingerprint, team, slot, p.Name, p.RegionID,
			); err != nil {
				return fmt.Errorf("insert player %d/%d: %w", team, slot, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit put: %w", err)
	}
	return nil
}

const selectEntry = `SELECT fingerprint, path, size, variant, compression, recorded_at,
	layout, game_title, game_name, game_version,
	build_number, changelist_number, map_id, map_id_sub, indexed_at
	FROM replays`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var (
		e                 Entry
		recorded, indexed int64
		build, changelist int64
	)
	err := row.Scan(&e.Fingerprint, &e.Path, &e.Size, &e.Variant, &e.Compression, &recorded,
		&e.Layout, &e.GameTitle, &e.GameName, &e.GameVersion,
		&build, &changelist, &e.MapID, &e.MapIDSub, &indexed)
	if err != nil {
		return Entry{}, err
	}
	e.RecordedAt = time.Unix(recorded, 0).UTC()
	e.IndexedAt = time.UnixMilli(indexed).UTC()
	e.BuildNumber = uint64(build)
	e.ChangelistNumber = uint64(changelist)
	return e, nil
}

// Get returns the entry for a fingerprint.
func (s *Store) Get(ctx context.Context, fingerprint string) (Entry, error) {
	e, err := scanEntry(s.sqlDB.QueryRowContext(ctx, selectEntry+` WHERE fingerprint = ?`, fingerprint))
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, fingerprint)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("get replay: %w", err)
	}
	if e.Teams, err = s.teams(ctx, fingerprint); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Query filters List. Zero fields match everything.
type Query struct {
	GameName string
	Player   string
	Limit    int
}

// List returns matching entries, newest recording first.
func (s *Store) List(ctx context.Context, q Query) ([]Entry, error) {
	var (
		where []string
		args  []any
	)
	if q.GameName != "" {
		where = append(where, "game_name = ?")
		args = append(args, q.GameName)
	}
	if q.Player != "" {
		where = append(where, "fingerprint IN (SELECT fingerprint FROM players WHERE name = ?)")
		args = append(args, q.Player)
	}

	stmt := selectEntry
	if len(where) > 0 {
		stmt += " WHERE " + strings.Join(where, " AND ")
	}
	stmt += " ORDER BY recorded_at DESC, fingerprint"
	if q.Limit > 0 {
		stmt += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := s.sqlDB.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list replays: %w", err)
	}
	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("list replays: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("list replays: %w", err)
	}
	rows.Close()

	for i := range entries {
		if entries[i].Teams, err = s.teams(ctx, entries[i].Fingerprint); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// Delete removes an entry and its players.
func (s *Store) Delete(ctx context.Context, fingerprint string) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM players WHERE fingerprint = ?`, fingerprint); err != nil {
		return fmt.Errorf("delete players: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM replays WHERE fingerprint = ?`, fingerprint)
	if err != nil {
		return fmt.Errorf("delete replay: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, fingerprint)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	return nil
}

func (s *Store) teams(ctx context.Context, fingerprint string) ([][]project.Player, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT team, name, region_id FROM players WHERE fingerprint = ? ORDER BY team, slot`, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}
	defer rows.Close()

	var teams [][]project.Player
	for rows.Next() {
		var (
			team int
			p    project.Player
		)
		if err := rows.Scan(&team, &p.Name, &p.RegionID); err != nil {
			return nil, fmt.Errorf("load players: %w", err)
		}
		for len(teams) <= team {
			teams = append(teams, nil)
		}
		teams[team] = append(teams[team], p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}
	return teams, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
