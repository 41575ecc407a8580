// Package history keeps a local SQLite journal of provisioning attempts.
package history

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	_ "github.com/mattn/go-sqlite3"

	"github.com/NebraLtd/maker-starter-app/pkg/hotspot"
	"github.com/NebraLtd/maker-starter-app/pkg/provisioning"
)

// Actions recorded in the journal.
const (
	ActionAdd    = "add"
	ActionUpdate = "update"
	ActionRescan = "rescan"
	ActionLink   = "link"
)

// DefaultLimit is the List cap when none is given.
const DefaultLimit = 50

const (
	tableName  = "attempts"
	timeLayout = time.RFC3339Nano
)

// ErrClosed is returned after Close.
var ErrClosed = errors.New("history: closed")

// Entry is one journaled attempt.
type Entry struct {
	ID            string
	DeviceID      string
	DeviceAddress string
	Action        string
	Outcome       string
	Detail        string
	Error         string
	StartedAt     time.Time
	FinishedAt    time.Time
}

// Duration is how long the attempt ran.
func (e Entry) Duration() time.Duration {
	if e.FinishedAt.Before(e.StartedAt) {
		return 0
	}
	return e.FinishedAt.Sub(e.StartedAt)
}

// FromOutcome builds an entry for a finished attempt.
func FromOutcome(action string, dev hotspot.Device, o provisioning.Outcome, started, finished time.Time) Entry {
	e := Entry{
		DeviceID:      dev.ID,
		DeviceAddress: dev.Address,
		Action:        action,
		StartedAt:     started,
		FinishedAt:    finished,
	}
	if o == nil {
		return e
	}
	e.Outcome = o.Kind().String()
	switch v := o.(type) {
	case provisioning.Failed:
		if v.Err != nil {
			e.Error = v.Err.Error()
		}
	default:
		e.Detail = provisioning.Describe(o)
	}
	if addr := outcomeAddress(o); addr != "" {
		e.DeviceAddress = addr
	}
	return e
}

func outcomeAddress(o provisioning.Outcome) string {
	switch v := o.(type) {
	case provisioning.ReadyForWifi:
		return v.DeviceAddress
	case provisioning.ReadyForLocation:
		return v.DeviceAddress
	case provisioning.AlreadyOwnedByCaller:
		return v.DeviceAddress
	case provisioning.OwnedByOther:
		return v.DeviceAddress
	}
	return ""
}

// ListOptions filters List.
type ListOptions struct {
	// Limit caps the result, newest first. Zero means DefaultLimit.
	Limit int

	// DeviceAddress restricts the result to one device when set.
	DeviceAddress string
}

// Journal is the SQLite-backed attempt log.
type Journal struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the journal at path.
func Open(path string) (*Journal, error) {
	if path == "" {
		return nil, pkgerrors.New("history: empty database path")
	}
	if err := ensureDirExists(filepath.Dir(path)); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "history: open sqlite database failed")
	}
	if err := configureSQLite(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := prepareSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Journal{db: db, path: path}, nil
}

// Path returns the database file.
func (j *Journal) Path() string { return j.path }

// Record appends e. An empty ID gets a fresh UUID; the stored ID is returned.
func (j *Journal) Record(ctx context.Context, e Entry) (string, error) {
	if j.db == nil {
		return "", ErrClosed
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.FinishedAt.IsZero() {
		e.FinishedAt = time.Now()
	}
	if e.StartedAt.IsZero() {
		e.StartedAt = e.FinishedAt
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO `+tableName+` (id, device_id, device_address, action, outcome, detail, error, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.DeviceID, e.DeviceAddress, e.Action, e.Outcome, e.Detail, e.Error,
		e.StartedAt.UTC().Format(timeLayout), e.FinishedAt.UTC().Format(timeLayout))
	if err != nil {
		return "", pkgerrors.Wrap(err, "history: insert attempt failed")
	}
	return e.ID, nil
}

// List returns entries newest first.
func (j *Journal) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	if j.db == nil {
		return nil, ErrClosed
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	query := `SELECT id, device_id, device_address, action, outcome, detail, error, started_at, finished_at FROM ` + tableName
	args := []any{}
	if opts.DeviceAddress != "" {
		query += ` WHERE device_address = ?`
		args = append(args, opts.DeviceAddress)
	}
	query += ` ORDER BY seq DESC LIMIT ?`
	args = append(args, limit)

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "history: query attempts failed")
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var started, finished string
		if err := rows.Scan(&e.ID, &e.DeviceID, &e.DeviceAddress, &e.Action, &e.Outcome,
			&e.Detail, &e.Error, &started, &finished); err != nil {
			return nil, pkgerrors.Wrap(err, "history: scan attempt failed")
		}
		if e.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, pkgerrors.Wrapf(err, "history: bad started_at for %s", e.ID)
		}
		if e.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
			return nil, pkgerrors.Wrapf(err, "history: bad finished_at for %s", e.ID)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.Wrap(err, "history: iterate attempts failed")
	}
	return out, nil
}

// Close closes the database. Further calls return ErrClosed.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	err := j.db.Close()
	j.db = nil
	return pkgerrors.Wrap(err, "history: close failed")
}

func ensureDirExists(path string) error {
	if path == "" || path == "." {
		return nil
	}
	if err := os.MkdirAll(path, 0o700); err != nil {
		return pkgerrors.Wrapf(err, "history: create dir %s failed", path)
	}
	return nil
}

func configureSQLite(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return pkgerrors.Wrapf(err, "history: execute %s failed", pragma)
		}
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return nil
}

func prepareSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ` + tableName + ` (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			device_id TEXT NOT NULL DEFAULT '',
			device_address TEXT NOT NULL DEFAULT '',
			action TEXT NOT NULL,
			outcome TEXT NOT NULL DEFAULT '',
			detail TEXT NOT NULL DEFAULT '',
			error TEXT NOT NULL DEFAULT '',
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_` + tableName + `_address ON ` + tableName + ` (device_address);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return pkgerrors.Wrap(err, "history: prepare schema failed")
		}
	}
	return nil
}
