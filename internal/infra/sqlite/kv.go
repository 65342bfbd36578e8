package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/tutu-network/jokebox/internal/domain"
)

// ─── Key-Value Reads ────────────────────────────────────────────────────────

// GetData retrieves the raw bytes stored under key.
// ok is false if the key was never written.
func (d *DB) GetData(key string) ([]byte, bool, error) {
	var value []byte
	err := d.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, storageErr("get", key, err)
	}
	return value, true, nil
}

// GetString retrieves a string value.
func (d *DB) GetString(key string) (string, bool, error) {
	raw, ok, err := d.GetData(key)
	if err != nil || !ok {
		return "", ok, err
	}
	return string(raw), true, nil
}

// GetInt retrieves an integer value.
func (d *DB) GetInt(key string) (int, bool, error) {
	raw, ok, err := d.GetString(key)
	if err != nil || !ok {
		return 0, ok, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, storageErr("decode int", key, err)
	}
	return n, true, nil
}

// GetBool retrieves a boolean value.
func (d *DB) GetBool(key string) (bool, bool, error) {
	raw, ok, err := d.GetString(key)
	if err != nil || !ok {
		return false, ok, err
	}
	return raw == "1", true, nil
}

// GetTime retrieves a timestamp value.
func (d *DB) GetTime(key string) (time.Time, bool, error) {
	raw, ok, err := d.GetString(key)
	if err != nil || !ok {
		return time.Time{}, ok, err
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, storageErr("decode time", key, err)
	}
	return t, true, nil
}

// ─── Key-Value Writes ───────────────────────────────────────────────────────

// SetData stores raw bytes under key, replacing any previous value.
func (d *DB) SetData(key string, v []byte) error { return writer{d.db}.SetData(key, v) }

// SetString stores a string value.
func (d *DB) SetString(key, v string) error { return writer{d.db}.SetString(key, v) }

// SetInt stores an integer value.
func (d *DB) SetInt(key string, v int) error { return writer{d.db}.SetInt(key, v) }

// SetBool stores a boolean value.
func (d *DB) SetBool(key string, v bool) error { return writer{d.db}.SetBool(key, v) }

// SetTime stores a timestamp value.
func (d *DB) SetTime(key string, v time.Time) error { return writer{d.db}.SetTime(key, v) }

// Update runs fn inside a transaction. Either every write in fn lands or none do.
func (d *DB) Update(fn func(w domain.KVWriter) error) error {
	tx, err := d.db.Begin()
	if err != nil {
		return storageErr("begin", "", err)
	}
	if err := fn(writer{tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return storageErr("commit", "", err)
	}
	return nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// writer implements domain.KVWriter over a connection or transaction.
type writer struct {
	ex execer
}

func (w writer) SetData(key string, v []byte) error {
	if v == nil {
		v = []byte{}
	}
	_, err := w.ex.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, v, time.Now().Unix(),
	)
	if err != nil {
		return storageErr("set", key, err)
	}
	return nil
}

func (w writer) SetString(key, v string) error {
	return w.SetData(key, []byte(v))
}

func (w writer) SetInt(key string, v int) error {
	return w.SetString(key, strconv.Itoa(v))
}

func (w writer) SetBool(key string, v bool) error {
	if v {
		return w.SetString(key, "1")
	}
	return w.SetString(key, "0")
}

func (w writer) SetTime(key string, v time.Time) error {
	return w.SetString(key, v.Format(time.RFC3339Nano))
}

// storageErr tags err as a domain.ErrStorage so callers can errors.Is it.
func storageErr(op, key string, err error) error {
	if key == "" {
		return fmt.Errorf("%w: %s: %w", domain.ErrStorage, op, err)
	}
	return fmt.Errorf("%w: %s %q: %w", domain.ErrStorage, op, key, err)
}

var _ domain.KVStore = (*DB)(nil)
