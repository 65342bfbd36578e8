package sqlite

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutu-network/jokebox/internal/domain"
)

// newMockDB wires a DB around sqlmock so driver failures can be injected.
func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return &DB{db: conn}, mock
}

func TestSet_DriverFailureIsStorageError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("INSERT INTO kv").
		WithArgs("jokes_read_count", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("disk I/O error"))

	err := db.SetInt("jokes_read_count", 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Contains(t, err.Error(), "jokes_read_count")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_DriverFailureIsStorageError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT value FROM kv").
		WithArgs("favorites").
		WillReturnError(errors.New("database is locked"))

	_, ok, err := db.GetData("favorites")
	assert.False(t, ok)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_FailedWriteRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO kv").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO kv").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := db.Update(func(w domain.KVWriter) error {
		if err := w.SetInt("current_streak", 2); err != nil {
			return err
		}
		return w.SetString("last_read_date", "2025-07-02T00:00:00Z")
	})
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_CommitFailure(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO kv").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("commit refused"))

	err := db.Update(func(w domain.KVWriter) error {
		return w.SetInt("current_streak", 2)
	})
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.NoError(t, mock.ExpectationsWereMet())
}
