package db

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return sqlx.NewDb(raw, "postgres"), mock
}

func TestRunMigrations_SkipsAppliedAndIgnoresOtherFiles(t *testing.T) {
	conn, mock := newMockDB(t)
	migrations := fstest.MapFS{
		"0002_second.sql": {Data: []byte("CREATE TABLE second (id INT)")},
		"0001_first.sql":  {Data: []byte("CREATE TABLE first (id INT)")},
		"README.md":       {Data: []byte("docs")},
	}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM schema_migrations`).
		WithArgs("0001_first.sql").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM schema_migrations`).
		WithArgs("0002_second.sql").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE second").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").WithArgs("0002_second.sql").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	applied, err := RunMigrations(context.Background(), conn, migrations)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_RollsBackFailedFile(t *testing.T) {
	conn, mock := newMockDB(t)
	migrations := fstest.MapFS{
		"0001_broken.sql": {Data: []byte("CREATE TABLE broken (")},
	}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM schema_migrations`).
		WithArgs("0001_broken.sql").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE broken").WillReturnError(errors.New("syntax error"))
	mock.ExpectRollback()

	applied, err := RunMigrations(context.Background(), conn, migrations)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "0001_broken.sql")
	assert.Equal(t, 0, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}
