package database_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sparkify/dwhdef/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockDatabase adapts a sqlmock connection to database.Database.
type mockDatabase struct {
	db     *sql.DB
	config database.Config
}

func (m *mockDatabase) DB() *sql.DB                { return m.db }
func (m *mockDatabase) GetConfig() database.Config { return m.config }
func (m *mockDatabase) Close() error               { return m.db.Close() }

func TestDryRunDatabase(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectClose()
	// No statement expectation: the real connection must not see the DDLs.

	dryRun, err := database.NewDryRunDatabase(&mockDatabase{db: db, config: database.Config{Type: "redshift", DbName: "dwh"}})
	require.NoError(t, err)
	assert.Equal(t, "dwh", dryRun.GetConfig().DbName)

	ctx := context.Background()
	conn, err := database.Connect(ctx, dryRun)
	require.NoError(t, err)

	drops := []string{"DROP TABLE IF EXISTS songs"}
	creates := []string{"CREATE TABLE songs (id INT)"}
	require.NoError(t, database.ResetSchema(ctx, conn, drops, creates, nil))
	require.NoError(t, conn.Close())

	assert.Equal(t, append(drops, creates...), dryRun.Executed())
	require.NoError(t, dryRun.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnect(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectPing()

	conn, err := database.Connect(context.Background(), &mockDatabase{db: db})
	require.NoError(t, err)
	require.NoError(t, conn.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnectFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	refused := errors.New("dial tcp 10.0.0.1:5439: connect: connection refused")
	mock.ExpectPing().WillReturnError(refused)

	config := database.Config{Type: "redshift", Host: "10.0.0.1", DbName: "dwh"}
	_, err = database.Connect(context.Background(), &mockDatabase{db: db, config: config})
	require.Error(t, err)

	var connErr *database.ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.ErrorIs(t, err, refused)
	assert.Equal(t, `failed to connect to redshift database "dwh" at 10.0.0.1: dial tcp 10.0.0.1:5439: connect: connection refused`, err.Error())
}
