package db

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memDSN(t *testing.T) string {
	return fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
}

func TestOpen_AppliesMigrationsAndSeedsSentinelPublisher(t *testing.T) {
	d, err := Open(DriverSQLite, memDSN(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	versions, err := Applied(d)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, versions)

	var name string
	require.NoError(t, d.Get(&name, `SELECT name FROM publisher WHERE publisher_id = 1`))
	assert.Equal(t, "Unknown", name)

	// Reopening against the same database must not reapply anything.
	require.NoError(t, Migrate(d))
	var count int
	require.NoError(t, d.Get(&count, `SELECT COUNT(*) FROM publisher`))
	assert.Equal(t, 1, count)
}

func TestOpen_EnforcesForeignKeys(t *testing.T) {
	d, err := Open(DriverSQLite, memDSN(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	_, err = d.Exec(`INSERT INTO author (author_id, bio) VALUES (42, 'orphan')`)
	assert.Error(t, err)
}

func TestRollbackLast(t *testing.T) {
	d, err := Open(DriverSQLite, memDSN(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	require.NoError(t, RollbackLast(d))
	versions, err := Applied(d)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, versions)

	_, err = d.Exec(`SELECT COUNT(*) FROM book_copy`)
	assert.Error(t, err, "circulation tables should be gone")

	require.NoError(t, RollbackLast(d))
	require.NoError(t, RollbackLast(d), "rolling back an empty schema is a no-op")
	versions, err = Applied(d)
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("oracle", "x")
	assert.ErrorContains(t, err, "unsupported")
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "app.db?_foreign_keys=on&_busy_timeout=5000", sqliteDSN(""))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=on&_busy_timeout=5000", sqliteDSN("file:x?mode=memory"))
	assert.Equal(t, "a.db?_fk=1&_busy_timeout=1", sqliteDSN("a.db?_fk=1&_busy_timeout=1"))
}

func TestMySQLDSN(t *testing.T) {
	got, err := mysqlDSN("lib:secret@tcp(localhost:3306)/kpz")
	require.NoError(t, err)
	assert.Contains(t, got, "parseTime=true")
	assert.Contains(t, got, "multiStatements=true")

	_, err = mysqlDSN("not a dsn")
	assert.Error(t, err)
}
