package database

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestDB opens an in-memory database with the full schema applied.
// Connect caps sqlite at one open connection, which also keeps every query
// on the same in-memory database.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Connect(Config{Driver: "sqlite3", Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
