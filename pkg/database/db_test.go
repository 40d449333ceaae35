package database

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "shop.db?_foreign_keys=on&_busy_timeout=5000", sqliteDSN("shop.db"))
	assert.Equal(t, "file:x?mode=memory&_fk=1&_busy_timeout=5000", sqliteDSN("file:x?mode=memory&_fk=1"))
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle", DSN: "x"})
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}

func TestOpenSQLite(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	defer Close(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: orders.order_no")))
	assert.True(t, IsUniqueViolation(errors.New(`ERROR: duplicate key value violates unique constraint "idx_orders_order_no"`)))
	assert.False(t, IsUniqueViolation(errors.New("no such table: orders")))
	assert.False(t, IsUniqueViolation(nil))

	assert.True(t, IsContention(errors.New("database is locked")))
	assert.False(t, IsContention(errors.New("syntax error")))
}
