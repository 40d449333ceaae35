package testkit

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	_ "github.com/shashiranjanraj/arstoys/database/migrations" // registers the schema
	"github.com/shashiranjanraj/arstoys/pkg/database"
	"github.com/shashiranjanraj/arstoys/pkg/migration"
)

// DB opens a fresh SQLite database under t.TempDir, applies every
// registered migration and closes it when the test ends.
func DB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(database.Config{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err, "testkit: open sqlite")
	t.Cleanup(func() { _ = database.Close(db) })

	_, err = migration.New(db).Run()
	require.NoError(t, err, "testkit: migrate")
	return db
}
