package migration_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/arstoys/pkg/database"
	"github.com/shashiranjanraj/arstoys/pkg/migration"
)

type widget struct {
	ID   uint
	Name string
}

type createWidgets struct{}

func (createWidgets) Up(db *gorm.DB) error   { return db.AutoMigrate(&widget{}) }
func (createWidgets) Down(db *gorm.DB) error { return db.Migrator().DropTable(&widget{}) }

type broken struct{}

func (broken) Up(db *gorm.DB) error   { return errors.New("boom") }
func (broken) Down(db *gorm.DB) error { return nil }

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(database.Config{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "m.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func TestRunStatusRollback(t *testing.T) {
	db := openDB(t)
	var out bytes.Buffer
	r := migration.NewWith(db, []migration.Entry{{Name: "20260101000000_create_widgets", Migration: createWidgets{}}}).Output(&out)

	n, err := r.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, db.Migrator().HasTable(&widget{}))
	assert.Contains(t, out.String(), "Migrating: 20260101000000_create_widgets")

	n, err = r.Run()
	require.NoError(t, err)
	assert.Zero(t, n)

	rows, err := r.Status()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Ran)
	assert.Equal(t, 1, rows[0].Batch)

	n, err = r.Rollback()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, db.Migrator().HasTable(&widget{}))

	pending, err := r.Pending()
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestFailedMigrationIsNotRecorded(t *testing.T) {
	db := openDB(t)
	r := migration.NewWith(db, []migration.Entry{{Name: "20260101000000_broken", Migration: broken{}}})

	_, err := r.Run()
	assert.ErrorContains(t, err, "boom")

	pending, err := r.Pending()
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}
