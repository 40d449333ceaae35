// Package migration runs and tracks schema migrations.
//
// Migrations register themselves from init() in database/migrations:
//
//	func init() {
//	    migration.Register("20260301000001_create_products_table", &CreateProductsTable{})
//	}
//
// and are applied by `arstoys migrate` or automatically when the
// application boots.
package migration

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/shashiranjanraj/arstoys/pkg/logger"
	"gorm.io/gorm"
)

// Migration is the interface every migration must implement.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// Entry is a named migration.
type Entry struct {
	Name      string
	Migration Migration
}

// record is the row stored in the tracking table.
type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "schema_migrations" }

var (
	registryMu sync.Mutex
	registry   []Entry
)

// Register adds a migration to the global registry. Names are timestamp
// prefixed so that lexical order is chronological.
func Register(name string, m Migration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = append(registry, Entry{Name: name, Migration: m})
}

// Registered returns a sorted copy of the global registry.
func Registered() []Entry {
	registryMu.Lock()
	out := append([]Entry(nil), registry...)
	registryMu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Runner executes and tracks migrations.
type Runner struct {
	db      *gorm.DB
	entries []Entry
	out     io.Writer
}

// New returns a Runner over the global registry.
func New(db *gorm.DB) *Runner {
	return NewWith(db, Registered())
}

// NewWith returns a Runner over an explicit migration list.
func NewWith(db *gorm.DB, entries []Entry) *Runner {
	sorted := append([]Entry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &Runner{db: db, entries: sorted, out: io.Discard}
}

// Output directs progress lines (used by the CLI) to w.
func (r *Runner) Output(w io.Writer) *Runner {
	r.out = w
	return r
}

func (r *Runner) ensureTable() error {
	return r.db.AutoMigrate(&record{})
}

// Pending returns the migrations that have not run yet, in order.
func (r *Runner) Pending() ([]Entry, error) {
	if err := r.ensureTable(); err != nil {
		return nil, fmt.Errorf("migration: ensure table: %w", err)
	}

	var ran []record
	if err := r.db.Find(&ran).Error; err != nil {
		return nil, err
	}
	done := make(map[string]bool, len(ran))
	for _, rec := range ran {
		done[rec.Name] = true
	}

	var pending []Entry
	for _, e := range r.entries {
		if !done[e.Name] {
			pending = append(pending, e)
		}
	}
	return pending, nil
}

// Run applies all pending migrations as one batch. Each migration and its
// tracking row commit together.
func (r *Runner) Run() (int, error) {
	pending, err := r.Pending()
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return 0, nil
	}

	batch := r.lastBatch() + 1
	for _, e := range pending {
		fmt.Fprintf(r.out, "  ▶ Migrating: %s\n", e.Name)
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := e.Migration.Up(tx); err != nil {
				return fmt.Errorf("migration: %s up: %w", e.Name, err)
			}
			return tx.Create(&record{Name: e.Name, Batch: batch}).Error
		})
		if err != nil {
			return 0, err
		}
		logger.Info("migration: applied", "name", e.Name, "batch", batch)
	}
	return len(pending), nil
}

// Rollback reverses every migration of the most recent batch.
func (r *Runner) Rollback() (int, error) {
	if err := r.ensureTable(); err != nil {
		return 0, fmt.Errorf("migration: ensure table: %w", err)
	}

	batch := r.lastBatch()
	if batch == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return 0, nil
	}

	var records []record
	if err := r.db.Where("batch = ?", batch).Order("id desc").Find(&records).Error; err != nil {
		return 0, err
	}

	byName := make(map[string]Migration, len(r.entries))
	for _, e := range r.entries {
		byName[e.Name] = e.Migration
	}

	for _, rec := range records {
		m, ok := byName[rec.Name]
		if !ok {
			return 0, fmt.Errorf("migration: cannot roll back %s: not registered", rec.Name)
		}
		fmt.Fprintf(r.out, "  ◀ Rolling back: %s\n", rec.Name)
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return fmt.Errorf("migration: %s down: %w", rec.Name, err)
			}
			return tx.Delete(&record{}, rec.ID).Error
		})
		if err != nil {
			return 0, err
		}
		logger.Info("migration: rolled back", "name", rec.Name, "batch", batch)
	}
	return len(records), nil
}

// StatusRow is one line of Status.
type StatusRow struct {
	Name  string
	Ran   bool
	Batch int
}

// Status reports every known migration and whether it has run.
func (r *Runner) Status() ([]StatusRow, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}

	var ran []record
	if err := r.db.Find(&ran).Error; err != nil {
		return nil, err
	}
	batches := make(map[string]int, len(ran))
	for _, rec := range ran {
		batches[rec.Name] = rec.Batch
	}

	rows := make([]StatusRow, 0, len(r.entries))
	for _, e := range r.entries {
		b, ok := batches[e.Name]
		rows = append(rows, StatusRow{Name: e.Name, Ran: ok, Batch: b})
	}
	return rows, nil
}

func (r *Runner) lastBatch() int {
	var last struct{ Max int }
	r.db.Model(&record{}).Select("COALESCE(MAX(batch), 0) as max").Scan(&last)
	return last.Max
}
