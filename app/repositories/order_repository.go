package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/arstoys/app/filters"
	"github.com/shashiranjanraj/arstoys/app/models"
	"github.com/shashiranjanraj/arstoys/pkg/apperr"
	"github.com/shashiranjanraj/arstoys/pkg/database"
	"github.com/shashiranjanraj/arstoys/pkg/logger"
	"github.com/shashiranjanraj/arstoys/pkg/metrics"
)

// OrderRepository handles database operations for Order and its items.
type OrderRepository struct {
	db       *gorm.DB
	attempts int
}

// NewOrderRepository returns a repository that tries up to attempts times
// to allocate an order number before giving up.
func NewOrderRepository(db *gorm.DB, attempts int) *OrderRepository {
	if attempts <= 0 {
		attempts = 1
	}
	return &OrderRepository{db: db, attempts: attempts}
}

func itemsInOrder(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }

// Create assigns o the next order number and persists it with its items.
//
// The number comes from the "orders" sequence row, incremented inside the
// same transaction as the insert, so concurrent placements serialise on
// the row lock. Lock contention rolls the attempt back and retries. A
// collision on the unique order_no index first moves the sequence past
// every number already issued, in a transaction of its own, so the retry
// cannot hit the same row again.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		for i := range o.Items {
			o.Items[i].ID = 0
			o.Items[i].Position = i
		}

		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			n, err := nextSequenceValue(tx, models.SequenceOrders)
			if err != nil {
				return err
			}
			o.OrderNo = models.FormatOrderNo(n)
			return tx.Create(o).Error
		})
		if err == nil {
			return nil
		}
		if !database.IsUniqueViolation(err) && !database.IsContention(err) {
			return fmt.Errorf("create order: %w", err)
		}

		lastErr = err
		metrics.OrderNumberRetried()
		logger.WithCtx(ctx).Warn("orders: number allocation retry",
			"attempt", attempt, "order_no", o.OrderNo, "error", err)
		if database.IsUniqueViolation(err) {
			if err := r.skipIssuedNumbers(ctx, models.SequenceOrders); err != nil {
				logger.WithCtx(ctx).Warn("orders: sequence resync failed", "error", err)
			}
		}
		o.OrderNo = ""
	}

	metrics.OrderNumberConflicted()
	return apperr.Conflict("Could not allocate an order number, please retry", lastErr)
}

// skipIssuedNumbers raises the sequence to the highest order number in the
// table. It commits on its own so a rolled-back attempt keeps the progress.
func (r *OrderRepository) skipIssuedNumbers(ctx context.Context, name string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		high, err := issuedHighWater(tx)
		if err != nil {
			return err
		}
		if err := ensureSequence(tx, name, high); err != nil {
			return err
		}
		return tx.Model(&models.Sequence{}).
			Where("name = ? AND value < ?", name, high).
			Update("value", high).Error
	})
}

// issuedHighWater returns the larger of the order count and the highest
// sequence value found in existing order numbers. Numbering that resumes
// from it cannot collide with rows written by an earlier count-based
// scheme that had deletions.
func issuedHighWater(tx *gorm.DB) (int64, error) {
	var count int64
	if err := tx.Model(&models.Order{}).Count(&count).Error; err != nil {
		return 0, err
	}
	var numbers []string
	if err := tx.Model(&models.Order{}).Pluck("order_no", &numbers).Error; err != nil {
		return 0, err
	}
	high := count
	for _, no := range numbers {
		if n, ok := models.ParseOrderNo(no); ok && n > high {
			high = n
		}
	}
	return high, nil
}

func ensureSequence(tx *gorm.DB, name string, value int64) error {
	seed := models.Sequence{Name: name, Value: value}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error
}

// nextSequenceValue increments the named sequence and returns the new
// value. A missing orders sequence is seeded from the numbers already
// issued so numbering continues after existing data.
func nextSequenceValue(tx *gorm.DB, name string) (int64, error) {
	var seq models.Sequence
	err := tx.Where("name = ?", name).First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		high, err := issuedHighWater(tx)
		if err != nil {
			return 0, err
		}
		if err := ensureSequence(tx, name, high); err != nil {
			return 0, err
		}
	} else if err != nil {
		return 0, err
	}

	res := tx.Model(&models.Sequence{}).
		Where("name = ?", name).
		Update("value", gorm.Expr("value + ?", 1))
	if res.Error != nil {
		return 0, res.Error
	}

	if err := tx.Where("name = ?", name).First(&seq).Error; err != nil {
		return 0, err
	}
	return seq.Value, nil
}

// List returns the orders matching p, newest first, with their items.
func (r *OrderRepository) List(ctx context.Context, p filters.Predicate) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.db.WithContext(ctx).
		Scopes(p.Scope).
		Preload("Items", itemsInOrder).
		Order("created_at DESC").
		Order("order_no DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// FindByID looks up an order and its items.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (models.Order, error) {
	return findOrder(r.db.WithContext(ctx), id)
}

func findOrder(db *gorm.DB, id string) (models.Order, error) {
	var o models.Order
	err := db.Preload("Items", itemsInOrder).Where("id = ?", id).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return o, apperr.NotFound("Order not found")
	}
	if err != nil {
		return o, fmt.Errorf("find order: %w", err)
	}
	return o, nil
}

// UpdateStatus sets the status of an order and returns the updated row.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status models.Status) (models.Order, error) {
	var o models.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Look up first: MySQL reports zero affected rows for an unchanged value.
		if _, err := findOrder(tx, id); err != nil {
			return err
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", id).Update("status", status).Error; err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		var err error
		o, err = findOrder(tx, id)
		return err
	})
	return o, err
}

// Delete removes an order and its items, returning the order as it was.
// Its number is never handed out again.
func (r *OrderRepository) Delete(ctx context.Context, id string) (models.Order, error) {
	var o models.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if o, err = findOrder(tx, id); err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("delete order items: %w", err)
		}
		if err := tx.Delete(&models.Order{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("delete order: %w", err)
		}
		return nil
	})
	return o, err
}

// Count returns the number of orders, optionally restricted to status.
func (r *OrderRepository) Count(ctx context.Context, status models.Status) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

// SumTotals adds up the totals of every order whose status is not excluded.
func (r *OrderRepository) SumTotals(ctx context.Context, excluded models.Status) (decimal.Decimal, error) {
	var row struct {
		Sum decimal.NullDecimal
	}
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("SUM(total) AS sum").
		Where("status <> ?", excluded).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum order totals: %w", err)
	}
	if !row.Sum.Valid {
		return decimal.Zero, nil
	}
	return row.Sum.Decimal.Round(2), nil
}
