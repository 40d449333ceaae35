package repositories

import (
	"context"
	"net/url"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/arstoys/app/filters"
	"github.com/shashiranjanraj/arstoys/app/models"
	"github.com/shashiranjanraj/arstoys/pkg/apperr"
	"github.com/shashiranjanraj/arstoys/pkg/testkit"
)

func newOrder(name, phone string, total int64) *models.Order {
	return &models.Order{
		ID:           uuid.NewString(),
		CustomerName: name,
		Phone:        phone,
		Items: []models.OrderItem{
			{Name: "Racing Car Set", Price: decimal.NewFromInt(899), Qty: 1},
			{Name: "Magic Drawing Board", Price: decimal.NewFromInt(299), Qty: 2},
		},
		Total:       decimal.NewFromInt(total),
		Status:      models.StatusPending,
		PaymentMode: models.PaymentCOD,
	}
}

func TestOrderRepository_NumbersStartAfterExistingCount(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(testkit.DB(t), 5)

	first := newOrder("Riya", "9000000001", 1497)
	require.NoError(t, repo.Create(ctx, first))
	assert.Equal(t, "ARS1001", first.OrderNo)

	second := newOrder("Aman", "9000000002", 449)
	require.NoError(t, repo.Create(ctx, second))
	assert.Equal(t, "ARS1002", second.OrderNo)

	got, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Racing Car Set", got.Items[0].Name)
	assert.Equal(t, "Magic Drawing Board", got.Items[1].Name)
	assert.True(t, decimal.NewFromInt(1497).Equal(got.Total))
}

func TestOrderRepository_SequenceSeededFromLegacyRows(t *testing.T) {
	ctx := context.Background()
	db := testkit.DB(t)

	// Two orders that predate the sequence row.
	for i, no := range []string{"ARS1001", "ARS1002"} {
		o := newOrder("Legacy", "9", 100)
		o.OrderNo = no
		o.Items = nil
		o.CreatedAt = time.Now().Add(time.Duration(i) * time.Second)
		require.NoError(t, db.Create(o).Error)
	}

	repo := NewOrderRepository(db, 5)
	o := newOrder("New", "9", 100)
	require.NoError(t, repo.Create(ctx, o))
	assert.Equal(t, "ARS1003", o.OrderNo)
}

func insertIssued(t *testing.T, db *gorm.DB, numbers ...string) {
	t.Helper()
	for _, no := range numbers {
		o := newOrder("Legacy", "9", 100)
		o.OrderNo = no
		o.Items = nil
		require.NoError(t, db.Create(o).Error)
	}
}

func TestOrderRepository_SequenceSeededPastNumberGaps(t *testing.T) {
	ctx := context.Background()
	db := testkit.DB(t)

	// Written by a count-based scheme after ARS1001 was deleted.
	insertIssued(t, db, "ARS1002", "ARS1003")

	repo := NewOrderRepository(db, 5)
	for _, want := range []string{"ARS1004", "ARS1005", "ARS1006"} {
		o := newOrder("New", "9", 100)
		require.NoError(t, repo.Create(ctx, o))
		assert.Equal(t, want, o.OrderNo)
	}
}

func TestOrderRepository_CollisionMovesSequencePastIssuedNumbers(t *testing.T) {
	ctx := context.Background()
	db := testkit.DB(t)
	repo := NewOrderRepository(db, 2)

	first := newOrder("A", "1", 10)
	require.NoError(t, repo.Create(ctx, first))
	assert.Equal(t, "ARS1001", first.OrderNo)

	// Rows the sequence does not know about.
	insertIssued(t, db, "ARS1002", "ARS1003")

	next := newOrder("B", "2", 10)
	require.NoError(t, repo.Create(ctx, next), "one retry is enough")
	assert.Equal(t, "ARS1004", next.OrderNo)

	var seq models.Sequence
	require.NoError(t, db.Where("name = ?", models.SequenceOrders).First(&seq).Error)
	assert.Equal(t, int64(4), seq.Value)
}

func TestOrderRepository_ConcurrentPlacementsGetDistinctNumbers(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(testkit.DB(t), 5)

	const n = 20
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		nums []string
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o := newOrder("Buyer", "9", 100)
			if assert.NoError(t, repo.Create(ctx, o)) {
				mu.Lock()
				nums = append(nums, o.OrderNo)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, nums, n)
	sort.Strings(nums)
	for i, no := range nums {
		assert.Equal(t, models.FormatOrderNo(int64(i+1)), no)
	}
}

func TestOrderRepository_NumbersNotReusedAfterDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(testkit.DB(t), 5)

	a := newOrder("A", "1", 10)
	require.NoError(t, repo.Create(ctx, a))
	b := newOrder("B", "2", 10)
	require.NoError(t, repo.Create(ctx, b))

	_, err := repo.Delete(ctx, b.ID)
	require.NoError(t, err)

	c := newOrder("C", "3", 10)
	require.NoError(t, repo.Create(ctx, c))
	assert.Equal(t, "ARS1003", c.OrderNo)

	_, err = repo.FindByID(ctx, b.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = repo.Delete(ctx, b.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestOrderRepository_ListFiltersAndOrdering(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(testkit.DB(t), 5)

	riya := newOrder("Riya Sharma", "9876500001", 100)
	require.NoError(t, repo.Create(ctx, riya))
	time.Sleep(5 * time.Millisecond)
	aman := newOrder("Aman", "9811122233", 200)
	require.NoError(t, repo.Create(ctx, aman))
	_, err := repo.UpdateStatus(ctx, aman.ID, models.StatusShipped)
	require.NoError(t, err)

	all, err := repo.List(ctx, filters.Build(filters.Orders, url.Values{}))
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, aman.ID, all[0].ID, "newest first")
	assert.Len(t, all[1].Items, 2)

	byPhone, err := repo.List(ctx, filters.Build(filters.Orders, url.Values{"search": {"98765"}}))
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	assert.Equal(t, riya.ID, byPhone[0].ID)

	byNumber, err := repo.List(ctx, filters.Build(filters.Orders, url.Values{"search": {"ars1002"}}))
	require.NoError(t, err)
	require.Len(t, byNumber, 1)
	assert.Equal(t, aman.ID, byNumber[0].ID)

	byName, err := repo.List(ctx, filters.Build(filters.Orders, url.Values{"search": {"RIYA"}}))
	require.NoError(t, err)
	assert.Len(t, byName, 1)

	shipped, err := repo.List(ctx, filters.Build(filters.Orders, url.Values{"status": {"shipped"}}))
	require.NoError(t, err)
	require.Len(t, shipped, 1)
	assert.Equal(t, aman.ID, shipped[0].ID)

	wildcard, err := repo.List(ctx, filters.Build(filters.Orders, url.Values{"search": {"%"}}))
	require.NoError(t, err)
	assert.Empty(t, wildcard, "LIKE wildcards are matched literally")
}

func TestOrderRepository_UpdateStatusMissing(t *testing.T) {
	repo := NewOrderRepository(testkit.DB(t), 5)
	_, err := repo.UpdateStatus(context.Background(), uuid.NewString(), models.StatusConfirmed)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, "Order not found", apperr.PublicMessage(err))
}

func TestOrderRepository_CountsAndRevenue(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(testkit.DB(t), 5)

	rev, err := repo.SumTotals(ctx, models.StatusCancelled)
	require.NoError(t, err)
	assert.True(t, rev.IsZero())

	for _, tc := range []struct {
		total  int64
		status models.Status
	}{{100, models.StatusPending}, {250, models.StatusDelivered}, {999, models.StatusCancelled}} {
		o := newOrder("X", "1", tc.total)
		require.NoError(t, repo.Create(ctx, o))
		_, err := repo.UpdateStatus(ctx, o.ID, tc.status)
		require.NoError(t, err)
	}

	total, err := repo.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	pending, err := repo.Count(ctx, models.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)

	rev, err = repo.SumTotals(ctx, models.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, "350", rev.String())
}

func newProduct(name string, cat models.Category, created time.Time) *models.Product {
	return &models.Product{
		ID:        uuid.NewString(),
		Name:      name,
		Category:  cat,
		Price:     decimal.NewFromInt(499),
		Age:       "3+ yrs",
		Desc:      "A toy",
		Bg:        models.DefaultBg,
		InStock:   true,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestProductRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(testkit.DB(t))
	now := time.Now()

	car := newProduct("Racing Car Set", models.CategoryVehicles, now.Add(-time.Minute))
	bear := newProduct("Giant Teddy Bear", models.CategoryStuffed, now)
	require.NoError(t, repo.Create(ctx, car))
	require.NoError(t, repo.Create(ctx, bear))

	all, err := repo.List(ctx, filters.Build(filters.Products, url.Values{"category": {"all"}}))
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, bear.ID, all[0].ID, "newest first")

	vehicles, err := repo.List(ctx, filters.Build(filters.Products, url.Values{"category": {"vehicles"}, "search": {"CAR"}}))
	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	assert.Equal(t, car.ID, vehicles[0].ID)

	unknown, err := repo.List(ctx, filters.Build(filters.Products, url.Values{"category": {"toys"}}))
	require.NoError(t, err)
	assert.Empty(t, unknown)

	car.InStock = false
	car.OriginalPrice = decimal.NewNullDecimal(decimal.NewFromInt(999))
	require.NoError(t, repo.Save(ctx, car))
	got, err := repo.FindByID(ctx, car.ID)
	require.NoError(t, err)
	assert.False(t, got.InStock)
	assert.True(t, got.OriginalPrice.Valid)

	deleted, err := repo.Delete(ctx, car.ID)
	require.NoError(t, err)
	assert.Equal(t, "Racing Car Set", deleted.Name)

	_, err = repo.FindByID(ctx, car.ID)
	assert.Equal(t, "Product not found", apperr.PublicMessage(err))
	_, err = repo.Delete(ctx, car.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.True(t, apperr.Is(repo.Save(ctx, car), apperr.KindNotFound))
}

func TestAdminRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAdminRepository(testkit.DB(t))

	a := &models.Admin{ID: uuid.NewString(), Name: "ARS Admin", Email: " Admin@ARSToys.com ", Password: "hash", Role: "admin"}
	require.NoError(t, repo.Create(ctx, a))
	assert.Equal(t, "admin@arstoys.com", a.Email)

	got, err := repo.FindByEmail(ctx, "ADMIN@arstoys.com")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = repo.FindByID(ctx, "missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
