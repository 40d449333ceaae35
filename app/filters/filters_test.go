package filters_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/arstoys/app/filters"
	"github.com/shashiranjanraj/arstoys/app/models"
)

func TestBuildNormalizesSentinels(t *testing.T) {
	for _, raw := range []string{"", "status=all", "status=ALL", "status=%20%20&search=%20"} {
		q, _ := url.ParseQuery(raw)
		p := filters.Build(filters.Orders, q)
		assert.True(t, p.IsZero(), raw)
	}

	q := url.Values{"status": {"shipped"}, "search": {"  AnA "}}
	p := filters.Build(filters.Orders, q)
	assert.Equal(t, "shipped", p.Value)
	assert.Equal(t, "ana", p.Search)
}

func TestBuildIsDeterministic(t *testing.T) {
	q := url.Values{"category": {"vehicles"}, "search": {"Car"}}
	a := filters.Build(filters.Products, q)
	b := filters.Build(filters.Products, q)
	assert.Equal(t, a, b)
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), filters.Build(filters.Products, url.Values{"search": {"Car"}}).Key())
}

func TestMatchOrSearchAcrossOrderFields(t *testing.T) {
	p := filters.Build(filters.Orders, url.Values{"search": {"ana"}})

	byName := models.Order{CustomerName: "Ananya", Phone: "9000000000", OrderNo: "ARS1001"}
	byPhone := models.Order{CustomerName: "Riya", Phone: "9198ANA123", OrderNo: "ARS1002"}
	neither := models.Order{CustomerName: "Riya", Phone: "9999999999", OrderNo: "ARS1003"}

	assert.True(t, p.Match(byName.Fields()))
	assert.True(t, p.Match(byPhone.Fields()))
	assert.False(t, p.Match(neither.Fields()))
}

func TestMatchProductsSearchesNameOnly(t *testing.T) {
	p := filters.Build(filters.Products, url.Values{"category": {"vehicles"}, "search": {"car"}})

	assert.True(t, p.Match(models.Product{Name: "Racing Car Set", Category: models.CategoryVehicles}.Fields()))
	assert.False(t, p.Match(models.Product{Name: "Racing Car Set", Category: models.CategoryOutdoor}.Fields()))
	assert.False(t, p.Match(models.Product{Name: "RC Helicopter", Category: models.CategoryVehicles, Desc: "car"}.Fields()))
}

func TestSearchIsLiteral(t *testing.T) {
	p := filters.Build(filters.Products, url.Values{"search": {"100%"}})
	assert.True(t, p.Match(map[string]string{"name": "100% cotton bear"}))
	assert.False(t, p.Match(map[string]string{"name": "1000 piece puzzle"}))
}
