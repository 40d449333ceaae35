package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/arstoys/app/models"
)

// Stats are the admin dashboard counters.
type Stats struct {
	Total   int64           `json:"total"`
	Pending int64           `json:"pending"`
	Revenue decimal.Decimal `json:"revenue"`
}

// StatsAggregator derives Stats from the order store on every call.
type StatsAggregator struct {
	orders OrderCounter
}

func NewStatsAggregator(orders OrderCounter) *StatsAggregator {
	return &StatsAggregator{orders: orders}
}

// Compute counts all orders and pending ones, and sums the totals of every
// order that was not cancelled.
func (a *StatsAggregator) Compute(ctx context.Context) (Stats, error) {
	total, err := a.orders.Count(ctx, "")
	if err != nil {
		return Stats{}, err
	}
	pending, err := a.orders.Count(ctx, models.StatusPending)
	if err != nil {
		return Stats{}, err
	}
	revenue, err := a.orders.SumTotals(ctx, models.StatusCancelled)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Total: total, Pending: pending, Revenue: revenue}, nil
}
