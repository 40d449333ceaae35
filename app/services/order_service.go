package services

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/arstoys/app/filters"
	"github.com/shashiranjanraj/arstoys/app/models"
	"github.com/shashiranjanraj/arstoys/pkg/apperr"
	"github.com/shashiranjanraj/arstoys/pkg/event"
	"github.com/shashiranjanraj/arstoys/pkg/logger"
	"github.com/shashiranjanraj/arstoys/pkg/metrics"
)

// ErrMissingFields is the public message for an incomplete order.
const ErrMissingFields = "Missing required fields"

// ItemInput is one cart line as sent by the storefront.
type ItemInput struct {
	Product string          `json:"product"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Qty     int             `json:"qty"`
	Img     string          `json:"img"`
	Emoji   string          `json:"emoji"`
}

// PlaceInput is a public order submission.
type PlaceInput struct {
	CustomerName string           `json:"customerName"`
	Phone        string           `json:"phone"`
	Address      string           `json:"address"`
	Items        []ItemInput      `json:"items"`
	Total        *decimal.Decimal `json:"total"`
	PaymentMode  string           `json:"paymentMode"`
	Notes        string           `json:"notes"`
}

// OrderService implements the order lifecycle.
type OrderService struct {
	orders OrderStore
	stats  *StatsAggregator
	events EventPublisher
}

// NewOrderService wires the order lifecycle. events may be nil.
func NewOrderService(orders OrderStore, events EventPublisher) *OrderService {
	return &OrderService{orders: orders, stats: NewStatsAggregator(orders), events: events}
}

// Place validates in and records a pending order under a fresh number.
func (s *OrderService) Place(ctx context.Context, in PlaceInput) (models.Order, error) {
	o, err := buildOrder(in)
	if err != nil {
		return models.Order{}, err
	}

	if err := s.orders.Create(ctx, &o); err != nil {
		return models.Order{}, err
	}

	metrics.OrderPlaced(string(o.PaymentMode))
	logger.WithCtx(ctx).Info("orders: placed", "order_no", o.OrderNo, "total", o.Total.String())
	s.fire(ctx, event.OrderPlaced, o)
	return o, nil
}

func buildOrder(in PlaceInput) (models.Order, error) {
	name := strings.TrimSpace(in.CustomerName)
	phone := strings.TrimSpace(in.Phone)
	if in.Total != nil && in.Total.IsNegative() {
		return models.Order{}, apperr.Validation("The total must be greater than or equal to 0.")
	}
	// A zero total counts as missing.
	if name == "" || phone == "" || len(in.Items) == 0 || in.Total == nil || in.Total.IsZero() {
		return models.Order{}, apperr.Validation(ErrMissingFields)
	}

	mode := models.PaymentMode(strings.ToLower(strings.TrimSpace(in.PaymentMode)))
	if mode == "" {
		mode = models.PaymentCOD
	}
	if !mode.Valid() {
		return models.Order{}, apperr.Validation("The selected paymentMode is invalid.")
	}

	items := make([]models.OrderItem, len(in.Items))
	for i, it := range in.Items {
		if it.Qty < 1 {
			return models.Order{}, apperr.Validation("The qty must be at least 1.")
		}
		if it.Price.IsNegative() {
			return models.Order{}, apperr.Validation("The price must be greater than or equal to 0.")
		}
		items[i] = models.OrderItem{
			Position:  i,
			ProductID: strings.TrimSpace(it.Product),
			Name:      strings.TrimSpace(it.Name),
			Price:     it.Price,
			Qty:       it.Qty,
			Img:       it.Img,
			Emoji:     it.Emoji,
		}
	}

	return models.Order{
		ID:           uuid.NewString(),
		CustomerName: name,
		Phone:        phone,
		Address:      strings.TrimSpace(in.Address),
		Items:        items,
		Total:        *in.Total,
		Status:       models.StatusPending,
		PaymentMode:  mode,
		Notes:        strings.TrimSpace(in.Notes),
	}, nil
}

// List returns orders matching the status and search parameters, newest
// first.
func (s *OrderService) List(ctx context.Context, q url.Values) ([]models.Order, error) {
	return s.orders.List(ctx, filters.Build(filters.Orders, q))
}

// Get returns one order.
func (s *OrderService) Get(ctx context.Context, id string) (models.Order, error) {
	return s.orders.FindByID(ctx, id)
}

// SetStatus moves an order to any valid status.
func (s *OrderService) SetStatus(ctx context.Context, id, status string) (models.Order, error) {
	st := models.Status(strings.ToLower(strings.TrimSpace(status)))
	if !st.Valid() {
		return models.Order{}, apperr.Validation("The selected status is invalid.")
	}

	o, err := s.orders.UpdateStatus(ctx, id, st)
	if err != nil {
		return models.Order{}, err
	}

	logger.WithCtx(ctx).Info("orders: status changed", "order_no", o.OrderNo, "status", st)
	s.fire(ctx, event.OrderStatusChanged, o)
	return o, nil
}

// Delete removes an order and its items.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	o, err := s.orders.Delete(ctx, id)
	if err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("orders: deleted", "order_no", o.OrderNo)
	s.fire(ctx, event.OrderDeleted, o)
	return nil
}

// Stats returns the dashboard counters.
func (s *OrderService) Stats(ctx context.Context) (Stats, error) {
	return s.stats.Compute(ctx)
}

func (s *OrderService) fire(ctx context.Context, name string, o models.Order) {
	if s.events != nil {
		s.events.Fire(ctx, name, o)
	}
}
