package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status is an order's lifecycle stage. Any status may move to any other.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Statuses lists every valid status in lifecycle order.
var Statuses = []Status{
	StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled,
}

// Valid reports whether s is one of Statuses.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// PaymentMode is a label only; no settlement happens here.
type PaymentMode string

const (
	PaymentCOD    PaymentMode = "cod"
	PaymentUPI    PaymentMode = "upi"
	PaymentOnline PaymentMode = "online"
)

// Valid reports whether p is cod, upi or online.
func (p PaymentMode) Valid() bool {
	switch p {
	case PaymentCOD, PaymentUPI, PaymentOnline:
		return true
	}
	return false
}

// OrderNoPrefix starts every human-readable order number.
const OrderNoPrefix = "ARS"

// OrderNoBase is added to the sequence value, so the first order of an
// empty store is ARS1001.
const OrderNoBase = 1000

// FormatOrderNo renders sequence value n as an order number, zero-padded
// to at least four digits.
func FormatOrderNo(n int64) string {
	return fmt.Sprintf("%s%04d", OrderNoPrefix, OrderNoBase+n)
}

// ParseOrderNo is the inverse of FormatOrderNo. ok is false for numbers
// that FormatOrderNo cannot have produced.
func ParseOrderNo(no string) (n int64, ok bool) {
	digits, found := strings.CutPrefix(no, OrderNoPrefix)
	if !found || digits == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || v <= OrderNoBase {
		return 0, false
	}
	return v - OrderNoBase, true
}

// Order is a customer order. OrderNo is assigned once, at creation.
type Order struct {
	ID           string          `gorm:"primaryKey;size:36"                              json:"_id"`
	OrderNo      string          `gorm:"size:16;not null;uniqueIndex"                    json:"orderNo"`
	CustomerName string          `gorm:"size:255;not null"                               json:"customerName"`
	Phone        string          `gorm:"size:32;not null;index"                          json:"phone"`
	Address      string          `gorm:"type:text"                                       json:"address"`
	Items        []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"  json:"items"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"                     json:"total"`
	Status       Status          `gorm:"size:16;not null;index"                          json:"status"`
	PaymentMode  PaymentMode     `gorm:"size:16;not null"                                json:"paymentMode"`
	Notes        string          `gorm:"type:text"                                       json:"notes"`
	CreatedAt    time.Time       `gorm:"index"                                           json:"createdAt"`
}

// Fields exposes the searchable text of o to in-memory predicates.
func (o Order) Fields() map[string]string {
	return map[string]string{
		"customer_name": o.CustomerName,
		"phone":         o.Phone,
		"order_no":      o.OrderNo,
		"status":        string(o.Status),
	}
}

// OrderItem is a snapshot of a product taken when the order was placed.
// ProductID is informational: the product may since have been deleted.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"     json:"-"`
	OrderID   string          `gorm:"size:36;not null;index"       json:"-"`
	Position  int             `gorm:"not null"                     json:"-"`
	ProductID string          `gorm:"size:36"                      json:"product,omitempty"`
	Name      string          `gorm:"size:255"                     json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"  json:"price"`
	Qty       int             `gorm:"not null"                     json:"qty"`
	Img       string          `gorm:"size:1024"                    json:"img"`
	Emoji     string          `gorm:"size:32"                      json:"emoji"`
}

// Sequence is a named monotonically increasing counter.
type Sequence struct {
	Name  string `gorm:"primaryKey;size:64"`
	Value int64  `gorm:"not null"`
}

// SequenceOrders backs order-number allocation.
const SequenceOrders = "orders"
