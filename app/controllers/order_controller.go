package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/arstoys/app/services"
	"github.com/shashiranjanraj/arstoys/pkg/bind"
	"github.com/shashiranjanraj/arstoys/pkg/response"
	"github.com/shashiranjanraj/arstoys/pkg/router"
)

type OrderController struct {
	orders Orders
}

func NewOrderController(o Orders) *OrderController {
	return &OrderController{orders: o}
}

// Store handles POST /api/orders, the public checkout.
func (c *OrderController) Store(w http.ResponseWriter, r *http.Request) {
	var in services.PlaceInput
	if err := bind.JSON(w, r, &in); err != nil {
		response.Fail(w, r, err)
		return
	}

	o, err := c.orders.Place(r.Context(), in)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Created(w, response.Payload{"order": o})
}

// Index handles GET /api/orders?status=&search=.
func (c *OrderController) Index(w http.ResponseWriter, r *http.Request) {
	orders, err := c.orders.List(r.Context(), r.URL.Query())
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.Payload{"orders": orders})
}

// Stats handles GET /api/orders/stats.
func (c *OrderController) Stats(w http.ResponseWriter, r *http.Request) {
	s, err := c.orders.Stats(r.Context())
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.Payload{
		"total":   s.Total,
		"pending": s.Pending,
		"revenue": s.Revenue,
	})
}

// Show handles GET /api/orders/{id}.
func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	o, err := c.orders.Get(r.Context(), router.Param(r, "id"))
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.Payload{"order": o})
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus handles PUT /api/orders/{id}/status.
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body statusRequest
	if err := bind.JSON(w, r, &body); err != nil {
		response.Fail(w, r, err)
		return
	}

	o, err := c.orders.SetStatus(r.Context(), router.Param(r, "id"), body.Status)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.Payload{"order": o})
}

// Destroy handles DELETE /api/orders/{id}.
func (c *OrderController) Destroy(w http.ResponseWriter, r *http.Request) {
	if err := c.orders.Delete(r.Context(), router.Param(r, "id")); err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Message(w, "Order deleted")
}
