package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"

	"makers/app/services"
	"makers/pkg/logger"
	"makers/pkg/response"
)

// OrderController serves the purchase flow and the order listings.
type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

// Purchase records an order and decrements the tool's stock. On success the
// body is {"success": true, "result": {...insert ack...}}.
func (c *OrderController) Purchase(w http.ResponseWriter, r *http.Request) {
	var doc bson.M
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ack, err := c.service.Purchase(r.Context(), doc)
	if err != nil {
		writeServiceError(w, r, err, "purchase")
		return
	}
	response.OK(w, map[string]interface{}{
		"success": true,
		"result":  ack,
	})
}

// All responds with every order as a bare JSON array.
func (c *OrderController) All(w http.ResponseWriter, r *http.Request) {
	orders, err := c.service.All(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("list orders", "error", err)
		response.ServerError(w, "could not load orders")
		return
	}
	response.OK(w, orders)
}

// ByUser responds with the orders placed under the email in the path.
func (c *OrderController) ByUser(w http.ResponseWriter, r *http.Request) {
	orders, err := c.service.ByUser(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		logger.WithCtx(r.Context()).Error("list user orders", "error", err)
		response.ServerError(w, "could not load orders")
		return
	}
	response.OK(w, orders)
}

// Update merges the posted fields into an order, creating it when absent.
func (c *OrderController) Update(w http.ResponseWriter, r *http.Request) {
	var fields bson.M
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ack, err := c.service.Update(r.Context(), chi.URLParam(r, "id"), fields)
	if err != nil {
		writeServiceError(w, r, err, "update order")
		return
	}
	response.OK(w, map[string]interface{}{
		"success": true,
		"result":  ack,
	})
}

// Delete removes an order, acknowledging whether or not a document matched.
func (c *OrderController) Delete(w http.ResponseWriter, r *http.Request) {
	ack, err := c.service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, "delete order")
		return
	}
	response.OK(w, map[string]interface{}{
		"success": true,
		"result":  ack,
	})
}
