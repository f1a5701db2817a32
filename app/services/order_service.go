package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"makers/app/models"
	"makers/app/repositories"
	"makers/pkg/cache"
	"makers/pkg/event"
	"makers/pkg/logger"
	"makers/pkg/metrics"
)

// OrderService implements the purchase flow and order management.
type OrderService struct {
	orders repositories.OrderRepository
	tools  repositories.ToolRepository
}

func NewOrderService(orders repositories.OrderRepository, tools repositories.ToolRepository) *OrderService {
	return &OrderService{orders: orders, tools: tools}
}

// Purchase inserts the order body verbatim, then atomically decrements the
// referenced tool's availableQty by orderQuantity. The decrement is a single
// server-side $inc, so concurrent purchases of the same tool serialize in
// the store and no update is lost. When the product id parses but matches no
// tool, the freshly inserted order is deleted again and ErrUnknownProduct is
// returned, so an order never outlives a failed adjustment.
//
// There is no floor on the decrement: overselling drives availableQty
// negative instead of rejecting the order.
func (s *OrderService) Purchase(ctx context.Context, doc bson.M) (models.InsertAck, error) {
	productID, err := primitive.ObjectIDFromHex(stringField(doc, "productId"))
	if err != nil {
		metrics.PurchasesTotal.WithLabelValues("error").Inc()
		return models.InsertAck{}, ErrInvalidID
	}

	qty, ok := asInt64(doc["orderQuantity"])
	if !ok {
		metrics.PurchasesTotal.WithLabelValues("error").Inc()
		return models.InsertAck{}, ErrBadQuantity
	}

	res, err := s.orders.Insert(ctx, doc)
	if err != nil {
		metrics.PurchasesTotal.WithLabelValues("error").Inc()
		return models.InsertAck{}, err
	}

	adj, err := s.tools.AdjustStock(ctx, productID, -qty)
	if err != nil || adj.MatchedCount == 0 {
		s.rollback(ctx, res)
		if err != nil {
			metrics.PurchasesTotal.WithLabelValues("error").Inc()
			return models.InsertAck{}, fmt.Errorf("adjust stock: %w", err)
		}
		metrics.PurchasesTotal.WithLabelValues("rolled_back").Inc()
		return models.InsertAck{}, ErrUnknownProduct
	}

	_ = cache.Del(toolsCacheKey)
	metrics.PurchasesTotal.WithLabelValues("ok").Inc()
	event.Fire(event.OrderCreated, doc)
	event.Fire(event.StockAdjusted, productID.Hex())

	return models.NewInsertAck(res), nil
}

// rollback compensates a failed stock adjustment by deleting the order that
// was just inserted.
func (s *OrderService) rollback(ctx context.Context, res *mongo.InsertOneResult) {
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return
	}
	if _, err := s.orders.DeleteByID(ctx, oid); err != nil {
		logger.WithCtx(ctx).Error("purchase rollback failed", "order_id", oid.Hex(), "error", err)
	}
}

// All returns every order, unfiltered and unsorted.
func (s *OrderService) All(ctx context.Context) ([]bson.M, error) {
	return s.orders.All(ctx)
}

// ByUser returns the orders whose user field equals email.
func (s *OrderService) ByUser(ctx context.Context, email string) ([]bson.M, error) {
	return s.orders.FindByUser(ctx, email)
}

// Update merges only the supplied fields into the order with the given id,
// creating the document when none exists.
func (s *OrderService) Update(ctx context.Context, id string, fields bson.M) (models.UpdateAck, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.UpdateAck{}, ErrInvalidID
	}

	res, err := s.orders.UpsertByID(ctx, oid, fields)
	if err != nil {
		return models.UpdateAck{}, err
	}
	return models.NewUpdateAck(res), nil
}

// Delete removes at most one order. A missing id still acknowledges with a
// zero deletedCount.
func (s *OrderService) Delete(ctx context.Context, id string) (models.DeleteAck, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.DeleteAck{}, ErrInvalidID
	}

	res, err := s.orders.DeleteByID(ctx, oid)
	if err != nil {
		return models.DeleteAck{}, err
	}
	return models.NewDeleteAck(res), nil
}

func stringField(doc bson.M, key string) string {
	s, _ := doc[key].(string)
	return s
}

// asInt64 coerces the JSON representations an order quantity arrives in:
// numbers decode as float64, and some clients send numeric strings.
func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}
