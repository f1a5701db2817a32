package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"makers/app/controllers"
	"makers/app/models"
	"makers/app/repositories"
	"makers/app/routes"
	"makers/app/services"
	"makers/pkg/auth"
	"makers/pkg/middleware"
	"makers/pkg/router"
)

// store is a single in-memory document store backing all three repository
// interfaces, so one fixture drives the full handler stack.
type store struct {
	mu    sync.Mutex
	tools map[primitive.ObjectID]bson.M
	order []primitive.ObjectID

	orders     map[primitive.ObjectID]bson.M
	orderOrder []primitive.ObjectID

	users map[string]bson.M
}

func newStore() *store {
	return &store{
		tools:  map[primitive.ObjectID]bson.M{},
		orders: map[primitive.ObjectID]bson.M{},
		users:  map[string]bson.M{},
	}
}

func (s *store) addTool(doc bson.M) primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := primitive.NewObjectID()
	doc["_id"] = id
	s.tools[id] = doc
	s.order = append(s.order, id)
	return id
}

func (s *store) addUser(email, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = bson.M{"email": email, "role": role}
}

// toolRepo

type toolRepo struct{ s *store }

func (r toolRepo) All(context.Context) ([]bson.M, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]bson.M, 0, len(r.s.order))
	for _, id := range r.s.order {
		out = append(out, r.s.tools[id])
	}
	return out, nil
}

func (r toolRepo) FindByID(_ context.Context, id primitive.ObjectID) (bson.M, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.tools[id], nil
}

func (r toolRepo) Insert(_ context.Context, doc bson.M) (*mongo.InsertOneResult, error) {
	return &mongo.InsertOneResult{InsertedID: r.s.addTool(doc)}, nil
}

func (r toolRepo) UpsertByID(_ context.Context, id primitive.ObjectID, fields bson.M) (*mongo.UpdateResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if doc, ok := r.s.tools[id]; ok {
		for k, v := range fields {
			doc[k] = v
		}
		return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
	}
	doc := bson.M{"_id": id}
	for k, v := range fields {
		doc[k] = v
	}
	r.s.tools[id] = doc
	r.s.order = append(r.s.order, id)
	return &mongo.UpdateResult{UpsertedCount: 1, UpsertedID: id}, nil
}

func (r toolRepo) AdjustStock(_ context.Context, id primitive.ObjectID, delta int64) (*mongo.UpdateResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	doc, ok := r.s.tools[id]
	if !ok {
		return &mongo.UpdateResult{}, nil
	}
	qty, _ := doc["availableQty"].(int64)
	doc["availableQty"] = qty + delta
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

// orderRepo

type orderRepo struct{ s *store }

func (r orderRepo) All(context.Context) ([]bson.M, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]bson.M, 0, len(r.s.orderOrder))
	for _, id := range r.s.orderOrder {
		out = append(out, r.s.orders[id])
	}
	return out, nil
}

func (r orderRepo) FindByUser(_ context.Context, email string) ([]bson.M, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []bson.M
	for _, id := range r.s.orderOrder {
		if r.s.orders[id]["user"] == email {
			out = append(out, r.s.orders[id])
		}
	}
	return out, nil
}

func (r orderRepo) Insert(_ context.Context, doc bson.M) (*mongo.InsertOneResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id := primitive.NewObjectID()
	doc["_id"] = id
	r.s.orders[id] = doc
	r.s.orderOrder = append(r.s.orderOrder, id)
	return &mongo.InsertOneResult{InsertedID: id}, nil
}

func (r orderRepo) UpsertByID(_ context.Context, id primitive.ObjectID, fields bson.M) (*mongo.UpdateResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if doc, ok := r.s.orders[id]; ok {
		for k, v := range fields {
			doc[k] = v
		}
		return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
	}
	doc := bson.M{"_id": id}
	for k, v := range fields {
		doc[k] = v
	}
	r.s.orders[id] = doc
	r.s.orderOrder = append(r.s.orderOrder, id)
	return &mongo.UpdateResult{UpsertedCount: 1, UpsertedID: id}, nil
}

func (r orderRepo) DeleteByID(_ context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[id]; !ok {
		return &mongo.DeleteResult{}, nil
	}
	delete(r.s.orders, id)
	for i, oid := range r.s.orderOrder {
		if oid == id {
			r.s.orderOrder = append(r.s.orderOrder[:i], r.s.orderOrder[i+1:]...)
			break
		}
	}
	return &mongo.DeleteResult{DeletedCount: 1}, nil
}

// userRepo

type userRepo struct{ s *store }

func (r userRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	doc, ok := r.s.users[email]
	if !ok {
		return nil, nil
	}
	u := &models.User{Email: email}
	u.Role, _ = doc["role"].(string)
	return u, nil
}

func (r userRepo) UpsertByEmail(_ context.Context, email string, fields bson.M) (*mongo.UpdateResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if doc, ok := r.s.users[email]; ok {
		for k, v := range fields {
			doc[k] = v
		}
		return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
	}
	doc := bson.M{"email": email}
	for k, v := range fields {
		doc[k] = v
	}
	r.s.users[email] = doc
	return &mongo.UpdateResult{UpsertedCount: 1, UpsertedID: primitive.NewObjectID()}, nil
}

func (r userRepo) RoleByEmail(_ context.Context, email string) (string, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	doc, ok := r.s.users[email]
	if !ok {
		return "", false, nil
	}
	role, _ := doc["role"].(string)
	return role, true, nil
}

var (
	_ repositories.ToolRepository  = toolRepo{}
	_ repositories.OrderRepository = orderRepo{}
	_ repositories.UserRepository  = userRepo{}
)

func newTestRouter(s *store) http.Handler {
	tools := toolRepo{s}
	orders := orderRepo{s}
	users := userRepo{s}

	c := routes.Controllers{
		Catalog:  controllers.NewCatalogController(services.NewCatalogService(tools)),
		Orders:   controllers.NewOrderController(services.NewOrderService(orders, tools)),
		Accounts: controllers.NewAccountController(services.NewAccountService(users)),
	}

	r := router.New()
	r.Use(middleware.Recovery)
	routes.RegisterAPI(r, c, users)
	return r.Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, rec.Body.Bytes()
}

func adminToken(t *testing.T, s *store) string {
	t.Helper()
	s.addUser("boss@example.com", "admin")
	token, err := auth.GenerateToken("boss@example.com")
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestBanner(t *testing.T) {
	h := newTestRouter(newStore())
	rec, body := doJSON(t, h, http.MethodGet, "/", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Makers Server!", string(body))
}

func TestToolsListing(t *testing.T) {
	s := newStore()
	s.addTool(bson.M{"name": "Drill", "availableQty": int64(10)})
	s.addTool(bson.M{"name": "Grinder", "availableQty": int64(20)})

	rec, body := doJSON(t, newTestRouter(s), http.MethodGet, "/tools", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var tools []map[string]interface{}
	if err := json.Unmarshal(body, &tools); err != nil {
		t.Fatalf("body %s: %v", body, err)
	}
	assert.Len(t, tools, 2)
	assert.Equal(t, "Drill", tools[0]["name"])
}

func TestToolShowAbsentIsNull(t *testing.T) {
	h := newTestRouter(newStore())
	rec, body := doJSON(t, h, http.MethodGet, "/tools/"+primitive.NewObjectID().Hex(), "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", string(bytes.TrimSpace(body)))
}

func TestToolShowBadID(t *testing.T) {
	h := newTestRouter(newStore())
	rec, _ := doJSON(t, h, http.MethodGet, "/tools/bogus", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateToolRequiresAuth(t *testing.T) {
	h := newTestRouter(newStore())

	rec, _ := doJSON(t, h, http.MethodPost, "/tool", "", bson.M{"name": "X"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateToolRejectsNonAdmin(t *testing.T) {
	s := newStore()
	s.addUser("buyer@example.com", "buyer")
	token, err := auth.GenerateToken("buyer@example.com")
	if err != nil {
		t.Fatal(err)
	}

	rec, _ := doJSON(t, newTestRouter(s), http.MethodPost, "/tool", token, bson.M{"name": "X"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateToolRejectsUnknownCaller(t *testing.T) {
	s := newStore()
	// Valid token, but no stored user document.
	token, err := auth.GenerateToken("ghost@example.com")
	if err != nil {
		t.Fatal(err)
	}

	rec, _ := doJSON(t, newTestRouter(s), http.MethodPost, "/tool", token, bson.M{"name": "X"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateToolAsAdmin(t *testing.T) {
	s := newStore()
	token := adminToken(t, s)

	rec, body := doJSON(t, newTestRouter(s), http.MethodPost, "/tool", token, bson.M{
		"name":         "Jack",
		"price":        210.0,
		"availableQty": 90,
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Result  struct {
			InsertedID string `json:"insertedId"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("body %s: %v", body, err)
	}
	assert.True(t, resp.Success)
	assert.Len(t, resp.Result.InsertedID, 24)
}

func TestUpdateToolIsOpen(t *testing.T) {
	s := newStore()
	id := s.addTool(bson.M{"name": "Drill", "price": 120.0})

	rec, _ := doJSON(t, newTestRouter(s), http.MethodPut, "/tool/"+id.Hex(), "", bson.M{"price": 99.0})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 99.0, s.tools[id]["price"])
}

func TestPurchaseFlow(t *testing.T) {
	s := newStore()
	id := s.addTool(bson.M{"name": "Drill", "availableQty": int64(100)})
	h := newTestRouter(s)

	rec, _ := doJSON(t, h, http.MethodPost, "/purchase", "", bson.M{
		"user":          "buyer@example.com",
		"productId":     id.Hex(),
		"orderQuantity": 30,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(70), s.tools[id]["availableQty"])

	rec, body := doJSON(t, h, http.MethodGet, "/myorders/buyer@example.com", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var mine []map[string]interface{}
	if err := json.Unmarshal(body, &mine); err != nil {
		t.Fatalf("body %s: %v", body, err)
	}
	assert.Len(t, mine, 1)

	rec, body = doJSON(t, h, http.MethodGet, "/allorders", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var all []map[string]interface{}
	if err := json.Unmarshal(body, &all); err != nil {
		t.Fatalf("body %s: %v", body, err)
	}
	assert.Len(t, all, 1)
}

func TestPurchaseUnknownProduct(t *testing.T) {
	s := newStore()
	h := newTestRouter(s)

	rec, _ := doJSON(t, h, http.MethodPost, "/purchase", "", bson.M{
		"productId":     primitive.NewObjectID().Hex(),
		"orderQuantity": 5,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, s.orders)
}

func TestRegisterUser(t *testing.T) {
	s := newStore()
	h := newTestRouter(s)

	rec, body := doJSON(t, h, http.MethodPut, "/user/new@example.com", "", bson.M{
		"email": "new@example.com",
		"name":  "New User",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Result map[string]interface{} `json:"result"`
		Token  string                 `json:"token"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("body %s: %v", body, err)
	}

	claims, err := auth.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	assert.Equal(t, "new@example.com", claims.Email)
}

func TestAdminProbe(t *testing.T) {
	s := newStore()
	s.addUser("boss@example.com", "admin")
	h := newTestRouter(s)

	rec, body := doJSON(t, h, http.MethodGet, "/admin/boss@example.com", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"admin": true}`, string(body))

	rec, body = doJSON(t, h, http.MethodGet, "/admin/ghost@example.com", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"admin": false}`, string(body))
}

func TestOrderUpdateAndDeleteRoutes(t *testing.T) {
	s := newStore()
	h := newTestRouter(s)

	res, _ := orderRepo{s}.Insert(context.Background(), bson.M{"user": "a@example.com"})
	id := res.InsertedID.(primitive.ObjectID)

	rec, _ := doJSON(t, h, http.MethodPut, "/myorders/"+id.Hex(), "", bson.M{"status": "shipped"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "shipped", s.orders[id]["status"])

	rec, body := doJSON(t, h, http.MethodDelete, "/myorders/"+id.Hex(), "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Result  struct {
			DeletedCount int `json:"deletedCount"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("body %s: %v", body, err)
	}
	assert.Equal(t, 1, resp.Result.DeletedCount)
	assert.Empty(t, s.orders)
}
