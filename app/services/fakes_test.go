package services_test

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"makers/app/models"
)

// In-memory repository fakes. They mimic the driver's document-store
// semantics closely enough for the service tests: upserts merge fields,
// unknown ids match nothing, deletes of missing ids acknowledge zero.

type memToolRepo struct {
	mu    sync.Mutex
	docs  map[primitive.ObjectID]bson.M
	order []primitive.ObjectID

	allErr    error
	insertErr error
	adjustErr error
}

func newMemToolRepo() *memToolRepo {
	return &memToolRepo{docs: map[primitive.ObjectID]bson.M{}}
}

func (r *memToolRepo) add(doc bson.M) primitive.ObjectID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	doc["_id"] = id
	r.docs[id] = doc
	r.order = append(r.order, id)
	return id
}

func (r *memToolRepo) All(context.Context) ([]bson.M, error) {
	if r.allErr != nil {
		return nil, r.allErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]bson.M, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.docs[id])
	}
	return out, nil
}

func (r *memToolRepo) FindByID(_ context.Context, id primitive.ObjectID) (bson.M, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.docs[id], nil
}

func (r *memToolRepo) Insert(_ context.Context, doc bson.M) (*mongo.InsertOneResult, error) {
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	id := r.add(doc)
	return &mongo.InsertOneResult{InsertedID: id}, nil
}

func (r *memToolRepo) UpsertByID(_ context.Context, id primitive.ObjectID, fields bson.M) (*mongo.UpdateResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if doc, ok := r.docs[id]; ok {
		for k, v := range fields {
			doc[k] = v
		}
		return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
	}

	doc := bson.M{"_id": id}
	for k, v := range fields {
		doc[k] = v
	}
	r.docs[id] = doc
	r.order = append(r.order, id)
	return &mongo.UpdateResult{UpsertedCount: 1, UpsertedID: id}, nil
}

func (r *memToolRepo) AdjustStock(_ context.Context, id primitive.ObjectID, delta int64) (*mongo.UpdateResult, error) {
	if r.adjustErr != nil {
		return nil, r.adjustErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[id]
	if !ok {
		return &mongo.UpdateResult{}, nil
	}
	qty, _ := doc["availableQty"].(int64)
	doc["availableQty"] = qty + delta
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

type memOrderRepo struct {
	mu    sync.Mutex
	docs  map[primitive.ObjectID]bson.M
	order []primitive.ObjectID

	insertErr error
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{docs: map[primitive.ObjectID]bson.M{}}
}

func (r *memOrderRepo) All(context.Context) ([]bson.M, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]bson.M, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.docs[id])
	}
	return out, nil
}

func (r *memOrderRepo) FindByUser(_ context.Context, email string) ([]bson.M, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []bson.M
	for _, id := range r.order {
		if r.docs[id]["user"] == email {
			out = append(out, r.docs[id])
		}
	}
	return out, nil
}

func (r *memOrderRepo) Insert(_ context.Context, doc bson.M) (*mongo.InsertOneResult, error) {
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	doc["_id"] = id
	r.docs[id] = doc
	r.order = append(r.order, id)
	return &mongo.InsertOneResult{InsertedID: id}, nil
}

func (r *memOrderRepo) UpsertByID(_ context.Context, id primitive.ObjectID, fields bson.M) (*mongo.UpdateResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if doc, ok := r.docs[id]; ok {
		for k, v := range fields {
			doc[k] = v
		}
		return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
	}

	doc := bson.M{"_id": id}
	for k, v := range fields {
		doc[k] = v
	}
	r.docs[id] = doc
	r.order = append(r.order, id)
	return &mongo.UpdateResult{UpsertedCount: 1, UpsertedID: id}, nil
}

func (r *memOrderRepo) DeleteByID(_ context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[id]; !ok {
		return &mongo.DeleteResult{}, nil
	}
	delete(r.docs, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return &mongo.DeleteResult{DeletedCount: 1}, nil
}

type memUserRepo struct {
	mu   sync.Mutex
	docs map[string]bson.M

	findErr error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{docs: map[string]bson.M{}}
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[email]
	if !ok {
		return nil, nil
	}
	u := &models.User{Email: email}
	u.Name, _ = doc["name"].(string)
	u.Role, _ = doc["role"].(string)
	return u, nil
}

func (r *memUserRepo) UpsertByEmail(_ context.Context, email string, fields bson.M) (*mongo.UpdateResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if doc, ok := r.docs[email]; ok {
		for k, v := range fields {
			doc[k] = v
		}
		return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
	}

	doc := bson.M{"email": email}
	for k, v := range fields {
		doc[k] = v
	}
	r.docs[email] = doc
	return &mongo.UpdateResult{UpsertedCount: 1, UpsertedID: primitive.NewObjectID()}, nil
}

func (r *memUserRepo) RoleByEmail(ctx context.Context, email string) (string, bool, error) {
	u, err := r.FindByEmail(ctx, email)
	if err != nil {
		return "", false, err
	}
	if u == nil {
		return "", false, nil
	}
	return u.Role, true, nil
}
