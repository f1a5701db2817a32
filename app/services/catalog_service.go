package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"makers/app/models"
	"makers/app/repositories"
	"makers/pkg/cache"
	"makers/pkg/event"
	"makers/pkg/storage"
)

const (
	toolsCacheKey = "tools:all"
	toolsCacheTTL = time.Minute
)

// CatalogService serves the tool catalog.
type CatalogService struct {
	tools repositories.ToolRepository
}

func NewCatalogService(tools repositories.ToolRepository) *CatalogService {
	return &CatalogService{tools: tools}
}

// List returns every tool document in storage order. Results are served
// from the Redis cache when warm; catalog writes invalidate the key.
func (s *CatalogService) List(ctx context.Context) ([]bson.M, error) {
	var cached []bson.M
	if cache.Get(toolsCacheKey, &cached) {
		return cached, nil
	}

	tools, err := s.tools.All(ctx)
	if err != nil {
		return nil, err
	}

	_ = cache.Set(toolsCacheKey, tools, toolsCacheTTL)
	return tools, nil
}

// Get returns the tool document for the hex id, nil when absent, or
// ErrInvalidID when the id does not parse.
func (s *CatalogService) Get(ctx context.Context, id string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}
	return s.tools.FindByID(ctx, oid)
}

// Create inserts the body verbatim as a new tool. No schema validation —
// the catalog accepts whatever the admin sends.
func (s *CatalogService) Create(ctx context.Context, doc bson.M) (models.InsertAck, error) {
	res, err := s.tools.Insert(ctx, doc)
	if err != nil {
		return models.InsertAck{}, err
	}

	s.invalidate()
	return models.NewInsertAck(res), nil
}

// Update merges only the supplied fields into the tool with the given id,
// creating the document when none exists.
func (s *CatalogService) Update(ctx context.Context, id string, fields bson.M) (models.UpdateAck, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.UpdateAck{}, ErrInvalidID
	}

	res, err := s.tools.UpsertByID(ctx, oid, fields)
	if err != nil {
		return models.UpdateAck{}, err
	}

	s.invalidate()
	return models.NewUpdateAck(res), nil
}

// AttachImage stores an uploaded image on the configured disk and points
// the tool's img field at its public URL.
func (s *CatalogService) AttachImage(ctx context.Context, id, filename string, r io.Reader) (string, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return "", ErrInvalidID
	}

	key := fmt.Sprintf("tools/%s%s", oid.Hex(), path.Ext(filename))
	if err := storage.PutStream(key, r); err != nil {
		return "", err
	}

	url := storage.URL(key)
	if _, err := s.tools.UpsertByID(ctx, oid, bson.M{"img": url}); err != nil {
		return "", err
	}

	s.invalidate()
	return url, nil
}

func (s *CatalogService) invalidate() {
	_ = cache.Del(toolsCacheKey)
	event.Fire(event.CatalogChanged, toolsCacheKey)
}
