package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"

	"makers/app/services"
	"makers/pkg/logger"
	"makers/pkg/response"
)

// CatalogController serves the tool catalog: the public browse endpoints and
// the admin-only write endpoints.
type CatalogController struct {
	service *services.CatalogService
}

func NewCatalogController(service *services.CatalogService) *CatalogController {
	return &CatalogController{service: service}
}

// List responds with every tool as a bare JSON array.
func (c *CatalogController) List(w http.ResponseWriter, r *http.Request) {
	tools, err := c.service.List(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("list tools", "error", err)
		response.ServerError(w, "could not load tools")
		return
	}
	response.OK(w, tools)
}

// Get responds with the single tool document, or JSON null when no tool has
// that id.
func (c *CatalogController) Get(w http.ResponseWriter, r *http.Request) {
	tool, err := c.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, "load tool")
		return
	}
	response.OK(w, tool)
}

// Create inserts the posted document verbatim and acknowledges with
// {"success": true, "result": {...insert ack...}}.
func (c *CatalogController) Create(w http.ResponseWriter, r *http.Request) {
	var doc bson.M
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ack, err := c.service.Create(r.Context(), doc)
	if err != nil {
		writeServiceError(w, r, err, "create tool")
		return
	}
	response.OK(w, map[string]interface{}{
		"success": true,
		"result":  ack,
	})
}

// Update merges the posted fields into the addressed tool, creating it when
// absent.
func (c *CatalogController) Update(w http.ResponseWriter, r *http.Request) {
	var fields bson.M
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ack, err := c.service.Update(r.Context(), chi.URLParam(r, "id"), fields)
	if err != nil {
		writeServiceError(w, r, err, "update tool")
		return
	}
	response.OK(w, map[string]interface{}{
		"success": true,
		"result":  ack,
	})
}

// UploadImage accepts a multipart form with an "image" part, stores the file
// and points the tool's img field at its public URL.
func (c *CatalogController) UploadImage(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	url, err := c.service.AttachImage(r.Context(), chi.URLParam(r, "id"), header.Filename, file)
	if err != nil {
		writeServiceError(w, r, err, "upload image")
		return
	}
	response.OK(w, map[string]interface{}{
		"success": true,
		"url":     url,
	})
}

// writeServiceError maps service sentinels onto the error envelope. Anything
// unrecognized is a 500 with the incident logged against the request id.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case errors.Is(err, services.ErrInvalidID):
		response.Error(w, http.StatusBadRequest, "invalid id")
	case errors.Is(err, services.ErrBadQuantity):
		response.Error(w, http.StatusBadRequest, "invalid order quantity")
	case errors.Is(err, services.ErrUnknownProduct):
		response.Error(w, http.StatusUnprocessableEntity, "unknown product")
	default:
		logger.WithCtx(r.Context()).Error(op, "error", err)
		response.ServerError(w, "something went wrong")
	}
}
