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

// AccountController serves user upsert plus the admin probe.
type AccountController struct {
	service *services.AccountService
}

func NewAccountController(service *services.AccountService) *AccountController {
	return &AccountController{service: service}
}

// Register upserts the profile addressed by the email in the path and
// responds with {"result": {...update ack...}, "token": "<jwt>"}. The same
// call serves first registration and every later sign-in.
func (c *AccountController) Register(w http.ResponseWriter, r *http.Request) {
	var fields bson.M
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ack, token, err := c.service.Register(r.Context(), chi.URLParam(r, "email"), fields)
	if err != nil {
		logger.WithCtx(r.Context()).Error("register user", "error", err)
		response.ServerError(w, "could not register user")
		return
	}
	response.OK(w, map[string]interface{}{
		"result": ack,
		"token":  token,
	})
}

// IsAdmin responds with {"admin": true|false}. An unknown email is simply
// not an admin.
func (c *AccountController) IsAdmin(w http.ResponseWriter, r *http.Request) {
	admin, err := c.service.IsAdmin(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		logger.WithCtx(r.Context()).Error("admin probe", "error", err)
		response.ServerError(w, "could not check role")
		return
	}
	response.OK(w, map[string]bool{"admin": admin})
}

// Banner is the root liveness page.
func Banner(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Makers Server!"))
}
