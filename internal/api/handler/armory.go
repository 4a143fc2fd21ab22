package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/bastiongames/bastion/internal/api/middleware"
	"github.com/bastiongames/bastion/internal/api/request"
	"github.com/bastiongames/bastion/internal/api/response"
	"github.com/bastiongames/bastion/internal/model"
	"github.com/bastiongames/bastion/internal/services/armory"
)

// ArmoryHandler handles tower catalog and inventory endpoints
type ArmoryHandler struct {
	armories *armory.Service
}

// NewArmoryHandler creates a new armory handler
func NewArmoryHandler(armories *armory.Service) *ArmoryHandler {
	return &ArmoryHandler{armories: armories}
}

// ListTowers handles GET /api/v1/towers
func (h *ArmoryHandler) ListTowers(w http.ResponseWriter, r *http.Request) {
	towers, err := h.armories.ListTowers(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TowersFromModel(towers))
}

// GetTower handles GET /api/v1/towers/{id}
func (h *ArmoryHandler) GetTower(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		WriteError(w, NewInvalidRequestError("tower id must be an integer"))
		return
	}

	tower, err := h.armories.GetTower(r.Context(), model.TowerID(id))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TowerFromModel(tower))
}

// CreateTower handles POST /api/v1/towers
func (h *ArmoryHandler) CreateTower(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTowerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	tower, err := h.armories.CreateTower(r.Context(), req.Name, req.Description)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.TowerFromModel(tower))
}

// GetInventory handles GET /api/v1/inventory
func (h *ArmoryHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.MustGetPlayerID(r.Context())

	entries, err := h.armories.Inventory(r.Context(), playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, entries)
}

// AddToInventory handles POST /api/v1/inventory/add
func (h *ArmoryHandler) AddToInventory(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.MustGetPlayerID(r.Context())

	var req request.AddInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.armories.AddToInventory(r.Context(), playerID, req.TowerID, req.Quantity); err != nil {
		WriteError(w, err)
		return
	}

	entries, err := h.armories.Inventory(r.Context(), playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, entries)
}
