package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Kimen6931/BlockLocker/internal/api/request"
	"github.com/Kimen6931/BlockLocker/internal/api/response"
	"github.com/Kimen6931/BlockLocker/internal/model"
)

// ProtectionService is the protection store used by ProtectionHandler
type ProtectionService interface {
	Get(ctx context.Context, id model.ProtectionID) (*model.Protection, error)
	Save(ctx context.Context, protection *model.Protection) error
	Delete(ctx context.Context, id model.ProtectionID) error
}

// ProtectionHandler handles protection endpoints
type ProtectionHandler struct {
	service ProtectionService
}

// NewProtectionHandler creates a new protection handler
func NewProtectionHandler(service ProtectionService) *ProtectionHandler {
	return &ProtectionHandler{service: service}
}

// Put handles PUT /api/v1/protections/{id}
func (h *ProtectionHandler) Put(w http.ResponseWriter, r *http.Request) {
	id := model.ProtectionID(mux.Vars(r)["id"])

	var req request.PutProtectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	protection, err := req.ToModel(id)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.service.Save(r.Context(), protection); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ProtectionFromModel(protection))
}

// Get handles GET /api/v1/protections/{id}
func (h *ProtectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.ProtectionID(mux.Vars(r)["id"])

	protection, err := h.service.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ProtectionFromModel(protection))
}

// Delete handles DELETE /api/v1/protections/{id}
func (h *ProtectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := model.ProtectionID(mux.Vars(r)["id"])

	if err := h.service.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
