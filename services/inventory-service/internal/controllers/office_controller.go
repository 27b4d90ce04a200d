package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/AndreaCerratoSP/CIAMS/services/inventory-service/internal/dtos"
	"github.com/AndreaCerratoSP/CIAMS/services/inventory-service/internal/services"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

type OfficeController struct {
	officeService *services.OfficeService
}

func NewOfficeController(officeService *services.OfficeService) *OfficeController {
	return &OfficeController{officeService: officeService}
}

// GET /offices
func (c *OfficeController) ListHandler(w http.ResponseWriter, r *http.Request) {
	offices, err := c.officeService.GetAllOffices(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, offices)
}

// GET /offices/{id}
func (c *OfficeController) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	office, err := c.officeService.GetOfficeByID(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, office)
}

// GET /offices/name/{name}
func (c *OfficeController) GetByNameHandler(w http.ResponseWriter, r *http.Request) {
	office, err := c.officeService.GetOfficeByName(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, office)
}

// POST /offices
func (c *OfficeController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.OfficeRequest
	if !decodeOrRespond(w, r, &req) {
		return
	}
	office, err := c.officeService.CreateOffice(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, office)
}

// PUT /offices/{id}
func (c *OfficeController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dtos.OfficeRequest
	if !decodeOrRespond(w, r, &req) {
		return
	}
	office, err := c.officeService.UpdateOffice(r.Context(), id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, office)
}

// DELETE /offices/{id}
func (c *OfficeController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.officeService.DeleteOffice(r.Context(), id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	respondDeleted(w, "Office", id)
}
