package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/AndreaCerratoSP/CIAMS/services/inventory-service/internal/dtos"
	"github.com/AndreaCerratoSP/CIAMS/services/inventory-service/internal/services"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

type SoftwareLicenseController struct {
	licenseService *services.SoftwareLicenseService
}

func NewSoftwareLicenseController(licenseService *services.SoftwareLicenseService) *SoftwareLicenseController {
	return &SoftwareLicenseController{licenseService: licenseService}
}

// GET /softwarelicences
func (c *SoftwareLicenseController) ListHandler(w http.ResponseWriter, r *http.Request) {
	licenses, err := c.licenseService.GetAllLicenses(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, licenses)
}

// GET /softwarelicences/{id}
func (c *SoftwareLicenseController) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	license, err := c.licenseService.GetLicenseByID(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, license)
}

// GET /softwarelicences/name/{name}
func (c *SoftwareLicenseController) GetByNameHandler(w http.ResponseWriter, r *http.Request) {
	licenses, err := c.licenseService.GetLicensesByName(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, licenses)
}

// POST /softwarelicences
func (c *SoftwareLicenseController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.SoftwareLicenseRequest
	if !decodeOrRespond(w, r, &req) {
		return
	}
	license, err := c.licenseService.CreateLicense(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, license)
}

// PUT /softwarelicences/{id}
func (c *SoftwareLicenseController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dtos.SoftwareLicenseRequest
	if !decodeOrRespond(w, r, &req) {
		return
	}
	license, err := c.licenseService.UpdateLicense(r.Context(), id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, license)
}

// DELETE /softwarelicences/{id}
func (c *SoftwareLicenseController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.licenseService.DeleteLicense(r.Context(), id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	respondDeleted(w, "Software license", id)
}

// GET /softwarelicences/expiring
func (c *SoftwareLicenseController) ExpiringHandler(w http.ResponseWriter, r *http.Request) {
	licenses, err := c.licenseService.GetLicensesExpiringWithin(r.Context(), services.ExpiryWindow)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, licenses)
}
