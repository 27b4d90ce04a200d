package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/AndreaCerratoSP/CIAMS/services/inventory-service/internal/dtos"
	"github.com/AndreaCerratoSP/CIAMS/services/inventory-service/internal/services"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

type AssetTypeController struct {
	assetTypeService *services.AssetTypeService
}

func NewAssetTypeController(assetTypeService *services.AssetTypeService) *AssetTypeController {
	return &AssetTypeController{assetTypeService: assetTypeService}
}

// GET /AssetTypes
func (c *AssetTypeController) ListHandler(w http.ResponseWriter, r *http.Request) {
	assetTypes, err := c.assetTypeService.GetAllAssetTypes(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, assetTypes)
}

// GET /AssetTypes/{id}
func (c *AssetTypeController) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	assetType, err := c.assetTypeService.GetAssetTypeByID(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, assetType)
}

// GET /AssetTypes/name/{name}
func (c *AssetTypeController) GetByNameHandler(w http.ResponseWriter, r *http.Request) {
	assetTypes, err := c.assetTypeService.GetAssetTypesByName(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, assetTypes)
}

// POST /AssetTypes
func (c *AssetTypeController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.AssetTypeRequest
	if !decodeOrRespond(w, r, &req) {
		return
	}
	assetType, err := c.assetTypeService.CreateAssetType(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, assetType)
}

// PUT /AssetTypes/{id}
func (c *AssetTypeController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dtos.AssetTypeRequest
	if !decodeOrRespond(w, r, &req) {
		return
	}
	assetType, err := c.assetTypeService.UpdateAssetType(r.Context(), id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, assetType)
}

// DELETE /AssetTypes/{id}
func (c *AssetTypeController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.assetTypeService.DeleteAssetType(r.Context(), id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	respondDeleted(w, "Asset type", id)
}
