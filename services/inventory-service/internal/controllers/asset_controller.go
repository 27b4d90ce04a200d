package controllers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/AndreaCerratoSP/CIAMS/services/inventory-service/internal/dtos"
	"github.com/AndreaCerratoSP/CIAMS/services/inventory-service/internal/services"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-models"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

type AssetController struct {
	assetService *services.AssetService
}

func NewAssetController(assetService *services.AssetService) *AssetController {
	return &AssetController{assetService: assetService}
}

// GET /assets
func (c *AssetController) ListHandler(w http.ResponseWriter, r *http.Request) {
	assets, err := c.assetService.GetAllAssets(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, assets)
}

// GET /assets/{id}
func (c *AssetController) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	asset, err := c.assetService.GetAssetByID(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, asset)
}

// GET /assets/serialnumber/{serialNumber}
func (c *AssetController) GetBySerialNumberHandler(w http.ResponseWriter, r *http.Request) {
	asset, err := c.assetService.GetAssetBySerialNumber(r.Context(), mux.Vars(r)["serialNumber"])
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, asset)
}

// POST /assets
func (c *AssetController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.AssetRequest
	if !decodeOrRespond(w, r, &req) {
		return
	}
	asset, err := c.assetService.CreateAsset(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, asset)
}

// PUT /assets/{id}
func (c *AssetController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dtos.AssetRequest
	if !decodeOrRespond(w, r, &req) {
		return
	}
	asset, err := c.assetService.UpdateAsset(r.Context(), id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, asset)
}

// DELETE /assets/{id}
func (c *AssetController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.assetService.DeleteAsset(r.Context(), id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	respondDeleted(w, "Asset", id)
}

// PUT /assets/move?assetId=&officeId=
func (c *AssetController) MoveHandler(w http.ResponseWriter, r *http.Request) {
	assetID, ok := queryID(w, r, "assetId")
	if !ok {
		return
	}
	officeID, ok := queryID(w, r, "officeId")
	if !ok {
		return
	}
	asset, err := c.assetService.MoveAsset(r.Context(), assetID, officeID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, asset)
}

// PUT /assets/install-software?assetId=&licenseId=
func (c *AssetController) InstallSoftwareHandler(w http.ResponseWriter, r *http.Request) {
	c.licenseChange(w, r, c.assetService.InstallSoftware)
}

// PUT /assets/remove-software?assetId=&licenseId=
func (c *AssetController) RemoveSoftwareHandler(w http.ResponseWriter, r *http.Request) {
	c.licenseChange(w, r, c.assetService.RemoveSoftware)
}

func (c *AssetController) licenseChange(
	w http.ResponseWriter,
	r *http.Request,
	change func(ctx context.Context, assetID, licenseID int64) (*models.Asset, error),
) {
	assetID, ok := queryID(w, r, "assetId")
	if !ok {
		return
	}
	licenseID, ok := queryID(w, r, "licenseId")
	if !ok {
		return
	}
	asset, err := change(r.Context(), assetID, licenseID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, asset)
}

// GET /offices/{id}/assets
func (c *AssetController) ListByOfficeHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	assets, err := c.assetService.GetAssetsByOffice(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, assets)
}
