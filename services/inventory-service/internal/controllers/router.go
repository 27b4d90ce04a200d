package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/AndreaCerratoSP/CIAMS/services/inventory-service/internal/routes"
)

type Controllers struct {
	Health           *HealthController
	Assets           *AssetController
	AssetTypes       *AssetTypeController
	Offices          *OfficeController
	SoftwareLicenses *SoftwareLicenseController
}

// Register mounts the health check on public and every inventory route on
// secured. Literal paths are registered before their {id} siblings.
func (cs *Controllers) Register(public, secured *mux.Router) {
	public.HandleFunc(routes.Health, cs.Health.HealthCheckHandler).Methods(http.MethodGet)

	// Assets
	secured.HandleFunc(routes.AssetMove, cs.Assets.MoveHandler).Methods(http.MethodPut)
	secured.HandleFunc(routes.AssetInstallSoftware, cs.Assets.InstallSoftwareHandler).Methods(http.MethodPut)
	secured.HandleFunc(routes.AssetRemoveSoftware, cs.Assets.RemoveSoftwareHandler).Methods(http.MethodPut)
	secured.HandleFunc(routes.AssetBySerialNumber, cs.Assets.GetBySerialNumberHandler).Methods(http.MethodGet)
	for _, p := range []string{routes.Assets, routes.AssetsSlash} {
		secured.HandleFunc(p, cs.Assets.ListHandler).Methods(http.MethodGet)
		secured.HandleFunc(p, cs.Assets.CreateHandler).Methods(http.MethodPost)
	}
	secured.HandleFunc(routes.AssetByID, cs.Assets.GetHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.AssetByID, cs.Assets.UpdateHandler).Methods(http.MethodPut)
	secured.HandleFunc(routes.AssetByID, cs.Assets.DeleteHandler).Methods(http.MethodDelete)

	// Asset types
	secured.HandleFunc(routes.AssetTypeByName, cs.AssetTypes.GetByNameHandler).Methods(http.MethodGet)
	for _, p := range []string{routes.AssetTypes, routes.AssetTypesSlash} {
		secured.HandleFunc(p, cs.AssetTypes.ListHandler).Methods(http.MethodGet)
		secured.HandleFunc(p, cs.AssetTypes.CreateHandler).Methods(http.MethodPost)
	}
	secured.HandleFunc(routes.AssetTypeByID, cs.AssetTypes.GetHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.AssetTypeByID, cs.AssetTypes.UpdateHandler).Methods(http.MethodPut)
	secured.HandleFunc(routes.AssetTypeByID, cs.AssetTypes.DeleteHandler).Methods(http.MethodDelete)

	// Offices
	secured.HandleFunc(routes.OfficeByName, cs.Offices.GetByNameHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.OfficeAssets, cs.Assets.ListByOfficeHandler).Methods(http.MethodGet)
	for _, p := range []string{routes.Offices, routes.OfficesSlash} {
		secured.HandleFunc(p, cs.Offices.ListHandler).Methods(http.MethodGet)
		secured.HandleFunc(p, cs.Offices.CreateHandler).Methods(http.MethodPost)
	}
	secured.HandleFunc(routes.OfficeByID, cs.Offices.GetHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.OfficeByID, cs.Offices.UpdateHandler).Methods(http.MethodPut)
	secured.HandleFunc(routes.OfficeByID, cs.Offices.DeleteHandler).Methods(http.MethodDelete)

	// Software licenses
	secured.HandleFunc(routes.SoftwareLicensesExpiring, cs.SoftwareLicenses.ExpiringHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.SoftwareLicenseByName, cs.SoftwareLicenses.GetByNameHandler).Methods(http.MethodGet)
	for _, p := range []string{routes.SoftwareLicenses, routes.SoftwareLicensesSlash} {
		secured.HandleFunc(p, cs.SoftwareLicenses.ListHandler).Methods(http.MethodGet)
		secured.HandleFunc(p, cs.SoftwareLicenses.CreateHandler).Methods(http.MethodPost)
	}
	secured.HandleFunc(routes.SoftwareLicenseByID, cs.SoftwareLicenses.GetHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.SoftwareLicenseByID, cs.SoftwareLicenses.UpdateHandler).Methods(http.MethodPut)
	secured.HandleFunc(routes.SoftwareLicenseByID, cs.SoftwareLicenses.DeleteHandler).Methods(http.MethodDelete)
}
