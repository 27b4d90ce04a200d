package routes

const (
	Health = "/health"

	Assets               = "/assets"
	AssetsSlash          = "/assets/"
	AssetByID            = "/assets/{id}"
	AssetBySerialNumber  = "/assets/serialnumber/{serialNumber}"
	AssetMove            = "/assets/move"
	AssetInstallSoftware = "/assets/install-software"
	AssetRemoveSoftware  = "/assets/remove-software"

	AssetTypes      = "/AssetTypes"
	AssetTypesSlash = "/AssetTypes/"
	AssetTypeByID   = "/AssetTypes/{id}"
	AssetTypeByName = "/AssetTypes/name/{name}"

	Offices      = "/offices"
	OfficesSlash = "/offices/"
	OfficeByID   = "/offices/{id}"
	OfficeByName = "/offices/name/{name}"
	OfficeAssets = "/offices/{id}/assets"

	SoftwareLicenses         = "/softwarelicences"
	SoftwareLicensesSlash    = "/softwarelicences/"
	SoftwareLicenseByID      = "/softwarelicences/{id}"
	SoftwareLicenseByName    = "/softwarelicences/name/{name}"
	SoftwareLicensesExpiring = "/softwarelicences/expiring"
)
