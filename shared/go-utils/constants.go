package utils

const (
	OrganizationName                      = "CIAMS"
	CORSLowSecurityAllowedOriginLocalhost = "http://localhost:*"

	InventorySchema = "inventory"

	HeaderRequestID = "X-Request-ID"
)
