package dtos

type HealthCheckResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// ConfirmationResponse is returned by delete endpoints.
type ConfirmationResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}
