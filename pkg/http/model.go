package http

// ErrorBody is the JSON body of every non-2xx response.
type ErrorBody struct {
	Error   string            `json:"error" example:"Invalid number ID. Must be 'p', 'f', 'e', or 'r'."`
	Details []ValidationError `json:"details,omitempty"`
}

// ValidationError represents validation error detail.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"minutes"`
	Message string                 `json:"message,omitempty" example:"minutes is required"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

// HealthResponse is returned by the liveness probe.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
