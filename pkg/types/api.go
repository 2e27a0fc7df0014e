package types

// SetupResult is the success payload of a model setup.
type SetupResult struct {
	// Name of the model that was set up.
	// example: llama-7b
	Model string `json:"model" example:"llama-7b"`
	// Lifecycle status the model ended in.
	// example: loaded
	Status string `json:"status" example:"loaded"`
}

// StatusResponse summarizes the current model.
// With no current model it encodes as {"model": null, "status": "no_model"}.
type StatusResponse struct {
	// Name of the current model, null when none.
	// example: llama-7b
	Model *string `json:"model" example:"llama-7b"`
	// Lifecycle status of the current model, or "no_model".
	// example: loaded
	Status string `json:"status" example:"loaded"`
	// Whether the current model can serve generation requests. Omitted with no model.
	// example: true
	Ready *bool `json:"ready,omitempty" example:"true"`
}

// StatusNoModel is reported when no model has been set up yet.
const StatusNoModel = "no_model"

// ModelSummary is a listing entry for a model known to the repository.
type ModelSummary struct {
	Info   ModelInfo `json:"info"`
	Status string    `json:"status"`
	Ready  bool      `json:"ready"`
	// Error message recorded when the model entered the error state.
	Error string `json:"error,omitempty"`
}

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	Models []ModelSummary `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: not found
	Error string `json:"error" example:"not found"`
	// HTTP status code.
	// example: 404
	Code int `json:"code" example:"404"`
}
