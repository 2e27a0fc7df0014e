package types

// ModelInfo is the immutable metadata describing a model artifact.
// It is created once per model name and never mutated afterwards.
type ModelInfo struct {
	// Unique name of the model; used as the repository key.
	// example: llama-7b
	Name string `json:"name" example:"llama-7b"`
	// Artifact version.
	// example: 1.0
	Version string `json:"version" example:"1.0"`
	// Approximate artifact size in gigabytes.
	// example: 7.0
	SizeGB float64 `json:"size_gb" example:"7.0"`
	// Source the artifact is fetched from.
	// example: https://example.com/models/llama-7b
	URL string `json:"url" example:"https://example.com/models/llama-7b"`
	// Location the artifact is stored at once downloaded.
	// example: ./models/llama-7b
	LocalPath string `json:"local_path" example:"./models/llama-7b"`
}

// GenerationRequest carries a prompt plus sampling parameters.
type GenerationRequest struct {
	// Prompt text to generate a completion for.
	// example: What is artificial intelligence?
	Prompt string `json:"prompt" validate:"required" example:"What is artificial intelligence?"`
	// Maximum number of new tokens to generate.
	// example: 100
	MaxTokens int `json:"max_tokens" validate:"gte=1,lte=8192" example:"100"`
	// Sampling temperature (higher = more random).
	// example: 0.7
	Temperature float64 `json:"temperature" validate:"gte=0,lte=2" example:"0.7"`
	// Nucleus sampling probability.
	// example: 0.9
	TopP float64 `json:"top_p" validate:"gte=0,lte=1" example:"0.9"`
}

// GenerationResponse is the result of a single generation call.
type GenerationResponse struct {
	Text           string  `json:"text"`
	TokensUsed     int     `json:"tokens_used"`
	ProcessingTime float64 `json:"processing_time"` // seconds
}
