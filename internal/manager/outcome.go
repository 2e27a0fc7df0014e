package manager

import "encoding/json"

// FailureReason classifies why a use case did not succeed.
type FailureReason string

const (
	ReasonDownloadFailed FailureReason = "download_failed"
	ReasonLoadFailed     FailureReason = "load_failed"
	ReasonNoModelLoaded  FailureReason = "no_model_loaded"
	ReasonInvalidRequest FailureReason = "invalid_request"
	ReasonModelError     FailureReason = "model_error"
	ReasonUnexpected     FailureReason = "unexpected"
)

// User-visible failure messages.
const (
	msgDownloadFailed = "Download failed"
	msgLoadingFailed  = "Loading failed"
	msgNoModelLoaded  = "No model loaded"
)

// Failure is the typed failure side of an Outcome.
type Failure struct {
	Reason  FailureReason
	Message string
	Cause   error
}

func (f *Failure) Error() string { return f.Message }

func (f *Failure) Unwrap() error { return f.Cause }

// Outcome is returned by every use case: exactly one of Value (when Failure
// is nil) or Failure is meaningful. Expected failures are never raised.
type Outcome[T any] struct {
	Value   T
	Failure *Failure
}

// OK reports whether the outcome is a success.
func (o Outcome[T]) OK() bool { return o.Failure == nil }

// Err returns the failure as an error, or nil on success.
func (o Outcome[T]) Err() error {
	if o.Failure == nil {
		return nil
	}
	return o.Failure
}

// MarshalJSON encodes {"success":true,"value":...} or
// {"success":false,"reason":...,"error":...}.
func (o Outcome[T]) MarshalJSON() ([]byte, error) {
	if o.Failure != nil {
		return json.Marshal(struct {
			Success bool          `json:"success"`
			Reason  FailureReason `json:"reason"`
			Error   string        `json:"error"`
		}{false, o.Failure.Reason, o.Failure.Message})
	}
	return json.Marshal(struct {
		Success bool `json:"success"`
		Value   T    `json:"value"`
	}{true, o.Value})
}

func succeed[T any](v T) Outcome[T] { return Outcome[T]{Value: v} }

func fail[T any](reason FailureReason, msg string, cause error) Outcome[T] {
	return Outcome[T]{Failure: &Failure{Reason: reason, Message: msg, Cause: cause}}
}
