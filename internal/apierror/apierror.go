// Package apierror defines the JSON error envelopes the API returns. Every
// 4xx/5xx body goes through here so clients can always read `detail`, and so
// raw gorm/driver errors never leak to the frontend.
package apierror

type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError carries per-field tag failures from request validation.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
