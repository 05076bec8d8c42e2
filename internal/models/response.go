package models

// FieldError describes a single per-field validation problem
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError carries machine-readable error details alongside the message
type APIError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details string       `json:"details,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// APIResponse is the common response envelope for all endpoints
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}
