package api

import "fmt"

// ErrorType represents the category of an API error.
type ErrorType string

const (
	ErrorTypeServerError          ErrorType = "server_error"
	ErrorTypeInvalidRequest       ErrorType = "invalid_request"
	ErrorTypeUnknownRecipe        ErrorType = "unknown_recipe"
	ErrorTypeInsufficientResource ErrorType = "insufficient_resource"
	ErrorTypeOverflow             ErrorType = "container_overflow"
	ErrorTypeStorage              ErrorType = "storage_error"
)

// APIError represents a structured API error with type, param, and message.
type APIError struct {
	Type    ErrorType `json:"type"`
	Param   string    `json:"param,omitempty"`
	Message string    `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s (param: %s)", e.Type, e.Message, e.Param)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ErrorResponse wraps an APIError for JSON serialization as the top-level
// error response.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// NewInvalidRequestError creates an APIError for invalid request parameters.
func NewInvalidRequestError(param, message string) *APIError {
	return &APIError{
		Type:    ErrorTypeInvalidRequest,
		Param:   param,
		Message: message,
	}
}

// NewUnknownRecipeError creates an APIError for a recipe not in the catalog.
func NewUnknownRecipeError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeUnknownRecipe,
		Param:   "recipe",
		Message: message,
	}
}

// NewInsufficientResourceError creates an APIError for a brew that cannot
// be satisfied with the current container levels.
func NewInsufficientResourceError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeInsufficientResource,
		Message: message,
	}
}

// NewOverflowError creates an APIError for a fill that would exceed capacity.
func NewOverflowError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeOverflow,
		Message: message,
	}
}

// NewStorageError creates an APIError for storage failures that require
// operator attention.
func NewStorageError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeStorage,
		Message: message,
	}
}

// NewServerError creates an APIError for internal server errors.
func NewServerError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeServerError,
		Message: message,
	}
}
