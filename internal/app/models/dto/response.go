package dto

import "time"

// APIResponse is the standard success envelope
type APIResponse struct {
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewSuccessResponse wraps data in the standard envelope
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Data:      data,
		Timestamp: time.Now(),
	}
}

// MessageResponse carries a bare confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}
