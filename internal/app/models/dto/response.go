package dto

import "time"

// APIResponse is the standard success envelope: the payload plus a
// human-readable message.
type APIResponse struct {
	Data      interface{} `json:"data,omitempty"`
	Message   string      `json:"message,omitempty" example:"Fetching student detail successful"`
	Timestamp time.Time   `json:"timestamp" example:"2026-04-23T12:01:05.123Z"`
}

// NewAPIResponse creates a success envelope around data.
func NewAPIResponse(data interface{}, message string) APIResponse {
	return APIResponse{
		Data:      data,
		Message:   message,
		Timestamp: time.Now(),
	}
}
