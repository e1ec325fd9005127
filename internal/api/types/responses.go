package types

import "time"

// APIError is the body of every error response. Details carries
// machine-readable context such as the offending CSV row.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ImportResponse struct {
	Message  string `json:"message"`
	Imported int    `json:"imported"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
