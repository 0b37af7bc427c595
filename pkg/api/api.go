// Package api contains value types shared between the vcrts core and its
// presentation surfaces (CLI, demo). It has no dependency on the core
// packages so presentation code can consume it freely.
package api

// Notification reports the first observed transition of a request out of
// PENDING. Exactly one is emitted per request per monitoring session.
type Notification struct {
	RequestID       int    `json:"request_id"`
	ClientID        int    `json:"client_id"`
	RequestType     string `json:"request_type"`
	PreviousStatus  string `json:"previous_status"`
	Status          string `json:"status"`
	ResponseMessage string `json:"response_message,omitempty"`
	Timestamp       string `json:"timestamp"`
}

// RequestSummary is the presentation view of a request.
type RequestSummary struct {
	ID              int    `json:"id"`
	ClientID        int    `json:"client_id"`
	ClientName      string `json:"client_name"`
	Type            string `json:"type"`
	Data            string `json:"data"`
	Status          string `json:"status"`
	Timestamp       string `json:"timestamp"`
	ResponseMessage string `json:"response_message,omitempty"`
}
