// Package types defines the entities and wire payloads shared across the
// application.
package types

import "time"

// Message is the persisted contact-form submission. ID and CreatedAt are
// assigned by the store at insert time; records are immutable once stored.
type Message struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject,omitempty"`
	Body      string    `json:"message"`
	SourceIP  string    `json:"ip"`
	CreatedAt time.Time `json:"createdAt"`
}

// ContactRequest is the inbound contact-form payload. Company is a honeypot
// field hidden from human visitors; any non-empty value marks the submission
// as automated.
type ContactRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	Company   string `json:"company"`
}

// SuccessResponse is the uniform success envelope for the contact endpoint.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse is the uniform error envelope for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessagePage is the admin listing response.
type MessagePage struct {
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	Total      int       `json:"total"`
	TotalPages int       `json:"totalPages"`
	Messages   []Message `json:"messages"`
}

// Health statuses reported by the health endpoints.
const (
	HealthStatusUp   = "up"
	HealthStatusDown = "down"
)

// HealthCheck is the payload returned by the health endpoints.
type HealthCheck struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
	Version    string            `json:"version,omitempty"`
	Timestamp  string            `json:"timestamp"`
}
