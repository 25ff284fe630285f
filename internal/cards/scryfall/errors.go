package scryfall

import (
	"errors"
	"fmt"
)

// APIError represents an error response from the Scryfall API.
type APIError struct {
	Object   string   `json:"object"`
	Code     string   `json:"code"`
	Status   int      `json:"status"`
	Details  string   `json:"details"`
	Type     string   `json:"type,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("Scryfall API error (HTTP %d): %s", e.Status, e.Details)
	}
	return fmt.Sprintf("Scryfall API error (HTTP %d): %s", e.Status, e.Code)
}

// NotFoundError represents a card that Scryfall could not match. It is a
// normal, expected outcome for misspelled or out-of-print entries.
type NotFoundError struct {
	Name string
	URL  string
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("card not found: %q", e.Name)
	}
	return fmt.Sprintf("resource not found: %s", e.URL)
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
