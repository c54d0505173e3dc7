package controller

import (
	"strings"

	"redirector/internal/domain/models"
)

// ValidateOldURL checks the path a redirect starts from.
func ValidateOldURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return &models.ValidationError{Field: "old_url", Reason: "required"}
	}
	if !strings.HasPrefix(s, "/") {
		return &models.ValidationError{Field: "old_url", Reason: `must start with "/"`}
	}
	return nil
}

// ValidateNewURL checks a redirect target. Empty marks the path as gone.
func ValidateNewURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "/") || strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return nil
	}
	return &models.ValidationError{Field: "new_url", Reason: `must be empty, start with "/" or be an http(s) URL`}
}
