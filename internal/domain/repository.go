// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"fmt"
	"strings"
)

// Repository is a repository record exactly as the GitHub API returned it.
// The application passes it through without validating or reshaping it.
type Repository map[string]any

// Field returns the value stored under key formatted for display.
// Missing keys and JSON nulls render as "-".
func (r Repository) Field(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return "-"
	}
	return fmt.Sprint(v)
}

// Visibility filters the repositories returned by a listing.
type Visibility string

const (
	VisibilityAll     Visibility = "all"
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// ParseVisibility converts user input into a Visibility. An empty string means VisibilityAll.
func ParseVisibility(s string) (Visibility, error) {
	switch v := Visibility(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return VisibilityAll, nil
	case VisibilityAll, VisibilityPublic, VisibilityPrivate:
		return v, nil
	default:
		return "", fmt.Errorf("invalid visibility %q (want all, public or private)", s)
	}
}

// CreateRepoInput describes a repository to create.
// An empty Org creates the repository under the authenticated user.
type CreateRepoInput struct {
	Name        string
	Private     bool
	Description string
	Org         string
}

// RepoUpdate is a partial update. Only non-nil fields are sent to the API,
// so an empty Description pointer clears the description while a nil one leaves it alone.
type RepoUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Private     *bool   `json:"private,omitempty"`
}

// IsEmpty reports whether the update carries no fields.
func (u RepoUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Private == nil
}
