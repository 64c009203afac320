package domain

import "strings"

// Identity is what the authentication provider tells us about the caller
type Identity struct {
	Subject   string
	Name      string
	FirstName string
	LastName  string
	Email     string
	ImageURL  string
}

// DisplayName prefers "first last" and falls back to the name claim
func (i Identity) DisplayName() string {
	full := strings.TrimSpace(i.FirstName + " " + i.LastName)
	if full != "" {
		return full
	}
	return i.Name
}
