package models

import "strings"

// UserProfile is the slice of a user's profile the ranking pipeline needs.
// WorkRights maps a jurisdiction (country name) to the user's free-text
// declaration for it, e.g. "Australia" -> "Permanent Resident".
type UserProfile struct {
	Skills           []string          `json:"skills,omitempty"`
	City             string            `json:"city,omitempty"`
	Seniority        string            `json:"seniority,omitempty"`
	OpenToRelocation bool              `json:"openToRelocation,omitempty"`
	CareerPriorities []string          `json:"careerPriorities,omitempty"`
	CurrentPosition  string            `json:"currentPosition,omitempty"`
	ExpectedPosition string            `json:"expectedPosition,omitempty"`
	Education        string            `json:"education,omitempty"`
	Experience       string            `json:"experience,omitempty"`
	WorkRights       map[string]string `json:"workRights,omitempty"`
}

// RightsDeclaration returns the user's declaration for a jurisdiction, or ""
// when the user declared nothing for it. Country matching ignores case.
func (p UserProfile) RightsDeclaration(country string) string {
	for declared, declaration := range p.WorkRights {
		if strings.EqualFold(declared, country) {
			return declaration
		}
	}
	return ""
}
