package models

import "time"

// WorkRights describes what a posting demands from a candidate's work
// authorization in a given jurisdiction.
type WorkRights struct {
	Country              string `json:"country,omitempty"`
	RequiredStatus       string `json:"requiredStatus,omitempty"`
	SponsorshipAvailable bool   `json:"sponsorshipAvailable,omitempty"`
	CitizenshipRequired  bool   `json:"citizenshipRequired,omitempty"`
}

// Empty reports whether the posting declares no work-rights requirement at all.
func (w WorkRights) Empty() bool {
	return w.RequiredStatus == "" && !w.CitizenshipRequired
}

// Job is a normalized posting. ID is the canonical identifier resolved from
// whichever identifier fields the store holds for the record.
type Job struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Company          string     `json:"company"`
	Locations        []string   `json:"locations"`
	Description      string     `json:"description"`
	Salary           string     `json:"salary,omitempty"`
	EmploymentType   string     `json:"employmentType,omitempty"`
	WorkMode         string     `json:"workMode,omitempty"`
	MustHaveSkills   []string   `json:"mustHaveSkills,omitempty"`
	NiceToHaveSkills []string   `json:"niceToHaveSkills,omitempty"`
	KeyRequirements  []string   `json:"keyRequirements,omitempty"`
	Highlights       string     `json:"highlights,omitempty"`
	WorkRights       WorkRights `json:"workRights"`
	Platform         string     `json:"platform,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}
