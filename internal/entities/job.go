package entities

import (
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Job is the stored posting record. The same posting may arrive from several
// source platforms, so up to three identifier fields can be populated: JobID
// (primary source id), ExternalID (external job-identifier) and the
// store-native autoincrement ID.
type Job struct {
	ID         uint   `gorm:"primaryKey"`
	JobID      string `gorm:"index"`
	ExternalID string `gorm:"index"`

	Title          string
	Company        string
	Locations      string
	Description    string
	Salary         string
	EmploymentType string
	WorkMode       string

	MustHaveSkills   string
	NiceToHaveSkills string
	KeyRequirements  string
	Highlights       string

	RightsCountry        string
	RightsStatus         string
	SponsorshipAvailable bool
	CitizenshipRequired  bool

	Platform string
	// IsActive is tri-state: nil means the ingester never set it, and the
	// record still counts as active.
	IsActive *bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanonicalID resolves the single identifier a record answers to: the first
// non-empty of JobID, ExternalID, store-native ID.
func (j *Job) CanonicalID() string {
	if j.JobID != "" {
		return j.JobID
	}
	if j.ExternalID != "" {
		return j.ExternalID
	}
	if j.ID != 0 {
		return strconv.FormatUint(uint64(j.ID), 10)
	}
	return ""
}

func (j *Job) LocationsAsArray() []string {
	return splitList(j.Locations)
}

func (j *Job) MustHaveSkillsAsArray() []string {
	return splitList(j.MustHaveSkills)
}

func (j *Job) NiceToHaveSkillsAsArray() []string {
	return splitList(j.NiceToHaveSkills)
}

func (j *Job) KeyRequirementsAsArray() []string {
	return splitList(j.KeyRequirements)
}

func JoinList(items []string) string {
	return strings.Join(items, ",")
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	return lo.Map(strings.Split(value, ","), func(item string, _ int) string {
		return strings.TrimSpace(item)
	})
}
