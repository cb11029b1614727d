package models

// SearchPlan is what the title planner produces for a profile: adjacent
// titles to widen the search with, plus natural-language rationale kept for
// observability only.
type SearchPlan struct {
	PrimaryTitles    []string       `json:"primaryTitles"`
	SecondaryTitles  []string       `json:"secondaryTitles"`
	SummarySentences []string       `json:"summarySentences"`
	Reasoning        string         `json:"reasoning"`
	SearchStrategy   map[string]any `json:"searchStrategy"`
	Confidence       int            `json:"confidence"`
}
