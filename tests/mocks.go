package tests

import (
	"context"
	"fmt"
	"strings"
)

// mockOracle answers both planning and scoring requests. Scoring responses
// are looked up by the job title embedded in the request; unknown titles get
// a flat 70.
type mockOracle struct {
	planResponse  string
	scoresByTitle map[string]int
	err           error
}

func (m *mockOracle) GenerateResponse(_ context.Context, request string) (string, error) {

	if m.err != nil {
		return "", m.err
	}

	if strings.HasPrefix(request, "You plan") {
		return m.planResponse, nil
	}

	score := 70
	for title, titleScore := range m.scoresByTitle {
		if strings.Contains(request, "Job title: "+title) {
			score = titleScore
			break
		}
	}

	return fmt.Sprintf(`{"experienceScore": %d, "skillsScore": %d, "industryScore": %d,
		"otherScore": %d, "matchScore": %d, "matchSummary": "canned analysis"}`,
		score, score, score, score, score), nil
}
