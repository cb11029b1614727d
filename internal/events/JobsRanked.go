package events

import "time"

const JobsRankedTopic = "jobs:ranked"

// JobsRanked is published after every completed pipeline run.
type JobsRanked struct {
	Title    string
	City     string
	Count    int
	Duration time.Duration
}
