package types

import (
	"time"
)

// ScenarioCounts holds per-outcome scenario tallies
type ScenarioCounts struct {
	Passed     int `json:"passed"`
	Failed     int `json:"failed"`
	Skipped    int `json:"skipped"`
	NotDefined int `json:"notdefined"`
}

// Total returns the number of classified scenarios
func (c ScenarioCounts) Total() int {
	return c.Passed + c.Failed + c.Skipped + c.NotDefined
}

// StepCounts holds per-outcome step tallies for a single scenario
type StepCounts struct {
	Passed     int `json:"passed"`
	Failed     int `json:"failed"`
	Skipped    int `json:"skipped"`
	NotDefined int `json:"notdefined"`
}

// FeatureSummary tallies features by outcome
type FeatureSummary struct {
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// ScenarioOutcome is the classification a scenario resolves to
type ScenarioOutcome string

const (
	ScenarioPassed     ScenarioOutcome = "passed"
	ScenarioFailed     ScenarioOutcome = "failed"
	ScenarioSkipped    ScenarioOutcome = "skipped"
	ScenarioNotDefined ScenarioOutcome = "notdefined"
	// ScenarioUncounted is used for scenarios without any classified step
	ScenarioUncounted ScenarioOutcome = ""
)

// ReportStep is a step plus the display data derived during aggregation
type ReportStep struct {
	Step
	// Text holds decoded text/plain embeddings joined with <br>
	Text string `json:"text,omitempty"`
	// Image is the report-relative path of the last binary embedding
	Image string `json:"image,omitempty"`
}

// ReportScenario is a scenario plus its derived step counters
type ReportScenario struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name,omitempty"`
	Keyword     string          `json:"keyword,omitempty"`
	Type        string          `json:"type,omitempty"`
	Description string          `json:"description,omitempty"`
	Line        int             `json:"line,omitempty"`
	Tags        []Tag           `json:"tags,omitempty"`
	Steps       []ReportStep    `json:"steps"`
	Counts      StepCounts      `json:"counts"`
	Outcome     ScenarioOutcome `json:"outcome,omitempty"`
}

// ReportFeature is a feature plus the data derived during aggregation
type ReportFeature struct {
	URI            string           `json:"uri"`
	ID             string           `json:"id,omitempty"`
	Name           string           `json:"name,omitempty"`
	Keyword        string           `json:"keyword,omitempty"`
	Description    string           `json:"description,omitempty"`
	Line           int              `json:"line,omitempty"`
	Tags           []Tag            `json:"tags,omitempty"`
	RelativeFolder string           `json:"relativeFolder"`
	Elements       []ReportScenario `json:"elements,omitempty"`
	Scenarios      ScenarioCounts   `json:"scenarios"`
	IsFailed       bool             `json:"isFailed"`
	// Counted is false for features without any scenarios; they take no part in
	// the passed/failed tallies.
	Counted bool `json:"counted"`
}

// Suite is the aggregate root for one report run
type Suite struct {
	RunID     string          `json:"runId"`
	Name      string          `json:"name"`
	Version   string          `json:"version"`
	Time      time.Time       `json:"time"`
	Features  []ReportFeature `json:"features"`
	Summary   FeatureSummary  `json:"summary"`
	Passed    int             `json:"passed"`
	Failed    int             `json:"failed"`
	Scenarios ScenarioCounts  `json:"scenarios"`
}

// NewSuite creates an empty suite stamped with the given run metadata
func NewSuite(runID, name, version string, now time.Time) *Suite {
	return &Suite{
		RunID:    runID,
		Name:     name,
		Version:  version,
		Time:     now,
		Features: make([]ReportFeature, 0),
	}
}

// HasFailures reports whether the top-level summary contains failures
func (s *Suite) HasFailures() bool {
	return s.Failed > 0
}
