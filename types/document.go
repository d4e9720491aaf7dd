package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// StepStatus is the raw status string a cucumber runner reports for a step
type StepStatus string

const (
	StepStatusPassed    StepStatus = "passed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusUndefined StepStatus = "undefined"
	StepStatusSkipped   StepStatus = "skipped"
	StepStatusPending   StepStatus = "pending"
)

// TextSeparator joins successive text/plain embeddings of a step
const TextSeparator = "<br>"

// MimeTypeText marks an embedding that is merged into the step's display text
const MimeTypeText = "text/plain"

// ResultDocument is the decoded cucumber JSON output: an ordered list of features
type ResultDocument []Feature

// Tag is a gherkin tag attached to a feature or scenario
type Tag struct {
	Name string `json:"name"`
	Line int    `json:"line,omitempty"`
}

// Feature mirrors a feature entry in the cucumber JSON output
type Feature struct {
	URI         string    `json:"uri"`
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name,omitempty"`
	Keyword     string    `json:"keyword,omitempty"`
	Description string    `json:"description,omitempty"`
	Line        int       `json:"line,omitempty"`
	Tags        []Tag     `json:"tags,omitempty"`
	Elements    []Element `json:"elements,omitempty"`
}

// Element is a scenario (or background) inside a feature
type Element struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Keyword     string `json:"keyword,omitempty"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Line        int    `json:"line,omitempty"`
	Tags        []Tag  `json:"tags,omitempty"`
	Steps       []Step `json:"steps"`
}

// Step is a single executed gherkin step
type Step struct {
	Keyword    string      `json:"keyword,omitempty"`
	Name       string      `json:"name,omitempty"`
	Line       int         `json:"line,omitempty"`
	Hidden     bool        `json:"hidden,omitempty"`
	Result     *StepResult `json:"result,omitempty"`
	Embeddings []Embedding `json:"embeddings,omitempty"`
}

// StepDuration is a step duration in nanoseconds. Some runners emit fractional
// values; they are rounded to the nearest nanosecond.
type StepDuration int64

func (d *StepDuration) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	// json.Number would also accept a quoted number
	if len(data) > 0 && data[0] == '"' {
		return fmt.Errorf("duration must be a number, got %s", data)
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("duration must be a number: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*d = StepDuration(i)
		return nil
	}
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil || f > math.MaxInt64 || f < math.MinInt64 {
		return fmt.Errorf("duration %s out of range", n)
	}
	*d = StepDuration(math.Round(f))
	return nil
}

// StepResult holds the outcome of a step
type StepResult struct {
	Status       StepStatus   `json:"status"`
	Duration     StepDuration `json:"duration,omitempty"`
	ErrorMessage string       `json:"error_message,omitempty"`
}

// Embedding is an attachment on a step. Older runners emit mime_type, newer
// cucumber-js versions nest the type under media.
type Embedding struct {
	MimeType string          `json:"mime_type,omitempty"`
	Media    *EmbeddingMedia `json:"media,omitempty"`
	Data     string          `json:"data"`
}

// EmbeddingMedia is the nested media descriptor used by newer cucumber-js output
type EmbeddingMedia struct {
	Type string `json:"type"`
}

// Type returns the embedding's mime type, whichever field carries it
func (e Embedding) Type() string {
	if e.MimeType != "" {
		return e.MimeType
	}
	if e.Media != nil {
		return e.Media.Type
	}
	return ""
}

// IsText reports whether the embedding should be merged into the step text
func (e Embedding) IsText() bool {
	return e.Type() == MimeTypeText
}
