package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum-optimism/infra/op-cukereport/types"
)

// SummaryFileName is written next to the HTML report
const SummaryFileName = "summary.json"

// FeatureSummaryJSON is the per-feature entry of the JSON summary
type FeatureSummaryJSON struct {
	URI            string               `json:"uri"`
	Name           string               `json:"name,omitempty"`
	RelativeFolder string               `json:"relativeFolder"`
	Status         string               `json:"status"`
	Scenarios      types.ScenarioCounts `json:"scenarios"`
}

// SummaryJSON is the machine readable companion of the HTML report
type SummaryJSON struct {
	RunID     string               `json:"runId"`
	Name      string               `json:"name"`
	Version   string               `json:"version"`
	Time      time.Time            `json:"time"`
	Passed    int                  `json:"passed"`
	Failed    int                  `json:"failed"`
	Features  types.FeatureSummary `json:"features"`
	Scenarios types.ScenarioCounts `json:"scenarios"`
	Details   []FeatureSummaryJSON `json:"details"`
}

// NewSummaryJSON builds the JSON summary for suite
func NewSummaryJSON(suite *types.Suite) SummaryJSON {
	out := SummaryJSON{
		RunID:     suite.RunID,
		Name:      suite.Name,
		Version:   suite.Version,
		Time:      suite.Time,
		Passed:    suite.Passed,
		Failed:    suite.Failed,
		Features:  suite.Summary,
		Scenarios: suite.Scenarios,
		Details:   make([]FeatureSummaryJSON, 0, len(suite.Features)),
	}
	for _, feature := range suite.Features {
		out.Details = append(out.Details, FeatureSummaryJSON{
			URI:            feature.URI,
			Name:           feature.Name,
			RelativeFolder: feature.RelativeFolder,
			Status:         featureStatus(feature),
			Scenarios:      feature.Scenarios,
		})
	}
	return out
}

// SummaryPath returns where the JSON summary for a report at output is written
func SummaryPath(output string) string {
	return filepath.Join(filepath.Dir(output), SummaryFileName)
}

// WriteSummaryJSON writes the JSON summary of suite to path
func WriteSummaryJSON(path string, suite *types.Suite) error {
	data, err := json.MarshalIndent(NewSummaryJSON(suite), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write summary file %s: %w", path, err)
	}
	return nil
}
