package reporting

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ethereum-optimism/infra/op-cukereport/types"
)

// SummaryTable renders the per-feature scenario counters of a suite as a table
type SummaryTable struct {
	title string
}

// NewSummaryTable creates a table reporter with the given title
func NewSummaryTable(title string) *SummaryTable {
	return &SummaryTable{title: title}
}

// Format returns the rendered table
func (s *SummaryTable) Format(suite *types.Suite) string {
	t := table.NewWriter()
	t.SetTitle(s.title)

	t.AppendHeader(table.Row{
		"Feature", "Passed", "Failed", "Skipped", "Undefined", "Status",
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Feature", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Skipped", Align: text.AlignRight},
		{Name: "Undefined", Align: text.AlignRight},
	})

	for _, feature := range suite.Features {
		name := feature.RelativeFolder
		if name == "" {
			name = feature.URI
		}
		t.AppendRow(table.Row{
			name,
			feature.Scenarios.Passed,
			feature.Scenarios.Failed,
			feature.Scenarios.Skipped,
			feature.Scenarios.NotDefined,
			getFeatureResultString(feature),
		})
	}

	t.AppendFooter(table.Row{
		fmt.Sprintf("Features: %d passed, %d failed", suite.Summary.Passed, suite.Summary.Failed),
		suite.Scenarios.Passed,
		suite.Scenarios.Failed,
		suite.Scenarios.Skipped,
		suite.Scenarios.NotDefined,
		"",
	})

	switch {
	case suite.Failed > 0 || suite.Scenarios.Failed > 0:
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	case suite.Scenarios.NotDefined > 0 || suite.Scenarios.Skipped > 0:
		t.SetStyle(table.StyleColoredBlackOnYellowWhite)
	case suite.Passed > 0:
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	default:
		t.SetStyle(table.StyleDefault)
	}

	return t.Render() + "\n"
}

// Print writes the rendered table to w
func (s *SummaryTable) Print(w io.Writer, suite *types.Suite) error {
	_, err := io.WriteString(w, s.Format(suite))
	return err
}

// featureStatus returns the outcome of a feature: passed, failed, or empty when
// it has no scenarios
func featureStatus(feature types.ReportFeature) string {
	switch {
	case !feature.Counted:
		return "empty"
	case feature.IsFailed:
		return "failed"
	default:
		return "passed"
	}
}

// getFeatureResultString returns a marker for the feature outcome
func getFeatureResultString(feature types.ReportFeature) string {
	switch featureStatus(feature) {
	case "empty":
		return "- empty"
	case "failed":
		return "✗ fail"
	default:
		return "✓ pass"
	}
}
