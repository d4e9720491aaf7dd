// Package aggregator walks a cucumber result document and derives the report suite:
// per-scenario step counters, per-feature scenario counters, suite totals, and the
// display data extracted from step embeddings.
package aggregator

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/ethereum/go-ethereum/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ethereum-optimism/infra/op-cukereport/metrics"
	"github.com/ethereum-optimism/infra/op-cukereport/types"
)

// Config controls a single aggregation
type Config struct {
	// ReportSuiteAsScenarios replaces the feature level passed/failed totals with
	// the scenario level ones once every feature has been processed.
	ReportSuiteAsScenarios bool
}

// RunInfo stamps the suite produced by an aggregation
type RunInfo struct {
	RunID   string
	Name    string
	Version string
	Time    time.Time
}

// Aggregator derives a Suite from a result document
type Aggregator struct {
	log         log.Logger
	attachments AttachmentStore
	tracer      trace.Tracer
}

// New creates an aggregator writing binary embeddings to the given store
func New(logger log.Logger, attachments AttachmentStore) *Aggregator {
	if logger == nil {
		logger = log.New()
	}
	return &Aggregator{
		log:         logger.New("component", "aggregator"),
		attachments: attachments,
		tracer:      otel.Tracer("result aggregator"),
	}
}

// Aggregate builds the suite for doc. The document is not modified. Binary
// embeddings are handed to the attachment store without waiting for the writes;
// callers drain the store once the report is done.
func (a *Aggregator) Aggregate(ctx context.Context, doc types.ResultDocument, cfg Config, info RunInfo) *types.Suite {
	_, span := a.tracer.Start(ctx, "aggregate")
	defer span.End()

	suite := types.NewSuite(info.RunID, info.Name, info.Version, info.Time)

	uris := make([]string, 0, len(doc))
	for _, feature := range doc {
		uris = append(uris, feature.URI)
	}
	rootDir := CommonDir(uris)
	a.log.Debug("Computed feature root", "root", rootDir, "features", len(doc))

	for _, feature := range doc {
		suite.Features = append(suite.Features, a.aggregateFeature(feature, rootDir, suite))
	}

	if cfg.ReportSuiteAsScenarios {
		suite.Failed = suite.Scenarios.Failed
		suite.Passed = suite.Scenarios.Passed
	}

	span.SetAttributes(
		attribute.Int("features", len(suite.Features)),
		attribute.Int("scenarios.passed", suite.Scenarios.Passed),
		attribute.Int("scenarios.failed", suite.Scenarios.Failed),
	)
	a.log.Info("Aggregated results",
		"features", len(suite.Features),
		"passed", suite.Passed,
		"failed", suite.Failed,
		"scenarios", suite.Scenarios.Total())

	return suite
}

func (a *Aggregator) aggregateFeature(feature types.Feature, rootDir string, suite *types.Suite) types.ReportFeature {
	out := types.ReportFeature{
		URI:            feature.URI,
		ID:             feature.ID,
		Name:           feature.Name,
		Keyword:        feature.Keyword,
		Description:    feature.Description,
		Line:           feature.Line,
		Tags:           feature.Tags,
		RelativeFolder: RelativeFolder(feature.URI, rootDir),
	}

	// Features without scenarios take no part in any tally
	if len(feature.Elements) == 0 {
		return out
	}
	out.Counted = true
	out.Elements = make([]types.ReportScenario, 0, len(feature.Elements))

	for _, element := range feature.Elements {
		scenario := a.aggregateScenario(element)

		switch scenario.Outcome {
		case types.ScenarioNotDefined:
			// Does not mark the feature as failed; only failed steps do.
			out.Scenarios.NotDefined++
			suite.Scenarios.NotDefined++
		case types.ScenarioFailed:
			out.Scenarios.Failed++
			out.IsFailed = true
			suite.Scenarios.Failed++
		case types.ScenarioSkipped:
			out.Scenarios.Skipped++
			suite.Scenarios.Skipped++
		case types.ScenarioPassed:
			out.Scenarios.Passed++
			suite.Scenarios.Passed++
		}

		out.Elements = append(out.Elements, scenario)
	}

	if out.IsFailed {
		suite.Summary.Failed++
		suite.Failed++
	} else {
		suite.Summary.Passed++
		suite.Passed++
	}
	return out
}

func (a *Aggregator) aggregateScenario(element types.Element) types.ReportScenario {
	scenario := types.ReportScenario{
		ID:          element.ID,
		Name:        element.Name,
		Keyword:     element.Keyword,
		Type:        element.Type,
		Description: element.Description,
		Line:        element.Line,
		Tags:        element.Tags,
		Steps:       make([]types.ReportStep, 0, len(element.Steps)),
	}

	for _, step := range element.Steps {
		reportStep := types.ReportStep{Step: step}
		a.processEmbeddings(&reportStep)
		countStep(&scenario.Counts, step)
		scenario.Steps = append(scenario.Steps, reportStep)
	}

	scenario.Outcome = ClassifyScenario(scenario.Counts)
	return scenario
}

// processEmbeddings merges text embeddings into the step text and hands binary
// ones to the attachment store
func (a *Aggregator) processEmbeddings(step *types.ReportStep) {
	for _, embedding := range step.Embeddings {
		if embedding.IsText() {
			text, err := decodeBase64(embedding.Data)
			if err != nil {
				a.log.Warn("Skipping undecodable text embedding", "step", step.Name, "error", err)
				metrics.RecordAttachment("text", false)
				continue
			}
			metrics.RecordAttachment("text", true)
			clean := stripansi.Strip(string(text))
			if step.Text == "" {
				step.Text = clean
			} else {
				step.Text = step.Text + types.TextSeparator + clean
			}
			continue
		}

		data, err := decodeBase64(embedding.Data)
		if err != nil {
			a.log.Error("Error decoding screenshot", "step", step.Name, "mimeType", embedding.Type(), "error", err)
			metrics.RecordAttachment("binary", false)
			continue
		}
		if a.attachments == nil {
			continue
		}
		step.Image = a.attachments.Save(screenshotBaseName(step.Step), data)
	}
}

// countStep increments the scenario counter matching the step's status. A step
// without a result counts nowhere.
func countStep(counts *types.StepCounts, step types.Step) {
	if step.Result == nil {
		return
	}
	metrics.RecordStep(step.Result.Status)
	switch step.Result.Status {
	case types.StepStatusPassed:
		counts.Passed++
	case types.StepStatusFailed:
		counts.Failed++
	case types.StepStatusUndefined:
		counts.NotDefined++
	default:
		counts.Skipped++
	}
}

// ClassifyScenario resolves step counters to a scenario outcome. Precedence is
// fixed: notdefined, failed, skipped, passed. All-zero counters are uncounted.
func ClassifyScenario(counts types.StepCounts) types.ScenarioOutcome {
	switch {
	case counts.NotDefined > 0:
		return types.ScenarioNotDefined
	case counts.Failed > 0:
		return types.ScenarioFailed
	case counts.Skipped > 0:
		return types.ScenarioSkipped
	case counts.Passed > 0:
		return types.ScenarioPassed
	default:
		return types.ScenarioUncounted
	}
}

func decodeBase64(data string) ([]byte, error) {
	data = strings.TrimSpace(data)
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		if decoded, err := enc.DecodeString(data); err == nil {
			return decoded, nil
		}
	}
	return nil, errors.New("embedding data is not valid base64")
}
