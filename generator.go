package cukereport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ethereum-optimism/infra/op-cukereport/aggregator"
	"github.com/ethereum-optimism/infra/op-cukereport/loader"
	"github.com/ethereum-optimism/infra/op-cukereport/metrics"
	"github.com/ethereum-optimism/infra/op-cukereport/project"
	"github.com/ethereum-optimism/infra/op-cukereport/reporting"
	"github.com/ethereum-optimism/infra/op-cukereport/types"
)

// Generator turns a cucumber result document into an HTML report
type Generator struct {
	config   *Config
	version  string
	stdout   io.Writer
	now      func() time.Time
	newRunID func() string
	tracer   trace.Tracer
}

// New creates a generator for config. version is the version of op-cukereport
// printed in the report footer.
func New(config *Config, version string) (*Generator, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if config.Log == nil {
		config.Log = log.New()
	}

	config.Log.Debug("Creating generator with config",
		"output", config.Output,
		"jsonFile", config.JSONFile,
		"theme", config.Theme,
		"templateDir", config.TemplateDir,
		"reportSuiteAsScenarios", config.ReportSuiteAsScenarios)

	return &Generator{
		config:   config,
		version:  version,
		stdout:   os.Stdout,
		now:      time.Now,
		newRunID: func() string { return uuid.New().String() },
		tracer:   otel.Tracer("op-cukereport"),
	}, nil
}

// WithStdout redirects the summary table
func (g *Generator) WithStdout(w io.Writer) *Generator {
	g.stdout = w
	return g
}

// WithClock overrides the time source used for the run time and the report timestamp
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Run loads the result document, aggregates it and writes the report. The
// returned suite is set whenever aggregation happened, even if rendering failed.
// Input, asset and output failures are RuntimeErrors; a suite with failures
// yields a TestFailureError when FailOnFailures is set.
func (g *Generator) Run(ctx context.Context) (*types.Suite, error) {
	start := g.now()
	ctx, span := g.tracer.Start(ctx, "generate report")
	defer span.End()

	doc, err := loader.LoadFile(g.config.JSONFile)
	if err != nil {
		metrics.RecordErrorDetails("load", err)
		return nil, NewRuntimeError(err)
	}

	info, err := g.projectInfo()
	if err != nil {
		return nil, NewRuntimeError(fmt.Errorf("failed to read project metadata: %w", err))
	}

	runID := g.newRunID()
	span.SetAttributes(
		attribute.String("run_id", runID),
		attribute.String("project", info.Name),
	)
	g.config.Log.Info("Generating report", "run_id", runID, "project", info.Name, "json", g.config.JSONFile)

	store := aggregator.NewFileAttachmentStore(aggregator.ScreenshotDir(g.config.Output), g.config.Log)
	suite := aggregator.New(g.config.Log, store).Aggregate(ctx, doc,
		aggregator.Config{ReportSuiteAsScenarios: g.config.ReportSuiteAsScenarios},
		aggregator.RunInfo{
			RunID:   runID,
			Name:    info.Name,
			Version: info.Version,
			Time:    start,
		})

	assembler := reporting.NewAssembler(
		reporting.Config{Theme: g.config.Theme, Version: g.version},
		g.config.Log,
		reporting.NewAssetResolver(g.config.TemplateDir, g.config.Theme),
		reporting.NewHTMLRenderer(),
	).WithClock(g.now)
	assembleErr := assembler.AssembleToFile(ctx, suite, g.config.Output)

	// Attachment writes run in the background and must finish before we return
	for _, err := range store.Wait() {
		g.config.Log.Warn("Failed to save attachment", "err", err)
	}

	if assembleErr != nil {
		metrics.RecordErrorDetails("assemble", assembleErr)
		return suite, NewRuntimeError(assembleErr)
	}

	if g.config.WriteSummary {
		path := reporting.SummaryPath(g.config.Output)
		if err := reporting.WriteSummaryJSON(path, suite); err != nil {
			return suite, NewRuntimeError(err)
		}
		g.config.Log.Debug("Wrote summary", "path", path)
	}

	if g.config.PrintSummary {
		title := fmt.Sprintf("Cucumber Report: %s", displayName(suite))
		if err := reporting.NewSummaryTable(title).Print(g.stdout, suite); err != nil {
			g.config.Log.Warn("Failed to print summary table", "err", err)
		}
	}

	metrics.RecordSuite(suite, g.now().Sub(start))
	if g.config.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(g.config.MetricsTextfile); err != nil {
			return suite, NewRuntimeError(err)
		}
	}

	g.config.Log.Info("Report completed",
		"run_id", runID,
		"passed", suite.Passed,
		"failed", suite.Failed,
		"output", g.config.Output)

	if g.config.FailOnFailures && suite.HasFailures() {
		g.config.Log.Warn("Report contains failures, returning exit code 1")
		return suite, NewTestFailureError(suite, g.config.ReportSuiteAsScenarios)
	}
	return suite, nil
}

// projectInfo reads the project metadata and applies the configured overrides
func (g *Generator) projectInfo() (project.Info, error) {
	info, err := project.Load(g.config.ProjectDir)
	if err != nil {
		return project.Info{}, err
	}
	if g.config.ProjectName != "" {
		info.Name = g.config.ProjectName
	}
	if g.config.ProjectVersion != "" {
		info.Version = g.config.ProjectVersion
	}
	return info, nil
}

func displayName(suite *types.Suite) string {
	if suite.Name == "" {
		return "unnamed project"
	}
	if suite.Version == "" {
		return suite.Name
	}
	return fmt.Sprintf("%s %s", suite.Name, suite.Version)
}
