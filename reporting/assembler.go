// Package reporting assembles the rendering context for an aggregated suite and
// writes the HTML report, plus the console and JSON summaries.
package reporting

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/ethereum-optimism/infra/op-cukereport/types"
)

// Config controls report assembly
type Config struct {
	// Theme selects the bundled asset set; bootstrap also loads the pie chart
	Theme string
	// Version is the version of the report generator shown in the footer
	Version string
}

// FeaturesContext is the data passed to the features fragment template
type FeaturesContext struct {
	Suite *types.Suite
}

// ReportContext is the data passed to the top-level index template
type ReportContext struct {
	Suite    *types.Suite
	Version  string
	Time     time.Time
	Features string
	Styles   string
	Script   string
	// Piechart is empty unless the bootstrap theme is active
	Piechart string
}

// Assembler builds the rendering context for a suite and renders the report
type Assembler struct {
	cfg      Config
	log      log.Logger
	assets   AssetReader
	renderer TemplateRenderer
	now      func() time.Time
	tracer   trace.Tracer
}

// NewAssembler creates an assembler reading assets from assets and rendering with renderer
func NewAssembler(cfg Config, logger log.Logger, assets AssetReader, renderer TemplateRenderer) *Assembler {
	if logger == nil {
		logger = log.New()
	}
	return &Assembler{
		cfg:      cfg,
		log:      logger.New("component", "assembler"),
		assets:   assets,
		renderer: renderer,
		now:      time.Now,
		tracer:   otel.Tracer("report assembler"),
	}
}

// WithClock overrides the time source used for the report timestamp
func (a *Assembler) WithClock(now func() time.Time) *Assembler {
	a.now = now
	return a
}

// BuildContext reads every asset and renders the features fragment. Any asset
// failure aborts with an AssetError.
func (a *Assembler) BuildContext(suite *types.Suite) (*ReportContext, error) {
	if suite == nil {
		return nil, fmt.Errorf("suite is required")
	}

	featuresTmpl, err := a.assets.ReadAsset(AssetFeatures)
	if err != nil {
		return nil, err
	}
	styles, err := a.assets.ReadAsset(AssetStyles)
	if err != nil {
		return nil, err
	}
	script, err := a.assets.ReadAsset(AssetScript)
	if err != nil {
		return nil, err
	}
	var piechart string
	if a.cfg.Theme == ThemeBootstrap {
		piechart, err = a.assets.ReadAsset(AssetPiechart)
		if err != nil {
			return nil, err
		}
	}

	features, err := a.renderer.Render("features", featuresTmpl, FeaturesContext{Suite: suite})
	if err != nil {
		return nil, fmt.Errorf("failed to render features: %w", err)
	}

	return &ReportContext{
		Suite:    suite,
		Version:  a.cfg.Version,
		Time:     a.now(),
		Features: features,
		Styles:   styles,
		Script:   script,
		Piechart: piechart,
	}, nil
}

// Render produces the complete report markup for suite
func (a *Assembler) Render(ctx context.Context, suite *types.Suite) (string, error) {
	_, span := a.tracer.Start(ctx, "assemble")
	defer span.End()

	indexTmpl, err := a.assets.ReadAsset(AssetIndex)
	if err != nil {
		return "", err
	}
	reportCtx, err := a.BuildContext(suite)
	if err != nil {
		return "", err
	}

	out, err := a.renderer.Render("index", indexTmpl, reportCtx)
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return out, nil
}

// Assemble renders the report for suite into w. Nothing is written if rendering fails.
func (a *Assembler) Assemble(ctx context.Context, suite *types.Suite, w io.Writer) error {
	out, err := a.Render(ctx, suite)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// AssembleToFile renders the report and writes it to output, creating parent
// directories as needed
func (a *Assembler) AssembleToFile(ctx context.Context, suite *types.Suite, output string) error {
	out, err := a.Render(ctx, suite)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(output); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(output, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", output, err)
	}

	a.log.Info("Generated report successfully", "output", output)
	return nil
}
