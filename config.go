package cukereport

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/ethereum-optimism/infra/op-cukereport/flags"
)

// Config holds the application configuration
type Config struct {
	Output                 string // Path of the generated HTML report
	Theme                  string // Bundled template set
	TemplateDir            string // Optional directory overriding bundled templates
	JSONFile               string // Cucumber JSON result document
	ReportSuiteAsScenarios bool   // Top-level totals count scenarios instead of features
	ProjectDir             string // Where package.json / go.mod are looked up
	ProjectName            string // Overrides the discovered project name
	ProjectVersion         string // Overrides the discovered project version
	PrintSummary           bool   // Print the summary table to stdout
	WriteSummary           bool   // Write summary.json next to the report
	FailOnFailures         bool   // Return a TestFailureError when the suite has failures
	MetricsTextfile        string // Optional node_exporter textfile path
	Log                    log.Logger
}

// FileConfig is the YAML form of Config read from --config. Pointers tell an
// absent key apart from a false value.
type FileConfig struct {
	Output                 string `yaml:"output"`
	Theme                  string `yaml:"theme"`
	TemplateDir            string `yaml:"templateDir"`
	JSONFile               string `yaml:"jsonFile"`
	ReportSuiteAsScenarios *bool  `yaml:"reportSuiteAsScenarios"`
	ProjectDir             string `yaml:"projectDir"`
	ProjectName            string `yaml:"projectName"`
	ProjectVersion         string `yaml:"projectVersion"`
	PrintSummary           *bool  `yaml:"printSummary"`
	WriteSummary           *bool  `yaml:"writeSummary"`
	FailOnFailures         *bool  `yaml:"failOnFailures"`
	MetricsTextfile        string `yaml:"metricsTextfile"`
}

// LoadFileConfig reads a YAML config file
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &fc, nil
}

// NewConfig creates a new Config from cli context. Values from the --config file
// are used for every flag not set on the command line or through the environment.
func NewConfig(ctx *cli.Context, log log.Logger) (*Config, error) {
	cfg := &Config{
		Output:                 ctx.String(flags.Output.Name),
		Theme:                  ctx.String(flags.Theme.Name),
		TemplateDir:            ctx.String(flags.TemplateDir.Name),
		JSONFile:               ctx.String(flags.JSONFile.Name),
		ReportSuiteAsScenarios: ctx.Bool(flags.ReportSuiteAsScenarios.Name),
		ProjectDir:             ctx.String(flags.ProjectDir.Name),
		ProjectName:            ctx.String(flags.ProjectName.Name),
		ProjectVersion:         ctx.String(flags.ProjectVersion.Name),
		PrintSummary:           ctx.Bool(flags.PrintSummary.Name),
		WriteSummary:           ctx.Bool(flags.WriteSummary.Name),
		FailOnFailures:         ctx.Bool(flags.FailOnFailures.Name),
		MetricsTextfile:        ctx.String(flags.MetricsTextfile.Name),
		Log:                    log,
	}

	if path := ctx.String(flags.ConfigFile.Name); path != "" {
		fc, err := LoadFileConfig(path)
		if err != nil {
			return nil, err
		}
		cfg.apply(fc, ctx.IsSet)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// apply copies values from fc for every option isSet reports as unset
func (c *Config) apply(fc *FileConfig, isSet func(name string) bool) {
	setString := func(dst *string, flag *cli.StringFlag, v string) {
		if v != "" && !isSet(flag.Name) {
			*dst = v
		}
	}
	setBool := func(dst *bool, flag *cli.BoolFlag, v *bool) {
		if v != nil && !isSet(flag.Name) {
			*dst = *v
		}
	}

	setString(&c.Output, flags.Output, fc.Output)
	setString(&c.Theme, flags.Theme, fc.Theme)
	setString(&c.TemplateDir, flags.TemplateDir, fc.TemplateDir)
	setString(&c.JSONFile, flags.JSONFile, fc.JSONFile)
	setBool(&c.ReportSuiteAsScenarios, flags.ReportSuiteAsScenarios, fc.ReportSuiteAsScenarios)
	setString(&c.ProjectDir, flags.ProjectDir, fc.ProjectDir)
	setString(&c.ProjectName, flags.ProjectName, fc.ProjectName)
	setString(&c.ProjectVersion, flags.ProjectVersion, fc.ProjectVersion)
	setBool(&c.PrintSummary, flags.PrintSummary, fc.PrintSummary)
	setBool(&c.WriteSummary, flags.WriteSummary, fc.WriteSummary)
	setBool(&c.FailOnFailures, flags.FailOnFailures, fc.FailOnFailures)
	setString(&c.MetricsTextfile, flags.MetricsTextfile, fc.MetricsTextfile)
}

// finalize checks required options, fills defaults and resolves absolute paths
func (c *Config) finalize() error {
	if c.Output == "" {
		return errors.New("output path is required")
	}
	if c.Theme == "" {
		c.Theme = flags.Theme.Value
	}
	if c.JSONFile == "" {
		c.JSONFile = c.Output + ".json"
	}
	if c.ProjectDir == "" {
		c.ProjectDir = "."
	}
	if c.Log == nil {
		c.Log = log.New()
	}

	for _, p := range []struct {
		name string
		val  *string
	}{
		{"output", &c.Output},
		{"json file", &c.JSONFile},
		{"template directory", &c.TemplateDir},
		{"project directory", &c.ProjectDir},
		{"metrics textfile", &c.MetricsTextfile},
	} {
		if *p.val == "" {
			continue
		}
		abs, err := filepath.Abs(*p.val)
		if err != nil {
			return fmt.Errorf("failed to resolve absolute path for %s '%s': %w", p.name, *p.val, err)
		}
		*p.val = abs
	}
	return nil
}
