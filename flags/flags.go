package flags

import (
	"github.com/urfave/cli/v2"

	opservice "github.com/ethereum-optimism/optimism/op-service"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"
)

const EnvVarPrefix = "OP_CUKEREPORT"

var (
	ConfigFile = &cli.StringFlag{
		Name:    "config",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "CONFIG"),
		Usage:   "Path to a YAML file holding report options; explicit flags take precedence",
	}
	Output = &cli.StringFlag{
		Name:    "output",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "OUTPUT"),
		Usage:   "Path of the HTML report to generate (eg. 'reports/features_report.html')",
	}
	Theme = &cli.StringFlag{
		Name:    "theme",
		Value:   "bootstrap",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "THEME"),
		Usage:   "Bundled template set to use ('bootstrap' or 'simple')",
	}
	TemplateDir = &cli.StringFlag{
		Name:    "template-dir",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "TEMPLATE_DIR"),
		Usage:   "Directory whose templates override the bundled theme, file by file",
	}
	JSONFile = &cli.StringFlag{
		Name:    "json-file",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "JSON_FILE"),
		Usage:   "Cucumber JSON result document to read. Defaults to '<output>.json'",
	}
	ReportSuiteAsScenarios = &cli.BoolFlag{
		Name:    "report-suite-as-scenarios",
		Value:   false,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "REPORT_SUITE_AS_SCENARIOS"),
		Usage:   "Report top-level passed/failed totals per scenario instead of per feature",
	}
	ProjectDir = &cli.StringFlag{
		Name:    "project-dir",
		Value:   ".",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "PROJECT_DIR"),
		Usage:   "Directory holding the package.json or go.mod that names the project",
	}
	ProjectName = &cli.StringFlag{
		Name:    "project-name",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "PROJECT_NAME"),
		Usage:   "Project name shown in the report (overrides project-dir discovery)",
	}
	ProjectVersion = &cli.StringFlag{
		Name:    "project-version",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "PROJECT_VERSION"),
		Usage:   "Project version shown in the report (overrides project-dir discovery)",
	}
	PrintSummary = &cli.BoolFlag{
		Name:    "print-summary",
		Value:   true,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "PRINT_SUMMARY"),
		Usage:   "Print a per-feature summary table to stdout",
	}
	WriteSummary = &cli.BoolFlag{
		Name:    "write-summary",
		Value:   true,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "WRITE_SUMMARY"),
		Usage:   "Write summary.json next to the report",
	}
	FailOnFailures = &cli.BoolFlag{
		Name:    "fail-on-failures",
		Value:   false,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "FAIL_ON_FAILURES"),
		Usage:   "Exit with code 1 when the report contains failures",
	}
	MetricsTextfile = &cli.StringFlag{
		Name:    "metrics-textfile",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "METRICS_TEXTFILE"),
		Usage:   "Write report metrics in the node_exporter textfile format to this path",
	}
)

// Serve command flags
var (
	ServeAddr = &cli.StringFlag{
		Name:    "addr",
		Value:   "127.0.0.1:8090",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "SERVE_ADDR"),
		Usage:   "Address to serve the report directory on",
	}
	ServeDir = &cli.StringFlag{
		Name:    "dir",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "SERVE_DIR"),
		Usage:   "Directory to serve. Defaults to the directory of --output",
	}
)

var generateFlags = []cli.Flag{
	ConfigFile,
	Output,
	Theme,
	TemplateDir,
	JSONFile,
	ReportSuiteAsScenarios,
	ProjectDir,
	ProjectName,
	ProjectVersion,
	PrintSummary,
	WriteSummary,
	FailOnFailures,
	MetricsTextfile,
}

var serveFlags = []cli.Flag{
	ServeAddr,
	ServeDir,
	Output,
}

var (
	Flags      []cli.Flag
	ServeFlags []cli.Flag
)

func init() {
	logFlags := oplog.CLIFlags(EnvVarPrefix)

	Flags = append(Flags, generateFlags...)
	Flags = append(Flags, logFlags...)

	ServeFlags = append(ServeFlags, serveFlags...)
	ServeFlags = append(ServeFlags, logFlags...)
}
