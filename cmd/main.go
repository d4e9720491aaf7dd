package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/log"
	"github.com/honeycombio/otel-config-go/otelconfig"
	"github.com/urfave/cli/v2"

	cukereport "github.com/ethereum-optimism/infra/op-cukereport"
	"github.com/ethereum-optimism/infra/op-cukereport/exitcodes"
	"github.com/ethereum-optimism/infra/op-cukereport/flags"
	"github.com/ethereum-optimism/infra/op-cukereport/service"
	"github.com/ethereum-optimism/infra/op-cukereport/types"
	"github.com/ethereum-optimism/optimism/op-service/cliapp"
	"github.com/ethereum-optimism/optimism/op-service/ctxinterrupt"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := newApp()

	// Telemetry is only configured when an exporter endpoint is provided
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		shutdown, err := otelconfig.ConfigureOpenTelemetry(
			otelconfig.WithServiceName(app.Name),
			otelconfig.WithServiceVersion(app.Version),
		)
		if err != nil {
			log.Crit("Failed to setup open telemetry", "message", err)
		}
		defer shutdown()
	}

	ctx := ctxinterrupt.WithSignalWaiterMain(context.Background())
	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Crit("Application failed", "message", err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "op-cukereport"
	app.Usage = "Cucumber JSON to HTML report generator"
	app.Description = "op-cukereport renders cucumber JSON results as a browsable HTML report"
	app.Flags = cliapp.ProtectFlags(flags.Flags)
	app.Action = generate
	app.Commands = []*cli.Command{
		{
			Name:   "serve",
			Usage:  "Serve a generated report directory over HTTP",
			Flags:  cliapp.ProtectFlags(flags.ServeFlags),
			Action: cliapp.LifecycleCmd(serve),
		},
	}
	app.ExitErrHandler = func(c *cli.Context, err error) {
		if err == nil {
			return
		}
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
			return
		}
		cli.HandleExitCoder(cli.Exit(err.Error(), exitCode(err)))
	}
	return app
}

// exitCode maps a typed error to the process exit code
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitcodes.Success
	case cukereport.IsTestFailureError(err):
		return exitcodes.TestFailure
	case cukereport.IsRuntimeError(err), types.IsInputError(err), types.IsAssetError(err):
		return exitcodes.RuntimeErr
	default:
		return exitcodes.TestFailure
	}
}

func setupLogger(ctx *cli.Context) log.Logger {
	logCfg := oplog.ReadCLIConfig(ctx)
	logger := oplog.NewLogger(oplog.AppOut(ctx), logCfg)
	oplog.SetGlobalLogHandler(logger.Handler())
	return logger
}

func generate(ctx *cli.Context) error {
	logger := setupLogger(ctx)

	cfg, err := cukereport.NewConfig(ctx, logger)
	if err != nil {
		// Wrap in RuntimeError to signal this should exit with code 2
		return cukereport.NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
	}

	gen, err := cukereport.New(cfg, Version)
	if err != nil {
		return cukereport.NewRuntimeError(fmt.Errorf("failed to create generator: %w", err))
	}

	_, err = gen.Run(ctx.Context)
	return err
}

func serve(ctx *cli.Context, closeApp context.CancelCauseFunc) (cliapp.Lifecycle, error) {
	logger := setupLogger(ctx)

	dir := ctx.String(flags.ServeDir.Name)
	if dir == "" {
		output := ctx.String(flags.Output.Name)
		if output == "" {
			return nil, cukereport.NewRuntimeError(errors.New("either --dir or --output is required"))
		}
		dir = filepath.Dir(output)
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, cukereport.NewRuntimeError(fmt.Errorf("failed to resolve absolute path for '%s': %w", dir, err))
	}

	return service.NewReportServer(absDir, ctx.String(flags.ServeAddr.Name), logger), nil
}
