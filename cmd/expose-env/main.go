package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/systemstart/expose-env/pkg/logging"
)

// version is set via ldflags
var version = "dev"

var cli struct {
	Globals

	Run      RunCmd      `cmd:"" help:"Run a single job file."`
	All      AllCmd      `cmd:"" help:"Discover and run every job file under a directory."`
	Validate ValidateCmd `cmd:"" help:"Validate job files without running them."`
	Steps    StepsCmd    `cmd:"" help:"List the available step types."`
	Version  VersionCmd  `cmd:"" help:"Show version information."`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kctx := kong.Parse(&cli,
		kong.Name("expose-env"),
		kong.Description("Run build jobs whose steps expose environment variables to the steps that follow."),
		kong.UsageOnError(),
		kong.Bind(&cli.Globals),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	if err := logging.Initialize(os.Stderr, cli.LoggingType, cli.LogLevel); err != nil {
		kctx.FatalIfErrorf(err)
	}

	includeEnv()

	if err := kctx.Run(); err != nil {
		slog.Error(err.Error())
		cancel()
		os.Exit(1)
	}
}

func includeEnv() {
	err := godotenv.Load()
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Error("failed to load .env", "error", err)
			os.Exit(1)
		}
		slog.Debug("no .env file found")
	} else {
		slog.Info("using .env file")
	}
}
