package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"

	"github.com/elasticdl/edl/internal"
)

// Represents the root command for the edl CLI.
var RootCmd struct {
	Quiet   bool   `short:"q" help:"Suppress informational output."`
	Verbose bool   `short:"v" help:"Enable verbose output."`
	Debug   bool   `short:"d" help:"Enable debug output."`
	Socket  string `short:"s" help:"Override the default daemon socket path." placeholder:"PATH"`

	Train      TrainCmd      `cmd:"" help:"Build a training image and submit a training job."`
	Evaluate   EvaluateCmd   `cmd:"" help:"Build a training image and submit an evaluation job."`
	Build      BuildCmd      `cmd:"" help:"Build a training image without submitting a job."`
	Push       PushCmd       `cmd:"" help:"Push a built image archive to a registry."`
	Job        JobCmd        `cmd:"" help:"Inspect or stop submitted jobs."`
	Daemon     DaemonCmd     `cmd:"" help:"Run the edl daemon."`
	Rendezvous RendezvousCmd `cmd:"" help:"Serve elastic rendezvous for a job's workers."`
	Status     StatusCmd     `cmd:"" help:"Show daemon status."`
	Shutdown   ShutdownCmd   `cmd:"" help:"Stop a running daemon."`
	Version    VersionCmd    `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("Elastic deep learning on Kubernetes.\n\nBuilds training images with containerd and submits elastic training jobs to a cluster."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	return kongCtx.Run()
}

// Configures the global logger based on CLI flags.
//
// Flags override the build-time defaults baked in via linker flags.
func configureLogger() {
	debug := RootCmd.Debug || internal.IsDebug()
	quiet := RootCmd.Quiet || internal.IsQuiet()
	verbose := RootCmd.Verbose || internal.IsVerbose()

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	} else if quiet {
		level = slog.LevelWarn
	}

	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		NoColor:    !isatty(os.Stderr),
		TimeFormat: time.Kitchen,
		AddSource:  verbose,
	})

	slog.SetDefault(slog.New(handler))
}

// Whether the given file is an interactive terminal.
func isatty(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
