package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/marben/mandel_zoom/logger"
)

// options are shared by every subcommand.
type options struct {
	debug      bool
	jsonLog    bool
	configPath string

	log *slog.Logger
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{log: logger.Nop()}

	cmd := &cobra.Command{
		Use:          "mandel",
		Short:        "Render Mandelbrot images and zoom sequences",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			opts.log = logger.New(logger.Config{
				Debug:  opts.debug,
				JSON:   opts.jsonLog,
				Writer: cmd.ErrOrStderr(),
			})
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&opts.jsonLog, "log-json", false, "write log records as JSON")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML settings file; flags override its values")

	cmd.AddCommand(
		renderCmd(opts),
		zoomCmd(opts),
		serveCmd(opts),
		fetchCmd(opts),
		regionsCmd(),
	)
	return cmd
}
