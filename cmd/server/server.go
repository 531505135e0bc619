package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	mandel "github.com/marben/mandel_zoom"
	"github.com/marben/mandel_zoom/config"
	"github.com/marben/mandel_zoom/logger"
	"github.com/marben/mandel_zoom/server"
)

// main is the entry point for the standalone zoom server.
// Every connected websocket client gets its own zoom, rendered on this machine.
func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run() error {
	addr := flag.String("addr", ":8080", "listen address")
	cfgPath := flag.String("config", "", "YAML file with the base settings")
	static := flag.String("static", "", "directory served on /")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	// base settings fill in whatever a client request leaves out;
	// replace mandel.SeahorseValley with another landmark to start elsewhere
	base := config.Default()
	base.Landmark = mandel.SeahorseValley.Name
	if *cfgPath != "" {
		var err error
		if base, err = config.Load(*cfgPath); err != nil {
			return fmt.Errorf("config.Load: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s := server.New(base, logger.New(logger.Config{Debug: *debug}))
	s.StaticDir = *static
	return s.ListenAndServe(ctx, *addr)
}
