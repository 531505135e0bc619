// cliclient requests a zoom from a running server and saves the frames it
// streams back.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/marben/mandel_zoom/config"
	"github.com/marben/mandel_zoom/framestore"
	"github.com/marben/mandel_zoom/server"
)

// main is the entry point for the CLI client.
// It runs the client logic and logs any fatal errors.
func main() {
	log.Printf("Starting CLI client...")
	if err := run(); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

// run connects to the server, requests a zoom and writes every frame to the
// output directory.
func run() error {
	url := flag.String("url", "ws://localhost:8080/ws", "server websocket endpoint")
	cfgPath := flag.String("config", "", "YAML file describing the zoom")
	frames := flag.Int("frames", 10, "number of frames to request")
	out := flag.String("out", "output", "output directory")
	flag.Parse()

	req := config.Default()
	if *cfgPath != "" {
		var err error
		if req, err = config.Load(*cfgPath); err != nil {
			return fmt.Errorf("config.Load: %w", err)
		}
	}
	req.Frames = *frames
	if err := req.Validate(); err != nil {
		return err
	}

	store, err := framestore.New(*out, req.ImageFormat())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Step 1: Connect to the server and submit the zoom
	log.Printf("Connecting to server at %s...", *url)
	client, err := server.Dial(ctx, *url, req)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer client.Close()

	// Step 2: Save frames as they arrive
	for {
		index, label, data, err := client.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("client.Next: %w", err)
		}
		path, err := store.SaveEncoded(label, data)
		if err != nil {
			return err
		}
		log.Printf("Frame %d/%d saved to %q", index+1, req.Frames, path)
	}

	log.Printf("All %d frames saved to %q", req.Frames, *out)
	return nil
}
