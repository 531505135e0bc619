package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/marben/mandel_zoom/framestore"
	"github.com/marben/mandel_zoom/render"
)

func renderCmd(opts *options) *cobra.Command {
	var flags *settingsFlags

	c := &cobra.Command{
		Use:   "render",
		Short: "Render a single image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.resolve(cmd, opts.configPath)
			if err != nil {
				return err
			}
			region, err := cfg.Region()
			if err != nil {
				return err
			}
			r, err := cfg.Renderer()
			if err != nil {
				return err
			}
			r.Logger = opts.log
			r.OnProgress = logProgress(opts.log, slog.LevelInfo)

			store, err := framestore.New(cfg.Output, cfg.ImageFormat())
			if err != nil {
				return err
			}

			start := time.Now()
			buf, err := r.Render(cmd.Context(), region)
			if err != nil {
				return fmt.Errorf("render %s: %w", region, err)
			}
			path, err := store.Save(render.Label(0, 1), buf)
			if err != nil {
				return err
			}
			opts.log.Info("image saved", "path", path, "region", region.String(), "elapsed", time.Since(start))
			return nil
		},
	}

	flags = bindSettings(c, false)
	return c
}

func zoomCmd(opts *options) *cobra.Command {
	var flags *settingsFlags

	c := &cobra.Command{
		Use:   "zoom",
		Short: "Render a sequence of frames zooming into the set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.resolve(cmd, opts.configPath)
			if err != nil {
				return err
			}
			seq, err := cfg.Sequence()
			if err != nil {
				return err
			}
			seq.Renderer.Logger = opts.log
			seq.Renderer.OnProgress = logProgress(opts.log, slog.LevelDebug)

			store, err := framestore.New(cfg.Output, cfg.ImageFormat())
			if err != nil {
				return err
			}

			opts.log.Info("zoom started", "region", seq.Region.String(), "frames", seq.Frames, "rate", seq.Decay, "out", store.Dir)
			start := time.Now()
			for frame, err := range seq.All(cmd.Context()) {
				if err != nil {
					return err
				}
				path, err := store.Save(frame.Label, frame.Buffer)
				if err != nil {
					return err
				}
				opts.log.Info("frame saved", "frame", fmt.Sprintf("%d/%d", frame.Index+1, seq.Frames), "scale", frame.Region.Scale, "path", path)
			}
			opts.log.Info("zoom finished", "frames", seq.Frames, "elapsed", time.Since(start))
			return nil
		},
	}

	flags = bindSettings(c, true)
	return c
}
