package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	mandel "github.com/marben/mandel_zoom"
	"github.com/marben/mandel_zoom/framestore"
	"github.com/marben/mandel_zoom/server"
)

func serveCmd(opts *options) *cobra.Command {
	var flags *settingsFlags
	var addr, static string
	var thumbnail, maxPixels int

	c := &cobra.Command{
		Use:   "serve",
		Short: "Stream zoom sequences to websocket clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			base, err := flags.resolve(cmd, opts.configPath)
			if err != nil {
				return err
			}

			s := server.New(base, opts.log)
			s.Thumbnail = thumbnail
			s.StaticDir = static
			s.MaxPixels = maxPixels
			return s.ListenAndServe(cmd.Context(), addr)
		},
	}

	flags = bindSettings(c, true)
	c.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	c.Flags().StringVar(&static, "static", "", "directory served on /")
	c.Flags().IntVar(&thumbnail, "thumbnail", 0, "scale streamed frames down to this width")
	c.Flags().IntVar(&maxPixels, "max-pixels", server.DefaultMaxPixels, "largest accepted width*height")
	return c
}

func fetchCmd(opts *options) *cobra.Command {
	var flags *settingsFlags
	var url string

	c := &cobra.Command{
		Use:   "fetch",
		Short: "Request a zoom from a server and save its frames",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.resolve(cmd, opts.configPath)
			if err != nil {
				return err
			}
			store, err := framestore.New(cfg.Output, cfg.ImageFormat())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			opts.log.Info("connecting", "url", url)
			client, err := server.Dial(ctx, url, cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			n := 0
			for {
				index, label, data, err := client.Next(ctx)
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return fmt.Errorf("frame %d: %w", n, err)
				}
				path, err := store.SaveEncoded(label, data)
				if err != nil {
					return err
				}
				opts.log.Info("frame saved", "index", index, "bytes", len(data), "path", path)
				n++
			}
			opts.log.Info("fetch finished", "frames", n)
			return nil
		},
	}

	flags = bindSettings(c, true)
	c.Flags().StringVar(&url, "url", "ws://localhost:8080/ws", "server websocket endpoint")
	return c
}

func regionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List the named landmark regions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printLandmarks(cmd.OutOrStdout(), mandel.Landmarks())
		},
	}
}

func printLandmarks(w io.Writer, landmarks []mandel.Landmark) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tREAL\tIMAG\tSCALE\tDESCRIPTION")
	for _, l := range landmarks {
		fmt.Fprintf(tw, "%s\t%g\t%g\t%g\t%s\n", l.Name, l.Center.Re, l.Center.Im, l.Scale, l.Description)
	}
	return tw.Flush()
}
