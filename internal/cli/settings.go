package cli

import (
	"github.com/spf13/cobra"

	"github.com/marben/mandel_zoom/config"
	"github.com/marben/mandel_zoom/sample"
)

// settingsFlags holds the raw flag values of the render settings. Only
// flags the user actually set are applied over the config file.
type settingsFlags struct {
	cfg      config.Config
	centered bool
}

func bindSettings(c *cobra.Command, zoom bool) *settingsFlags {
	f := &settingsFlags{cfg: config.Default()}
	d := f.cfg
	fs := c.Flags()

	fs.Float64VarP(&f.cfg.Real, "real", "r", d.Real, "real part of the image center")
	fs.Float64VarP(&f.cfg.Imag, "imag", "i", d.Imag, "imaginary part of the image center")
	fs.Float64VarP(&f.cfg.Scale, "scale", "s", d.Scale, "width of the sampled area in the complex plane")
	fs.StringVar(&f.cfg.Landmark, "region", "", "start from a named landmark (see 'mandel regions')")
	fs.Uint16VarP(&f.cfg.MaxIters, "max-iters", "m", d.MaxIters, "iteration cap per sample")
	fs.Uint8VarP(&f.cfg.SSPower, "ss-power", "p", d.SSPower, "supersampling subdivisions per axis")
	fs.BoolVar(&f.centered, "centered", false, "center the supersampling grid on each pixel")
	fs.IntVarP(&f.cfg.Width, "width", "W", d.Width, "image width in pixels")
	fs.IntVarP(&f.cfg.Height, "height", "H", d.Height, "image height in pixels")
	fs.StringSliceVarP(&f.cfg.Cmap, "cmap", "c", nil, "gradient anchors as #RRGGBB, low to high iteration count")
	fs.StringVar(&f.cfg.Palette, "palette", d.Palette, "named gradient: grey, fire, ocean, classic or rainbow")
	fs.IntVar(&f.cfg.Workers, "workers", d.Workers, "sampling goroutines per frame")
	fs.StringVar(&f.cfg.Format, "format", d.Format, "image format: png, bmp or tiff")
	fs.StringVarP(&f.cfg.Output, "out", "o", d.Output, "output directory")

	if zoom {
		fs.IntVarP(&f.cfg.Frames, "frames", "f", d.Frames, "number of frames")
		fs.Float64VarP(&f.cfg.Rate, "rate", "R", d.Rate, "scale multiplier between frames")
	}
	return f
}

// resolve layers the set flags over the config file over the defaults.
func (f *settingsFlags) resolve(c *cobra.Command, configPath string) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	fs := c.Flags()
	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}

	// An explicit position replaces a landmark from the file.
	if fs.Changed("real") || fs.Changed("imag") || fs.Changed("scale") {
		cfg.Landmark = ""
	}
	set("real", func() { cfg.Real = f.cfg.Real })
	set("imag", func() { cfg.Imag = f.cfg.Imag })
	set("scale", func() { cfg.Scale = f.cfg.Scale })
	set("region", func() { cfg.Landmark = f.cfg.Landmark })
	set("max-iters", func() { cfg.MaxIters = f.cfg.MaxIters })
	set("ss-power", func() { cfg.SSPower = f.cfg.SSPower })
	set("width", func() { cfg.Width = f.cfg.Width })
	set("height", func() { cfg.Height = f.cfg.Height })
	set("palette", func() {
		cfg.Palette = f.cfg.Palette
		cfg.Cmap = nil
	})
	set("cmap", func() { cfg.Cmap = f.cfg.Cmap })
	set("workers", func() { cfg.Workers = f.cfg.Workers })
	set("format", func() { cfg.Format = f.cfg.Format })
	set("out", func() { cfg.Output = f.cfg.Output })
	set("frames", func() { cfg.Frames = f.cfg.Frames })
	set("rate", func() { cfg.Rate = f.cfg.Rate })
	if f.centered {
		cfg.Offset = sample.OffsetCentered.String()
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
