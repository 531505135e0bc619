// Package config loads render settings from YAML files and turns them into
// regions, renderers and sequences.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	mandel "github.com/marben/mandel_zoom"
	"github.com/marben/mandel_zoom/palette"
	"github.com/marben/mandel_zoom/raster"
	"github.com/marben/mandel_zoom/render"
	"github.com/marben/mandel_zoom/sample"
)

// Config is everything needed to render one image or a zoom.
type Config struct {
	Real     float64 `yaml:"real" json:"real"`
	Imag     float64 `yaml:"imag" json:"imag"`
	Scale    float64 `yaml:"scale" json:"scale"`
	Landmark string  `yaml:"landmark,omitempty" json:"landmark,omitempty"`

	MaxIters uint16 `yaml:"max_iters" json:"max_iters"`
	SSPower  uint8  `yaml:"ss_power" json:"ss_power"`
	Offset   string `yaml:"offset,omitempty" json:"offset,omitempty"`
	Width    int    `yaml:"width" json:"width"`
	Height   int    `yaml:"height" json:"height"`

	Palette string   `yaml:"palette,omitempty" json:"palette,omitempty"`
	Cmap    []string `yaml:"cmap,omitempty" json:"cmap,omitempty"`

	Frames int     `yaml:"frames" json:"frames"`
	Rate   float64 `yaml:"rate" json:"rate"`

	Workers int    `yaml:"workers" json:"workers"`
	Format  string `yaml:"format" json:"format"`
	Output  string `yaml:"output" json:"output"`
}

// Default returns the settings used when neither file nor flags say
// otherwise.
func Default() Config {
	return Config{
		Real:     mandel.FullSet.Center.Re,
		Imag:     mandel.FullSet.Center.Im,
		Scale:    mandel.FullSet.Scale,
		MaxIters: 100,
		SSPower:  1,
		Width:    1920,
		Height:   1080,
		Palette:  "grey",
		Frames:   100,
		Rate:     0.99,
		Workers:  runtime.GOMAXPROCS(0),
		Format:   string(raster.FormatPNG),
		Output:   "output",
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default value.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &mandel.OpError{
			Op:   "config.load",
			Kind: mandel.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, &mandel.OpError{
			Op:   "config.load",
			Kind: mandel.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	if err := cfg.Validate(); err != nil {
		var oe *mandel.OpError
		if errors.As(err, &oe) && oe.Path == "" {
			oe.Path = path
		}
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg as YAML.
func Save(path string, cfg Config) error {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return &mandel.OpError{Op: "config.save", Kind: mandel.KindInvalidConfig, Path: path, Err: err}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return &mandel.OpError{Op: "config.save", Kind: mandel.KindIO, Path: path, Err: err}
	}
	return nil
}

func invalid(format string, a ...any) error {
	return &mandel.OpError{Op: "config.validate", Kind: mandel.KindInvalidConfig, Err: fmt.Errorf(format, a...)}
}

// Validate checks every field; it runs before any sampling starts.
func (c Config) Validate() error {
	if _, err := c.Region(); err != nil {
		return err
	}
	if c.MaxIters == 0 {
		return invalid("max_iters must be at least 1")
	}
	if c.SSPower == 0 {
		return invalid("ss_power must be at least 1")
	}
	if c.Frames < 1 {
		return invalid("frames must be at least 1, got %d", c.Frames)
	}
	if math.IsNaN(c.Rate) || math.IsInf(c.Rate, 0) || c.Rate <= 0 {
		return invalid("rate must be positive, got %v", c.Rate)
	}
	if _, err := sample.ParseOffset(c.Offset); err != nil {
		return err
	}
	if _, err := raster.ParseFormat(c.Format); err != nil {
		return err
	}
	if _, err := c.Gradient(); err != nil {
		return err
	}
	return nil
}

// Region resolves the start region. A landmark replaces real, imag and
// scale.
func (c Config) Region() (mandel.Region, error) {
	r := mandel.Region{
		Center: mandel.Point{Re: c.Real, Im: c.Imag},
		Scale:  c.Scale,
		Width:  c.Width,
		Height: c.Height,
	}
	if c.Landmark != "" {
		l, err := mandel.LookupLandmark(c.Landmark)
		if err != nil {
			return mandel.Region{}, err
		}
		r = l.At(c.Width, c.Height)
	}
	return r, r.Validate()
}

// Gradient resolves the colour map. Explicit cmap anchors win over a named
// palette.
func (c Config) Gradient() (palette.Gradient, error) {
	if len(c.Cmap) > 0 {
		return palette.Parse(c.Cmap)
	}
	name := c.Palette
	if name == "" {
		name = "grey"
	}
	return palette.Named(name)
}

// Renderer builds a renderer from the validated config.
func (c Config) Renderer() (*render.Renderer, error) {
	g, err := c.Gradient()
	if err != nil {
		return nil, err
	}
	off, err := sample.ParseOffset(c.Offset)
	if err != nil {
		return nil, err
	}
	return &render.Renderer{
		MaxIters:     c.MaxIters,
		Subdivisions: c.SSPower,
		Gradient:     g,
		Offset:       off,
		Workers:      c.Workers,
	}, nil
}

// Sequence builds the zoom described by c.
func (c Config) Sequence() (*render.Sequence, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	region, err := c.Region()
	if err != nil {
		return nil, err
	}
	r, err := c.Renderer()
	if err != nil {
		return nil, err
	}
	return &render.Sequence{Renderer: r, Region: region, Frames: c.Frames, Decay: c.Rate}, nil
}

// ImageFormat returns the parsed output format.
func (c Config) ImageFormat() raster.Format {
	f, err := raster.ParseFormat(c.Format)
	if err != nil {
		return raster.FormatPNG
	}
	return f
}
