package cli

import (
	"bytes"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/spf13/cobra"
	"golang.org/x/image/bmp"

	mandel "github.com/marben/mandel_zoom"
	"github.com/marben/mandel_zoom/config"
	"github.com/marben/mandel_zoom/server"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(t.Context())
	return out.String(), errOut.String(), err
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img
}

func TestRenderWritesImage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	_, stderr, err := execute(t, "render", "-W", "20", "-H", "10", "-m", "40", "-o", dir)
	if err != nil {
		t.Fatalf("render: %v\n%s", err, stderr)
	}

	img := decodePNG(t, filepath.Join(dir, "mandel_0.png"))
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Fatalf("bounds %v, want 20x10", b)
	}
	if !strings.Contains(stderr, "image saved") {
		t.Fatalf("missing log record: %q", stderr)
	}
}

func TestZoomWritesPaddedFrames(t *testing.T) {
	dir := t.TempDir()
	_, stderr, err := execute(t, "zoom", "-W", "8", "-H", "6", "-m", "20", "-f", "11", "-R", "0.5", "--workers", "2", "-o", dir)
	if err != nil {
		t.Fatalf("zoom: %v\n%s", err, stderr)
	}

	for _, name := range []string{"mandel_00.png", "mandel_05.png", "mandel_10.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("missing frame %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "mandel_11.png")); err == nil {
		t.Fatalf("unexpected extra frame")
	}
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "zoom.yaml")
	cfg := config.Default()
	cfg.Width = 12
	cfg.Height = 9
	cfg.MaxIters = 30
	cfg.Frames = 2
	cfg.Format = "bmp"
	cfg.Output = filepath.Join(dir, "from-file")
	if err := config.Save(cfgPath, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out := filepath.Join(dir, "from-flag")
	_, stderr, err := execute(t, "zoom", "--config", cfgPath, "-W", "5", "-o", out)
	if err != nil {
		t.Fatalf("zoom: %v\n%s", err, stderr)
	}

	if _, err := os.Stat(filepath.Join(dir, "from-file")); err == nil {
		t.Fatalf("output directory from the file should be overridden")
	}
	for _, label := range []string{"0", "1"} {
		f, err := os.Open(filepath.Join(out, "mandel_"+label+".bmp"))
		if err != nil {
			t.Fatalf("frame %s: %v", label, err)
		}
		img, err := bmp.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode frame %s: %v", label, err)
		}
		// width from the flag, height from the file
		if b := img.Bounds(); b.Dx() != 5 || b.Dy() != 9 {
			t.Fatalf("frame %s bounds %v, want 5x9", label, b)
		}
	}
}

func TestResolvePrecedence(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg config.Config)
	}{
		{
			name: "defaults",
			check: func(t *testing.T, cfg config.Config) {
				if cfg.Width != 1920 || cfg.MaxIters != 100 || cfg.Rate != 0.99 || cfg.Palette != "grey" {
					t.Fatalf("unexpected defaults %+v", cfg)
				}
			},
		},
		{
			name: "landmark from file",
			args: []string{"--config", "../../config/testdata/landmark.yaml"},
			check: func(t *testing.T, cfg config.Config) {
				r, _ := cfg.Region()
				if r.Center != mandel.SeahorseValley.Center || cfg.Offset != "centered" || cfg.Width != 32 {
					t.Fatalf("file values lost: %+v", cfg)
				}
			},
		},
		{
			name: "explicit position replaces file landmark",
			args: []string{"--config", "../../config/testdata/landmark.yaml", "-r", "0.25", "-s", "0.5"},
			check: func(t *testing.T, cfg config.Config) {
				r, _ := cfg.Region()
				if cfg.Landmark != "" || r.Center.Re != 0.25 || r.Scale != 0.5 {
					t.Fatalf("position flags ignored: %+v", cfg)
				}
			},
		},
		{
			name: "palette flag drops file cmap",
			args: []string{"--config", "../../config/testdata/zoom.yaml", "--palette", "ocean"},
			check: func(t *testing.T, cfg config.Config) {
				if cfg.Cmap != nil || cfg.Palette != "ocean" || cfg.Frames != 12 {
					t.Fatalf("unexpected colours %+v", cfg)
				}
			},
		},
		{
			name: "cmap and centered",
			args: []string{"-c", "#000000,#ffffff", "--centered", "-p", "3"},
			check: func(t *testing.T, cfg config.Config) {
				if len(cfg.Cmap) != 2 || cfg.Offset != "centered" || cfg.SSPower != 3 {
					t.Fatalf("flags ignored: %+v", cfg)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var configPath string
			c := &cobra.Command{Use: "zoom"}
			flags := bindSettings(c, true)
			c.Flags().StringVar(&configPath, "config", "", "")
			if err := c.Flags().Parse(tt.args); err != nil {
				t.Fatalf("Parse: %v", err)
			}
			cfg, err := flags.resolve(c, configPath)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestInvalidSettingsFailBeforeWriting(t *testing.T) {
	tests := [][]string{
		{"render", "-s", "0"},
		{"render", "-m", "0"},
		{"render", "-p", "0"},
		{"render", "-c", "#12345"},
		{"render", "--palette", "nope"},
		{"render", "--format", "gif"},
		{"zoom", "-f", "0"},
		{"zoom", "--config", "does-not-exist.yaml"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "out")
			if _, _, err := execute(t, append(args, "-o", dir)...); err == nil {
				t.Fatalf("expected an error")
			}
			if _, err := os.Stat(dir); err == nil {
				t.Fatalf("output directory created for an invalid request")
			}
		})
	}
}

func TestRegions(t *testing.T) {
	stdout, _, err := execute(t, "regions")
	if err != nil {
		t.Fatalf("regions: %v", err)
	}
	for _, l := range mandel.Landmarks() {
		if !strings.Contains(stdout, l.Name) {
			t.Fatalf("landmark %q missing from\n%s", l.Name, stdout)
		}
	}
	if !strings.HasPrefix(stdout, "NAME") {
		t.Fatalf("missing header:\n%s", stdout)
	}
}

func TestFetchSavesStreamedFrames(t *testing.T) {
	base := config.Default()
	base.Workers = 2
	ts := httptest.NewServer(server.New(base, nil).Handler())
	defer ts.Close()

	dir := t.TempDir()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	_, stderr, err := execute(t, "fetch", "--url", url, "-W", "10", "-H", "10", "-m", "25", "-f", "3", "-o", dir)
	if err != nil {
		t.Fatalf("fetch: %v\n%s", err, stderr)
	}

	for _, label := range []string{"0", "1", "2"} {
		img := decodePNG(t, filepath.Join(dir, "mandel_"+label+".png"))
		if b := img.Bounds(); b.Dx() != 10 || b.Dy() != 10 {
			t.Fatalf("frame %s bounds %v", label, b)
		}
	}
}

func TestFetchRejectsPathLabels(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer c.CloseNow()

		var req config.Config
		if err := wsjson.Read(r.Context(), c, &req); err != nil {
			return
		}
		_ = wsjson.Write(r.Context(), c, server.FrameHeader{Index: 0, Label: "/../../escaped", Bytes: 1})
		_ = c.Write(r.Context(), websocket.MessageBinary, []byte("x"))
		_ = wsjson.Write(r.Context(), c, server.FrameHeader{Index: 1, Done: true})
		c.Close(websocket.StatusNormalClosure, "")
	}))
	defer ts.Close()

	root := t.TempDir()
	out := filepath.Join(root, "a", "b")
	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	if _, _, err := execute(t, "fetch", "--url", url, "-W", "4", "-H", "4", "-f", "1", "-o", out); err == nil {
		t.Fatalf("expected fetch to fail on a path label")
	}
	if _, err := os.Stat(filepath.Join(root, "a", "escaped.png")); err == nil {
		t.Fatalf("frame written outside the output directory")
	}
}
