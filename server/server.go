package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	mandel "github.com/marben/mandel_zoom"
	"github.com/marben/mandel_zoom/config"
	"github.com/marben/mandel_zoom/raster"
)

// DefaultMaxPixels bounds width*height of a single requested frame.
const DefaultMaxPixels = 3840 * 2160

// Server renders on behalf of connected clients. Base supplies every
// setting a request leaves out; worker count always comes from Base.
type Server struct {
	Base      config.Config
	MaxPixels int
	// Thumbnail, if positive, scales streamed frames down to this width.
	Thumbnail int
	// StaticDir is served on / when set.
	StaticDir string
	Logger    *slog.Logger

	streams int
	m       sync.Mutex
}

// New returns a server with the given base config.
func New(base config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{Base: base, MaxPixels: DefaultMaxPixels, Logger: logger}
}

// Handler returns the HTTP routes: /ws, /render and /regions.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.websocketHandler)
	mux.HandleFunc("GET /render", s.renderHandler)
	mux.HandleFunc("GET /regions", s.regionsHandler)
	if s.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.StaticDir)))
	}
	return mux
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("httpServer: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) incStreams() {
	s.m.Lock()
	s.streams++
	n := s.streams
	s.m.Unlock()

	s.Logger.Info("stream opened", "streams", n)
}

func (s *Server) decStreams() {
	s.m.Lock()
	s.streams--
	n := s.streams
	s.m.Unlock()

	s.Logger.Info("stream closed", "streams", n)
}

// Streams reports the number of open websocket streams.
func (s *Server) Streams() int {
	s.m.Lock()
	defer s.m.Unlock()
	return s.streams
}

// checkRequest pins the worker count to the server's own and validates cfg.
func (s *Server) checkRequest(cfg config.Config) (config.Config, error) {
	cfg.Workers = s.Base.Workers
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	// Validate guarantees Height >= 1; dividing avoids overflowing the product.
	if s.MaxPixels > 0 && cfg.Width > s.MaxPixels/cfg.Height {
		return config.Config{}, mandel.InvalidConfig("server.request",
			fmt.Errorf("%dx%d exceeds the limit of %d pixels", cfg.Width, cfg.Height, s.MaxPixels))
	}
	return cfg, nil
}

// websocketHandler runs one zoom per connection. Frames are rendered only
// as fast as the client reads them; a disconnect cancels the sequence.
func (s *Server) websocketHandler(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.Logger.Warn("websocket accept", "err", err)
		return
	}
	defer c.CloseNow()

	s.incStreams()
	defer s.decStreams()

	ctx := r.Context()
	log := s.Logger.With("remote", r.RemoteAddr)

	readCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	cfg := s.Base
	err = wsjson.Read(readCtx, c, &cfg)
	cancel()
	if err != nil {
		log.Warn("read request", "err", err)
		c.Close(websocket.StatusUnsupportedData, "expected a JSON request")
		return
	}

	cfg, err = s.checkRequest(cfg)
	if err != nil {
		log.Info("request rejected", "err", err)
		_ = wsjson.Write(ctx, c, FrameHeader{Error: err.Error()})
		c.Close(websocket.StatusPolicyViolation, "invalid request")
		return
	}
	seq, err := cfg.Sequence()
	if err != nil {
		_ = wsjson.Write(ctx, c, FrameHeader{Error: err.Error()})
		c.Close(websocket.StatusPolicyViolation, "invalid request")
		return
	}
	seq.Renderer.Logger = log
	format := cfg.ImageFormat()

	log.Info("zoom started", "region", seq.Region.String(), "frames", seq.Frames, "rate", seq.Decay)
	for frame, err := range seq.All(ctx) {
		if err != nil {
			if errors.Is(err, context.Canceled) {
				log.Info("zoom canceled")
				return
			}
			log.Error("render", "err", err)
			_ = wsjson.Write(ctx, c, FrameHeader{Error: err.Error()})
			c.Close(websocket.StatusInternalError, "render failed")
			return
		}

		var img image.Image = frame.Buffer
		if s.Thumbnail > 0 {
			img = raster.Thumbnail(frame.Buffer, s.Thumbnail)
		}
		var data bytes.Buffer
		if err := raster.Encode(&data, img, format); err != nil {
			log.Error("encode", "err", err)
			c.Close(websocket.StatusInternalError, "encode failed")
			return
		}

		hdr := FrameHeader{
			Index:  frame.Index,
			Label:  frame.Label,
			Scale:  frame.Region.Scale,
			Width:  img.Bounds().Dx(),
			Height: img.Bounds().Dy(),
			Format: string(format),
			Bytes:  data.Len(),
		}
		if err := wsjson.Write(ctx, c, hdr); err != nil {
			log.Info("client gone", "err", err)
			return
		}
		if err := c.Write(ctx, websocket.MessageBinary, data.Bytes()); err != nil {
			log.Info("client gone", "err", err)
			return
		}
		log.Debug("frame sent", "index", frame.Index, "bytes", data.Len())
	}

	if err := wsjson.Write(ctx, c, FrameHeader{Index: seq.Frames, Done: true}); err != nil {
		return
	}
	c.Close(websocket.StatusNormalClosure, "")
}

// renderHandler renders one frame from query parameters, e.g.
// /render?real=-0.75&imag=0.1&scale=0.1&width=640&height=360.
func (s *Server) renderHandler(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.queryConfig(r)
	if err == nil {
		cfg, err = s.checkRequest(cfg)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	region, err := cfg.Region()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	renderer, err := cfg.Renderer()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	renderer.Logger = s.Logger

	buf, err := renderer.Render(r.Context(), region)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	format := cfg.ImageFormat()
	var data bytes.Buffer
	if err := raster.Encode(&data, buf, format); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(data.Len()))
	_, _ = w.Write(data.Bytes())
}

func (s *Server) queryConfig(r *http.Request) (config.Config, error) {
	cfg := s.Base
	q := r.URL.Query()

	floats := map[string]*float64{"real": &cfg.Real, "imag": &cfg.Imag, "scale": &cfg.Scale}
	for key, dst := range floats {
		if v := q.Get(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return cfg, mandel.InvalidConfig("server.query", fmt.Errorf("%s: %w", key, err))
			}
			*dst = f
		}
	}

	ints := map[string]*int{"width": &cfg.Width, "height": &cfg.Height}
	for key, dst := range ints {
		if v := q.Get(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return cfg, mandel.InvalidConfig("server.query", fmt.Errorf("%s: %w", key, err))
			}
			*dst = n
		}
	}

	if v := q.Get("max_iters"); v != "" {
		n, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return cfg, mandel.InvalidConfig("server.query", fmt.Errorf("max_iters: %w", err))
		}
		cfg.MaxIters = uint16(n)
	}
	if v := q.Get("ss_power"); v != "" {
		n, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return cfg, mandel.InvalidConfig("server.query", fmt.Errorf("ss_power: %w", err))
		}
		cfg.SSPower = uint8(n)
	}

	if v := q.Get("landmark"); v != "" {
		cfg.Landmark = v
	}
	if v := q.Get("palette"); v != "" {
		cfg.Palette = v
		cfg.Cmap = nil
	}
	if vs := q["cmap"]; len(vs) > 0 {
		cfg.Cmap = vs
	}
	if v := q.Get("offset"); v != "" {
		cfg.Offset = v
	}
	if v := q.Get("format"); v != "" {
		cfg.Format = v
	}
	return cfg, nil
}

type landmarkJSON struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Real        float64 `json:"real"`
	Imag        float64 `json:"imag"`
	Scale       float64 `json:"scale"`
}

func (s *Server) regionsHandler(w http.ResponseWriter, _ *http.Request) {
	var out []landmarkJSON
	for _, l := range mandel.Landmarks() {
		out = append(out, landmarkJSON{Name: l.Name, Description: l.Description, Real: l.Center.Re, Imag: l.Center.Im, Scale: l.Scale})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}
