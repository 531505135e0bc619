// Package framestore writes rendered frames into an output directory.
package framestore

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	mandel "github.com/marben/mandel_zoom"
	"github.com/marben/mandel_zoom/raster"
)

// DefaultPrefix starts every frame file name.
const DefaultPrefix = "mandel_"

// DirStore saves frames as <Dir>/<Prefix><label><ext>.
type DirStore struct {
	Dir    string
	Prefix string
	Format raster.Format
}

// New creates dir if needed and returns a store writing into it.
func New(dir string, format raster.Format) (*DirStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &mandel.OpError{Op: "framestore.new", Kind: mandel.KindIO, Path: dir, Err: err}
	}
	if format == "" {
		format = raster.FormatPNG
	}
	return &DirStore{Dir: dir, Prefix: DefaultPrefix, Format: format}, nil
}

// checkLabel accepts only frame numbers, so a label can never name a path
// outside Dir.
func checkLabel(op, label string) error {
	if label == "" {
		return mandel.InvalidConfig(op, errors.New("empty frame label"))
	}
	for _, r := range label {
		if r < '0' || r > '9' {
			return mandel.InvalidConfig(op, fmt.Errorf("frame label %q is not a number", label))
		}
	}
	return nil
}

// Path returns the file a frame with the given label is written to.
func (s *DirStore) Path(label string) string {
	return filepath.Join(s.Dir, s.Prefix+label+s.Format.Ext())
}

// Save encodes img into the file for label. The file is written under a
// temporary name and renamed, so a failed write never leaves a partial
// frame behind and earlier frames stay untouched.
func (s *DirStore) Save(label string, img image.Image) (path string, err error) {
	if err := checkLabel("framestore.save", label); err != nil {
		return "", err
	}
	path = s.Path(label)

	tmp, err := os.CreateTemp(s.Dir, "."+s.Prefix+label+"-*")
	if err != nil {
		return "", &mandel.OpError{Op: "framestore.save", Kind: mandel.KindIO, Path: path, Err: err}
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	if err = raster.Encode(w, img, s.Format); err != nil {
		return "", &mandel.OpError{Op: "framestore.save", Kind: mandel.KindIO, Path: path, Err: err}
	}
	if err = w.Flush(); err != nil {
		return "", &mandel.OpError{Op: "framestore.save", Kind: mandel.KindIO, Path: path, Err: err}
	}
	if err = tmp.Close(); err != nil {
		return "", &mandel.OpError{Op: "framestore.save", Kind: mandel.KindIO, Path: path, Err: err}
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return "", &mandel.OpError{Op: "framestore.save", Kind: mandel.KindIO, Path: path, Err: fmt.Errorf("rename: %w", err)}
	}
	return path, nil
}

// SaveEncoded writes already encoded bytes for label. Labels received from
// a server are untrusted; anything but digits is rejected.
func (s *DirStore) SaveEncoded(label string, data []byte) (string, error) {
	if err := checkLabel("framestore.save_encoded", label); err != nil {
		return "", err
	}
	path := s.Path(label)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", &mandel.OpError{Op: "framestore.save_encoded", Kind: mandel.KindIO, Path: path, Err: err}
	}
	return path, nil
}
