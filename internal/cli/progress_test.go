package cli

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/marben/mandel_zoom/logger"
)

func TestLogProgressThrottles(t *testing.T) {
	var buf bytes.Buffer
	fn := logProgress(logger.New(logger.Config{Writer: &buf}), slog.LevelInfo)

	// first frame: 100 rows of 10 pixels
	for row := 1; row <= 100; row++ {
		fn(row*10, 1000)
	}
	if got := strings.Count(buf.String(), "msg=sampling"); got != 10 {
		t.Fatalf("got %d records for one frame, want 10:\n%s", got, buf.String())
	}
	if !strings.Contains(buf.String(), "percent=100") {
		t.Fatalf("missing final record:\n%s", buf.String())
	}

	// second frame finished in a single tile
	buf.Reset()
	fn(1000, 1000)
	if got := strings.Count(buf.String(), "msg=sampling"); got != 1 {
		t.Fatalf("got %d records for the second frame, want 1:\n%s", got, buf.String())
	}

	fn(0, 0)
	fn(5, 0)
}

func TestRenderLogsProgress(t *testing.T) {
	dir := t.TempDir()
	_, stderr, err := execute(t, "render", "-W", "10", "-H", "10", "-m", "20", "--workers", "1", "-o", dir)
	if err != nil {
		t.Fatalf("render: %v\n%s", err, stderr)
	}
	if got := strings.Count(stderr, "msg=sampling"); got != 10 {
		t.Fatalf("got %d progress records, want 10:\n%s", got, stderr)
	}
}
