package cli

import (
	"context"
	"log/slog"
)

// progressSteps is how many progress records one frame produces at most.
const progressSteps = 10

// logProgress returns a Renderer.OnProgress callback that logs sampling
// progress once per tenth of a frame. A count lower than the previous one
// starts a new frame.
func logProgress(log *slog.Logger, level slog.Level) func(done, total int) {
	lastStep, lastDone := 0, 0
	return func(done, total int) {
		if total <= 0 {
			return
		}
		if done <= lastDone {
			lastStep = 0
		}
		lastDone = done

		step := done * progressSteps / total
		if step <= lastStep {
			return
		}
		lastStep = step
		log.Log(context.Background(), level, "sampling",
			"percent", step*100/progressSteps,
			"pixels", done,
			"total", total,
		)
	}
}
