package app

import (
	"context"
	"fmt"

	"github.com/vk/pipeini/internal/ctxlog"
	"github.com/vk/pipeini/internal/fsutil"
)

// runLint validates every .ini file under the configured directory.
func (a *App) runLint(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindConfigFiles(a.config.ConfigPath, ".ini")
	if err != nil {
		return fmt.Errorf("scanning %s: %w", a.config.ConfigPath, err)
	}
	if len(files) == 0 {
		logger.Warn("No .ini files found under path.", "path", a.config.ConfigPath)
		fmt.Fprintf(a.outW, "no .ini files under %s\n", a.config.ConfigPath)
		return nil
	}
	logger.Debug("Lint scan found files.", "count", len(files))

	failures := 0
	for _, file := range files {
		res := a.check(ctx, file)
		a.report(res)
		if res.failed(a.config.Strict) {
			failures++
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d files failed validation", failures, len(files))
	}
	return nil
}
