package app

import (
	"fmt"

	"github.com/google/renameio/v2"

	"github.com/vk/pipeini/internal/pipeline"
)

// render encodes the resolved document and writes it to stdout or, when an
// output path is set, atomically to that file.
func (a *App) render(res *checkResult) error {
	out, err := pipeline.Render(res.Doc, pipeline.Format(a.config.Format))
	if err != nil {
		return fmt.Errorf("rendering %s: %w", res.Path, err)
	}

	if a.config.OutputPath != "" {
		if err := renameio.WriteFile(a.config.OutputPath, out, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", a.config.OutputPath, err)
		}
		a.logger.Info("Rendered configuration written.", "path", a.config.OutputPath, "format", a.config.Format)
		return nil
	}

	_, err = a.outW.Write(out)
	return err
}
