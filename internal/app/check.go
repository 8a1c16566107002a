package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/pipeini/internal/ctxlog"
	"github.com/vk/pipeini/internal/inifile"
	"github.com/vk/pipeini/internal/interp"
	"github.com/vk/pipeini/internal/pipeline"
)

// checkResult holds everything one validation pass produced for a file.
type checkResult struct {
	Path     string
	Doc      *inifile.Document // fully interpolated; nil if parsing or interpolation failed
	Config   *pipeline.Config  // nil if the document never resolved
	Problems pipeline.Problems
}

// failed reports whether the result should count as a validation failure.
func (r *checkResult) failed(strict bool) bool {
	errs, warns := r.Problems.Counts()
	return errs > 0 || (strict && warns > 0)
}

// check runs the full pass for one file: parse, interpolate, build the typed
// config, validate. Parse and interpolation failures become problems rather
// than hard errors so that lint and watch modes keep going.
func (a *App) check(ctx context.Context, path string) *checkResult {
	logger := ctxlog.FromContext(ctx)
	res := &checkResult{Path: path}

	doc, err := inifile.ParseFile(path)
	if err != nil {
		logger.Debug("Parse failed.", "path", path, "error", err)
		res.Problems = append(res.Problems, problemsFromError(err)...)
		return res
	}
	logger.Debug("File parsed.", "path", path, "sections", len(doc.Sections()))

	resolved, err := interp.Interpolate(doc, a.env)
	if err != nil {
		logger.Debug("Interpolation failed.", "path", path, "error", err)
		res.Problems = append(res.Problems, problemsFromError(err)...)
		return res
	}
	logger.Debug("Interpolation complete.", "path", path)

	res.Doc = resolved
	res.Config, res.Problems = pipeline.New(resolved)
	errs, warns := res.Problems.Counts()
	logger.Debug("Validation complete.", "path", path, "errors", errs, "warnings", warns)
	return res
}

// problemsFromError turns a (possibly joined) error into one problem per
// line, so multi-error interpolation failures report like validation does.
func problemsFromError(err error) pipeline.Problems {
	var out pipeline.Problems
	for _, line := range strings.Split(err.Error(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, pipeline.Problem{Severity: pipeline.SeverityError, Message: line})
		}
	}
	return out
}

// report prints a summary line plus one line per problem.
func (a *App) report(res *checkResult) {
	errs, warns := res.Problems.Counts()
	if errs == 0 && warns == 0 {
		fmt.Fprintf(a.outW, "%s: OK\n", res.Path)
		return
	}
	fmt.Fprintf(a.outW, "%s: %d error(s), %d warning(s)\n", res.Path, errs, warns)
	for _, p := range res.Problems {
		fmt.Fprintf(a.outW, "  %s\n", p)
	}
}

// runOnce validates a single file and, on success, performs the requested
// plan or render action.
func (a *App) runOnce(ctx context.Context) error {
	res := a.check(ctx, a.config.ConfigPath)

	// In render mode the document itself is the output; the summary would
	// pollute it, so surviving warnings go to the logger instead.
	if !a.config.Render || res.failed(a.config.Strict) {
		a.report(res)
	} else {
		for _, p := range res.Problems {
			a.logger.Warn("Validation finding.", "path", res.Path, "detail", p.String())
		}
	}
	if res.failed(a.config.Strict) {
		errs, warns := res.Problems.Counts()
		if a.config.Strict && errs == 0 {
			return fmt.Errorf("validation failed: %d warning(s) with strict mode enabled", warns)
		}
		return fmt.Errorf("validation failed: %d error(s)", errs)
	}

	if a.config.Plan {
		return pipeline.FormatPlan(a.outW, res.Config.Plan())
	}
	if a.config.Render {
		return a.render(res)
	}
	return nil
}
