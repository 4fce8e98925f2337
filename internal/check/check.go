// Package check validates stored VizSpec documents in bulk.
package check

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/CodexForgeBR/vizspec/internal/vizspec"
)

// DefaultConcurrency bounds parallel validation when the caller passes zero.
const DefaultConcurrency = 4

// FileResult is the outcome for one path. Err is set when the file could not
// be read; otherwise exactly one of Spec and Issues is set.
type FileResult struct {
	Path   string
	Spec   *vizspec.VizSpec
	Issues vizspec.Issues
	Err    error
}

// OK reports whether the file was read and validated cleanly.
func (r FileResult) OK() bool {
	return r.Err == nil && len(r.Issues) == 0
}

// Files validates each path with at most concurrency files in flight. When
// want is non-empty, each document's declared algorithm must equal it.
// Results are returned in input order. Read failures are reported per file;
// the returned error is only set when ctx ends before every file was checked.
func Files(ctx context.Context, paths []string, want vizspec.Algorithm, concurrency int) ([]FileResult, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	results := make([]FileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = File(path, want)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// File validates a single document on disk.
func File(path string, want vizspec.Algorithm) FileResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileResult{Path: path, Err: fmt.Errorf("read %s: %w", path, err)}
	}
	spec, issues := Text(string(data), want)
	return FileResult{Path: path, Spec: spec, Issues: issues}
}

// Text validates raw document text, checking the algorithm only when want
// is non-empty.
func Text(raw string, want vizspec.Algorithm) (*vizspec.VizSpec, vizspec.Issues) {
	if want == "" {
		return vizspec.Validate(raw)
	}
	return vizspec.ValidateFor(raw, want)
}
