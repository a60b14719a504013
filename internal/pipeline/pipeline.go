// Package pipeline discovers markdown files under content roots and applies
// the layout transform to each of them.
//
// Each document is parsed, transformed, and rewritten independently; trees
// are owned per call, so documents are processed concurrently without any
// locking. A failure in one document never aborts the others.
package pipeline

import (
	"bytes"
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/natefinch/atomic"

	"git.home.luguber.info/inful/mdlayout/internal/doctree"
	fnderrors "git.home.luguber.info/inful/mdlayout/internal/foundation/errors"
	"git.home.luguber.info/inful/mdlayout/internal/layout"
)

// Options configures one pipeline run.
type Options struct {
	// Roots are the directories scanned for markdown files.
	Roots []string

	// Layout is the transform configuration applied to every document.
	Layout layout.Options

	// Workers bounds concurrent document processing. Values below 1 mean
	// sequential processing.
	Workers int

	// DryRun reports would-change files without rewriting them.
	DryRun bool
}

// FileError pairs a failed document with its error.
type FileError struct {
	Path string
	Err  error
}

// Result summarizes a pipeline run.
type Result struct {
	// Processed counts every markdown file that was read.
	Processed int

	// ChangedFiles lists files that were rewritten (or would be, in dry
	// run), in path order.
	ChangedFiles []string

	// Errors lists per-document failures, in path order.
	Errors []FileError
}

// Changed returns the number of rewritten (or would-be rewritten) files.
func (r *Result) Changed() int {
	return len(r.ChangedFiles)
}

// Failed reports whether any document failed.
func (r *Result) Failed() bool {
	return len(r.Errors) > 0
}

// Run discovers markdown files under opts.Roots and applies the layout
// transform to each.
//
// Run returns an error only when discovery itself fails or ctx is cancelled;
// per-document failures are collected in the Result so a single malformed
// document surfaces loudly without hiding the rest of the run.
func Run(ctx context.Context, opts Options, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	files, err := Discover(opts.Roots)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered markdown files", "count", len(files))

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(files) {
		workers = len(files)
	}

	type outcome struct {
		changed bool
		err     error
	}

	outcomes := make([]outcome, len(files))
	sem := make(chan struct{}, max(workers, 1))

	var wg sync.WaitGroup
	for i, path := range files {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				outcomes[i] = outcome{err: ctx.Err()}
				return
			}
			changed, err := processFile(path, opts.Layout, opts.DryRun)
			outcomes[i] = outcome{changed: changed, err: err}
		}(i, path)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{Processed: len(files)}
	for i, out := range outcomes {
		switch {
		case out.err != nil:
			logger.Error("Document failed", "path", files[i], "error", out.err)
			result.Errors = append(result.Errors, FileError{Path: files[i], Err: out.err})
		case out.changed:
			logger.Info("Layout injected", "path", files[i], "layout", opts.Layout.DefaultLayout)
			result.ChangedFiles = append(result.ChangedFiles, files[i])
		default:
			logger.Debug("Document already conformant", "path", files[i])
		}
	}
	return result, nil
}

// Discover walks the given roots and returns all markdown file paths, sorted.
func Discover(roots []string) ([]string, error) {
	var files []string
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if IsMarkdown(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fnderrors.Wrap(err, fnderrors.CategoryFileSystem, "failed to scan content root").
				WithContext("root", root)
		}
	}
	sort.Strings(files)
	return files, nil
}

// IsMarkdown reports whether path looks like a markdown file.
func IsMarkdown(path string) bool {
	return strings.HasSuffix(path, ".md") || strings.HasSuffix(path, ".markdown")
}

// processFile applies the transform to a single document. It rewrites the
// file only when the serialized output differs from the input, so conformant
// documents keep their mtime.
func processFile(path string, opts layout.Options, dryRun bool) (changed bool, err error) {
	// #nosec G304 -- path comes from walking configured content roots.
	content, err := os.ReadFile(path)
	if err != nil {
		return false, fnderrors.Wrap(err, fnderrors.CategoryFileSystem, "failed to read document").
			WithContext("path", path)
	}

	tree, err := doctree.Parse(content)
	if err != nil {
		return false, fnderrors.Wrap(err, fnderrors.CategoryValidation, "failed to parse document").
			WithContext("path", path)
	}

	if err := layout.Apply(tree, opts); err != nil {
		return false, fnderrors.Wrap(err, fnderrors.CategoryValidation, "failed to inject layout").
			WithContext("path", path)
	}

	out := tree.Bytes()
	if bytes.Equal(out, content) {
		return false, nil
	}
	if dryRun {
		return true, nil
	}

	if err := atomic.WriteFile(path, bytes.NewReader(out)); err != nil {
		return false, fnderrors.Wrap(err, fnderrors.CategoryFileSystem, "failed to rewrite document").
			WithContext("path", path)
	}
	return true, nil
}
