// Package writer implements the incremental, content-hashed filesystem
// writer: files whose bytes are unchanged from what's already on disk are
// skipped, and (optionally) anything under outputDir that the generator
// did not produce this run is removed.
package writer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vertz-dev/codegen/internal/genfile"
	"github.com/vertz-dev/codegen/internal/hashutil"
	"github.com/vertz-dev/codegen/internal/pipeerr"
)

// Options controls the write pass.
type Options struct {
	// Clean, when true, deletes every file under outputDir not present
	// in the generated set. Everything under outputDir is considered
	// generator-owned; there is no foreign-file allowlist.
	Clean bool

	// Force, when true, writes every file unconditionally instead of
	// comparing against on-disk content first. The façade sets this when
	// its Incremental flag is off.
	Force bool
}

// Result reports what the write pass did.
type Result struct {
	Written []string
	Skipped []string
	Removed []string
}

// Write ensures outputDir exists, then writes every file whose content
// hash differs from what's already on disk (recording skipped otherwise),
// and when opts.Clean is set, removes anything else already under
// outputDir. A write failure aborts immediately; files written before the
// failure remain on disk.
func Write(files []genfile.File, outputDir string, opts Options) (Result, error) {
	var res Result

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return res, fmt.Errorf("%w: create output dir: %v", pipeerr.ErrIO, err)
	}

	generated := make(map[string]bool, len(files))
	for _, f := range files {
		rel := filepath.FromSlash(f.Path)
		generated[rel] = true
		dest := filepath.Join(outputDir, rel)

		if !opts.Force {
			existing, err := os.ReadFile(dest)
			if err == nil && hashutil.Equal(existing, []byte(f.Content)) {
				res.Skipped = append(res.Skipped, f.Path)
				continue
			}
		}

		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return res, fmt.Errorf("%w: create dir for %s: %v", pipeerr.ErrIO, f.Path, err)
		}
		if err := os.WriteFile(dest, []byte(f.Content), 0o644); err != nil {
			return res, fmt.Errorf("%w: write %s: %v", pipeerr.ErrIO, f.Path, err)
		}
		res.Written = append(res.Written, f.Path)
	}

	if opts.Clean {
		removed, err := sweep(outputDir, generated)
		if err != nil {
			return res, fmt.Errorf("%w: clean sweep: %v", pipeerr.ErrIO, err)
		}
		res.Removed = removed
	}

	return res, nil
}

func sweep(outputDir string, generated map[string]bool) ([]string, error) {
	var removed []string
	err := filepath.Walk(outputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(outputDir, path)
		if err != nil {
			return err
		}
		if generated[rel] {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return err
		}
		removed = append(removed, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}
