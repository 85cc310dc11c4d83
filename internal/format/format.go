// Package format bridges generated files through an external formatting
// process. Formatting is best-effort: any failure — the process exits
// non-zero, or its output can't be read back — is swallowed and the
// original files pass through unchanged.
package format

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/vertz-dev/codegen/internal/genfile"
)

// Config names the external formatter and an optional standalone
// config file to seed the scratch directory with before invoking it.
type Config struct {
	// Command is the formatter executable. Formatting is a no-op when
	// Command is empty.
	Command string
	Args    []string

	// ConfigFileName and ConfigFileContents, when ConfigFileName is
	// non-empty, are written into the scratch directory alongside the
	// generated files before the formatter runs.
	ConfigFileName     string
	ConfigFileContents string
}

var nonTextExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".ico": true,
	".woff": true, ".woff2": true, ".ttf": true,
}

func isNonText(path string) bool {
	return nonTextExts[strings.ToLower(filepath.Ext(path))]
}

// Run routes files through the configured formatter and returns the
// formatted set. applied is false whenever formatting was skipped
// (Command empty) or failed (pass-through); in both cases files is
// returned unchanged.
func Run(files []genfile.File, cfg Config) (result []genfile.File, applied bool) {
	if cfg.Command == "" {
		return files, false
	}

	scratch, err := os.MkdirTemp("", "vertzcodegen-format-*")
	if err != nil {
		return files, false
	}
	defer os.RemoveAll(scratch)

	if cfg.ConfigFileName != "" {
		if err := os.WriteFile(filepath.Join(scratch, cfg.ConfigFileName), []byte(cfg.ConfigFileContents), 0o644); err != nil {
			return files, false
		}
	}

	for _, f := range files {
		if isNonText(f.Path) {
			continue
		}
		dest := filepath.Join(scratch, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return files, false
		}
		if err := os.WriteFile(dest, []byte(f.Content), 0o644); err != nil {
			return files, false
		}
	}

	cmd := exec.Command(cfg.Command, cfg.Args...)
	cmd.Dir = scratch
	if err := cmd.Run(); err != nil {
		return files, false
	}

	out := make([]genfile.File, len(files))
	for i, f := range files {
		if isNonText(f.Path) {
			out[i] = f
			continue
		}
		data, err := os.ReadFile(filepath.Join(scratch, filepath.FromSlash(f.Path)))
		if err != nil {
			return files, false
		}
		out[i] = genfile.File{Path: f.Path, Content: string(data)}
	}
	return out, true
}
