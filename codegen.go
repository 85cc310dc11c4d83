// Package codegen is the pipeline façade (spec.md §4.12): it validates a
// resolved configuration, applies its defaults, and drives the IR adapter,
// the requested emitters, the formatter bridge and the incremental writer
// in sequence. Everything it depends on lives under internal/ — this
// package is the only public surface.
package codegen

import (
	"fmt"

	"github.com/vertz-dev/codegen/internal/cligen"
	"github.com/vertz-dev/codegen/internal/format"
	"github.com/vertz-dev/codegen/internal/genfile"
	"github.com/vertz-dev/codegen/internal/ir"
	"github.com/vertz-dev/codegen/internal/orchestrator"
	"github.com/vertz-dev/codegen/internal/pipeerr"
	"github.com/vertz-dev/codegen/internal/writer"
)

// defaultOutputDir is applied by ResolveOutputDir when a Config leaves
// OutputDir unset.
const defaultOutputDir = ".vertz/generated"

// Generator names accepted in Config.Generators.
const (
	GeneratorTypeScript = orchestrator.GeneratorTypeScript
	GeneratorCLI        = orchestrator.GeneratorCLI
)

// PublishConfig names a package to publish and its version.
type PublishConfig struct {
	Name      string `json:"name"`
	OutputDir string `json:"outputDir"`
	Version   string `json:"version,omitempty"`
}

// TypeScriptConfig configures the typescript generator.
type TypeScriptConfig struct {
	// Schemas, when explicitly false, suppresses the schemas.ts
	// re-export file even when named schemas exist. Defaults to true.
	Schemas *bool `json:"schemas,omitempty"`
	// ClientName overrides the exported createClient function name.
	// Defaults to "createClient".
	ClientName  string         `json:"clientName,omitempty"`
	Publishable *PublishConfig `json:"publishable,omitempty"`
}

// CLIPublishConfig names the CLI package to publish.
type CLIPublishConfig struct {
	Name      string `json:"name"`
	OutputDir string `json:"outputDir"`
	BinName   string `json:"binName"`
	Version   string `json:"version,omitempty"`
}

// CLIConfig configures the cli generator.
type CLIConfig struct {
	Enabled     *bool             `json:"enabled,omitempty"`
	Publishable *CLIPublishConfig `json:"publishable,omitempty"`
}

// FormatterConfig names the external formatter process (C10) and an
// optional standalone config file to seed its scratch directory with.
type FormatterConfig struct {
	Command            string   `json:"command,omitempty"`
	Args               []string `json:"args,omitempty"`
	ConfigFileName     string   `json:"configFileName,omitempty"`
	ConfigFileContents string   `json:"configFileContents,omitempty"`
}

// Config is the resolved configuration spec.md §6 describes, decoded with
// github.com/go-json-experiment/json by callers that load it from disk.
type Config struct {
	Generators []string `json:"generators"`
	OutputDir  string   `json:"outputDir,omitempty"`

	// Format, when nil or true, routes generated files through Formatter.
	// Defaults to on; see spec.md §4.12.
	Format    *bool            `json:"format,omitempty"`
	Formatter *FormatterConfig `json:"formatter,omitempty"`

	// Incremental, when nil or true, hash-compares against on-disk
	// content and skips unchanged files. Defaults to on.
	Incremental *bool `json:"incremental,omitempty"`
	// Clean deletes every file under OutputDir not present in the
	// generated set (spec.md §4.11 step 3).
	Clean bool `json:"clean,omitempty"`

	TypeScript *TypeScriptConfig `json:"typescript,omitempty"`
	CLI        *CLIConfig        `json:"cli,omitempty"`
}

// GenerateResult is Generate's return value (spec.md §4.12).
type GenerateResult struct {
	Files       []genfile.File
	IR          ir.CodegenIR
	FileCount   int
	Generators  []string
	Incremental *writer.Result
}

// Pipeline is the façade. Its zero value is ready to use.
type Pipeline struct{}

// Validate returns one message per configuration problem: an empty
// Generators list, an unknown generator name, or a publishable
// sub-configuration missing a required field. A non-empty result is
// non-fatal on its own — Generate treats it as fatal (see Generate), but a
// caller that wants to check without attempting generation can call this
// directly.
func (Pipeline) Validate(cfg Config) []string {
	var errs []string

	if len(cfg.Generators) == 0 {
		errs = append(errs, "generators: at least one generator is required")
	}
	for _, g := range cfg.Generators {
		if g != GeneratorTypeScript && g != GeneratorCLI {
			errs = append(errs, fmt.Sprintf("generators: unknown generator %q", g))
		}
	}

	if cfg.TypeScript != nil && cfg.TypeScript.Publishable != nil {
		p := cfg.TypeScript.Publishable
		if p.Name == "" {
			errs = append(errs, "typescript.publishable.name: required")
		}
		if p.OutputDir == "" {
			errs = append(errs, "typescript.publishable.outputDir: required")
		}
	}

	if cfg.CLI != nil && cfg.CLI.Publishable != nil {
		p := cfg.CLI.Publishable
		if p.Name == "" {
			errs = append(errs, "cli.publishable.name: required")
		}
		if p.OutputDir == "" {
			errs = append(errs, "cli.publishable.outputDir: required")
		}
		if p.BinName == "" {
			errs = append(errs, "cli.publishable.binName: required")
		}
	}

	return errs
}

// ResolveOutputDir applies the default output directory (".vertz/generated")
// when cfg.OutputDir is unset.
func (Pipeline) ResolveOutputDir(cfg Config) string {
	if cfg.OutputDir == "" {
		return defaultOutputDir
	}
	return cfg.OutputDir
}

// Generate runs the full pipeline: validate, adapt, run the requested
// emitters, optionally format, then write (incremental by default). An
// invalid Config is fatal here — unlike Validate on its own, there is no
// sensible execution path for an empty or unknown generator list.
func (p Pipeline) Generate(app ir.AppIR, cfg Config) (GenerateResult, error) {
	if msgs := p.Validate(cfg); len(msgs) > 0 {
		return GenerateResult{}, fmt.Errorf("%w: %v", pipeerr.ErrConfig, msgs)
	}

	cg, err := ir.Adapt(app)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("codegen: adapt: %w", err)
	}
	if err := checkRefsResolvable(cg); err != nil {
		return GenerateResult{}, err
	}

	files, err := orchestrator.Assemble(cg, buildOrchestratorOptions(cfg))
	if err != nil {
		return GenerateResult{}, fmt.Errorf("codegen: generate: %w", err)
	}

	if cfg.Format == nil || *cfg.Format {
		if cfg.Formatter != nil {
			formatted, _ := format.Run(files, format.Config{
				Command:            cfg.Formatter.Command,
				Args:               cfg.Formatter.Args,
				ConfigFileName:     cfg.Formatter.ConfigFileName,
				ConfigFileContents: cfg.Formatter.ConfigFileContents,
			})
			files = formatted
		}
	}

	result := GenerateResult{
		Files:      files,
		IR:         cg,
		FileCount:  len(files),
		Generators: cfg.Generators,
	}

	outputDir := p.ResolveOutputDir(cfg)
	incremental := cfg.Incremental == nil || *cfg.Incremental
	wr, err := writer.Write(files, outputDir, writer.Options{Clean: cfg.Clean, Force: !incremental})
	if err != nil {
		return result, fmt.Errorf("codegen: write: %w", err)
	}
	result.Incremental = &wr

	return result, nil
}

func buildOrchestratorOptions(cfg Config) orchestrator.Options {
	opts := orchestrator.Options{Generators: filterDisabledCLI(cfg)}

	if cfg.TypeScript != nil {
		opts.SchemaReexports = cfg.TypeScript.Schemas
		opts.ClientName = cfg.TypeScript.ClientName
		if cfg.TypeScript.Publishable != nil {
			opts.Publishable = &orchestrator.PublishConfig{
				Name:    cfg.TypeScript.Publishable.Name,
				Version: cfg.TypeScript.Publishable.Version,
			}
		}
	}

	if cfg.CLI != nil {
		cliCfg := cligen.Config{}
		if cfg.CLI.Publishable != nil {
			cliCfg.Name = cfg.CLI.Publishable.Name
			cliCfg.BinName = cfg.CLI.Publishable.BinName
			cliCfg.Version = cfg.CLI.Publishable.Version
		}
		opts.CLI = cliCfg
	}

	return opts
}

// filterDisabledCLI drops "cli" from the generator list when cfg.CLI
// explicitly sets Enabled=false, even though it's present in Generators.
func filterDisabledCLI(cfg Config) []string {
	if cfg.CLI == nil || cfg.CLI.Enabled == nil || *cfg.CLI.Enabled {
		return cfg.Generators
	}
	out := make([]string, 0, len(cfg.Generators))
	for _, g := range cfg.Generators {
		if g != GeneratorCLI {
			out = append(out, g)
		}
	}
	return out
}

// checkRefsResolvable enforces spec.md §8 property 3: every present
// schemaRefs[slot] must name a schema that exists in the Codegen IR.
// Violating this signals a bug in Adapt, not a caller input error.
func checkRefsResolvable(cg ir.CodegenIR) error {
	names := make(map[string]bool, len(cg.Schemas))
	for _, s := range cg.Schemas {
		names[s.Name] = true
	}

	check := func(ops []ir.CGOperation) error {
		for _, op := range ops {
			for slot, name := range op.SchemaRefs {
				if name != "" && !names[name] {
					return fmt.Errorf("%w: operation %q slot %q references unknown schema %q",
						pipeerr.ErrUnresolvedSchemaRef, op.OperationID, slot, name)
				}
			}
		}
		return nil
	}

	for _, m := range cg.Modules {
		if err := check(m.Operations); err != nil {
			return err
		}
	}
	for _, e := range cg.Entities {
		if err := check(e.Operations); err != nil {
			return err
		}
	}
	return nil
}
