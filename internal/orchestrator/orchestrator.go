// Package orchestrator assembles the output of every emitter into the
// single fixed-order file list the formatter and writer stages consume.
package orchestrator

import (
	"fmt"
	"sort"

	jsonv2 "github.com/go-json-experiment/json"

	"github.com/vertz-dev/codegen/internal/clientgen"
	"github.com/vertz-dev/codegen/internal/cligen"
	"github.com/vertz-dev/codegen/internal/emit"
	"github.com/vertz-dev/codegen/internal/genfile"
	"github.com/vertz-dev/codegen/internal/ir"
	"github.com/vertz-dev/codegen/internal/typegen"
)

const ext = "ts"

// Generator names accepted in a config's generators list.
const (
	GeneratorTypeScript = "typescript"
	GeneratorCLI        = "cli"
)

// PackageManifest is the typescript generator's publishable package.json.
type PackageManifest struct {
	Name         string            `json:"name"`
	Version      string            `json:"version,omitempty"`
	Private      bool              `json:"private,omitempty"`
	Main         string            `json:"main"`
	Types        string            `json:"types"`
	Dependencies map[string]string `json:"dependencies"`
}

// PublishConfig names a package to publish and its version.
type PublishConfig struct {
	Name    string
	Version string
}

// Options configures which generators run and their publishable settings.
type Options struct {
	Generators  []string
	Publishable *PublishConfig
	CLI         cligen.Config

	// SchemaReexports, when non-nil and false, suppresses the schemas.ts
	// re-export file even when named schemas exist. Defaults to emitting
	// it whenever the Codegen IR has at least one schema.
	SchemaReexports *bool

	// ClientName overrides the exported client factory function name.
	// Defaults to "createClient".
	ClientName string
}

// Assemble runs the requested emitters over cg and returns their files in
// the fixed order: module-type files, optional shared types, per-module
// factory files, client entry, optional schema re-exports, barrel index,
// optional package manifest, then CLI files.
func Assemble(cg ir.CodegenIR, opts Options) ([]genfile.File, error) {
	var files []genfile.File
	wantTS := contains(opts.Generators, GeneratorTypeScript)
	wantCLI := contains(opts.Generators, GeneratorCLI)

	if wantTS {
		typeFiles, err := typegen.Generate(cg)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: typegen: %w", err)
		}
		files = append(files, typeFiles...)

		clientFiles, err := clientgen.GenerateNamed(cg, opts.ClientName)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: clientgen: %w", err)
		}
		files = append(files, clientFiles...)

		wantSchemaReexports := opts.SchemaReexports == nil || *opts.SchemaReexports
		if len(cg.Schemas) > 0 && wantSchemaReexports {
			files = append(files, genfile.File{Path: "schemas." + ext, Content: renderSchemaReexports(cg)})
		}

		files = append(files, genfile.File{Path: "index." + ext, Content: renderBarrel(cg, wantSchemaReexports)})

		if opts.Publishable != nil {
			manifestJSON, err := renderPackageManifest(*opts.Publishable)
			if err != nil {
				return nil, fmt.Errorf("orchestrator: package manifest: %w", err)
			}
			files = append(files, genfile.File{Path: "package.json", Content: manifestJSON})
		}
	}

	if wantCLI {
		cliFiles, err := cligen.Generate(cg, opts.CLI)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: cligen: %w", err)
		}
		files = append(files, cliFiles...)
	}

	return files, nil
}

func contains(list []string, want string) bool {
	for _, g := range list {
		if g == want {
			return true
		}
	}
	return false
}

func renderSchemaReexports(cg ir.CodegenIR) string {
	locations := typegen.SchemaLocations(cg)
	names := make([]string, 0, len(cg.Schemas))
	for _, s := range cg.Schemas {
		names = append(names, s.Name)
	}
	sort.Strings(names)

	b := emit.New()
	b.Line(genfile.Header)
	b.Blank()
	for _, name := range names {
		b.Line("export type { %s } from %q;", name, "./"+locations[name])
	}
	return b.String()
}

func renderBarrel(cg ir.CodegenIR, wantSchemaReexports bool) string {
	b := emit.New()
	b.Line(genfile.Header)
	b.Blank()
	b.Line("export * from \"./client\";")
	if len(cg.Schemas) > 0 && wantSchemaReexports {
		b.Line("export * from \"./schemas\";")
	}
	return b.String()
}

func renderPackageManifest(pub PublishConfig) (string, error) {
	manifest := PackageManifest{
		Name:    pub.Name,
		Version: pub.Version,
		Private: true,
		Main:    "./client." + ext,
		Types:   "./index." + ext,
		Dependencies: map[string]string{
			"@vertz/fetch-runtime": "*",
		},
	}
	data, err := jsonv2.Marshal(manifest)
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}
