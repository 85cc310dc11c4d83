// Package cligen implements the CLI/SDK emitter (command manifest, binary
// entrypoint, and package manifest for the generated command-line tool).
package cligen

import (
	"fmt"
	"sort"
	"strings"

	jsonv2 "github.com/go-json-experiment/json"

	"github.com/vertz-dev/codegen/internal/emit"
	"github.com/vertz-dev/codegen/internal/genfile"
	"github.com/vertz-dev/codegen/internal/ir"
	"github.com/vertz-dev/codegen/internal/naming"
)

const ext = "ts"

type opGroup struct {
	name       string
	operations []ir.CGOperation
}

// PackageManifest is the standard package descriptor emitted as
// cli/package.json.
type PackageManifest struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Private      bool              `json:"private"`
	Bin          map[string]string `json:"bin"`
	Dependencies map[string]string `json:"dependencies"`
}

// Config parameterizes the package manifest and binary name; the pipeline
// façade (C12) supplies these from its own Config.
type Config struct {
	// Name is the npm package name written to cli/package.json.
	Name string
	// BinName is the CLI's own display name and the bin map key/script
	// invocation name; it may differ from Name.
	BinName string
	Version string
}

// Generate produces the command manifest, the binary entry, and the
// package manifest, in that fixed order.
func Generate(cg ir.CodegenIR, cfg Config) ([]genfile.File, error) {
	groups := make([]opGroup, 0, len(cg.Modules)+len(cg.Entities))
	for _, m := range cg.Modules {
		groups = append(groups, opGroup{name: m.Name, operations: m.Operations})
	}
	for _, e := range cg.Entities {
		groups = append(groups, opGroup{name: e.Name, operations: e.Operations})
	}

	files := []genfile.File{
		{Path: "cli/manifest." + ext, Content: renderManifest(groups)},
		{Path: "cli/bin." + ext, Content: renderBinaryEntry(cfg)},
	}

	manifest := PackageManifest{
		Name:    cfg.Name,
		Version: cfg.Version,
		Private: true,
		Bin:     map[string]string{cfg.BinName: "./cli/bin." + ext},
		Dependencies: map[string]string{
			"@vertz/cli-runtime":   "*",
			"@vertz/fetch-runtime": "*",
		},
	}
	manifestJSON, err := jsonv2.Marshal(manifest)
	if err != nil {
		return nil, fmt.Errorf("cligen: marshal package manifest: %w", err)
	}
	files = append(files, genfile.File{Path: "cli/package.json", Content: string(manifestJSON) + "\n"})

	return files, nil
}

func renderManifest(groups []opGroup) string {
	b := emit.New()
	b.Line(genfile.Header)
	b.Blank()
	b.Block("export const commands =")
	for _, g := range groups {
		if len(g.operations) == 0 {
			b.Line("%s: {},", naming.Camel(g.name))
			continue
		}
		b.Block("%s:", naming.Camel(g.name))
		for _, op := range g.operations {
			renderCommandEntry(b, op)
		}
		b.EndBlockSuffix(",")
	}
	b.EndBlockSuffix(";")
	return b.String()
}

func renderCommandEntry(b *emit.Builder, op ir.CGOperation) {
	b.Block("%q:", naming.Kebab(op.OperationID))
	b.Line("method: %q,", op.Method)
	b.Line("path: %q,", op.Path)
	b.Line("description: %q,", op.Description)
	emitSlot(b, "params", op.Params, true)
	emitSlot(b, "query", op.Query, false)
	emitSlot(b, "body", op.Body, false)
	b.EndBlockSuffix(",")
}

func emitSlot(b *emit.Builder, name string, val map[string]any, forceRequired bool) {
	if val == nil {
		return
	}
	props, _ := val["properties"].(map[string]any)
	if len(props) == 0 {
		b.Line("%s: {},", name)
		return
	}
	required := make(map[string]bool)
	if reqRaw, ok := val["required"].([]any); ok {
		for _, r := range reqRaw {
			if s, ok := r.(string); ok {
				required[s] = true
			}
		}
	}
	names := make([]string, 0, len(props))
	for n := range props {
		names = append(names, n)
	}
	sort.Strings(names)

	b.Block("%s:", name)
	for _, n := range names {
		propDef, _ := props[n].(map[string]any)
		renderProp(b, n, propDef, forceRequired || required[n])
	}
	b.EndBlockSuffix(",")
}

func renderProp(b *emit.Builder, name string, def map[string]any, required bool) {
	jsType := jsTypeOf(def)
	var extra strings.Builder
	if desc, ok := def["description"].(string); ok && desc != "" {
		fmt.Fprintf(&extra, ", description: %q", desc)
	}
	if enumRaw, ok := def["enum"].([]any); ok && len(enumRaw) > 0 {
		parts := make([]string, 0, len(enumRaw))
		for _, v := range enumRaw {
			parts = append(parts, fmt.Sprintf("%q", fmt.Sprint(v)))
		}
		fmt.Fprintf(&extra, ", enum: [%s]", strings.Join(parts, ", "))
	}
	b.Line("%q: { type: %q, required: %t%s },", name, jsType, required, extra.String())
}

func jsTypeOf(def map[string]any) string {
	t, _ := def["type"].(string)
	switch t {
	case "integer":
		return "number"
	case "boolean":
		return "boolean"
	default:
		return "string"
	}
}

func renderBinaryEntry(cfg Config) string {
	b := emit.New()
	b.Line("#!/usr/bin/env node")
	b.Line(genfile.Header)
	b.Blank()
	b.Line("import { createCLI } from \"@vertz/cli-runtime\";")
	b.Line("import { commands } from \"./manifest\";")
	b.Blank()
	b.Line("const cli = createCLI({ name: %q, version: %q, commands });", cfg.BinName, cfg.Version)
	b.Line("cli.run(process.argv.slice(2));")
	return b.String()
}
