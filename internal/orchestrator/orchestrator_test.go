package orchestrator

import (
	"testing"

	"github.com/vertz-dev/codegen/internal/cligen"
	"github.com/vertz-dev/codegen/internal/ir"
)

func TestAssemble_FixedOrderTypescriptOnly(t *testing.T) {
	cg := ir.CodegenIR{
		Modules: []ir.CGModule{
			{Name: "users", Operations: []ir.CGOperation{
				{OperationID: "listUsers", Method: "GET", Path: "/users"},
			}},
		},
		Schemas: []ir.CGSchema{
			{Name: "Orphan", JSONSchema: map[string]any{"type": "string"}},
		},
	}
	files, err := Assemble(cg, Options{Generators: []string{GeneratorTypeScript}})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	var paths []string
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	want := []string{
		"types/users.ts",
		"types/shared.ts",
		"modules/users.ts",
		"client.ts",
		"schemas.ts",
		"index.ts",
	}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestAssemble_CLIGeneratorAppendsCLIFiles(t *testing.T) {
	cg := ir.CodegenIR{}
	files, err := Assemble(cg, Options{
		Generators: []string{GeneratorTypeScript, GeneratorCLI},
		CLI:        cligen.Config{Name: "vertz", Version: "1.0.0"},
	})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	found := false
	for _, f := range files {
		if f.Path == "cli/manifest.ts" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected cli/manifest.ts among files: %+v", files)
	}
}

func TestAssemble_PublishableAddsPackageJSON(t *testing.T) {
	cg := ir.CodegenIR{}
	files, err := Assemble(cg, Options{
		Generators:  []string{GeneratorTypeScript},
		Publishable: &PublishConfig{Name: "@acme/sdk", Version: "1.2.3"},
	})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	found := false
	for _, f := range files {
		if f.Path == "package.json" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected package.json among files: %+v", files)
	}
}

func TestAssemble_EmptyGeneratorsYieldsNoFiles(t *testing.T) {
	cg := ir.CodegenIR{}
	files, err := Assemble(cg, Options{})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if len(files) != 0 {
		t.Errorf("files = %+v, want none", files)
	}
}
