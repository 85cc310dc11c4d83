// Package typegen implements the type emitter (generates the SDK's
// types/*.ts declaration files from a Codegen IR value).
package typegen

import (
	"fmt"
	"sort"

	"github.com/vertz-dev/codegen/internal/emit"
	"github.com/vertz-dev/codegen/internal/genfile"
	"github.com/vertz-dev/codegen/internal/imports"
	"github.com/vertz-dev/codegen/internal/ir"
	"github.com/vertz-dev/codegen/internal/naming"
	"github.com/vertz-dev/codegen/internal/schema"
)

const ext = "ts"

var inputSlots = []ir.Slot{ir.SlotParams, ir.SlotQuery, ir.SlotBody, ir.SlotHeaders}

var requiredSlot = map[ir.Slot]bool{
	ir.SlotParams: true,
	ir.SlotBody:   true,
}

type opGroup struct {
	name       string
	operations []ir.CGOperation
}

// Generate produces one file per module (and per entity, which is emitted
// the same way as a module), a shared file for every schema not
// referenced by any operation's schemaRefs, and returns them all in a
// fixed order: module files in cg.Modules order, then entity files in
// cg.Entities order, then the shared file last. It does not sort; Adapt
// already sorts modules and entities by name.
func Generate(cg ir.CodegenIR) ([]genfile.File, error) {
	groups := make([]opGroup, 0, len(cg.Modules)+len(cg.Entities))
	for _, m := range cg.Modules {
		groups = append(groups, opGroup{name: m.Name, operations: m.Operations})
	}
	for _, e := range cg.Entities {
		groups = append(groups, opGroup{name: e.Name, operations: e.Operations})
	}

	schemaByName := make(map[string]ir.CGSchema, len(cg.Schemas))
	for _, s := range cg.Schemas {
		schemaByName[s.Name] = s
	}

	schemaGroup := make(map[string]string)
	for _, g := range groups {
		for _, op := range g.operations {
			for _, name := range op.SchemaRefs {
				if _, ok := schemaGroup[name]; !ok {
					schemaGroup[name] = g.name
				}
			}
		}
	}

	var files []genfile.File
	for _, g := range groups {
		content, err := renderGroup(g, schemaByName, schemaGroup)
		if err != nil {
			return nil, fmt.Errorf("typegen: module %q: %w", g.name, err)
		}
		files = append(files, genfile.File{Path: "types/" + naming.Kebab(g.name) + "." + ext, Content: content})
	}

	var sharedNames []string
	for name := range schemaByName {
		if _, assigned := schemaGroup[name]; !assigned {
			sharedNames = append(sharedNames, name)
		}
	}
	sort.Strings(sharedNames)
	if len(sharedNames) > 0 {
		b := emit.New()
		b.Line(genfile.Header)
		b.Blank()
		for _, name := range sharedNames {
			if err := emitSchemaDecl(b, schemaByName[name]); err != nil {
				return nil, fmt.Errorf("typegen: shared: %w", err)
			}
			b.Blank()
		}
		files = append(files, genfile.File{Path: "types/shared." + ext, Content: b.String()})
	}

	return files, nil
}

// SchemaLocations maps every schema name in cg to the extension-less file
// path where its declaration lives, for callers (the orchestrator's
// schema re-export file) that need to reference it without recomputing
// the module/shared assignment.
func SchemaLocations(cg ir.CodegenIR) map[string]string {
	groups := make([]opGroup, 0, len(cg.Modules)+len(cg.Entities))
	for _, m := range cg.Modules {
		groups = append(groups, opGroup{name: m.Name, operations: m.Operations})
	}
	for _, e := range cg.Entities {
		groups = append(groups, opGroup{name: e.Name, operations: e.Operations})
	}

	schemaGroup := make(map[string]string)
	for _, g := range groups {
		for _, op := range g.operations {
			for _, name := range op.SchemaRefs {
				if _, ok := schemaGroup[name]; !ok {
					schemaGroup[name] = g.name
				}
			}
		}
	}

	locations := make(map[string]string, len(cg.Schemas))
	for _, s := range cg.Schemas {
		if g, ok := schemaGroup[s.Name]; ok {
			locations[s.Name] = "types/" + naming.Kebab(g)
		} else {
			locations[s.Name] = "types/shared"
		}
	}
	return locations
}

func renderGroup(g opGroup, schemaByName map[string]ir.CGSchema, schemaGroup map[string]string) (string, error) {
	var importEntries []imports.Entry
	b := emit.New()

	localNames := make(map[string]bool)
	for _, op := range g.operations {
		for _, name := range op.SchemaRefs {
			if schemaGroup[name] == g.name {
				localNames[name] = true
			} else {
				importEntries = append(importEntries, imports.Entry{
					From:   "./" + naming.Kebab(schemaGroup[name]),
					Name:   name,
					IsType: true,
				})
			}
		}
	}

	names := make([]string, 0, len(localNames))
	for name := range localNames {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := emitSchemaDecl(b, schemaByName[name]); err != nil {
			return "", err
		}
		b.Blank()
	}

	if fields := groupResolvedFields(g); len(fields) > 0 {
		emitResolvedFieldsDecl(b, g.name, fields)
		b.Blank()
	}

	for _, op := range g.operations {
		if err := emitOperationDecls(b, op); err != nil {
			return "", err
		}
	}

	out := emit.New()
	out.Line(genfile.Header)
	out.Blank()
	if rendered := imports.Render(importEntries); rendered != "" {
		out.Raw(rendered)
		out.Blank()
		out.Blank()
	}
	out.Raw(b.String())
	return out.String(), nil
}

// groupResolvedFields returns the per-field resolved type hints carried by
// an entity's model reference (spec.md §3, §4.5 step 5), copied onto every
// one of the entity's operations. They are identical across all operations
// in the group, so the first non-empty list wins. Regular modules never
// carry these.
func groupResolvedFields(g opGroup) []ir.ResolvedField {
	for _, op := range g.operations {
		if len(op.Fields) > 0 {
			return op.Fields
		}
	}
	return nil
}

// emitResolvedFieldsDecl renders the entity's resolved field hints as a
// record type, since each hint is already a resolved TypeScript type
// string rather than a JSON-Schema fragment to walk.
func emitResolvedFieldsDecl(b *emit.Builder, groupName string, fields []ir.ResolvedField) {
	b.Block("export interface %sFields", naming.Pascal(groupName))
	for _, f := range fields {
		b.Line("%s: %s;", schema.PropertyKey(f.Name), f.TypeHint)
	}
	b.EndBlock()
}

func emitSchemaDecl(b *emit.Builder, s ir.CGSchema) error {
	if err := schema.Validate(s.JSONSchema); err != nil {
		return fmt.Errorf("schema %q: %w", s.Name, err)
	}
	ctx := schema.NewContext()
	typeExpr, err := schema.Convert(s.JSONSchema, ctx)
	if err != nil {
		return err
	}
	emitDecl(b, s.Name, typeExpr, s.Description, s.Deprecated)
	defNames := make([]string, 0, len(ctx.Extracted))
	for name := range ctx.Extracted {
		defNames = append(defNames, name)
	}
	sort.Strings(defNames)
	for _, name := range defNames {
		b.Blank()
		emitDecl(b, name, ctx.Extracted[name], "", false)
	}
	return nil
}

func emitDecl(b *emit.Builder, name, typeExpr, description string, deprecated bool) {
	if description != "" || deprecated {
		b.Line("/**")
		if description != "" {
			b.Line(" * %s", description)
		}
		if deprecated {
			b.Line(" * @deprecated")
		}
		b.Line(" */")
	}
	if len(typeExpr) > 0 && typeExpr[0] == '{' {
		b.Line("export interface %s %s", name, typeExpr)
		return
	}
	b.Line("export type %s = %s;", name, typeExpr)
}

func emitOperationDecls(b *emit.Builder, op ir.CGOperation) error {
	ctx := schema.NewContext()
	inputName := naming.Pascal(op.OperationID) + "Input"

	var fields []string
	for _, slot := range inputSlots {
		val := slotValue(op, slot)
		if val == nil {
			continue
		}
		var typeExpr string
		if refName, ok := op.SchemaRefs[slot]; ok {
			typeExpr = refName
		} else {
			if err := schema.Validate(val); err != nil {
				return fmt.Errorf("operation %q slot %q: %w", op.OperationID, slot, err)
			}
			t, err := schema.Convert(val, ctx)
			if err != nil {
				return err
			}
			typeExpr = t
		}
		opt := "?"
		if requiredSlot[slot] {
			opt = ""
		}
		fields = append(fields, fmt.Sprintf("%s%s: %s", slot, opt, typeExpr))
	}

	if len(fields) > 0 {
		b.Block("export interface %s", inputName)
		for _, f := range fields {
			b.Line("%s;", f)
		}
		b.EndBlock()
		b.Blank()
	}

	responseName := naming.Pascal(op.OperationID) + "Response"
	var responseExpr string
	switch {
	case op.SchemaRefs[ir.SlotResponse] != "":
		responseExpr = op.SchemaRefs[ir.SlotResponse]
	case op.Response != nil:
		if err := schema.Validate(op.Response); err != nil {
			return fmt.Errorf("operation %q response: %w", op.OperationID, err)
		}
		t, err := schema.Convert(op.Response, ctx)
		if err != nil {
			return err
		}
		responseExpr = t
	default:
		responseExpr = "void"
	}
	b.Line("export type %s = %s;", responseName, responseExpr)
	b.Blank()

	if op.Streaming != nil {
		eventName := naming.Pascal(op.OperationID) + "Event"
		eventExpr := "unknown"
		if op.Streaming.EventSchema != nil {
			if err := schema.Validate(op.Streaming.EventSchema); err != nil {
				return fmt.Errorf("operation %q streaming event: %w", op.OperationID, err)
			}
			t, err := schema.Convert(op.Streaming.EventSchema, ctx)
			if err != nil {
				return err
			}
			eventExpr = t
		}
		b.Line("export type %s = %s;", eventName, eventExpr)
		b.Blank()
	}

	return nil
}

func slotValue(op ir.CGOperation, slot ir.Slot) schema.Value {
	switch slot {
	case ir.SlotParams:
		return op.Params
	case ir.SlotQuery:
		return op.Query
	case ir.SlotBody:
		return op.Body
	case ir.SlotHeaders:
		return op.Headers
	case ir.SlotResponse:
		return op.Response
	default:
		return nil
	}
}
