package ir

import (
	"sort"

	"github.com/vertz-dev/codegen/internal/naming"
)

// slotOrder fixes the iteration order used whenever slots are visited
// together, so inline-promotion and synthesis are deterministic.
var slotOrder = []Slot{SlotParams, SlotQuery, SlotBody, SlotHeaders, SlotResponse}

type schemaKey struct {
	module string
	name   string
}

// Adapt turns an App IR value into its canonical Codegen IR.
func Adapt(app AppIR) (CodegenIR, error) {
	declByKey := make(map[schemaKey]*SchemaDecl)
	var namedKeys []schemaKey
	nameCounts := make(map[string]int)

	for i := range app.Schemas {
		d := &app.Schemas[i]
		if !d.IsNamed || d.JSONSchema == nil {
			continue
		}
		k := schemaKey{module: d.Module, name: d.Name}
		declByKey[k] = d
		namedKeys = append(namedKeys, k)
		nameCounts[d.Name]++
	}

	resolved := make(map[schemaKey]string, len(namedKeys))
	for _, k := range namedKeys {
		if nameCounts[k.name] > 1 {
			resolved[k] = naming.Pascal(k.module) + k.name
		} else {
			resolved[k] = k.name
		}
	}

	var schemas []CGSchema
	for _, k := range namedKeys {
		d := declByKey[k]
		schemas = append(schemas, CGSchema{
			Name:        resolved[k],
			JSONSchema:  d.JSONSchema,
			Description: d.Description,
			Deprecated:  d.Deprecated,
			NamingParts: d.NamingParts,
		})
	}

	synthesized := 0
	nextSynthName := func(opID string, slot Slot) string {
		synthesized++
		return naming.Pascal(opID) + SlotSuffix[slot]
	}

	var modules []CGModule
	for _, mod := range app.Modules {
		cgMod := CGModule{Name: mod.Name}
		for _, router := range mod.Routers {
			for _, route := range router.Routes {
				op := CGOperation{
					OperationID: route.OperationID,
					Method:      route.Method,
					Path:        route.Path,
					Description: route.Description,
					Tags:        route.Tags,
					Streaming:   route.Streaming,
					SchemaRefs:  make(map[Slot]string),
				}
				slots := map[Slot]SchemaRef{
					SlotParams:   route.Params,
					SlotQuery:    route.Query,
					SlotBody:     route.Body,
					SlotHeaders:  route.Headers,
					SlotResponse: route.Response,
				}
				for _, slot := range slotOrder {
					ref := slots[slot]
					if ref == nil {
						continue
					}
					body, name, ok := materialize(ref, mod.Name, declByKey, resolved)
					setSlot(&op, slot, body)
					if ok {
						op.SchemaRefs[slot] = name
						continue
					}
					if body != nil {
						synthName := nextSynthName(route.OperationID, slot)
						op.SchemaRefs[slot] = synthName
						schemas = append(schemas, CGSchema{Name: synthName, JSONSchema: body})
					}
				}
				cgMod.Operations = append(cgMod.Operations, op)
			}
		}
		sort.Slice(cgMod.Operations, func(i, j int) bool {
			return cgMod.Operations[i].OperationID < cgMod.Operations[j].OperationID
		})
		modules = append(modules, cgMod)
	}
	sort.Slice(modules, func(i, j int) bool { return modules[i].Name < modules[j].Name })

	var entities []CGEntity
	for _, ent := range app.Entities {
		cgEnt := CGEntity{Name: ent.Name}
		cgEnt.Operations = append(cgEnt.Operations, projectEntityCRUD(ent, declByKey, resolved, &schemas)...)
		for _, action := range ent.CustomActions {
			if action.Access == "false" {
				continue
			}
			cgEnt.Operations = append(cgEnt.Operations, projectCustomAction(ent, action, declByKey, resolved, &schemas))
		}
		sort.Slice(cgEnt.Operations, func(i, j int) bool {
			return cgEnt.Operations[i].OperationID < cgEnt.Operations[j].OperationID
		})
		entities = append(entities, cgEnt)
	}
	sort.Slice(entities, func(i, j int) bool { return entities[i].Name < entities[j].Name })

	sort.Slice(schemas, func(i, j int) bool { return schemas[i].Name < schemas[j].Name })

	return CodegenIR{
		BasePath: app.BasePath,
		Version:  app.Version,
		Modules:  modules,
		Schemas:  schemas,
		Entities: entities,
		Auth:     AuthConfig{},
	}, nil
}

// materialize resolves a SchemaRef to its materialized JSON body plus,
// when the ref names a declared schema, the post-collision-resolution
// name to reference. ok is false when the slot should be inlined (and
// possibly promoted by the caller).
func materialize(ref SchemaRef, module string, declByKey map[schemaKey]*SchemaDecl, resolved map[schemaKey]string) (body map[string]any, name string, ok bool) {
	switch r := ref.(type) {
	case NamedRef:
		k := schemaKey{module: module, name: r.SchemaName}
		if decl, found := declByKey[k]; found {
			resolvedName := resolved[k]
			return decl.JSONSchema, resolvedName, true
		}
		return r.JSONSchema, r.SchemaName, true
	case InlineRef:
		return r.JSONSchema, "", false
	default:
		return nil, "", false
	}
}

func setSlot(op *CGOperation, slot Slot, body map[string]any) {
	switch slot {
	case SlotParams:
		op.Params = body
	case SlotQuery:
		op.Query = body
	case SlotBody:
		op.Body = body
	case SlotHeaders:
		op.Headers = body
	case SlotResponse:
		op.Response = body
	}
}

func entityCollectionPath(entityName string) string {
	return "/" + naming.Kebab(naming.Plural(entityName))
}

func projectEntityCRUD(ent Entity, declByKey map[schemaKey]*SchemaDecl, resolved map[schemaKey]string, schemas *[]CGSchema) []CGOperation {
	e := entityCollectionPath(ent.Name)
	singular := naming.Singular(ent.Name)
	plural := naming.Plural(ent.Name)

	type crud struct {
		name   string
		method string
		path   string
		opWord string
	}
	defs := []crud{
		{"list", "GET", e, "list " + plural},
		{"get", "GET", e + "/:id", "get " + singular},
		{"create", "POST", e, "create " + singular},
		{"update", "PATCH", e + "/:id", "update " + singular},
		{"delete", "DELETE", e + "/:id", "delete " + singular},
	}

	var ops []CGOperation
	for _, d := range defs {
		if ent.Access[d.name] == "false" {
			continue
		}
		op := CGOperation{
			OperationID: naming.Camel(d.opWord),
			Method:      d.method,
			Path:        d.path,
			SchemaRefs:  make(map[Slot]string),
			Fields:      ent.Model.Fields,
		}
		for slot, ref := range ent.Model.SchemaRefs {
			if ref == nil {
				continue
			}
			body, name, ok := materialize(ref, ent.Name, declByKey, resolved)
			setSlot(&op, slot, body)
			if ok {
				op.SchemaRefs[slot] = name
			} else if body != nil {
				synthName := naming.Pascal(op.OperationID) + SlotSuffix[slot]
				op.SchemaRefs[slot] = synthName
				*schemas = append(*schemas, CGSchema{Name: synthName, JSONSchema: body})
			}
		}
		ops = append(ops, op)
	}
	return ops
}

func projectCustomAction(ent Entity, action CustomAction, declByKey map[schemaKey]*SchemaDecl, resolved map[schemaKey]string, schemas *[]CGSchema) CGOperation {
	singular := naming.Singular(ent.Name)
	op := CGOperation{
		OperationID: naming.Camel(action.Name + " " + singular),
		Method:      "POST",
		Path:        entityCollectionPath(ent.Name) + "/:id/" + action.Name,
		SchemaRefs:  make(map[Slot]string),
		Fields:      ent.Model.Fields,
	}
	for slot, ref := range ent.Model.SchemaRefs {
		if ref == nil {
			continue
		}
		body, name, ok := materialize(ref, ent.Name, declByKey, resolved)
		setSlot(&op, slot, body)
		if ok {
			op.SchemaRefs[slot] = name
		} else if body != nil {
			synthName := naming.Pascal(op.OperationID) + SlotSuffix[slot]
			op.SchemaRefs[slot] = synthName
			*schemas = append(*schemas, CGSchema{Name: synthName, JSONSchema: body})
		}
	}
	return op
}
