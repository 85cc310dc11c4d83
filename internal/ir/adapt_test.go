package ir

import (
	"testing"

	"github.com/vertz-dev/codegen/internal/schema"
)

func TestAdapt_MinimalGetListing(t *testing.T) {
	app := AppIR{
		BasePath: "/api",
		Modules: []Module{
			{Name: "users", Routers: []Router{
				{Prefix: "/users", Routes: []Route{
					{Method: "GET", Path: "/users", OperationID: "listUsers"},
				}},
			}},
		},
	}
	got, err := Adapt(app)
	if err != nil {
		t.Fatalf("Adapt() error = %v", err)
	}
	if len(got.Modules) != 1 || got.Modules[0].Name != "users" {
		t.Fatalf("Modules = %+v", got.Modules)
	}
	ops := got.Modules[0].Operations
	if len(ops) != 1 || ops[0].OperationID != "listUsers" {
		t.Fatalf("Operations = %+v", ops)
	}
	if len(got.Schemas) != 0 {
		t.Errorf("Schemas = %+v, want none", got.Schemas)
	}
}

func TestAdapt_PathParameter(t *testing.T) {
	app := AppIR{
		Modules: []Module{
			{Name: "users", Routers: []Router{
				{Routes: []Route{
					{Method: "GET", Path: "/users/:id", OperationID: "getUser"},
				}},
			}},
		},
	}
	got, err := Adapt(app)
	if err != nil {
		t.Fatalf("Adapt() error = %v", err)
	}
	if got.Modules[0].Operations[0].Path != "/users/:id" {
		t.Errorf("Path = %q", got.Modules[0].Operations[0].Path)
	}
}

func TestAdapt_SchemaCollisionResolved(t *testing.T) {
	app := AppIR{
		Schemas: []SchemaDecl{
			{Name: "Item", Module: "orders", IsNamed: true, JSONSchema: schema.Value{"type": "object"}},
			{Name: "Item", Module: "carts", IsNamed: true, JSONSchema: schema.Value{"type": "object"}},
		},
		Modules: []Module{
			{Name: "orders", Routers: []Router{{Routes: []Route{
				{Method: "GET", Path: "/orders", OperationID: "listOrders",
					Response: NamedRef{SchemaName: "Item"}},
			}}}},
		},
	}
	got, err := Adapt(app)
	if err != nil {
		t.Fatalf("Adapt() error = %v", err)
	}
	names := map[string]bool{}
	for _, s := range got.Schemas {
		names[s.Name] = true
	}
	if !names["OrdersItem"] || !names["CartsItem"] {
		t.Fatalf("Schemas = %+v, want OrdersItem and CartsItem", got.Schemas)
	}
	ref := got.Modules[0].Operations[0].SchemaRefs[SlotResponse]
	if ref != "OrdersItem" {
		t.Errorf("SchemaRefs[response] = %q, want OrdersItem", ref)
	}
}

func TestAdapt_NoCollisionKeepsOriginalName(t *testing.T) {
	app := AppIR{
		Schemas: []SchemaDecl{
			{Name: "User", Module: "users", IsNamed: true, JSONSchema: schema.Value{"type": "object"}},
		},
	}
	got, err := Adapt(app)
	if err != nil {
		t.Fatalf("Adapt() error = %v", err)
	}
	if len(got.Schemas) != 1 || got.Schemas[0].Name != "User" {
		t.Fatalf("Schemas = %+v, want [User]", got.Schemas)
	}
}

func TestAdapt_InlinePromotion(t *testing.T) {
	app := AppIR{
		Modules: []Module{
			{Name: "users", Routers: []Router{{Routes: []Route{
				{Method: "POST", Path: "/users", OperationID: "createUser",
					Body: InlineRef{JSONSchema: schema.Value{"type": "object", "properties": schema.Value{"name": schema.Value{"type": "string"}}}}},
			}}}},
		},
	}
	got, err := Adapt(app)
	if err != nil {
		t.Fatalf("Adapt() error = %v", err)
	}
	op := got.Modules[0].Operations[0]
	if op.SchemaRefs[SlotBody] != "CreateUserBody" {
		t.Fatalf("SchemaRefs[body] = %q, want CreateUserBody", op.SchemaRefs[SlotBody])
	}
	found := false
	for _, s := range got.Schemas {
		if s.Name == "CreateUserBody" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Schemas = %+v, want CreateUserBody present", got.Schemas)
	}
}

func TestAdapt_SchemaUniquenessAcrossIR(t *testing.T) {
	app := AppIR{
		Modules: []Module{
			{Name: "a", Routers: []Router{{Routes: []Route{
				{Method: "POST", Path: "/a", OperationID: "makeA",
					Body: InlineRef{JSONSchema: schema.Value{"type": "string"}}},
			}}}},
			{Name: "b", Routers: []Router{{Routes: []Route{
				{Method: "POST", Path: "/b", OperationID: "makeB",
					Body: InlineRef{JSONSchema: schema.Value{"type": "string"}}},
			}}}},
		},
	}
	got, err := Adapt(app)
	if err != nil {
		t.Fatalf("Adapt() error = %v", err)
	}
	seen := make(map[string]bool)
	for _, s := range got.Schemas {
		if seen[s.Name] {
			t.Fatalf("duplicate schema name %q", s.Name)
		}
		seen[s.Name] = true
	}
}

func TestAdapt_SortOrder(t *testing.T) {
	app := AppIR{
		Modules: []Module{
			{Name: "zeta", Routers: []Router{{Routes: []Route{
				{Method: "GET", Path: "/z", OperationID: "zOp"},
			}}}},
			{Name: "alpha", Routers: []Router{{Routes: []Route{
				{Method: "GET", Path: "/a2", OperationID: "bOp"},
				{Method: "GET", Path: "/a1", OperationID: "aOp"},
			}}}},
		},
	}
	got, err := Adapt(app)
	if err != nil {
		t.Fatalf("Adapt() error = %v", err)
	}
	if got.Modules[0].Name != "alpha" || got.Modules[1].Name != "zeta" {
		t.Fatalf("module order = %v, %v", got.Modules[0].Name, got.Modules[1].Name)
	}
	ops := got.Modules[0].Operations
	if ops[0].OperationID != "aOp" || ops[1].OperationID != "bOp" {
		t.Fatalf("operation order = %v, %v", ops[0].OperationID, ops[1].OperationID)
	}
}

func TestAdapt_SchemaRefsResolveToExistingSchema(t *testing.T) {
	app := AppIR{
		Schemas: []SchemaDecl{
			{Name: "User", Module: "users", IsNamed: true, JSONSchema: schema.Value{"type": "object"}},
		},
		Modules: []Module{
			{Name: "users", Routers: []Router{{Routes: []Route{
				{Method: "GET", Path: "/users/:id", OperationID: "getUser",
					Response: NamedRef{SchemaName: "User"}},
			}}}},
		},
	}
	got, err := Adapt(app)
	if err != nil {
		t.Fatalf("Adapt() error = %v", err)
	}
	byName := map[string]bool{}
	for _, s := range got.Schemas {
		byName[s.Name] = true
	}
	for _, mod := range got.Modules {
		for _, op := range mod.Operations {
			for _, name := range op.SchemaRefs {
				if !byName[name] {
					t.Errorf("schemaRefs references unknown schema %q", name)
				}
			}
		}
	}
}

func TestAdapt_EntityProjection(t *testing.T) {
	app := AppIR{
		Entities: []Entity{
			{
				Name: "user",
				Access: map[string]string{
					"delete": "false",
				},
				Model: ModelRef{
					SchemaRefs: map[Slot]SchemaRef{
						SlotResponse: InlineRef{JSONSchema: schema.Value{"type": "object"}},
					},
				},
				CustomActions: []CustomAction{
					{Name: "activate", Access: ""},
					{Name: "archive", Access: "false"},
				},
			},
		},
	}
	got, err := Adapt(app)
	if err != nil {
		t.Fatalf("Adapt() error = %v", err)
	}
	if len(got.Entities) != 1 {
		t.Fatalf("Entities = %+v", got.Entities)
	}
	ent := got.Entities[0]
	ids := map[string]CGOperation{}
	for _, op := range ent.Operations {
		ids[op.OperationID] = op
	}
	if _, ok := ids["deleteUser"]; ok {
		t.Errorf("delete operation should be skipped by access=false")
	}
	if _, ok := ids["listUsers"]; !ok {
		t.Errorf("expected listUsers operation, got %+v", ids)
	}
	if _, ok := ids["getUser"]; !ok {
		t.Errorf("expected getUser operation")
	}
	if _, ok := ids["createUser"]; !ok {
		t.Errorf("expected createUser operation")
	}
	if _, ok := ids["updateUser"]; !ok {
		t.Errorf("expected updateUser operation")
	}
	found := false
	for id, op := range ids {
		if id == "activateUser" {
			found = true
			if op.Path != "/users/:id/activate" {
				t.Errorf("activate path = %q", op.Path)
			}
			if op.Method != "POST" {
				t.Errorf("activate method = %q", op.Method)
			}
		}
		if id == "archiveUser" {
			t.Errorf("archive action should be skipped by access=false")
		}
	}
	if !found {
		t.Fatalf("custom action activateUser not found in %+v", ids)
	}
}
