package clientgen

import (
	"strings"
	"testing"

	"github.com/vertz-dev/codegen/internal/ir"
)

func TestGenerate_ModuleFactoryAndClientEntry(t *testing.T) {
	cg := ir.CodegenIR{
		Modules: []ir.CGModule{
			{Name: "users", Operations: []ir.CGOperation{
				{OperationID: "getUser", Method: "GET", Path: "/users/:id",
					Params: map[string]any{"type": "object"}},
				{OperationID: "listUsers", Method: "GET", Path: "/users"},
			}},
		},
	}
	files, err := Generate(cg)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %+v, want 2", files)
	}
	mod := files[0]
	if mod.Path != "modules/users.ts" {
		t.Errorf("Path = %q", mod.Path)
	}
	if !strings.Contains(mod.Content, "export function createUsersModule(client: FetchClient)") {
		t.Errorf("missing factory decl: %s", mod.Content)
	}
	if !strings.Contains(mod.Content, "async getUser(input: GetUserInput): Promise<SDKResult<GetUserResponse>>") {
		t.Errorf("missing required-input method: %s", mod.Content)
	}
	if !strings.Contains(mod.Content, "async listUsers(): Promise<SDKResult<ListUsersResponse>>") {
		t.Errorf("missing no-input method: %s", mod.Content)
	}
	if !strings.Contains(mod.Content, "`/users/${input.params.id}`") {
		t.Errorf("missing path template: %s", mod.Content)
	}

	entry := files[1]
	if entry.Path != "client.ts" {
		t.Errorf("Path = %q", entry.Path)
	}
	if !strings.Contains(entry.Content, "export function createClient(config: Config)") {
		t.Errorf("missing createClient: %s", entry.Content)
	}
	if !strings.Contains(entry.Content, "users: createUsersModule(client),") {
		t.Errorf("missing module wiring: %s", entry.Content)
	}
}

func TestGenerate_BearerAuthAddsTokenField(t *testing.T) {
	cg := ir.CodegenIR{
		Auth: ir.AuthConfig{Schemes: []ir.AuthScheme{{Type: "bearer"}}},
	}
	files, err := Generate(cg)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	entry := files[len(files)-1]
	if !strings.Contains(entry.Content, "token?: string | (() => string | Promise<string>);") {
		t.Errorf("missing token field: %s", entry.Content)
	}
}

func TestGenerate_NoAuthSchemesSimpleConfigAlias(t *testing.T) {
	cg := ir.CodegenIR{}
	files, err := Generate(cg)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	entry := files[len(files)-1]
	if !strings.Contains(entry.Content, "export type Config = FetchClientConfig;") {
		t.Errorf("missing config alias: %s", entry.Content)
	}
}

func TestGenerate_StreamingMethodUsesAsyncIterable(t *testing.T) {
	cg := ir.CodegenIR{
		Modules: []ir.CGModule{
			{Name: "events", Operations: []ir.CGOperation{
				{OperationID: "watchEvents", Method: "GET", Path: "/events",
					Streaming: &ir.Streaming{Format: "sse"}},
			}},
		},
	}
	files, err := Generate(cg)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(files[0].Content, "async *watchEvents(): AsyncIterable<WatchEventsEvent>") {
		t.Errorf("missing streaming method: %s", files[0].Content)
	}
	if !strings.Contains(files[0].Content, `yield* client.requestStream("GET", "/events", { format: "sse" });`) {
		t.Errorf("missing requestStream call: %s", files[0].Content)
	}
}
