// Package clientgen implements the client emitter (generates the SDK's
// modules/*.ts method files and the top-level client.ts entry).
package clientgen

import (
	"fmt"
	"strings"

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

// Generate produces one module factory file per module/entity and the
// client entry file, in that fixed order, exporting the client factory
// under its default name, createClient.
func Generate(cg ir.CodegenIR) ([]genfile.File, error) {
	return GenerateNamed(cg, "")
}

// GenerateNamed is Generate with the exported client factory function name
// overridden; an empty clientName falls back to the default, createClient.
func GenerateNamed(cg ir.CodegenIR, clientName string) ([]genfile.File, error) {
	if clientName == "" {
		clientName = "createClient"
	}

	groups := make([]opGroup, 0, len(cg.Modules)+len(cg.Entities))
	for _, m := range cg.Modules {
		groups = append(groups, opGroup{name: m.Name, operations: m.Operations})
	}
	for _, e := range cg.Entities {
		groups = append(groups, opGroup{name: e.Name, operations: e.Operations})
	}

	var files []genfile.File
	for _, g := range groups {
		content, err := renderModuleFactory(g)
		if err != nil {
			return nil, fmt.Errorf("clientgen: module %q: %w", g.name, err)
		}
		files = append(files, genfile.File{Path: "modules/" + naming.Kebab(g.name) + "." + ext, Content: content})
	}

	files = append(files, genfile.File{Path: "client." + ext, Content: renderClientEntry(groups, cg.Auth, clientName)})
	return files, nil
}

func renderModuleFactory(g opGroup) (string, error) {
	typesPath := "../types/" + naming.Kebab(g.name)
	b := emit.New()
	b.Line(genfile.Header)
	b.Blank()
	b.Line("import type { FetchClient, SDKResult } from \"../runtime\";")

	var typeNames []string
	for _, op := range g.operations {
		if hasAnyInputSlot(op) {
			typeNames = append(typeNames, naming.Pascal(op.OperationID)+"Input")
		}
		typeNames = append(typeNames, naming.Pascal(op.OperationID)+"Response")
		if op.Streaming != nil {
			typeNames = append(typeNames, naming.Pascal(op.OperationID)+"Event")
		}
	}
	if len(typeNames) > 0 {
		b.Line("import type { %s } from %q;", strings.Join(typeNames, ", "), typesPath)
	}
	b.Blank()

	factoryName := "create" + naming.Pascal(g.name) + "Module"
	b.Block("export function %s(client: FetchClient)", factoryName)
	b.Block("return")
	for _, op := range g.operations {
		if op.Streaming != nil {
			emitStreamingMethod(b, op)
		} else {
			emitMethod(b, op)
		}
	}
	b.EndBlockSuffix(";")
	b.EndBlock()
	return b.String(), nil
}

func hasAnyInputSlot(op ir.CGOperation) bool {
	return op.Params != nil || op.Query != nil || op.Body != nil || op.Headers != nil
}

func hasParamsOrBody(op ir.CGOperation) bool {
	return op.Params != nil || op.Body != nil
}

func inputSignature(op ir.CGOperation) string {
	if !hasAnyInputSlot(op) {
		return ""
	}
	inputType := naming.Pascal(op.OperationID) + "Input"
	if hasParamsOrBody(op) {
		return fmt.Sprintf("input: %s", inputType)
	}
	return fmt.Sprintf("input?: %s", inputType)
}

// pathTemplate turns "/users/:id" into the backtick template expression
// `/users/${input.params.id}`, or a quoted literal when op.Path has no
// ":name" placeholder.
func pathTemplate(path string) string {
	if !strings.Contains(path, ":") {
		return fmt.Sprintf("%q", path)
	}
	var out strings.Builder
	out.WriteByte('`')
	segs := strings.Split(path, "/")
	for i, seg := range segs {
		if i > 0 {
			out.WriteByte('/')
		}
		if strings.HasPrefix(seg, ":") {
			out.WriteString("${input.params.")
			out.WriteString(seg[1:])
			out.WriteString("}")
		} else {
			out.WriteString(seg)
		}
	}
	out.WriteByte('`')
	return out.String()
}

func optsExpr(op ir.CGOperation) string {
	var fields []string
	if op.Query != nil {
		fields = append(fields, "query: input?.query")
	}
	if op.Body != nil {
		fields = append(fields, "body: input.body")
	}
	if op.Headers != nil {
		fields = append(fields, "headers: input?.headers")
	}
	if len(fields) == 0 {
		return ""
	}
	return ", { " + strings.Join(fields, ", ") + " }"
}

func emitMethod(b *emit.Builder, op ir.CGOperation) {
	name := naming.Camel(op.OperationID)
	responseType := naming.Pascal(op.OperationID) + "Response"
	sig := inputSignature(op)
	b.Block("async %s(%s): Promise<SDKResult<%s>>", name, sig, responseType)
	b.Line("return client.request(%q, %s%s);", op.Method, pathTemplate(op.Path), optsExpr(op))
	b.EndBlockSuffix(",")
}

func emitStreamingMethod(b *emit.Builder, op ir.CGOperation) {
	name := naming.Camel(op.OperationID)
	eventType := naming.Pascal(op.OperationID) + "Event"
	sig := inputSignature(op)
	b.Block("async *%s(%s): AsyncIterable<%s>", name, sig, eventType)
	b.Line("yield* client.requestStream(%q, %s, { format: %q });", op.Method, pathTemplate(op.Path), op.Streaming.Format)
	b.EndBlockSuffix(",")
}

func renderClientEntry(groups []opGroup, auth ir.AuthConfig, clientName string) string {
	b := emit.New()
	b.Line(genfile.Header)
	b.Blank()
	b.Line("import type { FetchClientConfig } from \"./runtime\";")
	b.Line("import { createFetchClient } from \"./runtime\";")
	for _, g := range groups {
		b.Line("import { create%sModule } from %q;", naming.Pascal(g.name), "./modules/"+naming.Kebab(g.name))
	}
	b.Blank()

	hasBearer, hasAPIKey := false, false
	for _, s := range auth.Schemes {
		switch s.Type {
		case "bearer":
			hasBearer = true
		case "apiKey":
			hasAPIKey = true
		}
	}

	if hasBearer || hasAPIKey {
		b.Block("export interface Config extends FetchClientConfig")
		if hasBearer {
			b.Line("token?: string | (() => string | Promise<string>);")
		}
		if hasAPIKey {
			b.Line("apiKey?: string;")
		}
		b.EndBlock()
	} else {
		b.Line("export type Config = FetchClientConfig;")
	}
	b.Blank()

	b.Block("function buildAuthStrategies(config: Config)")
	b.Line("const authStrategies: unknown[] = [...(config.authStrategies ?? [])];")
	for _, s := range auth.Schemes {
		switch s.Type {
		case "bearer":
			b.Block("if (config.token)")
			b.Line("authStrategies.push({ type: \"bearer\", token: config.token });")
			b.EndBlock()
		case "apiKey":
			b.Block("if (config.apiKey)")
			b.Line("authStrategies.push({ type: \"apiKey\", key: config.apiKey, location: %q, name: %q });", s.Location, s.Name)
			b.EndBlock()
		}
	}
	b.Line("return authStrategies;")
	b.EndBlock()
	b.Blank()

	b.Block("export function %s(config: Config)", clientName)
	b.Line("const client = createFetchClient({ ...config, authStrategies: buildAuthStrategies(config) });")
	b.Block("return")
	for _, g := range groups {
		b.Line("%s: create%sModule(client),", naming.Camel(g.name), naming.Pascal(g.name))
	}
	b.EndBlockSuffix(";")
	b.EndBlock()

	return b.String()
}
