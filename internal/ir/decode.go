package ir

import (
	jsonv2 "github.com/go-json-experiment/json"

	"github.com/vertz-dev/codegen/internal/schema"
)

// wireSchemaRef is the on-disk shape of a SchemaRef: a tagged union
// discriminated by "kind" ("named" or "inline"), since JSON has no native
// sum types.
type wireSchemaRef struct {
	Kind           string          `json:"kind"`
	SchemaName     string          `json:"schemaName,omitempty"`
	JSONSchema     schema.Value    `json:"jsonSchema,omitempty"`
	ResolvedFields []ResolvedField `json:"resolvedFields,omitempty"`
}

func (w *wireSchemaRef) toSchemaRef() SchemaRef {
	if w == nil {
		return nil
	}
	if w.Kind == "named" {
		return NamedRef{SchemaName: w.SchemaName, JSONSchema: w.JSONSchema}
	}
	return InlineRef{JSONSchema: w.JSONSchema, ResolvedFields: w.ResolvedFields}
}

type wireStreaming struct {
	Format      string       `json:"format"`
	EventSchema schema.Value `json:"eventSchema,omitempty"`
}

func (w *wireStreaming) toStreaming() *Streaming {
	if w == nil {
		return nil
	}
	return &Streaming{Format: w.Format, EventSchema: w.EventSchema}
}

type wireRoute struct {
	Method      string         `json:"method"`
	Path        string         `json:"path"`
	OperationID string         `json:"operationId"`
	Tags        []string       `json:"tags,omitempty"`
	Description string         `json:"description,omitempty"`
	Params      *wireSchemaRef `json:"params,omitempty"`
	Query       *wireSchemaRef `json:"query,omitempty"`
	Body        *wireSchemaRef `json:"body,omitempty"`
	Headers     *wireSchemaRef `json:"headers,omitempty"`
	Response    *wireSchemaRef `json:"response,omitempty"`
	Streaming   *wireStreaming `json:"streaming,omitempty"`
}

func (w wireRoute) toRoute() Route {
	return Route{
		Method:      w.Method,
		Path:        w.Path,
		OperationID: w.OperationID,
		Tags:        w.Tags,
		Description: w.Description,
		Params:      w.Params.toSchemaRef(),
		Query:       w.Query.toSchemaRef(),
		Body:        w.Body.toSchemaRef(),
		Headers:     w.Headers.toSchemaRef(),
		Response:    w.Response.toSchemaRef(),
		Streaming:   w.Streaming.toStreaming(),
	}
}

type wireRouter struct {
	Prefix string      `json:"prefix"`
	Routes []wireRoute `json:"routes,omitempty"`
}

type wireModule struct {
	Name    string       `json:"name"`
	Routers []wireRouter `json:"routers,omitempty"`
}

type wireNamingParts struct {
	Operation string `json:"operation,omitempty"`
	Entity    string `json:"entity,omitempty"`
	Part      string `json:"part,omitempty"`
}

func (w wireNamingParts) toNamingParts() NamingParts {
	return NamingParts{Operation: w.Operation, Entity: w.Entity, Part: w.Part}
}

type wireSchemaDecl struct {
	Name        string          `json:"name"`
	Module      string          `json:"module"`
	IsNamed     bool            `json:"isNamed"`
	JSONSchema  schema.Value    `json:"jsonSchema,omitempty"`
	NamingParts wireNamingParts `json:"namingParts,omitempty"`
	Description string          `json:"description,omitempty"`
	Deprecated  bool            `json:"deprecated,omitempty"`
}

type wireModelRef struct {
	SchemaRefs map[Slot]*wireSchemaRef `json:"schemaRefs,omitempty"`
	Fields     []ResolvedField         `json:"fields,omitempty"`
}

type wireCustomAction struct {
	Name   string `json:"name"`
	Access string `json:"access,omitempty"`
}

type wireEntity struct {
	Name          string             `json:"name"`
	Model         wireModelRef       `json:"model"`
	Access        map[string]string  `json:"access,omitempty"`
	CustomActions []wireCustomAction `json:"customActions,omitempty"`
}

type wireAppIR struct {
	BasePath string           `json:"basePath"`
	Version  string           `json:"version,omitempty"`
	Modules  []wireModule     `json:"modules,omitempty"`
	Schemas  []wireSchemaDecl `json:"schemas,omitempty"`
	Entities []wireEntity     `json:"entities,omitempty"`
}

// Decode parses an App IR JSON document — the shape the upstream analyzer
// this pipeline consumes is expected to emit — into the in-memory AppIR
// value Adapt takes as input. This is the only place the SchemaRef sum
// type's wire encoding is known; every other package works with the typed
// Go value.
func Decode(data []byte) (AppIR, error) {
	var w wireAppIR
	if err := jsonv2.Unmarshal(data, &w); err != nil {
		return AppIR{}, err
	}

	app := AppIR{BasePath: w.BasePath, Version: w.Version}

	for _, wm := range w.Modules {
		mod := Module{Name: wm.Name}
		for _, wr := range wm.Routers {
			router := Router{Prefix: wr.Prefix}
			for _, wrt := range wr.Routes {
				router.Routes = append(router.Routes, wrt.toRoute())
			}
			mod.Routers = append(mod.Routers, router)
		}
		app.Modules = append(app.Modules, mod)
	}

	for _, ws := range w.Schemas {
		app.Schemas = append(app.Schemas, SchemaDecl{
			Name:        ws.Name,
			Module:      ws.Module,
			IsNamed:     ws.IsNamed,
			JSONSchema:  ws.JSONSchema,
			NamingParts: ws.NamingParts.toNamingParts(),
			Description: ws.Description,
			Deprecated:  ws.Deprecated,
		})
	}

	for _, we := range w.Entities {
		ent := Entity{Name: we.Name, Access: we.Access}
		ent.Model.Fields = we.Model.Fields
		if we.Model.SchemaRefs != nil {
			ent.Model.SchemaRefs = make(map[Slot]SchemaRef, len(we.Model.SchemaRefs))
			for slot, ref := range we.Model.SchemaRefs {
				ent.Model.SchemaRefs[slot] = ref.toSchemaRef()
			}
		}
		for _, ca := range we.CustomActions {
			ent.CustomActions = append(ent.CustomActions, CustomAction{Name: ca.Name, Access: ca.Access})
		}
		app.Entities = append(app.Entities, ent)
	}

	return app, nil
}
