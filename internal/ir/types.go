// Package ir defines the App IR (external input shape) and Codegen IR
// (canonical internal form) and the Adapt pass that turns one into the
// other.
package ir

import "github.com/vertz-dev/codegen/internal/schema"

// Slot names a schema-carrying position on a route or operation.
type Slot string

const (
	SlotParams   Slot = "params"
	SlotQuery    Slot = "query"
	SlotBody     Slot = "body"
	SlotHeaders  Slot = "headers"
	SlotResponse Slot = "response"
)

// SlotSuffix is the Input-field/synthesized-schema suffix for a slot, per
// the params/query/body/headers/response -> Params/Query/Body/Headers/Response
// mapping used when an inline slot is promoted to a named schema.
var SlotSuffix = map[Slot]string{
	SlotParams:   "Params",
	SlotQuery:    "Query",
	SlotBody:     "Body",
	SlotHeaders:  "Headers",
	SlotResponse: "Response",
}

// SchemaRef is the tagged sum carried by a route's schema slots: either a
// reference to a declared named schema, or an inline JSON-Schema body.
type SchemaRef interface {
	isSchemaRef()
}

// NamedRef points at a schema declared elsewhere by name. JSONSchema is an
// optional cached copy of that schema's body; the canonical body lives on
// the matching SchemaDecl.
type NamedRef struct {
	SchemaName string
	JSONSchema schema.Value
}

func (NamedRef) isSchemaRef() {}

// InlineRef carries a JSON-Schema body with no declared name of its own.
// ResolvedFields, when present, is an entity projection's per-field type
// hints. Decode fills it, but neither Adapt nor any emitter reads it; the
// field hints that typegen emits come from ModelRef.Fields.
type InlineRef struct {
	JSONSchema     schema.Value
	ResolvedFields []ResolvedField
}

func (InlineRef) isSchemaRef() {}

// ResolvedField is a single per-field type hint attached to an entity's
// model reference.
type ResolvedField struct {
	Name     string
	TypeHint string
}

// Streaming describes a route or operation's streaming response shape.
type Streaming struct {
	Format      string // "sse" or "ndjson"
	EventSchema schema.Value
}

// NamingParts are the naming-convention fragments a schema or synthesized
// declaration carries for downstream doc-comment and grouping decisions.
type NamingParts struct {
	Operation string
	Entity    string
	Part      string
}

// Route is one method+path+slots entry under a Router.
type Route struct {
	Method      string
	Path        string
	OperationID string
	Tags        []string
	Description string

	Params    SchemaRef
	Query     SchemaRef
	Body      SchemaRef
	Headers   SchemaRef
	Response  SchemaRef
	Streaming *Streaming
}

// Router groups routes under a path prefix.
type Router struct {
	Prefix string
	Routes []Route
}

// Module is a named group of routers.
type Module struct {
	Name    string
	Routers []Router
}

// SchemaDecl is one entry in the App IR's schema list.
type SchemaDecl struct {
	Name        string
	Module      string
	IsNamed     bool
	JSONSchema  schema.Value
	NamingParts NamingParts
	Description string
	Deprecated  bool
}

// ModelRef is an entity's per-slot schema references plus resolved field
// hints, analogous to a Route's slot set but scoped to CRUD bodies.
type ModelRef struct {
	SchemaRefs map[Slot]SchemaRef
	Fields     []ResolvedField
}

// CustomAction is an entity action beyond the fixed CRUD set.
type CustomAction struct {
	Name   string
	Access string
}

// Entity is an optional higher-level construct that projects into a fixed
// set of CRUD operations plus any custom actions.
type Entity struct {
	Name          string
	Model         ModelRef
	Access        map[string]string // CRUD operation name -> access token
	CustomActions []CustomAction
}

// AppIR is the immutable, external-shape input to Adapt.
type AppIR struct {
	BasePath string
	Version  string
	Modules  []Module
	Schemas  []SchemaDecl
	Entities []Entity
}

// AuthScheme describes one authentication mechanism available to the
// client emitter.
type AuthScheme struct {
	Type     string // "bearer" or "apiKey"
	Name     string
	Location string // header/query, for apiKey schemes
}

// CGSchema is a named schema in the canonical internal form.
type CGSchema struct {
	Name        string
	JSONSchema  schema.Value
	Description string
	Deprecated  bool
	NamingParts NamingParts
}

// CGOperation is one flattened operation in the canonical internal form.
type CGOperation struct {
	OperationID string
	Method      string
	Path        string
	Description string
	Tags        []string

	Params   schema.Value
	Query    schema.Value
	Body     schema.Value
	Headers  schema.Value
	Response schema.Value

	Streaming *Streaming

	// SchemaRefs holds, per slot, the resolved named-schema name to
	// reference instead of inlining — absent for slots whose source was
	// (and remains) a plain inline schema.
	SchemaRefs map[Slot]string

	Fields []ResolvedField
}

// CGModule groups an App IR module's flattened operations.
type CGModule struct {
	Name       string
	Operations []CGOperation
}

// CGEntity groups an entity's projected CRUD and custom-action operations.
type CGEntity struct {
	Name       string
	Operations []CGOperation
}

// AuthConfig is the canonical form's auth section.
type AuthConfig struct {
	Schemes []AuthScheme
}

// CodegenIR is the canonical internal form consumed by every emitter.
type CodegenIR struct {
	BasePath string
	Version  string
	Modules  []CGModule
	Schemas  []CGSchema
	Entities []CGEntity
	Auth     AuthConfig
}
