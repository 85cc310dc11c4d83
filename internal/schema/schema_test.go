package schema

import (
	"errors"
	"testing"

	"github.com/vertz-dev/codegen/internal/pipeerr"
)

func mustConvert(t *testing.T, s Value) string {
	t.Helper()
	ctx := NewContext()
	got, err := Convert(s, ctx)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	return got
}

func TestConvert_Primitives(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want string
	}{
		{"string", Value{"type": "string"}, "string"},
		{"number", Value{"type": "number"}, "number"},
		{"integer", Value{"type": "integer"}, "number"},
		{"boolean", Value{"type": "boolean"}, "boolean"},
		{"null", Value{"type": "null"}, "null"},
		{"unknown type", Value{"type": "weird"}, "unknown"},
		{"nil schema", nil, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustConvert(t, tt.in); got != tt.want {
				t.Errorf("Convert() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConvert_MultiType(t *testing.T) {
	s := Value{"type": []any{"string", "null"}}
	if got := mustConvert(t, s); got != "string | null" {
		t.Errorf("Convert() = %q", got)
	}
}

func TestConvert_Const(t *testing.T) {
	tests := []struct {
		in   Value
		want string
	}{
		{Value{"const": "active"}, `"active"`},
		{Value{"const": float64(3)}, "3"},
		{Value{"const": true}, "true"},
		{Value{"const": nil}, "null"},
	}
	for _, tt := range tests {
		if got := mustConvert(t, tt.in); got != tt.want {
			t.Errorf("Convert(%+v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConvert_Enum(t *testing.T) {
	s := Value{"enum": []any{"a", "b", float64(1)}}
	want := `"a" | "b" | 1`
	if got := mustConvert(t, s); got != want {
		t.Errorf("Convert() = %q, want %q", got, want)
	}
}

func TestConvert_OneOfAnyOf_Union(t *testing.T) {
	oneOf := Value{"oneOf": []any{Value{"type": "string"}, Value{"type": "number"}}}
	if got := mustConvert(t, oneOf); got != "string | number" {
		t.Errorf("oneOf Convert() = %q", got)
	}
	anyOf := Value{"anyOf": []any{Value{"type": "string"}, Value{"type": "number"}}}
	if got := mustConvert(t, anyOf); got != "string | number" {
		t.Errorf("anyOf Convert() = %q", got)
	}
}

func TestConvert_AllOf_Intersection(t *testing.T) {
	s := Value{"allOf": []any{
		Value{"type": "object", "properties": Value{"a": Value{"type": "string"}}, "required": []any{"a"}},
		Value{"type": "object", "properties": Value{"b": Value{"type": "number"}}, "required": []any{"b"}},
	}}
	want := "{ a: string } & { b: number }"
	if got := mustConvert(t, s); got != want {
		t.Errorf("Convert() = %q, want %q", got, want)
	}
}

func TestConvert_Ref(t *testing.T) {
	s := Value{"$ref": "#/$defs/User"}
	if got := mustConvert(t, s); got != "User" {
		t.Errorf("Convert() = %q, want User", got)
	}
}

func TestConvert_ExternalRefFails(t *testing.T) {
	s := Value{"$ref": "https://example.com/schema.json"}
	_, err := Convert(s, NewContext())
	if !errors.Is(err, pipeerr.ErrUnsupportedExternalRef) {
		t.Fatalf("Convert() error = %v, want ErrUnsupportedExternalRef", err)
	}
}

func TestConvert_ArrayWithItems(t *testing.T) {
	s := Value{"type": "array", "items": Value{"type": "string"}}
	if got := mustConvert(t, s); got != "string[]" {
		t.Errorf("Convert() = %q", got)
	}
}

func TestConvert_ArrayOfUnionIsParenthesized(t *testing.T) {
	s := Value{"type": "array", "items": Value{"oneOf": []any{
		Value{"type": "string"}, Value{"type": "number"},
	}}}
	want := "(string | number)[]"
	if got := mustConvert(t, s); got != want {
		t.Errorf("Convert() = %q, want %q", got, want)
	}
}

func TestConvert_PrefixItemsTuple(t *testing.T) {
	s := Value{"type": "array", "prefixItems": []any{
		Value{"type": "string"}, Value{"type": "number"},
	}}
	want := "[string, number]"
	if got := mustConvert(t, s); got != want {
		t.Errorf("Convert() = %q, want %q", got, want)
	}
}

func TestConvert_ObjectWithAdditionalPropertiesRecord(t *testing.T) {
	s := Value{"type": "object", "additionalProperties": Value{"type": "number"}}
	want := "Record<string, number>"
	if got := mustConvert(t, s); got != want {
		t.Errorf("Convert() = %q, want %q", got, want)
	}
}

func TestConvert_ObjectNoPropertiesNoAdditional(t *testing.T) {
	s := Value{"type": "object"}
	want := "Record<string, unknown>"
	if got := mustConvert(t, s); got != want {
		t.Errorf("Convert() = %q, want %q", got, want)
	}
}

func TestConvert_ObjectWithProperties(t *testing.T) {
	s := Value{
		"type": "object",
		"properties": Value{
			"name": Value{"type": "string"},
			"age":  Value{"type": "integer"},
		},
		"required": []any{"name"},
	}
	want := "{ age?: number; name: string }"
	if got := mustConvert(t, s); got != want {
		t.Errorf("Convert() = %q, want %q", got, want)
	}
}

func TestConvert_PropertyKeyQuoting(t *testing.T) {
	s := Value{
		"type": "object",
		"properties": Value{
			"valid-key": Value{"type": "string"},
		},
	}
	want := `{ "valid-key"?: string }`
	if got := mustConvert(t, s); got != want {
		t.Errorf("Convert() = %q, want %q", got, want)
	}
}

func TestConvert_DefsHoisted(t *testing.T) {
	s := Value{
		"$ref": "#/$defs/User",
		"$defs": Value{
			"User": Value{
				"type":       "object",
				"properties": Value{"id": Value{"type": "string"}},
				"required":   []any{"id"},
			},
		},
	}
	ctx := NewContext()
	got, err := Convert(s, ctx)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if got != "User" {
		t.Errorf("Convert() = %q, want User", got)
	}
	if ctx.Extracted["User"] != "{ id: string }" {
		t.Errorf("Extracted[User] = %q", ctx.Extracted["User"])
	}
}

func TestConvert_DefsSelfReferenceStopsRecursion(t *testing.T) {
	s := Value{
		"$ref": "#/$defs/Node",
		"$defs": Value{
			"Node": Value{
				"type": "object",
				"properties": Value{
					"next": Value{"$ref": "#/$defs/Node"},
				},
			},
		},
	}
	ctx := NewContext()
	_, err := Convert(s, ctx)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if ctx.Extracted["Node"] != "{ next?: Node }" {
		t.Errorf("Extracted[Node] = %q", ctx.Extracted["Node"])
	}
}

func TestValidate_RejectsMalformed(t *testing.T) {
	s := Value{"type": "string", "minLength": "not-a-number"}
	if err := Validate(s); !errors.Is(err, pipeerr.ErrInvalidSchema) {
		t.Errorf("Validate() error = %v, want ErrInvalidSchema", err)
	}
}

func TestValidate_AcceptsWellFormed(t *testing.T) {
	s := Value{"type": "object", "properties": Value{"a": Value{"type": "string"}}}
	if err := Validate(s); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestValidate_Nil(t *testing.T) {
	if err := Validate(nil); err != nil {
		t.Errorf("Validate(nil) error = %v, want nil", err)
	}
}
