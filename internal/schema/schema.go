// Package schema converts a JSON-Schema fragment into a TypeScript surface
// type expression (spec.md §4.4), hoisting every nested $defs entry into an
// auxiliary map carried through the conversion context.
package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vertz-dev/codegen/internal/pipeerr"
)

// Value is a JSON-Schema fragment decoded to Go's generic JSON
// representation: map[string]any for objects, []any for arrays, and the
// usual primitives. The pipeline decodes App-IR-carried schema bytes with
// github.com/go-json-experiment/json before handing them to Convert.
type Value = map[string]any

// Context carries state across a single top-level Convert call: the set of
// hoisted named declarations ($defs) and the in-flight "resolving" guard
// that stops direct self-recursion. Ownership of Extracted belongs to the
// caller of the outermost Convert; nested calls mutate it by reference.
type Context struct {
	// Extracted maps a hoisted $defs name to its converted type expression.
	Extracted map[string]string
	resolving map[string]bool
}

// NewContext returns an empty conversion context.
func NewContext() *Context {
	return &Context{
		Extracted: make(map[string]string),
		resolving: make(map[string]bool),
	}
}

// Convert maps a JSON-Schema fragment to a TypeScript type expression.
func Convert(s Value, ctx *Context) (string, error) {
	if ctx == nil {
		ctx = NewContext()
	}
	if s == nil {
		return "unknown", nil
	}

	// $defs are hoisted and converted before the surrounding schema so
	// their names are registered in Extracted even if the body below never
	// references them directly by name.
	if defsRaw, ok := s["$defs"]; ok {
		if err := hoistDefs(defsRaw, ctx); err != nil {
			return "", err
		}
	}

	return convertBody(s, ctx)
}

func hoistDefs(defsRaw any, ctx *Context) error {
	defs, ok := defsRaw.(map[string]any)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, already := ctx.Extracted[name]; already {
			continue
		}
		if ctx.resolving[name] {
			continue
		}
		body, ok := defs[name].(map[string]any)
		if !ok {
			continue
		}
		ctx.resolving[name] = true
		// Register a placeholder before descending so a self-referencing
		// $defs entry resolves to its own name instead of recursing forever.
		ctx.Extracted[name] = name
		typeExpr, err := convertBody(body, ctx)
		delete(ctx.resolving, name)
		if err != nil {
			return err
		}
		ctx.Extracted[name] = typeExpr
	}
	return nil
}

func convertBody(s Value, ctx *Context) (string, error) {
	if ref, ok := s["$ref"]; ok {
		return convertRef(ref)
	}

	if c, ok := s["const"]; ok {
		return constLiteral(c), nil
	}

	if enumRaw, ok := s["enum"]; ok {
		return convertEnum(enumRaw)
	}

	if oneOf, ok := s["oneOf"].([]any); ok && len(oneOf) > 0 {
		return convertUnion(oneOf, ctx)
	}
	if anyOf, ok := s["anyOf"].([]any); ok && len(anyOf) > 0 {
		return convertUnion(anyOf, ctx)
	}
	if allOf, ok := s["allOf"].([]any); ok && len(allOf) > 0 {
		return convertIntersection(allOf, ctx)
	}

	if typesRaw, ok := s["type"]; ok {
		if multi, ok := typesRaw.([]any); ok {
			return convertMultiType(multi), nil
		}
		typeStr, _ := typesRaw.(string)
		return convertTyped(typeStr, s, ctx)
	}

	// No type, no ref, no composition: fall back by structural shape.
	if _, hasProps := s["properties"]; hasProps {
		return convertTyped("object", s, ctx)
	}
	if _, hasItems := s["items"]; hasItems {
		return convertTyped("array", s, ctx)
	}
	if _, hasPrefix := s["prefixItems"]; hasPrefix {
		return convertTyped("array", s, ctx)
	}

	return "unknown", nil
}

func convertRef(ref any) (string, error) {
	str, _ := ref.(string)
	if !strings.HasPrefix(str, "#") {
		return "", fmt.Errorf("%w: %q", pipeerr.ErrUnsupportedExternalRef, str)
	}
	segs := strings.Split(str, "/")
	name := segs[len(segs)-1]
	return name, nil
}

func convertMultiType(types []any) string {
	parts := make([]string, 0, len(types))
	for _, t := range types {
		str, _ := t.(string)
		parts = append(parts, primitiveTS(str))
	}
	return strings.Join(parts, " | ")
}

func convertEnum(enumRaw any) (string, error) {
	values, _ := enumRaw.([]any)
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, constLiteral(v))
	}
	return strings.Join(parts, " | "), nil
}

func convertUnion(items []any, ctx *Context) (string, error) {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		body, _ := item.(map[string]any)
		t, err := Convert(body, ctx)
		if err != nil {
			return "", err
		}
		parts = append(parts, t)
	}
	return strings.Join(parts, " | "), nil
}

func convertIntersection(items []any, ctx *Context) (string, error) {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		body, _ := item.(map[string]any)
		t, err := Convert(body, ctx)
		if err != nil {
			return "", err
		}
		parts = append(parts, t)
	}
	return strings.Join(parts, " & "), nil
}

func convertTyped(typeStr string, s Value, ctx *Context) (string, error) {
	switch typeStr {
	case "string", "number", "integer", "boolean", "null":
		return primitiveTS(typeStr), nil
	case "array":
		return convertArray(s, ctx)
	case "object":
		return convertObject(s, ctx)
	default:
		return "unknown", nil
	}
}

func primitiveTS(t string) string {
	switch t {
	case "string":
		return "string"
	case "number", "integer":
		return "number"
	case "boolean":
		return "boolean"
	case "null":
		return "null"
	default:
		return "unknown"
	}
}

func convertArray(s Value, ctx *Context) (string, error) {
	if prefix, ok := s["prefixItems"].([]any); ok {
		parts := make([]string, 0, len(prefix))
		for _, item := range prefix {
			body, _ := item.(map[string]any)
			t, err := Convert(body, ctx)
			if err != nil {
				return "", err
			}
			parts = append(parts, t)
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	}

	items, ok := s["items"].(map[string]any)
	if !ok {
		return "unknown[]", nil
	}
	t, err := Convert(items, ctx)
	if err != nil {
		return "", err
	}
	if strings.Contains(t, " | ") || strings.Contains(t, " & ") {
		if !strings.HasPrefix(t, "(") {
			t = "(" + t + ")"
		}
	}
	return t + "[]", nil
}

func convertObject(s Value, ctx *Context) (string, error) {
	if addProps, ok := s["additionalProperties"].(map[string]any); ok {
		if _, hasProps := s["properties"]; !hasProps {
			v, err := Convert(addProps, ctx)
			if err != nil {
				return "", err
			}
			return "Record<string, " + v + ">", nil
		}
	}

	props, hasProps := s["properties"].(map[string]any)
	if !hasProps || len(props) == 0 {
		return "Record<string, unknown>", nil
	}

	required := make(map[string]bool)
	if reqRaw, ok := s["required"].([]any); ok {
		for _, r := range reqRaw {
			if name, ok := r.(string); ok {
				required[name] = true
			}
		}
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]string, 0, len(names))
	for _, name := range names {
		propBody, _ := props[name].(map[string]any)
		t, err := Convert(propBody, ctx)
		if err != nil {
			return "", err
		}
		opt := "?"
		if required[name] {
			opt = ""
		}
		fields = append(fields, fmt.Sprintf("%s%s: %s", PropertyKey(name), opt, t))
	}

	return "{ " + strings.Join(fields, "; ") + " }", nil
}

// PropertyKey quotes a TypeScript property name when it is not a valid
// identifier.
func PropertyKey(name string) string {
	if name == "" {
		return `""`
	}
	for i, r := range name {
		if i == 0 {
			if !isIdentStart(r) {
				return strconv.Quote(name)
			}
			continue
		}
		if !isIdentPart(r) {
			return strconv.Quote(name)
		}
	}
	return name
}

func isIdentStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_' || r == '$'
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

// constLiteral renders a single JSON value as a TypeScript literal type.
func constLiteral(v any) string {
	switch val := v.(type) {
	case string:
		return strconv.Quote(val)
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		if val {
			return "true"
		}
		return "false"
	case nil:
		return "null"
	default:
		return "unknown"
	}
}
