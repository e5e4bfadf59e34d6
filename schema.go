package orion

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

var (
	customTypesMu sync.RWMutex
	customTypes   = make(map[reflect.Type]*jsonschema.Schema)
)

// RegisterType maps a custom Go type to a JSON Schema type/format in generated
// schemas. emptyInstance is a value of the type (e.g. uuid.UUID{}); jsonType is
// the JSON Schema type (e.g. "string"); format is optional. Pointer fields
// (*T) use the same mapping as T. Call at application startup before the first
// NewTool or NewExtractor.
func RegisterType(emptyInstance any, jsonType, format string) {
	if emptyInstance == nil {
		panic("orion: RegisterType emptyInstance must not be nil")
	}
	if jsonType == "" {
		panic("orion: RegisterType jsonType must not be empty")
	}
	t := reflect.TypeOf(emptyInstance)
	s := &jsonschema.Schema{Type: jsonType, Format: format}
	customTypesMu.Lock()
	defer customTypesMu.Unlock()
	customTypes[t] = s
}

func buildTypeSchemas() map[reflect.Type]*jsonschema.Schema {
	customTypesMu.RLock()
	defer customTypesMu.RUnlock()
	out := make(map[reflect.Type]*jsonschema.Schema, len(customTypes))
	for t, s := range customTypes {
		if s != nil {
			out[t] = s.CloneSchemas()
		}
	}
	return out
}

// Field is one declared field of a schema: its wire name, JSON Schema type,
// and human description.
type Field struct {
	Name        string
	Type        string
	Description string
}

// Schema is the field manifest for a struct type: every declared field in
// declaration order, plus the required set. Built once; immutable thereafter.
// The same shape serves tool parameter manifests and output schemas.
type Schema struct {
	Name     string
	Fields   []Field
	Required []string
}

// Manifest returns the flat field mapping sent to the backend.
func (s *Schema) Manifest() map[string]FieldManifest {
	out := make(map[string]FieldManifest, len(s.Fields))
	for _, f := range s.Fields {
		out[f.Name] = FieldManifest{Type: f.Type, Description: f.Description}
	}
	return out
}

// Describe builds the field manifest for struct type T. Field names follow
// the json tag, descriptions come from the description tag, and fields
// without inferable type information default to string. Required lists every
// field unless its json tag carries omitempty.
func Describe[T any]() (*Schema, error) {
	return describeStruct(reflect.TypeOf(*new(T)), false)
}

func describeStruct(typ reflect.Type, requireAll bool) (*Schema, error) {
	if typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: %v is not a struct type", typ)
	}
	s := &Schema{Name: typ.Name()}
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		jsonTag := field.Tag.Get("json")
		name := strings.Split(jsonTag, ",")[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}
		s.Fields = append(s.Fields, Field{
			Name:        name,
			Type:        jsonType(field.Type),
			Description: field.Tag.Get("description"),
		})
		if requireAll || !strings.Contains(jsonTag, ",omitempty") {
			s.Required = append(s.Required, name)
		}
	}
	return s, nil
}

// jsonType maps a Go type to its JSON Schema type name. Registered custom
// types win; anything unmapped falls back to string.
func jsonType(typ reflect.Type) string {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	customTypesMu.RLock()
	custom, ok := customTypes[typ]
	customTypesMu.RUnlock()
	if ok {
		return custom.Type
	}
	switch typ.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return "string"
	}
}

// generateSchema produces a raw JSON Schema map and a resolved validator for
// type T. Called once when building a tool or extractor. requireAll marks
// every property required (tool parameters have no optional-parameter
// support).
func generateSchema[T any](requireAll bool) (map[string]any, *jsonschema.Resolved, error) {
	opts := &jsonschema.ForOptions{TypeSchemas: buildTypeSchemas()}
	schema, err := jsonschema.For[T](opts)
	if err != nil {
		return nil, nil, err
	}
	if schema == nil {
		return nil, nil, errNilSchema
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, nil, err
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(data, &schemaMap); err != nil {
		return nil, nil, err
	}
	if requireAll {
		applyRequireAll(schemaMap)
	}
	stripSchemaIDs(schemaMap)
	resolved, err := compileRawSchema(schemaMap)
	if err != nil {
		return nil, nil, err
	}
	return schemaMap, resolved, nil
}

// walkSchema recursively visits every map node in the schema tree, including
// $defs.
func walkSchema(schemaMap map[string]any, visit func(map[string]any)) {
	if schemaMap == nil {
		return
	}
	visit(schemaMap)
	for _, val := range schemaMap {
		switch v := val.(type) {
		case map[string]any:
			walkSchema(v, visit)
		case []any:
			for _, item := range v {
				if m, ok := item.(map[string]any); ok {
					walkSchema(m, visit)
				}
			}
		}
	}
}

// applyRequireAll marks every property of every object in the schema required,
// preserving the property order already present in any existing required list.
func applyRequireAll(schemaMap map[string]any) {
	walkSchema(schemaMap, func(n map[string]any) {
		props, ok := n["properties"].(map[string]any)
		if !ok || len(props) == 0 {
			return
		}
		seen := make(map[string]bool, len(props))
		var required []any
		if existing, ok := n["required"].([]any); ok {
			for _, k := range existing {
				name, ok := k.(string)
				if !ok || seen[name] {
					continue
				}
				seen[name] = true
				required = append(required, name)
			}
		}
		// Remaining properties in sorted order for deterministic schemas.
		rest := make([]string, 0, len(props))
		for k := range props {
			if !seen[k] {
				rest = append(rest, k)
			}
		}
		slices.Sort(rest)
		for _, k := range rest {
			required = append(required, k)
		}
		n["required"] = required
	})
}

var errNilSchema = errors.New("schema reflection returned nil")

// compileRawSchema compiles a raw JSON Schema map into a resolved validator.
// The map is not mutated.
func compileRawSchema(schemaMap map[string]any) (*jsonschema.Resolved, error) {
	data, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, err
	}
	var s jsonschema.Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return s.Resolve(nil)
}

// stripSchemaIDs removes id and $id so resolution does not depend on them.
func stripSchemaIDs(schemaMap map[string]any) {
	walkSchema(schemaMap, func(n map[string]any) {
		delete(n, "id")
		delete(n, "$id")
	})
}
