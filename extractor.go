package orion

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/jsonschema-go/jsonschema"
)

// Extractor turns backend text into a validated instance of T. It bundles
// JSON Schema generation and validation with the three-strategy text cascade
// used for structured output: direct JSON parse, embedded-block parse, and a
// per-field key-value scan. An Extractor is stateless after construction and
// safe for concurrent use.
type Extractor[T any] struct {
	schema   *Schema
	resolved *jsonschema.Resolved
	scanners []fieldScanner
}

// fieldScanner holds the compiled match patterns for one declared field, in
// priority order. Compiled once at construction so extraction is pure and
// deterministic.
type fieldScanner struct {
	field    string
	patterns []*regexp.Regexp
}

// NewExtractor creates an Extractor for struct type T. When requireAll is
// true every field is marked required in the generated schema (tool
// parameters); otherwise required follows the json tags (output types).
func NewExtractor[T any](requireAll bool) (*Extractor[T], error) {
	_, resolved, err := generateSchema[T](requireAll)
	if err != nil {
		return nil, err
	}
	desc, err := describeStruct(reflect.TypeOf(*new(T)), requireAll)
	if err != nil {
		return nil, err
	}
	scanners := make([]fieldScanner, 0, len(desc.Fields))
	for _, f := range desc.Fields {
		scanners = append(scanners, fieldScanner{
			field:    f.Name,
			patterns: compileFieldPatterns(f.Name),
		})
	}
	return &Extractor[T]{
		schema:   desc,
		resolved: resolved,
		scanners: scanners,
	}, nil
}

// Schema returns the field manifest for T.
func (e *Extractor[T]) Schema() *Schema { return e.schema }

// Manifest returns the backend-facing field mapping for T.
func (e *Extractor[T]) Manifest() map[string]FieldManifest { return e.schema.Manifest() }

// ParseAndValidate deserializes data into T after validating it against the
// generated schema. Returns a ClientError for invalid JSON or validation
// failures so the message can be fed back to the backend for self-correction.
// If T implements Validatable, its Validate method runs after unmarshaling.
func (e *Extractor[T]) ParseAndValidate(data []byte) (T, error) {
	var zero T
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return zero, wrapJSONParseError(err)
	}
	if err := e.resolved.Validate(v); err != nil {
		return zero, &ClientError{Reason: err.Error(), Err: ErrValidation}
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return zero, wrapJSONParseError(err)
	}
	if err := validateCustom(out); err != nil {
		if IsClientError(err) {
			return zero, err
		}
		return zero, &ClientError{Reason: err.Error(), Err: ErrValidation}
	}
	return out, nil
}

// FromText runs the extraction cascade over raw model text: each strategy is
// a pure function tried in priority order, first success wins. If every
// strategy fails the result is an ExtractError carrying the original text and
// the last underlying failure. Identical text and schema always select the
// same strategy and produce the same value.
func (e *Extractor[T]) FromText(text string) (T, error) {
	strategies := []func(string) (T, error){
		e.parseDirect,
		e.parseEmbedded,
		e.scanKeyValues,
	}
	var lastErr error
	for _, strategy := range strategies {
		v, err := strategy(text)
		if err == nil {
			return v, nil
		}
		lastErr = err
	}
	var zero T
	return zero, &ExtractError{Text: text, Err: lastErr}
}

// parseDirect treats the entire text as a JSON document.
func (e *Extractor[T]) parseDirect(text string) (T, error) {
	return e.ParseAndValidate([]byte(text))
}

// parseEmbedded slices from the first '{' to the last '}' and parses that
// span. Simple first/last indexing, not balanced-bracket matching: it handles
// models that wrap one JSON object in prose.
func (e *Extractor[T]) parseEmbedded(text string) (T, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		var zero T
		return zero, fmt.Errorf("no embedded JSON object in text")
	}
	return e.ParseAndValidate([]byte(text[start : end+1]))
}

// scanKeyValues hunts for field: value pairs one declared field at a time,
// coerces what it captures, and builds the instance from whatever matched.
// Fields with no match are simply absent; validation decides whether the
// assembled mapping is enough.
func (e *Extractor[T]) scanKeyValues(text string) (T, error) {
	assembled := make(map[string]any)
	for _, sc := range e.scanners {
		for _, pattern := range sc.patterns {
			m := pattern.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			assembled[sc.field] = coerceScanned(strings.TrimSpace(m[1]))
			break
		}
	}
	data, err := json.Marshal(assembled)
	if err != nil {
		var zero T
		return zero, err
	}
	return e.ParseAndValidate(data)
}

// compileFieldPatterns builds the three match patterns for one field, in
// priority order: quoted JSON value, bare value up to comma or newline, and
// the same with the field name title-cased.
func compileFieldPatterns(field string) []*regexp.Regexp {
	quoted := regexp.QuoteMeta(field)
	return []*regexp.Regexp{
		regexp.MustCompile(`(?i)"` + quoted + `"\s*:\s*(".*?"|-?\d+(?:\.\d+)?|\[.*?\]|\{.*?\}|true|false|null)`),
		regexp.MustCompile(quoted + `\s*:\s*([^,\n]+)`),
		regexp.MustCompile(regexp.QuoteMeta(titleCase(field)) + `\s*:\s*([^,\n]+)`),
	}
}

// titleCase upper-cases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// coerceScanned converts one captured value: strip surrounding quotes for
// strings, true/false to bool, bracketed text as a JSON array falling back to
// a comma split, then integer, then float, else the raw string.
func coerceScanned(s string) any {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		var arr []any
		if err := json.Unmarshal([]byte(s), &arr); err == nil {
			return arr
		}
		return strings.Split(strings.Trim(s, "[]"), ",")
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// Extract is the package-level convenience form of the cascade: it builds an
// Extractor for T and runs FromText. Build the Extractor once instead when
// extracting repeatedly with the same type.
func Extract[T any](text string) (T, error) {
	ext, err := NewExtractor[T](false)
	if err != nil {
		var zero T
		return zero, err
	}
	return ext.FromText(text)
}

// Validatable is implemented by argument or output structs that need custom
// checks beyond the schema. Validate runs after schema validation and
// unmarshaling.
type Validatable interface {
	Validate() error
}

// validateCustom runs Validatable on v; for value types it also tries the
// pointer so pointer-receiver implementations are honored, without ever
// calling Validate twice for the same receiver.
func validateCustom(v any) error {
	if val, ok := v.(Validatable); ok {
		return val.Validate()
	}
	typ := reflect.TypeOf(v)
	if typ == nil || typ.Kind() == reflect.Pointer {
		return nil
	}
	ptr := reflect.New(typ)
	ptr.Elem().Set(reflect.ValueOf(v))
	if val, ok := ptr.Interface().(Validatable); ok {
		return val.Validate()
	}
	return nil
}
