package orion

import (
	"context"
	"encoding/json"
	"maps"
)

// funcTool is the Tool implementation built by NewTool.
type funcTool struct {
	name        string
	description string
	params      map[string]FieldManifest
	call        func(ctx context.Context, argsJSON json.RawMessage) (any, error)
}

// NewTool builds a Tool from a typed function. The parameter manifest and
// validation are derived from the argument struct T: field names follow json
// tags, descriptions come from description tags, and every parameter is
// required. Call validates the incoming JSON against that same schema before
// invoking fn, so the backend and the validator can never drift apart.
// Returns an error if schema generation fails (e.g. unsupported type).
func NewTool[T any, R any](
	name, description string,
	fn func(ctx context.Context, args T) (R, error),
) (Tool, error) {
	ext, err := NewExtractor[T](true)
	if err != nil {
		return nil, err
	}
	call := func(ctx context.Context, argsJSON json.RawMessage) (any, error) {
		args, err := ext.ParseAndValidate(argsJSON)
		if err != nil {
			return nil, err
		}
		return fn(ctx, args)
	}
	return &funcTool{
		name:        name,
		description: description,
		params:      ext.Manifest(),
		call:        call,
	}, nil
}

// MustTool is NewTool that panics on error. Intended for setup code.
func MustTool[T any, R any](
	name, description string,
	fn func(ctx context.Context, args T) (R, error),
) Tool {
	t, err := NewTool(name, description, fn)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *funcTool) Name() string        { return t.name }
func (t *funcTool) Description() string { return t.description }

// Parameters returns a copy of the field manifest; callers may not mutate the
// tool through it.
func (t *funcTool) Parameters() map[string]FieldManifest { return maps.Clone(t.params) }

func (t *funcTool) Call(ctx context.Context, argsJSON json.RawMessage) (any, error) {
	return t.call(ctx, argsJSON)
}

var _ Tool = (*funcTool)(nil)
