package orion

// OutputType binds a Go struct type to the output_schema payload fragment and
// a typed extraction function. Build one with OutputTypeFor and attach it to
// an analyst or supervisor via WithOutputType.
type OutputType struct {
	name     string
	manifest map[string]FieldManifest
	extract  func(text string) (any, error)
}

// Name returns the Go type name of the output struct.
func (o *OutputType) Name() string { return o.name }

// OutputTypeFor builds the OutputType for struct type T. The extraction
// closure runs the full text cascade and returns the concrete T, so
// ResultAs[T] recovers the typed value from a Result.
func OutputTypeFor[T any]() (*OutputType, error) {
	ext, err := NewExtractor[T](false)
	if err != nil {
		return nil, err
	}
	return &OutputType{
		name:     ext.Schema().Name,
		manifest: ext.Manifest(),
		extract: func(text string) (any, error) {
			v, err := ext.FromText(text)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	}, nil
}

// MustOutputTypeFor is OutputTypeFor that panics on error. Intended for setup
// code where the type is known good.
func MustOutputTypeFor[T any]() *OutputType {
	ot, err := OutputTypeFor[T]()
	if err != nil {
		panic(err)
	}
	return ot
}
