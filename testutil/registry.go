package testutil

import (
	"time"

	orion "github.com/itvalley/orion-go"
)

// NewTestRegistry returns a Registry with a long timeout and panic recovery
// enabled, suitable for tests.
func NewTestRegistry(tools ...orion.Tool) *orion.Registry {
	reg := orion.NewRegistry(
		orion.WithDefaultTimeout(30*time.Second),
		orion.WithRecoverPanics(true),
	)
	for _, t := range tools {
		reg.Register(t)
	}
	return reg
}
