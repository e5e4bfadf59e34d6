package orion

import (
	"os"
	"sync"
)

// EnvAPIKey is the environment variable consulted when no key was set
// explicitly.
const EnvAPIKey = "ORION_API_KEY"

var (
	keyMu      sync.RWMutex
	defaultKey string
)

// SetDefaultKey sets the process-wide Orion API key used by clients that were
// not given one explicitly. Call it once during setup, before agents run.
func SetDefaultKey(key string) {
	keyMu.Lock()
	defer keyMu.Unlock()
	defaultKey = key
}

// resolveKey returns the explicit key if non-empty, then the process default,
// then the ORION_API_KEY environment variable.
func resolveKey(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	keyMu.RLock()
	key := defaultKey
	keyMu.RUnlock()
	if key != "" {
		return key, nil
	}
	if key := os.Getenv(EnvAPIKey); key != "" {
		return key, nil
	}
	return "", ErrMissingAPIKey
}
