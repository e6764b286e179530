//go:build unit || e2e

package testutil

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// DtoMap round-trips v through JSON and applies the mutations, producing a request body tests can bend.
func DtoMap(t *testing.T, v any, muts ...func(map[string]any)) map[string]any {
	t.Helper()

	raw, err := json.Marshal(v)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))

	for _, f := range muts {
		f(m)
	}
	return m
}

// Field sets a key, or deletes it when value is nil. Dotted keys reach into nested objects,
// e.g. "dropoffAddress.building".
func Field(key string, value any) func(m map[string]any) {
	return func(m map[string]any) {
		parts := strings.Split(key, ".")
		for _, p := range parts[:len(parts)-1] {
			next, ok := m[p].(map[string]any)
			if !ok {
				next = map[string]any{}
				m[p] = next
			}
			m = next
		}

		last := parts[len(parts)-1]
		if value == nil {
			delete(m, last)
			return
		}
		m[last] = value
	}
}
