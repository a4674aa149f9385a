package assert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type source struct{}

func TestNotNil(t *testing.T) {
	var typedNil *source
	var api interface{ Snapshot() }

	require.PanicsWithValue(t, "source must not be nil", func() {
		NotNil(nil, "source")
	})
	require.PanicsWithValue(t, "source must not be nil (*assert.source)", func() {
		NotNil(typedNil, "source")
	})
	require.Panics(t, func() {
		NotNil(api, "api")
	})
	require.NotPanics(t, func() {
		NotNil(&source{}, "source")
		NotNil(source{}, "source")
		NotNil(0, "zero")
	})
}
