package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/espalier-dev/espalier/pkg/domain"
)

func TestLoader(t *testing.T) {
	g := domain.NewGraph(nil, nil, nil, nil, nil)
	l := NewLoader(g, "fixture")

	assert.Equal(t, "fixture", l.Source())
	got, err := l.Load()
	require.NoError(t, err)
	assert.Same(t, g, got)
}

func TestLoaderDefaults(t *testing.T) {
	l := NewLoader(nil, "")
	assert.Equal(t, "memory", l.Source())

	_, err := l.Load()
	require.Error(t, err)
}
