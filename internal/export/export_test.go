package export_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmaxmax/ndex-exporters/internal/export"
	"github.com/tmaxmax/ndex-exporters/internal/graph"
)

func TestDefaultRegistry(t *testing.T) {
	r := export.Default()
	assert.Equal(t, []string{export.GraphML}, r.Formats())

	e, err := r.Lookup("graphml")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, e.Export(&buf, graph.New()))
	assert.Contains(t, buf.String(), `<graph edgedefault="directed" id="unknown">`)
}

func TestLookupIsCaseSensitive(t *testing.T) {
	r := export.Default()
	for _, name := range []string{"GraphML", "xml", ""} {
		_, err := r.Lookup(name)
		assert.ErrorIs(t, err, export.ErrUnsupportedFormat, name)
	}
}

func TestRegister(t *testing.T) {
	r := export.NewRegistry()
	count := export.ExporterFunc(func(w io.Writer, g *graph.Graph) error {
		_, err := io.WriteString(w, "nodes")
		return err
	})

	require.NoError(t, r.Register("count", count))
	require.NoError(t, r.Register("another", count))
	assert.ErrorIs(t, r.Register("count", count), export.ErrDuplicateFormat)
	assert.Equal(t, []string{"another", "count"}, r.Formats())

	e, err := r.Lookup("count")
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, e.Export(&buf, graph.New()))
	assert.Equal(t, "nodes", buf.String())
}
