// Package export maps output format names to the exporters that write them.
package export

import (
	"io"
	"sort"

	"github.com/pkg/errors"

	"github.com/tmaxmax/ndex-exporters/internal/graph"
)

// GraphML is the name of the GraphML format.
const GraphML = "graphml"

var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrDuplicateFormat   = errors.New("format already registered")
)

// An Exporter writes a graph to w in some format.
type Exporter interface {
	Export(w io.Writer, g *graph.Graph) error
}

// ExporterFunc adapts a function to the Exporter interface.
type ExporterFunc func(w io.Writer, g *graph.Graph) error

func (f ExporterFunc) Export(w io.Writer, g *graph.Graph) error {
	return f(w, g)
}

// Registry holds the exporters by format name. Format names are case-sensitive.
// A Registry is not safe for concurrent registration.
type Registry struct {
	exporters map[string]Exporter
}

func NewRegistry() *Registry {
	return &Registry{exporters: make(map[string]Exporter)}
}

// Default returns a registry with every format this module can write.
func Default() *Registry {
	r := NewRegistry()
	_ = r.Register(GraphML, ExporterFunc(graph.NewPrinter().Print))
	return r
}

func (r *Registry) Register(name string, e Exporter) error {
	if _, ok := r.exporters[name]; ok {
		return errors.Wrapf(ErrDuplicateFormat, "%q", name)
	}
	r.exporters[name] = e
	return nil
}

func (r *Registry) Lookup(name string) (Exporter, error) {
	e, ok := r.exporters[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", name)
	}
	return e, nil
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.exporters))
	for name := range r.exporters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
