package cx

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tmaxmax/ndex-exporters/internal/graph"
)

// Network attribute holding the network name.
const nameAttribute = "name"

// Renamed node and edge fields.
const (
	keyName        = "name"
	keyRepresents  = "represents"
	keyEdgeID      = "key"
	keyInteraction = "interaction"
)

// A Decoder reads a CX document from an input stream.
type Decoder struct {
	r      io.Reader
	logger *zap.Logger
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger sets the logger used to report skipped input.
func WithLogger(l *zap.Logger) Option {
	return func(d *Decoder) {
		if l != nil {
			d.logger = l
		}
	}
}

func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	d := &Decoder{r: r, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode reads the whole input and builds the graph it describes.
// The input must hold exactly one JSON document.
func (d *Decoder) Decode() (*graph.Graph, error) {
	dec := json.NewDecoder(bufio.NewReader(d.r))

	var doc json.RawMessage
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, ErrEmpty
		}
		return nil, syntaxError(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return nil, errors.Wrap(ErrSyntax, "unexpected data after document")
		}
		return nil, syntaxError(err)
	}

	var a aspects
	if err := a.split(doc, d.logger); err != nil {
		return nil, err
	}
	d.logger.Info("read cx document",
		zap.Int("nodes", len(a.nodes)),
		zap.Int("edges", len(a.edges)),
		zap.Int("nodeAttributes", len(a.nodeAttrs)),
		zap.Int("edgeAttributes", len(a.edgeAttrs)),
		zap.Int("networkAttributes", len(a.netAttrs)),
	)

	return a.build(d.logger)
}

// Decode is a shorthand for NewDecoder(r, opts...).Decode().
func Decode(r io.Reader, opts ...Option) (*graph.Graph, error) {
	return NewDecoder(r, opts...).Decode()
}

func syntaxError(err error) error {
	var se *json.SyntaxError
	if errors.As(err, &se) {
		return errors.Wrapf(ErrSyntax, "%v (offset %d)", se, se.Offset)
	}
	if err == io.ErrUnexpectedEOF {
		return errors.Wrap(ErrSyntax, "unexpected end of input")
	}
	return errors.Wrap(err, "unable to read cx document")
}

func schemaError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrSchema, format, args...)
}

// split sorts the elements of the document's fragments by aspect.
func (a *aspects) split(doc json.RawMessage, logger *zap.Logger) error {
	switch bytes.TrimSpace(doc)[0] {
	case '[':
		var fragments []map[string]json.RawMessage
		if err := json.Unmarshal(doc, &fragments); err != nil {
			return schemaError("aspect fragments must be objects")
		}
		for i, f := range fragments {
			if err := a.addFragment(f, logger); err != nil {
				return errors.Wrapf(err, "fragment %d", i)
			}
		}
		return nil
	case '{':
		var f map[string]json.RawMessage
		if err := json.Unmarshal(doc, &f); err != nil {
			return schemaError("%v", err)
		}
		return a.addFragment(f, logger)
	default:
		return schemaError("document must be an array or an object")
	}
}

func (a *aspects) addFragment(f map[string]json.RawMessage, logger *zap.Logger) error {
	for _, name := range sortedKeys(f) {
		raw := f[name]

		var err error
		switch name {
		case AspectNodes:
			err = appendElements(raw, &a.nodes)
		case AspectEdges:
			err = appendElements(raw, &a.edges)
		case AspectNodeAttributes:
			err = appendElements(raw, &a.nodeAttrs)
		case AspectEdgeAttributes:
			err = appendElements(raw, &a.edgeAttrs)
		case AspectNetworkAttributes:
			err = appendElements(raw, &a.netAttrs)
		default:
			logger.Debug("skipping aspect", zap.String("aspect", name))
		}

		if err != nil {
			return errors.Wrapf(err, "aspect %s", name)
		}
	}
	return nil
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func appendElements[T any](raw json.RawMessage, dst *[]T) error {
	var elems []T
	if err := json.Unmarshal(raw, &elems); err != nil {
		var te *json.UnmarshalTypeError
		if errors.As(err, &te) {
			if te.Field == "" {
				return schemaError("must be a list of objects")
			}
			return schemaError("field %q cannot hold a %s", te.Field, te.Value)
		}
		return schemaError("%v", err)
	}
	*dst = append(*dst, elems...)
	return nil
}

// build creates the graph: nodes first, then edges, then attributes,
// so the order of aspects in the document does not matter.
func (a *aspects) build(logger *zap.Logger) (*graph.Graph, error) {
	g := graph.New()

	for i, n := range a.nodes {
		if n.ID == nil {
			return nil, schemaError("nodes[%d]: missing @id", i)
		}
		gn, err := g.AddNode(*n.ID)
		if err != nil {
			return nil, err
		}
		if n.Name != nil {
			gn.Attributes.Set(keyName, graph.StringValue(*n.Name))
		}
		if n.Represents != nil {
			gn.Attributes.Set(keyRepresents, graph.StringValue(*n.Represents))
		}
	}

	for i, e := range a.edges {
		switch {
		case e.Source == nil:
			return nil, schemaError("edges[%d]: missing s", i)
		case e.Target == nil:
			return nil, schemaError("edges[%d]: missing t", i)
		}
		if g.Adjacent(*e.Source, *e.Target) {
			logger.Debug("parallel edge", zap.Int64("source", *e.Source), zap.Int64("target", *e.Target))
		}
		ge, err := g.AddEdge(e.ID, *e.Source, *e.Target)
		if err != nil {
			return nil, err
		}
		if e.ID != nil {
			ge.Attributes.Set(keyEdgeID, graph.IntegerValue(*e.ID))
		}
		if e.Interaction != nil {
			ge.Attributes.Set(keyInteraction, graph.StringValue(*e.Interaction))
		}
	}

	for i, na := range a.netAttrs {
		if na.Name == nil {
			return nil, schemaError("networkAttributes[%d]: missing n", i)
		}
		v, err := toValue(na.Value, na.DataType)
		if err != nil {
			return nil, errors.Wrapf(err, "networkAttributes[%d]", i)
		}
		if *na.Name == nameAttribute {
			g.Name = v.Text
			continue
		}
		g.Attributes.Set(*na.Name, v)
	}

	err := attach(a.nodeAttrs, AspectNodeAttributes, logger, func(po int64) (*graph.Attributes, bool) {
		n, ok := g.Node(po)
		if !ok {
			return nil, false
		}
		return &n.Attributes, true
	})
	if err != nil {
		return nil, err
	}

	err = attach(a.edgeAttrs, AspectEdgeAttributes, logger, func(po int64) (*graph.Attributes, bool) {
		e, ok := g.Edge(po)
		if !ok {
			return nil, false
		}
		return &e.Attributes, true
	})
	if err != nil {
		return nil, err
	}

	return g, nil
}

// attach sets each attribute on the element its "po" field points to.
// Attributes of unknown elements are skipped.
func attach(attrs []attribute, aspect string, logger *zap.Logger, lookup func(int64) (*graph.Attributes, bool)) error {
	skipped := 0
	for i, attr := range attrs {
		switch {
		case attr.PropertyOf == nil:
			return schemaError("%s[%d]: missing po", aspect, i)
		case attr.Name == nil:
			return schemaError("%s[%d]: missing n", aspect, i)
		}

		target, ok := lookup(*attr.PropertyOf)
		if !ok {
			skipped++
			continue
		}

		v, err := toValue(attr.Value, attr.DataType)
		if err != nil {
			return errors.Wrapf(err, "%s[%d]", aspect, i)
		}
		target.Set(*attr.Name, v)
	}

	if skipped > 0 {
		logger.Debug("skipped attributes of unknown elements",
			zap.String("aspect", aspect),
			zap.Int("count", skipped),
		)
	}
	return nil
}
