// Package convert runs a single CX conversion: decode the whole input,
// then hand the graph to an exporter.
package convert

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tmaxmax/ndex-exporters/internal/cx"
	"github.com/tmaxmax/ndex-exporters/internal/export"
)

// Stage names the step of a conversion that failed.
type Stage string

const (
	StageDeserialize Stage = "deserialize"
	StageSerialize   Stage = "serialize"
)

// StageError wraps the failure of a conversion stage. The underlying error
// is kept as is.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return string(e.Stage) + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error { return e.Err }

// Cause lets errors.Cause from github.com/pkg/errors see through the stage.
func (e *StageError) Cause() error { return e.Err }

type Converter struct {
	format   string
	exporter export.Exporter
	logger   *zap.Logger
}

type Option func(*Converter)

func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a converter writing the given format, looked up in r.
func New(r *export.Registry, format string, opts ...Option) (*Converter, error) {
	e, err := r.Lookup(format)
	if err != nil {
		return nil, err
	}

	c := &Converter{format: format, exporter: e, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Convert reads a CX document from r and writes it to w. Nothing is
// written if the input cannot be decoded. If the export fails, what was
// already flushed to w stays there.
func (c *Converter) Convert(ctx context.Context, r io.Reader, w io.Writer) error {
	log := c.logger.With(zap.String("format", c.format))

	log.Info("reading cx document")
	g, err := cx.Decode(r, cx.WithLogger(log))
	if err != nil {
		return &StageError{Stage: StageDeserialize, Err: err}
	}

	if err = ctx.Err(); err != nil {
		return errors.Wrap(err, "conversion cancelled")
	}

	log.Info("writing graph", zap.Int("nodes", len(g.Nodes())), zap.Int("edges", len(g.Edges())))
	if err = c.exporter.Export(w, g); err != nil {
		return &StageError{Stage: StageSerialize, Err: err}
	}

	log.Info("conversion done")
	return nil
}
