package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tmaxmax/ndex-exporters/internal/convert"
	"github.com/tmaxmax/ndex-exporters/internal/export"
)

const (
	cliName = "ndex-exporters"

	usageFlagVerbose = `Increases logging verbosity, can be repeated up to 3 times (-vvv).`

	cliDescription = `ndex-exporters converts networks in the NDEx CX format to other graph
formats. The CX document is read from standard input and the converted
document is written to standard output:

	ndex-exporters graphml < network.cx > network.graphml

Supported formats: %s
`
)

// Exit codes returned by Run.
const (
	ExitSuccess = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// Version is reported by --version.
var Version = "0.1.0"

// UsageError reports a problem with the command line itself.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

type CLI struct {
	cmd       *cobra.Command
	args      []string
	registry  *export.Registry
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	verbosity int
}

// New builds the command for the given arguments, which should exclude
// the program name. Input is read from stdin, the converted document goes
// to stdout, and logs and errors go to stderr.
func New(args []string, stdin io.Reader, stdout, stderr io.Writer) *CLI {
	// cobra falls back to os.Args on a nil slice.
	if args == nil {
		args = []string{}
	}
	c := &CLI{
		args:     args,
		registry: export.Default(),
		stdin:    stdin,
		stdout:   stdout,
		stderr:   stderr,
	}

	formats := c.registry.Formats()
	c.cmd = &cobra.Command{
		Use:           cliName + " <format>",
		Short:         "Convert NDEx CX networks to other graph formats",
		Long:          fmt.Sprintf(cliDescription, strings.Join(formats, ", ")),
		Version:       Version,
		ValidArgs:     formats,
		Args:          c.validateArgs,
		RunE:          c.run,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	c.cmd.Flags().CountVarP(&c.verbosity, "verbose", "v", usageFlagVerbose)
	c.cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})
	c.cmd.SetArgs(args)
	c.cmd.SetIn(stdin)
	c.cmd.SetOut(stdout)
	c.cmd.SetErr(stderr)

	return c
}

func (c *CLI) validateArgs(_ *cobra.Command, args []string) error {
	switch len(args) {
	case 0:
		return &UsageError{Err: errors.New("missing format argument")}
	case 1:
	default:
		return &UsageError{Err: errors.Errorf("expected exactly one format argument, got %d", len(args))}
	}

	if _, err := c.registry.Lookup(args[0]); err != nil {
		return &UsageError{Err: err}
	}
	return nil
}

// rejectCompletion fails on arguments that cobra would route to its
// hidden shell completion commands. Such arguments are never formats.
func (c *CLI) rejectCompletion() error {
	for _, arg := range c.args {
		if strings.HasPrefix(arg, cobra.ShellCompRequestCmd) {
			_, err := c.registry.Lookup(arg)
			return &UsageError{Err: err}
		}
	}
	return nil
}

func (c *CLI) run(cmd *cobra.Command, args []string) error {
	logger := newLogger(c.stderr, c.verbosity)
	defer func() { _ = logger.Sync() }()

	logger.Debug("exporter selected", zap.String("format", args[0]))

	conv, err := convert.New(c.registry, args[0], convert.WithLogger(logger))
	if err != nil {
		return &UsageError{Err: err}
	}

	return conv.Convert(cmd.Context(), c.stdin, c.stdout)
}

// Run executes the command and returns the process exit code.
func (c *CLI) Run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := c.rejectCompletion()
	if err == nil {
		err = c.cmd.ExecuteContext(ctx)
	}
	if err == nil {
		return ExitSuccess
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(c.stderr, "%s: %v\n\n%s", cliName, err, c.cmd.UsageString())
		return ExitUsage
	}

	fmt.Fprintf(c.stderr, "%s: %v\n", cliName, err)
	return ExitFailure
}
