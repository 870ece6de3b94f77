package command

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/nsremover/internal/cli/connection"
	"github.com/yndnr/nsremover/internal/cli/output"
	"github.com/yndnr/nsremover/internal/infra/buildinfo"
	"github.com/yndnr/nsremover/internal/telemetry/logger"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "nsremover-cli",
		Usage:   "Delete every record under a set of ledger namespaces",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			PingCommand(),
			HealthCommand(),
			SweepCommand(),
			LocalCommand(),
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "nsremover server address (e.g., localhost:7080)",
			EnvVars: []string{"NSREMOVER_SERVER"},
			Value:   "localhost:7080",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Request timeout",
			Value: connection.DefaultTimeout,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable verbose output",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Server  string
	Timeout time.Duration
	Output  string
	Verbose bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Server:  c.String("server"),
		Timeout: c.Duration("timeout"),
		Output:  c.String("output"),
		Verbose: c.Bool("verbose"),
	}
}

// NewClient returns an HTTP client for the configured server.
func NewClient(c *cli.Context) *connection.HTTPClient {
	flags := ParseGlobalFlags(c)
	return connection.NewHTTPClient(flags.Server, flags.Timeout)
}

// Render writes data to the app's writer in the selected format.
func Render(c *cli.Context, data any) error {
	format, err := output.ParseFormat(ParseGlobalFlags(c).Output)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	return output.NewFormatter(format).Format(c.App.Writer, data)
}

// commandLogger logs to the app's error writer. Warnings only unless
// --verbose is set.
func commandLogger(c *cli.Context) *slog.Logger {
	level := "warn"
	if ParseGlobalFlags(c).Verbose {
		level = "debug"
	}

	var w io.Writer = c.App.ErrWriter
	log, err := logger.New(logger.Config{Level: level, Format: "text", Output: w})
	if err != nil {
		return logger.Discard()
	}
	return log
}

// PrintError prints an error message to the app's error writer.
func PrintError(c *cli.Context, format string, args ...any) {
	fmt.Fprintf(c.App.ErrWriter, "error: "+format+"\n", args...)
}
