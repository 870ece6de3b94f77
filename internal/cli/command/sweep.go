package command

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/nsremover/internal/cli/output"
)

// SweepCommand returns the sweep command.
func SweepCommand() *cli.Command {
	return &cli.Command{
		Name:  "sweep",
		Usage: "Delete every record under the server's registered namespaces",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Do not ask for confirmation",
			},
		},
		Action: func(c *cli.Context) error {
			if !c.Bool("yes") {
				return cli.Exit("sweep deletes records permanently; re-run with --yes to confirm", 2)
			}

			var res invokeResult
			if err := NewClient(c).Invoke(c.Context, "DeleteState", nil, &res); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return Render(c, res)
		},
	}
}

func sweepTable(tallies []namespaceTally, sweepID string, total int, durationMS int64) *output.Table {
	t := output.NewTable("NAMESPACE", "DELETED", "SKIPPED")
	for _, n := range tallies {
		t.AddRow(n.Namespace, n.Deleted, n.Skipped)
	}
	t.Footer = []string{
		fmt.Sprintf("sweep %s deleted %d records in %s", sweepID, total, time.Duration(durationMS)*time.Millisecond),
	}
	return t
}
