package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/nsremover/internal/cli/output"
)

// invokeResult mirrors the data of a successful invocation.
type invokeResult struct {
	Operation      string           `json:"operation" yaml:"operation"`
	Status         int              `json:"status" yaml:"status"`
	Payload        string           `json:"payload" yaml:"payload"`
	RecordsDeleted *int             `json:"records_deleted,omitempty" yaml:"records_deleted,omitempty"`
	RecordsSkipped *int             `json:"records_skipped,omitempty" yaml:"records_skipped,omitempty"`
	SweepID        string           `json:"sweep_id,omitempty" yaml:"sweep_id,omitempty"`
	DurationMS     int64            `json:"duration_ms,omitempty" yaml:"duration_ms,omitempty"`
	Namespaces     []namespaceTally `json:"namespaces,omitempty" yaml:"namespaces,omitempty"`
}

type namespaceTally struct {
	Namespace string `json:"namespace" yaml:"namespace"`
	Deleted   int    `json:"deleted" yaml:"deleted"`
	Skipped   int    `json:"skipped" yaml:"skipped"`
}

func (r invokeResult) Table() *output.Table {
	if r.RecordsDeleted == nil {
		t := output.NewTable("OPERATION", "STATUS", "PAYLOAD")
		t.AddRow(r.Operation, r.Status, r.Payload)
		return t
	}
	return sweepTable(r.Namespaces, r.SweepID, *r.RecordsDeleted, r.DurationMS)
}

// PingCommand returns the ping command.
func PingCommand() *cli.Command {
	return &cli.Command{
		Name:  "ping",
		Usage: "Check that the server answers invocations",
		Action: func(c *cli.Context) error {
			var res invokeResult
			if err := NewClient(c).Invoke(c.Context, "Ping", nil, &res); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return Render(c, res)
		},
	}
}
