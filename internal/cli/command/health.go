package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/nsremover/internal/cli/output"
	"github.com/yndnr/nsremover/internal/infra/buildinfo"
)

type healthResult struct {
	Status      string         `json:"status" yaml:"status"`
	Initialized bool           `json:"initialized" yaml:"initialized"`
	Namespaces  int            `json:"namespaces" yaml:"namespaces"`
	Time        string         `json:"time" yaml:"time"`
	Build       buildinfo.Info `json:"build" yaml:"build"`
}

func (h healthResult) Table() *output.Table {
	t := output.NewTable("STATUS", "INITIALIZED", "NAMESPACES", "VERSION")
	t.AddRow(h.Status, h.Initialized, h.Namespaces, h.Build.Version)
	return t
}

// HealthCommand returns the health command.
func HealthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "Show server health and build information",
		Action: func(c *cli.Context) error {
			var res healthResult
			if err := NewClient(c).Health(c.Context, &res); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			if err := Render(c, res); err != nil {
				return err
			}
			if !res.Initialized {
				return cli.Exit("server is not initialized", 1)
			}
			return nil
		},
	}
}
