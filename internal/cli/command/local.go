package command

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/nsremover/internal/cli/output"
	"github.com/yndnr/nsremover/internal/core/domain"
	"github.com/yndnr/nsremover/internal/core/service"
	"github.com/yndnr/nsremover/internal/storage"
	"github.com/yndnr/nsremover/pkg/compositekey"
)

// LocalCommand returns the local command group, which works on a ledger
// directory without a server.
func LocalCommand() *cli.Command {
	return &cli.Command{
		Name:  "local",
		Usage: "Operate on a ledger directory directly",
		Subcommands: []*cli.Command{
			localSweepCommand(),
			localSeedCommand(),
		},
	}
}

func ledgerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "engine",
			Usage:   "Storage engine: badger, bbolt",
			EnvVars: []string{"NSREMOVER_STORAGE__ENGINE"},
			Value:   storage.EngineBadger,
		},
		&cli.StringFlag{
			Name:     "data-dir",
			Aliases:  []string{"d"},
			Usage:    "Ledger directory",
			EnvVars:  []string{"NSREMOVER_STORAGE__DATA_DIR"},
			Required: true,
		},
		&cli.StringSliceFlag{
			Name:     "namespace",
			Aliases:  []string{"n"},
			Usage:    "Namespace to operate on (repeatable)",
			Required: true,
		},
	}
}

func openLedger(c *cli.Context) (storage.Ledger, error) {
	cfg := storage.DefaultKVConfig(c.String("data-dir"))
	cfg.Engine = c.String("engine")
	if cfg.Engine == storage.EngineMemory {
		return nil, cli.Exit("the memory engine holds nothing between runs; use badger or bbolt", 2)
	}

	ledger, err := storage.Open(cfg, commandLogger(c))
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("open ledger: %v", err), 1)
	}
	return ledger, nil
}

type localSweepResult struct {
	SweepID        string                  `json:"sweep_id" yaml:"sweep_id"`
	Engine         string                  `json:"engine" yaml:"engine"`
	DataDir        string                  `json:"data_dir" yaml:"data_dir"`
	RecordsDeleted int                     `json:"records_deleted" yaml:"records_deleted"`
	RecordsSkipped int                     `json:"records_skipped" yaml:"records_skipped"`
	DurationMS     int64                   `json:"duration_ms" yaml:"duration_ms"`
	Namespaces     []domain.NamespaceTally `json:"namespaces" yaml:"namespaces"`
}

func newLocalSweepResult(c *cli.Context, res *domain.SweepResult) localSweepResult {
	return localSweepResult{
		SweepID:        res.ID,
		Engine:         c.String("engine"),
		DataDir:        c.String("data-dir"),
		RecordsDeleted: res.Total(),
		RecordsSkipped: res.TotalSkipped(),
		DurationMS:     res.Duration.Milliseconds(),
		Namespaces:     res.Namespaces,
	}
}

func (r localSweepResult) Table() *output.Table {
	tallies := make([]namespaceTally, 0, len(r.Namespaces))
	for _, n := range r.Namespaces {
		tallies = append(tallies, namespaceTally{Namespace: string(n.Namespace), Deleted: n.Deleted, Skipped: n.Skipped})
	}
	return sweepTable(tallies, r.SweepID, r.RecordsDeleted, r.DurationMS)
}

func localSweepCommand() *cli.Command {
	return &cli.Command{
		Name:  "sweep",
		Usage: "Delete every record under the given namespaces",
		Flags: append(ledgerFlags(), &cli.BoolFlag{
			Name:    "yes",
			Aliases: []string{"y"},
			Usage:   "Do not ask for confirmation",
		}),
		Action: func(c *cli.Context) (err error) {
			if !c.Bool("yes") {
				return cli.Exit("sweep deletes records permanently; re-run with --yes to confirm", 2)
			}

			registry := service.NewRegistry()
			if err := registry.Initialize(c.StringSlice("namespace")); err != nil {
				return cli.Exit(err.Error(), 2)
			}

			ledger, err := openLedger(c)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := ledger.Close(); cerr != nil && err == nil {
					err = cli.Exit(fmt.Sprintf("close ledger: %v", cerr), 1)
				}
			}()

			sweeper := service.NewSweeper(registry, service.WithSweeperLogger(commandLogger(c)))
			result, err := sweeper.Sweep(c.Context, ledger)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			return Render(c, newLocalSweepResult(c, result))
		},
	}
}

type seedResult struct {
	Namespace  string `json:"namespace" yaml:"namespace"`
	Scoped     int    `json:"scoped" yaml:"scoped"`
	Bare       int    `json:"bare" yaml:"bare"`
	Tombstones int    `json:"tombstones" yaml:"tombstones"`
}

type seedResults []seedResult

func (s seedResults) Table() *output.Table {
	t := output.NewTable("NAMESPACE", "SCOPED", "BARE", "TOMBSTONES")
	for _, r := range s {
		t.AddRow(r.Namespace, r.Scoped, r.Bare, r.Tombstones)
	}
	return t
}

// localSeedCommand writes drill data: count scoped records per namespace,
// the same number of bare keys "<ns><i>" that a sweep must leave alone, and
// optionally some empty-valued scoped records.
func localSeedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Write scoped and bare records for sweep drills",
		Flags: append(ledgerFlags(),
			&cli.IntFlag{
				Name:  "count",
				Usage: "Scoped records per namespace",
				Value: 10,
			},
			&cli.BoolFlag{
				Name:  "bare",
				Usage: "Also write one bare record per scoped record",
				Value: true,
			},
			&cli.IntFlag{
				Name:  "tombstones",
				Usage: "Empty-valued scoped records per namespace",
			},
		),
		Action: func(c *cli.Context) (err error) {
			count, tombstones := c.Int("count"), c.Int("tombstones")
			if count < 0 || tombstones < 0 {
				return cli.Exit("--count and --tombstones must not be negative", 2)
			}

			namespaces := c.StringSlice("namespace")
			for _, ns := range namespaces {
				if err := domain.Namespace(ns).Validate(); err != nil {
					return cli.Exit(err.Error(), 2)
				}
			}

			ledger, err := openLedger(c)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := ledger.Close(); cerr != nil && err == nil {
					err = cli.Exit(fmt.Sprintf("close ledger: %v", cerr), 1)
				}
			}()

			results := make(seedResults, 0, len(namespaces))
			for _, ns := range namespaces {
				res, err := seedNamespace(c, ledger, ns, count, tombstones, c.Bool("bare"))
				if err != nil {
					return cli.Exit(fmt.Sprintf("seed %q: %v", ns, err), 1)
				}
				results = append(results, res)
			}
			return Render(c, results)
		},
	}
}

func seedNamespace(c *cli.Context, ledger storage.Ledger, ns string, count, tombstones int, bare bool) (seedResult, error) {
	res := seedResult{Namespace: ns}

	for i := 0; i < count; i++ {
		attr := strconv.Itoa(i)
		key, err := compositekey.Create(ns, attr)
		if err != nil {
			return res, err
		}
		if err := ledger.Set(c.Context, key, []byte("value-"+attr)); err != nil {
			return res, err
		}
		res.Scoped++

		if bare {
			if err := ledger.Set(c.Context, []byte(ns+attr), []byte("bare-"+attr)); err != nil {
				return res, err
			}
			res.Bare++
		}
	}

	for i := 0; i < tombstones; i++ {
		key, err := compositekey.Create(ns, "tombstone", strconv.Itoa(i))
		if err != nil {
			return res, err
		}
		if err := ledger.Set(c.Context, key, nil); err != nil {
			return res, err
		}
		res.Tombstones++
	}
	return res, nil
}
