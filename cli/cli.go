package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/perfgo/jsbench/catalog"
	"github.com/perfgo/jsbench/engine/gojavm"
	"github.com/perfgo/jsbench/measure"
	"github.com/perfgo/jsbench/model"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const AppName = "jsbench"

// Suite label used for manifest-driven runs unless --suite is given
const defaultManifestSuite = "sunspider_kraken"

type App struct {
	logger zerolog.Logger
	cli    *cli.App
	// Destination for script output, tables and listings
	out io.Writer
}

func New() *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		})

	app := &App{
		logger: logger,
		out:    os.Stdout,
		cli: &cli.App{
			Name:  AppName,
			Usage: "Measure JavaScript benchmark scripts in an embedded engine",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "verbose",
					Usage: "Enable verbose (debug) logging",
				},
				&cli.StringFlag{
					Name:  "results-dir",
					Usage: "Directory receiving one subdirectory of reports per VM label",
					Value: "Results",
				},
			},
			Before: func(ctx *cli.Context) error {
				if ctx.Bool("verbose") {
					zerolog.SetGlobalLevel(zerolog.DebugLevel)
				}
				return nil
			},
		},
	}
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:      "octane",
		Usage:     "Run the static Octane list (or a YAML suite file)",
		ArgsUsage: "[VM]",
		Action:    app.octane,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  "suite-dir",
				Usage: "Directory the suite paths are relative to",
				Value: ".",
			},
			&cli.StringFlag{
				Name:  "suite-file",
				Usage: "YAML suite file replacing the built-in Octane list",
			},
		}, runFlags()...),
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:      "manifest",
		Usage:     "Run the tests listed in <DIR>/LIST, each as a data and a main script",
		ArgsUsage: "<DIR> [FILTER] [VM]",
		Action:    app.manifest,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  "suite",
				Usage: "Suite label used for the report file names",
				Value: defaultManifestSuite,
			},
		}, runFlags()...),
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "list",
		Usage:  "List the latest run of every suite and VM label",
		Description: `Reports and run records are named after the suite and stored per VM
label, so a new run of the same suite and VM replaces the previous one.
Use a different VM label to keep runs side by side.`,
		Action: app.list,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "vm",
				Usage: "Only list runs of this VM label",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Limit number of results (default: 20)",
				Value:   20,
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:            "view",
		Usage:           "View benchmark results from history",
		ArgsUsage:       "[ID|INDEX] [-- pprof args]",
		Action:          app.view,
		SkipFlagParsing: true,
		Description: `View benchmark results from history.

Arguments:
  0           View last run (default)
  -1          View 2nd last run
  -2          View 3rd last run
  <hex-id>    View run matching the ID prefix

Examples:
  jsbench view                 # Summary and results table of the last run
  jsbench view -1              # Same for the 2nd last run
  jsbench view abc123          # Run with ID starting with abc123
  jsbench view 0 -- -top       # Open the run profile with go tool pprof`,
	})
	return app
}

// runFlags are shared by the commands that execute a suite.
func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:  "max-source-bytes",
			Usage: "Reject script sources larger than this",
			Value: measure.DefaultMaxSourceBytes,
		},
		&cli.IntFlag{
			Name:  "stack-size",
			Usage: "Maximum JavaScript call stack depth (0 for unlimited)",
			Value: gojavm.DefaultMaxCallStackSize,
		},
		&cli.BoolFlag{
			Name:  "pprof",
			Usage: "Write a pprof profile with one sample per measured test",
			Value: true,
		},
		&cli.StringFlag{
			Name:  "prom-textfile",
			Usage: "Write per-test metrics to this Prometheus textfile",
		},
	}
}

func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if commit != "none" && len(commit) >= 8 {
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit[:8], date)
	}
}

func (a *App) octane(ctx *cli.Context) error {
	vm := gojavm.EngineName
	if ctx.Args().Len() > 0 {
		vm = ctx.Args().First()
	}

	suiteDir := ctx.String("suite-dir")
	cat := catalog.Octane(suiteDir)
	if path := ctx.String("suite-file"); path != "" {
		suite, err := catalog.LoadSuite(path)
		if err != nil {
			a.logger.Error().Err(err).Msg("Failed to load suite")
			return err
		}
		cat = suite.Catalog(suiteDir)
	}

	return a.runSuite(ctx, model.HistoryTypeStatic, cat, suiteDir, vm)
}

func (a *App) manifest(ctx *cli.Context) error {
	if ctx.Args().Len() < 1 {
		return fmt.Errorf("no benchmark directory specified: usage %s manifest <DIR> [FILTER] [VM]", AppName)
	}
	dir := ctx.Args().Get(0)
	filter := ctx.Args().Get(1)
	vm := gojavm.EngineName
	if ctx.Args().Len() >= 3 {
		vm = ctx.Args().Get(2)
	}

	cat, err := catalog.FromManifest(a.logger, ctx.String("suite"), filepath.Clean(dir), filter, catalog.DefaultClassifier)
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to load manifest")
		return err
	}
	if cat.Len() == 0 {
		a.logger.Warn().Str("dir", dir).Str("filter", filter).Msg("No tests selected")
	}

	return a.runSuite(ctx, model.HistoryTypeManifest, cat, dir, vm)
}
