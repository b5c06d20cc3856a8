package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/snowymage/snowymage"
	"github.com/snowymage/snowymage/config"
	"github.com/snowymage/snowymage/sni"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

var logFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "print a message as each phase starts",
	},
	&cli.BoolFlag{
		Name:    "debug",
		Aliases: []string{"d"},
		Usage:   "print debugging messages",
	},
	&cli.BoolFlag{
		Name:    "quiet",
		Aliases: []string{"q"},
		Usage:   "print nothing",
	},
}

// logLevel picks the verbosity from the command line switches, falling back
// to the configured level when none is given.
func logLevel(quiet, verbose, debug bool, configured sni.Verbosity) (sni.Verbosity, error) {
	if quiet {
		if verbose || debug {
			return sni.VerbosityQuiet, errors.New("--quiet cannot be combined with --verbose or --debug")
		}
		return sni.VerbosityQuiet, nil
	}

	switch {
	case debug:
		return sni.VerbosityDebug, nil
	case verbose:
		return sni.VerbosityInfo, nil
	}
	return configured, nil
}

// parseMetadata checks a --metadata value is a valid flags byte.
func parseMetadata(m int) (sni.Flags, error) {
	if m < 0 || m > 255 {
		return 0, fmt.Errorf("%w: %d is not a byte", sni.ErrInvalidMetadata, m)
	}
	f := sni.Flags(m)
	if !f.Valid() {
		return 0, fmt.Errorf("%w: %s", sni.ErrInvalidMetadata, f)
	}
	return f, nil
}

// intFlag returns the value of the named flag, or nil if it was not given.
func intFlag(c *cli.Context, name string) *int {
	if !c.IsSet(name) {
		return nil
	}
	v := c.Int(name)
	return &v
}

func stringFlag(c *cli.Context, name string) *string {
	if !c.IsSet(name) {
		return nil
	}
	v := c.String(name)
	return &v
}

// conversionOptions merges the configuration with the command line; a flag
// that was given wins.
func conversionOptions(cfg *config.Config, overwrite bool, colors *int) (*snowymage.Options, error) {
	o := &snowymage.Options{
		Colors:    cfg.Colors,
		Overwrite: cfg.Overwrite || overwrite,
	}

	if colors != nil {
		o.Colors = *colors
	}
	if o.Colors < 0 || o.Colors > sni.MaxColors {
		return nil, fmt.Errorf("%w: %d", sni.ErrInvalidColors, o.Colors)
	}

	return o, nil
}

func workerCount(cfg *config.Config, workers *int) (int, error) {
	n := cfg.Workers
	if workers != nil {
		n = *workers
	}
	if n < 1 {
		return 0, fmt.Errorf("workers must be at least 1, got %d", n)
	}
	return n, nil
}

// dbPath returns the cache database to use, or "" for none.
func dbPath(cfg *config.Config, db *string) string {
	if db != nil {
		return *db
	}
	return cfg.DB
}

func setup(c *cli.Context) (*config.Config, *sni.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, err
	}

	v, err := logLevel(c.Bool("quiet"), c.Bool("verbose"), c.Bool("debug"), cfg.Level())
	if err != nil {
		return nil, nil, err
	}

	logger := log.New(io.Discard, "", 0)
	if v != sni.VerbosityQuiet {
		logger.SetOutput(os.Stderr)
	}

	return cfg, sni.NewLogger(logger, v), nil
}

func openDB(c *cli.Context, cfg *config.Config) (*snowymage.DB, error) {
	file := dbPath(cfg, stringFlag(c, "db"))
	if file == "" {
		return nil, nil
	}
	return snowymage.NewDB(file)
}

// fail reports err through the exit code only when running quietly.
func fail(logger *sni.Logger, err error) error {
	if logger.Verbosity() == sni.VerbosityQuiet {
		return cli.NewExitError("", 1)
	}
	return cli.NewExitError(err, 1)
}

func main() {
	app := cli.NewApp()

	app.Name = "snowymage"
	app.Usage = "SNI image conversion utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"SNOWYMAGE_DB"},
			Usage:   "path to encoding cache database",
		},
		&cli.StringFlag{
			Name:    "config",
			EnvVars: []string{"SNOWYMAGE_CONFIG"},
			Usage:   "path to configuration file",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "to-sni",
			Usage:       "Convert a PNG or SNI file to SNI",
			Description: "Without --metadata every encoding is tried and the smallest is kept.",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:     "input",
					Aliases:  []string{"i"},
					Usage:    "input file",
					Required: true,
				},
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "output file, defaults to the input with .sni appended",
				},
				&cli.IntFlag{
					Name:    "metadata",
					Aliases: []string{"m"},
					Usage:   "flags byte selecting the encoding",
				},
				&cli.IntFlag{
					Name:    "colors",
					Aliases: []string{"c"},
					Usage:   "quantize to at most this many colors",
				},
				&cli.BoolFlag{
					Name:    "overwrite",
					Aliases: []string{"f"},
					Usage:   "replace an existing output file",
				},
			}, logFlags...),
			Action: func(c *cli.Context) error {
				var flags *sni.Flags
				if m := intFlag(c, "metadata"); m != nil {
					f, err := parseMetadata(*m)
					if err != nil {
						return cli.NewExitError(err, 1)
					}
					flags = &f
				}

				cfg, logger, err := setup(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				o, err := conversionOptions(cfg, c.Bool("overwrite"), intFlag(c, "colors"))
				if err != nil {
					return fail(logger, err)
				}
				o.Flags = flags

				db, err := openDB(c, cfg)
				if err != nil {
					return fail(logger, err)
				}
				if db != nil {
					defer db.Close()
				}

				if err := snowymage.New(db, logger).ToSNI(c.String("input"), c.String("output"), o); err != nil {
					return fail(logger, err)
				}

				return nil
			},
		},
		{
			Name:  "to-png",
			Usage: "Convert an SNI file to PNG",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:     "input",
					Aliases:  []string{"i"},
					Usage:    "input file",
					Required: true,
				},
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "output file, defaults to the input with .png appended",
				},
				&cli.BoolFlag{
					Name:    "overwrite",
					Aliases: []string{"f"},
					Usage:   "replace an existing output file",
				},
			}, logFlags...),
			Action: func(c *cli.Context) error {
				cfg, logger, err := setup(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				o := &snowymage.Options{
					Overwrite: cfg.Overwrite || c.Bool("overwrite"),
				}

				if err := snowymage.New(nil, logger).ToPNG(c.String("input"), c.String("output"), o); err != nil {
					return fail(logger, err)
				}

				return nil
			},
		},
		{
			Name:        "batch",
			Usage:       "Convert every PNG file under a directory to SNI",
			Description: "Hidden files and directories are skipped.",
			ArgsUsage:   "DIRECTORY",
			Flags: append([]cli.Flag{
				&cli.IntFlag{
					Name:    "workers",
					Aliases: []string{"w"},
					Usage:   "number of concurrent conversions",
				},
				&cli.IntFlag{
					Name:    "colors",
					Aliases: []string{"c"},
					Usage:   "quantize to at most this many colors",
				},
				&cli.BoolFlag{
					Name:    "overwrite",
					Aliases: []string{"f"},
					Usage:   "replace existing output files",
				},
			}, logFlags...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				cfg, logger, err := setup(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				o, err := conversionOptions(cfg, c.Bool("overwrite"), intFlag(c, "colors"))
				if err != nil {
					return fail(logger, err)
				}

				workers, err := workerCount(cfg, intFlag(c, "workers"))
				if err != nil {
					return fail(logger, err)
				}

				db, err := openDB(c, cfg)
				if err != nil {
					return fail(logger, err)
				}
				if db != nil {
					defer db.Close()
				}

				if err := snowymage.New(db, logger).Batch(c.Args().First(), o, workers); err != nil {
					return fail(logger, err)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
