package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/stationcsv/internal/codemap"
	"github.com/JonMunkholm/stationcsv/internal/config"
	"github.com/JonMunkholm/stationcsv/internal/core"
	"github.com/JonMunkholm/stationcsv/internal/logging"
	"github.com/JonMunkholm/stationcsv/internal/ticks"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	// Load .env file if it exists; variables already set in the environment win
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(exitFailure)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	// Ctrl-C stops the batch between files
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, cfg, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one invocation and returns the process exit code.
func run(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 && args[0] == "ticks" {
		return runTicks(args[1:], stdout, stderr)
	}

	cli, err := parseArgs(args, cfg.Convert, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "stationcsv: %v\n", err)
		return exitUsage
	}

	ctx = logging.ContextWithRunID(ctx, uuid.NewString())
	logger := logging.FromContext(ctx)

	delimiter, err := config.ParseDelimiter(cli.delimiter)
	if err != nil {
		logger.Error("invalid delimiter", "error", err)
		return exitFailure
	}

	mapping, err := codemap.Load(cli.codeMap)
	if err != nil {
		logger.Error("failed to load mapping", "error", err, "code", core.MapError(err).Code)
		return exitFailure
	}

	logger.Debug("mapping loaded",
		"path", cli.codeMap,
		"codes", len(mapping.Codes),
		"stations", len(mapping.Stations),
	)

	opts := core.DefaultOptions(mapping)
	opts.OutDir = cli.outDir
	opts.Rows = cli.rows
	opts.AllRows = cli.allRows
	opts.IncludeUnit = !cli.labelsOnly
	opts.ColPrefix = core.ColPrefix(cli.colPrefix)
	opts.FallbackVarID = cli.fallbackVarID
	opts.Delimiter = delimiter

	conv, err := core.NewConverter(opts)
	if err != nil {
		logger.Error("invalid options", "error", err, "code", core.MapError(err).Code)
		return exitFailure
	}

	summary, err := conv.ConvertPath(ctx, cli.input)
	if err != nil {
		msg := core.MapError(err)
		logger.Error("conversion failed",
			"input", cli.input,
			"error", err,
			"code", msg.Code,
			"hint", msg.Action,
		)
		return exitFailure
	}

	logger.Info("run finished",
		"input", cli.input,
		"converted", summary.Converted,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return exitOK
}

/* ----------------------------------------
	Argument parsing
---------------------------------------- */

type cliArgs struct {
	input         string
	outDir        string
	codeMap       string
	rows          int
	allRows       bool
	labelsOnly    bool
	colPrefix     string
	fallbackVarID bool
	delimiter     string
}

// parseArgs parses flags around a single positional input. Flags may appear
// before or after the input; defaults come from the environment config.
func parseArgs(args []string, defaults config.ConvertConfig, stderr io.Writer) (cliArgs, error) {
	cli := cliArgs{}

	fs := flag.NewFlagSet("stationcsv", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cli.outDir, "o", defaults.OutDir, "output directory (shorthand)")
	fs.StringVar(&cli.outDir, "out-dir", defaults.OutDir, "output directory; default is next to each input file")
	fs.StringVar(&cli.codeMap, "code-map", defaults.CodeMap, "path to the code/title mapping file (.json, .yaml)")
	fs.IntVar(&cli.rows, "rows", 0, "keep only the first N rows after filtering (0 keeps all)")
	fs.BoolVar(&cli.allRows, "all-rows", false, "keep every object row, not only rows with a valid datetime")
	fs.BoolVar(&cli.labelsOnly, "labels-only", false, "omit the \" [unit]\" suffix from column names")
	fs.StringVar(&cli.colPrefix, "col-prefix", defaults.ColPrefix, "prefix columns with the station: none|id|name")
	fs.BoolVar(&cli.fallbackVarID, "fallback-varid", defaults.FallbackVarID, "use the generic variable table for unmapped codes")
	fs.StringVar(&cli.delimiter, "delimiter", defaults.Delimiter, "CSV delimiter, a single character or \"tab\"")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: stationcsv [flags] <file.json|directory>")
		fmt.Fprintln(stderr, "       stationcsv ticks <YYYY-MM-DD>")
		fs.PrintDefaults()
	}

	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return cli, err
		}
		args = fs.Args()
		if len(args) == 0 {
			break
		}
		positional = append(positional, args[0])
		args = args[1:]
	}

	switch len(positional) {
	case 0:
		fs.Usage()
		return cli, errors.New("missing input file or directory")
	case 1:
		cli.input = positional[0]
	default:
		return cli, fmt.Errorf("expected one input, got %d", len(positional))
	}

	return cli, nil
}

/* ----------------------------------------
	ticks subcommand
---------------------------------------- */

func runTicks(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "usage: stationcsv ticks <YYYY-MM-DD>")
		return exitUsage
	}

	n, err := ticks.DateToTicksString(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "stationcsv: %v\n", err)
		return exitFailure
	}

	fmt.Fprintln(stdout, n)
	return exitOK
}
