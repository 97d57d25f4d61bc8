package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"rm-rfp/internal/config"
	"rm-rfp/internal/confirm"
	"rm-rfp/internal/database"
	"rm-rfp/internal/disk"
	"rm-rfp/internal/exitcodes"
	"rm-rfp/internal/fsops"
	"rm-rfp/internal/logging"
	"rm-rfp/internal/metrics"
	"rm-rfp/internal/pipeline"
	"rm-rfp/internal/progress"
	"rm-rfp/internal/safety"
	"rm-rfp/internal/stats"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
  rm-rfp [options] <path>...

Options:
  -h, --help                 Show this screen.
  -n, --dry-run              Don't delete anything, but go through the motions as if it were.
  -i, --interactive          Prompt before deleting each file.
      --no-preserve-root     Don't fail if '/' is given as an argument.
      --no-preserve-all-roots
                             Don't fail if the root of a mounted filesystem is given as an argument.
      --config PATH          Path to optional YAML configuration file.
`)
}

func main() {
	var (
		dryRun             bool
		interactive        bool
		noPreserveRoot     bool
		noPreserveAllRoots bool
		configPath         string
	)
	flag.BoolVar(&dryRun, "dry-run", false, "don't delete anything")
	flag.BoolVar(&dryRun, "n", false, "don't delete anything (shorthand)")
	flag.BoolVar(&interactive, "interactive", false, "prompt before deleting each file")
	flag.BoolVar(&interactive, "i", false, "prompt before deleting each file (shorthand)")
	flag.BoolVar(&noPreserveRoot, "no-preserve-root", false, "don't fail if '/' is given as an argument")
	flag.BoolVar(&noPreserveAllRoots, "no-preserve-all-roots", false, "don't fail if a mount root is given as an argument")
	flag.StringVar(&configPath, "config", "", "path to configuration file")
	flag.Usage = usage
	flag.Parse()

	roots := flag.Args()
	if len(roots) == 0 {
		usage()
		os.Exit(exitcodes.UsageError)
	}

	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rm-rfp: %v\n", err)
			os.Exit(exitcodes.UsageError)
		}
	}

	logger := logging.New(cfg.Logging.File)
	logger.Printf("starting: roots=%d dry_run=%v interactive=%v", len(roots), dryRun, interactive)

	// Validate every argument up front so the user doesn't get halfway
	// through a delete run before seeing failures.
	validator, err := safety.NewValidator(!noPreserveRoot, !noPreserveAllRoots)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rm-rfp: %v\n", err)
		os.Exit(exitcodes.RuntimeError)
	}
	for _, root := range roots {
		if err := validator.Validate(root); err != nil {
			fmt.Fprintf(os.Stderr, "rm-rfp: %v\n", err)
			logger.Printf("validation failed: %v", err)
			os.Exit(exitcodes.SafetyViolation)
		}
	}

	metrics.Init()
	if cfg.Prometheus.Port > 0 {
		metrics.StartServer(cfg.PrometheusAddress(), logger)
	}

	var history pipeline.Recorder
	if cfg.DatabasePath != "" {
		db, err := database.NewDeletionDB(cfg.DatabasePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rm-rfp: %v\n", err)
			os.Exit(exitcodes.RuntimeError)
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Printf("failed to close database: %v", err)
			}
		}()
		history = db
	}

	renderer := progress.NewRenderer(os.Stderr)
	engine := confirm.NewEngine(interactive, stdinPrompter(renderer))
	totals := stats.NewTotals()

	var deleter fsops.Deleter = fsops.OSDeleter{}
	if dryRun {
		deleter = fsops.DryRunDeleter{}
	}

	done, err := pipeline.Run(roots, engine, deleter, totals, renderer, history, pipeline.DefaultMetrics(), pipeline.Options{
		DryRun:        dryRun,
		QueueSize:     cfg.QueueSize,
		SortThreshold: cfg.SortThreshold,
	})
	renderer.Finish()

	logger.Printf("done: freed=%d files=%d dirs=%d err=%v", done.Bytes, done.Files, done.Dirs, err)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rm-rfp: %v\n", err)
		os.Exit(exitcodes.RuntimeError)
	}

	if !dryRun {
		printDiskSummary(roots)
	}
}

// stdinPrompter reads operator answers from stdin, suspending the progress
// renderer while the prompt is open.
func stdinPrompter(renderer *progress.Renderer) confirm.Prompter {
	stdin := bufio.NewReader(os.Stdin)
	return func(question string) (string, error) {
		var line string
		var err error
		renderer.Suspend(func() {
			fmt.Print(question)
			line, err = stdin.ReadString('\n')
		})
		if errors.Is(err, io.EOF) && line != "" {
			err = nil
		}
		if err != nil {
			return "", fmt.Errorf("read answer: %w", err)
		}
		return line, nil
	}
}

// printDiskSummary reports free space once per distinct filesystem among the
// root arguments. The roots themselves are gone, so their parents stand in.
func printDiskSummary(roots []string) {
	seen := make(map[uint64]bool)
	for _, root := range roots {
		parent := filepath.Dir(root)
		id, err := disk.FilesystemID(parent)
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		usedPercent, freeBytes, _, err := disk.GetDiskUsage(parent)
		if err != nil {
			continue
		}
		fmt.Fprintf(os.Stderr, "%s: %s free (%.0f%% used)\n", parent, humanize.IBytes(uint64(freeBytes)), usedPercent)
	}
}
