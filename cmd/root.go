// Package cmd implements the CLI command structure for kanbo.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/kanbo/kanbo-go/internal/board"
	"github.com/kanbo/kanbo-go/internal/config"
	"github.com/kanbo/kanbo-go/internal/logging"
	"github.com/kanbo/kanbo-go/internal/storage"
	"github.com/kanbo/kanbo-go/internal/store"
	"github.com/kanbo/kanbo-go/internal/task"
	"github.com/kanbo/kanbo-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the kanbo CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("kanbo", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	logger := logging.FromConfig(os.Stderr, cfg)

	// Determine the subcommand; with no args the interactive board opens.
	subcommand := "board"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "board", "tui":
		return boardCommand(ctx, cfg, logger)
	case "add":
		return addCommand(ctx, cfg, logger, remainingArgs)
	case "ls":
		return lsCommand(ctx, cfg, logger, remainingArgs)
	case "mv":
		return mvCommand(ctx, cfg, logger, remainingArgs)
	case "rm":
		return rmCommand(ctx, cfg, logger, remainingArgs)
	case "stats":
		return statsCommand(ctx, cfg, logger)
	case "init":
		return initCommand()
	case "version", "--version", "-v":
		return versionCommand()
	case "help", "--help", "-h":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// openStore builds the storage backend from config and rehydrates the store.
// The returned closer releases backend resources (only Redis holds any).
func openStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (*store.Store, func() error, error) {
	var kv storage.KV
	closer := func() error { return nil }

	switch cfg.Backend {
	case config.BackendFile:
		kv = storage.NewFileKV(cfg.DataDir)
	case config.BackendMemory:
		kv = storage.NewMemKV()
	case config.BackendRedis:
		rkv := storage.NewRedisKV(cfg.RedisAddr, cfg.RedisDB)
		kv = rkv
		closer = rkv.Close
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	st := store.Open(ctx, kv,
		store.WithKey(cfg.BoardKey),
		store.WithLogger(logger),
		store.WithSchemaPath(cfg.SchemaFile),
	)
	st.Subscribe(logging.SnapshotObserver(logger))
	return st, closer, nil
}

// boardCommand opens the interactive board.
func boardCommand(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	st, closer, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closer()
	return ui.RunBoard(ctx, st)
}

// addCommand creates a task from the command line.
func addCommand(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("kanbo add", flag.ContinueOnError)
	desc := fs.String("d", "", "Task description")
	if err := fs.Parse(args); err != nil {
		return err
	}

	title := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if title == "" {
		return fmt.Errorf("usage: kanbo add [-d description] <title>")
	}

	st, closer, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closer()

	t := st.Create(ctx, title, *desc)
	fmt.Printf("Added %s  %s\n", shortID(t.ID), t.Title)
	return nil
}

// lsCommand lists tasks, optionally filtered to one column.
func lsCommand(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("kanbo ls", flag.ContinueOnError)
	statusArg := fs.String("s", "", "Only show one column (backlog|in_progress|done)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st, closer, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closer()

	statuses := task.RealStatuses()
	if *statusArg != "" {
		status, err := task.ParseStatus(*statusArg)
		if err != nil {
			return err
		}
		statuses = []task.Status{status}
	}

	snapshot := st.Tasks()
	for _, status := range statuses {
		col := board.ColumnFor(snapshot, status)
		fmt.Printf("%s\n", status.Label())
		for _, t := range col.Tasks {
			fmt.Println(formatTask(&t))
		}
		fmt.Println()
	}
	return nil
}

// mvCommand moves a task to another column.
func mvCommand(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: kanbo mv <id> <backlog|in_progress|done>")
	}

	status, err := task.ParseStatus(args[1])
	if err != nil {
		return err
	}

	st, closer, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closer()

	id, err := resolveID(st.Tasks(), args[0])
	if err != nil {
		return err
	}
	st.UpdateStatus(ctx, id, status)
	fmt.Printf("Moved %s to %s\n", shortID(id), status.Label())
	return nil
}

// rmCommand deletes a task.
func rmCommand(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: kanbo rm <id>")
	}

	st, closer, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closer()

	id, err := resolveID(st.Tasks(), args[0])
	if err != nil {
		return err
	}
	st.Remove(ctx, id)
	fmt.Printf("Removed %s\n", shortID(id))
	return nil
}

// statsCommand prints per-column counts and the completion percentage.
func statsCommand(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	st, closer, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closer()

	stats := board.Collect(st.Tasks())
	fmt.Printf("Backlog:     %d\n", stats.Backlog)
	fmt.Printf("In Progress: %d\n", stats.InProgress)
	fmt.Printf("Done:        %d\n", stats.Done)
	fmt.Printf("Complete:    %s%%\n", stats.PercentString())
	return nil
}

// initCommand writes an example config file into the current directory.
func initCommand() error {
	const name = "kanbo.toml"
	if _, err := os.Stat(name); err == nil {
		return fmt.Errorf("%s already exists", name)
	}
	if err := os.WriteFile(name, []byte(config.ExampleConfig()), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	fmt.Printf("Wrote %s\n", name)
	return nil
}

func versionCommand() error {
	fmt.Printf("kanbo %s (%s/%s)\n", Version, runtime.GOOS, runtime.GOARCH)
	return nil
}

// resolveID finds the task whose id starts with prefix. The store itself is
// forgiving about unknown ids, but at the CLI a typo should be loud.
func resolveID(tasks []task.Task, prefix string) (string, error) {
	var match string
	for _, t := range tasks {
		if !strings.HasPrefix(t.ID, prefix) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("id prefix %q is ambiguous", prefix)
		}
		match = t.ID
	}
	if match == "" {
		return "", fmt.Errorf("no task with id %q", prefix)
	}
	return match, nil
}

// formatTask renders one list line with a status icon and short id.
func formatTask(t *task.Task) string {
	if t.IsPlaceholder() {
		return "    (empty)"
	}

	statusIcon := " "
	switch t.Status {
	case task.StatusInProgress:
		statusIcon = ">"
	case task.StatusDone:
		statusIcon = "x"
	}

	line := fmt.Sprintf("  %s [%s] %s", statusIcon, shortID(t.ID), t.Title)
	if t.Description == "" {
		return line
	}
	desc := t.Description
	if len(desc) > 60 {
		desc = desc[:57] + "..."
	}
	return line + "\n      " + desc
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, `kanbo - a kanban board in your terminal

Usage:
  kanbo [command] [flags]

Commands:
  board     Open the interactive board (default)
  add       Add a task to the backlog: kanbo add [-d description] <title>
  ls        List tasks: kanbo ls [-s status]
  mv        Move a task: kanbo mv <id> <backlog|in_progress|done>
  rm        Delete a task: kanbo rm <id>
  stats     Show per-column counts and completion percentage
  init      Write an example kanbo.toml to the current directory
  version   Show version
  help      Show this help

Flags:
`)
	fs.SetOutput(w)
	fs.PrintDefaults()
}
