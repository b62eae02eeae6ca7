package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/balkashynov/inctrack/internal/config"
	"github.com/balkashynov/inctrack/internal/db"
	"github.com/balkashynov/inctrack/internal/tracker"
	"github.com/balkashynov/inctrack/internal/workbook"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries what every command needs once the backing file is open
type app struct {
	configPath string
	file       string
	backend    string
	verbose    bool

	cfg    config.Config
	svc    *tracker.Service
	closer func() error

	// overridable in tests
	clock       tracker.Clock
	interactive func() bool
	stderr      io.Writer
}

func newApp() *app {
	return &app{
		clock:       tracker.SystemClock{},
		interactive: stdoutIsTerminal,
		stderr:      os.Stderr,
	}
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	return newApp().rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "inctrack",
		Short: "Incident ticket log and activity timer",
		Long: `inctrack records incident tickets and the time spent on them in an Excel workbook.
Tickets get sequential IDs per day (THyymmddNN) unless you pick your own, and each
ticket can have at most one running timer.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipSetup(cmd) {
				return nil
			}
			return a.setup()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default: <data dir>/config.yaml)")
	root.PersistentFlags().StringVarP(&a.file, "file", "f", "", "Data file (overrides config)")
	root.PersistentFlags().StringVar(&a.backend, "backend", "", "Storage backend: xlsx or sqlite")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log every operation to stderr")

	root.AddCommand(a.addCmd())
	root.AddCommand(a.nextCmd())
	root.AddCommand(a.listCmd())
	root.AddCommand(a.searchCmd())
	root.AddCommand(a.startCmd())
	root.AddCommand(a.stopCmd())
	root.AddCommand(a.statusCmd())
	root.AddCommand(a.activityCmd())
	root.AddCommand(a.reportCmd())
	root.AddCommand(a.exportCmd())
	root.AddCommand(a.openCmd())
	root.AddCommand(a.pathCmd())
	root.SetHelpCommand(helpCmd)
	root.AddCommand(versionCmd)
	return root
}

// setup loads config, opens the backend and builds the service
func (a *app) setup() error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.backend != "" {
		cfg.Backend = config.Backend(a.backend)
	}
	if a.file != "" {
		cfg.File = a.file
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger := slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: cfg.Level()}))

	path, err := cfg.DataFile()
	if err != nil {
		return fmt.Errorf("failed to resolve data file: %w", err)
	}

	var (
		tickets    tracker.TicketStore
		activities tracker.ActivityStore
		exporter   tracker.Exporter
	)
	switch cfg.Backend {
	case config.BackendSQLite:
		store, err := db.Open(path)
		if err != nil {
			return err
		}
		tickets, activities, exporter = store.Tickets(), store.Activities(), store
		a.closer = store.Close
	default:
		wb, err := workbook.Open(path)
		if err != nil {
			return err
		}
		tickets, activities, exporter = wb.Tickets(), wb.Activities(), wb
	}

	logger.Debug("opening data file", "backend", cfg.Backend, "path", path)
	svc, err := tracker.NewService(tickets, activities,
		tracker.WithClock(a.clock),
		tracker.WithLogger(logger),
		tracker.WithExporter(exporter),
	)
	if err != nil {
		a.close()
		return err
	}
	a.svc = svc
	return nil
}

// execute runs root and releases the backend on every exit path;
// cobra skips post-run hooks when a command fails.
func (a *app) execute(root *cobra.Command) error {
	err := root.Execute()
	if closeErr := a.close(); closeErr != nil {
		err = errors.Join(err, fmt.Errorf("failed to close data file: %w", closeErr))
	}
	return err
}

func (a *app) close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer()
	a.closer = nil
	return err
}

// useUI reports whether a bubbletea screen should be shown
func (a *app) useUI(cmd *cobra.Command) bool {
	if noUI, _ := cmd.Flags().GetBool("no-ui"); noUI {
		return false
	}
	return a.interactive()
}

func skipSetup(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "help", "version", "completion", "__complete":
		return true
	}
	return false
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	a := newApp()
	return a.execute(a.rootCmd())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "inctrack %s (commit %s, built %s)\n", version, commit, date)
	},
}
