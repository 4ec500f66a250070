package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/adibhanna/timetracker/internal/config"
	"github.com/adibhanna/timetracker/internal/logging"
	"github.com/adibhanna/timetracker/internal/storage"
	"github.com/adibhanna/timetracker/internal/tracker"
	"github.com/adibhanna/timetracker/internal/ui/timer"
)

// ErrNoTerminal is returned before any UI is built when stdin or stdout is
// not a terminal.
var ErrNoTerminal = errors.New("timetracker needs an interactive terminal")

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   config.AppName,
		Short: "A stopwatch that logs each session to JSONL and CSV",
		Long: `timetracker is a terminal stopwatch. Play, pause and stop a session;
on stop it asks for a ticket link, a note and a status, then appends the
entry to ~/.timetracker/time_log.jsonl and ~/.timetracker/time_log.csv.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkTerminal(os.Stdin, os.Stdout); err != nil {
				return err
			}
			return run()
		},
	}
}

func checkTerminal(files ...*os.File) error {
	for _, f := range files {
		if !term.IsTerminal(int(f.Fd())) {
			return ErrNoTerminal
		}
	}
	return nil
}

func run() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home dir: %w", err)
	}

	model, closer, err := setup(home)
	if err != nil {
		return err
	}
	defer closer.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// setup builds everything the main window needs. The returned closer
// releases the diagnostic log file.
func setup(home string) (tea.Model, io.Closer, error) {
	cfg, err := config.Load(home)
	if err != nil {
		return nil, nil, err
	}

	log, closer, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	store, err := storage.New(cfg)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}

	log.Info("starting",
		"version", version,
		"jsonl", cfg.JSONLPath,
		"csv", cfg.CSVPath,
	)

	t := tracker.New(store, log)
	return timer.New(cfg, t), closer, nil
}
