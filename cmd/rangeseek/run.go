package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/teranos/rangeseek"
	"github.com/teranos/rangeseek/internal/session"
)

func runCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the terminal slider",
		Long: `Start the terminal slider. Drag a handle with the left mouse button,
press esc to abandon a drag and q to quit. The selected range is printed
on exit and saved to RANGESEEK_STATE_FILE when set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd, opts)
		},
	}
}

// errNoTerminal is returned by run when stdin or stdout is redirected.
var errNoTerminal = errors.New("run needs an interactive terminal; use frame to render a range to PNG")

func runUI(cmd *cobra.Command, opts *options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNoTerminal
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer closeLog()

	m, err := rangeseek.NewModel(cfg.ModelConfig(logger))
	if err != nil {
		return fmt.Errorf("create slider: %w", err)
	}

	var store *session.Store
	if cfg.StateFile != "" {
		store = session.NewStore(cfg.StateFile)
		restored, err := store.Restore(m.Controller())
		if err != nil {
			logger.WithError(err).WithField("path", store.Path()).Warn("saved range ignored")
		} else if restored {
			logger.WithField("path", store.Path()).Info("range restored")
		}
	}

	final, err := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	).Run()
	if err != nil {
		return fmt.Errorf("run slider: %w", err)
	}

	result, ok := final.(*rangeseek.Model)
	if !ok {
		return fmt.Errorf("unexpected model %T", final)
	}

	return finish(cmd, result.Controller(), store, logger)
}

// finish saves the range when a store is configured and prints it.
func finish(cmd *cobra.Command, ctrl *rangeseek.Controller, store *session.Store, logger log.FieldLogger) error {
	if store != nil {
		state := ctrl.SaveState()
		if err := store.Save(state); err != nil {
			return fmt.Errorf("save range: %w", err)
		}
		logger.WithFields(log.Fields{
			"path":        store.Path(),
			"lesser_step": state.LesserStep,
			"larger_step": state.LargerStep,
		}).Info("range saved")
	}

	lesser, larger := ctrl.Progress()
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "%g %g\n", lesser, larger)
	return err
}
