package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/loadcalc/internal/config"
	"github.com/rshade/loadcalc/internal/logging"
	"github.com/rshade/loadcalc/internal/project"
	"github.com/rshade/loadcalc/internal/tui"
)

// ErrNotInteractive is returned when edit is run without a terminal.
var ErrNotInteractive = errors.New("edit needs an interactive terminal; use calc --set instead")

// NewEditCmd creates the "edit" command: an interactive what-if editor with
// live recalculation.
func NewEditCmd() *cobra.Command {
	var savePath string

	cmd := &cobra.Command{
		Use:   "edit <project-file>",
		Short: "Edit a project interactively with live recalculation",
		Long: `Open a terminal editor over the project's properties. Every committed
change re-estimates the room and shows the effect on required capacity and
the recommended equipment. With --save the edited project is written out
when the editor closes.`,
		Example: `  loadcalc edit office.yaml
  loadcalc edit office.yaml --save office-v2.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeEdit(cmd, args[0], savePath)
		},
	}

	cmd.Flags().StringVar(&savePath, "save", "", "write the edited project to this file on exit")

	return cmd
}

func executeEdit(cmd *cobra.Command, path, savePath string) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	if !tui.IsTTY() || !isTerminal(os.Stdin) {
		return ErrNotInteractive
	}

	state, err := project.LoadFile(path)
	if err != nil {
		return err
	}
	eng, err := newEngine(config.GetGlobalConfig())
	if err != nil {
		return err
	}

	log.Debug().Ctx(ctx).
		Str("component", "cli").
		Str("operation", "edit").
		Str("project_file", path).
		Msg("launching interactive editor")

	model := tui.NewEditorModelWithCallback(ctx, state, nil, eng.WhatIf)
	finalModel, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("running interactive editor: %w", err)
	}

	editor, ok := finalModel.(*tui.EditorModel)
	if !ok {
		return fmt.Errorf("unexpected model type: %T, expected *tui.EditorModel", finalModel)
	}
	return finishEdit(ctx, cmd, editor, savePath)
}

// finishEdit prints the final comparison and saves the edited project.
func finishEdit(ctx context.Context, cmd *cobra.Command, editor *tui.EditorModel, savePath string) error {
	if res := editor.GetResult(); res != nil && len(editor.GetOverrides()) > 0 {
		cmd.Println(tui.RenderLoadComparison(&res.Baseline, &res.Modified))
	}
	if savePath == "" {
		return nil
	}

	edited, err := editor.ModifiedState()
	if err != nil {
		return err
	}
	if err := project.Save(edited, savePath); err != nil {
		return err
	}
	logging.FromContext(ctx).Info().Ctx(ctx).
		Str("component", "cli").
		Str("save_path", savePath).
		Int("changes", len(editor.GetOverrides())).
		Msg("edited project saved")
	cmd.Printf("Project written to %s\n", savePath)
	return nil
}
