package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"mend/internal/catalog"
	"mend/internal/project"
	"mend/internal/repair"
	"mend/internal/ui"
	"mend/internal/verify"
)

type repairOutcome struct {
	results []repair.Result
	err     error
}

func runRepairWithUI(ctx context.Context, title string, names []string, cat *catalog.Catalog, v verify.Verifier,
	opts repair.Options, states []*project.State, jobs int) ([]repair.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan repair.Event, 256)
	outcomeCh := make(chan repairOutcome, 1)

	go func() {
		opts.Progress = func(ev repair.Event) {
			select {
			case events <- ev:
			case <-ctx.Done():
			}
		}
		engine := repair.New(cat, v, opts)
		results, err := repair.RunAll(ctx, engine, states, jobs)
		outcomeCh <- repairOutcome{results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, names, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	final, uiErr := program.Run()
	if ui.Interrupted(final) {
		cancel()
	}
	// UI мог завершиться раньше сессий
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && ctx.Err() == nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
