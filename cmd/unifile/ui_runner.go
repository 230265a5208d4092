package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"unifile/internal/driver"
	"unifile/internal/ui"
)

type fixOutcome struct {
	results []driver.FixResult
	err     error
}

func runFixWithUI(ctx context.Context, title string, files []string, opts driver.FixOptions) ([]driver.FixResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan fixOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.FixFiles(ctx, files, opts)
		close(events)
		outcomeCh <- fixOutcome{results: res, err: err}
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// при досрочном выходе из UI воркеры не должны блокироваться на канале
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
