package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"bfi/internal/driver"
	"bfi/internal/pipeline"
	"bfi/internal/source"
	"bfi/internal/ui"
)

type checkOutcome struct {
	fs      *source.FileSet
	results []driver.CheckResult
	err     error
}

// checkWithUI runs CheckFiles in the background while a progress view
// renders its events to out.
func checkWithUI(ctx context.Context, out io.Writer, files []string, opts driver.CheckOptions) (*source.FileSet, []driver.CheckResult, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		opts.Progress = pipeline.ChannelSink{Ch: events}
		fs, results, err := driver.CheckFiles(ctx, files, opts)
		outcomeCh <- checkOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("checking", files, pipeline.StageParse, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(nil), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// окно могло закрыться раньше: дочитываем события, чтобы не блокировать проверку
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
