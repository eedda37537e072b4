package main

import (
	"context"
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"vipyrdocs/internal/driver"
	"vipyrdocs/internal/ui"
)

type checkOutcome struct {
	result *driver.Result
	err    error
}

// runCheckWithUI runs the check in the background and renders its progress
// events until the driver closes the channel.
func runCheckWithUI(ctx context.Context, title string, paths []string, opts driver.Options) (*driver.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.CheckPaths(ctx, paths, opts)
		outcomeCh <- checkOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	final, uiErr := program.Run()
	// UI мог уйти раньше драйвера: дочитываем события, чтобы он не встал на канале
	go func() {
		for range events {
		}
	}()
	if ui.Aborted(final) {
		cancel()
		<-outcomeCh
		return nil, errInterrupted
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil && ctx.Err() == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

var errInterrupted = errors.New("interrupted")
