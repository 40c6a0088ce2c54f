package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	nruntime "github.com/gosuda/nefu/runtime"
)

func startVM(cfg appConfig) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(context.Background())
		events := make(chan tea.Msg, 256)
		go runVM(ctx, cfg, events)
		return vmStartedMsg{events: events, cancel: cancel}
	}
}

func runVM(ctx context.Context, cfg appConfig, events chan<- tea.Msg) {
	defer close(events)
	send := func(msg tea.Msg) bool {
		select {
		case events <- msg:
			return true
		case <-ctx.Done():
			return false
		}
	}

	vm, err := buildVM(cfg)
	if err != nil {
		send(vmDoneMsg{err: err})
		return
	}

	vm.SetOutputHook(func(out nruntime.Output) {
		send(vmOutputMsg{out: out})
	})
	vm.SetInputProvider(func(req nruntime.InputRequest) (string, error) {
		resp := make(chan vmInputResp, 1)
		if !send(vmPromptMsg{req: req, resp: resp}) {
			return "", ctx.Err()
		}
		select {
		case r := <-resp:
			return r.value, r.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})
	vm.SetChoiceProvider(func(req nruntime.ChoiceRequest) (int, error) {
		resp := make(chan vmChoiceResp, 1)
		if !send(vmChoiceMsg{req: req, resp: resp}) {
			return 0, ctx.Err()
		}
		select {
		case r := <-resp:
			return r.index, r.err
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	})

	_, err = vm.RunContext(ctx)
	// The done message must reach the model even after a cancel.
	events <- vmDoneMsg{vars: vm.Vars(), err: err}
}
