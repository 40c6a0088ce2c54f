package main

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	nruntime "github.com/gosuda/nefu/runtime"
)

// errSetup marks failures before the script starts running.
var errSetup = errors.New("setup failed")

type appConfig struct {
	script   string
	mode     string
	cursor   string
	encoding string
	vars     map[string]string
	inputs   []string
}

type vmStartedMsg struct {
	events <-chan tea.Msg
	cancel context.CancelFunc
}

type vmOutputMsg struct {
	out nruntime.Output
}

type vmDoneMsg struct {
	vars map[string]string
	err  error
}

type vmInputResp struct {
	value string
	err   error
}

type vmPromptMsg struct {
	req  nruntime.InputRequest
	resp chan vmInputResp
}

type vmChoiceResp struct {
	index int
	err   error
}

type vmChoiceMsg struct {
	req  nruntime.ChoiceRequest
	resp chan vmChoiceResp
}

type vmPollMsg struct{}

type pendingInput struct {
	req  nruntime.InputRequest
	resp chan vmInputResp
}

type pendingChoice struct {
	menu choiceMenu
	resp chan vmChoiceResp
}
