package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/peterh/liner"

	nruntime "github.com/gosuda/nefu/runtime"
)

func runPlain(ctx context.Context, cfg appConfig) (map[string]string, error) {
	vm, err := buildVM(cfg)
	if err != nil {
		return nil, err
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	term := termenv.NewOutput(os.Stdout)
	vm.SetOutputHook(func(out nruntime.Output) {
		if out.Clear {
			term.ClearScreen()
			return
		}
		if out.NewLine {
			fmt.Println(out.Text)
		} else {
			fmt.Print(out.Text)
		}
	})

	vm.SetInputProvider(func(req nruntime.InputRequest) (string, error) {
		line, err := ln.Prompt(req.Prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", context.Canceled
		}
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		return line, nil
	})

	vm.SetChoiceProvider(func(req nruntime.ChoiceRequest) (int, error) {
		if isTerminal(os.Stdin) && isTerminal(os.Stdout) {
			return runChoiceMenu(req, cfg.cursor)
		}
		idx, err := promptNumberedChoice(req, ln.Prompt, os.Stdout)
		if errors.Is(err, liner.ErrPromptAborted) {
			return 0, context.Canceled
		}
		return idx, err
	})

	_, err = vm.RunContext(ctx)
	return vm.Vars(), err
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
