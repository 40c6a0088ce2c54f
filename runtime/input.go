package nruntime

import (
	"fmt"
	"strconv"
	"strings"
)

// ChoiceVar receives the zero-based index picked in a choice menu.
const ChoiceVar = "choice_selected"

type InputRequest struct {
	Prompt     string // shown before the cursor when Inline
	Inline     bool
	Variable   string
	HasDefault bool
	Default    string
}

// InputProvider reads one line of user text.
type InputProvider func(req InputRequest) (string, error)

type ChoiceRequest struct {
	Title   string
	Options []string
}

// ChoiceProvider returns an index in [0, len(req.Options)).
type ChoiceProvider func(req ChoiceRequest) (int, error)

// EnqueueInput queues replies that are consumed before any provider is
// asked. Choice menus read queued replies as 1-based option numbers.
func (vm *VM) EnqueueInput(values ...string) {
	vm.queue = append(vm.queue, values...)
}

func (vm *VM) consumeQueuedInput() (string, bool) {
	if len(vm.queue) == 0 {
		return "", false
	}
	v := vm.queue[0]
	vm.queue = vm.queue[1:]
	return v, true
}

func (vm *VM) resolveInput(req InputRequest) (string, error) {
	value, ok := vm.consumeQueuedInput()
	if !ok && vm.inputProvider != nil {
		v, err := vm.inputProvider(req)
		if err != nil {
			return "", err
		}
		value = v
	}
	if value == "" && req.HasDefault {
		value = req.Default
	}
	return value, nil
}

func (vm *VM) resolveChoice(req ChoiceRequest) (int, error) {
	if raw, ok := vm.consumeQueuedInput(); ok {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return 0, fmt.Errorf("queued choice %q is not a number", raw)
		}
		return checkChoice(n-1, len(req.Options))
	}
	if vm.choiceProvider == nil {
		vm.log.Warn().Str("title", req.Title).Msg("no choice provider, selecting first option")
		return 0, nil
	}
	n, err := vm.choiceProvider(req)
	if err != nil {
		return 0, err
	}
	return checkChoice(n, len(req.Options))
}

func checkChoice(n, count int) (int, error) {
	if n < 0 || n >= count {
		return 0, fmt.Errorf("choice index %d out of range [0,%d)", n, count)
	}
	return n, nil
}
