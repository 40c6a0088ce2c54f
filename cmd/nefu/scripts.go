package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/gosuda/nefu"
	nruntime "github.com/gosuda/nefu/runtime"
)

func loadScript(path, encoding string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return decodeScript(b, encoding)
}

// decodeScript converts b from the named encoding (a WHATWG label such as
// shift_jis or windows-1252) to UTF-8.
func decodeScript(b []byte, label string) (string, error) {
	label = strings.TrimSpace(label)
	if label == "" || strings.EqualFold(label, "utf-8") || strings.EqualFold(label, "utf8") {
		return string(b), nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return "", fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(b), enc.NewDecoder()))
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", label, err)
	}
	return string(out), nil
}

func buildVM(cfg appConfig) (*nruntime.VM, error) {
	src, err := loadScript(cfg.script, cfg.encoding)
	if err != nil {
		return nil, fmt.Errorf("%w: load script: %w", errSetup, err)
	}
	vm, err := nefu.Compile(cfg.script, src)
	if err != nil {
		return nil, fmt.Errorf("%w: compile: %w", errSetup, err)
	}
	vm.SetLogger(log.Logger.With().Str("script", filepath.Base(cfg.script)).Logger())

	names := make([]string, 0, len(cfg.vars))
	for name := range cfg.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		vm.SetVar(name, cfg.vars[name])
	}
	vm.EnqueueInput(cfg.inputs...)
	return vm, nil
}
