package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gosuda/nefu"
	"github.com/gosuda/nefu/ast"
	"github.com/gosuda/nefu/parser"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect SCRIPT",
	Short: "Print the labels, blocks and commands of a script as YAML",
	Args:  cobra.ExactArgs(1),
	Run:   inspectCommand,
}

type scriptOutline struct {
	Script          string             `yaml:"script"`
	Lines           int                `yaml:"lines"`
	Labels          map[string]int     `yaml:"labels,omitempty"`
	DuplicateLabels []string           `yaml:"duplicate_labels,omitempty"`
	Blocks          []parser.BlockInfo `yaml:"blocks,omitempty"`
	Commands        []commandLine      `yaml:"commands,omitempty"`
}

type commandLine struct {
	Line  int    `yaml:"line"`
	Kind  string `yaml:"kind"`
	Text  string `yaml:"text"`
	Error string `yaml:"error,omitempty"`
}

func inspectCommand(cmd *cobra.Command, args []string) {
	path := args[0]
	fc, err := loadFileConfig(configPath, path)
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't load config")
	}
	encoding := fc.Script.Encoding
	if cmd.Flags().Changed("encoding") {
		encoding = encodingFlag
	}
	src, err := loadScript(path, encoding)
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't read script")
	}
	script, err := nefu.Parse(path, src)
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't parse script")
	}
	if err := writeYAML(os.Stdout, buildOutline(script)); err != nil {
		log.Fatal().Err(err).Msg("Couldn't write outline")
	}
}

// buildOutline reports lines 1-based, like diagnostics do.
func buildOutline(s *ast.Script) scriptOutline {
	out := scriptOutline{
		Script:          s.Name,
		Lines:           s.Len(),
		DuplicateLabels: s.DuplicateLabels,
		Blocks:          parser.Outline(s),
	}
	if len(s.Labels) > 0 {
		out.Labels = make(map[string]int, len(s.Labels))
		for name, idx := range s.Labels {
			out.Labels[name] = idx + 1
		}
	}
	for i, cmd := range s.Commands {
		if _, skip := cmd.(ast.Skip); skip {
			continue
		}
		cl := commandLine{Line: i + 1, Kind: ast.Kind(cmd), Text: s.Text(i)}
		if bad, ok := cmd.(ast.InvalidCmd); ok {
			cl.Error = bad.Err.Error()
		}
		out.Commands = append(out.Commands, cl)
	}
	return out
}
