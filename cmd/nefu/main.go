package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	logLevel     string
	configPath   string
	encodingFlag string
	tuiFlag      bool
	dumpVarsFlag bool
	varFlags     map[string]string
	inputFlags   []string
)

var rootCmd = &cobra.Command{
	Use:   "nefu SCRIPT",
	Short: "Run a nefu script",
	Long:  "nefu runs .nfu scripts: text output, variables, branches, loops, jumps, pauses, text input and choice menus.",
	Args:  cobra.ExactArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(os.Stderr, logLevel)
	},
	Run: runCommand,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Set log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: nefu.toml next to the script)")
	rootCmd.PersistentFlags().StringVar(&encodingFlag, "encoding", "", "Script encoding, e.g. utf-8, shift_jis, windows-1252")
	rootCmd.Flags().BoolVar(&tuiFlag, "tui", false, "Run in the full-screen terminal UI")
	rootCmd.Flags().BoolVar(&dumpVarsFlag, "dump-vars", false, "Print the final variables as YAML after the run")
	rootCmd.Flags().StringToStringVar(&varFlags, "var", nil, "Set a variable before the run (name=value)")
	rootCmd.Flags().StringArrayVar(&inputFlags, "input", nil, "Queue a reply for getinput or choice (repeatable)")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(inspectCmd)
}

func setupLogging(w io.Writer, level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w})

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level '%s', using 'warn'\n", level)
		lvl = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// resolveConfig merges the config file with the flags that were set.
func resolveConfig(cmd *cobra.Command, script string) (appConfig, fileConfig, error) {
	fc, err := loadFileConfig(configPath, script)
	if err != nil {
		return appConfig{}, fc, err
	}
	cfg := appConfig{
		script:   script,
		mode:     fc.Display.Mode,
		cursor:   fc.Display.Cursor,
		encoding: fc.Script.Encoding,
		vars:     varFlags,
		inputs:   inputFlags,
	}
	if cmd.Flags().Changed("tui") {
		cfg.mode = "plain"
		if tuiFlag {
			cfg.mode = "tui"
		}
	}
	if cmd.Flags().Changed("encoding") {
		cfg.encoding = encodingFlag
	}
	if !cmd.Flags().Changed("log-level") {
		setupLogging(os.Stderr, fc.Log.Level)
	}
	return cfg, fc, nil
}

func runCommand(cmd *cobra.Command, args []string) {
	cfg, fc, err := resolveConfig(cmd, args[0])
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't load config")
	}

	var vars map[string]string
	if cfg.mode == "tui" {
		vars, err = runTUI(cfg, fc.Log)
	} else {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		vars, err = runPlain(ctx, cfg)
		stop()
	}

	if dumpVarsFlag && vars != nil {
		if werr := writeYAML(os.Stdout, vars); werr != nil {
			log.Error().Err(werr).Msg("Couldn't dump variables")
		}
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		if errors.Is(err, errSetup) {
			log.Fatal().Err(err).Msg("Couldn't start script")
		}
		printDiagnostic(os.Stderr, err)
		os.Exit(1)
	}
}

func runTUI(cfg appConfig, lc logConfig) (map[string]string, error) {
	// The alternate screen owns the terminal, so logs go to a file or nowhere.
	prev := log.Logger
	defer func() { log.Logger = prev }()
	logOut := io.Discard
	if lc.File != "" {
		f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("%w: open log file: %v", errSetup, err)
		}
		defer f.Close()
		logOut = f
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: logOut, NoColor: true})

	p := tea.NewProgram(newModel(cfg), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("%w: tui: %v", errSetup, err)
	}
	m, ok := final.(model)
	if !ok {
		return nil, nil
	}
	return m.vars, m.err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
