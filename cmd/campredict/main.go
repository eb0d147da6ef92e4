// Package main provides the campredict binary: the camping calculators as a
// command line tool and as an HTTP JSON API.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/campredict/internal/config"
	"github.com/cory-johannsen/campredict/internal/frontend/render"
	"github.com/cory-johannsen/campredict/internal/game/camping"
	"github.com/cory-johannsen/campredict/internal/game/ruleset"
)

var version = "0.1.0"

// exitErr carries a process exit code through cobra.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func exitError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

// Exit codes.
const (
	exitInvalidInput = 2
	exitSetup        = 3
)

type rootFlags struct {
	configPath string
	contentDir string
	noColor    bool
	jsonOut    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, ee.msg)
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}

	root := &cobra.Command{
		Use:           "campredict",
		Short:         "Estimate the odds of surviving a night camping outside the town",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "Configuration file (default: built-in defaults and CAMP_ environment)")
	pf.StringVar(&f.contentDir, "content", "", "Content directory (overrides content.dir)")
	pf.BoolVar(&f.noColor, "no-color", false, "Disable ANSI colours")
	pf.BoolVar(&f.jsonOut, "json", false, "Print JSON instead of text")

	root.AddCommand(newPredictCmd(f))
	root.AddCommand(newDefenceCmd(f))
	root.AddCommand(newBuildingsCmd(f))
	root.AddCommand(newTiersCmd(f))
	root.AddCommand(newServeCmd(f))
	return root
}

// loadConfig loads the configuration, applying the --content override.
func (f *rootFlags) loadConfig() (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, exitError(exitSetup, "loading config: %v", err)
	}
	if f.contentDir != "" {
		cfg.Content.Dir = f.contentDir
	}
	return cfg, nil
}

// loadTables loads the configuration and the reference tables it points at.
func (f *rootFlags) loadTables() (config.Config, *camping.Tables, error) {
	cfg, err := f.loadConfig()
	if err != nil {
		return config.Config{}, nil, err
	}
	tables, _, err := ruleset.Load(cfg.Content.Dir)
	if err != nil {
		return config.Config{}, nil, exitError(exitSetup, "loading content: %v", err)
	}
	return cfg, tables, nil
}

// print writes text, stripped of colour when requested.
func (f *rootFlags) print(w io.Writer, text string) {
	if f.noColor {
		text = render.StripANSI(text)
	}
	fmt.Fprint(w, text)
}
