package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	appconfig "github.com/entrhq/labtime/pkg/config"
)

// assignments collects repeated -set section.key=value flags.
type assignments []string

func (a *assignments) String() string {
	return strings.Join(*a, " ")
}

func (a *assignments) Set(value string) error {
	if !strings.Contains(value, "=") {
		return fmt.Errorf("want section.key=value, got %q", value)
	}
	*a = append(*a, value)
	return nil
}

// runConfig changes settings in the configuration file and prints the result.
func runConfig(_ context.Context, config *Config, args []string) error {
	fs := newFlagSet("config", config)
	var (
		sets  assignments
		reset bool
	)
	fs.Var(&sets, "set", "Change a setting, as section.key=value (repeatable)")
	fs.BoolVar(&reset, "reset", false, "Restore every setting to its default before applying -set")
	if err := config.parse(fs, args); err != nil {
		return err
	}

	settings, err := appconfig.New(config.ConfigPath)
	if err != nil {
		return err
	}

	if reset {
		settings.ResetAll()
	}
	for _, assignment := range sets {
		key, value, _ := strings.Cut(assignment, "=")
		if err := settings.Set(key, value); err != nil {
			return err
		}
	}
	if reset || len(sets) > 0 {
		if err := settings.SaveAll(); err != nil {
			return err
		}
	}

	printSettings(os.Stdout, settings)
	return nil
}

func printSettings(w io.Writer, settings *appconfig.Manager) {
	if file, ok := settings.Store().(interface{ Path() string }); ok {
		fmt.Fprintf(w, "# %s\n", file.Path())
	}
	for _, section := range settings.GetSections() {
		fmt.Fprintf(w, "\n[%s] %s\n", section.ID(), section.Title())
		data := section.Data()
		keys := make([]string, 0, len(data))
		for key := range data {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(w, "  %s.%s = %v\n", section.ID(), key, data[key])
		}
	}
}
