// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ManuGH/lensd/internal/config"
)

func runConfigCLI(args []string) int {
	return configCLI(args, os.Stdout, os.Stderr)
}

func configCLI(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printConfigUsage(stderr)
		return 0
	}

	switch args[0] {
	case "validate":
		return runConfigValidate(args[1:], stdout, stderr)
	case "dump":
		return runConfigDump(args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Unknown subcommand: %s\n\n", args[0])
		printConfigUsage(stderr)
		return 2
	}
}

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  lensd config validate [--file|-f config.yaml]")
	fmt.Fprintln(w, "  lensd config dump [--file|-f config.yaml] [--format=yaml|json]")
}

func configFileFlag(fs *flag.FlagSet) *string {
	path := fs.String("file", "", "path to config file (YAML)")
	fs.StringVar(path, "f", "", "shorthand for --file")
	return path
}

func runConfigValidate(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("config validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	path := configFileFlag(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if _, err := config.NewLoader(*path).Load(); err != nil {
		fmt.Fprintf(stderr, "Config invalid: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, "Config OK")
	return 0
}

func runConfigDump(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("config dump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	path := configFileFlag(fs)
	format := fs.String("format", "yaml", "output format: yaml or json")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.NewLoader(*path).Load()
	if err != nil {
		fmt.Fprintf(stderr, "Config invalid: %v\n", err)
		return 1
	}

	switch *format {
	case "yaml":
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		err = enc.Encode(cfg)
		if err == nil {
			err = enc.Close()
		}
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(cfg)
	default:
		fmt.Fprintf(stderr, "Unknown format: %s\n", *format)
		return 2
	}
	if err != nil {
		fmt.Fprintf(stderr, "Encode failed: %v\n", err)
		return 1
	}
	return 0
}
