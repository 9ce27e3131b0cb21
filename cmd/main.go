// Copyright 2025 the doc6 authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/aelsaeed/doc6/internal/config"
	"github.com/aelsaeed/doc6/internal/formatters"
	_ "github.com/aelsaeed/doc6/internal/formatters/json"
	_ "github.com/aelsaeed/doc6/internal/formatters/text"
	_ "github.com/aelsaeed/doc6/internal/formatters/yaml"
	"github.com/aelsaeed/doc6/internal/help"
	"github.com/aelsaeed/doc6/internal/observability"
	"github.com/aelsaeed/doc6/internal/pipeline"
	"github.com/aelsaeed/doc6/internal/preprocessors/pdftext"
	"github.com/aelsaeed/doc6/internal/version"
)

// configFlags holds command line flag values
type configFlags struct {
	outputFormat string
	layout       string
	layoutFile   string
	verbose      bool
	debug        bool
	noColor      bool
}

// finalConfiguration holds resolved configuration values
type finalConfiguration struct {
	format     string
	layout     string
	layoutFile string
	verbose    bool
	debug      bool
	noColor    bool
}

// resolveConfiguration resolves final configuration values from config file,
// profile, and command line flags. Precedence: flags > profile > config file.
func resolveConfiguration(cfg *config.Config, activeProfile *config.Profile, flags *configFlags) *finalConfiguration {
	final := &finalConfiguration{}

	// Format
	final.format = "text" // default fallback
	if cfg != nil && cfg.Defaults.Format != "" {
		final.format = cfg.Defaults.Format
	}
	if activeProfile != nil && activeProfile.Format != "" {
		final.format = activeProfile.Format
	}
	if isFlagSet("format") && flags.outputFormat != "" {
		final.format = flags.outputFormat
	}

	// Verbose
	if cfg != nil {
		final.verbose = cfg.Defaults.Verbose
	}
	if activeProfile != nil {
		final.verbose = activeProfile.Verbose
	}
	if isFlagSet("verbose") {
		final.verbose = flags.verbose
	}

	// Debug
	if cfg != nil {
		final.debug = cfg.Defaults.Debug
	}
	if activeProfile != nil {
		final.debug = activeProfile.Debug
	}
	if isFlagSet("debug") {
		final.debug = flags.debug
	}

	// No color
	if cfg != nil {
		final.noColor = cfg.Defaults.NoColor
	}
	if activeProfile != nil {
		final.noColor = activeProfile.NoColor
	}
	if isFlagSet("no-color") {
		final.noColor = flags.noColor
	}

	// Layout
	final.layout = "standard_layout"
	if cfg != nil && cfg.Extraction.Layout != "" {
		final.layout = cfg.Extraction.Layout
	}
	if isFlagSet("layout") && flags.layout != "" {
		final.layout = flags.layout
	}

	final.layoutFile = ""
	if cfg != nil {
		final.layoutFile = cfg.Extraction.LayoutFile
	}
	if isFlagSet("layout-file") {
		final.layoutFile = flags.layoutFile
	}

	return final
}

// isFlagSet checks whether a flag was explicitly provided on the command line
func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func main() {
	inputFile := flag.String("file", "", "Path to the input PDF document")
	configFile := flag.String("config", "", "Path to configuration file (YAML)")
	profileName := flag.String("profile", "", "Profile name to use from config file")
	listProfiles := flag.Bool("list-profiles", false, "List available profiles in config file")
	outputFormat := flag.String("format", "text", "Output format: text, json, yaml")
	layoutName := flag.String("layout", "", "W-2 region layout name")
	layoutFile := flag.String("layout-file", "", "YAML file overriding built-in box regions")
	outputFile := flag.String("output", "", "Path to output file (if not specified, output to stdout)")
	verbose := flag.Bool("verbose", false, "Display reasoning and matched bounding boxes")
	debug := flag.Bool("debug", false, "Enable step-by-step debug logging")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	showHelp := flag.Bool("help", false, "Show help information")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	// Auto-detect non-interactive environment
	if !isTerminal(os.Stderr) || os.Getenv("CI") != "" {
		*noColor = true
	}

	if *showHelp {
		handleHelp(flag.Args(), *noColor)
		return
	}

	// Load configuration
	cfg := config.LoadConfigOrDefault(*configFile)

	if *listProfiles {
		handleListProfiles(cfg, *configFile)
		return
	}

	var activeProfile *config.Profile
	if *profileName != "" {
		activeProfile = cfg.GetProfile(*profileName)
		if activeProfile == nil {
			fmt.Fprintf(os.Stderr, "Error: profile %q not found. Available profiles: %s\n",
				*profileName, strings.Join(cfg.ListProfiles(), ", "))
			os.Exit(1)
		}
	}

	finalConfig := resolveConfiguration(cfg, activeProfile, &configFlags{
		outputFormat: *outputFormat,
		layout:       *layoutName,
		layoutFile:   *layoutFile,
		verbose:      *verbose,
		debug:        *debug,
		noColor:      *noColor,
	})
	cfg.Extraction.Layout = finalConfig.layout
	cfg.Extraction.LayoutFile = finalConfig.layoutFile

	if *inputFile == "" {
		fmt.Fprintf(os.Stderr, "Error: --file is required\n\n")
		help.NewSystem(finalConfig.noColor).ShowGeneralHelp()
		os.Exit(1)
	}

	if err := run(cfg, finalConfig, *inputFile, *outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, finalConfig *finalConfiguration, inputFile, outputFile string) error {
	ctx := context.Background()

	observer := buildObserver(finalConfig)

	proc, err := pipeline.Build(ctx, cfg)
	if err != nil {
		return err
	}
	proc.SetObserver(observer)

	content, err := pdftext.Extract(inputFile)
	if err != nil {
		return err
	}

	report, err := proc.Process(ctx, pipeline.Document{
		Path:  inputFile,
		Text:  content.Text,
		Words: content.Words,
		Boxes: content.Boxes,
	})
	if err != nil {
		return err
	}

	output, err := formatters.Export(finalConfig.format, []*pipeline.Report{report}, formatters.FormatterOptions{
		Verbose: finalConfig.verbose,
		NoColor: finalConfig.noColor || outputFile != "",
	})
	if err != nil {
		return err
	}

	if outputFile != "" {
		return os.WriteFile(outputFile, []byte(output), 0o600)
	}
	fmt.Println(output)
	return nil
}

func buildObserver(finalConfig *finalConfiguration) *observability.StandardObserver {
	switch {
	case finalConfig.debug:
		debugObs := observability.NewDebugObserver(os.Stderr)
		observer := observability.NewStandardObserver(observability.ObservabilityDebug, os.Stderr)
		observer.DebugObserver = debugObs
		return observer
	case finalConfig.verbose:
		return observability.NewStandardObserver(observability.ObservabilityMetrics, os.Stderr)
	default:
		return observability.NewStandardObserver(observability.ObservabilityOff, os.Stderr)
	}
}

func handleHelp(args []string, noColor bool) {
	helpSystem := help.NewSystem(noColor)
	if len(args) == 0 {
		helpSystem.ShowGeneralHelp()
		return
	}
	if strings.EqualFold(args[0], "types") {
		helpSystem.ShowTypesHelp()
		return
	}
	if !helpSystem.ShowTypeHelp(strings.Join(args, " ")) {
		os.Exit(1)
	}
}

func handleListProfiles(cfg *config.Config, configFile string) {
	profiles := cfg.ListProfiles()
	if len(profiles) == 0 {
		fmt.Println("No profiles defined.")
		return
	}
	source := configFile
	if source == "" {
		source = "built-in defaults"
	}
	fmt.Printf("Profiles (%s):\n", source)
	for _, name := range profiles {
		profile := cfg.GetProfile(name)
		if profile != nil && profile.Description != "" {
			fmt.Printf("  %-12s %s\n", name, profile.Description)
		} else {
			fmt.Printf("  %s\n", name)
		}
	}
}

// isTerminal checks if the file descriptor is a terminal
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
