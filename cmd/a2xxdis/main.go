// Package main provides the a2xxdis command-line disassembler.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/a2xxdis/disasm"
	"github.com/sarchlab/a2xxdis/loader"
)

var (
	rawWords    bool
	unknownBits bool
	hexInput    bool
	level       int
	configPath  string
	verbose     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "a2xxdis <shader.bin>",
		Short: "Disassembler for Adreno A2xx shader microcode",
		Long: "a2xxdis decodes dumps of Adreno A2xx shader microcode into a readable\n" +
			"listing. Unrecognized opcodes and mismatched control-flow ranges never\n" +
			"abort the decode; they are marked inline with '?'.",
		Args:          cobra.ExactArgs(1),
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.Flags().BoolVar(&rawWords, "raw", false,
		"echo the raw words of every slot")
	rootCmd.Flags().BoolVar(&unknownBits, "unknown", false,
		"echo each word with decoded bits masked off")
	rootCmd.Flags().BoolVar(&hexInput, "hex", false,
		"treat the input as a text dump of hex words")
	rootCmd.Flags().IntVar(&level, "level", 0,
		"indentation level of the listing")
	rootCmd.Flags().StringVar(&configPath, "config", "",
		"path to an output configuration JSON file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"print a decode summary to stderr")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	config := disasm.DefaultConfig()
	if configPath != "" {
		loaded, err := disasm.LoadConfig(configPath)
		if err != nil {
			return err
		}
		config = loaded
	}
	// Explicit flags override the config file.
	if cmd.Flags().Changed("raw") {
		config.ShowRawWords = rawWords
	}
	if cmd.Flags().Changed("unknown") {
		config.ShowUnknownBits = unknownBits
	}

	load := loader.Load
	if hexInput {
		load = loader.LoadHex
	}
	prog, err := load(args[0])
	if err != nil {
		return err
	}

	d := disasm.New(disasm.WithConfig(config))
	report, err := d.Disassemble(prog.Words, level)
	if err != nil {
		return fmt.Errorf("cannot disassemble %s: %w", prog.Path, err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "\nShader: %s\n", prog.Path)
		fmt.Fprintf(os.Stderr, "Slots: %d\n", report.Slots)
		fmt.Fprintf(os.Stderr, "CF entries: %d\n", len(report.Entries))
		fmt.Fprintf(os.Stderr, "Instructions: %d\n", len(report.Instructions))
		fmt.Fprintf(os.Stderr, "Desync markers: %d\n", report.Desyncs)
		fmt.Fprintf(os.Stderr, "Warnings: %d\n", len(report.Warnings))
	}

	return nil
}
