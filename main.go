// Package main provides the entry point for a2xxdis.
// a2xxdis is a disassembler for Adreno A2xx shader microcode.
//
// For the full CLI, use: go run ./cmd/a2xxdis
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("a2xxdis - Adreno A2xx shader microcode disassembler")
	fmt.Println("")
	fmt.Println("Usage: a2xxdis [options] <shader.bin>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  --raw      Echo the raw words of every slot")
	fmt.Println("  --unknown  Echo each word with decoded bits masked off")
	fmt.Println("  --hex      Treat the input as a text dump of hex words")
	fmt.Println("  --config   Path to output configuration JSON file")
	fmt.Println("  -v         Print a decode summary")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/a2xxdis' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/a2xxdis' instead.")
	}
}
