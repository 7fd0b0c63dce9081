// Package main provides the entry point for MemSim.
// MemSim is a memory-management and multi-level cache simulator.
//
// For the full CLI, use: go run ./cmd/memsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("MemSim - Memory Management & Cache Simulator")
	fmt.Println("")
	fmt.Println("Usage: memsim [options]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  --script   Execute commands from a file")
	fmt.Println("  --config   Path to a geometry configuration JSON file")
	fmt.Println("  --record   Record events into a SQLite database")
	fmt.Println("  --monitor  Serve live stats over HTTP")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/memsim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/memsim' instead.")
	}
}
