// Package main provides the MemSim command-line interface: an interactive
// memory-management and cache simulator session, a script runner, and a
// workload benchmark mode.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/memsim/config"
	"github.com/sarchlab/memsim/monitoring"
	"github.com/sarchlab/memsim/session"
	"github.com/sarchlab/memsim/trace"
	"github.com/sarchlab/memsim/workloads"
)

var (
	scriptPath  string
	configPath  string
	recordName  string
	monitorPort int
	openBrowser bool

	csvOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "memsim",
	Short: "MemSim simulates dynamic memory allocation and a two-level cache.",
	Long: `MemSim simulates dynamic memory allocation over a fixed pool under ` +
		`pluggable placement strategies, and the hit/miss behavior of a ` +
		`two-level direct-mapped cache with FIFO replacement. By default it ` +
		`runs an interactive session reading commands from stdin.`,
	RunE: runSession,
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run the standard workload set and report figures.",
	RunE:  runBench,
}

func init() {
	rootCmd.Flags().StringVar(&scriptPath, "script", "",
		"execute commands from a file instead of stdin")
	rootCmd.Flags().StringVar(&configPath, "config", "",
		"path to a geometry configuration JSON file")
	rootCmd.Flags().StringVar(&recordName, "record", "",
		"record events into <name>.sqlite3 (empty name picks a run id)")
	rootCmd.Flags().Lookup("record").NoOptDefVal = "memsim"
	rootCmd.Flags().IntVar(&monitorPort, "monitor", 0,
		"serve live stats over HTTP on the given port (0 picks one)")
	rootCmd.Flags().BoolVar(&openBrowser, "open", false,
		"open the monitoring URL in a browser")

	benchCmd.Flags().BoolVar(&csvOutput, "csv", false,
		"emit results as CSV")

	rootCmd.AddCommand(benchCmd)
}

func runSession(cmd *cobra.Command, _ []string) error {
	opts := []session.Option{}

	var recorder *trace.Recorder
	if cmd.Flags().Changed("record") {
		r, err := trace.NewRecorder(recordName)
		if err != nil {
			return err
		}
		recorder = r
		opts = append(opts, session.WithRecorder(recorder))
	}

	s := session.New(opts...)

	if configPath != "" {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if err := s.ApplyConfig(cfg); err != nil {
			return err
		}
	}

	if cmd.Flags().Changed("monitor") {
		monitor := monitoring.NewMonitor(s)
		if monitorPort != 0 {
			monitor.WithPortNumber(monitorPort)
		}
		url, err := monitor.StartServer()
		if err != nil {
			return err
		}
		if openBrowser {
			monitor.OpenBrowser(url)
		}
	}

	if scriptPath != "" {
		f, err := os.Open(scriptPath)
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer f.Close()

		err = s.RunScript(f)
		s.Flush()
		return err
	}

	s.Run(os.Stdin)
	s.Flush()
	return nil
}

func runBench(cmd *cobra.Command, _ []string) error {
	harness := workloads.NewHarness(workloads.HarnessConfig{
		Output: cmd.OutOrStdout(),
	})
	harness.AddWorkloads(workloads.GetWorkloads())

	results := harness.RunAll()
	if csvOutput {
		harness.PrintCSV(results)
	} else {
		harness.PrintResults(results)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
