// Command robotrace renders a JSONL stream of test lifecycle events as
// a live terminal trace with a progress box. It is the host integration
// layer: a runner (or a recorded trace file) supplies the events, the
// core packages do the rendering.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jsimmonds/robotrace/pkg/config"
	"github.com/jsimmonds/robotrace/pkg/events"
	"github.com/jsimmonds/robotrace/pkg/listener"
)

// Version is set at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

// Exit codes follow the runner convention: the failure count (capped)
// on test failures, 252 for bad options or a malformed event stream,
// 130 on interrupt.
const (
	maxFailureExit  = 250
	exitBadInput    = 252
	exitInterrupted = 130
)

var (
	flagVerbosity string
	flagColors    string
	flagProgress  string
	flagWidth     int
	flagManifest  string
)

var rootCmd = &cobra.Command{
	Use:   "robotrace [trace.jsonl]",
	Short: "Live terminal trace and progress for hierarchical test runs",
	Long: "robotrace — renders a stream of suite/test/keyword lifecycle events as an\n" +
		"incrementally printed trace plus a fixed progress box with elapsed time and\n" +
		"an ETA. Reads JSONL events from the given file, or stdin when omitted.",
	Args:          cobra.MaximumNArgs(1),
	RunE:          runRender,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("robotrace %s (%s)\n", version, commit)
	},
}

func init() {
	rootCmd.Flags().StringVar(&flagVerbosity, "verbosity", "NORMAL", "trace verbosity: QUIET, NORMAL or DEBUG")
	rootCmd.Flags().StringVar(&flagColors, "colors", "AUTO", "colorize output: AUTO, ON, ANSI or OFF")
	rootCmd.Flags().StringVar(&flagProgress, "console-progress", "AUTO", "progress box destination: AUTO, STDOUT, STDERR or NONE")
	rootCmd.Flags().IntVar(&flagWidth, "width", config.DefaultWidth, "display width in columns")
	rootCmd.Flags().StringVar(&flagManifest, "manifest", "", "write a YAML run manifest to this path")
	rootCmd.AddCommand(versionCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := config.Build(config.Options{
		Verbosity: flagVerbosity,
		Colors:    flagColors,
		Progress:  flagProgress,
		Width:     flagWidth,
	})
	if err != nil {
		return err
	}

	var in io.Reader = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open event stream: %w", err)
		}
		defer f.Close()
		in = f
	}

	lst := listener.New(cfg, os.Stdout)

	// The listener's Close retracts the box and restores cursor state,
	// so an interrupt never leaves the terminal mid-region.
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigc
		lst.Close()
		os.Exit(exitInterrupted)
	}()

	dec := events.NewDecoder(in)
	for {
		ev, err := dec.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			lst.Close()
			return err
		}
		lst.Dispatch(ev)
	}
	lst.Close()

	if flagManifest != "" {
		if err := lst.WriteManifest(flagManifest); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}

	if failed := lst.Totals().Failed; failed > 0 {
		if failed > maxFailureExit {
			failed = maxFailureExit
		}
		os.Exit(failed)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitBadInput)
	}
}
