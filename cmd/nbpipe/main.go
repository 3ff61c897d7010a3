package main

import (
	"fmt"
	"os"
)

func main() {
	// Bare invocation runs the full fixed sequence.
	if len(os.Args) < 2 {
		os.Exit(runCmd(nil))
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runCmd(os.Args[2:]))
	case "validate":
		os.Exit(validateCmd(os.Args[2:]))
	case "version", "--version":
		fmt.Println(versionLine())
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`nbpipe — sequential notebook pipeline runner

Usage:
  nbpipe [command] [flags]

Commands:
  run          Execute the pipeline (default when no command is given)
  validate     Check a pipeline config without running it
  version      Show version
  help         Show this message

Running with no arguments executes the built-in four-stage analysis
pipeline: exploration, missing-data, transformation, aggregation. Each
stage executes its notebook in place via jupyter nbconvert; the first
failure stops the run and sets a stage-specific exit code (4-7 for the
default stages). Lifecycle events are appended to pipeline_log.txt.

Run 'nbpipe run -h' for flags.`)
}
