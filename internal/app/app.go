// Package app implements the llm-news CLI commands.
package app

import (
	"fmt"
	"os"
	"strings"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "run":
		return runPipeline(args[1:])
	case "collect":
		return runCollect(args[1:])
	case "dedup":
		return runDedup(args[1:])
	case "history":
		return runHistory(args[1:])
	case "validate":
		return runValidate(args[1:])
	case "serve":
		return runServe(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "llm-news CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  llm-news <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  run       Run the full daily pipeline: collect, dedup, LLM, output")
	fmt.Fprintln(os.Stderr, "  collect   Collect items from all sources and write them as JSON")
	fmt.Fprintln(os.Stderr, "  dedup     Deduplicate a JSON item file against the history")
	fmt.Fprintln(os.Stderr, "  history   Show or trim the dedup history file")
	fmt.Fprintln(os.Stderr, "  validate  Validate collected item JSON files against the schema")
	fmt.Fprintln(os.Stderr, "  serve     Start the report web server")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"llm-news <command> -h\" for command-specific flags.")
}
