// Command stego embeds and recovers arbitrary files or directories inside
// carrier images, and reports on the process (spec.md §6). It follows the
// teacher's sdmconfig/main.go shape: flag-based subcommand dispatch, a
// slog handler configurable by verbosity and format, and every fatal path
// routed through a single exit-code mapping rather than ad hoc os.Exit
// calls scattered through the subcommands.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/barnettlynn/stegoform/internal/stegoerr"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return stegoerr.Arg("missing subcommand").Kind.ExitCode()
	}

	sub := args[0]
	rest := args[1:]

	switch sub {
	case "embed":
		return dispatch(runEmbed(rest))
	case "extract":
		return dispatch(runExtract(rest))
	case "metrics":
		return dispatch(runMetrics(rest))
	case "bench":
		return dispatch(runBench(rest))
	case "-h", "--help", "help":
		printUsage()
		return 0
	default:
		printUsage()
		return stegoerr.Arg("unknown subcommand %q", sub).Kind.ExitCode()
	}
}

func dispatch(err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintln(os.Stderr, err)
	slog.Debug("command failed", "error", err)
	return stegoerr.ExitCode(err)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `stego - hide files inside carrier images and recover them bit-exactly

Usage:
  stego embed   -m {append|dct} -c <cover> -p <payload> -o <stego> [options]
  stego extract -s <stego> -o <out_dir> [options]
  stego metrics --cover <A> --stego <B>
  stego bench   --covers <dir> --payload <F> -m {append|dct} --report <csv>

Global flags (per subcommand): -v, -vv, --log-format {text|json}`)
}

// configureLogging installs the default slog handler for the remainder of
// the process according to -v/-vv/--log-format, following the teacher's
// sdmconfig/main.go slog setup.
func configureLogging(verbose, veryVerbose bool, format string) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	if veryVerbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// newFlagSet builds a FlagSet pre-wired with the -v/-vv/--log-format
// globals shared by every subcommand.
func newFlagSet(name string) (*flag.FlagSet, *bool, *bool, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	v := fs.Bool("v", false, "enable INFO-level logging")
	vv := fs.Bool("vv", false, "enable DEBUG-level logging")
	logFormat := fs.String("log-format", "text", "log format: text or json")
	return fs, v, vv, logFormat
}
