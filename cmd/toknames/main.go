package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"toknames/internal/log"
	"toknames/internal/version"
)

// errDiagnostics means findings were already printed; main only sets the exit code.
var errDiagnostics = errors.New("diagnostics reported errors")

var rootCmd = &cobra.Command{
	Use:   "toknames",
	Short: "Generate token name tables from parser generator output",
	Long: `toknames reads token definitions ("#define NAME 258" lines of a yacc/bison
header) and writes a dense array mapping every token code to its name.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text|json)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
}

// main sets the version, runs the root command and maps any failure to exit
// status 1.
func main() {
	rootCmd.Version = version.Version
	err := rootCmd.Execute()
	_ = log.Sync()
	if err != nil {
		if !errors.Is(err, errDiagnostics) {
			printError(os.Stderr, err, useColor(rootCmd, os.Stderr))
		}
		os.Exit(1)
	}
}

func printError(w io.Writer, err error, colored bool) {
	label := color.New(color.FgRed, color.Bold)
	if colored {
		label.EnableColor()
	} else {
		label.DisableColor()
	}
	fmt.Fprintf(w, "%s %v\n", label.Sprint("error:"), err)
}

// useColor resolves --color against the stream the output goes to.
func useColor(cmd *cobra.Command, w io.Writer) bool {
	mode, _ := cmd.Root().PersistentFlags().GetString("color")
	switch mode {
	case "on":
		return true
	case "off":
		return false
	}
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func isQuiet(cmd *cobra.Command) bool {
	q, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	return q
}
