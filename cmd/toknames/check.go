package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"toknames/internal/diag"
	"toknames/internal/diagfmt"
	"toknames/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] input...",
	Short: "Report malformed and duplicate token definitions",
	Long: `Check validates token definition files without writing anything. Every
malformed line is an error; codes defined twice are warnings.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().Int("max-code", 0, "largest accepted token code (0=default)")
	checkCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	maxCode, err := cmd.Flags().GetInt("max-code")
	if err != nil {
		return fmt.Errorf("failed to get max-code flag: %w", err)
	}
	strict, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	all := diag.NewBag(maxDiagnostics)
	for _, path := range args {
		bag, err := driver.Check(path, maxCode, maxDiagnostics)
		if err != nil {
			all.Add(diag.FromError(path, err))
			continue
		}
		all.Merge(bag)
	}
	all.Sort()

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		err = diagfmt.JSON(out, all, diagfmt.JSONOpts{Max: maxDiagnostics, IncludeText: true})
	default:
		if all.Len() > 0 || !isQuiet(cmd) {
			err = diagfmt.Pretty(out, all, diagfmt.PrettyOpts{
				Color:    useColor(cmd, out),
				ShowText: true,
				Summary:  true,
			})
		}
	}
	if err != nil {
		return err
	}
	if all.HasErrors() || (strict && all.HasWarnings()) {
		return errDiagnostics
	}
	return nil
}
