package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"toknames/internal/config"
	"toknames/internal/diag"
	"toknames/internal/diagfmt"
	"toknames/internal/driver"
	"toknames/internal/emit"
	"toknames/internal/log"
	"toknames/internal/observ"
	"toknames/internal/stamp"
	"toknames/internal/tokentab"
)

const noManifestMessage = "no " + config.FileName + " found\nplease name the input explicitly, e.g.:\n  toknames generate parser.h toknames.c"

var generateCmd = &cobra.Command{
	Use:   "generate [flags] [input [output]]",
	Short: "Write token name tables",
	Long: `Generate reads token definitions and writes the name table.

Without arguments every [[table]] of the nearest toknames.toml is generated.
With an input file a single table is written to output (default toknames.c,
"-" for stdout).`,
	Args: cobra.MaximumNArgs(2),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("format", "c", "output format (c|go|json)")
	generateCmd.Flags().String("name", emit.DefaultName, "name of the generated array")
	generateCmd.Flags().String("package", emit.DefaultPackage, "package clause for --format go")
	generateCmd.Flags().Int("jobs", 0, "max parallel jobs (0=auto)")
	generateCmd.Flags().Int("max-code", 0, "largest accepted token code (0=default)")
	generateCmd.Flags().Bool("force", false, "regenerate outputs that are up to date")
	generateCmd.Flags().Bool("no-cache", false, "do not read or write up-to-date stamps")
	generateCmd.Flags().String("config", "", "path to toknames.toml (default: search upwards)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	jobsFlag, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return fmt.Errorf("failed to get force flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}

	var jobs []driver.Job
	parallel := jobsFlag
	if len(args) > 0 {
		job, err := jobFromArgs(cmd, args)
		if err != nil {
			return err
		}
		jobs = []driver.Job{job}
	} else {
		manifest, err := loadManifest(cmd)
		if err != nil {
			return err
		}
		if err := applyManifestLogging(cmd, manifest.Config.Log); err != nil {
			return err
		}
		jobs, err = jobsFromManifest(cmd, manifest)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("jobs") {
			parallel = manifest.Config.Generate.Jobs
		}
	}

	opts := driver.Options{
		Stdout: cmd.OutOrStdout(),
		Force:  force,
		Jobs:   parallel,
	}
	if !noCache {
		store, err := stamp.OpenDefault("toknames")
		if err != nil {
			log.Warn("up-to-date stamps disabled", zap.Error(err))
		} else {
			opts.Stamps = store
		}
	}

	results, err := driver.RunAll(cmd.Context(), jobs, opts)
	if err != nil {
		return reportGenerateError(cmd, err)
	}
	if !isQuiet(cmd) {
		printResults(cmd.ErrOrStderr(), results)
	}
	if timings, _ := cmd.Root().PersistentFlags().GetBool("timings"); timings {
		reports := make([]observ.Report, len(results))
		for i, res := range results {
			reports[i] = res.Timings
		}
		if err := observ.Sum(reports...).WriteSummary(cmd.ErrOrStderr()); err != nil {
			return err
		}
	}
	return nil
}

func jobFromArgs(cmd *cobra.Command, args []string) (driver.Job, error) {
	opts, err := emitOptionsFromFlags(cmd)
	if err != nil {
		return driver.Job{}, err
	}
	maxCode, err := cmd.Flags().GetInt("max-code")
	if err != nil {
		return driver.Job{}, fmt.Errorf("failed to get max-code flag: %w", err)
	}
	output := emit.DefaultName + opts.Format.Ext()
	if len(args) > 1 {
		output = args[1]
	}
	return driver.Job{Input: args[0], Output: output, Emit: opts, MaxCode: maxCode}, nil
}

func emitOptionsFromFlags(cmd *cobra.Command) (emit.Options, error) {
	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return emit.Options{}, fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := emit.ParseFormat(formatStr)
	if err != nil {
		return emit.Options{}, err
	}
	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return emit.Options{}, fmt.Errorf("failed to get name flag: %w", err)
	}
	pkg, err := cmd.Flags().GetString("package")
	if err != nil {
		return emit.Options{}, fmt.Errorf("failed to get package flag: %w", err)
	}
	return emit.Options{Format: format, Name: name, Package: pkg}, nil
}

func loadManifest(cmd *cobra.Command) (*config.Manifest, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.Load(path)
	}
	manifest, ok, err := config.Discover(".")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New(noManifestMessage)
	}
	return manifest, nil
}

// jobsFromManifest turns [[table]] entries into jobs. --max-code, when set,
// overrides every table.
func jobsFromManifest(cmd *cobra.Command, m *config.Manifest) ([]driver.Job, error) {
	maxFlag, err := cmd.Flags().GetInt("max-code")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-code flag: %w", err)
	}
	jobs := make([]driver.Job, 0, len(m.Config.Tables))
	for _, t := range m.Config.Tables {
		format, err := emit.ParseFormat(t.Format)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", m.Path, err)
		}
		maxCode := m.Config.EffectiveMaxCode(t)
		if cmd.Flags().Changed("max-code") {
			maxCode = maxFlag
		}
		jobs = append(jobs, driver.Job{
			Input:   m.Resolve(t.Input),
			Output:  m.Resolve(t.Output),
			Emit:    emit.Options{Format: format, Name: t.Name, Package: t.Package},
			MaxCode: maxCode,
		})
	}
	return jobs, nil
}

// reportGenerateError prints malformed records as diagnostics; other errors
// are returned for main to print.
func reportGenerateError(cmd *cobra.Command, err error) error {
	var mre *tokentab.MalformedRecordError
	if !errors.As(err, &mre) {
		return err
	}
	var path string
	var jerr *driver.JobError
	if errors.As(err, &jerr) {
		path = jerr.Path
	}
	bag := diag.NewBag(1)
	bag.Add(diag.FromError(path, mre))
	_ = diagfmt.Pretty(cmd.ErrOrStderr(), bag, diagfmt.PrettyOpts{
		Color:    useColor(cmd, cmd.ErrOrStderr()),
		ShowText: true,
	})
	return errDiagnostics
}

func printResults(w io.Writer, results []driver.Result) {
	for _, res := range results {
		if res.Job.Output == driver.Stdout {
			continue
		}
		if res.Skipped {
			fmt.Fprintf(w, "up to date %s\n", res.Job.Output)
			continue
		}
		fmt.Fprintf(w, "wrote %s (%d entries, %d unused)\n", res.Job.Output, res.Entries, res.Holes)
	}
}
