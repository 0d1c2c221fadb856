package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/flanksource/wordpaste/fixtures"
)

var runOptions struct {
	base        string
	exec        string
	args        []string
	filter      string
	timeout     time.Duration
	showSkipped bool
}

var runCmd = &cobra.Command{
	Use:   "run [suite-files...]",
	Short: "Paste every case through an external filter command and compare the output",
	Long: `Runs the cases of the given suites, or of the discovered fixture tree, against an
external paste filter. The command receives {"html", "rtf", "expected", "raw"} as JSON on
stdin and answers with {"actual"} on stdout.`,
	RunE:         runRun,
	SilenceUsage: true,
}

func runRun(cmd *cobra.Command, args []string) error {
	suites, err := loadSuites(args, layout)
	if err != nil {
		return err
	}

	for _, suite := range suites {
		if runOptions.base != "" {
			suite.Base = runOptions.base
			if len(args) == 0 {
				// discovered suites are rooted at --root, which now lives under --base
				suite.Root = layout.Root
			}
		}
		if runOptions.exec != "" {
			suite.Command = runOptions.exec
			suite.Args = runOptions.args
		}
	}

	runner := fixtures.NewRunner(fixtures.RunnerOptions{
		Suites:      suites,
		Filter:      runOptions.filter,
		Timeout:     runOptions.timeout,
		ShowSkipped: runOptions.showSkipped,
	})
	if err := runner.Run(); err != nil {
		exitCode = 1
		return err
	}
	return nil
}

func init() {
	runCmd.Flags().StringVar(&runOptions.base, "base", "", "Directory or URL fixture paths are resolved against")
	runCmd.Flags().StringVar(&runOptions.exec, "exec", "", "Paste filter command, overrides the suite")
	runCmd.Flags().StringSliceVar(&runOptions.args, "arg", nil, "Paste filter arguments (gomplate templates with .raw and .workDir)")
	runCmd.Flags().StringVar(&runOptions.filter, "filter", "", "Only run cases matching name/wordVersion/browser (glob)")
	runCmd.Flags().DurationVar(&runOptions.timeout, "timeout", 2*time.Minute, "Timeout per case")
	runCmd.Flags().BoolVar(&runOptions.showSkipped, "show-skipped", false, "Show skipped cases")
	rootCmd.AddCommand(runCmd)
}
