package main

import (
	"context"
	"fmt"

	"github.com/flanksource/clicky"
	"github.com/flanksource/commons/logger"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/flanksource/wordpaste/fixtures"
)

var scanCmd = &cobra.Command{
	Use:   "scan [suite-files...]",
	Short: "Report which cases are ready, skipped or missing fixtures without pasting",
	Long: `Loads the fixtures of every case and reports whether it would be skipped, is missing
an input or expected fixture, or is ready to run. Without suite files the fixture tree under
--root is discovered.`,
	RunE:         runScan,
	SilenceUsage: true,
}

func runScan(cmd *cobra.Command, args []string) error {
	suites, err := loadSuites(args, layout)
	if err != nil {
		return err
	}

	var total fixtures.Stats
	for _, suite := range suites {
		descriptors, err := suite.Descriptors(nil)
		if err != nil {
			return err
		}

		node := fixtures.NewSuiteNode(suite.Name, descriptors)
		evaluator := suite.Evaluator()

		g, ctx := errgroup.WithContext(context.Background())
		if clicky.Flags.MaxConcurrent > 0 {
			g.SetLimit(clicky.Flags.MaxConcurrent)
		}
		node.Walk(func(c *fixtures.FixtureNode) {
			g.Go(func() error {
				outcome, _ := evaluator.Inspect(ctx, *c.Case)
				result := fixtures.NewFixtureResult(outcome)
				c.Results = &result
				return nil
			})
		})
		_ = g.Wait()

		node.UpdateStats()
		total = total.Merge(node.GetStats())
		fmt.Println(clicky.MustFormat(*node))
	}

	logger.Infof("%s", total.String())
	if total.HasFailures() {
		exitCode = 1
	}
	return nil
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
