package main

import (
	"fmt"
	"os"

	"github.com/flanksource/clicky"
	"github.com/spf13/cobra"

	"github.com/flanksource/wordpaste/markup"
)

var compareOptions struct {
	filters     []string
	noFixStyles bool
}

var compareCmd = &cobra.Command{
	Use:   "compare <actual> <expected>",
	Short: "Structurally compare two HTML files the way paste cases are compared",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		actual, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		expected, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[1], err)
		}

		filters, err := markup.Lookup(compareOptions.filters...)
		if err != nil {
			return err
		}

		result, err := markup.Beautified{}.Compare(string(actual), string(expected), markup.Options{
			FixStyles:      !compareOptions.noFixStyles,
			SortAttributes: true,
			Filters:        filters,
		})
		if err != nil {
			return err
		}

		if result.Equal {
			fmt.Println(clicky.Text("✓ equivalent", "text-green-500").ANSI())
			return nil
		}
		fmt.Println(clicky.Text("✗ "+args[0]+" does not match "+args[1], "text-red-500").ANSI())
		fmt.Println(result.Diff)
		exitCode = 1
		return nil
	},
	SilenceUsage: true,
}

func init() {
	compareCmd.Flags().StringSliceVar(&compareOptions.filters, "filter", nil,
		fmt.Sprintf("Filters applied to both sides, one of %v", markup.DefaultRegistry.List()))
	compareCmd.Flags().BoolVar(&compareOptions.noFixStyles, "no-fix-styles", false, "Compare inline styles verbatim")
	rootCmd.AddCommand(compareCmd)
}
