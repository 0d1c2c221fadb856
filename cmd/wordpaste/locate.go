package main

import (
	"fmt"

	"github.com/flanksource/clicky"
	"github.com/spf13/cobra"

	"github.com/flanksource/wordpaste/fixtures"
)

var locateCase fixtures.Descriptor

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Print the fixture paths of a case",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if locateCase.Name == "" || locateCase.WordVersion == "" || locateCase.Browser == "" {
			return fmt.Errorf("--name, --word and --browser are required")
		}
		fmt.Println(clicky.MustFormat(layout.Resolve(locateCase)))
		return nil
	},
	SilenceUsage: true,
}

func init() {
	locateCmd.Flags().StringVar(&locateCase.Name, "name", "", "Fixture name, e.g. table")
	locateCmd.Flags().StringVar(&locateCase.WordVersion, "word", "", "Word version, e.g. 2016")
	locateCmd.Flags().StringVar(&locateCase.Browser, "browser", "", "Browser, e.g. chrome")
	rootCmd.AddCommand(locateCmd)
}
