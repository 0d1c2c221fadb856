package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/flanksource/clicky"
	"github.com/flanksource/clicky/shutdown"
	"github.com/flanksource/commons/logger"
	"github.com/spf13/cobra"

	"github.com/flanksource/wordpaste/fixtures"
)

var (
	version = "dev"

	// workDir is the resolved --cwd, relative suite patterns and discovery start here
	workDir string
	// layout is shared by every command that resolves fixture paths
	layout   fixtures.Layout
	exitCode int
)

var rootCmd = &cobra.Command{
	Use:   "wordpaste",
	Short: "Run paste-from-Word fixtures against an editor's paste filter",
	Long: `Cases are named fixtures captured from a Word version in a browser:

  {root}/{name}/{word}/{browser}.html      captured markup
  {root}/{name}/{word}/{browser}.rtf       captured rich-binary
  {root}/{name}/expected.html              expected output
  {root}/{name}/{word}/expected_{browser}.html

Suites list the cases to run in a YAML file or a markdown table. Without suites the
fixture tree under --root is discovered.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		clicky.Flags.UseFlags()
		for _, ext := range []string{layout.MarkupExt, layout.BinaryExt} {
			if !strings.HasPrefix(ext, ".") {
				return fmt.Errorf("fixture extension %q must start with a dot", ext)
			}
		}
		return resolveWorkDir()
	},
}

func resolveWorkDir() error {
	if workDir == "" {
		wd, err := os.Getwd()
		workDir = wd
		return err
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}
	if info, err := os.Stat(absPath); err != nil {
		return fmt.Errorf("working directory does not exist: %w", err)
	} else if !info.IsDir() {
		return fmt.Errorf("working directory is not a directory: %s", absPath)
	}
	workDir = absPath
	return nil
}

func buildVersion() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return version
}

func init() {
	clicky.BindAllFlags(rootCmd.PersistentFlags(), "format")
	logger.Configure(logger.Flags{LogToStderr: true, Color: true})

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&workDir, "cwd", "", "Working directory")
	flags.StringVar(&layout.Root, "root", fixtures.DefaultRoot, "Fixture root directory")
	flags.StringVar(&layout.MarkupExt, "markup-ext", fixtures.DefaultMarkupExt, "Extension of the captured markup")
	flags.StringVar(&layout.BinaryExt, "binary-ext", fixtures.DefaultBinaryExt, "Extension of the captured rich-binary")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("wordpaste %s (go: %s)\n", buildVersion(), runtime.Version())
		},
	})
}

func main() {
	defer shutdown.RecoverAndShutdown()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
