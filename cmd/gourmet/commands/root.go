// Package commands implements the CLI commands for gourmet.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"go.trai.ch/gourmet/internal/app"
	"go.trai.ch/gourmet/internal/build"
)

// CLI represents the command line interface for gourmet.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	ConfigureLogging(jsonOutput, verbose bool)
	Serve(ctx context.Context, opts app.Options) error
	Build(ctx context.Context, opts app.Options) error
	Clean(ctx context.Context, opts app.Options) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "gourmet",
		Short:         "Build and serve server-rendered web bundles",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().String("dir", ".", "Directory to start searching for gourmet.yaml from")
	rootCmd.PersistentFlags().String("stage", "", "Build stage passed to the build commands")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Show debug output, including build command output")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		jsonOutput, _ := cmd.Flags().GetBool("log-json")
		verbose, _ := cmd.Flags().GetBool("verbose")
		c.app.ConfigureLogging(jsonOutput, verbose)
	}

	rootCmd.AddCommand(c.newServeCmd())
	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// options reads the flags shared by every command.
func options(cmd *cobra.Command) app.Options {
	dir, _ := cmd.Flags().GetString("dir")
	opts := app.Options{Dir: dir}
	if cmd.Flags().Changed("stage") {
		stage, _ := cmd.Flags().GetString("stage")
		opts.Overrides.Stage = &stage
	}
	return opts
}
