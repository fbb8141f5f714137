package commands

import (
	"github.com/spf13/cobra"

	"go.trai.ch/gourmet/internal/adapters/config"
)

func (c *CLI) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Compile in watch mode and serve the rendered pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := options(cmd)
			if err := serveOverrides(cmd, &opts.Overrides); err != nil {
				return err
			}
			opts.NoWatch, _ = cmd.Flags().GetBool("no-watch")
			return c.app.Serve(cmd.Context(), opts)
		},
	}

	cmd.Flags().String("host", "", "Address to bind the HTTP server to")
	cmd.Flags().IntP("port", "p", 0, "HTTP server port")
	cmd.Flags().String("static-prefix", "", "URL prefix client assets are served under")
	cmd.Flags().String("render-url", "", "Forward page renders to this render server")
	cmd.Flags().Duration("watch-delay", 0, "Wait this long after a change before rebuilding")
	cmd.Flags().String("watch-poll", "", "Poll for changes: true or an interval in milliseconds")
	cmd.Flags().StringSlice("watch-ignore", nil, "Glob patterns of paths that never trigger a rebuild")
	cmd.Flags().Bool("watch-fs", false, "Write compiled output to disk instead of memory")
	cmd.Flags().Int("watch-port", 0, "Port of the hot update channel")
	cmd.Flags().Bool("no-watch", false, "Serve previously built output without compiling")
	return cmd
}

func serveOverrides(cmd *cobra.Command, o *config.Overrides) error {
	flags := cmd.Flags()

	o.Host = changed(cmd, "host", flags.GetString)
	o.Port = changed(cmd, "port", flags.GetInt)
	o.StaticPrefix = changed(cmd, "static-prefix", flags.GetString)
	o.RenderURL = changed(cmd, "render-url", flags.GetString)
	o.WatchDelay = changed(cmd, "watch-delay", flags.GetDuration)
	o.WatchFS = changed(cmd, "watch-fs", flags.GetBool)
	o.WatchPort = changed(cmd, "watch-port", flags.GetInt)
	o.WatchIgnore, _ = flags.GetStringSlice("watch-ignore")

	if flags.Changed("watch-poll") {
		raw, _ := flags.GetString("watch-poll")
		poll, err := config.ParsePoll(raw)
		if err != nil {
			return err
		}
		o.WatchPoll = &poll
	}
	return nil
}

// changed returns a pointer to the flag value when it was set explicitly.
func changed[T any](cmd *cobra.Command, name string, get func(string) (T, error)) *T {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := get(name)
	if err != nil {
		return nil
	}
	return &v
}
