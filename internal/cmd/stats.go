package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// StatsCmd returns the `campus stats` command.
func StatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show event, student, registration and feedback totals",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			env, err := LoadEnv(c, c.ErrOrStderr())
			if err != nil {
				return err
			}
			defer env.Close()

			stats, err := env.Client.Stats(c.Context())
			if err != nil {
				return fmt.Errorf("load stats: %w", err)
			}

			w := tabwriter.NewWriter(c.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Events\t%d\n", stats.Events)
			fmt.Fprintf(w, "Students\t%d\n", stats.Students)
			fmt.Fprintf(w, "Registrations\t%d\n", stats.Registrations)
			fmt.Fprintf(w, "Avg feedback\t%.1f\n", stats.AvgFeedback)
			return w.Flush()
		},
	}
}

// PingCmd returns the `campus ping` command.
func PingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the campus API answers",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			env, err := LoadEnv(c, c.ErrOrStderr())
			if err != nil {
				return err
			}
			defer env.Close()

			message, err := env.Client.Health(c.Context())
			if err != nil {
				return fmt.Errorf("API unreachable at %s: %w", env.Client.BaseURL(), err)
			}
			if message == "" {
				message = "ok"
			}
			fmt.Fprintf(c.OutOrStdout(), "%s: %s\n", env.Client.BaseURL(), message)
			return nil
		},
	}
}

// VersionCmd returns the `campus version` command.
func VersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the campus version",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, _ []string) {
			fmt.Fprintf(c.OutOrStdout(), "campus %s\n", version)
		},
	}
}
