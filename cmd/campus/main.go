package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gravitrone/campus/cli/internal/cmd"
	"github.com/gravitrone/campus/cli/internal/resources"
	"github.com/gravitrone/campus/cli/internal/ui"
)

var version = "dev"

var errNotInteractive = errors.New("the campus TUI needs an interactive terminal; try 'campus events list'")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	os.Setenv("COLORTERM", "truecolor")
}

func newRootCmd() *cobra.Command {
	var collegeID int64
	root := &cobra.Command{
		Use:   "campus",
		Short: "Campus - event manager",
		Long:  "Campus CLI: manage events, students and feedback against the campus API.",
		RunE: func(c *cobra.Command, _ []string) error {
			return runTUI(c, collegeID)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String(cmd.FlagConfig, "", "config file (default ~/.campus/config.yaml, or $CAMPUS_CONFIG)")
	root.PersistentFlags().String(cmd.FlagBaseURL, "", "API base URL (overrides config and $CAMPUS_BASE_URL)")
	root.Flags().Int64Var(&collegeID, "college-id", 0, "only show events of this college")

	for _, c := range cmd.CollectionCmds() {
		root.AddCommand(c)
	}
	root.AddCommand(cmd.StatsCmd())
	root.AddCommand(cmd.PingCmd())
	root.AddCommand(cmd.ConfigCmd())
	root.AddCommand(cmd.VersionCmd(version))
	return root
}

func runTUI(c *cobra.Command, collegeID int64) error {
	if !cmd.IsInteractiveTerminal(os.Stdin) || !cmd.IsInteractiveTerminal(os.Stdout) {
		return errNotInteractive
	}

	// The TUI owns the terminal: log to the configured file or nowhere.
	env, err := cmd.LoadEnv(c, nil)
	if err != nil {
		return err
	}
	defer env.Close()

	app, err := ui.NewApp(env.Client, env.Config, resources.All(env.ResourceOptions(collegeID)), env.Logger)
	if err != nil {
		return err
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
