package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gravitrone/tagdrawer/internal/cmd"
	"github.com/gravitrone/tagdrawer/internal/debug"
	"github.com/gravitrone/tagdrawer/internal/tagpages"
	"github.com/gravitrone/tagdrawer/internal/ui"
	"github.com/gravitrone/tagdrawer/internal/watcher"
)

func main() {
	root := &cobra.Command{
		Use:   "tagdrawer <content-id>",
		Short: "tagdrawer - manage the tags of course content",
		Long:  "tagdrawer: browse taxonomies, stage tag changes on a content object, and save them.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if len(args) == 0 {
				return c.Help()
			}
			return runTUI(args[0])
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(cmd.LoginCmd())
	root.AddCommand(cmd.TaxonomiesCmd())
	root.AddCommand(cmd.TagsCmd())
	root.AddCommand(cmd.ContentCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	os.Setenv("COLORTERM", "truecolor")
}

func runTUI(contentID string) error {
	env, err := cmd.LoadEnv()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Println("not logged in. run 'tagdrawer login' first.")
		}
		return err
	}

	// stderr belongs to the alt screen while the drawer runs
	if debug.Enabled() {
		f, err := tea.LogToFile("tagdrawer-debug.log", "tagdrawer")
		if err != nil {
			return err
		}
		defer f.Close()
		debug.SetOutput(f)
	}

	session, store, err := env.OpenSession(contentID)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := []ui.Option{ui.WithVimKeys(env.Config.VimKeys)}
	w, err := watcher.New(store.Path(), watcher.WithOnError(func(err error) {
		debug.Log("watch drafts: %v", err)
	}))
	if err == nil {
		err = w.Start()
	}
	if err != nil {
		debug.Log("drafts watcher disabled: %v", err)
	} else {
		defer w.Stop()
		opts = append(opts, ui.WithChanges(w.Changed()))
	}

	app := ui.NewApp(session, tagpages.New(env.Client), opts...)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
