package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/gravitrone/tagdrawer/internal/config"
	"github.com/gravitrone/tagdrawer/internal/drafts"
	"github.com/gravitrone/tagdrawer/internal/drawer"
	"github.com/gravitrone/tagdrawer/internal/tagtree"
)

// errConfirmRequired is returned when a commit needs confirmation and stdin
// is not a terminal.
var errConfirmRequired = errors.New("confirmation required: pass --yes")

// confirmCommit asks before tags are saved.
var confirmCommit = func(title string) (bool, error) {
	if !IsInteractiveTerminal(os.Stdin) {
		return false, errConfirmRequired
	}
	confirmed := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Value(&confirmed).
				Affirmative("Save").
				Negative("Cancel"),
		),
	).WithTheme(huh.ThemeDracula())
	if err := form.Run(); err != nil {
		return false, err
	}
	return confirmed, nil
}

// ContentCmd returns the `tagdrawer content` command group.
func ContentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Inspect and stage tag changes for a content object",
	}
	cmd.AddCommand(contentShowCmd())
	cmd.AddCommand(contentStageCmd(tagtree.EditAdd))
	cmd.AddCommand(contentStageCmd(tagtree.EditRemove))
	cmd.AddCommand(contentDiffCmd())
	cmd.AddCommand(contentCommitCmd())
	cmd.AddCommand(contentDiscardCmd())
	cmd.AddCommand(contentPendingCmd())
	return cmd
}

// withSession runs fn against a loaded session and closes the store after.
func withSession(contentID string, fn func(*drawer.Session) error) error {
	env, err := LoadEnv()
	if err != nil {
		return err
	}
	session, store, err := env.OpenSession(contentID)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(session)
}

type shownTaxonomy struct {
	ID      int           `json:"id"`
	Name    string        `json:"name"`
	Dirty   bool          `json:"dirty"`
	Tags    *tagtree.Tree `json:"tags"`
	Payload []string      `json:"payload"`
}

func contentShowCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <content-id>",
		Short: "Show a content object's tags with staged edits applied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withSession(args[0], func(session *drawer.Session) error {
				var shown []shownTaxonomy
				for _, tax := range session.Taxonomies() {
					view, err := session.View(tax.ID)
					if err != nil {
						return err
					}
					shown = append(shown, shownTaxonomy{
						ID:      tax.ID,
						Name:    tax.Name,
						Dirty:   tax.Dirty(),
						Tags:    view,
						Payload: tagtree.Values(tagtree.Flatten(view)),
					})
				}

				if asJSON {
					data, err := json.MarshalIndent(shown, "", "  ")
					if err != nil {
						return fmt.Errorf("encode: %w", err)
					}
					fmt.Fprintln(out, string(data))
					return nil
				}

				fmt.Fprintln(out, session.Name)
				fmt.Fprintln(out, session.ContentID)
				for _, t := range shown {
					fmt.Fprintln(out)
					marker := ""
					if t.Dirty {
						marker = " *"
					}
					fmt.Fprintf(out, "%s (%d)%s\n", t.Name, len(t.Payload), marker)
					if t.Tags.Len() == 0 {
						fmt.Fprintln(out, "  no tags")
						continue
					}
					t.Tags.Walk(func(lineage []string, n *tagtree.Node) {
						indent := strings.Repeat("  ", len(lineage))
						if n.Explicit {
							fmt.Fprintf(out, "%s● %s\n", indent, lineage[len(lineage)-1])
							return
						}
						fmt.Fprintf(out, "%s○ %s (implied)\n", indent, lineage[len(lineage)-1])
					})
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func contentStageCmd(kind tagtree.EditKind) *cobra.Command {
	var taxonomyID int
	short := "Stage adding a tag"
	if kind == tagtree.EditRemove {
		short = "Stage removing a tag"
	}
	cmd := &cobra.Command{
		Use:   kind.String() + " <content-id> <segment>...",
		Short: short,
		Long:  "Segments are the tag's lineage from the root, e.g. \"Science\" \"Biology\".",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withSession(args[0], func(session *drawer.Session) error {
				lineage := args[1:]
				if err := session.Stage(taxonomyID, tagtree.Edit{Kind: kind, Lineage: lineage}); err != nil {
					return fmt.Errorf("stage %s: %w", kind, err)
				}
				tax, err := session.Taxonomy(taxonomyID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "staged %s %s on %s\n", kind, strings.Join(lineage, " > "), tax.Name)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&taxonomyID, "taxonomy", "t", 0, "taxonomy id")
	_ = cmd.MarkFlagRequired("taxonomy")
	return cmd
}

// printDiff writes the staged changes of the given taxonomies.
func printDiff(out io.Writer, session *drawer.Session, ids []int) error {
	for i, id := range ids {
		tax, err := session.Taxonomy(id)
		if err != nil {
			return err
		}
		added, removed, err := session.Diff(id)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, tax.Name)
		for _, t := range removed {
			fmt.Fprintf(out, "  - %s\n", t.Value)
		}
		for _, t := range added {
			fmt.Fprintf(out, "  + %s\n", t.Value)
		}
		if len(added) == 0 && len(removed) == 0 {
			fmt.Fprintln(out, "  (no change)")
		}
	}
	return nil
}

// targets returns the dirty taxonomies, or only taxonomyID when set.
func targets(session *drawer.Session, taxonomyID int) ([]int, error) {
	if taxonomyID == 0 {
		return session.Dirty(), nil
	}
	tax, err := session.Taxonomy(taxonomyID)
	if err != nil {
		return nil, err
	}
	if !tax.Dirty() {
		return nil, nil
	}
	return []int{taxonomyID}, nil
}

func contentDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <content-id>",
		Short: "Show what a save would change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withSession(args[0], func(session *drawer.Session) error {
				ids := session.Dirty()
				if len(ids) == 0 {
					fmt.Fprintln(out, "nothing staged")
					return nil
				}
				return printDiff(out, session, ids)
			})
		},
	}
}

func contentCommitCmd() *cobra.Command {
	var taxonomyID int
	var yes bool
	cmd := &cobra.Command{
		Use:   "commit <content-id>",
		Short: "Save staged tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withSession(args[0], func(session *drawer.Session) error {
				ids, err := targets(session, taxonomyID)
				if err != nil {
					return err
				}
				if len(ids) == 0 {
					fmt.Fprintln(out, "nothing staged")
					return nil
				}
				if err := printDiff(out, session, ids); err != nil {
					return err
				}

				if !yes {
					ok, err := confirmCommit(fmt.Sprintf("Save tags on %s?", session.Name))
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(out, "aborted")
						return nil
					}
				}

				for _, id := range ids {
					if err := session.Commit(id); err != nil {
						return fmt.Errorf("commit: %w", err)
					}
					tax, _ := session.Taxonomy(id)
					fmt.Fprintf(out, "saved %s\n", tax.Name)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&taxonomyID, "taxonomy", "t", 0, "only this taxonomy")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func contentDiscardCmd() *cobra.Command {
	var taxonomyID int
	cmd := &cobra.Command{
		Use:   "discard <content-id>",
		Short: "Drop staged edits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withSession(args[0], func(session *drawer.Session) error {
				ids, err := targets(session, taxonomyID)
				if err != nil {
					return err
				}
				for _, id := range ids {
					if err := session.Discard(id); err != nil {
						return fmt.Errorf("discard: %w", err)
					}
				}
				fmt.Fprintf(out, "discarded staged edits on %d taxonomy(ies)\n", len(ids))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&taxonomyID, "taxonomy", "t", 0, "only this taxonomy")
	return cmd
}

func contentPendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List content objects with staged edits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := (&config.Config{}).Drafts()
			if cfg, err := config.Load(); err == nil {
				path = cfg.Drafts()
			}
			store, err := drafts.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			pending, err := store.Pending()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(pending) == 0 {
				fmt.Fprintln(out, "no staged edits")
				return nil
			}
			for _, p := range pending {
				fmt.Fprintf(out, "  %s  %d edit(s) in %d taxonomy(ies), last %s\n",
					p.ContentID, p.Edits, p.Taxonomies, p.UpdatedAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}
