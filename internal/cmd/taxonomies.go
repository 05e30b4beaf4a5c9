package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/tagdrawer/internal/tagpages"
)

// TaxonomiesCmd returns the `tagdrawer taxonomies` command.
func TaxonomiesCmd() *cobra.Command {
	var org string
	var all bool
	cmd := &cobra.Command{
		Use:   "taxonomies",
		Short: "List taxonomies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := LoadEnv()
			if err != nil {
				return err
			}
			if org == "" {
				org = env.Config.Org
			}

			taxonomies, err := env.Client.ListTaxonomies(org, !all)
			if err != nil {
				return fmt.Errorf("list taxonomies: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(taxonomies) == 0 {
				fmt.Fprintln(out, "no taxonomies found")
				return nil
			}
			for _, t := range taxonomies {
				var flags []string
				if !t.AllowMultiple {
					flags = append(flags, "single")
				}
				if t.AllowFreeText {
					flags = append(flags, "free text")
				}
				if !t.Enabled {
					flags = append(flags, "disabled")
				}
				suffix := ""
				if len(flags) > 0 {
					suffix = " (" + strings.Join(flags, ", ") + ")"
				}
				fmt.Fprintf(out, "  %-4d %s%s\n", t.ID, t.Name, suffix)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&org, "org", "", "org to list taxonomies for (default from config)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include disabled taxonomies")
	return cmd
}

// TagsCmd returns the `tagdrawer tags` command.
func TagsCmd() *cobra.Command {
	var parent, search string
	var pages int
	cmd := &cobra.Command{
		Use:   "tags <taxonomy-id>",
		Short: "Browse one level of a taxonomy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaxonomyID(args[0])
			if err != nil {
				return err
			}
			env, err := LoadEnv()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			level, err := tagpages.New(env.Client).Level(ctx, id, parent, pages, search)
			if err != nil {
				return fmt.Errorf("list tags: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(level.Tags) == 0 {
				fmt.Fprintln(out, "no tags found")
				return nil
			}
			for _, tag := range level.Tags {
				if tag.ChildCount > 0 {
					fmt.Fprintf(out, "  %s (%d)\n", tag.Value, tag.ChildCount)
					continue
				}
				fmt.Fprintf(out, "  %s\n", tag.Value)
			}
			if level.HasMore {
				fmt.Fprintf(out, "more tags: rerun with --pages %d\n", pages+1)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "parent tag value (default root level)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "search term")
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to load")
	return cmd
}

func parseTaxonomyID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid taxonomy id %q", s)
	}
	return id, nil
}
