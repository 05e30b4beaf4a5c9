package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/tagdrawer/internal/api"
	"github.com/gravitrone/tagdrawer/internal/config"
)

// RunInteractiveLogin prompts for the API URL and token, checks them against
// the taxonomy listing, and persists config.
func RunInteractiveLogin(in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	fmt.Fprintf(out, "api url [%s]: ", api.DefaultBaseURL)
	apiURL, _ := reader.ReadString('\n')
	apiURL = strings.TrimRight(strings.TrimSpace(apiURL), "/")

	fmt.Fprint(out, "api key: ")
	apiKey, _ := reader.ReadString('\n')
	apiKey = strings.TrimSpace(apiKey)

	if apiKey == "" {
		return errors.New("api key is required")
	}

	client := api.NewDefaultClient(apiKey)
	if apiURL != "" {
		client = api.NewClient(apiURL, apiKey)
	} else {
		apiURL = api.DefaultBaseURL
	}
	taxonomies, err := client.ListTaxonomies("", true)
	if errors.Is(err, api.ErrUnauthorized) {
		return fmt.Errorf("login failed: %s rejected the api key: %w", apiURL, err)
	}
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	cfg := &config.Config{
		APIURL:  apiURL,
		APIKey:  apiKey,
		Theme:   "dark",
		VimKeys: true,
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Fprintf(out, "logged in to %s (%d taxonomies visible)\n", apiURL, len(taxonomies))
	fmt.Fprintf(out, "config saved to %s\n", config.Path())
	return nil
}

// LoginCmd returns the `tagdrawer login` command.
func LoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Store the API URL and token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return RunInteractiveLogin(os.Stdin, cmd.OutOrStdout())
		},
	}
}
