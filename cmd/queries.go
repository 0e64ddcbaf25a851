package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// queriesCmd represents the queries command.
var queriesCmd = newQueriesCmd()

func newQueriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "queries <session-file>",
		Short: "Show the search queries derived from each finding",
		Long: `Print, without making any network calls, the code-search queries the engine
would derive for every finding in the session. Findings with no searchable
content are listed as such.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := sessionStore.LoadSession(args[0])
			if err != nil {
				return fmt.Errorf("load session: %w", err)
			}

			for _, item := range session.Items {
				queries := queryBuilder.Build(item.Finding.HTML, item.Finding.Selector)

				if len(queries) == 0 {
					cmd.Printf("%s (%s): no searchable content\n", item.Finding.ID, item.Finding.RuleID)
					continue
				}

				cmd.Printf("%s (%s): %s\n", item.Finding.ID, item.Finding.RuleID, strings.Join(quoteAll(queries), ", "))
			}

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(queriesCmd)
}

func quoteAll(values []string) []string {
	quoted := make([]string, 0, len(values))
	for _, value := range values {
		quoted = append(quoted, fmt.Sprintf("%q", value))
	}

	return quoted
}
