package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jorgejac1/allylab-sub006/internal/controller"
	"github.com/jorgejac1/allylab-sub006/internal/domain"
	m "github.com/jorgejac1/allylab-sub006/internal/model"
)

var detectWriteFlag bool

// detectCmd represents the detect command.
var detectCmd = newDetectCmd()

func newDetectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect <session-file>",
		Short: "Resolve findings to source files in the repository",
		Long: `Run batch detection over a remediation session: for every finding that has
a candidate fix and no file path yet, search the repository, verify the best
candidate and record the resolved path. Requests are spaced out to respect
the code host's rate limits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args[0])
		},
	}

	cmd.Flags().BoolVarP(&detectWriteFlag, "write", "w", false, "write resolved paths back to the session file")

	return cmd
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, sessionPath string) error {
	session, err := sessionStore.LoadSession(sessionPath)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	repo := repositoryContext(session)
	if repo.Owner == "" || repo.Repo == "" {
		return fmt.Errorf("repository owner and name are required (set --owner/--repo or the session's repository block)")
	}

	_, orchestrator := newEngine()
	items := sessionItems(session)

	interactive := controller.IsTTY(os.Stdout) && !plainFlag
	ui := controller.NewUI(cmd, interactive)

	ctx := cmd.Context()

	err = ui.RunDetection(ctx, len(items), func(onProgress domain.ProgressFunc) {
		orchestrator.RunAll(ctx, items, repo, onProgress)
	})
	if err != nil {
		return fmt.Errorf("detection display: %w", err)
	}

	highConfidence := orchestrator.CountHighConfidenceMapped(items)

	read := func(findingID string) (m.DetectionState, bool) {
		return stateStore.Read(findingID)
	}

	if err := ui.DisplayResults(items, read, highConfidence); err != nil {
		return fmt.Errorf("display results: %w", err)
	}

	if detectWriteFlag {
		if err := sessionStore.SaveSession(sessionPath, session); err != nil {
			return fmt.Errorf("save session: %w", err)
		}

		cmd.Printf("Session updated: %s\n", sessionPath)
	}

	return nil
}
