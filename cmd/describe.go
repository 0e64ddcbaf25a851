package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jorgejac1/allylab-sub006/internal/domain"
	m "github.com/jorgejac1/allylab-sub006/internal/model"
)

var describeFindingFlag string
var describeScanURLFlag string

// describeCmd represents the describe command.
var describeCmd = newDescribeCmd()

func newDescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe <session-file>",
		Short: "Generate branch name and change description for a finding",
		Long: `Print the branch name and the pull-request description that would be used
when proposing the fix for one finding in the session. The finding must have
a candidate fix; a resolved file path enriches the output but is optional.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&describeFindingFlag, "finding", "f", "", "finding ID to describe (default: first finding with a fix)")
	cmd.Flags().StringVar(&describeScanURLFlag, "scan-url", "", "link to the originating scan")

	return cmd
}

func init() {
	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, sessionPath string) error {
	session, err := sessionStore.LoadSession(sessionPath)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	item := pickItem(session.Items, describeFindingFlag)
	if item == nil {
		return fmt.Errorf("no finding with a candidate fix matched %q", describeFindingFlag)
	}

	line := 0
	if state, ok := stateStore.Read(item.Finding.ID); ok && state.Result != nil {
		line = state.Result.LineStart
	}

	branch := domain.BranchName(item.Finding.RuleID, item.FilePath, line, time.Now())

	params := domain.ChangeParams{
		RuleID:       item.Finding.RuleID,
		Title:        item.Finding.Title,
		FilePath:     item.FilePath,
		LineStart:    line,
		LineEnd:      line,
		WCAGCriteria: item.Fix.WCAGCriteria,
		ScanURL:      describeScanURLFlag,
		OriginalCode: item.Fix.OriginalCode,
		FixedCode:    item.Fix.BestCode(item.Fix.SourceLanguage),
		Language:     item.Fix.SourceLanguage,
		Explanation:  item.Fix.Explanation,
	}

	cmd.Printf("Branch: %s\n\n", branch)
	cmd.Println(domain.ChangeDescription(params))

	return nil
}

func pickItem(items []m.FindingWithFix, findingID string) *m.FindingWithFix {
	for i := range items {
		item := &items[i]
		if item.Fix == nil {
			continue
		}

		if findingID == "" || item.Finding.ID == findingID {
			return item
		}
	}

	return nil
}
