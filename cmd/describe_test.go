package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jorgejac1/allylab-sub006/internal/adapter"
	m "github.com/jorgejac1/allylab-sub006/internal/model"
)

func describeSession() *adapter.Session {
	return &adapter.Session{
		Repository: m.RepositoryContext{Owner: "acme", Repo: "storefront"},
		Items: []m.FindingWithFix{
			{
				Finding: m.Finding{
					ID:       "f1",
					RuleID:   "image-alt",
					Title:    "Images must have alternate text",
					Severity: m.SeverityCritical,
					Selector: "img.hero-banner",
					HTML:     `<img src="hero.png">`,
				},
				Fix: &m.Fix{
					FindingID:      "f1",
					OriginalCode:   `<img src="hero.png">`,
					SourceLanguage: "html",
					FixedCode:      map[string]string{"html": `<img src="hero.png" alt="Team at work">`},
					Explanation:    "Adds a descriptive alt attribute.",
					WCAGCriteria:   []string{"1.1.1"},
				},
				FilePath: "src/Hero.tsx",
			},
			{
				Finding: m.Finding{ID: "f2", RuleID: "color-contrast"},
			},
		},
	}
}

func TestDescribeCmd_GeneratesBranchAndDescription(t *testing.T) {
	setupCmdTest(t)

	sessionPath := writeSessionFile(t, describeSession())

	cmd, out := newTestRoot(newDescribeCmd())
	cmd.SetArgs([]string{"describe", "--finding", "f1", sessionPath})

	require.NoError(t, cmd.Execute())

	rendered := out.String()
	assert.Contains(t, rendered, "Branch: fix/a11y-image-alt-hero-tsx-")
	assert.Contains(t, rendered, "## Fix image-alt: Images must have alternate text")
	assert.Contains(t, rendered, "**File:** `src/Hero.tsx`")
	assert.Contains(t, rendered, "**Success criteria:** 1.1.1")
	assert.Contains(t, rendered, "### Review checklist")
	assert.Contains(t, rendered, "Adds a descriptive alt attribute.")
}

func TestDescribeCmd_DefaultsToFirstItemWithFix(t *testing.T) {
	setupCmdTest(t)

	sessionPath := writeSessionFile(t, describeSession())

	cmd, out := newTestRoot(newDescribeCmd())
	cmd.SetArgs([]string{"describe", sessionPath})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "image-alt")
}

func TestDescribeCmd_UnknownFinding(t *testing.T) {
	setupCmdTest(t)

	sessionPath := writeSessionFile(t, describeSession())

	cmd, _ := newTestRoot(newDescribeCmd())
	cmd.SetArgs([]string{"describe", "--finding", "missing", sessionPath})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no finding with a candidate fix")
}

func TestDescribeCmd_FindingWithoutFixNotEligible(t *testing.T) {
	setupCmdTest(t)

	sessionPath := writeSessionFile(t, describeSession())

	cmd, _ := newTestRoot(newDescribeCmd())
	cmd.SetArgs([]string{"describe", "--finding", "f2", sessionPath})

	require.Error(t, cmd.Execute())
}
