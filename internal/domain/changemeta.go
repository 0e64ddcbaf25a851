package domain

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"
)

// branchPrefix is the fixed leading segment of every generated branch name.
const branchPrefix = "fix/a11y"

// fallbackFileToken stands in for the file slug when no path is known yet.
const fallbackFileToken = "update"

// fallbackRuleToken stands in for the rule slug when the rule id is empty.
const fallbackRuleToken = "issue"

// ruleDocsBaseURL is where rule documentation lives.
const ruleDocsBaseURL = "https://dequeuniversity.com/rules/axe/4.10/"

// BranchName builds a deterministic, entirely lower-case branch name of the
// form fix/a11y-<rule-slug>-<file-slug>[-l<line>]-<suffix>. The suffix is
// derived from the injected timestamp at millisecond resolution so fixes
// proposed close in time get distinct branches.
func BranchName(ruleID, filePath string, line int, at time.Time) string {
	ruleSlug := slugify(ruleID)
	if ruleSlug == "" {
		ruleSlug = fallbackRuleToken
	}

	fileSlug := fallbackFileToken
	if filePath != "" {
		if slug := slugify(filepath.Base(filePath)); slug != "" {
			fileSlug = slug
		}
	}

	parts := []string{branchPrefix + "-" + ruleSlug, fileSlug}
	if line > 0 {
		parts = append(parts, "l"+strconv.Itoa(line))
	}

	parts = append(parts, strconv.FormatInt(at.UnixMilli(), 36))

	return strings.Join(parts, "-")
}

// slugify lower-cases the input and collapses every run of non-alphanumeric
// characters into a single hyphen.
func slugify(s string) string {
	var out strings.Builder

	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(s) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if alnum {
			out.WriteRune(r)
			lastHyphen = false
			continue
		}

		if !lastHyphen {
			out.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.TrimSuffix(out.String(), "-")
}

// ChangeParams carries the inputs for ChangeDescription. Every optional
// field may be omitted independently.
type ChangeParams struct {
	RuleID       string
	Title        string
	FilePath     string
	LineStart    int
	LineEnd      int
	WCAGLevel    string
	WCAGCriteria []string
	ScanURL      string
	OriginalCode string
	FixedCode    string
	Language     string
	Explanation  string
}

// ChangeDescription assembles the fixed-structure pull-request body for a
// resolved fix. It is deterministic given its inputs.
func ChangeDescription(params ChangeParams) string {
	var b strings.Builder

	subject := params.RuleID
	if subject == "" {
		subject = "accessibility issue"
	}

	if params.Title != "" {
		fmt.Fprintf(&b, "## Fix %s: %s\n\n", subject, params.Title)
	} else {
		fmt.Fprintf(&b, "## Fix %s\n\n", subject)
	}

	if params.RuleID != "" {
		fmt.Fprintf(&b, "Rule documentation: %s%s\n\n", ruleDocsBaseURL, params.RuleID)
	}

	writeLocation(&b, params)
	writeStandards(&b, params)

	if params.ScanURL != "" {
		fmt.Fprintf(&b, "Originating scan: %s\n\n", params.ScanURL)
	}

	if params.Explanation != "" {
		fmt.Fprintf(&b, "%s\n\n", strings.TrimSpace(params.Explanation))
	}

	writeComparison(&b, params)

	b.WriteString("### Review checklist\n\n")
	b.WriteString("- [ ] The replacement renders correctly in the target component\n")
	b.WriteString("- [ ] No surrounding logic depends on the replaced markup\n")
	b.WriteString("- [ ] The change was verified with a screen reader or accessibility tooling\n\n")

	b.WriteString("---\n")
	b.WriteString("Generated by allylab. A human should review this change before merging.\n")

	return b.String()
}

func writeLocation(b *strings.Builder, params ChangeParams) {
	if params.FilePath == "" {
		return
	}

	fmt.Fprintf(b, "**File:** `%s`", params.FilePath)

	start, end := params.LineStart, params.LineEnd
	if end == 0 {
		end = start
	}

	switch {
	case start > 0 && start == end:
		fmt.Fprintf(b, " (Line %d)", start)
	case start > 0 && end > start:
		fmt.Fprintf(b, " (Lines %d-%d)", start, end)
	}

	b.WriteString("\n\n")
}

func writeStandards(b *strings.Builder, params ChangeParams) {
	if params.WCAGLevel != "" {
		fmt.Fprintf(b, "**WCAG level:** %s\n\n", params.WCAGLevel)
	}

	if len(params.WCAGCriteria) > 0 {
		fmt.Fprintf(b, "**Success criteria:** %s\n\n", strings.Join(params.WCAGCriteria, ", "))
	}
}

func writeComparison(b *strings.Builder, params ChangeParams) {
	if params.OriginalCode == "" && params.FixedCode == "" {
		return
	}

	b.WriteString("<details>\n<summary>Before / after</summary>\n\n")

	if params.OriginalCode != "" {
		fmt.Fprintf(b, "**Before**\n\n```%s\n%s\n```\n\n", params.Language, strings.TrimRight(params.OriginalCode, "\n"))
	}

	if params.FixedCode != "" {
		fmt.Fprintf(b, "**After**\n\n```%s\n%s\n```\n\n", params.Language, strings.TrimRight(params.FixedCode, "\n"))
	}

	if diff := unifiedDiff(params.OriginalCode, params.FixedCode); diff != "" {
		fmt.Fprintf(b, "```diff\n%s```\n\n", diff)
	}

	b.WriteString("</details>\n\n")
}

func unifiedDiff(before, after string) string {
	if before == "" || after == "" {
		return ""
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "before",
		ToFile:   "after",
		Context:  2,
	})
	if err != nil {
		return ""
	}

	return diff
}
