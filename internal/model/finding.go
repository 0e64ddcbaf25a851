// Package model defines the data structures for the remediation engine.
package model

// Severity represents how serious an accessibility finding is.
type Severity string

const (
	// SeverityMinor represents cosmetic or low-impact issues.
	SeverityMinor Severity = "minor"
	// SeverityModerate represents issues that degrade the experience.
	SeverityModerate Severity = "moderate"
	// SeveritySerious represents issues that block some users.
	SeveritySerious Severity = "serious"
	// SeverityCritical represents issues that make content unusable.
	SeverityCritical Severity = "critical"
)

// Rank returns the position of the severity in the minor < moderate <
// serious < critical ordering. Unknown severities rank below minor.
func (s Severity) Rank() int {
	switch s {
	case SeverityMinor:
		return 1
	case SeverityModerate:
		return 2
	case SeveritySerious:
		return 3
	case SeverityCritical:
		return 4
	}

	return 0
}

// Finding is a single accessibility issue tied to one page element, as
// produced by the scanner. Immutable once created.
type Finding struct {
	ID       string   `json:"id" yaml:"id"`
	RuleID   string   `json:"ruleId" yaml:"ruleId"`
	Title    string   `json:"title" yaml:"title"`
	Severity Severity `json:"severity" yaml:"severity"`
	Selector string   `json:"selector" yaml:"selector"`
	HTML     string   `json:"html" yaml:"html"`
}

// Fix is a generated candidate replacement for a Finding's markup.
// Immutable once generated.
type Fix struct {
	FindingID        string            `json:"findingId" yaml:"findingId"`
	OriginalCode     string            `json:"originalCode" yaml:"originalCode"`
	OriginalSelector string            `json:"originalSelector" yaml:"originalSelector"`
	SourceLanguage   string            `json:"sourceLanguage" yaml:"sourceLanguage"`
	FixedCode        map[string]string `json:"fixedCode" yaml:"fixedCode"`
	Explanation      string            `json:"explanation" yaml:"explanation"`
	Confidence       string            `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	Effort           string            `json:"effort,omitempty" yaml:"effort,omitempty"`
	WCAGCriteria     []string          `json:"wcagCriteria,omitempty" yaml:"wcagCriteria,omitempty"`
}

// BestCode returns the replacement code for the preferred language, falling
// back to any available block when the preferred one is absent.
func (f *Fix) BestCode(language string) string {
	if f == nil {
		return ""
	}

	if code, ok := f.FixedCode[language]; ok {
		return code
	}

	for _, code := range f.FixedCode {
		return code
	}

	return ""
}

// FindingWithFix associates a Finding with its candidate Fix for the
// duration of a remediation session. FilePath is empty until resolved by
// detection or filled in manually; it is the only field the engine mutates.
type FindingWithFix struct {
	Finding  Finding `json:"finding" yaml:"finding"`
	Fix      *Fix    `json:"fix,omitempty" yaml:"fix,omitempty"`
	FilePath string  `json:"filePath,omitempty" yaml:"filePath,omitempty"`

	// Selected is a transient UI flag, never interpreted by the engine.
	Selected bool `json:"selected,omitempty" yaml:"selected,omitempty"`
}

// RepositoryContext identifies the repository a remediation session targets.
// Read-only to the engine.
type RepositoryContext struct {
	Owner         string `json:"owner" yaml:"owner"`
	Repo          string `json:"repo" yaml:"repo"`
	Branch        string `json:"branch" yaml:"branch"`
	DefaultBranch string `json:"defaultBranch" yaml:"defaultBranch"`
}

// Ref returns the branch detection should read file content from,
// preferring the selected branch over the default one.
func (r RepositoryContext) Ref() string {
	if r.Branch != "" {
		return r.Branch
	}

	return r.DefaultBranch
}
