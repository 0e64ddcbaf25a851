package model

// Confidence represents how trustworthy a resolved file/line match is.
type Confidence string

const (
	// ConfidenceHigh indicates the verifier confirmed the exact fragment.
	ConfidenceHigh Confidence = "high"
	// ConfidenceMedium indicates a structural but not exact confirmation.
	ConfidenceMedium Confidence = "medium"
	// ConfidenceLow indicates the engine itself synthesized the result,
	// e.g. a file was found but the location within it is unclear.
	ConfidenceLow Confidence = "low"
)

// Rank orders confidences low < medium < high. Unknown values rank at zero.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceLow:
		return 1
	case ConfidenceMedium:
		return 2
	case ConfidenceHigh:
		return 3
	}

	return 0
}

// OutcomeKind is the terminal classification of one detection attempt.
type OutcomeKind string

const (
	// OutcomeNoSignal means no usable search query could be built.
	OutcomeNoSignal OutcomeKind = "no-signal"
	// OutcomeNoMatch means searching produced no verifiable candidate.
	OutcomeNoMatch OutcomeKind = "no-match"
	// OutcomeWeakMatch means a file was found but the exact code location
	// inside it could not be confirmed.
	OutcomeWeakMatch OutcomeKind = "weak-match"
	// OutcomeMatch means the verifier confirmed the file (and possibly line).
	OutcomeMatch OutcomeKind = "match"
)

// DetectionOutcome is the result of resolving one finding against the
// repository. Path is set for match and weak-match kinds only.
type DetectionOutcome struct {
	Kind       OutcomeKind `json:"kind" yaml:"kind"`
	Path       string      `json:"path,omitempty" yaml:"path,omitempty"`
	Confidence Confidence  `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	Reason     string      `json:"reason,omitempty" yaml:"reason,omitempty"`
	LineStart  int         `json:"lineStart,omitempty" yaml:"lineStart,omitempty"`
}

// Accepted reports whether the outcome carries a verifier-confirmed path.
func (o DetectionOutcome) Accepted() bool {
	return o.Kind == OutcomeMatch
}

// HasPath reports whether the outcome located a file at all.
func (o DetectionOutcome) HasPath() bool {
	return o.Kind == OutcomeMatch || o.Kind == OutcomeWeakMatch
}

// NoSignal builds the terminal outcome for findings with no searchable content.
func NoSignal() DetectionOutcome {
	return DetectionOutcome{
		Kind:   OutcomeNoSignal,
		Reason: "no searchable content in element",
	}
}

// NoMatch builds the terminal outcome for findings nothing matched.
func NoMatch() DetectionOutcome {
	return DetectionOutcome{
		Kind:   OutcomeNoMatch,
		Reason: "no matching file found in repository",
	}
}

// WeakMatch builds the outcome for a file found without a confirmed location.
func WeakMatch(path string) DetectionOutcome {
	return DetectionOutcome{
		Kind:       OutcomeWeakMatch,
		Path:       path,
		Confidence: ConfidenceLow,
		Reason:     "file found but exact code location unclear",
	}
}

// Match builds the outcome for a verifier-confirmed file.
func Match(path string, confidence Confidence, reason string, lineStart int) DetectionOutcome {
	return DetectionOutcome{
		Kind:       OutcomeMatch,
		Path:       path,
		Confidence: confidence,
		Reason:     reason,
		LineStart:  lineStart,
	}
}

// DetectionState is the per-finding lifecycle record kept for the duration
// of a remediation session. InProgress and a non-nil Result are never both
// set: an attempt clears the previous result before running and writes
// exactly one terminal result when it completes.
type DetectionState struct {
	InProgress  bool              `json:"inProgress" yaml:"inProgress"`
	Result      *DetectionOutcome `json:"result,omitempty" yaml:"result,omitempty"`
	ShowPreview bool              `json:"showPreview,omitempty" yaml:"showPreview,omitempty"`
}

// VerifierResult is what the structural verifier reports for a candidate
// file. Only high and medium confidences originate from the verifier.
type VerifierResult struct {
	Confidence Confidence
	Reason     string
	LineStart  int
}
