package adapter

import (
	"strings"

	m "github.com/jorgejac1/allylab-sub006/internal/model"
)

// TextVerifier is the default MatchVerifier. It confirms a candidate file by
// plain containment checks: an exact fragment hit is a high-confidence match,
// a whitespace-normalized hit or a text-content hit is medium. Anything
// weaker is left to the engine to classify.
type TextVerifier struct{}

// NewTextVerifier constructs a TextVerifier.
func NewTextVerifier() *TextVerifier {
	return &TextVerifier{}
}

// VerifyMatch implements MatchVerifier.
func (v *TextVerifier) VerifyMatch(fileContent, originalFragment, extractedText string) *m.VerifierResult {
	if fileContent == "" {
		return nil
	}

	fragment := strings.TrimSpace(originalFragment)
	if fragment != "" {
		if line := lineOf(fileContent, fragment); line > 0 {
			return &m.VerifierResult{
				Confidence: m.ConfidenceHigh,
				Reason:     "exact markup fragment found in file",
				LineStart:  line,
			}
		}

		normalizedContent := normalizeSpace(fileContent)
		if strings.Contains(normalizedContent, normalizeSpace(fragment)) {
			return &m.VerifierResult{
				Confidence: m.ConfidenceMedium,
				Reason:     "markup fragment found ignoring whitespace",
			}
		}
	}

	text := strings.TrimSpace(extractedText)
	if text != "" {
		if line := lineOf(fileContent, text); line > 0 {
			return &m.VerifierResult{
				Confidence: m.ConfidenceMedium,
				Reason:     "element text content found in file",
				LineStart:  line,
			}
		}
	}

	return nil
}

// lineOf returns the 1-based line of the first occurrence of needle, or 0.
func lineOf(content, needle string) int {
	index := strings.Index(content, needle)
	if index < 0 {
		return 0
	}

	return strings.Count(content[:index], "\n") + 1
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
