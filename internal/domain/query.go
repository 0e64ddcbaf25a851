// Package domain implements the file-localization engine: query building,
// search-and-verify resolution, detection state, batch orchestration and
// change-metadata generation.
package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// defaultMaxTextLength bounds the extracted-text query; longer runs are
// unlikely to appear verbatim in source.
const defaultMaxTextLength = 100

// minTextLength is strict: three characters or fewer carry no signal.
const minTextLength = 3

// minClassTokenLength drops short utility class names that match everywhere.
const minClassTokenLength = 5

// variantPrefixes are responsive/state variant prefixes whose classes
// describe presentation, not identity, and make poor search terms.
var variantPrefixes = []string{
	"sm:", "md:", "lg:", "xl:", "2xl:",
	"hover:", "focus:", "active:", "disabled:", "dark:",
	"group-", "peer-",
}

// QueryBuilder derives code-search queries from a finding's markup and
// selector. Queries come back most specific first; an empty result means
// the finding has no searchable content and no external call should be made.
type QueryBuilder interface {
	Build(markup, selector string) []string
	ExtractText(markup string) string
}

type queryBuilder struct {
	maxTextLength int
}

// NewQueryBuilder constructs a QueryBuilder with the default text bound.
func NewQueryBuilder() QueryBuilder {
	return &queryBuilder{maxTextLength: defaultMaxTextLength}
}

// NewQueryBuilderWithLimit constructs a QueryBuilder with a custom bound on
// extracted text length.
func NewQueryBuilderWithLimit(maxTextLength int) QueryBuilder {
	if maxTextLength <= 0 {
		maxTextLength = defaultMaxTextLength
	}

	return &queryBuilder{maxTextLength: maxTextLength}
}

// Build implements QueryBuilder.
func (b *queryBuilder) Build(markup, selector string) []string {
	var queries []string

	// Text content is the strongest signal: it is likely to appear verbatim
	// in source.
	if text := b.ExtractText(markup); text != "" {
		queries = append(queries, text)
	}

	if classQuery := classTokenQuery(selector); classQuery != "" {
		queries = append(queries, classQuery)
	}

	return queries
}

// ExtractText implements QueryBuilder. It returns the element's inner text
// when it is a single run of visible text within the configured bounds,
// otherwise the empty string.
func (b *queryBuilder) ExtractText(markup string) string {
	nodes, err := html.ParseFragment(strings.NewReader(markup), bodyContext())
	if err != nil {
		return ""
	}

	var runs []string
	for _, node := range nodes {
		collectTextRuns(node, &runs)
	}

	if len(runs) != 1 {
		return ""
	}

	text := runs[0]
	if length := utf8.RuneCountInString(text); length <= minTextLength || length > b.maxTextLength {
		return ""
	}

	if !hasLetterOrDigit(text) {
		return ""
	}

	return text
}

func bodyContext() *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
}

func collectTextRuns(node *html.Node, runs *[]string) {
	if node.Type == html.TextNode {
		if text := strings.Join(strings.Fields(node.Data), " "); text != "" {
			*runs = append(*runs, text)
		}

		return
	}

	if node.Type == html.ElementNode && (node.Data == "script" || node.Data == "style") {
		return
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectTextRuns(child, runs)
	}
}

func hasLetterOrDigit(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}

	return false
}

// classTokenQuery extracts up to two qualifying class names from a CSS
// selector and joins them into a single query.
func classTokenQuery(selector string) string {
	tokens := classTokens(selector)

	kept := make([]string, 0, 2)
	for _, token := range tokens {
		if len(token) <= minClassTokenLength {
			continue
		}

		if hasVariantPrefix(token) {
			continue
		}

		kept = append(kept, token)
		if len(kept) == 2 {
			break
		}
	}

	return strings.Join(kept, " ")
}

// classTokens returns the class names referenced by the selector, in order,
// without the leading dot.
func classTokens(selector string) []string {
	var tokens []string

	runes := []rune(selector)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '.' {
			continue
		}

		var name strings.Builder
		for j := i + 1; j < len(runes); j++ {
			r := runes[j]
			if r == '\\' && j+1 < len(runes) {
				// CSS-escaped character, e.g. "hover\:underline".
				j++
				name.WriteRune(runes[j])
				i = j
				continue
			}

			if isClassNameRune(r) {
				name.WriteRune(r)
				i = j
				continue
			}

			break
		}

		if name.Len() > 0 {
			tokens = append(tokens, name.String())
		}
	}

	return tokens
}

func isClassNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_'
}

func hasVariantPrefix(token string) bool {
	for _, prefix := range variantPrefixes {
		if strings.HasPrefix(token, prefix) {
			return true
		}
	}

	return false
}
