// Package vocab rewrites transcripts with ordered substitution rules.
package vocab

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rule substitutes every non-overlapping match of Pattern.
type Rule struct {
	Pattern     *regexp.Regexp
	Replacement string
	// Literal disables $-expansion in Replacement.
	Literal bool
}

func (r Rule) apply(text string) string {
	if r.Literal {
		return r.Pattern.ReplaceAllLiteralString(text, r.Replacement)
	}
	return r.Pattern.ReplaceAllString(text, r.Replacement)
}

// Replacement is one user-configured regex substitution.
type Replacement struct {
	Pattern     string
	Replacement string
}

// Rewriter applies its rules strictly in order; each rule sees the output of
// the rules before it. It is immutable and safe for concurrent use.
type Rewriter struct {
	rules []Rule
	terms []string
}

// New builds a rewriter from ready rules.
func New(rules ...Rule) *Rewriter {
	return &Rewriter{rules: append([]Rule(nil), rules...)}
}

// Compile builds the vocabulary rules first, then the explicit replacements,
// each in configuration order.
func Compile(terms []string, replacements []Replacement) (*Rewriter, error) {
	r := &Rewriter{}
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		rule, err := TermRule(term)
		if err != nil {
			return nil, err
		}
		r.rules = append(r.rules, rule)
		r.terms = append(r.terms, term)
	}
	for i, repl := range replacements {
		pattern, err := regexp.Compile(repl.Pattern)
		if err != nil {
			return nil, fmt.Errorf("replacements[%d]: compile %q: %w", i, repl.Pattern, err)
		}
		r.rules = append(r.rules, Rule{Pattern: pattern, Replacement: repl.Replacement})
	}
	return r, nil
}

// TermRule matches term case-insensitively as a whole word, with any run of
// whitespace between its words, and restores the canonical spelling.
func TermRule(term string) (Rule, error) {
	words := strings.Fields(term)
	if len(words) == 0 {
		return Rule{}, fmt.Errorf("vocabulary term is empty")
	}
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}

	var b strings.Builder
	b.WriteString("(?i)")
	if first, _ := utf8.DecodeRuneInString(term); isWordRune(first) {
		b.WriteString(`\b`)
	}
	b.WriteString(strings.Join(quoted, `\s+`))
	if last, _ := utf8.DecodeLastRuneInString(term); isWordRune(last) {
		b.WriteString(`\b`)
	}

	pattern, err := regexp.Compile(b.String())
	if err != nil {
		return Rule{}, fmt.Errorf("vocabulary term %q: %w", term, err)
	}
	return Rule{Pattern: pattern, Replacement: strings.Join(words, " "), Literal: true}, nil
}

// Apply runs every rule once, in order.
func (r *Rewriter) Apply(text string) string {
	if r == nil {
		return text
	}
	for _, rule := range r.rules {
		text = rule.apply(text)
	}
	return text
}

// Len returns the number of rules.
func (r *Rewriter) Len() int {
	if r == nil {
		return 0
	}
	return len(r.rules)
}

// Terms returns the vocabulary terms, used to bias recognition.
func (r *Rewriter) Terms() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.terms...)
}

// isWordRune mirrors RE2's ASCII \b definition.
func isWordRune(r rune) bool {
	return r < unicode.MaxASCII && (r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r))
}
