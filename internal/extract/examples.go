package extract

import (
	"regexp"
	"strings"
)

var (
	// unittestRe captures the label and body of @("label") unittest { ... }.
	// The body ends at the first line holding only a closing brace.
	unittestRe = regexp.MustCompile(`@\("([^"]+)"\)\s*unittest\s*\{((?s:.*?))\n\s*\}`)
	// callRe captures one entry-point call up to its statement terminator.
	callRe = regexp.MustCompile(`\b` + EntryPoint + `\([^)]+\)[^;]+;`)
)

// matchExamples turns every labelled unit test that calls the entry point
// into an Example, in source order. Tests without entry-point calls are
// ignored. No limit is applied here; truncation is a rendering concern.
func matchExamples(text, _ string, f *Facts) {
	for _, m := range unittestRe.FindAllStringSubmatch(text, -1) {
		label, body := m[1], m[2]

		calls := callRe.FindAllString(body, -1)
		if len(calls) == 0 {
			continue
		}
		for i, c := range calls {
			calls[i] = strings.TrimSpace(c)
		}

		f.Examples = append(f.Examples, Example{
			Label:   label,
			Code:    strings.Join(calls, "\n"),
			Negated: isNegated(label, body),
			Failure: isFailure(label, body),
		})
	}
}

// isNegated is a substring heuristic: any label containing "not" counts, so
// labels like "cannot find" are false positives.
func isNegated(label, body string) bool {
	return strings.Contains(label, "not") || strings.Contains(body, NegationMarker)
}

func isFailure(label, body string) bool {
	lower := strings.ToLower(label)
	return strings.Contains(lower, "fail") ||
		strings.Contains(lower, "error") ||
		strings.Contains(body, FailureHelper)
}
