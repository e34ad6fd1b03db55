package extract

import (
	"regexp"
	"slices"
	"strings"
)

var (
	// declarationRe matches the first line of the primary declaration, a void
	// operation taking a ref Evaluation, optionally preceded by attributes and
	// storage classes on the same line.
	declarationRe = regexp.MustCompile(`^\s*(?:(?:@\w+(?:\([^)]*\))?|\w+)\s+)*void\s+\w+\s*\(\s*ref\s+` + EvaluationType + `\b`)
	// annotationLineRe matches a line holding nothing but attributes.
	annotationLineRe = regexp.MustCompile(`^\s*(?:(?:@\w+(?:\([^)]*\))?|nothrow|pure|static|public|private|package|export|shared)\s*)+$`)
)

// matchNarrative joins the block of consecutive /// lines that sits directly
// on top of the primary declaration. Annotation-only lines may separate the
// block from the declaration; blank lines or other code may not. Doc comments
// on helpers are ignored.
func matchNarrative(text, _ string, f *Facts) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	decl := slices.IndexFunc(lines, declarationRe.MatchString)
	if decl < 0 {
		return
	}
	end := decl
	for end > 0 && annotationLineRe.MatchString(lines[end-1]) {
		end--
	}
	start := end
	for start > 0 && isDocLine(lines[start-1]) {
		start--
	}
	f.Narrative = joinDocLines(lines[start:end])
}

func isDocLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "///")
}

func joinDocLines(block []string) string {
	parts := make([]string, 0, len(block))
	for _, line := range block {
		stripped := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "///"))
		if stripped != "" {
			parts = append(parts, stripped)
		}
	}
	return strings.Join(parts, " ")
}
