// Package extract recovers documentation facts from operation source text.
//
// Every fact kind is an independent rule over the raw text. A rule that finds
// nothing leaves its fact empty; rules never depend on each other's output.
package extract

// Conventions of the documented source tree.
const (
	// EvaluationType is the first parameter type of an operation entry point.
	EvaluationType = "Evaluation"
	// EntryPoint starts every assertion chain in a unit test.
	EntryPoint = "expect"
	// NegationMarker inverts an assertion chain.
	NegationMarker = ".not."
	// FailureHelper is called by tests that record a failing evaluation.
	FailureHelper = "recordEvaluation"
)

// Example is one usage example recovered from a labelled unit test.
type Example struct {
	Label   string // Test label
	Code    string // Entry-point calls, one per line
	Negated bool   // Demonstrates the negated form
	Failure bool   // Demonstrates the failure path
}

// Facts holds everything recovered from one file. Zero values mean "not found".
type Facts struct {
	PrimaryIdentifier string
	Description       string
	Narrative         string
	Examples          []Example
	SupportedTypes    []string
	Aliases           []string
}

// Empty reports whether no rule produced anything.
func (f Facts) Empty() bool {
	return f.PrimaryIdentifier == "" &&
		f.Description == "" &&
		f.Narrative == "" &&
		len(f.Examples) == 0 &&
		len(f.SupportedTypes) == 0 &&
		len(f.Aliases) == 0
}
