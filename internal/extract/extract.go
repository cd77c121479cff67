// Package extract pulls an embedded Vega-Lite specification out of a chart
// HTML file. The input files are produced by our own export pipeline, so a
// narrow pattern match is enough; this is deliberately not a script parser.
package extract

import "regexp"

// Empty is the placeholder returned when no specification is found.
const Empty = "{}"

// specPattern matches the first `var spec = {...};` assignment. The capture
// is non-greedy and stops at the first `};`, which is where the generated
// templates end the assignment.
var specPattern = regexp.MustCompile(`(?s)var spec = ({.*?});`)

// Spec returns the first embedded specification in text, verbatim.
// Returns Empty if the assignment pattern does not occur.
func Spec(text string) string {
	m := specPattern.FindStringSubmatch(text)
	if m == nil {
		return Empty
	}
	return m[1]
}
