// Package dedupe collapses extracted text occurrences into the minimal set
// of unique translation jobs, remembering which occurrences share each job
// so one translated string can be fanned back out to every position.
package dedupe

import (
	"github.com/valpere/doctran/internal/classifier"
	"github.com/valpere/doctran/internal/document"
)

// Result maps a slice of occurrences onto unique translatable texts.
//
// Every input occurrence appears in exactly one place: either its index is
// in Skipped (pass-through, final text equals original text byte for byte)
// or it is listed under its rawText in Index. Grouping is by exact string
// equality — case and internal whitespace differences are distinct jobs.
type Result struct {
	// Unique translatable texts in first-seen occurrence order.
	Unique []string
	// Index maps each unique text to the indices of all occurrences that
	// share it, preserving input order.
	Index map[string][]int
	// Skipped holds indices of occurrences classified Skip.
	Skipped []int
}

// Dedupe classifies every occurrence and groups the translatable ones by
// rawText. len(Skipped) plus the sum of Index bucket sizes always equals
// len(occs).
func Dedupe(occs []document.TextOccurrence) Result {
	res := Result{Index: make(map[string][]int)}

	for i, occ := range occs {
		if classifier.Classify(occ.RawText) == classifier.Skip {
			res.Skipped = append(res.Skipped, i)
			continue
		}
		if _, seen := res.Index[occ.RawText]; !seen {
			res.Unique = append(res.Unique, occ.RawText)
		}
		res.Index[occ.RawText] = append(res.Index[occ.RawText], i)
	}

	return res
}
