// Package diff wraps go-difflib as the pure unified-diff collaborator the
// store calls to compare two version snapshots.
package diff

import "github.com/pmezard/go-difflib/difflib"

// Unified returns unified-diff text comparing from against to, labelled
// with fromLabel/toLabel (typically "version N" style strings). It is a
// pure function: same inputs, same output, no external state.
func Unified(fromLabel, from, toLabel, to string) string {
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(from),
		B:        difflib.SplitLines(to),
		FromFile: fromLabel,
		ToFile:   toLabel,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return ""
	}
	return text
}
