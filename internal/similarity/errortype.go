// Package similarity scores how alike two pieces of debugging text are.
//
// The score is a weighted sum of six independent signals — error type,
// longest common substring, edit distance, key debugging phrases, word
// overlap, and shared identifiers — each clamped to [0,1] before
// weighting. The design favors cheap, deterministic string algorithms
// over anything semantic: inputs are short error reports, not prose.
package similarity

import (
	"regexp"
	"strings"
)

// ErrorTypeOther is the reserved bucket token for problem text that
// contains no recognizable error type.
const ErrorTypeOther = "other"

// errorTypePattern matches the fixed error-type vocabulary in a single
// leftmost scan, so when several types appear in one string the first
// occurrence wins deterministically. The optional whitespace lets
// "TypeError", "Type Error" and "TYPE ERROR" all normalize identically
// (input is lowercased before matching).
var errorTypePattern = regexp.MustCompile(`(type|reference|syntax|range|eval|uri)\s*error`)

// ExtractErrorType returns the canonical lowercase error-type token
// ("type error", "syntax error", ...) found anywhere in text, or
// ok=false when the text contains none.
func ExtractErrorType(text string) (string, bool) {
	m := errorTypePattern.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return "", false
	}
	return m[1] + " error", true
}
