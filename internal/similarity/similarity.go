package similarity

import (
	"regexp"
	"strings"
)

// Signal weights. They sum to 1.0; the total is capped at 1.0 anyway so
// the relative proportions stay meaningful if the table ever grows.
const (
	weightErrorType    = 0.20
	weightSubstring    = 0.20
	weightEditDistance = 0.15
	weightKeyPhrase    = 0.15
	weightWordOverlap  = 0.20
	weightIdentifier   = 0.10
)

// Score computes a bounded [0,1] similarity between a query pattern and
// a stored piece of content.
//
// Identical strings — including two empty strings, treated as the
// degenerate identical case — score exactly 1.0. An empty string
// against a non-empty one scores 0.
func Score(pattern, content string) float64 {
	if pattern == content {
		return 1
	}
	if pattern == "" || content == "" {
		return 0
	}

	total := weightErrorType*errorTypeScore(pattern, content) +
		weightSubstring*substringScore(pattern, content) +
		weightEditDistance*editDistanceScore(pattern, content) +
		weightKeyPhrase*keyPhraseScore(pattern, content) +
		weightWordOverlap*wordOverlapScore(pattern, content) +
		weightIdentifier*identifierScore(pattern, content)

	return clamp01(total)
}

// errorTypeScore compares the extracted error types of the two texts.
// A shared type is the strongest single indicator that two reports
// describe the same class of failure. A missing type on either side
// contributes nothing rather than penalizing.
func errorTypeScore(a, b string) float64 {
	ta, okA := ExtractErrorType(a)
	tb, okB := ExtractErrorType(b)
	if !okA || !okB {
		return 0
	}
	switch {
	case ta == tb:
		return 1
	case strings.Contains(ta, tb) || strings.Contains(tb, ta):
		// same textual family, different exact form
		return 0.55
	default:
		return 0.1
	}
}

// keyPhrases is the fixed catalog of canonical debugging phrases. Each
// entry is a pattern rather than a literal so close variants ("cannot
// read property" / "cannot read properties") still count. The catalog
// is a static table so the vocabulary can be extended and tested
// independently of the scoring logic.
var keyPhrases = []*regexp.Regexp{
	regexp.MustCompile(`cannot read propert(?:y|ies)`),
	regexp.MustCompile(`is not defined`),
	regexp.MustCompile(`is not a function`),
	regexp.MustCompile(`maximum call stack`),
	regexp.MustCompile(`permission denied`),
	regexp.MustCompile(`undefined or null`),
	regexp.MustCompile(`connection refused`),
	regexp.MustCompile(`timed? ?out`),
	regexp.MustCompile(`out of memory`),
	regexp.MustCompile(`module not found`),
}

// keyPhraseScore is the fraction of catalog entries present in both
// texts.
func keyPhraseScore(a, b string) float64 {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	matched := 0
	for _, p := range keyPhrases {
		if p.MatchString(la) && p.MatchString(lb) {
			matched++
		}
	}
	return float64(matched) / float64(len(keyPhrases))
}

var wordSplitter = regexp.MustCompile(`[^a-z0-9]+`)

// minTokenLen drops short glue words ("a", "of", "in") before overlap
// is measured.
const minTokenLen = 3

// minPrefixLen guards the partial token match: both tokens must be at
// least this long before a prefix relation counts.
const minPrefixLen = 4

// wordOverlapScore counts tokens shared between the two texts, allowing
// prefix matches between near-identical tokens ("config" vs
// "configuration"), normalized by the larger token set. Purely numeric
// tokens are ignored.
func wordOverlapScore(a, b string) float64 {
	ta, tb := tokenize(a), tokenize(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	small, large := ta, tb
	if len(tb) < len(ta) {
		small, large = tb, ta
	}
	matched := 0
	for w := range small {
		if tokenMatches(w, large) {
			matched++
		}
	}
	return clamp01(float64(matched) / float64(max(len(ta), len(tb))))
}

func tokenize(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range wordSplitter.Split(strings.ToLower(s), -1) {
		if len(w) < minTokenLen || isNumeric(w) {
			continue
		}
		out[w] = struct{}{}
	}
	return out
}

func tokenMatches(w string, set map[string]struct{}) bool {
	if _, ok := set[w]; ok {
		return true
	}
	if len(w) < minPrefixLen {
		return false
	}
	for cand := range set {
		if len(cand) < minPrefixLen {
			continue
		}
		if strings.HasPrefix(cand, w) || strings.HasPrefix(w, cand) {
			return true
		}
	}
	return false
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// identifierPatterns extract quoted literals (single, double, backtick)
// and call-like names from error text. Shared identifiers are a strong
// hint that two reports touch the same code.
var identifierPatterns = []*regexp.Regexp{
	regexp.MustCompile(`'([^']+)'`),
	regexp.MustCompile(`"([^"]+)"`),
	regexp.MustCompile("`([^`]+)`"),
	regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\(`),
}

// identifierScore is the overlap ratio of the identifier sets extracted
// from both texts; zero when either side has none.
func identifierScore(a, b string) float64 {
	ia, ib := identifiers(a), identifiers(b)
	if len(ia) == 0 || len(ib) == 0 {
		return 0
	}
	shared := 0
	for id := range ia {
		if _, ok := ib[id]; ok {
			shared++
		}
	}
	return float64(shared) / float64(max(len(ia), len(ib)))
}

func identifiers(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, p := range identifierPatterns {
		for _, m := range p.FindAllStringSubmatch(s, -1) {
			out[m[1]] = struct{}{}
		}
	}
	return out
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
