package similarity

import "testing"

// ─── Score bounds ───────────────────────────────────────────────────

func TestScore_IdenticalStrings(t *testing.T) {
	for _, s := range []string{
		"TypeError: Cannot read property 'foo' of undefined",
		"x",
		"",
	} {
		if got := Score(s, s); got != 1.0 {
			t.Errorf("Score(%q, %q) = %v, want 1.0", s, s, got)
		}
	}
}

func TestScore_EmptyAgainstNonEmpty(t *testing.T) {
	if got := Score("", "something went wrong"); got != 0 {
		t.Errorf("Score(empty, non-empty) = %v, want 0", got)
	}
	if got := Score("something went wrong", ""); got != 0 {
		t.Errorf("Score(non-empty, empty) = %v, want 0", got)
	}
}

func TestScore_AlwaysInUnitInterval(t *testing.T) {
	pairs := [][2]string{
		{"TypeError: Cannot read property 'x' of undefined", "TypeError: Cannot read property 'x' of undefined in render()"},
		{"connection refused", "ECONNREFUSED: connection refused by 10.0.0.1"},
		{"a", "b"},
		{"Maximum call stack size exceeded", "RangeError: Maximum call stack size exceeded"},
	}
	for _, p := range pairs {
		got := Score(p[0], p[1])
		if got < 0 || got > 1 {
			t.Errorf("Score(%q, %q) = %v, out of [0,1]", p[0], p[1], got)
		}
	}
}

// ─── Ranking behavior ───────────────────────────────────────────────

func TestScore_SameErrorClassScoresHigh(t *testing.T) {
	a := "TypeError: Cannot read property 'x' of undefined"
	b := "TypeError: Cannot read property 'y' of undefined"
	got := Score(a, b)
	if got <= 0.6 {
		t.Errorf("Score(%q, %q) = %v, want > 0.6", a, b, got)
	}
}

func TestScore_UnrelatedProblemsScoreLow(t *testing.T) {
	a := "Network timeout"
	b := "Invalid syntax in config"
	got := Score(a, b)
	if got >= 0.2 {
		t.Errorf("Score(%q, %q) = %v, want < 0.2", a, b, got)
	}
}

func TestScore_Symmetric(t *testing.T) {
	a := "TypeError: Cannot read property 'x' of undefined"
	b := "ReferenceError: x is not defined"
	if ab, ba := Score(a, b), Score(b, a); ab != ba {
		t.Errorf("Score not symmetric: %v vs %v", ab, ba)
	}
}

// ─── Individual signals ─────────────────────────────────────────────

func TestErrorTypeScore(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"same type", "TypeError: x", "TypeError: y", 1},
		{"different types", "TypeError: x", "RangeError: y", 0.1},
		{"missing on one side", "TypeError: x", "network glitch", 0},
		{"missing on both sides", "timeout", "deadlock", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorTypeScore(tt.a, tt.b); got != tt.want {
				t.Errorf("errorTypeScore(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestKeyPhraseScore(t *testing.T) {
	a := "Cannot read property 'x' of undefined, maybe it timed out"
	b := "cannot read properties of null, request timeout after 30s"
	// shared phrases: cannot read propert(y|ies), timed?out → 2 of the catalog
	want := 2.0 / float64(len(keyPhrases))
	if got := keyPhraseScore(a, b); got != want {
		t.Errorf("keyPhraseScore = %v, want %v", got, want)
	}

	if got := keyPhraseScore("totally unrelated", "also unrelated"); got != 0 {
		t.Errorf("keyPhraseScore with no shared phrases = %v, want 0", got)
	}
}

func TestWordOverlapScore(t *testing.T) {
	if got := wordOverlapScore("database connection failed", "database connection failed"); got != 1.0 {
		t.Errorf("identical token sets = %v, want 1.0", got)
	}
	if got := wordOverlapScore("alpha beta gamma", "delta epsilon zeta"); got != 0 {
		t.Errorf("disjoint token sets = %v, want 0", got)
	}
}

func TestWordOverlapScore_PrefixTokens(t *testing.T) {
	// "config" is a prefix of "configuration": counts as a match
	got := wordOverlapScore("bad config value", "bad configuration value")
	if got != 1.0 {
		t.Errorf("prefix tokens = %v, want 1.0", got)
	}
}

func TestWordOverlapScore_IgnoresNumbersAndShortWords(t *testing.T) {
	// "at", "42" dropped on both sides; "error" is the only token left
	if got := wordOverlapScore("error at 42", "error at 99"); got != 1.0 {
		t.Errorf("got %v, want 1.0", got)
	}
}

func TestIdentifierScore(t *testing.T) {
	a := "TypeError in getUser() while reading 'userId'"
	b := "crash inside getUser(), 'userId' was null"
	// both extract {getUser, userId}
	if got := identifierScore(a, b); got != 1.0 {
		t.Errorf("identifierScore = %v, want 1.0", got)
	}

	if got := identifierScore("no identifiers here", "none here either"); got != 0 {
		t.Errorf("identifierScore with no identifiers = %v, want 0", got)
	}

	a = `cannot find "alpha" or "beta"`
	b = `cannot find "alpha"`
	if got := identifierScore(a, b); got != 0.5 {
		t.Errorf("partial identifier overlap = %v, want 0.5", got)
	}
}
