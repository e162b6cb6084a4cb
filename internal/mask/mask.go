// apps/go-solver/internal/mask/mask.go
//
// Feedback-mask model and scoring engine for Nerdle-style equations.
// Responsibilities:
//   - Define the equation alphabet (digits, operators, =, parens, ² and ³).
//   - Score a guess against a truth string with the classic two-pass,
//     duplicate-safe algorithm.
//   - Parse human-transcribed masks (G/2, P/1, B/0 and their synonyms).
//   - Normalize and validate human-entered guesses (s→², c→³).
//
// Notes:
//   - Equations may contain the multi-byte runes ² and ³, so every length
//     here is a rune count, never len(string).
//   - Score is a pure function; a length mismatch between guess and truth
//     means an upstream invariant was broken and is reported as
//     ErrLengthMismatch rather than silently truncated.

package mask

import (
	"errors"
	"fmt"
	"strings"
)

// Alphabet is every rune that may appear in a candidate equation.
// Parentheses and superscripts only occur in extended rule sets.
const Alphabet = "0123456789+-*/=()²³"

// ASCII substitutes accepted on input for the superscript runes.
const (
	SquaredASCII = 's'
	CubedASCII   = 'c'
	Squared      = '²'
	Cubed        = '³'
)

var (
	ErrLengthMismatch = errors.New("mask: guess and truth lengths differ")
	ErrMaskLength     = errors.New("mask: wrong mask length")
	ErrMaskChar       = errors.New("mask: unrecognized mask character")
	ErrGuessLength    = errors.New("mask: wrong guess length")
	ErrGuessChar      = errors.New("mask: character not in equation alphabet")
)

// Mark is the evaluation result for a single position in a guess.
type Mark byte

const (
	MarkAbsent  Mark = 'B' // character does not appear (beyond its matched count)
	MarkPresent Mark = 'P' // character appears elsewhere
	MarkExact   Mark = 'G' // character is in the correct position
)

// Mask is the ordered per-position feedback for one guess.
type Mask []Mark

// String renders the mask in the G/P/B alphabet, e.g. "BGGGP".
func (m Mask) String() string {
	b := make([]byte, len(m))
	for i, v := range m {
		b[i] = byte(v)
	}
	return string(b)
}

// Key returns a compact comparable form, used as a histogram key.
func (m Mask) Key() string { return m.String() }

// Equal reports whether two masks are identical position by position.
func (m Mask) Equal(other Mask) bool {
	if len(m) != len(other) {
		return false
	}
	for i := range m {
		if m[i] != other[i] {
			return false
		}
	}
	return true
}

// alphabetSize covers the 19 runes of Alphabet for the counting table.
const alphabetSize = 19

// alphabetIndex maps an alphabet rune to 0..18, or -1 for anything else.
func alphabetIndex(r rune) int {
	if r >= '0' && r <= '9' {
		return int(r - '0')
	}
	switch r {
	case '+':
		return 10
	case '-':
		return 11
	case '*':
		return 12
	case '/':
		return 13
	case '=':
		return 14
	case '(':
		return 15
	case ')':
		return 16
	case Squared:
		return 17
	case Cubed:
		return 18
	}
	return -1
}

// Score evaluates guess against truth and returns the feedback mask.
//
// Pass 1:
//   - Mark exact matches.
//   - Count remaining (non-exact) truth characters.
//
// Pass 2:
//   - For each non-exact guess character: if there is remaining count for that
//     character, mark Present and decrement; otherwise mark Absent.
//
// This ensures Exact+Present marks for any character never exceed its
// multiplicity in truth, which matters for equations with repeated digits.
func Score(guess, truth string) (Mask, error) {
	g := []rune(guess)
	t := []rune(truth)
	if len(g) != len(t) {
		return nil, fmt.Errorf("%w: guess %d truth %d", ErrLengthMismatch, len(g), len(t))
	}
	m := make(Mask, len(g))
	ScoreRunes(g, t, m)
	return m, nil
}

// ScoreRunes is the allocation-free core of Score. guess, truth and out must
// all have the same length; callers own that invariant (the estimator calls
// this in a tight loop over millions of candidates).
//
// Scoring works for arbitrary runes, not just the equation alphabet: alphabet
// membership is an input-validation concern, not a scoring one. Alphabet runes
// are counted in a fixed table; anything else falls back to a map, allocated
// only when such a rune actually occurs.
func ScoreRunes(guess, truth []rune, out Mask) {
	var counts [alphabetSize]int
	var extra map[rune]int

	// First pass: exact matches, and counts for the rest of truth.
	for i := range guess {
		if guess[i] == truth[i] {
			out[i] = MarkExact
		} else {
			out[i] = MarkAbsent
			if j := alphabetIndex(truth[i]); j >= 0 {
				counts[j]++
			} else {
				if extra == nil {
					extra = make(map[rune]int)
				}
				extra[truth[i]]++
			}
		}
	}

	// Second pass: presents consume remaining counts.
	for i := range guess {
		if out[i] == MarkExact {
			continue
		}
		if j := alphabetIndex(guess[i]); j >= 0 {
			if counts[j] > 0 {
				out[i] = MarkPresent
				counts[j]--
			}
		} else if extra[guess[i]] > 0 {
			out[i] = MarkPresent
			extra[guess[i]]--
		}
	}
}

// Parse converts a human-transcribed mask into a Mask.
//
// Accepted per position (two parallel alphabets plus legacy synonyms):
//   - Exact:   '2', 'G', 'g', 'C', 'c'
//   - Present: '1', 'P', 'p', 'I', 'i'
//   - Absent:  '0', 'B', 'b', 'N', 'n', 'R', 'r', ' '
//
// length is the rune length of the equation the mask describes.
func Parse(s string, length int) (Mask, error) {
	runes := []rune(s)
	if len(runes) != length {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrMaskLength, len(runes), length)
	}
	m := make(Mask, length)
	for i, r := range runes {
		switch r {
		case '2', 'G', 'g', 'C', 'c':
			m[i] = MarkExact
		case '1', 'P', 'p', 'I', 'i':
			m[i] = MarkPresent
		case '0', 'B', 'b', 'N', 'n', 'R', 'r', ' ':
			m[i] = MarkAbsent
		default:
			return nil, fmt.Errorf("%w: %q at position %d", ErrMaskChar, r, i)
		}
	}
	return m, nil
}

// NormalizeGuess rewrites the ASCII exponent substitutes to the canonical
// superscript runes used by the candidate files.
func NormalizeGuess(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case SquaredASCII:
			return Squared
		case CubedASCII:
			return Cubed
		}
		return r
	}, s)
}

// ValidateGuess checks a normalized guess for length and alphabet membership.
// Malformed guesses are user error: callers re-prompt rather than abort.
func ValidateGuess(s string, length int) error {
	runes := []rune(s)
	if len(runes) != length {
		return fmt.Errorf("%w: got %d, want %d", ErrGuessLength, len(runes), length)
	}
	for i, r := range runes {
		if alphabetIndex(r) < 0 {
			return fmt.Errorf("%w: %q at position %d", ErrGuessChar, r, i)
		}
	}
	return nil
}
