// apps/go-solver/internal/candidates/candidates.go
//
// Candidate-equation storage for the solver.
// Responsibilities:
//   - Load a universe of candidate equations from a newline-delimited source
//     (produced by the generators; consumed read-only).
//   - Enforce the one structural invariant: every candidate has the same
//     rune length (the core does not re-validate arithmetic).
//   - Filter a live set by a (guess, observed mask) pair using the
//     feedback-consistency rule.
//
// A Set is immutable once constructed: Filter returns a new Set sharing the
// underlying strings, so the once-loaded universe can be handed by pointer to
// the session loop, the estimator, and every API session without copying or
// locking.

package candidates

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/robalobadob/nerdle/apps/go-solver/internal/mask"
)

var (
	ErrEmptySource        = errors.New("candidates: no candidates in source")
	ErrInconsistentLength = errors.New("candidates: inconsistent candidate length")
)

// Set is an ordered, immutable collection of equal-length equation strings.
type Set struct {
	entries []string
	runes   [][]rune // per-entry rune slices, precomputed for the scoring loop
	length  int      // rune length shared by every entry
}

// Load reads one candidate per line. Blank lines are skipped; a trailing
// newline is ignored. Fails with ErrEmptySource when nothing is read and
// ErrInconsistentLength when any line's rune length differs from the first.
func Load(r io.Reader) (*Set, error) {
	s := &Set{}
	sc := bufio.NewScanner(r)
	// Universes run into the millions of lines; raise the scanner's buffer
	// ceiling well past any plausible equation length anyway.
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		rs := []rune(line)
		if s.length == 0 {
			s.length = len(rs)
		} else if len(rs) != s.length {
			return nil, fmt.Errorf("%w: line %d is %d runes, want %d",
				ErrInconsistentLength, len(s.entries)+1, len(rs), s.length)
		}
		s.entries = append(s.entries, line)
		s.runes = append(s.runes, rs)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("candidates: read: %w", err)
	}
	if len(s.entries) == 0 {
		return nil, ErrEmptySource
	}
	return s, nil
}

// LoadFile opens path and loads it via Load.
func LoadFile(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("candidates: open %s: %w", path, err)
	}
	defer f.Close()
	set, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("candidates: %s: %w", path, err)
	}
	return set, nil
}

// FromSlice builds a Set from in-memory strings, with the same invariants as
// Load. Used by tests and by the generators' round-trip checks.
func FromSlice(entries []string) (*Set, error) {
	return Load(strings.NewReader(strings.Join(entries, "\n")))
}

// Len returns the number of candidates.
func (s *Set) Len() int { return len(s.entries) }

// Length returns the rune length shared by every candidate.
func (s *Set) Length() int { return s.length }

// At returns the candidate at load-order index i.
func (s *Set) At(i int) string { return s.entries[i] }

// RunesAt returns the precomputed rune slice for candidate i. Callers must
// not mutate it.
func (s *Set) RunesAt(i int) []rune { return s.runes[i] }

// Entries returns the candidates in load order. Callers must not mutate it.
func (s *Set) Entries() []string { return s.entries }

// Preview returns up to limit candidates in load order, plus a flag telling
// whether the set was truncated.
func (s *Set) Preview(limit int) ([]string, bool) {
	if limit >= len(s.entries) {
		return s.entries, false
	}
	return s.entries[:limit], true
}

// Filter returns the subset of s consistent with having played guess and
// observed m: a candidate survives only if Score(guess, candidate) equals the
// observed mask exactly. The result is a subset of s (filtering never
// re-admits a candidate) and filtering twice with the same pair is a no-op.
func (s *Set) Filter(guess string, m mask.Mask) (*Set, error) {
	g := []rune(guess)
	if len(g) != s.length {
		return nil, fmt.Errorf("%w: guess is %d runes, candidates are %d",
			mask.ErrLengthMismatch, len(g), s.length)
	}
	if len(m) != s.length {
		return nil, fmt.Errorf("%w: mask is %d marks, candidates are %d runes",
			mask.ErrMaskLength, len(m), s.length)
	}
	out := &Set{length: s.length}
	scratch := make(mask.Mask, s.length)
	for i, rs := range s.runes {
		mask.ScoreRunes(g, rs, scratch)
		if scratch.Equal(m) {
			out.entries = append(out.entries, s.entries[i])
			out.runes = append(out.runes, rs)
		}
	}
	return out, nil
}
