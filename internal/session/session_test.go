package session

import (
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/nerdle/apps/go-solver/internal/candidates"
)

func testConfig() Config {
	return Config{
		SampleSize: 50,
		Rand:       rand.New(rand.NewSource(1)),
		Log:        zerolog.Nop(),
	}
}

func mustSet(t *testing.T, entries ...string) *candidates.Set {
	t.Helper()
	set, err := candidates.FromSlice(entries)
	require.NoError(t, err)
	return set
}

func TestRunSolves(t *testing.T) {
	universe := mustSet(t, "1+1=2", "2+1=3", "1+2=3")

	// Hidden truth is 2+1=3; playing 1+1=2 observes BGGGP.
	in := strings.NewReader("1+1=2\nBGGGP\n")
	var out strings.Builder

	outcome, err := New(universe, in, &out, testConfig()).Run()
	require.NoError(t, err)
	assert.True(t, outcome.Solved)
	assert.Equal(t, "2+1=3", outcome.Solution)
	assert.Equal(t, 1, outcome.Guesses)
	assert.Equal(t, 1, outcome.Remaining)

	assert.Contains(t, out.String(), "Loaded 3 options")
	assert.Contains(t, out.String(), "3 options remaining")
	assert.Contains(t, out.String(), "Best guess:")
	assert.Contains(t, out.String(), "Solved: 2+1=3")
}

func TestRunRepromptsOnMalformedInput(t *testing.T) {
	universe := mustSet(t, "1+1=2", "2+1=3", "1+2=3")

	// Wrong-length guess, guess with a bad character, bad mask character,
	// then a valid round.
	in := strings.NewReader("1+1\n1+1=x\n1+1=2\nZZZZZ\nBGGGP\n")
	var out strings.Builder

	outcome, err := New(universe, in, &out, testConfig()).Run()
	require.NoError(t, err)
	assert.True(t, outcome.Solved)
	assert.Equal(t, "2+1=3", outcome.Solution)

	assert.Contains(t, out.String(), "Invalid guess:")
	assert.Contains(t, out.String(), "Invalid mask:")
}

func TestRunNormalizesExponentInput(t *testing.T) {
	universe := mustSet(t, "3²=9", "2²=4")

	// Play 2²=4 typed with the ASCII substitute; truth is 3²=9.
	in := strings.NewReader("2s=4\nBGGB\n")
	var out strings.Builder

	outcome, err := New(universe, in, &out, testConfig()).Run()
	require.NoError(t, err)
	assert.True(t, outcome.Solved)
	assert.Equal(t, "3²=9", outcome.Solution)
}

func TestRunReportsContradiction(t *testing.T) {
	universe := mustSet(t, "1+1=2", "2+1=3", "1+2=3")

	// An all-Present mask for this guess matches nothing.
	in := strings.NewReader("1+1=2\nPPPPP\n")
	var out strings.Builder

	outcome, err := New(universe, in, &out, testConfig()).Run()
	require.NoError(t, err)
	assert.False(t, outcome.Solved)
	assert.Zero(t, outcome.Remaining)
	assert.Contains(t, out.String(), "No options remain")
}

func TestRunReturnsEOFWhenInputCloses(t *testing.T) {
	universe := mustSet(t, "1+1=2", "2+1=3", "1+2=3")

	in := strings.NewReader("1+1=2\n")
	var out strings.Builder

	_, err := New(universe, in, &out, testConfig()).Run()
	assert.ErrorIs(t, err, io.EOF)
}

func TestRunSingletonUniverse(t *testing.T) {
	universe := mustSet(t, "1+1=2")

	outcome, err := New(universe, strings.NewReader(""), &strings.Builder{}, testConfig()).Run()
	require.NoError(t, err)
	assert.True(t, outcome.Solved)
	assert.Equal(t, "1+1=2", outcome.Solution)
	assert.Zero(t, outcome.Guesses)
}

func TestRunPreviewTruncation(t *testing.T) {
	universe := mustSet(t, "1+1=2", "2+1=3", "1+2=3", "3-1=2", "4-1=3")

	cfg := testConfig()
	cfg.PreviewLimit = 2

	in := strings.NewReader("1+1=2\nBGGGP\n")
	var out strings.Builder
	_, err := New(universe, in, &out, cfg).Run()
	require.NoError(t, err)
	assert.Contains(t, out.String(), "- ...")
}

func TestStepsRecorded(t *testing.T) {
	universe := mustSet(t, "1+1=2", "2+1=3", "1+2=3")

	in := strings.NewReader("1+1=2\nBGGGP\n")
	s := New(universe, in, &strings.Builder{}, testConfig())
	_, err := s.Run()
	require.NoError(t, err)

	steps := s.Steps()
	require.Len(t, steps, 1)
	assert.Equal(t, "1+1=2", steps[0].Guess)
	assert.Equal(t, "BGGGP", steps[0].Mask.String())
}
