package gen

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/nerdle/apps/go-solver/internal/candidates"
	"github.com/robalobadob/nerdle/apps/go-solver/internal/eval"
)

func TestGenerateMicro(t *testing.T) {
	var out []string
	Generate(5, false, func(eq string) { out = append(out, eq) })

	// The micro board admits exactly 127 equations (single-digit operands,
	// no standalone zero, non-negative single-digit results).
	assert.Len(t, out, 127)

	seen := map[string]bool{}
	for _, eq := range out {
		assert.Len(t, []rune(eq), 5, "equation %q", eq)
		assert.False(t, seen[eq], "duplicate equation %q", eq)
		seen[eq] = true
		assertValidEquation(t, eq)
	}
}

func TestGenerateMicroIsLoadable(t *testing.T) {
	var out []string
	Generate(5, false, func(eq string) { out = append(out, eq) })

	set, err := candidates.FromSlice(out)
	require.NoError(t, err)
	assert.Equal(t, len(out), set.Len())
	assert.Equal(t, 5, set.Length())
}

func TestGenerateExtendedUsesSuperscripts(t *testing.T) {
	var out []string
	Generate(7, true, func(eq string) { out = append(out, eq) })
	require.NotEmpty(t, out)

	sawExponent := false
	sawParen := false
	for _, eq := range out {
		assert.NotContains(t, eq, "s")
		assert.NotContains(t, eq, "c")
		if strings.ContainsAny(eq, "²³") {
			sawExponent = true
		}
		if strings.Contains(eq, "(") {
			sawParen = true
		}
		assertValidEquation(t, eq)
	}
	assert.True(t, sawExponent, "no exponent equations generated")
	assert.True(t, sawParen, "no parenthesized equations generated")
}

func TestGenerateDeterministic(t *testing.T) {
	var a, b []string
	Generate(5, false, func(eq string) { a = append(a, eq) })
	Generate(5, false, func(eq string) { b = append(b, eq) })
	assert.Equal(t, a, b)
}

func TestGenerateClassic(t *testing.T) {
	n := 0
	sawExponent := false
	sawParen := false
	Generate(8, false, func(eq string) {
		n++
		if strings.ContainsAny(eq, "²³") {
			sawExponent = true
		}
		if strings.Contains(eq, "(") {
			sawParen = true
		}
	})
	assert.Equal(t, 18115, n)

	// Exponents belong to every rule set; parentheses are extended-only.
	assert.True(t, sawExponent, "classic universe is missing exponent equations")
	assert.False(t, sawParen, "classic universe admitted parentheses")
}

// assertValidEquation checks the generator's own contract: lhs evaluates to
// the rhs literal, no leading zeros anywhere.
func assertValidEquation(t *testing.T, eq string) {
	t.Helper()
	parts := strings.SplitN(eq, "=", 2)
	require.Len(t, parts, 2, "equation %q has no =", eq)

	v, err := eval.Eval(parts[0])
	require.NoError(t, err, "lhs of %q", eq)

	rhs, err := strconv.ParseInt(parts[1], 10, 64)
	require.NoError(t, err, "rhs of %q", eq)
	assert.Equal(t, rhs, v, "equation %q does not balance", eq)
	assert.GreaterOrEqual(t, rhs, int64(0))
	if len(parts[1]) > 1 {
		assert.NotEqual(t, byte('0'), parts[1][0], "rhs of %q has a leading zero", eq)
	}
}
