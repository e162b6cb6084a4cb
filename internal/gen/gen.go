// apps/go-solver/internal/gen/gen.go
//
// Batch enumeration of every valid equation for a rule set. This is the
// one-time preprocessing step that produces the candidate files the solver
// consumes; it is not part of the interactive loop.
//
// Construction rules:
//   - Numbers never start with 0 (so a standalone 0 operand never occurs).
//   - A single number's digit run is capped relative to the equation width.
//   - Operators must be followed by a number or, in extended rule sets, an
//     opening parenthesis.
//   - The ² / ³ exponents (worked with as ASCII s / c, normalized on output)
//     are part of every rule set; extended rule sets additionally allow
//     parentheses.
//   - Whenever all groups are closed, `=` plus the evaluated result is
//     emitted if the result is non-negative and exactly fills the remaining
//     width.
//
// Enumeration is depth-first over a single reusable byte buffer; the visitor
// must copy if it wants to keep the string (it receives a fresh normalized
// string already, so this only matters if that changes).

package gen

import (
	"strconv"

	"github.com/robalobadob/nerdle/apps/go-solver/internal/eval"
	"github.com/robalobadob/nerdle/apps/go-solver/internal/mask"
)

// Variant names a rule set: the fixed equation length and whether
// parentheses are allowed.
type Variant struct {
	Name     string
	Length   int
	Extended bool
}

// Variants are the known rule sets. Classic is the standard 8-rune game;
// maxi adds width and parentheses; micro is the 5-rune toy board.
var Variants = map[string]Variant{
	"classic": {Name: "classic", Length: 8, Extended: false},
	"maxi":    {Name: "maxi", Length: 10, Extended: true},
	"micro":   {Name: "micro", Length: 5, Extended: false},
}

// Generate enumerates every valid equation of the given rune length and
// calls visit with each, in a deterministic depth-first order. extended
// admits parentheses. Superscripts are normalized to their canonical ² / ³
// forms.
func Generate(length int, extended bool, visit func(string)) {
	g := &generator{buf: make([]byte, length), extended: extended, visit: visit}
	g.nzDigit(0, 0)
	if extended {
		g.open(0, 0)
	}
}

type generator struct {
	buf      []byte
	extended bool
	visit    func(string)
}

func (g *generator) emit() {
	g.visit(mask.NormalizeGuess(string(g.buf)))
}

// nzDigit places a leading (non-zero) digit of a number at index.
func (g *generator) nzDigit(index, depth int) {
	if index >= len(g.buf)-2 {
		return
	}
	for d := byte('1'); d <= '9'; d++ {
		g.buf[index] = d
		g.tryEq(index+1, depth)
		g.digit(index+1, depth, 1)
		g.oper(index+1, depth)
		g.squared(index+1, depth)
		g.cubed(index+1, depth)
		if depth > 0 {
			g.close(index+1, depth)
		}
	}
}

// digit extends a number already ndigits long. Zero is allowed here (it is
// no longer a leading digit); the run length is capped so one operand cannot
// swallow the board.
func (g *generator) digit(index, depth, ndigits int) {
	if index >= len(g.buf)-2 {
		return
	}
	if ndigits >= (len(g.buf)-2)/2 {
		return
	}
	for _, d := range []byte("1234567890") {
		g.buf[index] = d
		g.tryEq(index+1, depth)
		g.digit(index+1, depth, ndigits+1)
		g.oper(index+1, depth)
		g.squared(index+1, depth)
		g.cubed(index+1, depth)
		if depth > 0 {
			g.close(index+1, depth)
		}
	}
}

// oper places a binary operator; something evaluable must follow it.
func (g *generator) oper(index, depth int) {
	if index > len(g.buf)-3 {
		return
	}
	for _, op := range []byte("-+*/") {
		g.buf[index] = op
		g.nzDigit(index+1, depth)
		if g.extended {
			g.open(index+1, depth)
		}
	}
}

func (g *generator) squared(index, depth int) {
	if index > len(g.buf)-2 {
		return
	}
	g.buf[index] = mask.SquaredASCII
	if index >= 3 {
		g.tryEq(index+1, depth)
	}
	g.oper(index+1, depth)
	if depth > 0 {
		g.close(index+1, depth)
	}
}

func (g *generator) cubed(index, depth int) {
	if index > len(g.buf)-2 {
		return
	}
	g.buf[index] = mask.CubedASCII
	if index >= 2 {
		g.tryEq(index+1, depth)
	}
	g.oper(index+1, depth)
	if depth > 0 {
		g.close(index+1, depth)
	}
}

func (g *generator) open(index, depth int) {
	if index > len(g.buf)-3 {
		return
	}
	g.buf[index] = '('
	g.nzDigit(index+1, depth+1)
	g.open(index+1, depth+1)
}

func (g *generator) close(index, depth int) {
	if index > len(g.buf)-2 {
		return
	}
	g.buf[index] = ')'
	g.tryEq(index+1, depth-1)
	g.oper(index+1, depth-1)
	g.squared(index+1, depth-1)
	g.cubed(index+1, depth-1)
	if depth-1 > 0 {
		g.close(index+1, depth-1)
	}
}

// tryEq attempts to complete the equation: evaluate the expression built so
// far and, when the non-negative result exactly fills the remaining width,
// append `=result` and emit.
func (g *generator) tryEq(index, depth int) {
	if depth > 0 {
		return
	}
	v, err := eval.Eval(string(g.buf[:index]))
	if err != nil || v < 0 {
		// Unfinished or invalid expression, or a negative result; Nerdle
		// has no negative-number solutions.
		return
	}
	rhs := strconv.FormatInt(v, 10)
	if index+len(rhs)+1 != len(g.buf) {
		return
	}
	g.buf[index] = '='
	copy(g.buf[index+1:], rhs)
	g.emit()
}
