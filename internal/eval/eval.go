// apps/go-solver/internal/eval/eval.go
//
// Arithmetic evaluator for Nerdle-style expressions.
// Responsibilities:
//   - Parse and evaluate the left-hand side of candidate equations:
//     digits, parentheses, ² and ³ (ASCII substitutes s and c accepted),
//     * and /, + and -. Spaces are ignored.
//   - Report an integer result or a typed error.
//
// Nerdle permits intermediate fractions ((5/4)*(4/5) = 1) but the final
// result must be an integer. Evaluation therefore runs on checked int64
// first, and only when a non-integer division occurs is the expression
// re-evaluated exactly with big.Rat. The two evaluations share one generic
// recursive-descent parser over a small arithmetic interface.

package eval

import (
	"errors"
	"fmt"
	"math"
	"math/big"
)

var (
	ErrSyntax       = errors.New("eval: invalid expression")
	ErrDivideByZero = errors.New("eval: division by zero")
	ErrOverflow     = errors.New("eval: arithmetic overflow")
	ErrNonInteger   = errors.New("eval: result is not an integer")

	// errNonIntegerDivision is internal: it aborts the int64 pass and
	// triggers the exact rational retry.
	errNonIntegerDivision = errors.New("eval: non-integer division")
)

// Eval evaluates expr and returns its integer value.
func Eval(expr string) (int64, error) {
	v, err := run[int64](expr, intOps{})
	if !errors.Is(err, errNonIntegerDivision) {
		return v, err
	}

	r, err := run[*big.Rat](expr, ratOps{})
	if err != nil {
		return 0, err
	}
	if !r.IsInt() {
		return 0, ErrNonInteger
	}
	n := r.Num()
	if !n.IsInt64() {
		return 0, ErrOverflow
	}
	return n.Int64(), nil
}

// arith abstracts the value domain the parser folds over.
type arith[T any] interface {
	fromInt(int64) T
	add(a, b T) (T, error)
	sub(a, b T) (T, error)
	mul(a, b T) (T, error)
	div(a, b T) (T, error)
	pow(a T, n int) (T, error)
}

func run[T any](expr string, ops arith[T]) (T, error) {
	p := &parser[T]{src: []rune(expr), ops: ops}
	v, err := p.expr()
	if err != nil {
		var zero T
		return zero, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		var zero T
		return zero, fmt.Errorf("%w: trailing input at %d", ErrSyntax, p.pos)
	}
	return v, nil
}

type parser[T any] struct {
	src []rune
	pos int
	ops arith[T]
}

func (p *parser[T]) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *parser[T]) peek() rune {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

// expr := term (('+' | '-') term)*
func (p *parser[T]) expr() (T, error) {
	acc, err := p.term()
	if err != nil {
		return acc, err
	}
	for {
		p.skipSpace()
		op := p.peek()
		if op != '+' && op != '-' {
			return acc, nil
		}
		p.pos++
		rhs, err := p.term()
		if err != nil {
			return acc, err
		}
		if op == '+' {
			acc, err = p.ops.add(acc, rhs)
		} else {
			acc, err = p.ops.sub(acc, rhs)
		}
		if err != nil {
			return acc, err
		}
	}
}

// term := exponent (('*' | '/') exponent)*
func (p *parser[T]) term() (T, error) {
	acc, err := p.exponent()
	if err != nil {
		return acc, err
	}
	for {
		p.skipSpace()
		op := p.peek()
		if op != '*' && op != '/' {
			return acc, nil
		}
		p.pos++
		rhs, err := p.exponent()
		if err != nil {
			return acc, err
		}
		if op == '*' {
			acc, err = p.ops.mul(acc, rhs)
		} else {
			acc, err = p.ops.div(acc, rhs)
		}
		if err != nil {
			return acc, err
		}
	}
}

// exponent := factor ('²' | 's' | '³' | 'c')*
func (p *parser[T]) exponent() (T, error) {
	acc, err := p.factor()
	if err != nil {
		return acc, err
	}
	for {
		p.skipSpace()
		switch p.peek() {
		case '²', 's':
			p.pos++
			acc, err = p.ops.pow(acc, 2)
		case '³', 'c':
			p.pos++
			acc, err = p.ops.pow(acc, 3)
		default:
			return acc, nil
		}
		if err != nil {
			return acc, err
		}
	}
}

// factor := digits | '(' expr ')'
func (p *parser[T]) factor() (T, error) {
	var zero T
	p.skipSpace()
	r := p.peek()
	switch {
	case r >= '0' && r <= '9':
		var v int64
		for p.pos < len(p.src) {
			d := p.src[p.pos]
			if d < '0' || d > '9' {
				break
			}
			if v > (math.MaxInt64-int64(d-'0'))/10 {
				return zero, ErrOverflow
			}
			v = v*10 + int64(d-'0')
			p.pos++
		}
		return p.ops.fromInt(v), nil
	case r == '(':
		p.pos++
		v, err := p.expr()
		if err != nil {
			return zero, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return zero, fmt.Errorf("%w: expected ')' at %d", ErrSyntax, p.pos)
		}
		p.pos++
		return v, nil
	default:
		return zero, fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, r, p.pos)
	}
}

// ----------------------------- int64 domain --------------------------------

type intOps struct{}

func (intOps) fromInt(v int64) int64 { return v }

func (intOps) add(a, b int64) (int64, error) {
	s := a + b
	if (b > 0 && s < a) || (b < 0 && s > a) {
		return 0, ErrOverflow
	}
	return s, nil
}

func (intOps) sub(a, b int64) (int64, error) {
	s := a - b
	if (b < 0 && s < a) || (b > 0 && s > a) {
		return 0, ErrOverflow
	}
	return s, nil
}

func (intOps) mul(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	r := a * b
	if r/a != b {
		return 0, ErrOverflow
	}
	return r, nil
}

func (intOps) div(a, b int64) (int64, error) {
	if b == 0 {
		return 0, ErrDivideByZero
	}
	if a%b != 0 {
		return 0, errNonIntegerDivision
	}
	return a / b, nil
}

func (o intOps) pow(a int64, n int) (int64, error) {
	r := int64(1)
	for i := 0; i < n; i++ {
		var err error
		if r, err = o.mul(r, a); err != nil {
			return 0, err
		}
	}
	return r, nil
}

// ---------------------------- rational domain ------------------------------

type ratOps struct{}

func (ratOps) fromInt(v int64) *big.Rat { return new(big.Rat).SetInt64(v) }

func (ratOps) add(a, b *big.Rat) (*big.Rat, error) { return new(big.Rat).Add(a, b), nil }
func (ratOps) sub(a, b *big.Rat) (*big.Rat, error) { return new(big.Rat).Sub(a, b), nil }
func (ratOps) mul(a, b *big.Rat) (*big.Rat, error) { return new(big.Rat).Mul(a, b), nil }

func (ratOps) div(a, b *big.Rat) (*big.Rat, error) {
	if b.Sign() == 0 {
		return nil, ErrDivideByZero
	}
	return new(big.Rat).Quo(a, b), nil
}

func (o ratOps) pow(a *big.Rat, n int) (*big.Rat, error) {
	r := new(big.Rat).SetInt64(1)
	for i := 0; i < n; i++ {
		r.Mul(r, a)
	}
	return r, nil
}
