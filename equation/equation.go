package equation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/PaesslerAG/gval"
)

func isVariable(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// lhs returns the part of the equation before the first '='
func lhs(equation string) string {
	if i := strings.IndexByte(equation, '='); i >= 0 {
		return equation[:i]
	}
	return equation
}

// Substitute rewrites the left-hand side of equation into a numeric expression.
// Variables bind by position: the Nth letter, whatever it is, becomes
// "*<genes[N-1]>". Spaces are dropped, everything else is copied through.
//
// When genes runs out, the remaining letters are dropped without a replacement,
// which usually leaves malformed text behind (see Exhausted).
func Substitute(equation string, genes []int32) string {
	var buf strings.Builder
	buf.Grow(len(equation) + len(genes)*4)

	n := 0
	for _, c := range lhs(equation) {
		switch {
		case c == ' ':
		case isVariable(c):
			if n < len(genes) {
				buf.WriteByte('*')
				buf.WriteString(strconv.FormatInt(int64(genes[n]), 10))
			}
			n++
		default:
			buf.WriteRune(c)
		}
	}

	return buf.String()
}

// CountVariables returns the number of variable occurrences in the left-hand
// side, which is the number of genes a chromosome needs.
func CountVariables(equation string) int {
	n := 0
	for _, c := range lhs(equation) {
		if isVariable(c) {
			n++
		}
	}
	return n
}

// Exhausted reports whether Substitute would run out of genes for equation
func Exhausted(equation string, genes []int32) bool {
	return CountVariables(equation) > len(genes)
}

var targetLang = gval.Full()

// Target evaluates the right-hand side of equation. ok is false when there is
// no '=' or nothing after it.
func Target(equation string) (target int32, ok bool, err error) {
	i := strings.IndexByte(equation, '=')
	if i < 0 {
		return 0, false, nil
	}

	rhs := strings.TrimSpace(equation[i+1:])
	if rhs == "" {
		return 0, false, nil
	}

	value, err := targetLang.Evaluate(rhs, nil)
	if err != nil {
		return 0, false, fmt.Errorf("evaluating right-hand side %q: %w", rhs, err)
	}

	f, isFloat := value.(float64)
	if !isFloat {
		return 0, false, fmt.Errorf("right-hand side %q is not numeric (got %T)", rhs, value)
	}
	if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false, fmt.Errorf("right-hand side %q = %v is not a 32-bit integer", rhs, f)
	}

	return int32(f), true, nil
}
