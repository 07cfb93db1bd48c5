package calc

import (
	"fmt"
	"math"
	"strconv"
)

type Operator int8

const (
	Add Operator = iota
	Subtract
	Multiply
	Divide
	Modulo
	Power
)

var operatorSymbols = [...]byte{
	Add:      '+',
	Subtract: '-',
	Multiply: '*',
	Divide:   '/',
	Modulo:   '%',
	Power:    '^',
}

func operatorOfByte(c byte) (Operator, bool) {
	for op, symbol := range operatorSymbols {
		if symbol == c {
			return Operator(op), true
		}
	}
	return 0, false
}

func (op Operator) String() string {
	if int(op) < len(operatorSymbols) {
		return string(operatorSymbols[op])
	}
	return fmt.Sprintf("Operator(%d)", int8(op))
}

// Precedence levels, lowest binding first. Negation binds tighter than all of them.
func (op Operator) precedence() int {
	switch op {
	case Add, Subtract:
		return 1
	case Multiply, Divide, Modulo:
		return 2
	default:
		return 3
	}
}

func (op Operator) rightAssociative() bool {
	return op == Power
}

func (op Operator) apply(lhs, rhs float32) float32 {
	switch op {
	case Add:
		return lhs + rhs
	case Subtract:
		return lhs - rhs
	case Multiply:
		return lhs * rhs
	case Divide:
		return lhs / rhs
	case Modulo:
		// fmod is exact, so computing it in float64 gives the float32 result
		return float32(math.Mod(float64(lhs), float64(rhs)))
	case Power:
		return float32(math.Pow(float64(lhs), float64(rhs)))
	}
	panic(fmt.Sprintf("calc: unknown operator %d", int8(op)))
}

// Expr is a parsed arithmetic expression: one of Literal, Negate or BinaryOp.
type Expr interface {
	fmt.Stringer
	expr()
}

type Literal struct {
	Value float32
}

type Negate struct {
	Operand Expr
}

type BinaryOp struct {
	Left  Expr
	Op    Operator
	Right Expr
}

func (Literal) expr()  {}
func (Negate) expr()   {}
func (BinaryOp) expr() {}

func (l Literal) String() string {
	return strconv.FormatFloat(float64(l.Value), 'g', -1, 32)
}

func (n Negate) String() string {
	return "-" + n.Operand.String()
}

// String renders the tree fully parenthesized, which makes grouping visible
func (b BinaryOp) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

// Eval reduces the expression to a float32. Division by zero and friends
// produce Inf/NaN, which propagate unchanged.
func Eval(e Expr) float32 {
	switch e := e.(type) {
	case Literal:
		return e.Value
	case Negate:
		return -Eval(e.Operand)
	case BinaryOp:
		lhs := Eval(e.Left)
		rhs := Eval(e.Right)
		return e.Op.apply(lhs, rhs)
	}
	panic(fmt.Sprintf("calc: unknown expression %T", e))
}
