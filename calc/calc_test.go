package calc

import (
	"errors"
	"math"

	"github.com/PaesslerAG/gval"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gstruct"
)

var _ = Describe("Solve", func() {
	DescribeTable("evaluates",
		func(input string, expected int32) {
			result, err := Solve(input)
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(Equal(expected))
		},
		Entry("2+3*4", "2+3*4", int32(14)),
		Entry("(2+3)*4", "(2+3)*4", int32(20)),
		Entry("2^3^2", "2^3^2", int32(512)),
		Entry("-3+5", "-3+5", int32(2)),
		Entry("7%3", "7%3", int32(1)),
		Entry("10-4-3", "10-4-3", int32(3)),
		Entry("100/10/5", "100/10/5", int32(2)),
		Entry("whitespace", " 2 +\t3 ", int32(5)),
		Entry("fraction", "1.5*4", int32(6)),

		// Negation binds tighter than every binary operator
		Entry("-2^2", "-2^2", int32(4)),
		Entry("--3", "--3", int32(3)),
		Entry("-7%3", "-7%3", int32(-1)),
		Entry("2^-1", "2^-1", int32(0)),
		Entry("-(4*5)+-6", "-(4*5)+-6", int32(-26)),

		// Truncation toward zero, not rounding
		Entry("7/2", "7/2", int32(3)),
		Entry("-7/2", "-7/2", int32(-3)),
		Entry("29/10", "29/10", int32(2)),

		// Coefficient markers written by the templater
		Entry("*7", "*7", int32(7)),
		Entry("*3+2**4", "*3+2**4", int32(11)),
		Entry("3**4-1", "3**4-1", int32(11)),
		Entry("2*(*5)", "2*(*5)", int32(10)),
		Entry("-*3", "-*3", int32(-3)),
	)

	DescribeTable("saturates non-finite results",
		func(input string, expected int32) {
			result, err := Solve(input)
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(Equal(expected))
		},
		Entry("1/0", "1/0", int32(math.MaxInt32)),
		Entry("-1/0", "-1/0", int32(math.MinInt32)),
		Entry("0/0", "0/0", int32(0)),
		Entry("5%0", "5%0", int32(0)),
		Entry("0^-1", "0^-1", int32(math.MaxInt32)),
		Entry("2^40", "2^40", int32(math.MaxInt32)),
		Entry("-(2^40)", "-(2^40)", int32(math.MinInt32)),
	)

	DescribeTable("rejects malformed input",
		func(input string, rule Rule, offset int) {
			_, err := Solve(input)
			Expect(err).To(HaveOccurred())

			var parseErr *ParseError
			Expect(errors.As(err, &parseErr)).To(BeTrue())
			Expect(parseErr).To(PointTo(MatchFields(IgnoreExtras, Fields{
				"Input":  Equal(input),
				"Rule":   Equal(rule),
				"Offset": Equal(offset),
			})))
		},
		Entry("2+*3", "2+*3", RuleOperand, 2),
		Entry("empty", "", RuleEmpty, 0),
		Entry("blank", "   ", RuleEmpty, 0),
		Entry("(2+3", "(2+3", RuleCloseParen, 4),
		Entry("2+3)", "2+3)", RuleUnmatchedParen, 3),
		Entry("2+", "2+", RuleOperand, 2),
		Entry("2 3", "2 3", RuleTrailing, 2),
		Entry("2+a", "2+a", RuleCharacter, 2),
		Entry("1.+2", "1.+2", RuleNumber, 0),
		Entry("()", "()", RuleOperand, 1),
		Entry("lone marker", "*", RuleOperand, 1),
		Entry("double marker", "**2", RuleOperand, 1),
	)

	It("describes the failure in the error message", func() {
		_, err := Solve("2+*3")
		Expect(err).To(MatchError(`calc: expected operand at offset 2 ("*") in "2+*3"`))

		_, err = Solve("(1")
		Expect(err).To(MatchError(`calc: expected ')' at end of input "(1"`))
	})

	It("is a pure function of its input", func() {
		first, err := Solve("*12+2**9-7%4")
		Expect(err).ToNot(HaveOccurred())
		second, err := Solve("*12+2**9-7%4")
		Expect(err).ToNot(HaveOccurred())
		Expect(second).To(Equal(first))
		Expect(first).To(Equal(int32(27)))
	})

	DescribeTable("agrees with gval arithmetic",
		func(input string) {
			expected, err := gval.Arithmetic().Evaluate(input, nil)
			Expect(err).ToNot(HaveOccurred())

			result, err := Solve(input)
			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(Equal(int32(expected.(float64))))
		},
		Entry("precedence", "8-264*38+966"),
		Entry("grouping", "(12+4)*(3-9)"),
		Entry("negation", "-(4*5)+(-6)"),
		Entry("division", "(90-6)/4"),
		Entry("chain", "1+2+3+4+5*6*7"),
	)
})

var _ = Describe("Parse", func() {
	DescribeTable("builds the expected tree",
		func(input, expected string) {
			expr, err := Parse(input)
			Expect(err).ToNot(HaveOccurred())
			Expect(expr.String()).To(Equal(expected))
		},
		Entry("1+2*3", "1+2*3", "(1 + (2 * 3))"),
		Entry("10-4-3", "10-4-3", "((10 - 4) - 3)"),
		Entry("2^3^2", "2^3^2", "(2 ^ (3 ^ 2))"),
		Entry("-2^2", "-2^2", "(-2 ^ 2)"),
		Entry("8/4%3", "8/4%3", "((8 / 4) % 3)"),
		Entry("*3+2**4", "*3+2**4", "(3 + (2 * 4))"),
		Entry("2*3^2", "2*3^2", "(2 * (3 ^ 2))"),
	)

	It("returns the variants directly", func() {
		expr, err := Parse("-(1.5)")
		Expect(err).ToNot(HaveOccurred())
		Expect(expr).To(Equal(Negate{Operand: Literal{Value: 1.5}}))
		Expect(Eval(expr)).To(Equal(float32(-1.5)))
	})
})

var _ = Describe("Truncate", func() {
	It("truncates toward zero", func() {
		Expect(Truncate(2.9)).To(Equal(int32(2)))
		Expect(Truncate(-2.9)).To(Equal(int32(-2)))
		Expect(Truncate(float32(math.Inf(1)))).To(Equal(int32(math.MaxInt32)))
		Expect(Truncate(float32(math.NaN()))).To(Equal(int32(0)))
	})
})
