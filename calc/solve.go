package calc

import "math"

// Solve parses and evaluates a purely numeric expression, truncating the result
// toward zero. A malformed input returns a *ParseError.
func Solve(input string) (int32, error) {
	expr, err := Parse(input)
	if err != nil {
		return 0, err
	}
	return Truncate(Eval(expr)), nil
}

// Truncate converts toward zero like a C cast, except that out-of-range values
// saturate to the int32 bounds and NaN becomes 0.
func Truncate(v float32) int32 {
	f := float64(v)
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	}
	return int32(f)
}
