package calc

import "fmt"

// Rule identifies which part of the grammar rejected the input
type Rule int8

const (
	RuleCharacter Rule = iota
	RuleNumber
	RuleOperand
	RuleCloseParen
	RuleUnmatchedParen
	RuleEmpty
	RuleTrailing
)

var ruleNames = [...]string{
	RuleCharacter:      "unexpected character",
	RuleNumber:         "malformed number",
	RuleOperand:        "expected operand",
	RuleCloseParen:     "expected ')'",
	RuleUnmatchedParen: "unmatched ')'",
	RuleEmpty:          "empty expression",
	RuleTrailing:       "unexpected trailing input",
}

func (r Rule) String() string {
	if int(r) < len(ruleNames) {
		return ruleNames[r]
	}
	return fmt.Sprintf("Rule(%d)", int8(r))
}

// ParseError reports malformed arithmetic text. Offset is a byte offset into
// Input; Token is empty when the problem is the end of input.
type ParseError struct {
	Input  string
	Offset int
	Token  string
	Rule   Rule
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("calc: %s at end of input %q", e.Rule, e.Input)
	}
	return fmt.Sprintf("calc: %s at offset %d (%q) in %q", e.Rule, e.Offset, e.Token, e.Input)
}
