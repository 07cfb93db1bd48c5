package calc

import "strconv"

type tokenType int8

const (
	tokenEOF tokenType = iota
	tokenNumber
	tokenOperator
	tokenLParen
	tokenRParen
)

type token struct {
	Type   tokenType
	Text   string
	Offset int

	// Set for tokenNumber
	Value float32
	// Set for tokenOperator
	Op Operator
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// tokenize splits input into tokens, always ending with a tokenEOF
func tokenize(input string) ([]token, error) {
	tokens := make([]token, 0, len(input)+1)

	for i := 0; i < len(input); {
		c := input[i]
		switch {
		case isSpace(c):
			i++

		case isDigit(c):
			start := i
			for i < len(input) && isDigit(input[i]) {
				i++
			}
			if i < len(input) && input[i] == '.' {
				i++
				if i == len(input) || !isDigit(input[i]) {
					return nil, &ParseError{Input: input, Offset: start, Token: input[start:i], Rule: RuleNumber}
				}
				for i < len(input) && isDigit(input[i]) {
					i++
				}
			}

			text := input[start:i]
			// Only ErrRange is possible here; the ±Inf it yields is kept as the value
			value, _ := strconv.ParseFloat(text, 32)
			tokens = append(tokens, token{Type: tokenNumber, Text: text, Offset: start, Value: float32(value)})

		case c == '(':
			tokens = append(tokens, token{Type: tokenLParen, Text: "(", Offset: i})
			i++

		case c == ')':
			tokens = append(tokens, token{Type: tokenRParen, Text: ")", Offset: i})
			i++

		default:
			op, isOperator := operatorOfByte(c)
			if !isOperator {
				return nil, &ParseError{Input: input, Offset: i, Token: string(c), Rule: RuleCharacter}
			}
			tokens = append(tokens, token{Type: tokenOperator, Text: string(c), Offset: i, Op: op})
			i++
		}
	}

	return append(tokens, token{Type: tokenEOF, Offset: len(input)}), nil
}
