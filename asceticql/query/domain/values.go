package query

import "fmt"

// Literal is a scalar carried opaquely until a dialect formats it.
type Literal struct {
	value any
}

func Lit(value any) Literal {
	return Literal{value: value}
}

func (l Literal) Value() any {
	return l.value
}

func (l Literal) String() string {
	switch v := l.value.(type) {
	case nil:
		return "NULL"
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (Literal) isOperand() {}
func (Literal) isValue()   {}

// Pattern is a wildcard string in portable syntax: '?' matches one character,
// '*' matches any run, and '\' escapes either.
type Pattern struct {
	text string
}

func Wildcard(text string) Pattern {
	return Pattern{text: text}
}

func (p Pattern) Text() string {
	return p.text
}

func (p Pattern) String() string {
	return "'" + p.text + "'"
}

func (Pattern) isOperand() {}
