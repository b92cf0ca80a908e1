package internal

import (
	"fmt"
)

// SyntaxError is a lexical error or an unexpected token.
type SyntaxError struct {
	Line int
	Near string // empty for lexical errors
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Near == "" {
		return fmt.Sprintf("Tokenizer: tokenizer error at line %d, msg: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("syntax error near %s at line %d, msg: %s", e.Near, e.Line, e.Msg)
}

// SemanticError is raised while resolving names or generating code.
type SemanticError struct {
	Class      string
	Subroutine string // empty when raised outside a subroutine
	Msg        string
}

func (e *SemanticError) Error() string {
	if e.Subroutine == "" {
		return fmt.Sprintf("%s at class %s", e.Msg, e.Class)
	}
	return fmt.Sprintf("%s at %s.%s", e.Msg, e.Class, e.Subroutine)
}

func makeSemanticError(className, funcName, format string, msg ...interface{}) error {
	return &SemanticError{Class: className, Subroutine: funcName, Msg: fmt.Sprintf(format, msg...)}
}
