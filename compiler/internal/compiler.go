package internal

import (
	"bytes"
	"io"
)

// CompileUnit compiles the single class read from rd and returns its vm code.
// Nothing is returned when any error occurs, a unit compiles completely or not at all.
func CompileUnit(rd io.Reader) ([]byte, error) {
	parser := NewParser(rd)
	classAst, err := parser.Parse()
	if err != nil {
		return nil, err
	}
	return GenerateCode(classAst)
}

// GenerateCode runs a fresh code generator over classAst.
func GenerateCode(classAst *ClassAst) ([]byte, error) {
	buf := &bytes.Buffer{}
	err := NewCodeGenerator(buf).GenerateClass(classAst)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
