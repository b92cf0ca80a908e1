// Package vm models the stack machine instruction text produced by the jack compiler.
//
// There are four kinds of vm commands:
// * Arithmetic commands: add, sub, neg, eq, gt, lt, and, or, not.
// * Memory access commands: push segment index, pop segment index, where segment can be
//   argument, local, static, constant, this, that, pointer, temp.
// * Program flow commands: label name, goto name, if-goto name.
// * Function calling commands: function name nLocals, call name nArgs, return.
//
// Every command is written on its own line, fields separated by a single space.
package vm

import (
	"fmt"
	"strconv"
)

type Segment string

const (
	ConstantSegment Segment = "constant"
	ArgumentSegment Segment = "argument"
	LocalSegment    Segment = "local"
	StaticSegment   Segment = "static"
	ThisSegment     Segment = "this"
	ThatSegment     Segment = "that"
	PointerSegment  Segment = "pointer"
	TempSegment     Segment = "temp"
)

var segments = map[string]Segment{
	"constant": ConstantSegment,
	"argument": ArgumentSegment,
	"local":    LocalSegment,
	"static":   StaticSegment,
	"this":     ThisSegment,
	"that":     ThatSegment,
	"pointer":  PointerSegment,
	"temp":     TempSegment,
}

type KeyWordTP int

const (
	PushKeyWordTP KeyWordTP = iota
	PopKeyWordTP
	AddKeyWordTP
	SubKeyWordTP
	NegKeyWordTP
	EqKeyWordTP
	GtKeyWordTP
	LtKeyWordTP
	AndKeyWordTP
	OrKeyWordTP
	NotKeyWordTP
	LabelKeyWordTP
	GotoKeyWordTP
	IfGotoKeyWordTP
	FunctionKeyWordTP
	CallKeyWordTP
	ReturnKeyWordTP
)

var keyWordsMap = map[string]KeyWordTP{
	"push":     PushKeyWordTP,
	"pop":      PopKeyWordTP,
	"add":      AddKeyWordTP,
	"sub":      SubKeyWordTP,
	"neg":      NegKeyWordTP,
	"eq":       EqKeyWordTP,
	"gt":       GtKeyWordTP,
	"lt":       LtKeyWordTP,
	"and":      AndKeyWordTP,
	"or":       OrKeyWordTP,
	"not":      NotKeyWordTP,
	"label":    LabelKeyWordTP,
	"goto":     GotoKeyWordTP,
	"if-goto":  IfGotoKeyWordTP,
	"function": FunctionKeyWordTP,
	"call":     CallKeyWordTP,
	"return":   ReturnKeyWordTP,
}

var keyWordNames = func() map[KeyWordTP]string {
	names := make(map[KeyWordTP]string, len(keyWordsMap))
	for name, tp := range keyWordsMap {
		names[tp] = name
	}
	return names
}()

func (tp KeyWordTP) String() string {
	return keyWordNames[tp]
}

// IsArithmetic reports whether tp takes no operands.
func (tp KeyWordTP) IsArithmetic() bool {
	return tp >= AddKeyWordTP && tp <= NotKeyWordTP
}

// Instruction is one line of vm text. Segment and Index are set for push/pop,
// Name for label, goto, if-goto, function and call, and Index also carries
// nLocals for function and nArgs for call.
type Instruction struct {
	Command KeyWordTP
	Segment Segment
	Name    string
	Index   int
}

func (ins Instruction) String() string {
	switch ins.Command {
	case PushKeyWordTP, PopKeyWordTP:
		return fmt.Sprintf("%s %s %d", ins.Command, ins.Segment, ins.Index)
	case LabelKeyWordTP, GotoKeyWordTP, IfGotoKeyWordTP:
		return ins.Command.String() + " " + ins.Name
	case FunctionKeyWordTP, CallKeyWordTP:
		return ins.Command.String() + " " + ins.Name + " " + strconv.Itoa(ins.Index)
	}
	return ins.Command.String()
}
