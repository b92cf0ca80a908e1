package internal

// In this file, we defined all ast of jack programming language according to jack grammar.
// Each jack file xxx.jack holds exactly one class definition; there is no package
// declaration and no dependency declaration.
//
// Statements and terms are closed sets: StatementAst and TermAst are implemented only by the
// types in this file, and code walking them switches over those types exhaustively.
// The tree is built once by the parser and never mutated afterwards.

type ClassAst struct {
	ClassName         string
	ClassVariables    []*ClassVariableAst
	ClassFuncOrMethod []*ClassFuncOrMethodAst
}

// ClassVariableAst is one classVarDec: static|field type name (, name)* ;
type ClassVariableAst struct {
	FieldTP       FieldType
	VariableType  VariableType
	VariableNames []string
}

type FieldType int

const (
	ObjectFieldType FieldType = iota // field
	ClassFieldType                   // static
)

type VariableType struct {
	TP   VarType
	Name string // class name, only for ClassVariableType
}

func (t VariableType) String() string {
	switch t.TP {
	case VoidVariableType:
		return "void"
	case IntVariableType:
		return "int"
	case CharVariableType:
		return "char"
	case BooleanVariableType:
		return "boolean"
	case ClassVariableType:
		return t.Name
	}
	return ""
}

type VarType int

const (
	VoidVariableType VarType = iota // This only be used for subroutine return type.
	IntVariableType
	CharVariableType
	BooleanVariableType
	ClassVariableType
)

type ClassFuncOrMethodAst struct {
	FuncTP   FuncType
	ReturnTP VariableType // VoidVariableType when declared void
	FuncName string
	Params   []*FuncParamAst
	FuncBody *FuncBodyAst
}

type FuncType int

const (
	ClassConstructorType FuncType = iota
	ClassMethodType
	ClassFuncType
)

func (tp FuncType) String() string {
	switch tp {
	case ClassConstructorType:
		return "constructor"
	case ClassMethodType:
		return "method"
	}
	return "function"
}

type FuncParamAst struct {
	ParamTP   VariableType
	ParamName string
}

type FuncBodyAst struct {
	LocalVariables []*VarDeclareAst
	Statements     []StatementAst
}

// VarDeclareAst is one varDec: var type name (, name)* ;
type VarDeclareAst struct {
	VarType  VariableType
	VarNames []string
}

type StatementAst interface {
	statementAst()
}

type LetStatementAst struct {
	VarName string
	// If the target is an array element, ArrayIndex locates it.
	ArrayIndex *ExpressionAst
	Value      *ExpressionAst
}

type IfStatementAst struct {
	Condition        *ExpressionAst
	IfTrueStatements []StatementAst
	HasElse          bool
	ElseStatements   []StatementAst
}

type WhileStatementAst struct {
	Condition  *ExpressionAst
	Statements []StatementAst
}

type DoStatementAst struct {
	Call *CallAst
}

type ReturnStatementAst struct {
	Return *ExpressionAst // nil for a bare return
}

func (*LetStatementAst) statementAst()    {}
func (*IfStatementAst) statementAst()     {}
func (*WhileStatementAst) statementAst()  {}
func (*DoStatementAst) statementAst()     {}
func (*ReturnStatementAst) statementAst() {}

// ExpressionAst holds at most one binary operator: term (op term)?.
// Op and RightTerm are both nil or both set.
type ExpressionAst struct {
	LeftTerm  TermAst
	Op        *OpAst
	RightTerm TermAst
}

type TermAst interface {
	termAst()
}

type IntegerConstantTerm struct {
	Value uint16
}

type StringConstantTerm struct {
	Value string
}

type KeyWordConstantTerm struct {
	KeyWord KeyWordConstant
}

type KeyWordConstant int

const (
	TrueKeyWordConstant KeyWordConstant = iota
	FalseKeyWordConstant
	NullKeyWordConstant
	ThisKeyWordConstant
)

type VarNameTerm struct {
	VarName string
}

type ArrayIndexTerm struct {
	VarName string
	Index   *ExpressionAst
}

// SubExpressionTerm is a parenthesized expression.
type SubExpressionTerm struct {
	Expr *ExpressionAst
}

type UnaryTerm struct {
	Op   *OpAst
	Term TermAst
}

type SubRoutineCallTerm struct {
	Call *CallAst
}

func (*IntegerConstantTerm) termAst() {}
func (*StringConstantTerm) termAst()  {}
func (*KeyWordConstantTerm) termAst() {}
func (*VarNameTerm) termAst()         {}
func (*ArrayIndexTerm) termAst()      {}
func (*SubExpressionTerm) termAst()   {}
func (*UnaryTerm) termAst()           {}
func (*SubRoutineCallTerm) termAst()  {}

type OpAst struct {
	OpTP OpType
	Op   OpCode
	Name string
}

var (
	AddOpAst             = OpAst{OpTP: BinaryOPTP, Op: AddOpTP, Name: "+"}
	MinusOpAst           = OpAst{OpTP: BinaryOPTP, Op: MinusOpTP, Name: "-"}
	MultipleOpAst        = OpAst{OpTP: BinaryOPTP, Op: MultipleOpTP, Name: "*"}
	DivideOpAst          = OpAst{OpTP: BinaryOPTP, Op: DivideOpTP, Name: "/"}
	AndOpAst             = OpAst{OpTP: BinaryOPTP, Op: AndOpTP, Name: "&"}
	OrOpAst              = OpAst{OpTP: BinaryOPTP, Op: OrOpTP, Name: "|"}
	LessOpAst            = OpAst{OpTP: BinaryOPTP, Op: LessOpTP, Name: "<"}
	GreatOpAst           = OpAst{OpTP: BinaryOPTP, Op: GreaterOpTP, Name: ">"}
	EqualOpAst           = OpAst{OpTP: BinaryOPTP, Op: EqualOpTp, Name: "="}
	NegationOpAst        = OpAst{OpTP: UnaryOPTP, Op: NegationOpTP, Name: "-"}
	BooleanNegationOpAst = OpAst{OpTP: UnaryOPTP, Op: BooleanNegationOpTP, Name: "~"}
)

func (op OpAst) String() string {
	return op.Name
}

type OpType int

const (
	UnaryOPTP OpType = iota
	BinaryOPTP
)

type OpCode int

const (
	AddOpTP OpCode = iota
	MinusOpTP
	MultipleOpTP
	DivideOpTP
	AndOpTP
	OrOpTP
	LessOpTP
	GreaterOpTP
	EqualOpTp

	// Unary Op
	NegationOpTP
	BooleanNegationOpTP
)

// CallAst is a subroutine call. We allow call like: Foo.m1(), where Foo is a class or a
// variable name. If it is just m1(), FuncProvider is empty and m1 belongs to the current class.
type CallAst struct {
	FuncProvider string
	FuncName     string
	Params       []*ExpressionAst
}
