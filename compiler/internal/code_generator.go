package internal

import (
	"io"
	"strconv"

	"github.com/xiaobogaga/jackc/compiler/internal/vm"
)

// Labels are a fixed prefix followed by the generator's label counter. The counter
// is shared by if and while and never reset between subroutines, so every label in
// a class is unique.
const (
	ifElseLabelPrefix     = "ELSE"
	ifExitLabelPrefix     = "IF_END"
	whileCheckLabelPrefix = "WHILE"
	whileExitLabelPrefix  = "WHILE_END"
)

// Runtime routines provided by the jack OS.
const (
	memoryAllocFunc      = "Memory.alloc"
	mathMultiplyFunc     = "Math.multiply"
	mathDivideFunc       = "Math.divide"
	stringNewFunc        = "String.new"
	stringAppendCharFunc = "String.appendChar"
)

// CodeGenerator translates one class ast into vm code. A generator must not be
// shared between goroutines; use one per compilation unit.
type CodeGenerator struct {
	writer         *vm.Writer
	className      string
	funcName       string
	classSymbols   *SymbolTable
	funcSymbols    *SymbolTable
	conditionLabel int
}

func NewCodeGenerator(w io.Writer) *CodeGenerator {
	return &CodeGenerator{writer: vm.NewWriter(w), conditionLabel: -1}
}

// GenerateClass registers the class variables and then writes every subroutine in
// declaration order.
func (generator *CodeGenerator) GenerateClass(classAst *ClassAst) error {
	generator.className, generator.funcName = classAst.ClassName, ""
	generator.classSymbols = NewSymbolTable()
	for _, variable := range classAst.ClassVariables {
		err := generator.defineClassVariable(variable)
		if err != nil {
			return err
		}
	}
	for _, method := range classAst.ClassFuncOrMethod {
		err := generator.generateMethodCode(method)
		if err != nil {
			return err
		}
	}
	return generator.writer.Err()
}

func (generator *CodeGenerator) defineClassVariable(variable *ClassVariableAst) error {
	var symbolType SymbolType
	switch variable.FieldTP {
	case ObjectFieldType:
		symbolType = ClassVariableSymbolType
	case ClassFieldType:
		symbolType = ClassStaticVariableSymbolType
	default:
		return generator.makeError("unknown class variable kind %d", variable.FieldTP)
	}
	for _, name := range variable.VariableNames {
		if _, ok := generator.classSymbols.Define(name, variable.VariableType, symbolType); !ok {
			return generator.makeError("duplicate variable name: %s", name)
		}
	}
	return nil
}

// Generate func method vm code.
// vm codes:
// function className.funcName nLocals
// followed by the prologue: nothing for a function, this = argument 0 for a
// method, and this = Memory.alloc(nFields) for a constructor.
func (generator *CodeGenerator) generateMethodCode(method *ClassFuncOrMethodAst) error {
	generator.funcName = method.FuncName
	generator.funcSymbols = NewSymbolTable()
	generator.writer.WriteFunction(generator.className+"."+method.FuncName, getFuncLocalVariablesLen(method))
	switch method.FuncTP {
	case ClassConstructorType:
		generator.writer.WritePush(vm.ConstantSegment, generator.classSymbols.Count(ClassVariableSymbolType))
		generator.writer.WriteCall(memoryAllocFunc, 1)
		generator.writer.WritePop(vm.PointerSegment, 0)
	case ClassMethodType:
		generator.funcSymbols.Define("this", VariableType{TP: ClassVariableType, Name: generator.className}, FuncParamType)
		generator.writer.WritePush(vm.ArgumentSegment, 0)
		generator.writer.WritePop(vm.PointerSegment, 0)
	case ClassFuncType:
	default:
		return generator.makeError("unknown subroutine kind %d", method.FuncTP)
	}
	for _, param := range method.Params {
		if _, ok := generator.funcSymbols.Define(param.ParamName, param.ParamTP, FuncParamType); !ok {
			return generator.makeError("duplicate funcParam %s", param.ParamName)
		}
	}
	for _, varDeclare := range method.FuncBody.LocalVariables {
		for _, name := range varDeclare.VarNames {
			if _, ok := generator.funcSymbols.Define(name, varDeclare.VarType, FuncVariableType); !ok {
				return generator.makeError("duplicate var %s", name)
			}
		}
	}
	return generator.generateStatementsCode(method.FuncBody.Statements)
}

// getFuncLocalVariablesLen counts the names of every var declaration in the body.
func getFuncLocalVariablesLen(method *ClassFuncOrMethodAst) int {
	ret := 0
	for _, varDeclare := range method.FuncBody.LocalVariables {
		ret += len(varDeclare.VarNames)
	}
	return ret
}

func (generator *CodeGenerator) generateStatementsCode(statements []StatementAst) error {
	for _, stm := range statements {
		err := generator.generateStatementCode(stm)
		if err != nil {
			return err
		}
	}
	return nil
}

func (generator *CodeGenerator) generateStatementCode(statement StatementAst) error {
	switch stm := statement.(type) {
	case *LetStatementAst:
		return generator.generateLetStatementCode(stm)
	case *IfStatementAst:
		return generator.generateIfStatementCode(stm)
	case *WhileStatementAst:
		return generator.generateWhileStatementCode(stm)
	case *DoStatementAst:
		return generator.generateDoStatementCode(stm)
	case *ReturnStatementAst:
		return generator.generateReturnStatementCode(stm)
	}
	panic("unknown statement type")
}

// For let statement: varName = expression, the value is computed and popped into the variable.
// For varName[index] = expression, the element address is computed before the value:
// push base; index; add; value; pop temp 0; pop pointer 1; push temp 0; pop that 0.
func (generator *CodeGenerator) generateLetStatementCode(stm *LetStatementAst) error {
	varSymbol, err := generator.lookUpVar(stm.VarName)
	if err != nil {
		return err
	}
	segment := segmentOf(varSymbol.symbolType)
	if stm.ArrayIndex == nil {
		if err = generator.generateExpressionCode(stm.Value); err != nil {
			return err
		}
		generator.writer.WritePop(segment, varSymbol.index)
		return nil
	}
	generator.writer.WritePush(segment, varSymbol.index)
	if err = generator.generateExpressionCode(stm.ArrayIndex); err != nil {
		return err
	}
	generator.writer.WriteArithmetic(vm.AddKeyWordTP)
	if err = generator.generateExpressionCode(stm.Value); err != nil {
		return err
	}
	generator.writer.WritePop(vm.TempSegment, 0)
	generator.writer.WritePop(vm.PointerSegment, 1)
	generator.writer.WritePush(vm.TempSegment, 0)
	generator.writer.WritePop(vm.ThatSegment, 0)
	return nil
}

func (generator *CodeGenerator) makeLabels(prefix1, prefix2 string) (string, string) {
	generator.conditionLabel++
	suffix := strconv.Itoa(generator.conditionLabel)
	return prefix1 + suffix, prefix2 + suffix
}

// If statement vm code:
// condition vm code
// not
// if-goto ELSEn
// if statements vm code
// goto IF_ENDn
// label ELSEn
// else statements vm code
// label IF_ENDn
// false, null is 0 and true is -1. if-goto jumps to label when the top value is not zero.
func (generator *CodeGenerator) generateIfStatementCode(stm *IfStatementAst) error {
	elseLabel, exitLabel := generator.makeLabels(ifElseLabelPrefix, ifExitLabelPrefix)
	if err := generator.generateExpressionCode(stm.Condition); err != nil {
		return err
	}
	generator.writer.WriteArithmetic(vm.NotKeyWordTP)
	generator.writer.WriteIf(elseLabel)
	if err := generator.generateStatementsCode(stm.IfTrueStatements); err != nil {
		return err
	}
	generator.writer.WriteGoto(exitLabel)
	generator.writer.WriteLabel(elseLabel)
	if err := generator.generateStatementsCode(stm.ElseStatements); err != nil {
		return err
	}
	generator.writer.WriteLabel(exitLabel)
	return nil
}

// While statement vm code:
// label WHILEn
// condition vm code
// not
// if-goto WHILE_ENDn
// statements vm code
// goto WHILEn
// label WHILE_ENDn
func (generator *CodeGenerator) generateWhileStatementCode(stm *WhileStatementAst) error {
	checkLabel, exitLabel := generator.makeLabels(whileCheckLabelPrefix, whileExitLabelPrefix)
	generator.writer.WriteLabel(checkLabel)
	if err := generator.generateExpressionCode(stm.Condition); err != nil {
		return err
	}
	generator.writer.WriteArithmetic(vm.NotKeyWordTP)
	generator.writer.WriteIf(exitLabel)
	if err := generator.generateStatementsCode(stm.Statements); err != nil {
		return err
	}
	generator.writer.WriteGoto(checkLabel)
	generator.writer.WriteLabel(exitLabel)
	return nil
}

// Every call leaves one value on the stack, a do statement drops it.
func (generator *CodeGenerator) generateDoStatementCode(stm *DoStatementAst) error {
	if err := generator.generateFuncCallCode(stm.Call); err != nil {
		return err
	}
	generator.writer.WritePop(vm.TempSegment, 0)
	return nil
}

// A bare return still returns 0 so the caller always finds a value.
func (generator *CodeGenerator) generateReturnStatementCode(stm *ReturnStatementAst) error {
	if stm.Return == nil {
		generator.writer.WritePush(vm.ConstantSegment, 0)
	} else if err := generator.generateExpressionCode(stm.Return); err != nil {
		return err
	}
	generator.writer.WriteReturn()
	return nil
}

// generateExpressionCode is a postorder walk: left term, right term, operator.
func (generator *CodeGenerator) generateExpressionCode(expr *ExpressionAst) error {
	if err := generator.generateExpressionTermCode(expr.LeftTerm); err != nil {
		return err
	}
	if expr.Op == nil {
		return nil
	}
	if err := generator.generateExpressionTermCode(expr.RightTerm); err != nil {
		return err
	}
	generator.generateOpCode(expr.Op)
	return nil
}

func (generator *CodeGenerator) generateExpressionTermCode(term TermAst) error {
	switch term := term.(type) {
	case *IntegerConstantTerm:
		generator.writer.WritePush(vm.ConstantSegment, int(term.Value))
	case *StringConstantTerm:
		generator.generateConstantStringCode(term.Value)
	case *KeyWordConstantTerm:
		generator.generateKeyWordConstantCode(term.KeyWord)
	case *VarNameTerm:
		varSymbol, err := generator.lookUpVar(term.VarName)
		if err != nil {
			return err
		}
		generator.writer.WritePush(segmentOf(varSymbol.symbolType), varSymbol.index)
	case *ArrayIndexTerm:
		return generator.generateArrayIndexCode(term)
	case *SubExpressionTerm:
		return generator.generateExpressionCode(term.Expr)
	case *UnaryTerm:
		if err := generator.generateExpressionTermCode(term.Term); err != nil {
			return err
		}
		generator.generateUnaryOpCode(term.Op)
	case *SubRoutineCallTerm:
		return generator.generateFuncCallCode(term.Call)
	default:
		panic("unknown expression term type")
	}
	return nil
}

func (generator *CodeGenerator) generateKeyWordConstantCode(keyWord KeyWordConstant) {
	switch keyWord {
	case TrueKeyWordConstant:
		generator.writer.WritePush(vm.ConstantSegment, 0)
		generator.writer.WriteArithmetic(vm.NotKeyWordTP)
	case FalseKeyWordConstant, NullKeyWordConstant:
		generator.writer.WritePush(vm.ConstantSegment, 0)
	case ThisKeyWordConstant:
		generator.writer.WritePush(vm.PointerSegment, 0)
	}
}

// Reading varName[index]: index; push base; add; pop pointer 1; push that 0.
func (generator *CodeGenerator) generateArrayIndexCode(term *ArrayIndexTerm) error {
	if err := generator.generateExpressionCode(term.Index); err != nil {
		return err
	}
	varSymbol, err := generator.lookUpVar(term.VarName)
	if err != nil {
		return err
	}
	generator.writer.WritePush(segmentOf(varSymbol.symbolType), varSymbol.index)
	generator.writer.WriteArithmetic(vm.AddKeyWordTP)
	generator.writer.WritePop(vm.PointerSegment, 1)
	generator.writer.WritePush(vm.ThatSegment, 0)
	return nil
}

// generateFuncCallCode resolves the callee:
// * m(args): a method of the current object, this is pushed first.
// * v.m(args) where v is a variable: a method of v's class, v is pushed first.
// * C.m(args) otherwise: a function or constructor of class C, nothing extra is pushed.
func (generator *CodeGenerator) generateFuncCallCode(callAst *CallAst) error {
	nArgs := len(callAst.Params)
	var funcName string
	switch {
	case callAst.FuncProvider == "":
		generator.writer.WritePush(vm.PointerSegment, 0)
		funcName = generator.className + "." + callAst.FuncName
		nArgs++
	default:
		varSymbol := generator.scope().LookUp(callAst.FuncProvider)
		if varSymbol == nil {
			funcName = callAst.FuncProvider + "." + callAst.FuncName
			break
		}
		if varSymbol.variableType.TP != ClassVariableType {
			return generator.makeError("var %s of type %s doesn't have such method %s",
				callAst.FuncProvider, varSymbol.variableType, callAst.FuncName)
		}
		generator.writer.WritePush(segmentOf(varSymbol.symbolType), varSymbol.index)
		funcName = varSymbol.variableType.Name + "." + callAst.FuncName
		nArgs++
	}
	for _, param := range callAst.Params {
		if err := generator.generateExpressionCode(param); err != nil {
			return err
		}
	}
	generator.writer.WriteCall(funcName, nArgs)
	return nil
}

// A string constant is built at runtime: String.new(len) followed by one
// appendChar per character, each call leaving the string on the stack.
// Only ASCII characters are kept.
func (generator *CodeGenerator) generateConstantStringCode(str string) {
	chars := make([]byte, 0, len(str))
	for i := 0; i < len(str); i++ {
		if str[i] < 0x80 {
			chars = append(chars, str[i])
		}
	}
	generator.writer.WritePush(vm.ConstantSegment, len(chars))
	generator.writer.WriteCall(stringNewFunc, 1)
	for _, character := range chars {
		generator.writer.WritePush(vm.ConstantSegment, int(character))
		generator.writer.WriteCall(stringAppendCharFunc, 2)
	}
}

func (generator *CodeGenerator) generateOpCode(op *OpAst) {
	switch op.Op {
	case AddOpTP:
		generator.writer.WriteArithmetic(vm.AddKeyWordTP)
	case MinusOpTP:
		generator.writer.WriteArithmetic(vm.SubKeyWordTP)
	case MultipleOpTP:
		// There is no multiply in vm, replace it with a Math.multiply call.
		generator.writer.WriteCall(mathMultiplyFunc, 2)
	case DivideOpTP:
		generator.writer.WriteCall(mathDivideFunc, 2)
	case AndOpTP:
		generator.writer.WriteArithmetic(vm.AndKeyWordTP)
	case OrOpTP:
		generator.writer.WriteArithmetic(vm.OrKeyWordTP)
	case LessOpTP:
		generator.writer.WriteArithmetic(vm.LtKeyWordTP)
	case GreaterOpTP:
		generator.writer.WriteArithmetic(vm.GtKeyWordTP)
	case EqualOpTp:
		generator.writer.WriteArithmetic(vm.EqKeyWordTP)
	default:
		panic("unknown binary op " + op.Name)
	}
}

func (generator *CodeGenerator) generateUnaryOpCode(op *OpAst) {
	switch op.Op {
	case NegationOpTP:
		generator.writer.WriteArithmetic(vm.NegKeyWordTP)
	case BooleanNegationOpTP:
		generator.writer.WriteArithmetic(vm.NotKeyWordTP)
	default:
		panic("unknown unary op " + op.Name)
	}
}

func (generator *CodeGenerator) scope() Scope {
	return Scope{ClassSymbols: generator.classSymbols, FuncSymbols: generator.funcSymbols}
}

func (generator *CodeGenerator) lookUpVar(varName string) (*SymbolDesc, error) {
	varSymbol := generator.scope().LookUp(varName)
	if varSymbol == nil {
		return nil, generator.makeError("cannot find such variable %s", varName)
	}
	return varSymbol, nil
}

func segmentOf(symbolType SymbolType) vm.Segment {
	switch symbolType {
	case ClassStaticVariableSymbolType:
		return vm.StaticSegment
	case ClassVariableSymbolType:
		return vm.ThisSegment
	case FuncParamType:
		return vm.ArgumentSegment
	}
	return vm.LocalSegment
}

func (generator *CodeGenerator) makeError(format string, msg ...interface{}) error {
	return makeSemanticError(generator.className, generator.funcName, format, msg...)
}
