package internal

// Tokens walks the ast in source order and returns the tokens that produced it.
// Line numbers are not kept by the ast, so the returned tokens carry none.
func (classAst *ClassAst) Tokens() []*Token {
	w := &tokenWalker{}
	w.keyWord(ClassTP)
	w.identifier(classAst.ClassName)
	w.symbol(LeftBraceTP)
	for _, variable := range classAst.ClassVariables {
		if variable.FieldTP == ClassFieldType {
			w.keyWord(StaticTP)
		} else {
			w.keyWord(FieldTP)
		}
		w.variableType(variable.VariableType)
		w.names(variable.VariableNames)
		w.symbol(SemiColonTP)
	}
	for _, method := range classAst.ClassFuncOrMethod {
		w.method(method)
	}
	w.symbol(RightBraceTP)
	return w.tokens
}

var funcTypeTokenTPMap = map[FuncType]TokenType{
	ClassConstructorType: ConstructorTP,
	ClassMethodType:      MethodTP,
	ClassFuncType:        FunctionTP,
}

var varTypeTokenTPMap = map[VarType]TokenType{
	VoidVariableType:    VoidTP,
	IntVariableType:     IntTP,
	CharVariableType:    CharTP,
	BooleanVariableType: BooleanTP,
}

var keyWordConstantTokenTPMap = map[KeyWordConstant]TokenType{
	TrueKeyWordConstant:  TrueTP,
	FalseKeyWordConstant: FalseTP,
	NullKeyWordConstant:  NullTP,
	ThisKeyWordConstant:  ThisTP,
}

var opTokenTPMap = map[OpCode]TokenType{
	AddOpTP:             AddTP,
	MinusOpTP:           MinusTP,
	MultipleOpTP:        MultiplyTP,
	DivideOpTP:          DivideTP,
	AndOpTP:             AndTP,
	OrOpTP:              OrTP,
	LessOpTP:            LessTP,
	GreaterOpTP:         GreaterTP,
	EqualOpTp:           EqualTP,
	NegationOpTP:        MinusTP,
	BooleanNegationOpTP: BooleanNegativeTP,
}

type tokenWalker struct {
	tokens []*Token
}

func (w *tokenWalker) keyWord(tp TokenType) {
	w.tokens = append(w.tokens, newToken(tp))
}

func (w *tokenWalker) symbol(tp TokenType) {
	w.tokens = append(w.tokens, newToken(tp))
}

func (w *tokenWalker) identifier(name string) {
	w.tokens = append(w.tokens, newIdentifierToken(name))
}

// names writes name (, name)*.
func (w *tokenWalker) names(names []string) {
	for i, name := range names {
		if i > 0 {
			w.symbol(CommaTP)
		}
		w.identifier(name)
	}
}

func (w *tokenWalker) variableType(t VariableType) {
	if t.TP == ClassVariableType {
		w.identifier(t.Name)
		return
	}
	w.keyWord(varTypeTokenTPMap[t.TP])
}

func (w *tokenWalker) method(method *ClassFuncOrMethodAst) {
	w.keyWord(funcTypeTokenTPMap[method.FuncTP])
	w.variableType(method.ReturnTP)
	w.identifier(method.FuncName)
	w.symbol(LeftParentThesesTP)
	for i, param := range method.Params {
		if i > 0 {
			w.symbol(CommaTP)
		}
		w.variableType(param.ParamTP)
		w.identifier(param.ParamName)
	}
	w.symbol(RightParentThesesTP)
	w.symbol(LeftBraceTP)
	for _, varDeclare := range method.FuncBody.LocalVariables {
		w.keyWord(VarTP)
		w.variableType(varDeclare.VarType)
		w.names(varDeclare.VarNames)
		w.symbol(SemiColonTP)
	}
	w.statements(method.FuncBody.Statements)
	w.symbol(RightBraceTP)
}

// block writes { statements }.
func (w *tokenWalker) block(statements []StatementAst) {
	w.symbol(LeftBraceTP)
	w.statements(statements)
	w.symbol(RightBraceTP)
}

func (w *tokenWalker) statements(statements []StatementAst) {
	for _, statement := range statements {
		switch stm := statement.(type) {
		case *LetStatementAst:
			w.keyWord(LetTP)
			w.identifier(stm.VarName)
			if stm.ArrayIndex != nil {
				w.symbol(LeftSquareBracketTP)
				w.expression(stm.ArrayIndex)
				w.symbol(RightSquareBracketTP)
			}
			w.symbol(EqualTP)
			w.expression(stm.Value)
			w.symbol(SemiColonTP)
		case *IfStatementAst:
			w.keyWord(IfTP)
			w.parenthesized(stm.Condition)
			w.block(stm.IfTrueStatements)
			if stm.HasElse {
				w.keyWord(ElseTP)
				w.block(stm.ElseStatements)
			}
		case *WhileStatementAst:
			w.keyWord(WhileTP)
			w.parenthesized(stm.Condition)
			w.block(stm.Statements)
		case *DoStatementAst:
			w.keyWord(DoTp)
			w.call(stm.Call)
			w.symbol(SemiColonTP)
		case *ReturnStatementAst:
			w.keyWord(ReturnTP)
			if stm.Return != nil {
				w.expression(stm.Return)
			}
			w.symbol(SemiColonTP)
		}
	}
}

func (w *tokenWalker) parenthesized(expr *ExpressionAst) {
	w.symbol(LeftParentThesesTP)
	w.expression(expr)
	w.symbol(RightParentThesesTP)
}

func (w *tokenWalker) expression(expr *ExpressionAst) {
	w.term(expr.LeftTerm)
	if expr.Op != nil {
		w.symbol(opTokenTPMap[expr.Op.Op])
		w.term(expr.RightTerm)
	}
}

func (w *tokenWalker) term(term TermAst) {
	switch term := term.(type) {
	case *IntegerConstantTerm:
		w.tokens = append(w.tokens, newIntegerToken(term.Value))
	case *StringConstantTerm:
		w.tokens = append(w.tokens, newStringToken(term.Value))
	case *KeyWordConstantTerm:
		w.keyWord(keyWordConstantTokenTPMap[term.KeyWord])
	case *VarNameTerm:
		w.identifier(term.VarName)
	case *ArrayIndexTerm:
		w.identifier(term.VarName)
		w.symbol(LeftSquareBracketTP)
		w.expression(term.Index)
		w.symbol(RightSquareBracketTP)
	case *SubExpressionTerm:
		w.parenthesized(term.Expr)
	case *UnaryTerm:
		w.symbol(opTokenTPMap[term.Op.Op])
		w.term(term.Term)
	case *SubRoutineCallTerm:
		w.call(term.Call)
	}
}

func (w *tokenWalker) call(call *CallAst) {
	if call.FuncProvider != "" {
		w.identifier(call.FuncProvider)
		w.symbol(DotTP)
	}
	w.identifier(call.FuncName)
	w.symbol(LeftParentThesesTP)
	for i, param := range call.Params {
		if i > 0 {
			w.symbol(CommaTP)
		}
		w.expression(param)
	}
	w.symbol(RightParentThesesTP)
}
