package internal

import (
	"io"
)

// Parser is a recursive descent parser over a Tokenizer. It looks at exactly one
// token ahead, never backtracks and stops at the first unexpected token.
type Parser struct {
	tokenizer    *Tokenizer
	currentToken *Token
}

func NewParser(rd io.Reader) *Parser {
	parser := &Parser{tokenizer: NewTokenizer(rd)}
	parser.currentToken = parser.tokenizer.NextToken()
	return parser
}

// Parse parses one class declaration, which must be the whole input.
func (parser *Parser) Parse() (*ClassAst, error) {
	classAst, err := parser.ParseClassDeclaration()
	if err != nil {
		return nil, err
	}
	if _, match := parser.expectToken(EOFTP, false); !match {
		return nil, parser.makeError("end of input")
	}
	return classAst, nil
}

// class Identifier {
//    classVarDec*
//    subroutineDec*
// }
func (parser *Parser) ParseClassDeclaration() (*ClassAst, error) {
	_, match := parser.expectToken(ClassTP, true)
	if !match {
		return nil, parser.makeError("class")
	}
	classNameToken, match := parser.expectToken(IdentifierTP, true)
	if !match {
		return nil, parser.makeError("class name")
	}
	_, match = parser.expectToken(LeftBraceTP, true)
	if !match {
		return nil, parser.makeError("{")
	}
	classAst := &ClassAst{ClassName: classNameToken.content}
	for parser.matchToken(StaticTP, FieldTP) {
		variable, err := parser.ParseVariableDeclaration()
		if err != nil {
			return nil, err
		}
		classAst.ClassVariables = append(classAst.ClassVariables, variable)
	}
	for parser.matchToken(ConstructorTP, FunctionTP, MethodTP) {
		method, err := parser.ParseFuncOrMethodDeclaration()
		if err != nil {
			return nil, err
		}
		classAst.ClassFuncOrMethod = append(classAst.ClassFuncOrMethod, method)
	}
	_, match = parser.expectToken(RightBraceTP, true)
	if !match {
		return nil, parser.makeError("}")
	}
	return classAst, nil
}

// Var declaration like: [static|field] [boolean|char|int|className] varName [,varName]* ;
func (parser *Parser) ParseVariableDeclaration() (*ClassVariableAst, error) {
	var fieldTp FieldType
	switch parser.currentToken.tp {
	case FieldTP:
		fieldTp = ObjectFieldType
	case StaticTP:
		fieldTp = ClassFieldType
	default:
		return nil, parser.makeError("static or field")
	}
	parser.stepForward()
	varType, err := parser.ParseVariableType()
	if err != nil {
		return nil, err
	}
	varNames, err := parser.parseVarNameList()
	if err != nil {
		return nil, err
	}
	return &ClassVariableAst{FieldTP: fieldTp, VariableType: varType, VariableNames: varNames}, nil
}

// parseVarNameList parses: varName (, varName)* ;
func (parser *Parser) parseVarNameList() (varNames []string, err error) {
	for {
		varNameToken, match := parser.expectToken(IdentifierTP, true)
		if !match {
			return nil, parser.makeError("variable name")
		}
		varNames = append(varNames, varNameToken.content)
		if _, match = parser.expectToken(CommaTP, true); !match {
			break
		}
	}
	if _, match := parser.expectToken(SemiColonTP, true); !match {
		return nil, parser.makeError(";")
	}
	return varNames, nil
}

// ParseVariableType accepts int, char, boolean or any identifier as a class name.
func (parser *Parser) ParseVariableType() (v VariableType, err error) {
	token := parser.currentToken
	switch token.tp {
	case IntTP:
		v.TP = IntVariableType
	case CharTP:
		v.TP = CharVariableType
	case BooleanTP:
		v.TP = BooleanVariableType
	case IdentifierTP:
		v.TP, v.Name = ClassVariableType, token.content
	default:
		return v, parser.makeError("type")
	}
	parser.stepForward()
	return
}

// Method Declaration:
// [constructor|function|method] [void|int|boolean|char|className] methodName ( {[int|boolean|char|className] varName,...}* ) {
//   MethodBody
// }
func (parser *Parser) ParseFuncOrMethodDeclaration() (*ClassFuncOrMethodAst, error) {
	funcTp, err := parser.parseFuncType()
	if err != nil {
		return nil, err
	}
	returnTp, err := parser.parseFuncReturnType()
	if err != nil {
		return nil, err
	}
	methodNameToken, match := parser.expectToken(IdentifierTP, true)
	if !match {
		return nil, parser.makeError("subroutine name")
	}
	paramList, err := parser.parseFuncParamList()
	if err != nil {
		return nil, err
	}
	methodBody, err := parser.parseFuncBody()
	if err != nil {
		return nil, err
	}
	return &ClassFuncOrMethodAst{
		FuncTP:   funcTp,
		ReturnTP: returnTp,
		FuncName: methodNameToken.content,
		Params:   paramList,
		FuncBody: methodBody,
	}, nil
}

func (parser *Parser) parseFuncType() (funcTP FuncType, err error) {
	switch parser.currentToken.tp {
	case ConstructorTP:
		funcTP = ClassConstructorType
	case FunctionTP:
		funcTP = ClassFuncType
	case MethodTP:
		funcTP = ClassMethodType
	default:
		return funcTP, parser.makeError("constructor, function or method")
	}
	parser.stepForward()
	return
}

func (parser *Parser) parseFuncReturnType() (retTP VariableType, err error) {
	if _, match := parser.expectToken(VoidTP, true); match {
		retTP.TP = VoidVariableType
		return
	}
	return parser.ParseVariableType()
}

// ( [type varName [, type varName]*]? )
func (parser *Parser) parseFuncParamList() (ast []*FuncParamAst, err error) {
	_, match := parser.expectToken(LeftParentThesesTP, true)
	if !match {
		return nil, parser.makeError("(")
	}
	// Empty param list.
	if _, match = parser.expectToken(RightParentThesesTP, true); match {
		return nil, nil
	}
	for {
		varType, err := parser.ParseVariableType()
		if err != nil {
			return nil, err
		}
		varNameToken, match := parser.expectToken(IdentifierTP, true)
		if !match {
			return nil, parser.makeError("parameter name")
		}
		ast = append(ast, &FuncParamAst{ParamTP: varType, ParamName: varNameToken.content})
		if _, match = parser.expectToken(CommaTP, true); !match {
			break
		}
	}
	if _, match = parser.expectToken(RightParentThesesTP, true); !match {
		return nil, parser.makeError(")")
	}
	return
}

// {
//    varDec*
//    statements
// }
func (parser *Parser) parseFuncBody() (*FuncBodyAst, error) {
	_, match := parser.expectToken(LeftBraceTP, true)
	if !match {
		return nil, parser.makeError("{")
	}
	body := &FuncBodyAst{}
	for parser.matchToken(VarTP) {
		varDeclare, err := parser.parseVarDeclareStatement()
		if err != nil {
			return nil, err
		}
		body.LocalVariables = append(body.LocalVariables, varDeclare)
	}
	statements, err := parser.parseStatements()
	if err != nil {
		return nil, err
	}
	body.Statements = statements
	if _, match = parser.expectToken(RightBraceTP, true); !match {
		return nil, parser.makeError("}")
	}
	return body, nil
}

// var int a, b;
func (parser *Parser) parseVarDeclareStatement() (*VarDeclareAst, error) {
	_, match := parser.expectToken(VarTP, true)
	if !match {
		return nil, parser.makeError("var")
	}
	varType, err := parser.ParseVariableType()
	if err != nil {
		return nil, err
	}
	varNames, err := parser.parseVarNameList()
	if err != nil {
		return nil, err
	}
	return &VarDeclareAst{VarType: varType, VarNames: varNames}, nil
}

// parseStatements parses statements until a token that cannot start one.
func (parser *Parser) parseStatements() (stms []StatementAst, err error) {
	for {
		var stm StatementAst
		switch parser.currentToken.tp {
		case LetTP:
			stm, err = parser.parseLetStatement()
		case DoTp:
			stm, err = parser.parseDoStatement()
		case IfTP:
			stm, err = parser.parseIfStatement()
		case WhileTP:
			stm, err = parser.parseWhileStatement()
		case ReturnTP:
			stm, err = parser.parseReturnStatement()
		default:
			return stms, nil
		}
		if err != nil {
			return nil, err
		}
		stms = append(stms, stm)
	}
}

// let varName ([ expression ])? = expression ;
func (parser *Parser) parseLetStatement() (*LetStatementAst, error) {
	_, match := parser.expectToken(LetTP, true)
	if !match {
		return nil, parser.makeError("let")
	}
	varNameToken, match := parser.expectToken(IdentifierTP, true)
	if !match {
		return nil, parser.makeError("variable name")
	}
	stm := &LetStatementAst{VarName: varNameToken.content}
	if parser.matchToken(LeftSquareBracketTP) {
		arrayIndex, err := parser.parseArrayIndexExpression()
		if err != nil {
			return nil, err
		}
		stm.ArrayIndex = arrayIndex
	}
	if _, match = parser.expectToken(EqualTP, true); !match {
		return nil, parser.makeError("=")
	}
	value, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}
	stm.Value = value
	if _, match = parser.expectToken(SemiColonTP, true); !match {
		return nil, parser.makeError(";")
	}
	return stm, nil
}

// [ expression ]
func (parser *Parser) parseArrayIndexExpression() (*ExpressionAst, error) {
	_, match := parser.expectToken(LeftSquareBracketTP, true)
	if !match {
		return nil, parser.makeError("[")
	}
	arrayIndexExpression, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, match = parser.expectToken(RightSquareBracketTP, true); !match {
		return nil, parser.makeError("]")
	}
	return arrayIndexExpression, nil
}

// do subroutineCall ;
func (parser *Parser) parseDoStatement() (*DoStatementAst, error) {
	_, match := parser.expectToken(DoTp, true)
	if !match {
		return nil, parser.makeError("do")
	}
	nameToken, match := parser.expectToken(IdentifierTP, true)
	if !match {
		return nil, parser.makeError("subroutine call")
	}
	funcCall, err := parser.parseFuncCall(nameToken.content)
	if err != nil {
		return nil, err
	}
	if _, match = parser.expectToken(SemiColonTP, true); !match {
		return nil, parser.makeError(";")
	}
	return &DoStatementAst{Call: funcCall}, nil
}

// if (condition) { statements } [else { statements }]?
func (parser *Parser) parseIfStatement() (*IfStatementAst, error) {
	if !parser.expectTokens(IfTP, LeftParentThesesTP) {
		return nil, parser.makeError("if (")
	}
	condition, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}
	if !parser.expectTokens(RightParentThesesTP, LeftBraceTP) {
		return nil, parser.makeError(") {")
	}
	stm := &IfStatementAst{Condition: condition}
	stm.IfTrueStatements, err = parser.parseBlockRemainder()
	if err != nil {
		return nil, err
	}
	if _, match := parser.expectToken(ElseTP, true); !match {
		return stm, nil
	}
	if _, match := parser.expectToken(LeftBraceTP, true); !match {
		return nil, parser.makeError("{")
	}
	stm.HasElse = true
	stm.ElseStatements, err = parser.parseBlockRemainder()
	if err != nil {
		return nil, err
	}
	return stm, nil
}

// while (condition) { statements }
func (parser *Parser) parseWhileStatement() (*WhileStatementAst, error) {
	if !parser.expectTokens(WhileTP, LeftParentThesesTP) {
		return nil, parser.makeError("while (")
	}
	condition, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}
	if !parser.expectTokens(RightParentThesesTP, LeftBraceTP) {
		return nil, parser.makeError(") {")
	}
	statements, err := parser.parseBlockRemainder()
	if err != nil {
		return nil, err
	}
	return &WhileStatementAst{Condition: condition, Statements: statements}, nil
}

// parseBlockRemainder parses "statements }" after an opening brace.
func (parser *Parser) parseBlockRemainder() ([]StatementAst, error) {
	statements, err := parser.parseStatements()
	if err != nil {
		return nil, err
	}
	if _, match := parser.expectToken(RightBraceTP, true); !match {
		return nil, parser.makeError("}")
	}
	return statements, nil
}

// return expression? ;
func (parser *Parser) parseReturnStatement() (*ReturnStatementAst, error) {
	_, match := parser.expectToken(ReturnTP, true)
	if !match {
		return nil, parser.makeError("return")
	}
	// If no expressions.
	if _, match = parser.expectToken(SemiColonTP, true); match {
		return &ReturnStatementAst{}, nil
	}
	expression, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, match = parser.expectToken(SemiColonTP, true); !match {
		return nil, parser.makeError(";")
	}
	return &ReturnStatementAst{Return: expression}, nil
}

func (parser *Parser) stepForward() {
	parser.currentToken = parser.tokenizer.NextToken()
}

func (parser *Parser) matchToken(tps ...TokenType) bool {
	for _, tp := range tps {
		if parser.currentToken.tp == tp {
			return true
		}
	}
	return false
}

func (parser *Parser) expectTokens(expectedTokenTPs ...TokenType) bool {
	for _, tokenType := range expectedTokenTPs {
		_, ok := parser.expectToken(tokenType, true)
		if !ok {
			return false
		}
	}
	return true
}

// expectToken checks the current token against expectedTokenTp and steps over it when walk is set.
func (parser *Parser) expectToken(expectedTokenTp TokenType, walk bool) (*Token, bool) {
	token := parser.currentToken
	if token.tp != expectedTokenTp {
		return nil, false
	}
	if walk {
		parser.stepForward()
	}
	return token, true
}

// makeError describes the current token, which did not match what was expected.
// An error token turns into the lexical error it carries.
func (parser *Parser) makeError(expected string) error {
	token := parser.currentToken
	switch token.tp {
	case ErrorTP:
		return &SyntaxError{Line: token.line, Msg: token.content}
	case EOFTP:
		return &SyntaxError{Line: token.line, Near: "end of input", Msg: "unexpected token ends, expect " + expected}
	}
	return &SyntaxError{Line: token.line, Near: token.content, Msg: "expect " + expected}
}
