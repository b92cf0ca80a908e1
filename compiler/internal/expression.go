package internal

// Jack expressions carry at most one binary operator: term (op term)?.
// There is no precedence climbing; "a + b * c" stops after "a + b" and the
// caller then fails on the unexpected "*".

func (parser *Parser) parseExpression() (*ExpressionAst, error) {
	leftTerm, err := parser.parseExpressionTerm()
	if err != nil {
		return nil, err
	}
	expr := &ExpressionAst{LeftTerm: leftTerm}
	op := parser.matchOp()
	if op == nil {
		return expr, nil
	}
	parser.stepForward()
	rightTerm, err := parser.parseExpressionTerm()
	if err != nil {
		return nil, err
	}
	expr.Op, expr.RightTerm = op, rightTerm
	return expr, nil
}

// parseExpressions parses a possibly empty, comma separated expression list up to
// and including the closing parenthesis.
func (parser *Parser) parseExpressions() (exprs []*ExpressionAst, err error) {
	if _, match := parser.expectToken(RightParentThesesTP, true); match {
		return nil, nil
	}
	for {
		expression, err := parser.parseExpression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expression)
		if _, match := parser.expectToken(CommaTP, true); !match {
			break
		}
	}
	if _, match := parser.expectToken(RightParentThesesTP, true); !match {
		return nil, parser.makeError(")")
	}
	return exprs, nil
}

func (parser *Parser) parseExpressionTerm() (TermAst, error) {
	token := parser.currentToken
	switch token.tp {
	case IntegerTP:
		parser.stepForward()
		return &IntegerConstantTerm{Value: token.value}, nil
	case StringTP:
		parser.stepForward()
		return &StringConstantTerm{Value: token.content}, nil
	case TrueTP, FalseTP, NullTP, ThisTP:
		return parser.parseKeyWordConstantTerm()
	// When it's identifier, it can be a SubRoutine call, an array element or
	// a plain variable like: i
	case IdentifierTP:
		parser.stepForward()
		return parser.parseSubRoutineCallOrVarExpressionTerm(token.content)
	case LeftParentThesesTP:
		return parser.parseSubExpressionTerm()
	// An unary operation for negative.
	case MinusTP, BooleanNegativeTP:
		return parser.parseNegationExpressionTerm()
	}
	return nil, parser.makeError("term")
}

func (parser *Parser) parseKeyWordConstantTerm() (*KeyWordConstantTerm, error) {
	term := new(KeyWordConstantTerm)
	switch parser.currentToken.tp {
	case TrueTP:
		term.KeyWord = TrueKeyWordConstant
	case FalseTP:
		term.KeyWord = FalseKeyWordConstant
	case NullTP:
		term.KeyWord = NullKeyWordConstant
	case ThisTP:
		term.KeyWord = ThisKeyWordConstant
	default:
		return nil, parser.makeError("keyword constant")
	}
	parser.stepForward()
	return term, nil
}

// The identifier is already consumed. The token after it decides:
// [ for an array element, . or ( for a call, anything else for a variable.
func (parser *Parser) parseSubRoutineCallOrVarExpressionTerm(name string) (TermAst, error) {
	switch parser.currentToken.tp {
	case LeftSquareBracketTP:
		index, err := parser.parseArrayIndexExpression()
		if err != nil {
			return nil, err
		}
		return &ArrayIndexTerm{VarName: name, Index: index}, nil
	case DotTP, LeftParentThesesTP:
		callAst, err := parser.parseFuncCall(name)
		if err != nil {
			return nil, err
		}
		return &SubRoutineCallTerm{Call: callAst}, nil
	}
	return &VarNameTerm{VarName: name}, nil
}

// parseFuncCall parses the rest of a call whose first identifier is already consumed:
// ( expressions ) or . funcName ( expressions ).
func (parser *Parser) parseFuncCall(name string) (*CallAst, error) {
	callAst := &CallAst{FuncName: name}
	if _, match := parser.expectToken(DotTP, true); match {
		funcNameToken, match := parser.expectToken(IdentifierTP, true)
		if !match {
			return nil, parser.makeError("subroutine name")
		}
		callAst.FuncProvider, callAst.FuncName = name, funcNameToken.content
	}
	if _, match := parser.expectToken(LeftParentThesesTP, true); !match {
		return nil, parser.makeError("(")
	}
	params, err := parser.parseExpressions()
	if err != nil {
		return nil, err
	}
	callAst.Params = params
	return callAst, nil
}

func (parser *Parser) parseSubExpressionTerm() (*SubExpressionTerm, error) {
	_, match := parser.expectToken(LeftParentThesesTP, true)
	if !match {
		return nil, parser.makeError("(")
	}
	expr, err := parser.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, match = parser.expectToken(RightParentThesesTP, true); !match {
		return nil, parser.makeError(")")
	}
	return &SubExpressionTerm{Expr: expr}, nil
}

// Note: for expression 5 + -2 our compiler won't generate an error, the unary
// minus binds to the term that follows it.
func (parser *Parser) parseNegationExpressionTerm() (*UnaryTerm, error) {
	var op *OpAst
	switch parser.currentToken.tp {
	case BooleanNegativeTP:
		op = &BooleanNegationOpAst
	case MinusTP:
		op = &NegationOpAst
	default:
		return nil, parser.makeError("- or ~")
	}
	parser.stepForward()
	term, err := parser.parseExpressionTerm()
	if err != nil {
		return nil, err
	}
	return &UnaryTerm{Op: op, Term: term}, nil
}

// matchOp returns the binary operator the current token stands for, or nil.
func (parser *Parser) matchOp() *OpAst {
	switch parser.currentToken.tp {
	case AddTP:
		return &AddOpAst
	case MinusTP:
		return &MinusOpAst
	case MultiplyTP:
		return &MultipleOpAst
	case DivideTP:
		return &DivideOpAst
	case AndTP:
		return &AndOpAst
	case OrTP:
		return &OrOpAst
	case GreaterTP:
		return &GreatOpAst
	case LessTP:
		return &LessOpAst
	case EqualTP:
		return &EqualOpAst
	}
	return nil
}
