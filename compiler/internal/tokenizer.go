package internal

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/xiaobogaga/jackc/util"
)

// A streaming tokenizer for jack.

// Jack language has those elements:
// * KeyWord: class, constructor, function, method, field, static, var, int, char, boolean, void, true,
// 			false, null, this, let, do, if, else, while, return.
// * Symbol: {, }, (, ), [, ], ., ,, ;, +, -, *, /, &, |, <, >, =, ~.
// * Constant: integer (0..65535, wraps), string ("xxx", no newline inside).
// * Identifier: letters, digits, underscore, not starting with a digit.
// * Comment: /* */, //.

type TokenType int

const (
	ClassTP              TokenType = iota // class
	ConstructorTP                         // constructor
	FunctionTP                            // function
	MethodTP                              // method
	FieldTP                               // field
	StaticTP                              // static
	VarTP                                 // var
	IntTP                                 // int
	CharTP                                // char
	BooleanTP                             // boolean
	VoidTP                                // void
	TrueTP                                // true
	FalseTP                               // false
	NullTP                                // null
	ThisTP                                // this
	LetTP                                 // let
	DoTp                                  // do
	IfTP                                  // if
	ElseTP                                // else
	WhileTP                               // while
	ReturnTP                              // return
	LeftBraceTP                           // {
	RightBraceTP                          // }
	LeftParentThesesTP                    // (
	RightParentThesesTP                   // )
	LeftSquareBracketTP                   // [
	RightSquareBracketTP                  // ]
	DotTP                                 // .
	CommaTP                               // ,
	SemiColonTP                           // ;
	AddTP                                 // +
	MinusTP                               // -
	MultiplyTP                            // *
	DivideTP                              // /
	AndTP                                 // &
	OrTP                                  // |
	LessTP                                // <
	GreaterTP                             // >
	EqualTP                               // =
	BooleanNegativeTP                     // ~
	IntegerTP                             // 1010
	StringTP                              // "xxx"
	IdentifierTP                          // varA
	EOFTP                                 // end of input
	ErrorTP                               // malformed input
)

// keyWordTokenTPMap is the mapping from keyWord to the corresponding TokenTP.
var keyWordTokenTPMap = map[string]TokenType{
	"class":       ClassTP,
	"constructor": ConstructorTP,
	"function":    FunctionTP,
	"method":      MethodTP,
	"field":       FieldTP,
	"static":      StaticTP,
	"var":         VarTP,
	"int":         IntTP,
	"char":        CharTP,
	"boolean":     BooleanTP,
	"void":        VoidTP,
	"true":        TrueTP,
	"false":       FalseTP,
	"null":        NullTP,
	"this":        ThisTP,
	"let":         LetTP,
	"do":          DoTp,
	"if":          IfTP,
	"else":        ElseTP,
	"while":       WhileTP,
	"return":      ReturnTP,
}

// simpleSymbolTokenTPMap is the mapping from simple symbol to the corresponding TokenTP.
// '/' is handled apart because it can also open a comment.
var simpleSymbolTokenTPMap = map[byte]TokenType{
	'{': LeftBraceTP,
	'}': RightBraceTP,
	'(': LeftParentThesesTP,
	')': RightParentThesesTP,
	'[': LeftSquareBracketTP,
	']': RightSquareBracketTP,
	'.': DotTP,
	',': CommaTP,
	';': SemiColonTP,
	'+': AddTP,
	'-': MinusTP,
	'*': MultiplyTP,
	'&': AndTP,
	'|': OrTP,
	'<': LessTP,
	'>': GreaterTP,
	'=': EqualTP,
	'~': BooleanNegativeTP,
}

// fixedTokenContent is the text of every keyword and symbol token.
var fixedTokenContent = func() map[TokenType]string {
	ret := map[TokenType]string{DivideTP: "/"}
	for k, tp := range keyWordTokenTPMap {
		ret[tp] = k
	}
	for s, tp := range simpleSymbolTokenTPMap {
		ret[tp] = string(s)
	}
	return ret
}()

func (tp TokenType) IsKeyWord() bool {
	return tp >= ClassTP && tp <= ReturnTP
}

func (tp TokenType) IsSymbol() bool {
	return tp >= LeftBraceTP && tp <= BooleanNegativeTP
}

// Classification is the name a token dump uses for tokens of this type.
func (tp TokenType) Classification() string {
	switch {
	case tp.IsKeyWord():
		return "keyword"
	case tp.IsSymbol():
		return "symbol"
	}
	switch tp {
	case IntegerTP:
		return "integerConstant"
	case StringTP:
		return "stringConstant"
	case IdentifierTP:
		return "identifier"
	case EOFTP:
		return "eof"
	}
	return "error"
}

type Token struct {
	content string
	line    int
	tp      TokenType
	value   uint16 // only for IntegerTP
}

// newToken builds a keyword or symbol token.
func newToken(tp TokenType) *Token {
	return &Token{tp: tp, content: fixedTokenContent[tp]}
}

func newIdentifierToken(name string) *Token {
	return &Token{tp: IdentifierTP, content: name}
}

func newIntegerToken(v uint16) *Token {
	return &Token{tp: IntegerTP, content: strconv.Itoa(int(v)), value: v}
}

func newStringToken(s string) *Token {
	return &Token{tp: StringTP, content: s}
}

func (t *Token) Type() TokenType {
	return t.tp
}

// Content is the literal text of the token: the lexeme for keywords, symbols and
// identifiers, the decimal value for integers, the characters between the quotes
// for strings, and the message for error tokens.
func (t *Token) Content() string {
	return t.content
}

func (t *Token) Line() int {
	return t.line
}

func (t *Token) IntValue() uint16 {
	return t.value
}

func (t *Token) Classification() string {
	return t.tp.Classification()
}

func (t *Token) String() string {
	return fmt.Sprintf("%s(%s)", t.Classification(), t.content)
}

// Tokenizer turns a character stream into tokens. It always holds one token
// fetched ahead, so Peek never touches the source.
type Tokenizer struct {
	reader      *bufio.Reader
	currentLine int
	lastByte    byte
	readErr     error
	next        *Token
}

func NewTokenizer(rd io.Reader) *Tokenizer {
	tokenizer := &Tokenizer{reader: bufio.NewReader(rd), currentLine: 1}
	tokenizer.next = tokenizer.getNextToken()
	return tokenizer
}

// NextToken returns the buffered token and fetches the one after it. Once an
// end-of-input or error token is reached it is returned forever.
func (tokenizer *Tokenizer) NextToken() *Token {
	current := tokenizer.next
	if current.tp != EOFTP && current.tp != ErrorTP {
		tokenizer.next = tokenizer.getNextToken()
	}
	return current
}

// Peek returns the token the next call to NextToken will return.
func (tokenizer *Tokenizer) Peek() *Token {
	return tokenizer.next
}

func (tokenizer *Tokenizer) getNextToken() *Token {
	token := tokenizer.scan()
	if token.line == 0 {
		token.line = tokenizer.currentLine
	}
	return token
}

func (tokenizer *Tokenizer) scan() *Token {
	for {
		b, ok := tokenizer.skipBlank()
		if !ok {
			return tokenizer.eofOrError()
		}
		switch {
		case util.IsSimpleSymbol(b):
			return newToken(simpleSymbolTokenTPMap[b])
		case b == '/':
			token, isComment := tokenizer.tokenCommentOrDivide()
			if isComment {
				continue
			}
			return token
		case b == '"':
			return tokenizer.tokenString()
		case util.IsNumber(b):
			return tokenizer.tokenNumber(b)
		case util.IsLetterOrUnderscore(b):
			return tokenizer.toKeywordOrIdentifier(b)
		default:
			return tokenizer.makeError(fmt.Sprintf("unexpected character %q", b))
		}
	}
}

// skipBlank consumes blanks and returns the first other byte.
func (tokenizer *Tokenizer) skipBlank() (byte, bool) {
	for {
		b, ok := tokenizer.readByte()
		if !ok || !util.IsBlank(b) {
			return b, ok
		}
	}
}

// tokenCommentOrDivide is called after a '/'. It consumes a whole comment and
// reports isComment, or returns the divide token. A nil token with isComment
// false never happens; an unterminated block comment yields an error token.
func (tokenizer *Tokenizer) tokenCommentOrDivide() (token *Token, isComment bool) {
	b, ok := tokenizer.readByte()
	if !ok {
		return newToken(DivideTP), false
	}
	switch b {
	case '/':
		tokenizer.skipSingleLineComment()
		return nil, true
	case '*':
		if tokenizer.skipMultipleLineComment() {
			return nil, true
		}
		return tokenizer.makeError("incorrect comment format"), false
	}
	tokenizer.unreadByte()
	return newToken(DivideTP), false
}

func (tokenizer *Tokenizer) skipSingleLineComment() {
	for {
		b, ok := tokenizer.readByte()
		if !ok || b == '\n' {
			return
		}
	}
}

// skipMultipleLineComment looks forward for the closing */ and reports whether it was found.
func (tokenizer *Tokenizer) skipMultipleLineComment() bool {
	startLine := tokenizer.currentLine
	for {
		b, ok := tokenizer.readByte()
		if !ok {
			tokenizer.currentLine = startLine
			return false
		}
		if b != '*' {
			continue
		}
		b, ok = tokenizer.readByte()
		if !ok {
			tokenizer.currentLine = startLine
			return false
		}
		if b == '/' {
			return true
		}
		tokenizer.unreadByte()
	}
}

func (tokenizer *Tokenizer) tokenString() *Token {
	var content []byte
	for {
		b, ok := tokenizer.readByte()
		if !ok {
			return tokenizer.makeError("incorrect string format")
		}
		switch b {
		case '\n':
			tokenizer.unreadByte()
			return tokenizer.makeError("incorrect string format")
		case '"':
			return newStringToken(string(content))
		}
		content = append(content, b)
	}
}

// tokenNumber accumulates digits in 16 bits. Values over 65535 wrap around.
func (tokenizer *Tokenizer) tokenNumber(first byte) *Token {
	value := uint16(first - '0')
	for {
		b, ok := tokenizer.readByte()
		if !ok {
			break
		}
		if !util.IsNumber(b) {
			tokenizer.unreadByte()
			break
		}
		value = value*10 + uint16(b-'0')
	}
	return newIntegerToken(value)
}

func (tokenizer *Tokenizer) toKeywordOrIdentifier(first byte) *Token {
	tokenBytes := []byte{first}
	for {
		b, ok := tokenizer.readByte()
		if !ok {
			break
		}
		if !util.IsLetterOrUnderscoreOrNumber(b) {
			tokenizer.unreadByte()
			break
		}
		tokenBytes = append(tokenBytes, b)
	}
	if keyWordTP, isKeyWord := keyWordTokenTPMap[string(tokenBytes)]; isKeyWord {
		return newToken(keyWordTP)
	}
	return newIdentifierToken(string(tokenBytes))
}

// eofOrError distinguishes a clean end of input from a failing reader.
func (tokenizer *Tokenizer) eofOrError() *Token {
	if tokenizer.readErr != nil {
		return tokenizer.makeError(tokenizer.readErr.Error())
	}
	return &Token{tp: EOFTP, line: tokenizer.currentLine}
}

func (tokenizer *Tokenizer) readByte() (byte, bool) {
	b, err := tokenizer.reader.ReadByte()
	if err != nil {
		if err != io.EOF {
			tokenizer.readErr = err
		}
		tokenizer.lastByte = 0
		return 0, false
	}
	if b == '\n' {
		tokenizer.currentLine++
	}
	tokenizer.lastByte = b
	return b, true
}

// unreadByte puts back the byte just read.
func (tokenizer *Tokenizer) unreadByte() {
	if tokenizer.lastByte == '\n' {
		tokenizer.currentLine--
	}
	tokenizer.lastByte = 0
	_ = tokenizer.reader.UnreadByte()
}

func (tokenizer *Tokenizer) makeError(msg string) *Token {
	return &Token{tp: ErrorTP, content: msg, line: tokenizer.currentLine}
}

// Tokenize reads every token of rd. It returns a *SyntaxError on the first
// error token; the EOF token is not included.
func Tokenize(rd io.Reader) ([]*Token, error) {
	tokenizer := NewTokenizer(rd)
	var tokens []*Token
	for {
		token := tokenizer.NextToken()
		switch token.tp {
		case EOFTP:
			return tokens, nil
		case ErrorTP:
			return nil, &SyntaxError{Line: token.line, Msg: token.content}
		}
		tokens = append(tokens, token)
	}
}
