package internal

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaobogaga/jackc/compiler/internal/vm"
)

func compileString(t *testing.T, content string) string {
	code, err := CompileUnit(strings.NewReader(content))
	require.Nil(t, err, content)
	return string(code)
}

// compileBody compiles statements as the body of "function void f()" in class T,
// preceded by the given class and local declarations.
func compileBody(t *testing.T, classVars, locals, statements string) string {
	return compileString(t, "class T { "+classVars+" function void f(int p, Array arr) { "+locals+" "+statements+" } }")
}

func lines(code ...string) string {
	return strings.Join(code, "\n") + "\n"
}

func TestCodeGenerator_MainReturn(t *testing.T) {
	code := compileString(t, "class Main { function void main() { return; } }")
	assert.Equal(t, lines(
		"function Main.main 0",
		"push constant 0",
		"return",
	), code)
}

func TestCodeGenerator_MethodPrologue(t *testing.T) {
	code := compileString(t, "class Point { field int x, y; method int getX() { return x; } }")
	assert.Equal(t, lines(
		"function Point.getX 0",
		"push argument 0",
		"pop pointer 0",
		"push this 0",
		"return",
	), code)
}

func TestCodeGenerator_MethodArgumentsStartAtOne(t *testing.T) {
	code := compileString(t, "class Point { method void set(int a, int b) { let a = b; return; } }")
	assert.Equal(t, lines(
		"function Point.set 0",
		"push argument 0",
		"pop pointer 0",
		"push argument 2",
		"pop argument 1",
		"push constant 0",
		"return",
	), code)
}

func TestCodeGenerator_ConstructorPrologue(t *testing.T) {
	code := compileString(t, `class Point {
    field int x, y;
    static int count;
    field Array z;
    constructor Point new(int ax) {
        let y = ax;
        let count = count + 1;
        return this;
    }
}`)
	assert.Equal(t, lines(
		"function Point.new 0",
		"push constant 3",
		"call Memory.alloc 1",
		"pop pointer 0",
		"push argument 0",
		"pop this 1",
		"push static 0",
		"push constant 1",
		"add",
		"pop static 0",
		"push pointer 0",
		"return",
	), code)
}

func TestCodeGenerator_IfWithoutElse(t *testing.T) {
	code := compileBody(t, "", "var int x, y;", "if (x) { let y = 1; } return;")
	assert.Equal(t, lines(
		"function T.f 2",
		"push local 0",
		"not",
		"if-goto ELSE0",
		"push constant 1",
		"pop local 1",
		"goto IF_END0",
		"label ELSE0",
		"label IF_END0",
		"push constant 0",
		"return",
	), code)
}

func TestCodeGenerator_IfElseAndWhile(t *testing.T) {
	code := compileBody(t, "", "var int i;", "while (i < 3) { if (i = 1) { let i = 2; } else { let i = i + 1; } } return;")
	assert.Equal(t, lines(
		"function T.f 1",
		"label WHILE0",
		"push local 0",
		"push constant 3",
		"lt",
		"not",
		"if-goto WHILE_END0",
		"push local 0",
		"push constant 1",
		"eq",
		"not",
		"if-goto ELSE1",
		"push constant 2",
		"pop local 0",
		"goto IF_END1",
		"label ELSE1",
		"push local 0",
		"push constant 1",
		"add",
		"pop local 0",
		"label IF_END1",
		"goto WHILE0",
		"label WHILE_END0",
		"push constant 0",
		"return",
	), code)
}

func TestCodeGenerator_ArrayStore(t *testing.T) {
	code := compileString(t, "class T { function void f(Array arr) { let arr[1] = 2; return; } }")
	assert.Equal(t, lines(
		"function T.f 0",
		"push argument 0",
		"push constant 1",
		"add",
		"push constant 2",
		"pop temp 0",
		"pop pointer 1",
		"push temp 0",
		"pop that 0",
		"push constant 0",
		"return",
	), code)
}

func TestCodeGenerator_ArrayLoad(t *testing.T) {
	code := compileBody(t, "", "", "let p = arr[p + 1]; return;")
	assert.Equal(t, lines(
		"function T.f 0",
		"push argument 0",
		"push constant 1",
		"add",
		"push argument 1",
		"add",
		"pop pointer 1",
		"push that 0",
		"pop argument 0",
		"push constant 0",
		"return",
	), code)
}

func TestCodeGenerator_Expressions(t *testing.T) {
	testData := []struct {
		Expr     string
		Expected []string
	}{
		{Expr: "p - 1", Expected: []string{"push argument 0", "push constant 1", "sub"}},
		{Expr: "p * 2", Expected: []string{"push argument 0", "push constant 2", "call Math.multiply 2"}},
		{Expr: "p / 2", Expected: []string{"push argument 0", "push constant 2", "call Math.divide 2"}},
		{Expr: "p & 1", Expected: []string{"push argument 0", "push constant 1", "and"}},
		{Expr: "p | 1", Expected: []string{"push argument 0", "push constant 1", "or"}},
		{Expr: "p > 1", Expected: []string{"push argument 0", "push constant 1", "gt"}},
		{Expr: "-p", Expected: []string{"push argument 0", "neg"}},
		{Expr: "~(p = 1)", Expected: []string{"push argument 0", "push constant 1", "eq", "not"}},
		{Expr: "true", Expected: []string{"push constant 0", "not"}},
		{Expr: "false", Expected: []string{"push constant 0"}},
		{Expr: "null", Expected: []string{"push constant 0"}},
		{Expr: "65536", Expected: []string{"push constant 0"}},
		{Expr: "(1 + 2) * (3 - p)", Expected: []string{"push constant 1", "push constant 2", "add",
			"push constant 3", "push argument 0", "sub", "call Math.multiply 2"}},
		{Expr: `"Hi"`, Expected: []string{"push constant 2", "call String.new 1",
			"push constant 72", "call String.appendChar 2", "push constant 105", "call String.appendChar 2"}},
		{Expr: `""`, Expected: []string{"push constant 0", "call String.new 1"}},
		{Expr: "\"a\xc3\xa9b\"", Expected: []string{"push constant 2", "call String.new 1",
			"push constant 97", "call String.appendChar 2", "push constant 98", "call String.appendChar 2"}},
	}
	for _, data := range testData {
		code := compileBody(t, "", "", "let p = "+data.Expr+"; return;")
		expected := append([]string{"function T.f 0"}, data.Expected...)
		expected = append(expected, "pop argument 0", "push constant 0", "return")
		assert.Equal(t, lines(expected...), code, data.Expr)
	}
}

func TestCodeGenerator_This(t *testing.T) {
	code := compileString(t, "class P { method P self() { return this; } }")
	assert.Equal(t, lines(
		"function P.self 0",
		"push argument 0",
		"pop pointer 0",
		"push pointer 0",
		"return",
	), code)
}

func TestCodeGenerator_Calls(t *testing.T) {
	content := `class Game {
    field Ball ball;
    static int score;
    method void run(Paddle paddle, int speed) {
        var Array cells;
        do move(speed);
        do ball.bounce(1, 2);
        do paddle.draw();
        do Screen.clear();
        do Output.printInt(Math.max(score, 3));
        let cells = Array.new(10);
        return;
    }
}`
	assert.Equal(t, lines(
		"function Game.run 1",
		"push argument 0",
		"pop pointer 0",
		// do move(speed): a method of this object.
		"push pointer 0",
		"push argument 2",
		"call Game.move 2",
		"pop temp 0",
		// do ball.bounce(1, 2): a method of field ball.
		"push this 0",
		"push constant 1",
		"push constant 2",
		"call Ball.bounce 3",
		"pop temp 0",
		// do paddle.draw(): a method of argument paddle.
		"push argument 1",
		"call Paddle.draw 1",
		"pop temp 0",
		"call Screen.clear 0",
		"pop temp 0",
		"push static 0",
		"push constant 3",
		"call Math.max 2",
		"call Output.printInt 1",
		"pop temp 0",
		"push constant 10",
		"call Array.new 1",
		"pop local 0",
		"push constant 0",
		"return",
	), compileString(t, content))
}

func TestCodeGenerator_LocalsCountAllDeclarations(t *testing.T) {
	code := compileBody(t, "", "var int a, b, c; var boolean d; var Array e, f;", "return;")
	assert.True(t, strings.HasPrefix(code, "function T.f 6\n"), code)

	code = compileBody(t, "", "var int a, b; var char c;", "let c = a; return;")
	assert.Contains(t, code, "push local 0\npop local 2\n")
}

func TestCodeGenerator_LocalHidesField(t *testing.T) {
	code := compileString(t, "class T { field int x; method void f() { var int x; let x = 1; return; } }")
	assert.Contains(t, code, "pop local 0\n")
	assert.NotContains(t, code, "pop this 0\n")
}

func TestCodeGenerator_LabelsUniqueAcrossSubroutines(t *testing.T) {
	content := `class T {
    function void a(boolean c) { if (c) { } while (c) { } return; }
    function void b(boolean c) { while (c) { if (c) { } else { } } return; }
}`
	code := compileString(t, content)
	var labels []string
	for _, line := range strings.Split(code, "\n") {
		if strings.HasPrefix(line, "label ") {
			labels = append(labels, strings.TrimPrefix(line, "label "))
		}
	}
	assert.Equal(t, []string{"ELSE0", "IF_END0", "WHILE1", "WHILE_END1", "WHILE2", "ELSE3", "IF_END3", "WHILE_END2"}, labels)
}

func TestCodeGenerator_CounterIsPerGenerator(t *testing.T) {
	content := "class T { function void f(boolean c) { if (c) { } return; } }"
	first := compileString(t, content)
	second := compileString(t, content)
	assert.Equal(t, first, second)
	assert.Contains(t, second, "label ELSE0\n")
}

func TestCodeGenerator_OutputIsValidVMCode(t *testing.T) {
	code := compileString(t, `class List {
    field int data;
    field List next;
    constructor List new(int car, List cdr) { let data = car; let next = cdr; return this; }
    method void dispose() { if (~(next = null)) { do next.dispose(); } do Memory.deAlloc(this); return; }
}`)
	instructions, err := vm.Parse(strings.NewReader(code))
	require.Nil(t, err)
	buf := &bytes.Buffer{}
	w := vm.NewWriter(buf)
	for _, ins := range instructions {
		w.Write(ins)
	}
	assert.Equal(t, code, buf.String())
}

func TestCodeGenerator_Errors(t *testing.T) {
	testData := []struct {
		Content    string
		Subroutine string
		Msg        string
	}{
		{Content: "class T { field int x; static int x; }", Msg: "duplicate variable name: x"},
		{Content: "class T { function void f(int a, int a) { return; } }", Subroutine: "f", Msg: "duplicate funcParam a"},
		{Content: "class T { function void f(int a) { var int a; return; } }", Subroutine: "f", Msg: "duplicate var a"},
		{Content: "class T { function void f() { var int b, b; return; } }", Subroutine: "f", Msg: "duplicate var b"},
		{Content: "class T { function void f() { let y = 1; return; } }", Subroutine: "f", Msg: "cannot find such variable y"},
		{Content: "class T { function void f() { return y; } }", Subroutine: "f", Msg: "cannot find such variable y"},
		{Content: "class T { function void f() { let a[0] = 1; return; } }", Subroutine: "f", Msg: "cannot find such variable a"},
		{Content: "class T { function int f() { return a[0]; } }", Subroutine: "f", Msg: "cannot find such variable a"},
		{Content: "class T { function void f() { var int i; do i.run(); return; } }", Subroutine: "f",
			Msg: "var i of type int doesn't have such method run"},
		// A local of one subroutine is not visible in the next one.
		{Content: "class T { function void f() { var int a; return; } function void g() { let a = 1; return; } }",
			Subroutine: "g", Msg: "cannot find such variable a"},
	}
	for _, data := range testData {
		code, err := CompileUnit(strings.NewReader(data.Content))
		assert.Nil(t, code, data.Content)
		var semanticErr *SemanticError
		require.True(t, errors.As(err, &semanticErr), data.Content)
		assert.Equal(t, "T", semanticErr.Class, data.Content)
		assert.Equal(t, data.Subroutine, semanticErr.Subroutine, data.Content)
		assert.Equal(t, data.Msg, semanticErr.Msg, data.Content)
	}
}

func TestCodeGenerator_UnknownMemberKind(t *testing.T) {
	classAst := &ClassAst{ClassName: "T", ClassVariables: []*ClassVariableAst{{FieldTP: FieldType(7), VariableNames: []string{"x"}}}}
	_, err := GenerateCode(classAst)
	var semanticErr *SemanticError
	require.True(t, errors.As(err, &semanticErr))
	assert.Equal(t, "unknown class variable kind 7 at class T", err.Error())

	classAst = &ClassAst{ClassName: "T", ClassFuncOrMethod: []*ClassFuncOrMethodAst{{FuncTP: FuncType(9), FuncName: "f", FuncBody: &FuncBodyAst{}}}}
	_, err = GenerateCode(classAst)
	require.True(t, errors.As(err, &semanticErr))
	assert.Equal(t, "unknown subroutine kind 9 at T.f", err.Error())
}
