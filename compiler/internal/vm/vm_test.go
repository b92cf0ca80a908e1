package vm

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_WritesOneCommandPerLine(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf)
	w.WriteFunction("Main.main", 2)
	w.WritePush(ConstantSegment, 7)
	w.WritePop(LocalSegment, 1)
	w.WriteArithmetic(AddKeyWordTP)
	w.WriteArithmetic(NotKeyWordTP)
	w.WriteLabel("WHILE0")
	w.WriteIf("WHILE_END0")
	w.WriteGoto("WHILE0")
	w.WriteCall("Math.multiply", 2)
	w.WriteReturn()
	require.Nil(t, w.Err())
	expected := `function Main.main 2
push constant 7
pop local 1
add
not
label WHILE0
if-goto WHILE_END0
goto WHILE0
call Math.multiply 2
return
`
	assert.Equal(t, expected, buf.String())
}

func TestWriter_WriteArithmeticRejectsOtherCommands(t *testing.T) {
	w := NewWriter(&bytes.Buffer{})
	assert.Panics(t, func() { w.WriteArithmetic(PushKeyWordTP) })
}

type failingWriter struct {
	calls int
}

func (f *failingWriter) Write(p []byte) (int, error) {
	f.calls++
	return 0, errors.New("disk full")
}

func TestWriter_KeepsFirstError(t *testing.T) {
	output := &failingWriter{}
	w := NewWriter(output)
	w.WriteReturn()
	w.WriteReturn()
	assert.EqualError(t, w.Err(), "disk full")
	assert.Equal(t, 1, output.calls)
}

func TestParseLine(t *testing.T) {
	testData := []struct {
		line     string
		expected Instruction
	}{
		{line: "push argument 1", expected: Instruction{Command: PushKeyWordTP, Segment: ArgumentSegment, Index: 1}},
		{line: "pop that 0", expected: Instruction{Command: PopKeyWordTP, Segment: ThatSegment}},
		{line: "  pop   temp 0  ", expected: Instruction{Command: PopKeyWordTP, Segment: TempSegment}},
		{line: "neg", expected: Instruction{Command: NegKeyWordTP}},
		{line: "label IF_END3", expected: Instruction{Command: LabelKeyWordTP, Name: "IF_END3"}},
		{line: "if-goto ELSE0", expected: Instruction{Command: IfGotoKeyWordTP, Name: "ELSE0"}},
		{line: "function Point.getX 0", expected: Instruction{Command: FunctionKeyWordTP, Name: "Point.getX"}},
		{line: "call String.appendChar 2 // trailing", expected: Instruction{Command: CallKeyWordTP, Name: "String.appendChar", Index: 2}},
		{line: "return\n", expected: Instruction{Command: ReturnKeyWordTP}},
	}
	for _, data := range testData {
		ins, ok, err := ParseLine([]byte(data.line))
		assert.Nil(t, err, data.line)
		assert.True(t, ok, data.line)
		assert.Equal(t, data.expected, ins, data.line)
	}
}

func TestParseLine_Errors(t *testing.T) {
	lines := []string{
		"PUSH constant 1",
		"push heap 1",
		"push constant",
		"push constant -1",
		"pop constant 0",
		"label 1abc",
		"call Foo.bar",
		"add 1",
		"jump",
	}
	for _, l := range lines {
		_, ok, err := ParseLine([]byte(l))
		assert.False(t, ok, l)
		var syntaxErr *SyntaxError
		assert.True(t, errors.As(err, &syntaxErr), l)
	}
}

func TestParse_RoundTripsWriterOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf)
	w.WriteFunction("Foo.new", 0)
	w.WritePush(ConstantSegment, 3)
	w.WriteCall("Memory.alloc", 1)
	w.WritePop(PointerSegment, 0)
	w.WritePush(PointerSegment, 0)
	w.WriteReturn()
	text := buf.String()

	instructions, err := Parse(strings.NewReader("// header\n\n" + text))
	require.Nil(t, err)
	require.Len(t, instructions, 6)
	out := &strings.Builder{}
	for _, ins := range instructions {
		out.WriteString(ins.String() + "\n")
	}
	assert.Equal(t, text, out.String())
}

func TestParse_ReportsLine(t *testing.T) {
	_, err := Parse(strings.NewReader("push constant 1\nadd\nmul\n"))
	var syntaxErr *SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	assert.Equal(t, 3, syntaxErr.Line)
	assert.Equal(t, "mul", syntaxErr.Near)
}
