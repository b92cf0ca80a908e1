package vm

import (
	"io"
)

// Writer emits vm commands to an underlying io.Writer, one per line.
// The first write error is kept and every later write becomes a no-op;
// callers check Err once they are done.
type Writer struct {
	output io.Writer
	err    error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{output: w}
}

func (w *Writer) Write(ins Instruction) {
	w.writeCommand(ins.String())
}

func (w *Writer) WritePush(segment Segment, index int) {
	w.Write(Instruction{Command: PushKeyWordTP, Segment: segment, Index: index})
}

func (w *Writer) WritePop(segment Segment, index int) {
	w.Write(Instruction{Command: PopKeyWordTP, Segment: segment, Index: index})
}

// WriteArithmetic writes one of add, sub, neg, eq, gt, lt, and, or, not.
func (w *Writer) WriteArithmetic(op KeyWordTP) {
	if !op.IsArithmetic() {
		panic("vm: not an arithmetic command: " + op.String())
	}
	w.Write(Instruction{Command: op})
}

func (w *Writer) WriteLabel(label string) {
	w.Write(Instruction{Command: LabelKeyWordTP, Name: label})
}

func (w *Writer) WriteGoto(label string) {
	w.Write(Instruction{Command: GotoKeyWordTP, Name: label})
}

func (w *Writer) WriteIf(label string) {
	w.Write(Instruction{Command: IfGotoKeyWordTP, Name: label})
}

func (w *Writer) WriteCall(name string, nArgs int) {
	w.Write(Instruction{Command: CallKeyWordTP, Name: name, Index: nArgs})
}

func (w *Writer) WriteFunction(name string, nLocals int) {
	w.Write(Instruction{Command: FunctionKeyWordTP, Name: name, Index: nLocals})
}

func (w *Writer) WriteReturn() {
	w.Write(Instruction{Command: ReturnKeyWordTP})
}

func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) writeCommand(command string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.output, command+"\n")
}
