package vm

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/dlclark/regexp2"
)

var labelFormat = regexp2.MustCompile(`^[A-Za-z_.:][0-9A-Za-z_.$:]*$`, regexp2.None)

// SyntaxError reports a malformed line of vm text.
type SyntaxError struct {
	Line int
	Near string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("SyntaxError: syntax error near %q at line %d", e.Near, e.Line)
}

// Parse reads vm text from rd and returns every command in it. Blank lines and
// lines holding only a // comment are skipped.
func Parse(rd io.Reader) ([]Instruction, error) {
	reader := bufio.NewReader(rd)
	var instructions []Instruction
	for lineCounter := 1; ; lineCounter++ {
		line, err := reader.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		ins, ok, parseErr := ParseLine(line)
		if parseErr != nil {
			parseErr.(*SyntaxError).Line = lineCounter
			return nil, parseErr
		}
		if ok {
			instructions = append(instructions, ins)
		}
		if err == io.EOF {
			return instructions, nil
		}
	}
}

// ParseLine parses a single line. ok is false when the line carries no command.
// A returned error is always a *SyntaxError.
func ParseLine(line []byte) (ins Instruction, ok bool, err error) {
	token, line := getNextToken(line)
	if len(token) == 0 || isComment(token) {
		return ins, false, nil
	}
	keyWordTP, exist := keyWordsMap[token]
	if !exist {
		return ins, false, makeError(token)
	}
	ins.Command = keyWordTP
	switch keyWordTP {
	case PushKeyWordTP, PopKeyWordTP:
		line, err = parseSegmentIndex(&ins, line)
	case LabelKeyWordTP, GotoKeyWordTP, IfGotoKeyWordTP:
		ins.Name, line, err = parseLabelName(line)
	case FunctionKeyWordTP, CallKeyWordTP:
		ins.Name, line, err = parseLabelName(line)
		if err == nil {
			ins.Index, line, err = getIntegerValue(line)
		}
	}
	if err != nil {
		return Instruction{}, false, err
	}
	if err = parseRemainContent(line); err != nil {
		return Instruction{}, false, err
	}
	return ins, true, nil
}

func parseSegmentIndex(ins *Instruction, line []byte) ([]byte, error) {
	token, line := getNextToken(line)
	segment, exist := segments[token]
	if !exist {
		return nil, makeError(token)
	}
	// constant is a virtual segment and cannot be written to.
	if ins.Command == PopKeyWordTP && segment == ConstantSegment {
		return nil, makeError(token)
	}
	index, line, err := getIntegerValue(line)
	if err != nil {
		return nil, err
	}
	ins.Segment, ins.Index = segment, index
	return line, nil
}

// getNextToken returns the next space separated word of line and the rest of it.
func getNextToken(line []byte) (string, []byte) {
	line = bytes.TrimSpace(line)
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v' {
			return string(line[:i]), line[i:]
		}
	}
	return string(line), nil
}

func getIntegerValue(line []byte) (int, []byte, error) {
	token, line := getNextToken(line)
	if len(token) == 0 {
		return -1, nil, makeError(token)
	}
	ret, err := strconv.Atoi(token)
	if err != nil || ret < 0 {
		return -1, nil, makeError(token)
	}
	return ret, line, nil
}

func parseLabelName(line []byte) (string, []byte, error) {
	token, line := getNextToken(line)
	if len(token) == 0 {
		return "", nil, makeError(token)
	}
	match, err := labelFormat.MatchString(token)
	if err != nil || !match {
		return "", nil, makeError(token)
	}
	return token, line, nil
}

func parseRemainContent(line []byte) error {
	remain := bytes.TrimSpace(line)
	if len(remain) == 0 || isComment(string(remain)) {
		return nil
	}
	return makeError(string(remain))
}

func isComment(s string) bool {
	return len(s) >= 2 && s[0] == '/' && s[1] == '/'
}

func makeError(near string) error {
	return &SyntaxError{Near: near}
}
