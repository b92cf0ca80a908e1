package internal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The ast keeps enough to give back every token of a valid class in order.
func TestClassAst_TokensReproduceSource(t *testing.T) {
	testData := []string{
		"class Empty { }",
		`class Point {
    field int x, y;
    static Point origin;
    constructor Point new(int ax, int ay) { let x = ax; let y = ay; return this; }
    method int dist(Point other) {
        var int dx, dy;
        let dx = x - other.getX();
        let dy = -(y - other.getY());
        return Math.sqrt((dx * dx) + (dy * dy));
    }
    function void demo(Array a, char c, boolean b) {
        var String s;
        let s = "a < b & c";
        let a[a[0]] = ~b;
        if (b) { do reset(); } else { }
        if (true | false) { }
        while (null = a) { let c = 65536; }
        do Output.printString(s, 1, c / 2);
        return;
    }
}`,
	}
	for _, content := range testData {
		expected, err := Tokenize(strings.NewReader(content))
		require.Nil(t, err)
		classAst, err := parseClass(content)
		require.Nil(t, err)
		actual := classAst.Tokens()
		require.Equal(t, len(expected), len(actual), content)
		for i := range expected {
			assert.Equal(t, expected[i].Classification(), actual[i].Classification(), i)
			assert.Equal(t, expected[i].Content(), actual[i].Content(), i)
			assert.Equal(t, expected[i].Type(), actual[i].Type(), i)
		}
	}
}
