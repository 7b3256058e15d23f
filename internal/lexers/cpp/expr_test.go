package cpp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	l := newLexer(true)

	require.Equal(t,
		[]string{"defined", "(", "A", ")", " ", "&&", " ", "B", ">=", "2"},
		l.tokenize("defined(A) && B>=2"))
	require.Equal(t, []string{"!", "C", " ", "||", "  ", "x.y"}, l.tokenize("!C ||  x.y"))
	require.Empty(t, l.tokenize(""))
}

func TestEvaluateExpression(t *testing.T) {
	l := newLexer(true)
	defs := symbolTable{
		"A": {value: "1"},
		"B": {value: "3"},
		"Z": {value: "0"},
		"F": {value: "x", arguments: "x"},
		"G": {value: "a * b", arguments: "a, b"},
	}

	tests := []struct {
		expr string
		want bool
	}{
		{"", false},
		{"0", false},
		{"1", true},
		{"A", true},
		{"Z", false},
		{"UNDEFINED", false},
		{"defined A", true},
		{"defined(B)", true},
		{"defined(Z)", true},
		{"defined ( C )", false},
		{"!A", false},
		{"!C", true},
		{"A && !C", true},
		{"A && Z", false},
		{"Z || B", true},
		{"B > 2", true},
		{"B >= 4", false},
		{"B == 3", true},
		{"B != 3", false},
		{"1 + 2 * 3 == 7", true},
		{"(1 + 1) * 0", false},
		{"((2))", true},
		{"2 - 1 - 1", false},
		{"4 / 0", true},
		{"4 % 0", false},
		{"F(0)", false},
		{"F(B)", true},
		{"G(2, B) == 6", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, l.evaluateExpression(tt.expr, defs), "%q", tt.expr)
	}
}

func TestEvaluateExpression_RecursiveMacro(t *testing.T) {
	l := newLexer(true)
	defs := symbolTable{"R": {value: "R + 1"}}

	require.NotPanics(t, func() { l.evaluateExpression("R", defs) })
}

func TestFindBracketPair(t *testing.T) {
	open, closing, ok := findBracketPair([]string{"1", "(", "(", "2", ")", ")", "(", "3", ")"})
	require.True(t, ok)
	require.Equal(t, 1, open)
	require.Equal(t, 5, closing)

	_, _, ok = findBracketPair([]string{"(", "1"})
	require.False(t, ok, "unbalanced")
}
