package cpp

import (
	"slices"
	"strconv"
	"strings"

	"github.com/zjrosen/stylex/internal/charset"
	"github.com/zjrosen/stylex/internal/lexer"
)

// maxExpansions bounds macro expansion so recursive macros terminate.
const maxExpansions = 100

var (
	setAddOp     = charset.New(charset.None, "+-")
	setMultOp    = charset.New(charset.None, "*/%")
	setRelOp     = charset.New(charset.None, "=!<>")
	setLogicalOp = charset.New(charset.None, "|&")
)

func isSpaceOrTab(b byte) bool {
	return b == ' ' || b == '\t'
}

func onlySpaceOrTab(s string) bool {
	return strings.TrimLeft(s, " \t") == ""
}

// tokenize splits a preprocessor expression into words, runs of blanks,
// one or two character operators and single characters.
func (l *Lexer) tokenize(expr string) []string {
	var tokens []string
	for i := 0; i < len(expr); {
		start := i
		switch c := expr[i]; {
		case l.setWord.ContainsByte(c):
			for i < len(expr) && l.setWord.ContainsByte(expr[i]) {
				i++
			}
		case isSpaceOrTab(c):
			for i < len(expr) && isSpaceOrTab(expr[i]) {
				i++
			}
		case setRelOp.ContainsByte(c):
			i++
			if i < len(expr) && setRelOp.ContainsByte(expr[i]) {
				i++
			}
		case setLogicalOp.ContainsByte(c):
			i++
			if i < len(expr) && setLogicalOp.ContainsByte(expr[i]) {
				i++
			}
		default:
			i++
		}
		tokens = append(tokens, expr[start:i])
	}
	return tokens
}

func withoutBlanks(tokens []string) []string {
	return slices.DeleteFunc(tokens, onlySpaceOrTab)
}

// evaluateExpression reports whether an #if or #elif expression holds.
// Unknown identifiers are 0 and division by zero divides by 1.
func (l *Lexer) evaluateExpression(expr string, defs symbolTable) bool {
	tokens := l.evaluateTokens(l.tokenize(expr), defs)
	isFalse := len(tokens) == 0 || (len(tokens) == 1 && (tokens[0] == "" || tokens[0] == "0"))
	return !isFalse
}

func (l *Lexer) evaluateTokens(tokens []string, defs symbolTable) []string {
	tokens = withoutBlanks(tokens)
	tokens = evaluateDefined(tokens, defs)
	tokens = l.expandIdentifiers(tokens, defs)

	for range maxExpansions {
		open, closing, ok := findBracketPair(tokens)
		if !ok {
			break
		}
		inner := l.evaluateTokens(slices.Clone(tokens[open+1:closing]), defs)
		tokens = slices.Concat(tokens[:open], inner, tokens[closing+1:])
	}

	for j := 0; j+1 < len(tokens); {
		if tokens[j] != "!" {
			j++
			continue
		}
		value := "1"
		if lexer.Atoi(tokens[j+1]) != 0 {
			value = "0"
		}
		tokens = slices.Replace(tokens, j, j+2, value)
	}

	for _, ops := range []*charset.Set{&setMultOp, &setAddOp, &setRelOp, &setLogicalOp} {
		for k := 0; k+2 < len(tokens); {
			if tokens[k+1] == "" || !ops.ContainsByte(tokens[k+1][0]) {
				k++
				continue
			}
			result := binary(tokens[k+1], lexer.Atoi(tokens[k]), lexer.Atoi(tokens[k+2]))
			tokens = slices.Replace(tokens, k, k+3, strconv.Itoa(result))
		}
	}
	return tokens
}

// evaluateDefined replaces defined X and defined(X) with 1 or 0.
func evaluateDefined(tokens []string, defs symbolTable) []string {
	for i := 0; i+1 < len(tokens); {
		if tokens[i] != "defined" {
			i++
			continue
		}
		name := ""
		switch {
		case tokens[i+1] != "(":
			name = tokens[i+1]
			tokens = slices.Delete(tokens, i+1, i+2)
		case i+2 < len(tokens) && tokens[i+2] == ")":
			tokens = slices.Delete(tokens, i+1, i+3)
		case i+3 < len(tokens) && tokens[i+3] == ")":
			name = tokens[i+2]
			tokens = slices.Delete(tokens, i+1, i+4)
		default:
			// a stray '(' is dropped, which more likely evaluates false
			tokens = slices.Delete(tokens, i+1, i+2)
		}
		tokens[i] = "0"
		if _, ok := defs[name]; ok && name != "" {
			tokens[i] = "1"
		}
		i++
	}
	return tokens
}

// expandIdentifiers substitutes symbol values and macro invocations.
// Identifiers without a definition become 0.
func (l *Lexer) expandIdentifiers(tokens []string, defs symbolTable) []string {
	for i, iterations := 0, 0; i < len(tokens) && iterations < maxExpansions; iterations++ {
		tok := tokens[i]
		if tok == "" || !l.setWordStart.ContainsByte(tok[0]) {
			i++
			continue
		}
		sym, ok := defs[tok]
		if !ok {
			tokens[i] = "0"
			i++
			continue
		}
		expansion := withoutBlanks(l.tokenize(sym.value))
		if !sym.isMacro() {
			tokens = slices.Replace(tokens, i, i+1, expansion...)
			continue
		}
		if i+1 >= len(tokens) || tokens[i+1] != "(" {
			i++
			continue
		}
		names := strings.Split(sym.arguments, ",")
		args := map[string]string{}
		arg, end := 0, i+2
		for end < len(tokens) && arg < len(names) && tokens[end] != ")" {
			if tokens[end] != "," {
				args[strings.TrimSpace(names[arg])] = tokens[end]
				arg++
			}
			end++
		}
		for m, t := range expansion {
			if v, ok := args[t]; ok && l.setWordStart.ContainsByte(t[0]) {
				expansion[m] = v
			}
		}
		tokens = slices.Replace(tokens, i, min(end+1, len(tokens)), expansion...)
	}
	return tokens
}

// findBracketPair locates the first '(' and its matching ')'.
func findBracketPair(tokens []string) (int, int, bool) {
	open := slices.Index(tokens, "(")
	if open < 0 {
		return 0, 0, false
	}
	nest := 0
	for i := open; i < len(tokens); i++ {
		switch tokens[i] {
		case "(":
			nest++
		case ")":
			nest--
			if nest == 0 {
				return open, i, true
			}
		}
	}
	return 0, 0, false
}

func binary(op string, a, b int) int {
	truth := func(v bool) int {
		if v {
			return 1
		}
		return 0
	}
	switch op {
	case "+":
		return a + b
	case "-":
		return a - b
	case "*":
		return a * b
	case "/":
		if b == 0 {
			b = 1
		}
		return a / b
	case "%":
		if b == 0 {
			b = 1
		}
		return a % b
	case "<":
		return truth(a < b)
	case "<=":
		return truth(a <= b)
	case ">":
		return truth(a > b)
	case ">=":
		return truth(a >= b)
	case "==":
		return truth(a == b)
	case "!=":
		return truth(a != b)
	case "||":
		return truth(a != 0 || b != 0)
	case "&&":
		return truth(a != 0 && b != 0)
	}
	return 0
}
