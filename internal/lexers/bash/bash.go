// Package bash lexes shell scripts: command words and keywords, nested
// quoting, parameter and command substitution, arithmetic and here
// documents.
package bash

import (
	"github.com/zjrosen/stylex/internal/charset"
	"github.com/zjrosen/stylex/internal/lexer"
	"github.com/zjrosen/stylex/internal/wordlist"
)

// ID is the numeric lexer identifier.
const ID = 62

const (
	StyleDefault     lexer.Style = 0
	StyleError       lexer.Style = 1
	StyleCommentLine lexer.Style = 2
	StyleNumber      lexer.Style = 3
	StyleWord        lexer.Style = 4
	StyleString      lexer.Style = 5
	StyleCharacter   lexer.Style = 6
	StyleOperator    lexer.Style = 7
	StyleIdentifier  lexer.Style = 8
	StyleScalar      lexer.Style = 9
	StyleParam       lexer.Style = 10
	StyleBackticks   lexer.Style = 11
	StyleHereDelim   lexer.Style = 12
	StyleHereQ       lexer.Style = 13
)

// insideCommand is or-ed into every style lexed inside a tracked $()
// command substitution.
const insideCommand lexer.Style = 0x40

func maskCommand(style lexer.Style) lexer.Style {
	return style &^ insideCommand
}

var baseClasses = []lexer.LexicalClass{
	{Value: StyleDefault, Name: "SCE_SH_DEFAULT", Tags: "default", Description: "White space"},
	{Value: StyleError, Name: "SCE_SH_ERROR", Tags: "error", Description: "Error"},
	{Value: StyleCommentLine, Name: "SCE_SH_COMMENTLINE", Tags: "comment line", Description: "Line comment: #"},
	{Value: StyleNumber, Name: "SCE_SH_NUMBER", Tags: "literal numeric", Description: "Number"},
	{Value: StyleWord, Name: "SCE_SH_WORD", Tags: "keyword", Description: "Keyword"},
	{Value: StyleString, Name: "SCE_SH_STRING", Tags: "literal string", Description: "String"},
	{Value: StyleCharacter, Name: "SCE_SH_CHARACTER", Tags: "literal string", Description: "Single quoted string"},
	{Value: StyleOperator, Name: "SCE_SH_OPERATOR", Tags: "operator", Description: "Operators"},
	{Value: StyleIdentifier, Name: "SCE_SH_IDENTIFIER", Tags: "identifier", Description: "Identifiers"},
	{Value: StyleScalar, Name: "SCE_SH_SCALAR", Tags: "identifier", Description: "Scalar variable"},
	{Value: StyleParam, Name: "SCE_SH_PARAM", Tags: "identifier", Description: "Parameter"},
	{Value: StyleBackticks, Name: "SCE_SH_BACKTICKS", Tags: "literal string", Description: "Backtick quoted command"},
	{Value: StyleHereDelim, Name: "SCE_SH_HERE_DELIM", Tags: "operator", Description: "Heredoc delimiter"},
	{Value: StyleHereQ, Name: "SCE_SH_HERE_Q", Tags: "here-doc literal string", Description: "Heredoc quoted string"},
}

var lexicalClasses = withCommandClasses(baseClasses)

// withCommandClasses appends the inside-command twin of every class.
func withCommandClasses(classes []lexer.LexicalClass) []lexer.LexicalClass {
	out := append([]lexer.LexicalClass(nil), classes...)
	for _, c := range classes {
		out = append(out, lexer.LexicalClass{
			Value:       c.Value | insideCommand,
			Name:        c.Name + "_COMMAND",
			Tags:        c.Tags + " command-substitution",
			Description: c.Description + " inside command substitution",
		})
	}
	return out
}

// WordListDescriptions names the keyword slots.
var WordListDescriptions = []string{
	"Keywords",
}

const (
	defaultSpecialParameter = "*@#?-$!"
	defaultNestingLimit     = 7
	maxNestingLimit         = 64
)

type options struct {
	fold                   bool
	foldComment            bool
	foldCompact            bool
	stylingInsideString    bool
	stylingInsideBackticks bool
	stylingInsideParameter bool
	stylingInsideHeredoc   bool
	nestedBackticks        bool
	commandSubstitution    int
	specialParameter       string
	nestingLimit           int
}

// stylingInside reports whether expansions inside style are highlighted.
func (o *options) stylingInside(style lexer.Style) bool {
	switch style {
	case StyleString:
		return o.stylingInsideString
	case StyleBackticks:
		return o.stylingInsideBackticks
	case StyleParam:
		return o.stylingInsideParameter
	case StyleHereQ:
		return o.stylingInsideHeredoc
	}
	return false
}

// Lexer is the Bash lexer.
type Lexer struct {
	lexer.Base
	opts       options
	paramStart charset.Set
}

// New returns a Bash lexer with default options.
func New() lexer.Lexer {
	l := &Lexer{opts: options{
		foldCompact:      true,
		nestedBackticks:  true,
		specialParameter: defaultSpecialParameter,
		nestingLimit:     defaultNestingLimit,
	}}
	o := lexer.NewOptionSet()
	o.DefineBool("fold", &l.opts.fold, "")
	o.DefineBool("fold.comment", &l.opts.foldComment, "")
	o.DefineBool("fold.compact", &l.opts.foldCompact, "")
	o.DefineBool("lexer.bash.styling.inside.string", &l.opts.stylingInsideString,
		"Set this property to 1 to highlight shell expansions inside string.")
	o.DefineBool("lexer.bash.styling.inside.backticks", &l.opts.stylingInsideBackticks,
		"Set this property to 1 to highlight shell expansions inside backticks.")
	o.DefineBool("lexer.bash.styling.inside.parameter", &l.opts.stylingInsideParameter,
		"Set this property to 1 to highlight shell expansions inside ${} parameter expansion.")
	o.DefineBool("lexer.bash.styling.inside.heredoc", &l.opts.stylingInsideHeredoc,
		"Set this property to 1 to highlight shell expansions inside here document.")
	o.DefineInt("lexer.bash.command.substitution", &l.opts.commandSubstitution,
		"Set how to highlight $() command substitution. "+
			"0 (the default) highlighted as backticks. "+
			"1 highlighted inside. "+
			"2 highlighted inside with extra scope tracking.")
	o.DefineBool("lexer.bash.nested.backticks", &l.opts.nestedBackticks,
		"Set this property to 0 to disable nested backquoted command substitution.")
	o.DefineString("lexer.bash.special.parameter", &l.opts.specialParameter,
		"Set shell (default is Bash) special parameters.")
	o.DefineInt("lexer.bash.nesting.limit", &l.opts.nestingLimit,
		"Maximum depth of nested quotes and substitutions, from 1 to 64. The default is 7.")
	o.DefineWordListSets(WordListDescriptions)
	l.Base = lexer.NewBase("bash", ID, lexicalClasses, o)
	l.SubStyles = wordlist.NewSubStyles([]int{int(StyleIdentifier), int(StyleScalar)}, 0x80, 0x40, 0)
	l.paramStart = newParamStart(defaultSpecialParameter)
	return l
}

// PropertySet also rebuilds the scalar start set when the special
// parameters change.
func (l *Lexer) PropertySet(key, value string) int {
	if l.Base.PropertySet(key, value) != 0 {
		return -1
	}
	if key == "lexer.bash.special.parameter" {
		l.paramStart = newParamStart(l.opts.specialParameter)
	}
	return 0
}

func newParamStart(special string) charset.Set {
	if special == "" {
		special = defaultSpecialParameter
	}
	return charset.New(charset.AlphaNum, "_"+special)
}

func fixedList(words string) *wordlist.List {
	l := wordlist.New()
	l.Set(words, false)
	return l
}

var (
	cmdDelimiters = fixedList("| || |& & && ; ;; ( ) { }")
	bashStruct    = fixedList("if elif fi while until else then do done esac eval")
	bashStructIn  = fixedList("for case select")
	testOperator  = fixedList("eq ge gt le lt ne ef nt ot")
)

// Shell words may contain + and - as well as dots.
var (
	setWordStart     = charset.New(charset.Alpha, "_")
	setWord          = charset.New(charset.AlphaNum, "._+-")
	setMetaCharacter = charset.New(charset.None, "|&;()<> \t\r\n\x00")
	setBashOperator  = charset.New(charset.None, "^&%()-+=|{}[]:;>,*/<?!.~@")
	setSingleCharOp  = charset.New(charset.None, "rwxoRWXOezsfdlpSbctugkTBMACahGLNn")
	setParam         = charset.New(charset.AlphaNum, "_")
	setHereDoc       = charset.New(charset.Alpha, "_\\-+!%*,./:?@[]^`{}~")
	setHereDoc2      = charset.New(charset.AlphaNum, "_-+!%*,./:=?@[]^`{}~")
	setLeftShift     = charset.New(charset.Digits, "$")
)

// isTestOperator reports whether word, including its leading '-', is a
// file test or comparison operator.
func isTestOperator(word string) bool {
	if len(word) == 2 && setSingleCharOp.ContainsByte(word[1]) {
		return true
	}
	return testOperator.InList(word[1:])
}
