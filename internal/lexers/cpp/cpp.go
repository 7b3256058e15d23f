// Package cpp lexes and folds the C family: C, C++, and the C-like
// syntaxes of Java, JavaScript, C#, Go, Vala and Pike through options.
// Code in preprocessor sections that are not taken is styled with the
// inactive twin of each style.
package cpp

import (
	"strings"

	"github.com/zjrosen/stylex/internal/charset"
	"github.com/zjrosen/stylex/internal/lexer"
	"github.com/zjrosen/stylex/internal/wordlist"
)

// Lexer identifiers for the case sensitive and insensitive variants.
const (
	ID       = 3
	IDNoCase = 35
)

const (
	StyleDefault                lexer.Style = 0
	StyleComment                lexer.Style = 1
	StyleCommentLine            lexer.Style = 2
	StyleCommentDoc             lexer.Style = 3
	StyleNumber                 lexer.Style = 4
	StyleWord                   lexer.Style = 5
	StyleString                 lexer.Style = 6
	StyleCharacter              lexer.Style = 7
	StyleUUID                   lexer.Style = 8
	StylePreprocessor           lexer.Style = 9
	StyleOperator               lexer.Style = 10
	StyleIdentifier             lexer.Style = 11
	StyleStringEOL              lexer.Style = 12
	StyleVerbatim               lexer.Style = 13
	StyleRegex                  lexer.Style = 14
	StyleCommentLineDoc         lexer.Style = 15
	StyleWord2                  lexer.Style = 16
	StyleCommentDocKeyword      lexer.Style = 17
	StyleCommentDocKeywordError lexer.Style = 18
	StyleGlobalClass            lexer.Style = 19
	StyleStringRaw              lexer.Style = 20
	StyleTripleVerbatim         lexer.Style = 21
	StyleHashQuotedString       lexer.Style = 22
	StylePreprocessorComment    lexer.Style = 23
	StylePreprocessorCommentDoc lexer.Style = 24
	StyleUserLiteral            lexer.Style = 25
	StyleTaskMarker             lexer.Style = 26
	StyleEscapeSequence         lexer.Style = 27
)

// Inactive is or-ed into every style inside a preprocessor section that
// is not taken.
const Inactive lexer.Style = 0x40

// MaskActive strips the inactive flag.
func MaskActive(style lexer.Style) lexer.Style {
	return style &^ Inactive
}

var baseClasses = []lexer.LexicalClass{
	{Value: StyleDefault, Name: "SCE_C_DEFAULT", Tags: "default", Description: "White space"},
	{Value: StyleComment, Name: "SCE_C_COMMENT", Tags: "comment", Description: "Comment: /* */."},
	{Value: StyleCommentLine, Name: "SCE_C_COMMENTLINE", Tags: "comment line", Description: "Line Comment: //."},
	{Value: StyleCommentDoc, Name: "SCE_C_COMMENTDOC", Tags: "comment documentation", Description: "Doc comment: block comments beginning with /** or /*!"},
	{Value: StyleNumber, Name: "SCE_C_NUMBER", Tags: "literal numeric", Description: "Number"},
	{Value: StyleWord, Name: "SCE_C_WORD", Tags: "keyword", Description: "Keyword"},
	{Value: StyleString, Name: "SCE_C_STRING", Tags: "literal string", Description: "Double quoted string"},
	{Value: StyleCharacter, Name: "SCE_C_CHARACTER", Tags: "literal string character", Description: "Single quoted string"},
	{Value: StyleUUID, Name: "SCE_C_UUID", Tags: "literal uuid", Description: "UUIDs (only in IDL)"},
	{Value: StylePreprocessor, Name: "SCE_C_PREPROCESSOR", Tags: "preprocessor", Description: "Preprocessor"},
	{Value: StyleOperator, Name: "SCE_C_OPERATOR", Tags: "operator", Description: "Operators"},
	{Value: StyleIdentifier, Name: "SCE_C_IDENTIFIER", Tags: "identifier", Description: "Identifiers"},
	{Value: StyleStringEOL, Name: "SCE_C_STRINGEOL", Tags: "error literal string", Description: "End of line where string is not closed"},
	{Value: StyleVerbatim, Name: "SCE_C_VERBATIM", Tags: "literal string multiline raw", Description: "Verbatim strings for C#"},
	{Value: StyleRegex, Name: "SCE_C_REGEX", Tags: "literal regex", Description: "Regular expressions for JavaScript"},
	{Value: StyleCommentLineDoc, Name: "SCE_C_COMMENTLINEDOC", Tags: "comment documentation line", Description: "Doc Comment Line: line comments beginning with /// or //!."},
	{Value: StyleWord2, Name: "SCE_C_WORD2", Tags: "identifier", Description: "Keywords2"},
	{Value: StyleCommentDocKeyword, Name: "SCE_C_COMMENTDOCKEYWORD", Tags: "comment documentation keyword", Description: "Comment keyword"},
	{Value: StyleCommentDocKeywordError, Name: "SCE_C_COMMENTDOCKEYWORDERROR", Tags: "error comment documentation keyword", Description: "Comment keyword error"},
	{Value: StyleGlobalClass, Name: "SCE_C_GLOBALCLASS", Tags: "identifier", Description: "Global class"},
	{Value: StyleStringRaw, Name: "SCE_C_STRINGRAW", Tags: "literal string multiline raw", Description: "Raw strings for C++0x"},
	{Value: StyleTripleVerbatim, Name: "SCE_C_TRIPLEVERBATIM", Tags: "literal string multiline raw", Description: "Triple-quoted strings for Vala"},
	{Value: StyleHashQuotedString, Name: "SCE_C_HASHQUOTEDSTRING", Tags: "literal string", Description: "Hash-quoted strings for Pike"},
	{Value: StylePreprocessorComment, Name: "SCE_C_PREPROCESSORCOMMENT", Tags: "comment preprocessor", Description: "Preprocessor stream comment"},
	{Value: StylePreprocessorCommentDoc, Name: "SCE_C_PREPROCESSORCOMMENTDOC", Tags: "comment preprocessor documentation", Description: "Preprocessor stream doc comment"},
	{Value: StyleUserLiteral, Name: "SCE_C_USERLITERAL", Tags: "literal", Description: "User defined literals"},
	{Value: StyleTaskMarker, Name: "SCE_C_TASKMARKER", Tags: "comment taskmarker", Description: "Task Marker"},
	{Value: StyleEscapeSequence, Name: "SCE_C_ESCAPESEQUENCE", Tags: "literal string escapesequence", Description: "Escape sequence"},
}

var lexicalClasses = withInactiveClasses(baseClasses)

func withInactiveClasses(classes []lexer.LexicalClass) []lexer.LexicalClass {
	out := append([]lexer.LexicalClass(nil), classes...)
	for _, c := range classes {
		out = append(out, lexer.LexicalClass{
			Value:       c.Value | Inactive,
			Name:        c.Name + "_INACTIVE",
			Tags:        "inactive " + c.Tags,
			Description: c.Description + " in an inactive section",
		})
	}
	return out
}

// WordListDescriptions names the keyword slots.
var WordListDescriptions = []string{
	"Primary keywords and identifiers",
	"Secondary keywords and identifiers",
	"Documentation comment keywords",
	"Global classes and typedefs",
	"Preprocessor definitions",
	"Task marker and error marker keywords",
}

const (
	slotKeywords = iota
	slotKeywords2
	slotDocKeywords
	slotGlobalClasses
	slotDefinitions
	slotTaskMarkers
)

// Back quoted string modes.
const (
	backQuotedNone = iota
	backQuotedRaw
	backQuotedTemplate
)

const (
	defaultNestingLimit = 31
	maxNestingLimit     = 63
)

type options struct {
	stylingWithinPreprocessor   bool
	identifiersAllowDollars     bool
	trackPreprocessor           bool
	updatePreprocessor          bool
	verbatimStringsAllowEscapes bool
	tripleQuotedStrings         bool
	hashQuotedStrings           bool
	backQuotedStrings           int
	escapeSequence              bool
	nestingLimit                int

	fold                 bool
	foldSyntaxBased      bool
	foldComment          bool
	foldCommentMultiline bool
	foldCommentExplicit  bool
	foldExplicitStart    string
	foldExplicitEnd      string
	foldExplicitAnywhere bool
	foldPreprocessor     bool
	foldPreprocessorElse bool
	foldCompact          bool
	foldAtElse           bool
}

func (o *options) limit() int {
	return lexer.Clamp(o.nestingLimit, 1, maxNestingLimit)
}

// Lexer is the C/C++ lexer. Besides options and keywords it keeps the
// preprocessor state and raw string context of every line lexed so far,
// and the #define history, so lexing can resume at any line.
type Lexer struct {
	lexer.Base
	opts          options
	caseSensitive bool
	setWord       charset.Set
	setWordStart  charset.Set

	definitionsStart symbolTable
	defineHistory    []definition
	lines            []lineContext
}

// New returns the case sensitive C/C++ lexer.
func New() lexer.Lexer {
	return newLexer(true)
}

// NewNoCase returns the variant that matches keywords case insensitively.
func NewNoCase() lexer.Lexer {
	return newLexer(false)
}

func newLexer(caseSensitive bool) *Lexer {
	l := &Lexer{
		caseSensitive: caseSensitive,
		opts: options{
			identifiersAllowDollars: true,
			trackPreprocessor:       true,
			updatePreprocessor:      true,
			nestingLimit:            defaultNestingLimit,
			foldSyntaxBased:         true,
			foldCommentMultiline:    true,
			foldCommentExplicit:     true,
		},
		definitionsStart: symbolTable{},
	}
	o := lexer.NewOptionSet()
	o.DefineBool("styling.within.preprocessor", &l.opts.stylingWithinPreprocessor,
		"For C++ code, determines whether all preprocessor code is styled in the "+
			"preprocessor style (0, the default) or only from the initial # to the end "+
			"of the command word(1).")
	o.DefineBool("lexer.cpp.allow.dollars", &l.opts.identifiersAllowDollars,
		"Set to 0 to disallow the '$' character in identifiers with the cpp lexer.")
	o.DefineBool("lexer.cpp.track.preprocessor", &l.opts.trackPreprocessor,
		"Set to 1 to interpret #if/#else/#endif to grey out code that is not active.")
	o.DefineBool("lexer.cpp.update.preprocessor", &l.opts.updatePreprocessor,
		"Set to 1 to update preprocessor definitions when #define found.")
	o.DefineBool("lexer.cpp.verbatim.strings.allow.escapes", &l.opts.verbatimStringsAllowEscapes,
		"Set to 1 to allow verbatim strings to contain escape sequences.")
	o.DefineBool("lexer.cpp.triplequoted.strings", &l.opts.tripleQuotedStrings,
		"Set to 1 to enable highlighting of triple-quoted strings.")
	o.DefineBool("lexer.cpp.hashquoted.strings", &l.opts.hashQuotedStrings,
		"Set to 1 to enable highlighting of hash-quoted strings.")
	o.DefineInt("lexer.cpp.backquoted.strings", &l.opts.backQuotedStrings,
		"Set how to highlighting back-quoted strings. "+
			"0 (the default) no highlighting. "+
			"1 highlighted as Go raw string. "+
			"2 highlighted as JavaScript template literal.")
	o.DefineBool("lexer.cpp.escape.sequence", &l.opts.escapeSequence,
		"Set to 1 to enable highlighting of escape sequences in strings")
	o.DefineInt("lexer.cpp.preprocessor.nesting.limit", &l.opts.nestingLimit,
		"Deepest #if nesting whose sections are tracked, from 1 to 63. The default is 31.")
	o.DefineBool("fold", &l.opts.fold, "")
	o.DefineBool("fold.cpp.syntax.based", &l.opts.foldSyntaxBased,
		"Set this property to 0 to disable syntax based folding.")
	o.DefineBool("fold.comment", &l.opts.foldComment,
		"This option enables folding multi-line comments and explicit fold points when using the C++ lexer. "+
			"Explicit fold points allows adding extra folding by placing a //{ comment at the start and a //} "+
			"at the end of a section that should fold.")
	o.DefineBool("fold.cpp.comment.multiline", &l.opts.foldCommentMultiline,
		"Set this property to 0 to disable folding multi-line comments when fold.comment=1.")
	o.DefineBool("fold.cpp.comment.explicit", &l.opts.foldCommentExplicit,
		"Set this property to 0 to disable folding explicit fold points when fold.comment=1.")
	o.DefineString("fold.cpp.explicit.start", &l.opts.foldExplicitStart,
		"The string to use for explicit fold start points, replacing the standard //{.")
	o.DefineString("fold.cpp.explicit.end", &l.opts.foldExplicitEnd,
		"The string to use for explicit fold end points, replacing the standard //}.")
	o.DefineBool("fold.cpp.explicit.anywhere", &l.opts.foldExplicitAnywhere,
		"Set this property to 1 to enable explicit fold points anywhere, not just in line comments.")
	o.DefineBool("fold.cpp.preprocessor.at.else", &l.opts.foldPreprocessorElse,
		"This option enables folding on a preprocessor #else or #endif line of an #if statement.")
	o.DefineBool("fold.preprocessor", &l.opts.foldPreprocessor,
		"This option enables folding preprocessor directives when using the C++ lexer. "+
			"Includes C#'s explicit #region and #endregion folding directives.")
	o.DefineBool("fold.compact", &l.opts.foldCompact, "")
	o.DefineBool("fold.at.else", &l.opts.foldAtElse,
		"This option enables C++ folding on a \"} else {\" line of an if statement.")
	o.DefineWordListSets(WordListDescriptions)

	name, id := "cpp", ID
	if !caseSensitive {
		name, id = "cppnocase", IDNoCase
	}
	l.Base = lexer.NewBase(name, id, lexicalClasses, o)
	l.SubStyles = wordlist.NewSubStyles(
		[]int{int(StyleIdentifier), int(StyleCommentDocKeyword)}, 0x80, 0x40, int(Inactive))
	l.buildWordSets()
	return l
}

func (l *Lexer) buildWordSets() {
	l.setWord = charset.NewAfter(charset.AlphaNum, "._", true)
	l.setWordStart = charset.NewAfter(charset.Alpha, "_", true)
	if l.opts.identifiersAllowDollars {
		l.setWord.Add('$')
		l.setWordStart.Add('$')
	}
}

// PropertySet also rebuilds the identifier sets when the dollar option
// changes.
func (l *Lexer) PropertySet(key, value string) int {
	if l.Base.PropertySet(key, value) != 0 {
		return -1
	}
	if key == "lexer.cpp.allow.dollars" {
		l.buildWordSets()
	}
	return 0
}

// WordListSet replaces slot n. The case insensitive variant folds its
// keyword lists to lower case. Setting the preprocessor definitions
// rebuilds the symbols every lex starts from.
func (l *Lexer) WordListSet(n int, text string) int {
	if n < 0 || n >= len(l.WordLists) {
		return -1
	}
	if !l.WordLists[n].Set(text, !l.caseSensitive && n != slotDefinitions) {
		return -1
	}
	if n == slotDefinitions {
		l.definitionsStart = parseDefinitions(l.WordLists[n].Words())
	}
	return 0
}

func (l *Lexer) StyleFromSubStyle(subStyle lexer.Style) lexer.Style {
	base := lexer.Style(l.SubStyles.BaseStyle(int(MaskActive(subStyle))))
	return base | subStyle&Inactive
}

func (l *Lexer) PrimaryStyleFromStyle(style lexer.Style) lexer.Style {
	return MaskActive(style)
}

// NamedStyles covers the base styles or the allocated sub-styles, whichever
// reaches further, plus their inactive twins.
func (l *Lexer) NamedStyles() int {
	return max(l.SubStyles.LastAllocated()+1, len(baseClasses)) + int(Inactive)
}

func (l *Lexer) TagsOfStyle(style lexer.Style) string {
	if int(style) >= l.NamedStyles() {
		return "Excess"
	}
	if first := l.SubStyles.FirstAllocated(); first >= 0 {
		last := l.SubStyles.LastAllocated()
		s := int(style)
		inactive := s >= first+int(Inactive) && s <= last+int(Inactive)
		if (s >= first && s <= last) || inactive {
			prefix := ""
			if inactive {
				prefix = "inactive "
				s -= int(Inactive)
			}
			base := l.StyleFromSubStyle(lexer.Style(s))
			return prefix + baseClasses[base].Tags
		}
	}
	return l.Base.TagsOfStyle(style)
}

// parseDefinitions reads NAME, NAME=value and NAME(args)=value entries.
// A bare NAME is defined as 1.
func parseDefinitions(words []string) symbolTable {
	defs := symbolTable{}
	for _, word := range words {
		name, value, ok := strings.Cut(word, "=")
		if !ok {
			defs[word] = symbol{value: "1"}
			continue
		}
		open, closing := strings.IndexByte(name, '('), strings.IndexByte(name, ')')
		if open >= 0 && closing > open {
			defs[name[:open]] = symbol{value: value, arguments: name[open+1 : closing]}
			continue
		}
		defs[name] = symbol{value: value}
	}
	return defs
}
