package lexer

import (
	"strings"

	"github.com/zjrosen/stylex/internal/wordlist"
)

// Lexer is one language's lexer and folder. An instance holds options,
// keyword lists and any per-document state, so it must be used by one
// goroutine at a time and for one document only.
type Lexer interface {
	Name() string
	ID() int

	PropertyNames() string
	PropertyType(name string) PropertyType
	DescribeProperty(name string) string
	// PropertySet returns 0 when a known property changed and -1 otherwise.
	PropertySet(key, value string) int
	PropertyGet(key string) string

	DescribeWordListSets() string
	// WordListSet replaces keyword slot n and returns the first position
	// whose styling may change, or -1 when nothing changed.
	WordListSet(n int, text string) int

	Lex(startPos, length int, initStyle Style, doc Document)
	Fold(startPos, length int, initStyle Style, doc Document)

	AllocateSubStyles(styleBase Style, numberStyles int) int
	SubStylesStart(styleBase Style) int
	SubStylesLength(styleBase Style) int
	StyleFromSubStyle(subStyle Style) Style
	PrimaryStyleFromStyle(style Style) Style
	FreeSubStyles()
	SetIdentifiers(style Style, identifiers string)
	DistanceToSecondaryStyles() int
	SubStyleBases() string

	NamedStyles() int
	NameOfStyle(style Style) string
	TagsOfStyle(style Style) string
	DescriptionOfStyle(style Style) string
}

// Factory creates a fresh lexer instance.
type Factory func() Lexer

// Base implements the parts of Lexer that only depend on tables: metadata,
// properties, keyword slots and sub-styles. Language lexers embed it and
// add Lex and Fold.
type Base struct {
	name      string
	id        int
	classes   []LexicalClass
	Options   *OptionSet
	WordLists []*wordlist.List
	SubStyles *wordlist.SubStyles
}

// NewBase builds a Base with one keyword list per described slot.
func NewBase(name string, id int, classes []LexicalClass, options *OptionSet) Base {
	b := Base{name: name, id: id, classes: classes, Options: options}
	for range options.WordListDescriptions() {
		b.WordLists = append(b.WordLists, wordlist.New())
	}
	return b
}

func (b *Base) Name() string { return b.name }
func (b *Base) ID() int      { return b.id }

func (b *Base) PropertyNames() string                 { return b.Options.PropertyNames() }
func (b *Base) PropertyType(name string) PropertyType { return b.Options.PropertyType(name) }
func (b *Base) DescribeProperty(name string) string   { return b.Options.DescribeProperty(name) }
func (b *Base) PropertyGet(key string) string         { return b.Options.PropertyGet(key) }
func (b *Base) DescribeWordListSets() string          { return b.Options.DescribeWordListSets() }

func (b *Base) PropertySet(key, value string) int {
	if b.Options.PropertySet(key, value) {
		return 0
	}
	return -1
}

// WordListSet replaces slot n with the words of text.
func (b *Base) WordListSet(n int, text string) int {
	if n < 0 || n >= len(b.WordLists) {
		return -1
	}
	if b.WordLists[n].Set(text, false) {
		return 0
	}
	return -1
}

// WordList returns slot n, or an empty list for a slot that does not exist.
func (b *Base) WordList(n int) *wordlist.List {
	if n < 0 || n >= len(b.WordLists) {
		return wordlist.New()
	}
	return b.WordLists[n]
}

// Classes returns the lexical class table.
func (b *Base) Classes() []LexicalClass {
	return b.classes
}

func (b *Base) AllocateSubStyles(styleBase Style, numberStyles int) int {
	if b.SubStyles == nil {
		return -1
	}
	return b.SubStyles.Allocate(int(styleBase), numberStyles)
}

func (b *Base) SubStylesStart(styleBase Style) int {
	if b.SubStyles == nil {
		return -1
	}
	return b.SubStyles.Start(int(styleBase))
}

func (b *Base) SubStylesLength(styleBase Style) int {
	if b.SubStyles == nil {
		return 0
	}
	return b.SubStyles.Length(int(styleBase))
}

func (b *Base) StyleFromSubStyle(subStyle Style) Style {
	if b.SubStyles == nil {
		return subStyle
	}
	return Style(b.SubStyles.BaseStyle(int(subStyle)))
}

func (b *Base) PrimaryStyleFromStyle(style Style) Style {
	return style
}

func (b *Base) FreeSubStyles() {
	if b.SubStyles != nil {
		b.SubStyles.Free()
	}
}

func (b *Base) SetIdentifiers(style Style, identifiers string) {
	if b.SubStyles != nil {
		b.SubStyles.SetIdentifiers(int(style), identifiers)
	}
}

func (b *Base) DistanceToSecondaryStyles() int {
	if b.SubStyles == nil {
		return 0
	}
	return b.SubStyles.DistanceToSecondaryStyles()
}

// SubStyleBases returns the base styles accepting sub-styles as bytes.
func (b *Base) SubStyleBases() string {
	if b.SubStyles == nil {
		return ""
	}
	var sb strings.Builder
	for _, base := range b.SubStyles.Bases() {
		sb.WriteByte(byte(base))
	}
	return sb.String()
}

// NamedStyles is one past the highest style with a name.
func (b *Base) NamedStyles() int {
	n := 0
	for _, c := range b.classes {
		if int(c.Value)+1 > n {
			n = int(c.Value) + 1
		}
	}
	if b.SubStyles != nil && b.SubStyles.LastAllocated()+1 > n {
		n = b.SubStyles.LastAllocated() + 1
	}
	return n
}

func (b *Base) class(style Style) (LexicalClass, bool) {
	for _, c := range b.classes {
		if c.Value == style {
			return c, true
		}
	}
	return LexicalClass{}, false
}

func (b *Base) NameOfStyle(style Style) string {
	c, _ := b.class(style)
	return c.Name
}

func (b *Base) TagsOfStyle(style Style) string {
	c, _ := b.class(style)
	return c.Tags
}

func (b *Base) DescriptionOfStyle(style Style) string {
	c, _ := b.class(style)
	return c.Description
}
