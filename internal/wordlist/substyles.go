package wordlist

import "strings"

// Classifier maps identifiers to one of a block of allocated sub-styles of a
// base style. ValueFor returns -1 for identifiers it does not know.
type Classifier struct {
	baseStyle  int
	firstStyle int
	lenStyles  int
	wordStyle  map[string]int
}

func newClassifier(baseStyle int) *Classifier {
	return &Classifier{baseStyle: baseStyle, wordStyle: map[string]int{}}
}

func (c *Classifier) allocate(firstStyle, lenStyles int) {
	c.firstStyle = firstStyle
	c.lenStyles = lenStyles
	clear(c.wordStyle)
}

func (c *Classifier) clear() {
	c.firstStyle = 0
	c.lenStyles = 0
	clear(c.wordStyle)
}

func (c *Classifier) Base() int   { return c.baseStyle }
func (c *Classifier) Start() int  { return c.firstStyle }
func (c *Classifier) Length() int { return c.lenStyles }

// ValueFor returns the sub-style assigned to word, or -1.
func (c *Classifier) ValueFor(word string) int {
	if style, ok := c.wordStyle[word]; ok {
		return style
	}
	return -1
}

// IncludesStyle reports whether style lies within the allocated block.
func (c *Classifier) IncludesStyle(style int) bool {
	return style >= c.firstStyle && style < c.firstStyle+c.lenStyles
}

func (c *Classifier) removeStyle(style int) {
	for word, s := range c.wordStyle {
		if s == style {
			delete(c.wordStyle, word)
		}
	}
}

func (c *Classifier) setIdentifiers(style int, identifiers string) {
	c.removeStyle(style)
	for _, word := range strings.Fields(identifiers) {
		c.wordStyle[word] = style
	}
}

// SubStyles manages the sub-style blocks of a lexer. Each base style that
// supports sub-styles owns one Classifier. Allocation hands out consecutive
// style numbers starting at styleFirst until stylesAvailable runs out.
type SubStyles struct {
	baseStyles      []int
	styleFirst      int
	stylesAvailable int
	secondaryDist   int
	allocated       int
	classifiers     []*Classifier
}

// NewSubStyles creates the sub-style table for the given base styles.
func NewSubStyles(baseStyles []int, styleFirst, stylesAvailable, secondaryDistance int) *SubStyles {
	s := &SubStyles{
		baseStyles:      baseStyles,
		styleFirst:      styleFirst,
		stylesAvailable: stylesAvailable,
		secondaryDist:   secondaryDistance,
	}
	for _, base := range baseStyles {
		s.classifiers = append(s.classifiers, newClassifier(base))
	}
	return s
}

func (s *SubStyles) blockFromBaseStyle(baseStyle int) int {
	for i, base := range s.baseStyles {
		if base == baseStyle {
			return i
		}
	}
	return -1
}

func (s *SubStyles) blockFromStyle(style int) int {
	for i, c := range s.classifiers {
		if c.IncludesStyle(style) {
			return i
		}
	}
	return -1
}

// Allocate reserves numberStyles sub-styles for styleBase and returns the
// first one, or -1 when styleBase has no sub-styles or space has run out.
func (s *SubStyles) Allocate(styleBase, numberStyles int) int {
	block := s.blockFromBaseStyle(styleBase)
	if block < 0 || numberStyles <= 0 {
		return -1
	}
	if s.allocated+numberStyles > s.stylesAvailable {
		return -1
	}
	startBlock := s.styleFirst + s.allocated
	s.allocated += numberStyles
	s.classifiers[block].allocate(startBlock, numberStyles)
	return startBlock
}

// Start returns the first sub-style of styleBase or -1.
func (s *SubStyles) Start(styleBase int) int {
	if block := s.blockFromBaseStyle(styleBase); block >= 0 {
		return s.classifiers[block].Start()
	}
	return -1
}

// Length returns the number of sub-styles allocated to styleBase.
func (s *SubStyles) Length(styleBase int) int {
	if block := s.blockFromBaseStyle(styleBase); block >= 0 {
		return s.classifiers[block].Length()
	}
	return 0
}

// BaseStyle maps a sub-style back to its base style. Other styles are
// returned unchanged.
func (s *SubStyles) BaseStyle(subStyle int) int {
	if block := s.blockFromStyle(subStyle); block >= 0 {
		return s.classifiers[block].Base()
	}
	return subStyle
}

func (s *SubStyles) DistanceToSecondaryStyles() int {
	return s.secondaryDist
}

// FirstAllocated returns the lowest allocated sub-style or -1.
func (s *SubStyles) FirstAllocated() int {
	start := 257
	for _, c := range s.classifiers {
		if c.Length() > 0 && c.Start() < start {
			start = c.Start()
		}
	}
	if start < 256 {
		return start
	}
	return -1
}

// LastAllocated returns the highest allocated sub-style or -1.
func (s *SubStyles) LastAllocated() int {
	last := -1
	for _, c := range s.classifiers {
		if c.Length() > 0 && last < c.Start()+c.Length()-1 {
			last = c.Start() + c.Length() - 1
		}
	}
	return last
}

// SetIdentifiers assigns the whitespace separated identifiers to style,
// replacing whatever that style held before.
func (s *SubStyles) SetIdentifiers(style int, identifiers string) {
	if block := s.blockFromStyle(style); block >= 0 {
		s.classifiers[block].setIdentifiers(style, identifiers)
	}
}

// Free releases every allocation.
func (s *SubStyles) Free() {
	s.allocated = 0
	for _, c := range s.classifiers {
		c.clear()
	}
}

// Classifier returns the classifier for baseStyle, falling back to the first.
func (s *SubStyles) Classifier(baseStyle int) *Classifier {
	if block := s.blockFromBaseStyle(baseStyle); block >= 0 {
		return s.classifiers[block]
	}
	return s.classifiers[0]
}

// Bases returns the base styles that accept sub-styles.
func (s *SubStyles) Bases() []int {
	return s.baseStyles
}
