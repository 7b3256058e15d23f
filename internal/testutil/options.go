package testutil

// docConfig holds everything applied to a lexer and buffer before lexing.
type docConfig struct {
	codePage   int
	properties [][2]string
	keywords   map[int]string
	subStyles  []subStyleData
}

type subStyleData struct {
	base        int
	identifiers []string
}

// DocOption configures a lexed document during builder setup.
type DocOption func(*docConfig)

// Property sets a lexer property before lexing.
func Property(key, value string) DocOption {
	return func(c *docConfig) { c.properties = append(c.properties, [2]string{key, value}) }
}

// Keywords fills keyword slot n.
func Keywords(n int, words string) DocOption {
	return func(c *docConfig) {
		if c.keywords == nil {
			c.keywords = map[int]string{}
		}
		c.keywords[n] = words
	}
}

// CodePage sets the buffer's code page. The default is UTF-8.
func CodePage(cp int) DocOption {
	return func(c *docConfig) { c.codePage = cp }
}

// SubStyles allocates one sub-style of base per identifier list.
func SubStyles(base int, identifiers ...string) DocOption {
	return func(c *docConfig) {
		c.subStyles = append(c.subStyles, subStyleData{base: base, identifiers: identifiers})
	}
}
