package catalogue

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/mattn/go-shellwords"

	"github.com/zjrosen/stylex/internal/flags"
	"github.com/zjrosen/stylex/internal/log"
)

// Detect picks the module for a file from its extension, then from a #!
// line, then, with the chroma-detect flag on, from chroma's filename
// patterns.
func (c *Catalogue) Detect(path, firstLine string) (Module, error) {
	if m, ok := c.byExtension(path); ok {
		return m, nil
	}
	if interpreter := Interpreter(firstLine); interpreter != "" {
		if m, ok := c.byInterpreter(interpreter); ok {
			return m, nil
		}
	}
	if c.flags.Enabled(flags.FlagChromaDetect) {
		if m, ok := c.byChroma(path); ok {
			return m, nil
		}
	}
	return Module{}, fmt.Errorf("detect %q: %w", path, ErrUnknownLanguage)
}

func (c *Catalogue) byExtension(path string) (Module, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return Module{}, false
	}
	c.mu.RLock()
	name, ok := c.extensions[ext]
	c.mu.RUnlock()
	if !ok {
		return Module{}, false
	}
	m, err := c.Lookup(name)
	return m, err == nil
}

func (c *Catalogue) byInterpreter(interpreter string) (Module, bool) {
	for _, m := range c.Modules() {
		for _, want := range m.Interpreters {
			if interpreter == want || versioned(interpreter, want) {
				return m, true
			}
		}
	}
	return Module{}, false
}

// versioned matches names such as lua5.4 or julia-1.10 against lua or julia.
func versioned(interpreter, want string) bool {
	rest, ok := strings.CutPrefix(interpreter, want)
	if !ok || rest == "" {
		return false
	}
	return strings.Trim(rest, "0123456789.-") == ""
}

func (c *Catalogue) byChroma(path string) (Module, bool) {
	cl := lexers.Match(filepath.Base(path))
	if cl == nil {
		return Module{}, false
	}
	name := cl.Config().Name
	for _, m := range c.Modules() {
		if slices.Contains(m.ChromaNames, name) {
			log.Debug(log.CatCatalogue, "detected through chroma", "path", path, "chroma", name, "language", m.Name)
			return m, true
		}
	}
	log.Debug(log.CatCatalogue, "chroma language has no lexer", "path", path, "chroma", name)
	return Module{}, false
}

// Interpreter returns the program a #! line runs, looking through env.
func Interpreter(firstLine string) string {
	rest, ok := strings.CutPrefix(strings.TrimSpace(firstLine), "#!")
	if !ok {
		return ""
	}
	words, err := shellwords.Parse(rest)
	if err != nil || len(words) == 0 {
		return ""
	}
	program := filepath.Base(words[0])
	if program != "env" {
		return program
	}
	for _, w := range words[1:] {
		if strings.HasPrefix(w, "-") || strings.Contains(w, "=") {
			continue
		}
		return filepath.Base(w)
	}
	return ""
}
