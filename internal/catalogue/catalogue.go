// Package catalogue is the registry of language modules: what each lexer
// is called, how to create a configured instance and which files it
// handles.
package catalogue

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/zjrosen/stylex/internal/flags"
	"github.com/zjrosen/stylex/internal/lexer"
	"github.com/zjrosen/stylex/internal/log"
)

var (
	// ErrUnknownLanguage is returned for a name, id or file that no module
	// handles.
	ErrUnknownLanguage = errors.New("unknown language")
	// ErrDuplicate is returned when a name or id is registered twice.
	ErrDuplicate = errors.New("language already registered")
)

// Module describes one language.
type Module struct {
	Name    string
	ID      int
	Factory lexer.Factory
	// Keywords are the compiled-in word lists applied by New, one per slot.
	Keywords []string
	// Extensions include the leading dot.
	Extensions []string
	// Interpreters are matched against the program named by a #! line.
	Interpreters []string
	// ChromaNames are chroma lexer names this module stands in for.
	ChromaNames []string
	// Converges marks lexers that resume a line from nothing but the
	// previous line's state and the style before it. Restyling such a
	// document may stop once both match the previous pass.
	Converges   bool
	Description string
}

// New returns a fresh lexer with the default keyword lists applied.
func (m Module) New() lexer.Lexer {
	lx := m.Factory()
	for n, words := range m.Keywords {
		if words != "" {
			lx.WordListSet(n, words)
		}
	}
	return lx
}

// Property describes one lexer option.
type Property struct {
	Name        string
	Type        lexer.PropertyType
	Default     string
	Description string
}

// Properties lists the module's options in the lexer's order.
func (m Module) Properties() []Property {
	lx := m.Factory()
	var props []Property
	for name := range strings.SplitSeq(lx.PropertyNames(), "\n") {
		if name == "" {
			continue
		}
		props = append(props, Property{
			Name:        name,
			Type:        lx.PropertyType(name),
			Default:     lx.PropertyGet(name),
			Description: lx.DescribeProperty(name),
		})
	}
	return props
}

// WordListSlot describes one keyword slot.
type WordListSlot struct {
	Index       int
	Description string
	Default     string
}

// WordLists lists the module's keyword slots.
func (m Module) WordLists() []WordListSlot {
	lx := m.Factory()
	var slots []WordListSlot
	for i, desc := range strings.Split(lx.DescribeWordListSets(), "\n") {
		if desc == "" {
			continue
		}
		slot := WordListSlot{Index: i, Description: desc}
		if i < len(m.Keywords) {
			slot.Default = m.Keywords[i]
		}
		slots = append(slots, slot)
	}
	return slots
}

// Styles lists the named styles of a fresh instance.
func (m Module) Styles() []lexer.LexicalClass {
	lx := m.Factory()
	var classes []lexer.LexicalClass
	for style := range lexer.Style(lx.NamedStyles()) {
		name := lx.NameOfStyle(style)
		if name == "" {
			continue
		}
		classes = append(classes, lexer.LexicalClass{
			Value:       style,
			Name:        name,
			Tags:        lx.TagsOfStyle(style),
			Description: lx.DescriptionOfStyle(style),
		})
	}
	return classes
}

// Catalogue is a registry of modules. It is safe for concurrent use.
type Catalogue struct {
	mu         sync.RWMutex
	byName     map[string]*Module
	byID       map[int]*Module
	extensions map[string]string
	flags      *flags.Registry
	onChange   []func(language string)
}

// Option configures a Catalogue.
type Option func(*Catalogue)

// WithFlags supplies the feature flags consulted by Detect.
func WithFlags(r *flags.Registry) Option {
	return func(c *Catalogue) { c.flags = r }
}

// New returns an empty catalogue.
func New(opts ...Option) *Catalogue {
	c := &Catalogue{
		byName:     map[string]*Module{},
		byID:       map[int]*Module{},
		extensions: map[string]string{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register adds m. Names are matched case-insensitively.
func (c *Catalogue) Register(m Module) error {
	if m.Name == "" || m.Factory == nil {
		return fmt.Errorf("register %q: name and factory are required", m.Name)
	}
	key := strings.ToLower(m.Name)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byName[key]; ok {
		return fmt.Errorf("register %q: %w", m.Name, ErrDuplicate)
	}
	if other, ok := c.byID[m.ID]; ok {
		return fmt.Errorf("register %q: id %d used by %q: %w", m.Name, m.ID, other.Name, ErrDuplicate)
	}
	c.byName[key] = &m
	c.byID[m.ID] = &m
	for _, ext := range m.Extensions {
		ext = strings.ToLower(ext)
		if _, taken := c.extensions[ext]; !taken {
			c.extensions[ext] = m.Name
		}
	}
	log.Debug(log.CatCatalogue, "registered language", "name", m.Name, "id", m.ID)
	return nil
}

// MustRegister is Register that panics on error.
func (c *Catalogue) MustRegister(m Module) {
	if err := c.Register(m); err != nil {
		panic(err)
	}
}

// Lookup returns the module called name.
func (c *Catalogue) Lookup(name string) (Module, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.byName[strings.ToLower(name)]
	if !ok {
		return Module{}, fmt.Errorf("%q: %w", name, ErrUnknownLanguage)
	}
	return *m, nil
}

// LookupByID returns the module with the numeric id.
func (c *Catalogue) LookupByID(id int) (Module, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.byID[id]
	if !ok {
		return Module{}, fmt.Errorf("id %d: %w", id, ErrUnknownLanguage)
	}
	return *m, nil
}

// Names returns the registered names in sorted order.
func (c *Catalogue) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.byName))
	for _, m := range c.byName {
		names = append(names, m.Name)
	}
	slices.Sort(names)
	return names
}

// Modules returns the registered modules sorted by name.
func (c *Catalogue) Modules() []Module {
	c.mu.RLock()
	defer c.mu.RUnlock()
	mods := make([]Module, 0, len(c.byName))
	for _, key := range slices.Sorted(maps.Keys(c.byName)) {
		mods = append(mods, *c.byName[key])
	}
	return mods
}

// MapExtension routes files ending in ext to language, replacing any
// earlier mapping.
func (c *Catalogue) MapExtension(ext, language string) error {
	m, err := c.Lookup(language)
	if err != nil {
		return fmt.Errorf("map extension %q: %w", ext, err)
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	ext = strings.ToLower(ext)

	c.mu.Lock()
	previous, had := c.extensions[ext]
	c.extensions[ext] = m.Name
	hooks := slices.Clone(c.onChange)
	c.mu.Unlock()

	for _, fn := range hooks {
		if had && previous != m.Name {
			fn(previous)
		}
		fn(m.Name)
	}
	return nil
}

// ExtensionsOf returns the extensions currently routed to language, sorted.
func (c *Catalogue) ExtensionsOf(language string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var exts []string
	for ext, name := range c.extensions {
		if strings.EqualFold(name, language) {
			exts = append(exts, ext)
		}
	}
	slices.Sort(exts)
	return exts
}

// OnChange registers fn to be called with a language's name whenever the
// files routed to it change.
func (c *Catalogue) OnChange(fn func(language string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = append(c.onChange, fn)
}
