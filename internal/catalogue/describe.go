package catalogue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zjrosen/stylex/internal/cachemanager"
	"github.com/zjrosen/stylex/internal/log"
)

// Markdown documents a module: its options, keyword slots and styles.
func Markdown(m Module) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", m.Name)
	if m.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", m.Description)
	}
	fmt.Fprintf(&b, "Lexer id: `%d`", m.ID)
	if len(m.Extensions) > 0 {
		fmt.Fprintf(&b, " · files: `%s`", strings.Join(m.Extensions, "` `"))
	}
	b.WriteString("\n\n")

	if props := m.Properties(); len(props) > 0 {
		b.WriteString("## Properties\n\n| Name | Type | Default | Description |\n|---|---|---|---|\n")
		for _, p := range props {
			fmt.Fprintf(&b, "| `%s` | %s | `%s` | %s |\n", p.Name, p.Type, p.Default, cell(p.Description))
		}
		b.WriteString("\n")
	}

	if slots := m.WordLists(); len(slots) > 0 {
		b.WriteString("## Keyword lists\n\n")
		for _, s := range slots {
			fmt.Fprintf(&b, "%d. %s", s.Index, s.Description)
			if n := len(strings.Fields(s.Default)); n > 0 {
				fmt.Fprintf(&b, " (%d default words)", n)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("## Styles\n\n| Style | Name | Tags | Description |\n|---|---|---|---|\n")
	for _, c := range m.Styles() {
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", c.Value, c.Name, c.Tags, cell(c.Description))
	}
	return b.String()
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

// Describer caches the Markdown of each module.
type Describer struct {
	catalogue *Catalogue
	cache     *cachemanager.ReadThroughCache[string, string, Module]
	ttl       time.Duration
}

// NewDescriber caches descriptions for ttl.
func NewDescriber(c *Catalogue, ttl time.Duration) *Describer {
	store := cachemanager.NewInMemoryCacheManager[string, string]("describe", ttl, cachemanager.DefaultCleanupInterval)
	d := &Describer{catalogue: c, ttl: ttl}
	d.cache = cachemanager.NewReadThroughCache[string, string, Module](store,
		func(_ context.Context, m Module) (string, error) {
			log.Debug(log.CatCatalogue, "rendering description", "language", m.Name)
			return Markdown(m), nil
		}, false)
	c.OnChange(func(language string) {
		if err := d.cache.Invalidate(context.Background(), language); err != nil {
			log.Warn(log.CatCatalogue, "dropping cached description", "language", language, "error", err)
		}
	})
	return d
}

// Describe returns the Markdown for the named language.
func (d *Describer) Describe(ctx context.Context, name string) (string, error) {
	m, err := d.catalogue.Lookup(name)
	if err != nil {
		return "", err
	}
	m.Extensions = d.catalogue.ExtensionsOf(m.Name)
	return d.cache.GetWithRefresh(ctx, m.Name, m, d.ttl)
}
