package presentation

import (
	"github.com/zjrosen/stylex/internal/catalogue"
	"github.com/zjrosen/stylex/internal/pubsub"
	"github.com/zjrosen/stylex/internal/render"
	"github.com/zjrosen/stylex/internal/session"
)

// TokenDTO represents one styled run for presentation
type TokenDTO struct {
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Pos    int    `json:"pos"`
	Length int    `json:"length"`
	Style  int    `json:"style"`
	Name   string `json:"name"`
	Tags   string `json:"tags,omitempty"`
	Text   string `json:"text"`
}

// FromToken converts a render token to a DTO.
func FromToken(t render.Token) TokenDTO {
	return TokenDTO{
		Line:   t.Line,
		Column: t.Column,
		Pos:    t.Pos,
		Length: t.Length,
		Style:  int(t.Style),
		Name:   t.Name,
		Tags:   t.Tags,
		Text:   t.Text,
	}
}

// FoldDTO represents the fold level of one line
type FoldDTO struct {
	Line   int  `json:"line"`
	Level  int  `json:"level"`
	Depth  int  `json:"depth"`
	Header bool `json:"header"`
	White  bool `json:"white"`
	Next   *int `json:"next,omitempty"` // only for folders that pack the next level
}

// FromFoldLine converts a fold line to a DTO. Lines are 1-based in output.
func FromFoldLine(f render.FoldLine) FoldDTO {
	dto := FoldDTO{
		Line:   f.Line + 1,
		Level:  int(f.Level),
		Depth:  f.Depth,
		Header: f.Header,
		White:  f.White,
	}
	if f.Next >= 0 {
		next := f.Next
		dto.Next = &next
	}
	return dto
}

// LanguageDTO represents a catalogue module for presentation
type LanguageDTO struct {
	Name        string        `json:"name"`
	ID          int           `json:"id"`
	Description string        `json:"description,omitempty"`
	Extensions  []string      `json:"extensions"`
	Converges   bool          `json:"converges"`
	Properties  []PropertyDTO `json:"properties,omitempty"`
	WordLists   []WordListDTO `json:"word_lists,omitempty"`
	Styles      []StyleDTO    `json:"styles,omitempty"`
}

// PropertyDTO represents one lexer property
type PropertyDTO struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Default     string `json:"default"`
	Description string `json:"description,omitempty"`
}

// WordListDTO represents one keyword slot
type WordListDTO struct {
	Slot        int    `json:"slot"`
	Description string `json:"description"`
	Default     string `json:"default,omitempty"`
}

// StyleDTO represents one named style
type StyleDTO struct {
	Value       int    `json:"value"`
	Name        string `json:"name"`
	Tags        string `json:"tags"`
	Description string `json:"description,omitempty"`
}

// FromModule converts a module to a DTO. With detail set the properties,
// word lists and styles are included.
func FromModule(m catalogue.Module, detail bool) LanguageDTO {
	dto := LanguageDTO{
		Name:        m.Name,
		ID:          m.ID,
		Description: m.Description,
		Extensions:  append([]string{}, m.Extensions...),
		Converges:   m.Converges,
	}
	if !detail {
		return dto
	}
	for _, p := range m.Properties() {
		dto.Properties = append(dto.Properties, PropertyDTO{
			Name:        p.Name,
			Type:        p.Type.String(),
			Default:     p.Default,
			Description: p.Description,
		})
	}
	for _, wl := range m.WordLists() {
		dto.WordLists = append(dto.WordLists, WordListDTO{
			Slot:        wl.Index,
			Description: wl.Description,
			Default:     wl.Default,
		})
	}
	for _, s := range m.Styles() {
		dto.Styles = append(dto.Styles, StyleDTO{
			Value:       int(s.Value),
			Name:        s.Name,
			Tags:        s.Tags,
			Description: s.Description,
		})
	}
	return dto
}

// RestyleDTO represents a session event for presentation
type RestyleDTO struct {
	Event      string `json:"event"`
	DocumentID string `json:"document_id"`
	Language   string `json:"language"`
	Version    uint64 `json:"version"`
	// Lines are 1-based; zero when the event restyled nothing.
	FirstLine int  `json:"first_line,omitempty"`
	LastLine  int  `json:"last_line,omitempty"`
	Converged bool `json:"converged,omitempty"`
}

// FromEvent converts a session event to a DTO.
func FromEvent(e pubsub.Event[session.Restyle]) RestyleDTO {
	return RestyleDTO{
		Event:      string(e.Type),
		DocumentID: e.Payload.DocumentID,
		Language:   e.Payload.Language,
		Version:    e.Payload.Version,
		FirstLine:  e.Payload.FirstLine + 1,
		LastLine:   e.Payload.LastLine + 1,
		Converged:  e.Payload.Converged,
	}
}
