package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// FormatTokens formats a list of tokens as JSON
func (f *Formatter) FormatTokens(tokens []TokenDTO) error {
	return f.encode(tokens)
}

// FormatFolds formats per-line fold levels as JSON
func (f *Formatter) FormatFolds(folds []FoldDTO) error {
	return f.encode(folds)
}

// FormatLanguages formats a list of languages as JSON
func (f *Formatter) FormatLanguages(languages []LanguageDTO) error {
	return f.encode(languages)
}

// FormatLanguage formats the detail of one language as JSON
func (f *Formatter) FormatLanguage(language LanguageDTO) error {
	return f.encode(language)
}

// FormatEvent writes one event as a single JSON line.
func (f *Formatter) FormatEvent(event RestyleDTO) error {
	return json.NewEncoder(f.writer).Encode(event)
}

// FormatEventText writes one event as a line: version, event type and the
// restyled line range.
func (f *Formatter) FormatEventText(event RestyleDTO) error {
	line := fmt.Sprintf("v%d  %s", event.Version, event.Event)
	switch {
	case event.FirstLine == 0:
		line += "  no lines"
	case event.FirstLine == event.LastLine:
		line += fmt.Sprintf("  line %d", event.FirstLine)
	default:
		line += fmt.Sprintf("  lines %d-%d", event.FirstLine, event.LastLine)
	}
	if event.Converged {
		line += "  converged"
	}
	_, err := fmt.Fprintln(f.writer, line)
	return err
}

// FormatTokensText writes tokens as aligned columns:
// position, style name and quoted text.
func (f *Formatter) FormatTokensText(tokens []TokenDTO) error {
	posWidth, nameWidth := 0, 0
	for _, t := range tokens {
		posWidth = max(posWidth, len(position(t)))
		nameWidth = max(nameWidth, runewidth.StringWidth(t.Name))
	}
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(runewidth.FillRight(position(t), posWidth))
		sb.WriteString("  ")
		sb.WriteString(runewidth.FillRight(t.Name, nameWidth))
		sb.WriteString("  ")
		sb.WriteString(strconv.Quote(t.Text))
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(f.writer, sb.String())
	return err
}

func position(t TokenDTO) string {
	return fmt.Sprintf("%d:%d", t.Line, t.Column)
}

// FormatFoldsText writes one line per document line: line number, depth,
// flags (H header, W white) and the packed next level when present.
func (f *Formatter) FormatFoldsText(folds []FoldDTO) error {
	width := len(strconv.Itoa(len(folds)))
	var sb strings.Builder
	for _, fl := range folds {
		flags := ""
		if fl.Header {
			flags += "H"
		}
		if fl.White {
			flags += "W"
		}
		line := fmt.Sprintf("%s  %3d  %-2s", runewidth.FillLeft(strconv.Itoa(fl.Line), width), fl.Depth, flags)
		if fl.Next != nil {
			line += fmt.Sprintf("  next=%d", *fl.Next)
		}
		sb.WriteString(strings.TrimRight(line, " "))
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(f.writer, sb.String())
	return err
}

// FormatLanguagesText writes one language per line: name, extensions and
// description.
func (f *Formatter) FormatLanguagesText(languages []LanguageDTO) error {
	nameWidth, extWidth := 0, 0
	for _, l := range languages {
		nameWidth = max(nameWidth, runewidth.StringWidth(l.Name))
		extWidth = max(extWidth, runewidth.StringWidth(strings.Join(l.Extensions, " ")))
	}
	var sb strings.Builder
	for _, l := range languages {
		line := runewidth.FillRight(l.Name, nameWidth) + "  " +
			runewidth.FillRight(strings.Join(l.Extensions, " "), extWidth) + "  " + l.Description
		sb.WriteString(strings.TrimRight(line, " "))
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(f.writer, sb.String())
	return err
}

// FormatLanguageText writes the detail of one language as plain text with
// descriptions wrapped to width.
func (f *Formatter) FormatLanguageText(l LanguageDTO, width int) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (lexer %d)\n", l.Name, l.ID)
	if l.Description != "" {
		sb.WriteString(paragraph(l.Description, width, 2))
	}

	if len(l.Properties) > 0 {
		sb.WriteString("\nProperties\n")
		nameWidth := 0
		for _, p := range l.Properties {
			nameWidth = max(nameWidth, runewidth.StringWidth(p.Name))
		}
		for _, p := range l.Properties {
			line := fmt.Sprintf("  %s  %-6s default %q", runewidth.FillRight(p.Name, nameWidth), p.Type, p.Default)
			sb.WriteString(line + "\n")
			if p.Description != "" {
				sb.WriteString(paragraph(p.Description, width, 6))
			}
		}
	}

	if len(l.WordLists) > 0 {
		sb.WriteString("\nKeyword lists\n")
		for _, w := range l.WordLists {
			sb.WriteString(paragraph(fmt.Sprintf("%d. %s", w.Slot, w.Description), width, 2))
		}
	}

	if len(l.Styles) > 0 {
		sb.WriteString("\nStyles\n")
		nameWidth := 0
		for _, s := range l.Styles {
			nameWidth = max(nameWidth, runewidth.StringWidth(s.Name))
		}
		for _, s := range l.Styles {
			line := fmt.Sprintf("  %3d  %s  %s", s.Value, runewidth.FillRight(s.Name, nameWidth), s.Tags)
			sb.WriteString(strings.TrimRight(line, " ") + "\n")
		}
	}
	_, err := io.WriteString(f.writer, sb.String())
	return err
}

// paragraph wraps text to width and indents every line by n spaces.
func paragraph(text string, width, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	if width > n {
		text = wordwrap.String(text, width-n)
	}
	return indent.String(text, uint(n)) + "\n"
}
