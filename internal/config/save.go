package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// WithProperty returns a copy of l with key set to value. Nested property
// maps are flattened so the key appears once.
func (l LanguageConfig) WithProperty(key, value string) LanguageConfig {
	props := make(map[string]any)
	for k, v := range l.FlattenedProperties() {
		props[k] = v
	}
	props[key] = value
	l.Properties = props
	return l
}

// WithKeywords returns a copy of l with slot replaced by words.
func (l LanguageConfig) WithKeywords(slot int, words string) LanguageConfig {
	lists := make([]KeywordList, 0, len(l.Keywords)+1)
	for _, k := range l.Keywords {
		if k.Slot != slot {
			lists = append(lists, k)
		}
	}
	l.Keywords = append(lists, KeywordList{Slot: slot, Words: words})
	return l
}

// SaveLanguage updates languages.<name> in the config file.
// This preserves comments and formatting in other sections by using yaml.Node.
func SaveLanguage(configPath, name string, lang LanguageConfig) error {
	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	// Parse into yaml.Node to preserve comments
	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	langNode := &yaml.Node{}
	if err := langNode.Encode(lang); err != nil {
		return fmt.Errorf("building %s node: %w", name, err)
	}

	if doc.Kind == 0 {
		// Empty or new file - create document structure
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("parsing config: top level is not a mapping")
	}

	languages := mappingValue(doc.Content[0], "languages")
	if languages.Kind != yaml.MappingNode {
		// A commented-out or null section becomes a real mapping.
		languages.Kind, languages.Tag, languages.Value = yaml.MappingNode, "!!map", ""
	}
	*mappingValue(languages, strings.ToLower(name)) = *langNode

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	return writeAtomic(configPath, buf.Bytes())
}

// mappingValue returns the value node for key in m, appending an empty one
// when key is missing.
func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i < len(m.Content)-1; i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	value := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, value)
	return value
}

// writeAtomic writes to a temp file next to path, then renames it.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".stylex.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
