package config

import (
	"bytes"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Export formats for Export.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Export renders c as YAML or TOML. Durations are written as strings such
// as "100ms" in both formats.
func Export(c Config, format string) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	switch format {
	case FormatYAML, "":
		return buf.Bytes(), nil
	case FormatTOML:
		// Going through a generic map keeps the YAML field names and
		// duration strings.
		var generic map[string]any
		if err := yaml.Unmarshal(buf.Bytes(), &generic); err != nil {
			return nil, fmt.Errorf("re-reading config: %w", err)
		}
		out, err := toml.Marshal(generic)
		if err != nil {
			return nil, fmt.Errorf("marshaling toml: %w", err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown export format %q (want %q or %q)", format, FormatYAML, FormatTOML)
}
