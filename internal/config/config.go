// Package config provides configuration types and defaults for stylex.
package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/zjrosen/stylex/internal/cachemanager"
	"github.com/zjrosen/stylex/internal/catalogue"
	"github.com/zjrosen/stylex/internal/flags"
	"github.com/zjrosen/stylex/internal/log"
	"github.com/zjrosen/stylex/internal/paths"
	"github.com/zjrosen/stylex/internal/session"
	"github.com/zjrosen/stylex/internal/tracing"
)

var (
	// ErrUnknownProperty is returned for a property the language's lexer
	// does not define.
	ErrUnknownProperty = errors.New("unknown property")
	// ErrInvalidWordList is returned for a keyword slot or sub-style base
	// the lexer does not have.
	ErrInvalidWordList = errors.New("invalid word list")
)

// KeyDelimiter separates nested keys in viper. Property names contain dots,
// so the default delimiter would split them.
const KeyDelimiter = "::"

// Config holds all configuration options for stylex.
type Config struct {
	Languages  map[string]LanguageConfig `mapstructure:"languages" yaml:"languages,omitempty"`
	Extensions map[string]string         `mapstructure:"extensions" yaml:"extensions,omitempty"`
	Theme      ThemeConfig               `mapstructure:"theme" yaml:"theme"`
	Watch      WatchConfig               `mapstructure:"watch" yaml:"watch"`
	Cache      CacheConfig               `mapstructure:"cache" yaml:"cache"`
	Tracing    tracing.Config            `mapstructure:"tracing" yaml:"tracing"`
	Log        LogConfig                 `mapstructure:"log" yaml:"log"`
	Flags      map[string]bool           `mapstructure:"flags" yaml:"flags,omitempty"`
}

// LanguageConfig holds the lexer settings for one language.
type LanguageConfig struct {
	// Properties may be flat ("fold.compact": 1) or nested YAML
	// (fold: {compact: 1}); see FlattenedProperties.
	Properties map[string]any   `mapstructure:"properties" yaml:"properties,omitempty"`
	Keywords   []KeywordList    `mapstructure:"keywords" yaml:"keywords,omitempty"`
	SubStyles  []SubStyleConfig `mapstructure:"substyles" yaml:"substyles,omitempty"`
	CodePage   int              `mapstructure:"code_page" yaml:"code_page,omitempty"`
}

// KeywordList replaces the words of one keyword slot.
type KeywordList struct {
	Slot  int    `mapstructure:"slot" yaml:"slot"`
	Words string `mapstructure:"words" yaml:"words"`
}

// SubStyleConfig allocates one sub-style of Base per identifier list.
type SubStyleConfig struct {
	Base        int      `mapstructure:"base" yaml:"base"`
	Identifiers []string `mapstructure:"identifiers" yaml:"identifiers"`
}

// FlattenedProperties returns the properties with nested keys joined by
// dots and values as lexer property strings. Booleans become "1" or "0".
func (l LanguageConfig) FlattenedProperties() map[string]string {
	result := make(map[string]string)
	flatten("", l.Properties, result)
	return result
}

// Settings converts the language config to session settings.
func (l LanguageConfig) Settings() session.Settings {
	s := session.Settings{
		Properties: l.FlattenedProperties(),
		CodePage:   l.CodePage,
	}
	if len(l.Keywords) > 0 {
		s.Keywords = make(map[int]string, len(l.Keywords))
		for _, k := range l.Keywords {
			s.Keywords[k.Slot] = k.Words
		}
	}
	if len(l.SubStyles) > 0 {
		s.SubStyles = make(map[int][]string, len(l.SubStyles))
		for _, ss := range l.SubStyles {
			s.SubStyles[ss.Base] = append(s.SubStyles[ss.Base], ss.Identifiers...)
		}
	}
	return s
}

// ThemeConfig maps lexical class tags to colours.
type ThemeConfig struct {
	// Mode forces light or dark rendering. If empty, uses terminal detection.
	// Valid values: "light", "dark", ""
	Mode string `mapstructure:"mode" yaml:"mode,omitempty"`

	// Colors maps tags to colours. A style with tags "comment line" looks
	// up "comment.line" first, then "comment".
	// Example YAML:
	//   colors:
	//     comment: "#6A9955"
	//     literal:
	//       string: "#CE9178"
	Colors map[string]any `mapstructure:"colors" yaml:"colors,omitempty"`

	// FoldMargin colours the line numbers and fold markers.
	FoldMargin string `mapstructure:"fold_margin" yaml:"fold_margin,omitempty"`
}

// FlattenedColors returns the Colors map flattened to dot-notation keys.
// This handles both nested YAML structures and already-flat keys.
func (t ThemeConfig) FlattenedColors() map[string]string {
	result := make(map[string]string)
	flatten("", t.Colors, result)
	return result
}

// flatten recursively flattens a nested map into dot-notation keys.
func flatten(prefix string, m map[string]any, result map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			result[key] = val
		case bool:
			result[key] = "0"
			if val {
				result[key] = "1"
			}
		case int, int64, float64, uint64:
			result[key] = fmt.Sprint(val)
		case map[string]any:
			flatten(key, val, result)
		case map[any]any:
			// YAML sometimes produces map[any]any instead of map[string]any
			converted := make(map[string]any)
			for mk, mv := range val {
				if strKey, ok := mk.(string); ok {
					converted[strKey] = mv
				}
			}
			flatten(key, converted, result)
		}
	}
}

// WatchConfig configures file following.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// CacheConfig configures the session and description caches.
type CacheConfig struct {
	SessionTTL      time.Duration `mapstructure:"session_ttl" yaml:"session_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" yaml:"cleanup_interval"`
}

// LogConfig configures the debug log.
type LogConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path,omitempty"`
	// Level is debug, info, warn or error.
	Level string `mapstructure:"level" yaml:"level"`
}

// Language returns the settings for name, matched case-insensitively.
func (c Config) Language(name string) LanguageConfig {
	for key, lang := range c.Languages {
		if strings.EqualFold(key, name) {
			return lang
		}
	}
	return LanguageConfig{}
}

// Settings returns the session settings configured for language.
func (c Config) Settings(language string) session.Settings {
	return c.Language(language).Settings()
}

// FlagRegistry returns the feature flags layered over their defaults.
func (c Config) FlagRegistry() *flags.Registry {
	return flags.New(c.Flags)
}

// TracingConfig returns the tracing settings with the default file path
// filled in.
func (c Config) TracingConfig() tracing.Config {
	t := c.Tracing
	if t.FilePath == "" {
		t.FilePath = paths.DefaultTracesFile()
	}
	return t
}

// Apply registers the configured extensions with cat.
func (c Config) Apply(cat *catalogue.Catalogue) error {
	for _, ext := range slices.Sorted(maps.Keys(c.Extensions)) {
		if err := cat.MapExtension(ext, c.Extensions[ext]); err != nil {
			return err
		}
	}
	return nil
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Theme: ThemeConfig{
			Colors: map[string]any{
				"comment":               "#6A9955",
				"comment.documentation": "#608B4E",
				"keyword":               "#569CD6",
				"literal":               "#B5CEA8",
				"literal.string":        "#CE9178",
				"operator":              "#D4D4D4",
				"preprocessor":          "#C586C0",
				"error":                 "#F44747",
				"inactive":              "#808080",
			},
			FoldMargin: "#858585",
		},
		Watch: WatchConfig{Debounce: 100 * time.Millisecond},
		Cache: CacheConfig{
			SessionTTL:      cachemanager.DefaultExpiration,
			CleanupInterval: cachemanager.DefaultCleanupInterval,
		},
		Tracing: tracing.DefaultConfig(),
		Log:     LogConfig{Level: "info"},
		Flags:   flags.Defaults(),
	}
}

// Load reads the configuration from v over the defaults. v should be
// created with KeyDelimiter so property names keep their dots.
func Load(v *viper.Viper) (Config, error) {
	cfg := Defaults()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// NewViper returns a viper instance that keeps dotted property names intact.
func NewViper() *viper.Viper {
	v := viper.NewWithOptions(viper.KeyDelimiter(KeyDelimiter))
	v.SetConfigType("yaml")
	return v
}

// Validate checks the whole configuration against the languages in cat.
func Validate(c Config, cat *catalogue.Catalogue) error {
	if err := ValidateLanguages(c.Languages, cat); err != nil {
		return err
	}
	for _, ext := range slices.Sorted(maps.Keys(c.Extensions)) {
		if _, err := cat.Lookup(c.Extensions[ext]); err != nil {
			return fmt.Errorf("extensions.%s: %w", ext, err)
		}
	}
	if err := ValidateTheme(c.Theme); err != nil {
		return err
	}
	if err := ValidateTracing(c.Tracing); err != nil {
		return err
	}
	if err := ValidateLog(c.Log); err != nil {
		return err
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %v", c.Watch.Debounce)
	}
	return flags.Validate(c.Flags)
}

// ValidateLanguages checks every configured language exists and that its
// properties, keyword slots and sub-style bases are ones its lexer has.
func ValidateLanguages(languages map[string]LanguageConfig, cat *catalogue.Catalogue) error {
	for _, name := range slices.Sorted(maps.Keys(languages)) {
		lang := languages[name]
		m, err := cat.Lookup(name)
		if err != nil {
			return fmt.Errorf("languages.%s: %w", name, err)
		}

		known := map[string]bool{}
		for _, p := range m.Properties() {
			known[p.Name] = true
		}
		props := lang.FlattenedProperties()
		for _, key := range slices.Sorted(maps.Keys(props)) {
			if !known[key] {
				return fmt.Errorf("languages.%s.properties: %q: %w", name, key, ErrUnknownProperty)
			}
		}

		slots := map[int]bool{}
		for _, wl := range m.WordLists() {
			slots[wl.Index] = true
		}
		for _, k := range lang.Keywords {
			if !slots[k.Slot] {
				return fmt.Errorf("languages.%s.keywords: slot %d: %w", name, k.Slot, ErrInvalidWordList)
			}
		}

		bases := m.New().SubStyleBases()
		for _, ss := range lang.SubStyles {
			if ss.Base < 0 || ss.Base > 255 || strings.IndexByte(bases, byte(ss.Base)) < 0 {
				return fmt.Errorf("languages.%s.substyles: base %d has no sub-styles: %w", name, ss.Base, ErrInvalidWordList)
			}
		}
	}
	return nil
}

// ValidateTheme checks theme configuration for errors.
func ValidateTheme(theme ThemeConfig) error {
	switch theme.Mode {
	case "", "light", "dark":
	default:
		return fmt.Errorf("theme.mode must be \"light\", \"dark\" or empty, got %q", theme.Mode)
	}
	colors := theme.FlattenedColors()
	for _, tag := range slices.Sorted(maps.Keys(colors)) {
		if !validColor(colors[tag]) {
			return fmt.Errorf("theme.colors.%s: invalid colour %q", tag, colors[tag])
		}
	}
	if theme.FoldMargin != "" && !validColor(theme.FoldMargin) {
		return fmt.Errorf("theme.fold_margin: invalid colour %q", theme.FoldMargin)
	}
	return nil
}

// validColor accepts #RGB, #RRGGBB and ANSI colour numbers.
func validColor(c string) bool {
	if hex, ok := strings.CutPrefix(c, "#"); ok {
		if len(hex) != 3 && len(hex) != 6 {
			return false
		}
		for _, r := range hex {
			if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
				return false
			}
		}
		return true
	}
	if c == "" || len(c) > 3 {
		return false
	}
	for _, r := range c {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(t tracing.Config) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}

	if t.Exporter != "" {
		switch t.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", t.Exporter)
		}
	}

	if t.Enabled && t.Exporter == "otlp" && t.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}

	return nil
}

// ValidateLog checks log configuration for errors.
func ValidateLog(l LogConfig) error {
	if _, err := log.ParseLevel(l.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# stylex configuration

# Per-language lexer settings. Names are those listed by 'stylex languages'.
# languages:
#   cpp:
#     properties:
#       fold: 1
#       fold.comment: 1
#       lexer.cpp.track.preprocessor: 0
#     keywords:
#       - slot: 1
#         words: "size_t uint8_t"
#     substyles:
#       - base: 11          # SCE_C_IDENTIFIER
#         identifiers: ["std vector string"]
#   lua:
#     properties:
#       fold:
#         compact: 0       # nested keys are joined with dots
#   nim:
#     code_page: 0         # 0 is UTF-8; 932, 936, 949 and 950 are DBCS

# Extra file extensions, without the leading dot
# extensions:
#   rockspec: lua
#   hh: cpp

# Colours for lexical class tags ('stylex describe LANG' lists each style's tags)
theme:
  # mode: dark            # "light", "dark" or empty for terminal detection
  colors:
    comment: "#6A9955"
    comment.documentation: "#608B4E"
    keyword: "#569CD6"
    literal: "#B5CEA8"
    literal.string: "#CE9178"
    operator: "#D4D4D4"
    preprocessor: "#C586C0"
    error: "#F44747"
    inactive: "#808080"
  fold_margin: "#858585"

# File following for 'stylex watch' and 'stylex view --watch'
watch:
  debounce: 100ms

# Open documents are dropped after being idle this long
cache:
  session_ttl: 30m
  cleanup_interval: 5m

# Tracing of lex and fold passes
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/stylex/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)

# Debug log
log:
  enabled: false
  # path: ~/.config/stylex/stylex.log
  level: info                      # debug, info, warn or error

# Feature flags
flags:
  chroma-detect: false             # fall back to chroma's filename registry
  modelines: true                  # read "stylex:" modelines
  fold-margin: true                # show the fold margin in 'view'
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
