// Package flags holds the feature flags read from the flags section of the
// configuration. Flags are read-only after construction and unknown flags
// are off.
package flags

import (
	"fmt"
	"maps"
	"slices"

	"github.com/zjrosen/stylex/internal/log"
)

const (
	// FlagChromaDetect lets language detection fall back to chroma's
	// filename registry when no extension or shebang matches.
	FlagChromaDetect = "chroma-detect"

	// FlagModelines applies "stylex:" modelines found near the top or
	// bottom of a document.
	FlagModelines = "modelines"

	// FlagFoldMargin draws the fold margin in rendered output.
	FlagFoldMargin = "fold-margin"
)

// Defaults returns the value of every known flag when unconfigured.
func Defaults() map[string]bool {
	return map[string]bool{
		FlagChromaDetect: false,
		FlagModelines:    true,
		FlagFoldMargin:   true,
	}
}

// Registry holds feature flag state.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from configured values layered over Defaults.
func New(configured map[string]bool) *Registry {
	flags := Defaults()
	maps.Copy(flags, configured)
	r := &Registry{flags: flags}
	log.Debug(log.CatConfig, "feature flags initialized", "count", len(flags), "flags", r.All())
	return r
}

// Enabled reports whether the named flag is on. Unknown flags and a nil
// registry report false.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	value, exists := r.flags[name]
	if !exists {
		log.Debug(log.CatConfig, "unknown flag accessed", "flag", name)
		return false
	}
	return value
}

// All returns a copy of all flags.
func (r *Registry) All() map[string]bool {
	if r == nil {
		return map[string]bool{}
	}
	return maps.Clone(r.flags)
}

// Validate rejects configured flag names that no code reads.
func Validate(configured map[string]bool) error {
	known := Defaults()
	for _, name := range slices.Sorted(maps.Keys(configured)) {
		if _, ok := known[name]; !ok {
			return fmt.Errorf("unknown feature flag %q (known: %v)", name, slices.Sorted(maps.Keys(known)))
		}
	}
	return nil
}
