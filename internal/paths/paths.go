// Package paths resolves where stylex keeps its configuration and output
// files.
package paths

import (
	"os"
	"path/filepath"
)

const (
	appName    = "stylex"
	configName = "config.yaml"
)

// LocalConfigFile is the project config, relative to the working directory.
var LocalConfigFile = filepath.Join("."+appName, configName)

// UserConfigDir returns ~/.config/stylex, or "" when the home directory is
// unknown.
func UserConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// UserConfigFile returns ~/.config/stylex/config.yaml, or "".
func UserConfigFile() string {
	dir := UserConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, configName)
}

// DefaultTracesFile returns where the file trace exporter writes by default.
func DefaultTracesFile() string {
	dir := UserConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// DefaultLogFile returns where the debug log goes by default.
func DefaultLogFile() string {
	dir := UserConfigDir()
	if dir == "" {
		return appName + ".log"
	}
	return filepath.Join(dir, appName+".log")
}

// ResolveConfigFile picks the config file to read. An explicit path wins,
// then the project file, then the user file. found reports whether the
// returned file exists; when nothing exists the project path is returned
// so a default can be written there.
func ResolveConfigFile(explicit string) (path string, found bool) {
	if explicit != "" {
		return explicit, exists(explicit)
	}
	if exists(LocalConfigFile) {
		return LocalConfigFile, true
	}
	if user := UserConfigFile(); user != "" && exists(user) {
		return user, true
	}
	return LocalConfigFile, false
}

func exists(path string) bool {
	_, err := os.Stat(path) //nolint:gosec // config paths come from the user
	return err == nil
}
