package rules

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// LoadScript reads an embedded transform script by name, with a disk copy
// under rules/scripts/ taking precedence so scripts can be edited without
// rebuilding.
func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(filepath.Join("rules", filepath.FromSlash(clean))); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

//go:embed *.yaml
var RulesFS embed.FS

// Load reads a rules file, preferring a copy on disk under rules/ and
// falling back to the embedded defaults.
func Load(name string) ([]byte, error) {
	clean := cleanRulesPath(name)
	if data, err := os.ReadFile(diskRulesPath(clean)); err == nil {
		return data, nil
	}
	return RulesFS.ReadFile(clean)
}

func cleanRulesPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if strings.HasPrefix(s, "rules/") {
		return strings.TrimPrefix(s, "rules/")
	}
	return s
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}

	s := filepath.ToSlash(path)

	if after, ok := strings.CutPrefix(s, "rules/scripts/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "rules/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}

	return fmt.Sprintf("scripts/%s", s)
}

func diskRulesPath(clean string) string {
	return filepath.Join("rules", filepath.FromSlash(clean))
}
