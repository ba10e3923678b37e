// Package config loads user preferences: theme and command aliases.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/todoapp/todoapp-go/internal/task"
)

const (
	fileNameJSON = "config.json"
	fileNameTOML = "config.toml"

	// EnvConfigPath overrides the default config location.
	EnvConfigPath = "TODOAPP_CONFIG_PATH"
)

// Config holds cosmetic preferences consumed by the command layer. The core
// task and store packages never read it.
type Config struct {
	Theme   string            `json:"theme,omitempty" toml:"theme"`
	Aliases map[string]string `json:"aliases,omitempty" toml:"aliases"`
}

// Default returns an empty configuration.
func Default() Config {
	return Config{Aliases: map[string]string{}}
}

// Path resolves the config file location: TODOAPP_CONFIG_PATH when set,
// otherwise config.json in the per-user todoapp directory. When only a
// config.toml exists there, that file is used instead.
func Path() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}

	dir, err := configDir()
	if err != nil {
		return "", err
	}
	jsonPath := filepath.Join(dir, fileNameJSON)
	if _, err := os.Stat(jsonPath); err == nil {
		return jsonPath, nil
	}
	tomlPath := filepath.Join(dir, fileNameTOML)
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath, nil
	}
	return jsonPath, nil
}

func configDir() (string, error) {
	if runtime.GOOS == "windows" {
		appdata := os.Getenv("APPDATA")
		if appdata == "" {
			return "", task.Errorf(task.CodeIO, "APPDATA is not set")
		}
		return filepath.Join(appdata, "todoapp"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", task.Errorf(task.CodeIO, "resolve home directory: %v", err)
	}
	return filepath.Join(home, ".config", "todoapp"), nil
}

// LoadFromPath reads and decodes a config file. The format follows the file
// extension: .toml is decoded as TOML, everything else as JSON.
func LoadFromPath(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), task.Errorf(task.CodeIO, "read config %s: %v", path, err)
	}

	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Default(), task.Errorf(task.CodeCorruptStore, "invalid TOML in %s: %v", path, err)
		}
	} else {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Default(), task.Errorf(task.CodeCorruptStore, "invalid JSON in %s: %v", path, err)
		}
	}

	if cfg.Aliases == nil {
		cfg.Aliases = map[string]string{}
	}
	cfg.Theme = CanonicalTheme(cfg.Theme)
	return cfg, nil
}

// LoadWithFallback loads the config file, degrading to defaults instead of
// failing: a missing file is a clean default, an unreadable one returns
// defaults together with the error so the caller can warn without aborting
// the task operation the user actually asked for.
func LoadWithFallback() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return LoadFromPath(path)
}

// Override is one parsed --config-override KEY=VALUE argument.
type Override struct {
	Theme bool   // target is the theme
	Alias string // alias name when targeting aliases.<name>
	Value string
}

// ParseOverride parses a raw KEY=VALUE override. Recognized keys are
// "theme" and "aliases.<name>" (singular "alias" accepted); key names are
// canonicalized the same way theme names are.
func ParseOverride(raw string) (Override, error) {
	key, value, ok := strings.Cut(strings.TrimSpace(raw), "=")
	if !ok {
		return Override{}, task.Errorf(task.CodeInvalidInput, "override must be in KEY=VALUE format")
	}
	value = strings.TrimSpace(value)

	field, remainder, hasSub := strings.Cut(key, ".")
	field = canonicalToken(field)
	if field == "" {
		return Override{}, task.Errorf(task.CodeInvalidInput, "override key cannot be empty")
	}

	switch field {
	case "theme":
		if hasSub {
			return Override{}, task.Errorf(task.CodeInvalidInput, "theme override cannot have subfields")
		}
		return Override{Theme: true, Value: value}, nil
	case "aliases", "alias":
		alias := strings.TrimSpace(remainder)
		if !hasSub || alias == "" {
			return Override{}, task.Errorf(task.CodeInvalidInput, "aliases override requires an alias name")
		}
		return Override{Alias: alias, Value: value}, nil
	default:
		return Override{}, task.Errorf(task.CodeInvalidInput, "unknown config field %q", field)
	}
}

// Merge applies overrides on top of the base config, returning a new value.
func (c Config) Merge(overrides []Override) Config {
	merged := Config{Theme: c.Theme, Aliases: make(map[string]string, len(c.Aliases))}
	for k, v := range c.Aliases {
		merged.Aliases[k] = v
	}
	for _, o := range overrides {
		if o.Theme {
			merged.Theme = CanonicalTheme(o.Value)
			continue
		}
		merged.Aliases[o.Alias] = o.Value
	}
	return merged
}

// CanonicalTheme normalizes a theme name: lowercased, punctuation runs
// squashed to underscores, with legacy names mapped to their canonical
// equivalents. Blank input means the default theme.
func CanonicalTheme(raw string) string {
	cleaned := canonicalToken(raw)
	if cleaned == "" {
		return "default"
	}
	switch cleaned {
	case "vanilla", "light":
		return "default"
	case "dark", "dark_mode", "darkmode":
		return "noir"
	default:
		return cleaned
	}
}

func canonicalToken(raw string) string {
	var b strings.Builder
	previousUnderscore := false
	for _, ch := range strings.ToLower(raw) {
		if (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') {
			b.WriteRune(ch)
			previousUnderscore = false
		} else if !previousUnderscore && b.Len() > 0 {
			b.WriteByte('_')
			previousUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}

// ExpandAlias rewrites the first argument through the alias table. An alias
// value may contain multiple words ("ls" -> "list today"). Expansion is a
// single pass; aliases do not recurse.
func (c Config) ExpandAlias(args []string) []string {
	if len(args) == 0 {
		return args
	}
	expansion, ok := c.Aliases[args[0]]
	if !ok || strings.TrimSpace(expansion) == "" {
		return args
	}
	expanded := strings.Fields(expansion)
	out := make([]string, 0, len(expanded)+len(args)-1)
	out = append(out, expanded...)
	out = append(out, args[1:]...)
	return out
}

// Describe returns a short human-readable summary used by the config
// command.
func (c Config) Describe() string {
	theme := c.Theme
	if theme == "" {
		theme = "default"
	}
	return fmt.Sprintf("theme=%s aliases=%d", theme, len(c.Aliases))
}
