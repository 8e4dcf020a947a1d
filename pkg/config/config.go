// Package config loads and validates the compiler settings file.
//
// Settings come from three layers, later ones winning: built-in defaults,
// the YAML settings file, and ESPALIER_-prefixed environment variables
// (loaded from a .env file when present).
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the settings file used when no path is given on the CLI.
const DefaultFile = "espalier.yaml"

// Settings is the flat key/value configuration of one compile run.
type Settings struct {
	// PathArticyJSON points at the articy:draft JSON export. Required.
	PathArticyJSON string `yaml:"path_articy_json"`
	// PathTargetDir is the directory the generated tree is written to.
	// It should live inside the Ren'Py game/ directory. Required.
	PathTargetDir string `yaml:"path_target_dir"`

	FilePrefix         string `yaml:"file_prefix"`
	BaseFileName       string `yaml:"base_file_name"`
	VariablesFileName  string `yaml:"variables_file_name"`
	CharactersFileName string `yaml:"characters_file_name"`
	LogFileName        string `yaml:"log_file_name"`

	CharacterPrefix string `yaml:"character_prefix"`
	LabelPrefix     string `yaml:"label_prefix"`
	StartLabel      string `yaml:"start_label"`
	EndLabel        string `yaml:"end_label"`

	MenuDisplayTextBox   bool   `yaml:"menu_display_text_box"`
	MarkdownTextStyles   bool   `yaml:"markdown_text_styles"`
	RelativeImgsInBraces bool   `yaml:"relative_imgs_in_braces"`
	RepeatMenuText       bool   `yaml:"repeat_menu_text"`
	BeginningsLogLines   string `yaml:"beginnings_log_lines"`

	FeaturesRenpyCharacterParams string `yaml:"features_renpy_character_params"`
	CharacterNameVariable        string `yaml:"character_name_variable"`
	RenpyBox                     string `yaml:"renpy_box"`

	// Process-level options, environment only.
	RedisAddr string `yaml:"-"`
	Debug     bool   `yaml:"-"`
}

type envOverrides struct {
	ArticyJSON string `env:"ESPALIER_ARTICY_JSON"`
	TargetDir  string `env:"ESPALIER_TARGET_DIR"`
	RedisAddr  string `env:"ESPALIER_REDIS_ADDR"`
	Debug      bool   `env:"ESPALIER_DEBUG"`
}

// Defaults returns the built-in settings. The two path keys have no default.
func Defaults() Settings {
	return Settings{
		FilePrefix:                   "articy_",
		BaseFileName:                 "base.rpy",
		VariablesFileName:            "variables.rpy",
		CharactersFileName:           "characters.rpy",
		LogFileName:                  "log.txt",
		CharacterPrefix:              "character_",
		LabelPrefix:                  "label_",
		StartLabel:                   "start",
		EndLabel:                     "end",
		MenuDisplayTextBox:           true,
		MarkdownTextStyles:           true,
		RelativeImgsInBraces:         true,
		RepeatMenuText:               true,
		BeginningsLogLines:           "# todo",
		FeaturesRenpyCharacterParams: "RenPyCharacterParams",
		CharacterNameVariable:        "name",
		RenpyBox:                     "RenPyBox, RenPyBoxMenuChoice",
	}
}

// Load reads the settings file at path (DefaultFile when empty), applies
// environment overrides and validates the result.
func Load(path string) (*Settings, error) {
	// A .env next to the working directory is a convenience for dev setups.
	_ = godotenv.Load()

	if path == "" {
		path = DefaultFile
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings %s: %w", path, err)
	}

	s := Defaults()
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}

	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if o.ArticyJSON != "" {
		s.PathArticyJSON = o.ArticyJSON
	}
	if o.TargetDir != "" {
		s.PathTargetDir = o.TargetDir
	}
	if o.RedisAddr != "" {
		s.RedisAddr = o.RedisAddr
	}
	if o.Debug {
		s.Debug = true
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("settings %s: %w", path, err)
	}
	return &s, nil
}

// Validate checks the required keys.
func (s *Settings) Validate() error {
	var missing []string
	if s.PathArticyJSON == "" {
		missing = append(missing, "path_articy_json")
	}
	if s.PathTargetDir == "" {
		missing = append(missing, "path_target_dir")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required keys: %s", strings.Join(missing, ", "))
	}
	return nil
}

// MarkerPrefixes returns the lowercased beginnings_log_lines entries.
func (s *Settings) MarkerPrefixes() []string {
	parts := SplitList(s.BeginningsLogLines)
	for i, p := range parts {
		parts[i] = strings.ToLower(p)
	}
	return parts
}

// RawBoxTypes returns the technical type names treated as raw code boxes.
func (s *Settings) RawBoxTypes() map[string]bool {
	set := make(map[string]bool)
	for _, t := range SplitList(s.RenpyBox) {
		set[t] = true
	}
	return set
}

// CharacterParamFeatures returns the template feature names whose properties
// are passed through as character keyword arguments.
func (s *Settings) CharacterParamFeatures() map[string]bool {
	set := make(map[string]bool)
	for _, t := range SplitList(s.FeaturesRenpyCharacterParams) {
		set[t] = true
	}
	return set
}

// SplitList splits a comma-separated list, honoring double-quoted segments:
// a comma inside quotes does not separate. Segments are trimmed, surrounding
// quotes removed, and empty entries dropped. The same rules apply to the
// per-node directive strings, which is why the splitter lives here.
func SplitList(s string) []string {
	var (
		parts   []string
		current strings.Builder
		quoted  bool
	)
	flush := func() {
		p := Unquote(strings.TrimSpace(current.String()))
		if p != "" {
			parts = append(parts, p)
		}
		current.Reset()
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && quoted && i+1 < len(s):
			current.WriteByte(c)
			i++
			current.WriteByte(s[i])
		case c == '"':
			quoted = !quoted
			current.WriteByte(c)
		case c == ',' && !quoted:
			flush()
		default:
			current.WriteByte(c)
		}
	}
	flush()
	return parts
}

// SplitTop splits on sep at the top level only (outside double quotes),
// without trimming or unquoting. Used for key=value directive segments.
func SplitTop(s string, sep byte) []string {
	var (
		parts   []string
		start   int
		quoted  bool
		escaped bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && quoted:
			escaped = true
		case c == '"':
			quoted = !quoted
		case c == sep && !quoted:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// Unquote strips one pair of surrounding double quotes and unescapes \" and
// \\ inside. Anything else is returned unchanged.
func Unquote(s string) string {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	inner := s[1 : len(s)-1]
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) && (inner[i+1] == '"' || inner[i+1] == '\\') {
			i++
		}
		b.WriteByte(inner[i])
	}
	return b.String()
}
